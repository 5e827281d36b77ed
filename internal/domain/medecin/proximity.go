package medecin

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/mediconnect/mediconnect/internal/platform/geo"
)

// Proche is a doctor annotated with the distance from the search origin.
type Proche struct {
	Medecin
	DistanceKm float64 `json:"distance,omitempty"`
}

// ProximitySearcher finds bookable doctors near a coordinate. Two
// implementations exist: RemoteSearcher asks the backend's /proches
// endpoint, LocalSearcher ranks a locally fetched list by haversine
// distance. Callers pick one explicitly; there is no silent fallback.
type ProximitySearcher interface {
	Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]Proche, error)
}

// RemoteSearcher delegates proximity search to the backend. Results are
// still filtered client-side on the disponible+validated invariant, since
// the backend is not trusted to enforce it.
type RemoteSearcher struct {
	svc *Service
}

func NewRemoteSearcher(svc *Service) *RemoteSearcher {
	return &RemoteSearcher{svc: svc}
}

func (r *RemoteSearcher) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]Proche, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%g", lat))
	q.Set("lng", fmt.Sprintf("%g", lng))
	q.Set("rayon", fmt.Sprintf("%g", radiusKm))

	var results []Proche
	if err := r.svc.api.Get(ctx, "/medecins/proches?"+q.Encode(), &results); err != nil {
		return nil, err
	}

	filtered := results[:0]
	for _, p := range results {
		if p.Bookable() {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// LocalSearcher fetches the full doctor list and ranks it by great-circle
// distance. Used when the backend proximity endpoint is unavailable.
type LocalSearcher struct {
	svc *Service
}

func NewLocalSearcher(svc *Service) *LocalSearcher {
	return &LocalSearcher{svc: svc}
}

func (l *LocalSearcher) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]Proche, error) {
	medecins, err := l.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(medecins, lat, lng, radiusKm), nil
}

// Rank filters a doctor list to bookable, located doctors within radiusKm of
// the origin and sorts it by ascending distance.
func Rank(medecins []Medecin, lat, lng, radiusKm float64) []Proche {
	var results []Proche
	for _, m := range medecins {
		if !m.Bookable() || !m.Located() {
			continue
		}
		d := geo.Haversine(lat, lng, *m.Latitude, *m.Longitude)
		if radiusKm > 0 && d > radiusKm {
			continue
		}
		results = append(results, Proche{Medecin: m, DistanceKm: d})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})
	return results
}
