// Package centre is the typed client for the /centres-sante resource.
package centre

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mediconnect/mediconnect/internal/platform/httpclient"
)

type Service struct {
	api *httpclient.Client
}

func NewService(api *httpclient.Client) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context) ([]CentreSante, error) {
	var out []CentreSante
	if err := s.api.Get(ctx, "/centres-sante", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int) (*CentreSante, error) {
	var out CentreSante
	if err := s.api.Get(ctx, fmt.Sprintf("/centres-sante/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Create(ctx context.Context, c CentreSante) (*CentreSante, error) {
	var out CentreSante
	if err := s.api.Post(ctx, "/centres-sante", c, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Update(ctx context.Context, id int, c CentreSante) (*CentreSante, error) {
	var out CentreSante
	if err := s.api.Put(ctx, fmt.Sprintf("/centres-sante/%d", id), c, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.api.Delete(ctx, fmt.Sprintf("/centres-sante/%d", id))
}

// Nearby asks the backend for centers within radiusKm of a coordinate.
func (s *Service) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]CentreSante, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%g", lat))
	q.Set("lng", fmt.Sprintf("%g", lng))
	q.Set("rayon", fmt.Sprintf("%g", radiusKm))

	var out []CentreSante
	if err := s.api.Get(ctx, "/centres-sante/proches?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out, nil
}
