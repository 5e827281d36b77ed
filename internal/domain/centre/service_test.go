package centre

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mediconnect/mediconnect/internal/platform/httpclient"
	"github.com/mediconnect/mediconnect/internal/platform/storage"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	kv, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewService(httpclient.New(httpclient.Config{BaseURL: srv.URL, Store: kv}))
}

func TestNearby_QueryParameters(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/centres-sante/proches" {
			t.Errorf("expected /centres-sante/proches, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("lat") != "5.3599" || q.Get("lng") != "-4.0083" || q.Get("rayon") != "15" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode([]CentreSante{{ID: 1, Nom: "CHU de Cocody"}})
	})

	centres, err := svc.Nearby(context.Background(), 5.3599, -4.0083, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(centres) != 1 || centres[0].Nom != "CHU de Cocody" {
		t.Errorf("unexpected centres: %+v", centres)
	}
}

func TestList_PassThrough(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]CentreSante{
			{ID: 2, Nom: "Polyclinique des Deux Plateaux", Specialites: []string{"Cardiologie"}},
			{ID: 1, Nom: "CHU de Cocody"},
		})
	})

	centres, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(centres) != 2 || centres[0].ID != 2 {
		t.Errorf("expected backend order preserved, got %+v", centres)
	}
}
