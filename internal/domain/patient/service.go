// Package patient is the typed client for the /patients resource.
package patient

import (
	"context"
	"fmt"

	"github.com/mediconnect/mediconnect/internal/platform/httpclient"
)

type Service struct {
	api *httpclient.Client
}

func NewService(api *httpclient.Client) *Service {
	return &Service{api: api}
}

// List returns all patients in backend order; no client-side filtering or
// pagination is applied.
func (s *Service) List(ctx context.Context) ([]Patient, error) {
	var out []Patient
	if err := s.api.Get(ctx, "/patients", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Patient, error) {
	var out Patient
	if err := s.api.Get(ctx, fmt.Sprintf("/patients/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create registers a patient; the backend assigns the id.
func (s *Service) Create(ctx context.Context, p Patient) (*Patient, error) {
	var out Patient
	if err := s.api.Post(ctx, "/patients", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Update(ctx context.Context, id int, p Patient) (*Patient, error) {
	var out Patient
	if err := s.api.Put(ctx, fmt.Sprintf("/patients/%d", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.api.Delete(ctx, fmt.Sprintf("/patients/%d", id))
}
