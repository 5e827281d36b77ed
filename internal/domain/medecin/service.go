// Package medecin is the typed client for the /medecins resource, including
// admin validation and the two proximity-search strategies.
package medecin

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

func (s *Service) List(ctx context.Context) ([]Medecin, error) {
	var out []Medecin
	if err := s.api.Get(ctx, "/medecins", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Medecin, error) {
	var out Medecin
	if err := s.api.Get(ctx, fmt.Sprintf("/medecins/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create registers a doctor. New doctors start unvalidated and stay out of
// search results until an admin validates them.
func (s *Service) Create(ctx context.Context, m Medecin) (*Medecin, error) {
	var out Medecin
	if err := s.api.Post(ctx, "/medecins", m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Update(ctx context.Context, id int, m Medecin) (*Medecin, error) {
	var out Medecin
	if err := s.api.Put(ctx, fmt.Sprintf("/medecins/%d", id), m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.api.Delete(ctx, fmt.Sprintf("/medecins/%d", id))
}

// Validate flips the admin-gated validation flag, making the doctor
// searchable and bookable.
func (s *Service) Validate(ctx context.Context, id int) (*Medecin, error) {
	var out Medecin
	if err := s.api.Patch(ctx, fmt.Sprintf("/medecins/%d/validate", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
