// Package consultation is the typed client for the /consultations resource.
// Consultations are never deleted from the client; closing one goes through
// Terminer.
package consultation

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

func (s *Service) List(ctx context.Context) ([]Consultation, error) {
	var out []Consultation
	if err := s.api.Get(ctx, "/consultations", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Consultation, error) {
	var out Consultation
	if err := s.api.Get(ctx, fmt.Sprintf("/consultations/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Create(ctx context.Context, c Consultation) (*Consultation, error) {
	var out Consultation
	if err := s.api.Post(ctx, "/consultations", c, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Update(ctx context.Context, id int, c Consultation) (*Consultation, error) {
	var out Consultation
	if err := s.api.Put(ctx, fmt.Sprintf("/consultations/%d", id), c, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Terminer closes a consultation with the doctor's clinical notes. The
// ordonnance is optional.
func (s *Service) Terminer(ctx context.Context, id int, diagnostic, ordonnance string) (*Consultation, error) {
	body := map[string]string{"diagnostic": diagnostic}
	if ordonnance != "" {
		body["ordonnance"] = ordonnance
	}
	var out Consultation
	if err := s.api.Patch(ctx, fmt.Sprintf("/consultations/%d/terminer", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
