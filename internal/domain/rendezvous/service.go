// Package rendezvous is the typed client for the /rendezvous resource and
// the appointment lifecycle it enforces.
package rendezvous

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

func (s *Service) List(ctx context.Context) ([]RendezVous, error) {
	var out []RendezVous
	if err := s.api.Get(ctx, "/rendezvous", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int) (*RendezVous, error) {
	var out RendezVous
	if err := s.api.Get(ctx, fmt.Sprintf("/rendezvous/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create books an appointment. New appointments always start EN_ATTENTE no
// matter what the caller put in Statut. Name snapshots travel in the
// payload; the backend stores them as-is.
func (s *Service) Create(ctx context.Context, r RendezVous) (*RendezVous, error) {
	r.Statut = StatutEnAttente
	var out RendezVous
	if err := s.api.Post(ctx, "/rendezvous", r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Update(ctx context.Context, id int, r RendezVous) (*RendezVous, error) {
	var out RendezVous
	if err := s.api.Put(ctx, fmt.Sprintf("/rendezvous/%d", id), r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.api.Delete(ctx, fmt.Sprintf("/rendezvous/%d", id))
}

// Accept moves a pending appointment to ACCEPTE. The transition is checked
// against the caller's view of the appointment before any network call, so
// a stale list cannot fire an illegal action.
func (s *Service) Accept(ctx context.Context, r *RendezVous) (*RendezVous, error) {
	if !r.Statut.CanAccept() {
		return nil, &TransitionError{From: r.Statut, Action: "accept"}
	}
	var out RendezVous
	if err := s.api.Patch(ctx, fmt.Sprintf("/rendezvous/%d/accept", r.ID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reject moves a pending appointment to REFUSE. Callers are expected to
// confirm with the user before invoking this; the service fires immediately.
func (s *Service) Reject(ctx context.Context, r *RendezVous) (*RendezVous, error) {
	if !r.Statut.CanReject() {
		return nil, &TransitionError{From: r.Statut, Action: "reject"}
	}
	var out RendezVous
	if err := s.api.Patch(ctx, fmt.Sprintf("/rendezvous/%d/reject", r.ID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartVideo requests a video-session link for an accepted teleconsultation.
// The link is opened in an external context; the client never hosts the
// call itself.
func (s *Service) StartVideo(ctx context.Context, r *RendezVous) (string, error) {
	if !r.CanStartVideo() {
		return "", &TransitionError{From: r.Statut, Action: "start video for"}
	}
	var out struct {
		LienVideo string `json:"lienVideo"`
	}
	if err := s.api.Post(ctx, fmt.Sprintf("/rendezvous/%d/start-video", r.ID), nil, &out); err != nil {
		return "", err
	}
	return out.LienVideo, nil
}
