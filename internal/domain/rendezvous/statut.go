package rendezvous

import "fmt"

// Statut is the appointment lifecycle state.
//
//	EN_ATTENTE → ACCEPTE | REFUSE   (doctor action, client-triggerable)
//	ACCEPTE    → TERMINE            (backend-driven, reflected as-is)
//
// REFUSE and TERMINE are terminal. Values the client does not recognize are
// preserved verbatim but gate every action off.
type Statut string

const (
	StatutEnAttente Statut = "EN_ATTENTE"
	StatutAccepte   Statut = "ACCEPTE"
	StatutRefuse    Statut = "REFUSE"
	StatutTermine   Statut = "TERMINE"
)

// Known reports whether s is one of the four enumerated states.
func (s Statut) Known() bool {
	switch s {
	case StatutEnAttente, StatutAccepte, StatutRefuse, StatutTermine:
		return true
	}
	return false
}

// Terminal reports whether no further client action applies.
func (s Statut) Terminal() bool {
	return s == StatutRefuse || s == StatutTermine
}

// CanAccept reports whether the accept action is offered.
func (s Statut) CanAccept() bool {
	return s == StatutEnAttente
}

// CanReject reports whether the reject action is offered.
func (s Statut) CanReject() bool {
	return s == StatutEnAttente
}

// TransitionError is returned when a client action is attempted from a state
// that does not allow it.
type TransitionError struct {
	From   Statut
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("rendezvous: cannot %s from status %s", e.Action, e.From)
}
