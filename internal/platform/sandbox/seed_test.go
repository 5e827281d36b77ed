package sandbox

import (
	"testing"

	"github.com/mediconnect/mediconnect/internal/domain/rendezvous"
)

func TestSeedDataset(t *testing.T) {
	s := NewStore()
	Seed(s)

	if n := len(s.ListMedecins()); n != 4 {
		t.Errorf("medecins = %d, want 4", n)
	}
	if n := len(s.ListPatients()); n != 2 {
		t.Errorf("patients = %d, want 2", n)
	}
	if n := len(s.ListCentres()); n != 2 {
		t.Errorf("centres = %d, want 2", n)
	}

	validated := 0
	for _, m := range s.ListMedecins() {
		if m.Validated {
			validated++
		}
	}
	if validated != 3 {
		t.Errorf("validated doctors = %d, want 3 (one pending)", validated)
	}

	// The three appointments cover pending, accepted and terminated so a
	// fresh sandbox exercises every lifecycle branch.
	want := map[int]rendezvous.Statut{
		1: rendezvous.StatutEnAttente,
		2: rendezvous.StatutAccepte,
		3: rendezvous.StatutTermine,
	}
	for id, statut := range want {
		r, ok := s.GetRendezVous(id)
		if !ok {
			t.Fatalf("rendez-vous %d missing", id)
		}
		if r.Statut != statut {
			t.Errorf("rendez-vous %d statut = %q, want %q", id, r.Statut, statut)
		}
	}

	r1, _ := s.GetRendezVous(1)
	if !r1.Teleconsultation() {
		t.Error("rendez-vous 1 should be a teleconsultation")
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	a, b := NewStore(), NewStore()
	Seed(a)
	Seed(b)

	am, bm := a.ListMedecins(), b.ListMedecins()
	if len(am) != len(bm) {
		t.Fatalf("doctor counts differ: %d vs %d", len(am), len(bm))
	}
	for i := range am {
		if am[i].ID != bm[i].ID || am[i].Nom != bm[i].Nom {
			t.Errorf("doctor %d differs between seeds", i)
		}
	}
}
