// Package sandbox provides an in-memory demo backend implementing the
// platform's REST contract. It exists for developer on-boarding, CLI demos,
// and integration tests of the client SDK; nothing here persists.
package sandbox

import (
	"sort"
	"sync"

	"github.com/mediconnect/mediconnect/internal/domain/centre"
	"github.com/mediconnect/mediconnect/internal/domain/consultation"
	"github.com/mediconnect/mediconnect/internal/domain/medecin"
	"github.com/mediconnect/mediconnect/internal/domain/patient"
	"github.com/mediconnect/mediconnect/internal/domain/rendezvous"
	"github.com/mediconnect/mediconnect/internal/platform/geo"
)

// Store is the in-memory dataset behind the sandbox handlers. Ids are
// sequential per collection, like the backend it mimics.
type Store struct {
	mu sync.Mutex

	patients      map[int]patient.Patient
	medecins      map[int]medecin.Medecin
	rendezvous    map[int]rendezvous.RendezVous
	consultations map[int]consultation.Consultation
	centres       map[int]centre.CentreSante

	nextPatientID      int
	nextMedecinID      int
	nextRendezVousID   int
	nextConsultationID int
	nextCentreID       int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		patients:           make(map[int]patient.Patient),
		medecins:           make(map[int]medecin.Medecin),
		rendezvous:         make(map[int]rendezvous.RendezVous),
		consultations:      make(map[int]consultation.Consultation),
		centres:            make(map[int]centre.CentreSante),
		nextPatientID:      1,
		nextMedecinID:      1,
		nextRendezVousID:   1,
		nextConsultationID: 1,
		nextCentreID:       1,
	}
}

// -- Patients --

func (s *Store) ListPatients() []patient.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]patient.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) GetPatient(id int) (patient.Patient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	return p, ok
}

func (s *Store) CreatePatient(p patient.Patient) patient.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextPatientID
	s.nextPatientID++
	s.patients[p.ID] = p
	return p
}

func (s *Store) UpdatePatient(id int, p patient.Patient) (patient.Patient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[id]; !ok {
		return patient.Patient{}, false
	}
	p.ID = id
	s.patients[id] = p
	return p, true
}

func (s *Store) DeletePatient(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[id]; !ok {
		return false
	}
	delete(s.patients, id)
	return true
}

// -- Medecins --

func (s *Store) ListMedecins() []medecin.Medecin {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]medecin.Medecin, 0, len(s.medecins))
	for _, m := range s.medecins {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) GetMedecin(id int) (medecin.Medecin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.medecins[id]
	return m, ok
}

func (s *Store) CreateMedecin(m medecin.Medecin) medecin.Medecin {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.nextMedecinID
	s.nextMedecinID++
	// New doctors always wait for admin validation.
	m.Validated = false
	s.medecins[m.ID] = m
	return m
}

func (s *Store) UpdateMedecin(id int, m medecin.Medecin) (medecin.Medecin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.medecins[id]; !ok {
		return medecin.Medecin{}, false
	}
	m.ID = id
	s.medecins[id] = m
	return m, true
}

func (s *Store) DeleteMedecin(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.medecins[id]; !ok {
		return false
	}
	delete(s.medecins, id)
	return true
}

func (s *Store) ValidateMedecin(id int) (medecin.Medecin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.medecins[id]
	if !ok {
		return medecin.Medecin{}, false
	}
	m.Validated = true
	s.medecins[id] = m
	return m, true
}

// NearbyMedecins ranks bookable, located doctors by distance from the
// origin, honoring radiusKm when positive.
func (s *Store) NearbyMedecins(lat, lng, radiusKm float64) []medecin.Proche {
	return medecin.Rank(s.ListMedecins(), lat, lng, radiusKm)
}

// -- RendezVous --

func (s *Store) ListRendezVous() []rendezvous.RendezVous {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]rendezvous.RendezVous, 0, len(s.rendezvous))
	for _, r := range s.rendezvous {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) GetRendezVous(id int) (rendezvous.RendezVous, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rendezvous[id]
	return r, ok
}

func (s *Store) CreateRendezVous(r rendezvous.RendezVous) rendezvous.RendezVous {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.nextRendezVousID
	s.nextRendezVousID++
	r.Statut = rendezvous.StatutEnAttente
	s.rendezvous[r.ID] = r
	return r
}

func (s *Store) UpdateRendezVous(id int, r rendezvous.RendezVous) (rendezvous.RendezVous, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.rendezvous[id]
	if !ok {
		return rendezvous.RendezVous{}, false
	}
	r.ID = id
	// Status only moves through transitions, never through update.
	r.Statut = existing.Statut
	s.rendezvous[id] = r
	return r, true
}

func (s *Store) DeleteRendezVous(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rendezvous[id]; !ok {
		return false
	}
	delete(s.rendezvous, id)
	return true
}

// TransitionRendezVous applies a doctor action. The second return reports
// existence, the third whether the transition was legal from the current
// status.
func (s *Store) TransitionRendezVous(id int, to rendezvous.Statut) (rendezvous.RendezVous, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rendezvous[id]
	if !ok {
		return rendezvous.RendezVous{}, false, false
	}
	legal := (to == rendezvous.StatutAccepte && r.Statut.CanAccept()) ||
		(to == rendezvous.StatutRefuse && r.Statut.CanReject()) ||
		(to == rendezvous.StatutTermine && r.Statut == rendezvous.StatutAccepte)
	if !legal {
		return r, true, false
	}
	r.Statut = to
	s.rendezvous[id] = r
	return r, true, true
}

// SetLienVideo records the minted session link on the appointment.
func (s *Store) SetLienVideo(id int, lien string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rendezvous[id]; ok {
		r.LienVideo = lien
		s.rendezvous[id] = r
	}
}

// -- Consultations --

func (s *Store) ListConsultations() []consultation.Consultation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]consultation.Consultation, 0, len(s.consultations))
	for _, c := range s.consultations {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) GetConsultation(id int) (consultation.Consultation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.consultations[id]
	return c, ok
}

func (s *Store) CreateConsultation(c consultation.Consultation) consultation.Consultation {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextConsultationID
	s.nextConsultationID++
	if c.Statut == "" {
		c.Statut = consultation.StatutEnCours
	}
	s.consultations[c.ID] = c
	return c
}

func (s *Store) UpdateConsultation(id int, c consultation.Consultation) (consultation.Consultation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.consultations[id]; !ok {
		return consultation.Consultation{}, false
	}
	c.ID = id
	s.consultations[id] = c
	return c, true
}

func (s *Store) TerminerConsultation(id int, diagnostic, ordonnance string) (consultation.Consultation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.consultations[id]
	if !ok {
		return consultation.Consultation{}, false
	}
	c.Diagnostic = diagnostic
	if ordonnance != "" {
		c.Ordonnance = ordonnance
	}
	c.Statut = consultation.StatutTerminee
	s.consultations[id] = c
	return c, true
}

// -- Centres --

func (s *Store) ListCentres() []centre.CentreSante {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]centre.CentreSante, 0, len(s.centres))
	for _, c := range s.centres {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) GetCentre(id int) (centre.CentreSante, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.centres[id]
	return c, ok
}

func (s *Store) CreateCentre(c centre.CentreSante) centre.CentreSante {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextCentreID
	s.nextCentreID++
	s.centres[c.ID] = c
	return c
}

func (s *Store) UpdateCentre(id int, c centre.CentreSante) (centre.CentreSante, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.centres[id]; !ok {
		return centre.CentreSante{}, false
	}
	c.ID = id
	s.centres[id] = c
	return c, true
}

func (s *Store) DeleteCentre(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.centres[id]; !ok {
		return false
	}
	delete(s.centres, id)
	return true
}

// NearbyCentres returns centers within radiusKm of the origin, closest
// first.
func (s *Store) NearbyCentres(lat, lng, radiusKm float64) []centre.CentreSante {
	centres := s.ListCentres()

	type ranked struct {
		c centre.CentreSante
		d float64
	}
	var results []ranked
	for _, c := range centres {
		if c.Latitude == nil || c.Longitude == nil {
			continue
		}
		d := geo.Haversine(lat, lng, *c.Latitude, *c.Longitude)
		if radiusKm > 0 && d > radiusKm {
			continue
		}
		results = append(results, ranked{c: c, d: d})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].d < results[j].d })

	out := make([]centre.CentreSante, 0, len(results))
	for _, r := range results {
		out = append(out, r.c)
	}
	return out
}
