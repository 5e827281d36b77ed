package sandbox

import (
	"github.com/mediconnect/mediconnect/internal/domain/centre"
	"github.com/mediconnect/mediconnect/internal/domain/consultation"
	"github.com/mediconnect/mediconnect/internal/domain/medecin"
	"github.com/mediconnect/mediconnect/internal/domain/patient"
	"github.com/mediconnect/mediconnect/internal/domain/rendezvous"
)

func f(v float64) *float64 { return &v }

// Seed fills the store with a small, fixed Abidjan-centered dataset:
// validated and pending doctors, a few patients, health centers, and one
// appointment in each lifecycle state. The data is deterministic so demos
// and integration tests can assert against it.
func Seed(s *Store) {
	// Doctors. Ids are assigned in insertion order.
	s.CreateMedecin(medecin.Medecin{
		Nom: "Kouassi", Prenom: "Marie", Specialite: "Cardiologie",
		Telephone: "+225 01 23 45 67 89", Email: "m.kouassi@mediconnect.ci",
		Adresse: "Boulevard Latrille, Cocody", Ville: "Abidjan",
		Latitude: f(5.3599), Longitude: f(-4.0083),
		Disponible: true, Tarif: 25000, Experience: "10 ans d'expérience",
	})
	s.CreateMedecin(medecin.Medecin{
		Nom: "Diabaté", Prenom: "Ibrahim", Specialite: "Médecine générale",
		Telephone: "+225 07 45 12 89 33", Email: "i.diabate@mediconnect.ci",
		Adresse: "Rue des Jardins, Deux Plateaux", Ville: "Abidjan",
		Latitude: f(5.3712), Longitude: f(-3.9956),
		Disponible: true, Tarif: 15000, Experience: "15 ans d'expérience",
	})
	s.CreateMedecin(medecin.Medecin{
		Nom: "Koné", Prenom: "Aïcha", Specialite: "Pédiatrie",
		Telephone: "+225 05 98 76 54 32", Email: "a.kone@mediconnect.ci",
		Adresse: "Avenue 7, Treichville", Ville: "Abidjan",
		Latitude: f(5.3097), Longitude: f(-4.0127),
		Disponible: true, Tarif: 20000, Experience: "12 ans d'expérience",
	})
	// Registered but still waiting for admin validation.
	s.CreateMedecin(medecin.Medecin{
		Nom: "Bamba", Prenom: "Seydou", Specialite: "Dermatologie",
		Telephone: "+225 01 11 22 33 44", Email: "s.bamba@mediconnect.ci",
		Ville:    "Abidjan",
		Latitude: f(5.3405), Longitude: f(-4.0244),
		Disponible: true, Tarif: 18000,
	})
	// Validation is a separate transition, mirroring the admin workflow.
	s.ValidateMedecin(1)
	s.ValidateMedecin(2)
	s.ValidateMedecin(3)

	// Patients.
	s.CreatePatient(patient.Patient{
		Nom: "Diallo", Prenom: "Amadou", DateNaissance: "1988-04-12", Sexe: "M",
		Telephone: "+225 07 12 34 56 78", Email: "patient@test.com",
		Adresse: "Cocody, Abidjan", Ville: "Abidjan",
		NumeroSecuriteSociale: "CI88041200017",
		Latitude:              f(5.3536), Longitude: f(-3.9982),
	})
	s.CreatePatient(patient.Patient{
		Nom: "Traoré", Prenom: "Fatou", DateNaissance: "1995-11-03", Sexe: "F",
		Telephone: "+225 05 55 66 77 88", Email: "f.traore@test.com",
		Ville:     "Abidjan",
		Symptomes: []string{"Fièvre", "Maux de tête"},
	})

	// Health centers.
	s.CreateCentre(centre.CentreSante{
		Nom: "CHU de Cocody", Adresse: "Boulevard de l'Université", Ville: "Abidjan",
		Telephone: "+225 27 22 44 90 00",
		Latitude:  f(5.3449), Longitude: f(-3.9873),
		Specialites: []string{"Urgences", "Cardiologie", "Pédiatrie"},
		Horaires:    "24h/24",
	})
	s.CreateCentre(centre.CentreSante{
		Nom: "Polyclinique des Deux Plateaux", Adresse: "Boulevard des Martyrs", Ville: "Abidjan",
		Telephone: "+225 27 22 41 32 32",
		Latitude:  f(5.3726), Longitude: f(-4.0012),
		Specialites: []string{"Médecine générale", "Dermatologie"},
		Horaires:    "08:00-20:00",
	})

	// One appointment per lifecycle state.
	s.CreateRendezVous(rendezvous.RendezVous{
		PatientID: 1, MedecinID: 1,
		PatientNom: "Diallo", PatientPrenom: "Amadou",
		MedecinNom: "Kouassi", MedecinPrenom: "Marie",
		DateRendezVous: "2026-09-10", HeureRendezVous: "09:00",
		Motif: "Douleurs thoraciques", Type: rendezvous.TypeTeleconsultation,
	})
	s.CreateRendezVous(rendezvous.RendezVous{
		PatientID: 2, MedecinID: 2,
		PatientNom: "Traoré", PatientPrenom: "Fatou",
		MedecinNom: "Diabaté", MedecinPrenom: "Ibrahim",
		DateRendezVous: "2026-09-11", HeureRendezVous: "14:30",
		Motif: "Consultation de suivi", Type: rendezvous.TypePhysique,
	})
	s.CreateRendezVous(rendezvous.RendezVous{
		PatientID: 1, MedecinID: 3,
		PatientNom: "Diallo", PatientPrenom: "Amadou",
		MedecinNom: "Koné", MedecinPrenom: "Aïcha",
		DateRendezVous: "2026-08-20", HeureRendezVous: "11:00",
		Motif: "Vaccination", Type: rendezvous.TypePhysique,
	})
	s.TransitionRendezVous(2, rendezvous.StatutAccepte)
	s.TransitionRendezVous(3, rendezvous.StatutAccepte)
	s.TransitionRendezVous(3, rendezvous.StatutTermine)

	// A past encounter for the completed appointment.
	s.CreateConsultation(consultation.Consultation{
		PatientID: 1, MedecinID: 3,
		DateConsultation:  "2026-08-20",
		MotifConsultation: "Vaccination",
		Symptomes:         []string{},
		Diagnostic:        "RAS",
		Statut:            consultation.StatutTerminee,
	})
}
