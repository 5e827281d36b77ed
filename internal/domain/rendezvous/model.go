package rendezvous

// Types of appointment.
const (
	TypeTeleconsultation = "teleconsultation"
	TypePhysique         = "physique"
)

// RendezVous is an appointment request between a patient and a doctor.
//
// The four name fields are snapshots captured when the appointment was
// created. They are deliberately independent of the live patient and doctor
// records and may drift from them; displays use the snapshot, never a
// re-join.
type RendezVous struct {
	ID              int    `json:"id,omitempty"`
	PatientID       int    `json:"patientId"`
	MedecinID       int    `json:"medecinId"`
	PatientNom      string `json:"patientNom,omitempty"`
	PatientPrenom   string `json:"patientPrenom,omitempty"`
	MedecinNom      string `json:"medecinNom,omitempty"`
	MedecinPrenom   string `json:"medecinPrenom,omitempty"`
	DateRendezVous  string `json:"dateRendezVous"`
	HeureRendezVous string `json:"heureRendezVous"`
	Motif           string `json:"motif,omitempty"`
	Statut          Statut `json:"statut"`
	Type            string `json:"type"`
	Notes           string `json:"notes,omitempty"`
	LienVideo       string `json:"lienVideo,omitempty"`
}

// Teleconsultation reports whether this appointment is a remote video visit.
func (r *RendezVous) Teleconsultation() bool {
	return r.Type == TypeTeleconsultation
}

// CanStartVideo reports whether the start-video action applies: accepted
// teleconsultations only.
func (r *RendezVous) CanStartVideo() bool {
	return r.Teleconsultation() && r.Statut == StatutAccepte
}
