package consultation

// Consultation states. An appointment is a request slot; a consultation is
// the clinical encounter that may follow it.
const (
	StatutEnCours  = "en_cours"
	StatutTerminee = "terminee"
	StatutAnnulee  = "annulee"
)

// Consultation is the clinical encounter record for a patient+doctor pair.
type Consultation struct {
	ID                int      `json:"id,omitempty"`
	PatientID         int      `json:"patientId"`
	MedecinID         int      `json:"medecinId"`
	DateConsultation  string   `json:"dateConsultation,omitempty"`
	MotifConsultation string   `json:"motifConsultation,omitempty"`
	Symptomes         []string `json:"symptomes,omitempty"`
	Diagnostic        string   `json:"diagnostic,omitempty"`
	Ordonnance        string   `json:"ordonnance,omitempty"`
	Statut            string   `json:"statut"`
}

// Closed reports whether no further clinical edits are expected.
func (c *Consultation) Closed() bool {
	return c.Statut == StatutTerminee || c.Statut == StatutAnnulee
}
