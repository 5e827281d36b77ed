package patient

// Patient mirrors the backend patient resource. Latitude/Longitude are only
// present once the patient has geocoded an address; Symptomes is free text
// captured during teleconsultation requests.
type Patient struct {
	ID                    int      `json:"id,omitempty"`
	Nom                   string   `json:"nom"`
	Prenom                string   `json:"prenom"`
	DateNaissance         string   `json:"dateNaissance,omitempty"`
	Sexe                  string   `json:"sexe,omitempty"`
	Telephone             string   `json:"telephone,omitempty"`
	Email                 string   `json:"email,omitempty"`
	Adresse               string   `json:"adresse,omitempty"`
	Ville                 string   `json:"ville,omitempty"`
	CodePostal            string   `json:"codePostal,omitempty"`
	NumeroSecuriteSociale string   `json:"numeroSecuriteSociale,omitempty"`
	Latitude              *float64 `json:"latitude,omitempty"`
	Longitude             *float64 `json:"longitude,omitempty"`
	Symptomes             []string `json:"symptomes,omitempty"`
	// ConsultationIDs back-references past encounters; the consultation
	// records themselves are owned by the consultations resource.
	ConsultationIDs []int `json:"consultationIds,omitempty"`
}
