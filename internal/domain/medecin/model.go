package medecin

// Medecin mirrors the backend doctor resource. Disponible and Validated are
// independent flags: a doctor must hold both before surfacing in proximity
// results or becoming bookable.
type Medecin struct {
	ID         int      `json:"id,omitempty"`
	Nom        string   `json:"nom"`
	Prenom     string   `json:"prenom"`
	Specialite string   `json:"specialite,omitempty"`
	Telephone  string   `json:"telephone,omitempty"`
	Email      string   `json:"email,omitempty"`
	Adresse    string   `json:"adresse,omitempty"`
	Ville      string   `json:"ville,omitempty"`
	CodePostal string   `json:"codePostal,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Disponible bool     `json:"disponible"`
	Validated  bool     `json:"validated"`
	Tarif      float64  `json:"tarif,omitempty"`
	Experience string   `json:"experience,omitempty"`
}

// Bookable reports whether the doctor may appear in search results and
// accept appointments.
func (m *Medecin) Bookable() bool {
	return m.Disponible && m.Validated
}

// Located reports whether the doctor has geocoordinates.
func (m *Medecin) Located() bool {
	return m.Latitude != nil && m.Longitude != nil
}
