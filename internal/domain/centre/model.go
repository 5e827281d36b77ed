package centre

// CentreSante is a health-center directory entry. Read-mostly: centers are
// maintained by administrators and browsed by everyone.
type CentreSante struct {
	ID          int      `json:"id,omitempty"`
	Nom         string   `json:"nom"`
	Adresse     string   `json:"adresse,omitempty"`
	Ville       string   `json:"ville,omitempty"`
	Telephone   string   `json:"telephone,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Specialites []string `json:"specialites,omitempty"`
	Horaires    string   `json:"horaires,omitempty"`
}
