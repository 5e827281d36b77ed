package session

// Role identifies what a signed-in user may do.
type Role string

const (
	RolePatient Role = "patient"
	RoleMedecin Role = "medecin"
	RoleAdmin   Role = "admin"
)

// User is the session identity. Specialite and Validated are only set for
// doctors.
type User struct {
	ID         int    `json:"id"`
	Nom        string `json:"nom"`
	Prenom     string `json:"prenom"`
	Email      string `json:"email"`
	Telephone  string `json:"telephone"`
	Role       Role   `json:"role"`
	Adresse    string `json:"adresse,omitempty"`
	Ville      string `json:"ville,omitempty"`
	Specialite string `json:"specialite,omitempty"`
	Validated  *bool  `json:"validated,omitempty"`
}

// Token returns the synthetic bearer token persisted for a role.
func Token(role Role) string {
	return "demo-token-" + string(role)
}
