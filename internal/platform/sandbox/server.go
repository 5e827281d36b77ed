package sandbox

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mediconnect/mediconnect/internal/domain/centre"
	"github.com/mediconnect/mediconnect/internal/domain/consultation"
	"github.com/mediconnect/mediconnect/internal/domain/medecin"
	"github.com/mediconnect/mediconnect/internal/domain/patient"
	"github.com/mediconnect/mediconnect/internal/domain/rendezvous"
	"github.com/mediconnect/mediconnect/internal/platform/middleware"
	"github.com/mediconnect/mediconnect/internal/session"
)

// Config configures the sandbox server.
type Config struct {
	// JWTSecret signs the video-session room tokens.
	JWTSecret string
	// VideoBaseURL prefixes minted session links.
	VideoBaseURL string
	RateLimit    middleware.RateLimitConfig
	Logger       zerolog.Logger
}

// Server is the demo backend. Register mounts the REST contract under
// /api on an echo instance.
type Server struct {
	store  *Store
	cfg    Config
	logger zerolog.Logger
}

// NewServer wraps a (typically seeded) store.
func NewServer(store *Store, cfg Config) *Server {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "sandbox-dev-secret"
	}
	if cfg.VideoBaseURL == "" {
		cfg.VideoBaseURL = "https://video.mediconnect.ci"
	}
	return &Server{store: store, cfg: cfg, logger: cfg.Logger}
}

// NewEcho builds a fully wired echo instance: middleware stack plus routes.
func (s *Server) NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(s.logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(s.logger))
	e.Use(middleware.RateLimit(s.cfg.RateLimit))

	s.Register(e.Group("/api"))
	return e
}

// Register mounts all routes on the given group.
func (s *Server) Register(api *echo.Group) {
	// Reads are open; absence of a bearer token is valid.
	api.GET("/patients", s.listPatients)
	api.GET("/patients/:id", s.getPatient)
	api.GET("/medecins", s.listMedecins)
	api.GET("/medecins/proches", s.nearbyMedecins)
	api.GET("/medecins/:id", s.getMedecin)
	api.GET("/rendezvous", s.listRendezVous)
	api.GET("/rendezvous/:id", s.getRendezVous)
	api.GET("/consultations", s.listConsultations)
	api.GET("/consultations/:id", s.getConsultation)
	api.GET("/centres-sante", s.listCentres)
	api.GET("/centres-sante/proches", s.nearbyCentres)
	api.GET("/centres-sante/:id", s.getCentre)

	// Writes require a bearer token.
	authed := api.Group("", s.requireRole())
	authed.POST("/patients", s.createPatient)
	authed.PUT("/patients/:id", s.updatePatient)
	authed.POST("/medecins", s.createMedecin)
	authed.PUT("/medecins/:id", s.updateMedecin)
	authed.POST("/rendezvous", s.createRendezVous)
	authed.PUT("/rendezvous/:id", s.updateRendezVous)
	authed.DELETE("/rendezvous/:id", s.deleteRendezVous)
	authed.POST("/consultations", s.createConsultation)
	authed.PUT("/consultations/:id", s.updateConsultation)
	authed.POST("/centres-sante", s.createCentre)
	authed.PUT("/centres-sante/:id", s.updateCentre)

	// Doctor actions on the appointment queue.
	doctor := api.Group("", s.requireRole(session.RoleMedecin, session.RoleAdmin))
	doctor.PATCH("/rendezvous/:id/accept", s.acceptRendezVous)
	doctor.PATCH("/rendezvous/:id/reject", s.rejectRendezVous)
	doctor.PATCH("/consultations/:id/terminer", s.terminerConsultation)

	// Starting the video session is open to both parties.
	authed.POST("/rendezvous/:id/start-video", s.startVideo)

	// Admin-gated operations.
	admin := api.Group("", s.requireRole(session.RoleAdmin))
	admin.PATCH("/medecins/:id/validate", s.validateMedecin)
	admin.DELETE("/patients/:id", s.deletePatient)
	admin.DELETE("/medecins/:id", s.deleteMedecin)
	admin.DELETE("/centres-sante/:id", s.deleteCentre)
}

// requireRole checks the synthetic bearer token. With no roles listed, any
// valid token passes. Missing or malformed tokens yield 401 so the client's
// global unauthorized path is exercised faithfully.
func (s *Server) requireRole(roles ...session.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			token := strings.TrimPrefix(header, "Bearer ")

			role, ok := roleFromToken(token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if len(roles) > 0 {
				allowed := false
				for _, r := range roles {
					if role == r {
						allowed = true
						break
					}
				}
				if !allowed {
					return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
				}
			}
			c.Set("role", role)
			return next(c)
		}
	}
}

func roleFromToken(token string) (session.Role, bool) {
	for _, r := range []session.Role{session.RolePatient, session.RoleMedecin, session.RoleAdmin} {
		if token == session.Token(r) {
			return r, true
		}
	}
	return "", false
}

func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func proximityParams(c echo.Context) (lat, lng, rayon float64, err error) {
	lat, err = strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return 0, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid lat")
	}
	lng, err = strconv.ParseFloat(c.QueryParam("lng"), 64)
	if err != nil {
		return 0, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid lng")
	}
	rayon = 0
	if raw := c.QueryParam("rayon"); raw != "" {
		rayon, err = strconv.ParseFloat(raw, 64)
		if err != nil || rayon < 0 {
			return 0, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid rayon")
		}
	}
	return lat, lng, rayon, nil
}

// -- Patients --

func (s *Server) listPatients(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.ListPatients())
}

func (s *Server) getPatient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, ok := s.store.GetPatient(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "patient introuvable")
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) createPatient(c echo.Context) error {
	var p patient.Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if p.Nom == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "nom is required")
	}
	return c.JSON(http.StatusCreated, s.store.CreatePatient(p))
}

func (s *Server) updatePatient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var p patient.Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, ok := s.store.UpdatePatient(id, p)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "patient introuvable")
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deletePatient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if !s.store.DeletePatient(id) {
		return echo.NewHTTPError(http.StatusNotFound, "patient introuvable")
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Medecins --

func (s *Server) listMedecins(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.ListMedecins())
}

func (s *Server) getMedecin(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	m, ok := s.store.GetMedecin(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "médecin introuvable")
	}
	return c.JSON(http.StatusOK, m)
}

func (s *Server) createMedecin(c echo.Context) error {
	var m medecin.Medecin
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if m.Nom == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "nom is required")
	}
	return c.JSON(http.StatusCreated, s.store.CreateMedecin(m))
}

func (s *Server) updateMedecin(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var m medecin.Medecin
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, ok := s.store.UpdateMedecin(id, m)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "médecin introuvable")
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteMedecin(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if !s.store.DeleteMedecin(id) {
		return echo.NewHTTPError(http.StatusNotFound, "médecin introuvable")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) validateMedecin(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	m, ok := s.store.ValidateMedecin(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "médecin introuvable")
	}
	return c.JSON(http.StatusOK, m)
}

func (s *Server) nearbyMedecins(c echo.Context) error {
	lat, lng, rayon, err := proximityParams(c)
	if err != nil {
		return err
	}
	results := s.store.NearbyMedecins(lat, lng, rayon)
	if results == nil {
		results = []medecin.Proche{}
	}
	return c.JSON(http.StatusOK, results)
}

// -- RendezVous --

func (s *Server) listRendezVous(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.ListRendezVous())
}

func (s *Server) getRendezVous(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	r, ok := s.store.GetRendezVous(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "rendez-vous introuvable")
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) createRendezVous(c echo.Context) error {
	var r rendezvous.RendezVous
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if r.PatientID <= 0 || r.MedecinID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "patientId and medecinId are required")
	}
	if r.Type != rendezvous.TypeTeleconsultation && r.Type != rendezvous.TypePhysique {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment type")
	}
	if m, ok := s.store.GetMedecin(r.MedecinID); !ok || !m.Bookable() {
		return echo.NewHTTPError(http.StatusConflict, "médecin non disponible")
	}
	return c.JSON(http.StatusCreated, s.store.CreateRendezVous(r))
}

func (s *Server) updateRendezVous(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var r rendezvous.RendezVous
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, ok := s.store.UpdateRendezVous(id, r)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "rendez-vous introuvable")
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteRendezVous(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if !s.store.DeleteRendezVous(id) {
		return echo.NewHTTPError(http.StatusNotFound, "rendez-vous introuvable")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) acceptRendezVous(c echo.Context) error {
	return s.transition(c, rendezvous.StatutAccepte)
}

func (s *Server) rejectRendezVous(c echo.Context) error {
	return s.transition(c, rendezvous.StatutRefuse)
}

func (s *Server) transition(c echo.Context, to rendezvous.Statut) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	r, found, legal := s.store.TransitionRendezVous(id, to)
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "rendez-vous introuvable")
	}
	if !legal {
		return echo.NewHTTPError(http.StatusConflict,
			fmt.Sprintf("transition vers %s impossible depuis %s", to, r.Statut))
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) startVideo(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	r, ok := s.store.GetRendezVous(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "rendez-vous introuvable")
	}
	if !r.CanStartVideo() {
		return echo.NewHTTPError(http.StatusConflict, "la téléconsultation n'est pas prête")
	}

	room := uuid.NewString()
	token, err := s.roomToken(room, r.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot mint room token")
	}

	lien := fmt.Sprintf("%s/room/%s?token=%s", s.cfg.VideoBaseURL, room, token)
	s.store.SetLienVideo(r.ID, lien)
	return c.JSON(http.StatusOK, map[string]string{"lienVideo": lien})
}

// roomToken mints a short-lived HS256 token granting access to one video
// room for one appointment.
func (s *Server) roomToken(room string, rendezVousID int) (string, error) {
	claims := jwt.MapClaims{
		"room": room,
		"rdv":  rendezVousID,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// -- Consultations --

func (s *Server) listConsultations(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.ListConsultations())
}

func (s *Server) getConsultation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	cons, ok := s.store.GetConsultation(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "consultation introuvable")
	}
	return c.JSON(http.StatusOK, cons)
}

func (s *Server) createConsultation(c echo.Context) error {
	var cons consultation.Consultation
	if err := c.Bind(&cons); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if cons.PatientID <= 0 || cons.MedecinID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "patientId and medecinId are required")
	}
	return c.JSON(http.StatusCreated, s.store.CreateConsultation(cons))
}

func (s *Server) updateConsultation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var cons consultation.Consultation
	if err := c.Bind(&cons); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, ok := s.store.UpdateConsultation(id, cons)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "consultation introuvable")
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) terminerConsultation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var body struct {
		Diagnostic string `json:"diagnostic"`
		Ordonnance string `json:"ordonnance"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.Diagnostic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "diagnostic is required")
	}
	cons, ok := s.store.TerminerConsultation(id, body.Diagnostic, body.Ordonnance)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "consultation introuvable")
	}
	return c.JSON(http.StatusOK, cons)
}

// -- Centres --

func (s *Server) nearbyCentres(c echo.Context) error {
	lat, lng, rayon, err := proximityParams(c)
	if err != nil {
		return err
	}
	results := s.store.NearbyCentres(lat, lng, rayon)
	if results == nil {
		results = []centre.CentreSante{}
	}
	return c.JSON(http.StatusOK, results)
}

func (s *Server) listCentres(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.ListCentres())
}

func (s *Server) getCentre(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	cs, ok := s.store.GetCentre(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "centre introuvable")
	}
	return c.JSON(http.StatusOK, cs)
}

func (s *Server) createCentre(c echo.Context) error {
	var cs centre.CentreSante
	if err := c.Bind(&cs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if cs.Nom == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "nom is required")
	}
	return c.JSON(http.StatusCreated, s.store.CreateCentre(cs))
}

func (s *Server) updateCentre(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var cs centre.CentreSante
	if err := c.Bind(&cs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, ok := s.store.UpdateCentre(id, cs)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "centre introuvable")
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteCentre(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if !s.store.DeleteCentre(id) {
		return echo.NewHTTPError(http.StatusNotFound, "centre introuvable")
	}
	return c.NoContent(http.StatusNoContent)
}
