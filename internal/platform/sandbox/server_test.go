package sandbox

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/mediconnect/mediconnect/internal/domain/medecin"
	"github.com/mediconnect/mediconnect/internal/domain/rendezvous"
	"github.com/mediconnect/mediconnect/internal/session"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := NewStore()
	Seed(store)
	srv := NewServer(store, Config{
		JWTSecret: testSecret,
		Logger:    zerolog.Nop(),
	})
	ts := httptest.NewServer(srv.NewEcho())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestReadsAreOpen(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/medecins", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var medecins []medecin.Medecin
	decode(t, resp, &medecins)
	if len(medecins) != 4 {
		t.Errorf("len = %d, want 4 seeded doctors", len(medecins))
	}
}

func TestMutationsRequireBearer(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/patients", "", `{"nom":"Traoré"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/patients", "not-a-real-token", `{"nom":"Traoré"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/patients",
		session.Token(session.RolePatient), `{"nom":"Traoré","prenom":"Moussa"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("valid token: status = %d, want 201", resp.StatusCode)
	}
}

func TestCreateRendezVousForcesPending(t *testing.T) {
	ts := newTestServer(t)

	body := `{"patientId":1,"medecinId":1,"statut":"ACCEPTE","type":"physique","motif":"Suivi"}`
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/rendezvous",
		session.Token(session.RolePatient), body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var r rendezvous.RendezVous
	decode(t, resp, &r)
	if r.Statut != rendezvous.StatutEnAttente {
		t.Errorf("statut = %q, want %q", r.Statut, rendezvous.StatutEnAttente)
	}
}

func TestCreateRendezVousRejectsUnbookableMedecin(t *testing.T) {
	ts := newTestServer(t)

	// Doctor 4 is seeded pending validation.
	body := `{"patientId":1,"medecinId":4,"type":"physique","motif":"Suivi"}`
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/rendezvous",
		session.Token(session.RolePatient), body)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestAcceptRequiresDoctorRole(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPatch, ts.URL+"/api/rendezvous/1/accept",
		session.Token(session.RolePatient), "")
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("patient token: status = %d, want 403", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPatch, ts.URL+"/api/rendezvous/1/accept",
		session.Token(session.RoleMedecin), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("medecin token: status = %d, want 200", resp.StatusCode)
	}
	var r rendezvous.RendezVous
	decode(t, resp, &r)
	if r.Statut != rendezvous.StatutAccepte {
		t.Errorf("statut = %q, want ACCEPTE", r.Statut)
	}
}

func TestIllegalTransitionConflicts(t *testing.T) {
	ts := newTestServer(t)
	token := session.Token(session.RoleMedecin)

	resp := doJSON(t, http.MethodPatch, ts.URL+"/api/rendezvous/1/accept", token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("accept: status = %d, want 200", resp.StatusCode)
	}

	// Rejecting an already-accepted appointment must fail.
	resp = doJSON(t, http.MethodPatch, ts.URL+"/api/rendezvous/1/reject", token, "")
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("reject after accept: status = %d, want 409", resp.StatusCode)
	}

	// Terminal states stay frozen. Appointment 3 is seeded TERMINE.
	resp = doJSON(t, http.MethodPatch, ts.URL+"/api/rendezvous/3/accept", token, "")
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("accept terminated: status = %d, want 409", resp.StatusCode)
	}
}

func TestStartVideoLifecycle(t *testing.T) {
	ts := newTestServer(t)
	patient := session.Token(session.RolePatient)

	// Appointment 1 is a pending teleconsultation: not ready yet.
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/rendezvous/1/start-video", patient, "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("pending: status = %d, want 409", resp.StatusCode)
	}

	// Appointment 2 is accepted but physical: no video session either.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/rendezvous/2/start-video", patient, "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("physique: status = %d, want 409", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPatch, ts.URL+"/api/rendezvous/1/accept",
		session.Token(session.RoleMedecin), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("accept: status = %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/rendezvous/1/start-video", patient, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start-video: status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		LienVideo string `json:"lienVideo"`
	}
	decode(t, resp, &body)
	if !strings.Contains(body.LienVideo, "/room/") {
		t.Fatalf("lienVideo = %q, want a room link", body.LienVideo)
	}

	// The embedded token must verify against the configured secret.
	u, err := url.Parse(body.LienVideo)
	if err != nil {
		t.Fatalf("parsing lienVideo: %v", err)
	}
	raw := u.Query().Get("token")
	if raw == "" {
		t.Fatal("lienVideo carries no token")
	}
	parsed, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		t.Fatalf("room token does not verify: %v", err)
	}

	// The link is persisted on the appointment.
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/rendezvous/1", "", "")
	var r rendezvous.RendezVous
	decode(t, resp, &r)
	if r.LienVideo != body.LienVideo {
		t.Errorf("stored lienVideo = %q, want %q", r.LienVideo, body.LienVideo)
	}
}

func TestValidateMedecinIsAdminOnly(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPatch, ts.URL+"/api/medecins/4/validate",
		session.Token(session.RoleMedecin), "")
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("medecin token: status = %d, want 403", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPatch, ts.URL+"/api/medecins/4/validate",
		session.Token(session.RoleAdmin), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin token: status = %d, want 200", resp.StatusCode)
	}
	var m medecin.Medecin
	decode(t, resp, &m)
	if !m.Validated {
		t.Error("doctor still not validated after PATCH")
	}
}

func TestNearbyMedecinsExcludesPendingDoctors(t *testing.T) {
	ts := newTestServer(t)

	// Plateau, Abidjan; wide radius so every located doctor is in range.
	resp := doJSON(t, http.MethodGet,
		ts.URL+"/api/medecins/proches?lat=5.32&lng=-4.02&rayon=100", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var proches []medecin.Proche
	decode(t, resp, &proches)
	if len(proches) == 0 {
		t.Fatal("no doctors returned")
	}
	for _, p := range proches {
		if !p.Validated || !p.Disponible {
			t.Errorf("doctor %d surfaced while not bookable", p.ID)
		}
	}
	for i := 1; i < len(proches); i++ {
		if proches[i].DistanceKm < proches[i-1].DistanceKm {
			t.Errorf("results not sorted by distance at index %d", i)
		}
	}
}

func TestNotFoundAndBadID(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/patients/999", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing id: status = %d, want 404", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/patients/abc", "", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("non-numeric id: status = %d, want 400", resp.StatusCode)
	}
}

func TestTerminerConsultation(t *testing.T) {
	ts := newTestServer(t)
	token := session.Token(session.RoleMedecin)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/consultations", token,
		`{"patientId":1,"medecinId":1,"motifConsultation":"Fièvre"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status = %d, want 201", resp.StatusCode)
	}
	var created struct {
		ID int `json:"id"`
	}
	decode(t, resp, &created)

	resp = doJSON(t, http.MethodPatch,
		ts.URL+"/api/consultations/"+strconv.Itoa(created.ID)+"/terminer", token, `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty diagnostic: status = %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPatch,
		ts.URL+"/api/consultations/"+strconv.Itoa(created.ID)+"/terminer", token,
		`{"diagnostic":"Paludisme simple","ordonnance":"Artemether 80mg"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("terminer: status = %d, want 200", resp.StatusCode)
	}
	var done struct {
		Statut     string `json:"statut"`
		Diagnostic string `json:"diagnostic"`
	}
	decode(t, resp, &done)
	if done.Statut != "terminee" {
		t.Errorf("statut = %q, want terminee", done.Statut)
	}
	if done.Diagnostic != "Paludisme simple" {
		t.Errorf("diagnostic = %q", done.Diagnostic)
	}
}
