package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"

	"github.com/ludaimi/passforge/internal/core/domain"
	"github.com/ludaimi/passforge/internal/core/passgen"
	"github.com/ludaimi/passforge/internal/infra/kafka"
	"github.com/ludaimi/passforge/internal/repository"
	"github.com/ludaimi/passforge/internal/usecase"
)

type memProfileRepo struct {
	profiles map[string]domain.Profile
}

func newMemProfileRepo(profiles ...domain.Profile) *memProfileRepo {
	repo := &memProfileRepo{profiles: make(map[string]domain.Profile)}
	for _, p := range profiles {
		repo.profiles[p.ID] = p
	}
	return repo
}

func (r *memProfileRepo) Create(_ context.Context, profile domain.Profile) error {
	r.profiles[profile.ID] = profile
	return nil
}

func (r *memProfileRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	profile, ok := r.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &profile, nil
}

func (r *memProfileRepo) GetByName(_ context.Context, name string) (*domain.Profile, error) {
	for _, profile := range r.profiles {
		if profile.Name == name {
			p := profile
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memProfileRepo) List(_ context.Context) ([]domain.Profile, error) {
	out := make([]domain.Profile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		out = append(out, profile)
	}
	return out, nil
}

func (r *memProfileRepo) Update(_ context.Context, profile domain.Profile) error {
	if _, ok := r.profiles[profile.ID]; !ok {
		return repository.ErrNotFound
	}
	r.profiles[profile.ID] = profile
	return nil
}

func (r *memProfileRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.profiles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.profiles, id)
	return nil
}

type memRunRepo struct {
	runs []domain.ProvisioningRun
}

func (r *memRunRepo) Create(_ context.Context, run domain.ProvisioningRun) error {
	r.runs = append(r.runs, run)
	return nil
}

func (r *memRunRepo) GetByID(_ context.Context, id string) (*domain.ProvisioningRun, error) {
	for _, run := range r.runs {
		if run.ID == id {
			out := run
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memRunRepo) ListByProfile(_ context.Context, profileID string, _ int) ([]domain.ProvisioningRun, error) {
	var out []domain.ProvisioningRun
	for _, run := range r.runs {
		if run.ProfileID == profileID {
			out = append(out, run)
		}
	}
	return out, nil
}

func storedProfile() domain.Profile {
	return domain.Profile{
		ID:   "profile-1",
		Name: "standard",
		Rules: []domain.CharsetRule{
			{Characters: passgen.Lowercase, MinCount: 1, Frequency: 10},
			{Characters: passgen.Uppercase, MinCount: 1, Frequency: 10},
			{Characters: passgen.Digits, MinCount: 1, Frequency: 5},
			{Characters: passgen.Symbols, MinCount: 0, Frequency: 1},
		},
		MinLength: 8,
		MaxLength: 15,
	}
}

func newPasswordRouter(t *testing.T, profiles *memProfileRepo, runs *memRunRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zaptest.NewLogger(t)
	events := kafka.NewStubPublisher(log)

	provision := usecase.NewProvisionService(profiles, runs, events, nil, 100, 64, log)
	policy := usecase.NewPolicyService(profiles)

	handler := NewPasswordHandler(provision, policy)

	router := gin.New()
	group := router.Group("/api/v1/passwords")
	handler.RegisterRoutes(group, nil, nil)

	return router
}

func performJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestGenerateEndpointDeterministic(t *testing.T) {
	router := newPasswordRouter(t, newMemProfileRepo(storedProfile()), &memRunRepo{})

	body := `{"profile_id":"profile-1","seed":69}`

	first := performJSON(t, router, http.MethodPost, "/api/v1/passwords/generate", body)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", first.Code, first.Body.String())
	}

	var firstPayload CredentialPayload
	if err := json.Unmarshal(first.Body.Bytes(), &firstPayload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if firstPayload.Length < 8 || firstPayload.Length > 15 {
		t.Fatalf("password length %d outside [8, 15]", firstPayload.Length)
	}

	second := performJSON(t, router, http.MethodPost, "/api/v1/passwords/generate", body)
	var secondPayload CredentialPayload
	if err := json.Unmarshal(second.Body.Bytes(), &secondPayload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if firstPayload.Password != secondPayload.Password {
		t.Fatalf("same seed produced %q and %q", firstPayload.Password, secondPayload.Password)
	}
}

func TestGenerateEndpointTextSeed(t *testing.T) {
	router := newPasswordRouter(t, newMemProfileRepo(storedProfile()), &memRunRepo{})

	rr := performJSON(t, router, http.MethodPost, "/api/v1/passwords/generate",
		`{"profile_id":"profile-1","seed":"alice@example.com"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var payload CredentialPayload
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Password == "" {
		t.Fatalf("expected a non-empty password")
	}
}

func TestGenerateEndpointMissingSeed(t *testing.T) {
	router := newPasswordRouter(t, newMemProfileRepo(storedProfile()), &memRunRepo{})

	rr := performJSON(t, router, http.MethodPost, "/api/v1/passwords/generate",
		`{"profile_id":"profile-1"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestGenerateEndpointUnknownProfile(t *testing.T) {
	router := newPasswordRouter(t, newMemProfileRepo(), &memRunRepo{})

	rr := performJSON(t, router, http.MethodPost, "/api/v1/passwords/generate",
		`{"profile_id":"missing","seed":1}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestGenerateEndpointInlinePolicy(t *testing.T) {
	router := newPasswordRouter(t, newMemProfileRepo(), &memRunRepo{})

	body := `{
		"seed": 7,
		"policy": {
			"rules": [
				{"characters": "abcdefghijklmnopqrstuvwxyz", "min_count": 1, "frequency": 10},
				{"characters": "0123456789", "min_count": 1, "frequency": 5}
			],
			"min_length": 10,
			"max_length": 12
		}
	}`

	rr := performJSON(t, router, http.MethodPost, "/api/v1/passwords/generate", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var payload CredentialPayload
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Length < 10 || payload.Length > 12 {
		t.Fatalf("password length %d outside [10, 12]", payload.Length)
	}
}

func TestBatchEndpoint(t *testing.T) {
	runs := &memRunRepo{}
	router := newPasswordRouter(t, newMemProfileRepo(storedProfile()), runs)

	body := `{
		"profile_id": "profile-1",
		"identities": [
			{"identity": "alice", "seed": "alice"},
			{"identity": "bob", "seed": "bob"}
		],
		"requested_by": "ops@example.com"
	}`

	rr := performJSON(t, router, http.MethodPost, "/api/v1/passwords/batch", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var payload BatchResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if payload.RunID == "" {
		t.Fatalf("expected a run id")
	}
	if len(payload.Credentials) != 2 {
		t.Fatalf("expected 2 credentials, got %d", len(payload.Credentials))
	}
	if payload.Credentials[0].Password == payload.Credentials[1].Password {
		t.Fatalf("distinct seeds produced identical passwords")
	}

	if len(runs.runs) != 1 {
		t.Fatalf("expected a recorded run, got %d", len(runs.runs))
	}
}

func TestBatchEndpointMissingSeed(t *testing.T) {
	router := newPasswordRouter(t, newMemProfileRepo(storedProfile()), &memRunRepo{})

	rr := performJSON(t, router, http.MethodPost, "/api/v1/passwords/batch",
		`{"profile_id":"profile-1","identities":[{"identity":"alice"}]}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	router := newPasswordRouter(t, newMemProfileRepo(storedProfile()), &memRunRepo{})

	rr := performJSON(t, router, http.MethodPost, "/api/v1/passwords/validate",
		`{"profile_id":"profile-1","password":"abcd3FGH"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var payload ValidateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !payload.Valid {
		t.Fatalf("expected password to be valid")
	}

	rr = performJSON(t, router, http.MethodPost, "/api/v1/passwords/validate",
		`{"profile_id":"profile-1","password":"short"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for failing candidate, got %d", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Valid {
		t.Fatalf("expected password to be invalid")
	}
}

func TestValidateEndpointWithStrength(t *testing.T) {
	router := newPasswordRouter(t, newMemProfileRepo(storedProfile()), &memRunRepo{})

	rr := performJSON(t, router, http.MethodPost, "/api/v1/passwords/validate",
		`{"profile_id":"profile-1","password":"abcd3FGH","include_strength":true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var payload ValidateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Strength == nil {
		t.Fatalf("expected a strength report")
	}
}
