package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ludaimi/passforge/internal/core/domain"
	"github.com/ludaimi/passforge/internal/core/passgen"
	"github.com/ludaimi/passforge/internal/infra/security"
	"github.com/ludaimi/passforge/internal/transport/http/middleware"
	"github.com/ludaimi/passforge/internal/usecase"
)

// ErrorResponse represents a generic error payload with request ID for debugging.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorResponse creates an error response with the request ID from context.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:     errorMsg,
		RequestID: middleware.GetRequestID(c),
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// SeedValue accepts either a JSON number (integer seed) or a JSON string
// (text seed) and carries the decoded seed.
type SeedValue struct {
	seed passgen.Seed
	set  bool
}

// UnmarshalJSON decodes a seed from a number or a string.
func (s *SeedValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		s.seed = passgen.TextSeed(text)
		s.set = true
		return nil
	}

	var value uint64
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return errors.New("seed must be an unsigned integer or a string")
	}
	s.seed = passgen.IntSeed(value)
	s.set = true
	return nil
}

// Seed returns the decoded seed.
func (s SeedValue) Seed() passgen.Seed {
	return s.seed
}

// IsSet reports whether a seed was supplied.
func (s SeedValue) IsSet() bool {
	return s.set
}

// CharsetRulePayload is the wire form of one character-set rule.
type CharsetRulePayload struct {
	Characters string `json:"characters" binding:"required"`
	MinCount   uint   `json:"min_count"`
	Frequency  uint   `json:"frequency"`
}

// PolicyPayload carries an inline, unnamed composition policy.
type PolicyPayload struct {
	Rules                 []CharsetRulePayload `json:"rules" binding:"required"`
	MinLength             int                  `json:"min_length" binding:"required"`
	MaxLength             int                  `json:"max_length" binding:"required"`
	ExcludedPatterns      []string             `json:"excluded_patterns"`
	CaseSensitivePatterns bool                 `json:"case_sensitive_patterns"`
}

// ProfilePayload is the API view of a stored profile.
type ProfilePayload struct {
	ID                    string               `json:"id"`
	Name                  string               `json:"name"`
	Description           string               `json:"description,omitempty"`
	Rules                 []CharsetRulePayload `json:"rules"`
	MinLength             int                  `json:"min_length"`
	MaxLength             int                  `json:"max_length"`
	ExcludedPatterns      []string             `json:"excluded_patterns,omitempty"`
	CaseSensitivePatterns bool                 `json:"case_sensitive_patterns"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

// ProfileRequest defines the payload for creating or updating a profile.
type ProfileRequest struct {
	Name                  string               `json:"name" binding:"required"`
	Description           string               `json:"description"`
	Rules                 []CharsetRulePayload `json:"rules" binding:"required"`
	MinLength             int                  `json:"min_length" binding:"required"`
	MaxLength             int                  `json:"max_length" binding:"required"`
	ExcludedPatterns      []string             `json:"excluded_patterns"`
	CaseSensitivePatterns bool                 `json:"case_sensitive_patterns"`
}

// ProfileListResponse wraps multiple profiles.
type ProfileListResponse struct {
	Profiles []ProfilePayload `json:"profiles"`
	Total    int              `json:"total"`
}

// StrengthPayload reports a strength estimate for a password.
type StrengthPayload struct {
	Score   int     `json:"score"`
	Entropy float64 `json:"entropy"`
}

// CredentialPayload is one generated credential in API responses.
type CredentialPayload struct {
	Identity string           `json:"identity,omitempty"`
	Password string           `json:"password"`
	Length   int              `json:"length"`
	Receipt  string           `json:"receipt,omitempty"`
	Strength *StrengthPayload `json:"strength,omitempty"`
}

// GenerateRequest defines the payload for single password generation.
type GenerateRequest struct {
	ProfileID       string         `json:"profile_id"`
	Policy          *PolicyPayload `json:"policy"`
	Seed            SeedValue      `json:"seed"`
	Identity        string         `json:"identity"`
	IncludeReceipt  bool           `json:"include_receipt"`
	IncludeStrength bool           `json:"include_strength"`
}

// BatchIdentityPayload pairs one identity with its seed.
type BatchIdentityPayload struct {
	Identity string    `json:"identity" binding:"required"`
	Seed     SeedValue `json:"seed"`
}

// BatchRequest defines the payload for bulk provisioning.
type BatchRequest struct {
	ProfileID       string                 `json:"profile_id" binding:"required"`
	Identities      []BatchIdentityPayload `json:"identities" binding:"required"`
	RequestedBy     string                 `json:"requested_by"`
	IncludeReceipts bool                   `json:"include_receipts"`
	IncludeStrength bool                   `json:"include_strength"`
}

// BatchResponse carries the credentials of one provisioning run.
type BatchResponse struct {
	RunID       string              `json:"run_id"`
	Profile     string              `json:"profile"`
	Credentials []CredentialPayload `json:"credentials"`
	CompletedAt time.Time           `json:"completed_at"`
}

// ValidateRequest defines the payload for composition validation.
type ValidateRequest struct {
	Password        string         `json:"password" binding:"required"`
	ProfileID       string         `json:"profile_id"`
	Policy          *PolicyPayload `json:"policy"`
	IncludeStrength bool           `json:"include_strength"`
}

// ValidateResponse reports the validation verdict.
type ValidateResponse struct {
	Valid    bool             `json:"valid"`
	Strength *StrengthPayload `json:"strength,omitempty"`
}

// RunPayload is the API view of a recorded provisioning run.
type RunPayload struct {
	ID          string    `json:"id"`
	ProfileID   string    `json:"profile_id"`
	ProfileName string    `json:"profile_name"`
	Identities  int       `json:"identities"`
	RequestedBy string    `json:"requested_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// RunListResponse wraps provisioning runs of one profile.
type RunListResponse struct {
	Runs  []RunPayload `json:"runs"`
	Total int          `json:"total"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse describes readiness probe results with dependency checks.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func newProfilePayload(profile domain.Profile) ProfilePayload {
	rules := make([]CharsetRulePayload, 0, len(profile.Rules))
	for _, rule := range profile.Rules {
		rules = append(rules, CharsetRulePayload{
			Characters: rule.Characters,
			MinCount:   rule.MinCount,
			Frequency:  rule.Frequency,
		})
	}

	return ProfilePayload{
		ID:                    profile.ID,
		Name:                  profile.Name,
		Description:           profile.Description,
		Rules:                 rules,
		MinLength:             profile.MinLength,
		MaxLength:             profile.MaxLength,
		ExcludedPatterns:      profile.ExcludedPatterns,
		CaseSensitivePatterns: profile.CaseSensitivePatterns,
		CreatedAt:             profile.CreatedAt,
		UpdatedAt:             profile.UpdatedAt,
	}
}

func newCredentialPayload(credential usecase.Credential) CredentialPayload {
	payload := CredentialPayload{
		Identity: credential.Identity,
		Password: credential.Password,
		Length:   credential.Length,
		Receipt:  credential.Receipt,
	}
	if credential.Strength != nil {
		payload.Strength = newStrengthPayload(credential.Strength)
	}
	return payload
}

func newStrengthPayload(report *security.StrengthReport) *StrengthPayload {
	if report == nil {
		return nil
	}
	return &StrengthPayload{
		Score:   report.Score,
		Entropy: report.Entropy,
	}
}

func newRunPayload(run domain.ProvisioningRun) RunPayload {
	return RunPayload{
		ID:          run.ID,
		ProfileID:   run.ProfileID,
		ProfileName: run.ProfileName,
		Identities:  run.Identities,
		RequestedBy: run.RequestedBy,
		CreatedAt:   run.CreatedAt,
	}
}

func policyToProfile(policy *PolicyPayload) *domain.Profile {
	if policy == nil {
		return nil
	}

	rules := make([]domain.CharsetRule, 0, len(policy.Rules))
	for _, rule := range policy.Rules {
		rules = append(rules, domain.CharsetRule{
			Characters: rule.Characters,
			MinCount:   rule.MinCount,
			Frequency:  rule.Frequency,
		})
	}

	return &domain.Profile{
		Rules:                 rules,
		MinLength:             policy.MinLength,
		MaxLength:             policy.MaxLength,
		ExcludedPatterns:      policy.ExcludedPatterns,
		CaseSensitivePatterns: policy.CaseSensitivePatterns,
	}
}

func profileInputFromRequest(req ProfileRequest) usecase.ProfileInput {
	rules := make([]domain.CharsetRule, 0, len(req.Rules))
	for _, rule := range req.Rules {
		rules = append(rules, domain.CharsetRule{
			Characters: rule.Characters,
			MinCount:   rule.MinCount,
			Frequency:  rule.Frequency,
		})
	}

	return usecase.ProfileInput{
		Name:                  req.Name,
		Description:           req.Description,
		Rules:                 rules,
		MinLength:             req.MinLength,
		MaxLength:             req.MaxLength,
		ExcludedPatterns:      req.ExcludedPatterns,
		CaseSensitivePatterns: req.CaseSensitivePatterns,
	}
}
