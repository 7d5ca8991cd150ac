package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ludaimi/passforge/internal/core/domain"
	"github.com/ludaimi/passforge/internal/core/passgen"
	"github.com/ludaimi/passforge/internal/core/port"
	"github.com/ludaimi/passforge/internal/infra/security"
	"github.com/ludaimi/passforge/internal/repository"
)

// ValidateInput describes a composition check of a candidate password.
// Exactly one of ProfileID and Inline must be set.
type ValidateInput struct {
	Password        string
	ProfileID       string
	Inline          *domain.Profile
	IncludeStrength bool
}

// ValidateResult reports the outcome of a composition check. A password that
// does not qualify is a normal false result, never an error.
type ValidateResult struct {
	Valid    bool
	Strength *security.StrengthReport
}

// PolicyService validates candidate passwords against composition policies.
type PolicyService struct {
	profiles port.ProfileRepository
}

// NewPolicyService constructs a policy service.
func NewPolicyService(profiles port.ProfileRepository) *PolicyService {
	return &PolicyService{profiles: profiles}
}

// ValidatePassword checks the candidate against the resolved policy.
func (s *PolicyService) ValidatePassword(ctx context.Context, input ValidateInput) (*ValidateResult, error) {
	profile, err := s.resolveProfile(ctx, input.ProfileID, input.Inline)
	if err != nil {
		return nil, err
	}

	rules, err := profile.ValidationRules()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	result := &ValidateResult{
		Valid: passgen.CheckRequirements(
			input.Password,
			profile.MinLength,
			rules,
			profile.ExcludedPatterns,
			profile.CaseSensitivePatterns,
		),
	}

	if input.IncludeStrength {
		report := security.ScoreStrength(input.Password)
		result.Strength = &report
	}

	return result, nil
}

func (s *PolicyService) resolveProfile(ctx context.Context, profileID string, inline *domain.Profile) (*domain.Profile, error) {
	switch {
	case profileID != "" && inline != nil:
		return nil, fmt.Errorf("%w: profile reference and inline policy are mutually exclusive", ErrInvalidRequest)
	case profileID != "":
		if s.profiles == nil {
			return nil, fmt.Errorf("profile repository not configured")
		}
		profile, err := s.profiles.GetByID(ctx, profileID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrProfileNotFound
			}
			return nil, fmt.Errorf("load profile: %w", err)
		}
		return profile, nil
	case inline != nil:
		return inline, nil
	default:
		return nil, fmt.Errorf("%w: a profile reference or an inline policy is required", ErrInvalidRequest)
	}
}
