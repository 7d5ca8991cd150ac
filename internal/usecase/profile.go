package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ludaimi/passforge/internal/core/domain"
	"github.com/ludaimi/passforge/internal/core/port"
	"github.com/ludaimi/passforge/internal/repository"
)

// ErrProfileNameTaken indicates another profile already uses the name.
var ErrProfileNameTaken = errors.New("profile name already in use")

// ProfileInput carries the caller-editable fields of a profile.
type ProfileInput struct {
	Name                  string
	Description           string
	Rules                 []domain.CharsetRule
	MinLength             int
	MaxLength             int
	ExcludedPatterns      []string
	CaseSensitivePatterns bool
}

// ProfileService manages stored charset profiles.
type ProfileService struct {
	profiles port.ProfileRepository
	events   port.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewProfileService constructs a profile service.
func NewProfileService(profiles port.ProfileRepository, events port.EventPublisher, log *zap.Logger) *ProfileService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileService{
		profiles: profiles,
		events:   events,
		logger:   log,
		now:      time.Now,
	}
}

// WithClock allows injection of a custom clock (primarily for testing).
func (s *ProfileService) WithClock(now func() time.Time) *ProfileService {
	if now != nil {
		s.now = now
	}
	return s
}

// CreateProfile validates and stores a new profile.
func (s *ProfileService) CreateProfile(ctx context.Context, input ProfileInput) (*domain.Profile, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	if existing, err := s.profiles.GetByName(ctx, input.Name); err == nil && existing != nil {
		return nil, ErrProfileNameTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check profile name: %w", err)
	}

	now := s.now().UTC()
	profile := domain.Profile{
		ID:                    uuid.NewString(),
		Name:                  input.Name,
		Description:           input.Description,
		Rules:                 input.Rules,
		MinLength:             input.MinLength,
		MaxLength:             input.MaxLength,
		ExcludedPatterns:      input.ExcludedPatterns,
		CaseSensitivePatterns: input.CaseSensitivePatterns,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	if s.events != nil {
		event := domain.ProfileCreatedEvent{
			EventID:   uuid.NewString(),
			ProfileID: profile.ID,
			Name:      profile.Name,
			CreatedAt: now,
		}
		if err := s.events.PublishProfileCreated(ctx, event); err != nil {
			s.logger.Warn("failed to publish profile created event",
				zap.String("profile_id", profile.ID),
				zap.Error(err),
			)
		}
	}

	return &profile, nil
}

// GetProfile loads a profile by identifier.
func (s *ProfileService) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}

// ListProfiles returns all stored profiles.
func (s *ProfileService) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// UpdateProfile validates and rewrites an existing profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, id string, input ProfileInput) (*domain.Profile, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	existing, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	updated := domain.Profile{
		ID:                    existing.ID,
		Name:                  input.Name,
		Description:           input.Description,
		Rules:                 input.Rules,
		MinLength:             input.MinLength,
		MaxLength:             input.MaxLength,
		ExcludedPatterns:      input.ExcludedPatterns,
		CaseSensitivePatterns: input.CaseSensitivePatterns,
		CreatedAt:             existing.CreatedAt,
		UpdatedAt:             now,
	}

	if err := s.profiles.Update(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if s.events != nil {
		event := domain.ProfileUpdatedEvent{
			EventID:   uuid.NewString(),
			ProfileID: updated.ID,
			Name:      updated.Name,
			UpdatedAt: now,
		}
		if err := s.events.PublishProfileUpdated(ctx, event); err != nil {
			s.logger.Warn("failed to publish profile updated event",
				zap.String("profile_id", updated.ID),
				zap.Error(err),
			)
		}
	}

	return &updated, nil
}

// DeleteProfile removes a stored profile.
func (s *ProfileService) DeleteProfile(ctx context.Context, id string) error {
	if err := s.profiles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("delete profile: %w", err)
	}

	if s.events != nil {
		event := domain.ProfileDeletedEvent{
			EventID:   uuid.NewString(),
			ProfileID: id,
			DeletedAt: s.now().UTC(),
		}
		if err := s.events.PublishProfileDeleted(ctx, event); err != nil {
			s.logger.Warn("failed to publish profile deleted event",
				zap.String("profile_id", id),
				zap.Error(err),
			)
		}
	}

	return nil
}

// validateInput rejects profiles the generator could never honor, so bad
// configurations fail at save time instead of at the first provisioning run.
func (s *ProfileService) validateInput(input ProfileInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	if len(input.Rules) == 0 {
		return fmt.Errorf("%w: at least one charset rule is required", ErrInvalidRequest)
	}
	if input.MinLength < 0 || input.MinLength > input.MaxLength {
		return fmt.Errorf("%w: invalid length range [%d, %d]", ErrInvalidRequest, input.MinLength, input.MaxLength)
	}

	trial := domain.Profile{
		Rules:     input.Rules,
		MinLength: input.MinLength,
		MaxLength: input.MaxLength,
	}
	charset, err := trial.Charset()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if charset.MinimumTotal() > uint(input.MinLength) {
		return fmt.Errorf("%w: minimum length %d is below the sum of per-set minimums %d",
			ErrInvalidRequest, input.MinLength, charset.MinimumTotal())
	}

	return nil
}
