package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ludaimi/passforge/internal/core/domain"
	"github.com/ludaimi/passforge/internal/core/passgen"
	"github.com/ludaimi/passforge/internal/core/port"
	"github.com/ludaimi/passforge/internal/infra/logger"
	"github.com/ludaimi/passforge/internal/infra/security"
	"github.com/ludaimi/passforge/internal/repository"
)

var (
	// ErrProfileNotFound indicates the referenced profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInvalidRequest indicates malformed generation input.
	ErrInvalidRequest = errors.New("invalid generation request")
	// ErrBatchTooLarge indicates the batch exceeds the configured limit.
	ErrBatchTooLarge = errors.New("batch exceeds configured size limit")
	// ErrPolicyUnsatisfiable indicates the generated password violates the
	// profile's own exclusion patterns. Generation is never retried
	// internally; the caller decides whether to supply a different seed or
	// loosen the exclusions.
	ErrPolicyUnsatisfiable = errors.New("generated password violates the profile's exclusion patterns")
)

// Credential is one generated password plus optional enrichments. It is
// returned to the caller and never persisted.
type Credential struct {
	Identity string
	Password string
	Length   int
	Receipt  string
	Strength *security.StrengthReport
}

// GenerateInput describes a single-credential generation request. Exactly one
// of ProfileID and Inline must be set.
type GenerateInput struct {
	ProfileID       string
	Inline          *domain.Profile
	Seed            passgen.Seed
	Identity        string
	IncludeReceipt  bool
	IncludeStrength bool
}

// BatchIdentity pairs one identity with its seed.
type BatchIdentity struct {
	Identity string
	Seed     passgen.Seed
}

// BatchInput describes a bulk provisioning request against a stored profile.
type BatchInput struct {
	ProfileID       string
	Identities      []BatchIdentity
	RequestedBy     string
	IncludeReceipts bool
	IncludeStrength bool
}

// BatchResult carries the credentials of one provisioning run.
type BatchResult struct {
	RunID       string
	ProfileName string
	Credentials []Credential
	CompletedAt time.Time
}

// ProvisionService derives credentials from seeds against charset profiles.
type ProvisionService struct {
	profiles port.ProfileRepository
	runs     port.RunRepository
	events   port.EventPublisher
	receipts *security.ReceiptHasher
	logger   *zap.Logger
	maxBatch int
	maxLen   int
	now      func() time.Time
}

// NewProvisionService constructs the provisioning service.
func NewProvisionService(
	profiles port.ProfileRepository,
	runs port.RunRepository,
	events port.EventPublisher,
	receipts *security.ReceiptHasher,
	maxBatch int,
	maxPasswordLength int,
	log *zap.Logger,
) *ProvisionService {
	if log == nil {
		log = zap.NewNop()
	}
	if maxBatch <= 0 {
		maxBatch = 10000
	}
	if maxPasswordLength <= 0 {
		maxPasswordLength = 256
	}
	return &ProvisionService{
		profiles: profiles,
		runs:     runs,
		events:   events,
		receipts: receipts,
		logger:   log,
		maxBatch: maxBatch,
		maxLen:   maxPasswordLength,
		now:      time.Now,
	}
}

// WithClock allows injection of a custom clock (primarily for testing).
func (s *ProvisionService) WithClock(now func() time.Time) *ProvisionService {
	if now != nil {
		s.now = now
	}
	return s
}

// GeneratePassword derives one credential. The same profile and seed always
// produce the same password.
func (s *ProvisionService) GeneratePassword(ctx context.Context, input GenerateInput) (*Credential, error) {
	profile, err := s.resolveProfile(ctx, input.ProfileID, input.Inline)
	if err != nil {
		return nil, err
	}

	credential, err := s.generateOne(*profile, input.Seed, input.Identity, input.IncludeReceipt, input.IncludeStrength)
	if err != nil {
		return nil, err
	}

	return credential, nil
}

// ProvisionBatch derives one credential per identity, records the run for
// audit, and publishes a completion event. Each identity gets its own
// independent stream, so results are order-insensitive and safe to
// parallelize upstream.
func (s *ProvisionService) ProvisionBatch(ctx context.Context, input BatchInput) (*BatchResult, error) {
	if len(input.Identities) == 0 {
		return nil, fmt.Errorf("%w: at least one identity is required", ErrInvalidRequest)
	}
	if len(input.Identities) > s.maxBatch {
		return nil, fmt.Errorf("%w: %d identities, limit %d", ErrBatchTooLarge, len(input.Identities), s.maxBatch)
	}

	profile, err := s.resolveProfile(ctx, input.ProfileID, nil)
	if err != nil {
		return nil, err
	}

	credentials := make([]Credential, 0, len(input.Identities))
	for _, identity := range input.Identities {
		credential, err := s.generateOne(*profile, identity.Seed, identity.Identity, input.IncludeReceipts, input.IncludeStrength)
		if err != nil {
			return nil, fmt.Errorf("identity %q: %w", identity.Identity, err)
		}
		credentials = append(credentials, *credential)
	}

	now := s.now().UTC()
	run := domain.ProvisioningRun{
		ID:          uuid.NewString(),
		ProfileID:   profile.ID,
		ProfileName: profile.Name,
		Identities:  len(credentials),
		RequestedBy: input.RequestedBy,
		CreatedAt:   now,
	}

	if s.runs != nil {
		if err := s.runs.Create(ctx, run); err != nil {
			return nil, fmt.Errorf("record provisioning run: %w", err)
		}
	}

	if s.events != nil {
		event := domain.RunCompletedEvent{
			EventID:     uuid.NewString(),
			RunID:       run.ID,
			ProfileID:   run.ProfileID,
			ProfileName: run.ProfileName,
			Identities:  run.Identities,
			RequestedBy: run.RequestedBy,
			CompletedAt: now,
		}
		if err := s.events.PublishRunCompleted(ctx, event); err != nil {
			s.logger.Warn("failed to publish run completed event",
				zap.String("run_id", run.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("provisioning run completed",
		zap.String("run_id", run.ID),
		zap.String("profile", run.ProfileName),
		zap.Int("identities", run.Identities),
	)

	return &BatchResult{
		RunID:       run.ID,
		ProfileName: profile.Name,
		Credentials: credentials,
		CompletedAt: now,
	}, nil
}

// ListRuns returns the most recent provisioning runs recorded for a profile.
func (s *ProvisionService) ListRuns(ctx context.Context, profileID string, limit int) ([]domain.ProvisioningRun, error) {
	if s.runs == nil {
		return nil, fmt.Errorf("run repository not configured")
	}
	if _, err := s.resolveProfile(ctx, profileID, nil); err != nil {
		return nil, err
	}

	runs, err := s.runs.ListByProfile(ctx, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("list provisioning runs: %w", err)
	}
	return runs, nil
}

func (s *ProvisionService) generateOne(profile domain.Profile, seed passgen.Seed, identity string, withReceipt, withStrength bool) (*Credential, error) {
	charset, err := profile.Charset()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	password, err := passgen.Generate(charset, seed, profile.MinLength, profile.MaxLength)
	if err != nil {
		if errors.Is(err, passgen.ErrInvalidArgument) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return nil, err
	}

	rules, err := profile.ValidationRules()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if !passgen.CheckRequirements(password, profile.MinLength, rules, profile.ExcludedPatterns, profile.CaseSensitivePatterns) {
		s.logger.Debug("generated password excluded by profile patterns",
			zap.String("profile", profile.Name),
			zap.String("seed", logger.MaskSeed(seed.String())),
			zap.String("password", logger.MaskSecret(password)),
		)
		return nil, ErrPolicyUnsatisfiable
	}

	credential := &Credential{
		Identity: identity,
		Password: password,
		Length:   len([]rune(password)),
	}

	if withReceipt && s.receipts != nil {
		receipt, err := s.receipts.Hash(password)
		if err != nil {
			return nil, fmt.Errorf("hash receipt: %w", err)
		}
		credential.Receipt = receipt
	}

	if withStrength {
		report := security.ScoreStrength(password, identity)
		credential.Strength = &report
	}

	return credential, nil
}

func (s *ProvisionService) resolveProfile(ctx context.Context, profileID string, inline *domain.Profile) (*domain.Profile, error) {
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
		if inline.MaxLength > s.maxLen {
			return nil, fmt.Errorf("%w: maximum length %d exceeds limit %d", ErrInvalidRequest, inline.MaxLength, s.maxLen)
		}
		return inline, nil
	default:
		return nil, fmt.Errorf("%w: a profile reference or an inline policy is required", ErrInvalidRequest)
	}
}
