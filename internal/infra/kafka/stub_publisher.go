package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ludaimi/passforge/internal/core/domain"
	"github.com/ludaimi/passforge/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishRunCompleted logs passforge.run.completed events.
func (p *StubPublisher) PublishRunCompleted(_ context.Context, event domain.RunCompletedEvent) error {
	payload := map[string]any{
		"run_id":       event.RunID,
		"profile_id":   event.ProfileID,
		"profile_name": event.ProfileName,
		"identities":   event.Identities,
		"requested_by": event.RequestedBy,
		"completed_at": event.CompletedAt,
	}
	p.logEvent(eventTypeRunCompleted, event.CompletedAt, payload)
	return nil
}

// PublishProfileCreated logs passforge.profile.created events.
func (p *StubPublisher) PublishProfileCreated(_ context.Context, event domain.ProfileCreatedEvent) error {
	payload := map[string]any{
		"profile_id": event.ProfileID,
		"name":       event.Name,
		"created_at": event.CreatedAt,
	}
	p.logEvent(eventTypeProfileCreated, event.CreatedAt, payload)
	return nil
}

// PublishProfileUpdated logs passforge.profile.updated events.
func (p *StubPublisher) PublishProfileUpdated(_ context.Context, event domain.ProfileUpdatedEvent) error {
	payload := map[string]any{
		"profile_id": event.ProfileID,
		"name":       event.Name,
		"updated_at": event.UpdatedAt,
	}
	p.logEvent(eventTypeProfileUpdated, event.UpdatedAt, payload)
	return nil
}

// PublishProfileDeleted logs passforge.profile.deleted events.
func (p *StubPublisher) PublishProfileDeleted(_ context.Context, event domain.ProfileDeletedEvent) error {
	payload := map[string]any{
		"profile_id": event.ProfileID,
		"deleted_at": event.DeletedAt,
	}
	p.logEvent(eventTypeProfileDeleted, event.DeletedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
