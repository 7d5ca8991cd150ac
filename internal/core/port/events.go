package port

import (
	"context"

	"github.com/ludaimi/passforge/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishRunCompleted(ctx context.Context, event domain.RunCompletedEvent) error
	PublishProfileCreated(ctx context.Context, event domain.ProfileCreatedEvent) error
	PublishProfileUpdated(ctx context.Context, event domain.ProfileUpdatedEvent) error
	PublishProfileDeleted(ctx context.Context, event domain.ProfileDeletedEvent) error
}
