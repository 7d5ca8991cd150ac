package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ludaimi/passforge/internal/core/domain"
	"github.com/ludaimi/passforge/internal/core/port"
	"github.com/ludaimi/passforge/internal/infra/config"
)

const schemaVersion = "1.0"

// Event types published to the bus.
const (
	eventTypeRunCompleted   = "run.completed"
	eventTypeProfileCreated = "profile.created"
	eventTypeProfileUpdated = "profile.updated"
	eventTypeProfileDeleted = "profile.deleted"
)

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishRunCompleted publishes passforge.run.completed events.
func (p *EventPublisher) PublishRunCompleted(ctx context.Context, event domain.RunCompletedEvent) error {
	payload := struct {
		RunID       string         `json:"run_id"`
		ProfileID   string         `json:"profile_id"`
		ProfileName string         `json:"profile_name"`
		Identities  int            `json:"identities"`
		RequestedBy string         `json:"requested_by,omitempty"`
		CompletedAt time.Time      `json:"completed_at"`
		Metadata    map[string]any `json:"metadata,omitempty"`
	}{
		RunID:       event.RunID,
		ProfileID:   event.ProfileID,
		ProfileName: event.ProfileName,
		Identities:  event.Identities,
		RequestedBy: event.RequestedBy,
		CompletedAt: event.CompletedAt.UTC(),
		Metadata:    event.Metadata,
	}

	return p.publish(ctx, event.EventID, eventTypeRunCompleted, event.CompletedAt, payload)
}

// PublishProfileCreated publishes passforge.profile.created events.
func (p *EventPublisher) PublishProfileCreated(ctx context.Context, event domain.ProfileCreatedEvent) error {
	payload := struct {
		ProfileID string    `json:"profile_id"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"created_at"`
	}{
		ProfileID: event.ProfileID,
		Name:      event.Name,
		CreatedAt: event.CreatedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, eventTypeProfileCreated, event.CreatedAt, payload)
}

// PublishProfileUpdated publishes passforge.profile.updated events.
func (p *EventPublisher) PublishProfileUpdated(ctx context.Context, event domain.ProfileUpdatedEvent) error {
	payload := struct {
		ProfileID string    `json:"profile_id"`
		Name      string    `json:"name"`
		UpdatedAt time.Time `json:"updated_at"`
	}{
		ProfileID: event.ProfileID,
		Name:      event.Name,
		UpdatedAt: event.UpdatedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, eventTypeProfileUpdated, event.UpdatedAt, payload)
}

// PublishProfileDeleted publishes passforge.profile.deleted events.
func (p *EventPublisher) PublishProfileDeleted(ctx context.Context, event domain.ProfileDeletedEvent) error {
	payload := struct {
		ProfileID string    `json:"profile_id"`
		DeletedAt time.Time `json:"deleted_at"`
	}{
		ProfileID: event.ProfileID,
		DeletedAt: event.DeletedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, eventTypeProfileDeleted, event.DeletedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
