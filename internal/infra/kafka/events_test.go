package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"github.com/ludaimi/passforge/internal/core/domain"
	"github.com/ludaimi/passforge/internal/infra/config"
)

type fakeAsyncProducer struct {
	input  chan *sarama.ProducerMessage
	errors chan *sarama.ProducerError
}

func newFakeAsyncProducer() *fakeAsyncProducer {
	return &fakeAsyncProducer{
		input:  make(chan *sarama.ProducerMessage, 1),
		errors: make(chan *sarama.ProducerError, 1),
	}
}

func (f *fakeAsyncProducer) AsyncClose() {}

func (f *fakeAsyncProducer) Close() error { return nil }

func (f *fakeAsyncProducer) Input() chan<- *sarama.ProducerMessage { return f.input }

func (f *fakeAsyncProducer) Successes() <-chan *sarama.ProducerMessage { return nil }

func (f *fakeAsyncProducer) Errors() <-chan *sarama.ProducerError { return f.errors }

func (f *fakeAsyncProducer) IsTransactional() bool { return false }

func (f *fakeAsyncProducer) BeginTxn() error { return nil }

func (f *fakeAsyncProducer) CommitTxn() error { return nil }

func (f *fakeAsyncProducer) AbortTxn() error { return nil }

func (f *fakeAsyncProducer) AddOffsetsToTxn(offsets map[string][]*sarama.PartitionOffsetMetadata, groupID string) error {
	return nil
}

func (f *fakeAsyncProducer) AddMessageToTxn(msg *sarama.ConsumerMessage, groupID string, metadata *string) error {
	return nil
}

func (f *fakeAsyncProducer) TxnStatus() sarama.ProducerTxnStatusFlag {
	return sarama.ProducerTxnStatusFlag(0)
}

func newTestPublisher(t *testing.T, asyncProducer *fakeAsyncProducer) *EventPublisher {
	t.Helper()

	producer := &Producer{
		producer: asyncProducer,
		logger:   zaptest.NewLogger(t),
		cfg: config.KafkaSettings{
			TopicPrefix: "passforge",
		},
		errChan: make(chan error, 1),
		done:    make(chan struct{}),
	}

	return NewEventPublisher(producer, config.AppSettings{
		Name: "passforge",
		Env:  "test",
	}, zaptest.NewLogger(t))
}

func TestPublishRunCompleted(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	publisher := newTestPublisher(t, asyncProducer)

	completedAt := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	event := domain.RunCompletedEvent{
		EventID:     "event-123",
		RunID:       "run-456",
		ProfileID:   "profile-789",
		ProfileName: "corporate-default",
		Identities:  2500,
		RequestedBy: "provisioner@example.com",
		CompletedAt: completedAt,
		Metadata:    map[string]any{"source": "unit-test"},
	}

	if err := publisher.PublishRunCompleted(context.Background(), event); err != nil {
		t.Fatalf("PublishRunCompleted returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "passforge.run.completed" {
			t.Fatalf("expected topic passforge.run.completed, got %s", msg.Topic)
		}

		raw, err := msg.Value.Encode()
		if err != nil {
			t.Fatalf("encode message value: %v", err)
		}

		var envelope struct {
			EventID   string            `json:"event_id"`
			EventType string            `json:"event_type"`
			Version   string            `json:"version"`
			Metadata  map[string]string `json:"metadata"`
			Payload   struct {
				RunID      string `json:"run_id"`
				Identities int    `json:"identities"`
			} `json:"payload"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}

		if envelope.EventID != "event-123" {
			t.Fatalf("expected event id event-123, got %s", envelope.EventID)
		}
		if envelope.EventType != "run.completed" {
			t.Fatalf("expected event type run.completed, got %s", envelope.EventType)
		}
		if envelope.Version != schemaVersion {
			t.Fatalf("expected schema version %s, got %s", schemaVersion, envelope.Version)
		}
		if envelope.Metadata["service"] != "passforge" {
			t.Fatalf("expected service metadata, got %v", envelope.Metadata)
		}
		if envelope.Payload.RunID != "run-456" {
			t.Fatalf("expected run id run-456, got %s", envelope.Payload.RunID)
		}
		if envelope.Payload.Identities != 2500 {
			t.Fatalf("expected 2500 identities, got %d", envelope.Payload.Identities)
		}
	default:
		t.Fatalf("expected a message on the producer input channel")
	}
}

func TestPublishProfileCreated(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	publisher := newTestPublisher(t, asyncProducer)

	event := domain.ProfileCreatedEvent{
		ProfileID: "profile-1",
		Name:      "corporate-default",
		CreatedAt: time.Date(2026, 8, 24, 9, 30, 0, 0, time.UTC),
	}

	if err := publisher.PublishProfileCreated(context.Background(), event); err != nil {
		t.Fatalf("PublishProfileCreated returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "passforge.profile.created" {
			t.Fatalf("expected topic passforge.profile.created, got %s", msg.Topic)
		}
	default:
		t.Fatalf("expected a message on the producer input channel")
	}
}

func TestTopicNameAlreadyPrefixed(t *testing.T) {
	producer := &Producer{cfg: config.KafkaSettings{TopicPrefix: "passforge"}}

	if got := producer.TopicName("passforge.run.completed"); got != "passforge.run.completed" {
		t.Fatalf("expected prefixed topic to pass through, got %s", got)
	}
	if got := producer.TopicName("run.completed"); got != "passforge.run.completed" {
		t.Fatalf("expected prefix to be applied, got %s", got)
	}
}
