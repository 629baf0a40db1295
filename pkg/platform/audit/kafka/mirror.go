// Package kafka mirrors accepted audit entries to a Kafka topic for the
// compliance pipeline. The mirror is best-effort: the primary store write
// in audit.Recorder is what upholds "no unaudited success"; this worker
// only fans the entry out.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"mediconnect/pkg/platform/audit"
)

// Mirror consumes entries from a channel and publishes them to Kafka.
type Mirror struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
	inbox  <-chan audit.Entry
}

// NewMirror connects to the given brokers and prepares a mirror worker
// reading from inbox.
func NewMirror(brokers []string, topic string, inbox <-chan audit.Entry, logger *slog.Logger) (*Mirror, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerLinger(50*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	return &Mirror{
		client: client,
		topic:  topic,
		logger: logger,
		inbox:  inbox,
	}, nil
}

type payload struct {
	ActorID    string `json:"actor_id"`
	ActorRole  string `json:"actor_role"`
	Action     string `json:"action"`
	ResourceID string `json:"resource_id,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// Run consumes until ctx is cancelled. Publish failures are logged and the
// entry is dropped from the mirror; the primary record already exists.
func (m *Mirror) Run(ctx context.Context) error {
	defer m.client.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case entry := <-m.inbox:
			if err := m.publish(ctx, entry); err != nil {
				m.logger.ErrorContext(ctx, "audit mirror publish failed",
					"action", string(entry.Action),
					"error", err,
				)
			}
		}
	}
}

func (m *Mirror) publish(ctx context.Context, entry audit.Entry) error {
	value, err := json.Marshal(payload{
		ActorID:    entry.ActorID.String(),
		ActorRole:  entry.ActorRole,
		Action:     string(entry.Action),
		ResourceID: entry.ResourceID,
		RequestID:  entry.RequestID,
		Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{
		Topic: m.topic,
		Key:   []byte(entry.ActorID.String()),
		Value: value,
	}
	return m.client.ProduceSync(ctx, record).FirstErr()
}
