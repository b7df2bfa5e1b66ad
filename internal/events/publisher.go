package events

import (
	"context"
	"fmt"
)

// Producer is the part of kafka.Producer the publisher needs
type Producer interface {
	ProduceJSON(ctx context.Context, topic, key string, value any, headers map[string]string) error
}

// KafkaPublisher publishes events to a single topic
type KafkaPublisher struct {
	producer Producer
	topic    string
}

// NewKafkaPublisher creates a KafkaPublisher
func NewKafkaPublisher(producer Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish produces the event keyed by order
func (p *KafkaPublisher) Publish(ctx context.Context, event *TransactionEvent) error {
	headers := map[string]string{"event_type": event.EventType}
	if err := p.producer.ProduceJSON(ctx, p.topic, event.Key(), event, headers); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.EventType, err)
	}
	return nil
}

// NoopPublisher drops every event. Used when Kafka is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *TransactionEvent) error { return nil }
