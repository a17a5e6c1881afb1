package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/0xRichardL/whale-tracker/internal/domain"
)

// AlertPublisher publishes fill alerts to Kafka, keyed by whale address so
// one whale's alerts stay in order on a single partition.
type AlertPublisher struct {
	writer *kafka.Writer
	Topic  string
}

func NewAlertPublisher(brokers []string, topic string) *AlertPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		RequiredAcks:           kafka.RequireAll,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return &AlertPublisher{writer: writer, Topic: topic}
}

func (p *AlertPublisher) Publish(ctx context.Context, a *domain.FillAlert) error {
	value, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal fill alert: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(a.Whale.Address),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (p *AlertPublisher) Close() error {
	return p.writer.Close()
}
