package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/payflow/payment-gateway/internal/core/domain"
)

// AlertSink writes payment alerts to a Kafka topic, keyed by recipient email
// so a recipient's alerts stay ordered within one partition.
type AlertSink struct {
	writer *kafka.Writer
}

func NewAlertSink(brokers []string, topic string) (*AlertSink, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka alert sink requires at least one broker")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka alert sink requires a topic")
	}
	return &AlertSink{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			RequiredAcks:           kafka.RequireAll,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}, nil
}

func (s *AlertSink) Send(ctx context.Context, msg domain.AlertMessage) error {
	m, err := buildMessage(msg)
	if err != nil {
		return err
	}
	if err := s.writer.WriteMessages(ctx, m); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (s *AlertSink) Close() error {
	return s.writer.Close()
}

func buildMessage(msg domain.AlertMessage) (kafka.Message, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode alert: %w", err)
	}
	ts := msg.OccurredAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return kafka.Message{
		Key:   []byte(msg.Email),
		Value: payload,
		Time:  ts,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(msg.EventID)},
			{Key: "operation", Value: []byte(msg.Operation)},
		},
	}, nil
}
