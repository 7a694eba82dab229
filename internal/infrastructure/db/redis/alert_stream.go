package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/payflow/payment-gateway/internal/core/domain"
)

const streamMaxLen = 100_000

// StreamAlertSink appends alerts to a Redis stream. Each entry carries the
// event id and the JSON-encoded alert so consumers can de-duplicate.
type StreamAlertSink struct {
	client *redis.Client
	stream string
}

func NewStreamAlertSink(client *redis.Client, stream string) *StreamAlertSink {
	return &StreamAlertSink{client: client, stream: stream}
}

// Send writes msg with XADD, trimming the stream approximately to streamMaxLen.
func (s *StreamAlertSink) Send(ctx context.Context, msg domain.AlertMessage) error {
	args, err := s.xaddArgs(msg)
	if err != nil {
		return err
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

// Close is a no-op; the client is owned by the caller.
func (s *StreamAlertSink) Close() error { return nil }

func (s *StreamAlertSink) xaddArgs(msg domain.AlertMessage) (*redis.XAddArgs, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode alert: %w", err)
	}
	return &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]any{
			"event_id":  msg.EventID,
			"operation": string(msg.Operation),
			"payload":   payload,
		},
	}, nil
}
