package ports

import (
	"context"

	"github.com/payflow/payment-gateway/internal/core/domain"
)

// AlertPublisher accepts alerts for asynchronous, best-effort delivery.
// A nil error means the alert was accepted, not that it was delivered.
type AlertPublisher interface {
	Publish(ctx context.Context, msg domain.AlertMessage) error
}

// AlertSink writes a single alert to the message bus and waits for the
// broker's acknowledgement.
type AlertSink interface {
	Send(ctx context.Context, msg domain.AlertMessage) error
	Close() error
}
