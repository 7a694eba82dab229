package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/payflow/payment-gateway/internal/core/domain"
)

func TestBuildMessage(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	msg := domain.AlertMessage{
		EventID:       "evt-9",
		Email:         "a@x.com",
		PhoneNumber:   "555",
		Message:       "Withdrew 10.00",
		Operation:     domain.OpWithdraw,
		AccountNumber: 100,
		Amount:        decimal.RequireFromString("10.00"),
		OccurredAt:    at,
	}

	m, err := buildMessage(msg)
	if err != nil {
		t.Fatalf("buildMessage: %v", err)
	}
	if string(m.Key) != "a@x.com" {
		t.Fatalf("expected recipient key, got %q", m.Key)
	}
	if !m.Time.Equal(at) {
		t.Fatalf("expected occurred-at timestamp, got %s", m.Time)
	}
	if len(m.Headers) != 2 || string(m.Headers[0].Value) != "evt-9" || string(m.Headers[1].Value) != "withdraw" {
		t.Fatalf("unexpected headers %+v", m.Headers)
	}

	var decoded map[string]any
	if err := json.Unmarshal(m.Value, &decoded); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if decoded["email"] != "a@x.com" || decoded["phone_number"] != "555" || decoded["message"] != "Withdrew 10.00" {
		t.Fatalf("unexpected payload %v", decoded)
	}
}

func TestNewAlertSink_Validation(t *testing.T) {
	if _, err := NewAlertSink(nil, "topic"); err == nil {
		t.Fatalf("expected error without brokers")
	}
	if _, err := NewAlertSink([]string{"localhost:9092"}, ""); err == nil {
		t.Fatalf("expected error without topic")
	}
}
