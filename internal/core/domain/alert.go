package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertMessage notifies the owner of an account about a completed monetary
// operation. Message carries the downstream outcome text verbatim.
type AlertMessage struct {
	EventID       string          `json:"event_id"`
	Email         string          `json:"email"`
	PhoneNumber   string          `json:"phone_number"`
	Message       string          `json:"message"`
	Operation     Operation       `json:"operation"`
	AccountNumber int             `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewAlertMessage builds an alert for a resolved user. There is no way to
// construct one without a user record.
func NewAlertMessage(user *User, op Operation, accountNumber int, amount decimal.Decimal, outcome string) AlertMessage {
	return AlertMessage{
		EventID:       uuid.NewString(),
		Email:         user.Email,
		PhoneNumber:   user.PhoneNumber,
		Message:       outcome,
		Operation:     op,
		AccountNumber: accountNumber,
		Amount:        amount,
		OccurredAt:    time.Now().UTC(),
	}
}
