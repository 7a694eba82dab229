package domain

import "github.com/shopspring/decimal"

// Account mirrors the downstream account service's account record.
type Account struct {
	ID            int64           `json:"id"`
	AccountNumber int             `json:"accountNumber"`
	UserID        int64           `json:"userId"`
	AccountType   string          `json:"accountType,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
}

// AccountSpec is the payload forwarded to the account service on creation.
type AccountSpec struct {
	AccountNumber int             `json:"accountNumber"`
	UserID        int64           `json:"userId"`
	AccountType   string          `json:"accountType,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
}
