package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/payflow/payment-gateway/internal/core/domain"
)

// MoneyMovementInput is the payload of a deposit or withdrawal. UserID
// selects the alert recipient and is independent of the caller.
type MoneyMovementInput struct {
	UserID        int64
	AccountNumber int
	Amount        decimal.Decimal
}

// PaymentService orchestrates account operations behind the role gate.
type PaymentService interface {
	Deposit(ctx context.Context, p *domain.Principal, in MoneyMovementInput) (string, error)
	Withdraw(ctx context.Context, p *domain.Principal, in MoneyMovementInput) (string, error)
	CreateAccount(ctx context.Context, p *domain.Principal, spec domain.AccountSpec) (string, error)
	DeleteAccount(ctx context.Context, p *domain.Principal, accountID int64) (string, error)
	GetAccount(ctx context.Context, p *domain.Principal, accountID int64) (*domain.Account, error)
	GetAccountByNumber(ctx context.Context, p *domain.Principal, accountNumber int) (*domain.Account, error)
	ListAccountsByUser(ctx context.Context, p *domain.Principal, userID int64) ([]domain.Account, error)
	ListAccounts(ctx context.Context, p *domain.Principal) ([]domain.Account, error)
}
