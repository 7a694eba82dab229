package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/payflow/payment-gateway/internal/core/domain"
)

// AccountClient is the synchronous boundary to the downstream account
// service. Failures are *domain.DownstreamError; lookups of absent
// accounts return domain.ErrAccountNotFound.
type AccountClient interface {
	Deposit(ctx context.Context, accountNumber int, amount decimal.Decimal) (string, error)
	Withdraw(ctx context.Context, accountNumber int, amount decimal.Decimal) (string, error)
	CreateAccount(ctx context.Context, spec domain.AccountSpec) (string, error)
	DeleteAccount(ctx context.Context, accountID int64) (string, error)
	GetAccount(ctx context.Context, accountID int64) (*domain.Account, error)
	GetAccountByNumber(ctx context.Context, accountNumber int) (*domain.Account, error)
	GetAccountsByUser(ctx context.Context, userID int64) ([]domain.Account, error)
	GetAllAccounts(ctx context.Context) ([]domain.Account, error)
}
