package ports

import (
	"context"

	"github.com/payflow/payment-gateway/internal/core/domain"
)

// UserStore is the read side of user records. Every lookup returns
// domain.ErrUserNotFound rather than a nil user.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	ListAll(ctx context.Context) ([]*domain.User, error)
}
