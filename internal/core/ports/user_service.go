package ports

import (
	"context"

	"github.com/payflow/payment-gateway/internal/core/domain"
)

// UserService exposes gated user queries.
type UserService interface {
	ListUsers(ctx context.Context, p *domain.Principal) ([]*domain.User, error)
	GetUserByEmail(ctx context.Context, p *domain.Principal, email string) (*domain.User, error)
	GetUserByPhone(ctx context.Context, p *domain.Principal, phone string) (*domain.User, error)
}
