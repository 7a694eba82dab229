package ports

import (
	"context"

	"github.com/payflow/payment-gateway/internal/core/domain"
)

// RegisterUserInput carries the data an administrator supplies when adding a user.
type RegisterUserInput struct {
	Name        string
	Email       string
	PhoneNumber string
	Password    string
	Roles       []string
}

type AuthService interface {
	Authenticate(ctx context.Context, identifier, secret string) (*domain.Principal, error)
	Login(ctx context.Context, identifier, secret string) (string, *domain.Principal, error)
	ParseToken(token string) (*domain.Principal, error)
	Register(ctx context.Context, actor *domain.Principal, in RegisterUserInput) (*domain.User, error)
}
