package ports

import (
	"context"

	"github.com/payflow/payment-gateway/internal/core/domain"
)

// CredentialStore resolves principals and roles for the Authenticator.
type CredentialStore interface {
	// FindByIdentifier returns domain.ErrUserNotFound when no record exists.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	// FindRoleByName returns domain.ErrRoleNotFound when the role is not seeded.
	FindRoleByName(ctx context.Context, name domain.Role) (*domain.RoleRecord, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}
