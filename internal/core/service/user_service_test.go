package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/payflow/payment-gateway/internal/core/domain"
)

func TestUserService_GetUserByEmail(t *testing.T) {
	store := newStubStore()
	store.seed(t, "a@x.com", "pw", true, domain.RoleUser)
	svc := NewUserService(store, zerolog.Nop())

	u, err := svc.GetUserByEmail(context.Background(), adminPrincipal, "a@x.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if u.Email != "a@x.com" {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestUserService_GetUserByEmail_MissingIsNotFound(t *testing.T) {
	svc := NewUserService(newStubStore(), zerolog.Nop())

	u, err := svc.GetUserByEmail(context.Background(), adminPrincipal, "missing@x.com")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if u != nil {
		t.Fatalf("expected nil user alongside error")
	}
}

func TestUserService_GetUserByPhone(t *testing.T) {
	store := newStubStore()
	seeded := store.seed(t, "b@x.com", "pw", true, domain.RoleUser)
	svc := NewUserService(store, zerolog.Nop())

	u, err := svc.GetUserByPhone(context.Background(), adminPrincipal, seeded.PhoneNumber)
	if err != nil || u.ID != seeded.ID {
		t.Fatalf("lookup by phone: %+v / %v", u, err)
	}
	if _, err := svc.GetUserByPhone(context.Background(), adminPrincipal, "000"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.GetUserByPhone(context.Background(), adminPrincipal, "  "); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for blank phone, got %v", err)
	}
}

func TestUserService_AdminOnly(t *testing.T) {
	store := newStubStore()
	store.seed(t, "a@x.com", "pw", true, domain.RoleUser)
	svc := NewUserService(store, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.ListUsers(ctx, userPrincipal); !errors.Is(err, domain.ErrDenied) {
		t.Fatalf("expected ErrDenied, got %v", err)
	}
	if _, err := svc.GetUserByEmail(ctx, userPrincipal, "a@x.com"); !errors.Is(err, domain.ErrDenied) {
		t.Fatalf("expected ErrDenied, got %v", err)
	}
	users, err := svc.ListUsers(ctx, adminPrincipal)
	if err != nil || len(users) != 1 {
		t.Fatalf("list users: %d / %v", len(users), err)
	}
}
