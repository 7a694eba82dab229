package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/payflow/payment-gateway/internal/core/domain"
	"github.com/payflow/payment-gateway/internal/core/ports"
	"github.com/payflow/payment-gateway/internal/pkg/metrics"
)

// UserService answers gated user queries against the user store.
type UserService struct {
	users ports.UserStore
	log   zerolog.Logger
}

func NewUserService(users ports.UserStore, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) ListUsers(ctx context.Context, p *domain.Principal) ([]*domain.User, error) {
	if err := Gate(p, domain.OpListUsers); err != nil {
		metrics.OperationsTotal.WithLabelValues(string(domain.OpListUsers), "denied").Inc()
		return nil, err
	}
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	metrics.OperationsTotal.WithLabelValues(string(domain.OpListUsers), "ok").Inc()
	return users, nil
}

// GetUserByEmail returns domain.ErrUserNotFound when no user has the address.
func (s *UserService) GetUserByEmail(ctx context.Context, p *domain.Principal, email string) (*domain.User, error) {
	return s.lookup(ctx, p, domain.OpGetUserByEmail, email, s.users.FindByEmail)
}

// GetUserByPhone returns domain.ErrUserNotFound when no user has the number.
func (s *UserService) GetUserByPhone(ctx context.Context, p *domain.Principal, phone string) (*domain.User, error) {
	return s.lookup(ctx, p, domain.OpGetUserByPhone, phone, s.users.FindByPhone)
}

func (s *UserService) lookup(
	ctx context.Context,
	p *domain.Principal,
	op domain.Operation,
	key string,
	find func(context.Context, string) (*domain.User, error),
) (*domain.User, error) {
	if err := Gate(p, op); err != nil {
		metrics.OperationsTotal.WithLabelValues(string(op), "denied").Inc()
		return nil, err
	}

	key = strings.TrimSpace(key)
	if key == "" {
		metrics.OperationsTotal.WithLabelValues(string(op), "not_found").Inc()
		return nil, domain.ErrUserNotFound
	}

	user, err := find(ctx, key)
	if err == nil && user == nil {
		err = domain.ErrUserNotFound
	}
	if err != nil {
		metrics.OperationsTotal.WithLabelValues(string(op), resultLabel(err)).Inc()
		return nil, fmt.Errorf("%s %q: %w", op, key, err)
	}

	metrics.OperationsTotal.WithLabelValues(string(op), "ok").Inc()
	return user, nil
}
