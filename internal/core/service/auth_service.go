package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/payflow/payment-gateway/internal/core/domain"
	"github.com/payflow/payment-gateway/internal/core/ports"
	"github.com/payflow/payment-gateway/internal/pkg/metrics"
)

// tokenClaims is the JWT payload issued by Login.
type tokenClaims struct {
	UserID int64    `json:"uid"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// AuthService implements authentication, token issuance and user registration.
type AuthService struct {
	store     ports.CredentialStore
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(store ports.CredentialStore, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{store: store, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Authenticate verifies secret against the stored bcrypt hash. A disabled
// record fails before the secret is looked at.
func (s *AuthService) Authenticate(ctx context.Context, identifier, secret string) (*domain.Principal, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.store.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("not_found").Inc()
			return nil, domain.ErrPrincipalNotFound
		}
		metrics.AuthAttemptsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !user.Enabled {
		metrics.AuthAttemptsTotal.WithLabelValues("disabled").Inc()
		return nil, domain.ErrPrincipalDisabled
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)) != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if len(user.Roles) == 0 {
		s.log.Warn().Str("identifier", identifier).Msg("credential record has no roles")
		metrics.AuthAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, fmt.Errorf("%w: no roles assigned", domain.ErrInvalidCredentials)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("ok").Inc()
	return domain.NewPrincipal(user), nil
}

// Login authenticates and returns a signed bearer token for the principal.
func (s *AuthService) Login(ctx context.Context, identifier, secret string) (string, *domain.Principal, error) {
	p, err := s.Authenticate(ctx, identifier, secret)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(p)
	if err != nil {
		return "", nil, fmt.Errorf("login: sign token: %w", err)
	}
	return token, p, nil
}

// ParseToken validates an HS256 token and rebuilds the principal from its
// claims. Tokens without a recognised role are rejected.
func (s *AuthService) ParseToken(token string) (*domain.Principal, error) {
	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	roles, err := domain.ParseRoleSet(claims.Roles)
	if err != nil || len(roles) == 0 || claims.Subject == "" {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.Principal{
		Identifier: claims.Subject,
		UserID:     claims.UserID,
		Roles:      roles,
	}, nil
}

// Register adds a user on behalf of an administrator. Requested roles must
// be known names that are also present in the credential store; an empty
// request grants USER.
func (s *AuthService) Register(ctx context.Context, actor *domain.Principal, in ports.RegisterUserInput) (*domain.User, error) {
	if err := Gate(actor, domain.OpAddUser); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	requested := in.Roles
	if len(requested) == 0 {
		requested = []string{string(domain.RoleUser)}
	}
	roles, err := domain.ParseRoleSet(requested)
	if err != nil {
		return nil, err
	}
	for _, r := range roles {
		if _, err := s.store.FindRoleByName(ctx, r); err != nil {
			return nil, fmt.Errorf("register: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         in.Name,
		Email:        strings.TrimSpace(in.Email),
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: string(hash),
		Enabled:      true,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.store.Save(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("email", created.Email).
		Strs("roles", created.Roles.Strings()).
		Str("added_by", actor.Identifier).
		Msg("user registered")
	return created, nil
}

func (s *AuthService) generateToken(p *domain.Principal) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID: p.UserID,
		Roles:  p.Roles.Strings(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Identifier,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
