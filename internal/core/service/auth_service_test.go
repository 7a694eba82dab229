package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/payflow/payment-gateway/internal/core/domain"
	"github.com/payflow/payment-gateway/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory credential + user store
// ---------------------------------------------------------------------------

type stubStore struct {
	users   map[string]*domain.User
	roles   map[domain.Role]bool
	nextID  int64
	findErr error
}

func newStubStore() *stubStore {
	return &stubStore{
		users: make(map[string]*domain.User),
		roles: map[domain.Role]bool{domain.RoleAdmin: true, domain.RoleUser: true},
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append(domain.RoleSet(nil), u.Roles...)
	return &clone
}

func (s *stubStore) seed(t *testing.T, email, password string, enabled bool, roles ...domain.Role) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	s.nextID++
	u := &domain.User{
		ID:           s.nextID,
		Email:        email,
		PhoneNumber:  fmt.Sprintf("555-%04d", s.nextID),
		PasswordHash: string(hash),
		Enabled:      enabled,
		Roles:        domain.NewRoleSet(roles...),
	}
	s.users[email] = u
	return cloneUser(u)
}

func (s *stubStore) FindByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	u, ok := s.users[identifier]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *stubStore) FindRoleByName(_ context.Context, name domain.Role) (*domain.RoleRecord, error) {
	if !s.roles[name] {
		return nil, domain.ErrRoleNotFound
	}
	return &domain.RoleRecord{ID: string(name), Name: name}, nil
}

func (s *stubStore) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := s.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	s.nextID++
	clone := cloneUser(user)
	clone.ID = s.nextID
	s.users[clone.Email] = clone
	return cloneUser(clone), nil
}

func (s *stubStore) FindByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.FindByIdentifier(ctx, email)
}

func (s *stubStore) FindByPhone(_ context.Context, phone string) (*domain.User, error) {
	for _, u := range s.users {
		if u.PhoneNumber == phone {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubStore) ListAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

var adminActor = &domain.Principal{Identifier: "root@x.com", UserID: 1, Roles: domain.NewRoleSet(domain.RoleAdmin)}

func newAuthSvc(store *stubStore) *AuthService {
	return NewAuthService(store, "secret", time.Hour, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Authenticate
// ---------------------------------------------------------------------------

func TestAuthService_Authenticate_Success(t *testing.T) {
	store := newStubStore()
	seeded := store.seed(t, "alice@x.com", "s3cret", true, domain.RoleUser, domain.RoleAdmin)
	svc := newAuthSvc(store)

	p, err := svc.Authenticate(context.Background(), "alice@x.com", "s3cret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if p.Identifier != "alice@x.com" || p.UserID != seeded.ID {
		t.Fatalf("unexpected principal: %+v", p)
	}
	if !p.Roles.Has(domain.RoleAdmin) || !p.Roles.Has(domain.RoleUser) {
		t.Fatalf("expected full role set, got %v", p.Roles)
	}
}

func TestAuthService_Authenticate_NotFound(t *testing.T) {
	svc := newAuthSvc(newStubStore())

	if _, err := svc.Authenticate(context.Background(), "ghost@x.com", "pass"); !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
}

func TestAuthService_Authenticate_DisabledRegardlessOfSecret(t *testing.T) {
	store := newStubStore()
	store.seed(t, "bob@x.com", "right", false, domain.RoleUser)
	svc := newAuthSvc(store)

	for _, secret := range []string{"right", "wrong"} {
		if _, err := svc.Authenticate(context.Background(), "bob@x.com", secret); !errors.Is(err, domain.ErrPrincipalDisabled) {
			t.Fatalf("secret %q: expected ErrPrincipalDisabled, got %v", secret, err)
		}
	}
}

func TestAuthService_Authenticate_InvalidSecret(t *testing.T) {
	store := newStubStore()
	store.seed(t, "carol@x.com", "goodpass", true, domain.RoleUser)
	svc := newAuthSvc(store)

	if _, err := svc.Authenticate(context.Background(), "carol@x.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_NoRoles(t *testing.T) {
	store := newStubStore()
	store.seed(t, "dave@x.com", "pass", true)
	svc := newAuthSvc(store)

	if _, err := svc.Authenticate(context.Background(), "dave@x.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for role-less record, got %v", err)
	}
}

func TestAuthService_Authenticate_StoreError(t *testing.T) {
	store := newStubStore()
	store.findErr = errors.New("mongo down")
	svc := newAuthSvc(store)

	_, err := svc.Authenticate(context.Background(), "alice@x.com", "pass")
	if err == nil || domain.IsAuthError(err) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Login / ParseToken
// ---------------------------------------------------------------------------

func TestAuthService_Login_IssuesParsableToken(t *testing.T) {
	store := newStubStore()
	store.seed(t, "erin@x.com", "pw", true, domain.RoleUser)
	svc := newAuthSvc(store)

	token, p, err := svc.Login(context.Background(), "erin@x.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || p == nil {
		t.Fatalf("expected token and principal")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != "erin@x.com" {
		t.Fatalf("unexpected subject: %v", claims["sub"])
	}

	back, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if back.Identifier != p.Identifier || back.UserID != p.UserID || !back.Roles.Has(domain.RoleUser) {
		t.Fatalf("round-tripped principal differs: %+v vs %+v", back, p)
	}
}

func TestAuthService_ParseToken_Rejects(t *testing.T) {
	svc := newAuthSvc(newStubStore())

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "a@x.com", "roles": []string{"ADMIN"}})
	signedWrong, _ := wrongKey.SignedString([]byte("other"))

	noRoles := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "a@x.com", "roles": []string{}})
	signedNoRoles, _ := noRoles.SignedString([]byte("secret"))

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "a@x.com", "roles": []string{"ROOT"}})
	signedBadRole, _ := badRole.SignedString([]byte("secret"))

	cases := map[string]string{
		"garbage":      "not-a-token",
		"wrong key":    signedWrong,
		"no roles":     signedNoRoles,
		"unknown role": signedBadRole,
	}
	for name, tok := range cases {
		if _, err := svc.ParseToken(tok); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAuthService_Register_Success(t *testing.T) {
	store := newStubStore()
	svc := newAuthSvc(store)

	user, err := svc.Register(context.Background(), adminActor, ports.RegisterUserInput{
		Email:       "frank@x.com",
		PhoneNumber: "555",
		Password:    "pass123",
		Roles:       []string{"user", "ROLE_ADMIN"},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !user.Enabled {
		t.Fatalf("expected registered user to be enabled")
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if len(user.Roles) != 2 {
		t.Fatalf("expected two roles, got %v", user.Roles)
	}
}

func TestAuthService_Register_DefaultsToUserRole(t *testing.T) {
	svc := newAuthSvc(newStubStore())

	user, err := svc.Register(context.Background(), adminActor, ports.RegisterUserInput{Email: "g@x.com", Password: "pw"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(user.Roles) != 1 || user.Roles[0] != domain.RoleUser {
		t.Fatalf("expected [USER], got %v", user.Roles)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	store := newStubStore()
	delete(store.roles, domain.RoleUser)
	svc := newAuthSvc(store)
	ctx := context.Background()

	if _, err := svc.Register(ctx, adminActor, ports.RegisterUserInput{Email: "", Password: "pw"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty email, got %v", err)
	}
	if _, err := svc.Register(ctx, adminActor, ports.RegisterUserInput{Email: "h@x.com", Password: "pw", Roles: []string{"SUPERUSER"}}); !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	if _, err := svc.Register(ctx, adminActor, ports.RegisterUserInput{Email: "h@x.com", Password: "pw", Roles: []string{"USER"}}); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound for unseeded role, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newAuthSvc(newStubStore())
	in := ports.RegisterUserInput{Email: "i@x.com", Password: "pw"}

	if _, err := svc.Register(context.Background(), adminActor, in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), adminActor, in); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_RequiresAdmin(t *testing.T) {
	store := newStubStore()
	svc := newAuthSvc(store)
	userActor := &domain.Principal{Identifier: "u@x.com", Roles: domain.NewRoleSet(domain.RoleUser)}

	if _, err := svc.Register(context.Background(), userActor, ports.RegisterUserInput{Email: "j@x.com", Password: "pw"}); !errors.Is(err, domain.ErrDenied) {
		t.Fatalf("expected ErrDenied, got %v", err)
	}
	if len(store.users) != 0 {
		t.Fatalf("no user should have been saved")
	}
}
