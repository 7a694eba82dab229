package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/payflow/payment-gateway/internal/core/domain"
	"github.com/payflow/payment-gateway/internal/core/ports"
)

// stubPaymentService records the last money movement and answers every
// lookup from fixed data.
type stubPaymentService struct {
	lastInput ports.MoneyMovementInput
	lastSpec  domain.AccountSpec
	outcome   string
	err       error
	accounts  []domain.Account
}

func (s *stubPaymentService) Deposit(ctx context.Context, p *domain.Principal, in ports.MoneyMovementInput) (string, error) {
	s.lastInput = in
	return s.outcome, s.err
}

func (s *stubPaymentService) Withdraw(ctx context.Context, p *domain.Principal, in ports.MoneyMovementInput) (string, error) {
	s.lastInput = in
	return s.outcome, s.err
}

func (s *stubPaymentService) CreateAccount(ctx context.Context, p *domain.Principal, spec domain.AccountSpec) (string, error) {
	s.lastSpec = spec
	return s.outcome, s.err
}

func (s *stubPaymentService) DeleteAccount(ctx context.Context, p *domain.Principal, accountID int64) (string, error) {
	return s.outcome, s.err
}

func (s *stubPaymentService) GetAccount(ctx context.Context, p *domain.Principal, accountID int64) (*domain.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.accounts {
		if s.accounts[i].ID == accountID {
			return &s.accounts[i], nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (s *stubPaymentService) GetAccountByNumber(ctx context.Context, p *domain.Principal, accountNumber int) (*domain.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.accounts {
		if s.accounts[i].AccountNumber == accountNumber {
			return &s.accounts[i], nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (s *stubPaymentService) ListAccountsByUser(ctx context.Context, p *domain.Principal, userID int64) ([]domain.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.Account
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubPaymentService) ListAccounts(ctx context.Context, p *domain.Principal) ([]domain.Account, error) {
	return s.accounts, s.err
}

func TestAccountHandler_Deposit_Success(t *testing.T) {
	stub := &stubPaymentService{outcome: "Deposited 100.50"}
	c, rec := newContext(http.MethodPut, "/", "")
	withParams(c, "userId", "7", "accountNumber", "1001", "amount", "100.50")
	authenticated(c, userPrincipal())

	if err := NewAccountHandler(stub).Deposit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	in := stub.lastInput
	if in.UserID != 7 || in.AccountNumber != 1001 || !in.Amount.Equal(decimal.RequireFromString("100.50")) {
		t.Fatalf("unexpected input: %+v", in)
	}

	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message != "Deposited 100.50" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestAccountHandler_Withdraw_DownstreamFailurePassesThrough(t *testing.T) {
	want := &domain.DownstreamError{Kind: domain.DownstreamBusinessRejection, Op: "withdraw", StatusCode: 400, Message: "insufficient funds"}
	stub := &stubPaymentService{err: want}
	c, _ := newContext(http.MethodPut, "/", "")
	withParams(c, "userId", "7", "accountNumber", "1001", "amount", "500")
	authenticated(c, userPrincipal())

	err := NewAccountHandler(stub).Withdraw(c)
	if !errors.Is(err, want) {
		t.Fatalf("expected downstream error, got %v", err)
	}
}

func TestAccountHandler_Deposit_BadPathParams(t *testing.T) {
	cases := [][]string{
		{"userId", "x", "accountNumber", "1", "amount", "1"},
		{"userId", "1", "accountNumber", "x", "amount", "1"},
		{"userId", "1", "accountNumber", "1", "amount", "ten"},
	}
	for _, params := range cases {
		stub := &stubPaymentService{}
		c, _ := newContext(http.MethodPut, "/", "")
		withParams(c, params...)
		authenticated(c, userPrincipal())

		expectHTTPError(t, NewAccountHandler(stub).Deposit(c), http.StatusBadRequest)
	}
}

func TestAccountHandler_Deposit_Unauthenticated(t *testing.T) {
	c, _ := newContext(http.MethodPut, "/", "")
	withParams(c, "userId", "7", "accountNumber", "1001", "amount", "1")
	expectHTTPError(t, NewAccountHandler(&stubPaymentService{}).Deposit(c), http.StatusUnauthorized)
}

func TestAccountHandler_Create(t *testing.T) {
	stub := &stubPaymentService{outcome: "Account created"}
	c, rec := newContext(http.MethodPost, "/secured/createAccount", `{"accountNumber":2002,"userId":7,"accountType":"SAVINGS","balance":"25.00"}`)
	authenticated(c, userPrincipal())

	if err := NewAccountHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if stub.lastSpec.AccountNumber != 2002 || !stub.lastSpec.Balance.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("unexpected spec: %+v", stub.lastSpec)
	}
}

func TestAccountHandler_Create_Invalid(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/secured/createAccount", `{"accountNumber":0,"userId":7}`)
	authenticated(c, userPrincipal())

	expectHTTPError(t, NewAccountHandler(&stubPaymentService{}).Create(c), http.StatusUnprocessableEntity)
}

func TestAccountHandler_Delete(t *testing.T) {
	stub := &stubPaymentService{outcome: "Account deleted"}
	c, rec := newContext(http.MethodDelete, "/", "")
	withParams(c, "accountId", "3")
	authenticated(c, adminPrincipal())

	if err := NewAccountHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_Delete_Denied(t *testing.T) {
	stub := &stubPaymentService{err: domain.ErrDenied}
	c, _ := newContext(http.MethodDelete, "/", "")
	withParams(c, "accountId", "3")
	authenticated(c, userPrincipal())

	if err := NewAccountHandler(stub).Delete(c); !errors.Is(err, domain.ErrDenied) {
		t.Fatalf("expected ErrDenied, got %v", err)
	}
}

func TestAccountHandler_Lookups(t *testing.T) {
	stub := &stubPaymentService{accounts: []domain.Account{
		{ID: 1, AccountNumber: 1001, UserID: 7, Balance: decimal.NewFromInt(10)},
		{ID: 2, AccountNumber: 1002, UserID: 8, Balance: decimal.NewFromInt(20)},
	}}
	h := NewAccountHandler(stub)

	c, rec := newContext(http.MethodGet, "/", "")
	withParams(c, "accountId", "2")
	authenticated(c, adminPrincipal())
	if err := h.Get(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	var acc domain.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &acc); err != nil || acc.AccountNumber != 1002 {
		t.Fatalf("get returned %+v (%v)", acc, err)
	}

	c, _ = newContext(http.MethodGet, "/", "")
	withParams(c, "accountNumber", "9999")
	authenticated(c, adminPrincipal())
	if err := h.GetByNumber(c); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	c, rec = newContext(http.MethodGet, "/", "")
	withParams(c, "userId", "7")
	authenticated(c, adminPrincipal())
	if err := h.ListByUser(c); err != nil {
		t.Fatalf("list by user: %v", err)
	}
	var accs []domain.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &accs); err != nil || len(accs) != 1 {
		t.Fatalf("list by user returned %+v (%v)", accs, err)
	}

	c, rec = newContext(http.MethodGet, "/", "")
	withParams(c, "userId", "42")
	authenticated(c, adminPrincipal())
	if err := h.ListByUser(c); err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty array, got %q", body)
	}

	c, rec = newContext(http.MethodGet, "/", "")
	authenticated(c, adminPrincipal())
	if err := h.List(c); err != nil {
		t.Fatalf("list: %v", err)
	}
	accs = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &accs); err != nil || len(accs) != 2 {
		t.Fatalf("list returned %+v (%v)", accs, err)
	}
}
