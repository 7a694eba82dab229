package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/payflow/payment-gateway/internal/core/domain"
	"github.com/payflow/payment-gateway/internal/core/ports"
	"github.com/payflow/payment-gateway/internal/pkg/metrics"
)

// alertLookupTimeout bounds the owner lookup, which no longer follows the
// caller's context once money has moved.
const alertLookupTimeout = 5 * time.Second

// PaymentService gates account operations and forwards them to the account
// service. Deposits and withdrawals additionally notify the account owner.
type PaymentService struct {
	accounts  ports.AccountClient
	users     ports.UserStore
	publisher ports.AlertPublisher
	log       zerolog.Logger
}

func NewPaymentService(
	accounts ports.AccountClient,
	users ports.UserStore,
	publisher ports.AlertPublisher,
	log zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		accounts:  accounts,
		users:     users,
		publisher: publisher,
		log:       log,
	}
}

// Deposit credits an account and alerts the user identified by in.UserID.
func (s *PaymentService) Deposit(ctx context.Context, p *domain.Principal, in ports.MoneyMovementInput) (string, error) {
	return s.moveMoney(ctx, p, domain.OpDeposit, in, s.accounts.Deposit)
}

// Withdraw debits an account and alerts the user identified by in.UserID.
func (s *PaymentService) Withdraw(ctx context.Context, p *domain.Principal, in ports.MoneyMovementInput) (string, error) {
	return s.moveMoney(ctx, p, domain.OpWithdraw, in, s.accounts.Withdraw)
}

type moneyCall func(ctx context.Context, accountNumber int, amount decimal.Decimal) (string, error)

// moveMoney runs gate → downstream → user lookup → alert. The outcome of a
// successful downstream call is returned whatever happens to the alert.
func (s *PaymentService) moveMoney(
	ctx context.Context,
	p *domain.Principal,
	op domain.Operation,
	in ports.MoneyMovementInput,
	call moneyCall,
) (string, error) {
	if err := Gate(p, op); err != nil {
		metrics.OperationsTotal.WithLabelValues(string(op), "denied").Inc()
		return "", err
	}
	if !in.Amount.IsPositive() {
		metrics.OperationsTotal.WithLabelValues(string(op), "invalid").Inc()
		return "", domain.ErrInvalidAmount
	}

	start := time.Now()
	outcome, err := call(ctx, in.AccountNumber, in.Amount)
	observeDownstream(op, start, err)
	if err != nil {
		result, ev := "downstream_error", s.log.Warn()
		if domain.IsDownstreamKind(err, domain.DownstreamTimeout) {
			// The account service may still have applied the movement.
			result, ev = "outcome_unknown", s.log.Error()
		}
		metrics.OperationsTotal.WithLabelValues(string(op), result).Inc()
		ev.Err(err).
			Str("operation", string(op)).
			Int("account_number", in.AccountNumber).
			Msg("downstream call failed")
		return "", err
	}
	metrics.OperationsTotal.WithLabelValues(string(op), "ok").Inc()

	if op.IsMonetary() {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), alertLookupTimeout)
		defer cancel()
		s.notify(lookupCtx, op, in, outcome)
	}
	return outcome, nil
}

// notify looks up the account owner and hands an alert to the publisher.
// Nothing here can fail the operation.
func (s *PaymentService) notify(ctx context.Context, op domain.Operation, in ports.MoneyMovementInput, outcome string) {
	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AlertsSkippedTotal.WithLabelValues("user_not_found").Inc()
			s.log.Debug().Int64("user_id", in.UserID).Str("operation", string(op)).Msg("no user for alert, skipping")
			return
		}
		metrics.AlertsSkippedTotal.WithLabelValues("lookup_failed").Inc()
		s.log.Warn().Err(err).Int64("user_id", in.UserID).Msg("user lookup for alert failed")
		return
	}

	msg := domain.NewAlertMessage(user, op, in.AccountNumber, in.Amount, outcome)
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.log.Warn().Err(err).
			Str("event_id", msg.EventID).
			Str("operation", string(op)).
			Msg("alert not published")
		return
	}

	s.log.Info().
		Str("event_id", msg.EventID).
		Str("operation", string(op)).
		Int("account_number", in.AccountNumber).
		Int64("user_id", in.UserID).
		Msg("alert handed to publisher")
}

// CreateAccount forwards the account payload to the account service.
func (s *PaymentService) CreateAccount(ctx context.Context, p *domain.Principal, spec domain.AccountSpec) (string, error) {
	return gated(p, domain.OpCreateAccount, func() (string, error) {
		return s.accounts.CreateAccount(ctx, spec)
	})
}

// DeleteAccount removes an account by id.
func (s *PaymentService) DeleteAccount(ctx context.Context, p *domain.Principal, accountID int64) (string, error) {
	return gated(p, domain.OpDeleteAccount, func() (string, error) {
		return s.accounts.DeleteAccount(ctx, accountID)
	})
}

func (s *PaymentService) GetAccount(ctx context.Context, p *domain.Principal, accountID int64) (*domain.Account, error) {
	return gated(p, domain.OpGetAccount, func() (*domain.Account, error) {
		return s.accounts.GetAccount(ctx, accountID)
	})
}

func (s *PaymentService) GetAccountByNumber(ctx context.Context, p *domain.Principal, accountNumber int) (*domain.Account, error) {
	return gated(p, domain.OpGetAccountByNumber, func() (*domain.Account, error) {
		return s.accounts.GetAccountByNumber(ctx, accountNumber)
	})
}

func (s *PaymentService) ListAccountsByUser(ctx context.Context, p *domain.Principal, userID int64) ([]domain.Account, error) {
	return gated(p, domain.OpListAccountsByUser, func() ([]domain.Account, error) {
		return s.accounts.GetAccountsByUser(ctx, userID)
	})
}

func (s *PaymentService) ListAccounts(ctx context.Context, p *domain.Principal) ([]domain.Account, error) {
	return gated(p, domain.OpListAccounts, func() ([]domain.Account, error) {
		return s.accounts.GetAllAccounts(ctx)
	})
}

// gated is the gate-then-delegate shape shared by every non-monetary operation.
func gated[T any](p *domain.Principal, op domain.Operation, call func() (T, error)) (T, error) {
	var zero T
	if err := Gate(p, op); err != nil {
		metrics.OperationsTotal.WithLabelValues(string(op), "denied").Inc()
		return zero, err
	}

	start := time.Now()
	out, err := call()
	observeDownstream(op, start, err)
	if err != nil {
		metrics.OperationsTotal.WithLabelValues(string(op), resultLabel(err)).Inc()
		return zero, err
	}
	metrics.OperationsTotal.WithLabelValues(string(op), "ok").Inc()
	return out, nil
}

func observeDownstream(op domain.Operation, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = resultLabel(err)
		if de, ok := domain.AsDownstreamError(err); ok {
			outcome = de.Kind.String()
		}
	}
	metrics.DownstreamDuration.WithLabelValues(string(op), outcome).Observe(time.Since(start).Seconds())
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrDenied):
		return "denied"
	default:
		return "downstream_error"
	}
}
