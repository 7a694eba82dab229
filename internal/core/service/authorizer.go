package service

import (
	"fmt"

	"github.com/payflow/payment-gateway/internal/core/domain"
	"github.com/payflow/payment-gateway/internal/pkg/metrics"
)

// Decision is the outcome of an authorization check.
type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

func (d Decision) String() string {
	if d {
		return "allow"
	}
	return "deny"
}

// Authorize allows when the principal holds at least one of the required
// roles. A nil principal or an empty role set on either side is denied.
func Authorize(p *domain.Principal, required domain.RoleSet) Decision {
	if p == nil || len(p.Roles) == 0 || len(required) == 0 {
		return Deny
	}
	return Decision(p.Roles.Intersects(required))
}

// Gate applies Authorize to op's static role table and converts a denial
// into domain.ErrDenied.
func Gate(p *domain.Principal, op domain.Operation) error {
	if Authorize(p, domain.RequiredRoles(op)) == Allow {
		return nil
	}
	metrics.AuthorizationDeniedTotal.WithLabelValues(string(op)).Inc()
	return fmt.Errorf("%s: %w", op, domain.ErrDenied)
}
