package domain

import (
	"errors"
	"fmt"
)

// Authentication failures.
var (
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrPrincipalDisabled  = errors.New("principal disabled")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ErrDenied is returned by the authorization gate.
var ErrDenied = errors.New("access denied")

// Lookup and validation failures.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrUserExists      = errors.New("user already exists")
	ErrUnknownRole     = errors.New("unknown role")
	ErrRoleNotFound    = errors.New("role not found")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
)

// ErrAlertQueueFull is returned when the alert dispatcher cannot accept more
// work. It never reaches API callers.
var ErrAlertQueueFull = errors.New("alert queue full")

// IsAuthError reports whether err is one of the authentication failures.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrPrincipalNotFound) ||
		errors.Is(err, ErrPrincipalDisabled) ||
		errors.Is(err, ErrInvalidCredentials)
}

// DownstreamKind classifies account service failures.
type DownstreamKind int

const (
	DownstreamBusinessRejection DownstreamKind = iota
	DownstreamUnreachable
	DownstreamTimeout
)

func (k DownstreamKind) String() string {
	switch k {
	case DownstreamUnreachable:
		return "unreachable"
	case DownstreamTimeout:
		return "timeout"
	default:
		return "business_rejection"
	}
}

// DownstreamError is a failure reported by, or while reaching, the account
// service. StatusCode is zero unless the service answered.
type DownstreamError struct {
	Kind       DownstreamKind
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *DownstreamError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("account service %s: %s (status %d): %s", e.Op, e.Kind, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("account service %s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("account service %s: %s", e.Op, e.Kind)
	}
}

func (e *DownstreamError) Unwrap() error { return e.Err }

// AsDownstreamError unwraps err into a *DownstreamError when possible.
func AsDownstreamError(err error) (*DownstreamError, bool) {
	var de *DownstreamError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsDownstreamKind reports whether err is a DownstreamError of kind k.
func IsDownstreamKind(err error, k DownstreamKind) bool {
	de, ok := AsDownstreamError(err)
	return ok && de.Kind == k
}
