package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/payflow/payment-gateway/internal/core/domain"
)

const principalKey = "principal"

// basicChallenge is sent with every 401 so HTTP clients know Basic is accepted.
const basicChallenge = `Basic realm="payment-gateway", charset="UTF-8"`

// Authenticator is the subset of the auth service the middleware needs.
type Authenticator interface {
	Authenticate(ctx context.Context, identifier, secret string) (*domain.Principal, error)
	ParseToken(token string) (*domain.Principal, error)
}

// Auth resolves the caller from either a Bearer token or HTTP Basic
// credentials and stores the resulting principal in the context.
func Auth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, basicChallenge)
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			var (
				p   *domain.Principal
				err error
			)
			switch {
			case strings.EqualFold(parts[0], "bearer"):
				p, err = auth.ParseToken(strings.TrimSpace(parts[1]))
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
			case strings.EqualFold(parts[0], "basic"):
				identifier, secret, ok := c.Request().BasicAuth()
				if !ok {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
				}
				p, err = auth.Authenticate(c.Request().Context(), identifier, secret)
				if err != nil {
					c.Response().Header().Set(echo.HeaderWWWAuthenticate, basicChallenge)
					return err
				}
			default:
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// Principal returns the caller stored by Auth, or nil when the request was
// not authenticated.
func Principal(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalKey).(*domain.Principal)
	return p
}

// WithPrincipal stores p the same way Auth does. Handlers under test use it
// to skip the authentication step.
func WithPrincipal(c echo.Context, p *domain.Principal) {
	c.Set(principalKey, p)
}
