package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/payflow/payment-gateway/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain and downstream errors to HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	if domain.IsAuthError(err) {
		return http.StatusUnauthorized, "authentication failed"
	}

	switch {
	case errors.Is(err, domain.ErrDenied):
		return http.StatusForbidden, "access denied"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusUnprocessableEntity, domain.ErrInvalidAmount.Error()
	case errors.Is(err, domain.ErrUnknownRole), errors.Is(err, domain.ErrRoleNotFound):
		return http.StatusBadRequest, err.Error()
	}

	if de, ok := domain.AsDownstreamError(err); ok {
		return resolveDownstream(de, log, c)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// resolveDownstream relays the account service's own 4xx rejections and
// turns everything else into a gateway error.
func resolveDownstream(de *domain.DownstreamError, log zerolog.Logger, c echo.Context) (int, string) {
	log.Warn().
		Err(de).
		Str("kind", de.Kind.String()).
		Str("path", c.Path()).
		Msg("account service call failed")

	switch de.Kind {
	case domain.DownstreamTimeout:
		return http.StatusGatewayTimeout, "account service timed out"
	case domain.DownstreamUnreachable:
		return http.StatusBadGateway, "account service unavailable"
	}

	if de.StatusCode >= 400 && de.StatusCode < 500 {
		msg := de.Message
		if msg == "" {
			msg = http.StatusText(de.StatusCode)
		}
		return de.StatusCode, msg
	}
	return http.StatusBadGateway, "account service rejected the request"
}
