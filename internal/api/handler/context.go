package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/payflow/payment-gateway/internal/api/middleware"
	"github.com/payflow/payment-gateway/internal/core/domain"
)

// ctxPrincipal returns the caller resolved by the Auth middleware. A missing
// principal means the route was mounted without Auth and fails fast with 401
// before any service call.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p := middleware.Principal(c)
	if p == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return p, nil
}

// bindAndValidate decodes the request into req and runs the registered
// validator. Decode failures are 400, rule violations 422.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
