package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/payflow/payment-gateway/internal/core/domain"
	"github.com/payflow/payment-gateway/internal/core/service"
)

// RBAC runs the authorization gate for op against the principal stored by
// Auth. Routes whose service already gates the operation do not need it.
func RBAC(op domain.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := service.Gate(Principal(c), op); err != nil {
				return fmt.Errorf("rbac: %w", err)
			}
			return next(c)
		}
	}
}
