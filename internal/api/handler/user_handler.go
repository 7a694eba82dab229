package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/payflow/payment-gateway/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Ping confirms the caller holds a gateway role. The route is gated by the
// RBAC middleware.
//
// @Summary      Secured ping
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Security     BasicAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /secured/admin/all [get]
func (h *UserHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "Secured Hello"})
}

// List handles GET /secured/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Security     BasicAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  errorResponse
// @Router       /secured/users [get]
func (h *UserHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	users, err := h.service.ListUsers(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(users))
}

// GetByEmail handles GET /secured/getCustomerByEmail/:email.
//
// @Summary      Find a user by email
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Security     BasicAuth
// @Param        email  path      string  true  "Email address"
// @Success      200    {object}  domain.User
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /secured/getCustomerByEmail/{email} [get]
func (h *UserHandler) GetByEmail(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	u, err := h.service.GetUserByEmail(c.Request().Context(), p, c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// GetByPhone handles GET /secured/getCustomerByPhoneNumber/:phoneNumber.
//
// @Summary      Find a user by phone number
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Security     BasicAuth
// @Param        phoneNumber  path      string  true  "Phone number"
// @Success      200          {object}  domain.User
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /secured/getCustomerByPhoneNumber/{phoneNumber} [get]
func (h *UserHandler) GetByPhone(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	u, err := h.service.GetUserByPhone(c.Request().Context(), p, c.Param("phoneNumber"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}
