package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/payflow/payment-gateway/internal/core/domain"
	"github.com/payflow/payment-gateway/internal/core/ports"
)

// AccountHandler exposes account operations. Authorization happens in the
// payment service; the handler only parses input.
type AccountHandler struct {
	service ports.PaymentService
}

func NewAccountHandler(service ports.PaymentService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Deposit handles PUT /secured/depositAccount/userId/:userId/accountNumber/:accountNumber/amount/:amount.
//
// @Summary      Deposit into an account
// @Description  Credits the account and alerts the user identified by userId.
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Security     BasicAuth
// @Param        userId         path      int     true  "Alert recipient"
// @Param        accountNumber  path      int     true  "Account number"
// @Param        amount         path      string  true  "Amount, e.g. 100.50"
// @Success      200            {object}  messageResponse
// @Failure      400            {object}  errorResponse
// @Failure      403            {object}  errorResponse
// @Failure      422            {object}  errorResponse
// @Failure      502            {object}  errorResponse
// @Failure      504            {object}  errorResponse
// @Router       /secured/depositAccount/userId/{userId}/accountNumber/{accountNumber}/amount/{amount} [put]
func (h *AccountHandler) Deposit(c echo.Context) error {
	return h.moveMoney(c, h.service.Deposit)
}

// Withdraw handles PUT /secured/withdrawAccount/userId/:userId/accountNumber/:accountNumber/amount/:amount.
//
// @Summary      Withdraw from an account
// @Description  Debits the account and alerts the user identified by userId.
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Security     BasicAuth
// @Param        userId         path      int     true  "Alert recipient"
// @Param        accountNumber  path      int     true  "Account number"
// @Param        amount         path      string  true  "Amount, e.g. 100.50"
// @Success      200            {object}  messageResponse
// @Failure      400            {object}  errorResponse
// @Failure      403            {object}  errorResponse
// @Failure      422            {object}  errorResponse
// @Failure      502            {object}  errorResponse
// @Failure      504            {object}  errorResponse
// @Router       /secured/withdrawAccount/userId/{userId}/accountNumber/{accountNumber}/amount/{amount} [put]
func (h *AccountHandler) Withdraw(c echo.Context) error {
	return h.moveMoney(c, h.service.Withdraw)
}

type moneyMovementFunc func(ctx context.Context, p *domain.Principal, in ports.MoneyMovementInput) (string, error)

func (h *AccountHandler) moveMoney(c echo.Context, fn moneyMovementFunc) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid userId")
	}
	accountNumber, err := strconv.Atoi(c.Param("accountNumber"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid accountNumber")
	}
	amount, err := decimal.NewFromString(c.Param("amount"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid amount")
	}

	outcome, err := fn(c.Request().Context(), p, ports.MoneyMovementInput{
		UserID:        userID,
		AccountNumber: accountNumber,
		Amount:        amount,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: outcome})
}

// Create handles POST /secured/createAccount.
//
// @Summary      Create an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Security     BasicAuth
// @Param        body  body      createAccountRequest  true  "Account details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /secured/createAccount [post]
func (h *AccountHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	outcome, err := h.service.CreateAccount(c.Request().Context(), p, req.toSpec())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: outcome})
}

// Delete handles DELETE /secured/deleteAccountById/:accountId.
//
// @Summary      Delete an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Security     BasicAuth
// @Param        accountId  path      int  true  "Account id"
// @Success      200        {object}  messageResponse
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Failure      502        {object}  errorResponse
// @Router       /secured/deleteAccountById/{accountId} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	accountID, err := strconv.ParseInt(c.Param("accountId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid accountId")
	}

	outcome, err := h.service.DeleteAccount(c.Request().Context(), p, accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: outcome})
}

// Get handles GET /secured/getAccountByAccountId/:accountId.
//
// @Summary      Get an account by id
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Security     BasicAuth
// @Param        accountId  path      int  true  "Account id"
// @Success      200        {object}  domain.Account
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /secured/getAccountByAccountId/{accountId} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	accountID, err := strconv.ParseInt(c.Param("accountId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid accountId")
	}

	acc, err := h.service.GetAccount(c.Request().Context(), p, accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, acc)
}

// GetByNumber handles GET /secured/getAccountByAccountNumber/:accountNumber.
//
// @Summary      Get an account by number
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Security     BasicAuth
// @Param        accountNumber  path      int  true  "Account number"
// @Success      200            {object}  domain.Account
// @Failure      403            {object}  errorResponse
// @Failure      404            {object}  errorResponse
// @Router       /secured/getAccountByAccountNumber/{accountNumber} [get]
func (h *AccountHandler) GetByNumber(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	accountNumber, err := strconv.Atoi(c.Param("accountNumber"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid accountNumber")
	}

	acc, err := h.service.GetAccountByNumber(c.Request().Context(), p, accountNumber)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, acc)
}

// ListByUser handles GET /secured/getAllAccounts/:userId.
//
// @Summary      List a user's accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Security     BasicAuth
// @Param        userId  path      int  true  "User id"
// @Success      200     {array}   domain.Account
// @Failure      403     {object}  errorResponse
// @Router       /secured/getAllAccounts/{userId} [get]
func (h *AccountHandler) ListByUser(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid userId")
	}

	accs, err := h.service.ListAccountsByUser(c.Request().Context(), p, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(accs))
}

// List handles GET /secured/getAllAccounts.
//
// @Summary      List all accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Security     BasicAuth
// @Success      200  {array}   domain.Account
// @Failure      403  {object}  errorResponse
// @Router       /secured/getAllAccounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	accs, err := h.service.ListAccounts(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(accs))
}

// nonNil renders an empty JSON array instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
