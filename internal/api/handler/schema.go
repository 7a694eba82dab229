package handler

import (
	"github.com/shopspring/decimal"

	"github.com/payflow/payment-gateway/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse wraps the plain confirmation strings the account service
// and the admin endpoints produce.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token     string            `json:"token"`
	TokenType string            `json:"token_type"`
	Principal *domain.Principal `json:"principal"`
}

type addUserRequest struct {
	Name        string   `json:"name"         validate:"required"`
	Email       string   `json:"email"        validate:"required,email"`
	PhoneNumber string   `json:"phone_number" validate:"required"`
	Password    string   `json:"password"     validate:"required,min=8"`
	Roles       []string `json:"roles"        validate:"omitempty,dive,required"`
}

// --- Accounts ---

type createAccountRequest struct {
	AccountNumber int             `json:"accountNumber" validate:"required,gt=0"`
	UserID        int64           `json:"userId"        validate:"required,gt=0"`
	AccountType   string          `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"       validate:"gte=0"`
}

func (r createAccountRequest) toSpec() domain.AccountSpec {
	return domain.AccountSpec{
		AccountNumber: r.AccountNumber,
		UserID:        r.UserID,
		AccountType:   r.AccountType,
		Balance:       r.Balance,
	}
}
