// Package accountclient talks to the downstream account service over its
// REST API. Every failure is classified into a *domain.DownstreamError so the
// gateway can surface it without interpreting business rules.
package accountclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/payflow/payment-gateway/internal/core/domain"
)

const (
	defaultTimeout  = 10 * time.Second
	maxErrorBodyLen = 4 << 10
)

// Client implements ports.AccountClient.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the service rooted at baseURL. A non-positive
// timeout uses defaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// errorBody is the account service's error envelope.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) Deposit(ctx context.Context, accountNumber int, amount decimal.Decimal) (string, error) {
	path := fmt.Sprintf("/accounts/deposit/%d/%s", accountNumber, formatAmount(amount))
	return c.text(ctx, "deposit", http.MethodPut, path, nil)
}

func (c *Client) Withdraw(ctx context.Context, accountNumber int, amount decimal.Decimal) (string, error) {
	path := fmt.Sprintf("/accounts/withdraw/%d/%s", accountNumber, formatAmount(amount))
	return c.text(ctx, "withdraw", http.MethodPut, path, nil)
}

func (c *Client) CreateAccount(ctx context.Context, spec domain.AccountSpec) (string, error) {
	return c.text(ctx, "create_account", http.MethodPost, "/accounts", spec)
}

func (c *Client) DeleteAccount(ctx context.Context, accountID int64) (string, error) {
	return c.text(ctx, "delete_account", http.MethodDelete, "/accounts/"+strconv.FormatInt(accountID, 10), nil)
}

func (c *Client) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	var acc domain.Account
	if err := c.lookup(ctx, "get_account", "/accounts/"+strconv.FormatInt(accountID, 10), &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *Client) GetAccountByNumber(ctx context.Context, accountNumber int) (*domain.Account, error) {
	var acc domain.Account
	if err := c.lookup(ctx, "get_account_by_number", "/accounts/number/"+strconv.Itoa(accountNumber), &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *Client) GetAccountsByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	var accs []domain.Account
	if err := c.lookup(ctx, "get_accounts_by_user", "/accounts/user/"+strconv.FormatInt(userID, 10), &accs); err != nil {
		return nil, err
	}
	return accs, nil
}

func (c *Client) GetAllAccounts(ctx context.Context) ([]domain.Account, error) {
	var accs []domain.Account
	if err := c.lookup(ctx, "get_all_accounts", "/accounts", &accs); err != nil {
		return nil, err
	}
	return accs, nil
}

// text performs a call whose successful response is a plain confirmation string.
func (c *Client) text(ctx context.Context, op, method, path string, body any) (string, error) {
	raw, err := c.do(ctx, op, method, path, body)
	if err != nil {
		return "", err
	}
	return decodeText(raw), nil
}

// lookup performs a GET and decodes JSON into out. A 404 becomes
// domain.ErrAccountNotFound.
func (c *Client) lookup(ctx context.Context, op, path string, out any) error {
	raw, err := c.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		var de *domain.DownstreamError
		if errors.As(err, &de) && de.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s: %w", op, domain.ErrAccountNotFound)
		}
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.DownstreamError{Kind: domain.DownstreamBusinessRejection, Op: op, Message: "malformed response", Err: err}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json, text/plain")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransport(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.DownstreamError{
			Kind:       domain.DownstreamBusinessRejection,
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw, resp.Status),
		}
	}
	return raw, nil
}

// classifyTransport separates deadline failures from connectivity failures.
// formatAmount keeps the scale the caller supplied, so 50.00 stays 50.00.
func formatAmount(d decimal.Decimal) string {
	places := -d.Exponent()
	if places < 0 {
		places = 0
	}
	return d.StringFixed(places)
}

func classifyTransport(op string, err error) error {
	kind := domain.DownstreamUnreachable

	var netErr net.Error
	var urlErr *url.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = domain.DownstreamTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = domain.DownstreamTimeout
	case errors.As(err, &urlErr) && urlErr.Timeout():
		kind = domain.DownstreamTimeout
	}
	return &domain.DownstreamError{Kind: kind, Op: op, Err: err}
}

// decodeText accepts either a bare text body or a JSON string.
func decodeText(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}

func errorMessage(raw []byte, status string) string {
	if len(raw) > maxErrorBodyLen {
		raw = raw[:maxErrorBodyLen]
	}
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil {
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return status
}
