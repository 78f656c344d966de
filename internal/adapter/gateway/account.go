package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bankdesk/bankdesk/internal/domain"
)

// Account operations are business-classed: the account service answers
// 401/403 for rule violations (frozen account, non-zero balance on close)
// and those must never end the session.
var (
	opAccountList      = op{name: "account.list", class: classBusiness}
	opAccountGet       = op{name: "account.get", class: classBusiness}
	opAccountByCust    = op{name: "account.getByCustomer", class: classBusiness}
	opAccountByUser    = op{name: "account.getByUsername", class: classBusiness}
	opAccountByNumber  = op{name: "account.getByNumber", class: classBusiness}
	opAccountCreate    = op{name: "account.create", class: classBusiness}
	opAccountUpdate    = op{name: "account.update", class: classBusiness}
	opAccountClose     = op{name: "account.close", class: classBusiness}
	opAccountSetStatus = op{name: "account.updateStatus", class: classBusiness}
)

// AccountClient is the account-service view of the gateway. It implements
// domain.AccountGateway.
type AccountClient struct {
	c *Client
}

// Accounts returns the account-service view of the gateway.
func (c *Client) Accounts() *AccountClient {
	return &AccountClient{c: c}
}

// List fetches all accounts (back office).
func (g *AccountClient) List(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	if err := g.c.do(ctx, opAccountList, http.MethodGet, "/accounts", nil, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Get fetches one account by id.
func (g *AccountClient) Get(ctx context.Context, accountID int64) (*domain.Account, error) {
	var account domain.Account
	path := fmt.Sprintf("/accounts/%d", accountID)
	if err := g.c.do(ctx, opAccountGet, http.MethodGet, path, nil, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByCustomer fetches the accounts owned by a customer.
func (g *AccountClient) GetByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	var accounts []domain.Account
	path := fmt.Sprintf("/accounts/customer/%d", customerID)
	if err := g.c.do(ctx, opAccountByCust, http.MethodGet, path, nil, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetByUsername fetches the non-closed accounts linked to a login
// identity; the self-service dashboard's primary read.
func (g *AccountClient) GetByUsername(ctx context.Context, username string) ([]domain.Account, error) {
	var accounts []domain.Account
	path := "/accounts/user/" + url.PathEscape(username)
	if err := g.c.do(ctx, opAccountByUser, http.MethodGet, path, nil, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetByNumber resolves an account number to its account, used to validate
// transfer destinations before dispatch.
func (g *AccountClient) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	var account domain.Account
	path := "/accounts/number/" + url.PathEscape(accountNumber)
	if err := g.c.do(ctx, opAccountByNumber, http.MethodGet, path, nil, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Create opens a new account for a customer.
func (g *AccountClient) Create(ctx context.Context, req domain.AccountRequest) (*domain.Account, error) {
	var account domain.Account
	if err := g.c.do(ctx, opAccountCreate, http.MethodPost, "/accounts", nil, req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Update changes the owner or product type of an account.
func (g *AccountClient) Update(ctx context.Context, accountID int64, req domain.AccountRequest) (*domain.Account, error) {
	var account domain.Account
	path := fmt.Sprintf("/accounts/%d", accountID)
	if err := g.c.do(ctx, opAccountUpdate, http.MethodPut, path, nil, req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Close soft-deletes an account. The server enforces the zero-balance rule
// authoritatively and records closedAt.
func (g *AccountClient) Close(ctx context.Context, accountID int64) error {
	path := fmt.Sprintf("/accounts/%d", accountID)
	return g.c.do(ctx, opAccountClose, http.MethodDelete, path, nil, nil, nil)
}

// UpdateStatus requests an account status transition. Legality is checked
// by the caller through the lifecycle guard before dispatch.
func (g *AccountClient) UpdateStatus(ctx context.Context, accountID int64, status domain.AccountStatus) (*domain.Account, error) {
	var account domain.Account
	path := fmt.Sprintf("/accounts/%d/status", accountID)
	query := url.Values{}
	query.Set("status", string(status))
	if err := g.c.do(ctx, opAccountSetStatus, http.MethodPut, path, query, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}
