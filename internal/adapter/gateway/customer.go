package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bankdesk/bankdesk/internal/domain"
)

// Customer operations sit on the identity side of the 401 split: the
// customer service has no PIN/ledger semantics, so a 401 from it means the
// credential itself was rejected.
var (
	opCustomerList       = op{name: "customer.list", class: classIdentity}
	opCustomerGet        = op{name: "customer.get", class: classIdentity}
	opCustomerGetByUser  = op{name: "customer.getByUsername", class: classIdentity}
	opCustomerCreate     = op{name: "customer.create", class: classIdentity}
	opCustomerUpdate     = op{name: "customer.update", class: classIdentity}
	opCustomerDeactivate = op{name: "customer.deactivate", class: classIdentity}
	opCustomerStatus     = op{name: "customer.updateStatus", class: classIdentity}
)

// CustomerClient is the customer-service view of the gateway. It
// implements domain.CustomerGateway.
type CustomerClient struct {
	c *Client
}

// Customers returns the customer-service view of the gateway.
func (c *Client) Customers() *CustomerClient {
	return &CustomerClient{c: c}
}

// List fetches all customer profiles (back office).
func (g *CustomerClient) List(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	if err := g.c.do(ctx, opCustomerList, http.MethodGet, "/customers", nil, nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// Get fetches one customer profile by id.
func (g *CustomerClient) Get(ctx context.Context, customerID int64) (*domain.Customer, error) {
	var customer domain.Customer
	path := fmt.Sprintf("/customers/%d", customerID)
	if err := g.c.do(ctx, opCustomerGet, http.MethodGet, path, nil, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByUsername resolves the profile linked to a login identity.
func (g *CustomerClient) GetByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	var customer domain.Customer
	path := "/customers/user/" + url.PathEscape(username)
	if err := g.c.do(ctx, opCustomerGetByUser, http.MethodGet, path, nil, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Create registers a new customer profile.
func (g *CustomerClient) Create(ctx context.Context, req domain.CustomerRequest) (*domain.Customer, error) {
	var customer domain.Customer
	if err := g.c.do(ctx, opCustomerCreate, http.MethodPost, "/customers", nil, req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Update replaces the mutable fields of a customer profile.
func (g *CustomerClient) Update(ctx context.Context, customerID int64, req domain.CustomerRequest) (*domain.Customer, error) {
	var customer domain.Customer
	path := fmt.Sprintf("/customers/%d", customerID)
	if err := g.c.do(ctx, opCustomerUpdate, http.MethodPut, path, nil, req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Deactivate soft-deletes a customer. The server moves the profile to
// INACTIVE; nothing is ever hard-deleted.
func (g *CustomerClient) Deactivate(ctx context.Context, customerID int64) error {
	path := fmt.Sprintf("/customers/%d", customerID)
	return g.c.do(ctx, opCustomerDeactivate, http.MethodDelete, path, nil, nil, nil)
}

// UpdateStatus requests a customer status transition. Legality is checked
// by the caller through the lifecycle guard before dispatch.
func (g *CustomerClient) UpdateStatus(ctx context.Context, customerID int64, status domain.CustomerStatus) (*domain.Customer, error) {
	var customer domain.Customer
	path := fmt.Sprintf("/customers/%d/status", customerID)
	query := url.Values{}
	query.Set("status", string(status))
	if err := g.c.do(ctx, opCustomerStatus, http.MethodPut, path, query, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}
