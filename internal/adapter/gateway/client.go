// Package gateway is the outbound adapter for the remote banking gateway.
// All four logical services (identity, customer, account, transaction) sit
// behind a single entry point and are addressed by path.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/bankdesk/bankdesk/internal/domain"
)

// opClass decides how an overloaded 401 is read. The remote services reuse
// the same status code for "bad credential" and "business rule says no";
// the operation identity, not the code, disambiguates.
type opClass int

const (
	// classIdentity marks identity-boundary operations: a 401 here means
	// the credential itself was rejected and the session must be torn down.
	classIdentity opClass = iota

	// classBusiness marks PIN-validation, transaction and account-mutation
	// operations: a 401/403 here is a business-rule denial (frozen account,
	// invalid PIN) against a perfectly valid session.
	classBusiness
)

// op tags a logical gateway operation for error classification.
type op struct {
	name   string
	class  opClass
	noAuth bool // dispatched without a bearer token (login, register)
}

// Client implements the gateway ports over HTTP. Every request attaches
// the current token as a bearer credential; every failure response is
// classified into a domain.ErrorCategory before it reaches callers.
type Client struct {
	baseURL string
	http    *http.Client
	store   domain.SessionStore
	log     *logrus.Logger

	// OnUnauthenticated runs after the store has been cleared because the
	// identity boundary rejected the credential. The presentation layer
	// uses it to return to the unauthenticated entry point.
	OnUnauthenticated func()
}

// NewClient creates a gateway client against the given base URL.
func NewClient(baseURL string, store domain.SessionStore, log *logrus.Logger, timeout time.Duration) *Client {
	// The ledger API exchanges amounts as bare JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		store:   store,
		log:     log,
	}
}

// do dispatches one request and decodes a 2xx response body into out.
// Non-2xx responses come back as classified *domain.Error values.
func (c *Client) do(ctx context.Context, operation op, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return domain.WrapError(domain.CategoryValidationFailed, operation.name, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return domain.WrapError(domain.CategoryNetworkError, operation.name, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !operation.noAuth {
		if session, ok := c.store.Current(); ok && session.Token != "" {
			req.Header.Set("Authorization", "Bearer "+session.Token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.WithFields(logrus.Fields{"op": operation.name, "error": err}).Warn("gateway unreachable")
		return domain.WrapError(domain.CategoryNetworkError, operation.name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.WrapError(domain.CategoryNetworkError, operation.name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		derr := classify(operation, resp.StatusCode, respBody)
		if derr.Category == domain.CategoryUnauthenticated {
			c.teardownSession(operation)
		}
		return derr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return domain.WrapError(domain.CategoryServerError, operation.name,
				fmt.Errorf("decoding response: %w", err))
		}
	}
	return nil
}

// teardownSession clears the store and signals the navigation hook. This
// is the only place in the client that reacts to an authentication failure
// by destroying the session.
func (c *Client) teardownSession(operation op) {
	c.store.Clear()
	c.log.WithField("op", operation.name).Info("credential rejected by identity boundary, session cleared")
	if c.OnUnauthenticated != nil {
		c.OnUnauthenticated()
	}
}

// classify maps a failure response to an error category as a function of
// (operation tag, status, body), never of the status code alone. A 401
// tears down the session only when it comes from an identity-boundary
// operation; PIN-validation, transaction and account-mutation responses
// reuse the same code for business-rule denials.
func classify(operation op, status int, body []byte) *domain.Error {
	message := extractMessage(body)

	switch {
	case status == http.StatusUnauthorized:
		if operation.class == classIdentity {
			return domain.NewError(domain.CategoryUnauthenticated, operation.name, message)
		}
		return domain.NewError(domain.CategoryForbidden, operation.name, message)
	case status == http.StatusForbidden:
		return domain.NewError(domain.CategoryForbidden, operation.name, message)
	case status == http.StatusNotFound:
		return domain.NewError(domain.CategoryNotFound, operation.name, message)
	case status == http.StatusConflict:
		return domain.NewError(domain.CategoryConflict, operation.name, message)
	case status >= 500:
		return domain.NewError(domain.CategoryServerError, operation.name, message)
	default:
		// 400, 422 and the remaining 4xx family are request-shape failures.
		return domain.NewError(domain.CategoryValidationFailed, operation.name, message)
	}
}

// extractMessage pulls the server-provided text out of an error body. The
// services answer either {"message": …} envelopes or a bare string.
func extractMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}

	var plain string
	if err := json.Unmarshal(trimmed, &plain); err == nil {
		return plain
	}

	if trimmed[0] != '{' && trimmed[0] != '[' {
		return string(trimmed)
	}
	return ""
}
