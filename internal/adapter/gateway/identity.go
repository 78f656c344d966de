package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/bankdesk/bankdesk/internal/domain"
)

var (
	opLogin        = op{name: "identity.login", class: classIdentity, noAuth: true}
	opRegister     = op{name: "identity.register", class: classIdentity, noAuth: true}
	opRegisterFull = op{name: "identity.registerFull", class: classIdentity, noAuth: true}
	opValidatePin  = op{name: "identity.validatePin", class: classBusiness}
	opValidate     = op{name: "identity.validate", class: classIdentity}
)

// IdentityClient is the identity-service view of the gateway. It
// implements domain.IdentityGateway.
type IdentityClient struct {
	c *Client
}

// Identity returns the identity-service view of the gateway.
func (c *Client) Identity() *IdentityClient {
	return &IdentityClient{c: c}
}

// authResponse is the identity service's session envelope.
type authResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (r authResponse) session() domain.Session {
	return domain.Session{
		Token: r.Token,
		Identity: domain.Identity{
			Username: r.Username,
			Role:     domain.Role(r.Role),
		},
	}
}

// Login exchanges credentials for a session. Dispatched without a bearer
// token; a 401 here means the credentials are invalid.
func (g *IdentityClient) Login(ctx context.Context, username, password string) (domain.Session, error) {
	body := map[string]string{"username": username, "password": password}
	var resp authResponse
	if err := g.c.do(ctx, opLogin, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return domain.Session{}, err
	}
	return resp.session(), nil
}

// Register creates a bare login identity and returns its session.
func (g *IdentityClient) Register(ctx context.Context, username, password string) (domain.Session, error) {
	body := map[string]string{"username": username, "password": password}
	var resp authResponse
	if err := g.c.do(ctx, opRegister, http.MethodPost, "/auth/register", nil, body, &resp); err != nil {
		return domain.Session{}, err
	}
	return resp.session(), nil
}

// RegisterFull submits the onboarding wizard's composite payload. The
// remote endpoint owns the atomicity of the combined identity + customer +
// account creation.
func (g *IdentityClient) RegisterFull(ctx context.Context, reg domain.FullRegistration) (domain.Session, error) {
	var resp authResponse
	if err := g.c.do(ctx, opRegisterFull, http.MethodPost, "/auth/register-full", nil, reg, &resp); err != nil {
		return domain.Session{}, err
	}
	return resp.session(), nil
}

// ValidatePin checks the transaction PIN against the identity service. A
// mismatch comes back Forbidden: it is a business-rule denial against a
// valid session, never a logout trigger.
func (g *IdentityClient) ValidatePin(ctx context.Context, username, pin string) error {
	query := url.Values{}
	query.Set("username", username)
	query.Set("pin", pin)
	return g.c.do(ctx, opValidatePin, http.MethodPost, "/auth/validate-pin", query, nil, nil)
}

// ValidateToken probes whether the held token is still accepted by the
// identity boundary. A rejection tears down the session.
func (g *IdentityClient) ValidateToken(ctx context.Context) error {
	return g.c.do(ctx, opValidate, http.MethodGet, "/auth/validate", nil, nil, nil)
}
