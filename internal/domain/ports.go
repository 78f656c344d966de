package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// SessionStore holds the process-wide session. Save and Clear are the only
// mutations; Clear is idempotent. Writers are restricted by convention to
// the gateway's unauthenticated-response handler and explicit logout.
type SessionStore interface {
	Save(session Session)
	Clear()
	Current() (Session, bool)
	HasToken() bool
}

// FullRegistration is the composite payload assembled by the onboarding
// wizard and submitted atomically to the identity service.
type FullRegistration struct {
	Username       string          `json:"username"`
	Password       string          `json:"password"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	AccountType    AccountType     `json:"accountType"`
	InitialDeposit decimal.Decimal `json:"initialDeposit"`
	TransactionPin string          `json:"transactionPin"`
}

// IdentityGateway covers the identity service boundary. Login and the two
// registration calls are the only operations dispatched without a bearer
// token; ValidatePin carries one but its rejections are business-rule
// failures, never session-ending.
type IdentityGateway interface {
	Login(ctx context.Context, username, password string) (Session, error)
	Register(ctx context.Context, username, password string) (Session, error)
	RegisterFull(ctx context.Context, reg FullRegistration) (Session, error)
	ValidatePin(ctx context.Context, username, pin string) error
}

// CustomerRequest is the mutable subset of a customer profile accepted by
// create and update calls.
type CustomerRequest struct {
	Username string `json:"username,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// CustomerGateway covers the customer service boundary.
type CustomerGateway interface {
	List(ctx context.Context) ([]Customer, error)
	Get(ctx context.Context, customerID int64) (*Customer, error)
	GetByUsername(ctx context.Context, username string) (*Customer, error)
	Create(ctx context.Context, req CustomerRequest) (*Customer, error)
	Update(ctx context.Context, customerID int64, req CustomerRequest) (*Customer, error)
	Deactivate(ctx context.Context, customerID int64) error
	UpdateStatus(ctx context.Context, customerID int64, status CustomerStatus) (*Customer, error)
}

// AccountRequest is the payload accepted by account create and update
// calls. InitialBalance is honored only on creation.
type AccountRequest struct {
	CustomerID     int64           `json:"customerId"`
	AccountType    AccountType     `json:"accountType"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// AccountGateway covers the account service boundary. Close is the remote
// soft delete; the server re-checks the zero-balance rule authoritatively.
type AccountGateway interface {
	List(ctx context.Context) ([]Account, error)
	Get(ctx context.Context, accountID int64) (*Account, error)
	GetByCustomer(ctx context.Context, customerID int64) ([]Account, error)
	GetByUsername(ctx context.Context, username string) ([]Account, error)
	GetByNumber(ctx context.Context, accountNumber string) (*Account, error)
	Create(ctx context.Context, req AccountRequest) (*Account, error)
	Update(ctx context.Context, accountID int64, req AccountRequest) (*Account, error)
	Close(ctx context.Context, accountID int64) error
	UpdateStatus(ctx context.Context, accountID int64, status AccountStatus) (*Account, error)
}

// DepositRequest is the wire payload for a deposit.
type DepositRequest struct {
	AccountID   int64           `json:"accountId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// WithdrawRequest is the wire payload for a withdrawal. Username and PIN
// feed the remote second-factor check.
type WithdrawRequest struct {
	AccountID   int64           `json:"accountId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Username    string          `json:"username"`
	Pin         string          `json:"pin"`
}

// TransferRequest is the wire payload for a transfer addressed by
// destination account id.
type TransferRequest struct {
	FromAccountID int64           `json:"fromAccountId"`
	ToAccountID   int64           `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Username      string          `json:"username"`
	Pin           string          `json:"pin"`
}

// TransferByNumberRequest is the wire payload for a transfer addressed by
// destination account number, the form the self-service portal uses.
type TransferByNumberRequest struct {
	FromAccountID   int64           `json:"fromAccountId"`
	ToAccountNumber string          `json:"toAccountNumber"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Username        string          `json:"username"`
	Pin             string          `json:"pin"`
}

// TransactionGateway covers the transaction service boundary. Every call
// returns the immutable ledger record the server created.
type TransactionGateway interface {
	Deposit(ctx context.Context, req DepositRequest) (*Transaction, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*Transaction, error)
	Transfer(ctx context.Context, req TransferRequest) (*Transaction, error)
	TransferByNumber(ctx context.Context, req TransferByNumberRequest) (*Transaction, error)
	GetByAccount(ctx context.Context, accountID int64) ([]Transaction, error)
}
