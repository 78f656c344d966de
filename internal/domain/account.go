package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType represents the product type of an account
type AccountType string

const (
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeCurrent  AccountType = "CURRENT"
)

// AccountStatus represents the lifecycle state of an account
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "ACTIVE"
	AccountStatusFrozen AccountStatus = "FROZEN"
	AccountStatusClosed AccountStatus = "CLOSED"
)

// Account represents a bank account as served by the remote account service.
// The account number and all IDs are server-assigned; the balance is the
// last value fetched from the server, never computed locally.
type Account struct {
	AccountID     int64           `json:"accountId"`
	AccountNumber string          `json:"accountNumber"`
	CustomerID    int64           `json:"customerId"`
	AccountType   AccountType     `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	Status        AccountStatus   `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	ClosedAt      *time.Time      `json:"closedAt,omitempty"`
}

// ValidAccountType reports whether t is one of the known product types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountTypeSavings, AccountTypeChecking, AccountTypeCurrent:
		return true
	}
	return false
}

// ValidateAmount ensures a money amount is usable in a transaction request:
// strictly positive and at most two decimal places. Amounts with finer
// granularity are rejected, never rounded or truncated.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("amount must be positive")
	}
	if amount.Exponent() < -2 {
		return errors.New("amount cannot have more than two decimal places")
	}
	return nil
}
