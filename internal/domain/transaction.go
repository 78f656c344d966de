package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of a ledger entry
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// Transaction is an immutable ledger record created by the remote
// transaction service. FromAccountID is nil for deposits and ToAccountID is
// nil for withdrawals. The client only ever decodes these; it never
// constructs, mutates or deletes them.
type Transaction struct {
	TransactionID   int64           `json:"transactionId"`
	TransactionType TransactionType `json:"transactionType"`
	FromAccountID   *int64          `json:"fromAccountId,omitempty"`
	ToAccountID     *int64          `json:"toAccountId,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Timestamp       time.Time       `json:"timestamp"`
}

// Inbound reports whether the record credits the given account, which is
// how the self-service history view decides the sign to display.
func (t *Transaction) Inbound(accountID int64) bool {
	if t.TransactionType == TransactionTypeDeposit {
		return true
	}
	return t.TransactionType == TransactionTypeTransfer &&
		t.ToAccountID != nil && *t.ToAccountID == accountID
}
