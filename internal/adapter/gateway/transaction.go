package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bankdesk/bankdesk/internal/domain"
)

// Transaction operations are business-classed: the ledger answers 401/403
// for PIN mismatches and frozen-account rejections against a session that
// is perfectly valid.
var (
	opTxDeposit     = op{name: "transaction.deposit", class: classBusiness}
	opTxWithdraw    = op{name: "transaction.withdraw", class: classBusiness}
	opTxTransfer    = op{name: "transaction.transfer", class: classBusiness}
	opTxTransferNum = op{name: "transaction.transferByAccountNumber", class: classBusiness}
	opTxByAccount   = op{name: "transaction.getByAccount", class: classBusiness}
)

// TransactionClient is the transaction-service view of the gateway. It
// implements domain.TransactionGateway.
type TransactionClient struct {
	c *Client
}

// Transactions returns the transaction-service view of the gateway.
func (c *Client) Transactions() *TransactionClient {
	return &TransactionClient{c: c}
}

// Deposit dispatches a deposit and returns the ledger record.
func (g *TransactionClient) Deposit(ctx context.Context, req domain.DepositRequest) (*domain.Transaction, error) {
	var txn domain.Transaction
	if err := g.c.do(ctx, opTxDeposit, http.MethodPost, "/transactions/deposit", nil, req, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// Withdraw dispatches a withdrawal. The service verifies the PIN against
// the account owner's stored PIN independently of this client.
func (g *TransactionClient) Withdraw(ctx context.Context, req domain.WithdrawRequest) (*domain.Transaction, error) {
	var txn domain.Transaction
	if err := g.c.do(ctx, opTxWithdraw, http.MethodPost, "/transactions/withdraw", nil, req, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// Transfer dispatches a transfer addressed by destination account id.
func (g *TransactionClient) Transfer(ctx context.Context, req domain.TransferRequest) (*domain.Transaction, error) {
	var txn domain.Transaction
	if err := g.c.do(ctx, opTxTransfer, http.MethodPost, "/transactions/transfer", nil, req, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// TransferByNumber dispatches a transfer addressed by destination account
// number.
func (g *TransactionClient) TransferByNumber(ctx context.Context, req domain.TransferByNumberRequest) (*domain.Transaction, error) {
	var txn domain.Transaction
	if err := g.c.do(ctx, opTxTransferNum, http.MethodPost, "/transactions/transfer-by-account", nil, req, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// GetByAccount fetches the ledger history involving an account.
func (g *TransactionClient) GetByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	path := fmt.Sprintf("/transactions/account/%d", accountID)
	if err := g.c.do(ctx, opTxByAccount, http.MethodGet, path, nil, nil, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}
