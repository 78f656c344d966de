// Package payment orchestrates the guarded money-movement workflows:
// deposit, withdraw and transfer. Every operation runs local precondition
// checks and the lifecycle guard before anything is dispatched, requires
// the second factor where the operation is sensitive, and reconciles view
// state by re-fetching from the server after settlement.
package payment

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/bankdesk/bankdesk/internal/domain"
)

// Service drives deposit, withdraw and transfer workflows. One mutation
// per account is in flight at a time from this client; a second submission
// against the same account is rejected until the first settles.
type Service struct {
	accounts domain.AccountGateway
	txns     domain.TransactionGateway
	store    domain.SessionStore
	log      *logrus.Logger

	mu       sync.Mutex
	inflight map[int64]struct{}
	views    map[int64]domain.Account
}

// NewService creates a payment service over the account and transaction
// gateways. The session store supplies the username the remote PIN check
// verifies against.
func NewService(accounts domain.AccountGateway, txns domain.TransactionGateway, store domain.SessionStore, log *logrus.Logger) *Service {
	return &Service{
		accounts: accounts,
		txns:     txns,
		store:    store,
		log:      log,
		inflight: make(map[int64]struct{}),
		views:    make(map[int64]domain.Account),
	}
}

// DepositInput carries a deposit request plus the locally known view of
// the target account, against which the guard runs before dispatch.
type DepositInput struct {
	Account     domain.Account
	Amount      decimal.Decimal
	Description string
}

// WithdrawInput carries a withdrawal request. Pin is the second factor;
// the remote service verifies it independently.
type WithdrawInput struct {
	Account     domain.Account
	Amount      decimal.Decimal
	Description string
	Pin         string
}

// TransferInput carries a transfer request. The destination is given
// either as an account number (self-service) or an account id (back
// office); exactly one must be set.
type TransferInput struct {
	From            domain.Account
	ToAccountNumber string
	ToAccountID     int64
	Amount          decimal.Decimal
	Description     string
	Pin             string
}

// Deposit runs the deposit workflow. No second factor is required.
func (s *Service) Deposit(ctx context.Context, input DepositInput) (*Result, error) {
	op := newOperation(domain.MoneyOpDeposit, input.Account.AccountID)
	if err := s.begin(op); err != nil {
		return nil, err
	}
	defer s.release(op)

	op.Phase = PhaseValidating
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, s.reject(op, domain.CategoryValidationFailed, err.Error())
	}
	if d := domain.CanOperate(input.Account.Status, domain.MoneyOpDeposit); !d.Allowed {
		return nil, s.reject(op, domain.CategoryForbidden, d.Reason)
	}

	op.Phase = PhaseSubmitting
	txn, err := s.txns.Deposit(ctx, domain.DepositRequest{
		AccountID:   input.Account.AccountID,
		Amount:      input.Amount,
		Description: defaultDescription(input.Description, "Deposit"),
	})
	if err != nil {
		op.Phase = PhaseRejected
		return nil, err
	}

	return s.settle(ctx, op, txn)
}

// Withdraw runs the withdrawal workflow. The PIN is required and checked
// for shape locally; the remote service performs the authoritative match
// and answers Forbidden on mismatch, which never ends the session.
func (s *Service) Withdraw(ctx context.Context, input WithdrawInput) (*Result, error) {
	op := newOperation(domain.MoneyOpWithdraw, input.Account.AccountID)
	if err := s.begin(op); err != nil {
		return nil, err
	}
	defer s.release(op)

	op.Phase = PhaseValidating
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, s.reject(op, domain.CategoryValidationFailed, err.Error())
	}
	if d := domain.CanOperate(input.Account.Status, domain.MoneyOpWithdraw); !d.Allowed {
		return nil, s.reject(op, domain.CategoryForbidden, d.Reason)
	}
	// Soft check against the locally known balance. The server performs
	// the authoritative check; the amount is never truncated to fit.
	if input.Amount.GreaterThan(input.Account.Balance) {
		return nil, s.reject(op, domain.CategoryValidationFailed, "insufficient funds")
	}

	username, err := s.secondFactor(op, input.Pin)
	if err != nil {
		return nil, err
	}

	op.Phase = PhaseSubmitting
	txn, err := s.txns.Withdraw(ctx, domain.WithdrawRequest{
		AccountID:   input.Account.AccountID,
		Amount:      input.Amount,
		Description: defaultDescription(input.Description, "Withdrawal"),
		Username:    username,
		Pin:         input.Pin,
	})
	if err != nil {
		op.Phase = PhaseRejected
		return nil, err
	}

	return s.settle(ctx, op, txn)
}

// Transfer runs the transfer workflow. The destination must resolve to an
// existing account before submission; transferring an account to itself is
// rejected locally without any mutating call.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (*Result, error) {
	op := newOperation(domain.MoneyOpTransfer, input.From.AccountID)
	if err := s.begin(op); err != nil {
		return nil, err
	}
	defer s.release(op)

	op.Phase = PhaseValidating
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, s.reject(op, domain.CategoryValidationFailed, err.Error())
	}
	if d := domain.CanOperate(input.From.Status, domain.MoneyOpTransfer); !d.Allowed {
		return nil, s.reject(op, domain.CategoryForbidden, d.Reason)
	}
	if input.Amount.GreaterThan(input.From.Balance) {
		return nil, s.reject(op, domain.CategoryValidationFailed, "insufficient funds")
	}

	dest, err := s.resolveDestination(ctx, input)
	if err != nil {
		op.Phase = PhaseRejected
		return nil, err
	}
	if dest.AccountID == input.From.AccountID {
		return nil, s.reject(op, domain.CategoryValidationFailed, "cannot transfer to the same account")
	}

	username, err := s.secondFactor(op, input.Pin)
	if err != nil {
		return nil, err
	}

	op.Phase = PhaseSubmitting
	txn, err := s.txns.TransferByNumber(ctx, domain.TransferByNumberRequest{
		FromAccountID:   input.From.AccountID,
		ToAccountNumber: dest.AccountNumber,
		Amount:          input.Amount,
		Description:     defaultDescription(input.Description, "Transfer"),
		Username:        username,
		Pin:             input.Pin,
	})
	if err != nil {
		op.Phase = PhaseRejected
		return nil, err
	}

	return s.settle(ctx, op, txn)
}

// History fetches the ledger history for an account.
func (s *Service) History(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	return s.txns.GetByAccount(ctx, accountID)
}

// AccountsFor fetches the non-closed accounts of a login identity and
// refreshes the local views. This is the dashboard's primary read.
func (s *Service) AccountsFor(ctx context.Context, username string) ([]domain.Account, error) {
	accounts, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	for _, account := range accounts {
		s.views[account.AccountID] = account
	}
	s.mu.Unlock()
	return accounts, nil
}

// View returns the last reconciled view of an account, if any. It is never
// computed locally, only replaced wholesale after settlement or a read.
func (s *Service) View(accountID int64) (domain.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.views[accountID]
	return account, ok
}

// resolveDestination turns the input's destination into a concrete
// account, by number or by id.
func (s *Service) resolveDestination(ctx context.Context, input TransferInput) (*domain.Account, error) {
	if input.ToAccountNumber != "" {
		return s.accounts.GetByNumber(ctx, input.ToAccountNumber)
	}
	if input.ToAccountID != 0 {
		return s.accounts.Get(ctx, input.ToAccountID)
	}
	return nil, domain.NewError(domain.CategoryValidationFailed, "payment.transfer",
		"destination account is required")
}

// secondFactor gates sensitive operations on a well-formed PIN and returns
// the username the remote check verifies against.
func (s *Service) secondFactor(op *Operation, pin string) (string, error) {
	if pin == "" {
		op.Phase = PhaseAwaitingSecondFactor
		return "", domain.NewError(domain.CategoryValidationFailed, opName(op), "transaction PIN required")
	}
	if err := domain.ValidatePinFormat(pin); err != nil {
		return "", s.reject(op, domain.CategoryValidationFailed, err.Error())
	}

	session, ok := s.store.Current()
	if !ok {
		return "", s.reject(op, domain.CategoryUnauthenticated, "not logged in")
	}
	return session.Identity.Username, nil
}

// settle re-fetches the affected account and its history so the local view
// matches the server's truth. A canceled context discards the outcome
// instead of applying it.
func (s *Service) settle(ctx context.Context, op *Operation, txn *domain.Transaction) (*Result, error) {
	account, err := s.accounts.Get(ctx, op.AccountID)
	if err != nil {
		// The mutation itself succeeded; surface the reconciliation
		// failure distinctly so the caller is not prompted to re-submit
		// a settled operation, and do not touch the stale view.
		op.Phase = PhaseSettled
		return nil, domain.WrapError(domain.CategoryRefreshFailed, opName(op), err)
	}
	history, err := s.txns.GetByAccount(ctx, op.AccountID)
	if err != nil {
		op.Phase = PhaseSettled
		return nil, domain.WrapError(domain.CategoryRefreshFailed, opName(op), err)
	}

	if ctx.Err() != nil {
		// The initiating view is gone; discard rather than apply.
		op.Phase = PhaseSettled
		return nil, ctx.Err()
	}

	s.mu.Lock()
	s.views[op.AccountID] = *account
	s.mu.Unlock()

	op.Phase = PhaseSettled
	s.log.WithFields(logrus.Fields{
		"operation": op.ID,
		"kind":      op.Kind,
		"accountId": op.AccountID,
	}).Info("operation settled")

	return &Result{Operation: *op, Transaction: txn, Account: account, History: history}, nil
}

// begin registers the operation in the in-flight set, serializing
// user-initiated mutations per account from this client.
func (s *Service) begin(op *Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[op.AccountID]; busy {
		return domain.NewError(domain.CategoryConflict, opName(op),
			"an operation is already in flight for this account")
	}
	s.inflight[op.AccountID] = struct{}{}
	return nil
}

func (s *Service) release(op *Operation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, op.AccountID)
}

// reject marks the operation rejected and returns the classified error.
// The workflow is back at rest; retry is a user-initiated re-submission,
// never automatic.
func (s *Service) reject(op *Operation, category domain.ErrorCategory, reason string) error {
	op.Phase = PhaseRejected
	s.log.WithFields(logrus.Fields{
		"operation": op.ID,
		"kind":      op.Kind,
		"accountId": op.AccountID,
		"reason":    reason,
	}).Debug("operation rejected before dispatch")
	return domain.NewError(category, opName(op), reason)
}

func opName(op *Operation) string {
	switch op.Kind {
	case domain.MoneyOpDeposit:
		return "payment.deposit"
	case domain.MoneyOpWithdraw:
		return "payment.withdraw"
	default:
		return "payment.transfer"
	}
}

func defaultDescription(description, fallback string) string {
	if description == "" {
		return fallback
	}
	return description
}
