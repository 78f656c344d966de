package payment

import (
	"github.com/google/uuid"

	"github.com/bankdesk/bankdesk/internal/domain"
)

// Phase is the state of an in-flight money-movement operation.
type Phase string

const (
	PhaseIdle                 Phase = "IDLE"
	PhaseValidating           Phase = "VALIDATING"
	PhaseAwaitingSecondFactor Phase = "AWAITING_SECOND_FACTOR"
	PhaseSubmitting           Phase = "SUBMITTING"
	PhaseSettled              Phase = "SETTLED"
	PhaseRejected             Phase = "REJECTED"
)

// Operation is the workflow record for one user-initiated money movement.
// The ID is client-side identity for logging and correlation; the server
// assigns its own transaction id at settlement.
type Operation struct {
	ID        uuid.UUID
	Kind      domain.MoneyOp
	AccountID int64
	Phase     Phase
}

func newOperation(kind domain.MoneyOp, accountID int64) *Operation {
	return &Operation{
		ID:        uuid.New(),
		Kind:      kind,
		AccountID: accountID,
		Phase:     PhaseIdle,
	}
}

// Result is the settled outcome of a workflow: the ledger record the
// server created plus the re-fetched authoritative view of the affected
// account and its history. The client never applies deltas locally.
type Result struct {
	Operation   Operation
	Transaction *domain.Transaction
	Account     *domain.Account
	History     []domain.Transaction
}
