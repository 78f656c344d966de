package domain

import "github.com/shopspring/decimal"

// MoneyOp identifies a money-movement operation for the standing
// operation-eligibility guard.
type MoneyOp string

const (
	MoneyOpDeposit  MoneyOp = "DEPOSIT"
	MoneyOpWithdraw MoneyOp = "WITHDRAW"
	MoneyOpTransfer MoneyOp = "TRANSFER"
)

// Decision is the outcome of a lifecycle guard check. Reason is set only
// on denial and is suitable for direct display.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns a permitting decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision with the given reason.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// CanTransitionAccount decides whether an account status transition is
// legal given the current status and the locally known balance. CLOSED is
// terminal; entering it requires a zero balance. Freezing and reactivating
// are unrestricted administrative actions.
func CanTransitionAccount(current, target AccountStatus, balance decimal.Decimal) Decision {
	if current == AccountStatusClosed {
		return Deny("account is closed, terminal state")
	}

	switch target {
	case AccountStatusClosed:
		if !balance.IsZero() {
			return Deny("non-zero balance")
		}
		return Allow()
	case AccountStatusActive, AccountStatusFrozen:
		return Allow()
	}
	return Deny("unknown target status")
}

// CanOperate is the standing money-movement guard: regardless of any
// transition request, a frozen or closed account admits no deposits,
// withdrawals or transfers. Only ACTIVE permits dispatch.
func CanOperate(status AccountStatus, op MoneyOp) Decision {
	switch op {
	case MoneyOpDeposit, MoneyOpWithdraw, MoneyOpTransfer:
	default:
		return Deny("unknown operation")
	}

	switch status {
	case AccountStatusActive:
		return Allow()
	case AccountStatusFrozen:
		return Deny("account frozen")
	case AccountStatusClosed:
		return Deny("account is closed")
	}
	return Deny("unknown account status")
}

// CanTransitionCustomer decides whether a customer status transition is
// legal. All transitions among ACTIVE, SUSPENDED and INACTIVE are open to
// an admin actor; INACTIVE is not terminal, its edit suppression lives in
// the presentation layer.
func CanTransitionCustomer(current, target CustomerStatus) Decision {
	if !ValidCustomerStatus(current) {
		return Deny("unknown current status")
	}
	if !ValidCustomerStatus(target) {
		return Deny("unknown target status")
	}
	return Allow()
}
