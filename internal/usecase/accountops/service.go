// Package accountops drives account and customer lifecycle operations:
// the PIN-gated account closure saga, opening additional accounts, and the
// back-office status transitions. Every transition consults the lifecycle
// guard before any network dispatch.
package accountops

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bankdesk/bankdesk/internal/domain"
)

// Service orchestrates lifecycle operations over the gateway ports.
type Service struct {
	identity  domain.IdentityGateway
	accounts  domain.AccountGateway
	customers domain.CustomerGateway
	store     domain.SessionStore
	log       *logrus.Logger

	now func() time.Time
}

// NewService creates an accountops service.
func NewService(identity domain.IdentityGateway, accounts domain.AccountGateway, customers domain.CustomerGateway, store domain.SessionStore, log *logrus.Logger) *Service {
	return &Service{
		identity:  identity,
		accounts:  accounts,
		customers: customers,
		store:     store,
		log:       log,
		now:       time.Now,
	}
}

// VerifyPin runs the verification half of the verify-then-act closure
// protocol: shape check, then a round trip to the identity service. A
// mismatch comes back Forbidden and leaves the session intact. The
// returned grant is the only admission ticket Close accepts.
func (s *Service) VerifyPin(ctx context.Context, pin string) (PinGrant, error) {
	if err := domain.ValidatePinFormat(pin); err != nil {
		return PinGrant{}, domain.NewError(domain.CategoryValidationFailed, "accountops.verifyPin", err.Error())
	}

	session, ok := s.store.Current()
	if !ok {
		return PinGrant{}, domain.NewError(domain.CategoryUnauthenticated, "accountops.verifyPin", "not logged in")
	}

	if err := s.identity.ValidatePin(ctx, session.Identity.Username, pin); err != nil {
		return PinGrant{}, err
	}

	return PinGrant{
		id:       uuid.New(),
		username: session.Identity.Username,
		issuedAt: s.now(),
		verified: true,
	}, nil
}

// Close runs the destructive half of the closure saga. The remote
// account-deletion endpoint does not re-validate the PIN in all
// deployments, so a live grant from VerifyPin is required up front. The
// lifecycle guard rejects non-zero balances and already-closed accounts
// before any network call.
func (s *Service) Close(ctx context.Context, grant PinGrant, account domain.Account) error {
	if !grant.usable(s.now()) {
		return domain.NewError(domain.CategoryForbidden, "accountops.close", "PIN verification required")
	}
	// The grant authorizes only the identity it was verified for. A logout
	// or identity change since verification invalidates it.
	session, ok := s.store.Current()
	if !ok || session.Identity.Username != grant.Username() {
		return domain.NewError(domain.CategoryForbidden, "accountops.close", "PIN verification required")
	}
	if d := domain.CanTransitionAccount(account.Status, domain.AccountStatusClosed, account.Balance); !d.Allowed {
		return domain.NewError(domain.CategoryForbidden, "accountops.close", d.Reason)
	}

	if err := s.accounts.Close(ctx, account.AccountID); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"accountId":     account.AccountID,
		"accountNumber": account.AccountNumber,
	}).Info("account closed")
	return nil
}

// OpenAdditional opens another account for an existing customer. No second
// factor is required; a suspended or deactivated customer is rejected
// locally before dispatch.
func (s *Service) OpenAdditional(ctx context.Context, customer domain.Customer, accountType domain.AccountType) (*domain.Account, error) {
	if !domain.ValidAccountType(accountType) {
		return nil, domain.NewError(domain.CategoryValidationFailed, "accountops.open", "unknown account type")
	}
	if customer.Status != domain.CustomerStatusActive {
		return nil, domain.NewError(domain.CategoryForbidden, "accountops.open", "customer is not active")
	}

	account, err := s.accounts.Create(ctx, domain.AccountRequest{
		CustomerID:  customer.CustomerID,
		AccountType: accountType,
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"customerId":  customer.CustomerID,
		"accountId":   account.AccountID,
		"accountType": accountType,
	}).Info("additional account opened")
	return account, nil
}

// SetAccountStatus requests an account status transition for a back-office
// actor. Guard violations, including closing with a non-zero balance, are
// caught before dispatch.
func (s *Service) SetAccountStatus(ctx context.Context, account domain.Account, target domain.AccountStatus) (*domain.Account, error) {
	if d := domain.CanTransitionAccount(account.Status, target, account.Balance); !d.Allowed {
		return nil, domain.NewError(domain.CategoryForbidden, "accountops.setStatus", d.Reason)
	}
	return s.accounts.UpdateStatus(ctx, account.AccountID, target)
}

// SetCustomerStatus requests a customer status transition.
func (s *Service) SetCustomerStatus(ctx context.Context, customer domain.Customer, target domain.CustomerStatus) (*domain.Customer, error) {
	if d := domain.CanTransitionCustomer(customer.Status, target); !d.Allowed {
		return nil, domain.NewError(domain.CategoryForbidden, "accountops.setCustomerStatus", d.Reason)
	}
	return s.customers.UpdateStatus(ctx, customer.CustomerID, target)
}

// DeactivateCustomer soft-deletes a customer profile. Customers are never
// hard-deleted; the server moves them to INACTIVE.
func (s *Service) DeactivateCustomer(ctx context.Context, customer domain.Customer) error {
	if err := s.customers.Deactivate(ctx, customer.CustomerID); err != nil {
		return err
	}
	s.log.WithField("customerId", customer.CustomerID).Info("customer deactivated")
	return nil
}
