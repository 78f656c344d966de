// Package onboarding drives the three-step account-opening wizard:
// credentials, personal details, account preferences. Each step gates
// advancement on its validator; the final submission assembles one
// composite registration payload and dispatches it exactly once per
// user-initiated submit.
package onboarding

import (
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankdesk/bankdesk/internal/domain"
)

// Step numbers the wizard's ordered steps.
type Step int

const (
	StepCredentials Step = 1
	StepPersonal    Step = 2
	StepPreferences Step = 3
)

const minPasswordLength = 4

var emailShape = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Credentials is step 1: the login identity to create.
type Credentials struct {
	Username        string
	Password        string
	ConfirmPassword string
}

// Personal is step 2: the customer profile fields.
type Personal struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Preferences is step 3: the first account's setup. InitialDeposit is the
// raw field value; blank or unparsable input falls back to zero.
type Preferences struct {
	AccountType    domain.AccountType
	InitialDeposit string
	TransactionPin string
	ConfirmPin     string
}

// Wizard holds the transient, in-memory wizard state. It is never
// persisted; submission or navigation away destroys it.
type Wizard struct {
	identity domain.IdentityGateway
	store    domain.SessionStore

	step        Step
	Credentials Credentials
	Personal    Personal
	Preferences Preferences
}

// NewWizard creates a wizard at step 1.
func NewWizard(identity domain.IdentityGateway, store domain.SessionStore) *Wizard {
	return &Wizard{
		identity: identity,
		store:    store,
		step:     StepCredentials,
		Preferences: Preferences{
			AccountType: domain.AccountTypeSavings,
		},
	}
}

// Step returns the wizard's current step.
func (w *Wizard) Step() Step {
	return w.step
}

// Next validates the current step and advances. Advancement past a failing
// validator is impossible.
func (w *Wizard) Next() error {
	switch w.step {
	case StepCredentials:
		if err := w.validateCredentials(); err != nil {
			return err
		}
		w.step = StepPersonal
	case StepPersonal:
		if err := w.validatePersonal(); err != nil {
			return err
		}
		w.step = StepPreferences
	case StepPreferences:
		return domain.NewError(domain.CategoryValidationFailed, "onboarding.next", "already at the last step")
	}
	return nil
}

// Back moves to the previous step. Backward navigation is always permitted
// and forces no re-validation; entered values are kept.
func (w *Wizard) Back() {
	if w.step > StepCredentials {
		w.step--
	}
}

// Submit validates the final step, assembles the composite payload and
// dispatches it. On success the returned session is saved and the wizard
// resets; on failure the entered values survive for a user-initiated
// retry and no partial session exists.
func (w *Wizard) Submit(ctx context.Context) (domain.Session, error) {
	if w.step != StepPreferences {
		return domain.Session{}, domain.NewError(domain.CategoryValidationFailed, "onboarding.submit",
			"all steps must be completed first")
	}
	if err := w.validatePreferences(); err != nil {
		return domain.Session{}, err
	}

	session, err := w.identity.RegisterFull(ctx, w.payload())
	if err != nil {
		return domain.Session{}, err
	}

	w.store.Save(session)
	w.reset()
	return session, nil
}

// payload assembles exactly one registration payload containing all fields
// from all three steps.
func (w *Wizard) payload() domain.FullRegistration {
	return domain.FullRegistration{
		Username:       strings.TrimSpace(w.Credentials.Username),
		Password:       w.Credentials.Password,
		Name:           strings.TrimSpace(w.Personal.Name),
		Email:          strings.TrimSpace(w.Personal.Email),
		Phone:          strings.TrimSpace(w.Personal.Phone),
		Address:        strings.TrimSpace(w.Personal.Address),
		AccountType:    w.Preferences.AccountType,
		InitialDeposit: parseInitialDeposit(w.Preferences.InitialDeposit),
		TransactionPin: w.Preferences.TransactionPin,
	}
}

func (w *Wizard) reset() {
	w.step = StepCredentials
	w.Credentials = Credentials{}
	w.Personal = Personal{}
	w.Preferences = Preferences{AccountType: domain.AccountTypeSavings}
}

func (w *Wizard) validateCredentials() error {
	c := w.Credentials
	if strings.TrimSpace(c.Username) == "" || c.Password == "" || c.ConfirmPassword == "" {
		return stepError("all fields are required")
	}
	if c.Password != c.ConfirmPassword {
		return stepError("passwords do not match")
	}
	if len(c.Password) < minPasswordLength {
		return stepError("password is too short")
	}
	return nil
}

func (w *Wizard) validatePersonal() error {
	p := w.Personal
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Email) == "" ||
		strings.TrimSpace(p.Phone) == "" || strings.TrimSpace(p.Address) == "" {
		return stepError("all fields are required")
	}
	if !emailShape.MatchString(strings.TrimSpace(p.Email)) {
		return stepError("invalid email address")
	}
	return nil
}

func (w *Wizard) validatePreferences() error {
	p := w.Preferences
	if !domain.ValidAccountType(p.AccountType) {
		return stepError("unknown account type")
	}
	if err := domain.ValidatePinFormat(p.TransactionPin); err != nil {
		return stepError(err.Error())
	}
	if p.TransactionPin != p.ConfirmPin {
		return stepError("PINs do not match")
	}
	return nil
}

// parseInitialDeposit is the one place lenient input handling applies:
// blank or unparsable deposits default to zero, negatives included.
func parseInitialDeposit(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil || amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

func stepError(message string) error {
	return domain.NewError(domain.CategoryValidationFailed, "onboarding", message)
}
