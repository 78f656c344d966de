package accountops

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bankdesk/bankdesk/internal/domain"
	"github.com/bankdesk/bankdesk/internal/session"
)

type mockIdentityGateway struct {
	mock.Mock
}

func (m *mockIdentityGateway) Login(ctx context.Context, username, password string) (domain.Session, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *mockIdentityGateway) Register(ctx context.Context, username, password string) (domain.Session, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *mockIdentityGateway) RegisterFull(ctx context.Context, reg domain.FullRegistration) (domain.Session, error) {
	args := m.Called(ctx, reg)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *mockIdentityGateway) ValidatePin(ctx context.Context, username, pin string) error {
	args := m.Called(ctx, username, pin)
	return args.Error(0)
}

type mockAccountGateway struct {
	mock.Mock
}

func (m *mockAccountGateway) List(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *mockAccountGateway) Get(ctx context.Context, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountGateway) GetByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *mockAccountGateway) GetByUsername(ctx context.Context, username string) ([]domain.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *mockAccountGateway) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountGateway) Create(ctx context.Context, req domain.AccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountGateway) Update(ctx context.Context, accountID int64, req domain.AccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountGateway) Close(ctx context.Context, accountID int64) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *mockAccountGateway) UpdateStatus(ctx context.Context, accountID int64, status domain.AccountStatus) (*domain.Account, error) {
	args := m.Called(ctx, accountID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

type mockCustomerGateway struct {
	mock.Mock
}

func (m *mockCustomerGateway) List(ctx context.Context) ([]domain.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *mockCustomerGateway) Get(ctx context.Context, customerID int64) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *mockCustomerGateway) GetByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *mockCustomerGateway) Create(ctx context.Context, req domain.CustomerRequest) (*domain.Customer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *mockCustomerGateway) Update(ctx context.Context, customerID int64, req domain.CustomerRequest) (*domain.Customer, error) {
	args := m.Called(ctx, customerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *mockCustomerGateway) Deactivate(ctx context.Context, customerID int64) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

func (m *mockCustomerGateway) UpdateStatus(ctx context.Context, customerID int64, status domain.CustomerStatus) (*domain.Customer, error) {
	args := m.Called(ctx, customerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func loggedInStore() *session.Store {
	store := session.NewStore()
	store.Save(domain.Session{
		Token:    "token",
		Identity: domain.Identity{Username: "alice", Role: domain.RoleUser},
	})
	return store
}

func newService(identity *mockIdentityGateway, accounts *mockAccountGateway, customers *mockCustomerGateway, store domain.SessionStore) *Service {
	return NewService(identity, accounts, customers, store, quietLogger())
}

func TestVerifyPin_ShapeCheckedBeforeDispatch(t *testing.T) {
	identity := new(mockIdentityGateway)
	svc := newService(identity, new(mockAccountGateway), new(mockCustomerGateway), loggedInStore())

	for _, pin := range []string{"", "123", "12345", "12a4"} {
		_, err := svc.VerifyPin(context.Background(), pin)
		require.Error(t, err, "pin %q", pin)
		assert.True(t, domain.IsCategory(err, domain.CategoryValidationFailed))
	}
	identity.AssertNotCalled(t, "ValidatePin", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyPin_RequiresSession(t *testing.T) {
	identity := new(mockIdentityGateway)
	svc := newService(identity, new(mockAccountGateway), new(mockCustomerGateway), session.NewStore())

	_, err := svc.VerifyPin(context.Background(), "1234")
	require.Error(t, err)
	assert.True(t, domain.IsCategory(err, domain.CategoryUnauthenticated))
}

func TestVerifyPin_MismatchIsForbiddenAndSessionSurvives(t *testing.T) {
	identity := new(mockIdentityGateway)
	store := loggedInStore()
	svc := newService(identity, new(mockAccountGateway), new(mockCustomerGateway), store)

	identity.On("ValidatePin", mock.Anything, "alice", "9999").
		Return(domain.NewError(domain.CategoryForbidden, "identity.validatePin", "Invalid PIN"))

	_, err := svc.VerifyPin(context.Background(), "9999")
	require.Error(t, err)
	assert.True(t, domain.IsCategory(err, domain.CategoryForbidden))
	assert.True(t, store.HasToken())
}

func TestVerifyPin_IssuesGrantBoundToUsername(t *testing.T) {
	identity := new(mockIdentityGateway)
	svc := newService(identity, new(mockAccountGateway), new(mockCustomerGateway), loggedInStore())

	identity.On("ValidatePin", mock.Anything, "alice", "1234").Return(nil)

	grant, err := svc.VerifyPin(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, "alice", grant.Username())
}

func TestClose_ZeroValueGrantRejected(t *testing.T) {
	accounts := new(mockAccountGateway)
	svc := newService(new(mockIdentityGateway), accounts, new(mockCustomerGateway), loggedInStore())

	err := svc.Close(context.Background(), PinGrant{}, domain.Account{
		AccountID: 1, Status: domain.AccountStatusActive, Balance: decimal.Zero,
	})
	require.Error(t, err)
	assert.True(t, domain.IsCategory(err, domain.CategoryForbidden))
	assert.Equal(t, "PIN verification required", domain.UserMessage(err))
	accounts.AssertNotCalled(t, "Close", mock.Anything, mock.Anything)
}

func TestClose_ExpiredGrantRejected(t *testing.T) {
	identity := new(mockIdentityGateway)
	accounts := new(mockAccountGateway)
	svc := newService(identity, accounts, new(mockCustomerGateway), loggedInStore())

	identity.On("ValidatePin", mock.Anything, "alice", "1234").Return(nil)
	grant, err := svc.VerifyPin(context.Background(), "1234")
	require.NoError(t, err)

	// Advance past the grant TTL.
	svc.now = func() time.Time { return time.Now().Add(6 * time.Minute) }

	err = svc.Close(context.Background(), grant, domain.Account{
		AccountID: 1, Status: domain.AccountStatusActive, Balance: decimal.Zero,
	})
	require.Error(t, err)
	assert.Equal(t, "PIN verification required", domain.UserMessage(err))
	accounts.AssertNotCalled(t, "Close", mock.Anything, mock.Anything)
}

func TestClose_GrantBoundToSessionIdentity(t *testing.T) {
	identity := new(mockIdentityGateway)
	accounts := new(mockAccountGateway)
	store := loggedInStore()
	svc := newService(identity, accounts, new(mockCustomerGateway), store)

	identity.On("ValidatePin", mock.Anything, "alice", "1234").Return(nil)
	grant, err := svc.VerifyPin(context.Background(), "1234")
	require.NoError(t, err)

	// Someone else logs in before the grant expires; the grant must not
	// authorize closures under the new identity.
	store.Clear()
	store.Save(domain.Session{
		Token:    "token-2",
		Identity: domain.Identity{Username: "bob", Role: domain.RoleUser},
	})

	err = svc.Close(context.Background(), grant, domain.Account{
		AccountID: 1, Status: domain.AccountStatusActive, Balance: decimal.Zero,
	})
	require.Error(t, err)
	assert.True(t, domain.IsCategory(err, domain.CategoryForbidden))
	assert.Equal(t, "PIN verification required", domain.UserMessage(err))
	accounts.AssertNotCalled(t, "Close", mock.Anything, mock.Anything)
}

func TestClose_GrantUnusableAfterLogout(t *testing.T) {
	identity := new(mockIdentityGateway)
	accounts := new(mockAccountGateway)
	store := loggedInStore()
	svc := newService(identity, accounts, new(mockCustomerGateway), store)

	identity.On("ValidatePin", mock.Anything, "alice", "1234").Return(nil)
	grant, err := svc.VerifyPin(context.Background(), "1234")
	require.NoError(t, err)

	store.Clear()

	err = svc.Close(context.Background(), grant, domain.Account{
		AccountID: 1, Status: domain.AccountStatusActive, Balance: decimal.Zero,
	})
	require.Error(t, err)
	assert.Equal(t, "PIN verification required", domain.UserMessage(err))
	accounts.AssertNotCalled(t, "Close", mock.Anything, mock.Anything)
}

func TestClose_NonZeroBalanceDeniedLocally(t *testing.T) {
	identity := new(mockIdentityGateway)
	accounts := new(mockAccountGateway)
	svc := newService(identity, accounts, new(mockCustomerGateway), loggedInStore())

	identity.On("ValidatePin", mock.Anything, "alice", "1234").Return(nil)
	grant, err := svc.VerifyPin(context.Background(), "1234")
	require.NoError(t, err)

	err = svc.Close(context.Background(), grant, domain.Account{
		AccountID: 1, Status: domain.AccountStatusActive,
		Balance: decimal.RequireFromString("0.01"),
	})
	require.Error(t, err)
	assert.True(t, domain.IsCategory(err, domain.CategoryForbidden))
	accounts.AssertNotCalled(t, "Close", mock.Anything, mock.Anything)
}

func TestClose_HappyPath(t *testing.T) {
	identity := new(mockIdentityGateway)
	accounts := new(mockAccountGateway)
	svc := newService(identity, accounts, new(mockCustomerGateway), loggedInStore())

	identity.On("ValidatePin", mock.Anything, "alice", "1234").Return(nil)
	accounts.On("Close", mock.Anything, int64(1)).Return(nil)

	grant, err := svc.VerifyPin(context.Background(), "1234")
	require.NoError(t, err)

	err = svc.Close(context.Background(), grant, domain.Account{
		AccountID: 1, Status: domain.AccountStatusActive, Balance: decimal.Zero,
	})
	require.NoError(t, err)
	accounts.AssertExpectations(t)
}

func TestOpenAdditional_SuspendedCustomerDenied(t *testing.T) {
	accounts := new(mockAccountGateway)
	svc := newService(new(mockIdentityGateway), accounts, new(mockCustomerGateway), loggedInStore())

	_, err := svc.OpenAdditional(context.Background(),
		domain.Customer{CustomerID: 7, Status: domain.CustomerStatusSuspended},
		domain.AccountTypeSavings)
	require.Error(t, err)
	assert.True(t, domain.IsCategory(err, domain.CategoryForbidden))
	assert.Equal(t, "customer is not active", domain.UserMessage(err))
	accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOpenAdditional_UnknownTypeRejected(t *testing.T) {
	accounts := new(mockAccountGateway)
	svc := newService(new(mockIdentityGateway), accounts, new(mockCustomerGateway), loggedInStore())

	_, err := svc.OpenAdditional(context.Background(),
		domain.Customer{CustomerID: 7, Status: domain.CustomerStatusActive},
		domain.AccountType("PREMIUM"))
	require.Error(t, err)
	assert.True(t, domain.IsCategory(err, domain.CategoryValidationFailed))
	accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOpenAdditional_CreatesAccount(t *testing.T) {
	accounts := new(mockAccountGateway)
	svc := newService(new(mockIdentityGateway), accounts, new(mockCustomerGateway), loggedInStore())

	created := &domain.Account{AccountID: 2, AccountType: domain.AccountTypeChecking}
	accounts.On("Create", mock.Anything, domain.AccountRequest{
		CustomerID:  7,
		AccountType: domain.AccountTypeChecking,
	}).Return(created, nil)

	account, err := svc.OpenAdditional(context.Background(),
		domain.Customer{CustomerID: 7, Status: domain.CustomerStatusActive},
		domain.AccountTypeChecking)
	require.NoError(t, err)
	assert.Equal(t, int64(2), account.AccountID)
	accounts.AssertExpectations(t)
}

func TestSetAccountStatus_GuardViolationsCaughtLocally(t *testing.T) {
	tests := []struct {
		name    string
		account domain.Account
		target  domain.AccountStatus
	}{
		{
			name:    "reopen closed account",
			account: domain.Account{AccountID: 1, Status: domain.AccountStatusClosed},
			target:  domain.AccountStatusActive,
		},
		{
			name: "close with balance",
			account: domain.Account{
				AccountID: 1, Status: domain.AccountStatusActive,
				Balance: decimal.RequireFromString("10.00"),
			},
			target: domain.AccountStatusClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := new(mockAccountGateway)
			svc := newService(new(mockIdentityGateway), accounts, new(mockCustomerGateway), loggedInStore())

			_, err := svc.SetAccountStatus(context.Background(), tt.account, tt.target)
			require.Error(t, err)
			assert.True(t, domain.IsCategory(err, domain.CategoryForbidden))
			accounts.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSetAccountStatus_FreezeDispatched(t *testing.T) {
	accounts := new(mockAccountGateway)
	svc := newService(new(mockIdentityGateway), accounts, new(mockCustomerGateway), loggedInStore())

	frozen := &domain.Account{AccountID: 1, Status: domain.AccountStatusFrozen}
	accounts.On("UpdateStatus", mock.Anything, int64(1), domain.AccountStatusFrozen).Return(frozen, nil)

	account, err := svc.SetAccountStatus(context.Background(),
		domain.Account{AccountID: 1, Status: domain.AccountStatusActive},
		domain.AccountStatusFrozen)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountStatusFrozen, account.Status)
}

func TestSetCustomerStatus_Dispatched(t *testing.T) {
	customers := new(mockCustomerGateway)
	svc := newService(new(mockIdentityGateway), new(mockAccountGateway), customers, loggedInStore())

	suspended := &domain.Customer{CustomerID: 7, Status: domain.CustomerStatusSuspended}
	customers.On("UpdateStatus", mock.Anything, int64(7), domain.CustomerStatusSuspended).Return(suspended, nil)

	customer, err := svc.SetCustomerStatus(context.Background(),
		domain.Customer{CustomerID: 7, Status: domain.CustomerStatusActive},
		domain.CustomerStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, domain.CustomerStatusSuspended, customer.Status)
}

func TestDeactivateCustomer_Dispatched(t *testing.T) {
	customers := new(mockCustomerGateway)
	svc := newService(new(mockIdentityGateway), new(mockAccountGateway), customers, loggedInStore())

	customers.On("Deactivate", mock.Anything, int64(7)).Return(nil)
	err := svc.DeactivateCustomer(context.Background(), domain.Customer{CustomerID: 7})
	require.NoError(t, err)
	customers.AssertExpectations(t)
}
