package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/bankdesk/bankdesk/internal/adapter/gateway"
	"github.com/bankdesk/bankdesk/internal/domain"
	"github.com/bankdesk/bankdesk/internal/session"
	"github.com/bankdesk/bankdesk/internal/usecase/accountops"
	"github.com/bankdesk/bankdesk/internal/usecase/auth"
	"github.com/bankdesk/bankdesk/internal/usecase/onboarding"
	"github.com/bankdesk/bankdesk/internal/usecase/payment"
)

type app struct {
	log       *logrus.Logger
	store     *session.Store
	client    *gateway.Client
	auth      *auth.Service
	payments  *payment.Service
	lifecycle *accountops.Service
}

func (a *app) run(command string, args []string, in *bufio.Scanner) error {
	ctx := context.Background()

	switch command {
	case "help":
		printHelp()
		return nil
	case "login":
		return a.login(ctx, args, in)
	case "logout":
		a.auth.Logout()
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "register":
		return a.register(ctx, in)
	case "accounts":
		return a.accounts(ctx)
	case "history":
		return a.history(ctx, args)
	case "deposit":
		return a.deposit(ctx, args)
	case "withdraw":
		return a.withdraw(ctx, args, in)
	case "transfer":
		return a.transfer(ctx, args, in)
	case "open":
		return a.open(ctx, args)
	case "close":
		return a.close(ctx, args, in)
	case "customers":
		return a.customers(ctx)
	case "customer-status":
		return a.customerStatus(ctx, args)
	case "account-status":
		return a.accountStatus(ctx, args)
	case "deactivate":
		return a.deactivate(ctx, args)
	default:
		return fmt.Errorf("unknown command %q, try 'help'", command)
	}
}

func printHelp() {
	fmt.Print(`commands:
  login <username>             log in (password prompted)
  logout                       discard the session
  whoami                       show the current identity and token expiry
  register                     run the account-opening wizard
  accounts                     list my accounts
  history <accountId>          show ledger history
  deposit <accountId> <amount> [description]
  withdraw <accountId> <amount> [description]   (PIN prompted)
  transfer <fromId> <toAccountNumber> <amount> [description]   (PIN prompted)
  open <customerId> <SAVINGS|CHECKING|CURRENT>
  close <accountId>            close a zero-balance account (PIN prompted)
  customers                    list customers (back office)
  customer-status <id> <ACTIVE|SUSPENDED|INACTIVE>
  account-status <id> <ACTIVE|FROZEN|CLOSED>
  deactivate <customerId>      soft-delete a customer
  quit
`)
}

func (a *app) login(ctx context.Context, args []string, in *bufio.Scanner) error {
	if len(args) != 1 {
		return errors.New("usage: login <username>")
	}
	password := promptLine(in, "password: ")
	s, err := a.auth.Login(ctx, args[0], password)
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	fmt.Printf("welcome, %s (%s)\n", s.Identity.Username, s.Identity.Role)
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	s, ok := a.store.Current()
	if !ok {
		fmt.Println("not logged in")
		return nil
	}
	// The local claims are decoded unverified; the identity boundary is
	// the authority. A rejection here tears down the session.
	if err := a.client.Identity().ValidateToken(ctx); err != nil {
		return errors.New(domain.UserMessage(err))
	}
	fmt.Printf("%s (%s)\n", s.Identity.Username, s.Identity.Role)
	if info, err := session.InspectToken(s.Token); err == nil && !info.ExpiresAt.IsZero() {
		if info.Expired(time.Now()) {
			fmt.Println("token expired")
		} else {
			fmt.Printf("token expires %s\n", info.ExpiresAt.Format(time.RFC1123))
		}
	}
	return nil
}

func (a *app) register(ctx context.Context, in *bufio.Scanner) error {
	wizard := onboarding.NewWizard(a.client.Identity(), a.store)

	wizard.Credentials = onboarding.Credentials{
		Username:        promptLine(in, "username: "),
		Password:        promptLine(in, "password: "),
		ConfirmPassword: promptLine(in, "confirm password: "),
	}
	if err := wizard.Next(); err != nil {
		return errors.New(domain.UserMessage(err))
	}

	wizard.Personal = onboarding.Personal{
		Name:    promptLine(in, "full name: "),
		Email:   promptLine(in, "email: "),
		Phone:   promptLine(in, "phone: "),
		Address: promptLine(in, "address: "),
	}
	if err := wizard.Next(); err != nil {
		return errors.New(domain.UserMessage(err))
	}

	wizard.Preferences = onboarding.Preferences{
		AccountType:    domain.AccountType(strings.ToUpper(promptLine(in, "account type [SAVINGS]: "))),
		InitialDeposit: promptLine(in, "initial deposit (optional): "),
		TransactionPin: promptLine(in, "4-digit transaction PIN: "),
		ConfirmPin:     promptLine(in, "confirm PIN: "),
	}
	if wizard.Preferences.AccountType == "" {
		wizard.Preferences.AccountType = domain.AccountTypeSavings
	}

	s, err := wizard.Submit(ctx)
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	fmt.Printf("account opened, welcome %s\n", s.Identity.Username)
	return nil
}

func (a *app) accounts(ctx context.Context) error {
	s, ok := a.store.Current()
	if !ok {
		return errors.New("not logged in")
	}
	accounts, err := a.payments.AccountsFor(ctx, s.Identity.Username)
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	for _, acc := range accounts {
		fmt.Printf("%6d  %-16s %-8s %-6s %12s\n",
			acc.AccountID, acc.AccountNumber, acc.AccountType, acc.Status, acc.Balance.StringFixed(2))
	}
	return nil
}

func (a *app) history(ctx context.Context, args []string) error {
	accountID, err := parseID(args, 0, "usage: history <accountId>")
	if err != nil {
		return err
	}
	txns, err := a.payments.History(ctx, accountID)
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	for _, txn := range txns {
		sign := "-"
		if txn.Inbound(accountID) {
			sign = "+"
		}
		fmt.Printf("%s  %-8s %s%s  %s\n",
			txn.Timestamp.Format("2006-01-02 15:04"), txn.TransactionType, sign, txn.Amount.StringFixed(2), txn.Description)
	}
	return nil
}

func (a *app) deposit(ctx context.Context, args []string) error {
	account, amount, description, err := a.moneyArgs(ctx, args, "usage: deposit <accountId> <amount> [description]")
	if err != nil {
		return err
	}
	result, err := a.payments.Deposit(ctx, payment.DepositInput{
		Account: *account, Amount: amount, Description: description,
	})
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	fmt.Printf("deposit settled, balance %s\n", result.Account.Balance.StringFixed(2))
	return nil
}

func (a *app) withdraw(ctx context.Context, args []string, in *bufio.Scanner) error {
	account, amount, description, err := a.moneyArgs(ctx, args, "usage: withdraw <accountId> <amount> [description]")
	if err != nil {
		return err
	}
	pin := promptLine(in, "transaction PIN: ")
	result, err := a.payments.Withdraw(ctx, payment.WithdrawInput{
		Account: *account, Amount: amount, Description: description, Pin: pin,
	})
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	fmt.Printf("withdrawal settled, balance %s\n", result.Account.Balance.StringFixed(2))
	return nil
}

func (a *app) transfer(ctx context.Context, args []string, in *bufio.Scanner) error {
	if len(args) < 3 {
		return errors.New("usage: transfer <fromId> <toAccountNumber> <amount> [description]")
	}
	fromID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errors.New("invalid account id")
	}
	amount, err := decimal.NewFromString(args[2])
	if err != nil {
		return errors.New("invalid amount")
	}
	from, err := a.fetchAccount(ctx, fromID)
	if err != nil {
		return err
	}
	pin := promptLine(in, "transaction PIN: ")
	result, err := a.payments.Transfer(ctx, payment.TransferInput{
		From:            *from,
		ToAccountNumber: args[1],
		Amount:          amount,
		Description:     strings.Join(args[3:], " "),
		Pin:             pin,
	})
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	fmt.Printf("transfer settled, balance %s\n", result.Account.Balance.StringFixed(2))
	return nil
}

func (a *app) open(ctx context.Context, args []string) error {
	customerID, err := parseID(args, 0, "usage: open <customerId> <SAVINGS|CHECKING|CURRENT>")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("usage: open <customerId> <SAVINGS|CHECKING|CURRENT>")
	}
	customer, err := a.client.Customers().Get(ctx, customerID)
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	account, err := a.lifecycle.OpenAdditional(ctx, *customer, domain.AccountType(strings.ToUpper(args[1])))
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	fmt.Printf("opened %s account %s\n", account.AccountType, account.AccountNumber)
	return nil
}

func (a *app) close(ctx context.Context, args []string, in *bufio.Scanner) error {
	accountID, err := parseID(args, 0, "usage: close <accountId>")
	if err != nil {
		return err
	}
	account, err := a.fetchAccount(ctx, accountID)
	if err != nil {
		return err
	}

	pin := promptLine(in, "transaction PIN: ")
	grant, err := a.lifecycle.VerifyPin(ctx, pin)
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	if promptLine(in, "close this account? this cannot be undone [y/N]: ") != "y" {
		return nil
	}
	if err := a.lifecycle.Close(ctx, grant, *account); err != nil {
		return errors.New(domain.UserMessage(err))
	}
	fmt.Println("account closed")
	return nil
}

func (a *app) customers(ctx context.Context) error {
	customers, err := a.client.Customers().List(ctx)
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	for _, c := range customers {
		fmt.Printf("%6d  %-20s %-24s %-10s\n", c.CustomerID, c.Name, c.Email, c.Status)
	}
	return nil
}

func (a *app) customerStatus(ctx context.Context, args []string) error {
	customerID, err := parseID(args, 0, "usage: customer-status <id> <status>")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("usage: customer-status <id> <status>")
	}
	customer, err := a.client.Customers().Get(ctx, customerID)
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	updated, err := a.lifecycle.SetCustomerStatus(ctx, *customer, domain.CustomerStatus(strings.ToUpper(args[1])))
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	fmt.Printf("customer %d is now %s\n", updated.CustomerID, updated.Status)
	return nil
}

func (a *app) accountStatus(ctx context.Context, args []string) error {
	accountID, err := parseID(args, 0, "usage: account-status <id> <status>")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("usage: account-status <id> <status>")
	}
	account, err := a.fetchAccount(ctx, accountID)
	if err != nil {
		return err
	}
	updated, err := a.lifecycle.SetAccountStatus(ctx, *account, domain.AccountStatus(strings.ToUpper(args[1])))
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	fmt.Printf("account %s is now %s\n", updated.AccountNumber, updated.Status)
	return nil
}

func (a *app) deactivate(ctx context.Context, args []string) error {
	customerID, err := parseID(args, 0, "usage: deactivate <customerId>")
	if err != nil {
		return err
	}
	customer, err := a.client.Customers().Get(ctx, customerID)
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	if err := a.lifecycle.DeactivateCustomer(ctx, *customer); err != nil {
		return errors.New(domain.UserMessage(err))
	}
	fmt.Println("customer deactivated")
	return nil
}

// moneyArgs parses the shared <accountId> <amount> [description] argument
// shape and fetches the current account view for the guard.
func (a *app) moneyArgs(ctx context.Context, args []string, usage string) (*domain.Account, decimal.Decimal, string, error) {
	if len(args) < 2 {
		return nil, decimal.Zero, "", errors.New(usage)
	}
	accountID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return nil, decimal.Zero, "", errors.New("invalid account id")
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return nil, decimal.Zero, "", errors.New("invalid amount")
	}
	account, err := a.fetchAccount(ctx, accountID)
	if err != nil {
		return nil, decimal.Zero, "", err
	}
	return account, amount, strings.Join(args[2:], " "), nil
}

func (a *app) fetchAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, err := a.client.Accounts().Get(ctx, accountID)
	if err != nil {
		return nil, errors.New(domain.UserMessage(err))
	}
	return account, nil
}

func parseID(args []string, index int, usage string) (int64, error) {
	if len(args) <= index {
		return 0, errors.New(usage)
	}
	id, err := strconv.ParseInt(args[index], 10, 64)
	if err != nil {
		return 0, errors.New(usage)
	}
	return id, nil
}

func promptLine(in *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}
