// Command bankdesk is a terminal client for the retail banking back
// office and self-service portal. It wires the session store, the gateway
// client and the workflow services together and runs a line-oriented
// command loop; all business rules live in the internal packages.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bankdesk/bankdesk/internal/adapter/gateway"
	"github.com/bankdesk/bankdesk/internal/config"
	"github.com/bankdesk/bankdesk/internal/session"
	"github.com/bankdesk/bankdesk/internal/usecase/accountops"
	"github.com/bankdesk/bankdesk/internal/usecase/auth"
	"github.com/bankdesk/bankdesk/internal/usecase/payment"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	store := session.NewStore()
	client := gateway.NewClient(cfg.GatewayURL, store, log, cfg.HTTPTimeout)
	client.OnUnauthenticated = func() {
		fmt.Println("session expired, please log in again")
	}

	app := &app{
		log:       log,
		store:     store,
		client:    client,
		auth:      auth.NewService(client.Identity(), store, log),
		payments:  payment.NewService(client.Accounts(), client.Transactions(), store, log),
		lifecycle: accountops.NewService(client.Identity(), client.Accounts(), client.Customers(), store, log),
	}

	fmt.Printf("bankdesk connected to %s, type 'help' for commands\n", cfg.GatewayURL)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(prompt(store))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if fields[0] == "quit" || fields[0] == "exit" {
			return
		}
		if err := app.run(fields[0], fields[1:], scanner); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func prompt(store *session.Store) string {
	if s, ok := store.Current(); ok {
		return s.Identity.Username + "> "
	}
	return "bankdesk> "
}
