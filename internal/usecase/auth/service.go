// Package auth drives login and logout against the identity boundary.
package auth

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bankdesk/bankdesk/internal/domain"
)

// Service handles session establishment and teardown. The gateway's
// unauthenticated handler is the only other writer of the session store.
type Service struct {
	identity domain.IdentityGateway
	store    domain.SessionStore
	log      *logrus.Logger
}

// NewService creates an auth service over the identity gateway and the
// session store.
func NewService(identity domain.IdentityGateway, store domain.SessionStore, log *logrus.Logger) *Service {
	return &Service{identity: identity, store: store, log: log}
}

// Login exchanges credentials for a session and saves it. Empty
// credentials are rejected locally without a network call.
func (s *Service) Login(ctx context.Context, username, password string) (domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Session{}, domain.NewError(domain.CategoryValidationFailed, "auth.login",
			"username and password are required")
	}

	session, err := s.identity.Login(ctx, username, password)
	if err != nil {
		return domain.Session{}, err
	}

	s.store.Save(session)
	s.log.WithFields(logrus.Fields{
		"username": session.Identity.Username,
		"role":     session.Identity.Role,
	}).Info("logged in")
	return session, nil
}

// Logout destroys the current session. Logging out when no session is
// held is a no-op.
func (s *Service) Logout() {
	if _, ok := s.store.Current(); ok {
		s.log.Info("logged out")
	}
	s.store.Clear()
}

// CurrentSession exposes the held session to the presentation layer.
func (s *Service) CurrentSession() (domain.Session, bool) {
	return s.store.Current()
}
