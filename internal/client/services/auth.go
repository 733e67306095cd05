// Package services contains the application services of the studyhub
// client. Services own the local stores, talk to the API through
// client.Client and translate every failure into an *OperationError.
// This file defines the authentication service: token login, identity
// lookup and the author check used to gate comment edits.
package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/studyhub/internal/client/client"
	"github.com/dmitrijs2005/studyhub/internal/common"
	"github.com/dmitrijs2005/studyhub/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: install an access token and resolve the caller's email.
//   - Logout: drop the token.
//   - Email/LoggedIn: report the current identity.
//   - CanModify: whether the caller authored a resource.
type AuthService interface {
	Login(ctx context.Context, token string) (string, error)
	Logout()
	Email() string
	LoggedIn() bool
	CanModify(authorEmail string) bool
}

type authService struct {
	client client.Client
	log    logging.Logger
	now    func() time.Time

	mu    sync.RWMutex
	email string
	token string
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(c client.Client, log logging.Logger) AuthService {
	return &authService{client: c, log: log.With("component", "auth"), now: time.Now}
}

// Login installs token on the client. The token is decoded without
// verification, only to reject one that already expired and to read the
// email claim; when the token carries no email the server is asked.
func (a *authService) Login(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", newOpError("login", "", common.ErrBlankToken)
	}

	email, err := a.inspect(token)
	if err != nil {
		return "", newOpError("login", "", err)
	}

	a.client.SetToken(token)
	if email == "" {
		u, err := a.client.Me(ctx)
		if err != nil {
			a.client.SetToken(a.currentToken())
			a.log.Warn(ctx, "identity lookup failed", "error", err)
			return "", newOpError("login", "Failed to log in", err)
		}
		email = u.Email
	}

	a.mu.Lock()
	a.token, a.email = token, email
	a.mu.Unlock()

	a.log.Info(ctx, "logged in", "email", email)
	return email, nil
}

func (a *authService) inspect(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque tokens are passed through; the server decides.
		return "", nil
	}

	exp, err := claims.GetExpirationTime()
	if err == nil && exp != nil && exp.Before(a.now()) {
		return "", common.ErrTokenExpired
	}

	if email, ok := claims["email"].(string); ok && email != "" {
		return email, nil
	}
	if sub, err := claims.GetSubject(); err == nil && strings.Contains(sub, "@") {
		return sub, nil
	}
	return "", nil
}

func (a *authService) Logout() {
	a.mu.Lock()
	a.token, a.email = "", ""
	a.mu.Unlock()
	a.client.SetToken("")
}

func (a *authService) currentToken() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

func (a *authService) Email() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.email
}

func (a *authService) LoggedIn() bool {
	return a.Email() != ""
}

func (a *authService) CanModify(authorEmail string) bool {
	email := a.Email()
	return email != "" && email == authorEmail
}
