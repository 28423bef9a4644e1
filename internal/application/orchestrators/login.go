package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"dogreg/internal/domain/profile"
	"dogreg/internal/ports/gateway"
)

// AuthGatewayForLogin defines the gateway surface needed by Login.
type AuthGatewayForLogin interface {
	FindProfileByUsername(ctx context.Context, username string) (profile.Profile, error)
	SignInWithPassword(ctx context.Context, email, password string) (gateway.Session, error)
}

// LoginInput carries input for the login orchestrator. The identifier
// may be a username or an email.
type LoginInput struct {
	UserOrEmail string
	Password    string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Gateway AuthGatewayForLogin
}

// ErrUserNotFound is surfaced when a username cannot be resolved to an
// email, instead of a raw backend error.
var ErrUserNotFound = errors.New("user not found")

// ExecuteLogin signs a user in. An identifier without '@' is treated
// as a username and resolved to an email through a profile lookup
// before the password sign-in.
// PRE: identifier and password are provided
// POST: Returns the opened session on success
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (gateway.Session, error) {
	id := strings.TrimSpace(input.UserOrEmail)
	password := strings.TrimSpace(input.Password)
	if id == "" || password == "" {
		return gateway.Session{}, gateway.ErrInvalidCredentials
	}

	email := id
	if !strings.Contains(id, "@") {
		prof, err := deps.Gateway.FindProfileByUsername(ctx, id)
		if errors.Is(err, gateway.ErrNotFound) {
			slog.Info("auth_event", "event", "login_failed", "user", id, "reason", "username_not_found")
			return gateway.Session{}, ErrUserNotFound
		}
		if err != nil {
			return gateway.Session{}, err
		}
		email = prof.Email
	}

	sess, err := deps.Gateway.SignInWithPassword(ctx, email, password)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "sign_in_rejected")
		return gateway.Session{}, err
	}

	slog.Info("auth_event", "event", "login_success", "email", email)
	return sess, nil
}
