package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"dogreg/internal/adapters/email"
	"dogreg/internal/ports/gateway"
)

// AuthGatewayForRegister defines the gateway surface needed by Register.
type AuthGatewayForRegister interface {
	SignUp(ctx context.Context, in gateway.SignUpInput) error
}

// RegisterInput carries input for the registration orchestrator.
type RegisterInput struct {
	DisplayName string
	Username    string
	Email       string
	Password    string
}

// RegisterDeps holds dependencies for Register. EmailSender may be nil
// when no welcome email should go out.
type RegisterDeps struct {
	Gateway     AuthGatewayForRegister
	EmailSender email.Sender
}

// ExecuteRegister initiates account creation. The matching profile row
// is created by the backend as a side effect of sign-up, not here.
// PRE: username, email and password are provided
// POST: account creation initiated; welcome email sent best-effort
func ExecuteRegister(ctx context.Context, input RegisterInput, deps RegisterDeps) error {
	in := gateway.SignUpInput{
		DisplayName: strings.TrimSpace(input.DisplayName),
		Username:    strings.TrimSpace(input.Username),
		Email:       strings.TrimSpace(input.Email),
		Password:    strings.TrimSpace(input.Password),
	}
	if in.Username == "" {
		return errors.New("username cannot be empty")
	}
	if in.Email == "" {
		return errors.New("email cannot be empty")
	}
	if in.Password == "" {
		return errors.New("password cannot be empty")
	}

	if err := deps.Gateway.SignUp(ctx, in); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "register_success", "email", in.Email, "username", in.Username)

	// Welcome email is best-effort; a provider failure must not fail
	// the registration the backend already accepted.
	if deps.EmailSender != nil {
		_, err := deps.EmailSender.Send(ctx, email.SendRequest{
			To:      []string{in.Email},
			Subject: "Welcome to the dog registry",
			HTML:    "<p>Your account is ready. Sign in with your username or email.</p>",
		})
		if err != nil {
			slog.Error("welcome_email_failed", "error", err.Error(), "email", in.Email)
		}
	}
	return nil
}
