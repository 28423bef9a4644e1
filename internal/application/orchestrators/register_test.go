package orchestrators

import (
	"context"
	"errors"
	"testing"

	"dogreg/internal/adapters/email"
	"dogreg/internal/ports/gateway"
)

// mockRegisterGateway implements AuthGatewayForRegister for testing.
type mockRegisterGateway struct {
	signUps []gateway.SignUpInput
	err     error
}

func (m *mockRegisterGateway) SignUp(_ context.Context, in gateway.SignUpInput) error {
	if m.err != nil {
		return m.err
	}
	m.signUps = append(m.signUps, in)
	return nil
}

// mockEmailSender implements email.Sender for testing.
type mockEmailSender struct {
	sent []email.SendRequest
	err  error
}

func (m *mockEmailSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	if m.err != nil {
		return email.SendResult{}, m.err
	}
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: "email-001"}, nil
}

// TestExecuteRegister_Valid tests a successful registration.
func TestExecuteRegister_Valid(t *testing.T) {
	gw := &mockRegisterGateway{}
	sender := &mockEmailSender{}
	err := ExecuteRegister(context.Background(), RegisterInput{
		DisplayName: "  Alice  ",
		Username:    " alice ",
		Email:       " a@x.com ",
		Password:    "secret123",
	}, RegisterDeps{Gateway: gw, EmailSender: sender})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gw.signUps) != 1 {
		t.Fatalf("expected 1 sign-up, got %d", len(gw.signUps))
	}
	in := gw.signUps[0]
	if in.Username != "alice" || in.Email != "a@x.com" || in.DisplayName != "Alice" {
		t.Errorf("expected trimmed input, got %+v", in)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 welcome email, got %d", len(sender.sent))
	}
	if sender.sent[0].To[0] != "a@x.com" {
		t.Errorf("welcome email addressed to %v", sender.sent[0].To)
	}
}

// TestExecuteRegister_MissingFields tests field validation.
func TestExecuteRegister_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing username", RegisterInput{Email: "a@x.com", Password: "secret123"}},
		{"missing email", RegisterInput{Username: "alice", Password: "secret123"}},
		{"missing password", RegisterInput{Username: "alice", Email: "a@x.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &mockRegisterGateway{}
			err := ExecuteRegister(context.Background(), tt.input, RegisterDeps{Gateway: gw})
			if err == nil {
				t.Error("expected error")
			}
			if len(gw.signUps) != 0 {
				t.Error("invalid input reached the gateway")
			}
		})
	}
}

// TestExecuteRegister_GatewayError tests that a backend rejection is
// surfaced as-is.
func TestExecuteRegister_GatewayError(t *testing.T) {
	gw := &mockRegisterGateway{err: errors.New("email already registered")}
	sender := &mockEmailSender{}
	err := ExecuteRegister(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "secret123",
	}, RegisterDeps{Gateway: gw, EmailSender: sender})
	if err == nil || err.Error() != "email already registered" {
		t.Errorf("expected gateway error, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Error("welcome email sent for a failed registration")
	}
}

// TestExecuteRegister_EmailFailureIgnored tests that a provider failure
// does not fail an accepted registration.
func TestExecuteRegister_EmailFailureIgnored(t *testing.T) {
	gw := &mockRegisterGateway{}
	sender := &mockEmailSender{err: errors.New("provider down")}
	err := ExecuteRegister(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "secret123",
	}, RegisterDeps{Gateway: gw, EmailSender: sender})
	if err != nil {
		t.Errorf("email failure propagated: %v", err)
	}
	if len(gw.signUps) != 1 {
		t.Error("expected sign-up to have gone through")
	}
}

// TestExecuteRegister_NilSender tests registration without an email sender.
func TestExecuteRegister_NilSender(t *testing.T) {
	gw := &mockRegisterGateway{}
	err := ExecuteRegister(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "secret123",
	}, RegisterDeps{Gateway: gw})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
