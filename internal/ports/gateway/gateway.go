// Package gateway defines the port to the hosted backend that owns
// authentication and record storage. The application never treats its
// own state as authoritative: every mutation goes through the gateway
// and views are re-fetched from it afterwards.
package gateway

import (
	"context"
	"errors"
	"time"

	"dogreg/internal/domain/dog"
	"dogreg/internal/domain/profile"
)

// Sentinel errors shared by all gateway implementations.
var (
	// ErrNotFound marks a merely-missing row (profile lookup miss).
	// Callers treat it as a user-facing "not found", not a fault.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials is returned by SignInWithPassword when the
	// email/password pair does not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized marks an operation the backend refused for the
	// current session (e.g. a non-admin status mutation).
	ErrUnauthorized = errors.New("not authorized")
)

// Session is the opaque token bundle the backend hands out on sign-in.
// It is owned by the backend; the application only carries it.
type Session struct {
	AccessToken string
	UserID      string
	Email       string
	ExpiresAt   time.Time
}

// SignUpInput carries the fields for account creation. The backend
// creates the matching profile row as a side effect.
type SignUpInput struct {
	Email       string
	Password    string
	Username    string
	DisplayName string
}

// NewRecord is the insert payload for a dog record. Optional fields
// left empty are omitted from the insert rather than sent as empty
// strings. Status is not part of the payload: the backend forces
// every insert to pending.
type NewRecord struct {
	Name            string
	Sex             string
	DateOfBirth     string
	Color           string
	MicrochipNumber string
	PedigreeNumber  string
	Notes           string
}

// AuthChangeFunc is invoked after every sign-in and sign-out. The
// session is nil on sign-out.
type AuthChangeFunc func(s *Session)

// Gateway is the full backend surface the application consumes.
type Gateway interface {
	Auth
	Records
}

// Auth covers session and identity operations.
type Auth interface {
	// GetSession returns the live session for a token, or nil without
	// error when the token is unknown or expired (signed out).
	GetSession(ctx context.Context, token string) (*Session, error)
	// SubscribeAuthChanges registers a callback for auth-state changes.
	SubscribeAuthChanges(fn AuthChangeFunc)
	SignUp(ctx context.Context, in SignUpInput) error
	SignInWithPassword(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, token string) error
	// FindProfileByUsername resolves a username to its profile.
	// Returns ErrNotFound when no profile matches.
	FindProfileByUsername(ctx context.Context, username string) (profile.Profile, error)
	// CurrentProfile returns the profile for the session's identity,
	// or ErrNotFound when the profile row is missing.
	CurrentProfile(ctx context.Context, token string) (profile.Profile, error)
}

// Records covers dog record storage.
type Records interface {
	// ListApprovedRecords returns approved records, newest-created-first.
	ListApprovedRecords(ctx context.Context) ([]dog.Record, error)
	// ListPendingRecords returns pending records, oldest-created-first.
	ListPendingRecords(ctx context.Context, token string) ([]dog.Record, error)
	// InsertRecord creates a new record owned by the session's identity.
	// The stored status is always pending.
	InsertRecord(ctx context.Context, token string, rec NewRecord) error
	// UpdateRecordStatus moves a record to approved or rejected.
	// Admin-only; the backend enforces this regardless of the caller.
	UpdateRecordStatus(ctx context.Context, token, id, status string) error
}
