// Package local implements the backend gateway on top of SQLite. It is
// used for development and tests and mirrors the hosted backend's
// policies: profile rows are created on sign-up, inserts are forced to
// pending, and status mutations require an admin profile.
package local

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	accountStore "dogreg/internal/adapters/storage/account"
	dogStore "dogreg/internal/adapters/storage/dog"
	profileStore "dogreg/internal/adapters/storage/profile"
	accountDomain "dogreg/internal/domain/account"
	dogDomain "dogreg/internal/domain/dog"
	profileDomain "dogreg/internal/domain/profile"
	"dogreg/internal/ports/gateway"
)

const sessionTTL = 24 * time.Hour

// Gateway is the self-hosted backend implementation.
type Gateway struct {
	accounts accountStore.Store
	profiles profileStore.Store
	dogs     dogStore.Store

	mu          sync.RWMutex
	sessions    map[string]gateway.Session
	subscribers []gateway.AuthChangeFunc

	// Now and GenerateID are injectable for tests.
	Now        func() time.Time
	GenerateID func() string
}

// New creates a local gateway over the given stores.
func New(accounts accountStore.Store, profiles profileStore.Store, dogs dogStore.Store) *Gateway {
	return &Gateway{
		accounts:   accounts,
		profiles:   profiles,
		dogs:       dogs,
		sessions:   make(map[string]gateway.Session),
		Now:        time.Now,
		GenerateID: func() string { return uuid.New().String() },
	}
}

// Compile-time check that *Gateway satisfies the port.
var _ gateway.Gateway = (*Gateway)(nil)

// GetSession returns the live session for a token, or nil when the
// token is unknown or expired.
func (g *Gateway) GetSession(_ context.Context, token string) (*gateway.Session, error) {
	if token == "" {
		return nil, nil
	}
	g.mu.RLock()
	sess, ok := g.sessions[token]
	g.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if g.Now().After(sess.ExpiresAt) {
		g.mu.Lock()
		delete(g.sessions, token)
		g.mu.Unlock()
		return nil, nil
	}
	return &sess, nil
}

// SubscribeAuthChanges registers a callback invoked after every
// sign-in and sign-out.
func (g *Gateway) SubscribeAuthChanges(fn gateway.AuthChangeFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subscribers = append(g.subscribers, fn)
}

func (g *Gateway) notifyAuthChange(s *gateway.Session) {
	g.mu.RLock()
	subs := make([]gateway.AuthChangeFunc, len(g.subscribers))
	copy(subs, g.subscribers)
	g.mu.RUnlock()
	for _, fn := range subs {
		fn(s)
	}
}

// SignUp creates an account and, like the hosted backend's trigger,
// the matching profile row with the user role.
// PRE: input has email, password, username
// POST: account and profile exist; no session is created
func (g *Gateway) SignUp(ctx context.Context, in gateway.SignUpInput) error {
	acct := accountDomain.Account{
		ID:        g.GenerateID(),
		Email:     in.Email,
		CreatedAt: g.Now(),
	}
	if err := acct.Validate(); err != nil {
		return err
	}
	if err := acct.SetPassword(in.Password); err != nil {
		return err
	}
	prof := profileDomain.Profile{
		ID:          acct.ID,
		Username:    in.Username,
		Email:       in.Email,
		DisplayName: in.DisplayName,
		Role:        profileDomain.RoleUser,
	}
	if err := prof.Validate(); err != nil {
		return err
	}
	if _, err := g.accounts.GetByEmail(ctx, in.Email); err == nil {
		return errors.New("an account with this email already exists")
	}
	if _, err := g.profiles.GetByUsername(ctx, in.Username); err == nil {
		return errors.New("this username is already taken")
	}
	if err := g.accounts.Save(ctx, acct); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	if err := g.profiles.Save(ctx, prof); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	slog.Info("auth_event", "event", "sign_up", "email", in.Email, "username", in.Username)
	return nil
}

// SignInWithPassword verifies credentials and opens a session.
// POST: session stored and subscribers notified on success
func (g *Gateway) SignInWithPassword(ctx context.Context, email, password string) (gateway.Session, error) {
	acct, err := g.accounts.GetByEmail(ctx, email)
	if err != nil {
		slog.Info("auth_event", "event", "sign_in_failed", "email", email, "reason", "not_found")
		return gateway.Session{}, gateway.ErrInvalidCredentials
	}
	if err := acct.CheckPassword(password); err != nil {
		slog.Info("auth_event", "event", "sign_in_failed", "email", email, "reason", "wrong_password")
		return gateway.Session{}, gateway.ErrInvalidCredentials
	}
	token, err := generateToken()
	if err != nil {
		return gateway.Session{}, err
	}
	sess := gateway.Session{
		AccessToken: token,
		UserID:      acct.ID,
		Email:       acct.Email,
		ExpiresAt:   g.Now().Add(sessionTTL),
	}
	g.mu.Lock()
	g.sessions[token] = sess
	g.mu.Unlock()
	slog.Info("auth_event", "event", "sign_in", "email", email)
	g.notifyAuthChange(&sess)
	return sess, nil
}

// SignOut closes the session for the token. Unknown tokens are a no-op.
// POST: subscribers notified with a nil session
func (g *Gateway) SignOut(_ context.Context, token string) error {
	g.mu.Lock()
	_, existed := g.sessions[token]
	delete(g.sessions, token)
	g.mu.Unlock()
	if existed {
		slog.Info("auth_event", "event", "sign_out")
	}
	g.notifyAuthChange(nil)
	return nil
}

// FindProfileByUsername resolves a username to its profile.
// POST: Returns ErrNotFound when no profile matches
func (g *Gateway) FindProfileByUsername(ctx context.Context, username string) (profileDomain.Profile, error) {
	prof, err := g.profiles.GetByUsername(ctx, username)
	if errors.Is(err, profileStore.ErrProfileNotFound) {
		return profileDomain.Profile{}, gateway.ErrNotFound
	}
	return prof, err
}

// CurrentProfile returns the profile for the session's identity.
// POST: Returns ErrNotFound for an unknown token or a missing profile row
func (g *Gateway) CurrentProfile(ctx context.Context, token string) (profileDomain.Profile, error) {
	sess, err := g.GetSession(ctx, token)
	if err != nil {
		return profileDomain.Profile{}, err
	}
	if sess == nil {
		return profileDomain.Profile{}, gateway.ErrNotFound
	}
	prof, err := g.profiles.GetByID(ctx, sess.UserID)
	if errors.Is(err, profileStore.ErrProfileNotFound) {
		return profileDomain.Profile{}, gateway.ErrNotFound
	}
	return prof, err
}

// ListApprovedRecords returns approved records, newest first.
func (g *Gateway) ListApprovedRecords(ctx context.Context) ([]dogDomain.Record, error) {
	return g.dogs.ListByStatus(ctx, dogDomain.StatusApproved, dogStore.OrderNewestFirst)
}

// ListPendingRecords returns pending records, oldest first. Admin-only,
// matching the hosted backend's row-level policy.
func (g *Gateway) ListPendingRecords(ctx context.Context, token string) ([]dogDomain.Record, error) {
	if err := g.requireAdmin(ctx, token); err != nil {
		return nil, err
	}
	return g.dogs.ListByStatus(ctx, dogDomain.StatusPending, dogStore.OrderOldestFirst)
}

// InsertRecord creates a record owned by the session's identity.
// The status is always pending regardless of the payload.
// PRE: token belongs to a live session
// POST: record persisted with status pending
func (g *Gateway) InsertRecord(ctx context.Context, token string, rec gateway.NewRecord) error {
	sess, err := g.GetSession(ctx, token)
	if err != nil {
		return err
	}
	if sess == nil {
		return gateway.ErrUnauthorized
	}
	entity := dogDomain.Record{
		ID:              g.GenerateID(),
		Name:            rec.Name,
		Sex:             rec.Sex,
		DateOfBirth:     rec.DateOfBirth,
		Color:           rec.Color,
		MicrochipNumber: rec.MicrochipNumber,
		PedigreeNumber:  rec.PedigreeNumber,
		Notes:           rec.Notes,
		Status:          dogDomain.StatusPending,
		OwnerID:         sess.UserID,
		CreatedAt:       g.Now(),
	}
	if err := entity.Validate(); err != nil {
		return err
	}
	return g.dogs.Save(ctx, entity)
}

// UpdateRecordStatus moves a record to approved or rejected. Admin-only.
// PRE: record is pending
// POST: record persisted in its terminal status
func (g *Gateway) UpdateRecordStatus(ctx context.Context, token, id, status string) error {
	if err := g.requireAdmin(ctx, token); err != nil {
		return err
	}
	entity, err := g.dogs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch status {
	case dogDomain.StatusApproved:
		err = entity.Approve()
	case dogDomain.StatusRejected:
		err = entity.Reject()
	default:
		err = dogDomain.ErrInvalidStatus
	}
	if err != nil {
		return err
	}
	if err := g.dogs.Save(ctx, entity); err != nil {
		return err
	}
	slog.Info("moderation_event", "event", "status_change", "record_id", id, "status", status)
	return nil
}

func (g *Gateway) requireAdmin(ctx context.Context, token string) error {
	prof, err := g.CurrentProfile(ctx, token)
	if errors.Is(err, gateway.ErrNotFound) {
		return gateway.ErrUnauthorized
	}
	if err != nil {
		return err
	}
	if !prof.IsAdmin() {
		return gateway.ErrUnauthorized
	}
	return nil
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
