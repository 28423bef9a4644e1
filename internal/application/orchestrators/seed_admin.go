package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	accountDomain "dogreg/internal/domain/account"
	profileDomain "dogreg/internal/domain/profile"
)

// AccountStoreForSeed defines the account store interface needed by SeedAdmin.
type AccountStoreForSeed interface {
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, a accountDomain.Account) error
}

// ProfileStoreForSeed defines the profile store interface needed by SeedAdmin.
type ProfileStoreForSeed interface {
	Save(ctx context.Context, p profileDomain.Profile) error
}

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	AccountStore AccountStoreForSeed
	ProfileStore ProfileStoreForSeed
}

// ExecuteSeedAdmin creates the default moderator account when the
// local gateway's database has no accounts at all. Idempotent.
// PRE: email and password are valid credentials
// POST: exactly one admin exists on a fresh database; no-op otherwise
func ExecuteSeedAdmin(ctx context.Context, deps SeedAdminDeps, adminEmail, adminPassword string) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	acct := accountDomain.Account{
		ID:        uuid.New().String(),
		Email:     adminEmail,
		CreatedAt: time.Now(),
	}
	if err := acct.Validate(); err != nil {
		return err
	}
	if err := acct.SetPassword(adminPassword); err != nil {
		return err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	prof := profileDomain.Profile{
		ID:          acct.ID,
		Username:    "admin",
		Email:       adminEmail,
		DisplayName: "Administrator",
		Role:        profileDomain.RoleAdmin,
	}
	if err := prof.Validate(); err != nil {
		return err
	}
	if err := deps.ProfileStore.Save(ctx, prof); err != nil {
		return err
	}

	slog.Info("seed_event", "event", "admin_seeded", "email", adminEmail)
	return nil
}
