// Package session resolves the profile behind a live session and
// caches it for the duration of the current auth epoch.
package session

import (
	"context"
	"errors"
	"sync"

	"dogreg/internal/domain/profile"
	"dogreg/internal/ports/gateway"
)

// Resolver caches resolved profiles per auth epoch. Every auth-change
// notification bumps the epoch and drops the cache, so a profile is
// fetched at most once per session token per epoch.
type Resolver struct {
	auth gateway.Auth

	mu    sync.Mutex
	epoch uint64
	cache map[string]profile.Profile
}

// NewResolver creates a resolver and subscribes it to the gateway's
// auth-change notifications.
func NewResolver(auth gateway.Auth) *Resolver {
	r := &Resolver{
		auth:  auth,
		cache: make(map[string]profile.Profile),
	}
	auth.SubscribeAuthChanges(func(*gateway.Session) { r.Invalidate() })
	return r
}

// Epoch returns the current auth epoch. Visible for tests.
func (r *Resolver) Epoch() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.epoch
}

// Invalidate bumps the auth epoch and drops every cached profile.
// POST: subsequent lookups re-fetch from the gateway
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.epoch++
	r.cache = make(map[string]profile.Profile)
}

// CurrentProfile returns the profile for the given session token.
// A missing session or missing profile row returns (nil, nil): signed
// out is not an error. Only transport/backend faults propagate.
func (r *Resolver) CurrentProfile(ctx context.Context, token string) (*profile.Profile, error) {
	if token == "" {
		return nil, nil
	}
	r.mu.Lock()
	if p, ok := r.cache[token]; ok {
		r.mu.Unlock()
		return &p, nil
	}
	r.mu.Unlock()
	return r.fetch(ctx, token)
}

// Refresh re-fetches the profile, bypassing the cache. The admin route
// guard uses this so a stale role can never open the admin view.
func (r *Resolver) Refresh(ctx context.Context, token string) (*profile.Profile, error) {
	if token == "" {
		return nil, nil
	}
	return r.fetch(ctx, token)
}

func (r *Resolver) fetch(ctx context.Context, token string) (*profile.Profile, error) {
	// Capture the epoch before the call; a stale result must not be
	// cached into a newer epoch.
	r.mu.Lock()
	epoch := r.epoch
	r.mu.Unlock()

	p, err := r.auth.CurrentProfile(ctx, token)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.epoch == epoch {
		r.cache[token] = p
	}
	r.mu.Unlock()
	return &p, nil
}
