// Package router maps a location token to one of the fixed views and
// runs the fetch-and-build cycle for the view being entered.
package router

import (
	"context"
	"errors"
	"sync/atomic"

	"dogreg/internal/application/session"
	"dogreg/internal/application/views"
	"dogreg/internal/ports/gateway"
)

// View names the three states of the client.
type View string

// Views
const (
	ViewHome    View = "home"
	ViewCatalog View = "catalog"
	ViewAdmin   View = "admin"
)

// ErrSuperseded marks a navigation result that finished after a newer
// navigation started. Callers drop the result instead of rendering it.
var ErrSuperseded = errors.New("navigation superseded")

// Page is the fully-built result of entering a view.
type Page struct {
	View       View
	Redirected bool // admin guard bounced the navigation to home
	Cards      []views.Card
	HTML       string // rendered fragment; empty for home
}

// Router holds the navigation state machine.
type Router struct {
	gw       gateway.Gateway
	resolver *session.Resolver
	gen      atomic.Uint64
}

// New creates a router over the gateway and session resolver.
func New(gw gateway.Gateway, resolver *session.Resolver) *Router {
	return &Router{gw: gw, resolver: resolver}
}

// Resolve maps a location token to a view. Unknown or empty tokens
// resolve to home.
func Resolve(token string) View {
	switch token {
	case "/catalog", "catalog":
		return ViewCatalog
	case "/admin", "admin":
		return ViewAdmin
	default:
		return ViewHome
	}
}

// Navigate enters the view for the given location token and returns
// the built page. Re-entry re-runs the fetch idempotently; there is no
// cross-entry caching. Every call supersedes prior in-flight
// navigations: when a newer Navigate has started before this one
// finishes its fetch, ErrSuperseded is returned so the stale page can
// never render over the newer one.
func (r *Router) Navigate(ctx context.Context, sessionToken, locationToken string) (Page, error) {
	gen := r.gen.Add(1)

	switch Resolve(locationToken) {
	case ViewCatalog:
		return r.enterCatalog(ctx, gen)
	case ViewAdmin:
		return r.enterAdmin(ctx, sessionToken, gen)
	default:
		return Page{View: ViewHome}, nil
	}
}

// enterCatalog fetches approved records (newest first) and builds
// non-admin cards.
func (r *Router) enterCatalog(ctx context.Context, gen uint64) (Page, error) {
	records, err := r.gw.ListApprovedRecords(ctx)
	if err != nil {
		return Page{}, err
	}
	if r.superseded(gen) {
		return Page{}, ErrSuperseded
	}
	cards := views.BuildCards(records, false)
	return Page{View: ViewCatalog, Cards: cards, HTML: views.RenderList(cards)}, nil
}

// enterAdmin guards the admin view: it forces a profile refresh and
// redirects to home unless the resolved role is admin. The redirect is
// silent; the authoritative denial happens server-side on any attempted
// mutation. No pending fetch runs for a bounced navigation.
func (r *Router) enterAdmin(ctx context.Context, sessionToken string, gen uint64) (Page, error) {
	prof, err := r.resolver.Refresh(ctx, sessionToken)
	if err != nil {
		return Page{}, err
	}
	if prof == nil || !prof.IsAdmin() {
		return Page{View: ViewHome, Redirected: true}, nil
	}
	records, err := r.gw.ListPendingRecords(ctx, sessionToken)
	if err != nil {
		return Page{}, err
	}
	if r.superseded(gen) {
		return Page{}, ErrSuperseded
	}
	cards := views.BuildCards(records, true)
	return Page{View: ViewAdmin, Cards: cards, HTML: views.RenderList(cards)}, nil
}

func (r *Router) superseded(gen uint64) bool {
	return r.gen.Load() != gen
}
