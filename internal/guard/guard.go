// Package guard gates views behind a role allow-list backed by the live
// session. It distinguishes "not logged in" (go to login) from "logged in
// with the wrong role" (go to that role's own landing page).
package guard

import (
	"context"
	"sync"
	"time"

	"github.com/codeup/statio-portal/internal/session"
	"github.com/codeup/statio-portal/pkg/enums"
	"github.com/codeup/statio-portal/pkg/logger"
)

// DefaultRevalidateInterval is how often a running guard re-checks the token.
const DefaultRevalidateInterval = 30 * time.Second

// Navigator receives redirect decisions. The CLI and tests provide their own.
type Navigator interface {
	ToLogin()
	ToHome(role enums.Role)
}

// Decision is the outcome of a single authorization check.
type Decision int

const (
	// Allow renders the guarded view.
	Allow Decision = iota
	// RedirectLogin sends an unauthenticated principal to login.
	RedirectLogin
	// RedirectHome sends an authenticated principal with the wrong role to
	// its own dashboard.
	RedirectHome
)

// Params configures a Guard.
type Params struct {
	Session   *session.Store
	Allowed   []enums.Role
	Navigator Navigator
	Logger    *logger.Logger
	// Interval defaults to DefaultRevalidateInterval.
	Interval time.Duration
}

// Guard owns one guarded subtree: an allow-list plus a periodic revalidation
// timer. The timer is started by Start and must be released with Stop (or by
// cancelling the context) so remounts never leak tickers.
type Guard struct {
	session  *session.Store
	allowed  []enums.Role
	nav      Navigator
	logg     *logger.Logger
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func New(p Params) *Guard {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultRevalidateInterval
	}
	return &Guard{
		session:  p.Session,
		allowed:  p.Allowed,
		nav:      p.Navigator,
		logg:     p.Logger,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start validates the session once and, when it holds, begins periodic
// revalidation. It returns false (after navigating to login) when the session
// is already dead, in which case no timer is started.
func (g *Guard) Start(ctx context.Context) bool {
	if !g.session.ValidateAuth(ctx) {
		g.nav.ToLogin()
		return false
	}
	go g.loop(ctx)
	return true
}

// Stop cancels the revalidation timer. Idempotent.
func (g *Guard) Stop() {
	g.stopOnce.Do(func() { close(g.stop) })
}

// Done is closed once the revalidation loop has exited.
func (g *Guard) Done() <-chan struct{} {
	return g.done
}

func (g *Guard) loop(ctx context.Context) {
	defer close(g.done)

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-g.stop:
			return
		case <-ticker.C:
			if !g.session.ValidateAuth(ctx) {
				// ValidateAuth already logged out; the explicit call keeps
				// the teardown unconditional.
				g.session.Logout(ctx)
				g.logg.Info(ctx, "session expired during periodic check")
				g.nav.ToLogin()
				return
			}
		}
	}
}

// Check makes the render decision for the guarded view and performs the
// matching navigation. Callers render the view only on Allow.
func (g *Guard) Check(ctx context.Context) Decision {
	snap := g.session.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil {
		g.nav.ToLogin()
		return RedirectLogin
	}

	// Authorization uses the token-derived role, never the profile.
	role := g.session.UserRole()
	if role == "" {
		g.session.Logout(ctx)
		g.nav.ToLogin()
		return RedirectLogin
	}

	if !g.roleAllowed(role) {
		g.nav.ToHome(role)
		return RedirectHome
	}
	return Allow
}

func (g *Guard) roleAllowed(role enums.Role) bool {
	for _, candidate := range g.allowed {
		if candidate == role {
			return true
		}
	}
	return false
}
