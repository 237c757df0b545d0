// Package guard decides what a protected view shows for a given authentication state
// and navigates unauthenticated visitors to the login page.
//
// Rendering and navigation are split: Render is pure, Effect performs navigation after
// a render and only when the observed (user, loading, navigator) key has changed.
package guard

import (
	"sync"

	"github.com/nfrund/insightboard/internal/auth"
	"github.com/nfrund/insightboard/internal/view/components"
	g "maragu.dev/gomponents"
)

// Outcome is the result of evaluating an auth.State.
type Outcome int

const (
	// Pending means the provider has not resolved the session yet.
	Pending Outcome = iota
	// Unauthenticated means the session resolved without a user.
	Unauthenticated
	// Authenticated means the session resolved to a user.
	Authenticated
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Decide maps a state to an outcome. While loading, the user is ignored.
func Decide(s auth.State) Outcome {
	switch {
	case s.Loading:
		return Pending
	case s.User == nil:
		return Unauthenticated
	default:
		return Authenticated
	}
}

// Navigator performs a client-side route change.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(path string) { f(path) }

type effectKey struct {
	user    string
	loading bool
	navGen  uint64
}

// Guard gates a subtree on authentication state.
type Guard struct {
	loginPath string
	loading   g.Node

	mu     sync.Mutex
	nav    Navigator
	navGen uint64
	last   effectKey
	seen   bool
}

// Option configures a Guard.
type Option func(*Guard)

// WithLoading replaces the default loading indicator.
func WithLoading(n g.Node) Option {
	return func(gd *Guard) { gd.loading = n }
}

// New creates a guard that navigates to loginPath through nav.
func New(loginPath string, nav Navigator, opts ...Option) *Guard {
	gd := &Guard{
		loginPath: loginPath,
		loading:   components.LoadingIndicator(components.SizeMedium, ""),
		nav:       nav,
		navGen:    1,
	}
	for _, opt := range opts {
		opt(gd)
	}
	return gd
}

// LoginPath is where unauthenticated visitors are sent.
func (gd *Guard) LoginPath() string {
	return gd.loginPath
}

// SetNavigator swaps the navigation capability. The next Effect re-evaluates
// even if the state is unchanged.
func (gd *Guard) SetNavigator(nav Navigator) {
	gd.mu.Lock()
	defer gd.mu.Unlock()
	gd.nav = nav
	gd.navGen++
}

// Render returns what the guarded subtree shows for s. It has no side effects.
func (gd *Guard) Render(s auth.State, children g.Node) g.Node {
	switch Decide(s) {
	case Pending:
		return gd.loading
	case Unauthenticated:
		return g.Group{}
	default:
		return children
	}
}

// Effect runs after a render. It navigates to the login path when s is unauthenticated
// and the (user, loading, navigator) key differs from the previous call.
// It reports whether navigation was triggered.
func (gd *Guard) Effect(s auth.State) bool {
	gd.mu.Lock()
	key := effectKey{user: s.UserKey(), loading: s.Loading, navGen: gd.navGen}
	if gd.seen && key == gd.last {
		gd.mu.Unlock()
		return false
	}
	gd.last, gd.seen = key, true
	nav := gd.nav
	gd.mu.Unlock()

	if Decide(s) != Unauthenticated || nav == nil {
		return false
	}
	navigations.Inc()
	nav.Navigate(gd.loginPath)
	return true
}

// Observe renders s and then runs the post-render effect.
func (gd *Guard) Observe(s auth.State, children g.Node) g.Node {
	out := gd.Render(s, children)
	gd.Effect(s)
	return out
}
