package auth

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/insightboard/internal/domain"
)

// Readiness reports whether the backing store can resolve sessions yet.
type Readiness interface {
	Ready() bool
}

// ReadinessFunc adapts a function to Readiness.
type ReadinessFunc func() bool

// Ready implements Readiness.
func (f ReadinessFunc) Ready() bool { return f() }

// SessionProvider resolves the state from the auth_token cookie.
//
// It reports Loading while the database connection is still being established or
// when the token cannot be checked for reasons other than being invalid.
// A rejected token is cleared, and with events configured the browser session
// is announced as signed out so its other tabs follow.
type SessionProvider struct {
	users  domain.UserRepository
	ready  Readiness
	events *Events
}

// ProviderOption configures a SessionProvider.
type ProviderOption func(*SessionProvider)

// WithEvents publishes a signed-out StateChange whenever an expired or invalid token is cleared.
func WithEvents(e *Events) ProviderOption {
	return func(p *SessionProvider) { p.events = e }
}

// NewSessionProvider creates a provider. ready may be nil, meaning always ready.
func NewSessionProvider(users domain.UserRepository, ready Readiness, opts ...ProviderOption) *SessionProvider {
	p := &SessionProvider{users: users, ready: ready}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State implements Provider.
func (p *SessionProvider) State(c echo.Context) State {
	if p.ready != nil && !p.ready.Ready() {
		return State{Loading: true}
	}

	token := Token(c)
	if token == "" {
		return State{}
	}

	user, err := p.users.Authenticate(c.Request().Context(), token)
	switch {
	case err == nil && user != nil:
		return State{User: user}
	case err == nil, errors.Is(err, domain.ErrInvalidCredentials):
		ClearAuthCookie(c)
		p.expired(c)
		return State{}
	default:
		slog.WarnContext(c.Request().Context(), "Could not resolve session, reporting loading", "error", err)
		return State{Loading: true}
	}
}

func (p *SessionProvider) expired(c echo.Context) {
	if p.events == nil {
		return
	}
	sid := SessionID(c)
	if sid == "" {
		return
	}
	ctx := c.Request().Context()
	if err := p.events.Publish(ctx, ChangeFor(sid, State{})); err != nil {
		slog.WarnContext(ctx, "Failed to announce expired session", "session_id", sid, "error", err)
	}
}
