package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/insightboard/internal/auth"
	"github.com/nfrund/insightboard/internal/domain"
	"github.com/nfrund/insightboard/internal/guard"
	"github.com/nfrund/insightboard/internal/rendering"
	"github.com/nfrund/insightboard/internal/view"
	"github.com/nfrund/insightboard/internal/view/components"
	"github.com/nfrund/insightboard/internal/view/layouts"
	"github.com/nfrund/insightboard/internal/view/pages"
	g "maragu.dev/gomponents"
)

const UserContextKey = "user"

// AuthConfig configures the Auth middleware.
type AuthConfig struct {
	Provider  auth.Provider
	Renderer  rendering.Renderer
	LoginPath string
}

// Auth protects a route group. While the session is still resolving it serves a
// loading page that re-requests itself, unauthenticated visitors are redirected to
// the login path with an empty body, and authenticated users reach the handler
// with the user stored under UserContextKey.
func Auth(cfg AuthConfig) echo.MiddlewareFunc {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/auth/login"
	}
	if cfg.Renderer == nil {
		cfg.Renderer = rendering.NewUniversalRenderer()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state := cfg.Provider.State(c)
			outcome := guard.Decide(state)
			guard.Record(outcome)

			if outcome == guard.Authenticated {
				c.Set(UserContextKey, state.User)
				return next(c)
			}

			// Only safe requests can be replayed by the polling loading page.
			status := http.StatusOK
			var pending g.Node = pages.Pending(c.Request().URL.RequestURI())
			if guard.IsHTMX(c.Request()) {
				pending = pages.PendingFragment(c.Request().URL.RequestURI())
			}
			if m := c.Request().Method; m != http.MethodGet && m != http.MethodHead {
				status = http.StatusServiceUnavailable
				pending = components.LoadingIndicator(components.SizeSmall, pages.PendingCaption)
			}

			nav := guard.NewHTTPNavigator(c)
			gd := guard.New(cfg.LoginPath, nav, guard.WithLoading(pending))

			body := gd.Render(state, nil)
			gd.Effect(state)
			if nav.Navigated() {
				return nav.Err()
			}

			FromContext(c.Request().Context()).Debug("Session pending, serving loading page", "path", c.Path())
			c.Response().Header().Set("Cache-Control", "no-store")
			if status == http.StatusServiceUnavailable {
				c.Response().Header().Set("Retry-After", "1")
			}
			if !guard.IsHTMX(c.Request()) {
				body = layouts.Base("Loading", view.FlashData{}, body)
			}
			return cfg.Renderer.RenderPage(c, status, body)
		}
	}
}

// CurrentUser returns the user the Auth middleware stored on c, or nil.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(UserContextKey).(*domain.User)
	return u
}

// RequireAdmin rejects users without the admin role. It must run after Auth.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !CurrentUser(c).IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "administrator access required")
		}
		return next(c)
	}
}
