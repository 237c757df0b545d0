package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/insightboard/internal/analysis"
	"github.com/nfrund/insightboard/internal/auth"
	"github.com/nfrund/insightboard/internal/domain"
	"github.com/nfrund/insightboard/internal/handlers"
	"github.com/nfrund/insightboard/internal/middleware"
	"github.com/nfrund/insightboard/internal/pubsub"
	"github.com/nfrund/insightboard/internal/rendering"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do/v2"
	"golang.org/x/time/rate"
)

// AnalyzeResponsePath is where the analysis function is mounted.
const AnalyzeResponsePath = "/functions/v1/analyze-response"

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() error {
	i := s.Injector
	loginPath := s.Cfg.GetLoginPath()

	users, err := do.Invoke[domain.UserRepository](i)
	if err != nil {
		return fmt.Errorf("resolve user store: %w", err)
	}
	dashboards, err := do.Invoke[domain.DashboardRepository](i)
	if err != nil {
		return fmt.Errorf("resolve dashboard store: %w", err)
	}
	provider, err := do.Invoke[auth.Provider](i)
	if err != nil {
		return fmt.Errorf("resolve auth provider: %w", err)
	}
	fn, err := do.Invoke[*analysis.Handler](i)
	if err != nil {
		return fmt.Errorf("resolve analysis function: %w", err)
	}
	renderer := do.MustInvoke[rendering.Renderer](i)
	publisher := do.MustInvoke[pubsub.Publisher](i)
	events := do.MustInvoke[*auth.Events](i)

	homeHandler := handlers.NewHomeHandler(loginPath)
	authHandler := handlers.NewAuthHandler(users, events, renderer, loginPath)
	dashboardHandler := handlers.NewDashboardHandler(dashboards, renderer)
	confirmHandler := handlers.NewConfirmHandler(dashboards, publisher, renderer)
	adminHandler := handlers.NewAdminHandler(dashboards)
	liveHandler := handlers.NewLiveHandler(s.Watcher, renderer)

	s.E.GET("/", homeHandler.HomeGet)
	s.E.GET("/health", s.health)
	s.E.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.E.GET(loginPath, authHandler.LoginGet)
	s.E.POST(loginPath, authHandler.LoginPost, middleware.LoginRateLimiter())
	// POST only, so a cross-site link cannot sign the user out.
	s.E.POST("/auth/logout", authHandler.Logout)

	app := s.E.Group("/app", middleware.Auth(middleware.AuthConfig{
		Provider:  provider,
		Renderer:  renderer,
		LoginPath: loginPath,
	}))
	app.GET("/dashboard", dashboardHandler.Get)
	app.GET("/dashboard/tabs/:tab", dashboardHandler.Tab)
	app.POST("/dashboard/companies", dashboardHandler.AddCompany)
	app.POST("/dashboard/locations", dashboardHandler.AddLocation)
	app.POST("/dashboard/prompts", dashboardHandler.AddPrompt)
	app.POST("/dashboard/prompts/:id/confirm", confirmHandler.Confirm)
	app.GET("/live", liveHandler.Connect)

	admin := app.Group("/admin", middleware.RequireAdmin)
	admin.POST("/companies", adminHandler.AddCompany)

	cors := echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	})
	limiter := middleware.RateLimiter(rate.Limit(5), 20)
	s.E.POST(AnalyzeResponsePath, fn.Handle, cors, limiter)
	s.E.OPTIONS(AnalyzeResponsePath, func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, cors)

	return nil
}

// health reports 200 once the database is connected and 503 while it is still starting.
func (s *Server) health(c echo.Context) error {
	if !s.DB.Ready() {
		return c.String(http.StatusServiceUnavailable, "starting")
	}
	return c.String(http.StatusOK, "OK")
}
