package server

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/insightboard/internal/analysis"
	"github.com/nfrund/insightboard/internal/auth"
	"github.com/nfrund/insightboard/internal/config"
	"github.com/nfrund/insightboard/internal/database"
	"github.com/nfrund/insightboard/internal/domain"
	"github.com/nfrund/insightboard/internal/guard"
	"github.com/nfrund/insightboard/internal/handlers"
	"github.com/nfrund/insightboard/internal/middleware"
	"github.com/nfrund/insightboard/internal/pubsub"
	"github.com/nfrund/insightboard/internal/rendering"
	"github.com/nfrund/insightboard/web"
	"github.com/samber/do/v2"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E        *echo.Echo
	Cfg      config.Provider
	DB       *database.Connection
	Bus      *pubsub.WatermillBridge
	Watcher  *guard.Watcher
	Injector do.Injector
}

// Option adjusts the injector before the server is assembled. Tests use it to
// replace stores and the auth provider.
type Option func(do.Injector)

// New wires the application and registers its routes. Nothing connects until Start.
func New(cfg config.Provider, opts ...Option) (*Server, error) {
	i := do.New()
	provide(i, cfg)
	for _, opt := range opts {
		opt(i)
	}

	s := &Server{
		E:        echo.New(),
		Cfg:      cfg,
		Injector: i,
	}

	var err error
	if s.DB, err = do.Invoke[*database.Connection](i); err != nil {
		return nil, fmt.Errorf("resolve database connection: %w", err)
	}
	if s.Bus, err = do.Invoke[*pubsub.WatermillBridge](i); err != nil {
		return nil, fmt.Errorf("resolve bus: %w", err)
	}
	if s.Watcher, err = do.Invoke[*guard.Watcher](i); err != nil {
		return nil, fmt.Errorf("resolve auth watcher: %w", err)
	}
	renderer, err := do.Invoke[rendering.Renderer](i)
	if err != nil {
		return nil, fmt.Errorf("resolve renderer: %w", err)
	}

	s.E.HideBanner = true
	s.E.Validator = handlers.NewValidator()
	if r, ok := renderer.(echo.Renderer); ok {
		s.E.Renderer = r
	}
	setupErrorHandling(s.E)

	s.E.Use(echomw.RequestID())
	s.E.Use(middleware.Logger)
	s.E.Use(echomw.Recover())
	s.E.Use(session.Middleware(newSessionStore(cfg)))
	s.E.StaticFS("/static", echo.MustSubFS(web.FS, "static"))

	if err := s.RegisterRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

// provide registers the default service graph.
func provide(i do.Injector, cfg config.Provider) {
	do.ProvideValue(i, cfg)

	do.Provide(i, func(i do.Injector) (*database.Connection, error) {
		return database.NewConnection(cfg), nil
	})
	do.Provide(i, func(i do.Injector) (domain.UserRepository, error) {
		conn := do.MustInvoke[*database.Connection](i)
		return database.NewSurrealUserStore(conn, cfg.GetDBNs(), cfg.GetDBDb()), nil
	})
	do.Provide(i, func(i do.Injector) (domain.DashboardRepository, error) {
		return database.NewSurrealDashboardStore(do.MustInvoke[*database.Connection](i), cfg)
	})

	do.Provide(i, func(i do.Injector) (*pubsub.WatermillBridge, error) {
		return pubsub.NewWatermillBridge(), nil
	})
	do.Provide(i, func(i do.Injector) (pubsub.Publisher, error) {
		return do.MustInvoke[*pubsub.WatermillBridge](i), nil
	})

	do.Provide(i, func(i do.Injector) (auth.Provider, error) {
		return auth.NewSessionProvider(
			do.MustInvoke[domain.UserRepository](i),
			do.MustInvoke[*database.Connection](i),
			auth.WithEvents(do.MustInvoke[*auth.Events](i)),
		), nil
	})
	do.Provide(i, func(i do.Injector) (*auth.Events, error) {
		return auth.NewEvents(do.MustInvoke[pubsub.Publisher](i)), nil
	})
	do.Provide(i, func(i do.Injector) (*guard.Watcher, error) {
		return guard.NewWatcher(do.MustInvoke[*pubsub.WatermillBridge](i), cfg.GetLoginPath()), nil
	})
	do.Provide(i, func(i do.Injector) (rendering.Renderer, error) {
		return rendering.NewUniversalRenderer(), nil
	})

	do.Provide(i, func(i do.Injector) (analysis.ResponseLoader, error) {
		if cfg.GetAnalysisKey() == "" {
			// Without a dedicated key the function reads through the application's store.
			return do.MustInvoke[domain.DashboardRepository](i), nil
		}
		return analysis.NewClient(cfg.GetAnalysisURL(), cfg.GetAnalysisKey(), analysisOptions(cfg)), nil
	})
	do.Provide(i, func(i do.Injector) (*analysis.Handler, error) {
		return analysis.NewHandler(
			do.MustInvoke[analysis.ResponseLoader](i),
			analysis.NewTokenVerifier(cfg.GetAnalysisJWTSecret()),
			do.MustInvoke[pubsub.Publisher](i),
			analysisOptions(cfg),
		), nil
	})
}

func analysisOptions(cfg config.Provider) analysis.ClientOptions {
	return analysis.ClientOptions{
		PersistSession:     cfg.GetAnalysisPersistSession(),
		AutoRefreshToken:   cfg.GetAnalysisAutoRefreshToken(),
		DetectSessionInURL: cfg.GetAnalysisDetectSessionInURL(),
		Namespace:          cfg.GetDBNs(),
		Database:           cfg.GetDBDb(),
	}
}

func newSessionStore(cfg config.Provider) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.GetSessionSecret()))
	secure := false
	if u, err := url.Parse(cfg.GetAppBaseURL()); err == nil {
		secure = u.Scheme == "https"
	}
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
