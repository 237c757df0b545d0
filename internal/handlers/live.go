package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/a-h/templ"
	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/insightboard/internal/auth"
	"github.com/nfrund/insightboard/internal/guard"
	"github.com/nfrund/insightboard/internal/middleware"
	"github.com/nfrund/insightboard/internal/rendering"
	"github.com/nfrund/insightboard/internal/view/pages"
)

const liveWriteTimeout = 5 * time.Second

// LiveRenderer renders the message pushed to a tab to move it to path.
// The message must swap the #live element out of band.
type LiveRenderer func(path string) templ.Component

// DefaultLiveRenderer pushes pages.LiveRedirect.
func DefaultLiveRenderer(path string) templ.Component {
	return rendering.Templ(pages.LiveRedirect(path))
}

// LiveHandler keeps a websocket open per dashboard tab so the server can navigate
// the tab when the session's auth state changes elsewhere.
type LiveHandler struct {
	watcher  *guard.Watcher
	renderer rendering.Renderer
	push     LiveRenderer
}

// LiveOption configures a LiveHandler.
type LiveOption func(*LiveHandler)

// WithLiveRenderer replaces DefaultLiveRenderer.
func WithLiveRenderer(r LiveRenderer) LiveOption {
	return func(h *LiveHandler) { h.push = r }
}

// NewLiveHandler creates a new LiveHandler.
func NewLiveHandler(watcher *guard.Watcher, renderer rendering.Renderer, opts ...LiveOption) *LiveHandler {
	h := &LiveHandler{watcher: watcher, renderer: renderer, push: DefaultLiveRenderer}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Connect handles GET /app/live. It must run behind the Auth middleware.
func (h *LiveHandler) Connect(c echo.Context) error {
	// Resolve the session before the connection is hijacked; it may set a cookie.
	sid := auth.SessionID(c)
	user := middleware.CurrentUser(c)
	log := middleware.FromContext(c.Request().Context()).With("session_id", sid)

	conn, err := websocket.Accept(c.Response(), c.Request(), nil)
	if err != nil {
		log.Warn("Live connection upgrade failed", "error", err)
		return nil
	}
	defer conn.CloseNow()

	ctx := conn.CloseRead(c.Request().Context())
	nav := &socketNavigator{ctx: ctx, conn: conn, renderer: h.renderer, push: h.push, log: log}
	detach := h.watcher.Attach(sid, nav, auth.State{User: user})
	defer detach()

	log.Debug("Live connection attached")
	<-ctx.Done()
	log.Debug("Live connection closed")
	return nil
}

type socketNavigator struct {
	ctx      context.Context
	conn     *websocket.Conn
	renderer rendering.Renderer
	push     LiveRenderer
	log      *slog.Logger
}

func (n *socketNavigator) Navigate(path string) {
	msg, err := n.renderer.RenderComponent(n.ctx, n.push(path))
	if err != nil {
		n.log.Error("Failed to render live redirect", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(n.ctx, liveWriteTimeout)
	defer cancel()
	if err := n.conn.Write(ctx, websocket.MessageText, msg); err != nil {
		n.log.Warn("Failed to push live redirect", "path", path, "error", err)
	}
}
