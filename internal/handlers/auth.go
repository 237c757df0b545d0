package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/insightboard/internal/auth"
	"github.com/nfrund/insightboard/internal/domain"
	"github.com/nfrund/insightboard/internal/middleware"
	"github.com/nfrund/insightboard/internal/rendering"
	"github.com/nfrund/insightboard/internal/view"
	"github.com/nfrund/insightboard/internal/view/layouts"
	"github.com/nfrund/insightboard/internal/view/pages"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	userStore domain.UserRepository
	events    *auth.Events
	renderer  rendering.Renderer
	loginPath string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userStore domain.UserRepository, events *auth.Events, renderer rendering.Renderer, loginPath string) *AuthHandler {
	return &AuthHandler{
		userStore: userStore,
		events:    events,
		renderer:  renderer,
		loginPath: loginPath,
	}
}

// LoginGet renders the login page (GET /auth/login) with flashes and the remembered email.
func (h *AuthHandler) LoginGet(c echo.Context) error {
	email := view.FormEmail(c)
	flashes := view.GetFlashData(c)
	return h.renderer.RenderPage(c, http.StatusOK, layouts.Base("Login", flashes, pages.Login(email)))
}

// LoginPost signs the user in and announces the new state to the session's live connections.
func (h *AuthHandler) LoginPost(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		view.SetFormEmail(c, req.Email)
		view.SetFlashError(c, "Please enter your email and password.")
		return c.Redirect(http.StatusSeeOther, h.loginPath)
	}

	ctx := c.Request().Context()
	log := middleware.FromContext(ctx)

	token, err := h.userStore.SignIn(ctx, &domain.User{Email: req.Email}, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			view.SetFlashError(c, "Invalid email or password.")
		} else {
			log.Error("Sign in failed", "error", err)
			view.SetFlashError(c, "Could not sign you in. Please try again.")
		}
		view.SetFormEmail(c, req.Email)
		return c.Redirect(http.StatusSeeOther, h.loginPath)
	}

	auth.SetAuthCookie(c, token)

	user, err := h.userStore.Authenticate(ctx, token)
	if err != nil || user == nil {
		log.Warn("Token issued at sign in could not be resolved", "error", err)
		user = &domain.User{Email: req.Email}
	}
	h.publish(c, auth.State{User: user})

	view.SetFlashSuccess(c, "Welcome back!")
	return c.Redirect(http.StatusSeeOther, dashboardPath)
}

// Logout clears the session token and tells every live connection of the session
// that it is no longer authenticated.
func (h *AuthHandler) Logout(c echo.Context) error {
	auth.ClearAuthCookie(c)
	h.publish(c, auth.State{})
	view.SetFlashSuccess(c, "You have been logged out.")
	return c.Redirect(http.StatusSeeOther, h.loginPath)
}

func (h *AuthHandler) publish(c echo.Context, state auth.State) {
	sid := auth.SessionID(c)
	if sid == "" || h.events == nil {
		return
	}
	if err := h.events.Publish(c.Request().Context(), auth.ChangeFor(sid, state)); err != nil {
		middleware.FromContext(c.Request().Context()).Warn("Failed to publish auth state", "error", err)
	}
}
