package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/insightboard/internal/auth"
)

// HomeHandler handles requests for the home page.
type HomeHandler struct {
	loginPath string
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(loginPath string) *HomeHandler {
	return &HomeHandler{loginPath: loginPath}
}

// HomeGet sends visitors with a session token to the dashboard and everyone else to login.
// The dashboard's guard makes the final decision.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	if auth.Token(c) != "" {
		return c.Redirect(http.StatusSeeOther, dashboardPath)
	}
	return c.Redirect(http.StatusSeeOther, h.loginPath)
}
