package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/insightboard/internal/domain"
	"github.com/nfrund/insightboard/internal/featureflag"
	"github.com/nfrund/insightboard/internal/guard"
	"github.com/nfrund/insightboard/internal/middleware"
	"github.com/nfrund/insightboard/internal/rendering"
	"github.com/nfrund/insightboard/internal/view"
	"github.com/nfrund/insightboard/internal/view/components"
	"github.com/nfrund/insightboard/internal/view/layouts"
	"github.com/nfrund/insightboard/internal/view/pages"
)

const dashboardPath = "/app/dashboard"

// DashboardHandler serves the signed-in dashboard and its add actions.
type DashboardHandler struct {
	repo     domain.DashboardRepository
	renderer rendering.Renderer
	locked   func() bool
}

// DashboardOption configures a DashboardHandler.
type DashboardOption func(*DashboardHandler)

// WithAddLock overrides the build-time add lock.
func WithAddLock(locked func() bool) DashboardOption {
	return func(h *DashboardHandler) { h.locked = locked }
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(repo domain.DashboardRepository, renderer rendering.Renderer, opts ...DashboardOption) *DashboardHandler {
	h := &DashboardHandler{repo: repo, renderer: renderer, locked: featureflag.DashboardAddLocked}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Get renders the dashboard page (GET /app/dashboard).
func (h *DashboardHandler) Get(c echo.Context) error {
	user := middleware.CurrentUser(c)
	snap, err := h.snapshot(c)
	if err != nil {
		return err
	}

	tab, ok := components.ParseTab(c.QueryParam("tab"))
	if !ok {
		tab = components.TabOverview
	}

	page := pages.Dashboard(pages.DashboardData{
		Email:     user.Email,
		Snapshot:  *snap,
		ActiveTab: tab,
		AddLocked: h.locked(),
	})
	return h.renderer.RenderPage(c, http.StatusOK, layouts.Base("Dashboard", view.GetFlashData(c), page))
}

// Tab renders a single tab panel fragment (GET /app/dashboard/tabs/:tab).
func (h *DashboardHandler) Tab(c echo.Context) error {
	tab, ok := components.ParseTab(c.Param("tab"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown tab")
	}
	snap, err := h.snapshot(c)
	if err != nil {
		return err
	}
	return h.renderer.RenderPage(c, http.StatusOK, components.TabPanel(tab, *snap))
}

// AddCompany handles POST /app/dashboard/companies.
func (h *DashboardHandler) AddCompany(c echo.Context) error {
	if err := h.checkLock(c); err != nil {
		return err
	}
	var req AddCompanyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return formError(c, dashboardPath)
	}
	owner := middleware.CurrentUser(c).IDString()
	_, err := h.repo.AddCompany(c.Request().Context(), owner, &domain.Company{Name: req.Name, Website: req.Website})
	if err != nil {
		return storeError(c, "add company", err)
	}
	view.SetFlashSuccess(c, "Company added.")
	return backTo(c, dashboardPath)
}

// AddLocation handles POST /app/dashboard/locations.
func (h *DashboardHandler) AddLocation(c echo.Context) error {
	if err := h.checkLock(c); err != nil {
		return err
	}
	var req AddLocationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return formError(c, dashboardPath)
	}
	owner := middleware.CurrentUser(c).IDString()
	_, err := h.repo.AddLocation(c.Request().Context(), owner, &domain.Location{
		Company: req.Company,
		City:    req.City,
		Country: strings.ToUpper(req.Country),
	})
	if err != nil {
		return storeError(c, "add location", err)
	}
	view.SetFlashSuccess(c, "Location added.")
	return backTo(c, dashboardPath)
}

// AddPrompt handles POST /app/dashboard/prompts.
func (h *DashboardHandler) AddPrompt(c echo.Context) error {
	if err := h.checkLock(c); err != nil {
		return err
	}
	var req AddPromptRequest
	if err := bindAndValidate(c, &req); err != nil {
		return formError(c, dashboardPath)
	}
	owner := middleware.CurrentUser(c).IDString()
	_, err := h.repo.AddPrompt(c.Request().Context(), owner, &domain.Prompt{Company: req.Company, Text: req.Text})
	if err != nil {
		return storeError(c, "add prompt", err)
	}
	view.SetFlashSuccess(c, "Prompt added.")
	return backTo(c, dashboardPath)
}

func (h *DashboardHandler) checkLock(c echo.Context) error {
	if !h.locked() {
		return nil
	}
	middleware.FromContext(c.Request().Context()).Info("Rejected add while locked", "path", c.Path())
	return echo.NewHTTPError(http.StatusForbidden, components.LockedNotice).SetInternal(domain.ErrFeatureLocked)
}

func (h *DashboardHandler) snapshot(c echo.Context) (*domain.DashboardSnapshot, error) {
	user := middleware.CurrentUser(c)
	snap, err := h.repo.Snapshot(c.Request().Context(), user.IDString())
	if err != nil {
		middleware.FromContext(c.Request().Context()).Error("Failed to load dashboard", "error", err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "could not load dashboard").SetInternal(err)
	}
	return snap, nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

// formError reports a rejected form. The message goes to the flash for full page
// loads; htmx callers get a 422 with the message as the body.
func formError(c echo.Context, back string) error {
	msg := "Please check the form and try again."
	if guard.IsHTMX(c.Request()) {
		return c.String(http.StatusUnprocessableEntity, msg)
	}
	view.SetFlashError(c, msg)
	return c.Redirect(http.StatusSeeOther, back)
}

func storeError(c echo.Context, op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "not found").SetInternal(err)
	}
	middleware.FromContext(c.Request().Context()).Error("Store operation failed", "op", op, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "could not save changes").SetInternal(err)
}

// backTo finishes a successful form post: htmx refreshes the page, a plain post is redirected.
func backTo(c echo.Context, path string) error {
	if guard.IsHTMX(c.Request()) {
		c.Response().Header().Set("HX-Refresh", "true")
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, path)
}
