package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/nfrund/insightboard/internal/domain"
	"github.com/nfrund/insightboard/internal/middleware"
	"github.com/nfrund/insightboard/internal/view"
)

// AdminHandler is the administrative surface. The dashboard add lock does not apply here.
type AdminHandler struct {
	repo domain.DashboardRepository
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(repo domain.DashboardRepository) *AdminHandler {
	return &AdminHandler{repo: repo}
}

// AddCompany handles POST /app/admin/companies. Admins may create companies for another owner.
func (h *AdminHandler) AddCompany(c echo.Context) error {
	var req AddCompanyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return formError(c, dashboardPath)
	}
	owner := req.Owner
	if owner == "" {
		owner = middleware.CurrentUser(c).IDString()
	}
	_, err := h.repo.AddCompany(c.Request().Context(), owner, &domain.Company{Name: req.Name, Website: req.Website})
	if err != nil {
		return storeError(c, "admin add company", err)
	}
	middleware.FromContext(c.Request().Context()).Info("Admin created company", "owner", owner, "name", req.Name)
	view.SetFlashSuccess(c, "Company added.")
	return backTo(c, dashboardPath)
}
