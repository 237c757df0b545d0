package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/insightboard/internal/domain"
	"github.com/nfrund/insightboard/internal/handlers"
	"github.com/nfrund/insightboard/internal/middleware"
	"github.com/nfrund/insightboard/internal/rendering"
	"github.com/nfrund/insightboard/internal/view/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDashboard(repo *fakeDashboardRepo, locked bool) *echo.Echo {
	e := newEcho()
	h := handlers.NewDashboardHandler(repo, rendering.NewUniversalRenderer(),
		handlers.WithAddLock(func() bool { return locked }))
	g := e.Group("/app/dashboard", asUser(testUser()))
	g.GET("", h.Get)
	g.GET("/tabs/:tab", h.Tab)
	g.POST("/companies", h.AddCompany)
	g.POST("/locations", h.AddLocation)
	g.POST("/prompts", h.AddPrompt)
	return e
}

func sampleSnapshot() *domain.DashboardSnapshot {
	return &domain.DashboardSnapshot{
		Metrics:   domain.DashboardMetrics{VisibilityScore: 72.5, TotalResponses: 3},
		Companies: []domain.Company{{ID: rid("company", "acme"), Name: "Acme"}},
		Prompts: []domain.Prompt{
			{ID: rid("prompt", "p1"), Text: "best anvils?", Status: domain.PromptPending},
			{ID: rid("prompt", "p2"), Text: "cheap rockets?", Status: domain.PromptConfirmed},
		},
		Responses: []domain.PromptResponse{{ID: rid("response", "r1"), Model: "gpt", Content: "Acme anvils"}},
		Rankings:  []domain.CompetitorRanking{{Name: "Globex", Mentions: 4, Rank: 1}},
		Citations: []domain.CitationCount{{Domain: "acme.example", Count: 2}},
	}
}

func TestDashboardGet(t *testing.T) {
	t.Run("renders the dashboard for the user", func(t *testing.T) {
		e := setupDashboard(&fakeDashboardRepo{snapshot: sampleSnapshot()}, false)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/dashboard", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "alice@example.com")
		assert.Contains(t, body, "best anvils?")
		assert.NotContains(t, body, "cheap rockets?", "confirmed prompts have no confirm button")
		assert.Contains(t, body, components.ConfirmLabel)
		assert.NotContains(t, body, components.LockedNotice)
	})

	t.Run("locked build disables add actions", func(t *testing.T) {
		e := setupDashboard(&fakeDashboardRepo{snapshot: sampleSnapshot()}, true)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/dashboard", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), components.LockedNotice)
	})

	t.Run("store failure is a 500", func(t *testing.T) {
		e := setupDashboard(&fakeDashboardRepo{err: errors.New("db down")}, false)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/dashboard", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestDashboardTab(t *testing.T) {
	e := setupDashboard(&fakeDashboardRepo{snapshot: sampleSnapshot()}, false)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/dashboard/tabs/competitors", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Globex")
	assert.NotContains(t, rec.Body.String(), "<html")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/dashboard/tabs/bogus", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardAddActions(t *testing.T) {
	t.Run("locked build rejects every add with 403", func(t *testing.T) {
		repo := &fakeDashboardRepo{}
		e := setupDashboard(repo, true)

		for path, form := range map[string]url.Values{
			"/app/dashboard/companies": {"name": {"Acme"}},
			"/app/dashboard/locations": {"company": {"company:acme"}, "city": {"Oslo"}, "country": {"no"}},
			"/app/dashboard/prompts":   {"company": {"company:acme"}, "text": {"best anvils?"}},
		} {
			rec := postForm(e, path, form, true)
			assert.Equal(t, http.StatusForbidden, rec.Code, path)
		}
		assert.Empty(t, repo.companies)
		assert.Empty(t, repo.locations)
		assert.Empty(t, repo.prompts)
	})

	t.Run("unlocked company add persists for the user", func(t *testing.T) {
		repo := &fakeDashboardRepo{}
		e := setupDashboard(repo, false)

		rec := postForm(e, "/app/dashboard/companies", url.Values{"name": {"Acme"}, "website": {"https://acme.example"}}, false)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		require.Len(t, repo.companies, 1)
		assert.Equal(t, "Acme", repo.companies[0].Name)
		assert.Equal(t, []string{"user:alice"}, repo.owners)
		assert.Equal(t, []interface{}{"Company added."}, flashes(t, rec, "success"))
	})

	t.Run("htmx add asks for a refresh", func(t *testing.T) {
		repo := &fakeDashboardRepo{}
		e := setupDashboard(repo, false)

		rec := postForm(e, "/app/dashboard/locations", url.Values{"company": {"company:acme"}, "city": {"Oslo"}, "country": {"no"}}, true)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "true", rec.Header().Get("HX-Refresh"))
		require.Len(t, repo.locations, 1)
		assert.Equal(t, "NO", repo.locations[0].Country)
	})

	t.Run("adding to another user's company is a 404", func(t *testing.T) {
		repo := &fakeDashboardRepo{foreign: map[string]bool{"company:globex": true}}
		e := setupDashboard(repo, false)

		rec := postForm(e, "/app/dashboard/locations", url.Values{"company": {"company:globex"}, "city": {"Oslo"}, "country": {"no"}}, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		rec = postForm(e, "/app/dashboard/prompts", url.Values{"company": {"company:globex"}, "text": {"best anvils?"}}, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		assert.Empty(t, repo.locations)
		assert.Empty(t, repo.prompts)
	})

	t.Run("invalid form is rejected before the store", func(t *testing.T) {
		repo := &fakeDashboardRepo{}
		e := setupDashboard(repo, false)

		rec := postForm(e, "/app/dashboard/prompts", url.Values{"company": {"company:acme"}, "text": {"x"}}, true)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		rec = postForm(e, "/app/dashboard/prompts", url.Values{"text": {"best anvils?"}}, false)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.NotEmpty(t, flashes(t, rec, "error"))
		assert.Empty(t, repo.prompts)
	})
}

func TestAdminAddCompanyIgnoresLock(t *testing.T) {
	repo := &fakeDashboardRepo{}
	e := newEcho()
	admin := &domain.User{ID: rid("user", "root"), Email: "root@example.com", Role: "admin"}
	h := handlers.NewAdminHandler(repo)
	e.POST("/app/admin/companies", h.AddCompany, asUser(admin), middleware.RequireAdmin)

	rec := postForm(e, "/app/admin/companies", url.Values{"name": {"Globex"}, "owner": {"user:bob"}}, false)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, repo.companies, 1)
	assert.Equal(t, []string{"user:bob"}, repo.owners)

	e.POST("/app/admin/other", h.AddCompany, asUser(testUser()), middleware.RequireAdmin)
	rec = postForm(e, "/app/admin/other", url.Values{"name": {"Initech"}}, false)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, repo.companies, 1)
}
