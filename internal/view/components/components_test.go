package components

import (
	"strings"
	"testing"

	"github.com/nfrund/insightboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
)

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, n.Render(&b))
	return b.String()
}

func TestConfirmButton(t *testing.T) {
	t.Run("in flight is disabled and busy", func(t *testing.T) {
		html := render(t, ConfirmButton(ConfirmProps{IsConfirming: true, Action: "/app/dashboard/prompts/prompt:1/confirm"}))

		assert.Contains(t, html, " disabled")
		assert.Contains(t, html, ConfirmBusyLabel)
		assert.Contains(t, html, `aria-busy="true"`)
		assert.NotContains(t, html, "hx-post", "no action is wired while in flight")
		assert.NotContains(t, html, "icon-check")
		assert.Equal(t, 1, strings.Count(html, "<button"))
	})

	t.Run("disabled flag disables an idle button", func(t *testing.T) {
		html := render(t, ConfirmButton(ConfirmProps{Disabled: true, Action: "/x"}))

		assert.Contains(t, html, " disabled")
		assert.Contains(t, html, ">"+ConfirmLabel)
		assert.NotContains(t, html, "hx-post")
	})

	t.Run("enabled button posts once and shows the check", func(t *testing.T) {
		html := render(t, ConfirmButton(ConfirmProps{ID: "confirm-1", Action: "/x"}))

		assert.NotContains(t, html, " disabled")
		assert.Contains(t, html, `hx-post="/x"`)
		assert.Contains(t, html, `hx-sync="this:drop"`)
		assert.Contains(t, html, `id="confirm-1"`)
		assert.Contains(t, html, "icon-check")
		assert.Contains(t, html, ConfirmLabel)
		assert.NotContains(t, html, ConfirmBusyLabel)
	})
}

func TestLoadingIndicator(t *testing.T) {
	t.Run("large with caption", func(t *testing.T) {
		html := render(t, LoadingIndicator(SizeLarge, "Please wait"))

		assert.Contains(t, html, `data-size="lg"`)
		assert.Contains(t, html, "h-16 w-16")
		assert.Contains(t, html, "animate-pulse")
		assert.Contains(t, html, "loading-caption")
		assert.Contains(t, html, "Please wait")
	})

	t.Run("no caption without text", func(t *testing.T) {
		html := render(t, LoadingIndicator(SizeSmall, ""))

		assert.Contains(t, html, `data-size="sm"`)
		assert.NotContains(t, html, "loading-caption")
		assert.NotContains(t, html, "<p")
	})

	t.Run("unknown size falls back to medium", func(t *testing.T) {
		html := render(t, LoadingIndicator(Size("xl"), ""))
		assert.Contains(t, html, `data-size="md"`)
	})
}

func TestInsightsPanelRendersNothing(t *testing.T) {
	inputs := []InsightsProps{
		{},
		{
			Metrics:     domain.DashboardMetrics{VisibilityScore: 99, TotalResponses: 12},
			Responses:   []domain.PromptResponse{{Model: "gpt", Content: "Acme is great"}},
			Competitors: []domain.CompetitorRanking{{Name: "Globex", Rank: 2}},
			Citations:   []domain.CitationCount{{Domain: "example.com", Count: 4}},
		},
	}
	for _, in := range inputs {
		assert.Empty(t, render(t, InsightsPanel(in)))
	}
}

func TestMetricsTabs(t *testing.T) {
	snap := domain.DashboardSnapshot{
		Metrics:   domain.DashboardMetrics{VisibilityScore: 72.5, MentionRate: 0.4, TotalResponses: 10},
		Responses: []domain.PromptResponse{{Model: "claude", Mentioned: true, Position: 2, Content: "Acme"}},
		Rankings:  []domain.CompetitorRanking{{Name: "Globex", Rank: 1, Mentions: 7}},
	}

	t.Run("overview marks the active tab", func(t *testing.T) {
		html := render(t, MetricsTabs(TabOverview, snap))

		assert.Equal(t, len(Tabs), strings.Count(html, `role="tab"`))
		assert.Equal(t, 1, strings.Count(html, `aria-selected="true"`))
		assert.Contains(t, html, `hx-get="/app/dashboard/tabs/citations"`)
		assert.Contains(t, html, "72.5")
		assert.Contains(t, html, "40%")
	})

	t.Run("responses panel lists rows", func(t *testing.T) {
		html := render(t, TabPanel(TabResponses, snap))
		assert.Contains(t, html, "claude")
		assert.Contains(t, html, "Yes")
	})

	t.Run("empty citations show a placeholder", func(t *testing.T) {
		html := render(t, TabPanel(TabCitations, snap))
		assert.Contains(t, html, "No citations yet.")
	})

	t.Run("parse tab", func(t *testing.T) {
		tab, ok := ParseTab("competitors")
		assert.True(t, ok)
		assert.Equal(t, TabCompetitors, tab)

		_, ok = ParseTab("secret")
		assert.False(t, ok)
	})
}

func TestAddActions(t *testing.T) {
	companies := []CompanyOption{{ID: "company:acme", Name: "Acme"}}

	t.Run("locked disables every affordance", func(t *testing.T) {
		html := render(t, AddActions(true, companies))

		assert.Contains(t, html, LockedNotice)
		assert.Equal(t, 3, strings.Count(html, `disabled title="`+LockedNotice+`"`))
		assert.Equal(t, strings.Count(html, "<input")+strings.Count(html, "<select"), strings.Count(html, " disabled>"))
		assert.NotContains(t, html, "hx-post")
	})

	t.Run("unlocked wires each form", func(t *testing.T) {
		html := render(t, AddActions(false, companies))

		assert.NotContains(t, html, LockedNotice)
		assert.NotContains(t, html, " disabled>")
		assert.NotContains(t, html, "disabled title")
		assert.Contains(t, html, `hx-post="/app/dashboard/companies"`)
		assert.Contains(t, html, `hx-post="/app/dashboard/locations"`)
		assert.Contains(t, html, `hx-post="/app/dashboard/prompts"`)
		assert.Contains(t, html, `value="company:acme"`)
	})
}
