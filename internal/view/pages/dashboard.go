package pages

import (
	"net/url"

	"github.com/nfrund/insightboard/internal/domain"
	"github.com/nfrund/insightboard/internal/view/components"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// DashboardData is the view model of the dashboard page.
type DashboardData struct {
	Email     string
	Snapshot  domain.DashboardSnapshot
	ActiveTab components.Tab
	AddLocked bool
}

// ConfirmAction is the URL a prompt's confirm button posts to.
func ConfirmAction(promptID string) string {
	return "/app/dashboard/prompts/" + url.PathEscape(promptID) + "/confirm"
}

// ConfirmButtonID is the DOM id of a prompt's confirm button.
func ConfirmButtonID(promptID string) string {
	return "confirm-" + url.PathEscape(promptID)
}

// Dashboard renders the signed-in dashboard.
func Dashboard(d DashboardData) g.Node {
	snap := d.Snapshot
	return h.Div(
		h.Class("dashboard space-y-6"),
		// The live channel lets the server push navigation when the session ends elsewhere.
		h.Div(h.ID("live"), hx.Ext("ws"), g.Attr("ws-connect", "/app/live")),
		h.Header(
			h.Class("flex items-center justify-between"),
			h.H1(h.Class("text-2xl font-bold"), g.Text("Dashboard")),
			h.Div(
				h.Class("flex items-center gap-3 text-sm"),
				h.Span(g.Text(d.Email)),
				h.Form(
					h.Method("post"),
					h.Action("/auth/logout"),
					h.Button(h.Type("submit"), h.Class("underline"), g.Text("Log out")),
				),
			),
		),
		components.InsightsPanel(components.InsightsProps{
			Metrics:     snap.Metrics,
			Responses:   snap.Responses,
			Competitors: snap.Rankings,
			Citations:   snap.Citations,
		}),
		components.MetricsTabs(d.ActiveTab, snap),
		pendingPrompts(snap.Prompts),
		components.AddActions(d.AddLocked, companyOptions(snap.Companies)),
	)
}

func pendingPrompts(prompts []domain.Prompt) g.Node {
	var pending []domain.Prompt
	for _, p := range prompts {
		if p.Status == "" || p.Status == domain.PromptPending {
			pending = append(pending, p)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	return h.Section(
		h.Class("pending-prompts rounded-lg bg-white p-4 shadow"),
		h.H2(h.Class("mb-2 font-semibold"), g.Text("Prompts awaiting confirmation")),
		h.Ul(g.Map(pending, func(p domain.Prompt) g.Node {
			id := p.ID.String()
			return h.Li(
				h.Class("flex items-center justify-between py-1"),
				h.Span(g.Text(p.Text)),
				components.ConfirmButton(components.ConfirmProps{
					ID:     ConfirmButtonID(id),
					Action: ConfirmAction(id),
				}),
			)
		})),
	)
}

func companyOptions(companies []domain.Company) []components.CompanyOption {
	opts := make([]components.CompanyOption, 0, len(companies))
	for _, c := range companies {
		if c.ID == nil {
			continue
		}
		opts = append(opts, components.CompanyOption{ID: c.ID.String(), Name: c.Name})
	}
	return opts
}
