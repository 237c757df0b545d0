package components

import (
	"fmt"
	"strconv"

	"github.com/nfrund/insightboard/internal/domain"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// Tab names one dashboard tab.
type Tab string

const (
	TabOverview    Tab = "overview"
	TabResponses   Tab = "responses"
	TabCompetitors Tab = "competitors"
	TabCitations   Tab = "citations"
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabOverview, TabResponses, TabCompetitors, TabCitations}

var tabTitles = map[Tab]string{
	TabOverview:    "Overview",
	TabResponses:   "Responses",
	TabCompetitors: "Competitors",
	TabCitations:   "Citations",
}

// ParseTab returns the tab for name, or false when it is unknown.
func ParseTab(name string) (Tab, bool) {
	t := Tab(name)
	_, ok := tabTitles[t]
	return t, ok
}

// MetricsTabs renders the tab strip and the panel of the active tab.
// Switching tabs fetches only the panel fragment.
func MetricsTabs(active Tab, snap domain.DashboardSnapshot) g.Node {
	return h.Div(
		h.Class("metrics-tabs"),
		h.Nav(
			h.Class("flex gap-2 border-b"),
			g.Attr("role", "tablist"),
			g.Map(Tabs, func(t Tab) g.Node {
				return tabButton(t, t == active)
			}),
		),
		h.Div(
			h.ID("tab-panel"),
			g.Attr("role", "tabpanel"),
			TabPanel(active, snap),
		),
	)
}

func tabButton(t Tab, selected bool) g.Node {
	class := "tab px-4 py-2 text-sm"
	if selected {
		class += " tab-active border-b-2 border-indigo-600 font-semibold"
	}
	return h.Button(
		h.Type("button"),
		h.Class(class),
		g.Attr("role", "tab"),
		g.Attr("aria-selected", strconv.FormatBool(selected)),
		hx.Get("/app/dashboard/tabs/"+string(t)),
		hx.Target("#tab-panel"),
		hx.Swap("innerHTML"),
		g.Text(tabTitles[t]),
	)
}

// TabPanel renders the body of a single tab.
func TabPanel(t Tab, snap domain.DashboardSnapshot) g.Node {
	switch t {
	case TabResponses:
		return responsesTable(snap.Responses)
	case TabCompetitors:
		return competitorsTable(snap.Rankings)
	case TabCitations:
		return citationsTable(snap.Citations)
	default:
		return overview(snap.Metrics)
	}
}

func overview(m domain.DashboardMetrics) g.Node {
	return h.Div(
		h.Class("grid grid-cols-2 gap-4 md:grid-cols-4"),
		MetricCard("Visibility score", fmt.Sprintf("%.1f", m.VisibilityScore)),
		MetricCard("Mention rate", fmt.Sprintf("%.0f%%", m.MentionRate*100)),
		MetricCard("Average position", fmt.Sprintf("%.1f", m.AveragePosition)),
		MetricCard("Responses", strconv.Itoa(m.TotalResponses)),
	)
}

// MetricCard renders one labelled number.
func MetricCard(label, value string) g.Node {
	return h.Div(
		h.Class("metric-card rounded-lg bg-white p-4 shadow"),
		h.P(h.Class("text-sm text-gray-500"), g.Text(label)),
		h.P(h.Class("metric-value text-2xl font-bold"), g.Text(value)),
	)
}

func emptyRow(cols int, text string) g.Node {
	return h.Tr(h.Td(g.Attr("colspan", strconv.Itoa(cols)), h.Class("empty py-4 text-center text-gray-400"), g.Text(text)))
}

func table(headers []string, rows g.Node) g.Node {
	return h.Table(
		h.Class("w-full text-left text-sm"),
		h.THead(h.Tr(g.Map(headers, func(s string) g.Node { return h.Th(g.Text(s)) }))),
		h.TBody(rows),
	)
}

func responsesTable(rs []domain.PromptResponse) g.Node {
	if len(rs) == 0 {
		return table([]string{"Model", "Mentioned", "Position", "Answer"}, emptyRow(4, "No responses yet."))
	}
	return table([]string{"Model", "Mentioned", "Position", "Answer"}, g.Map(rs, func(r domain.PromptResponse) g.Node {
		mentioned := "No"
		if r.Mentioned {
			mentioned = "Yes"
		}
		return h.Tr(
			h.Td(g.Text(r.Model)),
			h.Td(g.Text(mentioned)),
			h.Td(g.Text(strconv.Itoa(r.Position))),
			h.Td(h.Class("truncate"), g.Text(r.Content)),
		)
	}))
}

func competitorsTable(rs []domain.CompetitorRanking) g.Node {
	if len(rs) == 0 {
		return table([]string{"Rank", "Brand", "Mentions"}, emptyRow(3, "No competitors tracked."))
	}
	return table([]string{"Rank", "Brand", "Mentions"}, g.Map(rs, func(r domain.CompetitorRanking) g.Node {
		return h.Tr(
			h.Td(g.Text(strconv.Itoa(r.Rank))),
			h.Td(g.Text(r.Name)),
			h.Td(g.Text(strconv.Itoa(r.Mentions))),
		)
	}))
}

func citationsTable(cs []domain.CitationCount) g.Node {
	if len(cs) == 0 {
		return table([]string{"Source", "Citations"}, emptyRow(2, "No citations yet."))
	}
	return table([]string{"Source", "Citations"}, g.Map(cs, func(c domain.CitationCount) g.Node {
		return h.Tr(
			h.Td(g.Text(c.Domain)),
			h.Td(g.Text(strconv.Itoa(c.Count))),
		)
	}))
}
