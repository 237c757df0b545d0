package components

import (
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// LockedNotice is shown next to add affordances when they are disabled.
const LockedNotice = "Adding is currently disabled."

// AddActions renders the add company, add location and add prompt forms.
// When locked, every field and button is disabled and no request is wired.
func AddActions(locked bool, companies []CompanyOption) g.Node {
	return h.Div(
		h.Class("add-actions grid gap-4 md:grid-cols-3"),
		g.If(locked, h.P(h.Class("locked-notice text-sm text-amber-600 md:col-span-3"), g.Text(LockedNotice))),
		addForm(locked, "/app/dashboard/companies", "Add company",
			textInput("name", "Company name", locked),
			textInput("website", "https://example.com", locked),
		),
		addForm(locked, "/app/dashboard/locations", "Add location",
			companySelect(companies, locked),
			textInput("city", "City", locked),
			textInput("country", "Country code", locked),
		),
		addForm(locked, "/app/dashboard/prompts", "Add prompt",
			companySelect(companies, locked),
			textInput("text", "What do people ask?", locked),
		),
	)
}

// CompanyOption is one entry of the company picker.
type CompanyOption struct {
	ID   string
	Name string
}

func addForm(locked bool, action, label string, fields ...g.Node) g.Node {
	return h.Form(
		h.Class("add-form flex flex-col gap-2 rounded-lg bg-white p-4 shadow"),
		g.If(!locked, g.Group{hx.Post(action), hx.Swap("none")}),
		g.Group(fields),
		h.Button(
			h.Type("submit"),
			h.Class("add-button inline-flex items-center gap-1 rounded-md bg-indigo-600 px-3 py-1.5 text-sm text-white"),
			g.If(locked, h.Disabled()),
			g.If(locked, g.Attr("title", LockedNotice)),
			PlusIcon(),
			g.Text(label),
		),
	)
}

func textInput(name, placeholder string, locked bool) g.Node {
	return h.Input(
		h.Type("text"),
		h.Name(name),
		h.Placeholder(placeholder),
		h.Class("rounded border px-2 py-1 text-sm"),
		g.If(locked, h.Disabled()),
	)
}

func companySelect(companies []CompanyOption, locked bool) g.Node {
	return h.Select(
		h.Name("company"),
		h.Class("rounded border px-2 py-1 text-sm"),
		g.If(locked, h.Disabled()),
		g.Map(companies, func(c CompanyOption) g.Node {
			return h.Option(h.Value(c.ID), g.Text(c.Name))
		}),
	)
}
