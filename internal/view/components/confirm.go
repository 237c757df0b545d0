package components

import (
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

const (
	// ConfirmLabel is shown on an idle confirm button.
	ConfirmLabel = "Confirm"
	// ConfirmBusyLabel replaces the label while the confirmation is in flight.
	ConfirmBusyLabel = "Confirming..."
)

// ConfirmProps describes a confirm button.
//
// Action is the URL the button posts to when pressed; the handler behind it is the callback.
// The response replaces the button, so the next render reflects the new state.
type ConfirmProps struct {
	ID           string
	IsConfirming bool
	Disabled     bool
	Action       string
}

// ConfirmButton renders a single button. It is disabled while in flight or when Disabled is set.
func ConfirmButton(p ConfirmProps) g.Node {
	disabled := p.IsConfirming || p.Disabled

	return h.Button(
		h.Type("button"),
		g.If(p.ID != "", h.ID(p.ID)),
		h.Class("confirm-button inline-flex items-center gap-2 rounded-md bg-emerald-600 px-3 py-1.5 text-sm font-medium text-white"),
		g.If(disabled, h.Disabled()),
		g.If(p.IsConfirming, g.Attr("aria-busy", "true")),
		g.If(!disabled && p.Action != "", g.Group{
			hx.Post(p.Action),
			hx.Target("this"),
			hx.Swap("outerHTML"),
			// Blocks double submission while the request is in flight.
			g.Attr("hx-disabled-elt", "this"),
			g.Attr("hx-sync", "this:drop"),
		}),
		g.If(p.IsConfirming, g.Group{SpinnerIcon(), g.Text(ConfirmBusyLabel)}),
		g.If(!p.IsConfirming, g.Group{CheckIcon(), g.Text(ConfirmLabel)}),
	)
}
