package pages

import (
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// LiveRedirect is pushed over the live channel to move the browser to path.
// It replaces the #live element out of band and immediately loads path into the body.
func LiveRedirect(path string) g.Node {
	return h.Div(
		h.ID("live"),
		g.Attr("hx-swap-oob", "true"),
		hx.Get(path),
		hx.Trigger("load"),
		hx.Target("body"),
		hx.Swap("outerHTML"),
		g.Attr("hx-push-url", "true"),
	)
}
