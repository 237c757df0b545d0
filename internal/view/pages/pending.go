package pages

import (
	"github.com/nfrund/insightboard/internal/view/components"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// PendingCaption is shown while the session is being resolved.
const PendingCaption = "Checking your session..."

// Pending renders the loading indicator and re-requests path shortly after load,
// so the page resolves on its own once the session is known.
func Pending(path string) g.Node {
	return h.Div(
		h.Class("pending flex min-h-[50vh] items-center justify-center"),
		hx.Get(path),
		hx.Trigger("load delay:1s"),
		hx.Target("body"),
		hx.Swap("outerHTML"),
		components.LoadingIndicator(components.SizeLarge, PendingCaption),
	)
}

// PendingFragment is Pending for htmx partial requests: the resolved fragment
// replaces the indicator instead of the whole body.
func PendingFragment(path string) g.Node {
	return h.Div(
		h.Class("pending flex items-center justify-center p-4"),
		hx.Get(path),
		hx.Trigger("load delay:1s"),
		hx.Target("this"),
		hx.Swap("outerHTML"),
		components.LoadingIndicator(components.SizeMedium, ""),
	)
}
