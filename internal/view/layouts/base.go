package layouts

import (
	"github.com/nfrund/insightboard/internal/view"
	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"
)

// CalculateTitle returns the document title for a page.
func CalculateTitle(title string) string {
	if title != "" {
		return title + " - Insightboard"
	}
	return "Insightboard"
}

// Base wraps page content in the HTML document shell with flash messages.
func Base(title string, flashes view.FlashData, content g.Node) g.Node {
	return c.HTML5(c.HTML5Props{
		Title:    CalculateTitle(title),
		Language: "en",
		Head: []g.Node{
			h.Script(h.Src("https://unpkg.com/htmx.org@2.0.4")),
			h.Script(h.Src("https://unpkg.com/htmx-ext-ws@2.0.2/ws.js")),
			h.Link(h.Rel("stylesheet"), h.Href("/static/app.css")),
		},
		Body: []g.Node{
			h.Class("min-h-screen bg-gray-50"),
			Flashes(flashes),
			h.Main(h.Class("container mx-auto p-6"), content),
		},
	})
}

// Flashes renders success and error messages. It renders nothing when there are none.
func Flashes(f view.FlashData) g.Node {
	if f.Empty() {
		return nil
	}
	return h.Div(
		h.ID("flashes"),
		g.Map(f.Success, func(m string) g.Node {
			return h.Div(h.Class("flash flash-success bg-green-100 p-3 text-green-800"), g.Text(m))
		}),
		g.Map(f.Error, func(m string) g.Node {
			return h.Div(h.Class("flash flash-error bg-red-100 p-3 text-red-800"), g.Text(m))
		}),
	)
}
