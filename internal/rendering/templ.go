package rendering

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Templ adapts a gomponents node to templ.Component, for APIs that accept
// templ components from either library.
func Templ(node gomponentNode) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if node == nil {
			return nil
		}
		return node.Render(w)
	})
}
