package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Renderer renders templ and gomponents components.
type Renderer interface {
	// RenderComponent renders a component to bytes. Used for htmx fragments and websocket pushes.
	RenderComponent(ctx context.Context, component interface{}) ([]byte, error)

	// RenderPage writes a full HTML response.
	RenderPage(c echo.Context, status int, component interface{}) error
}

// UniversalRenderer is the concrete implementation that handles rendering for multiple component types.
// It also satisfies echo.Renderer so handlers can call c.Render(status, "", component).
type UniversalRenderer struct{}

// NewUniversalRenderer creates a new UniversalRenderer instance.
func NewUniversalRenderer() *UniversalRenderer {
	return &UniversalRenderer{}
}

// gomponentNode matches gomponents.Node without importing it.
type gomponentNode interface {
	Render(w io.Writer) error
}

func (tr *UniversalRenderer) render(ctx context.Context, component interface{}, w io.Writer) error {
	switch c := component.(type) {
	case templ.Component:
		return c.Render(ctx, w)
	case gomponentNode:
		return c.Render(w)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported component type: %T. Component must be templ.Component or implement Render(io.Writer) error", component)
	}
}

// RenderComponent implements the Renderer interface.
func (tr *UniversalRenderer) RenderComponent(ctx context.Context, component interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := tr.render(ctx, component, &buf); err != nil {
		return nil, fmt.Errorf("failed to render component to bytes: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPage implements the Renderer interface for full HTTP responses.
// The component is rendered to a buffer first so a failure can still produce a 500.
func (tr *UniversalRenderer) RenderPage(c echo.Context, status int, component interface{}) error {
	body, err := tr.RenderComponent(c.Request().Context(), component)
	if err != nil {
		c.Logger().Error("Failed to render component: ", err)
		return err
	}
	return c.HTMLBlob(status, body)
}

// Render implements echo.Renderer. The component travels in data; name is ignored.
func (tr *UniversalRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return tr.render(c.Request().Context(), data, w)
}
