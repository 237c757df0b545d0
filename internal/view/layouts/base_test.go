package layouts

import (
	"strings"
	"testing"

	"github.com/nfrund/insightboard/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
)

func TestBase(t *testing.T) {
	var b strings.Builder
	err := Base("Dashboard", view.FlashData{Error: []string{"Nope"}}, g.Text("hello")).Render(&b)
	require.NoError(t, err)

	html := b.String()
	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, "<title>Dashboard - Insightboard</title>")
	assert.Contains(t, html, "flash-error")
	assert.Contains(t, html, "hello")
	assert.Contains(t, html, "htmx.org")
}

func TestCalculateTitle(t *testing.T) {
	assert.Equal(t, "Insightboard", CalculateTitle(""))
	assert.Equal(t, "Login - Insightboard", CalculateTitle("Login"))
}
