package guard

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/insightboard/internal/auth"
	"github.com/nfrund/insightboard/internal/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

type recordingNavigator struct {
	paths []string
}

func (r *recordingNavigator) Navigate(path string) { r.paths = append(r.paths, path) }

func user(id string) *domain.User {
	rid := surrealmodels.NewRecordID("user", id)
	return &domain.User{ID: &rid, Email: id + "@example.com"}
}

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, n.Render(&buf))
	return buf.String()
}

func TestDecide(t *testing.T) {
	assert.Equal(t, Pending, Decide(auth.State{Loading: true}))
	assert.Equal(t, Pending, Decide(auth.State{Loading: true, User: user("alice")}))
	assert.Equal(t, Unauthenticated, Decide(auth.State{}))
	assert.Equal(t, Authenticated, Decide(auth.State{User: user("alice")}))
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
}

func TestGuardRender(t *testing.T) {
	nav := &recordingNavigator{}
	gd := New("/auth/login", nav)
	children := h.P(g.Text("secret metrics"))

	t.Run("pending shows the loading indicator", func(t *testing.T) {
		out := render(t, gd.Render(auth.State{Loading: true, User: user("alice")}, children))
		assert.Contains(t, out, `role="status"`)
		assert.NotContains(t, out, "secret metrics")
	})

	t.Run("unauthenticated renders nothing", func(t *testing.T) {
		assert.Empty(t, render(t, gd.Render(auth.State{}, children)))
	})

	t.Run("authenticated renders children unchanged", func(t *testing.T) {
		assert.Equal(t, "<p>secret metrics</p>", render(t, gd.Render(auth.State{User: user("alice")}, children)))
	})

	assert.Empty(t, nav.paths, "render must not navigate")
}

func TestGuardRenderWithLoading(t *testing.T) {
	gd := New("/auth/login", nil, WithLoading(h.Span(g.Text("wait"))))
	assert.Equal(t, "<span>wait</span>", render(t, gd.Render(auth.State{Loading: true}, nil)))
}

func TestGuardEffect(t *testing.T) {
	t.Run("navigates once per transition to unauthenticated", func(t *testing.T) {
		nav := &recordingNavigator{}
		gd := New("/auth/login", nav)

		assert.False(t, gd.Effect(auth.State{Loading: true}))
		assert.True(t, gd.Effect(auth.State{}))
		assert.False(t, gd.Effect(auth.State{}), "same key must not re-fire")
		assert.False(t, gd.Effect(auth.State{}))
		assert.Equal(t, []string{"/auth/login"}, nav.paths)
	})

	t.Run("does not navigate while loading or authenticated", func(t *testing.T) {
		nav := &recordingNavigator{}
		gd := New("/auth/login", nav)

		gd.Effect(auth.State{Loading: true})
		gd.Effect(auth.State{User: user("alice")})
		gd.Effect(auth.State{User: user("bob")})
		assert.Empty(t, nav.paths)
	})

	t.Run("logout after login navigates again", func(t *testing.T) {
		nav := &recordingNavigator{}
		gd := New("/auth/login", nav)

		gd.Effect(auth.State{})
		gd.Effect(auth.State{User: user("alice")})
		gd.Effect(auth.State{})
		assert.Len(t, nav.paths, 2)
	})

	t.Run("navigator change re-evaluates", func(t *testing.T) {
		first := &recordingNavigator{}
		second := &recordingNavigator{}
		gd := New("/login", first)

		gd.Effect(auth.State{})
		gd.SetNavigator(second)
		gd.Effect(auth.State{})
		gd.Effect(auth.State{})

		assert.Equal(t, []string{"/login"}, first.paths)
		assert.Equal(t, []string{"/login"}, second.paths)
	})

	t.Run("function navigators are supported", func(t *testing.T) {
		var got string
		gd := New("/auth/login", NavigatorFunc(func(p string) { got = p }))
		gd.SetNavigator(NavigatorFunc(func(p string) { got = "replaced:" + p }))
		gd.Effect(auth.State{})
		assert.Equal(t, "replaced:/auth/login", got)
	})

	t.Run("counts navigations", func(t *testing.T) {
		before := testutil.ToFloat64(navigations)
		gd := New("/auth/login", &recordingNavigator{})
		gd.Effect(auth.State{})
		assert.Equal(t, before+1, testutil.ToFloat64(navigations))
	})
}

func TestGuardObserve(t *testing.T) {
	nav := &recordingNavigator{}
	gd := New("/auth/login", nav)

	out := render(t, gd.Observe(auth.State{}, h.P(g.Text("hidden"))))
	assert.Empty(t, out)
	assert.Equal(t, []string{"/auth/login"}, nav.paths)
}

func TestHTTPNavigator(t *testing.T) {
	t.Run("full page load gets a 303", func(t *testing.T) {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/app/dashboard", nil), rec)

		nav := NewHTTPNavigator(c)
		nav.Navigate("/auth/login")
		nav.Navigate("/elsewhere")

		require.NoError(t, nav.Err())
		assert.True(t, nav.Navigated())
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/auth/login", rec.Header().Get(echo.HeaderLocation))
		assert.Empty(t, rec.Body.String())
	})

	t.Run("htmx request gets HX-Redirect", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/app/dashboard/tabs/overview", nil)
		req.Header.Set(HeaderHXRequest, "true")
		rec := httptest.NewRecorder()

		nav := NewHTTPNavigator(e.NewContext(req, rec))
		nav.Navigate("/auth/login")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/auth/login", rec.Header().Get(HeaderHXRedirect))
		assert.Empty(t, rec.Header().Get(echo.HeaderLocation))
		assert.Empty(t, rec.Body.String())
	})
}

func TestRecord(t *testing.T) {
	before := testutil.ToFloat64(decisions.WithLabelValues("pending"))
	Record(Pending)
	assert.Equal(t, before+1, testutil.ToFloat64(decisions.WithLabelValues("pending")))
}
