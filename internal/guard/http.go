package guard

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// htmx request/response headers.
const (
	HeaderHXRequest  = "HX-Request"
	HeaderHXRedirect = "HX-Redirect"
)

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(HeaderHXRequest) == "true"
}

// HTTPNavigator navigates by writing a redirect to the current response.
// A full page load gets a 303; an htmx request gets HX-Redirect so the browser
// performs a full navigation instead of swapping the login page into a fragment.
// Both responses carry an empty body.
type HTTPNavigator struct {
	c         echo.Context
	navigated bool
	err       error
}

// NewHTTPNavigator wraps the response of c.
func NewHTTPNavigator(c echo.Context) *HTTPNavigator {
	return &HTTPNavigator{c: c}
}

// Navigate implements Navigator. Only the first call writes a response.
func (n *HTTPNavigator) Navigate(path string) {
	if n.navigated {
		return
	}
	n.navigated = true
	if IsHTMX(n.c.Request()) {
		n.c.Response().Header().Set(HeaderHXRedirect, path)
		n.err = n.c.NoContent(http.StatusOK)
		return
	}
	n.err = n.c.Redirect(http.StatusSeeOther, path)
}

// Navigated reports whether a redirect was written.
func (n *HTTPNavigator) Navigated() bool { return n.navigated }

// Err returns the error from writing the redirect, if any.
func (n *HTTPNavigator) Err() error { return n.err }
