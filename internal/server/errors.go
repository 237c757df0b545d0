package server

import (
	"errors"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/insightboard/internal/middleware"
)

// setupErrorHandling logs unhandled errors with a stack trace and delegates the
// response to Echo's default handler.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		log := middleware.FromContext(c.Request().Context())

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Internal != nil {
				log.Warn("Request error", "status", he.Code, "error", he.Internal, "path", c.Request().URL.Path)
			}
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		log.Error("Internal Server Error (Unhandled)",
			"error", err.Error(),
			"path", c.Request().URL.Path,
			"stack_trace", string(debug.Stack()),
		)
		e.DefaultHTTPErrorHandler(err, c)
	}
}
