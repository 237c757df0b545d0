package auth

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	// TokenCookieName holds the database-issued session token.
	TokenCookieName = "auth_token"

	sessionName  = "auth-session"
	sessionIDKey = "sid"
	tokenTTL     = 24 * time.Hour
)

// Token returns the session token carried by the request, or "".
func Token(c echo.Context) string {
	cookie, err := c.Cookie(TokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetAuthCookie stores the session token on the response.
func SetAuthCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(tokenTTL),
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookie expires the session token cookie.
func ClearAuthCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionID returns a stable identifier for the browser session, creating one on first use.
// It returns "" when no session store is configured on the request.
func SessionID(c echo.Context) string {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return ""
	}
	if id, ok := sess.Values[sessionIDKey].(string); ok && id != "" {
		return id
	}

	id := uuid.NewString()
	sess.Values[sessionIDKey] = id
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		c.Logger().Warn("failed to persist session id: ", err)
	}
	return id
}
