// Package auth resolves the authentication state of a request.
//
// The state is owned by the provider. Consumers such as the route guard only read it.
package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/insightboard/internal/domain"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// State is the authentication state observed for one request or session.
// While Loading is true, User is not authoritative and must not be interpreted.
type State struct {
	User    *domain.User
	Loading bool
}

// Authenticated reports whether the state has resolved to a signed-in user.
func (s State) Authenticated() bool {
	return !s.Loading && s.User != nil
}

// UserKey identifies the user for change detection. It is "" when there is no user.
func (s State) UserKey() string {
	if s.User == nil {
		return ""
	}
	if id := s.User.IDString(); id != "" {
		return id
	}
	return s.User.Email
}

// Provider resolves the authentication state of a request.
type Provider interface {
	State(c echo.Context) State
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(c echo.Context) State

// State implements Provider.
func (f ProviderFunc) State(c echo.Context) State { return f(c) }

// Static returns a Provider that always reports s.
func Static(s State) Provider {
	return ProviderFunc(func(echo.Context) State { return s })
}

// userFromID builds a placeholder user from a "table:id" record string.
func userFromID(id string) *domain.User {
	table, key, ok := strings.Cut(id, ":")
	if !ok || table == "" || key == "" {
		return &domain.User{Email: id}
	}
	rid := surrealmodels.NewRecordID(table, key)
	return &domain.User{ID: &rid}
}
