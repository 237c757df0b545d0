package domain

import (
	"context"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// User represents the core user model in the application domain.
type User struct {
	ID       *surrealmodels.RecordID `json:"id,omitempty"`
	Email    string                  `json:"email"`
	Password string                  `json:"password,omitempty"`
	Name     *string                 `json:"name,omitempty"`
	Role     string                  `json:"role,omitempty"`
}

// IDString returns the record id as "user:xyz", or "" when the user has none.
func (u *User) IDString() string {
	if u == nil || u.ID == nil {
		return ""
	}
	return u.ID.String()
}

// IsAdmin reports whether the user may use the administrative surface.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == "admin"
}

// UserRepository defines the contract for user data storage operations.
// It lives in the domain because it's a requirement OF the domain, not
// of the database implementation.
type UserRepository interface {
	SignUp(ctx context.Context, user *User, password string) (string, error)
	SignIn(ctx context.Context, user *User, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
}
