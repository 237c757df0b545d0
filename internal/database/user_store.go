package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nfrund/insightboard/internal/domain"
)

// SurrealUserStore implements domain.UserRepository on top of SurrealDB record access.
// Sign-up and sign-in go through the "account" access method so tokens are issued by the database.
type SurrealUserStore struct {
	source DBSource
	ns     string
	dbName string
}

// NewSurrealUserStore creates a user store bound to the given namespace and database.
func NewSurrealUserStore(source DBSource, ns, dbName string) *SurrealUserStore {
	return &SurrealUserStore{source: source, ns: ns, dbName: dbName}
}

// FindUserByEmail retrieves a user by their email address. It returns nil, nil when none exists.
func (s *SurrealUserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	db, err := s.source.DB()
	if err != nil {
		return nil, err
	}
	user, err := QueryOne[domain.User](ctx, db, "SELECT * FROM user WHERE email = $email", map[string]any{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if user != nil {
		user.Password = ""
	}
	return user, nil
}

func (s *SurrealUserStore) credentials(user *domain.User, password string) map[string]any {
	return map[string]any{
		"ns":       s.ns,
		"db":       s.dbName,
		"ac":       "account",
		"email":    user.Email,
		"password": password,
	}
}

// SignUp registers the user through the account access method and returns its token.
func (s *SurrealUserStore) SignUp(ctx context.Context, user *domain.User, password string) (string, error) {
	db, err := s.source.DB()
	if err != nil {
		return "", err
	}

	token, err := db.SignUp(ctx, s.credentials(user, password))
	if err != nil {
		if strings.Contains(err.Error(), "already exists") || strings.Contains(err.Error(), "signup query failed") {
			return "", domain.ErrUserAlreadyExists
		}
		return "", fmt.Errorf("sign up failed: %w", err)
	}

	// The driver does not return the record, so fetch it for the id.
	created, err := s.FindUserByEmail(ctx, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to fetch user after sign-up: %w", err)
	}
	if created != nil {
		user.ID = created.ID
	}
	return token, nil
}

// SignIn authenticates credentials and returns a session token.
func (s *SurrealUserStore) SignIn(ctx context.Context, user *domain.User, password string) (string, error) {
	db, err := s.source.DB()
	if err != nil {
		return "", err
	}

	token, err := db.SignIn(ctx, s.credentials(user, password))
	if err != nil || token == "" {
		slog.DebugContext(ctx, "Sign in rejected", "email", user.Email, "error", err)
		return "", domain.ErrInvalidCredentials
	}

	slog.InfoContext(ctx, "Successfully signed in user", "email", user.Email)
	return token, nil
}

// Authenticate validates a session token and returns the user it belongs to.
func (s *SurrealUserStore) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	db, err := s.source.DB()
	if err != nil {
		return nil, err
	}

	if err := db.Authenticate(ctx, token); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	users, err := Query[domain.User](ctx, db, "SELECT * FROM $auth", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated user: %w", err)
	}
	if len(users) == 0 || users[0].ID == nil {
		return nil, domain.ErrInvalidCredentials
	}

	user := &users[0]
	user.Password = ""
	return user, nil
}
