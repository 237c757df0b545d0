// Package analysis implements the analyze-response function: an authenticated HTTP
// endpoint that queues a stored prompt response for analysis.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/nfrund/insightboard/internal/database"
	"github.com/nfrund/insightboard/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// ClientOptions controls how the function talks to the database.
type ClientOptions struct {
	// PersistSession keeps one authenticated connection across invocations.
	// Otherwise every invocation dials and closes its own.
	PersistSession bool
	// AutoRefreshToken re-authenticates once when a query fails with an auth error.
	AutoRefreshToken bool
	// DetectSessionInURL accepts an access_token query parameter in place of
	// the Authorization header.
	DetectSessionInURL bool

	Namespace string
	Database  string
}

// ResponseLoader loads a prompt response by record id.
type ResponseLoader interface {
	GetResponse(ctx context.Context, id string) (*domain.PromptResponse, error)
}

// Client is a SurrealDB client authenticated with the function's key.
type Client struct {
	opts    ClientOptions
	dial    database.Dialer
	closeDB func(context.Context, *surrealdb.DB) error

	mu sync.Mutex
	db *surrealdb.DB
}

// NewClient creates a client for the database at url, authenticating with key.
// No connection is made until the first call.
func NewClient(url, key string, opts ClientOptions) *Client {
	return newClient(func(ctx context.Context) (*surrealdb.DB, error) {
		db, err := surrealdb.FromEndpointURLString(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("connect analysis db: %w", err)
		}
		if err := db.Authenticate(ctx, key); err != nil {
			db.Close(ctx)
			return nil, fmt.Errorf("authenticate analysis db: %w", err)
		}
		if opts.Namespace != "" && opts.Database != "" {
			if err := db.Use(ctx, opts.Namespace, opts.Database); err != nil {
				db.Close(ctx)
				return nil, fmt.Errorf("use analysis namespace: %w", err)
			}
		}
		return db, nil
	}, opts)
}

func newClient(dial database.Dialer, opts ClientOptions) *Client {
	return &Client{
		opts: opts,
		dial: dial,
		closeDB: func(ctx context.Context, db *surrealdb.DB) error {
			return db.Close(ctx)
		},
	}
}

// GetResponse implements ResponseLoader. Only prompt_response records are readable.
func (c *Client) GetResponse(ctx context.Context, id string) (*domain.PromptResponse, error) {
	if !strings.HasPrefix(id, "prompt_response:") {
		return nil, domain.ErrNotFound
	}
	var resp *domain.PromptResponse
	err := c.withSession(ctx, func(db *surrealdb.DB) error {
		var err error
		resp, err = database.QueryOne[domain.PromptResponse](ctx, db,
			"SELECT * FROM prompt_response WHERE id = type::thing($id)", map[string]any{"id": id})
		return err
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, domain.ErrNotFound
	}
	return resp, nil
}

// Close drops a persisted connection.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drop(ctx)
}

func (c *Client) withSession(ctx context.Context, fn func(*surrealdb.DB) error) error {
	db, err := c.acquire(ctx)
	if err != nil {
		return err
	}
	err = fn(db)
	if err != nil && c.opts.AutoRefreshToken && isAuthError(err) {
		slog.InfoContext(ctx, "Analysis session expired, re-authenticating")
		c.release(ctx, db, true)
		if db, err = c.acquire(ctx); err != nil {
			return err
		}
		err = fn(db)
	}
	c.release(ctx, db, false)
	return err
}

func (c *Client) acquire(ctx context.Context) (*surrealdb.DB, error) {
	if !c.opts.PersistSession {
		return c.dial(ctx)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil {
		return c.db, nil
	}
	db, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	c.db = db
	return db, nil
}

// release closes per-call connections. A persisted connection is only dropped when stale.
func (c *Client) release(ctx context.Context, db *surrealdb.DB, stale bool) {
	if !c.opts.PersistSession {
		if db != nil {
			_ = c.closeDB(ctx, db)
		}
		return
	}
	if stale {
		c.mu.Lock()
		if c.db == db {
			_ = c.drop(ctx)
		}
		c.mu.Unlock()
	}
}

func (c *Client) drop(ctx context.Context) error {
	if c.db == nil {
		return nil
	}
	err := c.closeDB(ctx, c.db)
	c.db = nil
	return err
}

var errAuthMarkers = []string{"token has expired", "authentication", "not allowed", "invalid token"}

func isAuthError(err error) bool {
	if errors.Is(err, database.ErrNotConnected) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range errAuthMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
