package database

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/url"
	"sync"
	"time"

	"github.com/nfrund/insightboard/internal/config"
	"github.com/surrealdb/surrealdb.go"
)

// ExponentialBackoffRetryer retries an operation with exponential backoff and jitter.
type ExponentialBackoffRetryer struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	multiplier float64
	jitter     bool
}

// NewExponentialBackoffRetryer creates a new retryer with sensible defaults.
func NewExponentialBackoffRetryer() *ExponentialBackoffRetryer {
	return NewRetryer(5, 100*time.Millisecond, 30*time.Second)
}

// NewRetryer creates a retryer with explicit limits.
func NewRetryer(maxRetries int, baseDelay, maxDelay time.Duration) *ExponentialBackoffRetryer {
	return &ExponentialBackoffRetryer{
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxDelay:   maxDelay,
		multiplier: 2.0,
		jitter:     true,
	}
}

// Retry executes a function with exponential backoff retry logic
func (r *ExponentialBackoffRetryer) Retry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt == r.maxRetries {
			break
		}

		delay := r.calculateDelay(attempt)
		slog.DebugContext(ctx, "Retry attempt failed, waiting before next attempt",
			"event", "retry_attempt",
			"attempt", attempt+1, "max_attempts", r.maxRetries+1,
			"delay_ms", delay.Milliseconds(), "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", r.maxRetries+1, lastErr)
}

func (r *ExponentialBackoffRetryer) calculateDelay(attempt int) time.Duration {
	delay := float64(r.baseDelay) * math.Pow(r.multiplier, float64(attempt))
	if delay > float64(r.maxDelay) {
		delay = float64(r.maxDelay)
	}

	if r.jitter {
		// up to 25% extra
		delay += rand.Float64() * delay * 0.25
	}

	return time.Duration(delay)
}

// Dialer opens an authenticated database handle.
type Dialer func(ctx context.Context) (*surrealdb.DB, error)

// ConnectionOption configures a Connection.
type ConnectionOption func(*Connection)

// WithDialer replaces the default SurrealDB dialer.
func WithDialer(d Dialer) ConnectionOption {
	return func(c *Connection) { c.dial = d }
}

// WithRetryer replaces the default retry policy.
func WithRetryer(r *ExponentialBackoffRetryer) ConnectionOption {
	return func(c *Connection) { c.retryer = r }
}

// Connection manages a SurrealDB connection that becomes ready asynchronously.
// Until the first successful dial, Ready reports false and DB returns ErrNotConnected.
type Connection struct {
	cfg     config.Provider
	dial    Dialer
	retryer *ExponentialBackoffRetryer

	mu   sync.RWMutex
	conn *surrealdb.DB
}

// NewConnection creates a new managed database connection.
func NewConnection(cfg config.Provider, opts ...ConnectionOption) *Connection {
	c := &Connection{
		cfg:     cfg,
		retryer: NewExponentialBackoffRetryer(),
	}
	c.dial = func(ctx context.Context) (*surrealdb.DB, error) {
		return NewDB(ctx, c.cfg)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect dials the database, retrying with backoff, and blocks until it succeeds or gives up.
func (c *Connection) Connect(ctx context.Context) error {
	if c.Ready() {
		return nil
	}

	slog.DebugContext(ctx, "Attempting to connect to database", "event", "db_connect_attempt", "db_url", redactDBURL(c.cfg.GetDBUrl()))

	return c.retryer.Retry(ctx, func() error {
		db, err := c.dial(ctx)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.conn = db
		c.mu.Unlock()
		slog.InfoContext(ctx, "Database connection established", "event", "db_connect_success")
		return nil
	})
}

// ConnectAsync runs Connect in the background until it succeeds or ctx is cancelled.
// Each exhausted round of retries is logged and followed by a pause of the
// retryer's maximum delay, so readiness is never abandoned for good.
func (c *Connection) ConnectAsync(ctx context.Context) {
	go func() {
		for round := 1; ; round++ {
			err := c.Connect(ctx)
			if err == nil || ctx.Err() != nil {
				return
			}
			slog.ErrorContext(ctx, "Failed to connect to database, will keep retrying", "event", "db_connect_failure",
				"db_url", redactDBURL(c.cfg.GetDBUrl()), "round", round, "error", err)

			select {
			case <-ctx.Done():
				return
			case <-time.After(c.retryer.maxDelay):
			}
		}
	}()
}

// Ready reports whether a database handle is available.
func (c *Connection) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil
}

// DB returns the underlying database connection once it is established.
func (c *Connection) DB() (*surrealdb.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.conn == nil {
		return nil, NewDBError(ErrNotConnected, "database not connected yet")
	}
	return c.conn, nil
}

// Close shuts down the connection.
func (c *Connection) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close(ctx)
	c.conn = nil
	return err
}

// redactDBURL returns the URL with any password replaced, for logging.
func redactDBURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}
	return parsedURL.Redacted()
}
