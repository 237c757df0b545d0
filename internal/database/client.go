package database

import (
	"context"
	"time"

	"github.com/nfrund/insightboard/internal/config"
)

// QueryExecutor handles the execution of database queries.
// This interface is used internally by the Client implementation.
type QueryExecutor[T any] interface {
	// Query executes a query and returns multiple results.
	Query(ctx context.Context, query string, params map[string]any) ([]T, error)

	// QueryOne executes a query and returns a single result.
	// Returns (nil, nil) if no results are found.
	QueryOne(ctx context.Context, query string, params map[string]any) (*T, error)
}

// Client is a type-safe database client for records of type T.
type Client[T any] struct {
	executor       QueryExecutor[T]
	queryTimeout   time.Duration
	executeTimeout time.Duration
}

// ClientOption defines a function that configures a Client.
type ClientOption[T any] func(*Client[T])

// WithExecutor configures the client to use a custom QueryExecutor.
// This is useful for testing or for adding middleware to the executor.
func WithExecutor[T any](executor QueryExecutor[T]) ClientOption[T] {
	return func(c *Client[T]) {
		c.executor = executor
	}
}

// NewClient creates a new type-safe database client.
// source may be nil when WithExecutor is supplied.
func NewClient[T any](source DBSource, cfg config.Provider, opts ...ClientOption[T]) (*Client[T], error) {
	if cfg == nil {
		return nil, NewDBError(ErrInvalidInput, "config provider cannot be nil")
	}
	if cfg.GetDBQueryTimeout() <= 0 {
		return nil, NewDBError(ErrInvalidInput, "DB_QUERY_TIMEOUT must be a positive duration")
	}
	if cfg.GetDBExecuteTimeout() <= 0 {
		return nil, NewDBError(ErrInvalidInput, "DB_EXECUTE_TIMEOUT must be a positive duration")
	}

	c := &Client[T]{
		queryTimeout:   cfg.GetDBQueryTimeout(),
		executeTimeout: cfg.GetDBExecuteTimeout(),
	}
	if source != nil {
		c.executor = NewSurrealExecutor[T](source)
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.executor == nil {
		return nil, NewDBError(ErrInvalidInput, "db source cannot be nil")
	}
	return c, nil
}

// Query executes a raw query and returns multiple results.
func (c *Client[T]) Query(ctx context.Context, query string, params map[string]any) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()
	return c.executor.Query(ctx, query, params)
}

// QueryOne executes a raw query and returns a single result, or nil when there is none.
func (c *Client[T]) QueryOne(ctx context.Context, query string, params map[string]any) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()
	return c.executor.QueryOne(ctx, query, params)
}

// Create inserts a new record into table.
func (c *Client[T]) Create(ctx context.Context, table string, data any) (*T, error) {
	if table == "" {
		return nil, NewDBError(ErrInvalidInput, "table cannot be empty")
	}
	if data == nil {
		return nil, NewDBError(ErrInvalidInput, "data cannot be nil")
	}

	ctx, cancel := context.WithTimeout(ctx, c.executeTimeout)
	defer cancel()

	query := "CREATE type::table($table) CONTENT $data"
	result, err := c.executor.QueryOne(ctx, query, map[string]any{"table": table, "data": data})
	if err != nil {
		return nil, WrapError(err, "create operation failed")
	}
	return result, nil
}

// Select retrieves a record by its full ID (e.g., "prompt:123").
func (c *Client[T]) Select(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, NewDBError(ErrInvalidInput, "id cannot be empty")
	}

	result, err := c.QueryOne(ctx, "SELECT * FROM type::thing($id)", map[string]any{"id": id})
	if err != nil {
		return nil, WrapError(err, "select operation failed")
	}
	if result == nil {
		return nil, NewDBError(ErrNotFound, "record not found")
	}
	return result, nil
}

// Update merges data into the record with the given ID.
func (c *Client[T]) Update(ctx context.Context, id string, data any) (*T, error) {
	if id == "" {
		return nil, NewDBError(ErrInvalidInput, "id cannot be empty")
	}
	if data == nil {
		return nil, NewDBError(ErrInvalidInput, "data cannot be nil")
	}

	ctx, cancel := context.WithTimeout(ctx, c.executeTimeout)
	defer cancel()

	query := "UPDATE type::thing($id) MERGE $data"
	result, err := c.executor.QueryOne(ctx, query, map[string]any{"id": id, "data": data})
	if err != nil {
		return nil, WrapError(err, "update operation failed")
	}
	if result == nil {
		return nil, NewDBError(ErrNotFound, "record not found")
	}
	return result, nil
}
