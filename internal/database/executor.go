package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// Query executes a raw SurrealQL query with parameters and returns multiple results.
// It's a generic function that can unmarshal results into any type T.
//
// Example:
//
//	query := "SELECT * FROM company WHERE owner = type::thing($owner)"
//	companies, err := Query[domain.Company](ctx, db, query, map[string]any{"owner": "user:1"})
func Query[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) ([]T, error) {
	queryResults, err := surrealdb.Query[[]T](ctx, db, query, params)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	if queryResults == nil || len(*queryResults) == 0 {
		return nil, nil
	}
	return (*queryResults)[0].Result, nil
}

// QueryOne executes a query and returns a single result.
// If no results are found, it returns nil, nil.
func QueryOne[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) (*T, error) {
	results, err := Query[T](ctx, db, limitOne(query), params)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// limitOne appends LIMIT 1 to SELECT statements that have none.
// CREATE/UPDATE/DELETE statements don't support LIMIT.
func limitOne(query string) string {
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT") && !hasLimitClause(query) {
		return query + " LIMIT 1"
	}
	return query
}

// hasLimitClause checks if the query already has a LIMIT clause
func hasLimitClause(query string) bool {
	query = " " + strings.ToUpper(query) + " "
	return strings.Contains(query, " LIMIT ")
}

// DBSource hands out the live database handle. *Connection implements it.
type DBSource interface {
	DB() (*surrealdb.DB, error)
}

// SurrealExecutor runs queries against the handle provided by a DBSource.
type SurrealExecutor[T any] struct {
	source DBSource
}

// NewSurrealExecutor creates an executor bound to source.
func NewSurrealExecutor[T any](source DBSource) *SurrealExecutor[T] {
	return &SurrealExecutor[T]{source: source}
}

func (e *SurrealExecutor[T]) Query(ctx context.Context, query string, params map[string]any) ([]T, error) {
	db, err := e.source.DB()
	if err != nil {
		return nil, err
	}
	results, err := Query[T](ctx, db, query, params)
	if err != nil {
		return nil, NewDBError(ErrQueryFailed, err.Error()).WithQuery(query)
	}
	return results, nil
}

func (e *SurrealExecutor[T]) QueryOne(ctx context.Context, query string, params map[string]any) (*T, error) {
	db, err := e.source.DB()
	if err != nil {
		return nil, err
	}
	result, err := QueryOne[T](ctx, db, query, params)
	if err != nil {
		return nil, NewDBError(ErrQueryFailed, err.Error()).WithQuery(query)
	}
	return result, nil
}
