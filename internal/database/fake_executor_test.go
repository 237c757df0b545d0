package database

import (
	"context"
	"sync"
)

// call records one invocation on fakeExecutor.
type call struct {
	query  string
	params map[string]any
}

// fakeExecutor returns canned results and records every query it receives.
type fakeExecutor[T any] struct {
	mu      sync.Mutex
	calls   []call
	results []T
	one     *T
	err     error
}

func (f *fakeExecutor[T]) record(query string, params map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{query: query, params: params})
}

func (f *fakeExecutor[T]) Query(ctx context.Context, query string, params map[string]any) ([]T, error) {
	f.record(query, params)
	return f.results, f.err
}

func (f *fakeExecutor[T]) QueryOne(ctx context.Context, query string, params map[string]any) (*T, error) {
	f.record(query, params)
	return f.one, f.err
}

func (f *fakeExecutor[T]) lastCall() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return call{}
	}
	return f.calls[len(f.calls)-1]
}
