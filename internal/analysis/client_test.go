package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/nfrund/insightboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go"
)

type dialCounter struct {
	dials  int
	closes int
}

func (d *dialCounter) client(opts ClientOptions) *Client {
	c := newClient(func(ctx context.Context) (*surrealdb.DB, error) {
		d.dials++
		return &surrealdb.DB{}, nil
	}, opts)
	c.closeDB = func(context.Context, *surrealdb.DB) error {
		d.closes++
		return nil
	}
	return c
}

func TestClientSessions(t *testing.T) {
	ctx := context.Background()
	ok := func(*surrealdb.DB) error { return nil }

	t.Run("persisted session reuses one connection", func(t *testing.T) {
		d := &dialCounter{}
		c := d.client(ClientOptions{PersistSession: true})

		require.NoError(t, c.withSession(ctx, ok))
		require.NoError(t, c.withSession(ctx, ok))
		assert.Equal(t, 1, d.dials)
		assert.Equal(t, 0, d.closes)

		require.NoError(t, c.Close(ctx))
		assert.Equal(t, 1, d.closes)
	})

	t.Run("per call session dials and closes every time", func(t *testing.T) {
		d := &dialCounter{}
		c := d.client(ClientOptions{})

		require.NoError(t, c.withSession(ctx, ok))
		require.NoError(t, c.withSession(ctx, ok))
		assert.Equal(t, 2, d.dials)
		assert.Equal(t, 2, d.closes)
	})

	t.Run("auth failure is retried once with a fresh session", func(t *testing.T) {
		d := &dialCounter{}
		c := d.client(ClientOptions{PersistSession: true, AutoRefreshToken: true})

		calls := 0
		err := c.withSession(ctx, func(*surrealdb.DB) error {
			calls++
			if calls == 1 {
				return errors.New("There was a problem with authentication: token has expired")
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 2, d.dials)
		assert.Equal(t, 1, d.closes)
	})

	t.Run("without auto refresh the auth error is returned", func(t *testing.T) {
		d := &dialCounter{}
		c := d.client(ClientOptions{PersistSession: true})

		calls := 0
		err := c.withSession(ctx, func(*surrealdb.DB) error {
			calls++
			return errors.New("token has expired")
		})

		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		d := &dialCounter{}
		c := d.client(ClientOptions{AutoRefreshToken: true})

		calls := 0
		err := c.withSession(ctx, func(*surrealdb.DB) error {
			calls++
			return errors.New("parse error")
		})

		assert.EqualError(t, err, "parse error")
		assert.Equal(t, 1, calls)
	})

	t.Run("dial failure surfaces", func(t *testing.T) {
		c := newClient(func(context.Context) (*surrealdb.DB, error) {
			return nil, errors.New("refused")
		}, ClientOptions{PersistSession: true})

		assert.EqualError(t, c.withSession(ctx, ok), "refused")
	})
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, isAuthError(errors.New("Not allowed to do this")))
	assert.True(t, isAuthError(errors.New("invalid token")))
	assert.False(t, isAuthError(errors.New("record not found")))
}

func TestGetResponseRejectsOtherTables(t *testing.T) {
	dials := 0
	c := newClient(func(context.Context) (*surrealdb.DB, error) {
		dials++
		return nil, errors.New("refused")
	}, ClientOptions{})

	for _, id := range []string{"user:bob", "prompt:p1", ""} {
		_, err := c.GetResponse(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrNotFound, id)
	}
	assert.Zero(t, dials)
}
