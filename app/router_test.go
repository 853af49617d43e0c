package app

import (
	"context"
	"testing"

	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	r := NewRouter()
	good := &quorumtest.Handler{}
	bad := &quorumtest.Handler{DeliverErr: errors.ErrHuman, CheckErr: errors.ErrHuman}
	r.Handle("good", good)
	r.Handle("x/bad", bad)

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Handle("good", good) })
	assert.Panics(t, func() { r.Handle("l:7", good) })

	ctx := context.Background()
	db := store.MemStore()
	txFor := func(path string) *quorumtest.Tx {
		return &quorumtest.Tx{Msg: &quorumtest.Msg{RoutePath: path}}
	}

	_, err := r.Check(ctx, db, txFor("good"))
	require.NoError(t, err)
	_, err = r.Deliver(ctx, db, txFor("good"))
	require.NoError(t, err)
	assert.Equal(t, 2, good.CallCount())

	_, err = r.Deliver(ctx, db, txFor("x/bad"))
	assert.True(t, errors.ErrHuman.Is(err))
	assert.False(t, ErrNoSuchPath.Is(err))

	_, err = r.Deliver(ctx, db, txFor("missing"))
	assert.True(t, ErrNoSuchPath.Is(err))
	_, err = r.Check(ctx, db, txFor("missing"))
	assert.True(t, ErrNoSuchPath.Is(err))

	_, err = r.Check(ctx, db, &quorumtest.Tx{Err: errors.ErrInput})
	assert.True(t, errors.ErrInput.Is(err))
	_, err = r.Check(ctx, db, &quorumtest.Tx{})
	assert.True(t, errors.ErrState.Is(err))
	assert.Equal(t, 2, good.CallCount())
}
