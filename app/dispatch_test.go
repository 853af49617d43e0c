package app

import (
	"context"
	"testing"

	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/store"
	"github.com/iov-one/quorum/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterDispatcher(t *testing.T) {
	c := NewMsgCodec(&echoMsg{})
	r := NewRouter()
	r.Handle("test/echo", echoHandler{auth: sigs.Authenticate{}})
	d := NewRouterDispatcher(c, r)

	db := store.MemStore()
	ctx := context.Background()
	account := quorumtest.NewAddress()

	call, err := c.EncodeMsg(&echoMsg{Key: "k", Text: "dispatched"})
	require.NoError(t, err)
	require.NoError(t, d.Dispatch(ctx, db, account, call))
	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("dispatched"), v)

	call, err = c.EncodeMsg(&echoMsg{Key: "k", Text: "fail"})
	require.NoError(t, err)
	err = d.Dispatch(ctx, db, account, call)
	assert.True(t, errors.ErrHuman.Is(err))

	// invalid messages are rejected by the handler
	call, err = c.EncodeMsg(&echoMsg{Text: "no key"})
	require.NoError(t, err)
	err = d.Dispatch(ctx, db, account, call)
	assert.True(t, errors.ErrEmpty.Is(err))

	err = d.Dispatch(ctx, db, account, []byte("not a call"))
	assert.Error(t, err)
}
