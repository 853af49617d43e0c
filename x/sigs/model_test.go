package sigs

import (
	"testing"

	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserSequence(t *testing.T) {
	u := &UserData{Pubkey: []byte("key")}
	require.NoError(t, u.CheckAndIncrementSequence(0))
	require.NoError(t, u.CheckAndIncrementSequence(1))
	assert.True(t, ErrInvalidSequence.Is(u.CheckAndIncrementSequence(1)))
	assert.Equal(t, int64(2), u.Sequence)

	u.Sequence = maxSequence
	assert.True(t, errors.ErrOverflow.Is(u.CheckAndIncrementSequence(maxSequence)))
}

func TestUserValidate(t *testing.T) {
	assert.NoError(t, (&UserData{}).Validate())
	assert.Error(t, (&UserData{Sequence: -1}).Validate())
	assert.Error(t, (&UserData{Sequence: 3}).Validate())
}

func TestBucketGetOrCreate(t *testing.T) {
	db := store.MemStore()
	b := NewBucket()
	key := quorumtest.NewKey()

	obj, err := b.GetOrCreate(db, key.Public)
	require.NoError(t, err)
	assert.Equal(t, []byte(key.Address()), obj.Key())
	assert.Equal(t, int64(0), AsUser(obj).Sequence)

	AsUser(obj).Sequence = 4
	require.NoError(t, b.Save(db, obj))

	obj, err = b.GetOrCreate(db, key.Public)
	require.NoError(t, err)
	assert.Equal(t, int64(4), AsUser(obj).Sequence)
	assert.Equal(t, []byte(key.Public), AsUser(obj).Pubkey)
}
