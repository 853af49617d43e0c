package orm

import (
	"encoding/binary"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store"
	"github.com/stretchr/testify/require"
)

func keysOf(objs []Object) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = string(o.Key())
	}
	return out
}

func TestMultiKeyIndex(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", newCounter("", 0)).
		WithMultiKeyIndex("tag", tagIndexer, false)

	require.NoError(t, b.Save(db, newCounter("a", 1, "red", "blue")))
	require.NoError(t, b.Save(db, newCounter("b", 1, "blue")))

	objs, err := b.GetIndexed(db, "tag", []byte("blue"))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, keysOf(objs))

	// Updating drops stale references.
	require.NoError(t, b.Save(db, newCounter("a", 1, "green")))
	objs, err = b.GetIndexed(db, "tag", []byte("blue"))
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, keysOf(objs))
	objs, err = b.GetIndexed(db, "tag", []byte("green"))
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, keysOf(objs))

	require.NoError(t, b.Delete(db, []byte("b")))
	objs, err = b.GetIndexed(db, "tag", []byte("blue"))
	require.NoError(t, err)
	require.Empty(t, objs)

	_, err = b.GetIndexed(db, "color", []byte("blue"))
	require.True(t, errors.ErrInput.Is(err))
}

func TestIndexValuesDoNotOverlap(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", newCounter("", 0)).
		WithMultiKeyIndex("tag", tagIndexer, false)

	// "ab" must not be returned for "a" even though it shares the prefix.
	require.NoError(t, b.Save(db, newCounter("x", 1, "a")))
	require.NoError(t, b.Save(db, newCounter("y", 1, "ab")))

	objs, err := b.GetIndexed(db, "tag", []byte("a"))
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, keysOf(objs))
}

func TestUniqueIndex(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", newCounter("", 0)).
		WithIndex("count", countIndexer, true)

	require.NoError(t, b.Save(db, newCounter("a", 7)))
	err := b.Save(db, newCounter("b", 7))
	require.True(t, errors.ErrDuplicate.Is(err), "unexpected error: %v", err)

	// Saving the same object again keeps its own reference.
	require.NoError(t, b.Save(db, newCounter("a", 7, "again")))

	// Nil index values are not indexed and never conflict.
	require.NoError(t, b.Save(db, newCounter("c", 0)))
	require.NoError(t, b.Save(db, newCounter("d", 0)))

	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, 7)
	objs, err := b.GetIndexed(db, "count", key)
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, keysOf(objs))
}

func TestIndexQuery(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", newCounter("", 0)).
		WithMultiKeyIndex("tag", tagIndexer, false)
	qr := quorum.NewQueryRouter()
	b.Register("", qr)

	require.NoError(t, b.Save(db, newCounter("a", 1, "red")))

	h := qr.Handler("/cnts/tag")
	require.NotNil(t, h)
	res, err := h.Query(db, quorum.KeyQueryMod, []byte("red"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, b.DBKey([]byte("a")), res[0].Key)

	_, err = h.Query(db, quorum.PrefixQueryMod, []byte("re"))
	require.True(t, errors.ErrInput.Is(err))
}

func TestDuplicateIndexPanics(t *testing.T) {
	b := NewBucket("cnts", newCounter("", 0)).WithMultiKeyIndex("tag", tagIndexer, false)
	require.Panics(t, func() { b.WithMultiKeyIndex("tag", tagIndexer, false) })
}

func TestIndexUpdateErrors(t *testing.T) {
	idx := NewIndex("cnts_tag", tagIndexer, false, func(k []byte) []byte { return k })
	db := store.MemStore()

	err := idx.Update(db, nil, nil)
	require.True(t, errors.ErrState.Is(err))

	err = idx.Update(db, newCounter("a", 1), newCounter("b", 1))
	require.True(t, errors.ErrState.Is(err))
}
