package orm

import (
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketName(t *testing.T) {
	assert.NotPanics(t, func() { NewBucket("good_name", newCounter("", 0)) })
	assert.Panics(t, func() { NewBucket("no", newCounter("", 0)) })
	assert.Panics(t, func() { NewBucket("Upper", newCounter("", 0)) })
	assert.Panics(t, func() { NewBucket("longerthanten", newCounter("", 0)) })
}

func TestBucketGetSaveDelete(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", newCounter("", 0))

	obj, err := b.Get(db, []byte("a"))
	require.NoError(t, err)
	require.Nil(t, obj)

	require.NoError(t, b.Save(db, newCounter("a", 5, "x")))
	has, err := b.Has(db, []byte("a"))
	require.NoError(t, err)
	require.True(t, has)

	obj, err = b.Get(db, []byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("a"), obj.Key())
	require.Equal(t, &counter{Count: 5, Tags: []string{"x"}}, obj.Value())

	// Stored under the bucket prefix.
	raw, err := db.Get([]byte("cnts:a"))
	require.NoError(t, err)
	require.NotNil(t, raw)

	err = b.Save(db, newCounter("b", -1))
	require.True(t, errors.ErrInput.Is(err), "unexpected error: %v", err)
	err = b.Save(db, newCounter("", 1))
	require.True(t, errors.ErrEmpty.Is(err), "unexpected error: %v", err)

	require.NoError(t, b.Delete(db, []byte("a")))
	obj, err = b.Get(db, []byte("a"))
	require.NoError(t, err)
	require.Nil(t, obj)
}

func TestBucketParseError(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", newCounter("", 0))
	require.NoError(t, db.Set(b.DBKey([]byte("bad")), []byte{1, 2}))

	_, err := b.Get(db, []byte("bad"))
	require.True(t, errors.ErrModel.Is(err), "unexpected error: %v", err)
}

func TestBucketIterate(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", newCounter("", 0))
	other := NewBucket("cntz", newCounter("", 0))

	for _, k := range []string{"ab", "aa", "b", "ac"} {
		require.NoError(t, b.Save(db, newCounter(k, 1)))
	}
	require.NoError(t, other.Save(db, newCounter("aa", 1)))

	var keys []string
	err := b.Iterate(db, []byte("a"), func(obj Object) error {
		keys = append(keys, string(obj.Key()))
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"aa", "ab", "ac"}, keys)

	keys = nil
	err = b.Iterate(db, nil, func(obj Object) error {
		keys = append(keys, string(obj.Key()))
		if len(keys) == 2 {
			return errors.ErrHuman
		}
		return nil
	})
	require.True(t, errors.ErrHuman.Is(err))
	require.Equal(t, []string{"aa", "ab"}, keys)
}

func TestBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", newCounter("", 0))
	qr := quorum.NewQueryRouter()
	b.Register("counters", qr)

	require.NoError(t, b.Save(db, newCounter("aa", 1)))
	require.NoError(t, b.Save(db, newCounter("ab", 2)))

	h := qr.Handler("/counters")
	require.NotNil(t, h)

	res, err := h.Query(db, quorum.KeyQueryMod, []byte("aa"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, []byte("cnts:aa"), res[0].Key)

	res, err = h.Query(db, quorum.KeyQueryMod, []byte("zz"))
	require.NoError(t, err)
	require.Empty(t, res)

	res, err = h.Query(db, quorum.PrefixQueryMod, []byte("a"))
	require.NoError(t, err)
	require.Len(t, res, 2)

	_, err = h.Query(db, "range", nil)
	require.True(t, errors.ErrInput.Is(err))
}

func TestPrefixEnd(t *testing.T) {
	require.Equal(t, []byte("ab"), prefixEnd([]byte("aa")))
	require.Equal(t, []byte{0x01}, prefixEnd([]byte{0x00, 0xff}))
	require.Nil(t, prefixEnd([]byte{0xff, 0xff}))
}

func TestRawQuery(t *testing.T) {
	db := store.MemStore()
	require.NoError(t, db.Set([]byte("ab"), []byte("1")))
	require.NoError(t, db.Set([]byte("ac"), []byte("2")))
	require.NoError(t, db.Set([]byte("b"), []byte("3")))

	qr := quorum.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/")
	require.NotNil(t, h)

	res, err := h.Query(db, quorum.KeyQueryMod, []byte("b"))
	require.NoError(t, err)
	require.Equal(t, []quorum.Model{quorum.Pair([]byte("b"), []byte("3"))}, res)

	res, err = h.Query(db, quorum.PrefixQueryMod, []byte("a"))
	require.NoError(t, err)
	require.Len(t, res, 2)
}
