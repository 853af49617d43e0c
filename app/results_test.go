package app

import (
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultSets(t *testing.T) {
	models := []quorum.Model{
		quorum.Pair([]byte("k1"), []byte("v1")),
		quorum.Pair([]byte("k2"), []byte("v2")),
	}

	keys, err := ResultsFromKeys(models).Marshal()
	require.NoError(t, err)
	values, err := ResultsFromValues(models).Marshal()
	require.NoError(t, err)

	var k, v ResultSet
	require.NoError(t, k.Unmarshal(keys))
	require.NoError(t, v.Unmarshal(values))
	joined, err := JoinResults(&k, &v)
	require.NoError(t, err)
	assert.Equal(t, models, joined)

	_, err = JoinResults(&k, &ResultSet{})
	assert.True(t, errors.ErrState.Is(err))
}

func TestUnmarshalOneResult(t *testing.T) {
	var msg echoMsg
	payload, err := (&echoMsg{Key: "a", Text: "b"}).Marshal()
	require.NoError(t, err)
	raw, err := (&ResultSet{Results: [][]byte{payload, []byte("ignored")}}).Marshal()
	require.NoError(t, err)
	require.NoError(t, UnmarshalOneResult(raw, &msg))
	assert.Equal(t, echoMsg{Key: "a", Text: "b"}, msg)

	empty, err := (&ResultSet{}).Marshal()
	require.NoError(t, err)
	assert.True(t, errors.ErrNotFound.Is(UnmarshalOneResult(empty, &msg)))
}
