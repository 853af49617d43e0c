package quorum

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/quorum/errors"
	"github.com/stretchr/testify/require"
)

func TestReadOptions(t *testing.T) {
	opts := Options{
		"thresholds": json.RawMessage(`{"min": 2}`),
		"broken":     json.RawMessage(`{"min": `),
	}

	var conf struct {
		Min int `json:"min"`
	}
	require.NoError(t, opts.ReadOptions("thresholds", &conf))
	require.Equal(t, 2, conf.Min)

	// missing key is a noop
	conf.Min = 9
	require.NoError(t, opts.ReadOptions("missing", &conf))
	require.Equal(t, 9, conf.Min)

	require.Error(t, opts.ReadOptions("broken", &conf))
}

type initFunc func(Options, KVStore) error

func (f initFunc) FromGenesis(o Options, kv KVStore) error { return f(o, kv) }

func TestChainInitializers(t *testing.T) {
	var calls []string
	ok := func(name string) Initializer {
		return initFunc(func(Options, KVStore) error {
			calls = append(calls, name)
			return nil
		})
	}
	fail := initFunc(func(Options, KVStore) error {
		calls = append(calls, "fail")
		return errors.ErrState
	})

	require.NoError(t, ChainInitializers(ok("a"), ok("b")).FromGenesis(nil, nil))
	require.Equal(t, []string{"a", "b"}, calls)

	calls = nil
	err := ChainInitializers(ok("a"), fail, ok("c")).FromGenesis(nil, nil)
	require.True(t, errors.ErrState.Is(err))
	require.Equal(t, []string{"a", "fail"}, calls)
}
