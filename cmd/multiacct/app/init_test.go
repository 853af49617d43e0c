package app

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/store"
	"github.com/iov-one/quorum/x/multiaccount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenInitOptions(t *testing.T) {
	owner := quorumtest.NewAddress()

	cases := map[string]struct {
		args    []string
		wantErr *errors.Error
		wantMax int
	}{
		"defaults": {
			wantMax: multiaccount.DefaultMaxSignatories,
		},
		"with owner": {
			args:    []string{"-owner", owner.String(), "-max_signatories", "7"},
			wantMax: 7,
		},
		"invalid owner": {
			args:    []string{"-owner", "zz"},
			wantErr: errors.ErrInput,
		},
		"too few signatories": {
			args:    []string{"-owner", owner.String(), "-max_signatories", "1"},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			raw, err := GenInitOptions(tc.args)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "got %v", err)
				return
			}
			require.NoError(t, err)

			var opts quorum.Options
			require.NoError(t, json.Unmarshal(raw, &opts))
			db := store.MemStore()
			require.NoError(t, Initializers().FromGenesis(opts, db))

			max, err := multiaccount.NewRegistry(nil).MaxSignatories(db)
			require.NoError(t, err)
			assert.Equal(t, tc.wantMax, max)
		})
	}
}

func TestDBPath(t *testing.T) {
	assert.Equal(t, "", DBPath(""))
	assert.Equal(t, "/tmp/home/multiacct.db", DBPath("/tmp/home"))
}
