package multiaccount

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store"
	"github.com/stretchr/testify/require"
)

func genesis(t testing.TB, content string) quorum.Options {
	t.Helper()
	var opts quorum.Options
	require.NoError(t, json.Unmarshal([]byte(content), &opts))
	return opts
}

func TestGenesis(t *testing.T) {
	s := seq(1, 2, 3)
	opts := genesis(t, `{
		"multiaccount": [
			{"id": "`+s[0].String()+`", "signatories": ["`+s[0].String()+`", "`+s[1].String()+`"], "threshold": 2},
			{"signatories": ["`+s[0].String()+`", "`+s[1].String()+`", "`+s[2].String()+`"], "threshold": 3}
		]
	}`)

	db := store.MemStore()
	require.NoError(t, (&Initializer{}).FromGenesis(opts, db))

	r := NewRegistry(nil)
	acc, err := r.Account(db, s[0])
	require.NoError(t, err)
	require.Equal(t, Signatories(seq(1, 2)), acc.Signatories)

	acc, err = r.Account(db, DeriveAccountID(seq(1, 2, 3), 3))
	require.NoError(t, err)
	require.Equal(t, uint32(3), acc.Threshold)

	// No configuration in the genesis means the defaults apply.
	max, err := r.MaxSignatories(db)
	require.NoError(t, err)
	require.Equal(t, DefaultMaxSignatories, max)
}

func TestGenesisRejectsInvalidAccounts(t *testing.T) {
	s := seq(1, 2)
	cases := map[string]struct {
		content string
		wantErr *errors.Error
	}{
		"unordered": {
			content: `{"multiaccount": [{"signatories": ["` + s[1].String() + `", "` + s[0].String() + `"], "threshold": 2}]}`,
			wantErr: ErrSignatoriesOutOfOrder,
		},
		"low threshold": {
			content: `{"multiaccount": [{"signatories": ["` + s[0].String() + `", "` + s[1].String() + `"], "threshold": 1}]}`,
			wantErr: ErrMinimumThreshold,
		},
		"invalid configuration": {
			content: `{"conf": {"multiaccount": {"max_signatories": 5}}}`,
			wantErr: errors.ErrInput,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := (&Initializer{}).FromGenesis(genesis(t, tc.content), store.MemStore())
			require.True(t, tc.wantErr.Is(err), "unexpected error: %v", err)
		})
	}
}
