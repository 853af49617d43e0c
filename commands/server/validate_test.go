package server

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireKey fails unless the genesis contains the key.
type requireKey string

func (k requireKey) FromGenesis(opts quorum.Options, db quorum.KVStore) error {
	if _, ok := opts[string(k)]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "no %q", string(k))
	}
	return db.Set([]byte(k), opts[string(k)])
}

func TestValidateGenesis(t *testing.T) {
	dir := tempHome(t)
	defer os.RemoveAll(dir)

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
		return path
	}
	good := write("good.json", `{"chain_id": "c", "app_state": {"multiaccount": []}}`)
	missing := write("missing.json", `{"chain_id": "c", "app_state": {}}`)
	broken := write("broken.json", `{"app_state": [`)

	ini := requireKey("multiaccount")
	assert.NoError(t, ValidateGenesis(ini, []string{good}))

	err := ValidateGenesis(ini, []string{good, missing})
	require.Error(t, err)
	assert.True(t, errors.ErrNotFound.Is(err))

	err = ValidateGenesis(ini, []string{broken})
	assert.True(t, errors.ErrInput.Is(err))

	err = ValidateGenesis(ini, []string{filepath.Join(dir, "nope.json")})
	assert.True(t, errors.ErrInput.Is(err))

	err = ValidateGenesis(ini, nil)
	assert.True(t, errors.ErrInput.Is(err))
}
