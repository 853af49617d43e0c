package main

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/multiaccount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withHome points the configuration to a fresh home directory.
func withHome(t *testing.T) (string, func()) {
	t.Helper()
	home, err := ioutil.TempDir("", "multiacct")
	require.NoError(t, err)
	require.NoError(t, os.Setenv("MULTIACCT_HOME", home))
	require.NoError(t, os.Setenv("MULTIACCT_LOG_LEVEL", "error"))
	return home, func() {
		os.Unsetenv("MULTIACCT_HOME")
		os.Unsetenv("MULTIACCT_LOG_LEVEL")
		os.RemoveAll(home)
	}
}

// run executes the command and returns its trimmed output.
func run(t *testing.T, input []byte, name string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	var in io.Reader = bytes.NewReader(input)
	require.NoError(t, commands[name](in, &out, args), "%s %v", name, args)
	return strings.TrimSpace(out.String())
}

func TestMultiAccountWorkflow(t *testing.T) {
	home, cleanup := withHome(t)
	defer cleanup()

	key1 := filepath.Join(home, "one.key")
	key2 := filepath.Join(home, "two.key")
	addr1 := run(t, nil, "keygen", "-key", key1)
	addr2 := run(t, nil, "keygen", "-key", key2)
	assert.Equal(t, addr1, run(t, nil, "keyaddr", "-key", key1))

	run(t, nil, "init", "-owner", addr1)
	run(t, nil, "validate", filepath.Join(home, "config", "genesis.json"))

	account := run(t, nil, "register", "-key", key1, "-others", addr2, "-threshold", "2")
	assert.Equal(t, account, run(t, nil, "derive", "-signatories", addr2+","+addr1, "-threshold", "2"))

	var acc struct {
		Address     quorum.Address   `json:"address"`
		Signatories []quorum.Address `json:"signatories"`
		Threshold   uint32           `json:"threshold"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, nil, "account", "-id", account)), &acc))
	assert.Len(t, acc.Signatories, 2)
	assert.Equal(t, uint32(2), acc.Threshold)
	assert.NotEqual(t, account, acc.Address.String())
	assert.Equal(t, account, run(t, nil, "accounts", "-key", key2))

	// The account registers another account together with the first key.
	var call bytes.Buffer
	require.NoError(t, cmdRegister(nil, &call, []string{"-encode", "-others", addr1}))

	out := run(t, call.Bytes(), "propose", "-key", key1, "-account", account)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	hash := lines[0]
	assert.Equal(t, "1 of 2 approvals", lines[1])
	assert.Equal(t, multiaccount.HashCall(call.Bytes()).String(), hash)

	var pending []struct {
		Hash      string           `json:"hash"`
		Approvals []quorum.Address `json:"approvals"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, nil, "pending", "-account", account)), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, hash, pending[0].Hash)

	out = run(t, call.Bytes(), "propose", "-key", key2, "-account", account)
	assert.True(t, strings.HasSuffix(out, "quorum reached, call executed"), out)

	var executed struct {
		Account quorum.Address `json:"account"`
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, nil, "executed", "-hash", hash)), &executed))
	assert.Equal(t, account, executed.Account.String())

	assert.Empty(t, run(t, nil, "accounts", "-signatory", account))
	nested := run(t, nil, "accounts", "-signatory", acc.Address.String())
	assert.NotEmpty(t, nested)
	assert.Equal(t, "[]", run(t, nil, "pending", "-account", account))

	assert.Equal(t, "2", run(t, nil, "sequence", "-key", key1))
	assert.Equal(t, "1", run(t, nil, "sequence", "-key", key2))
}

func TestCancelCommand(t *testing.T) {
	home, cleanup := withHome(t)
	defer cleanup()

	key1 := filepath.Join(home, "one.key")
	key2 := filepath.Join(home, "two.key")
	run(t, nil, "keygen", "-key", key1)
	addr2 := run(t, nil, "keygen", "-key", key2)
	run(t, nil, "init")

	account := run(t, nil, "register", "-key", key1, "-others", addr2)
	out := run(t, []byte("any call"), "propose", "-key", key1, "-account", account)
	hash := strings.Split(out, "\n")[0]

	assert.Equal(t, "0 approvals left", run(t, nil, "cancel", "-key", key1, "-account", account, "-hash", hash))

	// Rejected transactions keep the code of the registered error.
	var out2 bytes.Buffer
	err := cmdCancel(nil, &out2, []string{"-key", key1, "-account", account, "-hash", hash})
	assert.True(t, errors.ErrNotFound.Is(err), "unexpected error: %v", err)

	key3 := filepath.Join(home, "three.key")
	run(t, nil, "keygen", "-key", key3)
	err = cmdPropose(bytes.NewReader([]byte("any call")), &out2, []string{"-key", key3, "-account", account})
	assert.True(t, multiaccount.ErrSignerIsNotApproved.Is(err), "unexpected error: %v", err)
}

func TestSubmitRequiresGenesis(t *testing.T) {
	home, cleanup := withHome(t)
	defer cleanup()

	key := filepath.Join(home, "one.key")
	run(t, nil, "keygen", "-key", key)

	var out bytes.Buffer
	err := cmdRegister(nil, &out, []string{"-key", key, "-others", quorum.Address(make([]byte, 20)).String()})
	assert.Error(t, err)
}

func TestKeygenDoesNotOverwrite(t *testing.T) {
	home, cleanup := withHome(t)
	defer cleanup()

	key := filepath.Join(home, "one.key")
	run(t, nil, "keygen", "-key", key)
	var out bytes.Buffer
	err := cmdKeygen(nil, &out, []string{"-key", key})
	assert.True(t, errors.ErrDuplicate.Is(err), "unexpected error: %v", err)
}
