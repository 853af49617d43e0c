package app

import (
	"encoding/json"
	"flag"
	"path/filepath"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/multiaccount"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// DBPath returns the location of the application database under home.
func DBPath(home string) string {
	// "" -> "" for memdb
	if home == "" {
		return ""
	}
	return filepath.Join(home, "multiacct.db")
}

// GenInitOptions produces the app_state of a new chain. Without an owner the
// multiaccount configuration is left out and its defaults apply.
func GenInitOptions(args []string) (json.RawMessage, error) {
	fl := flag.NewFlagSet("init", flag.ContinueOnError)
	var (
		ownerFl = fl.String("owner", "", "Address allowed to update the multiaccount configuration.")
		maxFl   = fl.Uint("max_signatories", multiaccount.DefaultMaxSignatories, "Maximum number of signatories of an account.")
	)
	if err := fl.Parse(args); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}

	state := map[string]interface{}{
		"multiaccount": []interface{}{},
	}
	if *ownerFl != "" {
		owner, err := quorum.ParseAddress(*ownerFl)
		if err != nil {
			return nil, errors.Wrap(err, "owner")
		}
		conf := multiaccount.Configuration{Owner: owner, MaxSignatories: uint32(*maxFl)}
		if err := conf.Validate(); err != nil {
			return nil, err
		}
		state["conf"] = map[string]interface{}{
			"multiaccount": conf,
		}
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "cannot serialize app state")
	}
	return raw, nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	return Application(DBPath(home), logger, debug)
}
