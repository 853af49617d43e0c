package multiaccount

import (
	"context"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/gconf"
)

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct{}

var _ quorum.Initializer = (*Initializer)(nil)

// FromGenesis stores the configuration found under conf.multiaccount and
// registers every account listed under multiaccount. An account without an
// id gets the derived one.
func (*Initializer) FromGenesis(opts quorum.Options, db quorum.KVStore) error {
	if err := gconf.InitConfig(db, opts, packageName, &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}

	var accounts []struct {
		ID          quorum.Address   `json:"id"`
		Signatories []quorum.Address `json:"signatories"`
		Threshold   uint32           `json:"threshold"`
	}
	if err := opts.ReadOptions(packageName, &accounts); err != nil {
		return err
	}

	registry := NewRegistry(quorum.NopEventSink)
	for i, a := range accounts {
		acc := Account{Signatories: a.Signatories, Threshold: a.Threshold}
		if err := acc.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
		id := a.ID
		if len(id) == 0 {
			id = DeriveAccountID(acc.Signatories, uint16(acc.Threshold))
		}
		if err := registry.Register(context.Background(), db, id, acc.Signatories, acc.Threshold); err != nil {
			return errors.Wrapf(err, "cannot register account #%d", i)
		}
	}
	return nil
}
