package multiaccount

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

// Registry is the source of truth for who may act for a multi-account.
type Registry struct {
	bucket AccountBucket
	sink   quorum.EventSink
}

// NewRegistry returns a registry that reports registrations to sink.
func NewRegistry(sink quorum.EventSink) Registry {
	if sink == nil {
		sink = quorum.NopEventSink
	}
	return Registry{bucket: NewAccountBucket(), sink: sink}
}

// Register stores the account under id, overwriting any previous record.
// The signatories must already be canonical.
func (r Registry) Register(ctx quorum.Context, db quorum.KVStore, id quorum.Address, signatories Signatories, threshold uint32) error {
	if err := id.Validate(); err != nil {
		return errors.Field("ID", err, "invalid account id")
	}
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	if len(signatories) > int(conf.MaxSignatories) {
		return errors.Wrapf(ErrTooManySignatories, "%d signatories, limit is %d", len(signatories), conf.MaxSignatories)
	}
	acc := &Account{Signatories: signatories.Clone(), Threshold: threshold}
	if err := r.bucket.Save(db, orm.NewSimpleObj(id.Clone(), acc)); err != nil {
		return errors.Wrap(err, "cannot save account")
	}

	accountsRegistered.Inc()
	quorum.GetLogger(ctx).Info("multi-account registered",
		"account", id, "signatories", len(signatories), "threshold", threshold)
	r.sink.Emit(ctx, AccountRegistered{ID: id, Signatories: acc.Signatories, Threshold: threshold})
	return nil
}

// Account returns the record of the account. ErrNotFound is returned for
// unknown accounts.
func (r Registry) Account(db quorum.ReadOnlyKVStore, id quorum.Address) (*Account, error) {
	return r.bucket.GetAccount(db, id)
}

// IsSignatory returns true if addr is a member of the account. Unknown
// accounts have no members.
func (r Registry) IsSignatory(db quorum.ReadOnlyKVStore, id, addr quorum.Address) (bool, error) {
	acc, err := r.bucket.GetAccount(db, id)
	switch {
	case errors.ErrNotFound.Is(err):
		return false, nil
	case err != nil:
		return false, err
	}
	return acc.Signatories.Contains(addr), nil
}

// ThresholdOf returns the approval threshold of the account, or zero for
// unknown accounts.
func (r Registry) ThresholdOf(db quorum.ReadOnlyKVStore, id quorum.Address) (uint32, error) {
	acc, err := r.bucket.GetAccount(db, id)
	switch {
	case errors.ErrNotFound.Is(err):
		return 0, nil
	case err != nil:
		return 0, err
	}
	return acc.Threshold, nil
}

// AccountsOf returns the identifiers of all accounts addr is a member of.
func (r Registry) AccountsOf(db quorum.ReadOnlyKVStore, addr quorum.Address) ([]quorum.Address, error) {
	return r.bucket.BySignatory(db, addr)
}

// MaxSignatories returns the configured signatory limit.
func (r Registry) MaxSignatories(db quorum.ReadOnlyKVStore) (int, error) {
	conf, err := loadConf(db)
	if err != nil {
		return 0, err
	}
	return int(conf.MaxSignatories), nil
}
