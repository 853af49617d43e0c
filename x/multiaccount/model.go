package multiaccount

import (
	"math"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

// Account is the registry record of a multi-account.
type Account struct {
	Signatories Signatories
	Threshold   uint32
}

var _ orm.CloneableData = (*Account)(nil)

func (a *Account) Marshal() ([]byte, error) {
	return proto.Marshal(&accountPB{
		Signatories: rawAddresses(a.Signatories),
		Threshold:   a.Threshold,
	})
}

func (a *Account) Unmarshal(raw []byte) error {
	var m accountPB
	if err := proto.Unmarshal(raw, &m); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*a = Account{Signatories: addresses(m.Signatories), Threshold: m.Threshold}
	return nil
}

// Validate checks the record invariants. The signatory limit depends on the
// configuration and is checked when registering.
func (a *Account) Validate() error {
	if err := validateThreshold(a.Threshold, len(a.Signatories)); err != nil {
		return err
	}
	return a.Signatories.Validate()
}

func (a *Account) Copy() orm.CloneableData {
	return &Account{
		Signatories: a.Signatories.Clone(),
		Threshold:   a.Threshold,
	}
}

func validateThreshold(threshold uint32, signatories int) error {
	switch {
	case threshold < 2:
		return errors.Wrapf(ErrMinimumThreshold, "got %d", threshold)
	case threshold > math.MaxUint16:
		return errors.Wrapf(errors.ErrInput, "threshold %d does not fit 16 bits", threshold)
	case int(threshold) > signatories:
		return errors.Wrapf(ErrTooFewSignatories, "threshold %d with %d signatories", threshold, signatories)
	}
	return nil
}

// Approvals holds the signatories that approved a pending call.
type Approvals struct {
	Signatories Signatories
}

var _ orm.CloneableData = (*Approvals)(nil)

func (a *Approvals) Marshal() ([]byte, error) {
	return proto.Marshal(&approvalsPB{Signatories: rawAddresses(a.Signatories)})
}

func (a *Approvals) Unmarshal(raw []byte) error {
	var m approvalsPB
	if err := proto.Unmarshal(raw, &m); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*a = Approvals{Signatories: addresses(m.Signatories)}
	return nil
}

func (a *Approvals) Validate() error {
	if len(a.Signatories) == 0 {
		return errors.Field("Signatories", errors.ErrEmpty, "no approvals")
	}
	return a.Signatories.Validate()
}

func (a *Approvals) Copy() orm.CloneableData {
	return &Approvals{Signatories: a.Signatories.Clone()}
}

// ExecutedCall records the account that executed a call and the height it
// happened at.
type ExecutedCall struct {
	Account quorum.Address
	Height  int64
}

var _ orm.CloneableData = (*ExecutedCall)(nil)

func (e *ExecutedCall) Marshal() ([]byte, error) {
	return proto.Marshal(&executedCallPB{Account: e.Account, Height: e.Height})
}

func (e *ExecutedCall) Unmarshal(raw []byte) error {
	var m executedCallPB
	if err := proto.Unmarshal(raw, &m); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*e = ExecutedCall{Account: m.Account, Height: m.Height}
	return nil
}

func (e *ExecutedCall) Validate() error {
	if err := e.Account.Validate(); err != nil {
		return errors.Field("Account", err, "invalid account")
	}
	if e.Height < 0 {
		return errors.Field("Height", errors.ErrInput, "negative height")
	}
	return nil
}

func (e *ExecutedCall) Copy() orm.CloneableData {
	return &ExecutedCall{Account: e.Account.Clone(), Height: e.Height}
}

// AccountBucket stores Account records by identifier. The signatory index
// references every account under each of its members.
type AccountBucket struct {
	orm.Bucket
}

// NewAccountBucket returns a bucket storing Account records.
func NewAccountBucket() AccountBucket {
	b := orm.NewBucket("macct", orm.NewSimpleObj(nil, &Account{})).
		WithMultiKeyIndex("signatory", signatoryIndex, false)
	return AccountBucket{Bucket: b}
}

func signatoryIndex(obj orm.Object) ([][]byte, error) {
	acc, ok := obj.Value().(*Account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "expected account, got %T", obj.Value())
	}
	return rawAddresses(acc.Signatories), nil
}

// GetAccount returns the account stored under id. ErrNotFound is returned
// for unknown accounts.
func (b AccountBucket) GetAccount(db quorum.ReadOnlyKVStore, id quorum.Address) (*Account, error) {
	obj, err := b.Get(db, id)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "account %s", id)
	}
	return obj.Value().(*Account), nil
}

// BySignatory returns the identifiers of all accounts addr is a member of.
func (b AccountBucket) BySignatory(db quorum.ReadOnlyKVStore, addr quorum.Address) ([]quorum.Address, error) {
	objs, err := b.GetIndexed(db, "signatory", addr)
	if err != nil {
		return nil, err
	}
	ids := make([]quorum.Address, len(objs))
	for i, obj := range objs {
		ids[i] = obj.Key()
	}
	return ids, nil
}

// ApprovalBucket stores the pending approvals of every call under the
// account identifier followed by the call hash, so that all pending calls of
// an account share a prefix.
type ApprovalBucket struct {
	orm.Bucket
}

// NewApprovalBucket returns a bucket storing Approvals.
func NewApprovalBucket() ApprovalBucket {
	return ApprovalBucket{
		Bucket: orm.NewBucket("mappr", orm.NewSimpleObj(nil, &Approvals{})),
	}
}

func approvalKey(account quorum.Address, hash CallHash) []byte {
	key := make([]byte, 0, len(account)+len(hash))
	key = append(key, account...)
	return append(key, hash[:]...)
}

// GetApprovals returns the approvals of a pending call, or nil if the call
// is not pending.
func (b ApprovalBucket) GetApprovals(db quorum.ReadOnlyKVStore, account quorum.Address, hash CallHash) (*Approvals, error) {
	obj, err := b.Get(db, approvalKey(account, hash))
	if err != nil || obj == nil {
		return nil, err
	}
	return obj.Value().(*Approvals), nil
}

// SaveApprovals stores the approvals of a pending call.
func (b ApprovalBucket) SaveApprovals(db quorum.KVStore, account quorum.Address, hash CallHash, a *Approvals) error {
	return b.Save(db, orm.NewSimpleObj(approvalKey(account, hash), a))
}

// DeleteApprovals removes a pending call.
func (b ApprovalBucket) DeleteApprovals(db quorum.KVStore, account quorum.Address, hash CallHash) error {
	return b.Delete(db, approvalKey(account, hash))
}

// PendingCall is a call of an account waiting for approvals.
type PendingCall struct {
	Hash      CallHash
	Approvals Signatories
}

// Pending returns all pending calls of the account ordered by hash.
func (b ApprovalBucket) Pending(db quorum.ReadOnlyKVStore, account quorum.Address) ([]PendingCall, error) {
	var calls []PendingCall
	err := b.Iterate(db, account, func(obj orm.Object) error {
		hash, err := ParseCallHash(obj.Key()[len(account):])
		if err != nil {
			return err
		}
		calls = append(calls, PendingCall{
			Hash:      hash,
			Approvals: obj.Value().(*Approvals).Signatories,
		})
		return nil
	})
	return calls, err
}

// ExecutedBucket stores every executed call hash. Entries are written once
// and never removed.
type ExecutedBucket struct {
	orm.Bucket
}

// NewExecutedBucket returns a bucket storing ExecutedCall records.
func NewExecutedBucket() ExecutedBucket {
	return ExecutedBucket{
		Bucket: orm.NewBucket("mexec", orm.NewSimpleObj(nil, &ExecutedCall{})),
	}
}

// GetExecuted returns the execution record of the call, or nil if the call
// was never executed.
func (b ExecutedBucket) GetExecuted(db quorum.ReadOnlyKVStore, hash CallHash) (*ExecutedCall, error) {
	obj, err := b.Get(db, hash[:])
	if err != nil || obj == nil {
		return nil, err
	}
	return obj.Value().(*ExecutedCall), nil
}

// IsExecuted returns true if the call was executed by any account.
func (b ExecutedBucket) IsExecuted(db quorum.ReadOnlyKVStore, hash CallHash) (bool, error) {
	return b.Has(db, hash[:])
}

// MarkExecuted records the call as executed. Marking a call twice is a
// state error.
func (b ExecutedBucket) MarkExecuted(db quorum.KVStore, hash CallHash, e *ExecutedCall) error {
	switch done, err := b.IsExecuted(db, hash); {
	case err != nil:
		return err
	case done:
		return errors.Wrapf(errors.ErrState, "call %s already executed", hash)
	}
	return b.Save(db, orm.NewSimpleObj(hash[:], e))
}
