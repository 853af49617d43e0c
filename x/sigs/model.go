package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequence is the greatest sequence a client can represent as a
// javascript number.
const maxSequence = (1 << 53) - 1

//---- UserData
// Model stores the persistent state and all domain logic
// associated with valid state and state transitions.

// UserData is the signing state of a single key holder.
type UserData struct {
	Pubkey   []byte
	Sequence int64
}

var _ orm.CloneableData = (*UserData)(nil)

func (u *UserData) Validate() error {
	if u.Sequence < 0 {
		return errors.Field("Sequence", ErrInvalidSequence, "negative")
	}
	if u.Sequence > 0 && len(u.Pubkey) == 0 {
		return errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey")
	}
	return nil
}

// Copy makes a new UserData with the same content
func (u *UserData) Copy() orm.CloneableData {
	return &UserData{
		Pubkey:   append([]byte(nil), u.Pubkey...),
		Sequence: u.Sequence,
	}
}

func (u *UserData) Marshal() ([]byte, error) {
	return proto.Marshal(&userDataPB{Pubkey: u.Pubkey, Sequence: u.Sequence})
}

func (u *UserData) Unmarshal(raw []byte) error {
	var m userDataPB
	if err := proto.Unmarshal(raw, &m); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*u = UserData{Pubkey: m.Pubkey, Sequence: m.Sequence}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequence {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

//-------------------- Object Wrapper -------

// AsUser will safely type-cast any value from Bucket to a UserData
func AsUser(obj orm.Object) *UserData {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*UserData)
}

// NewUser constructs an object from a public key. Users are stored under
// the address of their key.
func NewUser(pubkey []byte) orm.Object {
	var key quorum.Address
	if pubkey != nil {
		key = crypto.PublicKeyCondition(pubkey).Address()
	}
	return orm.NewSimpleObj(key, &UserData{Pubkey: pubkey})
}

// Bucket extends orm.Bucket with GetOrCreate
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewUser(nil)),
	}
}

// GetOrCreate initializes a UserData if none exist for that key
func (b Bucket) GetOrCreate(db quorum.ReadOnlyKVStore, pubkey []byte) (orm.Object, error) {
	obj, err := b.Get(db, crypto.PublicKeyCondition(pubkey).Address())
	if err == nil && obj == nil {
		obj = NewUser(pubkey)
	}
	return obj, err
}

// RegisterQuery will register this bucket as "/auth"
func RegisterQuery(qr quorum.QueryRouter) {
	NewBucket().Register("auth", qr)
}
