package orm

import (
	"github.com/iov-one/quorum"
)

// Validater is implemented by every value a bucket persists. Save refuses
// to write anything that does not pass Validate.
type Validater interface {
	Validate() error
}

// Object pairs a bucket key with the value stored under it. Buckets join
// the key with their own prefix before touching the store.
type Object interface {
	Keyed
	Cloneable
	Validater
	Value() quorum.Persistent
}

// Reader loads a single object by its key.
type Reader interface {
	Get(db quorum.ReadOnlyKVStore, key []byte) (Object, error)
}

// Keyed exposes the key an object is stored under.
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable returns an empty object of the same kind that a stored value
// can be decoded into.
type Cloneable interface {
	Clone() Object
}

// CloneableData is the value side of a SimpleObj. Accounts, approval sets
// and execution records all implement it.
type CloneableData interface {
	Validater
	quorum.Persistent
	Copy() CloneableData
}
