package orm

import (
	"bytes"
	"encoding/binary"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

const indexPrefix = "_i."

// Indexer calculates the secondary index key for a given object
type Indexer func(Object) ([]byte, error)

// MultiKeyIndexer calculates the secondary index keys for a given object
type MultiKeyIndexer func(Object) ([][]byte, error)

// Index maintains references from computed values to the primary keys of
// the indexed objects.
type Index interface {
	quorum.QueryHandler

	// Update updates the index. It should be called when any of the bucket
	// entities has changed in the store.
	//
	// prev == nil means insert
	// save == nil means delete
	// both == nil is error
	// if both != nil and prev.Key() != save.Key() this is an error
	Update(db quorum.KVStore, prev Object, save Object) error

	// GetAt returns the primary keys of all objects indexed under value.
	GetAt(db quorum.ReadOnlyKVStore, value []byte) ([][]byte, error)
}

// nativeIndex stores every reference under its own key:
//
//	_i.<name>:<uint16 len(value)><value><primary key>
//
// so that all references of a value can be read with a single prefix scan.
type nativeIndex struct {
	name   string
	id     []byte
	unique bool
	index  MultiKeyIndexer
	refKey func([]byte) []byte
}

var _ Index = nativeIndex{}

// NewIndex constructs an index.
// indexer calculates the index values for an object.
// unique enforces a unique constraint on the index.
// refKey calculates the absolute dbkey for a ref.
func NewIndex(name string, indexer MultiKeyIndexer, unique bool, refKey func([]byte) []byte) Index {
	return nativeIndex{
		name:   name,
		id:     []byte(indexPrefix + name + ":"),
		index:  indexer,
		unique: unique,
		refKey: refKey,
	}
}

func asMultiKeyIndexer(indexer Indexer) MultiKeyIndexer {
	return func(obj Object) ([][]byte, error) {
		key, err := indexer(obj)
		switch {
		case err != nil:
			return nil, err
		case key == nil:
			return nil, nil
		}
		return [][]byte{key}, nil
	}
}

func (i nativeIndex) valuePrefix(value []byte) []byte {
	out := make([]byte, len(i.id)+2+len(value))
	n := copy(out, i.id)
	binary.BigEndian.PutUint16(out[n:], uint16(len(value)))
	copy(out[n+2:], value)
	return out
}

func (i nativeIndex) refDBKey(value, pk []byte) []byte {
	return append(i.valuePrefix(value), pk...)
}

// Update handles updating the reference to the object in
// the secondary index.
func (i nativeIndex) Update(db quorum.KVStore, prev Object, save Object) error {
	switch {
	case prev == nil && save == nil:
		return errors.Wrap(errors.ErrState, "update requires at least one non-nil object")
	case prev != nil && save != nil && !bytes.Equal(prev.Key(), save.Key()):
		return errors.Wrap(errors.ErrState, "cannot change object key")
	}

	var before, after [][]byte
	var pk []byte
	if prev != nil {
		vals, err := i.index(prev)
		if err != nil {
			return err
		}
		before, pk = vals, prev.Key()
	}
	if save != nil {
		vals, err := i.index(save)
		if err != nil {
			return err
		}
		after, pk = vals, save.Key()
	}

	for _, v := range before {
		if contains(after, v) {
			continue
		}
		if err := db.Delete(i.refDBKey(v, pk)); err != nil {
			return err
		}
	}
	for _, v := range after {
		if contains(before, v) {
			continue
		}
		if i.unique {
			refs, err := i.GetAt(db, v)
			if err != nil {
				return err
			}
			if len(refs) > 0 {
				return errors.Wrapf(errors.ErrDuplicate, "index %s", i.name)
			}
		}
		if err := db.Set(i.refDBKey(v, pk), []byte{}); err != nil {
			return err
		}
	}
	return nil
}

func contains(set [][]byte, v []byte) bool {
	for _, s := range set {
		if bytes.Equal(s, v) {
			return true
		}
	}
	return false
}

// GetAt returns the primary keys referenced by the value.
func (i nativeIndex) GetAt(db quorum.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	prefix := i.valuePrefix(value)
	models, err := queryPrefix(db, prefix)
	if err != nil {
		return nil, err
	}
	refs := make([][]byte, 0, len(models))
	for _, m := range models {
		refs = append(refs, m.Key[len(prefix):])
	}
	return refs, nil
}

// Query returns the referenced objects, loaded from the bucket.
func (i nativeIndex) Query(db quorum.ReadOnlyKVStore, mod string, data []byte) ([]quorum.Model, error) {
	if mod != quorum.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	refs, err := i.GetAt(db, data)
	if err != nil {
		return nil, err
	}
	var res []quorum.Model
	for _, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			continue
		}
		res = append(res, quorum.Pair(key, value))
	}
	return res, nil
}
