package orm

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// prefixEnd returns the smallest key that is greater than all keys starting
// with the prefix, or nil when no such key exists.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// queryPrefix returns all entries with a key starting with the prefix.
func queryPrefix(db quorum.ReadOnlyKVStore, prefix []byte) ([]quorum.Model, error) {
	itr, err := db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

// ConsumeIterator will read all remaining data into an
// array and release the iterator
func ConsumeIterator(itr quorum.Iterator) ([]quorum.Model, error) {
	defer itr.Release()

	var res []quorum.Model
	for itr.Valid() {
		res = append(res, quorum.Pair(itr.Key(), itr.Value()))
		if err := itr.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// RegisterQuery will register a root query (literal keys)
// under "/"
func RegisterQuery(qr quorum.QueryRouter) {
	qr.Register("/", rawQuery{})
}

// rawQuery serves the raw database content.
type rawQuery struct{}

func (rawQuery) Query(db quorum.ReadOnlyKVStore, mod string, data []byte) ([]quorum.Model, error) {
	switch mod {
	case quorum.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil || value == nil {
			return nil, err
		}
		return []quorum.Model{quorum.Pair(data, value)}, nil
	case quorum.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}
