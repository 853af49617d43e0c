package app

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore
type ABCIStore struct {
	app abci.Application
}

var _ quorum.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a store reading the committed state of app.
func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
// This can be wrapped with a bucket to reuse key/index/parse logic
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	models, err := a.query("/", key)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	return models[0].Value, nil
}

// Has returns true if the given key in in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return v != nil, err
}

// Iterator returns all entries with keys in [start, end). Only the range
// of a prefix can be served by the query interface.
func (a *ABCIStore) Iterator(start, end []byte) (quorum.Iterator, error) {
	models, err := a.queryRange(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator is Iterator in descending order.
func (a *ABCIStore) ReverseIterator(start, end []byte) (quorum.Iterator, error) {
	models, err := a.queryRange(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) queryRange(start, end []byte) ([]quorum.Model, error) {
	if !isPrefixRange(start, end) {
		return nil, errors.Wrap(errors.ErrInput, "only prefix ranges are supported")
	}
	return a.query("/?prefix", start)
}

func (a *ABCIStore) query(path string, data []byte) ([]quorum.Model, error) {
	res := a.app.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	var keys, values ResultSet
	if err := keys.Unmarshal(res.Key); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := values.Unmarshal(res.Value); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&keys, &values)
}

// isPrefixRange returns true if [start, end) covers exactly the keys
// starting with start.
func isPrefixRange(start, end []byte) bool {
	if start == nil {
		return end == nil
	}
	want := make([]byte, len(start))
	copy(want, start)
	for i := len(want) - 1; i >= 0; i-- {
		if want[i] < 0xff {
			want[i]++
			return string(want[:i+1]) == string(end)
		}
	}
	return end == nil
}
