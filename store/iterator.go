package store

import (
	"bytes"

	"github.com/google/btree"
)

// SliceIterator wraps an Iterator over a slice of models
type SliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator creates a new Iterator over this slice
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{
		data: data,
	}
}

// Valid implements Iterator and returns true iff it can be read
func (s *SliceIterator) Valid() bool {
	return s.idx < len(s.data)
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (s *SliceIterator) Next() error {
	s.assertValid()
	s.idx++
	return nil
}

func (s *SliceIterator) assertValid() {
	if s.idx >= len(s.data) {
		panic("passed end of slice")
	}
}

// Key returns the key of the cursor.
func (s *SliceIterator) Key() (key []byte) {
	s.assertValid()
	return s.data[s.idx].Key
}

// Value returns the value of the cursor.
func (s *SliceIterator) Value() (value []byte) {
	s.assertValid()
	return s.data[s.idx].Value
}

// Release releases the Iterator.
func (s *SliceIterator) Release() {
	s.data = nil
}

// source marks where the current item comes from
type source int32

const (
	none source = iota
	us
	parent
	both
)

// mergeIterator combines a snapshot of cached btree items with the
// iterator of the parent store. Cached deletes hide parent entries and
// cached writes shadow them.
type mergeIterator struct {
	items     []btree.Item
	idx       int
	parent    Iterator
	ascending bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []btree.Item, parent Iterator, ascending bool) (*mergeIterator, error) {
	it := &mergeIterator{
		items:     items,
		parent:    parent,
		ascending: ascending,
	}
	if err := it.skipDeleted(); err != nil {
		parent.Release()
		return nil, err
	}
	return it, nil
}

func (m *mergeIterator) ourValid() bool {
	return m.idx < len(m.items)
}

func (m *mergeIterator) ours() keyer {
	return m.items[m.idx].(keyer)
}

// current selects the iterator holding the next key in iteration order.
func (m *mergeIterator) current() source {
	pv := m.parent.Valid()
	ov := m.ourValid()
	switch {
	case !pv && !ov:
		return none
	case !pv:
		return us
	case !ov:
		return parent
	}
	cmp := bytes.Compare(m.parent.Key(), m.ours().Key())
	if !m.ascending {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

// skipDeleted advances over all cached deletes, together with the parent
// entries they hide.
func (m *mergeIterator) skipDeleted() error {
	for {
		src := m.current()
		if src != us && src != both {
			return nil
		}
		if _, ok := m.ours().(deletedItem); !ok {
			return nil
		}
		m.idx++
		if src == both {
			if err := m.parent.Next(); err != nil {
				return err
			}
		}
	}
}

// Valid implements Iterator and returns true iff it can be read
func (m *mergeIterator) Valid() bool {
	return m.current() != none
}

// Next moves the iterator to the next key.
//
// If Valid returns false, this method will panic.
func (m *mergeIterator) Next() error {
	switch m.current() {
	case us:
		m.idx++
	case both:
		m.idx++
		if err := m.parent.Next(); err != nil {
			return err
		}
	case parent:
		if err := m.parent.Next(); err != nil {
			return err
		}
	default:
		panic("advanced past the end")
	}
	return m.skipDeleted()
}

// Key returns the key of the cursor.
func (m *mergeIterator) Key() []byte {
	switch m.current() {
	case us, both:
		return m.ours().Key()
	case parent:
		return m.parent.Key()
	default:
		panic("advanced past the end")
	}
}

// Value returns the value of the cursor.
func (m *mergeIterator) Value() []byte {
	switch m.current() {
	case us, both:
		return m.ours().(setItem).value
	case parent:
		return m.parent.Value()
	default:
		panic("advanced past the end")
	}
}

// Release releases the Iterator.
func (m *mergeIterator) Release() {
	m.parent.Release()
	m.items = nil
}
