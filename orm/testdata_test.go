package orm

import (
	"encoding/binary"

	"github.com/iov-one/quorum/errors"
)

// counter is a minimal CloneableData used in tests.
type counter struct {
	Count int64
	Tags  []string
}

var _ CloneableData = (*counter)(nil)

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrInput, "negative count")
	}
	return nil
}

func (c *counter) Copy() CloneableData {
	return &counter{Count: c.Count, Tags: append([]string(nil), c.Tags...)}
}

// Marshal writes the count followed by length prefixed tags.
func (c *counter) Marshal() ([]byte, error) {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, uint64(c.Count))
	for _, t := range c.Tags {
		out = append(out, byte(len(t)))
		out = append(out, t...)
	}
	return out, nil
}

func (c *counter) Unmarshal(raw []byte) error {
	if len(raw) < 8 {
		return errors.Wrap(errors.ErrInput, "too short")
	}
	c.Count = int64(binary.BigEndian.Uint64(raw))
	c.Tags = nil
	for rest := raw[8:]; len(rest) > 0; {
		n := int(rest[0])
		if len(rest) < n+1 {
			return errors.Wrap(errors.ErrInput, "truncated tag")
		}
		c.Tags = append(c.Tags, string(rest[1:n+1]))
		rest = rest[n+1:]
	}
	return nil
}

func newCounter(key string, count int64, tags ...string) *SimpleObj {
	return NewSimpleObj([]byte(key), &counter{Count: count, Tags: tags})
}

func tagIndexer(obj Object) ([][]byte, error) {
	c := obj.Value().(*counter)
	keys := make([][]byte, len(c.Tags))
	for i, t := range c.Tags {
		keys[i] = []byte(t)
	}
	return keys, nil
}

// countIndexer indexes by the count. Zero counts are not indexed.
func countIndexer(obj Object) ([]byte, error) {
	c := obj.Value().(*counter)
	if c.Count == 0 {
		return nil, nil
	}
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, uint64(c.Count))
	return out, nil
}
