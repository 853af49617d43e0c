package multiaccount

import (
	"sort"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// DefaultMaxSignatories is used when no configuration was stored.
const DefaultMaxSignatories = 100

// Signatories is a strictly ascending set of identities. The zero value is
// an empty set. Methods never modify the receiver.
type Signatories []quorum.Address

// search returns the position of a, or the position it would be inserted
// at to keep the set ordered.
func (s Signatories) search(a quorum.Address) (int, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i].Compare(a) >= 0 })
	return i, i < len(s) && s[i].Equals(a)
}

// Contains returns true if a is a member of the set.
func (s Signatories) Contains(a quorum.Address) bool {
	_, ok := s.search(a)
	return ok
}

// Insert returns a new set with a added at its sorted position.
// ErrSenderInSignatories is returned when a is already a member and
// ErrTooManySignatories when the set would grow past max.
func (s Signatories) Insert(a quorum.Address, max int) (Signatories, error) {
	i, ok := s.search(a)
	if ok {
		return nil, errors.Wrapf(ErrSenderInSignatories, "%s already present", a)
	}
	if len(s)+1 > max {
		return nil, errors.Wrapf(ErrTooManySignatories, "limit is %d", max)
	}
	out := make(Signatories, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, a.Clone())
	out = append(out, s[i:]...)
	return out, nil
}

// Remove returns a new set without a. The second value is false when a was
// not a member.
func (s Signatories) Remove(a quorum.Address) (Signatories, bool) {
	i, ok := s.search(a)
	if !ok {
		return s, false
	}
	out := make(Signatories, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...), true
}

// Filter returns the members for which keep returns true. The first error
// returned by keep is passed through.
func (s Signatories) Filter(keep func(quorum.Address) (bool, error)) (Signatories, error) {
	out := make(Signatories, 0, len(s))
	for _, a := range s {
		ok, err := keep(a)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// Validate checks that every member is a valid address and that the set is
// strictly ascending.
func (s Signatories) Validate() error {
	for i, a := range s {
		if err := a.Validate(); err != nil {
			return errors.Field("Signatories", err, "signatory %d", i)
		}
		if i > 0 && s[i-1].Compare(a) >= 0 {
			return errors.Wrapf(ErrSignatoriesOutOfOrder, "position %d", i)
		}
	}
	return nil
}

// Clone returns a deep copy of the set.
func (s Signatories) Clone() Signatories {
	if s == nil {
		return nil
	}
	out := make(Signatories, len(s))
	for i, a := range s {
		out[i] = a.Clone()
	}
	return out
}

// Canonicalize returns the ascending set containing who and others.
//
// others must be strictly ascending and must not contain who. Ordering and
// membership are checked and the insertion point of who is found in a single
// pass. Neither argument is modified.
func Canonicalize(who quorum.Address, others []quorum.Address, max int) (Signatories, error) {
	index := 0
	for i, item := range others {
		if i > 0 && others[i-1].Compare(item) >= 0 {
			return nil, errors.Wrapf(ErrSignatoriesOutOfOrder, "position %d", i)
		}
		if c := item.Compare(who); c <= 0 {
			if c == 0 {
				return nil, errors.Wrapf(ErrSenderInSignatories, "position %d", i)
			}
			index++
		}
	}
	if len(others)+1 > max {
		return nil, errors.Wrapf(ErrTooManySignatories, "%d signatories, limit is %d", len(others)+1, max)
	}

	out := make(Signatories, 0, len(others)+1)
	for _, a := range others[:index] {
		out = append(out, a.Clone())
	}
	out = append(out, who.Clone())
	for _, a := range others[index:] {
		out = append(out, a.Clone())
	}
	return out, nil
}
