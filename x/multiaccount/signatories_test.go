package multiaccount

import (
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/quorumtest"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"
)

// seq returns ordered addresses built from the given numbers.
func seq(ns ...uint64) []quorum.Address {
	out := make([]quorum.Address, len(ns))
	for i, n := range ns {
		out[i] = quorumtest.SequenceAddress(n)
	}
	return out
}

func TestCanonicalize(t *testing.T) {
	Convey("Given ordered co-signatories", t, func() {
		others := seq(2, 4, 6)

		Convey("the sender is inserted at its sorted position", func() {
			for who, want := range map[uint64][]uint64{
				1: {1, 2, 4, 6},
				3: {2, 3, 4, 6},
				5: {2, 4, 5, 6},
				7: {2, 4, 6, 7},
			} {
				got, err := Canonicalize(quorumtest.SequenceAddress(who), others, DefaultMaxSignatories)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, Signatories(seq(want...)))
			}
		})

		Convey("the input is not modified", func() {
			_, err := Canonicalize(quorumtest.SequenceAddress(3), others, DefaultMaxSignatories)
			So(err, ShouldBeNil)
			So(others, ShouldResemble, seq(2, 4, 6))
		})

		Convey("every sender converges on the same set", func() {
			a, err := Canonicalize(quorumtest.SequenceAddress(2), seq(1, 3), DefaultMaxSignatories)
			So(err, ShouldBeNil)
			b, err := Canonicalize(quorumtest.SequenceAddress(1), seq(2, 3), DefaultMaxSignatories)
			So(err, ShouldBeNil)
			c, err := Canonicalize(quorumtest.SequenceAddress(3), seq(1, 2), DefaultMaxSignatories)
			So(err, ShouldBeNil)
			So(a, ShouldResemble, b)
			So(b, ShouldResemble, c)
		})

		Convey("a sender among them is rejected", func() {
			_, err := Canonicalize(quorumtest.SequenceAddress(4), others, DefaultMaxSignatories)
			So(ErrSenderInSignatories.Is(err), ShouldBeTrue)
		})

		Convey("the limit includes the sender", func() {
			_, err := Canonicalize(quorumtest.SequenceAddress(1), others, 3)
			So(ErrTooManySignatories.Is(err), ShouldBeTrue)

			got, err := Canonicalize(quorumtest.SequenceAddress(1), others, 4)
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 4)
		})
	})

	Convey("Given co-signatories out of order", t, func() {
		Convey("descending pairs are rejected", func() {
			_, err := Canonicalize(quorumtest.SequenceAddress(1), seq(3, 2), DefaultMaxSignatories)
			So(ErrSignatoriesOutOfOrder.Is(err), ShouldBeTrue)
		})
		Convey("duplicates are rejected", func() {
			_, err := Canonicalize(quorumtest.SequenceAddress(1), seq(2, 2), DefaultMaxSignatories)
			So(ErrSignatoriesOutOfOrder.Is(err), ShouldBeTrue)
		})
	})

	Convey("Given no co-signatories", t, func() {
		got, err := Canonicalize(quorumtest.SequenceAddress(9), nil, DefaultMaxSignatories)
		So(err, ShouldBeNil)
		So(got, ShouldResemble, Signatories(seq(9)))
	})
}

func TestSignatoriesInsertRemove(t *testing.T) {
	s := Signatories(seq(2, 4))

	got, err := s.Insert(quorumtest.SequenceAddress(3), 10)
	require.NoError(t, err)
	require.Equal(t, Signatories(seq(2, 3, 4)), got)
	require.Equal(t, Signatories(seq(2, 4)), s)

	_, err = got.Insert(quorumtest.SequenceAddress(3), 10)
	require.True(t, ErrSenderInSignatories.Is(err))

	_, err = got.Insert(quorumtest.SequenceAddress(1), 3)
	require.True(t, ErrTooManySignatories.Is(err))

	require.True(t, got.Contains(quorumtest.SequenceAddress(4)))
	require.False(t, got.Contains(quorumtest.SequenceAddress(5)))

	left, ok := got.Remove(quorumtest.SequenceAddress(2))
	require.True(t, ok)
	require.Equal(t, Signatories(seq(3, 4)), left)

	_, ok = left.Remove(quorumtest.SequenceAddress(2))
	require.False(t, ok)
}

func TestSignatoriesValidate(t *testing.T) {
	require.NoError(t, Signatories(seq(1, 2, 3)).Validate())
	require.NoError(t, Signatories(nil).Validate())

	err := Signatories(seq(1, 3, 2)).Validate()
	require.True(t, ErrSignatoriesOutOfOrder.Is(err))

	err = Signatories{quorum.Address("short")}.Validate()
	require.Error(t, err)
}
