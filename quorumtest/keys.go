package quorumtest

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/crypto"
)

// NewKey returns a random key pair.
func NewKey() *crypto.KeyPair {
	k, err := crypto.GenKeyPair()
	if err != nil {
		panic(err)
	}
	return k
}

// NewCondition returns the condition of a random key holder.
func NewCondition() quorum.Condition {
	return NewKey().Condition()
}

var addrSeq uint64

// SequenceAddress returns an address built from the big endian
// representation of n, so that addresses created with ascending numbers are
// ordered the same way.
func SequenceAddress(n uint64) quorum.Address {
	addr := make(quorum.Address, quorum.AddressLength)
	binary.BigEndian.PutUint64(addr[quorum.AddressLength-8:], n)
	return addr
}

// NewAddress returns a unique address, greater than any address returned
// by a previous call.
func NewAddress() quorum.Address {
	return SequenceAddress(atomic.AddUint64(&addrSeq, 1) + 1<<32)
}
