package multiaccount

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"golang.org/x/crypto/blake2b"
)

// deriveDomain separates account identifiers from any other digest
// computed over the same data.
const deriveDomain = "multiaccount/derive"

// DeriveAccountID returns the identifier of the account controlled by the
// signatories with the given threshold.
//
// The digest covers the domain tag, the member count, every member with its
// length and the threshold as a big endian uint16, and is truncated to the
// address length. The set must be canonical: an unsorted set derives a
// different identifier and no error is reported.
func DeriveAccountID(s Signatories, threshold uint16) quorum.Address {
	h, err := blake2b.New256(nil)
	if err != nil {
		// Only a key longer than 64 bytes is rejected.
		panic(err)
	}
	var buf [4]byte
	_, _ = h.Write([]byte(deriveDomain))
	binary.BigEndian.PutUint32(buf[:], uint32(len(s)))
	_, _ = h.Write(buf[:])
	for _, a := range s {
		binary.BigEndian.PutUint16(buf[:2], uint16(len(a)))
		_, _ = h.Write(buf[:2])
		_, _ = h.Write(a)
	}
	binary.BigEndian.PutUint16(buf[:2], threshold)
	_, _ = h.Write(buf[:2])
	return quorum.Address(h.Sum(nil)[:quorum.AddressLength])
}

// CallHash identifies a call by its content.
type CallHash [blake2b.Size256]byte

// String returns the upper case hex representation.
func (h CallHash) String() string {
	return strings.ToUpper(hex.EncodeToString(h[:]))
}

// HashCall returns the digest of the serialized call.
func HashCall(call []byte) CallHash {
	return CallHash(blake2b.Sum256(call))
}

// ParseCallHash converts raw bytes into a CallHash.
func ParseCallHash(raw []byte) (CallHash, error) {
	var h CallHash
	if len(raw) != len(h) {
		return h, errors.Wrapf(errors.ErrInput, "call hash must be %d bytes, got %d", len(h), len(raw))
	}
	copy(h[:], raw)
	return h, nil
}
