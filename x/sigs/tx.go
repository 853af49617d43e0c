package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quorum/errors"
	"golang.org/x/crypto/ed25519"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// transaction without signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signatures of the signers.
	GetSignatures() []*StdSignature
}

// StdSignature is an ed25519 signature together with the public key of the
// signer and the sequence the signature was created for.
type StdSignature struct {
	Pubkey    []byte
	Signature []byte
	Sequence  int64
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(s.Pubkey) != ed25519.PublicKeySize {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if len(s.Signature) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	return proto.Marshal(&stdSignaturePB{Pubkey: s.Pubkey, Signature: s.Signature, Sequence: s.Sequence})
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	var m stdSignaturePB
	if err := proto.Unmarshal(raw, &m); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*s = StdSignature{Pubkey: m.Pubkey, Signature: m.Signature, Sequence: m.Sequence}
	return nil
}
