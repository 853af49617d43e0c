package crypto

import (
	"crypto/rand"
	"io"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the conditions of key holders.
const ExtensionName = "sigs"

// KeyPair holds an ed25519 private key together with the public part.
type KeyPair struct {
	Private ed25519.PrivateKey
	Public  ed25519.PublicKey
}

// GenKeyPair creates a new random key pair.
func GenKeyPair() (*KeyPair, error) {
	return genKeyPair(rand.Reader)
}

func genKeyPair(r io.Reader) (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(r)
	if err != nil {
		return nil, errors.Wrap(err, "generate ed25519 key")
	}
	return &KeyPair{Private: priv, Public: pub}, nil
}

// KeyPairFromSeed deterministically derives a key pair from a 32 byte
// seed.
func KeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed must be %d bytes", ed25519.SeedSize)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &KeyPair{Private: priv, Public: priv.Public().(ed25519.PublicKey)}, nil
}

// Condition returns the condition that represents the key holder.
func (k *KeyPair) Condition() quorum.Condition {
	return PublicKeyCondition(k.Public)
}

// Address returns the identity of the key holder.
func (k *KeyPair) Address() quorum.Address {
	return k.Condition().Address()
}

// Sign returns a signature of the message.
func (k *KeyPair) Sign(message []byte) []byte {
	return ed25519.Sign(k.Private, message)
}

// Verify returns true if the signature was created for the message using the
// private part of this key pair.
func (k *KeyPair) Verify(message, sig []byte) bool {
	return ed25519.Verify(k.Public, message, sig)
}

// PublicKeyCondition returns the condition of the holder of an ed25519
// public key.
func PublicKeyCondition(pub []byte) quorum.Condition {
	return quorum.NewCondition(ExtensionName, "ed25519", pub)
}

// VerifySignature returns true if sig is a valid ed25519 signature of
// message created with the private part of pub.
func VerifySignature(pub, message, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), message, sig)
}
