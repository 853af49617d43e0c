package app

import (
	"testing"

	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMsgCodec(t *testing.T) {
	c := NewMsgCodec(&echoMsg{})
	assert.Panics(t, func() { c.Register(&echoMsg{}) })

	raw, err := c.EncodeMsg(&echoMsg{Key: "k", Text: "hello"})
	require.NoError(t, err)
	msg, err := c.DecodeMsg(raw)
	require.NoError(t, err)
	assert.Equal(t, &echoMsg{Key: "k", Text: "hello"}, msg)

	_, err = NewMsgCodec().DecodeMsg(raw)
	assert.True(t, ErrNoSuchPath.Is(err))

	_, err = c.DecodeMsg([]byte{0x0a, 0x05, 'a'})
	assert.True(t, errors.ErrInput.Is(err))

	_, err = c.EncodeMsg(nil)
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestTxRoundTrip(t *testing.T) {
	const chainID = "test-chain"
	c := NewMsgCodec(&echoMsg{})
	key := quorumtest.NewKey()

	tx, err := c.NewTx(&echoMsg{Key: "k", Text: "signed"})
	require.NoError(t, err)
	require.NoError(t, tx.Sign(key, chainID, 3))
	require.Len(t, tx.Signatures, 1)

	raw, err := tx.Marshal()
	require.NoError(t, err)

	decoded, err := c.DecodeTx(raw)
	require.NoError(t, err)
	dtx := decoded.(*Tx)
	assert.Equal(t, tx.Payload, dtx.Payload)
	assert.Equal(t, tx.Signatures, dtx.Signatures)

	msg, err := dtx.GetMsg()
	require.NoError(t, err)
	assert.Equal(t, &echoMsg{Key: "k", Text: "signed"}, msg)

	// Sign bytes do not depend on the signatures.
	a, err := tx.GetSignBytes()
	require.NoError(t, err)
	b, err := (&Tx{Payload: tx.Payload}).GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	// The signature verifies against the decoded transaction.
	signBytes, err := dtx.GetSignBytes()
	require.NoError(t, err)
	toSign, err := sigs.BuildSignBytes(signBytes, chainID, 3)
	require.NoError(t, err)
	assert.True(t, key.Verify(toSign, dtx.Signatures[0].Signature))
}

func TestTxWithoutMsg(t *testing.T) {
	_, err := (&Tx{}).GetMsg()
	assert.True(t, errors.ErrState.Is(err))
}
