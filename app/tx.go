package app

import (
	"reflect"
	"sync"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/sigs"
)

// MsgCodec serializes messages together with their path, so that the
// message type can be recovered when decoding.
type MsgCodec struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewMsgCodec returns a codec that knows the given message types.
func NewMsgCodec(msgs ...quorum.Msg) *MsgCodec {
	c := &MsgCodec{types: make(map[string]reflect.Type)}
	for _, m := range msgs {
		c.Register(m)
	}
	return c
}

// Register adds the type of msg. Registering the same path twice panics.
func (c *MsgCodec) Register(msg quorum.Msg) {
	t := reflect.TypeOf(msg)
	if t.Kind() != reflect.Ptr {
		panic("message must be registered as a pointer")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.types[msg.Path()]; ok {
		panic("message registered twice: " + msg.Path())
	}
	c.types[msg.Path()] = t.Elem()
}

// EncodeMsg serializes the message together with its path.
func (c *MsgCodec) EncodeMsg(msg quorum.Msg) ([]byte, error) {
	if msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "message")
	}
	payload, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", msg.Path())
	}
	return proto.Marshal(&msgPB{Path: msg.Path(), Payload: payload})
}

// DecodeMsg is the inverse of EncodeMsg.
func (c *MsgCodec) DecodeMsg(raw []byte) (quorum.Msg, error) {
	var env msgPB
	if err := proto.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	path := env.Path

	c.mu.RLock()
	t, ok := c.types[path]
	c.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrNoSuchPath, "unknown message %q", path)
	}
	msg := reflect.New(t).Interface().(quorum.Msg)
	if err := msg.Unmarshal(env.Payload); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return msg, nil
}

// NewTx returns an unsigned transaction carrying msg.
func (c *MsgCodec) NewTx(msg quorum.Msg) (*Tx, error) {
	payload, err := c.EncodeMsg(msg)
	if err != nil {
		return nil, err
	}
	return &Tx{Payload: payload, msg: msg}, nil
}

// DecodeTx parses a serialized transaction and its message.
func (c *MsgCodec) DecodeTx(raw []byte) (quorum.Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	msg, err := c.DecodeMsg(tx.Payload)
	if err != nil {
		return nil, err
	}
	tx.msg = msg
	return &tx, nil
}

// Tx is a signed transaction carrying a single encoded message.
type Tx struct {
	Signatures []*sigs.StdSignature
	// Payload is the message encoded with MsgCodec.
	Payload []byte

	msg quorum.Msg
}

var _ quorum.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// GetMsg returns the message decoded by the codec.
func (tx *Tx) GetMsg() (quorum.Msg, error) {
	if tx.msg == nil {
		return nil, errors.Wrap(errors.ErrState, "message not decoded")
	}
	return tx.msg, nil
}

// GetSignBytes returns the transaction without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	return (&Tx{Payload: tx.Payload}).Marshal()
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// Sign appends a signature of key holder with the given sequence.
func (tx *Tx) Sign(key *crypto.KeyPair, chainID string, seq int64) error {
	sig, err := sigs.SignTx(key, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	m := txPB{Payload: tx.Payload}
	for _, s := range tx.Signatures {
		raw, err := s.Marshal()
		if err != nil {
			return nil, err
		}
		m.Signatures = append(m.Signatures, raw)
	}
	return proto.Marshal(&m)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	var m txPB
	if err := proto.Unmarshal(raw, &m); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*tx = Tx{Payload: m.Payload}
	for _, raw := range m.Signatures {
		var s sigs.StdSignature
		if err := s.Unmarshal(raw); err != nil {
			return errors.Wrap(err, "signature")
		}
		tx.Signatures = append(tx.Signatures, &s)
	}
	return nil
}
