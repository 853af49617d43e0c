package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x"
)

// echoMsg is a message used in tests. Its handler stores Text under Key.
type echoMsg struct {
	Key  string
	Text string
}

var _ quorum.Msg = (*echoMsg)(nil)

type echoMsgPB struct {
	Key  string `protobuf:"bytes,1,opt,name=key,proto3" json:"key,omitempty"`
	Text string `protobuf:"bytes,2,opt,name=text,proto3" json:"text,omitempty"`
}

func (m *echoMsgPB) Reset()         { *m = echoMsgPB{} }
func (m *echoMsgPB) String() string { return proto.CompactTextString(m) }
func (*echoMsgPB) ProtoMessage()    {}

func (echoMsg) Path() string { return "test/echo" }

func (m *echoMsg) Validate() error {
	if m.Key == "" {
		return errors.Field("Key", errors.ErrEmpty, "required")
	}
	return nil
}

func (m *echoMsg) Marshal() ([]byte, error) {
	return proto.Marshal(&echoMsgPB{Key: m.Key, Text: m.Text})
}

func (m *echoMsg) Unmarshal(raw []byte) error {
	var pb echoMsgPB
	if err := proto.Unmarshal(raw, &pb); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*m = echoMsg{Key: pb.Key, Text: pb.Text}
	return nil
}

// echoHandler writes the message text and returns the signers it saw.
type echoHandler struct {
	auth x.Authenticator
}

func (h echoHandler) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	var msg echoMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{GasAllocated: 1}, nil
}

func (h echoHandler) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	var msg echoMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if msg.Text == "fail" {
		return nil, errors.Wrap(errors.ErrHuman, "asked to fail")
	}
	if err := db.Set([]byte(msg.Key), []byte(msg.Text)); err != nil {
		return nil, err
	}
	res := &quorum.DeliverResult{Data: []byte(msg.Text)}
	if h.auth != nil {
		for _, c := range h.auth.GetConditions(ctx) {
			res.Log += c.Address().String() + ";"
		}
	}
	return res, nil
}
