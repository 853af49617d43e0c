package app

import "github.com/gogo/protobuf/proto"

// msgPB is the envelope written by MsgCodec. The path selects the message
// type the payload is decoded into.
type msgPB struct {
	Path    string `protobuf:"bytes,1,opt,name=path,proto3" json:"path,omitempty"`
	Payload []byte `protobuf:"bytes,2,opt,name=payload,proto3" json:"payload,omitempty"`
}

func (m *msgPB) Reset()         { *m = msgPB{} }
func (m *msgPB) String() string { return proto.CompactTextString(m) }
func (*msgPB) ProtoMessage()    {}

// txPB holds each signature in its own encoding, which on the wire is the
// same as an embedded message.
type txPB struct {
	Signatures [][]byte `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
	Payload    []byte   `protobuf:"bytes,2,opt,name=payload,proto3" json:"payload,omitempty"`
}

func (m *txPB) Reset()         { *m = txPB{} }
func (m *txPB) String() string { return proto.CompactTextString(m) }
func (*txPB) ProtoMessage()    {}
