package multiaccount

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quorum"
)

// Protobuf representations of the models and messages. They are encoded by
// reflection on the struct tags. Field numbers must never be reused.

type accountPB struct {
	Signatories [][]byte `protobuf:"bytes,1,rep,name=signatories,proto3" json:"signatories,omitempty"`
	Threshold   uint32   `protobuf:"varint,2,opt,name=threshold,proto3" json:"threshold,omitempty"`
}

func (m *accountPB) Reset()         { *m = accountPB{} }
func (m *accountPB) String() string { return proto.CompactTextString(m) }
func (*accountPB) ProtoMessage()    {}

type approvalsPB struct {
	Signatories [][]byte `protobuf:"bytes,1,rep,name=signatories,proto3" json:"signatories,omitempty"`
}

func (m *approvalsPB) Reset()         { *m = approvalsPB{} }
func (m *approvalsPB) String() string { return proto.CompactTextString(m) }
func (*approvalsPB) ProtoMessage()    {}

type executedCallPB struct {
	Account []byte `protobuf:"bytes,1,opt,name=account,proto3" json:"account,omitempty"`
	Height  int64  `protobuf:"varint,2,opt,name=height,proto3" json:"height,omitempty"`
}

func (m *executedCallPB) Reset()         { *m = executedCallPB{} }
func (m *executedCallPB) String() string { return proto.CompactTextString(m) }
func (*executedCallPB) ProtoMessage()    {}

type configurationPB struct {
	Owner          []byte `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	MaxSignatories uint32 `protobuf:"varint,2,opt,name=max_signatories,json=maxSignatories,proto3" json:"max_signatories,omitempty"`
}

func (m *configurationPB) Reset()         { *m = configurationPB{} }
func (m *configurationPB) String() string { return proto.CompactTextString(m) }
func (*configurationPB) ProtoMessage()    {}

func (m *configurationPB) fromModel(c *Configuration) *configurationPB {
	m.Owner = c.Owner
	m.MaxSignatories = c.MaxSignatories
	return m
}

func (m *configurationPB) toModel() *Configuration {
	return &Configuration{Owner: m.Owner, MaxSignatories: m.MaxSignatories}
}

type registerAccountMsgPB struct {
	ID               []byte   `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	OtherSignatories [][]byte `protobuf:"bytes,2,rep,name=other_signatories,json=otherSignatories,proto3" json:"other_signatories,omitempty"`
	Threshold        uint32   `protobuf:"varint,3,opt,name=threshold,proto3" json:"threshold,omitempty"`
}

func (m *registerAccountMsgPB) Reset()         { *m = registerAccountMsgPB{} }
func (m *registerAccountMsgPB) String() string { return proto.CompactTextString(m) }
func (*registerAccountMsgPB) ProtoMessage()    {}

type proposeCallMsgPB struct {
	AccountID []byte `protobuf:"bytes,1,opt,name=account_id,json=accountId,proto3" json:"account_id,omitempty"`
	Call      []byte `protobuf:"bytes,2,opt,name=call,proto3" json:"call,omitempty"`
}

func (m *proposeCallMsgPB) Reset()         { *m = proposeCallMsgPB{} }
func (m *proposeCallMsgPB) String() string { return proto.CompactTextString(m) }
func (*proposeCallMsgPB) ProtoMessage()    {}

type cancelApprovalMsgPB struct {
	AccountID []byte `protobuf:"bytes,1,opt,name=account_id,json=accountId,proto3" json:"account_id,omitempty"`
	CallHash  []byte `protobuf:"bytes,2,opt,name=call_hash,json=callHash,proto3" json:"call_hash,omitempty"`
}

func (m *cancelApprovalMsgPB) Reset()         { *m = cancelApprovalMsgPB{} }
func (m *cancelApprovalMsgPB) String() string { return proto.CompactTextString(m) }
func (*cancelApprovalMsgPB) ProtoMessage()    {}

type updateConfigurationMsgPB struct {
	Patch *configurationPB `protobuf:"bytes,1,opt,name=patch,proto3" json:"patch,omitempty"`
}

func (m *updateConfigurationMsgPB) Reset()         { *m = updateConfigurationMsgPB{} }
func (m *updateConfigurationMsgPB) String() string { return proto.CompactTextString(m) }
func (*updateConfigurationMsgPB) ProtoMessage()    {}

func rawAddresses(addrs []quorum.Address) [][]byte {
	if len(addrs) == 0 {
		return nil
	}
	out := make([][]byte, len(addrs))
	for i, a := range addrs {
		out[i] = a
	}
	return out
}

func addresses(raw [][]byte) []quorum.Address {
	if len(raw) == 0 {
		return nil
	}
	out := make([]quorum.Address, len(raw))
	for i, b := range raw {
		out[i] = b
	}
	return out
}
