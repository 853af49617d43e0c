package multiaccount

import (
	"strconv"

	"github.com/iov-one/quorum"
	"github.com/tendermint/tendermint/libs/common"
)

// Event kinds emitted by this package.
const (
	KindAccountRegistered = "multiaccount/registered"
	KindCallApproved      = "multiaccount/approved"
	KindCallExecuted      = "multiaccount/executed"
	KindApprovalCancelled = "multiaccount/cancelled"
)

func tag(key, value string) common.KVPair {
	return common.KVPair{Key: []byte("multiaccount." + key), Value: []byte(value)}
}

// AccountRegistered is emitted every time an account record is written,
// including when an existing record is overwritten.
type AccountRegistered struct {
	ID          quorum.Address
	Signatories Signatories
	Threshold   uint32
}

func (AccountRegistered) EventKind() string { return KindAccountRegistered }

func (e AccountRegistered) Tags() []common.KVPair {
	tags := []common.KVPair{
		tag("event", KindAccountRegistered),
		tag("account", e.ID.String()),
		tag("threshold", strconv.FormatUint(uint64(e.Threshold), 10)),
	}
	for _, s := range e.Signatories {
		tags = append(tags, tag("signatory", s.String()))
	}
	return tags
}

// CallApproved is emitted for every accepted approval, including the one
// completing the quorum.
type CallApproved struct {
	Account   quorum.Address
	CallHash  CallHash
	Signer    quorum.Address
	Approvals int
	Threshold uint32
}

func (CallApproved) EventKind() string { return KindCallApproved }

func (e CallApproved) Tags() []common.KVPair {
	return []common.KVPair{
		tag("event", KindCallApproved),
		tag("account", e.Account.String()),
		tag("call", e.CallHash.String()),
		tag("signer", e.Signer.String()),
		tag("approvals", strconv.Itoa(e.Approvals)),
	}
}

// CallExecuted is emitted when a call reached the quorum and was handed to
// the dispatcher. Failed is set when the dispatcher returned an error.
type CallExecuted struct {
	Account  quorum.Address
	CallHash CallHash
	Failed   bool
}

func (CallExecuted) EventKind() string { return KindCallExecuted }

func (e CallExecuted) Tags() []common.KVPair {
	return []common.KVPair{
		tag("event", KindCallExecuted),
		tag("account", e.Account.String()),
		tag("call", e.CallHash.String()),
		tag("failed", strconv.FormatBool(e.Failed)),
	}
}

// ApprovalCancelled is emitted when a signatory withdraws its approval.
type ApprovalCancelled struct {
	Account   quorum.Address
	CallHash  CallHash
	Signer    quorum.Address
	Remaining int
}

func (ApprovalCancelled) EventKind() string { return KindApprovalCancelled }

func (e ApprovalCancelled) Tags() []common.KVPair {
	return []common.KVPair{
		tag("event", KindApprovalCancelled),
		tag("account", e.Account.String()),
		tag("call", e.CallHash.String()),
		tag("signer", e.Signer.String()),
		tag("approvals", strconv.Itoa(e.Remaining)),
	}
}
