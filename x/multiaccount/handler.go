package multiaccount

import (
	"fmt"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/gconf"
	"github.com/iov-one/quorum/x"
)

const (
	registerAccountCost int64 = 10
	proposeCallCost     int64 = 5
	cancelApprovalCost  int64 = 1
)

// RegisterRoutes will instantiate and register all handlers in this package.
// Approved calls are executed by dispatcher and events are reported through
// quorum.ContextSink.
func RegisterRoutes(r quorum.Registry, auth x.Authenticator, dispatcher Dispatcher) {
	registry := NewRegistry(quorum.ContextSink)
	ledger := NewLedger(registry, dispatcher, quorum.ContextSink)
	r.Handle(pathRegisterAccountMsg, &registerAccountHandler{auth: auth, registry: registry})
	r.Handle(pathProposeCallMsg, &proposeCallHandler{auth: auth, ledger: ledger})
	r.Handle(pathCancelApprovalMsg, &cancelApprovalHandler{auth: auth, ledger: ledger})
	r.Handle(pathUpdateConfigurationMsg, gconf.NewUpdateConfigurationHandler(packageName, &Configuration{}, auth))
}

// RegisterQuery registers the buckets of this package:
//
//	/multiaccounts            account by id
//	/multiaccounts/signatory  accounts by signatory
//	/multiaccounts/approvals  pending calls, prefix query by account id
//	/multiaccounts/executed   executed calls by hash
func RegisterQuery(qr quorum.QueryRouter) {
	NewAccountBucket().Register("multiaccounts", qr)
	NewApprovalBucket().Register("multiaccounts/approvals", qr)
	NewExecutedBucket().Register("multiaccounts/executed", qr)
}

type registerAccountHandler struct {
	auth     x.Authenticator
	registry Registry
}

var _ quorum.Handler = (*registerAccountHandler)(nil)

func (h *registerAccountHandler) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{GasAllocated: registerAccountCost}, nil
}

func (h *registerAccountHandler) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	msg, id, signatories, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.registry.Register(ctx, db, id, signatories, msg.Threshold); err != nil {
		return nil, err
	}
	return &quorum.DeliverResult{Data: id}, nil
}

// validate returns the message, the account id and the canonical
// signatories.
func (h *registerAccountHandler) validate(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*RegisterAccountMsg, quorum.Address, Signatories, error) {
	var msg RegisterAccountMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	sender, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, nil, err
	}
	max, err := h.registry.MaxSignatories(db)
	if err != nil {
		return nil, nil, nil, err
	}
	signatories, err := Canonicalize(sender, msg.OtherSignatories, max)
	if err != nil {
		return nil, nil, nil, err
	}
	id := msg.ID
	if len(id) == 0 {
		id = DeriveAccountID(signatories, uint16(msg.Threshold))
	}
	return &msg, id, signatories, nil
}

type proposeCallHandler struct {
	auth   x.Authenticator
	ledger Ledger
}

var _ quorum.Handler = (*proposeCallHandler)(nil)

// Check verifies that the sender may approve calls of the account. Quorum
// detection only happens on Deliver.
func (h *proposeCallHandler) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	msg, sender, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.ledger.signatoryAccount(db, msg.AccountID, sender); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{GasAllocated: proposeCallCost}, nil
}

func (h *proposeCallHandler) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	msg, sender, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	res, err := h.ledger.ProposeOrApprove(ctx, db, msg.AccountID, sender, msg.Call)
	if err != nil {
		return nil, err
	}
	return &quorum.DeliverResult{Data: res.CallHash[:], Log: approvalLog(res)}, nil
}

func approvalLog(res *ApprovalResult) string {
	switch {
	case res.AlreadyExecuted:
		return "call already executed"
	case res.Quorum && res.DispatchErr != nil:
		return fmt.Sprintf("quorum reached, execution failed: %s", res.DispatchErr)
	case res.Quorum:
		return "quorum reached, call executed"
	default:
		return fmt.Sprintf("%d of %d approvals", res.Approvals, res.Threshold)
	}
}

func (h *proposeCallHandler) validate(ctx quorum.Context, tx quorum.Tx) (*ProposeCallMsg, quorum.Address, error) {
	var msg ProposeCallMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	sender, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, sender, nil
}

type cancelApprovalHandler struct {
	auth   x.Authenticator
	ledger Ledger
}

var _ quorum.Handler = (*cancelApprovalHandler)(nil)

func (h *cancelApprovalHandler) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	msg, sender, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.ledger.signatoryAccount(db, msg.AccountID, sender); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{GasAllocated: cancelApprovalCost}, nil
}

func (h *cancelApprovalHandler) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	msg, sender, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	hash, err := ParseCallHash(msg.CallHash)
	if err != nil {
		return nil, err
	}
	left, err := h.ledger.Cancel(ctx, db, msg.AccountID, sender, hash)
	if err != nil {
		return nil, err
	}
	return &quorum.DeliverResult{Log: fmt.Sprintf("%d approvals left", left)}, nil
}

func (h *cancelApprovalHandler) validate(ctx quorum.Context, tx quorum.Tx) (*CancelApprovalMsg, quorum.Address, error) {
	var msg CancelApprovalMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	sender, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, sender, nil
}
