package multiaccount

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// Dispatcher executes a call that reached the quorum. The context
// authenticates the multi-account as the caller.
type Dispatcher interface {
	Dispatch(ctx quorum.Context, db quorum.KVStore, account quorum.Address, call []byte) error
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx quorum.Context, db quorum.KVStore, account quorum.Address, call []byte) error

func (fn DispatcherFunc) Dispatch(ctx quorum.Context, db quorum.KVStore, account quorum.Address, call []byte) error {
	return fn(ctx, db, account, call)
}

// ApprovalResult describes the state of a call after an approval.
type ApprovalResult struct {
	CallHash CallHash
	// Approvals is the number of approvals counted, including the
	// caller's.
	Approvals int
	Threshold uint32
	// Quorum is set when this approval executed the call.
	Quorum bool
	// AlreadyExecuted is set when the call was executed before and the
	// approval was ignored.
	AlreadyExecuted bool
	// DispatchErr is the error returned by the dispatcher, if any. It does
	// not revert the approval.
	DispatchErr error
}

// Ledger tracks approvals of pending calls and executes calls that reached
// the quorum.
type Ledger struct {
	registry   Registry
	approvals  ApprovalBucket
	executed   ExecutedBucket
	dispatcher Dispatcher
	sink       quorum.EventSink
}

// NewLedger returns a ledger that hands executed calls to dispatcher and
// reports approvals to sink.
func NewLedger(registry Registry, dispatcher Dispatcher, sink quorum.EventSink) Ledger {
	if sink == nil {
		sink = quorum.NopEventSink
	}
	return Ledger{
		registry:   registry,
		approvals:  NewApprovalBucket(),
		executed:   NewExecutedBucket(),
		dispatcher: dispatcher,
		sink:       sink,
	}
}

// ProposeOrApprove records the approval of the call by caller. The first
// approval proposes the call. The approval that brings the count to the
// threshold of the account executes the call.
//
// Nothing is written unless all checks pass. Approving a call that was
// already executed, by any account, is a no-op.
func (l Ledger) ProposeOrApprove(ctx quorum.Context, db quorum.KVStore, account, caller quorum.Address, call []byte) (*ApprovalResult, error) {
	acc, err := l.signatoryAccount(db, account, caller)
	if err != nil {
		return nil, err
	}

	res := &ApprovalResult{CallHash: HashCall(call), Threshold: acc.Threshold}
	switch done, err := l.executed.IsExecuted(db, res.CallHash); {
	case err != nil:
		return nil, errors.Wrap(err, "cannot check executed calls")
	case done:
		res.AlreadyExecuted = true
		return res, nil
	}

	approvals, err := l.currentApprovals(db, account, res.CallHash, acc)
	if err != nil {
		return nil, err
	}
	approvals, err = approvals.Insert(caller, len(acc.Signatories))
	if err != nil {
		return nil, errors.Wrap(err, "already approved")
	}
	res.Approvals = len(approvals)
	callsApproved.Inc()

	if res.Approvals < int(acc.Threshold) {
		if err := l.approvals.SaveApprovals(db, account, res.CallHash, &Approvals{Signatories: approvals}); err != nil {
			return nil, errors.Wrap(err, "cannot save approvals")
		}
		l.sink.Emit(ctx, CallApproved{
			Account:   account,
			CallHash:  res.CallHash,
			Signer:    caller,
			Approvals: res.Approvals,
			Threshold: acc.Threshold,
		})
		return res, nil
	}

	if err := l.executed.MarkExecuted(db, res.CallHash, &ExecutedCall{Account: account, Height: heightOf(ctx)}); err != nil {
		return nil, errors.Wrap(err, "cannot mark executed")
	}
	if err := l.approvals.DeleteApprovals(db, account, res.CallHash); err != nil {
		return nil, errors.Wrap(err, "cannot clear approvals")
	}
	res.Quorum = true
	l.sink.Emit(ctx, CallApproved{
		Account:   account,
		CallHash:  res.CallHash,
		Signer:    caller,
		Approvals: res.Approvals,
		Threshold: acc.Threshold,
	})

	res.DispatchErr = l.dispatch(ctx, db, account, call)
	l.sink.Emit(ctx, CallExecuted{Account: account, CallHash: res.CallHash, Failed: res.DispatchErr != nil})
	return res, nil
}

// dispatch executes the call in its own savepoint. A failed execution is
// logged and its writes are discarded, the approval bookkeeping stays.
func (l Ledger) dispatch(ctx quorum.Context, db quorum.KVStore, account quorum.Address, call []byte) error {
	logger := quorum.GetLogger(ctx).With("account", account, "call", HashCall(call))
	if l.dispatcher == nil {
		callsExecuted.WithLabelValues("skipped").Inc()
		logger.Info("quorum reached, no dispatcher")
		return nil
	}

	ctx = withAccount(ctx, account)
	var err error
	if cstore, ok := db.(quorum.CacheableKVStore); ok {
		cache := cstore.CacheWrap()
		if err = l.dispatcher.Dispatch(ctx, cache, account, call); err != nil {
			cache.Discard()
		} else {
			err = cache.Write()
		}
	} else {
		err = l.dispatcher.Dispatch(ctx, db, account, call)
	}

	if err != nil {
		callsExecuted.WithLabelValues("failed").Inc()
		logger.Error("call execution failed", "err", err)
		return err
	}
	callsExecuted.WithLabelValues("ok").Inc()
	logger.Info("call executed")
	return nil
}

// Cancel withdraws the approval of caller from a pending call. The pending
// call is removed together with its last approval. The number of remaining
// approvals is returned.
func (l Ledger) Cancel(ctx quorum.Context, db quorum.KVStore, account, caller quorum.Address, hash CallHash) (int, error) {
	acc, err := l.signatoryAccount(db, account, caller)
	if err != nil {
		return 0, err
	}
	switch done, err := l.executed.IsExecuted(db, hash); {
	case err != nil:
		return 0, errors.Wrap(err, "cannot check executed calls")
	case done:
		return 0, errors.Wrapf(ErrNoApprovalsNeeded, "call %s already executed", hash)
	}

	stored, err := l.approvals.GetApprovals(db, account, hash)
	if err != nil {
		return 0, errors.Wrap(err, "cannot load approvals")
	}
	if stored == nil {
		return 0, errors.Wrapf(errors.ErrNotFound, "no pending call %s", hash)
	}
	approvals, err := pruneStale(stored.Signatories, acc)
	if err != nil {
		return 0, err
	}
	approvals, ok := approvals.Remove(caller)
	if !ok {
		return 0, errors.Wrap(errors.ErrNotFound, "caller did not approve the call")
	}

	if len(approvals) == 0 {
		err = l.approvals.DeleteApprovals(db, account, hash)
	} else {
		err = l.approvals.SaveApprovals(db, account, hash, &Approvals{Signatories: approvals})
	}
	if err != nil {
		return 0, errors.Wrap(err, "cannot update approvals")
	}
	l.sink.Emit(ctx, ApprovalCancelled{Account: account, CallHash: hash, Signer: caller, Remaining: len(approvals)})
	return len(approvals), nil
}

// Approvals returns the current approvals of a pending call, excluding
// identities that are no longer signatories. A call that is not pending has
// no approvals.
func (l Ledger) Approvals(db quorum.ReadOnlyKVStore, account quorum.Address, hash CallHash) (Signatories, error) {
	acc, err := l.registry.Account(db, account)
	if err != nil {
		return nil, err
	}
	return l.currentApprovals(db, account, hash, acc)
}

// Executed returns the execution record of the call, or nil.
func (l Ledger) Executed(db quorum.ReadOnlyKVStore, hash CallHash) (*ExecutedCall, error) {
	return l.executed.GetExecuted(db, hash)
}

// Pending returns all pending calls of the account.
func (l Ledger) Pending(db quorum.ReadOnlyKVStore, account quorum.Address) ([]PendingCall, error) {
	return l.approvals.Pending(db, account)
}

func (l Ledger) signatoryAccount(db quorum.ReadOnlyKVStore, account, caller quorum.Address) (*Account, error) {
	acc, err := l.registry.Account(db, account)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrSignerIsNotApproved, "unknown account %s", account)
	case err != nil:
		return nil, errors.Wrap(err, "cannot load account")
	}
	if !acc.Signatories.Contains(caller) {
		return nil, errors.Wrapf(ErrSignerIsNotApproved, "%s is not a signatory", caller)
	}
	return acc, nil
}

func (l Ledger) currentApprovals(db quorum.ReadOnlyKVStore, account quorum.Address, hash CallHash, acc *Account) (Signatories, error) {
	stored, err := l.approvals.GetApprovals(db, account, hash)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load approvals")
	}
	if stored == nil {
		return nil, nil
	}
	return pruneStale(stored.Signatories, acc)
}

// pruneStale drops approvals of identities that are no longer signatories
// of the account, which happens when the account was registered again.
func pruneStale(approvals Signatories, acc *Account) (Signatories, error) {
	return approvals.Filter(func(a quorum.Address) (bool, error) {
		return acc.Signatories.Contains(a), nil
	})
}

func heightOf(ctx quorum.Context) int64 {
	h, _ := quorum.GetHeight(ctx)
	return h
}
