package multiaccount

import (
	"context"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/store"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// recordingDispatcher remembers every dispatched call and the account
// authenticated while it ran.
type recordingDispatcher struct {
	calls    [][]byte
	accounts []quorum.Address
	err      error
	write    *quorum.Model
}

func (d *recordingDispatcher) Dispatch(ctx quorum.Context, db quorum.KVStore, account quorum.Address, call []byte) error {
	d.calls = append(d.calls, call)
	d.accounts = append(d.accounts, Authenticate{}.GetConditions(ctx)[0].Address())
	if d.write != nil {
		if err := db.Set(d.write.Key, d.write.Value); err != nil {
			return err
		}
	}
	return d.err
}

type ledgerFixture struct {
	db       store.CacheableKVStore
	events   *quorum.EventRecorder
	disp     *recordingDispatcher
	registry Registry
	ledger   Ledger
	account  quorum.Address
}

// newLedgerFixture registers an account with signatories 1..6 and the given
// threshold.
func newLedgerFixture(t testing.TB, threshold uint32) *ledgerFixture {
	t.Helper()
	f := &ledgerFixture{
		db:     store.MemStore(),
		events: &quorum.EventRecorder{},
		disp:   &recordingDispatcher{},
	}
	f.registry = NewRegistry(f.events)
	f.ledger = NewLedger(f.registry, f.disp, f.events)

	signatories := Signatories(seq(1, 2, 3, 4, 5, 6))
	f.account = DeriveAccountID(signatories, uint16(threshold))
	require.NoError(t, f.registry.Register(context.Background(), f.db, f.account, signatories, threshold))
	f.events.Reset()
	return f
}

func (f *ledgerFixture) approve(t testing.TB, who uint64, call string) (*ApprovalResult, error) {
	t.Helper()
	return f.ledger.ProposeOrApprove(context.Background(), f.db, f.account, quorumtest.SequenceAddress(who), []byte(call))
}

func TestNonSignatoryRejected(t *testing.T) {
	f := newLedgerFixture(t, 2)

	_, err := f.approve(t, 89, "transfer")
	require.True(t, ErrSignerIsNotApproved.Is(err), "unexpected error: %v", err)

	// Unknown accounts have no signatories.
	_, err = f.ledger.ProposeOrApprove(context.Background(), f.db, quorumtest.NewAddress(), quorumtest.SequenceAddress(1), []byte("transfer"))
	require.True(t, ErrSignerIsNotApproved.Is(err), "unexpected error: %v", err)

	pending, err := f.ledger.Pending(f.db, f.account)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestQuorumAtThreshold(t *testing.T) {
	f := newLedgerFixture(t, 2)
	hash := HashCall([]byte("transfer"))

	res, err := f.approve(t, 3, "transfer")
	require.NoError(t, err)
	require.False(t, res.Quorum)
	require.Equal(t, 1, res.Approvals)
	require.Equal(t, hash, res.CallHash)
	require.Empty(t, f.disp.calls)

	approvals, err := f.ledger.Approvals(f.db, f.account, hash)
	require.NoError(t, err)
	require.Equal(t, Signatories(seq(3)), approvals)

	res, err = f.approve(t, 1, "transfer")
	require.NoError(t, err)
	require.True(t, res.Quorum)
	require.Equal(t, 2, res.Approvals)

	require.Equal(t, [][]byte{[]byte("transfer")}, f.disp.calls)
	require.Equal(t, []quorum.Address{AccountCondition(f.account).Address()}, f.disp.accounts)

	executed, err := f.ledger.Executed(f.db, hash)
	require.NoError(t, err)
	require.NotNil(t, executed)
	require.Equal(t, f.account, executed.Account)

	// Approvals are cleared once the call is executed.
	pending, err := f.ledger.Pending(f.db, f.account)
	require.NoError(t, err)
	require.Empty(t, pending)

	kinds := make([]string, 0)
	for _, ev := range f.events.Events() {
		kinds = append(kinds, ev.EventKind())
	}
	require.Equal(t, []string{KindCallApproved, KindCallApproved, KindCallExecuted}, kinds)
}

func TestApprovalOrderDoesNotMatter(t *testing.T) {
	for _, order := range [][]uint64{{1, 2, 3}, {3, 2, 1}, {2, 3, 1}} {
		f := newLedgerFixture(t, 3)
		var last *ApprovalResult
		for i, who := range order {
			res, err := f.approve(t, who, "upgrade")
			require.NoError(t, err)
			require.Equal(t, i == 2, res.Quorum, "order %v step %d", order, i)
			last = res
		}
		require.Equal(t, 3, last.Approvals)
		require.Len(t, f.disp.calls, 1)
	}
}

func TestDoubleApprovalRejected(t *testing.T) {
	f := newLedgerFixture(t, 3)
	hash := HashCall([]byte("transfer"))

	_, err := f.approve(t, 2, "transfer")
	require.NoError(t, err)

	_, err = f.approve(t, 2, "transfer")
	require.True(t, ErrSenderInSignatories.Is(err), "unexpected error: %v", err)

	approvals, err := f.ledger.Approvals(f.db, f.account, hash)
	require.NoError(t, err)
	require.Len(t, approvals, 1)
}

func TestExecutedCallIsNoop(t *testing.T) {
	f := newLedgerFixture(t, 2)

	_, err := f.approve(t, 1, "transfer")
	require.NoError(t, err)
	_, err = f.approve(t, 2, "transfer")
	require.NoError(t, err)
	f.events.Reset()

	res, err := f.approve(t, 3, "transfer")
	require.NoError(t, err)
	require.True(t, res.AlreadyExecuted)
	require.False(t, res.Quorum)
	require.Len(t, f.disp.calls, 1)
	require.Empty(t, f.events.Events())

	pending, err := f.ledger.Pending(f.db, f.account)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestReplayIsGlobal(t *testing.T) {
	f := newLedgerFixture(t, 2)
	_, err := f.approve(t, 1, "transfer")
	require.NoError(t, err)
	_, err = f.approve(t, 2, "transfer")
	require.NoError(t, err)

	// Another account with the same members cannot execute the same call.
	other := DeriveAccountID(Signatories(seq(1, 2, 3, 4, 5, 6)), 3)
	require.NoError(t, f.registry.Register(context.Background(), f.db, other, Signatories(seq(1, 2, 3, 4, 5, 6)), 3))

	res, err := f.ledger.ProposeOrApprove(context.Background(), f.db, other, quorumtest.SequenceAddress(1), []byte("transfer"))
	require.NoError(t, err)
	require.True(t, res.AlreadyExecuted)
	require.Len(t, f.disp.calls, 1)
}

func TestStaleApprovalsArePruned(t *testing.T) {
	f := newLedgerFixture(t, 2)
	hash := HashCall([]byte("transfer"))

	_, err := f.approve(t, 6, "transfer")
	require.NoError(t, err)

	// Registering again without signatory 6 invalidates its approval.
	require.NoError(t, f.registry.Register(context.Background(), f.db, f.account, Signatories(seq(1, 2, 3)), 2))

	approvals, err := f.ledger.Approvals(f.db, f.account, hash)
	require.NoError(t, err)
	require.Empty(t, approvals)

	res, err := f.approve(t, 1, "transfer")
	require.NoError(t, err)
	require.False(t, res.Quorum)
	require.Equal(t, 1, res.Approvals)
}

func TestDispatchFailureKeepsBookkeeping(t *testing.T) {
	f := newLedgerFixture(t, 2)
	f.disp.err = errors.ErrHuman
	f.disp.write = &quorum.Model{Key: []byte("side"), Value: []byte("effect")}

	_, err := f.approve(t, 1, "transfer")
	require.NoError(t, err)
	res, err := f.approve(t, 2, "transfer")
	require.NoError(t, err)
	require.True(t, res.Quorum)
	require.True(t, errors.ErrHuman.Is(res.DispatchErr))

	done, err := NewExecutedBucket().IsExecuted(f.db, res.CallHash)
	require.NoError(t, err)
	require.True(t, done)

	// The failed call writes nothing.
	has, err := f.db.Has([]byte("side"))
	require.NoError(t, err)
	require.False(t, has)

	last := f.events.Events()[len(f.events.Events())-1]
	require.Equal(t, CallExecuted{Account: f.account, CallHash: res.CallHash, Failed: true}, last)
}

func TestDispatchSuccessWrites(t *testing.T) {
	f := newLedgerFixture(t, 2)
	f.disp.write = &quorum.Model{Key: []byte("side"), Value: []byte("effect")}

	_, err := f.approve(t, 1, "transfer")
	require.NoError(t, err)
	_, err = f.approve(t, 2, "transfer")
	require.NoError(t, err)

	val, err := f.db.Get([]byte("side"))
	require.NoError(t, err)
	require.Equal(t, []byte("effect"), val)
}

func TestCancelApproval(t *testing.T) {
	f := newLedgerFixture(t, 3)
	ctx := context.Background()
	hash := HashCall([]byte("transfer"))

	_, err := f.ledger.Cancel(ctx, f.db, f.account, quorumtest.SequenceAddress(1), hash)
	require.True(t, errors.ErrNotFound.Is(err), "unexpected error: %v", err)

	_, err = f.approve(t, 1, "transfer")
	require.NoError(t, err)
	_, err = f.approve(t, 2, "transfer")
	require.NoError(t, err)

	_, err = f.ledger.Cancel(ctx, f.db, f.account, quorumtest.SequenceAddress(3), hash)
	require.True(t, errors.ErrNotFound.Is(err), "unexpected error: %v", err)

	_, err = f.ledger.Cancel(ctx, f.db, f.account, quorumtest.SequenceAddress(89), hash)
	require.True(t, ErrSignerIsNotApproved.Is(err), "unexpected error: %v", err)

	left, err := f.ledger.Cancel(ctx, f.db, f.account, quorumtest.SequenceAddress(1), hash)
	require.NoError(t, err)
	require.Equal(t, 1, left)

	left, err = f.ledger.Cancel(ctx, f.db, f.account, quorumtest.SequenceAddress(2), hash)
	require.NoError(t, err)
	require.Equal(t, 0, left)

	pending, err := f.ledger.Pending(f.db, f.account)
	require.NoError(t, err)
	require.Empty(t, pending)

	// A withdrawn approval can be given again.
	res, err := f.approve(t, 1, "transfer")
	require.NoError(t, err)
	require.Equal(t, 1, res.Approvals)
}

func TestCancelExecutedCall(t *testing.T) {
	f := newLedgerFixture(t, 2)
	_, err := f.approve(t, 1, "transfer")
	require.NoError(t, err)
	res, err := f.approve(t, 2, "transfer")
	require.NoError(t, err)

	_, err = f.ledger.Cancel(context.Background(), f.db, f.account, quorumtest.SequenceAddress(1), res.CallHash)
	require.True(t, ErrNoApprovalsNeeded.Is(err), "unexpected error: %v", err)
}

func TestPendingCalls(t *testing.T) {
	f := newLedgerFixture(t, 3)
	_, err := f.approve(t, 1, "a")
	require.NoError(t, err)
	_, err = f.approve(t, 2, "b")
	require.NoError(t, err)
	_, err = f.approve(t, 3, "b")
	require.NoError(t, err)

	pending, err := f.ledger.Pending(f.db, f.account)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	byHash := make(map[CallHash]Signatories)
	for _, p := range pending {
		byHash[p.Hash] = p.Approvals
	}
	require.Equal(t, Signatories(seq(1)), byHash[HashCall([]byte("a"))])
	require.Equal(t, Signatories(seq(2, 3)), byHash[HashCall([]byte("b"))])
}

func TestNoDispatcher(t *testing.T) {
	f := newLedgerFixture(t, 2)
	f.ledger = NewLedger(f.registry, nil, nil)

	_, err := f.approve(t, 1, "transfer")
	require.NoError(t, err)
	res, err := f.approve(t, 2, "transfer")
	require.NoError(t, err)
	require.True(t, res.Quorum)
	require.NoError(t, res.DispatchErr)
}

func TestLedgerMetrics(t *testing.T) {
	registered := testutil.ToFloat64(accountsRegistered)
	approved := testutil.ToFloat64(callsApproved)
	ok := testutil.ToFloat64(callsExecuted.WithLabelValues("ok"))
	failed := testutil.ToFloat64(callsExecuted.WithLabelValues("failed"))

	f := newLedgerFixture(t, 2)
	require.Equal(t, registered+1, testutil.ToFloat64(accountsRegistered))

	_, err := f.approve(t, 1, "transfer")
	require.NoError(t, err)
	_, err = f.approve(t, 2, "transfer")
	require.NoError(t, err)
	require.Equal(t, approved+2, testutil.ToFloat64(callsApproved))
	require.Equal(t, ok+1, testutil.ToFloat64(callsExecuted.WithLabelValues("ok")))

	// Rejected and repeated approvals are not counted.
	_, err = f.approve(t, 89, "transfer")
	require.Error(t, err)
	_, err = f.approve(t, 3, "transfer")
	require.NoError(t, err)
	require.Equal(t, approved+2, testutil.ToFloat64(callsApproved))

	f.disp.err = errors.ErrHuman
	_, err = f.approve(t, 1, "burn")
	require.NoError(t, err)
	_, err = f.approve(t, 2, "burn")
	require.NoError(t, err)
	require.Equal(t, failed+1, testutil.ToFloat64(callsExecuted.WithLabelValues("failed")))
	require.Equal(t, ok+1, testutil.ToFloat64(callsExecuted.WithLabelValues("ok")))
}
