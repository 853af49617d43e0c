package multiaccount

import (
	"context"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/store"
	"github.com/iov-one/quorum/x"
	"github.com/stretchr/testify/require"
)

// testRouter is the minimal registry needed to collect handlers.
type testRouter map[string]quorum.Handler

func (r testRouter) Handle(path string, h quorum.Handler) {
	r[path] = h
}

func signer(n uint64) quorum.Condition {
	return quorum.IdentityCondition(quorumtest.SequenceAddress(n))
}

func TestRegisterAccountHandler(t *testing.T) {
	explicit := quorumtest.NewAddress()

	cases := map[string]struct {
		msg            quorum.Msg
		auth           x.Authenticator
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantID         quorum.Address
	}{
		"derived id": {
			msg:    &RegisterAccountMsg{OtherSignatories: seq(2, 3), Threshold: 2},
			auth:   &quorumtest.Auth{Signer: signer(1)},
			wantID: DeriveAccountID(seq(1, 2, 3), 2),
		},
		"explicit id": {
			msg:    &RegisterAccountMsg{ID: explicit, OtherSignatories: seq(1, 3), Threshold: 3},
			auth:   &quorumtest.Auth{Signer: signer(2)},
			wantID: explicit,
		},
		"unsigned": {
			msg:            &RegisterAccountMsg{OtherSignatories: seq(2, 3), Threshold: 2},
			auth:           &quorumtest.Auth{},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"threshold of one": {
			msg:            &RegisterAccountMsg{OtherSignatories: seq(2, 3, 4, 5, 6), Threshold: 1},
			auth:           &quorumtest.Auth{Signer: signer(1)},
			wantCheckErr:   ErrMinimumThreshold,
			wantDeliverErr: ErrMinimumThreshold,
		},
		"sender among signatories": {
			msg:            &RegisterAccountMsg{OtherSignatories: seq(1, 2), Threshold: 2},
			auth:           &quorumtest.Auth{Signer: signer(1)},
			wantCheckErr:   ErrSenderInSignatories,
			wantDeliverErr: ErrSenderInSignatories,
		},
		"unordered signatories": {
			msg:            &RegisterAccountMsg{OtherSignatories: seq(3, 2), Threshold: 2},
			auth:           &quorumtest.Auth{Signer: signer(1)},
			wantCheckErr:   ErrSignatoriesOutOfOrder,
			wantDeliverErr: ErrSignatoriesOutOfOrder,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db := store.MemStore()
			rt := make(testRouter)
			RegisterRoutes(rt, tc.auth, nil)
			h := rt[pathRegisterAccountMsg]
			tx := &quorumtest.Tx{Msg: tc.msg}

			cache := db.CacheWrap()
			if _, err := h.Check(context.TODO(), cache, tx); !tc.wantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			res, err := h.Deliver(context.TODO(), db, tx)
			if !tc.wantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if tc.wantDeliverErr != nil {
				return
			}
			require.Equal(t, []byte(tc.wantID), res.Data)
			_, err = NewAccountBucket().GetAccount(db, tc.wantID)
			require.NoError(t, err)
		})
	}
}

func TestProposeAndCancelHandlers(t *testing.T) {
	db := store.MemStore()
	auth := &quorumtest.CtxAuth{Key: "auth"}
	var dispatched [][]byte
	dispatcher := DispatcherFunc(func(ctx quorum.Context, db quorum.KVStore, account quorum.Address, call []byte) error {
		dispatched = append(dispatched, call)
		return nil
	})
	rt := make(testRouter)
	RegisterRoutes(rt, auth, dispatcher)

	account := DeriveAccountID(seq(1, 2, 3), 2)
	require.NoError(t, NewRegistry(nil).Register(context.TODO(), db, account, seq(1, 2, 3), 2))

	propose := &quorumtest.Tx{Msg: &ProposeCallMsg{AccountID: account, Call: []byte("call")}}
	hash := HashCall([]byte("call"))

	// Outsiders are rejected on check already.
	ctx := auth.SetConditions(context.TODO(), signer(89))
	_, err := rt[pathProposeCallMsg].Check(ctx, db, propose)
	require.True(t, ErrSignerIsNotApproved.Is(err), "unexpected error: %v", err)

	ctx = auth.SetConditions(context.TODO(), signer(1))
	_, err = rt[pathProposeCallMsg].Check(ctx, db, propose)
	require.NoError(t, err)
	res, err := rt[pathProposeCallMsg].Deliver(ctx, db, propose)
	require.NoError(t, err)
	require.Equal(t, hash[:], res.Data)
	require.Equal(t, "1 of 2 approvals", res.Log)

	cancel := &quorumtest.Tx{Msg: &CancelApprovalMsg{AccountID: account, CallHash: hash[:]}}
	_, err = rt[pathCancelApprovalMsg].Check(ctx, db, cancel)
	require.NoError(t, err)
	res, err = rt[pathCancelApprovalMsg].Deliver(ctx, db, cancel)
	require.NoError(t, err)
	require.Equal(t, "0 approvals left", res.Log)

	for _, n := range []uint64{1, 3} {
		ctx = auth.SetConditions(context.TODO(), signer(n))
		res, err = rt[pathProposeCallMsg].Deliver(ctx, db, propose)
		require.NoError(t, err)
	}
	require.Equal(t, "quorum reached, call executed", res.Log)
	require.Equal(t, [][]byte{[]byte("call")}, dispatched)

	res, err = rt[pathProposeCallMsg].Deliver(ctx, db, propose)
	require.NoError(t, err)
	require.Equal(t, "call already executed", res.Log)

	ctx = auth.SetConditions(context.TODO(), signer(2))
	_, err = rt[pathCancelApprovalMsg].Deliver(ctx, db, cancel)
	require.True(t, ErrNoApprovalsNeeded.Is(err), "unexpected error: %v", err)
}

func TestUpdateConfigurationRoute(t *testing.T) {
	owner := quorumtest.NewCondition()
	db := store.MemStore()
	require.NoError(t, (&Initializer{}).FromGenesis(genesis(t, `{
		"conf": {"multiaccount": {"owner": "`+owner.Address().String()+`", "max_signatories": 5}}
	}`), db))

	auth := &quorumtest.Auth{Signer: owner}
	rt := make(testRouter)
	RegisterRoutes(rt, auth, nil)

	tx := &quorumtest.Tx{Msg: &UpdateConfigurationMsg{Patch: &Configuration{MaxSignatories: 3}}}
	_, err := rt[pathUpdateConfigurationMsg].Deliver(context.TODO(), db, tx)
	require.NoError(t, err)

	max, err := NewRegistry(nil).MaxSignatories(db)
	require.NoError(t, err)
	require.Equal(t, 3, max)

	// Registration now respects the lower limit.
	reg := &quorumtest.Tx{Msg: &RegisterAccountMsg{OtherSignatories: seq(2, 3, 4), Threshold: 2}}
	ctx := context.TODO()
	rt = make(testRouter)
	RegisterRoutes(rt, &quorumtest.Auth{Signer: signer(1)}, nil)
	_, err = rt[pathRegisterAccountMsg].Deliver(ctx, db, reg)
	require.True(t, ErrTooManySignatories.Is(err), "unexpected error: %v", err)
}
