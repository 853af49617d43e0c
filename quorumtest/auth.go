package quorumtest

import (
	"context"
	"fmt"

	"github.com/iov-one/quorum"
)

// Auth authenticates a fixed set of conditions, regardless of the context.
// Signers come first and Signer, when set, is the last condition. Put an
// account condition in Signer to act as a multi-account executing a call on
// behalf of the Signers.
type Auth struct {
	Signer  quorum.Condition
	Signers []quorum.Condition
}

func (a *Auth) GetConditions(quorum.Context) []quorum.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	return append(append([]quorum.Condition(nil), a.Signers...), a.Signer)
}

func (a *Auth) HasAddress(ctx quorum.Context, addr quorum.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth keeps the authenticated conditions in the context, under its own
// key. Several CtxAuth with different keys can be chained to model the
// signers of a transaction and the multi-account executing it.
type CtxAuth struct {
	Key string
}

type ctxAuthKey string

// SetConditions returns a context authenticating exactly conds.
func (a *CtxAuth) SetConditions(ctx quorum.Context, conds ...quorum.Condition) quorum.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a *CtxAuth) GetConditions(ctx quorum.Context) []quorum.Condition {
	switch conds := ctx.Value(ctxAuthKey(a.Key)).(type) {
	case nil:
		return nil
	case []quorum.Condition:
		return conds
	default:
		panic(fmt.Sprintf("instead of []quorum.Condition got %T", conds))
	}
}

func (a *CtxAuth) HasAddress(ctx quorum.Context, addr quorum.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []quorum.Condition, addr quorum.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
