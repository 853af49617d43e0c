package multiaccount

import (
	"context"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/x"
)

type contextKey int // local to the multiaccount module

const (
	contextKeyAccount contextKey = iota
)

// withAccount is private, so that only an executed call can act as the
// multi-account. A nested execution replaces the outer account.
func withAccount(ctx quorum.Context, id quorum.Address) quorum.Context {
	return context.WithValue(ctx, contextKeyAccount, AccountCondition(id))
}

// AccountCondition returns the condition a multi-account is authenticated
// with while its call is executed. Its address is a hash of the account
// identifier, so it never equals a key address even when an account was
// registered under an identifier copied from one. Use
// AccountCondition(id).Address() to make an account a signatory of another.
func AccountCondition(id quorum.Address) quorum.Condition {
	return quorum.NewCondition("multiaccount", "account", id)
}

// Authenticate exposes the multi-account executing the current call.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the condition of the executing account, if any.
func (Authenticate) GetConditions(ctx quorum.Context) []quorum.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeyAccount).(quorum.Condition)
	if val == nil {
		return nil
	}
	return []quorum.Condition{val}
}

// HasAddress returns true iff addr is the executing account.
func (a Authenticate) HasAddress(ctx quorum.Context, addr quorum.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
