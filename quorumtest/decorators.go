package quorumtest

import "github.com/iov-one/quorum"

// Decorate returns a handler running every Check and Deliver call through
// the decorator before it reaches h. Use it to test a single decorator
// without building a full application stack.
func Decorate(h quorum.Handler, d quorum.Decorator) quorum.Handler {
	return decorated{next: h, dec: d}
}

type decorated struct {
	next quorum.Handler
	dec  quorum.Decorator
}

func (d decorated) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	return d.dec.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	return d.dec.Deliver(ctx, db, tx, d.next)
}
