package app

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/multiaccount"
	"github.com/iov-one/quorum/x/sigs"
)

// RouterDispatcher executes the calls approved by a multi-account. A call
// is a message encoded with MsgCodec. It is delivered to the handler as an
// unsigned transaction, so that the only authenticated identity is the
// multi-account itself.
type RouterDispatcher struct {
	codec   *MsgCodec
	handler quorum.Handler
}

var _ multiaccount.Dispatcher = RouterDispatcher{}

// NewRouterDispatcher returns a dispatcher delivering calls to handler,
// usually the application Router.
func NewRouterDispatcher(codec *MsgCodec, handler quorum.Handler) RouterDispatcher {
	return RouterDispatcher{codec: codec, handler: handler}
}

// Dispatch decodes and delivers the call.
func (d RouterDispatcher) Dispatch(ctx quorum.Context, db quorum.KVStore, account quorum.Address, call []byte) error {
	msg, err := d.codec.DecodeMsg(call)
	if err != nil {
		return errors.Wrap(err, "cannot decode call")
	}
	quorum.GetLogger(ctx).Debug("dispatch call", "account", account, "path", msg.Path())

	ctx = sigs.WithoutSigners(ctx)
	tx := &Tx{Payload: call, msg: msg}
	if _, err := d.handler.Deliver(ctx, db, tx); err != nil {
		return errors.Wrapf(err, "deliver %s", msg.Path())
	}
	return nil
}
