package utils

import (
	"github.com/iov-one/quorum"
)

// EventTagger collects the events emitted through quorum.ContextSink while
// the wrapped handler delivers a transaction. On success the events are
// appended to the result tags. Events of a failed delivery are dropped,
// because none of the state they describe was persisted.
type EventTagger struct{}

var _ quorum.Decorator = EventTagger{}

// NewEventTagger creates an EventTagger decorator.
func NewEventTagger() EventTagger {
	return EventTagger{}
}

// Check does not collect events. Check results carry no tags.
func (EventTagger) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx, next quorum.Checker) (*quorum.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (EventTagger) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx, next quorum.Deliverer) (*quorum.DeliverResult, error) {
	var rec quorum.EventRecorder
	res, err := next.Deliver(quorum.WithEventRecorder(ctx, &rec), db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, rec.Tags()...)
	return res, nil
}
