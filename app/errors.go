package app

import (
	"github.com/iov-one/quorum/errors"
)

// ErrNoSuchPath is returned when no handler is registered for a message
// path.
var ErrNoSuchPath = errors.Register(20, "path not registered")
