package multiaccount

import (
	"github.com/iov-one/quorum/errors"
)

// multiaccount takes 1100-1110
var (
	ErrMinimumThreshold      = errors.Register(1100, "threshold must be two or greater")
	ErrTooFewSignatories     = errors.Register(1101, "too few signatories")
	ErrTooManySignatories    = errors.Register(1102, "too many signatories")
	ErrSignatoriesOutOfOrder = errors.Register(1103, "signatories out of order")
	ErrSenderInSignatories   = errors.Register(1104, "sender in signatories")
	ErrSignerIsNotApproved   = errors.Register(1105, "signer is not approved")
	ErrNoApprovalsNeeded     = errors.Register(1106, "no approvals needed")
)
