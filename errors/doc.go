/*
Package errors implements the error model shared by all quorum packages.

Every error returned by a handler should wrap one of the root errors created
with Register. A root error carries a stable ABCI code that is returned to the
client, so that a client can tell "you are not a signatory" apart from "the
database is broken" without parsing messages.

Declare package specific root errors once, at program start:

	var ErrMinimumThreshold = errors.Register(1200, "threshold too low")

and create instances at the point of failure, so that a stack trace is
attached:

	return errors.Wrapf(ErrMinimumThreshold, "got %d", threshold)

Use the Is method to test for a kind of error, no matter how many times it was
wrapped:

	if ErrMinimumThreshold.Is(err) { ... }

Formatting an error with %+v prints the stack trace recorded by the innermost
wrap.
*/
package errors
