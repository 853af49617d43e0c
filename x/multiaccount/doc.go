/*
Package multiaccount implements threshold multi-signatory accounts.

A multi-account is a virtual identity controlled by a fixed set of
signatories. Any call owned by the account must be approved by at least
threshold distinct signatories. The approval that completes the quorum hands
the call to a Dispatcher, which executes it with the multi-account
authenticated as the caller.

Accounts are registered with RegisterAccountMsg. The identifier is either
chosen by the sender or derived from the signatory set and the threshold, so
that independent parties that agree on both converge on the same account.
Calls are proposed and approved with ProposeCallMsg, carrying the serialized
call. Pending calls are identified by the blake2b-256 digest of that payload.
Once executed, a digest can never be executed again, by any account.
*/
package multiaccount
