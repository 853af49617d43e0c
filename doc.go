/*
Package quorum defines the common interfaces that tie together the storage,
the handlers and the application of a threshold multi-signatory ledger, as
well as implementations of the simpler shared types (addresses, conditions,
results).

Context is passed between the application, decorators and handlers using
context.Context. Every value that quorum stores in a context has a pair of
functions:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)

The extension living in x/multiaccount is the reason this module exists. It
keeps a registry of accounts controlled by a sorted set of signatories and
authorizes a call once enough of them approved it.
*/
package quorum
