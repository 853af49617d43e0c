/*
Package app links together all the various components
to construct the multiacct application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/app"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
	"github.com/iov-one/quorum/store/iavl"
	"github.com/iov-one/quorum/x"
	"github.com/iov-one/quorum/x/multiaccount"
	"github.com/iov-one/quorum/x/sigs"
	"github.com/iov-one/quorum/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is reported by the ABCI Info call.
const Name = "multiacct"

// Authenticator returns the typical authentication. While an approved call
// executes, the multi-account is the main signer.
func Authenticator() x.Authenticator {
	return x.ChainAuth(multiaccount.Authenticate{}, sigs.Authenticate{})
}

// Codec returns the codec of all messages the application handles.
func Codec() *app.MsgCodec {
	return app.NewMsgCodec(
		&multiaccount.RegisterAccountMsg{},
		&multiaccount.ProposeCallMsg{},
		&multiaccount.CancelApprovalMsg{},
		&multiaccount.UpdateConfigurationMsg{},
	)
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		utils.NewEventTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router with all multiaccount handlers registered.
// Approved calls are decoded with codec and routed by the same router.
func Router(authFn x.Authenticator, codec *app.MsgCodec) *app.Router {
	r := app.NewRouter()
	multiaccount.RegisterRoutes(r, authFn, app.NewRouterDispatcher(codec, r))
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/multiaccounts", "/auth", and "/"
func QueryRouter() quorum.QueryRouter {
	r := quorum.NewQueryRouter()
	r.RegisterAll(
		multiaccount.RegisterQuery,
		sigs.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(codec *app.MsgCodec) quorum.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn, codec))
}

// Initializers returns the genesis initializers of all extensions.
func Initializers() quorum.Initializer {
	return quorum.ChainInitializers(&multiaccount.Initializer{})
}

// Application constructs the ABCI application kept in dbPath. An empty
// dbPath keeps the state in memory.
func Application(dbPath string, logger log.Logger, debug bool) (*app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, err
	}
	return NewApplication(kv, logger, debug), nil
}

// NewApplication constructs the ABCI application on top of an opened
// store.
func NewApplication(kv quorum.CommitKVStore, logger log.Logger, debug bool) *app.BaseApp {
	codec := Codec()
	store := app.NewStoreApp(Name, kv, QueryRouter(), context.Background()).
		WithInit(Initializers()).
		WithLogger(logger)
	return app.NewBaseApp(store, codec.DecodeTx, Stack(codec), debug)
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (quorum.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	kv, err := iavl.NewCommitStore(dir, name)
	if err != nil {
		return nil, err
	}
	return kv, nil
}
