package main

import (
	"io"
	"path/filepath"
	"time"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/app"
	multiacct "github.com/iov-one/quorum/cmd/multiacct/app"
	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/sigs"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ledger executes transactions directly against the application database
// kept in the home directory, one block per transaction. The database is
// locked while the ledger is open so it cannot be used together with a
// running node.
type ledger struct {
	home  string
	kv    quorum.CommitKVStore
	app   *app.BaseApp
	codec *app.MsgCodec
	now   func() time.Time
}

func openLedger(c Config, logOut io.Writer) (*ledger, error) {
	logger, err := newLogger(c, logOut)
	if err != nil {
		return nil, err
	}
	kv, err := multiacct.CommitKVStore(multiacct.DBPath(c.Home))
	if err != nil {
		return nil, err
	}
	return &ledger{
		home:  c.Home,
		kv:    kv,
		app:   multiacct.NewApplication(kv, logger, c.Debug),
		codec: multiacct.Codec(),
		now:   time.Now,
	}, nil
}

// Close releases the database.
func (l *ledger) Close() {
	if c, ok := l.kv.(interface{ Close() }); ok {
		c.Close()
	}
}

// State returns a read only view of the last committed state.
func (l *ledger) State() quorum.ReadOnlyKVStore {
	return app.NewABCIStore(l.app)
}

// ensureChain initializes the application from the genesis file when no
// chain was initialized yet.
func (l *ledger) ensureChain() (err error) {
	if l.app.GetChainID() != "" {
		return nil
	}
	gen, err := app.LoadGenesis(filepath.Join(l.home, "config", "genesis.json"))
	if err != nil {
		return errors.Wrap(err, "no chain, run init first")
	}
	defer errors.Recover(&err)
	l.app.InitChain(gen.InitChainRequest())
	return nil
}

// Submit signs the message with the key and executes it in a new block.
func (l *ledger) Submit(key *crypto.KeyPair, msg quorum.Msg) (*abci.ResponseDeliverTx, error) {
	if err := l.ensureChain(); err != nil {
		return nil, err
	}
	seq, err := sigs.NextSequence(l.State(), key.Public)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get sequence")
	}
	tx, err := l.codec.NewTx(msg)
	if err != nil {
		return nil, err
	}
	if err := tx.Sign(key, l.app.GetChainID(), seq); err != nil {
		return nil, err
	}
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "cannot serialize transaction")
	}

	height := l.app.Info(abci.RequestInfo{}).LastBlockHeight + 1
	l.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{ChainID: l.app.GetChainID(), Height: height, Time: l.now()},
	})
	if res := l.app.CheckTx(raw); res.IsErr() {
		return nil, errors.Wrap(errors.ABCIError(res.Code, res.Log), "transaction rejected")
	}
	res := l.app.DeliverTx(raw)
	l.app.EndBlock(abci.RequestEndBlock{Height: height})
	l.app.Commit()
	if res.IsErr() {
		return &res, errors.Wrapf(errors.ABCIError(res.Code, res.Log), "transaction failed at height %d", height)
	}
	return &res, nil
}
