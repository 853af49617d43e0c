package app

import (
	"crypto/sha256"

	lru "github.com/hashicorp/golang-lru"
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// DefaultTxCacheSize is the number of decoded transactions kept between
// CheckTx and DeliverTx.
const DefaultTxCacheSize = 1024

// BaseApp adds DeliverTx and CheckTx handlers to the storage and query
// functionality of StoreApp
type BaseApp struct {
	*StoreApp
	decoder quorum.TxDecoder
	handler quorum.Handler
	txs     *lru.Cache
}

var _ abci.Application = (*BaseApp)(nil)

// NewBaseApp constructs a basic abci application
func NewBaseApp(store *StoreApp, decoder quorum.TxDecoder, handler quorum.Handler, debug bool) *BaseApp {
	txs, err := lru.New(DefaultTxCacheSize)
	if err != nil {
		// only fails for a non positive size
		panic(err)
	}
	return &BaseApp{
		StoreApp: store.WithDebug(debug),
		decoder:  decoder,
		handler:  handler,
		txs:      txs,
	}
}

// DeliverTx - ABCI - dispatches to the handler
func (b *BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.loadTx(txBytes)
	if err != nil {
		return quorum.DeliverTxError(err, b.debug)
	}

	ctx := quorum.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"path", quorum.GetPath(tx))

	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return quorum.DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI - dispatches to the handler
func (b *BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.loadTx(txBytes)
	if err != nil {
		return quorum.CheckTxError(err, b.debug)
	}

	ctx := quorum.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"path", quorum.GetPath(tx))

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return quorum.CheckOrError(res, err, b.debug)
}

// loadTx calls the decoder, and capture any panics. Decoded transactions
// are cached, so that a transaction is decoded once for CheckTx and
// DeliverTx.
func (b *BaseApp) loadTx(txBytes []byte) (tx quorum.Tx, err error) {
	key := sha256.Sum256(txBytes)
	if cached, ok := b.txs.Get(key); ok {
		return cached.(quorum.Tx), nil
	}

	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	if err != nil {
		return nil, err
	}
	b.txs.Add(key, tx)
	return tx, nil
}
