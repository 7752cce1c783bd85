package memory

import "context"

type txKeyType struct{}

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

// RunInTx serialises fn against other transactions. Writes are not rolled
// back on error.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx, _ := ctx.Value(txKeyType{}).(bool); inTx {
		return fn(ctx)
	}
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()
	return fn(context.WithValue(ctx, txKeyType{}, true))
}
