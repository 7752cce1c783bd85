package ports

import "context"

// TxManager runs fn so that every journal write made with the context it
// receives commits or rolls back together. Calls nest into an outer
// transaction already carried by ctx.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}
