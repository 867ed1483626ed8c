package port

import "context"

// TxManager runs fn inside a transaction carried by ctx.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
