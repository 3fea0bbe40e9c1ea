package domain

import "context"

// TxnRunner scopes a function to one atomic multi-document transaction.
// Repositories called with the ctx passed to fn participate in it; if fn
// returns an error nothing commits.
type TxnRunner interface {
	WithinTxn(ctx context.Context, fn func(ctx context.Context) error) error
}
