package repositories

import "context"

// TxRunner executes a unit of work atomically when the backing store supports
// it. Two implementations exist: an ACID runner that wraps fn in a database
// transaction (repositories called with the returned context join it), and a
// best-effort sequential runner used for deployments without transactional
// backing, which simply invokes fn. The runner is selected once at startup.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
