package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophbank/internal/server/repositories/principals"
	"github.com/dmitrijs2005/gophbank/internal/server/repositories/transactions"
)

// RepositoryManager vends repositories bound to a request-scoped session and
// owns the underlying connection pool.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Principals(ctx context.Context) principals.Repository
	Transactions(ctx context.Context) transactions.Repository
	// WithTx runs fn inside one database transaction. Repositories obtained
	// from tx share it; fn returning an error rolls everything back.
	WithTx(ctx context.Context, fn func(tx RepositoryManager) error) error
	Ping(ctx context.Context) error
	Close() error
}
