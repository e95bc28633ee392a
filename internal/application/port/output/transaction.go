package output

import (
	"context"
)

// TransactionManager manages transactions across repositories.
// Repositories called with txCtx take part in the transaction.
type TransactionManager interface {
	// InTransaction executes a function within a transaction
	// If the function returns an error, the transaction is rolled back
	InTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}
