package transaction

import (
	"context"
	"sync"
)

// MemoryTransactionManager serializes writers for the in-memory store.
// It does not roll back: in-memory repositories apply writes immediately, so
// use cases must finish validation before their first write.
type MemoryTransactionManager struct {
	mu sync.Mutex
}

// NewMemoryTransactionManager creates a new in-memory transaction manager
func NewMemoryTransactionManager() *MemoryTransactionManager {
	return &MemoryTransactionManager{}
}

type memTxKey struct{}

// InTransaction runs fn while holding the writer lock.
// Nested calls with a txCtx reuse the held lock.
func (m *MemoryTransactionManager) InTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	if held, _ := ctx.Value(memTxKey{}).(*MemoryTransactionManager); held == m {
		return fn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(context.WithValue(ctx, memTxKey{}, m))
}
