package transaction

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTransactionManager_Serializes(t *testing.T) {
	tm := NewMemoryTransactionManager()
	var (
		wg      sync.WaitGroup
		inside  int
		maxSeen int
		mu      sync.Mutex
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tm.InTransaction(context.Background(), func(context.Context) error {
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestMemoryTransactionManager_NestedAndErrors(t *testing.T) {
	tm := NewMemoryTransactionManager()
	boom := errors.New("boom")

	err := tm.InTransaction(context.Background(), func(txCtx context.Context) error {
		return tm.InTransaction(txCtx, func(context.Context) error { return boom })
	})
	require.ErrorIs(t, err, boom)

	// lock is released after an error
	require.NoError(t, tm.InTransaction(context.Background(), func(context.Context) error { return nil }))
}
