package storage

import (
	"context"
	"sync"
	"time"

	"github.com/YoshitsuguKoike/deetask/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
)

// MockSnapshotGateway is a mock implementation of SnapshotGateway
// Stores snapshots in memory for testing and for --snapshot-storage=mock runs
type MockSnapshotGateway struct {
	mu        sync.RWMutex
	snapshots map[string]*output.Snapshot
	saveErr   error
}

// NewMockSnapshotGateway creates a new mock snapshot gateway
func NewMockSnapshotGateway() *MockSnapshotGateway {
	return &MockSnapshotGateway{snapshots: make(map[string]*output.Snapshot)}
}

// SaveSnapshot saves a snapshot to mock storage
func (g *MockSnapshotGateway) SaveSnapshot(ctx context.Context, req output.SaveSnapshotRequest) (*output.SnapshotMetadata, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.saveErr != nil {
		return nil, g.saveErr
	}

	snap := &output.Snapshot{
		Content: append([]byte(nil), req.Content...),
		Metadata: output.SnapshotMetadata{
			Key:         req.Key,
			StoragePath: "mock://snapshots/" + req.Key,
			ContentType: req.ContentType,
			Size:        int64(len(req.Content)),
			UploadedAt:  time.Now(),
			Metadata:    req.Metadata,
		},
	}
	g.snapshots[req.Key] = snap

	md := snap.Metadata
	return &md, nil
}

// LoadSnapshot retrieves a snapshot from mock storage
func (g *MockSnapshotGateway) LoadSnapshot(ctx context.Context, key string) (*output.Snapshot, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	snap, exists := g.snapshots[key]
	if !exists {
		return nil, model.NewNotFound("Snapshot", key)
	}
	return snap, nil
}

// SetSaveError makes every subsequent save fail with err (for testing)
func (g *MockSnapshotGateway) SetSaveError(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saveErr = err
}

// Keys returns the stored keys (for testing)
func (g *MockSnapshotGateway) Keys() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	keys := make([]string, 0, len(g.snapshots))
	for k := range g.snapshots {
		keys = append(keys, k)
	}
	return keys
}

// Clear removes all stored snapshots (for testing)
func (g *MockSnapshotGateway) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.snapshots = make(map[string]*output.Snapshot)
}
