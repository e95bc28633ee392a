package output

import (
	"context"
	"time"
)

// SnapshotGateway stores published glance snapshots.
// Supports the local filesystem and S3.
type SnapshotGateway interface {
	// SaveSnapshot persists content under req.Key, replacing any previous object
	SaveSnapshot(ctx context.Context, req SaveSnapshotRequest) (*SnapshotMetadata, error)

	// LoadSnapshot retrieves the object stored under key; NotFound if absent
	LoadSnapshot(ctx context.Context, key string) (*Snapshot, error)
}

// SaveSnapshotRequest represents a request to save a snapshot
type SaveSnapshotRequest struct {
	Key         string            // Relative key, e.g. glance/2024-01-15.json
	Content     []byte            // Snapshot content
	ContentType string            // MIME type (optional)
	Metadata    map[string]string // Additional metadata
}

// Snapshot represents a stored snapshot
type Snapshot struct {
	Content  []byte
	Metadata SnapshotMetadata
}

// SnapshotMetadata contains information about a stored snapshot
type SnapshotMetadata struct {
	Key         string    // Relative key
	StoragePath string    // Storage path (e.g., s3://bucket/prefix/key)
	ContentType string    // MIME type
	Size        int64     // Size in bytes
	UploadedAt  time.Time // Upload timestamp
	Metadata    map[string]string
}
