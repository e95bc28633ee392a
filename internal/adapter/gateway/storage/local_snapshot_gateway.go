package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/deetask/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	infrafs "github.com/YoshitsuguKoike/deetask/internal/infra/fs"
)

// metaSuffix names the sidecar file holding snapshot metadata
const metaSuffix = ".meta.json"

// LocalSnapshotGateway implements SnapshotGateway on a file system.
// Directory structure: <baseDir>/<key> with <baseDir>/<key>.meta.json beside it.
type LocalSnapshotGateway struct {
	fs      afero.Fs
	baseDir string
	now     func() time.Time
}

// NewLocalSnapshotGateway creates a gateway rooted at baseDir
func NewLocalSnapshotGateway(fs afero.Fs, baseDir string) (*LocalSnapshotGateway, error) {
	if err := fs.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &LocalSnapshotGateway{fs: fs, baseDir: baseDir, now: time.Now}, nil
}

// SaveSnapshot writes content and its metadata, each atomically
func (g *LocalSnapshotGateway) SaveSnapshot(ctx context.Context, req output.SaveSnapshotRequest) (*output.SnapshotMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := g.path(req.Key)
	if err != nil {
		return nil, err
	}

	metadata := output.SnapshotMetadata{
		Key:         req.Key,
		StoragePath: path,
		ContentType: req.ContentType,
		Size:        int64(len(req.Content)),
		UploadedAt:  g.now(),
		Metadata:    req.Metadata,
	}
	metadataJSON, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	if err := infrafs.WriteFileAtomic(g.fs, path, req.Content, 0o644); err != nil {
		return nil, fmt.Errorf("write snapshot content: %w", err)
	}
	if err := infrafs.WriteFileAtomic(g.fs, path+metaSuffix, metadataJSON, 0o644); err != nil {
		return nil, fmt.Errorf("write snapshot metadata: %w", err)
	}
	return &metadata, nil
}

// LoadSnapshot reads a stored snapshot; NotFound if the key was never saved
func (g *LocalSnapshotGateway) LoadSnapshot(ctx context.Context, key string) (*output.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := g.path(key)
	if err != nil {
		return nil, err
	}

	content, err := afero.ReadFile(g.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.NewNotFound("Snapshot", key)
		}
		return nil, fmt.Errorf("read snapshot content: %w", err)
	}

	metadata := output.SnapshotMetadata{Key: key, StoragePath: path, Size: int64(len(content))}
	if raw, err := afero.ReadFile(g.fs, path+metaSuffix); err == nil {
		if err := json.Unmarshal(raw, &metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return &output.Snapshot{Content: content, Metadata: metadata}, nil
}

// path resolves key under baseDir and rejects keys escaping it
func (g *LocalSnapshotGateway) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", model.NewValidation(fmt.Sprintf("invalid snapshot key %q", key))
	}
	return filepath.Join(g.baseDir, clean), nil
}
