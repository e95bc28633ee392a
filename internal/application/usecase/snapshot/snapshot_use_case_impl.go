package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/YoshitsuguKoike/deetask/internal/app"
	"github.com/YoshitsuguKoike/deetask/internal/application/dto"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/input"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/output"
)

// LatestKey is where the most recent snapshot is always stored
const LatestKey = "glance/latest.json"

const contentType = "application/json"

// DayKey returns the per-day snapshot key, e.g. glance/2026-02-03.json
func DayKey(dateKey string) string {
	return "glance/" + dateKey + ".json"
}

// SnapshotUseCaseImpl implements the SnapshotUseCase interface
type SnapshotUseCaseImpl struct {
	glance  input.GlanceUseCase
	gateway output.SnapshotGateway
	logger  app.Logger
}

// NewSnapshotUseCaseImpl creates a new snapshot use case implementation
func NewSnapshotUseCaseImpl(glance input.GlanceUseCase, gateway output.SnapshotGateway, logger app.Logger) *SnapshotUseCaseImpl {
	if logger == nil {
		logger = app.NewNopLogger()
	}
	return &SnapshotUseCaseImpl{glance: glance, gateway: gateway, logger: logger}
}

// Publish computes today's summary with persisted settings and stores it
// under both the per-day key and LatestKey
func (uc *SnapshotUseCaseImpl) Publish(ctx context.Context) (*dto.PublishResult, error) {
	summary, err := uc.glance.Summary(ctx, dto.SummaryRequest{})
	if err != nil {
		return nil, err
	}
	content, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	keys := []string{DayKey(summary.DateKey), LatestKey}
	objects := make([]dto.SnapshotObjectDTO, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			meta, err := uc.gateway.SaveSnapshot(gctx, output.SaveSnapshotRequest{
				Key:         key,
				Content:     content,
				ContentType: contentType,
				Metadata: map[string]string{
					"date-key": summary.DateKey,
					"scope":    summary.Scope,
				},
			})
			if err != nil {
				return fmt.Errorf("failed to store snapshot %s: %w", key, err)
			}
			objects[i] = dto.SnapshotObjectDTO{Key: meta.Key, StoragePath: meta.StoragePath, Size: meta.Size}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	uc.logger.Info("published glance snapshot for %s (%d items)", summary.DateKey, len(summary.DisplayList))
	return &dto.PublishResult{Summary: *summary, Objects: objects}, nil
}

// Latest reads back the most recently published summary
func (uc *SnapshotUseCaseImpl) Latest(ctx context.Context) (*dto.SummaryDTO, error) {
	snap, err := uc.gateway.LoadSnapshot(ctx, LatestKey)
	if err != nil {
		return nil, err
	}
	var summary dto.SummaryDTO
	if err := json.Unmarshal(snap.Content, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &summary, nil
}
