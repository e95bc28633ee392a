package output

import (
	"context"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
)

// GlanceSettings are the persisted preferences the selection engine reads
type GlanceSettings struct {
	PinnedProjectID *model.ProjectID
	Policy          model.SelectionPolicy
	PrivacyMode     model.PrivacyMode
}

// SettingsProvider supplies glance preferences from external config
type SettingsProvider interface {
	GlanceSettings(ctx context.Context) (GlanceSettings, error)
}

// SettingsWriter persists glance preferences
type SettingsWriter interface {
	// SetPinnedProject pins id; nil removes the pin
	SetPinnedProject(ctx context.Context, id *model.ProjectID) error
	SetSelectionPolicy(ctx context.Context, policy model.SelectionPolicy) error
	SetPrivacyMode(ctx context.Context, mode model.PrivacyMode) error
}
