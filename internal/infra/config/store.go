package config

import (
	"context"
	"sync"

	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/deetask/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
)

// Store reads and updates the glance preferences in settings.yml.
// It implements output.SettingsProvider and output.SettingsWriter.
type Store struct {
	mu   sync.Mutex
	fs   afero.Fs
	home string
}

// NewStore creates a settings store for home
func NewStore(afs afero.Fs, home string) *Store {
	return &Store{fs: afs, home: home}
}

// GlanceSettings re-reads settings.yml so edits made by other processes are seen
func (s *Store) GlanceSettings(ctx context.Context) (output.GlanceSettings, error) {
	if err := ctx.Err(); err != nil {
		return output.GlanceSettings{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := LoadSettings(s.fs, s.home)
	if err != nil {
		return output.GlanceSettings{}, err
	}
	glance := cfg.Glance()

	result := output.GlanceSettings{
		Policy:      model.SelectionPolicy(glance.SelectionPolicy),
		PrivacyMode: model.PrivacyMode(glance.PrivacyMode),
	}
	if glance.PinnedProjectID != "" {
		id := model.ProjectID(glance.PinnedProjectID)
		result.PinnedProjectID = &id
	}
	return result, nil
}

// SetPinnedProject pins id; nil removes the key from settings.yml
func (s *Store) SetPinnedProject(ctx context.Context, id *model.ProjectID) error {
	return s.update(ctx, func(raw *RawSettings) {
		if id == nil || *id == "" {
			raw.PinnedProjectID = nil
			return
		}
		v := string(*id)
		raw.PinnedProjectID = &v
	})
}

// SetSelectionPolicy persists the selection policy
func (s *Store) SetSelectionPolicy(ctx context.Context, policy model.SelectionPolicy) error {
	if !policy.IsValid() {
		return model.NewValidation("unknown selection policy " + string(policy))
	}
	return s.update(ctx, func(raw *RawSettings) {
		v := string(policy)
		raw.SelectionPolicy = &v
	})
}

// SetPrivacyMode persists the privacy mode
func (s *Store) SetPrivacyMode(ctx context.Context, mode model.PrivacyMode) error {
	if !mode.IsValid() {
		return model.NewValidation("unknown privacy mode " + string(mode))
	}
	return s.update(ctx, func(raw *RawSettings) {
		v := string(mode)
		raw.PrivacyMode = &v
	})
}

// update applies fn to the raw file content so unset keys stay unset
func (s *Store) update(ctx context.Context, fn func(*RawSettings)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, _, err := ReadRawSettings(s.fs, s.home)
	if err != nil {
		return err
	}
	fn(raw)
	return SaveSettings(s.fs, s.home, raw)
}

var (
	_ output.SettingsProvider = (*Store)(nil)
	_ output.SettingsWriter   = (*Store)(nil)
)
