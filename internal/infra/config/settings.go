package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/deetask/internal/app/config"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	infrafs "github.com/YoshitsuguKoike/deetask/internal/infra/fs"
)

// SettingsFileName is the settings file inside the home directory
const SettingsFileName = "settings.yml"

// DefaultDBFileName is the database file inside the home directory
const DefaultDBFileName = "deetask.db"

// Snapshot storage kinds
const (
	SnapshotStorageLocal = "local"
	SnapshotStorageS3    = "s3"
	SnapshotStorageMock  = "mock"
)

// RawSettings represents the structure of settings.yml.
// Pointer fields distinguish "unset" from zero values.
type RawSettings struct {
	// Core settings
	DBPath   *string `yaml:"db_path,omitempty"`
	Timezone *string `yaml:"timezone,omitempty"`

	// Logging
	LogLevel  *string `yaml:"log_level,omitempty"`
	LogFormat *string `yaml:"log_format,omitempty"`

	// Glance preferences
	PinnedProjectID *string `yaml:"pinned_project_id,omitempty"`
	SelectionPolicy *string `yaml:"selection_policy,omitempty"`
	PrivacyMode     *string `yaml:"privacy_mode,omitempty"`

	Snapshot *RawSnapshotSettings `yaml:"snapshot,omitempty"`
}

// RawSnapshotSettings is the snapshot section of settings.yml
type RawSnapshotSettings struct {
	Storage  *string `yaml:"storage,omitempty"`
	Dir      *string `yaml:"dir,omitempty"`
	S3Bucket *string `yaml:"s3_bucket,omitempty"`
	S3Prefix *string `yaml:"s3_prefix,omitempty"`
	S3Region *string `yaml:"s3_region,omitempty"`
}

// SettingsPath returns the settings file path under home
func SettingsPath(home string) string {
	return filepath.Join(home, SettingsFileName)
}

// LoadSettings loads configuration from <home>/settings.yml.
// Priority: settings.yml > defaults
func LoadSettings(afs afero.Fs, home string) (*config.AppConfig, error) {
	settings, found, err := ReadRawSettings(afs, home)
	if err != nil {
		return nil, err
	}
	configSource := "default"
	settingPath := ""
	if found {
		configSource = "yaml"
		settingPath = SettingsPath(home)
	}

	applyDefaults(settings, home)
	if err := validateSettings(settings); err != nil {
		return nil, err
	}
	return buildAppConfig(settings, home, configSource, settingPath), nil
}

// ReadRawSettings reads settings.yml without applying defaults.
// A missing file yields empty settings and found=false.
func ReadRawSettings(afs afero.Fs, home string) (settings *RawSettings, found bool, err error) {
	path := SettingsPath(home)
	data, err := afero.ReadFile(afs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return &RawSettings{}, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	settings = &RawSettings{}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return settings, true, nil
}

// SaveSettings writes settings to <home>/settings.yml atomically.
// Only fields that are set are written.
func SaveSettings(afs afero.Fs, home string, settings *RawSettings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := infrafs.WriteFileAtomic(afs, SettingsPath(home), data, 0o644); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// applyDefaults fills in default values for any nil fields
func applyDefaults(settings *RawSettings, home string) {
	// Core defaults
	if settings.DBPath == nil {
		v := filepath.Join(home, DefaultDBFileName)
		settings.DBPath = &v
	}
	if settings.Timezone == nil {
		v := "" // local time
		settings.Timezone = &v
	}

	// Logging
	if settings.LogLevel == nil {
		v := "warn"
		settings.LogLevel = &v
	}
	if settings.LogFormat == nil {
		v := "json"
		settings.LogFormat = &v
	}

	// Glance preferences
	if settings.PinnedProjectID == nil {
		v := ""
		settings.PinnedProjectID = &v
	}
	if settings.SelectionPolicy == nil {
		v := string(model.DefaultSelectionPolicy)
		settings.SelectionPolicy = &v
	}
	if settings.PrivacyMode == nil {
		v := string(model.PrivacyOff)
		settings.PrivacyMode = &v
	}

	// Snapshot
	if settings.Snapshot == nil {
		settings.Snapshot = &RawSnapshotSettings{}
	}
	snap := settings.Snapshot
	if snap.Storage == nil {
		v := SnapshotStorageLocal
		snap.Storage = &v
	}
	if snap.Dir == nil {
		v := filepath.Join(home, "snapshots")
		snap.Dir = &v
	}
	if snap.S3Bucket == nil {
		v := ""
		snap.S3Bucket = &v
	}
	if snap.S3Prefix == nil {
		v := "deetask"
		snap.S3Prefix = &v
	}
	if snap.S3Region == nil {
		v := ""
		snap.S3Region = &v
	}
}

// validateSettings rejects values the engines would not understand
func validateSettings(settings *RawSettings) error {
	if _, err := model.ParseSelectionPolicy(*settings.SelectionPolicy); err != nil {
		return fmt.Errorf("invalid selection_policy: %w", err)
	}
	if _, err := model.ParsePrivacyMode(*settings.PrivacyMode); err != nil {
		return fmt.Errorf("invalid privacy_mode: %w", err)
	}
	if _, err := model.LoadCalendar(*settings.Timezone); err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	snap := settings.Snapshot
	switch strings.ToLower(*snap.Storage) {
	case SnapshotStorageLocal, SnapshotStorageMock:
	case SnapshotStorageS3:
		if *snap.S3Bucket == "" {
			return model.NewValidation("snapshot.s3_bucket is required when snapshot.storage is s3")
		}
	default:
		return model.NewValidation("unknown snapshot.storage " + *snap.Storage)
	}
	return nil
}

// buildAppConfig converts RawSettings to AppConfig
func buildAppConfig(settings *RawSettings, home, configSource, settingPath string) *config.AppConfig {
	policy, _ := model.ParseSelectionPolicy(*settings.SelectionPolicy)
	privacy, _ := model.ParsePrivacyMode(*settings.PrivacyMode)
	snap := settings.Snapshot

	return config.NewAppConfig(
		home,
		*settings.DBPath,
		*settings.Timezone,
		*settings.LogLevel,
		*settings.LogFormat,
		config.GlanceConfig{
			PinnedProjectID: strings.TrimSpace(*settings.PinnedProjectID),
			SelectionPolicy: string(policy),
			PrivacyMode:     string(privacy),
		},
		config.SnapshotConfig{
			Storage:  strings.ToLower(*snap.Storage),
			Dir:      *snap.Dir,
			S3Bucket: *snap.S3Bucket,
			S3Prefix: *snap.S3Prefix,
			S3Region: *snap.S3Region,
		},
		configSource,
		settingPath,
	)
}

// CreateDefaultSettings creates a default settings.yml content
func CreateDefaultSettings(home string) []byte {
	settings := &RawSettings{}
	applyDefaults(settings, home)

	data, _ := yaml.Marshal(settings)
	return data
}
