package config

// Config provides read-only access to application configuration.
// This interface abstracts the configuration source (settings.yml, defaults)
// and ensures the app layer doesn't depend on infrastructure details.
type Config interface {
	// Core settings
	Home() string     // Base directory for deetask (DEETASK_HOME)
	DBPath() string   // SQLite database file
	Timezone() string // IANA zone used for date keys; empty means local time

	// Logging
	LogLevel() string  // debug, info, warn, error
	LogFormat() string // json or console

	// Glance preferences
	Glance() GlanceConfig

	// Snapshot publishing
	Snapshot() SnapshotConfig

	// Metadata
	ConfigSource() string // Source of configuration: "yaml" or "default"
	SettingPath() string  // Path to settings.yml if loaded from file
}

// GlanceConfig holds the persisted selection preferences
type GlanceConfig struct {
	PinnedProjectID string // empty means no pin
	SelectionPolicy string
	PrivacyMode     string
}

// SnapshotConfig selects and configures the snapshot gateway
type SnapshotConfig struct {
	Storage  string // local, s3 or mock
	Dir      string // local storage root
	S3Bucket string
	S3Prefix string
	S3Region string
}

// AppConfig is the concrete implementation of Config interface.
type AppConfig struct {
	home     string
	dbPath   string
	timezone string

	logLevel  string
	logFormat string

	glance   GlanceConfig
	snapshot SnapshotConfig

	configSource string
	settingPath  string
}

// Home returns the base directory for deetask
func (c *AppConfig) Home() string {
	return c.home
}

// DBPath returns the database file path
func (c *AppConfig) DBPath() string {
	return c.dbPath
}

// Timezone returns the configured IANA zone name
func (c *AppConfig) Timezone() string {
	return c.timezone
}

// LogLevel returns the log level
func (c *AppConfig) LogLevel() string {
	return c.logLevel
}

// LogFormat returns the log encoding
func (c *AppConfig) LogFormat() string {
	return c.logFormat
}

// Glance returns the glance preferences
func (c *AppConfig) Glance() GlanceConfig {
	return c.glance
}

// Snapshot returns the snapshot settings
func (c *AppConfig) Snapshot() SnapshotConfig {
	return c.snapshot
}

// ConfigSource returns the source of configuration
func (c *AppConfig) ConfigSource() string {
	return c.configSource
}

// SettingPath returns the path to settings.yml if loaded from file
func (c *AppConfig) SettingPath() string {
	return c.settingPath
}

// WithDBPath returns a copy using dbPath, for the --db flag
func (c *AppConfig) WithDBPath(dbPath string) *AppConfig {
	cp := *c
	cp.dbPath = dbPath
	return &cp
}

// WithLogLevel returns a copy using level, for the --log-level flag
func (c *AppConfig) WithLogLevel(level string) *AppConfig {
	cp := *c
	cp.logLevel = level
	return &cp
}

// NewAppConfig creates a new AppConfig with the given values.
// This is typically called by the infrastructure layer after loading and merging configurations.
func NewAppConfig(
	home, dbPath, timezone string,
	logLevel, logFormat string,
	glance GlanceConfig,
	snapshot SnapshotConfig,
	configSource, settingPath string,
) *AppConfig {
	return &AppConfig{
		home:         home,
		dbPath:       dbPath,
		timezone:     timezone,
		logLevel:     logLevel,
		logFormat:    logFormat,
		glance:       glance,
		snapshot:     snapshot,
		configSource: configSource,
		settingPath:  settingPath,
	}
}
