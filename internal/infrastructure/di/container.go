package di

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/deetask/internal/adapter/controller/cli"
	storagegateway "github.com/YoshitsuguKoike/deetask/internal/adapter/gateway/storage"
	"github.com/YoshitsuguKoike/deetask/internal/adapter/presenter"
	"github.com/YoshitsuguKoike/deetask/internal/app"
	appconfig "github.com/YoshitsuguKoike/deetask/internal/app/config"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/input"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/output"
	completionusecase "github.com/YoshitsuguKoike/deetask/internal/application/usecase/completion"
	glanceusecase "github.com/YoshitsuguKoike/deetask/internal/application/usecase/glance"
	projectusecase "github.com/YoshitsuguKoike/deetask/internal/application/usecase/project"
	snapshotusecase "github.com/YoshitsuguKoike/deetask/internal/application/usecase/snapshot"
	taskusecase "github.com/YoshitsuguKoike/deetask/internal/application/usecase/task"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/repository"
	infraconfig "github.com/YoshitsuguKoike/deetask/internal/infra/config"
	sqliterepo "github.com/YoshitsuguKoike/deetask/internal/infrastructure/persistence/sqlite"
	"github.com/YoshitsuguKoike/deetask/internal/infrastructure/transaction"
)

// Container is the DI container that holds all dependencies
// This implements manual dependency injection for Clean Architecture
type Container struct {
	// Infrastructure Layer - Database
	db *sql.DB

	// Infrastructure Layer - Repositories (SQLite implementations)
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	logRepo     repository.CompletionLogRepository

	// Infrastructure Layer - Gateways
	snapshotGateway output.SnapshotGateway

	// Infrastructure Layer - Transaction Manager
	txManager output.TransactionManager

	// Infrastructure Layer - Settings
	appConfig     *appconfig.AppConfig
	settingsStore *infraconfig.Store
	calendar      model.Calendar
	logger        *app.ZapLogger

	// Application Layer - Use Cases
	taskUseCase       input.TaskUseCase
	completionUseCase input.CompletionUseCase
	projectUseCase    input.ProjectUseCase
	glanceUseCase     input.GlanceUseCase
	snapshotUseCase   input.SnapshotUseCase

	// Adapter Layer - Presenters
	presenter output.Presenter

	// Adapter Layer - Controllers
	rootCmd *cobra.Command

	// Configuration
	config Config
}

// Config holds configuration for the container
type Config struct {
	Home         string // deetask home; resolved from DEETASK_HOME or ~/.deetask when empty
	DBPath       string // overrides db_path from settings.yml; ":memory:" for a throwaway store
	LogLevel     string // overrides log_level from settings.yml
	OutputFormat string // Output format (cli, json)
	OutputWriter io.Writer
	Version      string
	BuildInfo    string

	// Fs holds settings.yml and local snapshots (default: OS file system)
	Fs afero.Fs

	// Now is the clock used by use cases (default: time.Now)
	Now func() time.Time
}

// NewContainer creates and initializes the DI container
func NewContainer(config Config) (*Container, error) {
	c := &Container{
		config: config,
	}

	// Set default output writer
	if c.config.OutputWriter == nil {
		c.config.OutputWriter = os.Stdout
	}
	if c.config.Fs == nil {
		c.config.Fs = afero.NewOsFs()
	}
	if c.config.Now == nil {
		c.config.Now = time.Now
	}
	c.config.Home = infraconfig.ResolveHome(c.config.Home)

	// Initialize dependencies in dependency order
	if err := c.initializeConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := c.initializeInfrastructure(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}

	c.initializeApplication()
	c.initializeAdapters()

	return c, nil
}

// initializeConfig loads settings.yml, applies flag overrides and builds the logger
func (c *Container) initializeConfig() error {
	cfg, err := infraconfig.LoadSettings(c.config.Fs, c.config.Home)
	if err != nil {
		return err
	}
	if c.config.DBPath != "" {
		cfg = cfg.WithDBPath(c.config.DBPath)
	}
	if c.config.LogLevel != "" {
		cfg = cfg.WithLogLevel(c.config.LogLevel)
	}
	c.appConfig = cfg

	calendar, err := model.LoadCalendar(cfg.Timezone())
	if err != nil {
		return err
	}
	c.calendar = calendar

	logger, err := app.BuildLogger(app.LoggerOptions{Level: cfg.LogLevel(), Format: cfg.LogFormat()})
	if err != nil {
		return err
	}
	c.logger = logger
	app.SetLogger(logger)

	c.settingsStore = infraconfig.NewStore(c.config.Fs, c.config.Home)
	return nil
}

// initializeInfrastructure initializes infrastructure layer components
func (c *Container) initializeInfrastructure() error {
	// 1. Ensure the database directory exists
	dbPath := c.appConfig.DBPath()
	if dbPath != ":memory:" && !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// 2. Open SQLite database connection and run migrations
	db, err := sqliterepo.Open(dbPath)
	if err != nil {
		return err
	}
	c.db = db
	c.logger.Debug("opened database %s", dbPath)

	// 3. Initialize SQLite Repositories
	c.taskRepo = sqliterepo.NewTaskRepository(db)
	c.projectRepo = sqliterepo.NewProjectRepository(db)
	c.logRepo = sqliterepo.NewCompletionLogRepository(db)

	// 4. Initialize SQLite Transaction Manager
	c.txManager = transaction.NewSQLiteTransactionManager(db)

	// 5. Initialize Snapshot Gateway based on configuration
	gateway, err := newSnapshotGateway(c.config.Fs, c.appConfig.Snapshot())
	if err != nil {
		return err
	}
	c.snapshotGateway = gateway

	return nil
}

func newSnapshotGateway(afs afero.Fs, cfg appconfig.SnapshotConfig) (output.SnapshotGateway, error) {
	switch cfg.Storage {
	case infraconfig.SnapshotStorageLocal, "":
		// Use local filesystem storage
		localGateway, err := storagegateway.NewLocalSnapshotGateway(afs, cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to create local snapshot gateway: %w", err)
		}
		return localGateway, nil

	case infraconfig.SnapshotStorageS3:
		// Use AWS S3 storage
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3 bucket name is required for S3 storage")
		}
		s3Gateway, err := storagegateway.NewS3SnapshotGateway(context.Background(), storagegateway.S3Config{
			BucketName: cfg.S3Bucket,
			Prefix:     cfg.S3Prefix,
			Region:     cfg.S3Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 snapshot gateway: %w", err)
		}
		return s3Gateway, nil

	case infraconfig.SnapshotStorageMock:
		// Use mock storage (in-memory)
		return storagegateway.NewMockSnapshotGateway(), nil

	default:
		return nil, fmt.Errorf("unknown snapshot storage type: %s", cfg.Storage)
	}
}

// initializeApplication initializes application layer components
func (c *Container) initializeApplication() {
	now := c.config.Now

	c.taskUseCase = taskusecase.NewTaskUseCaseImpl(
		c.taskRepo,
		c.projectRepo,
		c.logRepo,
		c.txManager,
		c.calendar,
		now,
		c.logger,
	)

	c.completionUseCase = completionusecase.NewCompletionUseCaseImpl(
		c.taskRepo,
		c.logRepo,
		c.txManager,
		c.calendar,
		now,
		c.logger,
	)

	c.projectUseCase = projectusecase.NewProjectUseCaseImpl(
		c.projectRepo,
		c.txManager,
		now,
		c.logger,
	)

	c.glanceUseCase = glanceusecase.NewGlanceUseCaseImpl(
		c.taskRepo,
		c.projectRepo,
		c.logRepo,
		c.settingsStore,
		presenter.NewPrivacyMasker(),
		c.calendar,
		now,
		c.logger,
	)

	c.snapshotUseCase = snapshotusecase.NewSnapshotUseCaseImpl(
		c.glanceUseCase,
		c.snapshotGateway,
		c.logger,
	)
}

// initializeAdapters initializes adapter layer components
func (c *Container) initializeAdapters() {
	// 1. Initialize Presenter based on output format
	switch c.config.OutputFormat {
	case "json":
		c.presenter = presenter.NewJSONPresenter(c.config.OutputWriter)
	default: // "cli"
		c.presenter = presenter.NewCLIPresenter(c.config.OutputWriter)
	}

	// 2. Initialize Root Command Builder
	rootBuilder := cli.NewRootBuilder(
		cli.UseCases{
			Task:       c.taskUseCase,
			Completion: c.completionUseCase,
			Project:    c.projectUseCase,
			Glance:     c.glanceUseCase,
			Snapshot:   c.snapshotUseCase,
		},
		c.settingsStore,
		c.settingsStore,
		c.appConfig,
		c.calendar,
		c.presenter,
		c.config.Version,
		c.config.BuildInfo,
	)

	// 3. Build root command with all subcommands
	c.rootCmd = rootBuilder.Build()
}

// GetRootCommand returns the root Cobra command
func (c *Container) GetRootCommand() *cobra.Command {
	return c.rootCmd
}

// GetTaskUseCase returns the task use case
func (c *Container) GetTaskUseCase() input.TaskUseCase {
	return c.taskUseCase
}

// GetCompletionUseCase returns the completion use case
func (c *Container) GetCompletionUseCase() input.CompletionUseCase {
	return c.completionUseCase
}

// GetProjectUseCase returns the project use case
func (c *Container) GetProjectUseCase() input.ProjectUseCase {
	return c.projectUseCase
}

// GetGlanceUseCase returns the glance use case
func (c *Container) GetGlanceUseCase() input.GlanceUseCase {
	return c.glanceUseCase
}

// GetSnapshotUseCase returns the snapshot use case
func (c *Container) GetSnapshotUseCase() input.SnapshotUseCase {
	return c.snapshotUseCase
}

// GetPresenter returns the presenter
func (c *Container) GetPresenter() output.Presenter {
	return c.presenter
}

// GetSnapshotGateway returns the snapshot gateway
func (c *Container) GetSnapshotGateway() output.SnapshotGateway {
	return c.snapshotGateway
}

// GetConfig returns the effective configuration
func (c *Container) GetConfig() appconfig.Config {
	return c.appConfig
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.logger != nil {
		_ = c.logger.Sync()
	}

	// Close database connection
	if c.db != nil {
		err := c.db.Close()
		c.db = nil
		return err
	}
	return nil
}
