package cli

import (
	"github.com/spf13/cobra"

	appconfig "github.com/YoshitsuguKoike/deetask/internal/app/config"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/input"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
)

// UseCases bundles the application entry points the controllers call
type UseCases struct {
	Task       input.TaskUseCase
	Completion input.CompletionUseCase
	Project    input.ProjectUseCase
	Glance     input.GlanceUseCase
	Snapshot   input.SnapshotUseCase
}

// RootBuilder builds the root CLI command with all subcommands
type RootBuilder struct {
	// Use cases
	useCases UseCases

	// Settings
	settingsReader output.SettingsProvider
	settingsWriter output.SettingsWriter
	config         appconfig.Config
	calendar       model.Calendar

	// Output
	presenter output.Presenter

	// Version info
	version   string
	buildInfo string
}

// NewRootBuilder creates a new root command builder
func NewRootBuilder(
	useCases UseCases,
	settingsReader output.SettingsProvider,
	settingsWriter output.SettingsWriter,
	config appconfig.Config,
	calendar model.Calendar,
	presenter output.Presenter,
	version string,
	buildInfo string,
) *RootBuilder {
	return &RootBuilder{
		useCases:       useCases,
		settingsReader: settingsReader,
		settingsWriter: settingsWriter,
		config:         config,
		calendar:       calendar,
		presenter:      presenter,
		version:        version,
		buildInfo:      buildInfo,
	}
}

// Build creates the root command with all subcommands
func (b *RootBuilder) Build() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "deetask",
		Short: "deetask - personal task manager",
		Long: `deetask tracks one-off and recurring tasks across projects and
answers "what should I look at right now?" with a short ranked summary.`,
		Version: b.version,
		// Errors are rendered by the presenter
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Add global flags. Their values are read before the command tree is
	// built (see ParseGlobalFlags); registering them here makes cobra accept them.
	var globals GlobalFlags
	BindGlobalFlags(rootCmd.PersistentFlags(), &globals)

	// Create controllers
	taskController := NewTaskController(
		b.useCases.Task,
		b.useCases.Completion,
		b.presenter,
		b.calendar,
	)

	projectController := NewProjectController(
		b.useCases.Project,
		b.presenter,
		b.calendar,
	)

	glanceController := NewGlanceController(
		b.useCases.Glance,
		b.useCases.Snapshot,
		b.presenter,
	)

	settingsController := NewSettingsController(
		b.settingsReader,
		b.settingsWriter,
		b.useCases.Project,
		b.presenter,
		b.config,
	)

	// Add subcommands
	rootCmd.AddCommand(
		taskController.BuildCommand(),
		projectController.BuildCommand(),
		glanceController.BuildCommand(),
		settingsController.BuildCommand(),
		b.versionCommand(),
	)

	return rootCmd
}

// versionCommand creates the 'version' command
func (b *RootBuilder) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			versionInfo := map[string]string{
				"version":   b.version,
				"buildInfo": b.buildInfo,
			}
			return b.presenter.PresentSuccess("deetask version", versionInfo)
		},
	}
}
