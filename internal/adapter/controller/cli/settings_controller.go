package cli

import (
	"github.com/spf13/cobra"

	appconfig "github.com/YoshitsuguKoike/deetask/internal/app/config"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/input"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
)

// SettingsController handles glance preference commands
type SettingsController struct {
	reader         output.SettingsProvider
	writer         output.SettingsWriter
	projectUseCase input.ProjectUseCase
	presenter      output.Presenter
	config         appconfig.Config
}

// NewSettingsController creates a new settings controller
func NewSettingsController(
	reader output.SettingsProvider,
	writer output.SettingsWriter,
	projectUC input.ProjectUseCase,
	presenter output.Presenter,
	config appconfig.Config,
) *SettingsController {
	return &SettingsController{
		reader:         reader,
		writer:         writer,
		projectUseCase: projectUC,
		presenter:      presenter,
		config:         config,
	}
}

// BuildCommand builds the 'settings' command tree
func (c *SettingsController) BuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change glance preferences",
	}
	cmd.AddCommand(
		c.ShowCommand(),
		c.PinCommand(),
		c.UnpinCommand(),
		c.PolicyCommand(),
		c.PrivacyCommand(),
	)
	return cmd
}

// ShowCommand creates 'settings show' command
func (c *SettingsController) ShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.reader.GlanceSettings(cmd.Context())
			if err != nil {
				return c.presenter.PresentError(err)
			}

			pinned := ""
			if s.PinnedProjectID != nil {
				pinned = string(*s.PinnedProjectID)
			}
			result := map[string]string{
				"pinned_project_id": pinned,
				"selection_policy":  string(s.Policy),
				"privacy_mode":      string(s.PrivacyMode),
			}
			if c.config != nil {
				snap := c.config.Snapshot()
				result["home"] = c.config.Home()
				result["db_path"] = c.config.DBPath()
				result["timezone"] = c.config.Timezone()
				result["snapshot_storage"] = snap.Storage
				result["config_source"] = c.config.ConfigSource()
			}

			return c.presenter.PresentSuccess("Settings", result)
		},
	}
}

// PinCommand creates 'settings pin' command
func (c *SettingsController) PinCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pin [project-id]",
		Short: "Pin a project for the glance summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.projectUseCase.GetProject(cmd.Context(), args[0])
			if err != nil {
				return c.presenter.PresentError(err)
			}

			id := model.ProjectID(p.ID)
			if err := c.writer.SetPinnedProject(cmd.Context(), &id); err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Project pinned", p)
		},
	}
}

// UnpinCommand creates 'settings unpin' command
func (c *SettingsController) UnpinCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unpin",
		Short: "Remove the pinned project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.writer.SetPinnedProject(cmd.Context(), nil); err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Pin removed", nil)
		},
	}
}

// PolicyCommand creates 'settings policy' command
func (c *SettingsController) PolicyCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "policy [TODAY_OVERVIEW|PINNED_FIRST|AUTO]",
		Short:     "Set the selection policy",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.PolicyTodayOverview), string(model.PolicyPinnedFirst), string(model.PolicyAuto)},
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := model.ParseSelectionPolicy(args[0])
			if err != nil {
				return c.presenter.PresentError(err)
			}
			if err := c.writer.SetSelectionPolicy(cmd.Context(), policy); err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Selection policy set", map[string]string{"selection_policy": string(policy)})
		},
	}
}

// PrivacyCommand creates 'settings privacy' command
func (c *SettingsController) PrivacyCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "privacy [off|partial|hidden]",
		Short:     "Set how titles appear on glanceable surfaces",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.PrivacyOff), string(model.PrivacyPartial), string(model.PrivacyHidden)},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := model.ParsePrivacyMode(args[0])
			if err != nil {
				return c.presenter.PresentError(err)
			}
			if err := c.writer.SetPrivacyMode(cmd.Context(), mode); err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Privacy mode set", map[string]string{"privacy_mode": string(mode)})
		},
	}
}
