package cli

import (
	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/deetask/internal/application/dto"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/input"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/output"
)

// GlanceController handles the glance summary and snapshot commands
type GlanceController struct {
	glanceUseCase   input.GlanceUseCase
	snapshotUseCase input.SnapshotUseCase
	presenter       output.Presenter
}

// NewGlanceController creates a new glance controller
func NewGlanceController(glanceUC input.GlanceUseCase, snapshotUC input.SnapshotUseCase, presenter output.Presenter) *GlanceController {
	return &GlanceController{
		glanceUseCase:   glanceUC,
		snapshotUseCase: snapshotUC,
		presenter:       presenter,
	}
}

// BuildCommand builds the 'glance' command tree; bare 'glance' shows the summary
func (c *GlanceController) BuildCommand() *cobra.Command {
	cmd := c.ShowCommand()
	cmd.Use = "glance"
	cmd.Aliases = []string{"g"}
	cmd.Short = "Show the few tasks that matter right now"
	cmd.AddCommand(c.ShowCommand(), c.PublishCommand(), c.LatestCommand())
	return cmd
}

// ShowCommand creates 'glance show' command
func (c *GlanceController) ShowCommand() *cobra.Command {
	var (
		date    string
		pin     string
		noPin   bool
		policy  string
		privacy string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the outstanding summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.SummaryRequest{
				DateKey:     date,
				Policy:      optionalString(policy),
				PrivacyMode: optionalString(privacy),
			}
			switch {
			case noPin:
				req.PinnedProjectID = dto.Clear[string]()
			case pin != "":
				req.PinnedProjectID = dto.Set(pin)
			}

			result, err := c.glanceUseCase.Summary(cmd.Context(), req)
			if err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Glance", result)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to summarize (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&pin, "pin", "", "Pinned project for this run")
	cmd.Flags().BoolVar(&noPin, "no-pin", false, "Ignore the persisted pin for this run")
	cmd.Flags().StringVar(&policy, "policy", "", "Selection policy (TODAY_OVERVIEW, PINNED_FIRST, AUTO)")
	cmd.Flags().StringVar(&privacy, "privacy", "", "Privacy mode (off, partial, hidden)")
	cmd.MarkFlagsMutuallyExclusive("pin", "no-pin")

	return cmd
}

// PublishCommand creates 'glance publish' command
func (c *GlanceController) PublishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Publish today's summary for widgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.snapshotUseCase.Publish(cmd.Context())
			if err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Snapshot published", result)
		},
	}
}

// LatestCommand creates 'glance latest' command
func (c *GlanceController) LatestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Show the last published summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.snapshotUseCase.Latest(cmd.Context())
			if err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Latest snapshot", result)
		},
	}
}
