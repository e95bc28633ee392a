package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/deetask/internal/application/dto"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/input"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
)

// ProjectController handles project-related CLI commands
type ProjectController struct {
	projectUseCase input.ProjectUseCase
	presenter      output.Presenter
	calendar       model.Calendar
}

// NewProjectController creates a new project controller
func NewProjectController(projectUC input.ProjectUseCase, presenter output.Presenter, calendar model.Calendar) *ProjectController {
	return &ProjectController{
		projectUseCase: projectUC,
		presenter:      presenter,
		calendar:       calendar,
	}
}

// BuildCommand builds the 'project' command tree
func (c *ProjectController) BuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"p"},
		Short:   "Manage projects",
	}
	cmd.AddCommand(
		c.AddCommand(),
		c.ListCommand(),
		c.ShowCommand(),
		c.transitionCommand("archive", "Archive a project", "Project archived", c.projectUseCase.ArchiveProject),
		c.transitionCommand("complete", "Mark a project completed", "Project completed", c.projectUseCase.CompleteProject),
		c.transitionCommand("reactivate", "Make a project active again", "Project reactivated", c.projectUseCase.ReactivateProject),
	)
	return cmd
}

// AddCommand creates 'project add' command
func (c *ProjectController) AddCommand() *cobra.Command {
	var (
		start string
		due   string
		note  string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.CreateProjectRequest{Title: args[0], Note: optionalString(note)}

			var err error
			if req.StartDate, err = optionalTime(start, c.calendar, false); err != nil {
				return c.presenter.PresentError(err)
			}
			if req.DueDate, err = optionalTime(due, c.calendar, true); err != nil {
				return c.presenter.PresentError(err)
			}

			result, err := c.projectUseCase.CreateProject(cmd.Context(), req)
			if err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Project created successfully", result)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date (default now)")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date")
	cmd.Flags().StringVarP(&note, "note", "n", "", "Free-form note")

	return cmd
}

// ListCommand creates 'project list' command
func (c *ProjectController) ListCommand() *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.projectUseCase.ListProjects(cmd.Context(), dto.ListProjectsRequest{ActiveOnly: activeOnly})
			if err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Project list", result)
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only active projects")

	return cmd
}

// ShowCommand creates 'project show' command
func (c *ProjectController) ShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [project-id]",
		Short: "Show project details by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.projectUseCase.GetProject(cmd.Context(), args[0])
			if err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Project details", result)
		},
	}
}

func (c *ProjectController) transitionCommand(
	use, short, done string,
	transition func(ctx context.Context, projectID string) (*dto.ProjectDTO, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [project-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := transition(cmd.Context(), args[0])
			if err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess(done, result)
		},
	}
}
