package cli

import (
	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/deetask/internal/application/dto"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/input"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
)

// TaskController handles task-related CLI commands
type TaskController struct {
	taskUseCase       input.TaskUseCase
	completionUseCase input.CompletionUseCase
	presenter         output.Presenter
	calendar          model.Calendar
}

// NewTaskController creates a new task controller
func NewTaskController(
	taskUC input.TaskUseCase,
	completionUC input.CompletionUseCase,
	presenter output.Presenter,
	calendar model.Calendar,
) *TaskController {
	return &TaskController{
		taskUseCase:       taskUC,
		completionUseCase: completionUC,
		presenter:         presenter,
		calendar:          calendar,
	}
}

// BuildCommand builds the 'task' command tree
func (c *TaskController) BuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Manage tasks",
	}
	cmd.AddCommand(
		c.AddCommand(),
		c.ListCommand(),
		c.ShowCommand(),
		c.UpdateCommand(),
		c.StartCommand(),
		c.CompleteCommand(),
		c.UncompleteCommand(),
		c.DeleteCommand(),
		c.FilterCommand(),
	)
	return cmd
}

// AddCommand creates 'task add' command
func (c *TaskController) AddCommand() *cobra.Command {
	var (
		projectID string
		priority  string
		due       string
		start     string
		section   string
		tags      []string
		note      string
		repeat    string
		behavior  string
		next      string
		blockedBy []string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a new task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.CreateTaskRequest{
				ProjectID:        projectID,
				Title:            args[0],
				Priority:         priority,
				SectionID:        optionalString(section),
				TagIDs:           tags,
				Note:             optionalString(note),
				BlockedByTaskIDs: blockedBy,
			}

			var err error
			if req.DueAt, err = optionalTime(due, c.calendar, true); err != nil {
				return c.presenter.PresentError(err)
			}
			if req.StartAt, err = optionalTime(start, c.calendar, false); err != nil {
				return c.presenter.PresentError(err)
			}
			if repeat != "" {
				req.Recurrence = &dto.RecurrenceDTO{Rule: repeat, Behavior: behavior}
				if req.NextOccurrenceDueAt, err = optionalTime(next, c.calendar, true); err != nil {
					return c.presenter.PresentError(err)
				}
			}

			result, err := c.taskUseCase.CreateTask(cmd.Context(), req)
			if err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Task created successfully", result)
		},
	}

	cmd.Flags().StringVarP(&projectID, "project", "p", "", "Project ID (default Inbox)")
	cmd.Flags().StringVarP(&priority, "priority", "P", "P4", "Priority (P1-P4, P1 is most urgent)")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due time (YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC3339)")
	cmd.Flags().StringVar(&start, "start", "", "Start time")
	cmd.Flags().StringVar(&section, "section", "", "Section ID")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", []string{}, "Tag ID (repeatable)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "Free-form note")
	cmd.Flags().StringVarP(&repeat, "repeat", "r", "", "Recurrence rule (daily, weekly:mon,wed, monthly:31)")
	cmd.Flags().StringVar(&behavior, "behavior", string(model.BehaviorHabitReset), "Recurrence behavior (habitReset, rollover)")
	cmd.Flags().StringVar(&next, "next", "", "First occurrence due time for rollover tasks (default --due)")
	cmd.Flags().StringArrayVar(&blockedBy, "blocked-by", []string{}, "Blocking task ID (repeatable)")

	return cmd
}

// ListCommand creates 'task list' command
func (c *TaskController) ListCommand() *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.ListTasksRequest{ProjectID: optionalString(projectID)}

			result, err := c.taskUseCase.ListTasks(cmd.Context(), req)
			if err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Task list", result)
		},
	}

	cmd.Flags().StringVarP(&projectID, "project", "p", "", "Only tasks of this project")

	return cmd
}

// ShowCommand creates 'task show' command
func (c *TaskController) ShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [task-id]",
		Short: "Show task details by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.taskUseCase.GetTask(cmd.Context(), args[0])
			if err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Task details", result)
		},
	}
}

// UpdateCommand creates 'task update' command.
// Flags that are not given keep their value; "none" clears an optional field.
func (c *TaskController) UpdateCommand() *cobra.Command {
	var (
		projectID string
		title     string
		priority  string
		due       string
		start     string
		section   string
		tags      []string
		note      string
		repeat    string
		behavior  string
		next      string
		blockedBy []string
		state     string
	)

	cmd := &cobra.Command{
		Use:   "update [task-id]",
		Short: "Update task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.UpdateTaskRequest{
				TaskID:           args[0],
				ProjectID:        stringField(cmd, "project", projectID),
				Title:            stringField(cmd, "title", title),
				Priority:         stringField(cmd, "priority", priority),
				SectionID:        stringField(cmd, "section", section),
				TagIDs:           listField(cmd, "tag", tags),
				Note:             stringField(cmd, "note", note),
				BlockedByTaskIDs: listField(cmd, "blocked-by", blockedBy),
				WorkflowState:    stringField(cmd, "state", state),
			}

			var err error
			if req.DueAt, err = timeField(cmd, "due", due, c.calendar, true); err != nil {
				return c.presenter.PresentError(err)
			}
			if req.StartAt, err = timeField(cmd, "start", start, c.calendar, false); err != nil {
				return c.presenter.PresentError(err)
			}
			if req.NextOccurrenceDueAt, err = timeField(cmd, "next", next, c.calendar, true); err != nil {
				return c.presenter.PresentError(err)
			}
			switch {
			case !cmd.Flags().Changed("repeat"):
				req.Recurrence = dto.Keep[dto.RecurrenceDTO]()
			case repeat == noneValue:
				req.Recurrence = dto.Clear[dto.RecurrenceDTO]()
			default:
				req.Recurrence = dto.Set(dto.RecurrenceDTO{Rule: repeat, Behavior: behavior})
			}

			result, err := c.taskUseCase.UpdateTask(cmd.Context(), req)
			if err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Task updated successfully", result)
		},
	}

	cmd.Flags().StringVarP(&projectID, "project", "p", "", "Move to project (none moves to Inbox)")
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&priority, "priority", "P", "", "Priority (P1-P4, none resets to P4)")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due time or none")
	cmd.Flags().StringVar(&start, "start", "", "Start time or none")
	cmd.Flags().StringVar(&section, "section", "", "Section ID or none")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", []string{}, "Replace tags (repeatable, none clears)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "Note or none")
	cmd.Flags().StringVarP(&repeat, "repeat", "r", "", "Recurrence rule or none")
	cmd.Flags().StringVar(&behavior, "behavior", string(model.BehaviorHabitReset), "Recurrence behavior used with --repeat")
	cmd.Flags().StringVar(&next, "next", "", "Open occurrence due time for rollover tasks or none")
	cmd.Flags().StringArrayVar(&blockedBy, "blocked-by", []string{}, "Replace blockers (repeatable, none clears)")
	cmd.Flags().StringVar(&state, "state", "", "Workflow state (todo, doing, done; none resets to todo)")

	return cmd
}

// StartCommand creates 'task start' command
func (c *TaskController) StartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start [task-id]",
		Short: "Move a task to doing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.completionUseCase.Start(cmd.Context(), args[0])
			if err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Task started", result)
		},
	}
}

// CompleteCommand creates 'task complete' command
func (c *TaskController) CompleteCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:     "complete [task-id]",
		Aliases: []string{"done"},
		Short:   "Complete the task's occurrence for a day",
		Long: `Complete records that the occurrence relevant to the day was done.
One-off tasks complete once, habit tasks once per day and rollover tasks
complete their open occurrence and advance to the next one.
Completing twice is a no-op.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.CompleteRequest{TaskID: args[0], DateKey: date}

			result, err := c.completionUseCase.Complete(cmd.Context(), req)
			if err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Task completed", result)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to complete for (YYYY-MM-DD, default today)")

	return cmd
}

// UncompleteCommand creates 'task uncomplete' command
func (c *TaskController) UncompleteCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:     "uncomplete [task-id]",
		Aliases: []string{"reopen"},
		Short:   "Reopen the task's occurrence for a day",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.UncompleteRequest{TaskID: args[0], DateKey: date}

			result, err := c.completionUseCase.Uncomplete(cmd.Context(), req)
			if err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Task reopened", result)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to reopen (YYYY-MM-DD, default today)")

	return cmd
}

// DeleteCommand creates 'task delete' command
func (c *TaskController) DeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [task-id]",
		Short: "Delete a task and its completion history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.taskUseCase.DeleteTask(cmd.Context(), args[0]); err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Task deleted", map[string]string{"id": args[0]})
		},
	}
}

// FilterCommand creates 'task filter' command
func (c *TaskController) FilterCommand() *cobra.Command {
	var (
		projects         []string
		sections         []string
		tags             []string
		priorityAtLeast  string
		priorityAtMost   string
		states           []string
		due              string
		excludeRecurring bool
		excludeBlocked   bool
		date             string
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List tasks matching every given criterion",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := dto.FilterDTO{
				ProjectIDs:      projects,
				SectionIDs:      sections,
				TagIDs:          tags,
				PriorityAtLeast: optionalString(priorityAtLeast),
				PriorityAtMost:  optionalString(priorityAtMost),
				WorkflowStates:  states,
				DueRange:        optionalString(due),
				ExcludeBlocked:  excludeBlocked,
			}
			if excludeRecurring {
				include := false
				f.IncludeRecurring = &include
			}

			result, err := c.taskUseCase.FilterTasks(cmd.Context(), dto.FilterRequest{Filter: f, DateKey: date})
			if err != nil {
				return c.presenter.PresentError(err)
			}

			return c.presenter.PresentSuccess("Filtered tasks", result)
		},
	}

	cmd.Flags().StringArrayVarP(&projects, "project", "p", []string{}, "Project ID (repeatable, any of)")
	cmd.Flags().StringArrayVar(&sections, "section", []string{}, "Section ID (repeatable, any of)")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", []string{}, "Tag ID (repeatable, any of)")
	cmd.Flags().StringVar(&priorityAtLeast, "priority-at-least", "", "Most urgent end, e.g. P2 keeps P1 and P2")
	cmd.Flags().StringVar(&priorityAtMost, "priority-at-most", "", "Least urgent end")
	cmd.Flags().StringArrayVar(&states, "state", []string{}, "Workflow state (todo, doing, done; default not done)")
	cmd.Flags().StringVar(&due, "due", "", "Due range (today, next7, overdue, none, any)")
	cmd.Flags().BoolVar(&excludeRecurring, "no-recurring", false, "Drop recurring tasks")
	cmd.Flags().BoolVar(&excludeBlocked, "unblocked", false, "Drop tasks with an incomplete blocker")
	cmd.Flags().StringVar(&date, "date", "", "Day the filter is evaluated for (default today)")

	return cmd
}
