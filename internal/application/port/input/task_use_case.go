package input

import (
	"context"

	"github.com/YoshitsuguKoike/deetask/internal/application/dto"
)

// TaskUseCase defines the interface for task management use cases
type TaskUseCase interface {
	// CreateTask creates a new task; an empty project means Inbox
	CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*dto.TaskDTO, error)

	// UpdateTask applies tri-state field instructions to a task
	UpdateTask(ctx context.Context, req dto.UpdateTaskRequest) (*dto.TaskDTO, error)

	// GetTask retrieves a task by ID
	GetTask(ctx context.Context, taskID string) (*dto.TaskDTO, error)

	// ListTasks lists tasks, optionally of one project
	ListTasks(ctx context.Context, req dto.ListTasksRequest) (*dto.ListTasksResponse, error)

	// FilterTasks evaluates a filter definition against all tasks
	FilterTasks(ctx context.Context, req dto.FilterRequest) (*dto.ListTasksResponse, error)

	// DeleteTask deletes a task and its completion logs
	DeleteTask(ctx context.Context, taskID string) error
}

// CompletionUseCase defines the completion lifecycle
type CompletionUseCase interface {
	// Complete records completion of the occurrence relevant to the request day
	Complete(ctx context.Context, req dto.CompleteRequest) (*dto.CompletionResult, error)

	// Uncomplete removes the completion of the occurrence relevant to the request day
	Uncomplete(ctx context.Context, req dto.UncompleteRequest) (*dto.UncompleteResult, error)

	// Start moves a task to doing
	Start(ctx context.Context, taskID string) (*dto.StartResult, error)
}

// ProjectUseCase defines project management use cases
type ProjectUseCase interface {
	// CreateProject creates a new active project
	CreateProject(ctx context.Context, req dto.CreateProjectRequest) (*dto.ProjectDTO, error)

	// GetProject retrieves a project by ID
	GetProject(ctx context.Context, projectID string) (*dto.ProjectDTO, error)

	// ListProjects lists projects
	ListProjects(ctx context.Context, req dto.ListProjectsRequest) ([]dto.ProjectDTO, error)

	// ArchiveProject moves a project to archived
	ArchiveProject(ctx context.Context, projectID string) (*dto.ProjectDTO, error)

	// CompleteProject moves a project to completed
	CompleteProject(ctx context.Context, projectID string) (*dto.ProjectDTO, error)

	// ReactivateProject moves a project back to active
	ReactivateProject(ctx context.Context, projectID string) (*dto.ProjectDTO, error)
}

// GlanceUseCase defines read models for glanceable surfaces
type GlanceUseCase interface {
	// Summary computes the bounded outstanding summary
	Summary(ctx context.Context, req dto.SummaryRequest) (*dto.SummaryDTO, error)
}

// SnapshotUseCase publishes glance summaries for widgets
type SnapshotUseCase interface {
	// Publish computes the summary for today and stores it
	Publish(ctx context.Context) (*dto.PublishResult, error)

	// Latest reads back the most recently published summary
	Latest(ctx context.Context) (*dto.SummaryDTO, error)
}
