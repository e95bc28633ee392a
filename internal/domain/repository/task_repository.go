package repository

import (
	"context"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/task"
)

// TaskRepository manages Task entities.
// FindByID returns a NotFound DomainError on a miss; other failures are Storage errors.
type TaskRepository interface {
	// FindByID retrieves a task by its ID
	FindByID(ctx context.Context, id model.TaskID) (*task.Task, error)

	// FindAll retrieves every task ordered by creation time
	FindAll(ctx context.Context) ([]*task.Task, error)

	// FindByProject retrieves the tasks of one project
	FindByProject(ctx context.Context, projectID model.ProjectID) ([]*task.Task, error)

	// Save upserts a task
	Save(ctx context.Context, t *task.Task) error

	// Delete removes a task; deleting a missing task is not an error
	Delete(ctx context.Context, id model.TaskID) error
}
