package repository

import (
	"context"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/completion"
)

// CompletionLogRepository manages the append-only completion log.
// Implementations enforce (taskID, occurrenceKey) uniqueness and report a
// violation from Save as a DuplicateCompletion DomainError.
type CompletionLogRepository interface {
	// FindByTaskAndKey returns the log for one occurrence, or (nil, nil) when there is none
	FindByTaskAndKey(ctx context.Context, taskID model.TaskID, key model.OccurrenceKey) (*completion.Log, error)

	// FindAll retrieves every log
	FindAll(ctx context.Context) ([]*completion.Log, error)

	// FindByTask retrieves the logs of one task, oldest first
	FindByTask(ctx context.Context, taskID model.TaskID) ([]*completion.Log, error)

	// Save inserts a new log
	Save(ctx context.Context, l *completion.Log) error

	// DeleteByID removes one log
	DeleteByID(ctx context.Context, id string) error

	// DeleteByTask removes all logs of a task
	DeleteByTask(ctx context.Context, taskID model.TaskID) error
}
