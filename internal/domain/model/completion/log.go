// Package completion models the append-only completion log
package completion

import (
	"time"

	"github.com/google/uuid"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
)

// Log records that one occurrence of a task was completed.
// Entries are created and deleted, never mutated.
type Log struct {
	id            string
	taskID        model.TaskID
	occurrenceKey model.OccurrenceKey
	completedAt   time.Time
}

// NewLog creates a new log entry
func NewLog(taskID model.TaskID, key model.OccurrenceKey, completedAt time.Time) (*Log, error) {
	if taskID == "" {
		return nil, model.NewValidation("task ID cannot be empty")
	}
	if key == "" {
		return nil, model.NewValidation("occurrence key cannot be empty")
	}
	return &Log{
		id:            uuid.New().String(),
		taskID:        taskID,
		occurrenceKey: key,
		completedAt:   completedAt,
	}, nil
}

// ReconstructLog rebuilds a log entry from stored data
func ReconstructLog(id string, taskID model.TaskID, key model.OccurrenceKey, completedAt time.Time) *Log {
	return &Log{
		id:            id,
		taskID:        taskID,
		occurrenceKey: key,
		completedAt:   completedAt,
	}
}

// ID returns the log ID
func (l *Log) ID() string { return l.id }

// TaskID returns the completed task
func (l *Log) TaskID() model.TaskID { return l.taskID }

// OccurrenceKey returns which occurrence was fulfilled
func (l *Log) OccurrenceKey() model.OccurrenceKey { return l.occurrenceKey }

// CompletedAt returns when the completion was recorded
func (l *Log) CompletedAt() time.Time { return l.completedAt }
