package dto

import "time"

// CompleteRequest represents a request to complete a task occurrence
type CompleteRequest struct {
	TaskID      string
	DateKey     string     // empty means today
	CompletedAt *time.Time // nil means now
}

// UncompleteRequest represents a request to reopen a task occurrence
type UncompleteRequest struct {
	TaskID  string
	DateKey string // empty means today
}

// CompletionLogDTO represents a completion log entry
type CompletionLogDTO struct {
	ID            string    `json:"id"`
	TaskID        string    `json:"task_id"`
	OccurrenceKey string    `json:"occurrence_key"`
	CompletedAt   time.Time `json:"completed_at"`
}

// CompletionResult is returned by Complete
type CompletionResult struct {
	Log                 CompletionLogDTO `json:"log"`
	Task                TaskDTO          `json:"task"`
	WasAlreadyCompleted bool             `json:"was_already_completed"`
}

// UncompleteResult is returned by Uncomplete
type UncompleteResult struct {
	RemovedLog CompletionLogDTO `json:"removed_log"`
	Task       TaskDTO          `json:"task"`
}

// StartResult is returned by Start
type StartResult struct {
	Task    TaskDTO `json:"task"`
	Changed bool    `json:"changed"`
}
