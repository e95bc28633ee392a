package dto

import "time"

// TaskDTO represents a task in data transfer format
type TaskDTO struct {
	ID                  string         `json:"id"`
	ProjectID           string         `json:"project_id"`
	Title               string         `json:"title"`
	Type                string         `json:"type"` // "oneOff", "recurring"
	Priority            string         `json:"priority"`
	WorkflowState       string         `json:"workflow_state"`
	DueAt               *time.Time     `json:"due_at,omitempty"`
	StartAt             *time.Time     `json:"start_at,omitempty"`
	SectionID           *string        `json:"section_id,omitempty"`
	TagIDs              []string       `json:"tag_ids"`
	Note                *string        `json:"note,omitempty"`
	Recurrence          *RecurrenceDTO `json:"recurrence,omitempty"`
	NextOccurrenceDueAt *time.Time     `json:"next_occurrence_due_at,omitempty"`
	BlockedByTaskIDs    []string       `json:"blocked_by_task_ids"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// RecurrenceDTO carries a rule in its compact text form ("weekly:mon,wed")
type RecurrenceDTO struct {
	Rule     string `json:"rule"`
	Behavior string `json:"behavior"` // "habitReset", "rollover"
}

// CreateTaskRequest carries already-resolved fields for a new task
type CreateTaskRequest struct {
	ProjectID           string // empty means Inbox
	Title               string
	Priority            string // "P1".."P4"; empty means P4
	DueAt               *time.Time
	StartAt             *time.Time
	SectionID           *string
	TagIDs              []string
	Note                *string
	Recurrence          *RecurrenceDTO
	NextOccurrenceDueAt *time.Time
	BlockedByTaskIDs    []string
}

// UpdateTaskRequest carries one tri-state instruction per field
type UpdateTaskRequest struct {
	TaskID              string
	ProjectID           Field[string]
	Title               Field[string]
	Priority            Field[string] // Clear resets to P4
	DueAt               Field[time.Time]
	StartAt             Field[time.Time]
	SectionID           Field[string]
	TagIDs              Field[[]string]
	Note                Field[string]
	Recurrence          Field[RecurrenceDTO]
	NextOccurrenceDueAt Field[time.Time]
	BlockedByTaskIDs    Field[[]string]
	WorkflowState       Field[string] // Clear resets to todo
}

// ListTasksRequest narrows a task listing
type ListTasksRequest struct {
	ProjectID *string
}

// ListTasksResponse represents the response of listing tasks
type ListTasksResponse struct {
	Tasks []TaskDTO `json:"tasks"`
	Total int       `json:"total"`
}

// FilterDTO is the primitive form of a filter definition
type FilterDTO struct {
	ProjectIDs       []string `json:"project_ids,omitempty"`
	SectionIDs       []string `json:"section_ids,omitempty"`
	TagIDs           []string `json:"tag_ids,omitempty"`
	PriorityAtLeast  *string  `json:"priority_at_least,omitempty"`
	PriorityAtMost   *string  `json:"priority_at_most,omitempty"`
	WorkflowStates   []string `json:"workflow_states,omitempty"`
	DueRange         *string  `json:"due_range,omitempty"`
	IncludeRecurring *bool    `json:"include_recurring,omitempty"`
	ExcludeBlocked   bool     `json:"exclude_blocked,omitempty"`
}

// FilterRequest evaluates a filter against the whole store
type FilterRequest struct {
	Filter  FilterDTO
	DateKey string // empty means today
}
