package model

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
)

// TaskID represents a unique identifier for a task
type TaskID string

// ProjectID represents a unique identifier for a project
type ProjectID string

// SectionID identifies a section inside a project
type SectionID string

// TagID identifies a tag
type TagID string

// InboxProjectID is the well-known project that always exists
const InboxProjectID ProjectID = "inbox"

// InboxProjectTitle is the display title of the Inbox project
const InboxProjectTitle = "Inbox"

// newULID generates a sortable identifier; IDs made in the same millisecond
// still increase monotonically
func newULID() string {
	return ulid.Make().String()
}

// NewTaskID creates a new TaskID
func NewTaskID() TaskID {
	return TaskID(newULID())
}

// NewProjectID creates a new ProjectID
func NewProjectID() ProjectID {
	return ProjectID(newULID())
}

// String returns the string representation
func (t TaskID) String() string {
	return string(t)
}

// String returns the string representation
func (p ProjectID) String() string {
	return string(p)
}

// TaskType represents the type of task
type TaskType string

const (
	TaskTypeOneOff    TaskType = "oneOff"
	TaskTypeRecurring TaskType = "recurring"
)

// String returns the string representation
func (t TaskType) String() string {
	return string(t)
}

// IsValid validates the task type
func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeOneOff, TaskTypeRecurring:
		return true
	default:
		return false
	}
}

// Priority ranks a task from P1 (highest) to P4 (lowest)
type Priority int

const (
	PriorityP1 Priority = 1
	PriorityP2 Priority = 2
	PriorityP3 Priority = 3
	PriorityP4 Priority = 4
)

// DefaultPriority is applied when a task is created without one
const DefaultPriority = PriorityP4

// IsValid validates the priority
func (p Priority) IsValid() bool {
	return p >= PriorityP1 && p <= PriorityP4
}

// String returns the string representation, e.g. "P2"
func (p Priority) String() string {
	return fmt.Sprintf("P%d", int(p))
}

// ParsePriority accepts "P1".."P4" (any case) or "1".."4"
func ParsePriority(s string) (Priority, error) {
	v := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "P")
	if len(v) == 1 && v[0] >= '1' && v[0] <= '4' {
		return Priority(v[0] - '0'), nil
	}
	return 0, NewValidation(fmt.Sprintf("invalid priority %q", s))
}

// WorkflowState represents where a task is in the todo/doing/done flow
type WorkflowState string

const (
	WorkflowTodo  WorkflowState = "todo"
	WorkflowDoing WorkflowState = "doing"
	WorkflowDone  WorkflowState = "done"
)

// String returns the string representation
func (s WorkflowState) String() string {
	return string(s)
}

// IsValid validates the workflow state
func (s WorkflowState) IsValid() bool {
	switch s {
	case WorkflowTodo, WorkflowDoing, WorkflowDone:
		return true
	default:
		return false
	}
}

// ParseWorkflowState parses todo, doing or done
func ParseWorkflowState(s string) (WorkflowState, error) {
	state := WorkflowState(strings.ToLower(strings.TrimSpace(s)))
	if !state.IsValid() {
		return "", NewValidation(fmt.Sprintf("invalid workflow state %q", s))
	}
	return state, nil
}

// RecurrenceBehavior decides how a recurring task resets after completion
type RecurrenceBehavior string

const (
	// BehaviorHabitReset scopes completion to the calendar day
	BehaviorHabitReset RecurrenceBehavior = "habitReset"
	// BehaviorRollover tracks an explicit pointer to the open occurrence
	BehaviorRollover RecurrenceBehavior = "rollover"
)

// String returns the string representation
func (b RecurrenceBehavior) String() string {
	return string(b)
}

// IsValid validates the behavior
func (b RecurrenceBehavior) IsValid() bool {
	switch b {
	case BehaviorHabitReset, BehaviorRollover:
		return true
	default:
		return false
	}
}

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectArchived  ProjectStatus = "archived"
	ProjectCompleted ProjectStatus = "completed"
)

// String returns the string representation
func (s ProjectStatus) String() string {
	return string(s)
}

// IsValid validates the project status
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectActive, ProjectArchived, ProjectCompleted:
		return true
	default:
		return false
	}
}
