package task

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/recurrence"
)

// Recurrence is the recurring configuration of a task
type Recurrence struct {
	Rule     recurrence.Rule
	Behavior model.RecurrenceBehavior
}

// Params carries the fields needed to create a task
type Params struct {
	ProjectID           model.ProjectID
	Title               string
	Priority            model.Priority
	DueAt               *time.Time
	StartAt             *time.Time
	SectionID           *model.SectionID
	TagIDs              []model.TagID
	Note                *string
	Recurrence          *Recurrence
	NextOccurrenceDueAt *time.Time
	BlockedByTaskIDs    []model.TaskID
}

// Task is a unit of work inside a project
type Task struct {
	id                  model.TaskID
	projectID           model.ProjectID
	title               string
	taskType            model.TaskType
	priority            model.Priority
	workflowState       model.WorkflowState
	dueAt               *time.Time
	startAt             *time.Time
	sectionID           *model.SectionID
	tagIDs              []model.TagID
	note                *string
	recurrence          *Recurrence
	nextOccurrenceDueAt *time.Time
	blockedBy           []model.TaskID
	createdAt           time.Time
	updatedAt           time.Time
}

// NewTask creates a new todo task.
// A recurring rollover task without an explicit pointer starts at its due date.
func NewTask(p Params, now time.Time) (*Task, error) {
	t := &Task{
		id:            model.NewTaskID(),
		workflowState: model.WorkflowTodo,
		createdAt:     now,
		updatedAt:     now,
	}
	if p.Priority == 0 {
		p.Priority = model.DefaultPriority
	}
	if p.Recurrence != nil && p.Recurrence.Behavior == model.BehaviorRollover &&
		p.NextOccurrenceDueAt == nil && p.DueAt != nil {
		due := *p.DueAt
		p.NextOccurrenceDueAt = &due
	}
	if err := t.apply(p); err != nil {
		return nil, err
	}
	return t, nil
}

// ReconstructTask rebuilds a task from stored data without touching timestamps
func ReconstructTask(
	id model.TaskID,
	state model.WorkflowState,
	p Params,
	createdAt time.Time,
	updatedAt time.Time,
) (*Task, error) {
	if id == "" {
		return nil, model.NewValidation("task ID cannot be empty")
	}
	if !state.IsValid() {
		return nil, model.NewValidation("invalid workflow state " + string(state))
	}
	t := &Task{
		id:            id,
		workflowState: state,
		createdAt:     createdAt,
	}
	if err := t.apply(p); err != nil {
		return nil, err
	}
	t.updatedAt = updatedAt
	return t, nil
}

// apply validates p as a whole and copies it into t
func (t *Task) apply(p Params) error {
	title := normalizeTitle(p.Title)
	if title == "" {
		return model.NewValidation("title cannot be empty")
	}
	if p.ProjectID == "" {
		return model.NewValidation("project ID cannot be empty")
	}
	if !p.Priority.IsValid() {
		return model.NewValidation("invalid priority " + p.Priority.String())
	}

	taskType := model.TaskTypeOneOff
	if p.Recurrence != nil {
		if p.Recurrence.Rule.IsZero() {
			return model.NewValidation("recurring task requires a recurrence rule")
		}
		if !p.Recurrence.Behavior.IsValid() {
			return model.NewValidation("invalid recurrence behavior " + string(p.Recurrence.Behavior))
		}
		taskType = model.TaskTypeRecurring
	}
	if p.NextOccurrenceDueAt != nil && (p.Recurrence == nil || p.Recurrence.Behavior != model.BehaviorRollover) {
		return model.NewValidation("next occurrence is only tracked for rollover tasks")
	}

	blockedBy := make([]model.TaskID, 0, len(p.BlockedByTaskIDs))
	seen := make(map[model.TaskID]bool, len(p.BlockedByTaskIDs))
	for _, id := range p.BlockedByTaskIDs {
		if id == t.id {
			return model.NewValidation("task cannot block itself")
		}
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		blockedBy = append(blockedBy, id)
	}

	t.projectID = p.ProjectID
	t.title = title
	t.taskType = taskType
	t.priority = p.Priority
	t.dueAt = copyTime(p.DueAt)
	t.startAt = copyTime(p.StartAt)
	t.sectionID = p.SectionID
	t.tagIDs = uniqueTags(p.TagIDs)
	t.note = p.Note
	if p.Recurrence != nil {
		rec := *p.Recurrence
		t.recurrence = &rec
	} else {
		t.recurrence = nil
	}
	t.nextOccurrenceDueAt = copyTime(p.NextOccurrenceDueAt)
	t.blockedBy = blockedBy
	return nil
}

// ID returns the task ID
func (t *Task) ID() model.TaskID { return t.id }

// ProjectID returns the owning project
func (t *Task) ProjectID() model.ProjectID { return t.projectID }

// Title returns the title
func (t *Task) Title() string { return t.title }

// Type returns oneOff or recurring
func (t *Task) Type() model.TaskType { return t.taskType }

// Priority returns the priority
func (t *Task) Priority() model.Priority { return t.priority }

// WorkflowState returns the workflow state
func (t *Task) WorkflowState() model.WorkflowState { return t.workflowState }

// DueAt returns the due instant, if any
func (t *Task) DueAt() *time.Time { return copyTime(t.dueAt) }

// StartAt returns the start instant, if any
func (t *Task) StartAt() *time.Time { return copyTime(t.startAt) }

// SectionID returns the section, if any
func (t *Task) SectionID() *model.SectionID { return t.sectionID }

// TagIDs returns a copy of the tag set
func (t *Task) TagIDs() []model.TagID {
	out := make([]model.TagID, len(t.tagIDs))
	copy(out, t.tagIDs)
	return out
}

// HasTag reports whether the task carries tag
func (t *Task) HasTag(tag model.TagID) bool {
	for _, existing := range t.tagIDs {
		if existing == tag {
			return true
		}
	}
	return false
}

// Note returns the note, if any
func (t *Task) Note() *string { return t.note }

// Recurrence returns the recurring configuration (nil for one-off tasks)
func (t *Task) Recurrence() *Recurrence {
	if t.recurrence == nil {
		return nil
	}
	rec := *t.recurrence
	return &rec
}

// Behavior returns the recurrence behavior, empty for one-off tasks
func (t *Task) Behavior() model.RecurrenceBehavior {
	if t.recurrence == nil {
		return ""
	}
	return t.recurrence.Behavior
}

// IsRecurring reports taskType == recurring
func (t *Task) IsRecurring() bool { return t.taskType == model.TaskTypeRecurring }

// IsHabitReset reports a recurring task with habitReset behavior
func (t *Task) IsHabitReset() bool { return t.Behavior() == model.BehaviorHabitReset }

// IsRollover reports a recurring task with rollover behavior
func (t *Task) IsRollover() bool { return t.Behavior() == model.BehaviorRollover }

// NextOccurrenceDueAt returns the rollover pointer, if any
func (t *Task) NextOccurrenceDueAt() *time.Time { return copyTime(t.nextOccurrenceDueAt) }

// BlockedByTaskIDs returns a copy of the predecessor list
func (t *Task) BlockedByTaskIDs() []model.TaskID {
	out := make([]model.TaskID, len(t.blockedBy))
	copy(out, t.blockedBy)
	return out
}

// CreatedAt returns the creation timestamp
func (t *Task) CreatedAt() time.Time { return t.createdAt }

// UpdatedAt returns the last update timestamp
func (t *Task) UpdatedAt() time.Time { return t.updatedAt }

// Params returns the current mutable fields, for read-modify-write updates
func (t *Task) Params() Params {
	return Params{
		ProjectID:           t.projectID,
		Title:               t.title,
		Priority:            t.priority,
		DueAt:               t.DueAt(),
		StartAt:             t.StartAt(),
		SectionID:           t.sectionID,
		TagIDs:              t.TagIDs(),
		Note:                t.note,
		Recurrence:          t.Recurrence(),
		NextOccurrenceDueAt: t.NextOccurrenceDueAt(),
		BlockedByTaskIDs:    t.BlockedByTaskIDs(),
	}
}

// Update replaces the mutable fields after validating them together
func (t *Task) Update(p Params, now time.Time) error {
	if err := t.apply(p); err != nil {
		return err
	}
	t.updatedAt = now
	return nil
}

// Start moves the task to doing. It reports false when it was already doing.
func (t *Task) Start(now time.Time) (bool, error) {
	switch t.workflowState {
	case model.WorkflowDoing:
		return false, nil
	case model.WorkflowDone:
		return false, model.NewValidation("cannot start a task that is done")
	}
	t.workflowState = model.WorkflowDoing
	t.updatedAt = now
	return true, nil
}

// SetWorkflowState moves the task to any valid state. It reports false when
// the task was already in that state.
func (t *Task) SetWorkflowState(state model.WorkflowState, now time.Time) (bool, error) {
	if !state.IsValid() {
		return false, model.NewValidation("invalid workflow state " + string(state))
	}
	if t.workflowState == state {
		return false, nil
	}
	t.workflowState = state
	t.updatedAt = now
	return true, nil
}

// SetNextOccurrenceDueAt moves the rollover pointer
func (t *Task) SetNextOccurrenceDueAt(next time.Time, now time.Time) error {
	if !t.IsRollover() {
		return model.NewValidation("next occurrence is only tracked for rollover tasks")
	}
	t.nextOccurrenceDueAt = &next
	t.updatedAt = now
	return nil
}

func normalizeTitle(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

func uniqueTags(tags []model.TagID) []model.TagID {
	out := make([]model.TagID, 0, len(tags))
	seen := make(map[model.TagID]bool, len(tags))
	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
