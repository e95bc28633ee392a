package service

import (
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/completion"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/project"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/task"
)

// OccurrenceKeyFor derives which occurrence a completion on dateKey fulfils.
//   - oneOff: the fixed "once" sentinel
//   - habitReset: the completion day itself
//   - rollover: the day of the task's open occurrence, not the wall-clock day
func OccurrenceKeyFor(t *task.Task, dateKey model.DateKey, cal model.Calendar) (model.OccurrenceKey, error) {
	switch {
	case !t.IsRecurring():
		return model.OccurrenceOnce, nil
	case t.IsRollover():
		next := t.NextOccurrenceDueAt()
		if next == nil {
			return "", model.NewMissingRecurrenceState(t.ID(), "nextOccurrenceDueAt")
		}
		if t.Recurrence() == nil {
			return "", model.NewMissingRecurrenceState(t.ID(), "recurrenceRule")
		}
		return model.OccurrenceKey(cal.Key(*next)), nil
	default:
		return model.OccurrenceKey(dateKey), nil
	}
}

// LogIndex answers "is there a log for (taskId, occurrenceKey)" in O(1)
type LogIndex struct {
	byTask map[model.TaskID]map[model.OccurrenceKey]bool
}

// NewLogIndex builds an index over logs
func NewLogIndex(logs []*completion.Log) LogIndex {
	ix := LogIndex{byTask: make(map[model.TaskID]map[model.OccurrenceKey]bool, len(logs))}
	for _, l := range logs {
		if l == nil {
			continue
		}
		keys, ok := ix.byTask[l.TaskID()]
		if !ok {
			keys = make(map[model.OccurrenceKey]bool)
			ix.byTask[l.TaskID()] = keys
		}
		keys[l.OccurrenceKey()] = true
	}
	return ix
}

// Has reports whether a log exists for (taskID, key)
func (ix LogIndex) Has(taskID model.TaskID, key model.OccurrenceKey) bool {
	return ix.byTask[taskID][key]
}

// IsCompleted reports whether t's relevant occurrence on dateKey has a log
func (ix LogIndex) IsCompleted(t *task.Task, dateKey model.DateKey, cal model.Calendar) bool {
	key, err := OccurrenceKeyFor(t, dateKey, cal)
	if err != nil {
		// a rollover task without a pointer has no open occurrence to satisfy
		return false
	}
	return ix.Has(t.ID(), key)
}

// IsCompleted is the standalone form of LogIndex.IsCompleted
func IsCompleted(t *task.Task, logs []*completion.Log, dateKey model.DateKey, cal model.Calendar) bool {
	return NewLogIndex(logs).IsCompleted(t, dateKey, cal)
}

// TaskIndex maps task IDs to tasks, built once per evaluation
type TaskIndex map[model.TaskID]*task.Task

// NewTaskIndex builds an index over tasks
func NewTaskIndex(tasks []*task.Task) TaskIndex {
	ix := make(TaskIndex, len(tasks))
	for _, t := range tasks {
		if t != nil {
			ix[t.ID()] = t
		}
	}
	return ix
}

// IsBlocked reports whether any predecessor of t resolves to a not-completed task.
// A predecessor that no longer exists counts as completed.
func (ix TaskIndex) IsBlocked(t *task.Task, logs LogIndex, dateKey model.DateKey, cal model.Calendar) bool {
	for _, id := range t.BlockedByTaskIDs() {
		blocker, ok := ix[id]
		if !ok {
			continue
		}
		if !logs.IsCompleted(blocker, dateKey, cal) {
			return true
		}
	}
	return false
}

// Universe is the full set of entities a pure evaluation runs over
type Universe struct {
	Projects []*project.Project
	Tasks    []*task.Task
	Logs     []*completion.Log
}

// universeIndex is the once-built set of lookups shared by the engines
type universeIndex struct {
	tasks    TaskIndex
	logs     LogIndex
	projects map[model.ProjectID]*project.Project
}

func (u Universe) index() universeIndex {
	projects := make(map[model.ProjectID]*project.Project, len(u.Projects))
	for _, p := range u.Projects {
		if p != nil {
			projects[p.ID()] = p
		}
	}
	return universeIndex{
		tasks:    NewTaskIndex(u.Tasks),
		logs:     NewLogIndex(u.Logs),
		projects: projects,
	}
}
