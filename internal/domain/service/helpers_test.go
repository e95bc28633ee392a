package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/completion"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/project"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/recurrence"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/task"
)

var (
	utc      = model.NewCalendar(time.UTC)
	base     = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	today    = model.DateKey("2024-01-15")
	activeP  = mustProject("p-active", model.ProjectActive)
	archived = mustProject("p-archived", model.ProjectArchived)
)

func mustProject(id model.ProjectID, status model.ProjectStatus) *project.Project {
	p, err := project.ReconstructProject(id, string(id), base.AddDate(0, -1, 0), nil, status, nil, base, base)
	if err != nil {
		panic(err)
	}
	return p
}

// taskOpt tweaks the params of a test task before construction
type taskOpt func(p *task.Params, state *model.WorkflowState, created *time.Time)

func withPriority(pr model.Priority) taskOpt {
	return func(p *task.Params, _ *model.WorkflowState, _ *time.Time) { p.Priority = pr }
}

func withDue(due time.Time) taskOpt {
	return func(p *task.Params, _ *model.WorkflowState, _ *time.Time) { p.DueAt = &due }
}

func withState(s model.WorkflowState) taskOpt {
	return func(_ *task.Params, state *model.WorkflowState, _ *time.Time) { *state = s }
}

func withProject(id model.ProjectID) taskOpt {
	return func(p *task.Params, _ *model.WorkflowState, _ *time.Time) { p.ProjectID = id }
}

func withCreated(c time.Time) taskOpt {
	return func(_ *task.Params, _ *model.WorkflowState, created *time.Time) { *created = c }
}

func withTags(tags ...model.TagID) taskOpt {
	return func(p *task.Params, _ *model.WorkflowState, _ *time.Time) { p.TagIDs = tags }
}

func withSection(s model.SectionID) taskOpt {
	return func(p *task.Params, _ *model.WorkflowState, _ *time.Time) { p.SectionID = &s }
}

func withBlockers(ids ...model.TaskID) taskOpt {
	return func(p *task.Params, _ *model.WorkflowState, _ *time.Time) { p.BlockedByTaskIDs = ids }
}

func habit() taskOpt {
	return func(p *task.Params, _ *model.WorkflowState, _ *time.Time) {
		p.Recurrence = &task.Recurrence{Rule: recurrence.NewDaily(), Behavior: model.BehaviorHabitReset}
	}
}

func rollover(next time.Time) taskOpt {
	return func(p *task.Params, _ *model.WorkflowState, _ *time.Time) {
		p.Recurrence = &task.Recurrence{Rule: recurrence.NewDaily(), Behavior: model.BehaviorRollover}
		p.NextOccurrenceDueAt = &next
	}
}

func newTask(t *testing.T, id model.TaskID, opts ...taskOpt) *task.Task {
	t.Helper()
	p := task.Params{ProjectID: activeP.ID(), Title: "task " + string(id), Priority: model.PriorityP4}
	state := model.WorkflowTodo
	created := base.Add(-time.Hour)
	for _, opt := range opts {
		opt(&p, &state, &created)
	}
	tk, err := task.ReconstructTask(id, state, p, created, created)
	require.NoError(t, err)
	return tk
}

func logFor(id model.TaskID, key model.OccurrenceKey) *completion.Log {
	return completion.ReconstructLog("log-"+string(id)+"-"+string(key), id, key, base)
}
