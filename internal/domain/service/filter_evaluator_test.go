package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/completion"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/filter"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/project"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/task"
)

func ptr[T any](v T) *T { return &v }

func ids(tasks []*task.Task) []model.TaskID {
	out := make([]model.TaskID, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID())
	}
	return out
}

// todayStart is midnight of 2024-01-15 UTC
var todayStart = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func filterUniverse(t *testing.T) Universe {
	return Universe{
		Projects: []*project.Project{activeP, archived, mustProject("p-other", model.ProjectActive)},
		Tasks: []*task.Task{
			newTask(t, "p1-today", withPriority(model.PriorityP1), withDue(todayStart.Add(10*time.Hour)), withTags("home")),
			newTask(t, "p2-next3", withPriority(model.PriorityP2), withDue(todayStart.AddDate(0, 0, 3)), withSection("s1")),
			newTask(t, "p3-overdue", withPriority(model.PriorityP3), withDue(todayStart.Add(-time.Minute)), withTags("work", "home")),
			newTask(t, "p4-nodue", withState(model.WorkflowDoing)),
			newTask(t, "p4-next8", withDue(todayStart.AddDate(0, 0, 8)), withProject("p-other")),
			newTask(t, "habit", habit(), withSection("s1")),
			newTask(t, "blocked", withBlockers("p1-today"), withTags("work")),
			newTask(t, "done-state", withState(model.WorkflowDone)),
		},
	}
}

func evaluate(t *testing.T, def filter.Definition, u Universe) []model.TaskID {
	t.Helper()
	got, err := NewFilterEvaluator().Evaluate(def, u, FilterContext{DateKey: today, Calendar: utc})
	require.NoError(t, err)
	return ids(got)
}

func TestFilterEvaluator_Predicates(t *testing.T) {
	tests := []struct {
		name string
		def  filter.Definition
		want []model.TaskID
	}{
		{
			name: "empty definition keeps everything not done",
			def:  filter.Definition{},
			want: []model.TaskID{"p1-today", "p2-next3", "p3-overdue", "p4-nodue", "p4-next8", "habit", "blocked"},
		},
		{
			name: "project membership",
			def:  filter.Definition{ProjectIDs: []model.ProjectID{"p-other"}},
			want: []model.TaskID{"p4-next8"},
		},
		{
			name: "section requires a present section",
			def:  filter.Definition{SectionIDs: []model.SectionID{"s1"}},
			want: []model.TaskID{"p2-next3", "habit"},
		},
		{
			name: "tag intersection",
			def:  filter.Definition{TagIDs: []model.TagID{"home"}},
			want: []model.TaskID{"p1-today", "p3-overdue"},
		},
		{
			name: "priority at least P2",
			def:  filter.Definition{PriorityAtLeast: ptr(model.PriorityP2)},
			want: []model.TaskID{"p1-today", "p2-next3"},
		},
		{
			name: "priority at most P3",
			def:  filter.Definition{PriorityAtMost: ptr(model.PriorityP3)},
			want: []model.TaskID{"p3-overdue", "p4-nodue", "p4-next8", "habit", "blocked"},
		},
		{
			name: "explicit states include done",
			def:  filter.Definition{WorkflowStates: []model.WorkflowState{model.WorkflowDone, model.WorkflowDoing}},
			want: []model.TaskID{"p4-nodue", "done-state"},
		},
		{
			name: "due today",
			def:  filter.Definition{DueRange: ptr(filter.DueToday)},
			want: []model.TaskID{"p1-today"},
		},
		{
			name: "due next7",
			def:  filter.Definition{DueRange: ptr(filter.DueNext7)},
			want: []model.TaskID{"p1-today", "p2-next3"},
		},
		{
			name: "overdue",
			def:  filter.Definition{DueRange: ptr(filter.DueOverdue)},
			want: []model.TaskID{"p3-overdue"},
		},
		{
			name: "no due date",
			def:  filter.Definition{DueRange: ptr(filter.DueNone)},
			want: []model.TaskID{"p4-nodue", "habit", "blocked"},
		},
		{
			name: "any due date",
			def:  filter.Definition{DueRange: ptr(filter.DueAny)},
			want: []model.TaskID{"p1-today", "p2-next3", "p3-overdue", "p4-next8"},
		},
		{
			name: "exclude recurring",
			def:  filter.Definition{IncludeRecurring: ptr(false), SectionIDs: []model.SectionID{"s1"}},
			want: []model.TaskID{"p2-next3"},
		},
		{
			name: "exclude blocked",
			def:  filter.Definition{ExcludeBlocked: true, TagIDs: []model.TagID{"work"}},
			want: []model.TaskID{"p3-overdue"},
		},
		{
			name: "contradictory priority bounds match nothing",
			def:  filter.Definition{PriorityAtLeast: ptr(model.PriorityP1), PriorityAtMost: ptr(model.PriorityP4)},
			want: []model.TaskID{},
		},
	}

	u := filterUniverse(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, evaluate(t, tt.def, u))
		})
	}
}

func TestFilterEvaluator_AndIsIntersection(t *testing.T) {
	u := filterUniverse(t)
	criteria := []filter.Definition{
		{TagIDs: []model.TagID{"home", "work"}},
		{PriorityAtLeast: ptr(model.PriorityP3)},
		{DueRange: ptr(filter.DueAny)},
		{SectionIDs: []model.SectionID{"s1"}},
		{ExcludeBlocked: true},
		{IncludeRecurring: ptr(false)},
		{ProjectIDs: []model.ProjectID{activeP.ID()}},
	}

	for i := range criteria {
		for j := range criteria {
			if i == j {
				continue
			}
			a := evaluate(t, criteria[i], u)
			b := evaluate(t, criteria[j], u)
			both := evaluate(t, merge(criteria[i], criteria[j]), u)
			assert.Equal(t, intersect(a, b), both, "criteria %d AND %d", i, j)
		}
	}
}

func merge(a, b filter.Definition) filter.Definition {
	out := a
	if b.TagIDs != nil {
		out.TagIDs = b.TagIDs
	}
	if b.PriorityAtLeast != nil {
		out.PriorityAtLeast = b.PriorityAtLeast
	}
	if b.DueRange != nil {
		out.DueRange = b.DueRange
	}
	if b.SectionIDs != nil {
		out.SectionIDs = b.SectionIDs
	}
	if b.ExcludeBlocked {
		out.ExcludeBlocked = true
	}
	if b.IncludeRecurring != nil {
		out.IncludeRecurring = b.IncludeRecurring
	}
	if b.ProjectIDs != nil {
		out.ProjectIDs = b.ProjectIDs
	}
	return out
}

func intersect(a, b []model.TaskID) []model.TaskID {
	inB := make(map[model.TaskID]bool, len(b))
	for _, id := range b {
		inB[id] = true
	}
	out := []model.TaskID{}
	for _, id := range a {
		if inB[id] {
			out = append(out, id)
		}
	}
	return out
}

func TestFilterEvaluator_AlwaysDrops(t *testing.T) {
	u := Universe{
		Projects: []*project.Project{activeP, archived},
		Tasks: []*task.Task{
			newTask(t, "done-once"),
			newTask(t, "habit-today", habit()),
			newTask(t, "habit-yesterday", habit()),
			newTask(t, "in-archived", withProject(archived.ID())),
			newTask(t, "unknown-project", withProject("p-gone")),
		},
		Logs: []*completion.Log{
			logFor("done-once", model.OccurrenceOnce),
			logFor("habit-today", model.OccurrenceKey(today)),
			logFor("habit-yesterday", "2024-01-14"),
		},
	}

	// explicit states cannot bring the dropped ones back
	def := filter.Definition{WorkflowStates: []model.WorkflowState{model.WorkflowTodo, model.WorkflowDoing, model.WorkflowDone}}
	assert.Equal(t, []model.TaskID{"habit-yesterday", "unknown-project"}, evaluate(t, def, u))
}

func TestFilterEvaluator_CompletedOneOffLeavesDefaultFilter(t *testing.T) {
	overdue := newTask(t, "t1", withDue(todayStart.Add(-24*time.Hour)))
	u := Universe{Projects: []*project.Project{activeP}, Tasks: []*task.Task{overdue}}

	assert.Equal(t, []model.TaskID{"t1"}, evaluate(t, filter.Definition{}, u))

	u.Logs = []*completion.Log{logFor("t1", model.OccurrenceOnce)}
	assert.Empty(t, evaluate(t, filter.Definition{}, u))
}

func TestFilterEvaluator_InvalidDefinition(t *testing.T) {
	tests := []struct {
		name string
		def  filter.Definition
	}{
		{"priority out of range", filter.Definition{PriorityAtLeast: ptr(model.Priority(0))}},
		{"unknown state", filter.Definition{WorkflowStates: []model.WorkflowState{"paused"}}},
		{"unknown due range", filter.Definition{DueRange: ptr(filter.DueRange("tomorrow"))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFilterEvaluator().Evaluate(tt.def, Universe{}, FilterContext{DateKey: today, Calendar: utc})
			assert.True(t, model.IsValidation(err), "got %v", err)
		})
	}
}

func TestFilterEvaluator_ExplicitTodayStart(t *testing.T) {
	// a caller-supplied start wins over the calendar
	u := Universe{Projects: []*project.Project{activeP}, Tasks: []*task.Task{
		newTask(t, "t1", withDue(todayStart.Add(30*time.Hour))),
	}}
	got, err := NewFilterEvaluator().Evaluate(
		filter.Definition{DueRange: ptr(filter.DueToday)},
		u,
		FilterContext{DateKey: today, Calendar: utc, TodayStart: todayStart.AddDate(0, 0, 1)},
	)
	require.NoError(t, err)
	assert.Equal(t, []model.TaskID{"t1"}, ids(got))
}
