package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/completion"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/project"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/task"
)

type upperMasker struct{}

func (upperMasker) Mask(title string, mode model.PrivacyMode) string {
	if mode == model.PrivacyOff {
		return title
	}
	return strings.ToUpper(title)
}

func overviewInput(tasks []*task.Task, logs ...*completion.Log) OutstandingInput {
	return OutstandingInput{
		DateKey:     today,
		PrivacyMode: model.PrivacyOff,
		Policy:      model.PolicyTodayOverview,
		Universe: Universe{
			Projects: []*project.Project{activeP, archived},
			Tasks:    tasks,
			Logs:     logs,
		},
		Now:      base,
		Calendar: utc,
	}
}

func displayIDs(s OutstandingSummary) []model.TaskID {
	out := make([]model.TaskID, 0, len(s.DisplayList))
	for _, item := range s.DisplayList {
		out = append(out, item.TaskID)
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		task *task.Task
		want Group
	}{
		{"doing wins over everything", newTask(t, "a", withState(model.WorkflowDoing), withPriority(model.PriorityP1), withDue(base.Add(-time.Hour))), GroupDoing},
		{"overdue", newTask(t, "b", withDue(base.Add(-time.Second))), GroupOverdue},
		{"due now is due soon", newTask(t, "c", withDue(base)), GroupDueSoon},
		{"due at window edge", newTask(t, "d", withDue(base.Add(DueSoonWindow))), GroupDueSoon},
		{"due past window", newTask(t, "e", withDue(base.Add(DueSoonWindow+time.Second))), GroupOther},
		{"p1 without due", newTask(t, "f", withPriority(model.PriorityP1)), GroupP1},
		{"p1 due later", newTask(t, "g", withPriority(model.PriorityP1), withDue(base.AddDate(0, 0, 5))), GroupP1},
		{"habit", newTask(t, "h", habit()), GroupHabitToday},
		{"rollover is other", newTask(t, "i", rollover(base.AddDate(0, 0, 3))), GroupOther},
		{"plain", newTask(t, "j"), GroupOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.task, base))
		})
	}
}

func TestGroup_String(t *testing.T) {
	assert.Equal(t, "G1_DOING", GroupDoing.String())
	assert.Equal(t, "G6_OTHER", GroupOther.String())
	assert.Equal(t, "UNKNOWN", Group(42).String())
}

func TestOutstandingComputer_SortOrder(t *testing.T) {
	tasks := []*task.Task{
		newTask(t, "other"),
		newTask(t, "p1-late", withPriority(model.PriorityP1), withCreated(base.Add(-time.Minute))),
		newTask(t, "p1-early", withPriority(model.PriorityP1), withCreated(base.Add(-2*time.Hour))),
		newTask(t, "soon-later", withDue(base.Add(5*time.Hour))),
		newTask(t, "soon-first", withDue(base.Add(time.Hour)), withPriority(model.PriorityP3)),
		newTask(t, "soon-first-p2", withDue(base.Add(time.Hour)), withPriority(model.PriorityP2)),
	}
	c := NewOutstandingComputer(nil)

	got := c.Compute(overviewInput(tasks))
	assert.Equal(t, []model.TaskID{"soon-first-p2", "soon-first", "soon-later"}, displayIDs(got))

	// drop the due-soon group to see the P1 tie-break by createdAt
	got = c.Compute(overviewInput(tasks[:3]))
	assert.Equal(t, []model.TaskID{"p1-early", "p1-late", "other"}, displayIDs(got))
}

func TestOutstandingComputer_IDTieBreak(t *testing.T) {
	tasks := []*task.Task{newTask(t, "c"), newTask(t, "a"), newTask(t, "b"), newTask(t, "d")}
	got := NewOutstandingComputer(nil).Compute(overviewInput(tasks))
	assert.Equal(t, []model.TaskID{"a", "b", "c"}, displayIDs(got))
}

func TestOutstandingComputer_DoingOverdueP1RanksFirst(t *testing.T) {
	star := newTask(t, "star", withState(model.WorkflowDoing), withDue(base.Add(-time.Hour)), withPriority(model.PriorityP1))
	others := []*task.Task{
		newTask(t, "o1", withDue(base.Add(-48*time.Hour)), withPriority(model.PriorityP1), withCreated(base.AddDate(-1, 0, 0))),
		newTask(t, "o2", withDue(base.Add(time.Minute))),
		newTask(t, "o3", withPriority(model.PriorityP1)),
		newTask(t, "o4", habit()),
	}

	// every rotation of the others, with star at each position
	for shift := 0; shift < len(others); shift++ {
		for pos := 0; pos <= len(others); pos++ {
			rotated := append(append([]*task.Task{}, others[shift:]...), others[:shift]...)
			input := append(append(append([]*task.Task{}, rotated[:pos]...), star), rotated[pos:]...)

			got := NewOutstandingComputer(nil).Compute(overviewInput(input))
			if assert.NotEmpty(t, got.DisplayList) {
				assert.Equal(t, model.TaskID("star"), got.DisplayList[0].TaskID, "shift=%d pos=%d", shift, pos)
				assert.Equal(t, GroupDoing, got.DisplayList[0].Group)
			}
		}
	}
}

func TestOutstandingComputer_BoundedOutput(t *testing.T) {
	tasks := make([]*task.Task, 0, 1000)
	for i := 0; i < 1000; i++ {
		tasks = append(tasks, newTask(t, model.TaskID(fmt.Sprintf("t%04d", i)), withPriority(model.Priority(i%4+1))))
	}
	got := NewOutstandingComputer(nil).Compute(overviewInput(tasks))

	assert.Len(t, got.DisplayList, DisplayLimit)
	assert.Equal(t, 1000, got.Counters.OutstandingTotal)
	assert.Equal(t, 250, got.Counters.P1Count)
	assert.Equal(t, []model.TaskID{"t0000", "t0004", "t0008"}, displayIDs(got))
}

func TestOutstandingComputer_Counters(t *testing.T) {
	tasks := []*task.Task{
		newTask(t, "blocker", withPriority(model.PriorityP1)),
		newTask(t, "blocked", withBlockers("blocker"), withDue(base.Add(-time.Hour))),
		newTask(t, "doing", withState(model.WorkflowDoing), withDue(base.Add(2*time.Hour))),
		newTask(t, "habit-open", habit()),
		newTask(t, "habit-done", habit()),
		newTask(t, "once-done", withPriority(model.PriorityP1)),
		newTask(t, "archived", withProject(archived.ID()), withPriority(model.PriorityP1)),
		newTask(t, "orphan", withProject("p-gone")),
	}
	logs := []*completion.Log{
		logFor("habit-done", model.OccurrenceKey(today)),
		logFor("once-done", model.OccurrenceOnce),
	}

	got := NewOutstandingComputer(nil).Compute(overviewInput(tasks, logs...))

	want := OutstandingSummary{
		DisplayList: []DisplayItem{
			{TaskID: "doing", ProjectID: activeP.ID(), Title: "task doing", Group: GroupDoing, DueAt: ptr(base.Add(2 * time.Hour)), Priority: model.PriorityP4, WorkflowState: model.WorkflowDoing},
			{TaskID: "blocker", ProjectID: activeP.ID(), Title: "task blocker", Group: GroupP1, Priority: model.PriorityP1, WorkflowState: model.WorkflowTodo},
			{TaskID: "habit-open", ProjectID: activeP.ID(), Title: "task habit-open", Group: GroupHabitToday, Priority: model.PriorityP4, WorkflowState: model.WorkflowTodo},
		},
		Counters: Counters{
			OutstandingTotal: 4,
			OverdueCount:     1,
			DueSoonCount:     1,
			P1Count:          1,
			DoingCount:       1,
			BlockedCount:     1,
			RecurringTotal:   1,
		},
		Metadata: SummaryMetadata{DateKey: today, Scope: ScopeTodayOverview},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
	}
}

func TestOutstandingComputer_Scope(t *testing.T) {
	other := mustProject("p-other", model.ProjectActive)
	tasks := []*task.Task{
		newTask(t, "in-active"),
		newTask(t, "in-other", withProject(other.ID())),
		newTask(t, "in-archived", withProject(archived.ID())),
	}
	pin := func(id model.ProjectID) *model.ProjectID { return &id }

	tests := []struct {
		name       string
		policy     model.SelectionPolicy
		pinned     *model.ProjectID
		wantScope  Scope
		wantReason FallbackReason
		wantIDs    []model.TaskID
	}{
		{"overview ignores pin", model.PolicyTodayOverview, pin(other.ID()), ScopeTodayOverview, FallbackNone, []model.TaskID{"in-active", "in-other"}},
		{"pinned first without pin", model.PolicyPinnedFirst, nil, ScopeTodayOverview, FallbackNoPinnedProject, []model.TaskID{"in-active", "in-other"}},
		{"pinned first with empty pin", model.PolicyPinnedFirst, pin(""), ScopeTodayOverview, FallbackNoPinnedProject, []model.TaskID{"in-active", "in-other"}},
		{"pinned archived", model.PolicyPinnedFirst, pin(archived.ID()), ScopeTodayOverview, FallbackPinnedNotActive, []model.TaskID{"in-active", "in-other"}},
		{"pinned missing", model.PolicyAuto, pin("p-gone"), ScopeTodayOverview, FallbackPinnedNotActive, []model.TaskID{"in-active", "in-other"}},
		{"pinned active", model.PolicyPinnedFirst, pin(other.ID()), ScopePinnedProject, FallbackNone, []model.TaskID{"in-other"}},
		{"auto behaves like pinned first", model.PolicyAuto, pin(other.ID()), ScopePinnedProject, FallbackNone, []model.TaskID{"in-other"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := overviewInput(tasks)
			in.Universe.Projects = append(in.Universe.Projects, other)
			in.Policy = tt.policy
			in.PinnedProjectID = tt.pinned

			got := NewOutstandingComputer(nil).Compute(in)
			assert.Equal(t, tt.wantScope, got.Metadata.Scope)
			assert.Equal(t, tt.wantReason, got.Metadata.FallbackReason)
			assert.Equal(t, tt.wantIDs, displayIDs(got))
		})
	}
}

func TestOutstandingComputer_MasksTitles(t *testing.T) {
	in := overviewInput([]*task.Task{newTask(t, "x")})
	in.PrivacyMode = model.PrivacyHidden

	got := NewOutstandingComputer(upperMasker{}).Compute(in)
	assert.Equal(t, "TASK X", got.DisplayList[0].Title)

	got = NewOutstandingComputer(nil).Compute(in)
	assert.Equal(t, "task x", got.DisplayList[0].Title)
}

func TestOutstandingComputer_EmptyUniverse(t *testing.T) {
	got := NewOutstandingComputer(nil).Compute(OutstandingInput{DateKey: today, Policy: model.PolicyAuto, Now: base, Calendar: utc})

	want := OutstandingSummary{
		DisplayList: []DisplayItem{},
		Metadata:    SummaryMetadata{DateKey: today, Scope: ScopeTodayOverview, FallbackReason: FallbackNoPinnedProject},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
	}
}

func TestOutstandingComputer_Deterministic(t *testing.T) {
	tasks := []*task.Task{
		newTask(t, "a", withDue(base.Add(time.Hour))),
		newTask(t, "b", withDue(base.Add(time.Hour))),
		newTask(t, "c", withPriority(model.PriorityP1)),
		newTask(t, "d", habit()),
	}
	c := NewOutstandingComputer(nil)
	first := c.Compute(overviewInput(tasks))
	for i := 0; i < 20; i++ {
		if diff := cmp.Diff(first, c.Compute(overviewInput(tasks))); diff != "" {
			t.Fatalf("run %d differs:\n%s", i, diff)
		}
	}
}
