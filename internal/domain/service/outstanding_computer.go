package service

import (
	"sort"
	"time"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/task"
)

// DisplayLimit is the number of tasks a glanceable surface shows
const DisplayLimit = 3

// DueSoonWindow is how far ahead a due date counts as "due soon"
const DueSoonWindow = 24 * time.Hour

// Scope is the task subset eligible for the summary
type Scope string

const (
	ScopeTodayOverview Scope = "TODAY_OVERVIEW"
	ScopePinnedProject Scope = "PINNED_PROJECT"
)

// FallbackReason explains why a pinned scope was not used
type FallbackReason string

const (
	FallbackNone            FallbackReason = ""
	FallbackNoPinnedProject FallbackReason = "NO_PINNED_PROJECT"
	FallbackPinnedNotActive FallbackReason = "PINNED_NOT_ACTIVE"
)

// Group ranks why a task deserves attention; lower sorts first
type Group int

const (
	GroupDoing Group = iota + 1
	GroupOverdue
	GroupDueSoon
	GroupP1
	GroupHabitToday
	GroupOther
)

var groupNames = map[Group]string{
	GroupDoing:      "G1_DOING",
	GroupOverdue:    "G2_OVERDUE",
	GroupDueSoon:    "G3_DUE_SOON",
	GroupP1:         "G4_P1",
	GroupHabitToday: "G5_HABIT_TODAY",
	GroupOther:      "G6_OTHER",
}

// String returns the group label, e.g. "G1_DOING"
func (g Group) String() string {
	if name, ok := groupNames[g]; ok {
		return name
	}
	return "UNKNOWN"
}

// TitleMasker redacts titles for the privacy mode in effect
type TitleMasker interface {
	Mask(title string, mode model.PrivacyMode) string
}

// OutstandingInput is everything the summary depends on
type OutstandingInput struct {
	DateKey         model.DateKey
	PinnedProjectID *model.ProjectID
	PrivacyMode     model.PrivacyMode
	Policy          model.SelectionPolicy
	Universe        Universe
	Now             time.Time
	Calendar        model.Calendar
}

// DisplayItem is one ranked, masked entry of the summary
type DisplayItem struct {
	TaskID        model.TaskID
	ProjectID     model.ProjectID
	Title         string
	Group         Group
	DueAt         *time.Time
	Priority      model.Priority
	WorkflowState model.WorkflowState
}

// Counters are computed over every incomplete task in scope, blocked ones included
type Counters struct {
	OutstandingTotal int
	OverdueCount     int
	DueSoonCount     int
	P1Count          int
	DoingCount       int
	BlockedCount     int
	RecurringTotal   int
	// RecurringDone is a placeholder metric and is always 0
	RecurringDone int
}

// SummaryMetadata describes how the summary was scoped
type SummaryMetadata struct {
	DateKey        model.DateKey
	Scope          Scope
	FallbackReason FallbackReason
}

// OutstandingSummary is the bounded output for a glanceable surface
type OutstandingSummary struct {
	DisplayList []DisplayItem
	Counters    Counters
	Metadata    SummaryMetadata
}

// OutstandingComputer selects the most important outstanding tasks.
// It performs no I/O and has no mutable state, so it is safe for concurrent use.
type OutstandingComputer struct {
	masker TitleMasker
}

// NewOutstandingComputer creates a computer; a nil masker leaves titles untouched
func NewOutstandingComputer(masker TitleMasker) *OutstandingComputer {
	return &OutstandingComputer{masker: masker}
}

// Compute builds the summary. It never fails; empty input yields zeroed output.
func (c *OutstandingComputer) Compute(in OutstandingInput) OutstandingSummary {
	ix := in.Universe.index()
	scope, reason, pinned := determineScope(in, ix)

	// scope + completion
	var incomplete []*task.Task
	for _, t := range in.Universe.Tasks {
		if t == nil || !inScope(t, scope, pinned, ix) {
			continue
		}
		if ix.logs.IsCompleted(t, in.DateKey, in.Calendar) {
			continue
		}
		incomplete = append(incomplete, t)
	}

	counters := Counters{}
	type ranked struct {
		t     *task.Task
		group Group
	}
	candidates := make([]ranked, 0, len(incomplete))
	for _, t := range incomplete {
		blocked := ix.tasks.IsBlocked(t, ix.logs, in.DateKey, in.Calendar)
		countTask(&counters, t, blocked, in.Now)
		if blocked {
			continue
		}
		candidates = append(candidates, ranked{t: t, group: Classify(t, in.Now)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.group != b.group {
			return a.group < b.group
		}
		if d := compareDue(a.t.DueAt(), b.t.DueAt()); d != 0 {
			return d < 0
		}
		if a.t.Priority() != b.t.Priority() {
			return a.t.Priority() < b.t.Priority()
		}
		if !a.t.CreatedAt().Equal(b.t.CreatedAt()) {
			return a.t.CreatedAt().Before(b.t.CreatedAt())
		}
		return a.t.ID() < b.t.ID()
	})

	if len(candidates) > DisplayLimit {
		candidates = candidates[:DisplayLimit]
	}
	display := make([]DisplayItem, 0, len(candidates))
	for _, r := range candidates {
		display = append(display, DisplayItem{
			TaskID:        r.t.ID(),
			ProjectID:     r.t.ProjectID(),
			Title:         c.mask(r.t.Title(), in.PrivacyMode),
			Group:         r.group,
			DueAt:         r.t.DueAt(),
			Priority:      r.t.Priority(),
			WorkflowState: r.t.WorkflowState(),
		})
	}

	return OutstandingSummary{
		DisplayList: display,
		Counters:    counters,
		Metadata: SummaryMetadata{
			DateKey:        in.DateKey,
			Scope:          scope,
			FallbackReason: reason,
		},
	}
}

// Classify assigns exactly one group; the first matching rule wins
func Classify(t *task.Task, now time.Time) Group {
	due := t.DueAt()
	switch {
	case t.WorkflowState() == model.WorkflowDoing:
		return GroupDoing
	case due != nil && due.Before(now):
		return GroupOverdue
	case due != nil && isDueSoon(*due, now):
		return GroupDueSoon
	case t.Priority() == model.PriorityP1:
		return GroupP1
	case t.IsRecurring() && t.IsHabitReset():
		return GroupHabitToday
	default:
		return GroupOther
	}
}

func (c *OutstandingComputer) mask(title string, mode model.PrivacyMode) string {
	if c.masker == nil {
		return title
	}
	return c.masker.Mask(title, mode)
}

func determineScope(in OutstandingInput, ix universeIndex) (Scope, FallbackReason, model.ProjectID) {
	if in.Policy == model.PolicyTodayOverview {
		return ScopeTodayOverview, FallbackNone, ""
	}
	if in.PinnedProjectID == nil || *in.PinnedProjectID == "" {
		return ScopeTodayOverview, FallbackNoPinnedProject, ""
	}
	p, ok := ix.projects[*in.PinnedProjectID]
	if !ok || !p.IsActive() {
		return ScopeTodayOverview, FallbackPinnedNotActive, ""
	}
	return ScopePinnedProject, FallbackNone, p.ID()
}

func inScope(t *task.Task, scope Scope, pinned model.ProjectID, ix universeIndex) bool {
	if scope == ScopePinnedProject {
		return t.ProjectID() == pinned
	}
	p, ok := ix.projects[t.ProjectID()]
	return ok && p.IsActive()
}

func countTask(c *Counters, t *task.Task, blocked bool, now time.Time) {
	c.OutstandingTotal++
	if due := t.DueAt(); due != nil {
		if due.Before(now) {
			c.OverdueCount++
		} else if isDueSoon(*due, now) {
			c.DueSoonCount++
		}
	}
	if t.Priority() == model.PriorityP1 {
		c.P1Count++
	}
	if t.WorkflowState() == model.WorkflowDoing {
		c.DoingCount++
	}
	if blocked {
		c.BlockedCount++
	}
	if t.IsRecurring() {
		c.RecurringTotal++
	}
}

// isDueSoon reports now <= due <= now+24h
func isDueSoon(due, now time.Time) bool {
	return !due.Before(now) && !due.After(now.Add(DueSoonWindow))
}

// compareDue orders earlier due dates first and missing due dates last
func compareDue(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	default:
		return 0
	}
}
