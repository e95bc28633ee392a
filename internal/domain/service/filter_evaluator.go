package service

import (
	"time"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/filter"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/task"
)

// FilterContext supplies the caller's notion of "today"
type FilterContext struct {
	DateKey  model.DateKey
	Calendar model.Calendar
	// TodayStart is local midnight of DateKey; derived from Calendar when zero
	TodayStart time.Time
}

// FilterEvaluator matches tasks against a filter.Definition
type FilterEvaluator struct{}

// NewFilterEvaluator creates a new filter evaluator
func NewFilterEvaluator() *FilterEvaluator {
	return &FilterEvaluator{}
}

// Evaluate returns the tasks of u matching def, in input order.
// Completed one-off tasks, habit tasks completed on DateKey and tasks of
// archived or completed projects are always dropped.
func (e *FilterEvaluator) Evaluate(def filter.Definition, u Universe, fc FilterContext) ([]*task.Task, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	todayStart := fc.TodayStart
	if todayStart.IsZero() {
		start, err := fc.Calendar.StartOfDay(fc.DateKey)
		if err != nil {
			return nil, err
		}
		todayStart = start
	}

	ix := u.index()
	m := matcher{
		def:        def,
		ix:         ix,
		dateKey:    fc.DateKey,
		cal:        fc.Calendar,
		todayStart: todayStart,
		projects:   toSet(def.ProjectIDs),
		sections:   toSet(def.SectionIDs),
		tags:       toSet(def.TagIDs),
		states:     toSet(def.WorkflowStates),
	}

	result := make([]*task.Task, 0, len(u.Tasks))
	for _, t := range u.Tasks {
		if t != nil && m.alwaysKeep(t) && m.matches(t) {
			result = append(result, t)
		}
	}
	return result, nil
}

type matcher struct {
	def        filter.Definition
	ix         universeIndex
	dateKey    model.DateKey
	cal        model.Calendar
	todayStart time.Time

	projects map[model.ProjectID]bool
	sections map[model.SectionID]bool
	tags     map[model.TagID]bool
	states   map[model.WorkflowState]bool
}

// alwaysKeep applies the drops that hold regardless of the definition
func (m matcher) alwaysKeep(t *task.Task) bool {
	if p, ok := m.ix.projects[t.ProjectID()]; ok && !p.IsActive() {
		return false
	}
	if !t.IsRecurring() || t.IsHabitReset() {
		if m.ix.logs.IsCompleted(t, m.dateKey, m.cal) {
			return false
		}
	}
	return true
}

func (m matcher) matches(t *task.Task) bool {
	return m.matchProject(t) &&
		m.matchSection(t) &&
		m.matchTags(t) &&
		m.matchPriority(t) &&
		m.matchState(t) &&
		m.matchDue(t) &&
		m.matchRecurring(t) &&
		m.matchBlocked(t)
}

func (m matcher) matchProject(t *task.Task) bool {
	return m.projects == nil || m.projects[t.ProjectID()]
}

func (m matcher) matchSection(t *task.Task) bool {
	if m.sections == nil {
		return true
	}
	s := t.SectionID()
	return s != nil && m.sections[*s]
}

func (m matcher) matchTags(t *task.Task) bool {
	if m.tags == nil {
		return true
	}
	for _, tag := range t.TagIDs() {
		if m.tags[tag] {
			return true
		}
	}
	return false
}

func (m matcher) matchPriority(t *task.Task) bool {
	if m.def.PriorityAtLeast != nil && t.Priority() > *m.def.PriorityAtLeast {
		return false
	}
	if m.def.PriorityAtMost != nil && t.Priority() < *m.def.PriorityAtMost {
		return false
	}
	return true
}

func (m matcher) matchState(t *task.Task) bool {
	if m.states == nil {
		return t.WorkflowState() != model.WorkflowDone
	}
	return m.states[t.WorkflowState()]
}

func (m matcher) matchDue(t *task.Task) bool {
	if m.def.DueRange == nil {
		return true
	}
	due := t.DueAt()
	switch *m.def.DueRange {
	case filter.DueNone:
		return due == nil
	case filter.DueAny:
		return due != nil
	}
	if due == nil {
		return false
	}
	switch *m.def.DueRange {
	case filter.DueToday:
		return inRange(*due, m.todayStart, m.todayStart.AddDate(0, 0, 1))
	case filter.DueNext7:
		return inRange(*due, m.todayStart, m.todayStart.AddDate(0, 0, 7))
	case filter.DueOverdue:
		return due.Before(m.todayStart)
	}
	return false
}

func (m matcher) matchRecurring(t *task.Task) bool {
	if m.def.IncludeRecurring == nil || *m.def.IncludeRecurring {
		return true
	}
	return !t.IsRecurring()
}

func (m matcher) matchBlocked(t *task.Task) bool {
	if !m.def.ExcludeBlocked {
		return true
	}
	return !m.ix.tasks.IsBlocked(t, m.ix.logs, m.dateKey, m.cal)
}

// inRange reports start <= v < end
func inRange(v, start, end time.Time) bool {
	return !v.Before(start) && v.Before(end)
}

// toSet returns nil for an empty slice so "unset" stays vacuous
func toSet[T comparable](items []T) map[T]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[T]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
