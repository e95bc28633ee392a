// Package filter holds declarative task filters
package filter

import (
	"fmt"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
)

// DueRange classifies a task's due date relative to today
type DueRange string

const (
	DueToday   DueRange = "today"
	DueNext7   DueRange = "next7"
	DueOverdue DueRange = "overdue"
	DueNone    DueRange = "none"
	DueAny     DueRange = "any"
)

// IsValid validates the due range
func (d DueRange) IsValid() bool {
	switch d {
	case DueToday, DueNext7, DueOverdue, DueNone, DueAny:
		return true
	default:
		return false
	}
}

// Definition is an AND-combination of optional criteria.
// A nil or empty field is vacuously true.
type Definition struct {
	ProjectIDs       []model.ProjectID
	SectionIDs       []model.SectionID
	TagIDs           []model.TagID
	PriorityAtLeast  *model.Priority // P1 is the high end: at least P2 means P1 or P2
	PriorityAtMost   *model.Priority
	WorkflowStates   []model.WorkflowState // unset means "not done"
	DueRange         *DueRange
	IncludeRecurring *bool // false drops recurring tasks
	ExcludeBlocked   bool
}

// Validate rejects unknown enum values
func (d Definition) Validate() error {
	if d.PriorityAtLeast != nil && !d.PriorityAtLeast.IsValid() {
		return model.NewValidation(fmt.Sprintf("invalid priority bound %d", *d.PriorityAtLeast))
	}
	if d.PriorityAtMost != nil && !d.PriorityAtMost.IsValid() {
		return model.NewValidation(fmt.Sprintf("invalid priority bound %d", *d.PriorityAtMost))
	}
	for _, s := range d.WorkflowStates {
		if !s.IsValid() {
			return model.NewValidation("invalid workflow state " + string(s))
		}
	}
	if d.DueRange != nil && !d.DueRange.IsValid() {
		return model.NewValidation("invalid due range " + string(*d.DueRange))
	}
	return nil
}
