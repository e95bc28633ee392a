package task

import (
	"github.com/YoshitsuguKoike/deetask/internal/application/dto"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/filter"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/recurrence"
	domaintask "github.com/YoshitsuguKoike/deetask/internal/domain/model/task"
)

func parsePriority(raw string) (model.Priority, error) {
	if raw == "" {
		return model.DefaultPriority, nil
	}
	return model.ParsePriority(raw)
}

func parseRecurrence(r *dto.RecurrenceDTO) (*domaintask.Recurrence, error) {
	if r == nil {
		return nil, nil
	}
	rule, err := recurrence.ParseRule(r.Rule)
	if err != nil {
		return nil, err
	}
	behavior := model.RecurrenceBehavior(r.Behavior)
	if !behavior.IsValid() {
		return nil, model.NewValidation("invalid recurrence behavior " + r.Behavior)
	}
	return &domaintask.Recurrence{Rule: rule, Behavior: behavior}, nil
}

func toSectionID(s *string) *model.SectionID {
	if s == nil {
		return nil
	}
	id := model.SectionID(*s)
	return &id
}

func toTagIDs(tags []string) []model.TagID {
	out := make([]model.TagID, 0, len(tags))
	for _, tag := range tags {
		out = append(out, model.TagID(tag))
	}
	return out
}

func toTaskIDs(ids []string) []model.TaskID {
	out := make([]model.TaskID, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.TaskID(id))
	}
	return out
}

// toDefinition converts the primitive filter form; enum values are checked by Validate
func toDefinition(f dto.FilterDTO) (filter.Definition, error) {
	def := filter.Definition{
		IncludeRecurring: f.IncludeRecurring,
		ExcludeBlocked:   f.ExcludeBlocked,
	}
	for _, id := range f.ProjectIDs {
		def.ProjectIDs = append(def.ProjectIDs, model.ProjectID(id))
	}
	for _, id := range f.SectionIDs {
		def.SectionIDs = append(def.SectionIDs, model.SectionID(id))
	}
	def.TagIDs = append(def.TagIDs, toTagIDs(f.TagIDs)...)
	for _, s := range f.WorkflowStates {
		def.WorkflowStates = append(def.WorkflowStates, model.WorkflowState(s))
	}
	if f.PriorityAtLeast != nil {
		p, err := model.ParsePriority(*f.PriorityAtLeast)
		if err != nil {
			return filter.Definition{}, err
		}
		def.PriorityAtLeast = &p
	}
	if f.PriorityAtMost != nil {
		p, err := model.ParsePriority(*f.PriorityAtMost)
		if err != nil {
			return filter.Definition{}, err
		}
		def.PriorityAtMost = &p
	}
	if f.DueRange != nil {
		r := filter.DueRange(*f.DueRange)
		def.DueRange = &r
	}
	return def, def.Validate()
}
