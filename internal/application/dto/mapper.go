package dto

import (
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/completion"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/project"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/task"
)

// TaskToDTO converts a task entity
func TaskToDTO(t *task.Task) TaskDTO {
	d := TaskDTO{
		ID:                  t.ID().String(),
		ProjectID:           t.ProjectID().String(),
		Title:               t.Title(),
		Type:                t.Type().String(),
		Priority:            t.Priority().String(),
		WorkflowState:       t.WorkflowState().String(),
		DueAt:               t.DueAt(),
		StartAt:             t.StartAt(),
		Note:                t.Note(),
		NextOccurrenceDueAt: t.NextOccurrenceDueAt(),
		TagIDs:              make([]string, 0),
		BlockedByTaskIDs:    make([]string, 0),
		CreatedAt:           t.CreatedAt(),
		UpdatedAt:           t.UpdatedAt(),
	}
	if s := t.SectionID(); s != nil {
		section := string(*s)
		d.SectionID = &section
	}
	for _, tag := range t.TagIDs() {
		d.TagIDs = append(d.TagIDs, string(tag))
	}
	for _, id := range t.BlockedByTaskIDs() {
		d.BlockedByTaskIDs = append(d.BlockedByTaskIDs, id.String())
	}
	if r := t.Recurrence(); r != nil {
		d.Recurrence = &RecurrenceDTO{
			Rule:     r.Rule.String(),
			Behavior: r.Behavior.String(),
		}
	}
	return d
}

// TasksToDTOs converts a slice of tasks
func TasksToDTOs(tasks []*task.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, TaskToDTO(t))
	}
	return out
}

// ProjectToDTO converts a project entity
func ProjectToDTO(p *project.Project) ProjectDTO {
	return ProjectDTO{
		ID:        p.ID().String(),
		Title:     p.Title(),
		StartDate: p.StartDate(),
		DueDate:   p.DueDate(),
		Status:    p.Status().String(),
		Note:      p.Note(),
		IsInbox:   p.IsInbox(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

// LogToDTO converts a completion log entry
func LogToDTO(l *completion.Log) CompletionLogDTO {
	return CompletionLogDTO{
		ID:            l.ID(),
		TaskID:        l.TaskID().String(),
		OccurrenceKey: string(l.OccurrenceKey()),
		CompletedAt:   l.CompletedAt(),
	}
}
