package project

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
)

// Project groups tasks and has its own lifecycle
type Project struct {
	id        model.ProjectID
	title     string
	startDate time.Time
	dueDate   *time.Time
	status    model.ProjectStatus
	note      *string
	createdAt time.Time
	updatedAt time.Time
}

// NewProject creates a new active project
func NewProject(title string, startDate time.Time, dueDate *time.Time, note *string, now time.Time) (*Project, error) {
	p := &Project{
		id:        model.NewProjectID(),
		status:    model.ProjectActive,
		note:      note,
		createdAt: now,
		updatedAt: now,
	}
	if err := p.setSchedule(title, startDate, dueDate); err != nil {
		return nil, err
	}
	return p, nil
}

// NewInbox creates the well-known Inbox project
func NewInbox(now time.Time) *Project {
	return &Project{
		id:        model.InboxProjectID,
		title:     model.InboxProjectTitle,
		startDate: now,
		status:    model.ProjectActive,
		createdAt: now,
		updatedAt: now,
	}
}

// ReconstructProject rebuilds a project from stored data
func ReconstructProject(
	id model.ProjectID,
	title string,
	startDate time.Time,
	dueDate *time.Time,
	status model.ProjectStatus,
	note *string,
	createdAt time.Time,
	updatedAt time.Time,
) (*Project, error) {
	if id == "" {
		return nil, model.NewValidation("project ID cannot be empty")
	}
	if !status.IsValid() {
		return nil, model.NewValidation("invalid project status " + string(status))
	}
	p := &Project{
		id:        id,
		status:    status,
		note:      note,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
	if err := p.setSchedule(title, startDate, dueDate); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Project) setSchedule(title string, startDate time.Time, dueDate *time.Time) error {
	title = strings.TrimSpace(norm.NFKC.String(title))
	if title == "" {
		return model.NewValidation("title cannot be empty")
	}
	if dueDate != nil && dueDate.Before(startDate) {
		return model.NewValidation("project due date must not be before its start date")
	}
	p.title = title
	p.startDate = startDate
	if dueDate != nil {
		d := *dueDate
		p.dueDate = &d
	} else {
		p.dueDate = nil
	}
	return nil
}

// ID returns the project ID
func (p *Project) ID() model.ProjectID { return p.id }

// Title returns the title
func (p *Project) Title() string { return p.title }

// StartDate returns the start date
func (p *Project) StartDate() time.Time { return p.startDate }

// DueDate returns the due date, if any
func (p *Project) DueDate() *time.Time {
	if p.dueDate == nil {
		return nil
	}
	d := *p.dueDate
	return &d
}

// Status returns the lifecycle status
func (p *Project) Status() model.ProjectStatus { return p.status }

// IsActive reports status == active
func (p *Project) IsActive() bool { return p.status == model.ProjectActive }

// IsInbox reports whether this is the well-known Inbox
func (p *Project) IsInbox() bool { return p.id == model.InboxProjectID }

// Note returns the note, if any
func (p *Project) Note() *string { return p.note }

// CreatedAt returns the creation timestamp
func (p *Project) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last update timestamp
func (p *Project) UpdatedAt() time.Time { return p.updatedAt }

// Archive transitions to archived
func (p *Project) Archive(now time.Time) error {
	return p.transition(model.ProjectArchived, now)
}

// Complete transitions to completed
func (p *Project) Complete(now time.Time) error {
	return p.transition(model.ProjectCompleted, now)
}

// Reactivate transitions back to active
func (p *Project) Reactivate(now time.Time) error {
	return p.transition(model.ProjectActive, now)
}

func (p *Project) transition(next model.ProjectStatus, now time.Time) error {
	if p.IsInbox() && next != model.ProjectActive {
		return model.NewValidation("the Inbox project cannot be " + string(next))
	}
	if p.status == next {
		return nil
	}
	p.status = next
	p.updatedAt = now
	return nil
}

// Reschedule updates title and dates
func (p *Project) Reschedule(title string, startDate time.Time, dueDate *time.Time, now time.Time) error {
	if err := p.setSchedule(title, startDate, dueDate); err != nil {
		return err
	}
	p.updatedAt = now
	return nil
}
