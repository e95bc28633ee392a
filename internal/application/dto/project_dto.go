package dto

import "time"

// ProjectDTO represents a project in data transfer format
type ProjectDTO struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	StartDate time.Time  `json:"start_date"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Status    string     `json:"status"`
	Note      *string    `json:"note,omitempty"`
	IsInbox   bool       `json:"is_inbox"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Title     string
	StartDate *time.Time // nil means now
	DueDate   *time.Time
	Note      *string
}

// ListProjectsRequest narrows a project listing
type ListProjectsRequest struct {
	ActiveOnly bool
}
