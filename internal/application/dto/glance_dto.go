package dto

import "time"

// SummaryRequest asks for the glance summary.
// Unset overrides fall back to persisted settings.
type SummaryRequest struct {
	DateKey         string        // empty means today
	PinnedProjectID Field[string] // Keep uses settings, Clear means no pin
	Policy          *string
	PrivacyMode     *string
}

// DisplayItemDTO is one ranked entry of the summary
type DisplayItemDTO struct {
	TaskID        string     `json:"task_id"`
	ProjectID     string     `json:"project_id"`
	Title         string     `json:"title"`
	Group         string     `json:"group"`
	DueAt         *time.Time `json:"due_at,omitempty"`
	Priority      string     `json:"priority"`
	WorkflowState string     `json:"workflow_state"`
}

// CountersDTO mirrors the summary counters
type CountersDTO struct {
	OutstandingTotal int `json:"outstanding_total"`
	OverdueCount     int `json:"overdue_count"`
	DueSoonCount     int `json:"due_soon_count"`
	P1Count          int `json:"p1_count"`
	DoingCount       int `json:"doing_count"`
	BlockedCount     int `json:"blocked_count"`
	RecurringTotal   int `json:"recurring_total"`
	RecurringDone    int `json:"recurring_done"`
}

// SummaryDTO is the glance summary as published to widgets
type SummaryDTO struct {
	DateKey        string           `json:"date_key"`
	Scope          string           `json:"scope"`
	FallbackReason string           `json:"fallback_reason,omitempty"`
	PrivacyMode    string           `json:"privacy_mode"`
	DisplayList    []DisplayItemDTO `json:"display_list"`
	Counters       CountersDTO      `json:"counters"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

// SnapshotObjectDTO describes one stored snapshot object
type SnapshotObjectDTO struct {
	Key         string `json:"key"`
	StoragePath string `json:"storage_path"`
	Size        int64  `json:"size"`
}

// PublishResult is returned by Publish
type PublishResult struct {
	Summary SummaryDTO          `json:"summary"`
	Objects []SnapshotObjectDTO `json:"objects"`
}
