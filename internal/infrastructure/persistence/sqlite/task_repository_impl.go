package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/recurrence"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/task"
	"github.com/YoshitsuguKoike/deetask/internal/domain/repository"
)

const taskColumns = `
	id, project_id, title, task_type, priority, workflow_state,
	due_at, start_at, section_id, tag_ids, note,
	recurrence_rule, recurrence_behavior, next_occurrence_due_at, blocked_by,
	created_at, updated_at`

// TaskRepositoryImpl implements repository.TaskRepository with SQLite
type TaskRepositoryImpl struct {
	db *sql.DB
}

// NewTaskRepository creates a new SQLite-based task repository
func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

// FindByID retrieves a task by its ID
func (r *TaskRepositoryImpl) FindByID(ctx context.Context, id model.TaskID) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t, err := scanTask(getDB(ctx, r.db).QueryRowContext(ctx, query, string(id)))
	if err == sql.ErrNoRows {
		return nil, model.NewNotFound("task", string(id))
	}
	if err != nil {
		return nil, storageErr("find task", err)
	}
	return t, nil
}

// FindAll retrieves every task ordered by creation time
func (r *TaskRepositoryImpl) FindAll(ctx context.Context) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at, id`
	return r.list(ctx, query)
}

// FindByProject retrieves the tasks of one project
func (r *TaskRepositoryImpl) FindByProject(ctx context.Context, projectID model.ProjectID) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY created_at, id`
	return r.list(ctx, query, string(projectID))
}

func (r *TaskRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]*task.Task, error) {
	rows, err := getDB(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list tasks", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, storageErr("scan task", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate tasks", err)
	}
	return tasks, nil
}

// Save persists a task entity
func (r *TaskRepositoryImpl) Save(ctx context.Context, t *task.Task) error {
	tagsJSON, err := json.Marshal(t.TagIDs())
	if err != nil {
		return fmt.Errorf("marshal tags failed: %w", err)
	}
	blockedJSON, err := json.Marshal(t.BlockedByTaskIDs())
	if err != nil {
		return fmt.Errorf("marshal blockers failed: %w", err)
	}

	var rule, behavior sql.NullString
	if rec := t.Recurrence(); rec != nil {
		rule = sql.NullString{String: rec.Rule.String(), Valid: true}
		behavior = sql.NullString{String: string(rec.Behavior), Valid: true}
	}
	var section sql.NullString
	if s := t.SectionID(); s != nil {
		section = sql.NullString{String: string(*s), Valid: true}
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			title = excluded.title,
			task_type = excluded.task_type,
			priority = excluded.priority,
			workflow_state = excluded.workflow_state,
			due_at = excluded.due_at,
			start_at = excluded.start_at,
			section_id = excluded.section_id,
			tag_ids = excluded.tag_ids,
			note = excluded.note,
			recurrence_rule = excluded.recurrence_rule,
			recurrence_behavior = excluded.recurrence_behavior,
			next_occurrence_due_at = excluded.next_occurrence_due_at,
			blocked_by = excluded.blocked_by,
			updated_at = excluded.updated_at
	`

	_, err = getDB(ctx, r.db).ExecContext(ctx, query,
		string(t.ID()), string(t.ProjectID()), t.Title(), string(t.Type()), int(t.Priority()), string(t.WorkflowState()),
		formatNullTime(t.DueAt()), formatNullTime(t.StartAt()), section, string(tagsJSON), nullString(t.Note()),
		rule, behavior, formatNullTime(t.NextOccurrenceDueAt()), string(blockedJSON),
		formatTime(t.CreatedAt()), formatTime(t.UpdatedAt()),
	)
	if err != nil {
		return storageErr("save task", err)
	}
	return nil
}

// Delete removes a task
func (r *TaskRepositoryImpl) Delete(ctx context.Context, id model.TaskID) error {
	if _, err := getDB(ctx, r.db).ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", string(id)); err != nil {
		return storageErr("delete task", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*task.Task, error) {
	var (
		id, projectID, title, taskType, state string
		priority                              int
		dueAt, startAt, sectionID, note       sql.NullString
		tagsJSON, blockedJSON                 string
		rule, behavior, nextDue               sql.NullString
		createdAt, updatedAt                  string
	)
	if err := row.Scan(
		&id, &projectID, &title, &taskType, &priority, &state,
		&dueAt, &startAt, &sectionID, &tagsJSON, &note,
		&rule, &behavior, &nextDue, &blockedJSON,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	p := task.Params{
		ProjectID: model.ProjectID(projectID),
		Title:     title,
		Priority:  model.Priority(priority),
		Note:      stringPtr(note),
	}
	var err error
	if p.DueAt, err = parseNullTime(dueAt); err != nil {
		return nil, fmt.Errorf("parse due_at failed: %w", err)
	}
	if p.StartAt, err = parseNullTime(startAt); err != nil {
		return nil, fmt.Errorf("parse start_at failed: %w", err)
	}
	if p.NextOccurrenceDueAt, err = parseNullTime(nextDue); err != nil {
		return nil, fmt.Errorf("parse next_occurrence_due_at failed: %w", err)
	}
	if sectionID.Valid {
		s := model.SectionID(sectionID.String)
		p.SectionID = &s
	}
	if err := json.Unmarshal([]byte(tagsJSON), &p.TagIDs); err != nil {
		return nil, fmt.Errorf("unmarshal tags failed: %w", err)
	}
	if err := json.Unmarshal([]byte(blockedJSON), &p.BlockedByTaskIDs); err != nil {
		return nil, fmt.Errorf("unmarshal blockers failed: %w", err)
	}
	if model.TaskType(taskType) == model.TaskTypeRecurring {
		r, err := recurrence.ParseRule(rule.String)
		if err != nil {
			return nil, fmt.Errorf("parse recurrence rule of task %s failed: %w", id, err)
		}
		p.Recurrence = &task.Recurrence{Rule: r, Behavior: model.RecurrenceBehavior(behavior.String)}
	}

	created, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at failed: %w", err)
	}
	updated, err := parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at failed: %w", err)
	}
	return task.ReconstructTask(model.TaskID(id), model.WorkflowState(state), p, created, updated)
}
