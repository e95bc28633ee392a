package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/project"
	"github.com/YoshitsuguKoike/deetask/internal/domain/repository"
)

const projectColumns = `id, title, start_date, due_date, status, note, created_at, updated_at`

// ProjectRepositoryImpl implements repository.ProjectRepository with SQLite
type ProjectRepositoryImpl struct {
	db *sql.DB
}

// NewProjectRepository creates a new SQLite-based project repository
func NewProjectRepository(db *sql.DB) repository.ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

// FindByID retrieves a project by its ID
func (r *ProjectRepositoryImpl) FindByID(ctx context.Context, id model.ProjectID) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	p, err := scanProject(getDB(ctx, r.db).QueryRowContext(ctx, query, string(id)))
	if err == sql.ErrNoRows {
		return nil, model.NewNotFound("project", string(id))
	}
	if err != nil {
		return nil, storageErr("find project", err)
	}
	return p, nil
}

// FindAll retrieves every project
func (r *ProjectRepositoryImpl) FindAll(ctx context.Context) ([]*project.Project, error) {
	return r.list(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at, id`)
}

// FindActive retrieves active projects
func (r *ProjectRepositoryImpl) FindActive(ctx context.Context) ([]*project.Project, error) {
	return r.list(ctx, `SELECT `+projectColumns+` FROM projects WHERE status = ? ORDER BY created_at, id`,
		string(model.ProjectActive))
}

func (r *ProjectRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]*project.Project, error) {
	rows, err := getDB(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list projects", err)
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, storageErr("scan project", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate projects", err)
	}
	return projects, nil
}

// Save persists a project entity
func (r *ProjectRepositoryImpl) Save(ctx context.Context, p *project.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			start_date = excluded.start_date,
			due_date = excluded.due_date,
			status = excluded.status,
			note = excluded.note,
			updated_at = excluded.updated_at
	`
	_, err := getDB(ctx, r.db).ExecContext(ctx, query,
		string(p.ID()), p.Title(), formatTime(p.StartDate()), formatNullTime(p.DueDate()),
		string(p.Status()), nullString(p.Note()),
		formatTime(p.CreatedAt()), formatTime(p.UpdatedAt()),
	)
	if err != nil {
		return storageErr("save project", err)
	}
	return nil
}

func scanProject(row rowScanner) (*project.Project, error) {
	var (
		id, title, startDate, status string
		dueDate, note                sql.NullString
		createdAt, updatedAt         string
	)
	if err := row.Scan(&id, &title, &startDate, &dueDate, &status, &note, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	start, err := parseTime(startDate)
	if err != nil {
		return nil, fmt.Errorf("parse start_date failed: %w", err)
	}
	due, err := parseNullTime(dueDate)
	if err != nil {
		return nil, fmt.Errorf("parse due_date failed: %w", err)
	}
	created, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at failed: %w", err)
	}
	updated, err := parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at failed: %w", err)
	}
	return project.ReconstructProject(model.ProjectID(id), title, start, due,
		model.ProjectStatus(status), stringPtr(note), created, updated)
}
