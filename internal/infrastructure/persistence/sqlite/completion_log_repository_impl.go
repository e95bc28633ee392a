package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/completion"
	"github.com/YoshitsuguKoike/deetask/internal/domain/repository"
)

const logColumns = `id, task_id, occurrence_key, completed_at`

// CompletionLogRepositoryImpl implements repository.CompletionLogRepository with SQLite
type CompletionLogRepositoryImpl struct {
	db *sql.DB
}

// NewCompletionLogRepository creates a new SQLite-based completion log repository
func NewCompletionLogRepository(db *sql.DB) repository.CompletionLogRepository {
	return &CompletionLogRepositoryImpl{db: db}
}

// FindByTaskAndKey returns the log for one occurrence, or nil when there is none
func (r *CompletionLogRepositoryImpl) FindByTaskAndKey(ctx context.Context, taskID model.TaskID, key model.OccurrenceKey) (*completion.Log, error) {
	query := `SELECT ` + logColumns + ` FROM completion_logs WHERE task_id = ? AND occurrence_key = ?`
	l, err := scanLog(getDB(ctx, r.db).QueryRowContext(ctx, query, string(taskID), string(key)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("find completion log", err)
	}
	return l, nil
}

// FindAll retrieves every log
func (r *CompletionLogRepositoryImpl) FindAll(ctx context.Context) ([]*completion.Log, error) {
	return r.list(ctx, `SELECT `+logColumns+` FROM completion_logs ORDER BY completed_at, id`)
}

// FindByTask retrieves the logs of one task, oldest first
func (r *CompletionLogRepositoryImpl) FindByTask(ctx context.Context, taskID model.TaskID) ([]*completion.Log, error) {
	return r.list(ctx, `SELECT `+logColumns+` FROM completion_logs WHERE task_id = ? ORDER BY completed_at, id`,
		string(taskID))
}

func (r *CompletionLogRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]*completion.Log, error) {
	rows, err := getDB(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list completion logs", err)
	}
	defer rows.Close()

	var logs []*completion.Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, storageErr("scan completion log", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate completion logs", err)
	}
	return logs, nil
}

// Save inserts a new log; a second log for the same occurrence is a DuplicateCompletion
func (r *CompletionLogRepositoryImpl) Save(ctx context.Context, l *completion.Log) error {
	query := `INSERT INTO completion_logs (` + logColumns + `) VALUES (?, ?, ?, ?)`
	_, err := getDB(ctx, r.db).ExecContext(ctx, query,
		l.ID(), string(l.TaskID()), string(l.OccurrenceKey()), formatTime(l.CompletedAt()))
	if isUniqueViolation(err) {
		return model.NewDuplicateCompletion(l.TaskID(), l.OccurrenceKey())
	}
	if err != nil {
		return storageErr("save completion log", err)
	}
	return nil
}

// DeleteByID removes one log
func (r *CompletionLogRepositoryImpl) DeleteByID(ctx context.Context, id string) error {
	if _, err := getDB(ctx, r.db).ExecContext(ctx, "DELETE FROM completion_logs WHERE id = ?", id); err != nil {
		return storageErr("delete completion log", err)
	}
	return nil
}

// DeleteByTask removes all logs of a task
func (r *CompletionLogRepositoryImpl) DeleteByTask(ctx context.Context, taskID model.TaskID) error {
	if _, err := getDB(ctx, r.db).ExecContext(ctx, "DELETE FROM completion_logs WHERE task_id = ?", string(taskID)); err != nil {
		return storageErr("delete completion logs", err)
	}
	return nil
}

func scanLog(row rowScanner) (*completion.Log, error) {
	var id, taskID, key, completedAt string
	if err := row.Scan(&id, &taskID, &key, &completedAt); err != nil {
		return nil, err
	}
	at, err := parseTime(completedAt)
	if err != nil {
		return nil, fmt.Errorf("parse completed_at failed: %w", err)
	}
	return completion.ReconstructLog(id, model.TaskID(taskID), model.OccurrenceKey(key), at), nil
}
