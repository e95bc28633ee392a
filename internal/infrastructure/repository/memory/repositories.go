// Package memory provides map-backed repositories for use-case tests.
// Saved entities are copied, so callers never share state with the store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/completion"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/project"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/task"
)

// TaskRepository is an in-memory repository.TaskRepository
type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[model.TaskID]*task.Task
}

// NewTaskRepository creates an empty task repository
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[model.TaskID]*task.Task)}
}

// FindByID returns a copy of the task or a NotFound error
func (r *TaskRepository) FindByID(ctx context.Context, id model.TaskID) (*task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, model.NewNotFound("task", string(id))
	}
	return cloneTask(t)
}

// FindAll returns every task in creation order
func (r *TaskRepository) FindAll(ctx context.Context) ([]*task.Task, error) {
	return r.collect(func(*task.Task) bool { return true })
}

// FindByProject returns the tasks of one project
func (r *TaskRepository) FindByProject(ctx context.Context, projectID model.ProjectID) ([]*task.Task, error) {
	return r.collect(func(t *task.Task) bool { return t.ProjectID() == projectID })
}

func (r *TaskRepository) collect(keep func(*task.Task) bool) ([]*task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*task.Task
	for _, t := range r.tasks {
		if !keep(t) {
			continue
		}
		c, err := cloneTask(t)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return createdBefore(result[i].CreatedAt(), result[j].CreatedAt(), string(result[i].ID()), string(result[j].ID()))
	})
	return result, nil
}

// Save inserts or replaces the task
func (r *TaskRepository) Save(ctx context.Context, t *task.Task) error {
	c, err := cloneTask(t)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID()] = c
	return nil
}

// Delete removes the task; an unknown id is a no-op
func (r *TaskRepository) Delete(ctx context.Context, id model.TaskID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, id)
	return nil
}

// ProjectRepository is an in-memory repository.ProjectRepository, seeded with the Inbox
type ProjectRepository struct {
	mu       sync.RWMutex
	projects map[model.ProjectID]*project.Project
}

// NewProjectRepository creates a project repository holding only the Inbox
func NewProjectRepository(now time.Time) *ProjectRepository {
	inbox := project.NewInbox(now)
	return &ProjectRepository{projects: map[model.ProjectID]*project.Project{inbox.ID(): inbox}}
}

// FindByID returns a copy of the project or a NotFound error
func (r *ProjectRepository) FindByID(ctx context.Context, id model.ProjectID) (*project.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, model.NewNotFound("project", string(id))
	}
	return cloneProject(p)
}

// FindAll returns every project, Inbox included
func (r *ProjectRepository) FindAll(ctx context.Context) ([]*project.Project, error) {
	return r.collect(func(*project.Project) bool { return true })
}

// FindActive returns the projects with status active
func (r *ProjectRepository) FindActive(ctx context.Context) ([]*project.Project, error) {
	return r.collect((*project.Project).IsActive)
}

func (r *ProjectRepository) collect(keep func(*project.Project) bool) ([]*project.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*project.Project
	for _, p := range r.projects {
		if !keep(p) {
			continue
		}
		c, err := cloneProject(p)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return createdBefore(result[i].CreatedAt(), result[j].CreatedAt(), string(result[i].ID()), string(result[j].ID()))
	})
	return result, nil
}

// Save inserts or replaces the project
func (r *ProjectRepository) Save(ctx context.Context, p *project.Project) error {
	c, err := cloneProject(p)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.ID()] = c
	return nil
}

type logKey struct {
	taskID model.TaskID
	key    model.OccurrenceKey
}

// CompletionLogRepository is an in-memory repository.CompletionLogRepository.
// Logs are immutable, so they are stored as given.
type CompletionLogRepository struct {
	mu    sync.RWMutex
	logs  []*completion.Log
	index map[logKey]*completion.Log
}

// NewCompletionLogRepository creates an empty log repository
func NewCompletionLogRepository() *CompletionLogRepository {
	return &CompletionLogRepository{index: make(map[logKey]*completion.Log)}
}

// FindByTaskAndKey returns the log for one occurrence, or nil when there is none
func (r *CompletionLogRepository) FindByTaskAndKey(ctx context.Context, taskID model.TaskID, key model.OccurrenceKey) (*completion.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index[logKey{taskID, key}], nil
}

// FindAll returns every log
func (r *CompletionLogRepository) FindAll(ctx context.Context) ([]*completion.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*completion.Log(nil), r.logs...), nil
}

// FindByTask returns the logs of one task
func (r *CompletionLogRepository) FindByTask(ctx context.Context, taskID model.TaskID) ([]*completion.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*completion.Log
	for _, l := range r.logs {
		if l.TaskID() == taskID {
			result = append(result, l)
		}
	}
	return result, nil
}

// Save appends the log; a second log for the same occurrence is a DuplicateCompletion
func (r *CompletionLogRepository) Save(ctx context.Context, l *completion.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := logKey{l.TaskID(), l.OccurrenceKey()}
	if _, exists := r.index[k]; exists {
		return model.NewDuplicateCompletion(l.TaskID(), l.OccurrenceKey())
	}
	r.index[k] = l
	r.logs = append(r.logs, l)
	return nil
}

// DeleteByID removes one log
func (r *CompletionLogRepository) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(func(l *completion.Log) bool { return l.ID() == id })
	return nil
}

// DeleteByTask removes every log of the task
func (r *CompletionLogRepository) DeleteByTask(ctx context.Context, taskID model.TaskID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(func(l *completion.Log) bool { return l.TaskID() == taskID })
	return nil
}

// remove drops matching logs; callers hold the write lock
func (r *CompletionLogRepository) remove(match func(*completion.Log) bool) {
	kept := r.logs[:0]
	for _, l := range r.logs {
		if match(l) {
			delete(r.index, logKey{l.TaskID(), l.OccurrenceKey()})
			continue
		}
		kept = append(kept, l)
	}
	r.logs = kept
}

func cloneTask(t *task.Task) (*task.Task, error) {
	return task.ReconstructTask(t.ID(), t.WorkflowState(), t.Params(), t.CreatedAt(), t.UpdatedAt())
}

func cloneProject(p *project.Project) (*project.Project, error) {
	return project.ReconstructProject(p.ID(), p.Title(), p.StartDate(), p.DueDate(), p.Status(), p.Note(), p.CreatedAt(), p.UpdatedAt())
}

func createdBefore(a, b time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return idA < idB
}
