package task

import (
	"context"
	"time"

	"github.com/YoshitsuguKoike/deetask/internal/app"
	"github.com/YoshitsuguKoike/deetask/internal/application/dto"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	domaintask "github.com/YoshitsuguKoike/deetask/internal/domain/model/task"
	"github.com/YoshitsuguKoike/deetask/internal/domain/repository"
	"github.com/YoshitsuguKoike/deetask/internal/domain/service"
)

// TaskUseCaseImpl implements the TaskUseCase interface
type TaskUseCaseImpl struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	logRepo     repository.CompletionLogRepository
	txManager   output.TransactionManager
	evaluator   *service.FilterEvaluator
	calendar    model.Calendar
	now         func() time.Time
	logger      app.Logger
}

// NewTaskUseCaseImpl creates a new task use case implementation
func NewTaskUseCaseImpl(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	logRepo repository.CompletionLogRepository,
	txManager output.TransactionManager,
	calendar model.Calendar,
	now func() time.Time,
	logger app.Logger,
) *TaskUseCaseImpl {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = app.NewNopLogger()
	}
	return &TaskUseCaseImpl{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		logRepo:     logRepo,
		txManager:   txManager,
		evaluator:   service.NewFilterEvaluator(),
		calendar:    calendar,
		now:         now,
		logger:      logger,
	}
}

// CreateTask creates a new task
func (uc *TaskUseCaseImpl) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*dto.TaskDTO, error) {
	priority, err := parsePriority(req.Priority)
	if err != nil {
		return nil, err
	}
	rec, err := parseRecurrence(req.Recurrence)
	if err != nil {
		return nil, err
	}
	projectID := model.ProjectID(req.ProjectID)
	if projectID == "" {
		projectID = model.InboxProjectID
	}

	t, err := domaintask.NewTask(domaintask.Params{
		ProjectID:           projectID,
		Title:               req.Title,
		Priority:            priority,
		DueAt:               req.DueAt,
		StartAt:             req.StartAt,
		SectionID:           toSectionID(req.SectionID),
		TagIDs:              toTagIDs(req.TagIDs),
		Note:                req.Note,
		Recurrence:          rec,
		NextOccurrenceDueAt: req.NextOccurrenceDueAt,
		BlockedByTaskIDs:    toTaskIDs(req.BlockedByTaskIDs),
	}, uc.now())
	if err != nil {
		return nil, err
	}

	err = uc.txManager.InTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.checkProject(txCtx, t.ProjectID()); err != nil {
			return err
		}
		if err := uc.checkBlockers(txCtx, t); err != nil {
			return err
		}
		return uc.taskRepo.Save(txCtx, t)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("created task %s in project %s", t.ID(), t.ProjectID())
	d := dto.TaskToDTO(t)
	return &d, nil
}

// UpdateTask applies the request's field instructions and saves the task
func (uc *TaskUseCaseImpl) UpdateTask(ctx context.Context, req dto.UpdateTaskRequest) (*dto.TaskDTO, error) {
	var updated *domaintask.Task
	err := uc.txManager.InTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.taskRepo.FindByID(txCtx, model.TaskID(req.TaskID))
		if err != nil {
			return err
		}
		previousProject := t.ProjectID()

		p, err := applyUpdate(t.Params(), req)
		if err != nil {
			return err
		}
		if err := t.Update(p, uc.now()); err != nil {
			return err
		}
		if err := applyWorkflowState(t, req.WorkflowState, uc.now()); err != nil {
			return err
		}

		if t.ProjectID() != previousProject {
			if err := uc.checkProject(txCtx, t.ProjectID()); err != nil {
				return err
			}
			if err := uc.checkNoDependents(txCtx, t.ID(), previousProject); err != nil {
				return err
			}
		}
		if err := uc.checkBlockers(txCtx, t); err != nil {
			return err
		}
		if err := uc.taskRepo.Save(txCtx, t); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	d := dto.TaskToDTO(updated)
	return &d, nil
}

// GetTask retrieves a task by ID
func (uc *TaskUseCaseImpl) GetTask(ctx context.Context, taskID string) (*dto.TaskDTO, error) {
	t, err := uc.taskRepo.FindByID(ctx, model.TaskID(taskID))
	if err != nil {
		return nil, err
	}
	d := dto.TaskToDTO(t)
	return &d, nil
}

// ListTasks lists all tasks, or those of one project
func (uc *TaskUseCaseImpl) ListTasks(ctx context.Context, req dto.ListTasksRequest) (*dto.ListTasksResponse, error) {
	var (
		tasks []*domaintask.Task
		err   error
	)
	if req.ProjectID != nil {
		tasks, err = uc.taskRepo.FindByProject(ctx, model.ProjectID(*req.ProjectID))
	} else {
		tasks, err = uc.taskRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &dto.ListTasksResponse{Tasks: dto.TasksToDTOs(tasks), Total: len(tasks)}, nil
}

// FilterTasks evaluates a filter against the whole store
func (uc *TaskUseCaseImpl) FilterTasks(ctx context.Context, req dto.FilterRequest) (*dto.ListTasksResponse, error) {
	def, err := toDefinition(req.Filter)
	if err != nil {
		return nil, err
	}
	dateKey := uc.calendar.Today(uc.now())
	if req.DateKey != "" {
		if dateKey, err = model.ParseDateKey(req.DateKey); err != nil {
			return nil, err
		}
	}

	projects, err := uc.projectRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.taskRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	logs, err := uc.logRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	matched, err := uc.evaluator.Evaluate(def, service.Universe{
		Projects: projects,
		Tasks:    tasks,
		Logs:     logs,
	}, service.FilterContext{DateKey: dateKey, Calendar: uc.calendar})
	if err != nil {
		return nil, err
	}
	return &dto.ListTasksResponse{Tasks: dto.TasksToDTOs(matched), Total: len(matched)}, nil
}

// DeleteTask deletes a task together with its completion logs
func (uc *TaskUseCaseImpl) DeleteTask(ctx context.Context, taskID string) error {
	id := model.TaskID(taskID)
	err := uc.txManager.InTransaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.taskRepo.FindByID(txCtx, id); err != nil {
			return err
		}
		if err := uc.logRepo.DeleteByTask(txCtx, id); err != nil {
			return err
		}
		return uc.taskRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}
	uc.logger.Info("deleted task %s", taskID)
	return nil
}

// checkProject requires an existing, active project
func (uc *TaskUseCaseImpl) checkProject(ctx context.Context, id model.ProjectID) error {
	p, err := uc.projectRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.IsActive() {
		return model.NewValidation("project " + id.String() + " is " + p.Status().String())
	}
	return nil
}

// checkBlockers requires every blocker to exist in the task's project and the
// dependency graph to stay acyclic
func (uc *TaskUseCaseImpl) checkBlockers(ctx context.Context, t *domaintask.Task) error {
	blockers := t.BlockedByTaskIDs()
	if len(blockers) == 0 {
		return nil
	}
	siblings, err := uc.taskRepo.FindByProject(ctx, t.ProjectID())
	if err != nil {
		return err
	}
	graph := make(map[model.TaskID][]model.TaskID, len(siblings)+1)
	for _, s := range siblings {
		graph[s.ID()] = s.BlockedByTaskIDs()
	}
	for _, id := range blockers {
		if _, ok := graph[id]; ok {
			continue
		}
		if _, err := uc.taskRepo.FindByID(ctx, id); err != nil {
			if model.IsNotFound(err) {
				return model.NewValidation("blocker " + id.String() + " does not exist")
			}
			return err
		}
		return model.NewValidation("blocker " + id.String() + " belongs to another project")
	}
	graph[t.ID()] = blockers
	if hasCycle(graph, t.ID()) {
		return model.NewValidation("blockers of task " + t.ID().String() + " form a cycle")
	}
	return nil
}

// checkNoDependents rejects moving a task that others in its old project wait on
func (uc *TaskUseCaseImpl) checkNoDependents(ctx context.Context, id model.TaskID, projectID model.ProjectID) error {
	tasks, err := uc.taskRepo.FindByProject(ctx, projectID)
	if err != nil {
		return err
	}
	for _, other := range tasks {
		if other.ID() == id {
			continue
		}
		for _, b := range other.BlockedByTaskIDs() {
			if b == id {
				return model.NewValidation("task " + other.ID().String() + " is blocked by " + id.String())
			}
		}
	}
	return nil
}

// hasCycle reports whether start can reach itself along blocked-by edges
func hasCycle(graph map[model.TaskID][]model.TaskID, start model.TaskID) bool {
	visited := make(map[model.TaskID]bool)
	var visit func(id model.TaskID) bool
	visit = func(id model.TaskID) bool {
		for _, next := range graph[id] {
			if next == start {
				return true
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			if visit(next) {
				return true
			}
		}
		return false
	}
	return visit(start)
}

func applyWorkflowState(t *domaintask.Task, f dto.Field[string], now time.Time) error {
	state := model.WorkflowTodo
	if v, ok := f.Value(); ok {
		parsed, err := model.ParseWorkflowState(v)
		if err != nil {
			return err
		}
		state = parsed
	} else if !f.IsClear() {
		return nil
	}
	_, err := t.SetWorkflowState(state, now)
	return err
}

// applyUpdate resolves every field instruction against the current params
func applyUpdate(p domaintask.Params, req dto.UpdateTaskRequest) (domaintask.Params, error) {
	if v, ok := req.ProjectID.Value(); ok {
		p.ProjectID = model.ProjectID(v)
	} else if req.ProjectID.IsClear() {
		p.ProjectID = model.InboxProjectID
	}
	if v, ok := req.Title.Value(); ok {
		p.Title = v
	} else if req.Title.IsClear() {
		return p, model.NewValidation("title cannot be cleared")
	}
	if v, ok := req.Priority.Value(); ok {
		pr, err := model.ParsePriority(v)
		if err != nil {
			return p, err
		}
		p.Priority = pr
	} else if req.Priority.IsClear() {
		p.Priority = model.DefaultPriority
	}

	p.DueAt = req.DueAt.Apply(p.DueAt)
	p.StartAt = req.StartAt.Apply(p.StartAt)
	p.Note = req.Note.Apply(p.Note)
	p.NextOccurrenceDueAt = req.NextOccurrenceDueAt.Apply(p.NextOccurrenceDueAt)

	if v, ok := req.SectionID.Value(); ok {
		p.SectionID = toSectionID(&v)
	} else if req.SectionID.IsClear() {
		p.SectionID = nil
	}
	if v, ok := req.TagIDs.Value(); ok {
		p.TagIDs = toTagIDs(v)
	} else if req.TagIDs.IsClear() {
		p.TagIDs = nil
	}
	if v, ok := req.BlockedByTaskIDs.Value(); ok {
		p.BlockedByTaskIDs = toTaskIDs(v)
	} else if req.BlockedByTaskIDs.IsClear() {
		p.BlockedByTaskIDs = nil
	}

	if v, ok := req.Recurrence.Value(); ok {
		rec, err := parseRecurrence(&v)
		if err != nil {
			return p, err
		}
		p.Recurrence = rec
	} else if req.Recurrence.IsClear() {
		p.Recurrence = nil
	}
	if p.Recurrence == nil || p.Recurrence.Behavior != model.BehaviorRollover {
		// the pointer only exists for rollover tasks
		if req.NextOccurrenceDueAt.IsKeep() {
			p.NextOccurrenceDueAt = nil
		}
	} else if p.NextOccurrenceDueAt == nil && p.DueAt != nil {
		due := *p.DueAt
		p.NextOccurrenceDueAt = &due
	}
	return p, nil
}
