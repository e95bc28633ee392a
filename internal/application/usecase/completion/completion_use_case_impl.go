package completion

import (
	"context"
	"time"

	"github.com/YoshitsuguKoike/deetask/internal/app"
	"github.com/YoshitsuguKoike/deetask/internal/application/dto"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	domaincompletion "github.com/YoshitsuguKoike/deetask/internal/domain/model/completion"
	domaintask "github.com/YoshitsuguKoike/deetask/internal/domain/model/task"
	"github.com/YoshitsuguKoike/deetask/internal/domain/repository"
	"github.com/YoshitsuguKoike/deetask/internal/domain/service"
)

// CompletionUseCaseImpl implements the CompletionUseCase interface
type CompletionUseCaseImpl struct {
	taskRepo  repository.TaskRepository
	logRepo   repository.CompletionLogRepository
	txManager output.TransactionManager
	calendar  model.Calendar
	now       func() time.Time
	logger    app.Logger
}

// NewCompletionUseCaseImpl creates a new completion use case implementation
func NewCompletionUseCaseImpl(
	taskRepo repository.TaskRepository,
	logRepo repository.CompletionLogRepository,
	txManager output.TransactionManager,
	calendar model.Calendar,
	now func() time.Time,
	logger app.Logger,
) *CompletionUseCaseImpl {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = app.NewNopLogger()
	}
	return &CompletionUseCaseImpl{
		taskRepo:  taskRepo,
		logRepo:   logRepo,
		txManager: txManager,
		calendar:  calendar,
		now:       now,
		logger:    logger,
	}
}

// Complete records completion of the occurrence that dateKey fulfils.
// Completing an occurrence twice succeeds with WasAlreadyCompleted set and writes nothing.
func (uc *CompletionUseCaseImpl) Complete(ctx context.Context, req dto.CompleteRequest) (*dto.CompletionResult, error) {
	now := uc.now()
	dateKey, err := uc.resolveDateKey(req.DateKey, now)
	if err != nil {
		return nil, err
	}
	completedAt := now
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}

	var result *dto.CompletionResult
	err = uc.txManager.InTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.taskRepo.FindByID(txCtx, model.TaskID(req.TaskID))
		if err != nil {
			return err
		}
		key, err := service.OccurrenceKeyFor(t, dateKey, uc.calendar)
		if err != nil {
			return err
		}

		existing, err := uc.logRepo.FindByTaskAndKey(txCtx, t.ID(), key)
		if err != nil {
			return err
		}
		if existing != nil {
			result = alreadyCompleted(existing, t)
			return nil
		}

		log, err := domaincompletion.NewLog(t.ID(), key, completedAt)
		if err != nil {
			return err
		}
		if saveErr := uc.logRepo.Save(txCtx, log); saveErr != nil {
			if !model.IsDuplicateCompletion(saveErr) {
				return saveErr
			}
			// another writer got there first
			existing, err := uc.logRepo.FindByTaskAndKey(txCtx, t.ID(), key)
			if err != nil {
				return err
			}
			if existing == nil {
				return model.NewStorage("complete", saveErr)
			}
			result = alreadyCompleted(existing, t)
			return nil
		}

		if t.IsRollover() {
			if err := uc.advance(t, now); err != nil {
				return err
			}
			if err := uc.taskRepo.Save(txCtx, t); err != nil {
				return err
			}
		}

		result = &dto.CompletionResult{
			Log:  dto.LogToDTO(log),
			Task: dto.TaskToDTO(t),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.WasAlreadyCompleted {
		uc.logger.Debug("task %s occurrence %s already completed", req.TaskID, result.Log.OccurrenceKey)
	} else {
		uc.logger.Info("completed task %s occurrence %s", req.TaskID, result.Log.OccurrenceKey)
	}
	return result, nil
}

// Uncomplete deletes the completion of the occurrence that dateKey reopens.
// For rollover tasks the pointer moves back to the reopened occurrence.
func (uc *CompletionUseCaseImpl) Uncomplete(ctx context.Context, req dto.UncompleteRequest) (*dto.UncompleteResult, error) {
	now := uc.now()
	dateKey, err := uc.resolveDateKey(req.DateKey, now)
	if err != nil {
		return nil, err
	}

	var result *dto.UncompleteResult
	err = uc.txManager.InTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.taskRepo.FindByID(txCtx, model.TaskID(req.TaskID))
		if err != nil {
			return err
		}

		key, reopened, err := uc.reopenedOccurrence(t, dateKey)
		if err != nil {
			return err
		}

		log, err := uc.logRepo.FindByTaskAndKey(txCtx, t.ID(), key)
		if err != nil {
			return err
		}
		if log == nil {
			return model.NewNotFound("CompletionLog", t.ID().String()+"/"+string(key))
		}
		if err := uc.logRepo.DeleteByID(txCtx, log.ID()); err != nil {
			return err
		}

		if reopened != nil {
			if err := t.SetNextOccurrenceDueAt(*reopened, now); err != nil {
				return err
			}
			if err := uc.taskRepo.Save(txCtx, t); err != nil {
				return err
			}
		}

		result = &dto.UncompleteResult{
			RemovedLog: dto.LogToDTO(log),
			Task:       dto.TaskToDTO(t),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("reopened task %s occurrence %s", req.TaskID, result.RemovedLog.OccurrenceKey)
	return result, nil
}

// Start moves a task to doing. Starting a task that is already doing writes nothing.
func (uc *CompletionUseCaseImpl) Start(ctx context.Context, taskID string) (*dto.StartResult, error) {
	var result *dto.StartResult
	err := uc.txManager.InTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.taskRepo.FindByID(txCtx, model.TaskID(taskID))
		if err != nil {
			return err
		}
		changed, err := t.Start(uc.now())
		if err != nil {
			return err
		}
		if changed {
			if err := uc.taskRepo.Save(txCtx, t); err != nil {
				return err
			}
		}
		result = &dto.StartResult{Task: dto.TaskToDTO(t), Changed: changed}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// advance moves the rollover pointer to the rule's next occurrence.
// Weekdays and month days are read in the calendar's zone, whatever zone the
// store handed the pointer back in.
func (uc *CompletionUseCaseImpl) advance(t *domaintask.Task, now time.Time) error {
	next := t.NextOccurrenceDueAt()
	r := t.Recurrence()
	if next == nil || r == nil {
		return model.NewMissingRecurrenceState(t.ID(), "nextOccurrenceDueAt")
	}
	return t.SetNextOccurrenceDueAt(r.Rule.Next(next.In(uc.calendar.Location())), now)
}

// reopenedOccurrence returns the key to delete and, for rollover tasks, the
// instant the pointer should move back to.
func (uc *CompletionUseCaseImpl) reopenedOccurrence(t *domaintask.Task, dateKey model.DateKey) (model.OccurrenceKey, *time.Time, error) {
	if !t.IsRollover() {
		key, err := service.OccurrenceKeyFor(t, dateKey, uc.calendar)
		return key, nil, err
	}
	next := t.NextOccurrenceDueAt()
	if next == nil {
		return "", nil, model.NewMissingRecurrenceState(t.ID(), "nextOccurrenceDueAt")
	}
	r := t.Recurrence()
	if r == nil {
		return "", nil, model.NewMissingRecurrenceState(t.ID(), "recurrenceRule")
	}
	// TODO: invert the rule instead of subtracting its nominal period; weekly and
	// monthly rules with irregular gaps reopen the wrong occurrence.
	prev := r.Rule.PreviousApprox(next.In(uc.calendar.Location()))
	return model.OccurrenceKey(uc.calendar.Key(prev)), &prev, nil
}

func (uc *CompletionUseCaseImpl) resolveDateKey(raw string, now time.Time) (model.DateKey, error) {
	if raw == "" {
		return uc.calendar.Today(now), nil
	}
	return model.ParseDateKey(raw)
}

func alreadyCompleted(l *domaincompletion.Log, t *domaintask.Task) *dto.CompletionResult {
	return &dto.CompletionResult{
		Log:                 dto.LogToDTO(l),
		Task:                dto.TaskToDTO(t),
		WasAlreadyCompleted: true,
	}
}
