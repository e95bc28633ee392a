package glance

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/YoshitsuguKoike/deetask/internal/app"
	"github.com/YoshitsuguKoike/deetask/internal/application/dto"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/completion"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/project"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/task"
	"github.com/YoshitsuguKoike/deetask/internal/domain/repository"
	"github.com/YoshitsuguKoike/deetask/internal/domain/service"
)

// GlanceUseCaseImpl implements the GlanceUseCase interface
type GlanceUseCaseImpl struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	logRepo     repository.CompletionLogRepository
	settings    output.SettingsProvider
	computer    *service.OutstandingComputer
	calendar    model.Calendar
	now         func() time.Time
	logger      app.Logger
}

// NewGlanceUseCaseImpl creates a new glance use case implementation.
// A nil settings provider means default settings.
func NewGlanceUseCaseImpl(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	logRepo repository.CompletionLogRepository,
	settings output.SettingsProvider,
	masker service.TitleMasker,
	calendar model.Calendar,
	now func() time.Time,
	logger app.Logger,
) *GlanceUseCaseImpl {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = app.NewNopLogger()
	}
	return &GlanceUseCaseImpl{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		logRepo:     logRepo,
		settings:    settings,
		computer:    service.NewOutstandingComputer(masker),
		calendar:    calendar,
		now:         now,
		logger:      logger,
	}
}

// Summary loads the store and computes the bounded outstanding summary.
// Only loading can fail; the computation itself never does.
func (uc *GlanceUseCaseImpl) Summary(ctx context.Context, req dto.SummaryRequest) (*dto.SummaryDTO, error) {
	now := uc.now()
	dateKey := uc.calendar.Today(now)
	if req.DateKey != "" {
		key, err := model.ParseDateKey(req.DateKey)
		if err != nil {
			return nil, err
		}
		dateKey = key
	}

	gs, err := uc.resolveSettings(ctx, req)
	if err != nil {
		return nil, err
	}

	universe, err := uc.loadUniverse(ctx)
	if err != nil {
		return nil, err
	}

	summary := uc.computer.Compute(service.OutstandingInput{
		DateKey:         dateKey,
		PinnedProjectID: gs.PinnedProjectID,
		PrivacyMode:     gs.PrivacyMode,
		Policy:          gs.Policy,
		Universe:        universe,
		Now:             now,
		Calendar:        uc.calendar,
	})
	if summary.Metadata.FallbackReason != service.FallbackNone {
		uc.logger.Debug("glance fell back to %s: %s", summary.Metadata.Scope, summary.Metadata.FallbackReason)
	}

	d := toSummaryDTO(summary, gs.PrivacyMode, now)
	return &d, nil
}

// resolveSettings applies request overrides on top of persisted settings
func (uc *GlanceUseCaseImpl) resolveSettings(ctx context.Context, req dto.SummaryRequest) (output.GlanceSettings, error) {
	gs := output.GlanceSettings{
		Policy:      model.DefaultSelectionPolicy,
		PrivacyMode: model.PrivacyOff,
	}
	if uc.settings != nil {
		loaded, err := uc.settings.GlanceSettings(ctx)
		if err != nil {
			return gs, err
		}
		gs = loaded
	}

	if v, ok := req.PinnedProjectID.Value(); ok {
		id := model.ProjectID(v)
		gs.PinnedProjectID = &id
	} else if req.PinnedProjectID.IsClear() {
		gs.PinnedProjectID = nil
	}
	if req.Policy != nil {
		p, err := model.ParseSelectionPolicy(*req.Policy)
		if err != nil {
			return gs, err
		}
		gs.Policy = p
	}
	if req.PrivacyMode != nil {
		m, err := model.ParsePrivacyMode(*req.PrivacyMode)
		if err != nil {
			return gs, err
		}
		gs.PrivacyMode = m
	}
	return gs, nil
}

// loadUniverse reads projects, tasks and logs concurrently
func (uc *GlanceUseCaseImpl) loadUniverse(ctx context.Context) (service.Universe, error) {
	var (
		projects []*project.Project
		tasks    []*task.Task
		logs     []*completion.Log
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = uc.projectRepo.FindAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = uc.taskRepo.FindAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = uc.logRepo.FindAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return service.Universe{}, err
	}
	return service.Universe{Projects: projects, Tasks: tasks, Logs: logs}, nil
}

func toSummaryDTO(s service.OutstandingSummary, mode model.PrivacyMode, now time.Time) dto.SummaryDTO {
	items := make([]dto.DisplayItemDTO, 0, len(s.DisplayList))
	for _, it := range s.DisplayList {
		items = append(items, dto.DisplayItemDTO{
			TaskID:        it.TaskID.String(),
			ProjectID:     it.ProjectID.String(),
			Title:         it.Title,
			Group:         it.Group.String(),
			DueAt:         it.DueAt,
			Priority:      it.Priority.String(),
			WorkflowState: it.WorkflowState.String(),
		})
	}
	c := s.Counters
	return dto.SummaryDTO{
		DateKey:        s.Metadata.DateKey.String(),
		Scope:          string(s.Metadata.Scope),
		FallbackReason: string(s.Metadata.FallbackReason),
		PrivacyMode:    string(mode),
		DisplayList:    items,
		Counters: dto.CountersDTO{
			OutstandingTotal: c.OutstandingTotal,
			OverdueCount:     c.OverdueCount,
			DueSoonCount:     c.DueSoonCount,
			P1Count:          c.P1Count,
			DoingCount:       c.DoingCount,
			BlockedCount:     c.BlockedCount,
			RecurringTotal:   c.RecurringTotal,
			RecurringDone:    c.RecurringDone,
		},
		GeneratedAt: now,
	}
}
