package project

import (
	"context"
	"time"

	"github.com/YoshitsuguKoike/deetask/internal/app"
	"github.com/YoshitsuguKoike/deetask/internal/application/dto"
	"github.com/YoshitsuguKoike/deetask/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	domainproject "github.com/YoshitsuguKoike/deetask/internal/domain/model/project"
	"github.com/YoshitsuguKoike/deetask/internal/domain/repository"
)

// ProjectUseCaseImpl implements the ProjectUseCase interface
type ProjectUseCaseImpl struct {
	projectRepo repository.ProjectRepository
	txManager   output.TransactionManager
	now         func() time.Time
	logger      app.Logger
}

// NewProjectUseCaseImpl creates a new project use case implementation
func NewProjectUseCaseImpl(
	projectRepo repository.ProjectRepository,
	txManager output.TransactionManager,
	now func() time.Time,
	logger app.Logger,
) *ProjectUseCaseImpl {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = app.NewNopLogger()
	}
	return &ProjectUseCaseImpl{
		projectRepo: projectRepo,
		txManager:   txManager,
		now:         now,
		logger:      logger,
	}
}

// CreateProject creates a new active project
func (uc *ProjectUseCaseImpl) CreateProject(ctx context.Context, req dto.CreateProjectRequest) (*dto.ProjectDTO, error) {
	now := uc.now()
	start := now
	if req.StartDate != nil {
		start = *req.StartDate
	}
	p, err := domainproject.NewProject(req.Title, start, req.DueDate, req.Note, now)
	if err != nil {
		return nil, err
	}

	err = uc.txManager.InTransaction(ctx, func(txCtx context.Context) error {
		return uc.projectRepo.Save(txCtx, p)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("created project %s", p.ID())
	d := dto.ProjectToDTO(p)
	return &d, nil
}

// GetProject retrieves a project by ID
func (uc *ProjectUseCaseImpl) GetProject(ctx context.Context, projectID string) (*dto.ProjectDTO, error) {
	p, err := uc.projectRepo.FindByID(ctx, model.ProjectID(projectID))
	if err != nil {
		return nil, err
	}
	d := dto.ProjectToDTO(p)
	return &d, nil
}

// ListProjects lists all projects, or only the active ones
func (uc *ProjectUseCaseImpl) ListProjects(ctx context.Context, req dto.ListProjectsRequest) ([]dto.ProjectDTO, error) {
	var (
		projects []*domainproject.Project
		err      error
	)
	if req.ActiveOnly {
		projects, err = uc.projectRepo.FindActive(ctx)
	} else {
		projects, err = uc.projectRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]dto.ProjectDTO, 0, len(projects))
	for _, p := range projects {
		out = append(out, dto.ProjectToDTO(p))
	}
	return out, nil
}

// ArchiveProject moves a project to archived
func (uc *ProjectUseCaseImpl) ArchiveProject(ctx context.Context, projectID string) (*dto.ProjectDTO, error) {
	return uc.transition(ctx, projectID, (*domainproject.Project).Archive)
}

// CompleteProject moves a project to completed
func (uc *ProjectUseCaseImpl) CompleteProject(ctx context.Context, projectID string) (*dto.ProjectDTO, error) {
	return uc.transition(ctx, projectID, (*domainproject.Project).Complete)
}

// ReactivateProject moves a project back to active
func (uc *ProjectUseCaseImpl) ReactivateProject(ctx context.Context, projectID string) (*dto.ProjectDTO, error) {
	return uc.transition(ctx, projectID, (*domainproject.Project).Reactivate)
}

func (uc *ProjectUseCaseImpl) transition(
	ctx context.Context,
	projectID string,
	move func(p *domainproject.Project, now time.Time) error,
) (*dto.ProjectDTO, error) {
	var result *domainproject.Project
	err := uc.txManager.InTransaction(ctx, func(txCtx context.Context) error {
		p, err := uc.projectRepo.FindByID(txCtx, model.ProjectID(projectID))
		if err != nil {
			return err
		}
		before := p.Status()
		if err := move(p, uc.now()); err != nil {
			return err
		}
		if p.Status() != before {
			if err := uc.projectRepo.Save(txCtx, p); err != nil {
				return err
			}
			uc.logger.Info("project %s: %s -> %s", p.ID(), before, p.Status())
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	d := dto.ProjectToDTO(result)
	return &d, nil
}
