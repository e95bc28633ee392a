package repository

import (
	"context"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model/project"
)

// ProjectRepository manages Project entities
type ProjectRepository interface {
	// FindByID retrieves a project, NotFound on a miss
	FindByID(ctx context.Context, id model.ProjectID) (*project.Project, error)

	// FindAll retrieves every project
	FindAll(ctx context.Context) ([]*project.Project, error)

	// FindActive retrieves projects with status active
	FindActive(ctx context.Context) ([]*project.Project, error)

	// Save upserts a project
	Save(ctx context.Context, p *project.Project) error
}
