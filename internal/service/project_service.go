package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/ictak-go-api/internal/apperr"
	"github.com/noah-isme/ictak-go-api/internal/models"
	"github.com/noah-isme/ictak-go-api/internal/repository"
)

// ProjectService reads the project catalog.
type ProjectService interface {
	ListAvailable(ctx context.Context, course string) ([]models.Project, error)
	GetDetails(ctx context.Context, projectID string) (models.Project, error)
	GetReferences(ctx context.Context, projectID string) (models.ProjectReference, error)
}

type projectService struct {
	repo   repository.ProjectRepository
	logger zerolog.Logger
}

// NewProjectService constructs the catalog service.
func NewProjectService(repo repository.ProjectRepository, logger zerolog.Logger) ProjectService {
	return &projectService{
		repo:   repo,
		logger: logger.With().Str("component", "project_service").Logger(),
	}
}

func (s *projectService) ListAvailable(ctx context.Context, course string) ([]models.Project, error) {
	course = strings.TrimSpace(course)
	if course == "" {
		return nil, apperr.Validation("Course is required")
	}

	projects, err := s.repo.ListByCourse(ctx, course)
	if err != nil {
		return nil, internal(err, "Server error while fetching available projects")
	}
	return projects, nil
}

func (s *projectService) GetDetails(ctx context.Context, projectID string) (models.Project, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return models.Project{}, apperr.Validation("Project ID is required")
	}

	project, err := s.repo.FindByProjectID(ctx, projectID)
	if err != nil {
		return models.Project{}, classify(err, "Project not found", "Server error while fetching project details")
	}
	return project, nil
}

func (s *projectService) GetReferences(ctx context.Context, projectID string) (models.ProjectReference, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return models.ProjectReference{}, apperr.Validation("Project ID is required")
	}

	reference, err := s.repo.FindReferences(ctx, projectID)
	if err != nil {
		return models.ProjectReference{}, classify(err, "Project references not found", "Server error while fetching project references")
	}
	return reference, nil
}
