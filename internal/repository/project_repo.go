package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/ictak-go-api/internal/models"
)

// ProjectRepository reads the project catalog and its reference material.
type ProjectRepository interface {
	ListByCourse(ctx context.Context, course string) ([]models.Project, error)
	FindByProjectID(ctx context.Context, projectID string) (models.Project, error)
	FindReferences(ctx context.Context, projectID string) (models.ProjectReference, error)
	UpsertProjects(ctx context.Context, projects []models.Project) (int64, error)
	UpsertReferences(ctx context.Context, references []models.ProjectReference) (int64, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository constructs a catalog repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) ListByCourse(ctx context.Context, course string) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.WithContext(ctx).
		Where("course = ?", course).
		Order("project_id ASC").
		Find(&projects).Error; err != nil {
		return nil, translate(err, "list projects")
	}
	return projects, nil
}

func (r *projectRepository) FindByProjectID(ctx context.Context, projectID string) (models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).First(&project).Error; err != nil {
		return models.Project{}, translate(err, "find project")
	}
	return project, nil
}

func (r *projectRepository) FindReferences(ctx context.Context, projectID string) (models.ProjectReference, error) {
	var reference models.ProjectReference
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).First(&reference).Error; err != nil {
		return models.ProjectReference{}, translate(err, "find project references")
	}
	return reference, nil
}

func (r *projectRepository) UpsertProjects(ctx context.Context, projects []models.Project) (int64, error) {
	if len(projects) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "course", "description", "prerequisites", "job_opportunities", "overview"}),
	})

	result := tx.Create(&projects)
	return result.RowsAffected, translate(result.Error, "upsert projects")
}

func (r *projectRepository) UpsertReferences(ctx context.Context, references []models.ProjectReference) (int64, error) {
	if len(references) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"materials"}),
	})

	result := tx.Create(&references)
	return result.RowsAffected, translate(result.Error, "upsert project references")
}
