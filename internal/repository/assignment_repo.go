package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/ictak-go-api/internal/models"
)

// AssignmentRepository stores the project each student selected.
type AssignmentRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.ProjectAssignment, error)
	FindByStudent(ctx context.Context, studentID string) (models.ProjectAssignment, error)
	// CreateIfAbsent inserts the assignment unless the student already has one, in a
	// single store operation. It returns the stored record and whether it was created.
	CreateIfAbsent(ctx context.Context, assignment *models.ProjectAssignment) (models.ProjectAssignment, bool, error)
	// UpdateProject changes the assigned project. An empty projectName keeps the stored name.
	UpdateProject(ctx context.Context, studentID, projectID, projectName string) (models.ProjectAssignment, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository constructs an assignment repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.ProjectAssignment, error) {
	var assignments []models.ProjectAssignment
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, translate(err, "list assignments")
	}
	return assignments, nil
}

func (r *assignmentRepository) FindByStudent(ctx context.Context, studentID string) (models.ProjectAssignment, error) {
	var assignment models.ProjectAssignment
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&assignment).Error; err != nil {
		return models.ProjectAssignment{}, translate(err, "find assignment")
	}
	return assignment, nil
}

func (r *assignmentRepository) CreateIfAbsent(ctx context.Context, assignment *models.ProjectAssignment) (models.ProjectAssignment, bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}},
		DoNothing: true,
	}).Create(assignment)
	if result.Error != nil {
		return models.ProjectAssignment{}, false, translate(result.Error, "create assignment")
	}
	if result.RowsAffected == 1 {
		return *assignment, true, nil
	}

	existing, err := r.FindByStudent(ctx, assignment.StudentID)
	if err != nil {
		return models.ProjectAssignment{}, false, err
	}
	return existing, false, nil
}

func (r *assignmentRepository) UpdateProject(ctx context.Context, studentID, projectID, projectName string) (models.ProjectAssignment, error) {
	updates := map[string]interface{}{
		"project_id": projectID,
		"updated_at": time.Now().UTC(),
	}
	if projectName != "" {
		updates["project_name"] = projectName
	}

	result := r.db.WithContext(ctx).
		Model(&models.ProjectAssignment{}).
		Where("student_id = ?", studentID).
		Updates(updates)
	if result.Error != nil {
		return models.ProjectAssignment{}, translate(result.Error, "update assignment")
	}
	if result.RowsAffected == 0 {
		return models.ProjectAssignment{}, ErrNotFound
	}
	return r.FindByStudent(ctx, studentID)
}
