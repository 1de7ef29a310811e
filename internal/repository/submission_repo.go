package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/ictak-go-api/internal/models"
)

var submissionContentColumns = []string{
	"links", "comments", "updated_at",
	"file_name", "file_type", "file_size", "file_url", "file_data",
}

// SubmissionRepository stores weekly and final project submissions.
type SubmissionRepository interface {
	// UpsertWeekly replaces the submission for (StudentID, Week) or inserts it.
	UpsertWeekly(ctx context.Context, submission *models.WeeklySubmission) (models.WeeklySubmission, error)
	ListWeekly(ctx context.Context, studentID string) ([]models.WeeklySubmission, error)
	// UpsertProject replaces the student's final submission or inserts it.
	UpsertProject(ctx context.Context, submission *models.ProjectSubmission) (models.ProjectSubmission, error)
	FindProject(ctx context.Context, studentID string) (models.ProjectSubmission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository constructs a submission repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) UpsertWeekly(ctx context.Context, submission *models.WeeklySubmission) (models.WeeklySubmission, error) {
	columns := append([]string{"mentor_marks", "mentor_comments"}, submissionContentColumns...)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "week"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(submission).Error
	if err != nil {
		return models.WeeklySubmission{}, translate(err, "upsert weekly submission")
	}

	var stored models.WeeklySubmission
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND week = ?", submission.StudentID, submission.Week).
		First(&stored).Error; err != nil {
		return models.WeeklySubmission{}, translate(err, "reload weekly submission")
	}
	return stored, nil
}

func (r *submissionRepository) ListWeekly(ctx context.Context, studentID string) ([]models.WeeklySubmission, error) {
	var submissions []models.WeeklySubmission
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("week ASC").
		Find(&submissions).Error; err != nil {
		return nil, translate(err, "list weekly submissions")
	}
	return submissions, nil
}

func (r *submissionRepository) UpsertProject(ctx context.Context, submission *models.ProjectSubmission) (models.ProjectSubmission, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns(submissionContentColumns),
	}).Create(submission).Error
	if err != nil {
		return models.ProjectSubmission{}, translate(err, "upsert project submission")
	}
	return r.FindProject(ctx, submission.StudentID)
}

func (r *submissionRepository) FindProject(ctx context.Context, studentID string) (models.ProjectSubmission, error) {
	var submission models.ProjectSubmission
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&submission).Error; err != nil {
		return models.ProjectSubmission{}, translate(err, "find project submission")
	}
	return submission, nil
}
