package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/ictak-go-api/internal/models"
)

// AccountRepository provides access to registered accounts.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id string) error
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository constructs an account repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return models.Account{}, translate(err, "find account")
	}
	return account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	return translate(r.db.WithContext(ctx).Create(account).Error, "create account")
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	return translate(r.db.WithContext(ctx).Delete(&models.Account{}, "id = ?", id).Error, "delete account")
}

// CourseRepository provides access to course records keyed by student.
type CourseRepository interface {
	FindByStudentID(ctx context.Context, studentID string) (models.CourseRecord, error)
	Create(ctx context.Context, record *models.CourseRecord) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository constructs a course record repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) FindByStudentID(ctx context.Context, studentID string) (models.CourseRecord, error) {
	var record models.CourseRecord
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&record).Error; err != nil {
		return models.CourseRecord{}, translate(err, "find course record")
	}
	return record, nil
}

func (r *courseRepository) Create(ctx context.Context, record *models.CourseRecord) error {
	return translate(r.db.WithContext(ctx).Create(record).Error, "create course record")
}
