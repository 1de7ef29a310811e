package repository

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/noah-isme/ictak-go-api/internal/models"
)

// Set groups the repositories the services depend on, whichever backend provides them.
type Set struct {
	Accounts    AccountRepository
	Courses     CourseRepository
	Projects    ProjectRepository
	Assignments AssignmentRepository
	Submissions SubmissionRepository
	Discussions DiscussionRepository
}

// NewGORMSet builds every repository over a single GORM handle.
func NewGORMSet(db *gorm.DB) Set {
	return Set{
		Accounts:    NewAccountRepository(db),
		Courses:     NewCourseRepository(db),
		Projects:    NewProjectRepository(db),
		Assignments: NewAssignmentRepository(db),
		Submissions: NewSubmissionRepository(db),
		Discussions: NewDiscussionRepository(db),
	}
}

// Models lists the tables managed by the relational backend.
func Models() []interface{} {
	return []interface{}{
		&models.Account{},
		&models.CourseRecord{},
		&models.Project{},
		&models.ProjectReference{},
		&models.ProjectAssignment{},
		&models.WeeklySubmission{},
		&models.ProjectSubmission{},
		&models.Discussion{},
		&models.DiscussionQuestion{},
	}
}

// AutoMigrate creates or updates the relational schema, including the unique indexes
// that back insert-if-absent and upsert operations.
func AutoMigrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(Models()...), "auto migrate")
}
