package service

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/ictak-go-api/internal/database"
	"github.com/noah-isme/ictak-go-api/internal/models"
	"github.com/noah-isme/ictak-go-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func setupRepositories(t *testing.T) repository.Set {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.GORMConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repository.AutoMigrate(db))
	return repository.NewGORMSet(db)
}

func seedCourse(t *testing.T, repos repository.Set, studentID, course string, exitScore int) models.CourseRecord {
	t.Helper()
	record := models.CourseRecord{
		StudentID: studentID,
		Name:      "Student " + studentID,
		Course:    course,
		StartDate: "15th March 2024",
		Mentor:    "Mridula",
		Grade:     models.GradeForScore(exitScore),
		ExitScore: exitScore,
	}
	require.NoError(t, repos.Courses.Create(context.Background(), &record))
	return record
}
