package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/ictak-go-api/internal/database"
	"github.com/noah-isme/ictak-go-api/internal/models"
)

func TestAccountRepositoryRejectsDuplicateEmail(t *testing.T) {
	repo := NewAccountRepository(setupTestDB(t))
	ctx := context.Background()

	first := &models.Account{Email: "anu@example.com", PasswordHash: "hash", Name: "Anu"}
	require.NoError(t, repo.Create(ctx, first))
	require.NotEmpty(t, first.ID)

	err := repo.Create(ctx, &models.Account{Email: "anu@example.com", PasswordHash: "other", Name: "Imposter"})
	require.ErrorIs(t, err, ErrDuplicate)

	stored, err := repo.FindByEmail(ctx, "anu@example.com")
	require.NoError(t, err)
	require.Equal(t, "Anu", stored.Name)
	require.Equal(t, "hash", stored.PasswordHash)

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAccountRepositoryDelete(t *testing.T) {
	repo := NewAccountRepository(setupTestDB(t))
	ctx := context.Background()

	account := &models.Account{Email: "anu@example.com", PasswordHash: "hash", Name: "Anu"}
	require.NoError(t, repo.Create(ctx, account))
	require.NoError(t, repo.Delete(ctx, account.ID))

	_, err := repo.FindByEmail(ctx, "anu@example.com")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, repo.Create(ctx, &models.Account{Email: "anu@example.com", PasswordHash: "again", Name: "Anu"}))
}

func TestCourseRepositoryFindByStudentID(t *testing.T) {
	repo := NewCourseRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.CourseRecord{StudentID: "anu@example.com", Course: "MERN", ExitScore: 72, Grade: "C"}))

	record, err := repo.FindByStudentID(ctx, "anu@example.com")
	require.NoError(t, err)
	require.Equal(t, 72, record.ExitScore)

	_, err = repo.FindByStudentID(ctx, "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepositoryUpsertAndQueries(t *testing.T) {
	repo := NewProjectRepository(setupTestDB(t))
	ctx := context.Background()

	projects := []models.Project{
		{ProjectID: "P2", Name: "Inventory", Course: "MERN", Prerequisites: datatypes.JSONSlice[string]{"React"}},
		{ProjectID: "P1", Name: "Portal", Course: "MERN", JobOpportunities: datatypes.JSONSlice[string]{"Frontend developer"}},
		{ProjectID: "D1", Name: "Forecast", Course: "DSA"},
	}
	affected, err := repo.UpsertProjects(ctx, projects)
	require.NoError(t, err)
	require.Equal(t, int64(3), affected)

	_, err = repo.UpsertProjects(ctx, []models.Project{{ProjectID: "P1", Name: "Portal v2", Course: "MERN"}})
	require.NoError(t, err)

	listed, err := repo.ListByCourse(ctx, "MERN")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "P1", listed[0].ProjectID)
	require.Equal(t, "Portal v2", listed[0].Name)
	require.Equal(t, []string{"React"}, []string(listed[1].Prerequisites))

	_, err = repo.FindByProjectID(ctx, "ZZ")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = repo.UpsertReferences(ctx, []models.ProjectReference{{ProjectID: "P1", Materials: datatypes.JSONSlice[string]{"https://react.dev"}}})
	require.NoError(t, err)
	refs, err := repo.FindReferences(ctx, "P1")
	require.NoError(t, err)
	require.Equal(t, []string{"https://react.dev"}, []string(refs.Materials))

	_, err = repo.FindReferences(ctx, "P2")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAssignmentRepositoryCreateIfAbsentKeepsFirst(t *testing.T) {
	repo := NewAssignmentRepository(setupTestDB(t))
	ctx := context.Background()

	first := &models.ProjectAssignment{StudentID: "anu@example.com", ProjectID: "P1", ProjectName: "Portal", StartDate: time.Now().UTC()}
	stored, created, err := repo.CreateIfAbsent(ctx, first)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, "P1", stored.ProjectID)

	second := &models.ProjectAssignment{StudentID: "anu@example.com", ProjectID: "P2", ProjectName: "Inventory"}
	existing, created, err := repo.CreateIfAbsent(ctx, second)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, stored.ID, existing.ID)
	require.Equal(t, "P1", existing.ProjectID)

	list, err := repo.ListByStudent(ctx, "anu@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestAssignmentRepositoryConcurrentSelectionStoresOne(t *testing.T) {
	repo := NewAssignmentRepository(setupTestDB(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	createdCount := 0
	var errs []error
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, created, err := repo.CreateIfAbsent(ctx, &models.ProjectAssignment{
				StudentID: "race@example.com",
				ProjectID: fmt.Sprintf("P%d", i),
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
			}
			if created {
				createdCount++
			}
		}(i)
	}
	wg.Wait()

	require.Empty(t, errs)
	require.Equal(t, 1, createdCount)
	list, err := repo.ListByStudent(ctx, "race@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestAssignmentRepositoryUpdateProject(t *testing.T) {
	repo := NewAssignmentRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.UpdateProject(ctx, "anu@example.com", "P2", "Inventory")
	require.ErrorIs(t, err, ErrNotFound)

	_, _, err = repo.CreateIfAbsent(ctx, &models.ProjectAssignment{StudentID: "anu@example.com", ProjectID: "P1", ProjectName: "Portal"})
	require.NoError(t, err)

	updated, err := repo.UpdateProject(ctx, "anu@example.com", "P2", "Inventory")
	require.NoError(t, err)
	require.Equal(t, "P2", updated.ProjectID)
	require.Equal(t, "Inventory", updated.ProjectName)
}

func TestSubmissionRepositoryWeeklyUpsertOverwrites(t *testing.T) {
	repo := NewSubmissionRepository(setupTestDB(t))
	ctx := context.Background()

	first := &models.WeeklySubmission{
		StudentID: "anu@example.com", Week: 2, Links: "https://github.com/anu/w2",
		File:        models.SubmissionFile{Name: "w2.pdf", Type: "application/pdf", Size: 4, Data: []byte("%PDF")},
		Comments:    "first try",
		MentorMarks: "9", MentorComments: "great",
	}
	stored, err := repo.UpsertWeekly(ctx, first)
	require.NoError(t, err)
	require.Equal(t, "first try", stored.Comments)

	second := &models.WeeklySubmission{StudentID: "anu@example.com", Week: 2, Links: "https://github.com/anu/w2-v2", Comments: "second try"}
	second.ResetGrading()
	replaced, err := repo.UpsertWeekly(ctx, second)
	require.NoError(t, err)
	require.Equal(t, stored.ID, replaced.ID)
	require.Equal(t, "second try", replaced.Comments)
	require.Equal(t, "https://github.com/anu/w2-v2", replaced.Links)
	require.Equal(t, models.Ungraded, replaced.MentorMarks)
	require.Equal(t, models.Ungraded, replaced.MentorComments)
	require.True(t, replaced.File.IsEmpty())

	_, err = repo.UpsertWeekly(ctx, &models.WeeklySubmission{StudentID: "anu@example.com", Week: 1})
	require.NoError(t, err)

	list, err := repo.ListWeekly(ctx, "anu@example.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, 1, list[0].Week)
	require.Equal(t, 2, list[1].Week)
}

func TestSubmissionRepositoryProjectUpsert(t *testing.T) {
	repo := NewSubmissionRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.FindProject(ctx, "anu@example.com")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = repo.UpsertProject(ctx, &models.ProjectSubmission{StudentID: "anu@example.com", Links: "v1"})
	require.NoError(t, err)
	stored, err := repo.UpsertProject(ctx, &models.ProjectSubmission{StudentID: "anu@example.com", Links: "v2", Comments: "final"})
	require.NoError(t, err)
	require.Equal(t, "v2", stored.Links)
	require.Equal(t, "final", stored.Comments)
}

func TestDiscussionRepositorySaveRoundTrip(t *testing.T) {
	repo := NewDiscussionRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := repo.FindByBatch(ctx, "MERN-2024")
	require.ErrorIs(t, err, ErrNotFound)

	discussion := &models.Discussion{Batch: "MERN-2024"}
	discussion.AddQuestion("first", now)
	discussion.AddQuestion("second", now)
	discussion.AddQuestion("third", now)
	require.NoError(t, repo.Save(ctx, discussion))
	for _, q := range discussion.Questions {
		require.NotEmpty(t, q.ID)
	}
	secondID := discussion.Questions[1].ID

	loaded, err := repo.FindByBatch(ctx, "MERN-2024")
	require.NoError(t, err)
	require.Len(t, loaded.Questions, 3)
	question, ok := loaded.Question(secondID)
	require.True(t, ok)
	question.AddAnswer("it's <b>fine</b>", now)
	require.True(t, loaded.RemoveQuestion(loaded.Questions[0].ID))
	require.NoError(t, repo.Save(ctx, &loaded))

	reloaded, err := repo.FindByBatch(ctx, "MERN-2024")
	require.NoError(t, err)
	require.Len(t, reloaded.Questions, 2)
	require.Equal(t, "second", reloaded.Questions[0].Question)
	require.Equal(t, []string{"it's <b>fine</b>"}, []string(reloaded.Questions[0].Answers))
	require.Equal(t, "third", reloaded.Questions[1].Question)
}

func TestDiscussionRepositoryDetectsStaleWrites(t *testing.T) {
	repo := NewDiscussionRepository(setupTestDB(t))
	ctx := context.Background()

	discussion := &models.Discussion{Batch: "MERN-2024"}
	require.NoError(t, repo.Save(ctx, discussion))

	a, err := repo.FindByBatch(ctx, "MERN-2024")
	require.NoError(t, err)
	b, err := repo.FindByBatch(ctx, "MERN-2024")
	require.NoError(t, err)

	a.AddQuestion("from a", time.Now())
	require.NoError(t, repo.Save(ctx, &a))

	b.AddQuestion("from b", time.Now())
	require.ErrorIs(t, repo.Save(ctx, &b), ErrStale)

	stored, err := repo.FindByBatch(ctx, "MERN-2024")
	require.NoError(t, err)
	require.Len(t, stored.Questions, 1)
	require.Equal(t, "from a", stored.Questions[0].Question)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.GORMConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}
