package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ictak-go-api/internal/models"
	"github.com/noah-isme/ictak-go-api/internal/repository"
)

type countingCourseRepo struct {
	records map[string]models.CourseRecord
	reads   int
}

func (r *countingCourseRepo) FindByStudentID(ctx context.Context, studentID string) (models.CourseRecord, error) {
	r.reads++
	record, ok := r.records[studentID]
	if !ok {
		return models.CourseRecord{}, repository.ErrNotFound
	}
	return record, nil
}

func (r *countingCourseRepo) Create(ctx context.Context, record *models.CourseRecord) error {
	r.records[record.StudentID] = *record
	return nil
}

func TestCourseReaderCachesRecords(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &countingCourseRepo{records: map[string]models.CourseRecord{
		"anu@example.com": {StudentID: "anu@example.com", Course: "MERN-2024", ExitScore: 77, Grade: "C"},
	}}
	reader := NewCourseReader(repo, client, time.Minute, testLogger())

	first, err := reader.Get(context.Background(), "anu@example.com")
	require.NoError(t, err)
	second, err := reader.Get(context.Background(), "anu@example.com")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, repo.reads)
	require.True(t, mr.Exists("course:student:anu@example.com"))
	require.Equal(t, time.Minute, mr.TTL("course:student:anu@example.com"))
}

func TestCourseReaderMissDoesNotCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &countingCourseRepo{records: map[string]models.CourseRecord{}}
	reader := NewCourseReader(repo, client, time.Minute, testLogger())

	_, err := reader.Get(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.False(t, mr.Exists("course:student:ghost@example.com"))
}

func TestCourseReaderFallsBackWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	repo := &countingCourseRepo{records: map[string]models.CourseRecord{
		"anu@example.com": {StudentID: "anu@example.com", Course: "MERN-2024"},
	}}
	reader := NewCourseReader(repo, client, time.Minute, testLogger())

	record, err := reader.Get(context.Background(), "anu@example.com")
	require.NoError(t, err)
	require.Equal(t, "MERN-2024", record.Course)
}
