package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ictak-go-api/internal/models"
	"github.com/noah-isme/ictak-go-api/internal/repository"
)

// CourseReader resolves a student's course record, reading through Redis when configured.
// Course records are written once at registration, so entries never need invalidation.
type CourseReader struct {
	repo   repository.CourseRepository
	cache  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCourseReader builds a reader; a nil cache reads the repository directly.
func NewCourseReader(repo repository.CourseRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) *CourseReader {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CourseReader{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "course_cache").Logger(),
	}
}

func courseCacheKey(studentID string) string {
	return "course:student:" + studentID
}

// Get returns the course record for studentID.
func (r *CourseReader) Get(ctx context.Context, studentID string) (models.CourseRecord, error) {
	key := courseCacheKey(studentID)

	if r.cache != nil {
		if cached, err := r.cache.Get(ctx, key).Result(); err == nil {
			var record models.CourseRecord
			if unmarshalErr := json.Unmarshal([]byte(cached), &record); unmarshalErr == nil {
				r.logger.Debug().Str("student_id", studentID).Msg("course cache hit")
				return record, nil
			}
		} else if err != redis.Nil {
			r.logger.Warn().Err(err).Msg("failed to read course cache")
		}
	}

	record, err := r.repo.FindByStudentID(ctx, studentID)
	if err != nil {
		return models.CourseRecord{}, err
	}

	if r.cache != nil {
		payload, err := json.Marshal(record)
		if err == nil {
			if err := r.cache.Set(ctx, key, payload, r.ttl).Err(); err != nil {
				r.logger.Warn().Err(err).Msg("failed to store course cache")
			}
		}
	}

	return record, nil
}
