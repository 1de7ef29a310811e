package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/ictak-go-api/internal/apperr"
	"github.com/noah-isme/ictak-go-api/internal/dto"
	"github.com/noah-isme/ictak-go-api/internal/models"
	"github.com/noah-isme/ictak-go-api/internal/repository"
)

const discussionSaveAttempts = 3

var (
	errQuestionNotFound   = apperr.NotFound("Question not found")
	errDiscussionNotFound = apperr.NotFound("Discussion forum not found for this course")
)

// DiscussionService manages the question board of a student's course batch.
type DiscussionService interface {
	Get(ctx context.Context, studentID string) (models.Discussion, error)
	AddQuestion(ctx context.Context, studentID string, payload dto.QuestionRequest) (models.Discussion, error)
	AddAnswer(ctx context.Context, studentID, questionID string, payload dto.AnswerRequest) (models.Discussion, error)
	EditQuestion(ctx context.Context, studentID, questionID string, payload dto.EditQuestionRequest) (models.Discussion, error)
	DeleteQuestion(ctx context.Context, studentID, questionID string) (models.Discussion, error)
}

type discussionService struct {
	courses *CourseReader
	repo    repository.DiscussionRepository
	logger  zerolog.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

// NewDiscussionService constructs a discussion service.
func NewDiscussionService(courses *CourseReader, repo repository.DiscussionRepository, logger zerolog.Logger) DiscussionService {
	return &discussionService{
		courses: courses,
		repo:    repo,
		logger:  logger.With().Str("component", "discussion_service").Logger(),
		tracer:  otel.Tracer("github.com/noah-isme/ictak-go-api/internal/service/discussion"),
		now:     time.Now,
	}
}

func (s *discussionService) Get(ctx context.Context, studentID string) (models.Discussion, error) {
	batch, err := s.batchOf(ctx, studentID, "Server error while fetching discussion forum")
	if err != nil {
		return models.Discussion{}, err
	}

	discussion, err := s.repo.FindByBatch(ctx, batch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Discussion{}, apperr.NotFound("No discussion forum found for this course")
		}
		return models.Discussion{}, internal(err, "Server error while fetching discussion forum")
	}
	return discussion, nil
}

func (s *discussionService) AddQuestion(ctx context.Context, studentID string, payload dto.QuestionRequest) (models.Discussion, error) {
	if strings.TrimSpace(studentID) == "" {
		return models.Discussion{}, apperr.Validation("Student ID is required")
	}
	text := strings.TrimSpace(payload.Question)
	if text == "" {
		return models.Discussion{}, apperr.Validation("Question is required")
	}

	return s.mutate(ctx, "discussion.add_question", studentID, true, "Server error while adding question", func(d *models.Discussion) error {
		d.AddQuestion(text, s.now().UTC())
		return nil
	})
}

func (s *discussionService) AddAnswer(ctx context.Context, studentID, questionID string, payload dto.AnswerRequest) (models.Discussion, error) {
	if err := requireIDs(studentID, questionID); err != nil {
		return models.Discussion{}, err
	}
	text := strings.TrimSpace(payload.Answer)
	if text == "" {
		return models.Discussion{}, apperr.Validation("Answer is required")
	}

	return s.mutate(ctx, "discussion.add_answer", studentID, false, "Server error while adding answer", func(d *models.Discussion) error {
		question, ok := d.Question(strings.TrimSpace(questionID))
		if !ok {
			return errQuestionNotFound
		}
		question.AddAnswer(text, s.now().UTC())
		return nil
	})
}

func (s *discussionService) EditQuestion(ctx context.Context, studentID, questionID string, payload dto.EditQuestionRequest) (models.Discussion, error) {
	if err := requireIDs(studentID, questionID); err != nil {
		return models.Discussion{}, err
	}
	text := strings.TrimSpace(payload.QuestionText)
	if text == "" {
		return models.Discussion{}, apperr.Validation("Question text is required")
	}

	return s.mutate(ctx, "discussion.edit_question", studentID, false, "Server error while updating question", func(d *models.Discussion) error {
		question, ok := d.Question(strings.TrimSpace(questionID))
		if !ok {
			return errQuestionNotFound
		}
		question.Edit(text, s.now().UTC())
		return nil
	})
}

func (s *discussionService) DeleteQuestion(ctx context.Context, studentID, questionID string) (models.Discussion, error) {
	if err := requireIDs(studentID, questionID); err != nil {
		return models.Discussion{}, err
	}

	return s.mutate(ctx, "discussion.delete_question", studentID, false, "Server error while deleting question", func(d *models.Discussion) error {
		if !d.RemoveQuestion(strings.TrimSpace(questionID)) {
			return errQuestionNotFound
		}
		return nil
	})
}

// mutate loads the batch discussion, applies change and saves the whole document. A
// concurrent writer makes the save fail as stale; the change is then reapplied to a
// fresh copy.
func (s *discussionService) mutate(ctx context.Context, op, studentID string, create bool, failure string, change func(*models.Discussion) error) (models.Discussion, error) {
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("student.id", studentID)))
	defer span.End()

	batch, err := s.batchOf(ctx, studentID, failure)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "course lookup failed")
		return models.Discussion{}, err
	}
	span.SetAttributes(attribute.String("discussion.batch", batch))

	for attempt := 1; ; attempt++ {
		discussion, err := s.repo.FindByBatch(ctx, batch)
		switch {
		case errors.Is(err, repository.ErrNotFound) && create:
			discussion = models.Discussion{Batch: batch}
		case errors.Is(err, repository.ErrNotFound):
			return models.Discussion{}, errDiscussionNotFound
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, "load failed")
			return models.Discussion{}, internal(err, failure)
		}

		if err := change(&discussion); err != nil {
			return models.Discussion{}, err
		}

		err = s.repo.Save(ctx, &discussion)
		if err == nil {
			span.SetAttributes(attribute.Int("discussion.attempts", attempt))
			span.SetStatus(codes.Ok, "saved")
			return discussion, nil
		}

		retryable := errors.Is(err, repository.ErrStale) || errors.Is(err, repository.ErrDuplicate)
		if !retryable || attempt >= discussionSaveAttempts {
			span.RecordError(err)
			span.SetStatus(codes.Error, "save failed")
			return models.Discussion{}, internal(err, failure)
		}
		s.logger.Debug().Str("batch", batch).Int("attempt", attempt).Msg("discussion changed concurrently, retrying")
	}
}

func (s *discussionService) batchOf(ctx context.Context, studentID, failure string) (string, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return "", apperr.Validation("Student ID is required")
	}
	record, err := s.courses.Get(ctx, studentID)
	if err != nil {
		return "", classify(err, "Student not found", failure)
	}
	return record.Course, nil
}

func requireIDs(studentID, questionID string) error {
	if strings.TrimSpace(studentID) == "" {
		return apperr.Validation("Student ID is required")
	}
	if strings.TrimSpace(questionID) == "" {
		return apperr.Validation("Question ID is required")
	}
	return nil
}
