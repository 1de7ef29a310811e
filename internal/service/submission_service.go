package service

import (
	"context"
	"mime/multipart"
	"strconv"
	"strings"

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

// SubmissionService stores weekly work and final project submissions.
type SubmissionService interface {
	UploadWeekly(ctx context.Context, studentID string, payload dto.WeeklySubmissionRequest, file *multipart.FileHeader) (dto.WeeklySubmissionResponse, error)
	ListWeekly(ctx context.Context, studentID string) ([]dto.WeeklySubmissionResponse, error)
	UploadProject(ctx context.Context, studentID string, payload dto.ProjectSubmissionRequest, file *multipart.FileHeader) (dto.ProjectSubmissionResponse, error)
	GetProject(ctx context.Context, studentID string) (dto.ProjectSubmissionResponse, error)
}

type submissionService struct {
	repo   repository.SubmissionRepository
	intake *FileIntake
	logger zerolog.Logger
	tracer trace.Tracer
}

// NewSubmissionService constructs the submission service.
func NewSubmissionService(repo repository.SubmissionRepository, intake *FileIntake, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		repo:   repo,
		intake: intake,
		logger: logger.With().Str("component", "submission_service").Logger(),
		tracer: otel.Tracer("github.com/noah-isme/ictak-go-api/internal/service/submission"),
	}
}

func (s *submissionService) UploadWeekly(ctx context.Context, studentID string, payload dto.WeeklySubmissionRequest, file *multipart.FileHeader) (dto.WeeklySubmissionResponse, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return dto.WeeklySubmissionResponse{}, apperr.Validation("Student ID is required")
	}
	week, err := strconv.Atoi(strings.TrimSpace(payload.SelectedWeek))
	if err != nil || week < 1 {
		return dto.WeeklySubmissionResponse{}, apperr.Validation("Week selection is required")
	}

	ctx, span := s.tracer.Start(ctx, "submission.upload_weekly", trace.WithAttributes(
		attribute.String("student.id", studentID),
		attribute.Int("submission.week", week),
	))
	defer span.End()

	stored, err := s.intake.Accept(ctx, file)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "file rejected")
		return dto.WeeklySubmissionResponse{}, err
	}

	submission := models.WeeklySubmission{
		StudentID: studentID,
		Week:      week,
		Links:     strings.TrimSpace(payload.Links),
		File:      stored,
		Comments:  strings.TrimSpace(payload.Comments),
	}
	submission.ResetGrading()

	saved, err := s.repo.UpsertWeekly(ctx, &submission)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert failed")
		return dto.WeeklySubmissionResponse{}, internal(err, "Server error while uploading weekly submission")
	}

	span.SetStatus(codes.Ok, "stored")
	s.logger.Info().Str("student_id", studentID).Int("week", week).Bool("file", !stored.IsEmpty()).Msg("weekly submission stored")
	return dto.NewWeeklySubmissionResponse(saved), nil
}

func (s *submissionService) ListWeekly(ctx context.Context, studentID string) ([]dto.WeeklySubmissionResponse, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, apperr.Validation("Student ID is required")
	}

	items, err := s.repo.ListWeekly(ctx, studentID)
	if err != nil {
		return nil, internal(err, "Server error while fetching weekly submissions")
	}
	return dto.NewWeeklySubmissionResponseSlice(items), nil
}

func (s *submissionService) UploadProject(ctx context.Context, studentID string, payload dto.ProjectSubmissionRequest, file *multipart.FileHeader) (dto.ProjectSubmissionResponse, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return dto.ProjectSubmissionResponse{}, apperr.Validation("Student ID is required")
	}

	ctx, span := s.tracer.Start(ctx, "submission.upload_project", trace.WithAttributes(
		attribute.String("student.id", studentID),
	))
	defer span.End()

	stored, err := s.intake.Accept(ctx, file)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "file rejected")
		return dto.ProjectSubmissionResponse{}, err
	}

	submission := models.ProjectSubmission{
		StudentID: studentID,
		Links:     strings.TrimSpace(payload.Links),
		File:      stored,
		Comments:  strings.TrimSpace(payload.Comments),
	}

	saved, err := s.repo.UpsertProject(ctx, &submission)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert failed")
		return dto.ProjectSubmissionResponse{}, internal(err, "Server error while uploading project submission")
	}

	span.SetStatus(codes.Ok, "stored")
	s.logger.Info().Str("student_id", studentID).Bool("file", !stored.IsEmpty()).Msg("project submission stored")
	return dto.NewProjectSubmissionResponse(saved), nil
}

func (s *submissionService) GetProject(ctx context.Context, studentID string) (dto.ProjectSubmissionResponse, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return dto.ProjectSubmissionResponse{}, apperr.Validation("Student ID is required")
	}

	submission, err := s.repo.FindProject(ctx, studentID)
	if err != nil {
		return dto.ProjectSubmissionResponse{}, classify(err, "Project submission not found", "Server error while fetching project submission")
	}
	return dto.NewProjectSubmissionResponse(submission), nil
}
