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
	"github.com/noah-isme/ictak-go-api/internal/observability"
	"github.com/noah-isme/ictak-go-api/internal/repository"
)

// MinimumExitScore is the highest exit score that still blocks project selection.
const MinimumExitScore = 50

// StudentService exposes course records and project assignments.
type StudentService interface {
	GetCourse(ctx context.Context, studentID string) (models.CourseRecord, error)
	ListProjects(ctx context.Context, studentID string) ([]models.ProjectAssignment, error)
	// SelectProject assigns a project once per student. The boolean reports whether a new
	// assignment was created; false means the existing assignment was returned.
	SelectProject(ctx context.Context, payload dto.SelectProjectRequest) (models.ProjectAssignment, bool, error)
	UpdateProject(ctx context.Context, studentID string, payload dto.UpdateProjectRequest) (models.ProjectAssignment, error)
}

type studentService struct {
	courses     *CourseReader
	assignments repository.AssignmentRepository
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(courses *CourseReader, assignments repository.AssignmentRepository, logger zerolog.Logger) StudentService {
	return &studentService{
		courses:     courses,
		assignments: assignments,
		logger:      logger.With().Str("component", "student_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/ictak-go-api/internal/service/student"),
		now:         time.Now,
	}
}

func (s *studentService) GetCourse(ctx context.Context, studentID string) (models.CourseRecord, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return models.CourseRecord{}, apperr.Validation("Student ID is required")
	}

	record, err := s.courses.Get(ctx, studentID)
	if err != nil {
		return models.CourseRecord{}, classify(err, "Student course information not found", "Server error while fetching student course information")
	}
	return record, nil
}

func (s *studentService) ListProjects(ctx context.Context, studentID string) ([]models.ProjectAssignment, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, apperr.Validation("Student ID is required")
	}

	assignments, err := s.assignments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, internal(err, "Server error while fetching student projects")
	}
	return assignments, nil
}

func (s *studentService) SelectProject(ctx context.Context, payload dto.SelectProjectRequest) (models.ProjectAssignment, bool, error) {
	payload.StudentID = strings.TrimSpace(payload.StudentID)
	payload.StudentName = strings.TrimSpace(payload.StudentName)
	payload.ProjectID = strings.TrimSpace(payload.ProjectID)
	payload.ProjectName = strings.TrimSpace(payload.ProjectName)

	if payload.StudentID == "" || payload.StudentName == "" || payload.ProjectID == "" || payload.ProjectName == "" {
		return models.ProjectAssignment{}, false, apperr.Validation("Student ID, name, project ID, and project name are required")
	}

	startDate, err := parseStartDate(payload.StartDate, s.now)
	if err != nil {
		return models.ProjectAssignment{}, false, err
	}

	ctx, span := s.tracer.Start(ctx, "student.select_project", trace.WithAttributes(
		attribute.String("student.id", payload.StudentID),
		attribute.String("project.id", payload.ProjectID),
	))
	defer span.End()

	record, err := s.courses.Get(ctx, payload.StudentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "course lookup failed")
		return models.ProjectAssignment{}, false, classify(err, "Student not found in course database", "Server error while assigning project")
	}

	if record.ExitScore <= MinimumExitScore {
		observability.ProjectSelections().WithLabelValues("ineligible").Inc()
		span.SetAttributes(attribute.Int("student.exit_score", record.ExitScore))
		span.SetStatus(codes.Error, "exit score too low")
		return models.ProjectAssignment{}, false, apperr.Validation("Cannot select project: Exit score must be above 50")
	}

	assignment := models.ProjectAssignment{
		StudentID:   payload.StudentID,
		StudentName: payload.StudentName,
		ProjectID:   payload.ProjectID,
		ProjectName: payload.ProjectName,
		StartDate:   startDate,
	}
	stored, created, err := s.assignments.CreateIfAbsent(ctx, &assignment)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "assignment failed")
		return models.ProjectAssignment{}, false, internal(err, "Server error while assigning project")
	}

	if created {
		observability.ProjectSelections().WithLabelValues("created").Inc()
		s.logger.Info().Str("student_id", stored.StudentID).Str("project_id", stored.ProjectID).Msg("project assigned")
	} else {
		observability.ProjectSelections().WithLabelValues("existing").Inc()
	}
	span.SetAttributes(attribute.Bool("assignment.created", created))
	span.SetStatus(codes.Ok, "assigned")

	return stored, created, nil
}

func (s *studentService) UpdateProject(ctx context.Context, studentID string, payload dto.UpdateProjectRequest) (models.ProjectAssignment, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return models.ProjectAssignment{}, apperr.Validation("Student ID is required")
	}
	projectID := strings.TrimSpace(payload.ProjectID)
	if projectID == "" {
		return models.ProjectAssignment{}, apperr.Validation("Project ID is required")
	}

	updated, err := s.assignments.UpdateProject(ctx, studentID, projectID, strings.TrimSpace(payload.ProjectName))
	if err != nil {
		return models.ProjectAssignment{}, classify(err, "Student project assignment not found", "Server error while updating student project")
	}
	return updated, nil
}

var startDateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

func parseStartDate(raw string, now func() time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now().UTC(), nil
	}
	for _, layout := range startDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, apperr.Wrap(errors.New(raw), apperr.KindValidation, "start_date must be an ISO 8601 date")
}
