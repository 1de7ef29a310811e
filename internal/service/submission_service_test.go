package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ictak-go-api/internal/apperr"
	"github.com/noah-isme/ictak-go-api/internal/dto"
	"github.com/noah-isme/ictak-go-api/internal/models"
	"github.com/noah-isme/ictak-go-api/internal/repository"
)

func TestSubmissionServiceWeeklyUploadResetsGrading(t *testing.T) {
	repos := setupRepositories(t)
	svc := NewSubmissionService(repos.Submissions, NewFileIntake(nil, 5, testLogger()), testLogger())
	ctx := context.Background()

	first, err := svc.UploadWeekly(ctx, "anu@example.com", dto.WeeklySubmissionRequest{SelectedWeek: "2", Links: "https://github.com/anu/w2"}, buildFileHeader(t, "w2.pdf", pdfContent))
	require.NoError(t, err)
	require.Equal(t, 2, first.Week)
	require.Equal(t, models.Ungraded, first.MentorMarks)
	require.NotNil(t, first.File)
	require.Equal(t, "w2.pdf", first.File.Name)

	graded := models.WeeklySubmission{StudentID: "anu@example.com", Week: 2, Links: first.Links, MentorMarks: "9/10", MentorComments: "Good"}
	_, err = repos.Submissions.UpsertWeekly(ctx, &graded)
	require.NoError(t, err)

	second, err := svc.UploadWeekly(ctx, "anu@example.com", dto.WeeklySubmissionRequest{SelectedWeek: "2", Links: "https://github.com/anu/w2-v2", Comments: "fixed"}, nil)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "https://github.com/anu/w2-v2", second.Links)
	require.Equal(t, models.Ungraded, second.MentorMarks)
	require.Equal(t, models.Ungraded, second.MentorComments)
	require.Nil(t, second.File)

	_, err = svc.UploadWeekly(ctx, "anu@example.com", dto.WeeklySubmissionRequest{SelectedWeek: "1"}, nil)
	require.NoError(t, err)

	list, err := svc.ListWeekly(ctx, "anu@example.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, 1, list[0].Week)
	require.Equal(t, 2, list[1].Week)
}

func TestSubmissionServiceWeeklyRequiresWeek(t *testing.T) {
	repos := setupRepositories(t)
	svc := NewSubmissionService(repos.Submissions, NewFileIntake(nil, 5, testLogger()), testLogger())

	for _, week := range []string{"", "0", "abc", "-1"} {
		_, err := svc.UploadWeekly(context.Background(), "anu@example.com", dto.WeeklySubmissionRequest{SelectedWeek: week}, nil)
		require.Equal(t, apperr.KindValidation, apperr.KindOf(err), week)
		require.Equal(t, "Week selection is required", apperr.MessageOf(err, ""))
	}

	_, err := svc.UploadWeekly(context.Background(), "", dto.WeeklySubmissionRequest{SelectedWeek: "1"}, nil)
	require.Equal(t, "Student ID is required", apperr.MessageOf(err, ""))
}

func TestSubmissionServiceRejectsDisallowedFile(t *testing.T) {
	repos := setupRepositories(t)
	svc := NewSubmissionService(repos.Submissions, NewFileIntake(nil, 5, testLogger()), testLogger())

	_, err := svc.UploadProject(context.Background(), "anu@example.com", dto.ProjectSubmissionRequest{}, buildFileHeader(t, "x.html", []byte("<!DOCTYPE html><html></html>")))
	require.ErrorIs(t, err, ErrUploadTypeNotAllowed)

	_, err = svc.GetProject(context.Background(), "anu@example.com")
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSubmissionServiceProjectUpsert(t *testing.T) {
	repos := setupRepositories(t)
	svc := NewSubmissionService(repos.Submissions, NewFileIntake(nil, 5, testLogger()), testLogger())
	ctx := context.Background()

	_, err := svc.GetProject(ctx, "anu@example.com")
	require.Equal(t, "Project submission not found", apperr.MessageOf(err, ""))

	first, err := svc.UploadProject(ctx, "anu@example.com", dto.ProjectSubmissionRequest{Links: "https://demo.example.com"}, nil)
	require.NoError(t, err)

	second, err := svc.UploadProject(ctx, "anu@example.com", dto.ProjectSubmissionRequest{Links: "https://demo2.example.com", Comments: "final"}, nil)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	stored, err := svc.GetProject(ctx, "anu@example.com")
	require.NoError(t, err)
	require.Equal(t, "https://demo2.example.com", stored.Links)
	require.Equal(t, "final", stored.Comments)
}

// spanCheckingRepo records which span was active during each upsert.
type spanCheckingRepo struct {
	repository.SubmissionRepository
	spans []string
}

func (r *spanCheckingRepo) UpsertWeekly(ctx context.Context, submission *models.WeeklySubmission) (models.WeeklySubmission, error) {
	r.spans = append(r.spans, activeSpanName(ctx))
	return r.SubmissionRepository.UpsertWeekly(ctx, submission)
}

func (r *spanCheckingRepo) UpsertProject(ctx context.Context, submission *models.ProjectSubmission) (models.ProjectSubmission, error) {
	r.spans = append(r.spans, activeSpanName(ctx))
	return r.SubmissionRepository.UpsertProject(ctx, submission)
}

func TestSubmissionServiceUploadsRunInsideSpans(t *testing.T) {
	repos := setupRepositories(t)
	repo := &spanCheckingRepo{SubmissionRepository: repos.Submissions}
	tracer := &recordingTracer{}

	svc := NewSubmissionService(repo, NewFileIntake(nil, 5, testLogger()), testLogger())
	svc.(*submissionService).tracer = tracer
	ctx := context.Background()

	_, err := svc.UploadWeekly(ctx, "anu@example.com", dto.WeeklySubmissionRequest{SelectedWeek: "1"}, nil)
	require.NoError(t, err)
	_, err = svc.UploadProject(ctx, "anu@example.com", dto.ProjectSubmissionRequest{Links: "https://github.com/anu/final"}, nil)
	require.NoError(t, err)

	require.Equal(t, []string{"submission.upload_weekly", "submission.upload_project"}, repo.spans)
	require.Equal(t, []string{"submission.upload_weekly", "submission.upload_project"}, tracer.Ended())
}
