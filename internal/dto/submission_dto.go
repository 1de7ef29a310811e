package dto

import (
	"time"

	"github.com/noah-isme/ictak-go-api/internal/models"
)

// WeeklySubmissionRequest holds the text fields of a weekly upload form.
type WeeklySubmissionRequest struct {
	SelectedWeek string `form:"selectedWeek" json:"selectedWeek"`
	Links        string `form:"links" json:"links"`
	Comments     string `form:"comments" json:"comments"`
}

// ProjectSubmissionRequest holds the text fields of a final project upload form.
type ProjectSubmissionRequest struct {
	Links    string `form:"links" json:"links"`
	Comments string `form:"comments" json:"comments"`
}

// SubmissionFileResponse describes an attached file without its bytes.
type SubmissionFileResponse struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	URL  string `json:"url,omitempty"`
}

// WeeklySubmissionResponse is a stored weekly submission.
type WeeklySubmissionResponse struct {
	ID             string                  `json:"id"`
	StudentID      string                  `json:"studentId"`
	Week           int                     `json:"week"`
	Links          string                  `json:"links"`
	File           *SubmissionFileResponse `json:"file,omitempty"`
	Comments       string                  `json:"comments"`
	MentorMarks    string                  `json:"mentorMarks"`
	MentorComments string                  `json:"mentorComments"`
	UpdatedAt      time.Time               `json:"updatedAt"`
}

// ProjectSubmissionResponse is a stored final project submission.
type ProjectSubmissionResponse struct {
	ID        string                  `json:"id"`
	StudentID string                  `json:"studentId"`
	Links     string                  `json:"links"`
	File      *SubmissionFileResponse `json:"file,omitempty"`
	Comments  string                  `json:"comments"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

func newSubmissionFileResponse(file models.SubmissionFile) *SubmissionFileResponse {
	if file.IsEmpty() {
		return nil
	}
	return &SubmissionFileResponse{Name: file.Name, Type: file.Type, Size: file.Size, URL: file.URL}
}

// NewWeeklySubmissionResponse maps a stored weekly submission.
func NewWeeklySubmissionResponse(s models.WeeklySubmission) WeeklySubmissionResponse {
	return WeeklySubmissionResponse{
		ID:             s.ID,
		StudentID:      s.StudentID,
		Week:           s.Week,
		Links:          s.Links,
		File:           newSubmissionFileResponse(s.File),
		Comments:       s.Comments,
		MentorMarks:    s.MentorMarks,
		MentorComments: s.MentorComments,
		UpdatedAt:      s.UpdatedAt,
	}
}

// NewWeeklySubmissionResponseSlice maps a list of weekly submissions.
func NewWeeklySubmissionResponseSlice(items []models.WeeklySubmission) []WeeklySubmissionResponse {
	responses := make([]WeeklySubmissionResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewWeeklySubmissionResponse(item))
	}
	return responses
}

// NewProjectSubmissionResponse maps a stored final submission.
func NewProjectSubmissionResponse(s models.ProjectSubmission) ProjectSubmissionResponse {
	return ProjectSubmissionResponse{
		ID:        s.ID,
		StudentID: s.StudentID,
		Links:     s.Links,
		File:      newSubmissionFileResponse(s.File),
		Comments:  s.Comments,
		UpdatedAt: s.UpdatedAt,
	}
}
