package portalclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/noah-isme/ictak-go-api/internal/dto"
	"github.com/noah-isme/ictak-go-api/internal/handler"
	"github.com/noah-isme/ictak-go-api/internal/models"
)

// File is an attachment sent with a submission.
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}

const submissionFileField = "files"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func segment(value string) string {
	return url.PathEscape(value)
}

// Register creates an account and stores the returned session token.
func (c *Client) Register(ctx context.Context, payload dto.RegisterRequest) (dto.RegisterResponse, error) {
	var out dto.RegisterResponse
	req, err := jsonRequest(http.MethodPost, "/auth/register", payload)
	if err != nil {
		return out, err
	}
	resp, err := c.call(ctx, req, &out)
	if err != nil {
		return out, err
	}
	return out, c.storeToken(resp.env.Token)
}

// Login authenticates and stores the returned session token.
func (c *Client) Login(ctx context.Context, email, password string) (dto.UserResponse, error) {
	var out dto.UserResponse
	req, err := jsonRequest(http.MethodPost, "/auth/login", dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return out, err
	}
	resp, err := c.call(ctx, req, &out)
	if err != nil {
		return out, err
	}
	return out, c.storeToken(resp.env.Token)
}

func (c *Client) storeToken(token string) error {
	if token == "" {
		return nil
	}
	if err := c.tokens.SetToken(token); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}
	return nil
}

// VerifyToken asks the server whether the stored token is still accepted.
func (c *Client) VerifyToken(ctx context.Context) (dto.UserResponse, error) {
	var out dto.UserResponse
	_, err := c.call(ctx, request{method: http.MethodGet, path: "/auth/verify-token"}, &out)
	return out, err
}

// StudentCourse returns the course record of a student.
func (c *Client) StudentCourse(ctx context.Context, studentID string) (models.CourseRecord, error) {
	var out models.CourseRecord
	_, err := c.call(ctx, request{method: http.MethodGet, path: "/students/course/" + segment(studentID)}, &out)
	return out, err
}

// StudentProjects lists the project assignments of a student.
func (c *Client) StudentProjects(ctx context.Context, studentID string) ([]models.ProjectAssignment, error) {
	var out []models.ProjectAssignment
	_, err := c.call(ctx, request{method: http.MethodGet, path: "/students/projects/" + segment(studentID)}, &out)
	return out, err
}

// SelectProject assigns a project. created is false when the student already had one,
// in which case the existing assignment is returned.
func (c *Client) SelectProject(ctx context.Context, payload dto.SelectProjectRequest) (assignment models.ProjectAssignment, created bool, err error) {
	req, err := jsonRequest(http.MethodPost, "/students/select-project", payload)
	if err != nil {
		return assignment, false, err
	}
	resp, err := c.call(ctx, req, &assignment)
	return assignment, resp.status == http.StatusCreated, err
}

// UpdateProject replaces the project assigned to a student.
func (c *Client) UpdateProject(ctx context.Context, studentID string, payload dto.UpdateProjectRequest) (models.ProjectAssignment, error) {
	var out models.ProjectAssignment
	req, err := jsonRequest(http.MethodPut, "/students/update-project/"+segment(studentID), payload)
	if err != nil {
		return out, err
	}
	_, err = c.call(ctx, req, &out)
	return out, err
}

// AvailableProjects lists the catalog projects offered for a course.
func (c *Client) AvailableProjects(ctx context.Context, course string) ([]models.Project, error) {
	var out []models.Project
	_, err := c.call(ctx, request{method: http.MethodGet, path: "/projects/available/" + segment(course)}, &out)
	return out, err
}

// ProjectDetails returns one catalog project.
func (c *Client) ProjectDetails(ctx context.Context, projectID string) (models.Project, error) {
	var out models.Project
	_, err := c.call(ctx, request{method: http.MethodGet, path: "/projects/details/" + segment(projectID)}, &out)
	return out, err
}

// ProjectReferences returns the reference material of a project.
func (c *Client) ProjectReferences(ctx context.Context, projectID string) (models.ProjectReference, error) {
	var out models.ProjectReference
	_, err := c.call(ctx, request{method: http.MethodGet, path: "/projects/references/" + segment(projectID)}, &out)
	return out, err
}

// UploadWeekly submits the work of one week. file may be nil.
func (c *Client) UploadWeekly(ctx context.Context, studentID string, payload dto.WeeklySubmissionRequest, file *File) (dto.WeeklySubmissionResponse, error) {
	var out dto.WeeklySubmissionResponse
	req, err := multipartRequest("/submissions/weekly/"+segment(studentID), map[string]string{
		"selectedWeek": payload.SelectedWeek,
		"links":        payload.Links,
		"comments":     payload.Comments,
	}, file)
	if err != nil {
		return out, err
	}
	_, err = c.call(ctx, req, &out)
	return out, err
}

// WeeklySubmissions lists the weekly submissions of a student.
func (c *Client) WeeklySubmissions(ctx context.Context, studentID string) ([]dto.WeeklySubmissionResponse, error) {
	var out []dto.WeeklySubmissionResponse
	_, err := c.call(ctx, request{method: http.MethodGet, path: "/submissions/weekly/" + segment(studentID)}, &out)
	return out, err
}

// UploadProject submits the final project. file may be nil.
func (c *Client) UploadProject(ctx context.Context, studentID string, payload dto.ProjectSubmissionRequest, file *File) (dto.ProjectSubmissionResponse, error) {
	var out dto.ProjectSubmissionResponse
	req, err := multipartRequest("/submissions/project/"+segment(studentID), map[string]string{
		"links":    payload.Links,
		"comments": payload.Comments,
	}, file)
	if err != nil {
		return out, err
	}
	_, err = c.call(ctx, req, &out)
	return out, err
}

// ProjectSubmission returns the final project submission of a student.
func (c *Client) ProjectSubmission(ctx context.Context, studentID string) (dto.ProjectSubmissionResponse, error) {
	var out dto.ProjectSubmissionResponse
	_, err := c.call(ctx, request{method: http.MethodGet, path: "/submissions/project/" + segment(studentID)}, &out)
	return out, err
}

// Discussion returns the forum of the student's batch.
func (c *Client) Discussion(ctx context.Context, studentID string) (models.Discussion, error) {
	var out models.Discussion
	_, err := c.call(ctx, request{method: http.MethodGet, path: "/discussions/" + segment(studentID)}, &out)
	return out, err
}

// AddQuestion posts a question to the batch forum.
func (c *Client) AddQuestion(ctx context.Context, studentID, question string) (models.Discussion, error) {
	return c.discussionWrite(ctx, http.MethodPost, "/discussions/"+segment(studentID)+"/questions", dto.QuestionRequest{Question: question})
}

// AddAnswer answers a question in the batch forum.
func (c *Client) AddAnswer(ctx context.Context, studentID, questionID, answer string) (models.Discussion, error) {
	path := "/discussions/" + segment(studentID) + "/questions/" + segment(questionID) + "/answers"
	return c.discussionWrite(ctx, http.MethodPost, path, dto.AnswerRequest{Answer: answer})
}

// EditQuestion replaces the text of a question.
func (c *Client) EditQuestion(ctx context.Context, studentID, questionID, text string) (models.Discussion, error) {
	path := "/discussions/" + segment(studentID) + "/questions/" + segment(questionID)
	return c.discussionWrite(ctx, http.MethodPut, path, dto.EditQuestionRequest{QuestionText: text})
}

// DeleteQuestion removes a question and its answers.
func (c *Client) DeleteQuestion(ctx context.Context, studentID, questionID string) (models.Discussion, error) {
	var out models.Discussion
	path := "/discussions/" + segment(studentID) + "/questions/" + segment(questionID)
	_, err := c.call(ctx, request{method: http.MethodDelete, path: path}, &out)
	return out, err
}

func (c *Client) discussionWrite(ctx context.Context, method, path string, payload interface{}) (models.Discussion, error) {
	var out models.Discussion
	req, err := jsonRequest(method, path, payload)
	if err != nil {
		return out, err
	}
	_, err = c.call(ctx, req, &out)
	return out, err
}

// Health returns the server health report.
func (c *Client) Health(ctx context.Context) (handler.HealthResponse, error) {
	var out handler.HealthResponse
	_, err := c.call(ctx, request{method: http.MethodGet, path: "/health", whole: true}, &out)
	return out, err
}

func multipartRequest(path string, fields map[string]string, file *File) (request, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return request{}, fmt.Errorf("write field %s: %w", name, err)
		}
	}

	if file != nil && file.Content != nil {
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, submissionFileField, quoteEscaper.Replace(file.Name)))
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return request{}, fmt.Errorf("create file part: %w", err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return request{}, fmt.Errorf("copy %s: %w", file.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return request{}, fmt.Errorf("close multipart body: %w", err)
	}
	return request{
		method:      http.MethodPost,
		path:        path,
		body:        buf.Bytes(),
		contentType: writer.FormDataContentType(),
		upload:      true,
	}, nil
}
