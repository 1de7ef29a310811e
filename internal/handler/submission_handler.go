package handler

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ictak-go-api/internal/dto"
	"github.com/noah-isme/ictak-go-api/internal/service"
	"github.com/noah-isme/ictak-go-api/internal/utils"
)

const submissionFileField = "files"

// SubmissionHandler manages weekly and final project submissions.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Post("/weekly/:studentId", h.uploadWeekly)
	router.Get("/weekly/:studentId", h.listWeekly)
	router.Post("/project/:studentId", h.uploadProject)
	router.Get("/project/:studentId", h.getProject)
}

func (h *SubmissionHandler) uploadWeekly(c *fiber.Ctx) error {
	var payload dto.WeeklySubmissionRequest
	if ok, err := parseBody(c, &payload); !ok {
		return err
	}

	submission, err := h.service.UploadWeekly(c.UserContext(), param(c, "studentId"), payload, attachedFile(c))
	if err != nil {
		return err
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "Weekly submission uploaded successfully!", submission)
}

func (h *SubmissionHandler) listWeekly(c *fiber.Ctx) error {
	submissions, err := h.service.ListWeekly(c.UserContext(), param(c, "studentId"))
	if err != nil {
		return err
	}
	return utils.SendSuccess(c, "Weekly submissions retrieved successfully", submissions)
}

func (h *SubmissionHandler) uploadProject(c *fiber.Ctx) error {
	var payload dto.ProjectSubmissionRequest
	if ok, err := parseBody(c, &payload); !ok {
		return err
	}

	submission, err := h.service.UploadProject(c.UserContext(), param(c, "studentId"), payload, attachedFile(c))
	if err != nil {
		return err
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "Project submission uploaded successfully!", submission)
}

func (h *SubmissionHandler) getProject(c *fiber.Ctx) error {
	submission, err := h.service.GetProject(c.UserContext(), param(c, "studentId"))
	if err != nil {
		return err
	}
	return utils.SendSuccess(c, "Project submission retrieved successfully", submission)
}

// attachedFile returns the optional uploaded file. Requests that are not multipart carry none.
func attachedFile(c *fiber.Ctx) *multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	files := form.File[submissionFileField]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
