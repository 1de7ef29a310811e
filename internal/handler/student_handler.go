package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ictak-go-api/internal/dto"
	"github.com/noah-isme/ictak-go-api/internal/service"
	"github.com/noah-isme/ictak-go-api/internal/utils"
)

// StudentHandler exposes course records and project assignments.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("/course/:studentId", h.course)
	router.Get("/projects/:studentId", h.projects)
	router.Post("/select-project", h.selectProject)
	router.Put("/update-project/:studentId", h.updateProject)
}

func (h *StudentHandler) course(c *fiber.Ctx) error {
	record, err := h.service.GetCourse(c.UserContext(), param(c, "studentId"))
	if err != nil {
		return err
	}
	return utils.SendSuccess(c, "Student course information retrieved successfully", record)
}

func (h *StudentHandler) projects(c *fiber.Ctx) error {
	assignments, err := h.service.ListProjects(c.UserContext(), param(c, "studentId"))
	if err != nil {
		return err
	}
	return utils.SendSuccess(c, "Student projects retrieved successfully", assignments)
}

func (h *StudentHandler) selectProject(c *fiber.Ctx) error {
	var payload dto.SelectProjectRequest
	if ok, err := parseBody(c, &payload); !ok {
		return err
	}

	assignment, created, err := h.service.SelectProject(c.UserContext(), payload)
	if err != nil {
		return err
	}
	if !created {
		return utils.SendSuccess(c, "Student already has a project assigned", assignment)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "Project assigned to student successfully!", assignment)
}

func (h *StudentHandler) updateProject(c *fiber.Ctx) error {
	var payload dto.UpdateProjectRequest
	if ok, err := parseBody(c, &payload); !ok {
		return err
	}

	assignment, err := h.service.UpdateProject(c.UserContext(), param(c, "studentId"), payload)
	if err != nil {
		return err
	}
	return utils.SendSuccess(c, "Student project updated successfully!", assignment)
}
