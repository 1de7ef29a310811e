package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/ictak-go-api/internal/service"
	"github.com/noah-isme/ictak-go-api/internal/utils"
)

// ProjectHandler serves the read-only project catalog.
type ProjectHandler struct {
	service service.ProjectService
}

// NewProjectHandler constructs a catalog handler.
func NewProjectHandler(service service.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// Register attaches the routes to the provided router group.
func (h *ProjectHandler) Register(router fiber.Router) {
	router.Get("/available/:course", h.available)
	router.Get("/details/:projectId", h.details)
	router.Get("/references/:projectId", h.references)
}

func (h *ProjectHandler) available(c *fiber.Ctx) error {
	projects, err := h.service.ListAvailable(c.UserContext(), param(c, "course"))
	if err != nil {
		return err
	}
	return utils.SendSuccess(c, "Available projects retrieved successfully", projects)
}

func (h *ProjectHandler) details(c *fiber.Ctx) error {
	project, err := h.service.GetDetails(c.UserContext(), param(c, "projectId"))
	if err != nil {
		return err
	}
	return utils.SendSuccess(c, "Project details retrieved successfully", project)
}

func (h *ProjectHandler) references(c *fiber.Ctx) error {
	refs, err := h.service.GetReferences(c.UserContext(), param(c, "projectId"))
	if err != nil {
		return err
	}
	return utils.SendSuccess(c, "Project references retrieved successfully", refs)
}
