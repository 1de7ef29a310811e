package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ictak-go-api/internal/dto"
	"github.com/noah-isme/ictak-go-api/internal/service"
	"github.com/noah-isme/ictak-go-api/internal/utils"
)

// DiscussionHandler exposes the batch question board.
type DiscussionHandler struct {
	service service.DiscussionService
	logger  zerolog.Logger
}

// NewDiscussionHandler constructs a discussion handler.
func NewDiscussionHandler(service service.DiscussionService, logger zerolog.Logger) *DiscussionHandler {
	return &DiscussionHandler{
		service: service,
		logger:  logger.With().Str("component", "discussion_handler").Logger(),
	}
}

// Register wires discussion routes.
func (h *DiscussionHandler) Register(router fiber.Router) {
	router.Get("/:studentId", h.get)
	router.Post("/:studentId/questions", h.addQuestion)
	router.Post("/:studentId/questions/:questionId/answers", h.addAnswer)
	router.Put("/:studentId/questions/:questionId", h.editQuestion)
	router.Delete("/:studentId/questions/:questionId", h.deleteQuestion)
}

func (h *DiscussionHandler) get(c *fiber.Ctx) error {
	discussion, err := h.service.Get(c.UserContext(), param(c, "studentId"))
	if err != nil {
		return err
	}
	return utils.SendSuccess(c, "Discussion forum retrieved successfully", discussion)
}

func (h *DiscussionHandler) addQuestion(c *fiber.Ctx) error {
	var payload dto.QuestionRequest
	if ok, err := parseBody(c, &payload); !ok {
		return err
	}

	discussion, err := h.service.AddQuestion(c.UserContext(), param(c, "studentId"), payload)
	if err != nil {
		return err
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "Question added successfully", discussion)
}

func (h *DiscussionHandler) addAnswer(c *fiber.Ctx) error {
	var payload dto.AnswerRequest
	if ok, err := parseBody(c, &payload); !ok {
		return err
	}

	discussion, err := h.service.AddAnswer(c.UserContext(), param(c, "studentId"), param(c, "questionId"), payload)
	if err != nil {
		return err
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "Answer added successfully", discussion)
}

func (h *DiscussionHandler) editQuestion(c *fiber.Ctx) error {
	var payload dto.EditQuestionRequest
	if ok, err := parseBody(c, &payload); !ok {
		return err
	}

	discussion, err := h.service.EditQuestion(c.UserContext(), param(c, "studentId"), param(c, "questionId"), payload)
	if err != nil {
		return err
	}
	return utils.SendSuccess(c, "Question updated successfully", discussion)
}

func (h *DiscussionHandler) deleteQuestion(c *fiber.Ctx) error {
	discussion, err := h.service.DeleteQuestion(c.UserContext(), param(c, "studentId"), param(c, "questionId"))
	if err != nil {
		return err
	}
	requestLogger(h.logger, c).Info().Str("question_id", param(c, "questionId")).Msg("question deleted")
	return utils.SendSuccess(c, "Question deleted successfully", discussion)
}
