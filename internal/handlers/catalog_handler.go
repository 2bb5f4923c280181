package handlers

import (
	"github.com/gofiber/fiber/v2"

	"smarthire/internal/models"
	"smarthire/internal/repositories"
)

// CatalogHandler serves the read-mostly interview catalog: the active
// question bank and the open job positions.
type CatalogHandler struct {
	questionRepo repositories.QuestionRepository
	positionRepo repositories.PositionRepository
}

func NewCatalogHandler(questionRepo repositories.QuestionRepository, positionRepo repositories.PositionRepository) *CatalogHandler {
	return &CatalogHandler{
		questionRepo: questionRepo,
		positionRepo: positionRepo,
	}
}

// HandleListQuestions handles GET /questions
func (h *CatalogHandler) HandleListQuestions(c *fiber.Ctx) error {
	questions, err := h.questionRepo.FindActive()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load questions",
		})
	}

	data := make([]models.QuestionData, 0, len(questions))
	for i := range questions {
		data = append(data, models.QuestionData{
			ID:    questions[i].ID,
			Order: questions[i].Order,
			Text:  questions[i].QuestionText,
		})
	}

	return c.JSON(fiber.Map{
		"questions": data,
	})
}

// HandleCreatePosition handles POST /positions
func (h *CatalogHandler) HandleCreatePosition(c *fiber.Ctx) error {
	var req models.CreatePositionRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}

	position := &models.JobPosition{
		Title:        req.Title,
		Department:   req.Department,
		Description:  req.Description,
		Requirements: req.Requirements,
		IsActive:     true,
	}

	if err := h.positionRepo.Create(position); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create position",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(position)
}

// HandleListPositions handles GET /positions
func (h *CatalogHandler) HandleListPositions(c *fiber.Ctx) error {
	positions, err := h.positionRepo.FindActive()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load positions",
		})
	}

	return c.JSON(fiber.Map{
		"positions": positions,
	})
}
