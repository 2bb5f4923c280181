package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"smarthire/internal/models"
	"smarthire/internal/repositories"
	"smarthire/internal/services"
)

type DecisionHandler struct {
	decision services.DecisionService
}

func NewDecisionHandler(decision services.DecisionService) *DecisionHandler {
	return &DecisionHandler{
		decision: decision,
	}
}

// HandleEvaluate handles POST /interviews/:id/evaluation
func (h *DecisionHandler) HandleEvaluate(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	var req models.EvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.HRActorID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "hr_actor_id is required",
		})
	}
	hrID, err := uuid.Parse(req.HRActorID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid hr_actor_id format",
		})
	}

	interview, err := h.decision.SaveEvaluation(c.Context(), interviewID, hrID, req.Notes)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Interview not found",
			})
		}
		if errors.Is(err, repositories.ErrInvalidState) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save evaluation",
		})
	}

	return c.JSON(interview)
}

// HandleDecide handles POST /interviews/:id/decision. The decision email is
// sent before the transition commits; a delivery failure returns 502 and the
// interview stays decidable.
func (h *DecisionHandler) HandleDecide(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	var req models.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.HRActorID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "hr_actor_id is required",
		})
	}
	hrID, err := uuid.Parse(req.HRActorID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid hr_actor_id format",
		})
	}

	outcome := models.InterviewStatus(req.Outcome)
	if !outcome.Decision() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "outcome must be 'accepted' or 'rejected'",
		})
	}

	interview, err := h.decision.Decide(c.Context(), interviewID, hrID, outcome)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Interview not found",
			})
		}
		if errors.Is(err, services.ErrNotificationFailed) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Failed to send the decision email. The decision was not recorded, please retry.",
			})
		}
		if errors.Is(err, repositories.ErrDecisionConflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A decision has already been recorded for this interview",
			})
		}
		if errors.Is(err, repositories.ErrInvalidState) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record decision",
		})
	}

	return c.JSON(models.DecisionResponse{
		ID:                interview.ID,
		Status:            string(interview.Status),
		DecisionEmailSent: interview.DecisionEmailSent,
	})
}
