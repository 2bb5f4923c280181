package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"smarthire/internal/models"
	"smarthire/internal/repositories"
	"smarthire/internal/services"
)

type ResponseHandler struct {
	submission  services.SubmissionService
	maxFileSize int64
}

func NewResponseHandler(submission services.SubmissionService, maxFileSize int64) *ResponseHandler {
	return &ResponseHandler{
		submission:  submission,
		maxFileSize: maxFileSize,
	}
}

// HandleSubmit handles POST /interviews/:id/responses. The multipart form
// carries the recorded answer under "video" and its slot under
// "question_number". Processing is asynchronous; the endpoint returns 202
// with the response id to poll.
func (h *ResponseHandler) HandleSubmit(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	questionRaw := c.FormValue("question_number")
	if questionRaw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "question_number is required",
		})
	}
	questionNumber, err := strconv.Atoi(questionRaw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid question_number format",
		})
	}

	file, err := c.FormFile("video")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "video file is required",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Video file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	response, err := h.submission.SubmitResponse(c.Context(), interviewID, questionNumber, file)
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
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(models.SubmitResponseResult{
		ID:             response.ID,
		InterviewID:    response.InterviewID,
		QuestionNumber: response.QuestionNumber,
		Status:         "queued",
	})
}

// HandleRetry handles POST /responses/:id/retry, the operator re-trigger for
// a response stuck after exhausting its retries.
func (h *ResponseHandler) HandleRetry(c *fiber.Ctx) error {
	responseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid response ID format",
		})
	}

	if err := h.submission.RetryResponse(c.Context(), responseID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Response not found",
			})
		}
		if errors.Is(err, repositories.ErrInvalidState) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to requeue response",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"id":     responseID.String(),
		"status": "queued",
	})
}
