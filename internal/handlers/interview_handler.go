package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"smarthire/internal/models"
	"smarthire/internal/repositories"
	"smarthire/internal/services"
)

type InterviewHandler struct {
	interviewRepo repositories.InterviewRepository
	responseRepo  repositories.ResponseRepository
	submission    services.SubmissionService
	storage       services.StorageService
}

func NewInterviewHandler(
	interviewRepo repositories.InterviewRepository,
	responseRepo repositories.ResponseRepository,
	submission services.SubmissionService,
	storage services.StorageService,
) *InterviewHandler {
	return &InterviewHandler{
		interviewRepo: interviewRepo,
		responseRepo:  responseRepo,
		submission:    submission,
		storage:       storage,
	}
}

// HandleStart handles POST /interviews
func (h *InterviewHandler) HandleStart(c *fiber.Ctx) error {
	var req models.StartInterviewRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.CandidateID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "candidate_id is required",
		})
	}

	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate_id format",
		})
	}

	var positionID *uuid.UUID
	if req.PositionID != "" {
		pid, err := uuid.Parse(req.PositionID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid position_id format",
			})
		}
		positionID = &pid
	}

	interview, questions, err := h.submission.StartInterview(c.Context(), candidateID, positionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	questionData := make([]models.QuestionData, 0, len(questions))
	for i := range questions {
		questionData = append(questionData, models.QuestionData{
			ID:    questions[i].ID,
			Order: questions[i].Order,
			Text:  questions[i].QuestionText,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.StartInterviewResponse{
		ID:            interview.ID,
		Status:        string(interview.Status),
		QuestionCount: interview.QuestionCount,
		Questions:     questionData,
	})
}

// HandleGetSummary handles GET /interviews/:id
func (h *InterviewHandler) HandleGetSummary(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	interview, err := h.interviewRepo.FindByID(interviewID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Interview not found",
		})
	}

	responses, err := h.responseRepo.ListByInterview(interviewID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load responses",
		})
	}

	summaries := make([]models.ResponseSummary, 0, len(responses))
	for i := range responses {
		r := &responses[i]
		summary := models.ResponseSummary{
			QuestionNumber:  r.QuestionNumber,
			IsProcessed:     r.IsProcessed,
			ProcessingError: r.ProcessingError,
			TranscribedText: r.TranscribedText,
		}
		if r.HasScores() {
			tones := r.Tones()
			summary.Tones = &tones
		}
		summaries = append(summaries, summary)
	}

	return c.JSON(models.InterviewSummaryResponse{
		ID:                interview.ID,
		CandidateID:       interview.CandidateID,
		PositionID:        interview.PositionID,
		Status:            string(interview.Status),
		QuestionCount:     interview.QuestionCount,
		Scores:            interview.Aggregates(),
		ToneChartRef:      interview.ToneChartRef,
		HRNotes:           interview.HRNotes,
		EvaluatedBy:       interview.EvaluatedBy,
		EvaluatedAt:       interview.EvaluatedAt,
		DecisionEmailSent: interview.DecisionEmailSent,
		Responses:         summaries,
	})
}

// HandleGetChart handles GET /interviews/:id/chart
func (h *InterviewHandler) HandleGetChart(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	interview, err := h.interviewRepo.FindByID(interviewID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Interview not found",
		})
	}

	if interview.ToneChartRef == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Tone chart not available yet",
		})
	}

	return c.SendFile(h.storage.Path(*interview.ToneChartRef))
}
