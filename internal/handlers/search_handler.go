package handlers

import (
	"github.com/gofiber/fiber/v2"

	"smarthire/internal/models"
	"smarthire/internal/services"
)

type SearchHandler struct {
	index services.TranscriptIndex
}

// NewSearchHandler builds the transcript search endpoint. index is nil when
// no vector store is configured; the endpoint then reports the feature as
// unavailable instead of being left off the router.
func NewSearchHandler(index services.TranscriptIndex) *SearchHandler {
	return &SearchHandler{
		index: index,
	}
}

// HandleSearch handles GET /search/transcripts
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	if h.index == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Transcript search is not configured",
		})
	}

	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q is required",
		})
	}

	limit := c.QueryInt("limit", 10)
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}

	results, err := h.index.Search(c.Context(), query, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Search failed",
		})
	}

	hits := make([]models.TranscriptHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, models.TranscriptHit{
			ResponseID:     r.ResponseID,
			InterviewID:    r.InterviewID,
			QuestionNumber: r.QuestionNumber,
			Score:          r.Score,
			Text:           r.Text,
		})
	}

	return c.JSON(fiber.Map{
		"query":   query,
		"results": hits,
	})
}
