package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"smarthire/internal/services"
)

type ReportHandler struct {
	report services.ReportService
}

func NewReportHandler(report services.ReportService) *ReportHandler {
	return &ReportHandler{
		report: report,
	}
}

// HandleDownload handles GET /reports/interviews
func (h *ReportHandler) HandleDownload(c *fiber.Ctx) error {
	data, err := h.report.GenerateReport()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate report",
		})
	}

	filename := fmt.Sprintf("interview_report_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	return c.Send(data)
}
