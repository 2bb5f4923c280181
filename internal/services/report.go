package services

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"smarthire/internal/models"
	"smarthire/internal/repositories"
)

// ReportService builds the HR pipeline report: one workbook with a summary
// sheet and a row per interview with its aggregate tone scores.
type ReportService interface {
	GenerateReport() ([]byte, error)
}

type reportService struct {
	interviewRepo repositories.InterviewRepository
	candidateRepo repositories.CandidateRepository
}

func NewReportService(interviewRepo repositories.InterviewRepository, candidateRepo repositories.CandidateRepository) ReportService {
	return &reportService{
		interviewRepo: interviewRepo,
		candidateRepo: candidateRepo,
	}
}

func (s *reportService) GenerateReport() ([]byte, error) {
	interviews, err := s.interviewRepo.ListForReport()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "Summary"
	interviewSheet := "Interviews"

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(interviewSheet); err != nil {
		return nil, fmt.Errorf("failed to create interviews sheet: %w", err)
	}

	if err := s.writeSummarySheet(f, summarySheet, interviews); err != nil {
		return nil, fmt.Errorf("failed to build summary sheet: %w", err)
	}
	if err := s.writeInterviewSheet(f, interviewSheet, interviews); err != nil {
		return nil, fmt.Errorf("failed to build interviews sheet: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	log.Printf("✅ Report generated (%d interviews)\n", len(interviews))
	return buf.Bytes(), nil
}

func (s *reportService) writeSummarySheet(f *excelize.File, sheetName string, interviews []models.Interview) error {
	f.SetColWidth(sheetName, "A", "A", 28)
	f.SetColWidth(sheetName, "B", "B", 40)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	row := 1
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Interview Pipeline Report")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), headerStyle)
	f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	row += 2

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Generated:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), time.Now().Format("2006-01-02 15:04:05"))
	row++

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Total Interviews:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), len(interviews))
	row += 2

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "By Status:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), headerStyle)
	f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	row++

	counts := map[models.InterviewStatus]int{}
	for i := range interviews {
		counts[interviews[i].Status]++
	}
	statuses := []models.InterviewStatus{
		models.InterviewPending,
		models.InterviewInProgress,
		models.InterviewCompleted,
		models.InterviewEvaluated,
		models.InterviewAccepted,
		models.InterviewRejected,
	}
	for _, status := range statuses {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), string(status)+":")
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), counts[status])
		row++
	}
	row++

	scored := 0
	var confidenceSum float64
	for i := range interviews {
		if agg := interviews[i].Aggregates(); agg != nil {
			scored++
			confidenceSum += agg.Confidence
		}
	}
	if scored > 0 {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Average Confidence:")
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("%.2f", confidenceSum/float64(scored)))
	}

	return nil
}

func (s *reportService) writeInterviewSheet(f *excelize.File, sheetName string, interviews []models.Interview) error {
	widths := []struct {
		col   string
		width float64
	}{
		{"A", 25}, {"B", 30}, {"C", 25}, {"D", 14}, {"E", 10},
		{"F", 12}, {"G", 12}, {"H", 12}, {"I", 12}, {"J", 18}, {"K", 40}, {"L", 20},
	}
	for _, w := range widths {
		f.SetColWidth(sheetName, w.col, w.col, w.width)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	headers := []string{
		"Candidate", "Email", "Position", "Status", "Questions",
		"Analytical", "Confidence", "Joy", "Fear", "Personality", "HR Notes", "Evaluated At",
	}
	for col, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i := range interviews {
		interview := &interviews[i]
		row := i + 2

		positionTitle := ""
		if interview.Position != nil {
			positionTitle = interview.Position.Title
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), interview.Candidate.FullName)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), interview.Candidate.Email)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), positionTitle)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), string(interview.Status))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), interview.QuestionCount)

		if agg := interview.Aggregates(); agg != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), fmt.Sprintf("%.2f", agg.Analytical))
			f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), fmt.Sprintf("%.2f", agg.Confidence))
			f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), fmt.Sprintf("%.2f", agg.Joy))
			f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), fmt.Sprintf("%.2f", agg.Fear))
		}

		f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), s.personalityFor(interview.CandidateID))
		f.SetCellValue(sheetName, fmt.Sprintf("K%d", row), interview.HRNotes)
		if interview.EvaluatedAt != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("L%d", row), interview.EvaluatedAt.Format("2006-01-02 15:04:05"))
		}
	}

	if len(interviews) > 0 {
		f.AutoFilter(sheetName, fmt.Sprintf("A1:L%d", len(interviews)+1), []excelize.AutoFilterOptions{})
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return nil
}

func (s *reportService) personalityFor(candidateID uuid.UUID) string {
	profile, err := s.candidateRepo.FindProfile(candidateID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			log.Printf("⚠️  Failed to load profile for candidate %s: %v\n", candidateID, err)
		}
		return ""
	}
	return profile.PredictedPersonality
}
