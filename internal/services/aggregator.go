package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"smarthire/internal/models"
	"smarthire/internal/repositories"
)

// InterviewAggregator computes the interview-level tone means once every
// response has settled, renders the tone chart and moves the interview to
// completed. Aggregate is a pure function of the settled responses, so a
// retried run recomputes the same result.
type InterviewAggregator interface {
	Aggregate(ctx context.Context, interviewID uuid.UUID) error
}

type interviewAggregator struct {
	interviewRepo repositories.InterviewRepository
	responseRepo  repositories.ResponseRepository
	chartRenderer ChartRenderer
	storage       StorageService
	index         TranscriptIndex
}

// NewInterviewAggregator builds the aggregation engine. index may be nil when
// transcript search is not configured; indexing is best-effort either way.
func NewInterviewAggregator(
	interviewRepo repositories.InterviewRepository,
	responseRepo repositories.ResponseRepository,
	chartRenderer ChartRenderer,
	storage StorageService,
	index TranscriptIndex,
) InterviewAggregator {
	return &interviewAggregator{
		interviewRepo: interviewRepo,
		responseRepo:  responseRepo,
		chartRenderer: chartRenderer,
		storage:       storage,
		index:         index,
	}
}

// Aggregate implements InterviewAggregator. Nothing is written until the
// final update, so any failure before it leaves the interview untouched and
// safe to re-run.
func (a *interviewAggregator) Aggregate(ctx context.Context, interviewID uuid.UUID) error {
	interview, err := a.interviewRepo.FindByID(interviewID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("⚠️  Interview %s no longer exists, dropping aggregation\n", interviewID)
			return nil
		}
		return fmt.Errorf("failed to load interview: %w", err)
	}

	if interview.Status != models.InterviewInProgress {
		log.Printf("✅ Interview %s already aggregated (status %s), skipping\n", interviewID, interview.Status)
		return nil
	}

	responses, err := a.responseRepo.ListByInterview(interviewID)
	if err != nil {
		return fmt.Errorf("failed to list responses: %w", err)
	}
	if len(responses) == 0 {
		return fmt.Errorf("interview %s has no responses to aggregate", interviewID)
	}
	for i := range responses {
		if !responses[i].IsProcessed {
			return fmt.Errorf("response for question %d has not settled yet", responses[i].QuestionNumber)
		}
	}

	scores := meanScores(responses)

	chartBytes, err := a.chartRenderer.RenderToneChart(responses)
	if err != nil {
		return fmt.Errorf("failed to render tone chart: %w", err)
	}

	chartName := fmt.Sprintf("tone_%s.png", interview.ID)
	chartRef, err := a.storage.SaveBytes(chartBytes, MediaKindAnalysis, chartName)
	if err != nil {
		return fmt.Errorf("failed to store tone chart: %w", err)
	}

	if err := a.interviewRepo.UpdateAggregates(interview.ID, scores, chartRef); err != nil {
		if errors.Is(err, repositories.ErrInvalidState) {
			log.Printf("⚠️  Interview %s moved on before aggregates were written, skipping\n", interviewID)
			return nil
		}
		return err
	}

	a.indexTranscripts(ctx, responses)

	log.Printf("✅ Interview %s completed: analytical=%.2f confidence=%.2f joy=%.2f fear=%.2f\n",
		interview.ID, scores.Analytical, scores.Confidence, scores.Joy, scores.Fear)
	return nil
}

// meanScores averages the four aggregate dimensions across all responses.
// Responses settled with a processing error carry no scores and contribute
// zero to each mean.
func meanScores(responses []models.VideoResponse) models.AggregateScores {
	var sum models.AggregateScores
	for i := range responses {
		tones := responses[i].Tones()
		sum.Analytical += tones.Analytical
		sum.Confidence += tones.Confident
		sum.Joy += tones.Joy
		sum.Fear += tones.Fear
	}

	n := float64(len(responses))
	return models.AggregateScores{
		Analytical: round2(sum.Analytical / n),
		Confidence: round2(sum.Confidence / n),
		Joy:        round2(sum.Joy / n),
		Fear:       round2(sum.Fear / n),
	}
}

// indexTranscripts pushes the settled transcripts into the search index.
// Search is an auxiliary feature, so failures are logged and never fail the
// aggregation.
func (a *interviewAggregator) indexTranscripts(ctx context.Context, responses []models.VideoResponse) {
	if a.index == nil {
		return
	}

	for i := range responses {
		if responses[i].TranscribedText == "" {
			continue
		}
		if err := a.index.IndexResponse(ctx, &responses[i]); err != nil {
			log.Printf("⚠️  Failed to index transcript for response %s: %v\n", responses[i].ID, err)
		}
	}
}
