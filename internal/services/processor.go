package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"smarthire/internal/models"
	"smarthire/internal/repositories"
)

// ResponseProcessor drives one video response through transcription, tone
// scoring and persistence. Process is idempotent: re-running it on a settled
// response only re-emits the completion signal.
type ResponseProcessor interface {
	Process(ctx context.Context, responseID uuid.UUID) error
}

type responseProcessor struct {
	responseRepo repositories.ResponseRepository
	transcriber  Transcriber
	toneAnalyzer ToneAnalyzer
	completion   CompletionDetector
}

func NewResponseProcessor(
	responseRepo repositories.ResponseRepository,
	transcriber Transcriber,
	toneAnalyzer ToneAnalyzer,
	completion CompletionDetector,
) ResponseProcessor {
	return &responseProcessor{
		responseRepo: responseRepo,
		transcriber:  transcriber,
		toneAnalyzer: toneAnalyzer,
		completion:   completion,
	}
}

// Process implements ResponseProcessor. Transient provider failures are
// returned to the caller's retry machinery with the response left
// unprocessed; permanent content failures settle the response with an error
// and no scores so the interview can still complete without it.
func (p *responseProcessor) Process(ctx context.Context, responseID uuid.UUID) error {
	response, err := p.responseRepo.FindByID(responseID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("⚠️  Response %s no longer exists, skipping\n", responseID)
			return nil
		}
		return fmt.Errorf("failed to load response: %w", err)
	}

	if response.IsProcessed {
		// Already settled; re-signal in case the previous run died between
		// persisting and signalling.
		log.Printf("✅ Response %s already processed\n", response.ID)
		return p.completion.OnResponseSettled(ctx, response.InterviewID)
	}

	log.Printf("🔄 Processing response %s (interview %s, question %d)\n",
		response.ID, response.InterviewID, response.QuestionNumber)

	text, tones, err := p.analyze(ctx, response)
	if err != nil {
		if IsPermanent(err) {
			log.Printf("❌ Response %s failed permanently: %v\n", response.ID, err)
			if merr := p.responseRepo.MarkProcessedWithError(response.ID, err.Error()); merr != nil {
				return fmt.Errorf("failed to record permanent failure: %w", merr)
			}
			return p.completion.OnResponseSettled(ctx, response.InterviewID)
		}

		if serr := p.responseRepo.SetError(response.ID, err.Error()); serr != nil {
			log.Printf("⚠️  Failed to record error on response %s: %v\n", response.ID, serr)
		}
		return err
	}

	if err := p.responseRepo.MarkProcessed(response.ID, text, tones); err != nil {
		return fmt.Errorf("failed to persist analysis: %w", err)
	}

	log.Printf("✅ Response %s processed (question %d)\n", response.ID, response.QuestionNumber)
	return p.completion.OnResponseSettled(ctx, response.InterviewID)
}

// analyze runs the external calls. An empty transcript (the provider reported
// FAILED or the poll timed out) degrades to all-zero scores rather than
// failing the response.
func (p *responseProcessor) analyze(ctx context.Context, response *models.VideoResponse) (string, models.ToneScores, error) {
	text, err := p.transcriber.Transcribe(ctx, response.VideoRef)
	if err != nil {
		return "", models.ToneScores{}, fmt.Errorf("transcription failed: %w", err)
	}

	if strings.TrimSpace(text) == "" {
		log.Printf("⚠️  Response %s produced no transcript, recording zero scores\n", response.ID)
		return "", models.ToneScores{}, nil
	}

	raw, err := p.toneAnalyzer.Score(ctx, text)
	if err != nil {
		return "", models.ToneScores{}, fmt.Errorf("tone scoring failed: %w", err)
	}

	return text, NormalizeTones(raw), nil
}
