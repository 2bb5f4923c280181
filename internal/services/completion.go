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

// CompletionDetector watches for the moment the last response of an interview
// settles and schedules the aggregation run for it.
type CompletionDetector interface {
	OnResponseSettled(ctx context.Context, interviewID uuid.UUID) error
}

type completionDetector struct {
	interviewRepo repositories.InterviewRepository
	responseRepo  repositories.ResponseRepository
	scheduler     Scheduler
	maxAttempts   int
}

func NewCompletionDetector(
	interviewRepo repositories.InterviewRepository,
	responseRepo repositories.ResponseRepository,
	scheduler Scheduler,
	maxAttempts int,
) CompletionDetector {
	return &completionDetector{
		interviewRepo: interviewRepo,
		responseRepo:  responseRepo,
		scheduler:     scheduler,
		maxAttempts:   maxAttempts,
	}
}

// OnResponseSettled implements CompletionDetector. Duplicate signals are
// harmless: the status gate filters interviews that already moved on, and the
// scheduler collapses concurrent enqueues of the same aggregation task into
// one row. Aggregation is only scheduled once every question slot is filled
// and no response remains unprocessed.
func (d *completionDetector) OnResponseSettled(ctx context.Context, interviewID uuid.UUID) error {
	interview, err := d.interviewRepo.FindByID(interviewID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("⚠️  Interview %s no longer exists, dropping completion signal\n", interviewID)
			return nil
		}
		return fmt.Errorf("failed to load interview: %w", err)
	}

	if interview.Status != models.InterviewInProgress {
		return nil
	}

	total, err := d.responseRepo.CountByInterview(interviewID)
	if err != nil {
		return fmt.Errorf("failed to count responses: %w", err)
	}
	if total == 0 || total < int64(interview.QuestionCount) {
		return nil
	}

	unprocessed, err := d.responseRepo.CountUnprocessed(interviewID)
	if err != nil {
		return fmt.Errorf("failed to count unprocessed responses: %w", err)
	}
	if unprocessed > 0 {
		log.Printf("🔄 Interview %s has %d responses still in flight\n", interviewID, unprocessed)
		return nil
	}

	log.Printf("📋 All %d responses settled for interview %s, scheduling aggregation\n", total, interviewID)
	return d.scheduler.Schedule(ctx, models.TaskAggregateInterview, interviewID, 0, d.maxAttempts)
}
