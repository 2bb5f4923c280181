package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"smarthire/internal/models"
	"smarthire/internal/repositories"
)

// SubmissionService covers the candidate-facing half of the pipeline:
// starting an interview against the active question bank and submitting video
// responses into its question slots.
type SubmissionService interface {
	StartInterview(ctx context.Context, candidateID uuid.UUID, positionID *uuid.UUID) (*models.Interview, []models.InterviewQuestion, error)
	SubmitResponse(ctx context.Context, interviewID uuid.UUID, questionNumber int, file *multipart.FileHeader) (*models.VideoResponse, error)
	RetryResponse(ctx context.Context, responseID uuid.UUID) error
}

type submissionService struct {
	interviewRepo repositories.InterviewRepository
	responseRepo  repositories.ResponseRepository
	candidateRepo repositories.CandidateRepository
	questionRepo  repositories.QuestionRepository
	positionRepo  repositories.PositionRepository
	storage       StorageService
	scheduler     Scheduler
	maxAttempts   int
	now           func() time.Time
}

func NewSubmissionService(
	interviewRepo repositories.InterviewRepository,
	responseRepo repositories.ResponseRepository,
	candidateRepo repositories.CandidateRepository,
	questionRepo repositories.QuestionRepository,
	positionRepo repositories.PositionRepository,
	storage StorageService,
	scheduler Scheduler,
	maxAttempts int,
) SubmissionService {
	return &submissionService{
		interviewRepo: interviewRepo,
		responseRepo:  responseRepo,
		candidateRepo: candidateRepo,
		questionRepo:  questionRepo,
		positionRepo:  positionRepo,
		storage:       storage,
		scheduler:     scheduler,
		maxAttempts:   maxAttempts,
		now:           time.Now,
	}
}

// StartInterview creates the interview and immediately advances it to
// in_progress, snapshotting how many question slots it expects. The active
// question bank must not be empty.
func (s *submissionService) StartInterview(ctx context.Context, candidateID uuid.UUID, positionID *uuid.UUID) (*models.Interview, []models.InterviewQuestion, error) {
	if _, err := s.candidateRepo.FindByID(candidateID); err != nil {
		return nil, nil, err
	}
	if positionID != nil {
		if _, err := s.positionRepo.FindByID(*positionID); err != nil {
			return nil, nil, err
		}
	}

	questions, err := s.questionRepo.FindActive()
	if err != nil {
		return nil, nil, err
	}
	if len(questions) == 0 {
		return nil, nil, fmt.Errorf("no active interview questions configured")
	}

	interview := &models.Interview{
		CandidateID:   candidateID,
		PositionID:    positionID,
		Status:        models.InterviewPending,
		QuestionCount: len(questions),
	}
	if err := s.interviewRepo.Create(interview); err != nil {
		return nil, nil, err
	}

	if err := s.interviewRepo.Start(interview.ID, len(questions), s.now()); err != nil {
		return nil, nil, fmt.Errorf("failed to start interview: %w", err)
	}

	started, err := s.interviewRepo.FindByID(interview.ID)
	if err != nil {
		return nil, nil, err
	}

	log.Printf("🚀 Interview %s started for candidate %s (%d questions)\n", started.ID, candidateID, len(questions))
	return started, questions, nil
}

// SubmitResponse stores the uploaded video, creates or overwrites the
// question slot and schedules its processing. Resubmitting a slot resets it
// and restarts processing from attempt zero.
func (s *submissionService) SubmitResponse(ctx context.Context, interviewID uuid.UUID, questionNumber int, file *multipart.FileHeader) (*models.VideoResponse, error) {
	interview, err := s.interviewRepo.FindByID(interviewID)
	if err != nil {
		return nil, err
	}

	if interview.Status != models.InterviewInProgress {
		return nil, fmt.Errorf("interview is %s, responses are only accepted while in progress: %w",
			interview.Status, repositories.ErrInvalidState)
	}
	if questionNumber < 1 || questionNumber > interview.QuestionCount {
		return nil, fmt.Errorf("question number %d out of range 1..%d", questionNumber, interview.QuestionCount)
	}

	var questionID *uuid.UUID
	question, err := s.questionRepo.FindByOrder(questionNumber)
	if err == nil {
		questionID = &question.ID
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	videoRef, err := s.storage.SaveUpload(file, MediaKindVideo)
	if err != nil {
		return nil, err
	}

	response, err := s.responseRepo.Upsert(interviewID, questionID, questionNumber, videoRef)
	if err != nil {
		return nil, err
	}

	if err := s.scheduler.Schedule(ctx, models.TaskProcessResponse, response.ID, 0, s.maxAttempts); err != nil {
		return nil, fmt.Errorf("failed to schedule processing: %w", err)
	}

	log.Printf("📥 Response for question %d submitted (interview %s)\n", questionNumber, interviewID)
	return response, nil
}

// RetryResponse is the operator re-trigger for a stuck response. It restarts
// the processing task from attempt zero; a response that already settled is
// rejected.
func (s *submissionService) RetryResponse(ctx context.Context, responseID uuid.UUID) error {
	response, err := s.responseRepo.FindByID(responseID)
	if err != nil {
		return err
	}

	if response.IsProcessed {
		return fmt.Errorf("response %s already processed: %w", responseID, repositories.ErrInvalidState)
	}

	if err := s.scheduler.Requeue(ctx, models.TaskProcessResponse, response.ID); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		// No task row yet; schedule a fresh one.
		if err := s.scheduler.Schedule(ctx, models.TaskProcessResponse, response.ID, 0, s.maxAttempts); err != nil {
			return err
		}
	}

	log.Printf("🔄 Response %s requeued for processing\n", responseID)
	return nil
}
