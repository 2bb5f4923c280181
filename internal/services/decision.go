package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"smarthire/internal/models"
	"smarthire/internal/repositories"
)

// DecisionService owns the HR side of the interview state machine:
// evaluation notes and the final accept/reject decision. The decision email
// must be delivered before the status changes; a failed delivery leaves the
// interview untouched so the HR actor can retry.
type DecisionService interface {
	SaveEvaluation(ctx context.Context, interviewID, hrID uuid.UUID, notes string) (*models.Interview, error)
	Decide(ctx context.Context, interviewID, hrID uuid.UUID, outcome models.InterviewStatus) (*models.Interview, error)
}

type decisionService struct {
	interviewRepo repositories.InterviewRepository
	notifier      Notifier
	locks         *interviewLocks
	now           func() time.Time
}

func NewDecisionService(interviewRepo repositories.InterviewRepository, notifier Notifier) DecisionService {
	return &decisionService{
		interviewRepo: interviewRepo,
		notifier:      notifier,
		locks:         newInterviewLocks(),
		now:           time.Now,
	}
}

// SaveEvaluation records HR notes and marks the interview evaluated. Allowed
// on completed and evaluated interviews only.
func (d *decisionService) SaveEvaluation(ctx context.Context, interviewID, hrID uuid.UUID, notes string) (*models.Interview, error) {
	unlock := d.locks.lock(interviewID)
	defer unlock()

	interview, err := d.interviewRepo.FindByID(interviewID)
	if err != nil {
		return nil, err
	}

	if err := d.interviewRepo.SaveEvaluation(interview.ID, notes, hrID, d.now()); err != nil {
		if errors.Is(err, repositories.ErrInvalidState) {
			return nil, fmt.Errorf("interview is %s, notes require a completed interview: %w", interview.Status, err)
		}
		return nil, err
	}

	log.Printf("📋 Evaluation notes saved for interview %s by %s\n", interviewID, hrID)
	return d.interviewRepo.FindByID(interviewID)
}

// Decide implements DecisionService. Decisions on the same interview are
// serialized in-process by a per-interview lock; the status guard on the
// update is the cross-process single-writer guarantee, so at most one
// decision ever commits.
func (d *decisionService) Decide(ctx context.Context, interviewID, hrID uuid.UUID, outcome models.InterviewStatus) (*models.Interview, error) {
	if !outcome.Decision() {
		return nil, fmt.Errorf("invalid decision outcome %q", outcome)
	}

	unlock := d.locks.lock(interviewID)
	defer unlock()

	interview, err := d.interviewRepo.FindWithRelations(interviewID)
	if err != nil {
		return nil, err
	}

	if interview.Status.Terminal() {
		return nil, fmt.Errorf("interview already %s: %w", interview.Status, repositories.ErrDecisionConflict)
	}
	if !models.CanTransition(interview.Status, outcome) {
		return nil, fmt.Errorf("interview is %s, decisions require a completed interview: %w",
			interview.Status, repositories.ErrInvalidState)
	}

	positionTitle := "the position"
	if interview.Position != nil && interview.Position.Title != "" {
		positionTitle = interview.Position.Title
	}

	// Send first. The transition only commits once the candidate has been
	// notified.
	if err := d.notifier.Notify(ctx, &interview.Candidate, outcome, positionTitle); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	if err := d.interviewRepo.UpdateDecision(interview.ID, outcome, hrID, d.now()); err != nil {
		return nil, err
	}

	log.Printf("✅ Interview %s decided: %s (by %s)\n", interviewID, outcome, hrID)
	return d.interviewRepo.FindWithRelations(interviewID)
}

// interviewLocks hands out one mutex per interview id. The map is never
// pruned; entries are tiny and bounded by the interviews decided during the
// process lifetime.
type interviewLocks struct {
	mu sync.Mutex
	m  map[uuid.UUID]*sync.Mutex
}

func newInterviewLocks() *interviewLocks {
	return &interviewLocks{m: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *interviewLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.m[id]
	if !ok {
		m = &sync.Mutex{}
		l.m[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
