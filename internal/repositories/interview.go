package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smarthire/internal/models"
)

type InterviewRepository interface {
	Create(interview *models.Interview) error
	FindByID(id uuid.UUID) (*models.Interview, error)
	FindWithRelations(id uuid.UUID) (*models.Interview, error)
	Start(id uuid.UUID, questionCount int, at time.Time) error
	UpdateAggregates(id uuid.UUID, scores models.AggregateScores, chartRef string) error
	SaveEvaluation(id uuid.UUID, notes string, hrID uuid.UUID, at time.Time) error
	UpdateDecision(id uuid.UUID, outcome models.InterviewStatus, hrID uuid.UUID, at time.Time) error
	ListForReport() ([]models.Interview, error)
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(interview *models.Interview) error {
	if err := r.db.Create(interview).Error; err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

func (r *interviewRepository) FindByID(id uuid.UUID) (*models.Interview, error) {
	var interview models.Interview
	if err := r.db.Where("id = ?", id).First(&interview).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("interview %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}
	return &interview, nil
}

func (r *interviewRepository) FindWithRelations(id uuid.UUID) (*models.Interview, error) {
	var interview models.Interview
	err := r.db.
		Preload("Candidate").
		Preload("Position").
		Where("id = ?", id).
		First(&interview).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("interview %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}
	return &interview, nil
}

// Start moves a pending interview to in_progress and snapshots the question
// slot count its responses will be checked against.
func (r *interviewRepository) Start(id uuid.UUID, questionCount int, at time.Time) error {
	result := r.db.Model(&models.Interview{}).
		Where("id = ? AND status = ?", id, models.InterviewPending).
		Updates(map[string]interface{}{
			"status":         models.InterviewInProgress,
			"question_count": questionCount,
			"started_at":     at,
			"updated_at":     at,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to start interview: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrInvalidState
	}

	return nil
}

// UpdateAggregates stores the four tone means and the chart ref in the same
// write that moves the interview to completed. The status guard keeps the
// update out of evaluated/decided interviews while tolerating a re-run on an
// already completed one, which recomputes to identical values.
func (r *interviewRepository) UpdateAggregates(id uuid.UUID, scores models.AggregateScores, chartRef string) error {
	result := r.db.Model(&models.Interview{}).
		Where("id = ? AND status IN ?", id, []models.InterviewStatus{models.InterviewInProgress, models.InterviewCompleted}).
		Updates(map[string]interface{}{
			"status":           models.InterviewCompleted,
			"confidence_score": scores.Confidence,
			"analytical_score": scores.Analytical,
			"joy_score":        scores.Joy,
			"fear_score":       scores.Fear,
			"tone_chart_ref":   chartRef,
			"updated_at":       time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to store aggregates: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrInvalidState
	}

	return nil
}

func (r *interviewRepository) SaveEvaluation(id uuid.UUID, notes string, hrID uuid.UUID, at time.Time) error {
	result := r.db.Model(&models.Interview{}).
		Where("id = ? AND status IN ?", id, []models.InterviewStatus{models.InterviewCompleted, models.InterviewEvaluated}).
		Updates(map[string]interface{}{
			"status":       models.InterviewEvaluated,
			"hr_notes":     notes,
			"evaluated_by": hrID,
			"evaluated_at": at,
			"updated_at":   at,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save evaluation: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrInvalidState
	}

	return nil
}

// UpdateDecision is the single-writer gate on the decision edge: the status
// guard makes concurrent decisions race on one UPDATE, and the loser sees
// ErrDecisionConflict instead of silently overwriting the outcome.
func (r *interviewRepository) UpdateDecision(id uuid.UUID, outcome models.InterviewStatus, hrID uuid.UUID, at time.Time) error {
	if !outcome.Decision() {
		return fmt.Errorf("invalid decision outcome %q", outcome)
	}

	result := r.db.Model(&models.Interview{}).
		Where("id = ? AND status IN ?", id, []models.InterviewStatus{models.InterviewCompleted, models.InterviewEvaluated}).
		Updates(map[string]interface{}{
			"status":                 outcome,
			"evaluated_by":           hrID,
			"evaluated_at":           at,
			"decision_email_sent":    true,
			"decision_email_sent_at": at,
			"updated_at":             at,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to record decision: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrDecisionConflict
	}

	return nil
}

func (r *interviewRepository) ListForReport() ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.db.
		Preload("Candidate").
		Preload("Position").
		Order("created_at ASC").
		Find(&interviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}
