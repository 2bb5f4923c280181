package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smarthire/internal/models"
)

type ResponseRepository interface {
	FindByID(id uuid.UUID) (*models.VideoResponse, error)
	FindBySlot(interviewID uuid.UUID, questionNumber int) (*models.VideoResponse, error)
	Upsert(interviewID uuid.UUID, questionID *uuid.UUID, questionNumber int, videoRef string) (*models.VideoResponse, error)
	MarkProcessed(id uuid.UUID, text string, tones models.ToneScores) error
	MarkProcessedWithError(id uuid.UUID, errorMsg string) error
	SetError(id uuid.UUID, errorMsg string) error
	ListByInterview(interviewID uuid.UUID) ([]models.VideoResponse, error)
	CountByInterview(interviewID uuid.UUID) (int64, error)
	CountUnprocessed(interviewID uuid.UUID) (int64, error)
}

type responseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) FindByID(id uuid.UUID) (*models.VideoResponse, error) {
	var resp models.VideoResponse
	if err := r.db.Where("id = ?", id).First(&resp).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("video response %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find video response: %w", err)
	}
	return &resp, nil
}

func (r *responseRepository) FindBySlot(interviewID uuid.UUID, questionNumber int) (*models.VideoResponse, error) {
	var resp models.VideoResponse
	err := r.db.
		Where("interview_id = ? AND question_number = ?", interviewID, questionNumber).
		First(&resp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("response slot %d: %w", questionNumber, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find response slot: %w", err)
	}
	return &resp, nil
}

// Upsert creates or overwrites the (interview, question_number) slot.
// Overwriting resets every processing field so the slot reads as a fresh,
// unprocessed submission.
func (r *responseRepository) Upsert(interviewID uuid.UUID, questionID *uuid.UUID, questionNumber int, videoRef string) (*models.VideoResponse, error) {
	existing, err := r.FindBySlot(interviewID, questionNumber)
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}

		resp := models.VideoResponse{
			InterviewID:    interviewID,
			QuestionID:     questionID,
			QuestionNumber: questionNumber,
			VideoRef:       videoRef,
		}
		if err := r.db.Create(&resp).Error; err != nil {
			return nil, fmt.Errorf("failed to create video response: %w", err)
		}
		return &resp, nil
	}

	result := r.db.Model(&models.VideoResponse{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"question_id":      questionID,
			"video_ref":        videoRef,
			"transcribed_text": "",
			"analytical_tone":  nil,
			"confident_tone":   nil,
			"tentative_tone":   nil,
			"joy_tone":         nil,
			"fear_tone":        nil,
			"is_processed":     false,
			"processing_error": "",
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to overwrite response slot: %w", result.Error)
	}

	return r.FindByID(existing.ID)
}

func (r *responseRepository) MarkProcessed(id uuid.UUID, text string, tones models.ToneScores) error {
	result := r.db.Model(&models.VideoResponse{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"transcribed_text": text,
			"analytical_tone":  tones.Analytical,
			"confident_tone":   tones.Confident,
			"tentative_tone":   tones.Tentative,
			"joy_tone":         tones.Joy,
			"fear_tone":        tones.Fear,
			"is_processed":     true,
			"processing_error": "",
			"updated_at":       time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark response processed: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("video response %s: %w", id, ErrNotFound)
	}

	return nil
}

// MarkProcessedWithError settles a response whose content can never be
// analyzed. Tone scores stay null so the response contributes zero to the
// interview aggregates.
func (r *responseRepository) MarkProcessedWithError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.VideoResponse{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"analytical_tone":  nil,
			"confident_tone":   nil,
			"tentative_tone":   nil,
			"joy_tone":         nil,
			"fear_tone":        nil,
			"is_processed":     true,
			"processing_error": errorMsg,
			"updated_at":       time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark response failed: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("video response %s: %w", id, ErrNotFound)
	}

	return nil
}

// SetError records a transient failure without settling the response, so a
// retry-exhausted slot stays visible as unprocessed with its last error.
func (r *responseRepository) SetError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.VideoResponse{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processing_error": errorMsg,
			"updated_at":       time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to set response error: %w", result.Error)
	}

	return nil
}

func (r *responseRepository) ListByInterview(interviewID uuid.UUID) ([]models.VideoResponse, error) {
	var responses []models.VideoResponse
	err := r.db.
		Where("interview_id = ?", interviewID).
		Order("question_number ASC").
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	return responses, nil
}

func (r *responseRepository) CountByInterview(interviewID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.VideoResponse{}).
		Where("interview_id = ?", interviewID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count responses: %w", err)
	}
	return count, nil
}

func (r *responseRepository) CountUnprocessed(interviewID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.VideoResponse{}).
		Where("interview_id = ? AND is_processed = ?", interviewID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unprocessed responses: %w", err)
	}
	return count, nil
}
