package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"smarthire/internal/models"
)

type QuestionRepository interface {
	FindActive() ([]models.InterviewQuestion, error)
	CountActive() (int64, error)
	FindByOrder(order int) (*models.InterviewQuestion, error)
	GetOrCreate(text string, order int) (*models.InterviewQuestion, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) FindActive() ([]models.InterviewQuestion, error) {
	var questions []models.InterviewQuestion
	err := r.db.
		Where("is_active = ?", true).
		Order("question_order ASC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

func (r *questionRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.InterviewQuestion{}).
		Where("is_active = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

func (r *questionRepository) FindByOrder(order int) (*models.InterviewQuestion, error) {
	var question models.InterviewQuestion
	err := r.db.Where("question_order = ?", order).First(&question).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("question %d: %w", order, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find question: %w", err)
	}
	return &question, nil
}

func (r *questionRepository) GetOrCreate(text string, order int) (*models.InterviewQuestion, error) {
	var question models.InterviewQuestion
	err := r.db.
		Where("question_order = ?", order).
		Attrs(models.InterviewQuestion{QuestionText: text, Order: order, IsActive: true}).
		FirstOrCreate(&question).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get or create question: %w", err)
	}
	return &question, nil
}
