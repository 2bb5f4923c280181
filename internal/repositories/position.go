package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smarthire/internal/models"
)

type PositionRepository interface {
	Create(position *models.JobPosition) error
	FindByID(id uuid.UUID) (*models.JobPosition, error)
	FindActive() ([]models.JobPosition, error)
	GetOrCreate(title, department, description, requirements string) (*models.JobPosition, error)
}

type positionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepository{db: db}
}

func (r *positionRepository) Create(position *models.JobPosition) error {
	if err := r.db.Create(position).Error; err != nil {
		return fmt.Errorf("failed to create position: %w", err)
	}
	return nil
}

func (r *positionRepository) FindByID(id uuid.UUID) (*models.JobPosition, error) {
	var position models.JobPosition
	if err := r.db.Where("id = ?", id).First(&position).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("position %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find position: %w", err)
	}
	return &position, nil
}

func (r *positionRepository) FindActive() ([]models.JobPosition, error) {
	var positions []models.JobPosition
	err := r.db.
		Where("is_active = ?", true).
		Order("title ASC").
		Find(&positions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return positions, nil
}

func (r *positionRepository) GetOrCreate(title, department, description, requirements string) (*models.JobPosition, error) {
	var position models.JobPosition
	err := r.db.
		Where("title = ?", title).
		Attrs(models.JobPosition{
			Title:        title,
			Department:   department,
			Description:  description,
			Requirements: requirements,
			IsActive:     true,
		}).
		FirstOrCreate(&position).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get or create position: %w", err)
	}
	return &position, nil
}
