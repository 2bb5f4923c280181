package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smarthire/internal/models"
)

type CandidateRepository interface {
	Create(candidate *models.Candidate) error
	FindByID(id uuid.UUID) (*models.Candidate, error)
	FindByEmail(email string) (*models.Candidate, error)
	FindProfile(candidateID uuid.UUID) (*models.CandidateProfile, error)
	SaveProfile(profile *models.CandidateProfile) error
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(candidate *models.Candidate) error {
	if err := r.db.Create(candidate).Error; err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

func (r *candidateRepository) FindByID(id uuid.UUID) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.Where("id = ?", id).First(&candidate).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return &candidate, nil
}

func (r *candidateRepository) FindByEmail(email string) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.Where("email = ?", email).First(&candidate).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("candidate %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return &candidate, nil
}

func (r *candidateRepository) FindProfile(candidateID uuid.UUID) (*models.CandidateProfile, error) {
	var profile models.CandidateProfile
	if err := r.db.Where("candidate_id = ?", candidateID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("profile for candidate %s: %w", candidateID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return &profile, nil
}

// SaveProfile creates the candidate's profile on first write and updates it
// afterwards; one profile row per candidate.
func (r *candidateRepository) SaveProfile(profile *models.CandidateProfile) error {
	existing, err := r.FindProfile(profile.CandidateID)
	if err != nil {
		if !isNotFound(err) {
			return err
		}
		if err := r.db.Create(profile).Error; err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	}

	profile.ID = existing.ID
	profile.CreatedAt = existing.CreatedAt
	if err := r.db.Save(profile).Error; err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
