package models

import (
	"time"

	"github.com/google/uuid"
)

type Candidate struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName  string    `gorm:"type:text;not null" json:"full_name"`
	Email     string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Phone     string    `gorm:"type:text" json:"phone"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Candidate) TableName() string {
	return "candidates"
}

// CandidateProfile carries demographic data, parsed resume fields and the
// OCEAN trait scores (1-10 each) used for personality prediction.
type CandidateProfile struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"candidate_id"`
	Age         *int      `json:"age,omitempty"`
	Gender      string    `gorm:"type:text" json:"gender"`

	ResumeRef       *string  `gorm:"type:text" json:"resume_ref,omitempty"`
	Skills          string   `gorm:"type:text" json:"skills"`
	Degree          string   `gorm:"type:text" json:"degree"`
	Designation     string   `gorm:"type:text" json:"designation"`
	TotalExperience *float64 `gorm:"type:decimal(4,1)" json:"total_experience,omitempty"`

	Openness             *int   `json:"openness,omitempty"`
	Conscientiousness    *int   `json:"conscientiousness,omitempty"`
	Extraversion         *int   `json:"extraversion,omitempty"`
	Agreeableness        *int   `json:"agreeableness,omitempty"`
	Neuroticism          *int   `json:"neuroticism,omitempty"`
	PredictedPersonality string `gorm:"type:text" json:"predicted_personality"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Candidate Candidate `gorm:"foreignKey:CandidateID" json:"-"`
}

func (CandidateProfile) TableName() string {
	return "candidate_profiles"
}

// HasAllTraits reports whether every OCEAN dimension has been recorded,
// the precondition for running personality prediction.
func (p *CandidateProfile) HasAllTraits() bool {
	return p.Openness != nil && p.Conscientiousness != nil && p.Extraversion != nil &&
		p.Agreeableness != nil && p.Neuroticism != nil
}
