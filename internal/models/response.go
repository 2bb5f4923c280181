package models

import (
	"time"

	"github.com/google/uuid"
)

// ToneScores holds the normalized five-dimension result of tone analysis,
// each value in [0,100].
type ToneScores struct {
	Analytical float64 `json:"analytical"`
	Confident  float64 `json:"confident"`
	Tentative  float64 `json:"tentative"`
	Joy        float64 `json:"joy"`
	Fear       float64 `json:"fear"`
}

type VideoResponse struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	InterviewID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_responses_interview_question" json:"interview_id"`
	QuestionID      *uuid.UUID `gorm:"type:uuid" json:"question_id,omitempty"`
	QuestionNumber  int        `gorm:"not null;uniqueIndex:idx_responses_interview_question" json:"question_number"`
	VideoRef        string     `gorm:"type:text;not null" json:"video_ref"`
	TranscribedText string     `gorm:"type:text" json:"transcribed_text"`

	// Per-dimension tone scores, nil until processing succeeds. A processed
	// response carries either all five scores or a processing error, never
	// both and never a mix.
	AnalyticalTone *float64 `gorm:"type:decimal(5,2)" json:"analytical_tone,omitempty"`
	ConfidentTone  *float64 `gorm:"type:decimal(5,2)" json:"confident_tone,omitempty"`
	TentativeTone  *float64 `gorm:"type:decimal(5,2)" json:"tentative_tone,omitempty"`
	JoyTone        *float64 `gorm:"type:decimal(5,2)" json:"joy_tone,omitempty"`
	FearTone       *float64 `gorm:"type:decimal(5,2)" json:"fear_tone,omitempty"`

	IsProcessed     bool   `gorm:"not null;default:false" json:"is_processed"`
	ProcessingError string `gorm:"type:text" json:"processing_error"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Interview Interview          `gorm:"foreignKey:InterviewID" json:"-"`
	Question  *InterviewQuestion `gorm:"foreignKey:QuestionID" json:"-"`
}

func (VideoResponse) TableName() string {
	return "video_responses"
}

// HasScores reports whether all five tone dimensions are stored.
func (r *VideoResponse) HasScores() bool {
	return r.AnalyticalTone != nil && r.ConfidentTone != nil && r.TentativeTone != nil &&
		r.JoyTone != nil && r.FearTone != nil
}

// Tones returns the stored scores with missing dimensions read as zero, so
// responses that failed content analysis contribute nothing to aggregates.
func (r *VideoResponse) Tones() ToneScores {
	return ToneScores{
		Analytical: orZero(r.AnalyticalTone),
		Confident:  orZero(r.ConfidentTone),
		Tentative:  orZero(r.TentativeTone),
		Joy:        orZero(r.JoyTone),
		Fear:       orZero(r.FearTone),
	}
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
