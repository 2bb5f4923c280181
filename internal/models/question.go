package models

import (
	"time"

	"github.com/google/uuid"
)

// InterviewQuestion is the question bank. The pipeline treats it as
// read-only: an interview snapshots the active slot count when it starts and
// responses are checked against that snapshot, not the live bank.
type InterviewQuestion struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	QuestionText string    `gorm:"type:text;not null" json:"question_text"`
	Order        int       `gorm:"column:question_order;not null;uniqueIndex" json:"order"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (InterviewQuestion) TableName() string {
	return "interview_questions"
}
