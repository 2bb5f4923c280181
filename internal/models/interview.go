package models

import (
	"time"

	"github.com/google/uuid"
)

type InterviewStatus string

const (
	InterviewPending    InterviewStatus = "pending"
	InterviewInProgress InterviewStatus = "in_progress"
	InterviewCompleted  InterviewStatus = "completed"
	InterviewEvaluated  InterviewStatus = "evaluated"
	InterviewAccepted   InterviewStatus = "accepted"
	InterviewRejected   InterviewStatus = "rejected"
)

// Rank orders statuses along the hiring pipeline. Both decision outcomes
// share the final rank. Unknown statuses rank -1.
func (s InterviewStatus) Rank() int {
	switch s {
	case InterviewPending:
		return 0
	case InterviewInProgress:
		return 1
	case InterviewCompleted:
		return 2
	case InterviewEvaluated:
		return 3
	case InterviewAccepted, InterviewRejected:
		return 4
	}
	return -1
}

func (s InterviewStatus) Valid() bool {
	return s.Rank() >= 0
}

// Terminal reports whether the status is a final decision outcome.
func (s InterviewStatus) Terminal() bool {
	return s == InterviewAccepted || s == InterviewRejected
}

// Decided reports whether s is a valid decision outcome value.
func (s InterviewStatus) Decision() bool {
	return s == InterviewAccepted || s == InterviewRejected
}

// CanTransition reports whether an interview may move between two statuses.
// Statuses never move backward and a recorded decision is final. The
// in_progress -> completed edge belongs to the aggregation engine alone;
// completed/evaluated -> accepted/rejected belongs to the HR decision flow.
func CanTransition(from, to InterviewStatus) bool {
	switch from {
	case InterviewPending:
		return to == InterviewInProgress
	case InterviewInProgress:
		return to == InterviewCompleted
	case InterviewCompleted:
		return to == InterviewEvaluated || to == InterviewAccepted || to == InterviewRejected
	case InterviewEvaluated:
		return to == InterviewAccepted || to == InterviewRejected
	}
	return false
}

type Interview struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"candidate_id"`
	PositionID    *uuid.UUID      `gorm:"type:uuid" json:"position_id,omitempty"`
	Status        InterviewStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	QuestionCount int             `gorm:"not null;default:0" json:"question_count"`
	StartedAt     *time.Time      `json:"started_at,omitempty"`

	// Aggregate tone scores, nil until the aggregation engine writes all
	// four together with the chart ref and the completed status.
	ConfidenceScore *float64 `gorm:"type:decimal(5,2)" json:"confidence_score,omitempty"`
	AnalyticalScore *float64 `gorm:"type:decimal(5,2)" json:"analytical_score,omitempty"`
	JoyScore        *float64 `gorm:"type:decimal(5,2)" json:"joy_score,omitempty"`
	FearScore       *float64 `gorm:"type:decimal(5,2)" json:"fear_score,omitempty"`
	ToneChartRef    *string  `gorm:"type:text" json:"tone_chart_ref,omitempty"`

	HRNotes             string     `gorm:"type:text" json:"hr_notes"`
	EvaluatedBy         *uuid.UUID `gorm:"type:uuid" json:"evaluated_by,omitempty"`
	EvaluatedAt         *time.Time `json:"evaluated_at,omitempty"`
	DecisionEmailSent   bool       `gorm:"not null;default:false" json:"decision_email_sent"`
	DecisionEmailSentAt *time.Time `json:"decision_email_sent_at,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Candidate Candidate    `gorm:"foreignKey:CandidateID" json:"-"`
	Position  *JobPosition `gorm:"foreignKey:PositionID" json:"-"`
}

func (Interview) TableName() string {
	return "interviews"
}

// AggregateScores groups the four interview-level tone means.
type AggregateScores struct {
	Confidence float64 `json:"confidence"`
	Analytical float64 `json:"analytical"`
	Joy        float64 `json:"joy"`
	Fear       float64 `json:"fear"`
}

// Aggregates returns the stored means when all four are present.
func (i *Interview) Aggregates() *AggregateScores {
	if i.ConfidenceScore == nil || i.AnalyticalScore == nil || i.JoyScore == nil || i.FearScore == nil {
		return nil
	}
	return &AggregateScores{
		Confidence: *i.ConfidenceScore,
		Analytical: *i.AnalyticalScore,
		Joy:        *i.JoyScore,
		Fear:       *i.FearScore,
	}
}
