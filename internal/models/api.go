package models

import (
	"time"

	"github.com/google/uuid"
)

type CreateCandidateRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type CreatePositionRequest struct {
	Title        string `json:"title"`
	Department   string `json:"department"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
}

type StartInterviewRequest struct {
	CandidateID string `json:"candidate_id"`
	PositionID  string `json:"position_id"`
}

type QuestionData struct {
	ID    uuid.UUID `json:"id"`
	Order int       `json:"order"`
	Text  string    `json:"text"`
}

type StartInterviewResponse struct {
	ID            uuid.UUID      `json:"id"`
	Status        string         `json:"status"`
	QuestionCount int            `json:"question_count"`
	Questions     []QuestionData `json:"questions"`
}

type SubmitResponseResult struct {
	ID             uuid.UUID `json:"id"`
	InterviewID    uuid.UUID `json:"interview_id"`
	QuestionNumber int       `json:"question_number"`
	Status         string    `json:"status"`
}

type ResponseSummary struct {
	QuestionNumber  int         `json:"question_number"`
	IsProcessed     bool        `json:"is_processed"`
	ProcessingError string      `json:"processing_error,omitempty"`
	TranscribedText string      `json:"transcribed_text,omitempty"`
	Tones           *ToneScores `json:"tones,omitempty"`
}

type InterviewSummaryResponse struct {
	ID                uuid.UUID         `json:"id"`
	CandidateID       uuid.UUID         `json:"candidate_id"`
	PositionID        *uuid.UUID        `json:"position_id,omitempty"`
	Status            string            `json:"status"`
	QuestionCount     int               `json:"question_count"`
	Scores            *AggregateScores  `json:"scores,omitempty"`
	ToneChartRef      *string           `json:"tone_chart_ref,omitempty"`
	HRNotes           string            `json:"hr_notes,omitempty"`
	EvaluatedBy       *uuid.UUID        `json:"evaluated_by,omitempty"`
	EvaluatedAt       *time.Time        `json:"evaluated_at,omitempty"`
	DecisionEmailSent bool              `json:"decision_email_sent"`
	Responses         []ResponseSummary `json:"responses"`
}

type EvaluationRequest struct {
	HRActorID string `json:"hr_actor_id"`
	Notes     string `json:"notes"`
}

type DecisionRequest struct {
	HRActorID string `json:"hr_actor_id"`
	Outcome   string `json:"outcome"`
}

type DecisionResponse struct {
	ID                uuid.UUID `json:"id"`
	Status            string    `json:"status"`
	DecisionEmailSent bool      `json:"decision_email_sent"`
}

type TranscriptHit struct {
	ResponseID     string  `json:"response_id"`
	InterviewID    string  `json:"interview_id"`
	QuestionNumber int     `json:"question_number"`
	Score          float32 `json:"score"`
	Text           string  `json:"text"`
}
