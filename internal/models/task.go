package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskKind string

const (
	TaskProcessResponse    TaskKind = "process_response"
	TaskAggregateInterview TaskKind = "aggregate_interview"
)

type TaskStatus string

const (
	TaskQueued    TaskStatus = "queued"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// ProcessingTask is a durable unit of background work. One row exists per
// (kind, target) pair; retries reuse the row, bumping Attempts and pushing
// NextRunAt into the future.
type ProcessingTask struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Kind        TaskKind   `gorm:"type:text;not null;uniqueIndex:idx_tasks_kind_target" json:"kind"`
	TargetID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_tasks_kind_target" json:"target_id"`
	Status      TaskStatus `gorm:"type:text;not null;default:'queued'" json:"status"`
	Attempts    int        `gorm:"not null;default:0" json:"attempts"`
	MaxAttempts int        `gorm:"not null;default:3" json:"max_attempts"`
	NextRunAt   time.Time  `gorm:"not null;index" json:"next_run_at"`
	LastError   string     `gorm:"type:text" json:"last_error"`
	CreatedAt   time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ProcessingTask) TableName() string {
	return "processing_tasks"
}
