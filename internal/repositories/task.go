package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smarthire/internal/models"
)

type TaskRepository interface {
	Enqueue(kind models.TaskKind, targetID uuid.UUID, maxAttempts int, runAt time.Time) (*models.ProcessingTask, error)
	Requeue(kind models.TaskKind, targetID uuid.UUID, runAt time.Time) (*models.ProcessingTask, error)
	FindByID(id uuid.UUID) (*models.ProcessingTask, error)
	FindByTarget(kind models.TaskKind, targetID uuid.UUID) (*models.ProcessingTask, error)
	FindDue(now time.Time, limit int) ([]models.ProcessingTask, error)
	Claim(id uuid.UUID) (bool, error)
	Complete(id uuid.UUID) error
	Fail(id uuid.UUID, reason string) error
	Reschedule(id uuid.UUID, attempts int, runAt time.Time, reason string) error
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Enqueue creates the (kind, target) task or reuses the existing row. Rows
// already queued or running are returned untouched, which is what makes
// duplicate enqueues from concurrent signals collapse into one run. Terminal
// rows are reset for another run.
func (r *taskRepository) Enqueue(kind models.TaskKind, targetID uuid.UUID, maxAttempts int, runAt time.Time) (*models.ProcessingTask, error) {
	var task models.ProcessingTask
	err := r.db.Where("kind = ? AND target_id = ?", kind, targetID).First(&task).Error
	if err == gorm.ErrRecordNotFound {
		task = models.ProcessingTask{
			Kind:        kind,
			TargetID:    targetID,
			Status:      models.TaskQueued,
			MaxAttempts: maxAttempts,
			NextRunAt:   runAt,
		}
		if err := r.db.Create(&task).Error; err != nil {
			// Lost a race with a concurrent enqueue on the unique
			// (kind, target) index; reuse the winner's row.
			if ferr := r.db.Where("kind = ? AND target_id = ?", kind, targetID).First(&task).Error; ferr != nil {
				return nil, fmt.Errorf("failed to enqueue task: %w", err)
			}
		}
		return &task, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up task: %w", err)
	}

	if task.Status == models.TaskQueued || task.Status == models.TaskRunning {
		return &task, nil
	}

	return r.reset(&task, runAt)
}

// Requeue resets a task for the operator re-trigger path. A running task is
// left alone; anything else restarts from attempt zero.
func (r *taskRepository) Requeue(kind models.TaskKind, targetID uuid.UUID, runAt time.Time) (*models.ProcessingTask, error) {
	task, err := r.FindByTarget(kind, targetID)
	if err != nil {
		return nil, err
	}

	if task.Status == models.TaskRunning {
		return task, nil
	}

	return r.reset(task, runAt)
}

func (r *taskRepository) reset(task *models.ProcessingTask, runAt time.Time) (*models.ProcessingTask, error) {
	result := r.db.Model(&models.ProcessingTask{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"status":      models.TaskQueued,
			"attempts":    0,
			"next_run_at": runAt,
			"last_error":  "",
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to reset task: %w", result.Error)
	}

	task.Status = models.TaskQueued
	task.Attempts = 0
	task.NextRunAt = runAt
	task.LastError = ""
	return task, nil
}

func (r *taskRepository) FindByID(id uuid.UUID) (*models.ProcessingTask, error) {
	var task models.ProcessingTask
	if err := r.db.Where("id = ?", id).First(&task).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

func (r *taskRepository) FindByTarget(kind models.TaskKind, targetID uuid.UUID) (*models.ProcessingTask, error) {
	var task models.ProcessingTask
	err := r.db.Where("kind = ? AND target_id = ?", kind, targetID).First(&task).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("task %s/%s: %w", kind, targetID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

func (r *taskRepository) FindDue(now time.Time, limit int) ([]models.ProcessingTask, error) {
	var tasks []models.ProcessingTask
	err := r.db.
		Where("status = ? AND next_run_at <= ?", models.TaskQueued, now).
		Order("next_run_at ASC").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find due tasks: %w", err)
	}
	return tasks, nil
}

// Claim moves a task from queued to running. The compare-and-set means a
// task delivered both over the fast-path channel and by the poll sweep still
// executes once.
func (r *taskRepository) Claim(id uuid.UUID) (bool, error) {
	result := r.db.Model(&models.ProcessingTask{}).
		Where("id = ? AND status = ?", id, models.TaskQueued).
		Updates(map[string]interface{}{
			"status":     models.TaskRunning,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim task: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *taskRepository) Complete(id uuid.UUID) error {
	result := r.db.Model(&models.ProcessingTask{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.TaskCompleted,
			"last_error": "",
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to complete task: %w", result.Error)
	}
	return nil
}

func (r *taskRepository) Fail(id uuid.UUID, reason string) error {
	result := r.db.Model(&models.ProcessingTask{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     models.TaskFailed,
			"last_error": reason,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to fail task: %w", result.Error)
	}
	return nil
}

func (r *taskRepository) Reschedule(id uuid.UUID, attempts int, runAt time.Time, reason string) error {
	result := r.db.Model(&models.ProcessingTask{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      models.TaskQueued,
			"attempts":    attempts,
			"next_run_at": runAt,
			"last_error":  reason,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to reschedule task: %w", result.Error)
	}
	return nil
}
