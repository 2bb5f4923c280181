package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"smarthire/internal/models"
	"smarthire/internal/repositories"
)

// TaskHandler executes one kind of background work. Returning an error sends
// the task back for retry; permanent outcomes are settled inside the handler
// and return nil.
type TaskHandler func(ctx context.Context, targetID uuid.UUID) error

// Scheduler enqueues durable background tasks for the worker pool. Schedule
// dedupes against in-flight tasks of the same (kind, target); Requeue is the
// operator re-trigger that restarts a settled task from attempt zero.
type Scheduler interface {
	Schedule(ctx context.Context, kind models.TaskKind, targetID uuid.UUID, delay time.Duration, maxAttempts int) error
	Requeue(ctx context.Context, kind models.TaskKind, targetID uuid.UUID) error
}

type Worker interface {
	Scheduler
	RegisterHandler(kind models.TaskKind, handler TaskHandler)
	Start(ctx context.Context)
	Stop()
}

type worker struct {
	taskRepo     repositories.TaskRepository
	handlers     map[models.TaskKind]TaskHandler
	taskQueue    chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	retryBackoff time.Duration
	now          func() time.Time
	wg           sync.WaitGroup
	stopChan     chan struct{}
}

func NewWorker(
	taskRepo repositories.TaskRepository,
	concurrency int,
	queueSize int,
	pollInterval time.Duration,
	retryBackoff time.Duration,
) Worker {
	return &worker{
		taskRepo:     taskRepo,
		handlers:     make(map[models.TaskKind]TaskHandler),
		taskQueue:    make(chan uuid.UUID, queueSize),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		retryBackoff: retryBackoff,
		now:          time.Now,
		stopChan:     make(chan struct{}),
	}
}

// RegisterHandler implements Worker. Handlers are registered before Start;
// the map is not guarded.
func (w *worker) RegisterHandler(kind models.TaskKind, handler TaskHandler) {
	w.handlers[kind] = handler
}

// Schedule implements Scheduler.
func (w *worker) Schedule(ctx context.Context, kind models.TaskKind, targetID uuid.UUID, delay time.Duration, maxAttempts int) error {
	runAt := w.now().Add(delay)
	task, err := w.taskRepo.Enqueue(kind, targetID, maxAttempts, runAt)
	if err != nil {
		return err
	}

	// The row is the source of truth; the channel is only the fast path.
	if delay <= 0 && task.Status == models.TaskQueued {
		w.enqueue(task.ID)
	}

	return nil
}

// Requeue implements Scheduler.
func (w *worker) Requeue(ctx context.Context, kind models.TaskKind, targetID uuid.UUID) error {
	task, err := w.taskRepo.Requeue(kind, targetID, w.now())
	if err != nil {
		return err
	}

	if task.Status == models.TaskQueued {
		w.enqueue(task.ID)
	}

	return nil
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processTasks(ctx, i+1)
	}

	// The poller delivers delayed retries and anything enqueued while the
	// process was down.
	w.wg.Add(1)
	go w.pollDueTasks(ctx)

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

func (w *worker) enqueue(taskID uuid.UUID) {
	select {
	case w.taskQueue <- taskID:
		log.Printf("📥 Task %s enqueued\n", taskID)
	default:
		// Queue full or worker stopped; the poll sweep delivers it.
	}
}

func (w *worker) processTasks(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("🚀 Worker #%d started\n", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case taskID := <-w.taskQueue:
			w.runTask(ctx, workerID, taskID)
		}
	}
}

func (w *worker) pollDueTasks(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	log.Println("🔄 Starting due task poller")

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Due task poller stopped")
			return
		case <-ticker.C:
			due, err := w.taskRepo.FindDue(w.now(), 10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch due tasks: %v\n", err)
				continue
			}

			if len(due) > 0 {
				log.Printf("📋 Found %d due tasks\n", len(due))
			}

			for _, task := range due {
				w.enqueue(task.ID)
			}
		}
	}
}

func (w *worker) runTask(ctx context.Context, workerID int, taskID uuid.UUID) {
	claimed, err := w.taskRepo.Claim(taskID)
	if err != nil {
		log.Printf("⚠️  Worker #%d failed to claim task %s: %v\n", workerID, taskID, err)
		return
	}
	if !claimed {
		// Another delivery already claimed it, or it is no longer queued.
		return
	}

	task, err := w.taskRepo.FindByID(taskID)
	if err != nil {
		log.Printf("⚠️  Worker #%d lost task %s after claim: %v\n", workerID, taskID, err)
		return
	}

	handler, ok := w.handlers[task.Kind]
	if !ok {
		log.Printf("❌ No handler registered for task kind %s\n", task.Kind)
		if ferr := w.taskRepo.Fail(task.ID, fmt.Sprintf("no handler for kind %s", task.Kind)); ferr != nil {
			log.Printf("⚠️  Failed to mark task failed: %v\n", ferr)
		}
		return
	}

	log.Printf("👷 Worker #%d processing %s for %s (attempt %d)\n", workerID, task.Kind, task.TargetID, task.Attempts+1)

	if err := handler(ctx, task.TargetID); err != nil {
		w.handleFailure(task, err)
		return
	}

	if cerr := w.taskRepo.Complete(task.ID); cerr != nil {
		log.Printf("⚠️  Failed to complete task %s: %v\n", task.ID, cerr)
	}
	log.Printf("✅ Worker #%d completed %s for %s\n", workerID, task.Kind, task.TargetID)
}

// handleFailure gives a task MaxAttempts retries after its first failure,
// each after a fixed backoff, then parks it as failed for the operator.
func (w *worker) handleFailure(task *models.ProcessingTask, err error) {
	attempts := task.Attempts + 1
	if attempts > task.MaxAttempts {
		log.Printf("❌ Task %s for %s failed permanently after %d runs: %v\n", task.Kind, task.TargetID, attempts, err)
		if ferr := w.taskRepo.Fail(task.ID, err.Error()); ferr != nil {
			log.Printf("⚠️  Failed to mark task failed: %v\n", ferr)
		}
		return
	}

	runAt := w.now().Add(w.retryBackoff)
	log.Printf("🔄 Task %s for %s failed (attempt %d, max retries %d), retrying at %s: %v\n",
		task.Kind, task.TargetID, attempts, task.MaxAttempts, runAt.Format(time.RFC3339), err)
	if rerr := w.taskRepo.Reschedule(task.ID, attempts, runAt, err.Error()); rerr != nil {
		log.Printf("⚠️  Failed to reschedule task: %v\n", rerr)
	}
}
