package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"smarthire/internal/models"
	"smarthire/internal/repositories"
)

// In-memory fakes for the repository and provider boundaries. The fakes keep
// the same compare-and-set semantics as the real repositories so the tests
// exercise the races the production code guards against.

func fptr(v float64) *float64 { return &v }

// makeFileHeader builds a real multipart.FileHeader by writing a form and
// parsing it back, so upload paths see the same type fiber hands them.
func makeFileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(int64(len(content)) + 4096)
	if err != nil {
		t.Fatalf("read form back: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File[field]
	if len(files) != 1 {
		t.Fatalf("expected 1 file in form, got %d", len(files))
	}
	return files[0]
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*models.ProcessingTask
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[uuid.UUID]*models.ProcessingTask)}
}

func (r *fakeTaskRepo) add(task models.ProcessingTask) *models.ProcessingTask {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.Status == "" {
		task.Status = models.TaskQueued
	}
	r.tasks[task.ID] = &task
	c := task
	return &c
}

func (r *fakeTaskRepo) get(t *testing.T, id uuid.UUID) models.ProcessingTask {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		t.Fatalf("task %s not stored", id)
	}
	return *task
}

func (r *fakeTaskRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

func (r *fakeTaskRepo) findByTargetLocked(kind models.TaskKind, targetID uuid.UUID) *models.ProcessingTask {
	for _, task := range r.tasks {
		if task.Kind == kind && task.TargetID == targetID {
			return task
		}
	}
	return nil
}

func (r *fakeTaskRepo) Enqueue(kind models.TaskKind, targetID uuid.UUID, maxAttempts int, runAt time.Time) (*models.ProcessingTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task := r.findByTargetLocked(kind, targetID); task != nil {
		if task.Status == models.TaskQueued || task.Status == models.TaskRunning {
			c := *task
			return &c, nil
		}
		task.Status = models.TaskQueued
		task.Attempts = 0
		task.NextRunAt = runAt
		task.LastError = ""
		c := *task
		return &c, nil
	}

	task := &models.ProcessingTask{
		ID:          uuid.New(),
		Kind:        kind,
		TargetID:    targetID,
		Status:      models.TaskQueued,
		MaxAttempts: maxAttempts,
		NextRunAt:   runAt,
	}
	r.tasks[task.ID] = task
	c := *task
	return &c, nil
}

func (r *fakeTaskRepo) Requeue(kind models.TaskKind, targetID uuid.UUID, runAt time.Time) (*models.ProcessingTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task := r.findByTargetLocked(kind, targetID)
	if task == nil {
		return nil, fmt.Errorf("task %s/%s: %w", kind, targetID, repositories.ErrNotFound)
	}
	if task.Status == models.TaskRunning {
		c := *task
		return &c, nil
	}
	task.Status = models.TaskQueued
	task.Attempts = 0
	task.NextRunAt = runAt
	task.LastError = ""
	c := *task
	return &c, nil
}

func (r *fakeTaskRepo) FindByID(id uuid.UUID) (*models.ProcessingTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, repositories.ErrNotFound)
	}
	c := *task
	return &c, nil
}

func (r *fakeTaskRepo) FindByTarget(kind models.TaskKind, targetID uuid.UUID) (*models.ProcessingTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task := r.findByTargetLocked(kind, targetID)
	if task == nil {
		return nil, fmt.Errorf("task %s/%s: %w", kind, targetID, repositories.ErrNotFound)
	}
	c := *task
	return &c, nil
}

func (r *fakeTaskRepo) FindDue(now time.Time, limit int) ([]models.ProcessingTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []models.ProcessingTask
	for _, task := range r.tasks {
		if task.Status == models.TaskQueued && !task.NextRunAt.After(now) {
			due = append(due, *task)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].NextRunAt.Before(due[j].NextRunAt) })
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *fakeTaskRepo) Claim(id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok || task.Status != models.TaskQueued {
		return false, nil
	}
	task.Status = models.TaskRunning
	return true, nil
}

func (r *fakeTaskRepo) Complete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task, ok := r.tasks[id]; ok {
		task.Status = models.TaskCompleted
		task.LastError = ""
	}
	return nil
}

func (r *fakeTaskRepo) Fail(id uuid.UUID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task, ok := r.tasks[id]; ok {
		task.Status = models.TaskFailed
		task.LastError = reason
	}
	return nil
}

func (r *fakeTaskRepo) Reschedule(id uuid.UUID, attempts int, runAt time.Time, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task, ok := r.tasks[id]; ok {
		task.Status = models.TaskQueued
		task.Attempts = attempts
		task.NextRunAt = runAt
		task.LastError = reason
	}
	return nil
}

type fakeInterviewRepo struct {
	mu         sync.Mutex
	interviews map[uuid.UUID]*models.Interview
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{interviews: make(map[uuid.UUID]*models.Interview)}
}

func (r *fakeInterviewRepo) add(interview models.Interview) *models.Interview {
	r.mu.Lock()
	defer r.mu.Unlock()
	if interview.ID == uuid.Nil {
		interview.ID = uuid.New()
	}
	if interview.Status == "" {
		interview.Status = models.InterviewPending
	}
	r.interviews[interview.ID] = &interview
	c := interview
	return &c
}

func (r *fakeInterviewRepo) get(t *testing.T, id uuid.UUID) models.Interview {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	interview, ok := r.interviews[id]
	if !ok {
		t.Fatalf("interview %s not stored", id)
	}
	return *interview
}

func (r *fakeInterviewRepo) Create(interview *models.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if interview.ID == uuid.Nil {
		interview.ID = uuid.New()
	}
	if interview.Status == "" {
		interview.Status = models.InterviewPending
	}
	if interview.CreatedAt.IsZero() {
		interview.CreatedAt = time.Now()
	}
	c := *interview
	r.interviews[interview.ID] = &c
	return nil
}

func (r *fakeInterviewRepo) FindByID(id uuid.UUID) (*models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	interview, ok := r.interviews[id]
	if !ok {
		return nil, fmt.Errorf("interview %s: %w", id, repositories.ErrNotFound)
	}
	c := *interview
	return &c, nil
}

func (r *fakeInterviewRepo) FindWithRelations(id uuid.UUID) (*models.Interview, error) {
	return r.FindByID(id)
}

func (r *fakeInterviewRepo) Start(id uuid.UUID, questionCount int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	interview, ok := r.interviews[id]
	if !ok || interview.Status != models.InterviewPending {
		return repositories.ErrInvalidState
	}
	interview.Status = models.InterviewInProgress
	interview.QuestionCount = questionCount
	interview.StartedAt = &at
	return nil
}

func (r *fakeInterviewRepo) UpdateAggregates(id uuid.UUID, scores models.AggregateScores, chartRef string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	interview, ok := r.interviews[id]
	if !ok || (interview.Status != models.InterviewInProgress && interview.Status != models.InterviewCompleted) {
		return repositories.ErrInvalidState
	}
	interview.Status = models.InterviewCompleted
	interview.ConfidenceScore = fptr(scores.Confidence)
	interview.AnalyticalScore = fptr(scores.Analytical)
	interview.JoyScore = fptr(scores.Joy)
	interview.FearScore = fptr(scores.Fear)
	ref := chartRef
	interview.ToneChartRef = &ref
	return nil
}

func (r *fakeInterviewRepo) SaveEvaluation(id uuid.UUID, notes string, hrID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	interview, ok := r.interviews[id]
	if !ok || (interview.Status != models.InterviewCompleted && interview.Status != models.InterviewEvaluated) {
		return repositories.ErrInvalidState
	}
	interview.Status = models.InterviewEvaluated
	interview.HRNotes = notes
	hr := hrID
	interview.EvaluatedBy = &hr
	evalAt := at
	interview.EvaluatedAt = &evalAt
	return nil
}

func (r *fakeInterviewRepo) UpdateDecision(id uuid.UUID, outcome models.InterviewStatus, hrID uuid.UUID, at time.Time) error {
	if !outcome.Decision() {
		return fmt.Errorf("invalid decision outcome %q", outcome)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	interview, ok := r.interviews[id]
	if !ok || (interview.Status != models.InterviewCompleted && interview.Status != models.InterviewEvaluated) {
		return repositories.ErrDecisionConflict
	}
	interview.Status = outcome
	hr := hrID
	interview.EvaluatedBy = &hr
	decidedAt := at
	interview.EvaluatedAt = &decidedAt
	interview.DecisionEmailSent = true
	interview.DecisionEmailSentAt = &decidedAt
	return nil
}

func (r *fakeInterviewRepo) ListForReport() ([]models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var interviews []models.Interview
	for _, interview := range r.interviews {
		interviews = append(interviews, *interview)
	}
	sort.Slice(interviews, func(i, j int) bool { return interviews[i].CreatedAt.Before(interviews[j].CreatedAt) })
	return interviews, nil
}

type fakeResponseRepo struct {
	mu        sync.Mutex
	responses map[uuid.UUID]*models.VideoResponse
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{responses: make(map[uuid.UUID]*models.VideoResponse)}
}

func (r *fakeResponseRepo) add(resp models.VideoResponse) *models.VideoResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	if resp.ID == uuid.Nil {
		resp.ID = uuid.New()
	}
	r.responses[resp.ID] = &resp
	c := resp
	return &c
}

func (r *fakeResponseRepo) get(t *testing.T, id uuid.UUID) models.VideoResponse {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	resp, ok := r.responses[id]
	if !ok {
		t.Fatalf("response %s not stored", id)
	}
	return *resp
}

func (r *fakeResponseRepo) FindByID(id uuid.UUID) (*models.VideoResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	resp, ok := r.responses[id]
	if !ok {
		return nil, fmt.Errorf("video response %s: %w", id, repositories.ErrNotFound)
	}
	c := *resp
	return &c, nil
}

func (r *fakeResponseRepo) FindBySlot(interviewID uuid.UUID, questionNumber int) (*models.VideoResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, resp := range r.responses {
		if resp.InterviewID == interviewID && resp.QuestionNumber == questionNumber {
			c := *resp
			return &c, nil
		}
	}
	return nil, fmt.Errorf("response slot %d: %w", questionNumber, repositories.ErrNotFound)
}

func (r *fakeResponseRepo) Upsert(interviewID uuid.UUID, questionID *uuid.UUID, questionNumber int, videoRef string) (*models.VideoResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, resp := range r.responses {
		if resp.InterviewID == interviewID && resp.QuestionNumber == questionNumber {
			resp.QuestionID = questionID
			resp.VideoRef = videoRef
			resp.TranscribedText = ""
			resp.AnalyticalTone = nil
			resp.ConfidentTone = nil
			resp.TentativeTone = nil
			resp.JoyTone = nil
			resp.FearTone = nil
			resp.IsProcessed = false
			resp.ProcessingError = ""
			c := *resp
			return &c, nil
		}
	}

	resp := &models.VideoResponse{
		ID:             uuid.New(),
		InterviewID:    interviewID,
		QuestionID:     questionID,
		QuestionNumber: questionNumber,
		VideoRef:       videoRef,
	}
	r.responses[resp.ID] = resp
	c := *resp
	return &c, nil
}

func (r *fakeResponseRepo) MarkProcessed(id uuid.UUID, text string, tones models.ToneScores) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	resp, ok := r.responses[id]
	if !ok {
		return fmt.Errorf("video response %s: %w", id, repositories.ErrNotFound)
	}
	resp.TranscribedText = text
	resp.AnalyticalTone = fptr(tones.Analytical)
	resp.ConfidentTone = fptr(tones.Confident)
	resp.TentativeTone = fptr(tones.Tentative)
	resp.JoyTone = fptr(tones.Joy)
	resp.FearTone = fptr(tones.Fear)
	resp.IsProcessed = true
	resp.ProcessingError = ""
	return nil
}

func (r *fakeResponseRepo) MarkProcessedWithError(id uuid.UUID, errorMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	resp, ok := r.responses[id]
	if !ok {
		return fmt.Errorf("video response %s: %w", id, repositories.ErrNotFound)
	}
	resp.AnalyticalTone = nil
	resp.ConfidentTone = nil
	resp.TentativeTone = nil
	resp.JoyTone = nil
	resp.FearTone = nil
	resp.IsProcessed = true
	resp.ProcessingError = errorMsg
	return nil
}

func (r *fakeResponseRepo) SetError(id uuid.UUID, errorMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if resp, ok := r.responses[id]; ok {
		resp.ProcessingError = errorMsg
	}
	return nil
}

func (r *fakeResponseRepo) ListByInterview(interviewID uuid.UUID) ([]models.VideoResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var responses []models.VideoResponse
	for _, resp := range r.responses {
		if resp.InterviewID == interviewID {
			responses = append(responses, *resp)
		}
	}
	sort.Slice(responses, func(i, j int) bool { return responses[i].QuestionNumber < responses[j].QuestionNumber })
	return responses, nil
}

func (r *fakeResponseRepo) CountByInterview(interviewID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, resp := range r.responses {
		if resp.InterviewID == interviewID {
			count++
		}
	}
	return count, nil
}

func (r *fakeResponseRepo) CountUnprocessed(interviewID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, resp := range r.responses {
		if resp.InterviewID == interviewID && !resp.IsProcessed {
			count++
		}
	}
	return count, nil
}

type fakeCandidateRepo struct {
	mu         sync.Mutex
	candidates map[uuid.UUID]*models.Candidate
	profiles   map[uuid.UUID]*models.CandidateProfile
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{
		candidates: make(map[uuid.UUID]*models.Candidate),
		profiles:   make(map[uuid.UUID]*models.CandidateProfile),
	}
}

func (r *fakeCandidateRepo) add(candidate models.Candidate) *models.Candidate {
	r.mu.Lock()
	defer r.mu.Unlock()
	if candidate.ID == uuid.Nil {
		candidate.ID = uuid.New()
	}
	r.candidates[candidate.ID] = &candidate
	c := candidate
	return &c
}

func (r *fakeCandidateRepo) Create(candidate *models.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if candidate.ID == uuid.Nil {
		candidate.ID = uuid.New()
	}
	c := *candidate
	r.candidates[candidate.ID] = &c
	return nil
}

func (r *fakeCandidateRepo) FindByID(id uuid.UUID) (*models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	candidate, ok := r.candidates[id]
	if !ok {
		return nil, fmt.Errorf("candidate %s: %w", id, repositories.ErrNotFound)
	}
	c := *candidate
	return &c, nil
}

func (r *fakeCandidateRepo) FindByEmail(email string) (*models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, candidate := range r.candidates {
		if candidate.Email == email {
			c := *candidate
			return &c, nil
		}
	}
	return nil, fmt.Errorf("candidate %s: %w", email, repositories.ErrNotFound)
}

func (r *fakeCandidateRepo) FindProfile(candidateID uuid.UUID) (*models.CandidateProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[candidateID]
	if !ok {
		return nil, fmt.Errorf("profile for %s: %w", candidateID, repositories.ErrNotFound)
	}
	c := *profile
	return &c, nil
}

func (r *fakeCandidateRepo) SaveProfile(profile *models.CandidateProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	c := *profile
	r.profiles[profile.CandidateID] = &c
	return nil
}

type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions []models.InterviewQuestion
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{}
}

func (r *fakeQuestionRepo) add(question models.InterviewQuestion) models.InterviewQuestion {
	r.mu.Lock()
	defer r.mu.Unlock()
	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}
	r.questions = append(r.questions, question)
	return question
}

func (r *fakeQuestionRepo) FindActive() ([]models.InterviewQuestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []models.InterviewQuestion
	for _, q := range r.questions {
		if q.IsActive {
			active = append(active, q)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Order < active[j].Order })
	return active, nil
}

func (r *fakeQuestionRepo) CountActive() (int64, error) {
	active, _ := r.FindActive()
	return int64(len(active)), nil
}

func (r *fakeQuestionRepo) FindByOrder(order int) (*models.InterviewQuestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.questions {
		if q.Order == order && q.IsActive {
			c := q
			return &c, nil
		}
	}
	return nil, fmt.Errorf("question %d: %w", order, repositories.ErrNotFound)
}

func (r *fakeQuestionRepo) GetOrCreate(text string, order int) (*models.InterviewQuestion, error) {
	if q, err := r.FindByOrder(order); err == nil {
		return q, nil
	}
	q := r.add(models.InterviewQuestion{QuestionText: text, Order: order, IsActive: true})
	return &q, nil
}

type fakePositionRepo struct {
	mu        sync.Mutex
	positions map[uuid.UUID]*models.JobPosition
}

func newFakePositionRepo() *fakePositionRepo {
	return &fakePositionRepo{positions: make(map[uuid.UUID]*models.JobPosition)}
}

func (r *fakePositionRepo) add(position models.JobPosition) *models.JobPosition {
	r.mu.Lock()
	defer r.mu.Unlock()
	if position.ID == uuid.Nil {
		position.ID = uuid.New()
	}
	r.positions[position.ID] = &position
	c := position
	return &c
}

func (r *fakePositionRepo) Create(position *models.JobPosition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if position.ID == uuid.Nil {
		position.ID = uuid.New()
	}
	c := *position
	r.positions[position.ID] = &c
	return nil
}

func (r *fakePositionRepo) FindByID(id uuid.UUID) (*models.JobPosition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	position, ok := r.positions[id]
	if !ok {
		return nil, fmt.Errorf("position %s: %w", id, repositories.ErrNotFound)
	}
	c := *position
	return &c, nil
}

func (r *fakePositionRepo) FindActive() ([]models.JobPosition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []models.JobPosition
	for _, p := range r.positions {
		if p.IsActive {
			active = append(active, *p)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Title < active[j].Title })
	return active, nil
}

func (r *fakePositionRepo) GetOrCreate(title, department, description, requirements string) (*models.JobPosition, error) {
	r.mu.Lock()
	for _, p := range r.positions {
		if p.Title == title {
			c := *p
			r.mu.Unlock()
			return &c, nil
		}
	}
	r.mu.Unlock()
	return r.add(models.JobPosition{
		Title:        title,
		Department:   department,
		Description:  description,
		Requirements: requirements,
		IsActive:     true,
	}), nil
}

type scheduledTask struct {
	kind        models.TaskKind
	targetID    uuid.UUID
	delay       time.Duration
	maxAttempts int
}

type fakeScheduler struct {
	mu          sync.Mutex
	scheduled   []scheduledTask
	requeued    []scheduledTask
	scheduleErr error
	requeueErr  error
}

func (s *fakeScheduler) Schedule(ctx context.Context, kind models.TaskKind, targetID uuid.UUID, delay time.Duration, maxAttempts int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduleErr != nil {
		return s.scheduleErr
	}
	s.scheduled = append(s.scheduled, scheduledTask{kind: kind, targetID: targetID, delay: delay, maxAttempts: maxAttempts})
	return nil
}

func (s *fakeScheduler) Requeue(ctx context.Context, kind models.TaskKind, targetID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requeueErr != nil {
		return s.requeueErr
	}
	s.requeued = append(s.requeued, scheduledTask{kind: kind, targetID: targetID})
	return nil
}

func (s *fakeScheduler) scheduledCalls() []scheduledTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]scheduledTask(nil), s.scheduled...)
}

func (s *fakeScheduler) requeuedCalls() []scheduledTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]scheduledTask(nil), s.requeued...)
}

type fakeCompletion struct {
	mu      sync.Mutex
	signals []uuid.UUID
	err     error
}

func (f *fakeCompletion) OnResponseSettled(ctx context.Context, interviewID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.signals = append(f.signals, interviewID)
	return nil
}

func (f *fakeCompletion) signalCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.signals)
}

type fakeTranscriber struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Submit(ctx context.Context, mediaRef string) (string, error) {
	return "job-1", f.err
}

func (f *fakeTranscriber) Poll(ctx context.Context, jobID string) (*TranscriptionJob, error) {
	return &TranscriptionJob{ID: jobID, Status: TranscriptionCompleted, Text: f.text}, f.err
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, mediaRef string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeTranscriber) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeToneAnalyzer struct {
	mu     sync.Mutex
	scores map[string]float64
	err    error
	calls  int
}

func (f *fakeToneAnalyzer) Score(ctx context.Context, text string) (map[string]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.scores, nil
}

type notifiedDecision struct {
	email         string
	outcome       models.InterviewStatus
	positionTitle string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notifiedDecision
	err  error
}

func (f *fakeNotifier) Notify(ctx context.Context, candidate *models.Candidate, outcome models.InterviewStatus, positionTitle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, notifiedDecision{email: candidate.Email, outcome: outcome, positionTitle: positionTitle})
	return nil
}

func (f *fakeNotifier) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeChartRenderer struct {
	mu    sync.Mutex
	data  []byte
	err   error
	calls int
}

func (f *fakeChartRenderer) RenderToneChart(responses []models.VideoResponse) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.data == nil {
		return []byte("chart"), nil
	}
	return f.data, nil
}

func (f *fakeChartRenderer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeStorage struct {
	mu      sync.Mutex
	files   map[string][]byte
	saveErr error
	readErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string][]byte)}
}

func (s *fakeStorage) SaveUpload(file *multipart.FileHeader, kind string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	ref := path.Join(kind, file.Filename)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[ref] = data
	return ref, nil
}

func (s *fakeStorage) SaveBytes(data []byte, kind, filename string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	ref := path.Join(kind, filename)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[ref] = append([]byte(nil), data...)
	return ref, nil
}

func (s *fakeStorage) Read(ref string) ([]byte, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[ref]
	if !ok {
		return nil, fmt.Errorf("failed to read %s: no such file", ref)
	}
	return append([]byte(nil), data...), nil
}

func (s *fakeStorage) Path(ref string) string {
	return "/uploads/" + ref
}

func (s *fakeStorage) Delete(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, ref)
	return nil
}

func (s *fakeStorage) EnsureDirs() error { return nil }

func (s *fakeStorage) has(ref string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[ref]
	return ok
}

type fakeIndex struct {
	mu      sync.Mutex
	indexed []uuid.UUID
	err     error
	results []SearchResult
}

func (f *fakeIndex) InitCollection() error { return nil }

func (f *fakeIndex) IndexResponse(ctx context.Context, response *models.VideoResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, response.ID)
	return nil
}

func (f *fakeIndex) RemoveResponse(ctx context.Context, responseID uuid.UUID) error { return nil }

func (f *fakeIndex) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeIndex) indexedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.indexed)
}

type fakeGemini struct {
	text      string
	err       error
	embedding []float32
}

func (f *fakeGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.embedding, nil
}

func (f *fakeGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return f.GenerateText(ctx, prompt, temperature)
}
