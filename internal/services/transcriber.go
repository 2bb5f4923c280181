package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"
)

type TranscriptionStatus string

const (
	TranscriptionPending   TranscriptionStatus = "PENDING"
	TranscriptionCompleted TranscriptionStatus = "COMPLETED"
	TranscriptionFailed    TranscriptionStatus = "FAILED"
)

type TranscriptionJob struct {
	ID     string
	Status TranscriptionStatus
	Text   string
}

// Transcriber is the speech-to-text boundary. Transcribe is the blocking
// submit-then-poll flow the pipeline uses: a job that reports FAILED or that
// outlives the wall-clock timeout yields an empty transcript and a nil
// error, because an unusable recording degrades the response rather than
// failing it. Transport errors are returned for the retry scheduler.
type Transcriber interface {
	Submit(ctx context.Context, mediaRef string) (string, error)
	Poll(ctx context.Context, jobID string) (*TranscriptionJob, error)
	Transcribe(ctx context.Context, mediaRef string) (string, error)
}

type httpTranscriber struct {
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	timeout      time.Duration
	storage      StorageService
	httpClient   *http.Client
}

func NewHTTPTranscriber(baseURL, apiKey string, pollInterval, timeout time.Duration, storage StorageService) Transcriber {
	return &httpTranscriber{
		baseURL:      baseURL,
		apiKey:       apiKey,
		pollInterval: pollInterval,
		timeout:      timeout,
		storage:      storage,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Submit implements Transcriber.
func (t *httpTranscriber) Submit(ctx context.Context, mediaRef string) (string, error) {
	media, err := t.storage.Read(mediaRef)
	if err != nil {
		return "", Permanent(fmt.Errorf("media unavailable: %w", err))
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("media", path.Base(mediaRef))
	if err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(media); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if err := writer.WriteField("reference", fmt.Sprintf("smarthire_%s", uuid.New().String()[:8])); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v1/transcripts", &body)
	if err != nil {
		return "", fmt.Errorf("failed to build submit request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit transcription: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		// The service will never accept this media, retrying cannot help.
		return "", Permanent(fmt.Errorf("transcription service rejected media: %s", resp.Status))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("transcription submit failed: %s", resp.Status)
	}

	var job struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return "", fmt.Errorf("failed to decode submit response: %w", err)
	}
	if job.ID == "" {
		return "", fmt.Errorf("transcription submit returned no job id")
	}

	return job.ID, nil
}

// Poll implements Transcriber.
func (t *httpTranscriber) Poll(ctx context.Context, jobID string) (*TranscriptionJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/v1/transcripts/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build poll request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to poll transcription: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("transcription poll failed: %s: %s", resp.Status, bytes.TrimSpace(body))
	}

	var payload struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode poll response: %w", err)
	}

	return &TranscriptionJob{
		ID:     payload.ID,
		Status: TranscriptionStatus(payload.Status),
		Text:   payload.Text,
	}, nil
}

// Transcribe implements Transcriber.
func (t *httpTranscriber) Transcribe(ctx context.Context, mediaRef string) (string, error) {
	jobID, err := t.Submit(ctx, mediaRef)
	if err != nil {
		return "", err
	}

	deadline := time.Now().Add(t.timeout)
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		job, err := t.Poll(ctx, jobID)
		if err != nil {
			return "", err
		}

		switch job.Status {
		case TranscriptionCompleted:
			return job.Text, nil
		case TranscriptionFailed:
			log.Printf("⚠️  Transcription job %s failed, continuing with empty transcript\n", jobID)
			return "", nil
		}

		if time.Now().After(deadline) {
			log.Printf("⚠️  Transcription job %s timed out after %s, continuing with empty transcript\n", jobID, t.timeout)
			return "", nil
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
