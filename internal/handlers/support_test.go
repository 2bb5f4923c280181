package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"smarthire/internal/models"
	"smarthire/internal/repositories"
)

// Stub services for handler tests. The handlers own request parsing and
// error-to-status mapping; the stubs record what reached the service layer
// and return whatever the test pinned.

type evaluationCall struct {
	interviewID uuid.UUID
	hrID        uuid.UUID
	notes       string
}

type decisionCall struct {
	interviewID uuid.UUID
	hrID        uuid.UUID
	outcome     models.InterviewStatus
}

type stubDecisionService struct {
	interview *models.Interview
	err       error

	evaluations []evaluationCall
	decisions   []decisionCall
}

func (s *stubDecisionService) SaveEvaluation(ctx context.Context, interviewID, hrID uuid.UUID, notes string) (*models.Interview, error) {
	s.evaluations = append(s.evaluations, evaluationCall{interviewID: interviewID, hrID: hrID, notes: notes})
	if s.err != nil {
		return nil, s.err
	}
	return s.interview, nil
}

func (s *stubDecisionService) Decide(ctx context.Context, interviewID, hrID uuid.UUID, outcome models.InterviewStatus) (*models.Interview, error) {
	s.decisions = append(s.decisions, decisionCall{interviewID: interviewID, hrID: hrID, outcome: outcome})
	if s.err != nil {
		return nil, s.err
	}
	return s.interview, nil
}

type submitCall struct {
	interviewID    uuid.UUID
	questionNumber int
	filename       string
}

type stubSubmissionService struct {
	interview *models.Interview
	questions []models.InterviewQuestion
	response  *models.VideoResponse
	err       error

	started []uuid.UUID
	submits []submitCall
	retries []uuid.UUID
}

func (s *stubSubmissionService) StartInterview(ctx context.Context, candidateID uuid.UUID, positionID *uuid.UUID) (*models.Interview, []models.InterviewQuestion, error) {
	s.started = append(s.started, candidateID)
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.interview, s.questions, nil
}

func (s *stubSubmissionService) SubmitResponse(ctx context.Context, interviewID uuid.UUID, questionNumber int, file *multipart.FileHeader) (*models.VideoResponse, error) {
	s.submits = append(s.submits, submitCall{interviewID: interviewID, questionNumber: questionNumber, filename: file.Filename})
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func (s *stubSubmissionService) RetryResponse(ctx context.Context, responseID uuid.UUID) error {
	s.retries = append(s.retries, responseID)
	return s.err
}

// stubInterviewRepo and stubResponseRepo back the read-only summary and chart
// endpoints. The embedded interface satisfies the methods those handlers
// never touch.

type stubInterviewRepo struct {
	repositories.InterviewRepository

	interview *models.Interview
}

func (s *stubInterviewRepo) FindByID(id uuid.UUID) (*models.Interview, error) {
	if s.interview == nil || s.interview.ID != id {
		return nil, fmt.Errorf("interview %s: %w", id, repositories.ErrNotFound)
	}
	return s.interview, nil
}

type stubResponseRepo struct {
	repositories.ResponseRepository

	responses []models.VideoResponse
	listErr   error
}

func (s *stubResponseRepo) ListByInterview(interviewID uuid.UUID) ([]models.VideoResponse, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.responses, nil
}

func fptr(v float64) *float64 {
	return &v
}

func jsonRequest(t *testing.T, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(fiber.MethodPost, target, bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

// multipartRequest builds the submission form: string fields plus, when
// fileField is set, one uploaded file.
func multipartRequest(t *testing.T, target string, fields map[string]string, fileField, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write form field %s: %v", key, err)
		}
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodPost, target, &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	return req
}

func performRequest(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decodeJSON(t, resp, &body)
	return body.Error
}
