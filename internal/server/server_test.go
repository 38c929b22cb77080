package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ShayCichocki/pagesmith/pkg/models"
)

type fakeSubmitter struct {
	mu   sync.Mutex
	jobs []models.Job
}

func (f *fakeSubmitter) Submit(job models.Job) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return "test-id"
}

func (f *fakeSubmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs)
}

func validBody() map[string]any {
	return map[string]any{
		"email":          "dev@example.com",
		"secret":         "s3cret",
		"task":           "demo-task",
		"round":          1,
		"nonce":          "n-1",
		"brief":          "build a dashboard",
		"evaluation_url": "https://eval.example/cb",
	}
}

func postJSON(t *testing.T, handler http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api-endpoint", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return body
}

func TestAcceptedRequestIsDispatched(t *testing.T) {
	submitter := &fakeSubmitter{}
	s := New("s3cret", submitter)

	body := validBody()
	body["attachments"] = []map[string]string{
		{"name": "data.csv", "url": "data:text/csv;base64,YSxi"},
	}

	rec := postJSON(t, s.Handler(), body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec)["status"]; got != "Request received and is being processed." {
		t.Errorf("unexpected ack message %q", got)
	}

	if submitter.count() != 1 {
		t.Fatalf("expected 1 dispatched job, got %d", submitter.count())
	}

	job := submitter.jobs[0]
	if job.Email != "dev@example.com" || job.Task != "demo-task" || job.Round != 1 {
		t.Errorf("job fields not carried through: %+v", job)
	}
	if job.EvaluationURL != "https://eval.example/cb" {
		t.Errorf("evaluation URL not carried through: %q", job.EvaluationURL)
	}
	if len(job.Attachments) != 1 || job.Attachments[0].Name != "data.csv" {
		t.Errorf("attachments not carried through: %+v", job.Attachments)
	}
}

func TestWrongSecretIsUnauthorized(t *testing.T) {
	submitter := &fakeSubmitter{}
	s := New("s3cret", submitter)

	body := validBody()
	body["secret"] = "wrong"

	rec := postJSON(t, s.Handler(), body)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if submitter.count() != 0 {
		t.Error("unauthorized requests must not be dispatched")
	}
}

func TestMissingFieldsAreRejected(t *testing.T) {
	submitter := &fakeSubmitter{}
	s := New("s3cret", submitter)

	body := validBody()
	delete(body, "brief")
	delete(body, "round")

	rec := postJSON(t, s.Handler(), body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	msg := decodeBody(t, rec)["error"]
	if !strings.Contains(msg, "round") || !strings.Contains(msg, "brief") {
		t.Errorf("error should name the missing fields, got %q", msg)
	}
	if submitter.count() != 0 {
		t.Error("invalid requests must not be dispatched")
	}
}

func TestSecretCheckedAfterFieldValidation(t *testing.T) {
	// A request missing fields gets a 400, not a 401, even with a bad
	// secret, so the error names what to fix first.
	submitter := &fakeSubmitter{}
	s := New("s3cret", submitter)

	body := validBody()
	body["secret"] = "wrong"
	delete(body, "email")

	rec := postJSON(t, s.Handler(), body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestNonJSONContentTypeRejected(t *testing.T) {
	submitter := &fakeSubmitter{}
	s := New("s3cret", submitter)

	req := httptest.NewRequest(http.MethodPost, "/api-endpoint", strings.NewReader("email=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if submitter.count() != 0 {
		t.Error("non-JSON requests must not be dispatched")
	}
}

func TestMalformedJSONRejected(t *testing.T) {
	submitter := &fakeSubmitter{}
	s := New("s3cret", submitter)

	req := httptest.NewRequest(http.MethodPost, "/api-endpoint", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestZeroRoundRejected(t *testing.T) {
	submitter := &fakeSubmitter{}
	s := New("s3cret", submitter)

	body := validBody()
	body["round"] = 0

	rec := postJSON(t, s.Handler(), body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if submitter.count() != 0 {
		t.Error("round 0 must not be dispatched")
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := New("s3cret", &fakeSubmitter{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["status"]; got != "healthy" {
		t.Errorf("unexpected health status %q", got)
	}
}
