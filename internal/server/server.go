// Package server implements the HTTP front door: it authenticates inbound
// deployment jobs and hands them to the pipeline dispatcher. Submitters
// receive only an "accepted for processing" acknowledgment; acceptance
// means scheduled, never succeeded.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ShayCichocki/pagesmith/pkg/models"
)

// JobSubmitter schedules a job for background execution.
type JobSubmitter interface {
	Submit(job models.Job) string
}

// Server is the HTTP front door.
type Server struct {
	secret    string
	submitter JobSubmitter
	router    chi.Router
}

// New creates a Server authenticating requests against the shared secret.
func New(secret string, submitter JobSubmitter) *Server {
	s := &Server{
		secret:    secret,
		submitter: submitter,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/api-endpoint", s.handleDeploymentRequest)
	r.Get("/health", s.handleHealth)

	s.router = r
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the given port until the listener fails.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("[server] listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// deploymentRequest is the inbound job envelope. Round is a pointer so a
// missing field is distinguishable from round 0.
type deploymentRequest struct {
	Email         string              `json:"email"`
	Secret        string              `json:"secret"`
	Task          string              `json:"task"`
	Round         *int                `json:"round"`
	Nonce         string              `json:"nonce"`
	Brief         string              `json:"brief"`
	Attachments   []models.Attachment `json:"attachments"`
	EvaluationURL string              `json:"evaluation_url"`
}

// missingFields lists required request fields that are absent.
func (r *deploymentRequest) missingFields() []string {
	var missing []string

	if r.Email == "" {
		missing = append(missing, "email")
	}
	if r.Secret == "" {
		missing = append(missing, "secret")
	}
	if r.Task == "" {
		missing = append(missing, "task")
	}
	if r.Round == nil {
		missing = append(missing, "round")
	}
	if r.Nonce == "" {
		missing = append(missing, "nonce")
	}
	if r.Brief == "" {
		missing = append(missing, "brief")
	}
	if r.EvaluationURL == "" {
		missing = append(missing, "evaluation_url")
	}

	return missing
}

// handleDeploymentRequest validates and authenticates an inbound job, then
// schedules it and acknowledges immediately.
func (s *Server) handleDeploymentRequest(w http.ResponseWriter, r *http.Request) {
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		writeError(w, http.StatusBadRequest, "Content-Type must be application/json")
		return
	}

	var req deploymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if missing := req.missingFields(); len(missing) > 0 {
		writeError(w, http.StatusBadRequest,
			"Missing required fields: "+strings.Join(missing, ", "))
		return
	}

	if req.Secret != s.secret {
		log.Printf("[server] invalid secret provided for task %s", req.Task)
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if *req.Round < 1 {
		writeError(w, http.StatusBadRequest, "round must be >= 1")
		return
	}

	job := models.Job{
		Email:         req.Email,
		Task:          req.Task,
		Round:         *req.Round,
		Nonce:         req.Nonce,
		Brief:         req.Brief,
		Attachments:   req.Attachments,
		EvaluationURL: req.EvaluationURL,
	}

	dispatchID := s.submitter.Submit(job)
	log.Printf("[server] accepted task %s round %d as job %s", job.Task, job.Round, dispatchID)

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "Request received and is being processed.",
	})
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "pagesmith",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[server] writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
