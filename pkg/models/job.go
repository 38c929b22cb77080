// Package models defines the shared value types that flow through the
// deployment pipeline: inbound jobs, commit results, and evaluation
// notifications.
package models

// Attachment is a single file attached to a job brief. URL may be a plain
// http(s) link or a data URI of the form data:<mime>;base64,<payload>.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Job is one deployment request cycle. Jobs are immutable, in-memory only,
// and discarded once the pipeline finishes or fails.
type Job struct {
	Email         string       `json:"email"`
	Task          string       `json:"task"`
	Round         int          `json:"round"`
	Nonce         string       `json:"nonce"`
	Brief         string       `json:"brief"`
	Attachments   []Attachment `json:"attachments,omitempty"`
	EvaluationURL string       `json:"evaluation_url"`
}

// CommitResult is produced by the repository sync engine after a successful
// deploy or update.
type CommitResult struct {
	RepoURL   string `json:"repo_url"`
	CommitSHA string `json:"commit_sha"`
	PagesURL  string `json:"pages_url"`
}

// Notification is the payload delivered to the evaluation callback after a
// job's repository work completes.
type Notification struct {
	Email     string `json:"email"`
	Task      string `json:"task"`
	Round     int    `json:"round"`
	Nonce     string `json:"nonce"`
	RepoURL   string `json:"repo_url"`
	CommitSHA string `json:"commit_sha"`
	PagesURL  string `json:"pages_url"`
}

// NewNotification assembles a notification from a job's identity fields and
// the sync engine's commit result.
func NewNotification(job Job, result CommitResult) Notification {
	return Notification{
		Email:     job.Email,
		Task:      job.Task,
		Round:     job.Round,
		Nonce:     job.Nonce,
		RepoURL:   result.RepoURL,
		CommitSHA: result.CommitSHA,
		PagesURL:  result.PagesURL,
	}
}
