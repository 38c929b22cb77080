// Package notify delivers job outcomes to evaluation callbacks with
// bounded-retry semantics.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ShayCichocki/pagesmith/internal/version"
	"github.com/ShayCichocki/pagesmith/pkg/models"
)

// Notifier sends notification payloads with exponential backoff. Success is
// recognized only on an exact HTTP 200; every other status, timeout, or
// transport error is a failure and is retried identically.
type Notifier struct {
	client     *http.Client
	maxRetries int
	baseDelay  time.Duration

	// sleep is swappable so tests can observe the backoff schedule.
	sleep func(time.Duration)
}

// Config contains configuration for creating a Notifier.
type Config struct {
	// MaxRetries is the number of retries after the first attempt (so
	// MaxRetries+1 total attempts). Defaults to 4.
	MaxRetries int
	// BaseDelay is the backoff unit; the delay before retry i is
	// BaseDelay * 2^(i-1). Defaults to 1s.
	BaseDelay time.Duration
	// Timeout bounds each individual POST. Defaults to 30s.
	Timeout time.Duration
}

// New creates a Notifier.
func New(cfg Config) *Notifier {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 4
	}
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Notifier{
		client:     &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
		sleep:      time.Sleep,
	}
}

// Validate checks a payload's structure and content: all fields present,
// http(s) URLs, round >= 1, a plausible commit SHA, and a plausible email.
// It is pure and side-effect free.
func (n *Notifier) Validate(p models.Notification) error {
	missing := missingFields(p)
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	if !hasHTTPScheme(p.RepoURL) {
		return fmt.Errorf("invalid repo_url format: %s", p.RepoURL)
	}
	if !hasHTTPScheme(p.PagesURL) {
		return fmt.Errorf("invalid pages_url format: %s", p.PagesURL)
	}

	if p.Round < 1 {
		return fmt.Errorf("round must be >= 1, got %d", p.Round)
	}

	if len(p.CommitSHA) < 7 {
		return fmt.Errorf("invalid commit SHA format: %s", p.CommitSHA)
	}

	if !strings.Contains(p.Email, "@") || !strings.Contains(p.Email, ".") {
		return fmt.Errorf("invalid email format: %s", p.Email)
	}

	return nil
}

// SendWithRetry delivers the payload, retrying failures with exponential
// backoff (1s, 2s, 4s, 8s at the defaults). It returns false immediately,
// without any network call, if the URL lacks an http(s) scheme or a
// required field is absent. After exhausting all attempts it returns false;
// the caller only logs, there is no further escalation.
func (n *Notifier) SendWithRetry(url string, p models.Notification) bool {
	log.Printf("[notify] starting notification for task %s", p.Task)

	// Hard precondition, checked independently of Validate.
	if missing := missingFields(p); len(missing) > 0 {
		log.Printf("[notify] missing required fields: %s", strings.Join(missing, ", "))
		return false
	}
	if !hasHTTPScheme(url) {
		log.Printf("[notify] invalid evaluation URL: %s", url)
		return false
	}

	attempts := n.maxRetries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		log.Printf("[notify] attempt %d/%d", attempt+1, attempts)

		if n.deliver(url, p) {
			log.Printf("[notify] delivered on attempt %d", attempt+1)
			return true
		}

		if attempt < n.maxRetries {
			delay := n.baseDelay * (1 << attempt)
			log.Printf("[notify] delivery failed, retrying in %v", delay)
			n.sleep(delay)
		}
	}

	log.Printf("[notify] all %d attempts failed", attempts)
	return false
}

// deliver performs a single POST. Success is exactly HTTP 200; a 4xx is a
// failure exactly like a 5xx, a timeout, or a connection error.
func (n *Notifier) deliver(url string, p models.Notification) bool {
	body, err := json.Marshal(p)
	if err != nil {
		log.Printf("[notify] marshaling payload: %v", err)
		return false
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Printf("[notify] building request: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "pagesmith/"+version.Get())

	resp, err := n.client.Do(req)
	if err != nil {
		log.Printf("[notify] request failed: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[notify] delivery rejected with status %d", resp.StatusCode)
		return false
	}

	return true
}

// missingFields lists required payload fields that are absent.
func missingFields(p models.Notification) []string {
	var missing []string

	if p.Email == "" {
		missing = append(missing, "email")
	}
	if p.Task == "" {
		missing = append(missing, "task")
	}
	if p.Round == 0 {
		missing = append(missing, "round")
	}
	if p.Nonce == "" {
		missing = append(missing, "nonce")
	}
	if p.RepoURL == "" {
		missing = append(missing, "repo_url")
	}
	if p.CommitSHA == "" {
		missing = append(missing, "commit_sha")
	}
	if p.PagesURL == "" {
		missing = append(missing, "pages_url")
	}

	return missing
}

// hasHTTPScheme reports whether a URL starts with an http or https scheme.
func hasHTTPScheme(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}
