// Package pipeline coordinates one deployment job from brief to delivered
// notification: synthesize, sync the repository, notify the evaluator.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ShayCichocki/pagesmith/pkg/models"
)

// ErrDeliveryFailed indicates every notification attempt was exhausted.
// It is terminal for the job and observable only via logs.
var ErrDeliveryFailed = errors.New("notification delivery failed")

// Synthesizer produces the artifact document for a brief.
type Synthesizer interface {
	Generate(ctx context.Context, brief string, attachments []models.Attachment) (string, error)
}

// Deployer owns the remote repository lifecycle for a job.
type Deployer interface {
	// CreateAndDeploy is the round-1 path: create-or-reuse, full file set,
	// hosting activation.
	CreateAndDeploy(ctx context.Context, taskID, artifact, brief string) (models.CommitResult, error)
	// Update is the round->1 path: the repository must already exist.
	Update(ctx context.Context, taskID, artifact, brief string) (models.CommitResult, error)
}

// Sender delivers the outcome payload to the evaluation callback.
type Sender interface {
	SendWithRetry(url string, p models.Notification) bool
}

// Pipeline runs jobs sequentially: synthesize, sync, notify. There is no
// parallelism across a single job's stages.
type Pipeline struct {
	synth    Synthesizer
	deployer Deployer
	notifier Sender
	debug    *DebugLogger
}

// New creates a Pipeline. A nil debug logger disables job tracing.
func New(synth Synthesizer, deployer Deployer, notifier Sender, debug *DebugLogger) *Pipeline {
	if debug == nil {
		debug = NopLogger()
	}

	return &Pipeline{
		synth:    synth,
		deployer: deployer,
		notifier: notifier,
		debug:    debug,
	}
}

// Run executes the pipeline for one job. Any error from synthesis or the
// sync engine aborts the job entirely; the notifier is never invoked in
// that case. An exhausted notifier yields ErrDeliveryFailed with no
// further escalation.
func (p *Pipeline) Run(ctx context.Context, job models.Job) error {
	log.Printf("[pipeline] processing task %s round %d", job.Task, job.Round)
	p.debug.Log("task %s round %d: synthesis starting", job.Task, job.Round)

	artifact, err := p.synth.Generate(ctx, job.Brief, job.Attachments)
	if err != nil {
		return fmt.Errorf("synthesis for task %s: %w", job.Task, err)
	}
	p.debug.Log("task %s: synthesized %d bytes", job.Task, len(artifact))

	var result models.CommitResult
	if job.Round == 1 {
		result, err = p.deployer.CreateAndDeploy(ctx, job.Task, artifact, job.Brief)
	} else {
		result, err = p.deployer.Update(ctx, job.Task, artifact, job.Brief)
	}
	if err != nil {
		return fmt.Errorf("repository sync for task %s: %w", job.Task, err)
	}
	p.debug.Log("task %s: deployed commit %s at %s", job.Task, result.CommitSHA, result.PagesURL)

	payload := models.NewNotification(job, result)
	if !p.notifier.SendWithRetry(job.EvaluationURL, payload) {
		p.debug.Log("task %s: notification delivery exhausted", job.Task)
		return fmt.Errorf("task %s: %w", job.Task, ErrDeliveryFailed)
	}

	p.debug.Log("task %s round %d: complete", job.Task, job.Round)
	log.Printf("[pipeline] task %s round %d complete", job.Task, job.Round)
	return nil
}
