package pipeline

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/ShayCichocki/pagesmith/pkg/models"
)

// Dispatcher runs one background task per submitted job. Tasks are
// unqueued and unbounded in count; nothing is persisted, so a process
// restart silently drops all in-flight jobs. There is deliberately no
// result channel back to the submitter.
type Dispatcher struct {
	pipeline *Pipeline

	// active tracks running jobs by dispatch id
	active map[string]models.Job
	mu     sync.RWMutex

	// ctx and cancel for dispatcher lifecycle
	ctx    context.Context
	cancel context.CancelFunc

	// wg tracks running jobs
	wg sync.WaitGroup
}

// NewDispatcher creates a Dispatcher executing jobs on the given pipeline.
func NewDispatcher(p *Pipeline) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		pipeline: p,
		active:   make(map[string]models.Job),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Submit schedules a job on its own background task and returns the
// dispatch id immediately. Pipeline failures are terminal for the job and
// observable only via logs.
func (d *Dispatcher) Submit(job models.Job) string {
	dispatchID := uuid.New().String()[:8]

	d.mu.Lock()
	d.active[dispatchID] = job
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		if err := d.pipeline.Run(d.ctx, job); err != nil {
			log.Printf("[dispatcher] job %s (task %s) failed: %v", dispatchID, job.Task, err)
		}

		d.mu.Lock()
		delete(d.active, dispatchID)
		d.mu.Unlock()
	}()

	return dispatchID
}

// Stop waits for all running jobs to complete.
func (d *Dispatcher) Stop() {
	d.cancel()
	d.wg.Wait()
}

// Count returns the number of running jobs.
func (d *Dispatcher) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.active)
}
