// Package jobs provides a named cron job runner for the engine's periodic
// work. One runner instance owns all jobs; overlapping runs of the same
// job are skipped, so handlers never race themselves.
package jobs

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Handler is the body of a periodic job. Errors are logged, never fatal:
// the next tick runs regardless.
type Handler func() error

// Runner schedules named handlers on cron specs.
type Runner struct {
	cron *cron.Cron
	log  *zap.Logger

	mu      sync.Mutex
	running map[string]*atomic.Bool
}

// NewRunner creates a Runner logging to the given logger.
func NewRunner(log *zap.Logger) *Runner {
	return &Runner{
		cron:    cron.New(),
		log:     log,
		running: make(map[string]*atomic.Bool),
	}
}

// Register adds a handler under a unique name on a standard 5-field cron
// spec. Returns an error for a malformed spec or a duplicate name.
func (r *Runner) Register(name, spec string, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.running[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}
	inFlight := &atomic.Bool{}

	if _, err := r.cron.AddFunc(spec, r.wrap(name, inFlight, handler)); err != nil {
		return fmt.Errorf("adding job %q with spec %q: %w", name, spec, err)
	}
	r.running[name] = inFlight
	return nil
}

// wrap guards a handler with the overlap check and logs its outcome.
func (r *Runner) wrap(name string, inFlight *atomic.Bool, handler Handler) func() {
	return func() {
		if !inFlight.CompareAndSwap(false, true) {
			r.log.Warn("skipping overlapping run", zap.String("job", name))
			return
		}
		defer inFlight.Store(false)

		start := time.Now()
		if err := handler(); err != nil {
			r.log.Error("job failed",
				zap.String("job", name),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
			return
		}
		r.log.Info("job completed",
			zap.String("job", name),
			zap.Duration("elapsed", time.Since(start)))
	}
}

// Start begins scheduling in a background goroutine.
func (r *Runner) Start() {
	r.cron.Start()
}

// Stop halts scheduling and waits for in-flight jobs to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}
