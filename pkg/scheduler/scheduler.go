package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"dvsacheck/pkg/config"
	"dvsacheck/pkg/dvsa"
	"dvsacheck/pkg/logger"
	"dvsacheck/pkg/metrics"
)

// Job statuses
const (
	JobStatusScheduled = "scheduled"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// Error variables
var (
	ErrJobNotFound = errors.New("job not found")
	ErrJobRunning  = errors.New("job already running")
	ErrStopped     = errors.New("watcher stopped")
)

// Notifier delivers slot alerts
type Notifier interface {
	SendSlotAlert(ctx context.Context, job, location string, slots []dvsa.TestSlot) error
}

// JobState is the externally visible state of a watch job
type JobState struct {
	Name          string     `json:"name"`
	Cron          string     `json:"cron"`
	Location      string     `json:"location,omitempty"`
	Status        string     `json:"status"`
	LastRun       *time.Time `json:"last_run,omitempty"`
	NextRun       *time.Time `json:"next_run,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
	LastSlotCount int        `json:"last_slot_count"`
	Notifications int        `json:"notifications"`
}

type watchJob struct {
	cfg         config.WatchJob
	state       JobState
	entryID     cron.EntryID
	running     bool
	fingerprint string
}

// Watcher runs configured checks on cron schedules and notifies when the
// available slots change
type Watcher struct {
	cron     *cron.Cron
	checker  dvsa.Checker
	notifier Notifier

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	jobs    map[string]*watchJob
	order   []string
	stopped bool
	active  sync.WaitGroup
}

// NewWatcher creates a watcher for every configured job. notifier may be nil.
func NewWatcher(cfg *config.WatchConfig, checker dvsa.Checker, notifier Notifier) (*Watcher, error) {
	logger.Info("Initializing slot watcher")

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		cron: cron.New(
			cron.WithChain(cron.Recover(cron.DefaultLogger)),
		),
		checker:  checker,
		notifier: notifier,
		ctx:      ctx,
		cancel:   cancel,
		jobs:     make(map[string]*watchJob),
	}

	for _, job := range cfg.Jobs {
		if err := w.AddJob(job); err != nil {
			cancel()
			return nil, err
		}
	}

	logger.Info("Slot watcher initialized", zap.Int("job_count", len(w.jobs)))
	return w, nil
}

// AddJob registers a job with the cron scheduler
func (w *Watcher) AddJob(job config.WatchJob) error {
	if err := job.Validate(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.jobs[job.Name]; exists {
		return fmt.Errorf("duplicate watch job %q", job.Name)
	}

	name := job.Name
	entryID, err := w.cron.AddFunc(job.Cron, func() {
		if err := w.RunJob(w.ctx, name); err != nil && !errors.Is(err, ErrJobRunning) && !errors.Is(err, ErrStopped) {
			logger.Warn("Scheduled check failed", zap.String("job", name), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	w.jobs[name] = &watchJob{
		cfg:     job,
		entryID: entryID,
		state: JobState{
			Name:     name,
			Cron:     job.Cron,
			Location: job.Location,
			Status:   JobStatusScheduled,
		},
	}
	w.order = append(w.order, name)

	logger.Info("Added watch job",
		zap.String("job", name),
		zap.String("cron", job.Cron),
		zap.String("location", job.Location))
	return nil
}

// Start starts the cron scheduler without blocking
func (w *Watcher) Start() {
	logger.Info("Starting slot watcher")
	w.cron.Start()

	for _, state := range w.Jobs() {
		if state.NextRun != nil {
			logger.Info("Scheduled watch job",
				zap.String("job", state.Name),
				zap.Time("next_run", *state.NextRun))
		}
	}
}

// Shutdown stops scheduling and waits for running checks. When ctx ends first the
// checks are cancelled, Shutdown still waits for them to release their browsers,
// and ctx's error is returned.
func (w *Watcher) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down slot watcher")

	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()

	cronCtx := w.cron.Stop()
	idle := make(chan struct{})
	go func() {
		<-cronCtx.Done()
		w.active.Wait()
		close(idle)
	}()

	select {
	case <-idle:
		logger.Info("All watch jobs completed")
		w.cancel()
		return nil
	case <-ctx.Done():
		logger.Warn("Watcher shutdown timeout, cancelling running checks")
	}

	w.cancel()
	<-idle
	return fmt.Errorf("watcher shutdown: %w", ctx.Err())
}

// Jobs returns a snapshot of every job in configuration order
func (w *Watcher) Jobs() []JobState {
	w.mu.RLock()
	defer w.mu.RUnlock()

	states := make([]JobState, 0, len(w.order))
	for _, name := range w.order {
		job := w.jobs[name]
		state := job.state
		if next := w.cron.Entry(job.entryID).Next; !next.IsZero() {
			state.NextRun = &next
		}
		states = append(states, state)
	}
	return states
}

// RunJob runs one check for the named job now. Concurrent runs of the same job
// are rejected with ErrJobRunning.
func (w *Watcher) RunJob(ctx context.Context, name string) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrStopped
	}
	job, exists := w.jobs[name]
	if !exists {
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	if job.running {
		w.mu.Unlock()
		metrics.ObserveWatchRun(name, "skipped")
		return fmt.Errorf("%w: %s", ErrJobRunning, name)
	}
	job.running = true
	now := time.Now()
	job.state.Status = JobStatusRunning
	job.state.LastRun = &now
	cfg := job.cfg
	w.active.Add(1)
	w.mu.Unlock()
	defer w.active.Done()

	// checks end when either the caller or the watcher is cancelled
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(w.ctx, cancel)
	defer stop()

	ctx = logger.WithJob(ctx, name)
	log := logger.FromContext(ctx)
	log.Info("Executing watch job")

	result, err := w.checker.Check(ctx, requestFor(cfg))

	w.mu.Lock()
	job.running = false
	if err != nil {
		job.state.Status = JobStatusFailed
		job.state.LastError = err.Error()
		w.mu.Unlock()

		metrics.ObserveWatchRun(name, dvsa.OutcomeOf(err))
		return err
	}

	job.state.Status = JobStatusCompleted
	job.state.LastError = ""
	job.state.LastSlotCount = len(result.Slots)
	fingerprint := slotFingerprint(result.Slots)
	changed := fingerprint != job.fingerprint
	job.fingerprint = fingerprint
	w.mu.Unlock()

	metrics.ObserveWatchRun(name, metrics.OutcomeSuccess)
	log.Info("Watch job completed", logger.CountField(len(result.Slots)), zap.Bool("changed", changed))

	if !changed || w.notifier == nil {
		return nil
	}
	if err := w.notifier.SendSlotAlert(ctx, name, cfg.Location, result.Slots); err != nil {
		log.Warn("Failed to send slot alert", zap.Error(err))
		return nil
	}

	w.mu.Lock()
	job.state.Notifications++
	w.mu.Unlock()
	return nil
}

func requestFor(job config.WatchJob) dvsa.CheckRequest {
	kind := dvsa.ApplicationReferenceNumber
	if job.IsTheoryNumber {
		kind = dvsa.TheoryPassNumber
	}
	req := dvsa.CheckRequest{
		Credentials: dvsa.Credentials{
			LicenceNumber:       job.LicenceNumber,
			SecondaryIdentifier: job.SecondNumber,
			IdentifierKind:      kind,
		},
	}
	if location := strings.TrimSpace(job.Location); location != "" {
		req.Location = &location
	}
	return req
}

// slotFingerprint is order independent; "" means no slots
func slotFingerprint(slots []dvsa.TestSlot) string {
	keys := make([]string, 0, len(slots))
	for _, s := range slots {
		keys = append(keys, s.Date+"|"+s.Time+"|"+s.Location)
	}
	sort.Strings(keys)
	return strings.Join(keys, "\n")
}
