// Package scheduler fires a delivery callback at most once per registered
// reminder job.
//
// A [Scheduler] owns a thread-safe table of pending one-shot timers keyed by
// opaque job ids and the single injected delivery callback. The job table is
// in-memory only; re-registering persisted reminders after a restart is the
// engine's job. Delivery is best-effort: a failing (or panicking) callback
// is logged and never retried.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rfaisal/noteminder/internal/shared"
	"golang.org/x/time/rate"
)

// DeliveryFunc is the process-wide hook invoked when a reminder fires. The
// transport layer looks the note up through the store to render it.
type DeliveryFunc func(userID string, noteID int) error

// Config holds the settings for constructing a [Scheduler].
type Config struct {
	// DispatchRate and DispatchBurst bound callback invocations per second.
	// A burst of simultaneously due jobs (startup recovery of overdue
	// reminders, clock jumps) drains at this rate instead of stampeding the
	// callback. Zero values mean unlimited.
	DispatchRate  float64
	DispatchBurst int
	Logger        *log.Logger      // defaults to a stderr logger
	Now           func() time.Time // clock, defaults to time.Now
}

// Scheduler registers one-shot timers and fires the delivery callback at
// each job's due time. Construct with [New]; all methods are safe for
// concurrent use.
type Scheduler struct {
	mu      sync.Mutex
	jobs    map[string]*job
	deliver DeliveryFunc
	closed  bool

	limiter *rate.Limiter
	logger  *log.Logger
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type job struct {
	id     string
	userID string
	noteID int
	fireAt time.Time
	timer  *time.Timer
}

// New creates a started scheduler. It accepts jobs until [Scheduler.Shutdown].
func New(config Config) *Scheduler {
	if config.Logger == nil {
		config.Logger = shared.NewLogger(nil)
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	limit := rate.Inf
	if config.DispatchRate > 0 {
		limit = rate.Limit(config.DispatchRate)
	}
	burst := config.DispatchBurst
	if burst < 1 {
		burst = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:    map[string]*job{},
		limiter: rate.NewLimiter(limit, burst),
		logger:  config.Logger,
		now:     config.Now,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SetDeliveryCallback installs the function invoked when a timer fires.
// Jobs that fire with no callback installed are logged and dropped, not
// retried.
func (s *Scheduler) SetDeliveryCallback(fn DeliveryFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliver = fn
}

// Schedule registers a one-shot timer for (userID, noteID) at fireAt and
// returns its opaque job id. A fireAt in the past fires immediately, exactly
// once. Returns [shared.ErrSchedulerClosed] after shutdown.
func (s *Scheduler) Schedule(userID string, noteID int, fireAt time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", shared.ErrSchedulerClosed
	}

	j := &job{
		id:     shared.GenerateID(),
		userID: userID,
		noteID: noteID,
		fireAt: fireAt.UTC(),
	}

	delay := j.fireAt.Sub(s.now())
	if delay < 0 {
		delay = 0
	}
	j.timer = time.AfterFunc(delay, func() { s.fire(j.id) })
	s.jobs[j.id] = j

	s.logger.Info("scheduled reminder", "job", j.id, "user", userID, "note", noteID, "at", j.fireAt)
	return j.id, nil
}

// Cancel removes the pending timer for jobID. Cancelling an unknown,
// already-fired, or already-cancelled job is a no-op: when cancel races the
// firing, already-fired wins and the single delivery stands.
func (s *Scheduler) Cancel(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return
	}
	j.timer.Stop()
	delete(s.jobs, jobID)
	s.logger.Info("cancelled reminder", "job", jobID, "user", j.userID, "note", j.noteID)
}

// Pending returns the number of not-yet-fired jobs.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Shutdown stops accepting new timers, discards pending ones, and waits for
// in-flight delivery callbacks to complete. Idempotent.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for id, j := range s.jobs {
		j.timer.Stop()
		delete(s.jobs, id)
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// fire runs in the timer's goroutine. The job is claimed (removed from the
// table) before anything else, so a concurrent Cancel either wins cleanly or
// becomes a no-op.
func (s *Scheduler) fire(jobID string) {
	s.mu.Lock()
	j, ok := s.jobs[jobID]
	if !ok || s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.jobs, jobID)
	deliver := s.deliver
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	if deliver == nil {
		s.logger.Warn("no delivery callback installed, dropping reminder", "job", j.id, "user", j.userID, "note", j.noteID)
		return
	}

	if err := s.limiter.Wait(s.ctx); err != nil {
		s.logger.Warn("dropping reminder during shutdown", "job", j.id, "user", j.userID, "note", j.noteID)
		return
	}

	if err := s.invoke(deliver, j); err != nil {
		// At-most-once, best-effort: log and move on, never retry.
		s.logger.Error("reminder delivery failed", "job", j.id, "user", j.userID, "note", j.noteID, "err", err)
		return
	}
	s.logger.Info("reminder delivered", "job", j.id, "user", j.userID, "note", j.noteID)
}

func (s *Scheduler) invoke(fn DeliveryFunc, j *job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("delivery callback panicked: %v", r)
		}
	}()
	return fn(j.userID, j.noteID)
}
