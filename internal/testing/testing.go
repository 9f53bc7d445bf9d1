// package testing contains shared testing utilities
package testing

import (
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rfaisal/noteminder/internal/shared"
)

// Clock is a controllable time source. Each Now call returns the current
// instant and then advances it by step, so consecutive store writes get
// distinct backup timestamps without real sleeping.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewClock creates a clock starting at start, advancing by step per Now call.
func NewClock(start time.Time, step time.Duration) *Clock {
	return &Clock{now: start, step: step}
}

// Now returns the clock's current instant and ticks it forward.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Delivery records one invocation of the scheduler's delivery callback.
type Delivery struct {
	UserID string
	NoteID int
}

// Recorder is a delivery callback that captures every invocation and signals
// each one on a channel for synchronization with timer goroutines.
type Recorder struct {
	mu    sync.Mutex
	calls []Delivery
	err   error
	ch    chan Delivery
}

func NewRecorder() *Recorder {
	return &Recorder{ch: make(chan Delivery, 64)}
}

// Deliver implements the scheduler's delivery callback.
func (r *Recorder) Deliver(userID string, noteID int) error {
	r.mu.Lock()
	d := Delivery{UserID: userID, NoteID: noteID}
	r.calls = append(r.calls, d)
	err := r.err
	r.mu.Unlock()

	r.ch <- d
	return err
}

// Fail makes every subsequent delivery return err.
func (r *Recorder) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Calls returns a snapshot of everything delivered so far.
func (r *Recorder) Calls() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Delivery(nil), r.calls...)
}

// Wait blocks until one delivery arrives or the timeout expires.
func (r *Recorder) Wait(t *testing.T, timeout time.Duration) Delivery {
	t.Helper()
	select {
	case d := <-r.ch:
		return d
	case <-time.After(timeout):
		t.Fatalf("timed out after %v waiting for a delivery", timeout)
		return Delivery{}
	}
}

// AssertNone fails the test if any delivery arrives within wait.
func (r *Recorder) AssertNone(t *testing.T, wait time.Duration) {
	t.Helper()
	select {
	case d := <-r.ch:
		t.Fatalf("unexpected delivery for user %s note %d", d.UserID, d.NoteID)
	case <-time.After(wait):
	}
}

// QuietLogger returns a logger that discards everything, keeping test output
// readable.
func QuietLogger() *log.Logger {
	return shared.NewLogger(io.Discard)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
