package engine

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rfaisal/noteminder/internal/models"
	"github.com/rfaisal/noteminder/internal/scheduler"
	"github.com/rfaisal/noteminder/internal/shared"
	"github.com/rfaisal/noteminder/internal/store"
	"github.com/rfaisal/noteminder/internal/wizard"
)

// Engine coordinates the persistent store and the reminder scheduler.
type Engine struct {
	store  *store.Store
	sched  *scheduler.Scheduler
	logger *log.Logger
}

// New creates an engine over the given store and scheduler.
func New(st *store.Store, sched *scheduler.Scheduler, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{store: st, sched: sched, logger: logger}
}

// Store exposes the underlying store for plain reads and category/note CRUD
// that involves no timers.
func (e *Engine) Store() *store.Store {
	return e.store
}

// SetDeliveryCallback installs the transport's delivery function. The engine
// wraps it so that once a job fires, the note's reminder is marked inactive
// and its job id cleared - on failed delivery too, since delivery is
// at-most-once and the job is spent either way.
func (e *Engine) SetDeliveryCallback(fn scheduler.DeliveryFunc) {
	e.sched.SetDeliveryCallback(func(userID string, noteID int) error {
		defer e.settleReminder(userID, noteID)
		return fn(userID, noteID)
	})
}

// settleReminder records that the note's scheduled job is spent.
func (e *Engine) settleReminder(userID string, noteID int) {
	note, ok := e.store.GetNote(userID, noteID)
	if !ok || note.Reminder.Kind != models.ReminderScheduled {
		return
	}

	r := note.Reminder
	r.JobID = ""
	r.IsActive = false
	if _, err := e.store.UpdateNote(userID, noteID, models.NoteUpdate{Reminder: &r}); err != nil {
		e.logger.Error("failed to settle fired reminder", "user", userID, "note", noteID, "err", err)
	}
}

// ScheduleReminder registers a one-shot delivery for the note at fireAt and
// persists the resulting job id on the note. An existing live job for the
// note is cancelled first, so rescheduling is just calling this again; at
// most one timer is ever in flight per note. If persisting fails, the fresh
// timer is rolled back and the error returned.
func (e *Engine) ScheduleReminder(userID string, noteID int, fireAt time.Time) (string, error) {
	note, ok := e.store.GetNote(userID, noteID)
	if !ok {
		return "", shared.ErrNoteNotFound
	}

	if old := note.Reminder.JobID; old != "" {
		// Tolerates the job having already fired; see scheduler.Cancel.
		e.sched.Cancel(old)
	}

	jobID, err := e.sched.Schedule(userID, noteID, fireAt)
	if err != nil {
		return "", err
	}

	r := models.ScheduledReminder(fireAt)
	r.JobID = jobID
	persisted, err := e.store.UpdateNote(userID, noteID, models.NoteUpdate{Reminder: &r})
	if err == nil && !persisted {
		err = shared.ErrNoteNotFound
	}
	if err != nil {
		e.sched.Cancel(jobID)
		return "", fmt.Errorf("failed to persist reminder for note %d: %w", noteID, err)
	}

	return jobID, nil
}

// CancelReminder drops the note's pending delivery, if any, and persists the
// note as reminder-free. Returns false when the note does not exist.
func (e *Engine) CancelReminder(userID string, noteID int) (bool, error) {
	note, ok := e.store.GetNote(userID, noteID)
	if !ok {
		return false, nil
	}

	if note.Reminder.JobID != "" {
		e.sched.Cancel(note.Reminder.JobID)
	}

	none := models.NoReminder()
	return e.store.UpdateNote(userID, noteID, models.NoteUpdate{Reminder: &none})
}

// DeleteNote removes the note, cancelling any live reminder job first so no
// dangling timer references it.
func (e *Engine) DeleteNote(userID string, noteID int) (bool, error) {
	if note, ok := e.store.GetNote(userID, noteID); ok && note.Reminder.JobID != "" {
		e.sched.Cancel(note.Reminder.JobID)
	}
	return e.store.DeleteNote(userID, noteID)
}

// CompleteFlow turns a finished time-selection flow and its draft into a
// stored note, scheduling the reminder when one was selected. The note id is
// returned even when scheduling fails, since the note itself was created.
func (e *Engine) CompleteFlow(userID string, draft wizard.Draft, flow *wizard.Flow) (int, error) {
	switch flow.State() {
	case wizard.StateDone:
	case wizard.StateCancelled:
		return 0, shared.ErrFlowCancelled
	default:
		return 0, shared.ErrFlowIncomplete
	}

	noteID, err := e.store.AddNote(userID, draft.CategoryID, draft.Title, draft.Text, draft.Priority, models.NoReminder())
	if err != nil {
		return 0, err
	}

	if at, ok := flow.Result(); ok {
		if _, err := e.ScheduleReminder(userID, noteID, at); err != nil {
			return noteID, fmt.Errorf("note %d created but reminder not scheduled: %w", noteID, err)
		}
	}
	return noteID, nil
}

// RecoverReminders re-registers every persisted reminder that is still
// active, replacing the job ids of the previous process. Reminders whose
// fire time has already passed fire immediately, once. Returns how many jobs
// were registered.
func (e *Engine) RecoverReminders() (int, error) {
	recovered := 0
	for _, userID := range e.store.Users() {
		for _, note := range e.store.Notes(userID) {
			r := note.Reminder
			if r.Kind != models.ReminderScheduled || !r.IsActive || r.FireAt == nil {
				continue
			}

			jobID, err := e.sched.Schedule(userID, note.ID, *r.FireAt)
			if err != nil {
				return recovered, err
			}
			r.JobID = jobID
			if _, err := e.store.UpdateNote(userID, note.ID, models.NoteUpdate{Reminder: &r}); err != nil {
				e.sched.Cancel(jobID)
				return recovered, err
			}
			recovered++
		}
	}

	if recovered > 0 {
		e.logger.Info("recovered persisted reminders", "count", recovered)
	}
	return recovered, nil
}

// Shutdown stops the scheduler; pending timers are dropped but survive on
// disk for the next process's RecoverReminders.
func (e *Engine) Shutdown() {
	e.sched.Shutdown()
}
