package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/rfaisal/noteminder/internal/models"
	"github.com/rfaisal/noteminder/internal/scheduler"
	"github.com/rfaisal/noteminder/internal/shared"
	"github.com/rfaisal/noteminder/internal/store"
	tu "github.com/rfaisal/noteminder/internal/testing"
	"github.com/rfaisal/noteminder/internal/wizard"
)

const deliveryTimeout = 2 * time.Second

var testStart = time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, dir string) *store.Store {
	t.Helper()
	s, err := store.Open(store.Config{
		Dir:             dir,
		BackupRetention: 10,
		Logger:          tu.QuietLogger(),
		Now:             tu.NewClock(testStart, time.Second).Now,
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return s
}

func newTestEngine(t *testing.T, dir string) (*Engine, *tu.Recorder) {
	t.Helper()
	st := newTestStore(t, dir)
	sched := scheduler.New(scheduler.Config{Logger: tu.QuietLogger()})
	e := New(st, sched, tu.QuietLogger())
	t.Cleanup(e.Shutdown)

	rec := tu.NewRecorder()
	e.SetDeliveryCallback(rec.Deliver)
	return e, rec
}

// waitSettled polls until the note's reminder is marked spent. The settle
// write happens after the delivery callback returns, so tests synchronize on
// it separately from the delivery itself.
func waitSettled(t *testing.T, e *Engine, userID string, noteID int) models.Note {
	t.Helper()
	deadline := time.Now().Add(deliveryTimeout)
	for time.Now().Before(deadline) {
		note, ok := e.Store().GetNote(userID, noteID)
		if ok && !note.Reminder.IsActive && note.Reminder.JobID == "" {
			return note
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("reminder never settled")
	return models.Note{}
}

func TestScheduleReminder(t *testing.T) {
	t.Run("persists the job id, clears it after delivery", func(t *testing.T) {
		e, rec := newTestEngine(t, t.TempDir())

		id, err := e.Store().AddNote("u1", "general", "Dentist", "", models.PriorityNormal, models.NoReminder())
		if err != nil {
			t.Fatalf("failed to add note: %v", err)
		}

		jobID, err := e.ScheduleReminder("u1", id, time.Now().Add(60*time.Millisecond))
		if err != nil {
			t.Fatalf("failed to schedule: %v", err)
		}

		note, _ := e.Store().GetNote("u1", id)
		if note.Reminder.Kind != models.ReminderScheduled || note.Reminder.JobID != jobID || !note.Reminder.IsActive {
			t.Errorf("reminder not persisted: %+v", note.Reminder)
		}

		d := rec.Wait(t, deliveryTimeout)
		if d.UserID != "u1" || d.NoteID != id {
			t.Errorf("wrong delivery: %+v", d)
		}
		waitSettled(t, e, "u1", id)
	})

	t.Run("unknown note", func(t *testing.T) {
		e, _ := newTestEngine(t, t.TempDir())

		if _, err := e.ScheduleReminder("u1", 99, time.Now().Add(time.Hour)); !errors.Is(err, shared.ErrNoteNotFound) {
			t.Errorf("expected ErrNoteNotFound, got %v", err)
		}
	})

	t.Run("rescheduling replaces the old job", func(t *testing.T) {
		e, rec := newTestEngine(t, t.TempDir())

		id, err := e.Store().AddNote("u1", "general", "n", "", models.PriorityNormal, models.NoReminder())
		if err != nil {
			t.Fatalf("failed to add note: %v", err)
		}

		first, err := e.ScheduleReminder("u1", id, time.Now().Add(50*time.Millisecond))
		if err != nil {
			t.Fatalf("failed to schedule: %v", err)
		}
		second, err := e.ScheduleReminder("u1", id, time.Now().Add(100*time.Millisecond))
		if err != nil {
			t.Fatalf("failed to reschedule: %v", err)
		}
		if first == second {
			t.Errorf("reschedule reused job id %q", first)
		}

		note, _ := e.Store().GetNote("u1", id)
		if note.Reminder.JobID != second {
			t.Errorf("persisted job id %q, want %q", note.Reminder.JobID, second)
		}

		rec.Wait(t, deliveryTimeout)
		rec.AssertNone(t, 120*time.Millisecond)
	})

	t.Run("failed delivery still settles the reminder", func(t *testing.T) {
		e, rec := newTestEngine(t, t.TempDir())
		rec.Fail(errors.New("transport down"))

		id, err := e.Store().AddNote("u1", "general", "n", "", models.PriorityNormal, models.NoReminder())
		if err != nil {
			t.Fatalf("failed to add note: %v", err)
		}
		if _, err := e.ScheduleReminder("u1", id, time.Now().Add(20*time.Millisecond)); err != nil {
			t.Fatalf("failed to schedule: %v", err)
		}

		rec.Wait(t, deliveryTimeout)
		waitSettled(t, e, "u1", id)
		rec.AssertNone(t, 50*time.Millisecond)
	})
}

func TestCancelReminder(t *testing.T) {
	t.Run("drops the pending job and persists no reminder", func(t *testing.T) {
		e, rec := newTestEngine(t, t.TempDir())

		id, err := e.Store().AddNote("u1", "general", "n", "", models.PriorityNormal, models.NoReminder())
		if err != nil {
			t.Fatalf("failed to add note: %v", err)
		}
		if _, err := e.ScheduleReminder("u1", id, time.Now().Add(80*time.Millisecond)); err != nil {
			t.Fatalf("failed to schedule: %v", err)
		}

		ok, err := e.CancelReminder("u1", id)
		if err != nil || !ok {
			t.Fatalf("cancel failed: ok=%v err=%v", ok, err)
		}

		note, _ := e.Store().GetNote("u1", id)
		if note.Reminder.Kind != models.ReminderNone {
			t.Errorf("reminder not cleared: %+v", note.Reminder)
		}
		rec.AssertNone(t, 150*time.Millisecond)
	})

	t.Run("note without reminder is fine", func(t *testing.T) {
		e, _ := newTestEngine(t, t.TempDir())

		id, err := e.Store().AddNote("u1", "general", "n", "", models.PriorityNormal, models.NoReminder())
		if err != nil {
			t.Fatalf("failed to add note: %v", err)
		}
		if ok, err := e.CancelReminder("u1", id); err != nil || !ok {
			t.Errorf("cancel failed: ok=%v err=%v", ok, err)
		}
	})

	t.Run("unknown note returns false", func(t *testing.T) {
		e, _ := newTestEngine(t, t.TempDir())

		if ok, err := e.CancelReminder("u1", 42); err != nil || ok {
			t.Errorf("expected (false, nil), got (%v, %v)", ok, err)
		}
	})
}

func TestEngineDeleteNote(t *testing.T) {
	e, rec := newTestEngine(t, t.TempDir())

	id, err := e.Store().AddNote("u1", "general", "n", "", models.PriorityNormal, models.NoReminder())
	if err != nil {
		t.Fatalf("failed to add note: %v", err)
	}
	if _, err := e.ScheduleReminder("u1", id, time.Now().Add(80*time.Millisecond)); err != nil {
		t.Fatalf("failed to schedule: %v", err)
	}

	ok, err := e.DeleteNote("u1", id)
	if err != nil || !ok {
		t.Fatalf("delete failed: ok=%v err=%v", ok, err)
	}
	if _, found := e.Store().GetNote("u1", id); found {
		t.Error("note survived deletion")
	}
	rec.AssertNone(t, 150*time.Millisecond)
}

func TestCompleteFlow(t *testing.T) {
	draft := wizard.Draft{CategoryID: "tasks", Title: "Dentist", Text: "ask about the molar", Priority: models.PriorityImportant}

	t.Run("creates the note and schedules the reminder", func(t *testing.T) {
		e, rec := newTestEngine(t, t.TempDir())

		f := wizard.New(time.Now)
		if err := f.PickPreset(wizard.Preset30Min); err != nil {
			t.Fatalf("failed to pick preset: %v", err)
		}

		id, err := e.CompleteFlow("u1", draft, f)
		if err != nil {
			t.Fatalf("flow completion failed: %v", err)
		}

		note, ok := e.Store().GetNote("u1", id)
		if !ok {
			t.Fatal("note missing")
		}
		if note.Title != draft.Title || note.CategoryID != draft.CategoryID || note.Priority != draft.Priority {
			t.Errorf("draft not applied: %+v", note)
		}
		if note.Reminder.Kind != models.ReminderScheduled || note.Reminder.JobID == "" {
			t.Errorf("reminder not scheduled: %+v", note.Reminder)
		}
		rec.AssertNone(t, 50*time.Millisecond)
	})

	t.Run("no-reminder flow stores a plain note", func(t *testing.T) {
		e, _ := newTestEngine(t, t.TempDir())

		f := wizard.New(time.Now)
		if err := f.PickPreset(wizard.PresetNone); err != nil {
			t.Fatalf("failed to pick preset: %v", err)
		}

		id, err := e.CompleteFlow("u1", draft, f)
		if err != nil {
			t.Fatalf("flow completion failed: %v", err)
		}
		note, _ := e.Store().GetNote("u1", id)
		if note.Reminder.Kind != models.ReminderNone {
			t.Errorf("expected no reminder, got %+v", note.Reminder)
		}
	})

	t.Run("cancelled flow stores nothing", func(t *testing.T) {
		e, _ := newTestEngine(t, t.TempDir())

		f := wizard.New(time.Now)
		f.Cancel()

		if _, err := e.CompleteFlow("u1", draft, f); !errors.Is(err, shared.ErrFlowCancelled) {
			t.Fatalf("expected ErrFlowCancelled, got %v", err)
		}
		if notes := e.Store().Notes("u1"); len(notes) != 0 {
			t.Errorf("cancelled flow created %d notes", len(notes))
		}
	})

	t.Run("unfinished flow is rejected", func(t *testing.T) {
		e, _ := newTestEngine(t, t.TempDir())

		f := wizard.New(time.Now)
		f.BeginCustom()

		if _, err := e.CompleteFlow("u1", draft, f); !errors.Is(err, shared.ErrFlowIncomplete) {
			t.Errorf("expected ErrFlowIncomplete, got %v", err)
		}
	})
}

func TestRecoverReminders(t *testing.T) {
	dir := t.TempDir()

	// First process: persist one live reminder, one already-delivered note,
	// one plain note, then go away without settling anything.
	st := newTestStore(t, dir)
	live := models.ScheduledReminder(time.Now().Add(time.Hour))
	live.JobID = "job-from-previous-process"
	liveID, err := st.AddNote("u1", "general", "live", "", models.PriorityNormal, live)
	if err != nil {
		t.Fatalf("failed to add note: %v", err)
	}

	spent := models.ScheduledReminder(time.Now().Add(-time.Hour))
	spent.IsActive = false
	if _, err := st.AddNote("u1", "general", "spent", "", models.PriorityNormal, spent); err != nil {
		t.Fatalf("failed to add note: %v", err)
	}
	if _, err := st.AddNote("u2", "general", "plain", "", models.PriorityNormal, models.NoReminder()); err != nil {
		t.Fatalf("failed to add note: %v", err)
	}

	// Second process over the same files.
	e, _ := newTestEngine(t, dir)

	recovered, err := e.RecoverReminders()
	if err != nil {
		t.Fatalf("recovery failed: %v", err)
	}
	if recovered != 1 {
		t.Errorf("expected 1 recovered reminder, got %d", recovered)
	}

	note, _ := e.Store().GetNote("u1", liveID)
	if note.Reminder.JobID == "" || note.Reminder.JobID == "job-from-previous-process" {
		t.Errorf("stale job id not replaced: %+v", note.Reminder)
	}
}

func TestRecoverRemindersFiresOverdue(t *testing.T) {
	dir := t.TempDir()

	st := newTestStore(t, dir)
	overdue := models.ScheduledReminder(time.Now().Add(-time.Minute))
	overdue.JobID = "stale"
	id, err := st.AddNote("u1", "general", "overdue", "", models.PriorityNormal, overdue)
	if err != nil {
		t.Fatalf("failed to add note: %v", err)
	}

	e, rec := newTestEngine(t, dir)
	if _, err := e.RecoverReminders(); err != nil {
		t.Fatalf("recovery failed: %v", err)
	}

	d := rec.Wait(t, deliveryTimeout)
	if d.NoteID != id {
		t.Errorf("wrong delivery: %+v", d)
	}
	rec.AssertNone(t, 50*time.Millisecond)
}
