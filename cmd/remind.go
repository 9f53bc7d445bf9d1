package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
)

// RemindSet persists a reminder on the note. The timer itself lives in the
// `run` process, which re-registers every persisted reminder on startup.
func (r *Runner) RemindSet(ctx context.Context, cmd *cli.Command) error {
	at := cmd.String("at")
	in := cmd.String("in")
	if (at == "") == (in == "") {
		return fmt.Errorf("exactly one of --at or --in is required")
	}

	fireAt, err := resolveWhen(at, in)
	if err != nil {
		return err
	}

	e, err := r.openEngine()
	if err != nil {
		return err
	}
	defer e.Shutdown()

	id := int(cmd.Int("id"))
	if _, err := e.ScheduleReminder(cmd.String("user"), id, fireAt); err != nil {
		return err
	}
	return r.writePlain("reminder for note #%d set to %s\n", id, fireAt.Format(time.RFC3339))
}

// RemindCancel drops the note's reminder.
func (r *Runner) RemindCancel(ctx context.Context, cmd *cli.Command) error {
	e, err := r.openEngine()
	if err != nil {
		return err
	}
	defer e.Shutdown()

	id := int(cmd.Int("id"))
	ok, err := e.CancelReminder(cmd.String("user"), id)
	if err != nil {
		return err
	}
	if !ok {
		return r.writePlain("note #%d not found\n", id)
	}
	return r.writePlain("reminder for note #%d cancelled\n", id)
}

// Run recovers persisted reminders and delivers them to stdout until the
// process is interrupted.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	e, err := r.openEngine()
	if err != nil {
		return err
	}
	defer e.Shutdown()

	e.SetDeliveryCallback(func(userID string, noteID int) error {
		note, ok := e.Store().GetNote(userID, noteID)
		if !ok {
			return fmt.Errorf("note %d vanished before delivery", noteID)
		}
		return r.writePlain("⏰ [%s] %s #%d %s\n", userID, note.Priority.Icon(), note.ID, note.Title)
	})

	if r.config.Scheduler.RecoverOnStart {
		recovered, err := e.RecoverReminders()
		if err != nil {
			return err
		}
		r.logger.Info("reminder recovery finished", "recovered", recovered)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.logger.Info("delivery loop running, press ctrl-c to stop")
	<-ctx.Done()
	r.logger.Info("shutting down")
	return nil
}
