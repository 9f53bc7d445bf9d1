package main

import (
	"context"
	"os"

	"github.com/rfaisal/noteminder/internal/models"
	"github.com/urfave/cli/v3"
)

// NoteAdd stores a new note without a reminder.
func (r *Runner) NoteAdd(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openStore()
	if err != nil {
		return err
	}

	id, err := s.AddNote(
		cmd.String("user"),
		cmd.String("category"),
		cmd.String("title"),
		cmd.String("text"),
		models.ParsePriority(cmd.String("priority")),
		models.NoReminder(),
	)
	if err != nil {
		return err
	}
	return r.writePlain("added note #%d\n", id)
}

// NoteList prints the user's notes grouped by category, newest first within
// each group.
func (r *Runner) NoteList(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openStore()
	if err != nil {
		return err
	}
	userID := cmd.String("user")

	grouped := s.ListNotesByCategory(userID)
	for _, c := range s.ListCategories(userID) {
		if err := r.writePlain("📁 %s (%s)\n", c.Name, c.ID); err != nil {
			return err
		}
		notes := grouped[c.ID]
		if len(notes) == 0 {
			if err := r.writePlain("  (no notes)\n"); err != nil {
				return err
			}
			continue
		}
		for _, n := range notes {
			if err := r.writePlain("  %s #%d %s\n", n.Priority.Icon(), n.ID, n.Title); err != nil {
				return err
			}
		}
	}
	return nil
}

// NoteEdit merges the flags that were actually set into the note.
func (r *Runner) NoteEdit(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openStore()
	if err != nil {
		return err
	}

	var update models.NoteUpdate
	if cmd.IsSet("title") {
		title := cmd.String("title")
		update.Title = &title
	}
	if cmd.IsSet("text") {
		text := cmd.String("text")
		update.Text = &text
	}
	if cmd.IsSet("category") {
		category := cmd.String("category")
		update.CategoryID = &category
	}
	if cmd.IsSet("priority") {
		priority := models.ParsePriority(cmd.String("priority"))
		update.Priority = &priority
	}

	id := int(cmd.Int("id"))
	ok, err := s.UpdateNote(cmd.String("user"), id, update)
	if err != nil {
		return err
	}
	if !ok {
		return r.writePlain("note #%d not found\n", id)
	}
	return r.writePlain("updated note #%d\n", id)
}

// NoteDelete removes a note and drops any persisted reminder with it.
func (r *Runner) NoteDelete(ctx context.Context, cmd *cli.Command) error {
	e, err := r.openEngine()
	if err != nil {
		return err
	}
	defer e.Shutdown()

	id := int(cmd.Int("id"))
	ok, err := e.DeleteNote(cmd.String("user"), id)
	if err != nil {
		return err
	}
	if !ok {
		return r.writePlain("note #%d not found\n", id)
	}
	return r.writePlain("deleted note #%d\n", id)
}

// NoteSearch prints matches ranked newest first.
func (r *Runner) NoteSearch(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openStore()
	if err != nil {
		return err
	}

	results := s.SearchNotes(cmd.String("user"), cmd.String("query"))
	if len(results) == 0 {
		return r.writePlain("no matches\n")
	}
	for _, res := range results {
		if err := r.writePlain("%s #%d %s [%s]\n", res.Note.Priority.Icon(), res.Note.ID, res.Note.Title, res.Category.Name); err != nil {
			return err
		}
	}
	return nil
}

// NoteStats prints aggregate counts for the user.
func (r *Runner) NoteStats(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openStore()
	if err != nil {
		return err
	}

	stats := s.ComputeStats(cmd.String("user"))
	if err := r.writePlain("notes: %d (last 7 days: %d)\ncategories: %d\n", stats.TotalNotes, stats.RecentNotes, stats.TotalCategories); err != nil {
		return err
	}
	for _, p := range []models.Priority{models.PriorityCritical, models.PriorityImportant, models.PriorityNormal} {
		if err := r.writePlain("%s %s: %d\n", p.Icon(), p.Label(), stats.PerPriority[p]); err != nil {
			return err
		}
	}
	return nil
}

// NoteExport writes the readable text backup to a file or stdout.
func (r *Runner) NoteExport(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openStore()
	if err != nil {
		return err
	}

	text := s.ExportText(cmd.String("user"))
	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			return err
		}
		return r.writePlain("exported to %s\n", path)
	}
	return r.writePlain("%s", text)
}
