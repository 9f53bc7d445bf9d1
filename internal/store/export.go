package store

import (
	"fmt"
	"strings"

	"github.com/rfaisal/noteminder/internal/models"
)

// ExportText renders a human-readable backup document for one user:
// per-category sections listing each note's priority icon, title, id, body,
// and creation time. This is a read-only projection of the store, not part
// of the durable format.
func (s *Store) ExportText(userID string) string {
	var (
		categories []models.Category
		notes      []models.Note
	)
	s.view(func(doc *models.Document) {
		u, _ := userData(doc, userID)
		categories = append(categories, u.Categories...)
		notes = append(notes, u.Notes...)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Notes backup\n")
	fmt.Fprintf(&b, "Generated: %s UTC\n", s.now().UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Total notes: %d\n", len(notes))
	fmt.Fprintf(&b, "Total categories: %d\n", len(categories))

	for _, c := range categories {
		fmt.Fprintf(&b, "\n📁 %s\n", c.Name)

		empty := true
		for _, n := range notes {
			if n.CategoryID != c.ID {
				continue
			}
			empty = false
			fmt.Fprintf(&b, "  %s %s (#%d)\n", n.Priority.Icon(), n.Title, n.ID)
			fmt.Fprintf(&b, "     Priority: %s\n", n.Priority.Label())
			fmt.Fprintf(&b, "     Text: %s\n", n.Text)
			fmt.Fprintf(&b, "     Reminder: %s\n", reminderLine(n.Reminder))
			fmt.Fprintf(&b, "     Created: %s\n", n.CreatedAt.UTC().Format("2006-01-02 15:04"))
		}
		if empty {
			fmt.Fprintf(&b, "  (no notes)\n")
		}
	}

	return b.String()
}

func reminderLine(r models.Reminder) string {
	if r.Kind != models.ReminderScheduled || r.FireAt == nil {
		return "none"
	}
	line := r.FireAt.UTC().Format("2006-01-02 15:04")
	if !r.IsActive {
		line += " (delivered)"
	}
	return line
}
