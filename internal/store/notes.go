package store

import (
	"sort"
	"strings"
	"time"

	"github.com/rfaisal/noteminder/internal/models"
)

// AddNote appends a note and returns its id. Ids are allocated from the
// user's counter under the store lock, strictly increasing and never reused,
// even after deletions.
func (s *Store) AddNote(userID, categoryID, title, text string, priority models.Priority, reminder models.Reminder) (int, error) {
	var id int
	err := s.update(func(doc *models.Document) (bool, error) {
		u, _ := userData(doc, userID)
		id = u.NextNoteID
		u.NextNoteID = id + 1
		u.Notes = append(u.Notes, models.Note{
			ID:         id,
			CategoryID: categoryID,
			Title:      title,
			Text:       text,
			Priority:   priority,
			CreatedAt:  s.now().UTC(),
			Reminder:   reminder,
		})
		return true, nil
	})
	return id, err
}

// UpdateNote merges the set fields of update into the note. Returns false
// when the note does not exist.
func (s *Store) UpdateNote(userID string, noteID int, update models.NoteUpdate) (bool, error) {
	found := false
	err := s.update(func(doc *models.Document) (bool, error) {
		u, _ := userData(doc, userID)
		for i := range u.Notes {
			if u.Notes[i].ID == noteID {
				update.Apply(&u.Notes[i])
				found = true
				break
			}
		}
		return found, nil
	})
	return found, err
}

// DeleteNote removes a note by id and reports whether anything was removed.
// Cancelling any live reminder job for the note is the caller's
// responsibility; the engine does this before calling here.
func (s *Store) DeleteNote(userID string, noteID int) (bool, error) {
	removed := false
	err := s.update(func(doc *models.Document) (bool, error) {
		u, _ := userData(doc, userID)
		kept := u.Notes[:0]
		for _, n := range u.Notes {
			if n.ID == noteID {
				removed = true
				continue
			}
			kept = append(kept, n)
		}
		u.Notes = kept
		return removed, nil
	})
	return removed, err
}

// GetNote returns a snapshot of the note, if it exists.
func (s *Store) GetNote(userID string, noteID int) (models.Note, bool) {
	var (
		out models.Note
		ok  bool
	)
	s.view(func(doc *models.Document) {
		u, _ := userData(doc, userID)
		for _, n := range u.Notes {
			if n.ID == noteID {
				out, ok = n, true
				return
			}
		}
	})
	return out, ok
}

// Notes returns all of the user's notes in insertion order.
func (s *Store) Notes(userID string) []models.Note {
	var out []models.Note
	s.view(func(doc *models.Document) {
		u, _ := userData(doc, userID)
		out = append(out, u.Notes...)
	})
	return out
}

// Users returns the ids of all known users, sorted.
func (s *Store) Users() []string {
	var out []string
	s.view(func(doc *models.Document) {
		for id := range doc.Users {
			out = append(out, id)
		}
	})
	sort.Strings(out)
	return out
}

// ListNotesByCategory groups the user's notes by category id. Every category
// appears in the result, empty ones included; notes whose category no longer
// exists are still grouped under their recorded id. Each group is sorted by
// creation time, newest first.
func (s *Store) ListNotesByCategory(userID string) map[string][]models.Note {
	grouped := map[string][]models.Note{}
	s.view(func(doc *models.Document) {
		u, _ := userData(doc, userID)
		for _, c := range u.Categories {
			grouped[c.ID] = []models.Note{}
		}
		for _, n := range u.Notes {
			grouped[n.CategoryID] = append(grouped[n.CategoryID], n)
		}
	})
	for _, notes := range grouped {
		sortNewestFirst(notes)
	}
	return grouped
}

// SearchResult pairs a matching note with its category.
type SearchResult struct {
	Note     models.Note
	Category models.Category
}

// SearchNotes performs a case-insensitive substring match across title,
// text, and category name, ranked by recency only.
func (s *Store) SearchNotes(userID, query string) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))

	var results []SearchResult
	s.view(func(doc *models.Document) {
		u, _ := userData(doc, userID)

		catByID := make(map[string]models.Category, len(u.Categories))
		for _, c := range u.Categories {
			catByID[c.ID] = c
		}

		for _, n := range u.Notes {
			cat, ok := catByID[n.CategoryID]
			if !ok {
				cat = models.Category{ID: models.GeneralCategoryID, Name: "General"}
			}
			haystack := strings.ToLower(n.Title + "\n" + n.Text + "\n" + cat.Name)
			if strings.Contains(haystack, q) {
				results = append(results, SearchResult{Note: n, Category: cat})
			}
		}
	})

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Note.CreatedAt.After(results[j].Note.CreatedAt)
	})
	return results
}

// ComputeStats aggregates counts for the user. The 7-day recency window is
// anchored at the store clock's current UTC time.
func (s *Store) ComputeStats(userID string) models.Stats {
	stats := models.Stats{
		PerCategory: map[string]int{},
		PerPriority: map[models.Priority]int{
			models.PriorityCritical:  0,
			models.PriorityImportant: 0,
			models.PriorityNormal:    0,
		},
	}

	cutoff := s.now().UTC().Add(-7 * 24 * time.Hour)
	s.view(func(doc *models.Document) {
		u, _ := userData(doc, userID)

		stats.TotalNotes = len(u.Notes)
		stats.TotalCategories = len(u.Categories)
		for _, c := range u.Categories {
			stats.PerCategory[c.ID] = 0
		}
		for _, n := range u.Notes {
			if !n.CreatedAt.Before(cutoff) {
				stats.RecentNotes++
			}
			stats.PerCategory[n.CategoryID]++
			stats.PerPriority[models.ParsePriority(string(n.Priority))]++
		}
	})
	return stats
}

func sortNewestFirst(notes []models.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
}
