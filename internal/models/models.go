package models

import (
	"strings"
	"time"
	"unicode"
)

// Priority classifies how urgent a note is.
type Priority string

const (
	PriorityCritical  Priority = "critical"
	PriorityImportant Priority = "important"
	PriorityNormal    Priority = "normal"
)

// ParsePriority maps a stored string onto a [Priority], defaulting to
// [PriorityNormal] for empty or unknown values.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityCritical, PriorityImportant, PriorityNormal:
		return Priority(s)
	default:
		return PriorityNormal
	}
}

// Icon returns the marker used when rendering the priority in exports.
func (p Priority) Icon() string {
	switch p {
	case PriorityCritical:
		return "🔴"
	case PriorityImportant:
		return "🟡"
	default:
		return "🟢"
	}
}

// Label returns a human-readable name for the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityCritical:
		return "Critical"
	case PriorityImportant:
		return "Important"
	default:
		return "Normal"
	}
}

// ReminderKind distinguishes notes with a scheduled delivery from plain notes.
type ReminderKind string

const (
	ReminderNone      ReminderKind = "none"
	ReminderScheduled ReminderKind = "scheduled"
)

// Reminder is the optional future-delivery attribute embedded in a [Note].
//
// JobID is non-empty if and only if a live, not-yet-fired, not-cancelled
// timer is registered in the scheduler for this note at exactly FireAt.
// IsActive mirrors that: it is cleared once the reminder fires or is
// cancelled, while FireAt is kept for display.
type Reminder struct {
	Kind     ReminderKind `json:"kind"`
	FireAt   *time.Time   `json:"fire_at"`
	JobID    string       `json:"job_id,omitempty"`
	IsActive bool         `json:"is_active"`
}

// NoReminder returns the reminder value for a note without any delivery.
func NoReminder() Reminder {
	return Reminder{Kind: ReminderNone}
}

// ScheduledReminder returns a reminder pending registration with the
// scheduler. The job id is filled in once a timer exists.
func ScheduledReminder(at time.Time) Reminder {
	at = at.UTC()
	return Reminder{Kind: ReminderScheduled, FireAt: &at, IsActive: true}
}

// Note is a user's titled, timestamped text item.
type Note struct {
	ID         int       `json:"id"`
	CategoryID string    `json:"category_id"`
	Title      string    `json:"title"`
	Text       string    `json:"text"`
	Priority   Priority  `json:"priority"`
	CreatedAt  time.Time `json:"created_at"`
	Reminder   Reminder  `json:"reminder"`
}

// Category is a named grouping of notes, identified by a slug unique per user.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GeneralCategoryID identifies the protected fallback category every user
// has. It cannot be deleted, and notes of deleted categories are reassigned
// to it.
const GeneralCategoryID = "general"

// DefaultCategories returns the category set a new user is seeded with.
// The general category is always first.
func DefaultCategories() []Category {
	return []Category{
		{ID: GeneralCategoryID, Name: "General"},
		{ID: "tasks", Name: "Tasks"},
		{ID: "ideas", Name: "Ideas"},
	}
}

// UserData holds one user's complete state. NextNoteID counts up from 1 and
// is never reused, even after deletions.
type UserData struct {
	Categories []Category `json:"categories"`
	Notes      []Note     `json:"notes"`
	NextNoteID int        `json:"next_note_id"`
}

// NewUserData returns the seed state for a first-seen user.
func NewUserData() *UserData {
	return &UserData{
		Categories: DefaultCategories(),
		Notes:      []Note{},
		NextNoteID: 1,
	}
}

// Document is the root of the persisted object graph.
type Document struct {
	Users map[string]*UserData `json:"users"`
}

// NewDocument returns an empty document ready for use.
func NewDocument() *Document {
	return &Document{Users: map[string]*UserData{}}
}

// NoteUpdate describes a partial note mutation. Nil fields are left
// untouched.
type NoteUpdate struct {
	CategoryID *string
	Title      *string
	Text       *string
	Priority   *Priority
	Reminder   *Reminder
}

// Apply merges the set fields into n.
func (u NoteUpdate) Apply(n *Note) {
	if u.CategoryID != nil {
		n.CategoryID = *u.CategoryID
	}
	if u.Title != nil {
		n.Title = *u.Title
	}
	if u.Text != nil {
		n.Text = *u.Text
	}
	if u.Priority != nil {
		n.Priority = *u.Priority
	}
	if u.Reminder != nil {
		n.Reminder = *u.Reminder
	}
}

// Stats aggregates note counts for one user.
type Stats struct {
	TotalNotes      int
	TotalCategories int
	RecentNotes     int // created within the last 7 days
	PerCategory     map[string]int
	PerPriority     map[Priority]int
}

// Slugify derives a category id from a human-readable name: lower-cased,
// spaces become hyphens, everything but letters, digits, and hyphens is
// stripped. An empty result falls back to "cat". Uniqueness within a user is
// the store's job.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "-")

	var b strings.Builder
	for _, r := range s {
		if r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "cat"
	}
	return b.String()
}
