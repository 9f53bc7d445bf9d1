// Package models defines the domain entities for the note organizer.
//
// The persisted object graph is a single [Document] holding every user's
// data keyed by an opaque external user id:
//   - [UserData] : one user's categories, notes, and note id counter
//   - [Category] : a named note grouping identified by a per-user [Slugify] slug
//   - [Note] : a titled, timestamped text item with a [Priority] and an embedded [Reminder]
//   - [Reminder] : the optional future-delivery attribute of a note, backed by a scheduler job
//
// All timestamps are UTC. Structs carry the JSON tags of the on-disk format;
// the store package owns serialization and durability.
package models
