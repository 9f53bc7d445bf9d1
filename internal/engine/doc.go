// Package engine orchestrates the store, the scheduler, and the time
// selection wizard into the note-reminder operations a transport layer
// calls.
//
// The engine owns every operation that touches both durable state and the
// timer table, keeping the two consistent:
//   - [Engine.ScheduleReminder] / [Engine.CancelReminder] register or drop a
//     timer and persist the note's reminder field in the same step
//   - [Engine.DeleteNote] cancels any live timer before the note goes away,
//     so no job ever references a deleted note
//   - the delivery hook clears the fired job's id from the note after the
//     callback runs, whether delivery succeeded or not
//   - [Engine.RecoverReminders] re-registers persisted reminders after a
//     restart, since the scheduler's job table is memory only
//
// Plain reads (listing, search, stats, export) go straight to the store.
package engine
