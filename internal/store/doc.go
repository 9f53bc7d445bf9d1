// Package store implements durable, crash-safe persistence for the
// user/category/note graph.
//
// The whole graph lives in one JSON document. Every mutating operation runs
// the same protocol: read the entire file, apply the change in memory, write
// to a temporary file, atomically rename it over the target, then copy the
// result to a timestamped snapshot under backups/. Snapshots are pruned to a
// configurable count (10 by default). If the primary file is unreadable or
// malformed, reads fall back to the newest usable snapshot, and failing
// that, to an empty document - best-effort recovery, never a crash.
//
// The read-modify-write-rename sequence is serialized by a process-local
// mutex plus an advisory flock(2) on a sidecar lock file, so concurrent
// writers (including ones in other processes sharing the data directory)
// never lose an update or reuse a note id.
//
// Values returned to callers are snapshots; mutations must go back through
// [Store] operations.
package store
