// Package journal implements the storage engine for daily journal entries.
//
// The engine owns an append-only log of entries persisted as one JSON
// envelope in a key/value text store:
//
//	{"version":1,"entries":[{"id":"...","ymd":"2025-01-15","content":"...",
//	  "createdAt":"2025-01-15T08:00:00.000Z","replacedAt":null}]}
//
// Entries are never deleted or edited by normal operations. Replace stamps
// replacedAt on the day's active entry and appends a new one; the
// administrative sub-interface (Admin) is the only way to rewrite or drop a
// day's records.
//
// # Read path
//
// Every operation starts by reconciling the in-memory snapshot with the
// backing store: a one-time legacy-key migration, a read of the current key,
// JSON parsing, envelope migration (package migrate) and per-record
// validation (package validate). Invalid records are dropped, unparsable
// documents reset the snapshot to empty. When the reconciled state differs
// from the snapshot, the revision counter is bumped, which invalidates the
// lazily built day index.
//
// # Write path
//
// Mutations update the snapshot first and then write the canonical envelope.
// Persistence failures are logged and counted but not returned: the caller's
// write stays visible in this process and the next successful write persists
// it.
//
// # Availability
//
// On first use the engine probes the store with a write/delete cycle. A nil
// store or a failed probe switches the engine to memory-only operation for
// the rest of its lifetime.
//
// # Concurrency
//
// All operations are serialized by a mutex, so a read-modify-write such as
// Replace is atomic with respect to other callers of the same Engine. Two
// processes sharing one store are not coordinated.
package journal
