// Package entry defines the journal record and the structural predicates
// every other package relies on.
//
// An Entry is one thought recorded for one calendar day. Entries are never
// edited: superseding a day's thought stamps ReplacedAt on the old record and
// appends a new one. The record with a nil ReplacedAt is the day's active
// entry.
//
// IsValidYMD and IsValidISODate are the single source of truth for the
// day-key and timestamp formats. Validation and migration both call them.
//
// Timestamps are stored as canonical ISO-8601 UTC strings with millisecond
// precision (2025-01-15T08:00:00.000Z). Because the format is fixed width,
// canonical timestamps order lexicographically in time order.
package entry
