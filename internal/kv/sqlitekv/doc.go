// Package sqlitekv provides a SQLite-backed kv.Store.
//
// Values live in a single table keyed by the string key:
//
//	kv(key TEXT PRIMARY KEY, value TEXT NOT NULL, updated_at INTEGER NOT NULL)
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Schema changes are tracked with PRAGMA user_version and applied on Open.
package sqlitekv
