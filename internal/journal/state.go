package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/roach88/onebreath/internal/entry"
	"github.com/roach88/onebreath/internal/kv"
	"github.com/roach88/onebreath/internal/migrate"
)

// available runs the capability probe once and caches the outcome.
// Caller must hold e.mu.
func (e *Engine) available(ctx context.Context) bool {
	if e.probed {
		return e.persistent
	}
	e.probed = true

	if err := kv.Probe(ctx, e.store, e.keys.Probe); err != nil {
		e.persistent = false
		if e.store != nil {
			e.logger.Warn("journal: storage unavailable, using memory only", "error", err)
		}
		return false
	}
	e.persistent = true
	return true
}

// refresh reconciles the snapshot with the backing store.
// Caller must hold e.mu.
func (e *Engine) refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !e.available(ctx) || e.dirty {
		return nil
	}

	if err := e.migrateLegacyKey(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRead, err)
	}

	raw, ok, err := e.store.Get(ctx, e.keys.Current)
	if err != nil {
		return fmt.Errorf("%w: get %s: %w", ErrRead, e.keys.Current, err)
	}
	if !ok {
		e.setIfChanged(migrate.CurrentVersion, nil)
		return nil
	}

	var doc json.RawMessage
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		e.logger.Warn("journal: stored state is not valid JSON, resetting", "key", e.keys.Current, "error", err)
		e.setIfChanged(migrate.CurrentVersion, nil)
		return nil
	}

	st := e.migrator.Migrate(doc)
	entries := make([]entry.Entry, 0, len(st.Entries))
	for i, rec := range st.Entries {
		en, err := e.rules.DecodeRecord(rec)
		if err != nil {
			e.logger.Debug("journal: dropping invalid record", "index", i, "error", err)
			continue
		}
		entries = append(entries, en)
	}

	e.setIfChanged(st.Version, entries)
	return nil
}

// migrateLegacyKey moves a pre-versioning payload to the current key once.
// Only read errors are returned; any other failure leaves both keys as they
// were.
func (e *Engine) migrateLegacyKey(ctx context.Context) error {
	if e.keys.Legacy == "" || e.keys.Legacy == e.keys.Current {
		return nil
	}

	old, ok, err := e.store.Get(ctx, e.keys.Legacy)
	if err != nil {
		return fmt.Errorf("get %s: %w", e.keys.Legacy, err)
	}
	if !ok || old == "" {
		return nil
	}
	cur, ok, err := e.store.Get(ctx, e.keys.Current)
	if err != nil {
		return fmt.Errorf("get %s: %w", e.keys.Current, err)
	}
	if ok && cur != "" {
		return nil
	}

	var doc json.RawMessage
	if err := json.Unmarshal([]byte(old), &doc); err != nil {
		e.logger.Warn("journal: legacy state is not valid JSON, skipping migration", "key", e.keys.Legacy, "error", err)
		return nil
	}

	st := e.migrator.Migrate(doc)
	payload, err := migrate.Encode(st)
	if err != nil {
		e.logger.Warn("journal: encode migrated legacy state", "error", err)
		return nil
	}
	if err := e.store.Set(ctx, e.keys.Current, string(payload)); err != nil {
		e.logger.Warn("journal: write migrated legacy state", "error", err)
		return nil
	}
	if err := e.store.Remove(ctx, e.keys.Legacy); err != nil {
		e.logger.Warn("journal: remove legacy key", "key", e.keys.Legacy, "error", err)
	}
	e.logger.Info("journal: migrated legacy storage key", "from", e.keys.Legacy, "to", e.keys.Current, "records", len(st.Entries))
	return nil
}

// setIfChanged replaces the snapshot only when version or entries differ.
func (e *Engine) setIfChanged(version int, entries []entry.Entry) {
	if version == e.version && slices.EqualFunc(e.entries, entries, entry.Entry.Equal) {
		return
	}
	e.setSnapshot(version, entries)
}

// setSnapshot installs a new snapshot and bumps the revision.
func (e *Engine) setSnapshot(version int, entries []entry.Entry) {
	e.entries = entry.CloneAll(entries)
	e.version = version
	e.revision++
	e.index = nil
}

// writeResult is the outcome of persisting a snapshot.
type writeResult struct {
	Persisted bool
	Err       error
}

// persist installs the new state in memory and writes it to the store.
// A failed write leaves the snapshot in place and marks it dirty.
// Caller must hold e.mu.
func (e *Engine) persist(ctx context.Context, version int, entries []entry.Entry) writeResult {
	e.setSnapshot(version, entries)

	if !e.available(ctx) {
		return writeResult{}
	}

	payload, err := encodeState(e.version, e.entries)
	if err == nil {
		err = e.store.Set(ctx, e.keys.Current, payload)
	}
	if err != nil {
		e.dirty = true
		e.persistFailures++
		e.lastPersistErr = err
		e.logger.Warn("journal: persist failed, keeping change in memory", "key", e.keys.Current, "error", err)
		return writeResult{Err: err}
	}

	e.dirty = false
	return writeResult{Persisted: true}
}

// dayIndex maps a day key to positions in e.entries. It is valid only for
// the revision it was built at.
type dayIndex struct {
	revision uint64
	byDay    map[string][]int
}

// day returns the entries recorded for ymd, rebuilding the index if the
// snapshot changed since it was built. Caller must hold e.mu.
func (e *Engine) day(ymd string) []entry.Entry {
	if e.index == nil || e.index.revision != e.revision {
		byDay := make(map[string][]int)
		for i, en := range e.entries {
			byDay[en.YMD] = append(byDay[en.YMD], i)
		}
		e.index = &dayIndex{revision: e.revision, byDay: byDay}
	}

	positions := e.index.byDay[ymd]
	out := make([]entry.Entry, len(positions))
	for i, p := range positions {
		out[i] = e.entries[p]
	}
	return out
}

func (e *Engine) hasID(id string) bool {
	for _, en := range e.entries {
		if en.ID == id {
			return true
		}
	}
	return false
}
