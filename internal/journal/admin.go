package journal

import (
	"context"
	"fmt"

	"github.com/roach88/onebreath/internal/entry"
	"github.com/roach88/onebreath/internal/validate"
)

// DailyEntries is every record for one calendar day, active or superseded.
type DailyEntries struct {
	YMD     string        `json:"ymd"`
	Entries []entry.Entry `json:"entries"`
}

// Admin exposes whole-day maintenance operations. They bypass the
// one-active-entry rule and write exactly what they are given.
type Admin struct {
	e *Engine
}

// Admin returns the administrative view of the engine.
func (e *Engine) Admin() *Admin {
	return &Admin{e: e}
}

// ReadRecord returns the day's entries in chronological order, or nil if the
// day has none.
func (a *Admin) ReadRecord(ctx context.Context, ymd string) (*DailyEntries, error) {
	e := a.e
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.refresh(ctx); err != nil {
		return nil, err
	}
	day := e.day(ymd)
	if len(day) == 0 {
		return nil, nil
	}
	return &DailyEntries{
		YMD:     ymd,
		Entries: entry.SortChronologically(entry.CloneAll(day)),
	}, nil
}

// WriteRecord replaces the day's entries with rec.Entries verbatim. Every
// entry must pass full validation and belong to rec.YMD; otherwise nothing is
// written.
func (a *Admin) WriteRecord(ctx context.Context, rec DailyEntries) error {
	if !entry.IsValidYMD(rec.YMD) {
		return &validate.ValidationError{Field: "ymd", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD calendar date", rec.YMD)}
	}

	e := a.e
	seen := make(map[string]struct{}, len(rec.Entries))
	for i, en := range rec.Entries {
		if err := e.rules.Entry(en); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		if en.YMD != rec.YMD {
			return &validate.ValidationError{Field: "ymd", Reason: fmt.Sprintf("entry %d is for %s, not %s", i, en.YMD, rec.YMD)}
		}
		if _, dup := seen[en.ID]; dup {
			return &validate.ValidationError{Field: "id", Reason: fmt.Sprintf("duplicate id %q", en.ID)}
		}
		seen[en.ID] = struct{}{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.refresh(ctx); err != nil {
		return err
	}
	next := withoutDay(e.entries, rec.YMD)
	for _, en := range next {
		if _, taken := seen[en.ID]; taken {
			return &validate.ValidationError{Field: "id", Reason: fmt.Sprintf("id %q already used on %s", en.ID, en.YMD)}
		}
	}
	next = append(next, entry.CloneAll(rec.Entries)...)
	e.persist(ctx, e.version, next)
	return nil
}

// DeleteRecord removes every entry for ymd. Deleting an empty day is a no-op.
func (a *Admin) DeleteRecord(ctx context.Context, ymd string) error {
	e := a.e
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.refresh(ctx); err != nil {
		return err
	}
	if len(e.day(ymd)) == 0 {
		return nil
	}
	e.persist(ctx, e.version, withoutDay(e.entries, ymd))
	return nil
}

// Clear drops every entry and persists the empty current-version state.
func (a *Admin) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := a.e
	e.mu.Lock()
	defer e.mu.Unlock()

	e.persist(ctx, e.migrator.Current, nil)
	return nil
}

func withoutDay(entries []entry.Entry, ymd string) []entry.Entry {
	out := make([]entry.Entry, 0, len(entries))
	for _, en := range entries {
		if en.YMD != ymd {
			out = append(out, en.Clone())
		}
	}
	return out
}
