package journal

import (
	"context"
	"strings"
	"time"

	"github.com/roach88/onebreath/internal/clock"
	"github.com/roach88/onebreath/internal/entry"
	"github.com/roach88/onebreath/internal/retry"
	"github.com/roach88/onebreath/internal/validate"
)

// maxIDAttempts bounds retries when the generator repeats an existing ID.
const maxIDAttempts = 8

// Get returns the active entry for ymd, or nil if the day has none. If
// several entries are active, the first in list order wins.
func (e *Engine) Get(ctx context.Context, ymd string) (*entry.Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.refresh(ctx); err != nil {
		return nil, err
	}
	return e.activeFor(ymd), nil
}

// activeFor returns a clone of the winning active entry for ymd.
func (e *Engine) activeFor(ymd string) *entry.Entry {
	var active []entry.Entry
	for _, en := range e.day(ymd) {
		if en.Active() {
			active = append(active, en)
		}
	}
	if len(active) == 0 {
		return nil
	}
	winner := entry.SortForList(active)[0].Clone()
	return &winner
}

// Put appends a new active entry. It does not check whether the day already
// has one; use Replace or Save for that.
func (e *Engine) Put(ctx context.Context, d entry.Draft) (entry.Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.put(ctx, d)
}

func (e *Engine) put(ctx context.Context, d entry.Draft) (entry.Entry, error) {
	if err := e.rules.Draft(d); err != nil {
		return entry.Entry{}, err
	}
	if err := e.refresh(ctx); err != nil {
		return entry.Entry{}, err
	}

	id, err := e.newID()
	if err != nil {
		return entry.Entry{}, err
	}
	created := d.WithID(id)
	next := append(entry.CloneAll(e.entries), created)
	e.persist(ctx, e.version, next)
	return created.Clone(), nil
}

// Replace supersedes every active entry for the draft's day and appends the
// draft as the new active entry. Superseded entries keep their content and
// gain a replacedAt stamp.
func (e *Engine) Replace(ctx context.Context, d entry.Draft) (entry.Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.replace(ctx, d)
}

func (e *Engine) replace(ctx context.Context, d entry.Draft) (entry.Entry, error) {
	if err := e.rules.Draft(d); err != nil {
		return entry.Entry{}, err
	}
	if err := e.refresh(ctx); err != nil {
		return entry.Entry{}, err
	}

	id, err := e.newID()
	if err != nil {
		return entry.Entry{}, err
	}

	stamp := clock.NowISO(e.clock)
	next := entry.CloneAll(e.entries)
	superseded := 0
	for i := range next {
		if next[i].YMD == d.YMD && next[i].Active() {
			next[i].ReplacedAt = entry.StringPtr(stamp)
			superseded++
		}
	}

	created := d.WithID(id)
	next = append(next, created)
	e.persist(ctx, e.version, next)

	e.logger.Debug("journal: replaced entry", "ymd", d.YMD, "superseded", superseded, "id", created.ID)
	return created.Clone(), nil
}

// GetAll returns every entry, including superseded ones, newest day first.
func (e *Engine) GetAll(ctx context.Context) ([]entry.Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.refresh(ctx); err != nil {
		return nil, err
	}
	return entry.SortForList(entry.CloneAll(e.entries)), nil
}

// GetAllWithRetry wraps GetAll in retry.Do. The engine's configured retry
// options apply first, then opts.
func (e *Engine) GetAllWithRetry(ctx context.Context, opts ...retry.Option) ([]entry.Entry, error) {
	logRetry := func(attempt int, err error, wait time.Duration) {
		e.logger.Warn("journal: read failed, retrying", "attempt", attempt, "wait", wait, "error", err)
	}
	all := append([]retry.Option{
		retry.WithOnRetry(logRetry),
		retry.WithOptions(e.retry),
	}, opts...)
	return retry.Do(ctx, e.GetAll, all...)
}

// Save writes the day's entry the way the journal's write screen does: a
// day with an active entry is only overwritten when replace is set, and
// otherwise yields an *ExistsError carrying the current entry. replaced
// reports whether an active entry was actually superseded.
func (e *Engine) Save(ctx context.Context, d entry.Draft, replace bool) (saved entry.Entry, replaced bool, err error) {
	if strings.TrimSpace(d.Content) == "" {
		return entry.Entry{}, false, &validate.ValidationError{Field: "content", Reason: "must not be blank"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.refresh(ctx); err != nil {
		return entry.Entry{}, false, err
	}
	existing := e.activeFor(d.YMD)
	switch {
	case existing == nil:
		saved, err = e.put(ctx, d)
		return saved, false, err
	case replace:
		saved, err = e.replace(ctx, d)
		return saved, err == nil, err
	default:
		return entry.Entry{}, false, &ExistsError{Existing: *existing}
	}
}

// newID draws from the generator, skipping IDs already in the snapshot.
// Caller must hold e.mu.
func (e *Engine) newID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := e.ids.NewID()
		if !e.hasID(id) {
			return id, nil
		}
		e.logger.Debug("journal: id collision, regenerating", "id", id)
	}
	return "", ErrIDExhausted
}
