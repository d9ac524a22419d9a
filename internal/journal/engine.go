package journal

import (
	"log/slog"
	"sync"

	"github.com/roach88/onebreath/internal/clock"
	"github.com/roach88/onebreath/internal/entry"
	"github.com/roach88/onebreath/internal/kv"
	"github.com/roach88/onebreath/internal/migrate"
	"github.com/roach88/onebreath/internal/retry"
	"github.com/roach88/onebreath/internal/validate"
)

// Keys names the storage keys the engine uses.
type Keys struct {
	// Current holds the versioned envelope.
	Current string
	// Legacy is read once and migrated into Current if Current is absent.
	Legacy string
	// Probe is written and removed by the capability probe.
	Probe string
}

// DefaultKeys returns the stock key names.
func DefaultKeys() Keys {
	return Keys{
		Current: "one-breath::entries::v2",
		Legacy:  "one-breath::entries::v1",
		Probe:   kv.DefaultProbeKey,
	}
}

// Engine is the journal storage engine. Construct it once with New and share
// the pointer; the zero value is not usable.
type Engine struct {
	mu sync.Mutex

	store    kv.Store
	clock    clock.Clock
	ids      IDGenerator
	rules    validate.Rules
	migrator *migrate.Migrator
	logger   *slog.Logger
	keys     Keys
	retry    retry.Options

	probed     bool
	persistent bool

	version  int
	entries  []entry.Entry
	revision uint64
	index    *dayIndex

	// dirty is set when the snapshot holds writes the store rejected.
	// While set, the read path trusts memory over the store.
	dirty bool

	persistFailures int
	lastPersistErr  error
}

// Option configures an Engine.
type Option func(*Engine)

// WithKV sets the backing store. Without one the engine is memory-only.
func WithKV(s kv.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithClock sets the clock used for replacedAt stamps.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithIDGenerator sets the entry ID source.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRules sets the validation limits.
func WithRules(r validate.Rules) Option {
	return func(e *Engine) { e.rules = r }
}

// WithMigrator replaces the envelope migrator.
func WithMigrator(m *migrate.Migrator) Option {
	return func(e *Engine) { e.migrator = m }
}

// WithKeys overrides the storage key names.
func WithKeys(k Keys) Option {
	return func(e *Engine) { e.keys = k }
}

// WithRetryOptions sets the defaults GetAllWithRetry starts from.
func WithRetryOptions(o retry.Options) Option {
	return func(e *Engine) { e.retry = o }
}

// New creates an engine. Nothing touches the store until the first operation.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:   clock.System{},
		ids:     UUIDv7Generator{},
		rules:   validate.DefaultRules(),
		logger:  slog.Default(),
		keys:    DefaultKeys(),
		retry:   retry.DefaultOptions(),
		version: migrate.CurrentVersion,
		entries: []entry.Entry{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.migrator == nil {
		e.migrator = migrate.NewMigrator(e.logger)
	}
	if e.keys.Probe == "" {
		e.keys.Probe = kv.DefaultProbeKey
	}
	return e
}

// Stats is a point-in-time view of engine health.
type Stats struct {
	Version          int    `json:"version"`
	Revision         uint64 `json:"revision"`
	Entries          int    `json:"entries"`
	Probed           bool   `json:"probed"`
	Persistent       bool   `json:"persistent"`
	PersistFailures  int    `json:"persistFailures"`
	LastPersistError string `json:"lastPersistError,omitempty"`
}

// Stats reports the engine's current counters. It does not touch the store.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Stats{
		Version:         e.version,
		Revision:        e.revision,
		Entries:         len(e.entries),
		Probed:          e.probed,
		Persistent:      e.persistent,
		PersistFailures: e.persistFailures,
	}
	if e.lastPersistErr != nil {
		s.LastPersistError = e.lastPersistErr.Error()
	}
	return s
}

// Revision returns the snapshot revision. It increases whenever the
// in-memory state changes.
func (e *Engine) Revision() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.revision
}
