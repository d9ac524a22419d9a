package migrate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// CurrentVersion is the envelope version this build writes.
const CurrentVersion = 1

// State is a fully migrated envelope whose records are still undecoded.
type State struct {
	Version int
	Entries []json.RawMessage
}

// Empty returns the empty current-version state.
func Empty() State {
	return State{Version: CurrentVersion, Entries: []json.RawMessage{}}
}

// Step upgrades a payload by exactly one version. Apply must be pure.
type Step struct {
	From  int
	To    int
	Apply func(Payload) Payload
}

// Steps returns the registered migration chain.
func Steps() []Step {
	return []Step{
		{From: 0, To: 1, Apply: upgradeV0},
	}
}

// upgradeV0 lifts the unversioned envelope. Anything that is not a legacy
// envelope carries no recoverable records.
func upgradeV0(p Payload) Payload {
	if legacy, ok := p.(LegacyV0); ok {
		return EnvelopeV1{Entries: legacy.Entries}
	}
	return EnvelopeV1{}
}

// Migrator runs a step chain up to a target version.
type Migrator struct {
	Current int
	Steps   []Step
	Logger  *slog.Logger
}

// NewMigrator returns a migrator targeting CurrentVersion with the registered
// steps.
func NewMigrator(logger *slog.Logger) *Migrator {
	return &Migrator{Current: CurrentVersion, Steps: Steps(), Logger: logger}
}

// Migrate detects and migrates a parsed document.
func Migrate(doc json.RawMessage) State {
	return NewMigrator(nil).Migrate(doc)
}

// Migrate detects and migrates a parsed document.
func (m *Migrator) Migrate(doc json.RawMessage) State {
	return m.Run(Detect(doc))
}

// Run walks the step chain from p's version to m.Current.
func (m *Migrator) Run(p Payload) (st State) {
	defer func() {
		if r := recover(); r != nil {
			st = m.fallback("step panicked", "panic", fmt.Sprint(r))
		}
	}()

	from := p.Version()
	limit := len(m.Steps) + 1
	for i := 0; ; i++ {
		v := p.Version()
		if v == m.Current {
			return State{Version: v, Entries: nonNil(p.Records())}
		}
		if i >= limit {
			return m.fallback("migration chain did not terminate", "from", from, "steps", i)
		}

		step, ok := m.find(v)
		if !ok {
			return m.fallback("no migration step", "from", from, "at", v)
		}
		next := step.Apply(p)
		if next == nil || next.Version() != step.To {
			return m.fallback("migration step produced wrong version", "from", step.From, "to", step.To)
		}
		p = next
	}
}

func (m *Migrator) find(version int) (Step, bool) {
	for _, s := range m.Steps {
		if s.From == version && s.Apply != nil {
			return s, true
		}
	}
	return Step{}, false
}

func (m *Migrator) fallback(msg string, args ...any) State {
	if m.Logger != nil {
		m.Logger.Warn("migrate: "+msg+", resetting to empty state", args...)
	}
	return State{Version: m.Current, Entries: []json.RawMessage{}}
}

// Encode renders st as the persisted envelope. HTML escaping is disabled so
// records survive an encode/migrate round trip byte for byte.
func Encode(st State) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(struct {
		Version int               `json:"version"`
		Entries []json.RawMessage `json:"entries"`
	}{st.Version, nonNil(st.Entries)})
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return []byte(strings.TrimSpace(buf.String())), nil
}

func nonNil(records []json.RawMessage) []json.RawMessage {
	if records == nil {
		return []json.RawMessage{}
	}
	return records
}
