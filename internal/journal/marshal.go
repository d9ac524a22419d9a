package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/onebreath/internal/entry"
)

// envelope is the persisted shape. ReplacedAt serializes as null when nil.
type envelope struct {
	Version int           `json:"version"`
	Entries []entry.Entry `json:"entries"`
}

// encodeState renders the canonical JSON envelope.
// HTML escaping is disabled so content is stored as typed.
func encodeState(version int, entries []entry.Entry) (string, error) {
	if entries == nil {
		entries = []entry.Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(envelope{Version: version, Entries: entries}); err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}
