// Package validate checks journal records before they are trusted or persisted.
//
// Two layers exist. Base-shape validation (Rules.Draft) applies to payloads a
// caller asks to write; failing it rejects the write. Full-entity validation
// (Rules.Entry, Rules.DecodeRecord) additionally requires an ID and applies to
// records read back from storage or supplied to administrative bulk writes.
package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/roach88/onebreath/internal/entry"
)

// Rules carries the configurable limits.
type Rules struct {
	MaxContentLength int
}

// DefaultRules returns the stock limits.
func DefaultRules() Rules {
	return Rules{MaxContentLength: entry.MaxContentLength}
}

// ValidationError describes the first field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid entry: %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Draft validates a write payload: content non-empty and within the limit,
// a real calendar day, canonical timestamps.
func (r Rules) Draft(d entry.Draft) error {
	limit := r.MaxContentLength
	if limit <= 0 {
		limit = entry.MaxContentLength
	}

	if d.Content == "" {
		return &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if !utf8.ValidString(d.Content) {
		return &ValidationError{Field: "content", Reason: "not valid UTF-8"}
	}
	if n := entry.ContentLength(d.Content); n > limit {
		return &ValidationError{Field: "content", Reason: fmt.Sprintf("length %d exceeds %d", n, limit)}
	}
	if !utf8.ValidString(d.YMD) || !entry.IsValidYMD(d.YMD) {
		return &ValidationError{Field: "ymd", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD calendar date", d.YMD)}
	}
	if !utf8.ValidString(d.CreatedAt) || !entry.IsValidISODate(d.CreatedAt) {
		return &ValidationError{Field: "createdAt", Reason: fmt.Sprintf("%q is not a canonical ISO timestamp", d.CreatedAt)}
	}
	if d.ReplacedAt != nil && (!utf8.ValidString(*d.ReplacedAt) || !entry.IsValidISODate(*d.ReplacedAt)) {
		return &ValidationError{Field: "replacedAt", Reason: fmt.Sprintf("%q is not a canonical ISO timestamp", *d.ReplacedAt)}
	}
	return nil
}

// Entry validates a complete record: base shape plus a non-empty ID.
func (r Rules) Entry(e entry.Entry) error {
	if e.ID == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if !utf8.ValidString(e.ID) {
		return &ValidationError{Field: "id", Reason: "not valid UTF-8"}
	}
	return r.Draft(e.Draft())
}

// IsValidBaseEntry is the boolean form of DefaultRules().Draft.
func IsValidBaseEntry(d entry.Draft) bool {
	return DefaultRules().Draft(d) == nil
}

// IsValidEntry is the boolean form of DefaultRules().Entry.
func IsValidEntry(e entry.Entry) bool {
	return DefaultRules().Entry(e) == nil
}

// Persisted field names. Keys must match exactly; encoding/json alone would
// also accept "ID" or "Content".
const (
	keyID         = "id"
	keyYMD        = "ymd"
	keyContent    = "content"
	keyCreatedAt  = "createdAt"
	keyReplacedAt = "replacedAt"
)

// DecodeRecord decodes one untrusted persisted record and applies full-entity
// validation. Callers rehydrating a history drop records that fail here rather
// than aborting the whole read.
func (r Rules) DecodeRecord(raw json.RawMessage) (entry.Entry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return entry.Entry{}, &ValidationError{Field: "record", Reason: "not an object"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return entry.Entry{}, &ValidationError{Field: "record", Reason: err.Error()}
	}

	var e entry.Entry
	required := []struct {
		name string
		dst  *string
	}{
		{keyID, &e.ID},
		{keyYMD, &e.YMD},
		{keyContent, &e.Content},
		{keyCreatedAt, &e.CreatedAt},
	}
	for _, f := range required {
		v, err := stringField(fields, f.name)
		if err != nil {
			return entry.Entry{}, err
		}
		if v == nil {
			return entry.Entry{}, &ValidationError{Field: f.name, Reason: "missing"}
		}
		*f.dst = *v
	}

	replacedAt, err := stringField(fields, keyReplacedAt)
	if err != nil {
		return entry.Entry{}, err
	}
	e.ReplacedAt = replacedAt

	if err := r.Entry(e); err != nil {
		return entry.Entry{}, err
	}
	return e, nil
}

// stringField returns the string under the exact key name, or nil when the
// key is absent or null.
func stringField(fields map[string]json.RawMessage, name string) (*string, error) {
	raw, ok := fields[name]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &ValidationError{Field: name, Reason: "not a string"}
	}
	return &v, nil
}
