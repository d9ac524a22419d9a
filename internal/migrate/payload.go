package migrate

import (
	"bytes"
	"encoding/json"
	"math"
)

// Payload is one recognised persisted shape.
type Payload interface {
	// Version is the schema version the payload is at.
	Version() int
	// Records returns the undecoded entry records carried by the payload.
	Records() []json.RawMessage
}

// Unrecognized is any document that is not a JSON object. It is treated as
// version 0 with no records.
type Unrecognized struct{}

func (Unrecognized) Version() int              { return 0 }
func (Unrecognized) Records() []json.RawMessage { return nil }

// LegacyV0 is the pre-versioning envelope: an object without a version field.
// Entries is nil when the object had no array-typed "entries" field.
type LegacyV0 struct {
	Entries []json.RawMessage
}

func (LegacyV0) Version() int                { return 0 }
func (p LegacyV0) Records() []json.RawMessage { return p.Entries }

// EnvelopeV1 is the current envelope.
type EnvelopeV1 struct {
	Entries []json.RawMessage
}

func (EnvelopeV1) Version() int                { return 1 }
func (p EnvelopeV1) Records() []json.RawMessage { return p.Entries }

// Foreign is an envelope declaring a version with no dedicated type, such as
// one written by a newer build.
type Foreign struct {
	Declared int
	Entries  []json.RawMessage
}

func (p Foreign) Version() int                { return p.Declared }
func (p Foreign) Records() []json.RawMessage { return p.Entries }

// Detect classifies a parsed document. A version field that is missing, not a
// number, or not an integer is treated as absent (version 0). An "entries"
// field that is not an array is treated as absent.
func Detect(doc json.RawMessage) Payload {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Unrecognized{}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Unrecognized{}
	}

	entries := extractEntries(fields["entries"])

	version, ok := extractVersion(fields["version"])
	if !ok || version == 0 {
		return LegacyV0{Entries: entries}
	}
	if version == 1 {
		return EnvelopeV1{Entries: entries}
	}
	return Foreign{Declared: version, Entries: entries}
}

func extractVersion(raw json.RawMessage) (int, bool) {
	if raw == nil {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// extractEntries returns the array elements compacted, so a record's bytes do
// not depend on the whitespace of the document it came from.
func extractEntries(raw json.RawMessage) []json.RawMessage {
	if raw == nil {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		var buf bytes.Buffer
		if err := json.Compact(&buf, item); err != nil {
			continue
		}
		out = append(out, json.RawMessage(buf.Bytes()))
	}
	return out
}
