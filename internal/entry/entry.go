package entry

import "unicode/utf16"

// MaxContentLength is the default upper bound on Content, in UTF-16 code units.
const MaxContentLength = 280

// Entry is one journal record.
type Entry struct {
	ID         string  `json:"id"`
	YMD        string  `json:"ymd"`
	Content    string  `json:"content"`
	CreatedAt  string  `json:"createdAt"`
	ReplacedAt *string `json:"replacedAt"`
}

// Draft is an entry payload before the engine assigns it an ID.
type Draft struct {
	YMD        string  `json:"ymd"`
	Content    string  `json:"content"`
	CreatedAt  string  `json:"createdAt"`
	ReplacedAt *string `json:"replacedAt,omitempty"`
}

// Active reports whether the entry has not been superseded.
func (e Entry) Active() bool {
	return e.ReplacedAt == nil
}

// Draft returns the entry without its ID.
func (e Entry) Draft() Draft {
	return Draft{
		YMD:        e.YMD,
		Content:    e.Content,
		CreatedAt:  e.CreatedAt,
		ReplacedAt: copyString(e.ReplacedAt),
	}
}

// Clone returns a deep copy. The ReplacedAt pointer is never shared.
func (e Entry) Clone() Entry {
	e.ReplacedAt = copyString(e.ReplacedAt)
	return e
}

// Equal compares every field, treating two nil ReplacedAt values as equal.
func (e Entry) Equal(other Entry) bool {
	if e.ID != other.ID || e.YMD != other.YMD || e.Content != other.Content || e.CreatedAt != other.CreatedAt {
		return false
	}
	if e.ReplacedAt == nil || other.ReplacedAt == nil {
		return e.ReplacedAt == nil && other.ReplacedAt == nil
	}
	return *e.ReplacedAt == *other.ReplacedAt
}

// WithID materializes a draft into an active entry.
func (d Draft) WithID(id string) Entry {
	return Entry{
		ID:        id,
		YMD:       d.YMD,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
}

// CloneAll deep-copies a slice of entries. A nil input yields an empty slice.
func CloneAll(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

// ContentLength counts s in UTF-16 code units, the unit the length limit is
// expressed in. Characters outside the Basic Multilingual Plane count twice.
func ContentLength(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
