package entry

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidYMD(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2024-02-29", true},
		{"2025-03-01", true},
		{"0001-01-01", true},
		{"2024-02-30", false},
		{"2023-02-29", false},
		{"2024-13-01", false},
		{"2024-1-01", false},
		{"20240101", false},
		{"2024-01-01T00:00:00.000Z", false},
		{" 2024-01-01", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidYMD(tt.in))
		})
	}
}

func TestIsValidISODate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2025-01-15T08:00:00.000Z", true},
		{"2024-02-29T23:59:59.999Z", true},
		{"2025-01-15T08:00:00Z", false},
		{"2025-01-15T08:00:00.0Z", false},
		{"2025-01-15T08:00:00.000+00:00", false},
		{"2025-01-15 08:00:00.000Z", false},
		{"2024-02-30T08:00:00.000Z", false},
		{"2025-01-15", false},
		{"not a date", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidISODate(tt.in))
		})
	}
}

func TestFormatISO_RoundTrip(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	ts := time.Date(2025, 1, 15, 11, 0, 0, 123456789, loc)

	s := FormatISO(ts)
	assert.Equal(t, "2025-01-15T08:00:00.123Z", s)
	assert.True(t, IsValidISODate(s))

	parsed, err := ParseISO(s)
	require.NoError(t, err)
	assert.Equal(t, s, FormatISO(parsed))
}

func TestContentLength_CountsUTF16Units(t *testing.T) {
	assert.Equal(t, 0, ContentLength(""))
	assert.Equal(t, 5, ContentLength("hello"))
	assert.Equal(t, 6, ContentLength("привет"))
	// U+1F600 is outside the BMP and takes a surrogate pair.
	assert.Equal(t, 2, ContentLength("\U0001F600"))
	assert.Equal(t, 280, ContentLength(strings.Repeat("a", 280)))
}

func TestClone_DoesNotShareReplacedAt(t *testing.T) {
	orig := Entry{
		ID:         "a",
		YMD:        "2025-01-15",
		Content:    "x",
		CreatedAt:  "2025-01-15T08:00:00.000Z",
		ReplacedAt: StringPtr("2025-01-15T09:00:00.000Z"),
	}

	clone := orig.Clone()
	*clone.ReplacedAt = "mutated"

	assert.Equal(t, "2025-01-15T09:00:00.000Z", *orig.ReplacedAt)
	assert.True(t, orig.Equal(orig.Clone()))
	assert.False(t, orig.Equal(clone))
}

func TestEqual_NilReplacedAt(t *testing.T) {
	a := Entry{ID: "a", YMD: "2025-01-15", Content: "x", CreatedAt: "2025-01-15T08:00:00.000Z"}
	b := a
	assert.True(t, a.Equal(b))

	b.ReplacedAt = StringPtr("2025-01-15T09:00:00.000Z")
	assert.False(t, a.Equal(b))
	assert.False(t, b.Equal(a))
}

func TestDraftWithID_IsActive(t *testing.T) {
	d := Draft{
		YMD:        "2025-01-15",
		Content:    "x",
		CreatedAt:  "2025-01-15T08:00:00.000Z",
		ReplacedAt: StringPtr("2025-01-15T09:00:00.000Z"),
	}

	e := d.WithID("id-1")
	assert.Equal(t, "id-1", e.ID)
	assert.True(t, e.Active())
	assert.Equal(t, d.Content, e.Content)
}

func TestCloneAll_NilYieldsEmpty(t *testing.T) {
	out := CloneAll(nil)
	require.NotNil(t, out)
	assert.Empty(t, out)
}

func TestSortForList(t *testing.T) {
	entries := []Entry{
		{ID: "1", YMD: "2025-01-14", CreatedAt: "2025-01-14T08:00:00.000Z"},
		{ID: "2", YMD: "2025-01-15", CreatedAt: "2025-01-15T08:00:00.000Z"},
		{ID: "3", YMD: "2025-01-15", CreatedAt: "2025-01-15T20:00:00.000Z"},
		{ID: "4", YMD: "2024-12-31", CreatedAt: "2025-01-01T00:00:00.000Z"},
	}

	sorted := SortForList(entries)

	ids := make([]string, len(sorted))
	for i, e := range sorted {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"3", "2", "1", "4"}, ids)
	assert.Equal(t, "1", entries[0].ID, "input must not be reordered")
}

func TestSortChronologically(t *testing.T) {
	entries := []Entry{
		{ID: "late", CreatedAt: "2025-01-15T20:00:00.000Z"},
		{ID: "early", CreatedAt: "2025-01-15T06:00:00.000Z"},
		{ID: "mid", CreatedAt: "2025-01-15T08:00:00.000Z"},
	}

	sorted := SortChronologically(entries)
	assert.Equal(t, "early", sorted[0].ID)
	assert.Equal(t, "mid", sorted[1].ID)
	assert.Equal(t, "late", sorted[2].ID)
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2025-03", MonthKey("2025-03-01"))
	assert.Equal(t, "2025", MonthKey("2025"))
}
