package validate

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/onebreath/internal/entry"
)

func validDraft() entry.Draft {
	return entry.Draft{
		YMD:       "2025-01-15",
		Content:   "First thought of the day",
		CreatedAt: "2025-01-15T08:00:00.000Z",
	}
}

func TestDraft_ContentLengthBoundary(t *testing.T) {
	rules := DefaultRules()

	d := validDraft()
	d.Content = strings.Repeat("a", 280)
	assert.NoError(t, rules.Draft(d))

	d.Content = strings.Repeat("a", 281)
	err := rules.Draft(d)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "content")
}

func TestDraft_SurrogatePairsCountTwice(t *testing.T) {
	d := validDraft()
	d.Content = strings.Repeat("\U0001F600", 140)
	assert.NoError(t, DefaultRules().Draft(d))

	d.Content += "a"
	assert.Error(t, DefaultRules().Draft(d))
}

func TestDraft_CalendarDates(t *testing.T) {
	d := validDraft()

	d.YMD = "2024-02-29"
	assert.NoError(t, DefaultRules().Draft(d))

	d.YMD = "2024-02-30"
	err := DefaultRules().Draft(d)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "ymd", ve.Field)
}

func TestDraft_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*entry.Draft)
		field  string
	}{
		{"empty content", func(d *entry.Draft) { d.Content = "" }, "content"},
		{"bad ymd", func(d *entry.Draft) { d.YMD = "15/01/2025" }, "ymd"},
		{"non-canonical createdAt", func(d *entry.Draft) { d.CreatedAt = "2025-01-15T08:00:00Z" }, "createdAt"},
		{"bad replacedAt", func(d *entry.Draft) { d.ReplacedAt = entry.StringPtr("yesterday") }, "replacedAt"},
		{"invalid utf-8 content", func(d *entry.Draft) { d.Content = "ok \xff\xfe bytes" }, "content"},
		{"invalid utf-8 ymd", func(d *entry.Draft) { d.YMD = "2025-01-1\xff" }, "ymd"},
		{"invalid utf-8 createdAt", func(d *entry.Draft) { d.CreatedAt = "2025-01-15T08:00:00.000Z\xc3" }, "createdAt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			err := DefaultRules().Draft(d)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.False(t, IsValidBaseEntry(d))
		})
	}
}

func TestDraft_CustomLimit(t *testing.T) {
	rules := Rules{MaxContentLength: 10}
	d := validDraft()

	d.Content = strings.Repeat("b", 10)
	assert.NoError(t, rules.Draft(d))

	d.Content = strings.Repeat("b", 11)
	assert.Error(t, rules.Draft(d))
}

func TestEntry_RequiresID(t *testing.T) {
	e := validDraft().WithID("")
	assert.False(t, IsValidEntry(e))

	e.ID = "abc"
	assert.True(t, IsValidEntry(e))

	e.ID = "abc\xff"
	var ve *ValidationError
	require.ErrorAs(t, DefaultRules().Entry(e), &ve)
	assert.Equal(t, "id", ve.Field)
}

func TestDecodeRecord(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"well formed", `{"id":"a","ymd":"2025-01-15","content":"x","createdAt":"2025-01-15T08:00:00.000Z","replacedAt":null}`, true},
		{"replacedAt absent", `{"id":"a","ymd":"2025-01-15","content":"x","createdAt":"2025-01-15T08:00:00.000Z"}`, true},
		{"superseded", `{"id":"a","ymd":"2025-01-15","content":"x","createdAt":"2025-01-15T08:00:00.000Z","replacedAt":"2025-01-15T09:00:00.000Z"}`, true},
		{"missing id", `{"ymd":"2025-01-15","content":"x","createdAt":"2025-01-15T08:00:00.000Z"}`, false},
		{"empty id", `{"id":"","ymd":"2025-01-15","content":"x","createdAt":"2025-01-15T08:00:00.000Z"}`, false},
		{"numeric id", `{"id":7,"ymd":"2025-01-15","content":"x","createdAt":"2025-01-15T08:00:00.000Z"}`, false},
		{"missing content", `{"id":"a","ymd":"2025-01-15","createdAt":"2025-01-15T08:00:00.000Z"}`, false},
		{"bad date", `{"id":"a","ymd":"2025-02-30","content":"x","createdAt":"2025-01-15T08:00:00.000Z"}`, false},
		{"wrong key case", `{"ID":"a","YMD":"2025-01-15","CONTENT":"x","CreatedAT":"2025-01-15T08:00:00.000Z"}`, false},
		{"mixed key case", `{"id":"a","ymd":"2025-01-15","Content":"x","createdAt":"2025-01-15T08:00:00.000Z"}`, false},
		{"numeric replacedAt", `{"id":"a","ymd":"2025-01-15","content":"x","createdAt":"2025-01-15T08:00:00.000Z","replacedAt":3}`, false},
		{"array", `[1,2]`, false},
		{"null", `null`, false},
		{"string", `"entry"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := DefaultRules().DecodeRecord(json.RawMessage(tt.raw))
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, "a", e.ID)
				return
			}
			assert.True(t, IsValidationError(err), "got %v", err)
		})
	}
}
