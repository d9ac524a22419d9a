package export

import (
	"bytes"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/roach88/onebreath/internal/entry"
)

func sampleEntries() []entry.Entry {
	return []entry.Entry{
		{ID: "a", YMD: "2024-03-01", Content: "first breath", CreatedAt: "2024-03-01T08:30:00.000Z"},
		// decomposed e + combining acute, normalized on export
		{ID: "b", YMD: "2024-03-02", Content: "cafe\u0301 <b>", CreatedAt: "2024-03-02T21:05:00.000Z"},
	}
}

func berlin(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	return loc
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRender_TextEnglish(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleEntries(), FormatText, Options{Language: language.English, Location: berlin(t)})
	require.NoError(t, err)

	newGoldie(t).Assert(t, "text_en", buf.Bytes())
}

func TestRender_MarkdownRussian(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleEntries(), FormatMarkdown, Options{Language: language.Russian, Location: berlin(t)})
	require.NoError(t, err)

	newGoldie(t).Assert(t, "markdown_ru", buf.Bytes())
}

func TestRender_Defaults(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleEntries()[:1], FormatText, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Date: 2024-03-01\nContent: first breath\nCreated at: 2024-03-01 08:30\n", buf.String())
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, nil, FormatMarkdown, Options{}))
	assert.Empty(t, buf.String())
}

func TestRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, sampleEntries(), Format("pdf"), Options{}))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"txt", FormatText, false},
		{"TEXT", FormatText, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLanguage(t *testing.T) {
	tag, err := ParseLanguage("")
	require.NoError(t, err)
	assert.Equal(t, language.English, tag)

	tag, err = ParseLanguage("ru")
	require.NoError(t, err)
	assert.Equal(t, language.Russian, tag)

	_, err = ParseLanguage("not a tag!")
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "one-breath-2024-03.txt", Filename("2024-03", FormatText))
	assert.Equal(t, "one-breath-2024-03.md", Filename("2024-03", FormatMarkdown))
}

func TestGroupByMonth(t *testing.T) {
	entries := []entry.Entry{
		{ID: "1", YMD: "2024-03-15", Content: "mid", CreatedAt: "2024-03-15T08:00:00.000Z"},
		{ID: "2", YMD: "2024-02-10", Content: "feb", CreatedAt: "2024-02-10T08:00:00.000Z"},
		{ID: "3", YMD: "2024-03-02", Content: "early", CreatedAt: "2024-03-02T08:00:00.000Z"},
		{ID: "4", YMD: "2024-01-05", Content: "gone", CreatedAt: "2024-01-05T08:00:00.000Z",
			ReplacedAt: entry.StringPtr("2024-01-05T09:00:00.000Z")},
	}

	months := GroupByMonth(entries)
	require.Len(t, months, 2)
	assert.Equal(t, "2024-03", months[0].Key)
	assert.Equal(t, "2024-02", months[1].Key)

	require.Len(t, months[0].Entries, 2)
	assert.Equal(t, "3", months[0].Entries[0].ID)
	assert.Equal(t, "1", months[0].Entries[1].ID)

	m, ok := Find(months, "2024-02")
	require.True(t, ok)
	assert.Len(t, m.Entries, 1)
	_, ok = Find(months, "2024-01")
	assert.False(t, ok, "months with only superseded entries are not offered")
}
