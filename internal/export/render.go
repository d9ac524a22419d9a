package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/onebreath/internal/entry"
)

// Format selects the rendering.
type Format string

const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
)

// separator goes between rendered entries.
const separator = "\n---\n\n"

// timestampLayout is how createdAt is shown.
const timestampLayout = "2006-01-02 15:04"

// ParseFormat accepts "txt"/"text" and "md"/"markdown".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "txt", "text":
		return FormatText, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want txt or md)", s)
	}
}

// MIMEType returns the content type of the rendered document.
func (f Format) MIMEType() string {
	if f == FormatMarkdown {
		return "text/markdown; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Options controls labels and timestamps.
type Options struct {
	// Language picks the label translations. The zero value means English.
	Language language.Tag
	// Location is used to show createdAt. Nil means UTC.
	Location *time.Location
}

// Filename returns the download name for a month, e.g. one-breath-2024-03.md.
func Filename(month string, f Format) string {
	return fmt.Sprintf("one-breath-%s.%s", month, f)
}

// Render writes entries in the given format, in the order given.
func Render(w io.Writer, entries []entry.Entry, f Format, opts Options) error {
	if f != FormatText && f != FormatMarkdown {
		return fmt.Errorf("unknown export format %q", f)
	}
	tag := opts.Language
	if tag == language.Und {
		tag = language.English
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	p := newPrinter(tag)

	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		created := formatCreated(e.CreatedAt, loc)
		if f == FormatMarkdown {
			blocks = append(blocks, markdownBlock(p, e, created))
		} else {
			blocks = append(blocks, textBlock(p, e, created))
		}
	}

	doc := norm.NFC.String(strings.Join(blocks, separator))
	if _, err := io.WriteString(w, doc); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

func textBlock(p *message.Printer, e entry.Entry, created string) string {
	return fmt.Sprintf("%s: %s\n%s: %s\n%s: %s\n",
		p.Sprintf(keyDate), e.YMD,
		p.Sprintf(keyContent), e.Content,
		p.Sprintf(keyCreatedAt), created)
}

func markdownBlock(p *message.Printer, e entry.Entry, created string) string {
	return fmt.Sprintf("## %s\n\n%s\n\n*%s: %s*\n",
		e.YMD, e.Content, p.Sprintf(keyCreatedAt), created)
}

// formatCreated shows a canonical timestamp in loc; anything unparsable is
// shown as stored.
func formatCreated(iso string, loc *time.Location) string {
	t, err := entry.ParseISO(iso)
	if err != nil {
		return iso
	}
	return t.In(loc).Format(timestampLayout)
}
