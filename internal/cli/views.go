package cli

import (
	"fmt"
	"strings"

	"github.com/roach88/onebreath/internal/entry"
	"github.com/roach88/onebreath/internal/journal"
)

// EntryView is an entry plus its local creation time.
type EntryView struct {
	entry.Entry
	CreatedLocal string `json:"createdLocal"`
}

func (s *session) view(e entry.Entry) EntryView {
	return EntryView{Entry: e, CreatedLocal: s.localTime(e.CreatedAt)}
}

func (v EntryView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s", v.YMD, v.CreatedLocal)
	if !v.Active() {
		fmt.Fprintf(&b, "  (replaced %s)", *v.ReplacedAt)
	}
	fmt.Fprintf(&b, "\n  %s", v.Content)
	return b.String()
}

// DayResult is the output of today.
type DayResult struct {
	YMD   string     `json:"ymd"`
	Entry *EntryView `json:"entry"`
}

func (r DayResult) String() string {
	if r.Entry == nil {
		return fmt.Sprintf("No entry for %s yet.", r.YMD)
	}
	return r.Entry.String()
}

// WriteResult is the output of write.
type WriteResult struct {
	Entry    EntryView `json:"entry"`
	Replaced bool      `json:"replaced"`
	Limit    int       `json:"limit"`
}

func (r WriteResult) String() string {
	verb := "Saved"
	if r.Replaced {
		verb = "Replaced"
	}
	return fmt.Sprintf("%s entry for %s (%d/%d).", verb, r.Entry.YMD, entry.ContentLength(r.Entry.Content), r.Limit)
}

// HistoryResult is the output of history.
type HistoryResult struct {
	Entries []EntryView `json:"entries"`
}

func (r HistoryResult) String() string {
	if len(r.Entries) == 0 {
		return "No entries yet."
	}
	parts := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, "\n\n")
}

// MonthSummary is one row of months.
type MonthSummary struct {
	Month   string `json:"month"`
	Entries int    `json:"entries"`
}

// MonthsResult is the output of months.
type MonthsResult struct {
	Months []MonthSummary `json:"months"`
}

func (r MonthsResult) String() string {
	if len(r.Months) == 0 {
		return "No months available."
	}
	lines := make([]string, len(r.Months))
	for i, m := range r.Months {
		lines[i] = fmt.Sprintf("%s  %d", m.Month, m.Entries)
	}
	return strings.Join(lines, "\n")
}

// StatusResult is the output of status.
type StatusResult struct {
	Backend string        `json:"backend"`
	Path    string        `json:"path,omitempty"`
	Key     string        `json:"key"`
	Entries int           `json:"entries"`
	Active  int           `json:"active"`
	Stats   journal.Stats `json:"stats"`
}

func (r StatusResult) String() string {
	mode := "persistent"
	if !r.Stats.Persistent {
		mode = "memory only"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "backend:   %s (%s)\n", r.Backend, mode)
	if r.Path != "" {
		fmt.Fprintf(&b, "path:      %s\n", r.Path)
	}
	fmt.Fprintf(&b, "key:       %s\n", r.Key)
	fmt.Fprintf(&b, "version:   %d\n", r.Stats.Version)
	fmt.Fprintf(&b, "entries:   %d (%d active)\n", r.Entries, r.Active)
	fmt.Fprintf(&b, "revision:  %d", r.Stats.Revision)
	if r.Stats.PersistFailures > 0 {
		fmt.Fprintf(&b, "\nfailures:  %d (last: %s)", r.Stats.PersistFailures, r.Stats.LastPersistError)
	}
	return b.String()
}
