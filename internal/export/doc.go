// Package export turns journal entries into monthly plain-text and Markdown
// documents.
//
// GroupByMonth picks the months that have active entries; Render writes one
// month's entries in the requested Format with labels in the configured
// language. Output is NFC-normalized so the same journal always exports to the
// same bytes.
package export
