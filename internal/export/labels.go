package export

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Label keys.
const (
	keyDate      = "date"
	keyContent   = "content"
	keyCreatedAt = "created_at"
)

var supported = []language.Tag{language.English, language.Russian}

var matcher = language.NewMatcher(supported)

var labels = func() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	set := func(tag language.Tag, key, msg string) {
		if err := b.SetString(tag, key, msg); err != nil {
			panic(fmt.Sprintf("export: label %s/%s: %v", tag, key, err))
		}
	}
	set(language.English, keyDate, "Date")
	set(language.English, keyContent, "Content")
	set(language.English, keyCreatedAt, "Created at")
	set(language.Russian, keyDate, "Дата")
	set(language.Russian, keyContent, "Содержание")
	set(language.Russian, keyCreatedAt, "Создано")
	return b
}()

// ParseLanguage resolves a language code to a supported tag. An empty code
// means English.
func ParseLanguage(code string) (language.Tag, error) {
	if code == "" {
		return language.English, nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, fmt.Errorf("parse language %q: %w", code, err)
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.Und, fmt.Errorf("unsupported language %q", code)
	}
	return supported[idx], nil
}

func newPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(labels))
}
