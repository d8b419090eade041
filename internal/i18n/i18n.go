package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a user-facing message.
type Key string

//nolint:gochecknoglobals // Languages with a translation, the first one is the fallback.
var supported = []language.Tag{
	language.SimplifiedChinese,
	language.English,
}

// Localizer renders user-facing messages in one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a localizer for the closest supported match of lang, which is
// a BCP 47 tag such as "zh-CN" or "en". Unknown tags fall back to Chinese.
func New(lang string) *Localizer {
	tag := supported[0]

	if parsed, err := language.Parse(strings.TrimSpace(lang)); err == nil {
		matcher := language.NewMatcher(supported)
		_, index, confidence := matcher.Match(parsed)

		if confidence != language.No {
			tag = supported[index]
		}
	}

	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messages())),
	}
}

// Language returns the selected language.
func (l *Localizer) Language() language.Tag {
	return l.tag
}

// T renders key with args.
func (l *Localizer) T(key Key, args ...any) string {
	return l.printer.Sprintf(string(key), args...)
}

// Wrap prefixes err with the rendered key, keeping err in the chain.
func (l *Localizer) Wrap(err error, key Key, args ...any) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", l.T(key, args...), err)
}

// messages builds the catalog from the translation table.
func messages() catalog.Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(supported[0]))

	for key, texts := range translations {
		_ = builder.SetString(language.SimplifiedChinese, string(key), texts.zh)
		_ = builder.SetString(language.English, string(key), texts.en)
	}

	return builder
}
