// Package label resolves label ids to localized display text.
//
// Locale files are YAML documents embedded in the binary, one per locale,
// named after the locale tag:
//
//	locale: en-US
//	messages:
//	  video_fullscreen: Start in Fullscreen Mode
//
// Messages are registered in an x/text catalog; lookups go through a
// message.Printer for the best matching locale, with the base locale as
// fallback. Ids without a message are shown as is.
package label

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the source locale every id is defined in.
const BaseLocale = "en-US"

// Errors returned while loading locales.
var (
	ErrNoLocales     = errors.New("no locale files found")
	ErrMissingBase   = errors.New("base locale not defined")
	ErrLocaleFile    = errors.New("invalid locale file")
	ErrInvalidLocale = errors.New("invalid locale tag")
)

//go:embed locales/*.yaml
var embedded embed.FS

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle holds the messages of every loaded locale.
type Bundle struct {
	locales map[string]map[string]string
}

// LoadEmbedded loads the locales compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return Load(embedded)
}

// Load reads locales/*.yaml from fsys.
func Load(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	if len(paths) == 0 {
		return nil, ErrNoLocales
	}
	sort.Strings(paths)

	b := &Bundle{locales: make(map[string]map[string]string, len(paths))}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		if err := b.add(p, data); err != nil {
			return nil, err
		}
	}
	if _, ok := b.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingBase, BaseLocale)
	}
	return b, nil
}

func (b *Bundle) add(p string, data []byte) error {
	var f localeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLocaleFile, p, err)
	}

	want := strings.TrimSuffix(path.Base(p), path.Ext(p))
	locale := strings.TrimSpace(f.Locale)
	switch {
	case locale == "":
		return fmt.Errorf("%w: %s: locale is required", ErrLocaleFile, p)
	case locale != want:
		return fmt.Errorf("%w: %s: locale %q must match file name", ErrLocaleFile, p, locale)
	case len(f.Messages) == 0:
		return fmt.Errorf("%w: %s: messages are required", ErrLocaleFile, p)
	}
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidLocale, locale, err)
	}

	msgs := make(map[string]string, len(f.Messages))
	for id, text := range f.Messages {
		id = strings.TrimSpace(id)
		if id == "" {
			return fmt.Errorf("%w: %s: blank message id", ErrLocaleFile, p)
		}
		msgs[id] = text
	}
	b.locales[locale] = msgs
	return nil
}

// Locales returns the loaded locale tags, sorted.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.locales))
	for l := range b.locales {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Missing returns the base-locale ids that locale does not translate.
func (b *Bundle) Missing(locale string) []string {
	msgs, ok := b.locales[locale]
	if !ok {
		return nil
	}
	var out []string
	for id := range b.locales[BaseLocale] {
		if _, ok := msgs[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Localizer returns a localizer for the best match of locale. An empty
// locale selects the base locale.
func (b *Bundle) Localizer(locale string) (*Localizer, error) {
	base := language.MustParse(BaseLocale)
	want := base
	if strings.TrimSpace(locale) != "" {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidLocale, locale, err)
		}
		want = tag
	}

	cat := catalog.NewBuilder(catalog.Fallback(base))
	known := make(map[string]struct{})
	tags := []language.Tag{base}
	for _, l := range b.Locales() {
		tag := language.MustParse(l)
		if tag != base {
			tags = append(tags, tag)
		}
		// Untranslated ids carry the base text.
		msgs := make(map[string]string, len(b.locales[BaseLocale]))
		for id, text := range b.locales[BaseLocale] {
			msgs[id] = text
		}
		for id, text := range b.locales[l] {
			msgs[id] = text
		}
		for id, text := range msgs {
			if err := cat.SetString(tag, id, text); err != nil {
				return nil, fmt.Errorf("register %s %q: %w", l, id, err)
			}
			known[id] = struct{}{}
		}
	}

	_, idx, _ := language.NewMatcher(tags).Match(want)
	tag := tags[idx]
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
		known:   known,
	}, nil
}

// Localizer resolves label ids for one locale.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
	known   map[string]struct{}
}

// Language returns the matched locale.
func (l *Localizer) Language() language.Tag {
	return l.tag
}

// Text returns the localized text of id, or id itself when no locale
// defines it.
func (l *Localizer) Text(id string) string {
	if _, ok := l.known[id]; !ok {
		return id
	}
	return l.printer.Sprintf(id)
}

// Has reports whether some locale defines id.
func (l *Localizer) Has(id string) bool {
	_, ok := l.known[id]
	return ok
}

// Sprintf formats a message id with arguments.
func (l *Localizer) Sprintf(id string, args ...any) string {
	return l.printer.Sprintf(id, args...)
}
