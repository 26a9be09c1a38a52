// Package i18n resolves namespaced message ids ("booking.errors.nameRequired")
// against the embedded locale catalogs.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed locales/*.json
var localesFS embed.FS

// DefaultLanguage is used when nothing better matches.
const DefaultLanguage = "en"

type Catalog struct {
	msgs    map[string]map[string]string // lang -> key -> text
	langs   []string                     // langs[0] is the default
	matcher language.Matcher
}

// Load parses every embedded locale file.
func Load() (*Catalog, error) {
	entries, err := localesFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: read locales: %w", err)
	}
	c := &Catalog{msgs: map[string]map[string]string{}}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		b, err := localesFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", e.Name(), err)
		}
		var tree map[string]any
		if err := json.Unmarshal(b, &tree); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", e.Name(), err)
		}
		flat := map[string]string{}
		flatten("", tree, flat)
		c.msgs[strings.TrimSuffix(e.Name(), ".json")] = flat
	}
	if _, ok := c.msgs[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("i18n: missing default locale %q", DefaultLanguage)
	}

	c.langs = []string{DefaultLanguage}
	for l := range c.msgs {
		if l != DefaultLanguage {
			c.langs = append(c.langs, l)
		}
	}
	sort.Strings(c.langs[1:])
	tags := make([]language.Tag, len(c.langs))
	for i, l := range c.langs {
		tags[i] = language.Make(l)
	}
	c.matcher = language.NewMatcher(tags)
	return c, nil
}

// MustLoad panics if the embedded catalogs are broken.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch t := v.(type) {
		case string:
			out[key] = t
		case map[string]any:
			flatten(key, t, out)
		}
	}
}

// T returns the message for key in lang, falling back to the default
// language and finally to the key itself.
func (c *Catalog) T(lang, key string) string {
	if m, ok := c.msgs[c.Match(lang)]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := c.msgs[DefaultLanguage][key]; ok {
		return s
	}
	return key
}

// Format is T with {name} placeholders substituted.
func (c *Catalog) Format(lang, key string, args map[string]string) string {
	s := c.T(lang, key)
	for k, v := range args {
		s = strings.ReplaceAll(s, "{"+k+"}", v)
	}
	return s
}

func (c *Catalog) Languages() []string {
	return append([]string(nil), c.langs...)
}

// Match maps a language code ("es-PA", "fr") to a supported catalog.
func (c *Catalog) Match(lang string) string {
	if _, ok := c.msgs[lang]; ok {
		return lang
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return DefaultLanguage
	}
	return c.best(tag)
}

// Negotiate picks a catalog from an Accept-Language header value.
func (c *Catalog) Negotiate(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	return c.best(tags...)
}

func (c *Catalog) best(tags ...language.Tag) string {
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}
	return c.langs[idx]
}

// Printer returns a locale-aware printer for numbers.
func Printer(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}
