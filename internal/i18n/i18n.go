// Package i18n resolves the localized strings shown in the UI.
// Built-in catalogs cover English, Spanish and German; extra locales or
// overrides can be dropped into the config directory as YAML bundles.
package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// Keys used by the widgets. Bundles may override any of them.
const (
	KeyConnected    = "status.connected"
	KeyReconnecting = "status.reconnecting"
	KeyDisconnected = "status.disconnected"
	KeyTypingOne    = "typing.one"
	KeyTypingMany   = "typing.many"
	KeyMemberCount  = "members.count"
)

var supported = []language.Tag{
	language.English,
	language.Spanish,
	language.German,
}

var builtin = map[language.Tag]map[string]string{
	language.English: {
		KeyConnected:    "Connected",
		KeyReconnecting: "Reconnecting...",
		KeyDisconnected: "Disconnected",
		KeyTypingOne:    "%s is typing...",
		KeyTypingMany:   "%d people are typing...",
		KeyMemberCount:  "%d members, %d online",
	},
	language.Spanish: {
		KeyConnected:    "Conectado",
		KeyReconnecting: "Reconectando...",
		KeyDisconnected: "Desconectado",
		KeyTypingOne:    "%s está escribiendo...",
		KeyTypingMany:   "%d personas están escribiendo...",
		KeyMemberCount:  "%d miembros, %d en línea",
	},
	language.German: {
		KeyConnected:    "Verbunden",
		KeyReconnecting: "Verbinde erneut...",
		KeyDisconnected: "Getrennt",
		KeyTypingOne:    "%s schreibt...",
		KeyTypingMany:   "%d Personen schreiben...",
		KeyMemberCount:  "%d Mitglieder, %d online",
	},
}

// Translator looks up localized strings for one resolved locale.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New builds a Translator for the requested locale. The locale is matched
// against the supported set, so "es-MX" resolves to Spanish and anything
// unrecognized falls back to English. If bundleDir is non-empty, every
// {tag}.yaml file in it is loaded on top of the built-in catalogs.
func New(locale, bundleDir string) (*Translator, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range builtin {
		for key, txt := range msgs {
			if err := b.SetString(tag, key, txt); err != nil {
				return nil, fmt.Errorf("failed to register %s/%s: %w", tag, key, err)
			}
		}
	}

	if bundleDir != "" {
		if err := loadBundles(b, bundleDir); err != nil {
			return nil, err
		}
	}

	tag := resolve(locale)
	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b)),
	}, nil
}

func resolve(locale string) language.Tag {
	if locale == "" {
		return language.English
	}
	desired, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	matcher := language.NewMatcher(supported)
	_, idx, _ := matcher.Match(desired)
	return supported[idx]
}

// loadBundles reads {tag}.yaml files containing a flat key -> string map.
func loadBundles(b *catalog.Builder, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read locale bundles: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		tag, err := language.Parse(strings.TrimSuffix(name, ".yaml"))
		if err != nil {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read bundle %s: %w", name, err)
		}
		var msgs map[string]string
		if err := yaml.Unmarshal(data, &msgs); err != nil {
			return fmt.Errorf("failed to parse bundle %s: %w", name, err)
		}
		for key, txt := range msgs {
			if err := b.SetString(tag, key, txt); err != nil {
				return fmt.Errorf("failed to register %s/%s: %w", tag, key, err)
			}
		}
	}
	return nil
}

// Get returns the localized string for key. Unknown keys come back
// unchanged, which makes missing translations visible instead of silent.
func (t *Translator) Get(key string) string {
	return t.printer.Sprintf(key)
}

// Getf returns the localized string for key formatted with args.
func (t *Translator) Getf(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}

// Locale returns the resolved locale tag, e.g. "en".
func (t *Translator) Locale() string {
	return t.tag.String()
}

// Locales returns the built-in locale tags, for config validation.
func Locales() []string {
	out := make([]string, len(supported))
	for i, tag := range supported {
		out[i] = tag.String()
	}
	return out
}
