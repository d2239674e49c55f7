package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is used whenever a locale or key is missing.
const DefaultLocale = "en"

//go:embed locales
var embedded embed.FS

type Translations map[string]string

var (
	locales = make(map[string]Translations)
	matcher = language.NewMatcher([]language.Tag{language.English})
	tags    = []string{DefaultLocale}
	mu      sync.RWMutex
)

func init() {
	if err := Load(); err != nil {
		panic(fmt.Sprintf("i18n: failed to load bundled translations: %v", err))
	}
}

// Load reads the mailer translations bundled with the binary.
func Load() error {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		return err
	}
	return LoadTranslations(sub)
}

// LoadTranslations reads <locale>/mailers.yaml for every directory in fsys.
func LoadTranslations(fsys fs.FS) error {
	mu.Lock()
	defer mu.Unlock()

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		locale := entry.Name()
		filePath := path.Join(locale, "mailers.yaml")

		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			continue
		}

		var file struct {
			Mailers Translations `yaml:"MAILERS"`
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filePath, err)
		}

		locales[locale] = file.Mailers
	}

	rebuildMatcher()
	return nil
}

// rebuildMatcher must be called with mu held.
func rebuildMatcher() {
	names := make([]string, 0, len(locales))
	for name := range locales {
		if name != DefaultLocale {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	names = append([]string{DefaultLocale}, names...)

	supported := make([]language.Tag, 0, len(names))
	for _, name := range names {
		supported = append(supported, language.Make(name))
	}

	tags = names
	matcher = language.NewMatcher(supported)
}

// Match returns the loaded locale closest to the requested one, falling back
// to DefaultLocale.
func Match(locale string) string {
	mu.RLock()
	defer mu.RUnlock()

	if locale == "" {
		return DefaultLocale
	}
	_, idx := language.MatchStrings(matcher, locale)
	if idx < 0 || idx >= len(tags) {
		return DefaultLocale
	}
	return tags[idx]
}

func Translate(locale, key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if trans, ok := locales[locale]; ok {
		if val, ok := trans[key]; ok {
			return val
		}
	}

	if locale != DefaultLocale {
		if trans, ok := locales[DefaultLocale]; ok {
			if val, ok := trans[key]; ok {
				return val
			}
		}
	}

	return key
}

// T translates key for the best matching locale and formats it with args.
func T(locale, key string, args ...interface{}) string {
	val := Translate(Match(locale), key)
	if len(args) == 0 {
		return val
	}
	return fmt.Sprintf(val, args...)
}
