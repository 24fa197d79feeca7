package theme

import (
	"os"
	"strings"

	"github.com/arthur-debert/tinct/pkg/errors"
	"github.com/arthur-debert/tinct/pkg/logging"
	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML theme document. If the document carries a defaults
// section, the document's own sections are resolved against it as overrides
// and the returned document has no defaults section left.
func Parse(data []byte) (*ThemeDocument, error) {
	var doc ThemeDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		if errors.GetErrorCode(err) == errors.ErrConfigValid {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrThemeParse, "failed to parse theme document")
	}

	if doc.Defaults == nil {
		if err := doc.Validate(); err != nil {
			return nil, err
		}
		return &doc, nil
	}

	base := doc.Defaults
	override := &ThemeDocument{
		Metadata:      doc.Metadata,
		AutoDetection: doc.AutoDetection,
		Filters:       doc.Filters,
	}
	return Resolve(base, override)
}

// LoadFromFile reads and parses a theme file, applying inheritance.
func LoadFromFile(path string) (*ThemeDocument, error) {
	logger := logging.GetLogger("theme.load")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read theme file %s", path)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("path", path).
		Str("theme", doc.Metadata.Name).
		Msg("theme loaded")

	return doc, nil
}

// SaveToFile writes a theme document as YAML.
func SaveToFile(doc *ThemeDocument, path string) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to serialize theme")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write theme file %s", path)
	}
	return nil
}

// Default returns the built-in minimal theme: auto-detection only,
// no filters. Used when no theme file is available. Icons degrade to text
// badges when the locale is not UTF-8.
func Default() *ThemeDocument {
	urlIcon, verIcon, pathIcon := "🔗", "🏷️", "📁"
	if !supportsUnicode() {
		urlIcon, verIcon, pathIcon = "[URL]", "[VER]", "[PATH]"
	}

	return &ThemeDocument{
		Metadata: Metadata{
			Name:        "tinct-minimal",
			Version:     "1.0.0",
			Description: "Minimal default theme with auto-detection only",
		},
		AutoDetection: RuleMap{
			"urls": RuleEntry{Rule: &AutoDetectionRule{
				Pattern:         `https?://\S+`,
				Icon:            urlIcon,
				StyleAttributes: StyleAttributes{Color: "royal", Underline: true},
			}},
			"versions": RuleEntry{Rule: &AutoDetectionRule{
				Pattern:         `\bv?\d+\.\d+\.\d+(-\w+)?\b`,
				Icon:            verIcon,
				StyleAttributes: StyleAttributes{Color: "emerald", Bold: true},
			}, seq: 1},
			"paths": RuleEntry{Rule: &AutoDetectionRule{
				Pattern:         `[~/][^\s]+\.[a-z]{2,4}\b`,
				Icon:            pathIcon,
				StyleAttributes: StyleAttributes{Color: "azure", Underline: true},
			}, seq: 2},
		},
		Filters: map[string]FilterEntry{},
	}
}

// supportsUnicode is a basic locale heuristic for icon glyph support.
func supportsUnicode() bool {
	locale := os.Getenv("LANG")
	if locale == "" {
		locale = os.Getenv("LC_ALL")
	}
	return strings.Contains(locale, "UTF-8") || strings.Contains(locale, "utf8")
}
