package theme

import (
	"github.com/arthur-debert/tinct/pkg/logging"
)

// Resolve merges a base (defaults) document and an override document into
// one effective document. Override semantics, applied independently per
// section:
//   - a tombstone entry removes the inherited entry, even if it exists
//     only in base
//   - a full entry replaces the base entry wholesale, never field-by-field
//   - entries only in override are added
//   - entries only in base are carried through unchanged
//
// Neither input document is mutated. Metadata comes from the override.
func Resolve(base, override *ThemeDocument) (*ThemeDocument, error) {
	logger := logging.GetLogger("theme.resolve")

	if err := base.Validate(); err != nil {
		return nil, err
	}
	if err := override.Validate(); err != nil {
		return nil, err
	}

	result := &ThemeDocument{
		Metadata:      override.Metadata,
		AutoDetection: resolveRules(base.AutoDetection, override.AutoDetection),
		Filters:       make(map[string]FilterEntry),
	}

	for name, entry := range base.Filters {
		if entry.Disabled {
			continue
		}
		result.Filters[name] = FilterEntry{Filter: copyFilter(entry.Filter)}
	}

	for name, entry := range override.Filters {
		if entry.Disabled {
			logger.Debug().Str("filter", name).Msg("filter disabled by override")
			delete(result.Filters, name)
			continue
		}
		baseEntry, ok := result.Filters[name]
		if !ok {
			result.Filters[name] = FilterEntry{Filter: copyFilter(entry.Filter)}
			continue
		}
		result.Filters[name] = FilterEntry{Filter: &FilterDocument{
			IconMappings: resolveIcons(baseEntry.Filter.IconMappings, entry.Filter.IconMappings),
			Styles:       resolveStyles(baseEntry.Filter.Styles, entry.Filter.Styles),
		}}
	}

	logger.Debug().
		Int("rules", len(result.AutoDetection)).
		Int("filters", len(result.Filters)).
		Msg("theme resolved")

	return result, nil
}

func resolveRules(base, override RuleMap) RuleMap {
	result := make(RuleMap, len(base)+len(override))
	for name, entry := range base {
		if !entry.Disabled {
			result[name] = entry
		}
	}
	for name, entry := range override {
		if entry.Disabled {
			delete(result, name)
			continue
		}
		result[name] = entry
	}
	return result
}

func resolveIcons(base, override IconMap) IconMap {
	result := make(IconMap, len(base)+len(override))
	for label, entry := range base {
		if !entry.Disabled {
			result[label] = entry
		}
	}
	for label, entry := range override {
		if entry.Disabled {
			delete(result, label)
			continue
		}
		result[label] = entry
	}
	return result
}

func resolveStyles(base, override StyleMap) StyleMap {
	result := make(StyleMap, len(base)+len(override))
	for name, entry := range base {
		if !entry.Disabled {
			result[name] = entry
		}
	}
	for name, entry := range override {
		if entry.Disabled {
			delete(result, name)
			continue
		}
		result[name] = entry
	}
	return result
}

func copyFilter(f *FilterDocument) *FilterDocument {
	result := &FilterDocument{
		IconMappings: make(IconMap, len(f.IconMappings)),
		Styles:       make(StyleMap, len(f.Styles)),
	}
	for label, entry := range f.IconMappings {
		result.IconMappings[label] = entry
	}
	for name, entry := range f.Styles {
		result.Styles[name] = entry
	}
	return result
}
