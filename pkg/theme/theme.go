// Package theme provides the in-memory theme document model, YAML loading
// and inheritance resolution between a base document and user overrides.
package theme

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/tinct/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Tombstone is the explicit override value meaning "remove this inherited
// entry". It is distinct from the entry being merely absent.
const Tombstone = "disabled"

// Metadata describes a theme file.
type Metadata struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// StyleAttributes holds the text styling flags shared by rules, icon
// mappings and keyword styles. Immutable once constructed.
type StyleAttributes struct {
	Color         string `yaml:"color"`
	Bold          bool   `yaml:"bold,omitempty"`
	Italic        bool   `yaml:"italic,omitempty"`
	Underline     bool   `yaml:"underline,omitempty"`
	Dim           bool   `yaml:"dim,omitempty"`
	Strikethrough bool   `yaml:"strikethrough,omitempty"`
}

// AutoDetectionRule highlights a regex pattern regardless of active filter.
type AutoDetectionRule struct {
	Pattern         string `yaml:"pattern"`
	Icon            string `yaml:"icon,omitempty"`
	StyleAttributes `yaml:",inline"`
}

// IconMapping replaces a :label: token with a glyph plus styled label.
type IconMapping struct {
	Icon            string `yaml:"icon"`
	StyleAttributes `yaml:",inline"`
}

// KeywordStyle styles a set of literal keywords.
type KeywordStyle struct {
	Keywords        []string `yaml:"keywords"`
	Priority        int      `yaml:"priority,omitempty"`
	StyleAttributes `yaml:",inline"`
}

// RuleEntry is an auto-detection rule or its disable tombstone.
type RuleEntry struct {
	Disabled bool
	Rule     *AutoDetectionRule
	seq      int
}

// IconEntry is an icon mapping or its disable tombstone.
type IconEntry struct {
	Disabled bool
	Icon     *IconMapping
	seq      int
}

// StyleEntry is a keyword style or its disable tombstone.
type StyleEntry struct {
	Disabled bool
	Style    *KeywordStyle
	seq      int
}

// Seq returns the entry's declaration order within its section.
func (e RuleEntry) Seq() int  { return e.seq }
func (e IconEntry) Seq() int  { return e.seq }
func (e StyleEntry) Seq() int { return e.seq }

// RuleMap, IconMap and StyleMap preserve declaration order through the
// entries' Seq values so that compile-time tie-breaking is stable.
type (
	RuleMap  map[string]RuleEntry
	IconMap  map[string]IconEntry
	StyleMap map[string]StyleEntry
)

// FilterDocument groups icon mappings and keyword styles under one filter
// name. Filters are independent from each other.
type FilterDocument struct {
	IconMappings IconMap  `yaml:"icon_mappings,omitempty"`
	Styles       StyleMap `yaml:"styles,omitempty"`
}

// FilterEntry is a filter document or its disable tombstone.
type FilterEntry struct {
	Disabled bool
	Filter   *FilterDocument
}

// ThemeDocument is the resolved in-memory theme before compilation.
type ThemeDocument struct {
	Metadata      Metadata               `yaml:"metadata"`
	Defaults      *ThemeDocument         `yaml:"defaults,omitempty"`
	AutoDetection RuleMap                `yaml:"auto_detection,omitempty"`
	Filters       map[string]FilterEntry `yaml:"filters,omitempty"`
}

// decodeEntry decodes a section value that is either the tombstone scalar
// or a mapping of the concrete type. Anything else is a validation error.
func decodeEntry(value *yaml.Node, key string, out interface{}) (disabled bool, err error) {
	if value.Kind == yaml.ScalarNode {
		if value.Value == Tombstone {
			return true, nil
		}
		return false, errors.Newf(errors.ErrConfigValid,
			"entry %q: expected a mapping or %q, got scalar %q", key, Tombstone, value.Value)
	}
	if value.Kind != yaml.MappingNode {
		return false, errors.Newf(errors.ErrConfigValid,
			"entry %q: expected a mapping or %q", key, Tombstone)
	}
	if err := value.Decode(out); err != nil {
		return false, errors.Wrapf(err, errors.ErrConfigValid, "entry %q is malformed", key)
	}
	return false, nil
}

// UnmarshalYAML decodes a rule section, keeping declaration order.
func (m *RuleMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.New(errors.ErrConfigValid, "auto_detection must be a mapping")
	}
	result := make(RuleMap, len(node.Content)/2)
	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i].Value
		var rule AutoDetectionRule
		disabled, err := decodeEntry(node.Content[i+1], key, &rule)
		if err != nil {
			return err
		}
		entry := RuleEntry{Disabled: disabled, seq: i / 2}
		if !disabled {
			entry.Rule = &rule
		}
		result[key] = entry
	}
	*m = result
	return nil
}

// UnmarshalYAML decodes an icon mapping section, keeping declaration order.
func (m *IconMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.New(errors.ErrConfigValid, "icon_mappings must be a mapping")
	}
	result := make(IconMap, len(node.Content)/2)
	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i].Value
		var icon IconMapping
		disabled, err := decodeEntry(node.Content[i+1], key, &icon)
		if err != nil {
			return err
		}
		entry := IconEntry{Disabled: disabled, seq: i / 2}
		if !disabled {
			entry.Icon = &icon
		}
		result[key] = entry
	}
	*m = result
	return nil
}

// UnmarshalYAML decodes a keyword style section, keeping declaration order.
func (m *StyleMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.New(errors.ErrConfigValid, "styles must be a mapping")
	}
	result := make(StyleMap, len(node.Content)/2)
	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i].Value
		var style KeywordStyle
		disabled, err := decodeEntry(node.Content[i+1], key, &style)
		if err != nil {
			return err
		}
		entry := StyleEntry{Disabled: disabled, seq: i / 2}
		if !disabled {
			entry.Style = &style
		}
		result[key] = entry
	}
	*m = result
	return nil
}

// UnmarshalYAML decodes a filter entry that may be a tombstone.
func (e *FilterEntry) UnmarshalYAML(node *yaml.Node) error {
	var filter FilterDocument
	disabled, err := decodeEntry(node, "filter", &filter)
	if err != nil {
		return err
	}
	e.Disabled = disabled
	if !disabled {
		e.Filter = &filter
	}
	return nil
}

// MarshalYAML emits the tombstone scalar or the wrapped value.
func (e RuleEntry) MarshalYAML() (interface{}, error) {
	if e.Disabled {
		return Tombstone, nil
	}
	return e.Rule, nil
}

func (e IconEntry) MarshalYAML() (interface{}, error) {
	if e.Disabled {
		return Tombstone, nil
	}
	return e.Icon, nil
}

func (e StyleEntry) MarshalYAML() (interface{}, error) {
	if e.Disabled {
		return Tombstone, nil
	}
	return e.Style, nil
}

func (e FilterEntry) MarshalYAML() (interface{}, error) {
	if e.Disabled {
		return Tombstone, nil
	}
	return e.Filter, nil
}

// Validate verifies the document's structural shape. Color name and regex
// validity are compile-time concerns, not checked here.
func (d *ThemeDocument) Validate() error {
	for name, entry := range d.AutoDetection {
		if entry.Disabled {
			continue
		}
		if entry.Rule.Pattern == "" {
			return errors.Newf(errors.ErrConfigValid, "auto-detection rule %q has no pattern", name)
		}
	}
	for filterName, filterEntry := range d.Filters {
		if filterEntry.Disabled {
			continue
		}
		for label, entry := range filterEntry.Filter.IconMappings {
			if entry.Disabled {
				continue
			}
			if entry.Icon.Icon == "" {
				return errors.Newf(errors.ErrConfigValid,
					"icon mapping %q in filter %q has no icon", label, filterName)
			}
		}
		for styleName, entry := range filterEntry.Filter.Styles {
			if entry.Disabled {
				continue
			}
			if len(entry.Style.Keywords) == 0 {
				return errors.Newf(errors.ErrConfigValid,
					"keyword style %q in filter %q has no keywords", styleName, filterName)
			}
		}
	}
	return nil
}

// Canonical returns the deterministic serialized form of the document used
// for fingerprinting. Map keys are emitted in sorted order by the YAML
// encoder, so two documents with identical content always serialize the same.
// Declaration order participates in matcher tie-breaking, so it is appended
// as a trailer: reordering entries changes the fingerprint.
func (d *ThemeDocument) Canonical() ([]byte, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize theme document: %w", err)
	}

	var sb strings.Builder
	sb.Write(data)
	sb.WriteString("# order auto: ")
	sb.WriteString(strings.Join(ruleNamesBySeq(d.AutoDetection), ","))
	sb.WriteByte('\n')

	filterNames := make([]string, 0, len(d.Filters))
	for name := range d.Filters {
		filterNames = append(filterNames, name)
	}
	sort.Strings(filterNames)
	for _, name := range filterNames {
		entry := d.Filters[name]
		if entry.Disabled {
			continue
		}
		sb.WriteString("# order " + name + " icons: ")
		sb.WriteString(strings.Join(iconNamesBySeq(entry.Filter.IconMappings), ","))
		sb.WriteString(" styles: ")
		sb.WriteString(strings.Join(styleNamesBySeq(entry.Filter.Styles), ","))
		sb.WriteByte('\n')
	}

	return []byte(sb.String()), nil
}

func ruleNamesBySeq(m RuleMap) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if m[names[i]].seq != m[names[j]].seq {
			return m[names[i]].seq < m[names[j]].seq
		}
		return names[i] < names[j]
	})
	return names
}

func iconNamesBySeq(m IconMap) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if m[names[i]].seq != m[names[j]].seq {
			return m[names[i]].seq < m[names[j]].seq
		}
		return names[i] < names[j]
	})
	return names
}

func styleNamesBySeq(m StyleMap) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if m[names[i]].seq != m[names[j]].seq {
			return m[names[i]].seq < m[names[j]].seq
		}
		return names[i] < names[j]
	})
	return names
}
