// Package compile turns a resolved theme document into an ordered set of
// compiled matchers with deterministic precedence. Compilation is fail-closed:
// any invalid color name or regex aborts the whole theme.
package compile

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"

	"github.com/arthur-debert/tinct/internal/version"
	"github.com/arthur-debert/tinct/pkg/colors"
	"github.com/arthur-debert/tinct/pkg/errors"
	"github.com/arthur-debert/tinct/pkg/logging"
	"github.com/arthur-debert/tinct/pkg/theme"
)

// Action selects the rendering behavior of a matcher.
type Action string

const (
	// ActionAutoDetect styles the whole regex match, optionally icon-prefixed.
	ActionAutoDetect Action = "auto"

	// ActionColonKeyword styles a keyword immediately followed by a colon
	// and whitespace-or-end. The colon stays unstyled.
	ActionColonKeyword Action = "colon"

	// ActionBracketKeyword styles a [keyword], brackets staying unstyled.
	ActionBracketKeyword Action = "bracket"

	// ActionIconSub replaces a :label: token with glyph plus styled label,
	// dropping the colons.
	ActionIconSub Action = "icon"
)

// Matcher pairs a compiled regex with its rendering action. Immutable,
// owned exclusively by a Filter or the theme's auto-detection set.
type Matcher struct {
	Name    string `yaml:"name"`
	Action  Action `yaml:"action"`
	Pattern string `yaml:"pattern"`
	Style   string `yaml:"style"` // pre-rendered ANSI prefix, "" when unstyled
	Icon    string `yaml:"icon,omitempty"`

	// Ordering keys: explicit priority first, then descending literal
	// length, ties broken by declaration order.
	Priority int `yaml:"priority"`
	Length   int `yaml:"length"`
	Seq      int `yaml:"seq"`

	Regex *regexp.Regexp `yaml:"-"`
}

// Filter is the ordered, priority-sorted matcher sequence for one filter name.
type Filter struct {
	IconMatchers    []Matcher `yaml:"icon_matchers,omitempty"`
	KeywordMatchers []Matcher `yaml:"keyword_matchers,omitempty"`
}

// Theme is the cacheable compiled unit: built from a ThemeDocument,
// persisted, loaded, and invalidated wholesale when the source fingerprint
// no longer matches.
type Theme struct {
	Version       string            `yaml:"version"`
	Fingerprint   string            `yaml:"fingerprint"`
	AutoDetection []Matcher         `yaml:"auto_detection,omitempty"`
	Filters       map[string]Filter `yaml:"filters,omitempty"`
}

// Filter returns the compiled filter for a name, or nil when the theme
// does not define it.
func (t *Theme) Filter(name string) *Filter {
	if f, ok := t.Filters[name]; ok {
		return &f
	}
	return nil
}

// InitRuntime compiles the regex objects after deserialization. Pattern
// sources were validated at compile time, but a tampered cache file may
// still fail here; callers treat that as a cache miss.
func (t *Theme) InitRuntime() error {
	for i := range t.AutoDetection {
		if err := t.AutoDetection[i].initRegex(); err != nil {
			return err
		}
	}
	for name, filter := range t.Filters {
		for i := range filter.IconMatchers {
			if err := filter.IconMatchers[i].initRegex(); err != nil {
				return err
			}
		}
		for i := range filter.KeywordMatchers {
			if err := filter.KeywordMatchers[i].initRegex(); err != nil {
				return err
			}
		}
		t.Filters[name] = filter
	}
	return nil
}

func (m *Matcher) initRegex() error {
	re, err := regexp.Compile(m.Pattern)
	if err != nil {
		return errors.Wrapf(err, errors.ErrRegexCompile,
			"pattern for matcher %q does not compile", m.Name)
	}
	m.Regex = re
	return nil
}

// Fingerprint computes the deterministic content hash of a theme document's
// canonical serialized form.
func Fingerprint(doc *theme.ThemeDocument) (string, error) {
	canonical, err := doc.Canonical()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Compiler compiles theme documents against an explicit color table.
type Compiler struct {
	colors       *colors.Table
	compilations int
}

// New creates a Compiler using the given color table.
func New(table *colors.Table) *Compiler {
	return &Compiler{colors: table}
}

// Compilations returns how many full theme compilations this compiler has
// performed. Cache hits perform none.
func (c *Compiler) Compilations() int {
	return c.compilations
}

// Compile builds a compiled theme from a resolved document. No partial
// theme is ever produced: the first invalid color or pattern aborts.
func (c *Compiler) Compile(doc *theme.ThemeDocument) (*Theme, error) {
	logger := logging.GetLogger("compile")

	fingerprint, err := Fingerprint(doc)
	if err != nil {
		return nil, err
	}

	compiled := &Theme{
		Version:     version.Version,
		Fingerprint: fingerprint,
		Filters:     make(map[string]Filter, len(doc.Filters)),
	}

	compiled.AutoDetection, err = c.compileRules(doc.AutoDetection)
	if err != nil {
		return nil, err
	}

	for name, entry := range doc.Filters {
		if entry.Disabled {
			return nil, errors.Newf(errors.ErrConfigValid,
				"filter %q: unresolved disable tombstone in compiled input", name)
		}
		filter, err := c.compileFilter(name, entry.Filter)
		if err != nil {
			return nil, err
		}
		compiled.Filters[name] = filter
	}

	c.compilations++
	logger.Debug().
		Str("fingerprint", fingerprint[:12]).
		Int("rules", len(compiled.AutoDetection)).
		Int("filters", len(compiled.Filters)).
		Msg("theme compiled")

	return compiled, nil
}

func (c *Compiler) compileRules(rules theme.RuleMap) ([]Matcher, error) {
	matchers := make([]Matcher, 0, len(rules))
	for name, entry := range rules {
		if entry.Disabled {
			return nil, errors.Newf(errors.ErrConfigValid,
				"auto-detection rule %q: unresolved disable tombstone in compiled input", name)
		}
		style, err := c.renderStyle(entry.Rule.StyleAttributes)
		if err != nil {
			return nil, err
		}
		m := Matcher{
			Name:    name,
			Action:  ActionAutoDetect,
			Pattern: entry.Rule.Pattern,
			Style:   style,
			Icon:    entry.Rule.Icon,
			Seq:     entry.Seq(),
		}
		if err := m.initRegex(); err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	// Regex source length says nothing about match length, so the
	// longest-literal-first ordering used for keywords does not apply
	// here. Rules run in declaration order: most specific first.
	sort.SliceStable(matchers, func(i, j int) bool {
		return matchers[i].Seq < matchers[j].Seq
	})
	return matchers, nil
}

func (c *Compiler) compileFilter(filterName string, doc *theme.FilterDocument) (Filter, error) {
	var filter Filter

	for label, entry := range doc.IconMappings {
		if entry.Disabled {
			return filter, errors.Newf(errors.ErrConfigValid,
				"icon mapping %q in filter %q: unresolved disable tombstone in compiled input",
				label, filterName)
		}
		style, err := c.renderStyle(entry.Icon.StyleAttributes)
		if err != nil {
			return filter, err
		}
		// Labels are identifiers: the match is exact, not case-folded.
		m := Matcher{
			Name:    label,
			Action:  ActionIconSub,
			Pattern: ":" + regexp.QuoteMeta(label) + ":",
			Style:   style,
			Icon:    entry.Icon.Icon,
			Length:  len(label),
			Seq:     entry.Seq(),
		}
		if err := m.initRegex(); err != nil {
			return filter, err
		}
		filter.IconMatchers = append(filter.IconMatchers, m)
	}

	for styleName, entry := range doc.Styles {
		if entry.Disabled {
			return filter, errors.Newf(errors.ErrConfigValid,
				"keyword style %q in filter %q: unresolved disable tombstone in compiled input",
				styleName, filterName)
		}
		style, err := c.renderStyle(entry.Style.StyleAttributes)
		if err != nil {
			return filter, err
		}
		for i, keyword := range entry.Style.Keywords {
			quoted := regexp.QuoteMeta(keyword)
			seq := entry.Seq()*1000 + i*2

			colon := Matcher{
				Name:     styleName,
				Action:   ActionColonKeyword,
				Pattern:  `(?i)\b(` + quoted + `):(\s|$)`,
				Style:    style,
				Priority: entry.Style.Priority,
				Length:   len(keyword),
				Seq:      seq,
			}
			bracket := Matcher{
				Name:     styleName,
				Action:   ActionBracketKeyword,
				Pattern:  `(?i)\[(` + quoted + `)\]`,
				Style:    style,
				Priority: entry.Style.Priority,
				Length:   len(keyword),
				Seq:      seq + 1,
			}
			for _, m := range []*Matcher{&colon, &bracket} {
				if err := m.initRegex(); err != nil {
					return filter, err
				}
			}
			filter.KeywordMatchers = append(filter.KeywordMatchers, colon, bracket)
		}
	}

	sortMatchers(filter.IconMatchers)
	sortMatchers(filter.KeywordMatchers)
	return filter, nil
}

// sortMatchers establishes longest-match-first precedence: explicit
// priority, then descending literal length, declaration order as the
// stable tie-break.
func sortMatchers(matchers []Matcher) {
	sort.SliceStable(matchers, func(i, j int) bool {
		if matchers[i].Priority != matchers[j].Priority {
			return matchers[i].Priority > matchers[j].Priority
		}
		if matchers[i].Length != matchers[j].Length {
			return matchers[i].Length > matchers[j].Length
		}
		return matchers[i].Seq < matchers[j].Seq
	})
}

// renderStyle resolves a style's color name and flags into a single ANSI
// prefix. Color lookups happen here, once, never at render time.
func (c *Compiler) renderStyle(attrs theme.StyleAttributes) (string, error) {
	var sb strings.Builder

	if attrs.Color != "" {
		code, err := c.colors.Lookup(attrs.Color)
		if err != nil {
			return "", err
		}
		sb.WriteString(colors.Escape(code))
	}
	if attrs.Bold {
		sb.WriteString(colors.Bold)
	}
	if attrs.Dim {
		sb.WriteString(colors.Dim)
	}
	if attrs.Italic {
		sb.WriteString(colors.Italic)
	}
	if attrs.Underline {
		sb.WriteString(colors.Underline)
	}
	if attrs.Strikethrough {
		sb.WriteString(colors.Strikethrough)
	}

	return sb.String(), nil
}
