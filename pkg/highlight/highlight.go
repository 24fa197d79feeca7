// Package highlight applies a compiled theme to single lines of text.
// Each call is pure with respect to the compiled theme: the same theme and
// line always produce the same output, and no state is carried between lines.
package highlight

import (
	"strings"

	"github.com/arthur-debert/tinct/pkg/colors"
	"github.com/arthur-debert/tinct/pkg/compile"
)

// Options selects the per-run highlighting behavior.
type Options struct {
	// Filter names the active filter; unknown names skip the icon and
	// keyword layers.
	Filter string

	// Width pads (or truncates) the visible length to this target.
	// Zero disables width formatting.
	Width int

	// Align positions content within Width.
	Align Alignment

	// NoColor suppresses escape emission. Icon substitution still
	// rewrites text; everything else passes through byte-identical.
	NoColor bool
}

// Highlighter applies a compiled theme line by line. Safe to reuse for the
// life of the process; it holds only read-only references.
type Highlighter struct {
	theme *compile.Theme
	opts  Options
}

// New creates a Highlighter for a compiled theme.
func New(theme *compile.Theme, opts Options) *Highlighter {
	return &Highlighter{theme: theme, opts: opts}
}

// span is a run of text within a line. Locked spans hold replacements from
// an earlier matcher and are never re-scanned, so styled output cannot be
// re-colored by a later layer.
type span struct {
	text   string
	locked bool
}

func joinSpans(spans []span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.text)
	}
	return sb.String()
}

// Line runs the four fixed layers over one line of text (no trailing
// newline) and returns the styled result.
func (h *Highlighter) Line(line string) string {
	spans := []span{{text: line}}

	// Layer 1: auto-detection, always on regardless of filter.
	for i := range h.theme.AutoDetection {
		spans = h.apply(spans, &h.theme.AutoDetection[i])
	}

	// Layers 2 and 3: active filter's icon and keyword matchers.
	if filter := h.theme.Filter(h.opts.Filter); filter != nil {
		for i := range filter.IconMatchers {
			spans = h.apply(spans, &filter.IconMatchers[i])
		}
		for i := range filter.KeywordMatchers {
			spans = h.apply(spans, &filter.KeywordMatchers[i])
		}
	}

	result := joinSpans(spans)

	// Layer 4: width and alignment on visible characters.
	if h.opts.Width > 0 {
		result = formatWidth(result, h.opts.Width, h.opts.Align)
	}

	return result
}

// apply runs one matcher over all unlocked spans, splitting each match out
// into a locked replacement span.
func (h *Highlighter) apply(spans []span, m *compile.Matcher) []span {
	// No-color mode: wrap actions are identity, so only icon substitution
	// has any text to rewrite.
	if h.opts.NoColor && m.Action != compile.ActionIconSub {
		return spans
	}

	result := make([]span, 0, len(spans))
	for _, s := range spans {
		if s.locked {
			result = append(result, s)
			continue
		}

		matches := m.Regex.FindAllStringSubmatchIndex(s.text, -1)
		if len(matches) == 0 {
			result = append(result, s)
			continue
		}

		last := 0
		for _, loc := range matches {
			if loc[0] > last {
				result = append(result, span{text: s.text[last:loc[0]]})
			}
			result = append(result, span{text: h.render(m, s.text, loc), locked: true})
			last = loc[1]
		}
		if last < len(s.text) {
			result = append(result, span{text: s.text[last:]})
		}
	}
	return result
}

// render produces the replacement text for one match. Every opened escape
// is closed within the replacement itself.
func (h *Highlighter) render(m *compile.Matcher, text string, loc []int) string {
	group := func(n int) string {
		if 2*n+1 >= len(loc) || loc[2*n] < 0 {
			return ""
		}
		return text[loc[2*n]:loc[2*n+1]]
	}

	switch m.Action {
	case compile.ActionColonKeyword:
		if m.Style == "" {
			return group(0)
		}
		// word + ":" + trailing whitespace; the colon stays unstyled.
		return m.Style + group(1) + colors.Reset + ":" + group(2)

	case compile.ActionBracketKeyword:
		if m.Style == "" {
			return group(0)
		}
		return "[" + m.Style + group(1) + colors.Reset + "]"

	case compile.ActionIconSub:
		// Glyph goes outside the escape so terminals that double-width
		// emoji do not swallow the color sequence.
		if h.opts.NoColor || m.Style == "" {
			return m.Icon + " " + m.Name
		}
		return m.Icon + " " + m.Style + m.Name + colors.Reset

	case compile.ActionAutoDetect:
		styled := group(0)
		if m.Style != "" {
			styled = m.Style + styled + colors.Reset
		}
		if m.Icon != "" {
			return m.Icon + " " + styled
		}
		return styled
	}

	return group(0)
}
