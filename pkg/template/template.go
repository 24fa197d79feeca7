// Package template implements the %c:colorname(text) inline color
// templating layer. Parsing is deliberately conservative: nesting is not
// supported (inner templates stay literal), unknown color names and
// unbalanced parentheses leave the input untouched.
package template

import (
	"strings"

	"github.com/arthur-debert/tinct/pkg/colors"
)

// Parser expands color templates against a color table.
type Parser struct {
	colors  *colors.Table
	noColor bool
}

// NewParser creates a template parser. In no-color mode templates are
// stripped to their plain content instead of colorized.
func NewParser(table *colors.Table, noColor bool) *Parser {
	return &Parser{colors: table, noColor: noColor}
}

// Process expands every %c:colorname(text) template in the input.
func (p *Parser) Process(text string) string {
	var sb strings.Builder
	runes := []rune(text)
	i := 0

	for i < len(runes) {
		if end, content, ok := p.parseTemplateAt(runes, i); ok {
			sb.WriteString(content)
			i = end
			continue
		}
		sb.WriteRune(runes[i])
		i++
	}

	return sb.String()
}

// parseTemplateAt tries to parse a template starting at pos. It returns the
// position after the closing parenthesis and the processed content.
func (p *Parser) parseTemplateAt(runes []rune, pos int) (end int, content string, ok bool) {
	// Minimal template is %c:x(…)
	if pos+4 >= len(runes) {
		return 0, "", false
	}
	if runes[pos] != '%' || runes[pos+1] != 'c' || runes[pos+2] != ':' {
		return 0, "", false
	}

	var colorName strings.Builder
	i := pos + 3
	for i < len(runes) && runes[i] != '(' {
		ch := runes[i]
		if !isIdentRune(ch) {
			return 0, "", false
		}
		colorName.WriteRune(ch)
		i++
	}
	if i >= len(runes) || runes[i] != '(' {
		return 0, "", false
	}

	inner, next, ok := balancedContent(runes, i+1)
	if !ok {
		return 0, "", false
	}

	if p.noColor {
		return next, inner, true
	}

	code, err := p.colors.Lookup(colorName.String())
	if err != nil {
		// Unknown color: the whole template stays literal.
		return 0, "", false
	}

	return next, colors.Escape(code) + inner + colors.Reset, true
}

// balancedContent consumes everything up to the parenthesis balancing the
// already-consumed opener. Returns the inner content and the position after
// the closer.
func balancedContent(runes []rune, start int) (content string, end int, ok bool) {
	depth := 1
	var sb strings.Builder

	for i := start; i < len(runes); i++ {
		switch runes[i] {
		case '(':
			depth++
			sb.WriteRune('(')
		case ')':
			depth--
			if depth == 0 {
				return sb.String(), i + 1, true
			}
			sb.WriteRune(')')
		default:
			sb.WriteRune(runes[i])
		}
	}

	return "", 0, false
}

func isIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
