package highlight

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/tinct/pkg/colors"
	"github.com/mattn/go-runewidth"
)

// Alignment positions content within a requested width.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// ParseAlignment maps a flag value to an Alignment, defaulting to left.
func ParseAlignment(s string) Alignment {
	switch strings.ToLower(s) {
	case "center", "centre":
		return AlignCenter
	case "right":
		return AlignRight
	default:
		return AlignLeft
	}
}

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes color escape sequences.
func StripANSI(text string) string {
	return ansiPattern.ReplaceAllString(text, "")
}

// VisibleWidth is the terminal cell width of the text, excluding escape
// sequences. Padding computed on byte length would be corrupted by color
// codes.
func VisibleWidth(text string) int {
	return runewidth.StringWidth(StripANSI(text))
}

// formatWidth pads or truncates to the target visible width.
func formatWidth(text string, width int, align Alignment) string {
	visible := VisibleWidth(text)

	if visible > width {
		return truncate(text, width)
	}

	padding := width - visible
	switch align {
	case AlignRight:
		return strings.Repeat(" ", padding) + text
	case AlignCenter:
		left := padding / 2
		return strings.Repeat(" ", left) + text + strings.Repeat(" ", padding-left)
	default:
		return text + strings.Repeat(" ", padding)
	}
}

// truncate cuts to the target visible width, keeping escape sequences
// intact and appending an ellipsis when there is room for one. A cut that
// would leave an unclosed escape open gets a trailing reset.
func truncate(text string, width int) string {
	if width == 0 {
		return ""
	}

	ellipsis := width > 3
	target := width
	if ellipsis {
		target = width - 3
	}

	var sb strings.Builder
	visible := 0
	i := 0
	for i < len(text) && visible < target {
		if loc := ansiPattern.FindStringIndex(text[i:]); loc != nil && loc[0] == 0 {
			sb.WriteString(text[i : i+loc[1]])
			i += loc[1]
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		w := runewidth.RuneWidth(r)
		if visible+w > target {
			break
		}
		sb.WriteString(text[i : i+size])
		visible += w
		i += size
	}

	result := sb.String()
	if ellipsis {
		result += "..."
	}
	if needsReset(result) {
		result += colors.Reset
	}
	return result
}

// needsReset reports whether the last escape sequence in the text opens a
// style that is never closed.
func needsReset(text string) bool {
	escapes := ansiPattern.FindAllString(text, -1)
	if len(escapes) == 0 {
		return false
	}
	return escapes[len(escapes)-1] != colors.Reset
}
