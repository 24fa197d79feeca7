// Package colors provides the semantic color table used by theme
// compilation. The table is an explicit, immutable lookup object: unknown
// names are a lookup failure, never a silent default.
package colors

import (
	"fmt"

	"github.com/arthur-debert/tinct/pkg/errors"
)

// Code is a 256-color terminal color code.
type Code uint8

// ANSI escape codes shared by the rendering layers.
const (
	Reset         = "\x1b[0m"
	Bold          = "\x1b[1m"
	Dim           = "\x1b[2m"
	Italic        = "\x1b[3m"
	Underline     = "\x1b[4m"
	Strikethrough = "\x1b[9m"
)

// Table maps semantic color names to 256-color codes.
type Table struct {
	codes map[string]Code
}

// NewTable returns the built-in color table.
func NewTable() *Table {
	return &Table{codes: map[string]Code{
		// Standard colors
		"black":   0,
		"maroon":  1,
		"olive":   3,
		"navy":    4,
		"teal":    6,
		"silver":  7,
		"grey":    8,
		"gray":    8,
		"red":     9,
		"green":   10,
		"yellow":  11,
		"blue":    12,
		"magenta": 13,
		"cyan":    14,
		"white":   15,

		// Extended semantic names
		"crimson":   160,
		"scarlet":   196,
		"ruby":      124,
		"amber":     214,
		"gold":      220,
		"orange":    208,
		"emerald":   46,
		"forest":    28,
		"mint":      121,
		"azure":     39,
		"royal":     21,
		"sky":       117,
		"steel":     67,
		"violet":    129,
		"purple":    93,
		"lavender":  183,
		"orchid":    170,
		"pink":      205,
		"rose":      211,
		"coral":     209,
		"salmon":    210,
		"brown":     130,
		"tan":       180,
		"charcoal":  238,
		"slate":     245,
		"ash":       250,
		"snow":      255,
		"turquoise": 45,
		"indigo":    54,
	}}
}

// Lookup resolves a semantic color name to its 256-color code.
// Unknown names return an INVALID_COLOR error.
func (t *Table) Lookup(name string) (Code, error) {
	code, ok := t.codes[name]
	if !ok {
		return 0, errors.Newf(errors.ErrInvalidColor, "unknown color name %q", name).
			WithDetail("color", name)
	}
	return code, nil
}

// Has reports whether the table knows the given color name.
func (t *Table) Has(name string) bool {
	_, ok := t.codes[name]
	return ok
}

// Names returns the number of known color names.
func (t *Table) Names() int {
	return len(t.codes)
}

// Escape returns the 256-color foreground escape sequence for a code.
func Escape(code Code) string {
	return fmt.Sprintf("\x1b[38;5;%dm", code)
}
