package style

import (
	"strings"
	"testing"
)

func TestHelpers(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		style    func(string) string
		contains string
	}{
		{
			name:     "bold text",
			text:     "Hello World",
			style:    Bold,
			contains: "Hello World",
		},
		{
			name:     "title style",
			text:     "Themes",
			style:    func(s string) string { return TitleStyle.Render(s) },
			contains: "Themes",
		},
		{
			name:     "muted style",
			text:     "built-in",
			style:    func(s string) string { return MutedStyle.Render(s) },
			contains: "built-in",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.style(tt.text)
			if !strings.Contains(result, tt.contains) {
				t.Errorf("Expected output to contain %q, got %q", tt.contains, result)
			}
		})
	}
}

func TestIndent(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		level int
	}{
		{name: "no indent", text: "Hello", level: 0},
		{name: "one level", text: "Hello", level: 1},
		{name: "two levels", text: "Hello", level: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Indent(tt.text, tt.level)
			if !strings.Contains(result, tt.text) {
				t.Errorf("Expected output to contain %q, got %q", tt.text, result)
			}
			if got := len(result) - len(strings.TrimLeft(result, " ")); got < tt.level*2 {
				t.Errorf("Expected at least %d leading spaces, got %d", tt.level*2, got)
			}
		})
	}
}

func TestIndicatorsNonEmpty(t *testing.T) {
	for name, indicator := range map[string]string{
		"success": SuccessIndicator,
		"error":   ErrorIndicator,
		"warning": WarningIndicator,
		"info":    InfoIndicator,
	} {
		if indicator == "" {
			t.Errorf("%s indicator is empty", name)
		}
	}
}
