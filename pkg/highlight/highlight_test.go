package highlight

import (
	"strings"
	"testing"

	"github.com/arthur-debert/tinct/pkg/colors"
	"github.com/arthur-debert/tinct/pkg/compile"
	"github.com/arthur-debert/tinct/pkg/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	yellow = "\x1b[38;5;11m"
	red    = "\x1b[38;5;9m"
	reset  = "\x1b[0m"
)

func compileTheme(t *testing.T, src string) *compile.Theme {
	t.Helper()
	doc, err := theme.Parse([]byte(src))
	require.NoError(t, err)
	compiled, err := compile.New(colors.NewTable()).Compile(doc)
	require.NoError(t, err)
	return compiled
}

const todoTheme = `
metadata:
  name: todo
filters:
  todo:
    icon_mappings:
      critical:
        icon: "🔥"
        color: crimson
    styles:
      tasks:
        keywords: ["task"]
        color: yellow
      urgency:
        keywords: ["URGENT"]
        color: red
`

func TestNoMatchLinePassesThrough(t *testing.T) {
	h := New(compileTheme(t, todoTheme), Options{Filter: "todo"})

	lines := []string{
		"nothing to see here",
		"",
		"almost a tasking line but not quite",
	}
	for _, line := range lines {
		assert.Equal(t, line, h.Line(line))
	}
}

func TestColonKeyword(t *testing.T) {
	h := New(compileTheme(t, todoTheme), Options{Filter: "todo"})

	got := h.Line("task: Fix bug")
	assert.Equal(t, yellow+"task"+reset+": Fix bug", got)
}

func TestColonKeywordAtLineEnd(t *testing.T) {
	h := New(compileTheme(t, todoTheme), Options{Filter: "todo"})

	got := h.Line("task:")
	assert.Equal(t, yellow+"task"+reset+":", got)
}

func TestBracketKeyword(t *testing.T) {
	h := New(compileTheme(t, todoTheme), Options{Filter: "todo"})

	got := h.Line("[URGENT] deadline")
	assert.Equal(t, "["+red+"URGENT"+reset+"] deadline", got)
}

func TestKeywordCaseInsensitive(t *testing.T) {
	h := New(compileTheme(t, todoTheme), Options{Filter: "todo"})

	got := h.Line("[urgent] deadline")
	assert.Equal(t, "["+red+"urgent"+reset+"] deadline", got)
}

func TestLongestMatchPrecedence(t *testing.T) {
	compiled := compileTheme(t, `
filters:
  todo:
    styles:
      low:
        keywords: ["urgent"]
        color: yellow
      high:
        keywords: ["urgent-task"]
        color: red
`)
	h := New(compiled, Options{Filter: "todo"})

	// "urgent-task" must be styled by its own rule, never by "urgent"
	// matching as a prefix.
	got := h.Line("[urgent-task]")
	assert.Equal(t, "["+red+"urgent-task"+reset+"]", got)

	got = h.Line("urgent-task: now")
	assert.Equal(t, red+"urgent-task"+reset+": now", got)
}

func TestIconSubstitution(t *testing.T) {
	h := New(compileTheme(t, todoTheme), Options{Filter: "todo"})

	got := h.Line("see :critical: issue")
	crimson := "\x1b[38;5;160m"
	assert.Equal(t, "see 🔥 "+crimson+"critical"+reset+" issue", got)
}

func TestUnknownIconPassesThrough(t *testing.T) {
	h := New(compileTheme(t, todoTheme), Options{Filter: "todo"})

	got := h.Line("a :unknown_pattern: stays")
	assert.Equal(t, "a :unknown_pattern: stays", got)
}

func TestIconLabelIsCaseExact(t *testing.T) {
	h := New(compileTheme(t, todoTheme), Options{Filter: "todo"})

	got := h.Line(":CRITICAL:")
	assert.Equal(t, ":CRITICAL:", got)
}

func TestUnknownFilterSkipsFilterLayers(t *testing.T) {
	h := New(compileTheme(t, todoTheme), Options{Filter: "nope"})

	got := h.Line("task: and :critical:")
	assert.Equal(t, "task: and :critical:", got)
}

func TestAutoDetectionRunsRegardlessOfFilter(t *testing.T) {
	compiled := compileTheme(t, `
auto_detection:
  urls:
    pattern: 'https?://\S+'
    color: royal
`)
	h := New(compiled, Options{Filter: "whatever"})

	royal := "\x1b[38;5;21m"
	got := h.Line("see https://example.com now")
	assert.Equal(t, "see "+royal+"https://example.com"+reset+" now", got)
}

func TestAutoDetectionWithIcon(t *testing.T) {
	compiled := compileTheme(t, `
auto_detection:
  urls:
    pattern: 'https?://\S+'
    color: royal
    icon: "🔗"
`)
	h := New(compiled, Options{})

	got := h.Line("https://example.com")
	assert.Equal(t, "🔗 \x1b[38;5;21mhttps://example.com"+reset, got)
}

func TestReplacedSpansAreNotRescanned(t *testing.T) {
	// The icon layer rewrites ":task:"; the keyword layer must not restyle
	// the substituted label even though it matches the keyword.
	compiled := compileTheme(t, `
filters:
  todo:
    icon_mappings:
      task:
        icon: "📌"
        color: crimson
    styles:
      tasks:
        keywords: ["task"]
        color: yellow
`)
	h := New(compiled, Options{Filter: "todo"})

	crimson := "\x1b[38;5;160m"
	got := h.Line(":task: task: two")
	assert.Equal(t, "📌 "+crimson+"task"+reset+" "+yellow+"task"+reset+": two", got)
}

func TestIdempotentRerun(t *testing.T) {
	h := New(compileTheme(t, todoTheme), Options{Filter: "todo"})

	line := "task: ship it [URGENT]"
	first := h.Line(line)
	second := h.Line(line)
	assert.Equal(t, first, second)
}

func TestEveryEscapeIsClosed(t *testing.T) {
	h := New(compileTheme(t, todoTheme), Options{Filter: "todo"})

	got := h.Line("task: :critical: [URGENT]")
	opens := strings.Count(got, "\x1b[38;5;")
	closes := strings.Count(got, reset)
	assert.Equal(t, opens, closes)
	assert.False(t, strings.HasSuffix(StripANSI(got), "\x1b"))
}

func TestNoColorMode(t *testing.T) {
	h := New(compileTheme(t, todoTheme), Options{Filter: "todo", NoColor: true})

	t.Run("keywords pass through byte-identical", func(t *testing.T) {
		line := "task: Fix bug [URGENT]"
		assert.Equal(t, line, h.Line(line))
	})

	t.Run("icon substitution still rewrites", func(t *testing.T) {
		got := h.Line("see :critical: now")
		assert.Equal(t, "see 🔥 critical now", got)
		assert.NotContains(t, got, "\x1b")
	})
}

const detectorTheme = `
metadata:
  name: detectors
auto_detection:
  urls:
    pattern: 'https?://\S+'
    color: royal
    underline: true
  versions:
    pattern: '\bv?\d+\.\d+\.\d+(-\w+)?\b'
    color: emerald
    bold: true
  paths:
    pattern: '[~/][^\s]+\.[a-z]{2,4}\b'
    color: azure
    underline: true
`

func TestAutoDetectionDeclarationOrder(t *testing.T) {
	h := New(compileTheme(t, detectorTheme), Options{})

	// The URL rule is declared first and must claim the whole URL before
	// the path and version rules can carve pieces out of it.
	got := h.Line("get https://example.com/v1.2.3 now")

	royal := "\x1b[38;5;21m"
	assert.Equal(t, "get "+royal+"\x1b[4m"+"https://example.com/v1.2.3"+reset+" now", got)
	assert.NotContains(t, got, "\x1b[38;5;39m", "path rule must not match inside a URL")
	assert.NotContains(t, got, "\x1b[38;5;46m", "version rule must not match inside a URL")
}

func TestBuiltinThemeHighlightsURLs(t *testing.T) {
	compiled, err := compile.New(colors.NewTable()).Compile(theme.Default())
	require.NoError(t, err)
	h := New(compiled, Options{})

	got := h.Line("see https://example.com/v1.2.3 for details")
	assert.Contains(t, got, "\x1b[38;5;21m\x1b[4mhttps://example.com/v1.2.3"+reset)
}

const unstyledTheme = `
metadata:
  name: plain
filters:
  plain:
    styles:
      bare:
        keywords: ["urgent"]
`

func TestUnstyledKeywordEmitsNoEscapes(t *testing.T) {
	h := New(compileTheme(t, unstyledTheme), Options{Filter: "plain"})

	for _, line := range []string{"[urgent] now", "urgent: now", "urgent:"} {
		got := h.Line(line)
		assert.Equal(t, line, got)
		assert.NotContains(t, got, "\x1b", "style-less keywords must not emit escapes")
	}
}
