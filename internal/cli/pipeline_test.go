package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTheme = `
metadata:
  name: logs
  version: 1.0.0
filters:
  logs:
    icon_mappings:
      critical:
        icon: "🔥"
        color: crimson
    styles:
      errors:
        keywords: ["error", "fail"]
        color: red
        bold: true
`

// setupDirs points every tinct directory at a fresh temp tree and
// forces deterministic color behavior.
func setupDirs(t *testing.T) (themesDir, cacheDir string) {
	t.Helper()
	root := t.TempDir()
	themesDir = filepath.Join(root, "themes")
	cacheDir = filepath.Join(root, "cache")
	require.NoError(t, os.MkdirAll(themesDir, 0o755))
	require.NoError(t, os.MkdirAll(cacheDir, 0o755))
	t.Setenv("TINCT_THEMES_DIR", themesDir)
	t.Setenv("TINCT_CACHE_DIR", cacheDir)
	t.Setenv("TINCT_CONFIG_DIR", filepath.Join(root, "config"))
	t.Setenv("NO_COLOR", "")
	t.Setenv("TINCT_OUTPUT_COLOR", "always")
	return themesDir, cacheDir
}

func writeTestTheme(t *testing.T, themesDir, name, content string) string {
	t.Helper()
	path := filepath.Join(themesDir, "theme_"+name+".yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the root command with the given stdin and args and
// returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPipelineHighlightsKeywords(t *testing.T) {
	themesDir, _ := setupDirs(t)
	writeTestTheme(t, themesDir, "logs", testTheme)

	out, err := execute(t, "error: disk full\n", "-t", "logs", "-f", "logs")
	require.NoError(t, err)

	// red is code 9, bold follows the color
	assert.Contains(t, out, "\x1b[38;5;9m\x1b[1merror\x1b[0m:")
	assert.Contains(t, out, "disk full")
}

func TestPipelineIconSubstitution(t *testing.T) {
	themesDir, _ := setupDirs(t)
	writeTestTheme(t, themesDir, "logs", testTheme)

	out, err := execute(t, ":critical: reactor breach\n", "-t", "logs", "-f", "logs")
	require.NoError(t, err)

	assert.Contains(t, out, "🔥")
	assert.Contains(t, out, "critical")
	assert.NotContains(t, out, ":critical:")
}

func TestPipelineNoFilterSkipsKeywords(t *testing.T) {
	themesDir, _ := setupDirs(t)
	writeTestTheme(t, themesDir, "logs", testTheme)

	out, err := execute(t, "error: disk full\n", "-t", "logs")
	require.NoError(t, err)

	assert.Contains(t, out, "error: disk full")
	assert.NotContains(t, out, "\x1b[38;5;9m")
}

func TestPipelineNoColorFlag(t *testing.T) {
	themesDir, _ := setupDirs(t)
	writeTestTheme(t, themesDir, "logs", testTheme)

	out, err := execute(t, "error: disk full\n", "-t", "logs", "-f", "logs", "--no-color")
	require.NoError(t, err)

	assert.Equal(t, "error: disk full\n", out)
}

func TestPipelineTemplateExpansion(t *testing.T) {
	setupDirs(t)

	out, err := execute(t, "Status: %c:red(FAILED)\n")
	require.NoError(t, err)

	assert.Contains(t, out, "\x1b[38;5;9mFAILED\x1b[0m")
}

func TestPipelineBuiltinAutoDetection(t *testing.T) {
	setupDirs(t)

	out, err := execute(t, "see https://example.com for details\n")
	require.NoError(t, err)

	assert.Contains(t, out, "\x1b[38;5;21m")
	assert.Contains(t, out, "https://example.com")
}

func TestPipelineUnknownThemeErrors(t *testing.T) {
	setupDirs(t)

	_, err := execute(t, "hello\n", "-t", "missing")
	require.Error(t, err)
}

func TestPipelineFallbackToBuiltin(t *testing.T) {
	setupDirs(t)

	out, err := execute(t, "plain line\n", "-t", "missing", "--fallback")
	require.NoError(t, err)
	assert.Contains(t, out, "plain line")
}

func TestPipelineFallbackOnBadTheme(t *testing.T) {
	themesDir, _ := setupDirs(t)
	writeTestTheme(t, themesDir, "broken", `
filters:
  logs:
    styles:
      errors:
        keywords: ["error"]
        color: not-a-color
`)

	_, err := execute(t, "hello\n", "-t", "broken", "-f", "logs", "--no-cache")
	require.Error(t, err)

	out, err := execute(t, "hello\n", "-t", "broken", "-f", "logs", "--no-cache", "--fallback")
	require.NoError(t, err)
	assert.Contains(t, out, "hello")
}

func TestPipelineWritesCompiledCache(t *testing.T) {
	themesDir, cacheDir := setupDirs(t)
	writeTestTheme(t, themesDir, "logs", testTheme)

	_, err := execute(t, "error: x\n", "-t", "logs", "-f", "logs")
	require.NoError(t, err)

	cached := filepath.Join(cacheDir, "logs.compiled.yml")
	_, statErr := os.Stat(cached)
	assert.NoError(t, statErr, "expected compiled cache at %s", cached)
}

func TestPipelineNoCacheSkipsWrite(t *testing.T) {
	themesDir, cacheDir := setupDirs(t)
	writeTestTheme(t, themesDir, "logs", testTheme)

	_, err := execute(t, "error: x\n", "-t", "logs", "-f", "logs", "--no-cache")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(cacheDir, "logs.compiled.yml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPipelineWidthAndAlign(t *testing.T) {
	setupDirs(t)

	out, err := execute(t, "hi\n", "--width", "10", "--align", "right", "--no-color")
	require.NoError(t, err)

	assert.Equal(t, "        hi\n", out)
}

func TestPipelineMultipleLines(t *testing.T) {
	themesDir, _ := setupDirs(t)
	writeTestTheme(t, themesDir, "logs", testTheme)

	input := "error: one\nplain middle\nfail: two\n"
	out, err := execute(t, input, "-t", "logs", "-f", "logs")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "error")
	assert.Equal(t, "plain middle", lines[1])
	assert.Contains(t, lines[2], "fail")
}

func TestCacheKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"logs", "logs"},
		{"theme_logs.yml", "logs"},
		{"themes/custom.yaml", "custom"},
		{"/abs/path/theme_dark.yml", "dark"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cacheKey(tt.in), "cacheKey(%q)", tt.in)
	}
}

func TestVersionCommand(t *testing.T) {
	setupDirs(t)

	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tinct version")
}
