package cli

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/tinct/pkg/cache"
	"github.com/arthur-debert/tinct/pkg/colors"
	"github.com/arthur-debert/tinct/pkg/compile"
	"github.com/arthur-debert/tinct/pkg/config"
	"github.com/arthur-debert/tinct/pkg/highlight"
	"github.com/arthur-debert/tinct/pkg/logging"
	"github.com/arthur-debert/tinct/pkg/paths"
	"github.com/arthur-debert/tinct/pkg/template"
	"github.com/arthur-debert/tinct/pkg/theme"
)

// maxLineSize bounds scanner buffer growth for very long input lines.
const maxLineSize = 1024 * 1024

// runPipeline is the root command: read lines from stdin, expand inline
// templates, apply the theme and write the result to stdout.
func runPipeline(cmd *cobra.Command, p paths.Paths, opts *rootOptions) error {
	logger := logging.GetLogger("pipeline")

	settings, err := loadSettings(p, opts)
	if err != nil {
		return err
	}

	themeName := settings.Output.Theme
	if cmd.Flags().Changed("theme") {
		themeName = opts.theme
	}
	filter := settings.Output.Filter
	if cmd.Flags().Changed("filter") {
		filter = opts.filter
	}
	width := settings.Output.Width
	if cmd.Flags().Changed("width") {
		width = opts.width
	}
	align := settings.Output.Align
	if cmd.Flags().Changed("align") {
		align = opts.align
	}

	noColor := !colorEnabled(settings.Output.Color, opts.noColor)

	doc, cacheName, err := loadThemeDocument(p, themeName, opts.fallback)
	if err != nil {
		return err
	}

	compiled, err := compileTheme(p, doc, cacheName, settings.Cache.Enabled && !opts.noCache, opts.fallback)
	if err != nil {
		return err
	}

	table := colors.NewTable()
	parser := template.NewParser(table, noColor)
	highlighter := highlight.New(compiled, highlight.Options{
		Filter:  filter,
		Width:   width,
		Align:   highlight.ParseAlignment(align),
		NoColor: noColor,
	})

	logger.Debug().
		Str("theme", cacheName).
		Str("filter", filter).
		Bool("color", !noColor).
		Msg("pipeline ready")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	writer := bufio.NewWriter(cmd.OutOrStdout())

	for scanner.Scan() {
		line := parser.Process(scanner.Text())
		if _, err := writer.WriteString(highlighter.Line(line)); err != nil {
			return err
		}
		if err := writer.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return writer.Flush()
}

// loadSettings resolves the config file path and loads layered settings.
func loadSettings(p paths.Paths, opts *rootOptions) (*config.Settings, error) {
	configPath := opts.config
	if configPath == "" {
		configPath = p.ConfigFilePath()
	}
	return config.Load(configPath)
}

// loadThemeDocument resolves and parses the named theme. The returned
// cache name keys the compiled theme cache. With fallback set, any
// load failure degrades to the built-in theme instead of an error.
func loadThemeDocument(p paths.Paths, name string, fallback bool) (*theme.ThemeDocument, string, error) {
	logger := logging.GetLogger("pipeline")

	if name == "" || name == "default" {
		return theme.Default(), "default", nil
	}

	path, err := p.ResolveTheme(name)
	if err == nil {
		var doc *theme.ThemeDocument
		doc, err = theme.LoadFromFile(path)
		if err == nil {
			return doc, cacheKey(name), nil
		}
	}
	if fallback {
		logger.Warn().Err(err).Str("theme", name).Msg("falling back to built-in theme")
		return theme.Default(), "default", nil
	}
	return nil, "", err
}

// compileTheme builds the runtime theme, going through the compiled
// cache when enabled. Compilation failures are fatal unless fallback
// is set, in which case the built-in theme is compiled instead.
func compileTheme(p paths.Paths, doc *theme.ThemeDocument, cacheName string, useCache, fallback bool) (*compile.Theme, error) {
	logger := logging.GetLogger("pipeline")
	compiler := compile.New(colors.NewTable())

	var compiled *compile.Theme
	var err error
	if useCache {
		store := cache.NewStore(p.CompiledCachePath(cacheName))
		compiled, err = store.LoadOrBuild(doc, compiler)
	} else {
		compiled, err = compiler.Compile(doc)
	}
	if err == nil {
		return compiled, nil
	}
	if fallback && cacheName != "default" {
		logger.Warn().Err(err).Str("theme", cacheName).Msg("theme failed to compile, using built-in theme")
		return compiler.Compile(theme.Default())
	}
	return nil, err
}

// colorEnabled decides whether escapes are emitted. The --no-color
// flag and the NO_COLOR convention always win; otherwise the config
// mode applies, with "auto" requiring a color-capable terminal on
// stdout.
func colorEnabled(mode string, noColorFlag bool) bool {
	if noColorFlag || termenv.EnvNoColor() {
		return false
	}
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

// cacheKey derives a filesystem-safe cache name from a theme name or
// path. "themes/my-theme.yml" and "my-theme" share an entry.
func cacheKey(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, ".yml")
	base = strings.TrimSuffix(base, ".yaml")
	return strings.TrimPrefix(base, "theme_")
}
