package cli

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort        = "Colorize text streams with pattern-based themes"
	MsgThemeShort       = "Manage highlighting themes"
	MsgThemeListShort   = "List available themes"
	MsgThemeCreateShort = "Create a new theme from the built-in defaults"
	MsgThemeImportShort = "Import a theme file into the themes directory"
	MsgThemeExportShort = "Export a theme to a file"
	MsgThemeEditShort   = "Open a theme in your editor"
	MsgConfigShort      = "Manage tinct configuration"
	MsgConfigInitShort  = "Write a starter config file"
	MsgVersionShort     = "Print version information"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagTheme    = "Theme name or path to a theme file"
	MsgFlagFilter   = "Filter to activate for keyword and icon matching"
	MsgFlagWidth    = "Pad or truncate output to this visible width (0 disables)"
	MsgFlagAlign    = "Alignment within --width: left, center or right"
	MsgFlagNoColor  = "Disable color output (icon substitution still applies)"
	MsgFlagFallback = "Fall back to the built-in theme when the named theme fails to load"
	MsgFlagNoCache  = "Bypass the compiled theme cache"
	MsgFlagConfig   = "Path to config file (default is $XDG_CONFIG_HOME/tinct/tinct.toml)"

	// Status messages
	MsgNoThemesFound     = "No themes found."
	MsgAvailableThemes   = "Available themes:"
	MsgBuiltinTheme      = "default"
	MsgBuiltinAnnotation = "(built-in)"
	MsgThemeCreated      = "Created theme '%s' at %s\n"
	MsgThemeExists       = "theme '%s' already exists at %s"
	MsgThemeImported     = "Imported theme '%s' from %s\n"
	MsgThemeExported     = "Exported theme '%s' to %s\n"
	MsgConfigCreated     = "Created config file at %s\n"
	MsgConfigExists      = "config file already exists at %s"
)

// Long messages (multi-line descriptions)
const (
	MsgRootLong = `tinct reads text from stdin and writes it to stdout with ANSI
coloring applied according to a theme: keywords like "error:" or
"[DONE]" are styled, icon labels like ":fire:" become glyphs, and
auto-detection rules color URLs, versions and paths on every line.

Themes are YAML files that can inherit from the built-in defaults.
Inline templates of the form %c:red(text) are expanded before the
theme is applied.`

	MsgThemeEditLong = `Open a theme file in the editor named by $EDITOR (vi when unset).
The file is re-validated after the editor exits; problems are
reported but the edit is kept.`
)
