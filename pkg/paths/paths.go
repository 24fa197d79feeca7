// Package paths provides centralized path handling for tinct.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/tinct/pkg/errors"
)

// Environment variable names
const (
	// EnvThemesDir overrides the XDG themes directory for tinct
	EnvThemesDir = "TINCT_THEMES_DIR"

	// EnvCacheDir overrides the XDG cache directory for tinct
	EnvCacheDir = "TINCT_CACHE_DIR"

	// EnvConfigDir overrides the XDG config directory for tinct
	EnvConfigDir = "TINCT_CONFIG_DIR"
)

// Default directories and files
const (
	// AppDirName is the directory name for tinct-specific files
	AppDirName = "tinct"

	// ThemesDirName is the subdirectory for theme files
	ThemesDirName = "themes"

	// LocalThemesDir is the working-directory fallback for theme files
	LocalThemesDir = "themes"

	// ThemeFilePrefix is prepended to named theme files
	ThemeFilePrefix = "theme_"

	// ThemeFileExt is the theme file extension
	ThemeFileExt = ".yml"

	// ConfigFileName is the name of the tinct configuration file
	ConfigFileName = "tinct.toml"

	// CompiledFileExt is the extension for compiled theme cache files
	CompiledFileExt = ".compiled.yml"
)

// Paths provides centralized path management for tinct
type Paths interface {
	ThemesDir() string
	CacheDir() string
	ConfigDir() string
	ConfigFilePath() string
	ThemeFilePath(name string) string
	CompiledCachePath(name string) string
	ResolveTheme(name string) (string, error)
	ListThemeFiles() ([]ThemeFile, error)
}

// ThemeFile describes a discovered theme file
type ThemeFile struct {
	Name   string
	Path   string
	Source string // "xdg" or "local"
}

type paths struct {
	themesDir string
	cacheDir  string
	configDir string
}

// New creates a Paths instance, honoring environment overrides
func New() Paths {
	p := &paths{
		themesDir: filepath.Join(xdg.DataHome, AppDirName, ThemesDirName),
		cacheDir:  filepath.Join(xdg.CacheHome, AppDirName),
		configDir: filepath.Join(xdg.ConfigHome, AppDirName),
	}

	if dir := os.Getenv(EnvThemesDir); dir != "" {
		p.themesDir = dir
	}
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		p.cacheDir = dir
	}
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = dir
	}

	return p
}

func (p *paths) ThemesDir() string { return p.themesDir }
func (p *paths) CacheDir() string  { return p.cacheDir }
func (p *paths) ConfigDir() string { return p.configDir }

func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// ThemeFilePath returns the canonical file path for a named theme
// in the XDG themes directory.
func (p *paths) ThemeFilePath(name string) string {
	return filepath.Join(p.themesDir, ThemeFilePrefix+name+ThemeFileExt)
}

// CompiledCachePath returns the compiled-cache file path for a theme name.
// One cache entry exists per theme-source identity.
func (p *paths) CompiledCachePath(name string) string {
	return filepath.Join(p.cacheDir, name+CompiledFileExt)
}

// ResolveTheme maps a theme name or path to an existing theme file.
// Resolution order:
//  1. explicit relative/absolute paths and *.yml arguments, as-is
//  2. theme_<name>.yml in the XDG themes directory
//  3. theme_<name>.yml in ./themes/
//  4. direct filename in the XDG themes directory
//  5. direct filename in ./themes/
func (p *paths) ResolveTheme(name string) (string, error) {
	if strings.HasPrefix(name, "./") || strings.HasPrefix(name, "/") || strings.HasSuffix(name, ThemeFileExt) {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
		return "", errors.Newf(errors.ErrThemeNotFound, "theme file %q not found", name)
	}

	filename := ThemeFilePrefix + name + ThemeFileExt
	candidates := []string{
		filepath.Join(p.themesDir, filename),
		filepath.Join(LocalThemesDir, filename),
		filepath.Join(p.themesDir, name),
		filepath.Join(LocalThemesDir, name),
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", errors.Newf(errors.ErrThemeNotFound, "theme %q not found in %s or %s",
		name, p.themesDir, LocalThemesDir)
}

// ListThemeFiles enumerates theme files in the XDG themes directory and
// ./themes/, XDG entries shadowing local ones with the same name.
func (p *paths) ListThemeFiles() ([]ThemeFile, error) {
	var themes []ThemeFile
	seen := make(map[string]bool)

	for _, loc := range []struct {
		dir    string
		source string
	}{
		{p.themesDir, "xdg"},
		{LocalThemesDir, "local"},
	} {
		entries, err := os.ReadDir(loc.dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read themes directory %s: %w", loc.dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ThemeFileExt) {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ThemeFileExt)
			name = strings.TrimPrefix(name, ThemeFilePrefix)
			if seen[name] {
				continue
			}
			seen[name] = true
			themes = append(themes, ThemeFile{
				Name:   name,
				Path:   filepath.Join(loc.dir, entry.Name()),
				Source: loc.source,
			})
		}
	}

	return themes, nil
}
