// Package config loads tinct settings from layered sources: embedded
// defaults, the user's tinct.toml, and TINCT_* environment variables.
// Later layers override earlier ones key by key.
package config

import (
	_ "embed"
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	tincterrors "github.com/arthur-debert/tinct/pkg/errors"
	"github.com/arthur-debert/tinct/pkg/logging"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Output holds rendering defaults applied when the corresponding
// command-line flag is not given.
type Output struct {
	Theme  string `koanf:"theme"`
	Filter string `koanf:"filter"`
	Align  string `koanf:"align"`
	Width  int    `koanf:"width"`
	Color  string `koanf:"color"` // auto, always, never
}

// Cache controls the compiled theme cache.
type Cache struct {
	Enabled bool `koanf:"enabled"`
}

// Settings is the resolved configuration.
type Settings struct {
	Output Output `koanf:"output"`
	Cache  Cache  `koanf:"cache"`
}

// Load builds Settings from the embedded defaults, the config file at
// configPath (skipped when absent), and TINCT_* environment variables.
func Load(configPath string) (*Settings, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, tincterrors.Wrap(err, tincterrors.ErrConfigValid, "failed to load built-in defaults")
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
				return nil, tincterrors.Wrapf(err, tincterrors.ErrConfigValid,
					"failed to load config file %s", configPath)
			}
			logger.Debug().Str("path", configPath).Msg("loaded config file")
		}
	}

	if err := k.Load(env.Provider("TINCT_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "TINCT_")), "_", ".")
	}), nil); err != nil {
		return nil, tincterrors.Wrap(err, tincterrors.ErrConfigValid, "failed to load environment variables")
	}

	var settings Settings
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, tincterrors.Wrap(err, tincterrors.ErrConfigValid, "failed to unmarshal config")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Validate rejects values no layer should ever produce.
func (s *Settings) Validate() error {
	switch s.Output.Color {
	case "auto", "always", "never":
	default:
		return tincterrors.Newf(tincterrors.ErrConfigValid,
			"invalid color mode %q (want auto, always or never)", s.Output.Color)
	}
	switch s.Output.Align {
	case "left", "center", "right":
	default:
		return tincterrors.Newf(tincterrors.ErrConfigValid,
			"invalid alignment %q (want left, center or right)", s.Output.Align)
	}
	if s.Output.Width < 0 {
		return tincterrors.Newf(tincterrors.ErrConfigValid,
			"width must be non-negative, got %d", s.Output.Width)
	}
	return nil
}

// DefaultConfigContent returns the embedded defaults, used by
// `tinct config init` to seed a user config file.
func DefaultConfigContent() string {
	return string(defaultConfig)
}
