// Package cache persists compiled themes keyed by a source-content
// fingerprint. The cache is best-effort: a missing, stale or corrupted cache
// file is a cache miss, never an error surfaced to the caller. Deleting the
// cache file is always safe; it only costs a recompilation.
package cache

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/tinct/internal/version"
	"github.com/arthur-debert/tinct/pkg/compile"
	"github.com/arthur-debert/tinct/pkg/logging"
	"github.com/arthur-debert/tinct/pkg/theme"
	"gopkg.in/yaml.v3"
)

// Store manages the single compiled-theme cache file for one theme-source
// identity.
type Store struct {
	path string
}

// NewStore creates a cache store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the cache file location.
func (s *Store) Path() string {
	return s.path
}

// LoadOrBuild returns the cached compiled theme when its stored fingerprint
// matches the document's current fingerprint, otherwise compiles fresh and
// persists the result (full overwrite).
func (s *Store) LoadOrBuild(doc *theme.ThemeDocument, compiler *compile.Compiler) (*compile.Theme, error) {
	logger := logging.GetLogger("cache")

	fingerprint, err := compile.Fingerprint(doc)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.load(fingerprint); ok {
		logger.Debug().Str("path", s.path).Msg("cache hit")
		return cached, nil
	}

	compiled, err := compiler.Compile(doc)
	if err != nil {
		return nil, err
	}

	s.persist(compiled)
	return compiled, nil
}

// load reads and validates the cache file. Any failure is a miss.
func (s *Store) load(fingerprint string) (*compile.Theme, bool) {
	logger := logging.GetLogger("cache")

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("path", s.path).Msg("cache read failed, recompiling")
		}
		return nil, false
	}

	var cached compile.Theme
	if err := yaml.Unmarshal(data, &cached); err != nil {
		logger.Warn().Err(err).Str("path", s.path).Msg("cache corrupted, recompiling")
		return nil, false
	}

	if cached.Version != version.Version {
		logger.Debug().
			Str("cached", cached.Version).
			Str("current", version.Version).
			Msg("cache version mismatch, recompiling")
		return nil, false
	}

	if cached.Fingerprint != fingerprint {
		logger.Debug().Msg("cache fingerprint mismatch, recompiling")
		return nil, false
	}

	if err := cached.InitRuntime(); err != nil {
		logger.Warn().Err(err).Str("path", s.path).Msg("cached patterns invalid, recompiling")
		return nil, false
	}

	return &cached, true
}

// persist writes the compiled theme, replacing any previous cache entry.
// Failures are logged and absorbed.
func (s *Store) persist(compiled *compile.Theme) {
	logger := logging.GetLogger("cache")

	data, err := yaml.Marshal(compiled)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to serialize compiled theme, skipping cache write")
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		logger.Warn().Err(err).Str("path", s.path).Msg("failed to create cache directory")
		return
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		logger.Warn().Err(err).Str("path", s.path).Msg("failed to write cache file")
		return
	}

	logger.Debug().Str("path", s.path).Msg("compiled theme cached")
}
