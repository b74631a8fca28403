package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the parsed uscheck.toml. Relative paths are resolved against Root.
type Config struct {
	Root  string      `toml:"-"`
	Path  string      `toml:"-"`
	Check CheckConfig `toml:"check"`
	Cache CacheConfig `toml:"cache"`
	Index IndexConfig `toml:"index"`
}

type CheckConfig struct {
	// Declarations are TOML class declaration files, loaded in order.
	Declarations []string `toml:"declarations"`
	// Scripts are glob patterns of script files checked by default.
	Scripts        []string `toml:"scripts"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Jobs           int      `toml:"jobs"`
	// Globals are extra application variables as "Type NAME".
	Globals []string `toml:"globals"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type IndexConfig struct {
	Path string `toml:"path"`
}

var (
	// ErrCheckSectionMissing indicates that [check] is missing.
	ErrCheckSectionMissing = errors.New("missing [check]")
	// ErrNegativeLimit indicates a negative max_diagnostics or jobs value.
	ErrNegativeLimit = errors.New("negative limit")
)

// Default returns the configuration used when no uscheck.toml exists.
func Default(root string) Config {
	return Config{
		Root:  root,
		Check: CheckConfig{MaxDiagnostics: 100},
		Cache: CacheConfig{Enabled: true},
		Index: IndexConfig{Path: ".uscheck/index.db"},
	}
}

// Load parses uscheck.toml at path. Unknown keys are an error so that typos
// do not silently disable a setting.
func Load(path string) (Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	cfg := Default(filepath.Dir(abs))
	cfg.Path = abs

	meta, err := toml.DecodeFile(abs, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("check") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrCheckSectionMissing)
	}
	if cfg.Check.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: [check].max_diagnostics: %w", path, ErrNegativeLimit)
	}
	if cfg.Check.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [check].jobs: %w", path, ErrNegativeLimit)
	}
	if meta.IsDefined("cache", "dir") && strings.TrimSpace(cfg.Cache.Dir) == "" {
		return Config{}, fmt.Errorf("%s: [cache].dir is empty", path)
	}
	return cfg, nil
}

// Discover loads the nearest uscheck.toml above startDir, or returns
// Default rooted at startDir when there is none.
func Discover(startDir string) (Config, bool, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, false, err
	}
	if !ok {
		root, err := filepath.Abs(startDir)
		if err != nil {
			return Config{}, false, err
		}
		return Default(root), false, nil
	}
	cfg, err := Load(path)
	return cfg, err == nil, err
}

// Resolve makes p absolute relative to the project root.
func (c Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// DeclarationPaths returns [check].declarations resolved against Root.
func (c Config) DeclarationPaths() []string {
	out := make([]string, 0, len(c.Check.Declarations))
	for _, p := range c.Check.Declarations {
		out = append(out, c.Resolve(p))
	}
	return out
}

// ScriptFiles expands [check].scripts globs. The result is sorted and free
// of duplicates; a pattern matching nothing is not an error.
func (c Config) ScriptFiles() ([]string, error) {
	var out []string
	for _, pattern := range c.Check.Scripts {
		matches, err := filepath.Glob(c.Resolve(pattern))
		if err != nil {
			return nil, fmt.Errorf("[check].scripts %q: %w", pattern, err)
		}
		out = append(out, matches...)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// CacheDir returns the declaration cache directory, or "" for the user cache.
func (c Config) CacheDir() string {
	return c.Resolve(c.Cache.Dir)
}

// IndexPath returns the SQLite index path.
func (c Config) IndexPath() string {
	return c.Resolve(c.Index.Path)
}
