// Package config loads fphash.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"fphash/internal/trace"
)

// FileName is the configuration file searched for from the working directory up.
const FileName = "fphash.toml"

// DefaultManifestPath is relative to the directory holding fphash.toml,
// or to the working directory when there is none.
const DefaultManifestPath = ".fphash/manifest.mp"

// ErrNotFound is returned by Find when no fphash.toml exists.
var ErrNotFound = errors.New("no " + FileName + " found")

// Config is the decoded fphash.toml.
type Config struct {
	Trace    TraceConfig    `toml:"trace"`
	Hash     HashConfig     `toml:"hash"`
	Manifest ManifestConfig `toml:"manifest"`

	// Root is the directory the config was loaded from.
	Root string `toml:"-"`
}

// TraceConfig mirrors the --trace flags.
type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Format string `toml:"format"`
}

// HashConfig controls batch hashing.
type HashConfig struct {
	Jobs int `toml:"jobs"`
}

// ManifestConfig locates the digest manifest.
type ManifestConfig struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Trace:    TraceConfig{Level: "off", Output: "-", Format: "auto"},
		Manifest: ManifestConfig{Path: DefaultManifestPath},
	}
}

// Find walks up from startDir looking for fphash.toml.
func Find(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// Discover loads the nearest fphash.toml above startDir, or defaults rooted
// at startDir when there is none.
func Discover(startDir string) (Config, error) {
	path, err := Find(startDir)
	if errors.Is(err, ErrNotFound) {
		cfg := Default()
		cfg.Root, err = filepath.Abs(startDir)
		return cfg, err
	}
	if err != nil {
		return Config{}, err
	}
	return Load(path)
}

// Load decodes and validates the file at path. Keys it does not set keep
// their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Config{}, err
	}
	cfg.Root = filepath.Dir(abs)
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		return fmt.Errorf("[trace].format: %w", err)
	}
	if c.Hash.Jobs < 0 {
		return fmt.Errorf("[hash].jobs must be >= 0, got %d", c.Hash.Jobs)
	}
	if strings.TrimSpace(c.Manifest.Path) == "" {
		return errors.New("[manifest].path must not be empty")
	}
	return nil
}

// ManifestPath resolves the manifest location against Root.
func (c *Config) ManifestPath() string {
	p := filepath.FromSlash(c.Manifest.Path)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// TracerConfig converts the [trace] section into a tracer configuration.
func (c *Config) TracerConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	format, err := trace.ParseFormat(c.Trace.Format)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{Level: level, Format: format, OutputPath: c.Trace.Output}, nil
}
