package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	burstpick "github.com/anatolykoptev/go-burstpick"
)

//go:embed sample_config.toml
var sampleConfig string

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for burstpick.
type Config struct {
	KeyLength        int      `toml:"key_length"`
	ScorablePrefixes []string `toml:"scorable_prefixes"`
	Threshold        float64  `toml:"threshold"`
	DestSubdir       string   `toml:"dest_subdir"`
	Workers          int      `toml:"workers"`
	ResizePixels     int      `toml:"resize_pixels"`
	Strict           bool     `toml:"strict"`
	Manifest         string   `toml:"manifest"`
	Logging          Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. When path is
// empty the default location and then ./burstpick.toml are tried; a missing
// file is not an error and yields the defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(defaultProjectFile)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Normalize trims values, fills empty fields with defaults and expands the
// manifest path. Call again after applying flag overrides.
func (c *Config) Normalize() error {
	if strings.TrimSpace(c.DestSubdir) == "" {
		c.DestSubdir = defaultDestSubdir
	}

	prefixes := make([]string, 0, len(c.ScorablePrefixes))
	for _, p := range c.ScorablePrefixes {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	c.ScorablePrefixes = prefixes

	if c.Manifest != "" {
		expanded, err := expandPath(c.Manifest)
		if err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
		c.Manifest = expanded
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.KeyLength < 1 || c.KeyLength > maxKeyLength {
		return fmt.Errorf("key_length must be between 1 and %d", maxKeyLength)
	}
	if len(c.ScorablePrefixes) == 0 {
		return errors.New("scorable_prefixes must list at least one prefix")
	}
	if c.Threshold <= 0 {
		return errors.New("threshold must be positive")
	}
	if c.Workers < 1 || c.Workers > maxWorkers {
		return fmt.Errorf("workers must be between 1 and %d", maxWorkers)
	}
	if c.ResizePixels < 0 {
		return errors.New("resize_pixels must not be negative")
	}
	if filepath.IsAbs(c.DestSubdir) || strings.Contains(c.DestSubdir, "..") {
		return errors.New("dest_subdir must be a relative path inside the source directory")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// DestinationFor returns the default destination directory for sourceDir.
func (c *Config) DestinationFor(sourceDir string) string {
	return filepath.Join(sourceDir, c.DestSubdir)
}

// Curation converts the file configuration into a library configuration.
// Collaborators (scorer, mover, reporter) are left for the caller to set.
func (c *Config) Curation() burstpick.Config {
	return burstpick.Config{
		KeyLength:    c.KeyLength,
		Scorable:     burstpick.PrefixPredicate(c.ScorablePrefixes...),
		Threshold:    c.Threshold,
		ResizePixels: c.ResizePixels,
		Workers:      c.Workers,
		ManifestPath: c.Manifest,
	}
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
