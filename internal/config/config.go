package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-package-statistics/internal/mirror"
)

// ConfigFile is the path searched below the XDG config directories.
const ConfigFile = "package-statistics/config.yaml"

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "PACKAGE_STATISTICS_"

var (
	// ErrConfigNotFound is returned when an explicit config file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	ErrEmptyMirror    = errors.New("invalid mirror: must not be empty")
	ErrInvalidTop     = errors.New("invalid top: must be positive")
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")
)

// Config holds the application configuration
type Config struct {
	Mirror  string        `yaml:"mirror"`
	Top     int           `yaml:"top"`
	Format  string        `yaml:"format"`
	Workers int           `yaml:"workers"`
	TempDir string        `yaml:"temp_dir"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Mirror:  mirror.DefaultMirror,
		Top:     10,
		Format:  "text",
		Workers: 2,
		TempDir: os.TempDir(),
		Timeout: 5 * time.Minute,
	}
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Mirror) == "":
		return ErrEmptyMirror
	case c.Top <= 0:
		return ErrInvalidTop
	case c.Workers <= 0:
		return ErrInvalidWorkers
	case c.Timeout <= 0:
		return ErrInvalidTimeout
	}
	return nil
}

// FindConfigFile returns explicit when set, otherwise the first
// package-statistics/config.yaml in the XDG config directories. An empty
// string means no file was found.
func FindConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
			}
			return "", err
		}
		return explicit, nil
	}

	path, err := xdg.SearchConfigFile(ConfigFile)
	if err != nil {
		return "", nil
	}
	return path, nil
}

// LoadFile overlays the YAML file at path onto c. Keys missing from the
// file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnv loads a .env file from the working directory when present and
// overlays PACKAGE_STATISTICS_* variables onto c.
func (c *Config) ApplyEnv() error {
	_ = godotenv.Load()

	if v, ok := lookup("MIRROR"); ok {
		c.Mirror = v
	}
	if v, ok := lookup("FORMAT"); ok {
		c.Format = v
	}
	if v, ok := lookup("TEMP_DIR"); ok {
		c.TempDir = v
	}
	if v, ok := lookup("TOP"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sTOP: %w", EnvPrefix, err)
		}
		c.Top = n
	}
	if v, ok := lookup("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sWORKERS: %w", EnvPrefix, err)
		}
		c.Workers = n
	}
	if v, ok := lookup("TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err)
		}
		c.Timeout = d
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
