package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// Config represents the application configuration.
type Config struct {
	// DefaultPath is the path scanned when none is given on the command line.
	DefaultPath string `mapstructure:"default_path"`

	// Workers is the scan worker count; zero means CPU-derived.
	Workers int `mapstructure:"workers"`

	// MaxDepth limits traversal depth; negative means unbounded.
	MaxDepth int `mapstructure:"max_depth"`

	// Skip lists entry names excluded from traversal entirely.
	Skip []string `mapstructure:"skip"`

	// Output is the artifact path written after the scan.
	Output string `mapstructure:"output"`

	// Format selects the artifact format (html, json, pretty, plain).
	Format string `mapstructure:"format"`

	Logging LoggingConfig `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/diskmap/config.yaml
//   - $HOME/.config/diskmap/config.yaml
//
// Environment variables are prefixed with DISKMAP_ (e.g., DISKMAP_WORKERS).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "diskmap"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "diskmap"))

	v.SetEnvPrefix("DISKMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the default value for every config key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("default_path", DefaultPath)
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("max_depth", DefaultMaxDepth)
	v.SetDefault("skip", DefaultSkipNames)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("format", DefaultFormat)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.components", map[string]string{
		"scanner": "info",
		"output":  "info",
	})
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "diskmap"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "diskmap"), nil
}

// StateDir returns $XDG_STATE_HOME/diskmap/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "diskmap")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "diskmap.log")
}

// EnsureConfigDir creates the configuration directory if it does not exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}
	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# Diskmap Configuration

# Default path to scan when none is specified
default_path: %s

# Scan worker count (0 = derived from CPU parallelism)
workers: %d

# Maximum traversal depth (-1 = unbounded)
max_depth: %d

# Entry names excluded from traversal entirely
skip:
  - "$RECYCLE.BIN"
  - "System Volume Information"
  - "pagefile.sys"
  - "swapfile.sys"
  - "hiberfil.sys"

# Output artifact path and format (html, json, pretty, plain)
output: %s
format: %s

# Logging configuration
logging:
  level: info
  # path: defaults to $XDG_STATE_HOME/diskmap/diskmap.log
  rotation:
    max_size: 10MB
    max_backups: 5
  components:
    scanner: info
    output: info
`, DefaultPath, DefaultWorkers, DefaultMaxDepth, DefaultOutput, DefaultFormat)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}
