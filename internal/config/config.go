// internal/config/config.go
//
// This package loads the toolbox configuration file and resolves the paths
// the dashboard works with (modules root, config file, log file).
// The file is TOML and optional: a missing file means built-in defaults.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/kingrea/toolbox/internal/runner"
)

const (
	// EnvModulesDir overrides the modules root.
	EnvModulesDir = "WPSI_UTILS_MODULE_DIR"
	// EnvConfig points at an explicit config file.
	EnvConfig = "TOOLBOX_CONFIG"
	// EnvLog points at an explicit log file.
	EnvLog = "TOOLBOX_LOG"

	// DefaultModulesDir is used when nothing else names a modules root.
	DefaultModulesDir = "modules"

	envPrefix = "TOOLBOX"
	appName   = "toolbox"
)

const defaultConfigTOML = `# toolbox configuration

# Module identifiers to run once the dashboard starts.
auto_execute = []

# Run selected actions without asking for confirmation.
skip_confirmation = false

# Draw the dashboard even when the terminal is smaller than 80x20.
size_bypass = false

# Where module descriptors live. WPSI_UTILS_MODULE_DIR takes precedence.
# modules_dir = "modules"

# How selected actions are handled: "dry-run" or "noop".
runner = "dry-run"
`

// Config holds the runtime configuration for the toolbox.
type Config struct {
	// AutoExecute lists module ids whose first action is queued at startup.
	AutoExecute []string `mapstructure:"auto_execute"`
	// SkipConfirmation runs selected actions without a y/n prompt.
	SkipConfirmation bool `mapstructure:"skip_confirmation"`
	// SizeBypass disables the minimum terminal size check.
	SizeBypass bool `mapstructure:"size_bypass"`
	// ModulesDir is the configured modules root (lowest precedence).
	ModulesDir string `mapstructure:"modules_dir"`
	// Runner selects the command runner kind.
	Runner string `mapstructure:"runner"`

	// Path is the file the configuration was read from, empty when defaults
	// were used.
	Path string `mapstructure:"-"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{AutoExecute: []string{}, Runner: runner.KindDryRun}
}

// Load reads configuration from path, or from TOOLBOX_CONFIG, or from the
// default location. A missing file yields defaults. Environment variables
// prefixed with TOOLBOX_ override file values.
func Load(path string) (Config, error) {
	explicit := strings.TrimSpace(path) != "" || strings.TrimSpace(os.Getenv(EnvConfig)) != ""
	resolved := ResolvePath(path)

	v := viper.New()
	defaults := Default()
	v.SetDefault("auto_execute", defaults.AutoExecute)
	v.SetDefault("skip_confirmation", defaults.SkipConfirmation)
	v.SetDefault("size_bypass", defaults.SizeBypass)
	v.SetDefault("modules_dir", defaults.ModulesDir)
	v.SetDefault("runner", defaults.Runner)

	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	found := false
	if resolved != "" {
		info, err := os.Stat(resolved)
		switch {
		case err == nil && info.IsDir():
			return Config{}, fmt.Errorf("config: %s is a directory", resolved)
		case err == nil:
			found = true
		case errors.Is(err, fs.ErrNotExist):
			if explicit {
				return Config{}, fmt.Errorf("config: read %s: %w", resolved, err)
			}
		default:
			return Config{}, fmt.Errorf("config: stat %s: %w", resolved, err)
		}
	}
	if found {
		v.SetConfigFile(resolved)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", resolved, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if found {
		cfg.Path = resolved
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ResolvePath returns the config file location: the explicit path if given,
// else TOOLBOX_CONFIG, else $XDG_CONFIG_HOME/toolbox/config.toml.
func ResolvePath(path string) string {
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		return trimmed
	}
	if env := strings.TrimSpace(os.Getenv(EnvConfig)); env != "" {
		return env
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appName, "config.toml")
}

// LogPath returns the log file location: TOOLBOX_LOG, else
// $XDG_STATE_HOME/toolbox/toolbox.log.
func LogPath() string {
	if env := strings.TrimSpace(os.Getenv(EnvLog)); env != "" {
		return env
	}
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), appName, appName+".log")
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, appName, appName+".log")
}

// ResolveModulesDir picks the modules root: the flag value, else
// WPSI_UTILS_MODULE_DIR, else the configured modules_dir, else "modules".
func (c Config) ResolveModulesDir(flagValue string) string {
	if trimmed := strings.TrimSpace(flagValue); trimmed != "" {
		return trimmed
	}
	if env := strings.TrimSpace(os.Getenv(EnvModulesDir)); env != "" {
		return env
	}
	if c.ModulesDir != "" {
		return c.ModulesDir
	}
	return DefaultModulesDir
}

// AutoRuns reports whether id is listed in auto_execute.
func (c Config) AutoRuns(id string) bool {
	for _, candidate := range c.AutoExecute {
		if candidate == id {
			return true
		}
	}
	return false
}

// WriteDefault writes a commented default config file to path unless one is
// already there. It reports whether a file was created.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("config: ensure config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTOML), 0o644); err != nil {
		return false, fmt.Errorf("config: write %s: %w", path, err)
	}
	return true, nil
}

func (c *Config) normalize() {
	seen := make(map[string]struct{}, len(c.AutoExecute))
	ids := make([]string, 0, len(c.AutoExecute))
	for _, id := range c.AutoExecute {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		ids = append(ids, trimmed)
	}
	c.AutoExecute = ids
	c.ModulesDir = strings.TrimSpace(c.ModulesDir)
	c.Runner = strings.ToLower(strings.TrimSpace(c.Runner))
	if c.Runner == "" {
		c.Runner = Default().Runner
	}
}

func (c Config) validate() error {
	if _, err := runner.New(c.Runner); err != nil {
		return err
	}
	return nil
}
