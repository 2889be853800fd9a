package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"geocal/internal/geodate"
)

// EnvPath overrides the config file location.
const EnvPath = "GEOCAL_CONFIG"

// ConverterConfig describes the external geodate converter command.
// Argument templates may use the {spec}, {ts}, {text}, {lon} and {lat}
// placeholders.
type ConverterConfig struct {
	// Command is the executable name or path.
	Command string `yaml:"command"`
	// FormatArgs prints the date for {spec} at {ts}.
	FormatArgs []string `yaml:"format_args"`
	// ParseArgs prints the timestamp of {text} read with {spec}.
	ParseArgs []string `yaml:"parse_args"`
	// EphemArgs prints one "<timestamp> <label>" line per event.
	EphemArgs []string `yaml:"ephem_args"`
	// Timeout bounds each invocation.
	Timeout time.Duration `yaml:"timeout"`
}

// Config is the top-level application configuration.
type Config struct {
	// LogLevel is one of "debug", "info", "error". Logs go to stderr.
	LogLevel string `yaml:"log_level"`

	// Color controls styling escapes:
	//   - "auto" (default): only when stdout is a terminal
	//   - "always"
	//   - "never"
	Color string `yaml:"color"`

	// Refresh is a cron expression (e.g. "*/5 * * * *" or "@every 1m").
	// When set, the calendar is re-rendered on that schedule until
	// interrupted. Empty renders once.
	Refresh string `yaml:"refresh"`

	Converter ConverterConfig `yaml:"converter"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "error",
		Color:    "auto",
		Refresh:  "",
		Converter: ConverterConfig{
			Command:    "geodate",
			FormatArgs: []string{"--format", geodate.ArgSpec, "0", geodate.ArgLon, geodate.ArgTS},
			ParseArgs:  []string{"--unix", "--format", geodate.ArgSpec, "0", geodate.ArgLon, geodate.ArgText},
			EphemArgs:  []string{"--ephem", "--machine", geodate.ArgLat, geodate.ArgLon, geodate.ArgTS},
			Timeout:    5 * time.Second,
		},
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "error":
	default:
		c.LogLevel = def.LogLevel
	}

	c.Color = strings.ToLower(strings.TrimSpace(c.Color))
	switch c.Color {
	case "auto", "always", "never":
	default:
		c.Color = def.Color
	}

	c.Refresh = strings.TrimSpace(c.Refresh)

	if c.Converter.Command == "" {
		c.Converter.Command = def.Converter.Command
	}
	if len(c.Converter.FormatArgs) == 0 {
		c.Converter.FormatArgs = def.Converter.FormatArgs
	}
	if len(c.Converter.ParseArgs) == 0 {
		c.Converter.ParseArgs = def.Converter.ParseArgs
	}
	if len(c.Converter.EphemArgs) == 0 {
		c.Converter.EphemArgs = def.Converter.EphemArgs
	}
	if c.Converter.Timeout <= 0 {
		c.Converter.Timeout = def.Converter.Timeout
	}
}

// CommandConfig converts the converter section for geodate.NewCommand.
func (c *Config) CommandConfig() geodate.CommandConfig {
	return geodate.CommandConfig{
		Path:       c.Converter.Command,
		FormatArgs: c.Converter.FormatArgs,
		ParseArgs:  c.Converter.ParseArgs,
		EphemArgs:  c.Converter.EphemArgs,
		Timeout:    c.Converter.Timeout,
	}
}

// Path returns $GEOCAL_CONFIG, or geocal/config.yaml under the user config
// directory.
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "geocal", "config.yaml"), nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms and returned.
//   - Otherwise the YAML is unmarshalled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically via a temp file + rename, creating the
// parent directory (0700) and leaving the file at 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".geocal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method delegating to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
