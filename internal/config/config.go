// Package config provides unified configuration loading for flamelog.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config contains all flamelog configuration settings.
type Config struct {
	// Output contains settings for the export step.
	Output OutputConfig `json:"output" yaml:"output"`

	// Parsing contains settings for the log parser.
	Parsing ParsingConfig `json:"parsing" yaml:"parsing"`

	// Logging contains settings for operational logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// OutputConfig configures how tabulated data is written.
type OutputConfig struct {
	// Format selects the sink: "csv" (default), "sqlite", or "arrow".
	Format string `json:"format" yaml:"format"`

	// Force overwrites existing output files without asking.
	Force bool `json:"force" yaml:"force"`

	// Pretty renders the run summary with styled terminal output.
	Pretty bool `json:"pretty" yaml:"pretty"`
}

// ParsingConfig configures the log parser.
type ParsingConfig struct {
	// StrictNumbers makes a non-numeric instrumentation value fatal for
	// that file. When false such values are dropped like malformed
	// splits.
	StrictNumbers bool `json:"strict_numbers" yaml:"strict_numbers"`
}

// LoggingConfig configures flamelog's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" additionally enables the per-file outcome trace in the
	// output directory.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format: "csv",
			Force:  false,
			Pretty: false,
		},
		Parsing: ParsingConfig{
			StrictNumbers: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default locations and environment
// variables. Order: defaults -> ~/.flamelog/config.yaml -> environment.
func Load() (*Config, error) {
	cfg := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".flamelog", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			cfg = fileConfig
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	validFormats := map[string]bool{"csv": true, "sqlite": true, "arrow": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output format: %s (valid: csv, sqlite, arrow)", c.Output.Format)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FLAMELOG_FORMAT"); v != "" {
		cfg.Output.Format = v
	}

	if v := os.Getenv("FLAMELOG_FORCE"); v != "" {
		cfg.Output.Force = v == "true" || v == "1"
	}

	if v := os.Getenv("FLAMELOG_PRETTY"); v != "" {
		cfg.Output.Pretty = v == "true" || v == "1"
	}

	if v := os.Getenv("FLAMELOG_STRICT_NUMBERS"); v != "" {
		cfg.Parsing.StrictNumbers = v == "true" || v == "1"
	}

	if v := os.Getenv("FLAMELOG_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
