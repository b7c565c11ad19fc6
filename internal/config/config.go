// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"runtime"

	oerrors "github.com/opmodel/crateplan/internal/errors"
	"github.com/opmodel/crateplan/internal/output"
)

// Configuration keys, as written in the config file.
const (
	KeyMetadata        = "metadata"
	KeyLockfile        = "lockfile"
	KeySettings        = "settings"
	KeyOutput          = "output"
	KeyStrictChecksums = "strictChecksums"
	KeyJobs            = "jobs"
	KeyLogTimestamps   = "log.timestamps"
)

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty"`
}

// Config represents the crateplan CLI configuration.
// Loaded from ~/.crateplan/config.yaml.
type Config struct {
	// Metadata is the path of the `cargo metadata` snapshot (JSON or YAML).
	// Env: CRATEPLAN_METADATA
	Metadata string `mapstructure:"metadata" yaml:"metadata,omitempty"`

	// Lockfile is the path of Cargo.lock, used for checksums. Empty disables
	// checksum lookup.
	// Env: CRATEPLAN_LOCKFILE
	Lockfile string `mapstructure:"lockfile" yaml:"lockfile,omitempty"`

	// Settings is the TOML file holding the raze settings table.
	// Env: CRATEPLAN_SETTINGS
	Settings string `mapstructure:"settings" yaml:"settings,omitempty"`

	// Output is the default output format (yaml, json, table).
	// Env: CRATEPLAN_OUTPUT
	Output string `mapstructure:"output" yaml:"output,omitempty"`

	// StrictChecksums fails planning when a registry crate has no checksum.
	// Env: CRATEPLAN_STRICT_CHECKSUMS
	StrictChecksums bool `mapstructure:"strictChecksums" yaml:"strictChecksums,omitempty"`

	// Jobs is the number of crates planned concurrently.
	// Env: CRATEPLAN_JOBS, Default: number of CPUs
	Jobs int `mapstructure:"jobs" yaml:"jobs,omitempty"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log" yaml:"log,omitempty"`

	// set records the keys present in the config file.
	set map[string]bool
}

// DefaultConfig returns a Config with all default values populated.
func DefaultConfig() *Config {
	return &Config{
		Metadata: "cargo-metadata.json",
		Lockfile: "Cargo.lock",
		Settings: "Cargo.toml",
		Output:   string(output.FormatYAML),
		Jobs:     runtime.NumCPU(),
	}
}

// IsSet reports whether key was present in the config file.
func (c *Config) IsSet(key string) bool {
	return c.set[key]
}

// WithDefaults returns a copy of c with empty values replaced by defaults.
func (c *Config) WithDefaults() *Config {
	out := *c
	def := DefaultConfig()
	if out.Metadata == "" {
		out.Metadata = def.Metadata
	}
	if out.Lockfile == "" && !c.IsSet(KeyLockfile) {
		out.Lockfile = def.Lockfile
	}
	if out.Settings == "" {
		out.Settings = def.Settings
	}
	if out.Output == "" {
		out.Output = def.Output
	}
	if out.Jobs == 0 {
		out.Jobs = def.Jobs
	}
	return &out
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Output != "" {
		if _, ok := output.ParseOutputFormat(c.Output); !ok {
			return oerrors.NewConfigError(
				fmt.Sprintf("unknown output format %q", c.Output),
				map[string]string{"Key": KeyOutput},
				fmt.Sprintf("Use one of %v", output.ValidFormats()),
			)
		}
	}
	if c.Jobs < 0 {
		return oerrors.NewConfigError(
			fmt.Sprintf("jobs must not be negative, got %d", c.Jobs),
			map[string]string{"Key": KeyJobs},
			"",
		)
	}
	return nil
}
