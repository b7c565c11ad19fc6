package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	oerrors "github.com/opmodel/crateplan/internal/errors"
	"github.com/opmodel/crateplan/internal/output"
)

// envPrefix is the prefix of crateplan environment variables.
const envPrefix = "CRATEPLAN"

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue records how a configuration value was chosen.
type ResolvedValue struct {
	Key    string
	Value  any
	Source ConfigSource

	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]any
}

// Setting is a candidate value and whether it was provided at all.
type Setting[T any] struct {
	Value T
	Set   bool
}

// Given returns a provided Setting.
func Given[T any](v T) Setting[T] {
	return Setting[T]{Value: v, Set: true}
}

// EnvVar returns the environment variable for a key, for example
// CRATEPLAN_STRICT_CHECKSUMS for "strictChecksums" and
// CRATEPLAN_LOG_TIMESTAMPS for "log.timestamps".
func EnvVar(key string) string {
	var b strings.Builder
	b.WriteString(envPrefix)
	b.WriteByte('_')
	for i, r := range key {
		switch {
		case r == '.':
			b.WriteByte('_')
		case unicode.IsUpper(r) && i > 0 && key[i-1] != '.':
			b.WriteByte('_')
			b.WriteRune(r)
		default:
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// Resolve picks the value of key using precedence:
// (1) flag, (2) CRATEPLAN_* env, (3) config file, (4) default.
// parse converts the environment variable; a value it rejects is a config
// error.
func Resolve[T any](key string, flag, cfg Setting[T], def T, parse func(string) (T, error)) (T, ResolvedValue, error) {
	rv := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]any)}

	var env Setting[T]
	envName := EnvVar(key)
	if raw, ok := os.LookupEnv(envName); ok && raw != "" {
		v, err := parse(raw)
		if err != nil {
			var zero T
			return zero, rv, oerrors.NewConfigError(
				fmt.Sprintf("invalid value %q for %s: %v", raw, envName, err),
				map[string]string{"Key": key},
				"",
			)
		}
		env = Given(v)
	}

	candidates := []struct {
		source  ConfigSource
		setting Setting[T]
	}{
		{SourceFlag, flag},
		{SourceEnv, env},
		{SourceConfig, cfg},
		{SourceDefault, Given(def)},
	}
	var value T
	for _, c := range candidates {
		if !c.setting.Set {
			continue
		}
		if rv.Source == "" {
			rv.Source = c.source
			rv.Value = c.setting.Value
			value = c.setting.Value
			continue
		}
		rv.Shadowed[c.source] = c.setting.Value
	}
	return value, rv, nil
}

// ParseString is the identity parser for string settings.
func ParseString(s string) (string, error) { return s, nil }

// ParseBool parses boolean settings.
func ParseBool(s string) (bool, error) { return strconv.ParseBool(s) }

// ParseInt parses integer settings.
func ParseInt(s string) (int, error) { return strconv.Atoi(s) }

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) CRATEPLAN_CONFIG env, (3) ~/.crateplan/config.yaml
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolveConfigPathResult, error) {
	result := ResolveConfigPathResult{
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv(EnvConfig)

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}
	defaultPath := paths.ConfigFile

	switch {
	case opts.FlagValue != "":
		result.ConfigPath = opts.FlagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultPath
	case envValue != "":
		result.ConfigPath = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultPath
	default:
		result.ConfigPath = defaultPath
		result.Source = SourceDefault
	}

	return result, nil
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
