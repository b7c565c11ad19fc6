package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"

	oerrors "github.com/opmodel/crateplan/internal/errors"
)

// knownKeys are the keys recorded by Config.IsSet.
var knownKeys = []string{
	KeyMetadata,
	KeyLockfile,
	KeySettings,
	KeyOutput,
	KeyStrictChecksums,
	KeyJobs,
	KeyLogTimestamps,
}

// Loader reads the config file. Environment variables and flags are applied
// afterwards by the resolver.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Load loads configuration from the given file path.
// If configFile is empty, it uses the default config file path.
// A missing file yields an empty Config.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, oerrors.NewConfigError(
				fmt.Sprintf("reading config file: %v", err),
				map[string]string{"File": expandedPath},
				"Check the YAML syntax of the config file",
			)
		}
	}

	cfg := &Config{set: make(map[string]bool)}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, oerrors.NewConfigError(
			fmt.Sprintf("decoding config file: %v", err),
			map[string]string{"File": expandedPath},
			"",
		)
	}
	for _, key := range knownKeys {
		if l.v.InConfig(key) {
			cfg.set[key] = true
		}
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration and applies defaults.
func (l *Loader) LoadWithDefaults(configFile string) (*Config, error) {
	cfg, err := l.Load(configFile)
	if err != nil {
		return nil, err
	}

	return cfg.WithDefaults(), nil
}

// ConfigFileExists checks if the config file exists.
func ConfigFileExists(configFile string) (bool, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return false, err
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
