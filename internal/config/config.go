// Package config loads stride's CLI settings from an optional stride.yaml,
// STRIDE_* environment variables and built-in defaults, in increasing order
// of precedence below command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Setting keys.
const (
	KeyDB       = "db"
	KeyFormat   = "format"
	KeyFixtures = "fixtures"
)

// EnvPrefix prefixes environment overrides: STRIDE_DB, STRIDE_FORMAT,
// STRIDE_FIXTURES.
const EnvPrefix = "STRIDE"

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "stride.yaml"

// Config holds resolved settings.
type Config struct {
	// DB is the SQLite probe log path.
	DB string `mapstructure:"db"`
	// Format is the output format, "text" or "json".
	Format string `mapstructure:"format"`
	// Fixtures is the default fixture directory.
	Fixtures string `mapstructure:"fixtures"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		DB:       "stride.db",
		Format:   "text",
		Fixtures: "fixtures",
	}
}

// Validate checks setting values.
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q: must be text or json", c.Format)
	}
	if c.DB == "" {
		return fmt.Errorf("db path is required")
	}
	return nil
}

// FileSystem abstracts file lookups for tests.
type FileSystem interface {
	Exists(path string) bool
}

// RealFileSystem implements FileSystem with os.Stat.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoaderConfig holds loader dependencies and overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for config file discovery.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file. Unlike a discovered file,
// an explicit one must exist.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// searchPaths are tried in order when no config file is given.
var searchPaths = []string{
	"./" + DefaultFile,
	"./.stride.yaml",
	"./config/" + DefaultFile,
}

// Load resolves settings. Without WithConfigFile, the first file in
// searchPaths that exists is used; none existing is not an error.
func Load(opts ...LoaderOption) (*Config, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = RealFileSystem{}
	}

	v := viper.New()
	defaults := Defaults()
	v.SetDefault(KeyDB, defaults.DB)
	v.SetDefault(KeyFormat, defaults.Format)
	v.SetDefault(KeyFixtures, defaults.Fixtures)

	file := lc.ConfigFile
	if file == "" {
		file = findConfigFile(lc.FileSystem)
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", file, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func findConfigFile(fs FileSystem) string {
	for _, path := range searchPaths {
		if fs.Exists(path) {
			return path
		}
	}
	return ""
}
