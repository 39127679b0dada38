package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/conduit-lang/propkit/internal/compiler/frontend"
	"github.com/conduit-lang/propkit/internal/compiler/typekind"
	"github.com/conduit-lang/propkit/internal/tooling/build"
)

// EnvPrefix prefixes environment overrides, e.g. PROPKIT_GENERATE_SUFFIX
const EnvPrefix = "PROPKIT"

var configFiles = []string{"propkit.yml", "propkit.yaml"}

// Config represents the propkit configuration
type Config struct {
	Generate GenerateConfig `mapstructure:"generate"`
	Types    TypesConfig    `mapstructure:"types"`
	Watch    WatchConfig    `mapstructure:"watch"`
	LSP      LSPConfig      `mapstructure:"lsp"`
}

// GenerateConfig represents code generation configuration
type GenerateConfig struct {
	Patterns    []string `mapstructure:"patterns"`
	Suffix      string   `mapstructure:"suffix"`
	TagKey      string   `mapstructure:"tag_key"`
	Concurrency int      `mapstructure:"concurrency"`
	Tests       bool     `mapstructure:"tests"`
	BuildFlags  []string `mapstructure:"build_flags"`
}

// TypesConfig represents value-kind classification configuration
type TypesConfig struct {
	Qualifiers []string `mapstructure:"qualifiers"`
}

// WatchConfig represents watch mode configuration
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// LSPConfig represents language server configuration
type LSPConfig struct {
	CacheSize int `mapstructure:"cache_size"`
}

// Load loads the configuration from propkit.yml or propkit.yaml in dir.
// A .env file in dir is loaded first; existing environment variables win.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = "."
	}

	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	v.SetDefault("generate.patterns", []string{"./..."})
	v.SetDefault("generate.suffix", build.DefaultOutputSuffix)
	v.SetDefault("generate.tag_key", frontend.DefaultTagKey)
	v.SetDefault("generate.concurrency", 0)
	v.SetDefault("generate.tests", false)
	v.SetDefault("generate.build_flags", []string{})
	v.SetDefault("types.qualifiers", append([]string(nil), typekind.DefaultQualifiers...))
	v.SetDefault("watch.debounce", 100*time.Millisecond)
	v.SetDefault("lsp.cache_size", 100)

	v.SetConfigName("propkit")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// BuildOptions converts the configuration into build options rooted at dir
func (c *Config) BuildOptions(dir string) *build.Options {
	opts := build.DefaultOptions()
	opts.Dir = dir
	if len(c.Generate.Patterns) > 0 {
		opts.Patterns = c.Generate.Patterns
	}
	opts.OutputSuffix = c.Generate.Suffix
	opts.TagKey = c.Generate.TagKey
	if c.Generate.Concurrency > 0 {
		opts.Concurrency = c.Generate.Concurrency
	}
	opts.Tests = c.Generate.Tests
	opts.BuildFlags = c.Generate.BuildFlags
	opts.Qualifiers = c.Types.Qualifiers
	return opts
}

// GetProjectRoot finds the nearest directory at or above the working
// directory holding a propkit config file or a go.mod
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, name := range configFiles {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, nil
			}
		}

		// go.mod as fallback
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no propkit.yml or go.mod found)")
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	suffix := cfg.Generate.Suffix
	if !strings.HasSuffix(suffix, ".go") || suffix == ".go" {
		return fmt.Errorf("generate.suffix must end with '.go' and name a suffix, got: %q", suffix)
	}
	if strings.HasSuffix(suffix, "_test.go") {
		return fmt.Errorf("generate.suffix must not end with '_test.go', got: %q", suffix)
	}
	if strings.ContainsAny(suffix, `/\`) {
		return fmt.Errorf("generate.suffix must not contain a path separator, got: %q", suffix)
	}
	if cfg.Generate.TagKey == "" || strings.ContainsAny(cfg.Generate.TagKey, " :\"`") {
		return fmt.Errorf("generate.tag_key must be a plain struct tag key, got: %q", cfg.Generate.TagKey)
	}
	if cfg.Generate.Concurrency < 0 {
		return fmt.Errorf("generate.concurrency must not be negative, got: %d", cfg.Generate.Concurrency)
	}
	for _, q := range cfg.Types.Qualifiers {
		if q == "" || strings.ContainsAny(q, " ./") {
			return fmt.Errorf("types.qualifiers entries must be package names, got: %q", q)
		}
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got: %s", cfg.Watch.Debounce)
	}
	if cfg.LSP.CacheSize <= 0 {
		return fmt.Errorf("lsp.cache_size must be positive, got: %d", cfg.LSP.CacheSize)
	}
	return nil
}
