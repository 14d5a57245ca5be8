package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/krispya/graft/pkg/inliner"
)

// Config represents the graft configuration
type Config struct {
	Source    SourceConfig    `mapstructure:"source"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Debug     string          `mapstructure:"debug"`
}

// SourceConfig selects the files a run touches
type SourceConfig struct {
	BaseDir string   `mapstructure:"base_dir"`
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`
}

// DiscoveryConfig controls which module edges the engine follows
type DiscoveryConfig struct {
	FollowReExports bool   `mapstructure:"follow_re_exports"`
	FollowImports   string `mapstructure:"follow_imports"`
}

// Load loads the configuration from graft.yml or graft.yaml
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("source.base_dir", ".")
	v.SetDefault("source.include", []string{"src/**/*.{ts,tsx,js,jsx,mjs,cjs}"})
	v.SetDefault("source.exclude", []string{"**/node_modules/**", "**/*.test.*", "**/*.spec.*"})
	v.SetDefault("discovery.follow_re_exports", true)
	v.SetDefault("discovery.follow_imports", "all")
	v.SetDefault("debug", "off")

	// Set config name and paths
	v.SetConfigName("graft")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Enable environment variable support: GRAFT_DEBUG, GRAFT_SOURCE_BASE_DIR, ...
	v.SetEnvPrefix("graft")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DebugLevel maps the configured debug string onto the engine's levels
func (c *Config) DebugLevel() inliner.DebugLevel {
	switch c.Debug {
	case "verbose":
		return inliner.DebugVerbose
	case "summary":
		return inliner.DebugSummary
	default:
		return inliner.DebugOff
	}
}

// ImportPolicy maps discovery.follow_imports onto the engine's policy
func (c *Config) ImportPolicy() inliner.ImportPolicy {
	switch c.Discovery.FollowImports {
	case "off":
		return inliner.ImportsOff
	case "side-effects":
		return inliner.ImportsSideEffects
	default:
		return inliner.ImportsAll
	}
}

// InProject checks if the current directory carries a graft config
func InProject() bool {
	if _, err := os.Stat("graft.yml"); err == nil {
		return true
	}
	if _, err := os.Stat("graft.yaml"); err == nil {
		return true
	}
	return false
}

// GetProjectRoot tries to find the project root by looking for graft.yml,
// falling back to a package.json marker
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		// Check for graft.yml or graft.yaml
		if _, err := os.Stat(filepath.Join(dir, "graft.yml")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "graft.yaml")); err == nil {
			return dir, nil
		}

		// Check for package.json as fallback
		if _, err := os.Stat(filepath.Join(dir, "package.json")); err == nil {
			return dir, nil
		}

		// Move up one directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return "", fmt.Errorf("not in a graft project (no graft.yml found)")
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	switch cfg.Debug {
	case "off", "summary", "verbose":
	default:
		return fmt.Errorf("debug must be off, summary, or verbose, got: %s", cfg.Debug)
	}

	switch cfg.Discovery.FollowImports {
	case "all", "side-effects", "off":
	default:
		return fmt.Errorf("discovery.follow_imports must be all, side-effects, or off, got: %s", cfg.Discovery.FollowImports)
	}

	if len(cfg.Source.Include) == 0 {
		return fmt.Errorf("source.include must name at least one pattern")
	}
	return nil
}
