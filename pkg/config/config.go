// Package config provides configuration for fresheyes.
// It loads .fresheyes/config.yaml with proper precedence:
// CLI flags > environment (FRESHEYES_*) > config file > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigDir is the directory name for fresheyes configuration
	ConfigDir = ".fresheyes"
	// ConfigFile is the name of the configuration file
	ConfigFile = "config.yaml"
	// ConfigPath is the full path to the config file relative to project root
	ConfigPath = ConfigDir + "/" + ConfigFile
	// EnvPrefix prefixes environment overrides, e.g. FRESHEYES_SERVER_PORT
	EnvPrefix = "FRESHEYES"
)

// Config is the effective fresheyes configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// LogFormat is console or json
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	GitHub      GitHubConfig      `mapstructure:"github" yaml:"github"`
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Mirror      MirrorConfig      `mapstructure:"mirror" yaml:"mirror"`
	Credentials CredentialsConfig `mapstructure:"credentials" yaml:"credentials"`

	path string
}

// GitHubConfig configures the API client.
type GitHubConfig struct {
	BaseURL   string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// ServerConfig configures `fresheyes serve`.
type ServerConfig struct {
	Address      string        `mapstructure:"address" yaml:"address"`
	Port         int           `mapstructure:"port" yaml:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// Addr returns address:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

// MirrorConfig configures mirror runs.
type MirrorConfig struct {
	// FetchReviews enables the review-comment lookup for the fallback URL
	FetchReviews bool `mapstructure:"fetch_reviews" yaml:"fetch_reviews"`
}

// CredentialsConfig configures token lookup.
type CredentialsConfig struct {
	// TokenFile overrides ~/.fresheyes/fresheyes
	TokenFile string `mapstructure:"token_file" yaml:"token_file,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "console",
		GitHub: GitHubConfig{
			BaseURL:   "https://api.github.com",
			Timeout:   30 * time.Second,
			UserAgent: "fresheyes",
		},
		Server: ServerConfig{
			Address:      "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 2 * time.Minute,
		},
		Mirror: MirrorConfig{
			FetchReviews: true,
		},
	}
}

func defaultValues() map[string]any {
	d := Default()
	return map[string]any{
		"log_level":              d.LogLevel,
		"log_format":             d.LogFormat,
		"github.base_url":        d.GitHub.BaseURL,
		"github.timeout":         d.GitHub.Timeout,
		"github.user_agent":      d.GitHub.UserAgent,
		"server.address":         d.Server.Address,
		"server.port":            d.Server.Port,
		"server.read_timeout":    d.Server.ReadTimeout,
		"server.write_timeout":   d.Server.WriteTimeout,
		"mirror.fetch_reviews":   d.Mirror.FetchReviews,
		"credentials.token_file": d.Credentials.TokenFile,
	}
}

// Load loads the configuration.
//
// If explicitPath is set, that file must exist. Otherwise .fresheyes/config.yaml
// is searched for in dir and its parents; when none is found the defaults
// (plus environment overrides) are returned.
func Load(dir, explicitPath string) (*Config, error) {
	configPath := explicitPath
	if configPath == "" {
		found, err := findConfigPath(dir)
		if err != nil {
			return nil, err
		}
		configPath = found
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaultValues() {
		v.SetDefault(key, value)
	}
	// PORT is what hosting platforms set
	if err := v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.path = configPath

	return &cfg, nil
}

// LoadFromCurrentDir loads the configuration from the current working directory.
func LoadFromCurrentDir(explicitPath string) (*Config, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return Load(dir, explicitPath)
}

// Path returns the config file that was read, or "" if none was.
func (c *Config) Path() string {
	return c.path
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// findConfigPath searches for .fresheyes/config.yaml in dir and its parent directories.
// It returns the full path to the config file, or empty string if not found.
func findConfigPath(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	for {
		configPath := filepath.Join(absDir, ConfigPath)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parentDir := filepath.Dir(absDir)
		if parentDir == absDir {
			return "", nil
		}
		absDir = parentDir
	}
}

// ResolveString returns the effective value for a string configuration field.
// Precedence: cliValue > configValue > defaultValue.
// Returns the effective value and its source ("cli", "config", or "default").
func (c *Config) ResolveString(cliValue, configValue, defaultValue string) (string, string) {
	if cliValue != "" {
		return cliValue, "cli"
	}
	if configValue != "" {
		return configValue, "config"
	}
	return defaultValue, "default"
}

// ResolveLogLevel returns the effective log level and its source.
func (c *Config) ResolveLogLevel(cliValue string) (string, string) {
	return c.ResolveString(cliValue, c.LogLevel, "info")
}

// ResolveLogFormat returns the effective log format and its source.
func (c *Config) ResolveLogFormat(cliValue string) (string, string) {
	return c.ResolveString(cliValue, c.LogFormat, "console")
}
