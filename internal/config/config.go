// Package config provides configuration management for the application.
// It supports YAML configuration files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/revdash/revdash/pkg/logger"
)

// Default configuration values
const (
	defaultHost        = "127.0.0.1"
	defaultPort        = 8790
	defaultOutputDir   = "reports"
	defaultReportName  = "review-report.html"
	defaultGitHubURL   = "https://github.com"
)

// DefaultConfigPath is the default configuration file location.
// The file is optional; built-in defaults apply when it is absent.
const DefaultConfigPath = "config/revdash.yaml"

// Environment variable names recognized as overrides
const (
	// EnvGitHubToken overrides github.token; the conventional gh variable
	// is honored as a fallback.
	EnvGitHubToken         = "REVDASH_GITHUB_TOKEN"
	EnvGitHubTokenFallback = "GITHUB_TOKEN"
)

// Config represents the complete application configuration
type Config struct {
	GitHub  GitHubConfig  `yaml:"github"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
	Logging logger.Config `yaml:"logging"`
}

// GitHubConfig holds GitHub API access configuration
type GitHubConfig struct {
	// Token is the personal access token; empty means anonymous access
	Token string `yaml:"token"`

	// BaseURL is the GitHub base URL; set for GitHub Enterprise
	BaseURL string `yaml:"base_url"`

	// InsecureSkipVerify skips TLS certificate verification (self-hosted setups)
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// OutputConfig holds report output configuration
type OutputConfig struct {
	// Dir is the directory rendered documents are written to and the
	// preview server serves from
	Dir string `yaml:"dir"`

	// DefaultName is the output filename used when no --output flag is given
	DefaultName string `yaml:"default_name"`
}

// ServerConfig holds preview server configuration
type ServerConfig struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	Debug bool   `yaml:"debug"`
}

// Address returns the host:port address string
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Default returns a configuration populated with built-in defaults
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	return cfg
}

// Load reads configuration from a YAML file, applies defaults for unset
// fields, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadOrDefault loads the config file at path if it exists, otherwise
// returns the built-in defaults. An explicitly requested file that cannot
// be read is still an error.
func LoadOrDefault(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return Default(), nil
	}

	return Load(path)
}

// applyDefaults fills unset fields with default values
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = defaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Output.Dir == "" {
		c.Output.Dir = defaultOutputDir
	}
	if c.Output.DefaultName == "" {
		c.Output.DefaultName = defaultReportName
	}
	if c.GitHub.BaseURL == "" {
		c.GitHub.BaseURL = defaultGitHubURL
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// applyEnvOverrides applies environment variable overrides
func (c *Config) applyEnvOverrides() {
	if token := strings.TrimSpace(os.Getenv(EnvGitHubToken)); token != "" {
		c.GitHub.Token = token
	} else if token := strings.TrimSpace(os.Getenv(EnvGitHubTokenFallback)); token != "" && c.GitHub.Token == "" {
		c.GitHub.Token = token
	}
}
