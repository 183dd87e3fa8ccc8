package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the apiprobe configuration
type Config struct {
	BaseURL     string            `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`
	Timeout     int               `json:"timeout,omitempty" yaml:"timeout,omitempty"` // milliseconds
	RateLimit   float64           `json:"rateLimit,omitempty" yaml:"rateLimit,omitempty"`
	ValidateSSL *bool             `json:"validateSSL,omitempty" yaml:"validateSSL,omitempty"`
	Proxy       string            `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"` // Default headers for all requests
	Output      string            `json:"output,omitempty" yaml:"output,omitempty"`
	Verbose     *bool             `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor     *bool             `json:"noColor,omitempty" yaml:"noColor,omitempty"`
	Notify      *NotifyConfig     `json:"notify,omitempty" yaml:"notify,omitempty"`
}

// NotifyConfig holds webhook targets for run notifications.
type NotifyConfig struct {
	On           string `json:"on,omitempty" yaml:"on,omitempty"`
	SlackWebhook string `json:"slackWebhook,omitempty" yaml:"slackWebhook,omitempty"`
	SlackChannel string `json:"slackChannel,omitempty" yaml:"slackChannel,omitempty"`
	TeamsWebhook string `json:"teamsWebhook,omitempty" yaml:"teamsWebhook,omitempty"`
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// TimeoutDuration returns the request timeout. Zero falls back to
// DefaultTimeout so requests are never unbounded.
func (c *Config) TimeoutDuration() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout * time.Millisecond
	}
	return time.Duration(c.Timeout) * time.Millisecond
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	".apiprobe.json",
	".apiprobe.yaml",
	".apiprobe.yml",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	if path := FindConfigFile(dir); path != "" {
		return loadConfigFromFile(path)
	}

	return DefaultConfig(), nil
}

// FindConfigFile returns the first config file present in dir, or "".
func FindConfigFile(dir string) string {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}
	return ""
}

// loadConfigFromFile loads configuration from a specific file. Values absent
// from the file keep their defaults.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return config, nil
}

// Validate reports settings that cannot be used to build a client.
func (c *Config) Validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid baseUrl: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("invalid baseUrl %q: must be an absolute http(s) URL", c.BaseURL)
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %d: must not be negative", c.Timeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("invalid rateLimit %g: must not be negative", c.RateLimit)
	}
	if c.Proxy != "" {
		if _, err := url.Parse(c.Proxy); err != nil {
			return fmt.Errorf("invalid proxy: %w", err)
		}
	}
	return nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.BaseURL != "" {
		result.BaseURL = other.BaseURL
	}
	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.RateLimit > 0 {
		result.RateLimit = other.RateLimit
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if other.Output != "" {
		result.Output = other.Output
	}

	// Boolean flags - only override if explicitly set in other config
	if other.ValidateSSL != nil {
		result.ValidateSSL = other.ValidateSSL
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.Headers) > 0 {
		headers := make(map[string]string, len(result.Headers)+len(other.Headers))
		for k, v := range result.Headers {
			headers[k] = v
		}
		for k, v := range other.Headers {
			headers[k] = v
		}
		result.Headers = headers
	}

	if other.Notify != nil {
		result.Notify = other.Notify
	}

	return &result
}

// SaveConfig saves the configuration to a file, as YAML when the extension asks for it
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
