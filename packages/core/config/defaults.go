package config

// DefaultBaseURL is the local development server of the EmpowerYouth API.
const DefaultBaseURL = "http://localhost:3000/api"

// DefaultTimeout is the request timeout in milliseconds.
const DefaultTimeout = 30000

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		Timeout:     DefaultTimeout,
		ValidateSSL: BoolPtr(true),
		Output:      "console",
		Verbose:     BoolPtr(false),
		NoColor:     BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.BaseURL == defaults.BaseURL &&
		c.Timeout == defaults.Timeout &&
		c.RateLimit == defaults.RateLimit &&
		c.GetValidateSSL() == defaults.GetValidateSSL() &&
		c.Proxy == defaults.Proxy &&
		len(c.Headers) == 0 &&
		c.Output == defaults.Output &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.Notify == nil
}
