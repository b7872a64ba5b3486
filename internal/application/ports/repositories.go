package ports

import "time"

// ConfigurationRepository defines the interface for configuration persistence
type ConfigurationRepository interface {
	// Load retrieves the current configuration
	Load() (*Configuration, error)

	// Save persists the configuration
	Save(config *Configuration) error

	// LoadDefault returns the default configuration
	LoadDefault() *Configuration

	// Validate validates the configuration
	Validate(config *Configuration) error

	// GetConfigPath returns the path to the configuration file
	GetConfigPath() string

	// BackupConfig creates a backup of the current configuration
	BackupConfig() error
}

// Retry backoff modes
const (
	BackoffNone        = "none"
	BackoffExponential = "exponential"
)

// Configuration represents the application configuration
type Configuration struct {
	APIBaseURL         string `yaml:"api_base_url" env:"INSIGHTS_API_BASE_URL"`
	RequestTimeout     int    `yaml:"request_timeout_seconds" env:"INSIGHTS_REQUEST_TIMEOUT"`
	MaxRetries         *int   `yaml:"max_retries,omitempty" env:"INSIGHTS_MAX_RETRIES"`
	RetryBackoff       string `yaml:"retry_backoff" env:"INSIGHTS_RETRY_BACKOFF"`
	RetryBaseDelayMS   int    `yaml:"retry_base_delay_ms" env:"INSIGHTS_RETRY_BASE_DELAY_MS"`
	RetryMaxDelayMS    int    `yaml:"retry_max_delay_ms" env:"INSIGHTS_RETRY_MAX_DELAY_MS"`
	RetryTransientOnly *bool  `yaml:"retry_transient_only,omitempty" env:"INSIGHTS_RETRY_TRANSIENT_ONLY"`
	LogLevel           string `yaml:"log_level" env:"INSIGHTS_LOG_LEVEL"`
	LogJSON            *bool  `yaml:"log_json,omitempty" env:"INSIGHTS_LOG_JSON"`
	Debug              *bool  `yaml:"debug,omitempty" env:"INSIGHTS_DEBUG"`
	OTelEndpoint       string `yaml:"otel_endpoint,omitempty" env:"INSIGHTS_OTEL_ENDPOINT"`
}

// Retries returns the configured retry budget
func (c *Configuration) Retries() int {
	if c.MaxRetries == nil {
		return 0
	}
	return *c.MaxRetries
}

// Timeout returns the per-request timeout
func (c *Configuration) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// BaseDelay returns the first backoff interval
func (c *Configuration) BaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMS) * time.Millisecond
}

// MaxDelay returns the backoff ceiling
func (c *Configuration) MaxDelay() time.Duration {
	return time.Duration(c.RetryMaxDelayMS) * time.Millisecond
}

// TransientOnly reports whether 4xx failures skip the retry budget
func (c *Configuration) TransientOnly() bool {
	return c.RetryTransientOnly != nil && *c.RetryTransientOnly
}

// JSONLogs reports whether logs are written as JSON
func (c *Configuration) JSONLogs() bool {
	return c.LogJSON != nil && *c.LogJSON
}

// DebugEnabled reports whether debug mode is on
func (c *Configuration) DebugEnabled() bool {
	return c.Debug != nil && *c.Debug
}
