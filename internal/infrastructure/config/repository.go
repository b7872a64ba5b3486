package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"aiinsights.blog/cli/internal/application/ports"
	"aiinsights.blog/cli/internal/infrastructure/api"
)

// DefaultAPIBaseURL is the production content API
const DefaultAPIBaseURL = "https://api.ai-insights-blog.com/v1"

// ConfigFileEnv overrides the config file location
const ConfigFileEnv = "INSIGHTS_CONFIG_FILE"

// CompositeConfigRepository implements the ConfigurationRepository interface
type CompositeConfigRepository struct {
	mu         sync.Mutex
	sources    []ConfigSource
	cache      *ConfigCache
	configPath string
}

// ConfigSource defines the interface for configuration sources
type ConfigSource interface {
	Load() (*ports.Configuration, error)
	Priority() int
	Name() string
}

// ConfigCache provides caching for configuration
type ConfigCache struct {
	config    *ports.Configuration
	timestamp time.Time
	ttl       time.Duration
}

// NewCompositeConfigRepository creates a repository reading the config file
// and the environment. An empty path selects the default location.
func NewCompositeConfigRepository(configPath string) *CompositeConfigRepository {
	if configPath == "" {
		configPath = os.Getenv(ConfigFileEnv)
	}
	if configPath == "" {
		configPath = DefaultConfigPath()
	}

	repo := &CompositeConfigRepository{
		cache:      &ConfigCache{ttl: 5 * time.Minute},
		configPath: configPath,
	}

	repo.AddSource(NewFileConfigSource(configPath))
	repo.AddSource(NewEnvironmentConfigSource())

	return repo
}

// AddSource adds a configuration source
func (r *CompositeConfigRepository) AddSource(source ConfigSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, source)
	r.cache.config = nil
}

// Load merges defaults and every source. Sources with a higher priority
// number are applied later and win.
func (r *CompositeConfigRepository) Load() (*ports.Configuration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cache.config != nil && time.Since(r.cache.timestamp) < r.cache.ttl {
		cached := *r.cache.config
		return &cached, nil
	}

	sorted := make([]ConfigSource, len(r.sources))
	copy(sorted, r.sources)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})

	config := r.LoadDefault()
	for _, source := range sorted {
		sourceConfig, err := source.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load %s configuration: %w", source.Name(), err)
		}
		config = mergeConfigurations(config, sourceConfig)
	}

	if err := r.Validate(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	r.cache.config = config
	r.cache.timestamp = time.Now()

	result := *config
	return &result, nil
}

// Save writes the configuration to the config file as YAML
func (r *CompositeConfigRepository) Save(config *ports.Configuration) error {
	if err := r.Validate(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if err := os.WriteFile(r.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	r.mu.Lock()
	r.cache.config = nil
	r.mu.Unlock()

	return nil
}

// LoadDefault returns the default configuration
func (r *CompositeConfigRepository) LoadDefault() *ports.Configuration {
	return DefaultConfiguration()
}

// DefaultConfiguration returns the built-in defaults
func DefaultConfiguration() *ports.Configuration {
	maxRetries := api.DefaultMaxRetries
	transientOnly := false
	logJSON := false
	debug := false

	return &ports.Configuration{
		APIBaseURL:         DefaultAPIBaseURL,
		RequestTimeout:     30,
		MaxRetries:         &maxRetries,
		RetryBackoff:       ports.BackoffNone,
		RetryBaseDelayMS:   200,
		RetryMaxDelayMS:    5000,
		RetryTransientOnly: &transientOnly,
		LogLevel:           string(ports.LogLevelWarn),
		LogJSON:            &logJSON,
		Debug:              &debug,
	}
}

// Validate validates the configuration
func (r *CompositeConfigRepository) Validate(config *ports.Configuration) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if _, err := api.ParseBaseURL(config.APIBaseURL); err != nil {
		return err
	}

	if config.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}

	if config.Retries() < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}

	if config.RetryBaseDelayMS < 0 || config.RetryMaxDelayMS < 0 {
		return fmt.Errorf("retry delays cannot be negative")
	}

	switch config.RetryBackoff {
	case ports.BackoffNone, ports.BackoffExponential:
	default:
		return fmt.Errorf("retry backoff must be one of: %s, %s", ports.BackoffNone, ports.BackoffExponential)
	}

	if !ports.LogLevel(config.LogLevel).Valid() {
		return fmt.Errorf("log level must be one of: debug, info, warn, error")
	}

	return nil
}

// GetConfigPath returns the path to the configuration file
func (r *CompositeConfigRepository) GetConfigPath() string {
	return r.configPath
}

// BackupConfig creates a timestamped copy of the config file
func (r *CompositeConfigRepository) BackupConfig() error {
	if _, err := os.Stat(r.configPath); os.IsNotExist(err) {
		return nil
	}

	backupPath := r.configPath + ".backup." + time.Now().Format("20060102-150405")

	data, err := os.ReadFile(r.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file for backup: %w", err)
	}

	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}

	return nil
}

// mergeConfigurations overlays the values source sets onto target
func mergeConfigurations(target, source *ports.Configuration) *ports.Configuration {
	if source == nil {
		return target
	}

	result := *target

	if source.APIBaseURL != "" {
		result.APIBaseURL = source.APIBaseURL
	}
	if source.RequestTimeout != 0 {
		result.RequestTimeout = source.RequestTimeout
	}
	if source.RetryBackoff != "" {
		result.RetryBackoff = source.RetryBackoff
	}
	if source.RetryBaseDelayMS != 0 {
		result.RetryBaseDelayMS = source.RetryBaseDelayMS
	}
	if source.RetryMaxDelayMS != 0 {
		result.RetryMaxDelayMS = source.RetryMaxDelayMS
	}
	if source.LogLevel != "" {
		result.LogLevel = source.LogLevel
	}
	if source.OTelEndpoint != "" {
		result.OTelEndpoint = source.OTelEndpoint
	}

	// Pointer fields distinguish "unset" from an explicit zero
	if source.MaxRetries != nil {
		result.MaxRetries = source.MaxRetries
	}
	if source.RetryTransientOnly != nil {
		result.RetryTransientOnly = source.RetryTransientOnly
	}
	if source.LogJSON != nil {
		result.LogJSON = source.LogJSON
	}
	if source.Debug != nil {
		result.Debug = source.Debug
	}

	return &result
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".insights.yaml"
	}

	return filepath.Join(homeDir, ".config", "insights", "config.yaml")
}

var _ ports.ConfigurationRepository = (*CompositeConfigRepository)(nil)
