package services

import (
	"context"
	"fmt"
	"os"

	"aiinsights.blog/cli/internal/application/ports"
)

// ConfigurationService handles configuration management
type ConfigurationService struct {
	configRepo ports.ConfigurationRepository
	logger     ports.LoggingGateway
}

// InitOptions are the values `insights init` writes on top of the defaults
type InitOptions struct {
	APIBaseURL string
	MaxRetries *int
	Backoff    string
	Force      bool
}

// NewConfigurationService creates a new configuration service
func NewConfigurationService(configRepo ports.ConfigurationRepository, logger ports.LoggingGateway) *ConfigurationService {
	return &ConfigurationService{
		configRepo: configRepo,
		logger:     logger,
	}
}

// LoadConfiguration loads the current configuration
func (s *ConfigurationService) LoadConfiguration(ctx context.Context) (*ports.Configuration, error) {
	config, err := s.configRepo.Load()
	if err != nil {
		s.logger.LogError(err, "Failed to load configuration", map[string]interface{}{
			"config_path": s.configRepo.GetConfigPath(),
		})
		return nil, err
	}
	return config, nil
}

// SaveConfiguration validates, backs up the previous file, then saves
func (s *ConfigurationService) SaveConfiguration(ctx context.Context, config *ports.Configuration) error {
	if err := s.configRepo.Validate(config); err != nil {
		s.logger.LogError(err, "Configuration validation failed", nil)
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := s.configRepo.BackupConfig(); err != nil {
		// Continue with save even if backup fails
		s.logger.LogError(err, "Failed to create configuration backup", nil)
	}

	if err := s.configRepo.Save(config); err != nil {
		s.logger.LogError(err, "Failed to save configuration", nil)
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	s.logger.Log(ports.LogLevelInfo, "Configuration saved successfully", map[string]interface{}{
		"config_path": s.configRepo.GetConfigPath(),
	})

	return nil
}

// GetDefaultConfiguration returns the default configuration
func (s *ConfigurationService) GetDefaultConfiguration(ctx context.Context) *ports.Configuration {
	return s.configRepo.LoadDefault()
}

// GetConfigurationPath returns the path to the configuration file
func (s *ConfigurationService) GetConfigurationPath(ctx context.Context) string {
	return s.configRepo.GetConfigPath()
}

// InitializeConfiguration writes a fresh config file. An existing file is
// only replaced when opts.Force is set.
func (s *ConfigurationService) InitializeConfiguration(ctx context.Context, opts InitOptions) (*ports.Configuration, error) {
	path := s.configRepo.GetConfigPath()
	if _, err := os.Stat(path); err == nil && !opts.Force {
		return nil, fmt.Errorf("configuration already exists at %s (use --force to overwrite)", path)
	}

	config := s.configRepo.LoadDefault()
	if opts.APIBaseURL != "" {
		config.APIBaseURL = opts.APIBaseURL
	}
	if opts.MaxRetries != nil {
		retries := *opts.MaxRetries
		config.MaxRetries = &retries
	}
	if opts.Backoff != "" {
		config.RetryBackoff = opts.Backoff
	}

	if err := s.SaveConfiguration(ctx, config); err != nil {
		return nil, err
	}
	return config, nil
}
