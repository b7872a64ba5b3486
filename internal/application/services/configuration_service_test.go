package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aiinsights.blog/cli/internal/application/ports"
	"aiinsights.blog/cli/test"
)

type MockConfigurationRepository struct {
	mock.Mock
}

func (m *MockConfigurationRepository) Load() (*ports.Configuration, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.Configuration), args.Error(1)
}

func (m *MockConfigurationRepository) Save(config *ports.Configuration) error {
	return m.Called(config).Error(0)
}

func (m *MockConfigurationRepository) LoadDefault() *ports.Configuration {
	return m.Called().Get(0).(*ports.Configuration)
}

func (m *MockConfigurationRepository) Validate(config *ports.Configuration) error {
	return m.Called(config).Error(0)
}

func (m *MockConfigurationRepository) GetConfigPath() string {
	return m.Called().String(0)
}

func (m *MockConfigurationRepository) BackupConfig() error {
	return m.Called().Error(0)
}

func defaultTestConfiguration() *ports.Configuration {
	retries := 2
	return &ports.Configuration{
		APIBaseURL:     "https://api.ai-insights-blog.com/v1",
		RequestTimeout: 30,
		MaxRetries:     &retries,
		RetryBackoff:   ports.BackoffNone,
		LogLevel:       "warn",
	}
}

func TestConfigurationService_LoadConfiguration(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the loaded configuration", func(t *testing.T) {
		repo := &MockConfigurationRepository{}
		repo.On("Load").Return(defaultTestConfiguration(), nil).Once()

		config, err := NewConfigurationService(repo, test.NewRecordingLogger(ports.LogLevelInfo)).LoadConfiguration(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, config.Retries())
		repo.AssertExpectations(t)
	})

	t.Run("logs and returns load failures", func(t *testing.T) {
		repo := &MockConfigurationRepository{}
		logger := test.NewRecordingLogger(ports.LogLevelInfo)
		cause := errors.New("parse env: bad value")
		repo.On("Load").Return(nil, cause).Once()
		repo.On("GetConfigPath").Return("/tmp/config.yaml")

		config, err := NewConfigurationService(repo, logger).LoadConfiguration(ctx)

		assert.Nil(t, config)
		assert.ErrorIs(t, err, cause)
		entries := logger.WithMessage("Failed to load configuration")
		require.Len(t, entries, 1)
		assert.Equal(t, cause, entries[0].Err)
	})
}

func TestConfigurationService_SaveConfiguration(t *testing.T) {
	ctx := context.Background()
	config := defaultTestConfiguration()

	t.Run("backs up then saves", func(t *testing.T) {
		repo := &MockConfigurationRepository{}
		repo.On("Validate", config).Return(nil).Once()
		repo.On("BackupConfig").Return(nil).Once()
		repo.On("Save", config).Return(nil).Once()
		repo.On("GetConfigPath").Return("/tmp/config.yaml")

		err := NewConfigurationService(repo, test.NewRecordingLogger(ports.LogLevelInfo)).SaveConfiguration(ctx, config)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("backup failure does not block the save", func(t *testing.T) {
		repo := &MockConfigurationRepository{}
		logger := test.NewRecordingLogger(ports.LogLevelInfo)
		repo.On("Validate", config).Return(nil).Once()
		repo.On("BackupConfig").Return(errors.New("read-only")).Once()
		repo.On("Save", config).Return(nil).Once()
		repo.On("GetConfigPath").Return("/tmp/config.yaml")

		err := NewConfigurationService(repo, logger).SaveConfiguration(ctx, config)

		require.NoError(t, err)
		assert.Len(t, logger.WithMessage("Failed to create configuration backup"), 1)
		repo.AssertExpectations(t)
	})

	t.Run("invalid configuration is never written", func(t *testing.T) {
		repo := &MockConfigurationRepository{}
		repo.On("Validate", config).Return(errors.New("request timeout must be greater than 0")).Once()

		err := NewConfigurationService(repo, test.NewRecordingLogger(ports.LogLevelInfo)).SaveConfiguration(ctx, config)

		assert.ErrorContains(t, err, "configuration validation failed")
		repo.AssertNotCalled(t, "Save", mock.Anything)
	})
}

func TestConfigurationService_InitializeConfiguration(t *testing.T) {
	ctx := context.Background()

	t.Run("applies options over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		repo := &MockConfigurationRepository{}
		repo.On("GetConfigPath").Return(path)
		repo.On("LoadDefault").Return(defaultTestConfiguration()).Once()
		repo.On("Validate", mock.Anything).Return(nil).Once()
		repo.On("BackupConfig").Return(nil).Once()
		repo.On("Save", mock.MatchedBy(func(c *ports.Configuration) bool {
			return c.APIBaseURL == "http://localhost:5149/v1" && c.Retries() == 0 && c.RetryBackoff == ports.BackoffExponential
		})).Return(nil).Once()

		retries := 0
		config, err := NewConfigurationService(repo, test.NewRecordingLogger(ports.LogLevelInfo)).InitializeConfiguration(ctx, InitOptions{
			APIBaseURL: "http://localhost:5149/v1",
			MaxRetries: &retries,
			Backoff:    ports.BackoffExponential,
		})

		require.NoError(t, err)
		assert.Equal(t, "http://localhost:5149/v1", config.APIBaseURL)
		repo.AssertExpectations(t)
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log_level: info\n"), 0644))
		repo := &MockConfigurationRepository{}
		repo.On("GetConfigPath").Return(path)

		_, err := NewConfigurationService(repo, test.NewRecordingLogger(ports.LogLevelInfo)).InitializeConfiguration(ctx, InitOptions{})

		assert.ErrorContains(t, err, "configuration already exists")
		repo.AssertNotCalled(t, "Save", mock.Anything)
	})
}
