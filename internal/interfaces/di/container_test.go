package di

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiinsights.blog/cli/internal/application/ports"
	"aiinsights.blog/cli/internal/infrastructure/config"
	"aiinsights.blog/cli/internal/interfaces/cli"
	"aiinsights.blog/cli/test"
)

func newTestContainer(t *testing.T, configYAML string) (*Container, *bytes.Buffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if configYAML != "" {
		require.NoError(t, os.WriteFile(path, []byte(configYAML), 0644))
	}

	var logs bytes.Buffer
	container, err := NewContainer(context.Background(), Options{ConfigPath: path, LogOutput: &logs})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Shutdown(context.Background()) })
	return container, &logs
}

func TestNewContainer_UsesConfigFile(t *testing.T) {
	container, _ := newTestContainer(t, "api_base_url: http://localhost:5149/v1\nmax_retries: 1\n")

	assert.Equal(t, "http://localhost:5149/v1", container.Transport.BaseURL())
	assert.Equal(t, 1, container.Configuration.Retries())
	assert.Same(t, container.ContentService, container.CLIContainer.ContentService)
	assert.Same(t, container.ConfigService, container.CLIContainer.ConfigService)
	assert.Equal(t, container, container.CLIContainer.MainContainer)
}

func TestNewContainer_InvalidConfigFallsBackToDefaults(t *testing.T) {
	container, logs := newTestContainer(t, "log_level: shouting\n")

	assert.Equal(t, config.DefaultAPIBaseURL, container.Transport.BaseURL())
	assert.Contains(t, logs.String(), "Failed to load configuration, using defaults")
}

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name          string
		overrides     cli.Overrides
		expectError   bool
		expectedURL   string
		expectedLevel ports.LogLevel
	}{
		{
			name:          "no overrides keeps the stack",
			overrides:     cli.Overrides{},
			expectedURL:   config.DefaultAPIBaseURL,
			expectedLevel: ports.LogLevelWarn,
		},
		{
			name:          "valid URL override",
			overrides:     cli.Overrides{APIURL: "http://localhost:5149/v1"},
			expectedURL:   "http://localhost:5149/v1",
			expectedLevel: ports.LogLevelWarn,
		},
		{
			name:          "debug override",
			overrides:     cli.Overrides{Debug: true},
			expectedURL:   config.DefaultAPIBaseURL,
			expectedLevel: ports.LogLevelDebug,
		},
		{
			name:        "relative URL is rejected",
			overrides:   cli.Overrides{APIURL: "/v1"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, _ := newTestContainer(t, "")
			before := container.Transport

			err := container.ApplyOverrides(context.Background(), tt.overrides)

			if tt.expectError {
				assert.Error(t, err)
				assert.Same(t, before, container.Transport, "failed overrides leave the stack untouched")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedURL, container.Transport.BaseURL())
			assert.Equal(t, tt.expectedLevel, container.Logger.GetLogLevel())
			if tt.overrides == (cli.Overrides{}) {
				assert.Same(t, before, container.Transport)
			} else {
				assert.NotSame(t, before, container.Transport, "overrides build a new transport")
			}
		})
	}
}

func TestApplyOverrides_ConfigPath(t *testing.T) {
	container, _ := newTestContainer(t, "")

	other := filepath.Join(t.TempDir(), "other.yaml")
	require.NoError(t, os.WriteFile(other, []byte("api_base_url: https://staging.example.com/v1\n"), 0644))

	require.NoError(t, container.ApplyOverrides(context.Background(), cli.Overrides{ConfigPath: other}))

	assert.Equal(t, other, container.ConfigRepo.GetConfigPath())
	assert.Equal(t, "https://staging.example.com/v1", container.Transport.BaseURL())
}

func TestInitializeComponents_FailedRebuildKeepsOptions(t *testing.T) {
	container, _ := newTestContainer(t, "")
	before := container.Options()
	transport := container.Transport
	logger := container.Logger

	next := before
	next.APIURL = "/v1"
	next.Debug = true
	err := container.initializeComponents(context.Background(), next)

	require.Error(t, err)
	assert.Equal(t, before, container.Options(), "options only change with a successful rebuild")
	assert.Same(t, transport, container.Transport)
	assert.Same(t, logger, container.Logger)

	// The debug override is still seen as a change and rebuilds
	require.NoError(t, container.ApplyOverrides(context.Background(), cli.Overrides{Debug: true}))
	assert.True(t, container.Options().Debug)
	assert.NotSame(t, transport, container.Transport)
	assert.Equal(t, ports.LogLevelDebug, container.Logger.GetLogLevel())
}

func TestContainer_CurrentLoggerDuringRebuild(t *testing.T) {
	container, _ := newTestContainer(t, "")
	urls := []string{"http://localhost:5149/v1", "http://localhost:5150/v1"}

	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				assert.NotNil(t, container.CurrentLogger())
				container.CurrentLogger().Log(ports.LogLevelDebug, "still here", nil)
			}
		}
	}()

	for i := 0; i < 20; i++ {
		require.NoError(t, container.ApplyOverrides(context.Background(), cli.Overrides{APIURL: urls[i%2]}))
	}
	close(done)
	wg.Wait()

	assert.Same(t, container.Logger, container.CurrentLogger())
}

func TestRetryPolicyFromConfig(t *testing.T) {
	retries := 4
	transientOnly := true
	cfg := &ports.Configuration{
		MaxRetries:         &retries,
		RetryBackoff:       ports.BackoffExponential,
		RetryBaseDelayMS:   100,
		RetryMaxDelayMS:    1000,
		RetryTransientOnly: &transientOnly,
	}

	policy := RetryPolicyFromConfig(cfg)
	assert.Equal(t, 4, policy.MaxRetries)
	assert.True(t, policy.TransientOnly)
	require.NotNil(t, policy.NewBackOff)
	assert.InDelta(t, float64(100*time.Millisecond), float64(policy.NewBackOff().NextBackOff()), float64(20*time.Millisecond))

	cfg.RetryBackoff = ports.BackoffNone
	assert.Nil(t, RetryPolicyFromConfig(cfg).NewBackOff)
}

func TestContainer_EndToEnd(t *testing.T) {
	server := test.NewMockAPIServer(t)
	server.On(http.MethodGet, "/posts/featured",
		test.Raw(http.StatusServiceUnavailable, ""),
		test.JSON(http.StatusOK, []map[string]string{{"id": "1", "title": "Scaling Laws"}}),
	)

	container, _ := newTestContainer(t, "")
	require.NoError(t, container.ApplyOverrides(context.Background(), cli.Overrides{APIURL: server.URL()}))

	articles, err := container.ContentService.FeaturedArticles(context.Background())

	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Scaling Laws", articles[0].Title)
	assert.Len(t, server.RequestsTo(http.MethodGet, "/posts/featured"), 2)
}
