package di

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"aiinsights.blog/cli/internal/application/ports"
	"aiinsights.blog/cli/internal/application/services"
	"aiinsights.blog/cli/internal/infrastructure/api"
	"aiinsights.blog/cli/internal/infrastructure/config"
	"aiinsights.blog/cli/internal/infrastructure/logging"
	"aiinsights.blog/cli/internal/infrastructure/telemetry"
	"aiinsights.blog/cli/internal/interfaces/cli"
)

const serviceName = "insights-cli"

// Options control how the container is assembled
type Options struct {
	ConfigPath string
	APIURL     string
	Debug      bool

	// LogOutput receives log lines; stderr when nil
	LogOutput io.Writer
}

// Container holds all application dependencies
type Container struct {
	// mu guards the component fields while a rebuild swaps them
	mu      sync.RWMutex
	options Options

	// Configuration
	ConfigRepo    *config.CompositeConfigRepository
	ConfigService *services.ConfigurationService
	Configuration *ports.Configuration

	// Infrastructure
	Logger     *logging.HCLogGateway
	Transport  *api.HTTPTransport
	APIGateway *api.ContentAPIGateway

	// Application services
	ContentService *services.ContentService

	// CLI
	CLIContainer *cli.CLIContainer

	shutdownTelemetry telemetry.ShutdownFunc
}

// NewContainer creates and configures the dependency injection container
func NewContainer(ctx context.Context, opts Options) (*Container, error) {
	container := &Container{
		CLIContainer: &cli.CLIContainer{},
	}
	container.CLIContainer.MainContainer = container

	if err := container.initializeComponents(ctx, opts); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}

	return container, nil
}

// initializeComponents builds every component from opts. Each build
// produces a fresh transport; options and components are only swapped in
// once the whole stack has been built.
func (c *Container) initializeComponents(ctx context.Context, opts Options) error {
	logOutput := opts.LogOutput
	if logOutput == nil {
		logOutput = os.Stderr
	}

	// 1. Configuration
	configRepo := config.NewCompositeConfigRepository(opts.ConfigPath)
	bootLogger := logging.NewHCLogGateway("insights", logOutput, ports.LoggingConfig{Level: ports.LogLevelWarn})

	appConfig, err := configRepo.Load()
	if err != nil {
		bootLogger.Log(ports.LogLevelWarn, "Failed to load configuration, using defaults", map[string]interface{}{
			"config_path": configRepo.GetConfigPath(),
			"error":       err.Error(),
		})
		appConfig = configRepo.LoadDefault()
	}
	if opts.APIURL != "" {
		appConfig.APIBaseURL = opts.APIURL
	}
	if opts.Debug {
		debug := true
		appConfig.Debug = &debug
		appConfig.LogLevel = string(ports.LogLevelDebug)
	}

	// 2. Logging
	logger := logging.NewHCLogGateway("insights", logOutput, ports.LoggingConfig{
		Level: ports.LogLevel(appConfig.LogLevel),
		JSON:  appConfig.JSONLogs(),
	})

	// 3. Tracing
	shutdown, err := telemetry.Setup(ctx, serviceName, cli.Version, appConfig.OTelEndpoint)
	if err != nil {
		logger.LogError(err, "Failed to set up tracing", map[string]interface{}{
			"endpoint": appConfig.OTelEndpoint,
		})
	}

	// 4. Transport stack
	transport, err := api.NewHTTPTransport(
		appConfig.APIBaseURL,
		api.NewHTTPClient(appConfig.Timeout()),
		logger,
		serviceName+"/"+cli.Version,
	)
	if err != nil {
		_ = shutdown(ctx)
		return fmt.Errorf("invalid API base URL: %w", err)
	}
	gateway := api.NewContentAPIGateway(transport, RetryPolicyFromConfig(appConfig), logger)

	// 5. Application services
	configService := services.NewConfigurationService(configRepo, logger)
	contentService := services.NewContentService(gateway, logger)

	c.mu.Lock()
	previousShutdown := c.shutdownTelemetry
	c.options = opts
	c.ConfigRepo = configRepo
	c.Configuration = appConfig
	c.Logger = logger
	c.Transport = transport
	c.APIGateway = gateway
	c.ConfigService = configService
	c.ContentService = contentService
	c.shutdownTelemetry = shutdown

	// 6. CLI container, updated in place so commands see the rebuilt stack
	c.CLIContainer.ConfigService = configService
	c.CLIContainer.ContentService = contentService
	c.CLIContainer.Configuration = appConfig
	c.CLIContainer.Logger = logger
	c.mu.Unlock()

	if previousShutdown != nil {
		_ = previousShutdown(ctx)
	}

	logger.Log(ports.LogLevelDebug, "Dependency injection container initialized", map[string]interface{}{
		"api_base_url": transport.BaseURL(),
		"max_retries":  appConfig.Retries(),
		"config_path":  configRepo.GetConfigPath(),
	})
	return nil
}

// RetryPolicyFromConfig maps configuration onto the read retry policy
func RetryPolicyFromConfig(cfg *ports.Configuration) api.RetryPolicy {
	policy := api.RetryPolicy{
		MaxRetries:    cfg.Retries(),
		TransientOnly: cfg.TransientOnly(),
	}
	if cfg.RetryBackoff == ports.BackoffExponential {
		policy.NewBackOff = api.ExponentialBackOff(cfg.BaseDelay(), cfg.MaxDelay())
	}
	return policy
}

// ApplyOverrides rebuilds the stack when command line flags change the
// config path, base URL or debug mode
func (c *Container) ApplyOverrides(ctx context.Context, overrides cli.Overrides) error {
	current := c.Options()
	next := current
	if overrides.ConfigPath != "" {
		next.ConfigPath = overrides.ConfigPath
	}
	if overrides.APIURL != "" {
		if _, err := api.ParseBaseURL(overrides.APIURL); err != nil {
			return fmt.Errorf("failed to override API URL: %w", err)
		}
		next.APIURL = overrides.APIURL
	}
	if overrides.Debug {
		next.Debug = true
	}

	if next.ConfigPath == current.ConfigPath && next.APIURL == current.APIURL && next.Debug == current.Debug {
		return nil
	}

	return c.initializeComponents(ctx, next)
}

// Options returns the options the current stack was built from
func (c *Container) Options() Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.options
}

// CurrentLogger returns the logger of the current stack. Safe to call while
// ApplyOverrides rebuilds it.
func (c *Container) CurrentLogger() ports.LoggingGateway {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Logger
}

// GetCLIContainer returns the CLI container for command execution
func (c *Container) GetCLIContainer() *cli.CLIContainer {
	return c.CLIContainer
}

// Shutdown flushes pending spans
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.RLock()
	shutdown := c.shutdownTelemetry
	c.mu.RUnlock()
	if shutdown == nil {
		return nil
	}
	if err := shutdown(ctx); err != nil {
		return fmt.Errorf("failed to flush traces: %w", err)
	}
	return nil
}
