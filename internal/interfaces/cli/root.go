package cli

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"aiinsights.blog/cli/internal/application/ports"
	"aiinsights.blog/cli/internal/application/services"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// CLIContainer holds all the dependencies for CLI commands
type CLIContainer struct {
	ContentService *services.ContentService
	ConfigService  *services.ConfigurationService
	Configuration  *ports.Configuration
	Logger         ports.LoggingGateway
	MainContainer  interface{} // Will be set to *di.Container, avoiding circular import
}

// Overrides are the persistent flags that change how the stack is built
type Overrides struct {
	ConfigPath string
	APIURL     string
	Debug      bool
}

// NewRootCommand RootCommand represents the base command when called without any subcommands
func NewRootCommand(container *CLIContainer) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "insights",
		Short: "AI Insights blog from the terminal",
		Long: `insights reads the AI Insights blog content API: list and read articles,
browse categories and authors, search, and subscribe to the newsletter.

Read requests are retried on failure; writes are sent exactly once.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutputFormat(cmd); err != nil {
				return err
			}

			if err := applyConfigurationOverrides(cmd, container); err != nil {
				return fmt.Errorf("failed to apply configuration overrides: %w", err)
			}

			return nil
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default is $HOME/.config/insights/config.yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "Content API base URL")
	rootCmd.PersistentFlags().StringP("output", "o", outputText, "Output format (text, json)")

	rootCmd.AddCommand(NewArticlesCommand(container))
	rootCmd.AddCommand(NewCategoriesCommand(container))
	rootCmd.AddCommand(NewAuthorsCommand(container))
	rootCmd.AddCommand(NewNewsletterCommand(container))
	rootCmd.AddCommand(NewBrowseCommand(container))
	rootCmd.AddCommand(NewConfigCommand(container))
	rootCmd.AddCommand(NewInitCommand(container))

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// applyConfigurationOverrides rebuilds the container from explicitly set flags
func applyConfigurationOverrides(cmd *cobra.Command, container *CLIContainer) error {
	mainContainer, ok := container.MainContainer.(interface {
		ApplyOverrides(context.Context, Overrides) error
	})
	if !ok {
		return nil
	}

	var overrides Overrides
	flags := cmd.Flags()
	if flags.Changed("config") {
		overrides.ConfigPath, _ = flags.GetString("config")
	}
	if flags.Changed("api-url") {
		overrides.APIURL, _ = flags.GetString("api-url")
		if overrides.APIURL == "" {
			return fmt.Errorf("API URL cannot be empty")
		}
	}
	if flags.Changed("debug") {
		overrides.Debug, _ = flags.GetBool("debug")
	}

	if overrides == (Overrides{}) {
		return nil
	}
	return mainContainer.ApplyOverrides(cmd.Context(), overrides)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context, container *CLIContainer) error {
	rootCmd := NewRootCommand(container)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
