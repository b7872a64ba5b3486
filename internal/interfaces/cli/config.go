package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"aiinsights.blog/cli/internal/application/ports"
)

// NewConfigCommand creates the config command
func NewConfigCommand(container *CLIContainer) *cobra.Command {
	var configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect the configuration the CLI is running with.

Values come from built-in defaults, the config file and INSIGHTS_*
environment variables, in increasing order of precedence.`,
	}

	configCmd.AddCommand(NewConfigShowCommand(container))
	configCmd.AddCommand(NewConfigPathCommand(container))

	return configCmd
}

// NewConfigShowCommand creates the show subcommand
func NewConfigShowCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := container.Configuration
			if config == nil {
				return fmt.Errorf("no configuration loaded")
			}
			return emit(cmd, config, func() string { return renderConfig(config) })
		},
	}
}

func renderConfig(config *ports.Configuration) string {
	backoff := config.RetryBackoff
	if backoff == ports.BackoffExponential {
		backoff = fmt.Sprintf("%s (%dms..%dms)", backoff, config.RetryBaseDelayMS, config.RetryMaxDelayMS)
	}

	otel := config.OTelEndpoint
	if otel == "" {
		otel = "(disabled)"
	}

	rows := [][2]string{
		{"API base URL", config.APIBaseURL},
		{"Request timeout", config.Timeout().String()},
		{"Max retries", fmt.Sprintf("%d", config.Retries())},
		{"Retry backoff", backoff},
		{"Transient only", fmt.Sprintf("%t", config.TransientOnly())},
		{"Log level", config.LogLevel},
		{"JSON logs", fmt.Sprintf("%t", config.JSONLogs())},
		{"Debug", fmt.Sprintf("%t", config.DebugEnabled())},
		{"OTLP endpoint", otel},
	}

	lines := []string{titleStyle.Render("Current Configuration:")}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s %s", metaStyle.Render(fmt.Sprintf("%-16s", row[0]+":")), row[1]))
	}
	return strings.Join(lines, "\n")
}

// NewConfigPathCommand creates the path subcommand
func NewConfigPathCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := container.ConfigService.GetConfigurationPath(cmd.Context())
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
}
