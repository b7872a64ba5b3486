package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"aiinsights.blog/cli/internal/application/ports"
	"aiinsights.blog/cli/internal/application/services"
)

// InitFlags holds the command-line flags for the init command
type InitFlags struct {
	APIURL         string
	MaxRetries     int
	Backoff        string
	Force          bool
	NonInteractive bool
}

// NewInitCommand creates the init command
func NewInitCommand(container *CLIContainer) *cobra.Command {
	flags := &InitFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an initial configuration file",
		Long: `Write an initial configuration file for the insights CLI.

Without flags the command asks for each value and accepts the default
shown in brackets when you press Enter.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := services.InitOptions{
				APIBaseURL: flags.APIURL,
				Backoff:    flags.Backoff,
				Force:      flags.Force,
			}
			if cmd.Flags().Changed("max-retries") {
				retries := flags.MaxRetries
				opts.MaxRetries = &retries
			}

			interactive := !flags.NonInteractive &&
				!cmd.Flags().Changed("api-url") &&
				!cmd.Flags().Changed("max-retries") &&
				!cmd.Flags().Changed("backoff")
			if interactive {
				defaults := container.ConfigService.GetDefaultConfiguration(cmd.Context())
				if err := promptInitOptions(cmd.InOrStdin(), cmd.OutOrStdout(), defaults, &opts); err != nil {
					return err
				}
			}

			config, err := container.ConfigService.InitializeConfiguration(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, successStyle.Render("✓ Configuration saved to "+container.ConfigService.GetConfigurationPath(cmd.Context())))
			fmt.Fprintln(out, metaStyle.Render(fmt.Sprintf("  API base URL: %s, max retries: %d, backoff: %s",
				config.APIBaseURL, config.Retries(), config.RetryBackoff)))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.APIURL, "api-url", "", "Content API base URL")
	cmd.Flags().IntVar(&flags.MaxRetries, "max-retries", 0, "Retries after a failed read request")
	cmd.Flags().StringVar(&flags.Backoff, "backoff", "", "Retry backoff (none, exponential)")
	cmd.Flags().BoolVar(&flags.Force, "force", false, "Overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.NonInteractive, "non-interactive", false, "Use defaults without prompting")

	return cmd
}

// promptInitOptions reads answers line by line; blank answers keep the default
func promptInitOptions(in io.Reader, out io.Writer, defaults *ports.Configuration, opts *services.InitOptions) error {
	scanner := bufio.NewScanner(in)
	ask := func(label, current string) string {
		fmt.Fprintf(out, "%s [%s]: ", label, current)
		if !scanner.Scan() {
			return ""
		}
		return strings.TrimSpace(scanner.Text())
	}

	if answer := ask("API base URL", defaults.APIBaseURL); answer != "" {
		opts.APIBaseURL = answer
	}

	if answer := ask("Max retries", strconv.Itoa(defaults.Retries())); answer != "" {
		retries, err := strconv.Atoi(answer)
		if err != nil || retries < 0 {
			return fmt.Errorf("max retries must be a non-negative number, got %q", answer)
		}
		opts.MaxRetries = &retries
	}

	if answer := ask("Retry backoff (none, exponential)", defaults.RetryBackoff); answer != "" {
		opts.Backoff = strings.ToLower(answer)
	}

	fmt.Fprintln(out)
	return scanner.Err()
}
