package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bpmops/flowadmin/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the configuration file and environment overrides.

This includes:
- Server URL syntax and application path
- Page size and load-more size alignment
- Default sort expression
- Log level, log format and output format values`,
		Example: `  # Validate current configuration
  flowadmin config validate

  # Validate and show detailed information
  flowadmin config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}
	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	sortOpt, _ := cfg.SortOption()

	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.Path())
	cmd.Printf("  Server: %s\n", cfg.Server.URL)
	cmd.Printf("  Application path: %s\n", cfg.Server.AppPath)
	if cfg.Server.Username != "" {
		cmd.Printf("  Username: %s\n", cfg.Server.Username)
	} else {
		cmd.Println("  No login configured")
	}
	cmd.Printf("  Page size: %d, load more size: %d\n", cfg.List.PageSize, cfg.List.LoadMoreSize)
	cmd.Printf("  Stop on short page: %t\n", cfg.List.StopOnShortPage)
	cmd.Printf("  Default sort: %s\n", sortOpt)
	if cfg.Cache.Enabled {
		cmd.Printf("  Process cache: %s (ttl %s)\n", cfg.CacheDir(), cfg.CacheTTL())
	} else {
		cmd.Println("  Process cache disabled")
	}
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
}
