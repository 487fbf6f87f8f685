package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// newConfigValidateCmd creates the config validate command. Loading and
// validation happen in the root pre-run hook, so reaching RunE means the
// configuration is valid.
func newConfigValidateCmd(rt *session) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Loads the configuration (./bundlekit.yaml or --config) with environment
overrides applied and checks it for syntax and semantic correctness.

This includes:
- YAML syntax
- Batch size within the accepted range
- Non-empty include patterns and verify extensions
- Positive progress interval and lookback
- A known logging format`,
		Example: `  # Validate current configuration
  bundlekit config validate

  # Validate and show the effective values
  bundlekit config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Println("Configuration is valid")
			if verbose {
				printVerboseDetails(cmd, rt)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the effective configuration values")

	return cmd
}

// printVerboseDetails prints the effective configuration.
func printVerboseDetails(cmd *cobra.Command, rt *session) {
	cfg := rt.cfg
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Organize: %s -> %s (reference %s)\n",
		cfg.Organize.SourceRoot, cfg.Organize.TargetRoot, cfg.Organize.ReferenceRoot)
	cmd.Printf("  Include patterns: %s\n", strings.Join(cfg.Organize.Include, ", "))
	cmd.Printf("  Batch size: %d\n", cfg.Organize.BatchSize)
	cmd.Printf("  Verify: %s -> %s\n", cfg.Verify.SourceRoot, cfg.Verify.TargetDir)
	cmd.Printf("  Extensions: %s\n", strings.Join(cfg.Verify.Extensions, ", "))
	cmd.Printf("  Report: %s\n", cfg.Verify.ReportPath)
	cmd.Printf("  Lookback: %d\n", cfg.Repair.Lookback)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	if cfg.Logging.File != "" {
		cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	}
}
