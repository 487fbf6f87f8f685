package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/bundlekit/internal/config"
	"github.com/rshade/bundlekit/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// session carries per-invocation state from the root pre-run hook to the
// subcommands.
type session struct {
	cfg       *config.Config
	logResult *logging.Result
	logger    zerolog.Logger
}

// NewRootCmd creates the root Cobra command for the bundlekit CLI.
// It loads configuration, wires up logging, and registers the subcommands.
func NewRootCmd(ver string) *cobra.Command {
	cmd, _ := newRootCmd(ver)
	return cmd
}

func newRootCmd(ver string) (*cobra.Command, *session) {
	rt := &session{logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "bundlekit",
		Short:         "Maintenance tools for migrating unbundled sources",
		Long:          "bundlekit: organize, verify, and repair generated sources moved between directory trees",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[annotationSkipConfigLoad] != "" {
				rt.cfg = config.Default()
				setupLogging(cmd, rt)
				return nil
			}
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			rt.cfg = cfg
			setupLogging(cmd, rt)
			return nil
		},
	}

	cmd.PersistentFlags().String("config", "", "path to a YAML config file (default: ./"+config.DefaultFileName+" if present)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.AddCommand(newOrganizeCmd(rt), newVerifyCmd(rt), newRepairCmd(rt), newConfigCmd(rt))
	closeLogAfterRun(cmd, rt)

	return cmd, rt
}

// closeLogAfterRun wraps the RunE of every command in the tree so the log
// file is closed when the command returns, including on error, where cobra
// skips post-run hooks.
func closeLogAfterRun(c *cobra.Command, rt *session) {
	if run := c.RunE; run != nil {
		c.RunE = func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				if closeErr := rt.logResult.Close(); err == nil {
					err = closeErr
				}
			}()
			return run(cmd, args)
		}
	}
	for _, sub := range c.Commands() {
		closeLogAfterRun(sub, rt)
	}
}

const rootCmdExample = `  # Copy new sources into the target tree in batches of 50
  bundlekit organize --source src --reference sources --target src2/js

  # Preview what would be copied
  bundlekit organize --dry-run

  # Compare sources with the flat target directory and append a report
  bundlekit verify --report verification_report.txt

  # Write a configuration file with the defaults
  bundlekit config init

  # Repair malformed comment closers in one file
  bundlekit repair-comments src/core-hs.fe5726b7.bundle_dewebpack/module_1071.d.ts`
