package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/rshade/bundlekit/internal/commentfix"
	"github.com/rshade/bundlekit/internal/logging"
)

// newRepairCmd creates the repair-comments command. It exits 0 when the file
// was modified and 1 otherwise, including on errors.
func newRepairCmd(rt *session) *cobra.Command {
	var (
		dryRun   bool
		lookback int
	)

	cmd := &cobra.Command{
		Use:   "repair-comments <file>",
		Short: "Rewrite bare '*' comment closers to '*/' in one file",
		Long: `Scans one text file for lines holding only a '*' that end a documentation
comment, and rewrites them to '*/' at the same indentation. The file is only
written when something changed.

Exit status is 0 when the file was modified and 1 when nothing changed or the
file could not be processed.`,
		Example: `  bundlekit repair-comments src/hs.fe5726b7.bundle_dewebpack/module_962391.d.ts
  bundlekit repair-comments --dry-run module.ts`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				if r := recover(); r != nil {
					rt.logger.Error().Bytes("stack", debug.Stack()).Msg("repair panicked")
					err = &ExitError{Code: 1, Err: fmt.Errorf("internal panic: %v", r)}
				}
			}()

			if !cmd.Flags().Changed("lookback") {
				lookback = rt.cfg.Repair.Lookback
			}

			path := args[0]
			logger := logging.ComponentLogger(*logging.FromContext(cmd.Context()), "commentfix").
				With().Str("path", path).Logger()

			result, repairErr := commentfix.New(lookback).RepairFile(path, dryRun)
			if repairErr != nil {
				return &ExitError{Code: 1, Err: repairErr}
			}

			out := cmd.OutOrStdout()
			for _, c := range result.Changes {
				fmt.Fprintf(out, "%s:%d: %q -> %q\n", path, c.Line, c.Before, c.After)
			}

			if !result.Modified {
				logger.Info().Msg("no malformed closers found")
				return &ExitError{Code: 1}
			}

			logger.Info().Int("lines", len(result.Changes)).Bool("dry_run", dryRun).Msg("comment closers repaired")
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the lines that would change without writing")
	cmd.Flags().IntVar(&lookback, "lookback", commentfix.DefaultLookback, "lines searched upward for a comment opener")

	return cmd
}
