package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/bundlekit/internal/logging"
	"github.com/rshade/bundlekit/internal/verifier"
)

// newVerifyCmd creates the verify command, which compares source files with
// a flat target directory and appends a report.
func newVerifyCmd(rt *session) *cobra.Command {
	var (
		source     string
		target     string
		report     string
		extensions []string
		listLimit  int
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare migrated files byte for byte and append a report",
		Long: `Recursively enumerates source files with the configured extensions and looks
up each one by base name directly inside the target directory. Every file is
classified as success (identical bytes), failed (different bytes), or missing.

A report with counts, the first entries of the failed and missing lists, and
the pass rate is appended to the report file on every run.`,
		Example: `  # Use the configured layout
  bundlekit verify

  # Verify .ts files only and write the report elsewhere
  bundlekit verify --ext .ts --report /tmp/verify.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := rt.cfg.Verify
			flags := cmd.Flags()
			if flags.Changed("source") {
				opts.SourceRoot = source
			}
			if flags.Changed("target") {
				opts.TargetDir = target
			}
			if flags.Changed("report") {
				opts.ReportPath = report
			}
			if flags.Changed("ext") {
				opts.Extensions = extensions
			}
			if flags.Changed("list-limit") {
				opts.ListLimit = listLimit
			}

			ctx := cmd.Context()
			logger := logging.ComponentLogger(*logging.FromContext(cmd.Context()), "verifier")
			result, err := verifier.Run(ctx, verifier.Options{
				SourceRoot:       opts.SourceRoot,
				TargetDir:        opts.TargetDir,
				Extensions:       opts.Extensions,
				ProgressInterval: opts.ProgressInterval,
				Progress:         cmd.OutOrStdout(),
			}, logger)
			if err != nil {
				return err
			}

			meta := verifier.ReportMeta{
				Time:      time.Now(),
				RunID:     logging.RunIDFromContext(ctx),
				ListLimit: opts.ListLimit,
			}
			if appendErr := verifier.AppendReport(opts.ReportPath, result, meta); appendErr != nil {
				return appendErr
			}
			logger.Info().Str("report", opts.ReportPath).Msg("report appended")

			renderVerifySummary(cmd.OutOrStdout(), result, opts.ReportPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "source root to scan recursively")
	cmd.Flags().StringVar(&target, "target", "", "flat target directory to compare against")
	cmd.Flags().StringVar(&report, "report", "", "report file to append to")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "file name suffixes to verify (default .ts,.js)")
	cmd.Flags().IntVar(&listLimit, "list-limit", 0, "entries shown per failed/missing list (default 50)")

	return cmd
}
