package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/bundlekit/internal/logging"
	"github.com/rshade/bundlekit/internal/organizer"
)

// newOrganizeCmd creates the organize command, which copies matching source
// files into the target tree in fixed-size batches.
func newOrganizeCmd(rt *session) *cobra.Command {
	var (
		source    string
		reference string
		target    string
		include   []string
		batchSize int
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Copy new source files into the target tree in batches",
		Long: `Walks the source root and copies every file matching the include patterns
into the same relative path under the target root, preserving permissions and
modification times.

A file is skipped when its relative path already exists under both the target
root and the reference root. Copy failures are reported per file and do not
stop the run.`,
		Example: `  # Use the configured layout
  bundlekit organize

  # Override the roots and preview the result
  bundlekit organize --source src --reference sources --target src2/js --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := rt.cfg.Organize
			flags := cmd.Flags()
			if flags.Changed("source") {
				opts.SourceRoot = source
			}
			if flags.Changed("reference") {
				opts.ReferenceRoot = reference
			}
			if flags.Changed("target") {
				opts.TargetRoot = target
			}
			if flags.Changed("include") {
				opts.Include = include
			}
			if flags.Changed("batch-size") {
				opts.BatchSize = batchSize
			}

			logger := logging.ComponentLogger(*logging.FromContext(cmd.Context()), "organizer")
			org, err := organizer.New(organizer.Options{
				SourceRoot:    opts.SourceRoot,
				ReferenceRoot: opts.ReferenceRoot,
				TargetRoot:    opts.TargetRoot,
				Include:       opts.Include,
				BatchSize:     opts.BatchSize,
				DryRun:        dryRun,
				Progress:      cmd.OutOrStdout(),
			}, logger)
			if err != nil {
				return err
			}

			result, err := org.Run(cmd.Context())
			if err != nil {
				return err
			}

			renderOrganizeSummary(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "source root to copy from")
	cmd.Flags().StringVar(&reference, "reference", "", "reference root used to detect already migrated files")
	cmd.Flags().StringVar(&target, "target", "", "target root to copy into")
	cmd.Flags().StringSliceVar(&include, "include", nil, "doublestar include patterns (default **/*.ts)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "files per batch (default 50)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be copied without writing")

	return cmd
}
