// Package organizer copies generated sources from a source tree into a
// target tree in fixed-size batches, skipping files that were already
// migrated.
//
// A file counts as already migrated when its relative path exists under both
// the target root and the reference root. Every other matching file is
// copied, preserving permission bits and modification time. A failed copy is
// recorded and the run continues with the next file.
package organizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/rshade/bundlekit/internal/batch"
	"github.com/rshade/bundlekit/internal/migration"
)

// Options configures a Run.
type Options struct {
	SourceRoot    string
	ReferenceRoot string
	TargetRoot    string
	// Include holds doublestar patterns matched against paths relative to
	// SourceRoot.
	Include   []string
	BatchSize int
	// DryRun reports what would be copied without writing anything.
	DryRun bool
	// Progress receives one line per finished batch. Nil discards it.
	Progress io.Writer
}

// Action is what happened to a single source file.
type Action string

// Per-file actions.
const (
	ActionCopied  Action = "copied"
	ActionSkipped Action = "skipped"
	ActionErrored Action = "errored"
)

// FileError records a copy failure for one file.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// BatchSummary counts the outcomes of one batch.
type BatchSummary struct {
	Index   int
	Files   int
	Copied  int
	Skipped int
	Errored int
}

// Result is the outcome of a Run.
type Result struct {
	Batches []BatchSummary
	Errors  []FileError
	Copied  int
	Skipped int
	Errored int
	DryRun  bool
}

// Total returns the number of matching source files seen.
func (r *Result) Total() int {
	return r.Copied + r.Skipped + r.Errored
}

// Organizer performs the batched copy.
type Organizer struct {
	opts   Options
	match  migration.Matcher
	proc   *batch.Processor[string]
	logger zerolog.Logger

	// run is the Result of the Run in progress.
	run *Result
}

// New validates opts and returns an Organizer.
func New(opts Options, logger zerolog.Logger) (*Organizer, error) {
	if opts.SourceRoot == "" || opts.TargetRoot == "" {
		return nil, errors.New("source and target roots are required")
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = batch.DefaultBatchSize
	}

	match, err := migration.GlobMatcher(opts.Include)
	if err != nil {
		return nil, err
	}
	proc, err := batch.NewProcessor[string](opts.BatchSize)
	if err != nil {
		return nil, err
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}

	o := &Organizer{
		opts:   opts,
		match:  match,
		proc:   proc,
		logger: logger,
	}
	proc.WithProgressCallback(o.reportProgress)
	return o, nil
}

// Run walks the source root and copies every matching file that has not
// already been migrated. Per-file failures are reported in Result.Errors;
// the returned error is reserved for failures that stop the whole run, such
// as an unreadable source root or a cancelled context.
func (o *Organizer) Run(ctx context.Context) (*Result, error) {
	files, err := migration.MatchFiles(o.opts.SourceRoot, o.match)
	if err != nil {
		return nil, err
	}

	result := &Result{DryRun: o.opts.DryRun}
	o.run = result
	defer func() { o.run = nil }()

	o.logger.Info().
		Str("source", o.opts.SourceRoot).
		Str("target", o.opts.TargetRoot).
		Int("files", len(files)).
		Int("batch_size", o.proc.GetBatchSize()).
		Bool("dry_run", o.opts.DryRun).
		Msg("organize started")

	err = o.proc.Process(ctx, files, func(_ context.Context, rels []string, batchIndex int) error {
		summary := BatchSummary{Index: batchIndex, Files: len(rels)}

		for _, rel := range rels {
			switch action, fileErr := o.organizeFile(rel); action {
			case ActionCopied:
				summary.Copied++
			case ActionSkipped:
				summary.Skipped++
			case ActionErrored:
				summary.Errored++
				result.Errors = append(result.Errors, FileError{Path: rel, Err: fileErr})
				o.logger.Error().Err(fileErr).Str("path", rel).Msg("copy failed")
			}
		}

		result.Batches = append(result.Batches, summary)
		result.Copied += summary.Copied
		result.Skipped += summary.Skipped
		result.Errored += summary.Errored
		return nil
	})
	if err != nil && !errors.Is(err, batch.ErrEmptyItems) {
		return result, err
	}

	o.logger.Info().
		Int("copied", result.Copied).
		Int("skipped", result.Skipped).
		Int("errored", result.Errored).
		Msg("organize finished")

	return result, nil
}

// reportProgress prints the line for the batch that just finished.
func (o *Organizer) reportProgress(p *batch.Progress) {
	last := o.run.Batches[len(o.run.Batches)-1]
	fmt.Fprintf(o.opts.Progress, "batch %d/%d: copied=%d skipped=%d errored=%d\n",
		p.ProcessedBatches, p.TotalBatches, last.Copied, last.Skipped, last.Errored)

	o.logger.Debug().
		Int("batch", p.ProcessedBatches).
		Int("files_done", p.ProcessedItems).
		Float64("percent", p.PercentComplete()).
		Dur("elapsed", p.ElapsedTime()).
		Msg("batch finished")
	if p.IsComplete() {
		o.logger.Info().Dur("elapsed", p.ElapsedTime()).Int("batches", p.TotalBatches).Msg("all batches processed")
	}
}

// organizeFile applies the skip rule to one relative path and copies the
// file when it is not already migrated.
func (o *Organizer) organizeFile(rel string) (Action, error) {
	native := filepath.FromSlash(rel)
	src := filepath.Join(o.opts.SourceRoot, native)
	dst := filepath.Join(o.opts.TargetRoot, native)

	if o.alreadyMigrated(native, dst) {
		o.logger.Debug().Str("path", rel).Msg("already migrated, skipping")
		return ActionSkipped, nil
	}

	if o.opts.DryRun {
		o.logger.Debug().Str("path", rel).Msg("would copy")
		return ActionCopied, nil
	}

	if err := migration.CopyFile(src, dst); err != nil {
		return ActionErrored, err
	}
	o.logger.Debug().Str("path", rel).Msg("copied")
	return ActionCopied, nil
}

func (o *Organizer) alreadyMigrated(native, dst string) bool {
	if o.opts.ReferenceRoot == "" {
		return false
	}
	return migration.Exists(dst) && migration.Exists(filepath.Join(o.opts.ReferenceRoot, native))
}
