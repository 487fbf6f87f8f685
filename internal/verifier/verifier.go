// Package verifier checks that migrated files in a flat target directory are
// byte-identical to their counterparts in a source tree.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/rshade/bundlekit/internal/migration"
)

// Status is the verification outcome for one source file.
type Status string

// Outcome statuses.
const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusMissing Status = "missing"
)

// DefaultProgressInterval is how many files are processed between progress lines.
const DefaultProgressInterval = 100

// Options configures a Run.
type Options struct {
	SourceRoot string
	// TargetDir is checked by base name only; it is not searched recursively.
	TargetDir  string
	Extensions []string
	// ProgressInterval controls how often a progress line is written.
	ProgressInterval int
	Progress         io.Writer
}

// Outcome is the verification result for one source file.
type Outcome struct {
	// Name is the base name looked up in the target directory.
	Name string
	// SourcePath is the slash-separated path relative to the source root.
	SourcePath string
	Status     Status
	Err        error
}

// Result holds every outcome of a Run, in walk order.
type Result struct {
	SourceRoot string
	TargetDir  string
	Outcomes   []Outcome
}

// Total returns the number of source files scanned.
func (r *Result) Total() int {
	return len(r.Outcomes)
}

// Count returns how many outcomes have status s.
func (r *Result) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Names returns the names of outcomes with status s, in walk order.
func (r *Result) Names(s Status) []string {
	var names []string
	for _, o := range r.Outcomes {
		if o.Status == s {
			names = append(names, o.Name)
		}
	}
	return names
}

// PassRate returns the percentage of scanned files that matched, or 0 when
// nothing was scanned.
func (r *Result) PassRate() float64 {
	if r.Total() == 0 {
		return 0
	}
	return float64(r.Count(StatusSuccess)) / float64(r.Total()) * 100
}

// Run enumerates source files ending in one of opts.Extensions and compares
// each against opts.TargetDir/<base name>.
func Run(ctx context.Context, opts Options, logger zerolog.Logger) (*Result, error) {
	if opts.SourceRoot == "" || opts.TargetDir == "" {
		return nil, errors.New("source root and target directory are required")
	}
	if len(opts.Extensions) == 0 {
		return nil, errors.New("at least one extension is required")
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}

	files, err := migration.MatchFiles(opts.SourceRoot, migration.SuffixMatcher(opts.Extensions))
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("source", opts.SourceRoot).
		Str("target", opts.TargetDir).
		Int("files", len(files)).
		Msg("verify started")

	result := &Result{
		SourceRoot: opts.SourceRoot,
		TargetDir:  opts.TargetDir,
		Outcomes:   make([]Outcome, 0, len(files)),
	}

	for i, rel := range files {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}

		outcome := verifyFile(opts, rel)
		if outcome.Err != nil {
			logger.Warn().Err(outcome.Err).Str("path", rel).Msg("comparison failed")
		}
		result.Outcomes = append(result.Outcomes, outcome)

		if processed := i + 1; processed%opts.ProgressInterval == 0 {
			fmt.Fprintf(opts.Progress, "processed %d/%d files\n", processed, len(files))
		}
	}

	logger.Info().
		Int("success", result.Count(StatusSuccess)).
		Int("failed", result.Count(StatusFailed)).
		Int("missing", result.Count(StatusMissing)).
		Msg("verify finished")

	return result, nil
}

func verifyFile(opts Options, rel string) Outcome {
	name := path.Base(rel)
	outcome := Outcome{Name: name, SourcePath: rel}

	target := filepath.Join(opts.TargetDir, name)
	if !migration.Exists(target) {
		outcome.Status = StatusMissing
		return outcome
	}

	same, err := migration.SameContent(filepath.Join(opts.SourceRoot, filepath.FromSlash(rel)), target)
	switch {
	case err != nil:
		outcome.Status = StatusFailed
		outcome.Err = err
	case same:
		outcome.Status = StatusSuccess
	default:
		outcome.Status = StatusFailed
	}
	return outcome
}
