// Package commentfix repairs documentation comments whose closing marker was
// reduced to a bare "*" line by the unbundling step.
//
// The repair is a line-oriented heuristic, not a parser. A line holding only
// a "*" (plus whitespace) is rewritten to "*/" when a comment opener appears
// within the preceding Lookback lines before any closer, and the following
// line does not continue the comment. Comment-like sequences inside strings
// or nested comments can fool it, and an opener further back than the window
// is never seen.
package commentfix

import (
	"cmp"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
)

// DefaultLookback is how many preceding lines are searched for an opener.
const DefaultLookback = 10

const (
	openMarker  = "/*"
	closeMarker = "*/"
)

// isolatedCloser matches a line holding a single "*" and optional whitespace.
var isolatedCloser = regexp.MustCompile(`^([ \t]*)\*[ \t]*$`)

// Repairer rewrites malformed comment closers.
type Repairer struct {
	// Lookback bounds the backward search for an opening marker.
	Lookback int
}

// New returns a Repairer using lookback, or DefaultLookback when lookback < 1.
func New(lookback int) *Repairer {
	if lookback < 1 {
		lookback = DefaultLookback
	}
	return &Repairer{Lookback: lookback}
}

// Change describes one rewritten line.
type Change struct {
	// Line is 1-based.
	Line   int
	Before string
	After  string
}

// Result is the outcome of repairing one file.
type Result struct {
	Path     string
	Modified bool
	Changes  []Change
}

// RepairLines returns a repaired copy of lines and the changes made. Lines
// must not contain their terminators; a trailing "\r" is tolerated and kept.
//
// Lines are visited in order and the backward search sees rewrites already
// made. When a line is rewritten, the candidate directly above it is checked
// again because its following line has changed; this keeps a second pass
// over the output a no-op.
func (r *Repairer) RepairLines(lines []string) ([]string, []Change) {
	out := make([]string, len(lines))
	copy(out, lines)

	var changes []Change
	for i := range out {
		if !r.rewrite(out, i, &changes) {
			continue
		}
		for k := i - 1; k >= 0; k-- {
			if !r.rewrite(out, k, &changes) {
				break
			}
		}
	}

	// Cascaded rewrites are recorded after the line that triggered them.
	slices.SortFunc(changes, func(a, b Change) int { return cmp.Compare(a.Line, b.Line) })
	return out, changes
}

// rewrite closes line i in place when it qualifies and records the change.
func (r *Repairer) rewrite(lines []string, i int, changes *[]Change) bool {
	body, eol := splitEOL(lines[i])
	m := isolatedCloser.FindStringSubmatch(body)
	if m == nil {
		return false
	}
	if !r.insideComment(lines, i) || continuesComment(lines, i) {
		return false
	}

	after := m[1] + closeMarker + eol
	*changes = append(*changes, Change{Line: i + 1, Before: lines[i], After: after})
	lines[i] = after
	return true
}

// insideComment scans upward from line i, at most Lookback lines, and reports
// whether an opener is found before a closer. A line holding both is judged
// by its closer, the later of the two markers.
func (r *Repairer) insideComment(lines []string, i int) bool {
	stop := max(i-r.Lookback, 0)
	for j := i - 1; j >= stop; j-- {
		if strings.Contains(lines[j], closeMarker) {
			return false
		}
		if strings.Contains(lines[j], openMarker) {
			return true
		}
	}
	return false
}

// continuesComment reports whether the line after i is a comment
// continuation ("* text") rather than a closer, code, or end of file.
func continuesComment(lines []string, i int) bool {
	if i+1 >= len(lines) {
		return false
	}
	next := strings.TrimSpace(lines[i+1])
	return strings.HasPrefix(next, "*") && !strings.HasPrefix(next, closeMarker)
}

func splitEOL(line string) (string, string) {
	if strings.HasSuffix(line, "\r") {
		return line[:len(line)-1], "\r"
	}
	return line, ""
}

// Repair applies RepairLines to content split on "\n". Content without
// changes is returned as is.
func (r *Repairer) Repair(content []byte) ([]byte, []Change) {
	lines := strings.Split(string(content), "\n")
	repaired, changes := r.RepairLines(lines)
	if len(changes) == 0 {
		return content, nil
	}
	return []byte(strings.Join(repaired, "\n")), changes
}

// RepairFile repairs the file at path in place. The file is written only
// when at least one line changed, keeping its permission bits; otherwise it
// is left untouched. With dryRun the changes are computed but not written.
func (r *Repairer) RepairFile(path string, dryRun bool) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	repaired, changes := r.Repair(content)
	result := &Result{Path: path, Changes: changes}
	if len(changes) == 0 {
		return result, nil
	}
	result.Modified = true

	if dryRun {
		return result, nil
	}
	if writeErr := os.WriteFile(path, repaired, info.Mode().Perm()); writeErr != nil {
		return nil, fmt.Errorf("writing %s: %w", path, writeErr)
	}
	return result, nil
}
