package verifier

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// DefaultListLimit caps the failed and missing lists in a report.
const DefaultListLimit = 50

const (
	reportRule = "=================================================="
	reportSep  = "--------------------------------------------------"
)

// ReportMeta identifies a report section.
type ReportMeta struct {
	Time  time.Time
	RunID string
	// ListLimit caps each name list; zero means DefaultListLimit.
	ListLimit int
}

// WriteReport renders r as a report section to w.
func WriteReport(w io.Writer, r *Result, meta ReportMeta) error {
	var b strings.Builder

	header := "Verification report " + meta.Time.UTC().Format(time.RFC3339)
	if meta.RunID != "" {
		header += " (run " + meta.RunID + ")"
	}

	fmt.Fprintln(&b, reportRule)
	fmt.Fprintln(&b, header)
	fmt.Fprintf(&b, "Source: %s\n", r.SourceRoot)
	fmt.Fprintf(&b, "Target: %s\n", r.TargetDir)
	fmt.Fprintln(&b, reportSep)
	fmt.Fprintf(&b, "Total:   %d\n", r.Total())
	fmt.Fprintf(&b, "Success: %d\n", r.Count(StatusSuccess))
	fmt.Fprintf(&b, "Failed:  %d\n", r.Count(StatusFailed))
	fmt.Fprintf(&b, "Missing: %d\n", r.Count(StatusMissing))

	limit := meta.ListLimit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	writeList(&b, "Failed files", r.Names(StatusFailed), limit)
	writeList(&b, "Missing files", r.Names(StatusMissing), limit)

	fmt.Fprintf(&b, "\nPass rate: %.2f%%\n\n", r.PassRate())

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, title string, names []string, limit int) {
	if len(names) == 0 {
		return
	}

	fmt.Fprintf(b, "\n%s (%d):\n", title, len(names))
	shown := names
	if len(shown) > limit {
		shown = shown[:limit]
	}
	for _, name := range shown {
		fmt.Fprintf(b, "  - %s\n", name)
	}
	if omitted := len(names) - len(shown); omitted > 0 {
		fmt.Fprintf(b, "  ... and %d more\n", omitted)
	}
}

// AppendReport appends a report section to the file at path, creating it if
// needed. Previous runs are never overwritten.
func AppendReport(path string, r *Result, meta ReportMeta) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening report %s: %w", path, err)
	}

	if writeErr := WriteReport(f, r, meta); writeErr != nil {
		_ = f.Close()
		return fmt.Errorf("writing report %s: %w", path, writeErr)
	}
	if closeErr := f.Close(); closeErr != nil {
		return fmt.Errorf("closing report %s: %w", path, closeErr)
	}
	return nil
}
