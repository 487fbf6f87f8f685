package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/bundlekit/internal/organizer"
	"github.com/rshade/bundlekit/internal/verifier"
)

// errorListLimit caps the per-file errors echoed after the organize table.
const errorListLimit = 20

//nolint:gochecknoglobals // Style palette shared by the summary renderers.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// writerIsTerminal reports whether w is a terminal-backed *os.File.
func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// renderOrganizeSummary prints a per-batch table followed by any copy errors.
func renderOrganizeSummary(w io.Writer, result *organizer.Result) {
	p := message.NewPrinter(language.English)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	if writerIsTerminal(w) {
		t.SetStyle(table.StyleLight)
	}

	title := "Organize summary"
	if result.DryRun {
		title += " (dry run)"
	}
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Batch", "Files", "Copied", "Skipped", "Errored"})
	for _, b := range result.Batches {
		t.AppendRow(table.Row{b.Index + 1, b.Files, b.Copied, b.Skipped, b.Errored})
	}
	t.AppendFooter(table.Row{
		"Total",
		p.Sprintf("%d", result.Total()),
		p.Sprintf("%d", result.Copied),
		p.Sprintf("%d", result.Skipped),
		p.Sprintf("%d", result.Errored),
	})
	t.Render()

	if len(result.Errors) == 0 {
		return
	}
	fmt.Fprintln(w, failedStyle.Render(p.Sprintf("%d file(s) failed to copy:", len(result.Errors))))
	for i, fe := range result.Errors {
		if i == errorListLimit {
			fmt.Fprintf(w, "  ... and %d more (see log)\n", len(result.Errors)-errorListLimit)
			break
		}
		fmt.Fprintf(w, "  - %s\n", fe.Error())
	}
}

// renderVerifySummary prints the verification counts and pass rate.
func renderVerifySummary(w io.Writer, result *verifier.Result, reportPath string) {
	p := message.NewPrinter(language.English)

	fmt.Fprintln(w, titleStyle.Render("Verification summary"))
	fmt.Fprintln(w, p.Sprintf("  Total:   %d", result.Total()))
	fmt.Fprintln(w, successStyle.Render(p.Sprintf("  Success: %d", result.Count(verifier.StatusSuccess))))
	fmt.Fprintln(w, failedStyle.Render(p.Sprintf("  Failed:  %d", result.Count(verifier.StatusFailed))))
	fmt.Fprintln(w, missingStyle.Render(p.Sprintf("  Missing: %d", result.Count(verifier.StatusMissing))))
	fmt.Fprintln(w, p.Sprintf("  Pass rate: %.2f%%", result.PassRate()))
	fmt.Fprintf(w, "Report appended to %s\n", reportPath)
}
