package verifier_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/bundlekit/internal/verifier"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func setup(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	source := filepath.Join(root, "src")
	target := filepath.Join(root, "flat")
	require.NoError(t, os.MkdirAll(source, 0o755))
	require.NoError(t, os.MkdirAll(target, 0o755))
	return source, target
}

func runVerify(t *testing.T, opts verifier.Options) *verifier.Result {
	t.Helper()
	result, err := verifier.Run(context.Background(), opts, zerolog.Nop())
	require.NoError(t, err)
	return result
}

func TestRun_ClassifiesFiles(t *testing.T) {
	source, target := setup(t)

	writeFile(t, filepath.Join(source, "a", "same.ts"), "same")
	writeFile(t, filepath.Join(target, "same.ts"), "same")

	writeFile(t, filepath.Join(source, "b", "changed.js"), "v1")
	writeFile(t, filepath.Join(target, "changed.js"), "v2")

	writeFile(t, filepath.Join(source, "c", "gone.ts"), "x")

	// Present only in a target subdirectory: still missing, lookup is flat.
	writeFile(t, filepath.Join(source, "d", "deep.ts"), "deep")
	writeFile(t, filepath.Join(target, "d", "deep.ts"), "deep")

	writeFile(t, filepath.Join(source, "e", "skip.md"), "not scanned")

	result := runVerify(t, verifier.Options{
		SourceRoot: source,
		TargetDir:  target,
		Extensions: []string{".ts", ".js"},
	})

	assert.Equal(t, 4, result.Total())
	assert.Equal(t, 1, result.Count(verifier.StatusSuccess))
	assert.Equal(t, []string{"changed.js"}, result.Names(verifier.StatusFailed))
	assert.Equal(t, []string{"gone.ts", "deep.ts"}, result.Names(verifier.StatusMissing))
	assert.InDelta(t, 25.0, result.PassRate(), 0.001)
}

func TestRun_CountsAlwaysAddUp(t *testing.T) {
	source, target := setup(t)
	for i := range 30 {
		name := fmt.Sprintf("m%02d.ts", i)
		writeFile(t, filepath.Join(source, name), "content")
		switch i % 3 {
		case 0:
			writeFile(t, filepath.Join(target, name), "content")
		case 1:
			writeFile(t, filepath.Join(target, name), "other")
		}
	}

	result := runVerify(t, verifier.Options{SourceRoot: source, TargetDir: target, Extensions: []string{".ts"}})

	total := result.Count(verifier.StatusSuccess) + result.Count(verifier.StatusFailed) +
		result.Count(verifier.StatusMissing)
	assert.Equal(t, result.Total(), total)
	assert.Equal(t, 30, total)

	failed := map[string]bool{}
	for _, n := range result.Names(verifier.StatusFailed) {
		failed[n] = true
	}
	for _, n := range result.Names(verifier.StatusMissing) {
		assert.False(t, failed[n], "%s reported as both failed and missing", n)
	}
}

func TestRun_Progress(t *testing.T) {
	source, target := setup(t)
	for i := range 250 {
		writeFile(t, filepath.Join(source, fmt.Sprintf("f%03d.ts", i)), "")
	}

	var progress bytes.Buffer
	runVerify(t, verifier.Options{
		SourceRoot: source,
		TargetDir:  target,
		Extensions: []string{".ts"},
		Progress:   &progress,
	})

	assert.Equal(t, "processed 100/250 files\nprocessed 200/250 files\n", progress.String())
}

func TestRun_Errors(t *testing.T) {
	source, target := setup(t)

	_, err := verifier.Run(context.Background(), verifier.Options{TargetDir: target, Extensions: []string{".ts"}}, zerolog.Nop())
	require.Error(t, err)

	_, err = verifier.Run(context.Background(), verifier.Options{SourceRoot: source, TargetDir: target}, zerolog.Nop())
	require.Error(t, err)

	_, err = verifier.Run(context.Background(), verifier.Options{
		SourceRoot: filepath.Join(source, "missing"), TargetDir: target, Extensions: []string{".ts"},
	}, zerolog.Nop())
	require.Error(t, err)
}

func TestWriteReport(t *testing.T) {
	result := &verifier.Result{SourceRoot: "src", TargetDir: "src2/js"}
	for i := range 53 {
		result.Outcomes = append(result.Outcomes, verifier.Outcome{
			Name: fmt.Sprintf("miss%02d.ts", i), Status: verifier.StatusMissing,
		})
	}
	result.Outcomes = append(result.Outcomes,
		verifier.Outcome{Name: "ok.ts", Status: verifier.StatusSuccess},
		verifier.Outcome{Name: "bad.ts", Status: verifier.StatusFailed},
	)

	var buf bytes.Buffer
	meta := verifier.ReportMeta{
		Time:  time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
		RunID: "01ARZ3NDEKTSV4RRFFQ69G5FAV",
	}
	require.NoError(t, verifier.WriteReport(&buf, result, meta))
	out := buf.String()

	assert.Contains(t, out, "Verification report 2026-10-19T12:00:00Z (run 01ARZ3NDEKTSV4RRFFQ69G5FAV)")
	assert.Contains(t, out, "Total:   55\n")
	assert.Contains(t, out, "Success: 1\n")
	assert.Contains(t, out, "Failed:  1\n")
	assert.Contains(t, out, "Missing: 53\n")
	assert.Contains(t, out, "Failed files (1):\n  - bad.ts\n")
	assert.Contains(t, out, "Missing files (53):\n")
	assert.Contains(t, out, "  - miss49.ts\n")
	assert.NotContains(t, out, "miss50.ts")
	assert.Contains(t, out, "  ... and 3 more\n")
	assert.Contains(t, out, "Pass rate: 1.82%")
}

func TestWriteReport_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, verifier.WriteReport(&buf, &verifier.Result{}, verifier.ReportMeta{Time: time.Now()}))

	out := buf.String()
	assert.Contains(t, out, "Total:   0\n")
	assert.Contains(t, out, "Pass rate: 0.00%")
	assert.NotContains(t, out, "Failed files")
	assert.NotContains(t, out, "(run ")
}

func TestAppendReport_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verification_report.txt")
	result := &verifier.Result{
		SourceRoot: "src",
		TargetDir:  "flat",
		Outcomes:   []verifier.Outcome{{Name: "a.ts", Status: verifier.StatusSuccess}},
	}
	meta := verifier.ReportMeta{Time: time.Now()}

	require.NoError(t, verifier.AppendReport(path, result, meta))
	require.NoError(t, verifier.AppendReport(path, result, meta))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "Verification report "))
	assert.Equal(t, 2, strings.Count(string(data), "Pass rate: 100.00%"))
}

func TestAppendReport_BadPath(t *testing.T) {
	err := verifier.AppendReport(filepath.Join(t.TempDir(), "no", "such", "dir", "r.txt"),
		&verifier.Result{}, verifier.ReportMeta{Time: time.Now()})
	require.Error(t, err)
}
