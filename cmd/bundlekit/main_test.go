package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("version", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{"--version"}, &stdout, &stderr)
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout.String(), version)
	})

	t.Run("unknown command", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{"bogus"}, &stdout, &stderr)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "Error:")
	})

	t.Run("repair exit codes", func(t *testing.T) {
		dir := t.TempDir()
		broken := filepath.Join(dir, "broken.ts")
		require.NoError(t, os.WriteFile(broken, []byte("/**\n *\nx();\n"), 0o644))

		var stdout, stderr bytes.Buffer
		assert.Equal(t, 0, run([]string{"repair-comments", broken}, &stdout, &stderr))

		stdout.Reset()
		stderr.Reset()
		assert.Equal(t, 1, run([]string{"repair-comments", broken}, &stdout, &stderr))
		assert.NotContains(t, stderr.String(), "Error:", "not modified exits quietly")

		stderr.Reset()
		assert.Equal(t, 1, run([]string{"repair-comments", filepath.Join(dir, "missing.ts")}, &stdout, &stderr))
		assert.Contains(t, stderr.String(), "missing.ts")
	})
}
