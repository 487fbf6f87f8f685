package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/bundlekit/internal/logging"
)

func TestNewLogger_JSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	result, err := logging.NewLogger(logging.Config{Level: "debug", Format: logging.FormatJSON}, &buf)
	require.NoError(t, err)
	defer result.Close()

	logger := logging.ComponentLogger(result.Logger, "organizer")
	logger.Debug().Str("path", "a.ts").Msg("copied")

	out := buf.String()
	assert.Contains(t, out, `"component":"organizer"`)
	assert.Contains(t, out, `"path":"a.ts"`)
	assert.Contains(t, out, `"message":"copied"`)
	assert.False(t, result.UsingFile())
}

func TestNewLogger_LevelFallback(t *testing.T) {
	var buf bytes.Buffer
	result, err := logging.NewLogger(logging.Config{Level: "bogus", Format: logging.FormatJSON}, &buf)
	require.NoError(t, err)

	assert.Equal(t, zerolog.InfoLevel, result.Logger.GetLevel())
	result.Logger.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundlekit.log")
	var buf bytes.Buffer

	result, err := logging.NewLogger(logging.Config{Level: "info", File: path}, &buf)
	require.NoError(t, err)
	assert.True(t, result.UsingFile())
	assert.Equal(t, path, result.FilePath)

	result.Logger.Info().Msg("to file")
	require.NoError(t, result.Close())
	require.NoError(t, result.Close(), "second close is a no-op")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNewLogger_FileOpenFailureKeepsConsole(t *testing.T) {
	var buf bytes.Buffer
	bad := filepath.Join(t.TempDir(), "missing-dir", "x.log")

	result, err := logging.NewLogger(logging.Config{Format: logging.FormatJSON, File: bad}, &buf)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.False(t, result.UsingFile())

	result.Logger.Info().Msg("still here")
	assert.Contains(t, buf.String(), "still here")
}

func TestRunID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, logging.RunIDFromContext(ctx))

	generated := logging.GetOrGenerateRunID(ctx)
	assert.Len(t, generated, 26)

	ctx = logging.ContextWithRunID(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", logging.GetOrGenerateRunID(ctx))
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	logging.FromContext(ctx).Info().Msg("ctx logger")
	assert.Contains(t, buf.String(), "ctx logger")
}
