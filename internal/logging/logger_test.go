package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cshtmlfmt/internal/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		level string
		want  log.Level
	}{
		{"debug", "debug", log.DebugLevel},
		{"info", "info", log.InfoLevel},
		{"warn", "warn", log.WarnLevel},
		{"warning alias", "warning", log.WarnLevel},
		{"error", "error", log.ErrorLevel},
		{"unknown defaults to info", "verbose", log.InfoLevel},
		{"empty defaults to info", "", log.InfoLevel},
		{"case insensitive", "DEBUG", log.DebugLevel},
		{"surrounding space", " warn ", log.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, logging.ParseLevel(tt.level))
			assert.Equal(t, tt.want, logging.New(tt.level).GetLevel())
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown", logging.FieldPath, "Views/Index.cshtml")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "Views/Index.cshtml")
}

func TestNewInteractive(t *testing.T) {
	t.Parallel()

	logger := logging.NewInteractive()
	require.NotNil(t, logger)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
	assert.Equal(t, "cshtmlfmt", logger.GetPrefix())
}

func TestSetDefaultAndLevel(t *testing.T) {
	// Mutates the package default; not parallel.
	original := logging.Default()
	defer logging.SetDefault(original)

	replacement := logging.New("info")
	logging.SetDefault(replacement)
	assert.Same(t, replacement, logging.Default())

	logging.SetLevel("debug")
	assert.Equal(t, log.DebugLevel, logging.Default().GetLevel())

	logging.SetLevel("error")
	assert.Equal(t, log.ErrorLevel, logging.Default().GetLevel())
}

func TestContext(t *testing.T) {
	t.Parallel()

	logger := logging.New("debug")
	ctx := logging.WithLogger(context.Background(), logger)
	assert.Same(t, logger, logging.FromContext(ctx))

	assert.NotNil(t, logging.FromContext(context.Background()))
}
