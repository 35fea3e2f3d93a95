package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cshtmlfmt/pkg/config"
	"github.com/yaklabco/cshtmlfmt/pkg/fsutil"
	"github.com/yaklabco/cshtmlfmt/pkg/indent"
	"github.com/yaklabco/cshtmlfmt/pkg/pipeline"
	"github.com/yaklabco/cshtmlfmt/pkg/textenc"
)

const (
	unformatted = "<div>\n<p>x</p>\n</div>\n"
	formatted   = "<div>\n  <p>x</p>\n</div>\n"
)

func defaultOptions() pipeline.Options {
	return pipeline.Options{
		Format:          indent.DefaultOptions(),
		Encoding:        textenc.Auto,
		IncludeVendored: true,
	}
}

func TestProcessContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		wantOutput string
		wantChange bool
		wantEnc    string
		wantEnding string
	}{
		{
			name:       "reindents markup",
			input:      unformatted,
			wantOutput: formatted,
			wantChange: true,
			wantEnc:    textenc.UTF8,
			wantEnding: "lf",
		},
		{
			name:       "already formatted",
			input:      formatted,
			wantOutput: formatted,
			wantEnc:    textenc.UTF8,
			wantEnding: "lf",
		},
		{
			name:       "keeps bom and crlf",
			input:      "\xef\xbb\xbf<ul>\r\n<li>a</li>\r\n</ul>",
			wantOutput: "\xef\xbb\xbf<ul>\r\n  <li>a</li>\r\n</ul>",
			wantChange: true,
			wantEnc:    textenc.UTF8,
			wantEnding: "crlf",
		},
		{
			name:       "keeps legacy encoding",
			input:      "<div>\n<p>caf\xe9</p>\n</div>",
			wantOutput: "<div>\n  <p>caf\xe9</p>\n</div>",
			wantChange: true,
			wantEnc:    textenc.Windows1252,
			wantEnding: "lf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := pipeline.ProcessContent(context.Background(), "Index.cshtml", []byte(tt.input), defaultOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutput, string(res.Output))
			assert.Equal(t, tt.wantChange, res.Changed)
			assert.Equal(t, tt.wantEnc, res.Encoding)
			assert.Equal(t, tt.wantEnding, res.LineEnding)
			assert.Nil(t, res.Diff, "diff only when requested")
		})
	}
}

func TestProcessContentDiff(t *testing.T) {
	t.Parallel()

	opts := defaultOptions()
	opts.Diff = true

	res, err := pipeline.ProcessContent(context.Background(), "Index.cshtml", []byte(unformatted), opts)
	require.NoError(t, err)
	require.NotNil(t, res.Diff)
	assert.Equal(t, 1, res.Diff.Added)
	assert.Equal(t, 1, res.Diff.Removed)
	require.Len(t, res.Changes, 1)
	assert.Equal(t, indent.ChangeIndent, res.Changes[0].Kind)
	assert.Equal(t, 2, res.Changes[0].Line)
}

func TestProcessContentBlocks(t *testing.T) {
	t.Parallel()

	input := "<script>\nvar a = 1;\n</script>\n<text>\n@:hi\n</text>\n<style>\n"

	res, err := pipeline.ProcessContent(context.Background(), "b.cshtml", []byte(input), defaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Blocks, 3)

	assert.Equal(t, "script", res.Blocks[0].Tag)
	assert.Equal(t, 2, res.Blocks[0].Line)
	assert.NotEmpty(t, res.Blocks[0].Language)

	assert.Equal(t, "text", res.Blocks[1].Tag)
	assert.Equal(t, "html", res.Blocks[1].Language)

	assert.Equal(t, "style", res.Blocks[2].Tag)
	assert.True(t, res.Blocks[2].Skipped)
}

func TestProcessContentErrors(t *testing.T) {
	t.Parallel()

	t.Run("forced encoding mismatch", func(t *testing.T) {
		t.Parallel()

		opts := defaultOptions()
		opts.Encoding = textenc.UTF8

		_, err := pipeline.ProcessContent(context.Background(), "x.cshtml", []byte("caf\xe9"), opts)
		require.ErrorIs(t, err, pipeline.ErrDecodeFailure)
		assert.True(t, pipeline.IsPipelineError(err))
	})

	t.Run("forced encoding that replaces bytes", func(t *testing.T) {
		t.Parallel()

		opts := defaultOptions()
		opts.Encoding = textenc.ShiftJIS

		// 0x81 is a Shift_JIS lead byte without a valid trail byte.
		_, err := pipeline.ProcessContent(context.Background(), "x.cshtml", []byte("<div>\n<p>\x81</p>\n</div>\n"), opts)
		require.ErrorIs(t, err, pipeline.ErrDecodeFailure)
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := pipeline.ProcessContent(ctx, "x.cshtml", []byte(unformatted), defaultOptions())
		require.ErrorIs(t, err, context.Canceled)
	})
}

func writeTemplate(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProcessContentKeepsInvalidBytes(t *testing.T) {
	t.Parallel()

	raw := []byte("<div>\n<p>\xff\xff\x8f\x81\x80</p>\n</div>\n")

	res, err := pipeline.ProcessContent(context.Background(), "x.cshtml", raw, defaultOptions())
	require.NoError(t, err)
	require.True(t, res.Changed)
	assert.NotEqual(t, textenc.UTF8, res.Encoding)
	assert.Equal(t, []byte("<div>\n  <p>\xff\xff\x8f\x81\x80</p>\n</div>\n"), res.Output)
}

func TestProcessFile(t *testing.T) {
	t.Parallel()

	t.Run("check mode leaves file alone", func(t *testing.T) {
		t.Parallel()

		path := writeTemplate(t, t.TempDir(), "Index.cshtml", unformatted)

		res, err := pipeline.ProcessFile(context.Background(), path, defaultOptions())
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.False(t, res.Written)
		assert.Equal(t, "needs formatting", res.Summary())

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, unformatted, string(got))
	})

	t.Run("write with backup", func(t *testing.T) {
		t.Parallel()

		path := writeTemplate(t, t.TempDir(), "Index.cshtml", unformatted)

		opts := defaultOptions()
		opts.Write = true
		opts.Backup = fsutil.BackupPolicy{Enabled: true, Mode: fsutil.BackupModeSidecar}

		res, err := pipeline.ProcessFile(context.Background(), path, opts)
		require.NoError(t, err)
		assert.True(t, res.Written)
		assert.Equal(t, path+fsutil.BackupSuffix, res.BackupPath)
		assert.Equal(t, "formatted (backup created)", res.Summary())

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, formatted, string(got))

		backup, err := os.ReadFile(res.BackupPath)
		require.NoError(t, err)
		assert.Equal(t, unformatted, string(backup))
	})

	t.Run("formatted file is not rewritten", func(t *testing.T) {
		t.Parallel()

		path := writeTemplate(t, t.TempDir(), "Index.cshtml", formatted)

		opts := defaultOptions()
		opts.Write = true
		opts.Backup = fsutil.BackupPolicy{Enabled: true, Mode: fsutil.BackupModeSidecar}

		res, err := pipeline.ProcessFile(context.Background(), path, opts)
		require.NoError(t, err)
		assert.False(t, res.Written)
		assert.Equal(t, "ok", res.Summary())
		assert.NoFileExists(t, path+fsutil.BackupSuffix)
	})

	t.Run("vendored path skipped", func(t *testing.T) {
		t.Parallel()

		path := writeTemplate(t, t.TempDir(), "node_modules/lib/View.cshtml", unformatted)

		opts := defaultOptions()
		opts.IncludeVendored = false

		res, err := pipeline.ProcessFile(context.Background(), path, opts)
		require.NoError(t, err)
		assert.True(t, res.Skipped)
		assert.Equal(t, "vendored", res.SkipReason)
	})

	t.Run("binary skipped", func(t *testing.T) {
		t.Parallel()

		path := writeTemplate(t, t.TempDir(), "x.cshtml", "<div>\x00\x01\x02</div>")

		res, err := pipeline.ProcessFile(context.Background(), path, defaultOptions())
		require.NoError(t, err)
		assert.True(t, res.Skipped)
		assert.Equal(t, "binary", res.SkipReason)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := pipeline.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "nope.cshtml"), defaultOptions())
		require.ErrorIs(t, err, pipeline.ErrFileNotFound)
	})
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.IndentUnit = 4
	cfg.SeparateCases = config.Bool(false)
	cfg.Format = config.FormatDiff
	cfg.NoBackups = true

	opts := pipeline.OptionsFromConfig(cfg)
	assert.Equal(t, 4, opts.Format.IndentUnit)
	assert.True(t, opts.Format.ReindentRawBlocks)
	assert.False(t, opts.Format.SeparateCases)
	assert.True(t, opts.Diff)
	assert.False(t, opts.Backup.Enabled)
	assert.False(t, opts.IncludeVendored)
}

func TestResultSourceLine(t *testing.T) {
	t.Parallel()

	res, err := pipeline.ProcessContent(context.Background(), "Index.cshtml",
		[]byte("<div>\r\n<p>x</p>\r\n</div>"), pipeline.Options{Format: indent.DefaultOptions()})
	require.NoError(t, err)

	assert.Equal(t, "<div>", res.SourceLine(1))
	assert.Equal(t, "<p>x</p>", res.SourceLine(2))
	assert.Equal(t, "</div>", res.SourceLine(3))
	assert.Empty(t, res.SourceLine(0))
	assert.Empty(t, res.SourceLine(4))
}
