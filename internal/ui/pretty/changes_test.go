package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cshtmlfmt/internal/ui/pretty"
	"github.com/yaklabco/cshtmlfmt/pkg/diff"
	"github.com/yaklabco/cshtmlfmt/pkg/indent"
)

func TestFormatFileHeader(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	assert.Equal(t, "Index.cshtml (needs formatting, 2 changes)",
		styles.FormatFileHeader("Index.cshtml", "needs formatting", 2))
	assert.Equal(t, "Index.cshtml (formatted, 1 change)",
		styles.FormatFileHeader("Index.cshtml", "formatted", 1))
	assert.Equal(t, "Index.cshtml (skipped: binary)",
		styles.FormatFileHeader("Index.cshtml", "skipped: binary", 0))
}

func TestFormatChange(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name    string
		change  indent.Change
		preview string
		want    string
	}{
		{
			name:    "indent with preview",
			change:  indent.Change{Kind: indent.ChangeIndent, Line: 12, Before: 0, After: 4},
			preview: "<p>Hello</p>",
			want:    "     12  indent 0 -> 4  <p>Hello</p>\n",
		},
		{
			name:   "indent without preview",
			change: indent.Change{Kind: indent.ChangeIndent, Line: 3, Before: 8, After: 2},
			want:   "      3  indent 8 -> 2\n",
		},
		{
			name:   "separator",
			change: indent.Change{Kind: indent.ChangeSeparator, Line: 7},
			want:   "      7  separator inserted\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatChange(tt.change, tt.preview))
		})
	}
}

func TestFormatDiff(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	d := diff.Compute("/abs/Index.cshtml", "<div>\n<p>x</p>\n</div>\n", "<div>\n  <p>x</p>\n</div>\n")
	require.NotNil(t, d)

	out := styles.FormatDiff(d, "Index.cshtml")
	assert.Contains(t, out, "diff --git a/Index.cshtml b/Index.cshtml\n")
	assert.Contains(t, out, "--- a/Index.cshtml\n+++ b/Index.cshtml\n")
	assert.Contains(t, out, "@@ ")
	assert.Contains(t, out, "\n-<p>x</p>\n+  <p>x</p>\n")
	assert.NotContains(t, out, "/abs/")

	assert.Empty(t, styles.FormatDiff(nil, "x"))
}
