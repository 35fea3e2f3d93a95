package pretty_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/cshtmlfmt/internal/ui/pretty"
	"github.com/yaklabco/cshtmlfmt/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		write bool
		want  string
	}{
		{
			name:  "clean run",
			stats: runner.Stats{FilesProcessed: 4},
			want:  "All files formatted (4 files checked)\n",
		},
		{
			name:  "clean run with skipped file",
			stats: runner.Stats{FilesProcessed: 1, FilesSkipped: 1},
			want:  "All files formatted (1 file checked), 1 skipped\n",
		},
		{
			name:  "check mode",
			stats: runner.Stats{FilesProcessed: 5, FilesChanged: 3, LinesReindented: 14, SeparatorsInserted: 2},
			want:  "3 files need formatting (14 lines reindented, 2 separators)\n",
		},
		{
			name:  "single file needs formatting",
			stats: runner.Stats{FilesProcessed: 1, FilesChanged: 1, LinesReindented: 1},
			want:  "1 file needs formatting (1 line reindented)\n",
		},
		{
			name:  "write mode",
			stats: runner.Stats{FilesProcessed: 2, FilesChanged: 2, FilesWritten: 2, LinesReindented: 6},
			write: true,
			want:  "2 files formatted (6 lines reindented)\n",
		},
		{
			name:  "errors only",
			stats: runner.Stats{FilesProcessed: 2, FilesErrored: 1},
			want:  "1 error\n",
		},
		{
			name:  "everything",
			stats: runner.Stats{FilesChanged: 1, LinesReindented: 2, FilesSkipped: 1, FilesErrored: 2},
			want:  "1 file needs formatting (2 lines reindented), 1 skipped, 2 errors\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats, tt.write))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name     string
		stats    runner.Stats
		write    bool
		contains []string
		absent   []string
	}{
		{
			name:     "clean",
			stats:    runner.Stats{FilesProcessed: 3},
			contains: []string{"Summary", "Files checked:", "3", "All files formatted"},
			absent:   []string{"Files changed:", "Files with errors:", "Duration:"},
		},
		{
			name: "changes in check mode",
			stats: runner.Stats{
				FilesProcessed: 3, FilesChanged: 2, LinesReindented: 9, SeparatorsInserted: 1,
				Duration: 1500 * time.Microsecond,
			},
			contains: []string{"Files changed:", "Lines reindented:    9", "Separators inserted: 1", "Duration:", "Formatting required"},
		},
		{
			name:     "changes written",
			stats:    runner.Stats{FilesProcessed: 1, FilesChanged: 1, FilesWritten: 1},
			write:    true,
			contains: []string{"Files written:", "Formatting applied"},
		},
		{
			name:     "errors win",
			stats:    runner.Stats{FilesProcessed: 1, FilesChanged: 1, FilesErrored: 1, FilesSkipped: 2},
			contains: []string{"Files with errors:", "Files skipped:", "Formatting failed with errors"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := styles.FormatSummary(tt.stats, tt.write)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.absent {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}
