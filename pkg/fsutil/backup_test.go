package fsutil_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cshtmlfmt/pkg/fsutil"
)

func TestBackupPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Views/Index.cshtml.cshtmlfmt.bak", fsutil.BackupPath("Views/Index.cshtml", fsutil.BackupModeSidecar))
	assert.Empty(t, fsutil.BackupPath("Views/Index.cshtml", fsutil.BackupModeNone))
}

func TestBackup(t *testing.T) {
	t.Parallel()

	sidecar := fsutil.BackupPolicy{Enabled: true, Mode: fsutil.BackupModeSidecar}

	t.Run("writes snapshot content", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "a.cshtml", "original", 0o640)
		snap, err := fsutil.Read(context.Background(), path)
		require.NoError(t, err)

		backupPath, err := fsutil.Backup(context.Background(), snap, sidecar)
		require.NoError(t, err)
		assert.Equal(t, path+fsutil.BackupSuffix, backupPath)

		got, err := os.ReadFile(backupPath)
		require.NoError(t, err)
		assert.Equal(t, "original", string(got))

		stat, err := os.Stat(backupPath)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), stat.Mode().Perm())
	})

	t.Run("keeps existing backup", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "a.cshtml", "second", 0o644)
		require.NoError(t, os.WriteFile(path+fsutil.BackupSuffix, []byte("first"), 0o644))

		snap, err := fsutil.Read(context.Background(), path)
		require.NoError(t, err)

		backupPath, err := fsutil.Backup(context.Background(), snap, sidecar)
		require.NoError(t, err)
		assert.Empty(t, backupPath)

		got, err := os.ReadFile(path + fsutil.BackupSuffix)
		require.NoError(t, err)
		assert.Equal(t, "first", string(got))
	})

	t.Run("inactive policies", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "a.cshtml", "x", 0o644)
		snap, err := fsutil.Read(context.Background(), path)
		require.NoError(t, err)

		for _, policy := range []fsutil.BackupPolicy{
			{Enabled: false, Mode: fsutil.BackupModeSidecar},
			{Enabled: true, Mode: fsutil.BackupModeNone},
		} {
			backupPath, err := fsutil.Backup(context.Background(), snap, policy)
			require.NoError(t, err)
			assert.Empty(t, backupPath)
		}
		assert.NoFileExists(t, path+fsutil.BackupSuffix)
	})
}

func TestRestore(t *testing.T) {
	t.Parallel()

	t.Run("restores and removes backup", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "a.cshtml", "formatted", 0o644)
		require.NoError(t, os.WriteFile(path+fsutil.BackupSuffix, []byte("original"), 0o644))

		restored, err := fsutil.Restore(context.Background(), path)
		require.NoError(t, err)
		assert.True(t, restored)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "original", string(got))
		assert.NoFileExists(t, path+fsutil.BackupSuffix)
	})

	t.Run("no backup", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "a.cshtml", "x", 0o644)
		restored, err := fsutil.Restore(context.Background(), path)
		require.NoError(t, err)
		assert.False(t, restored)
	})
}
