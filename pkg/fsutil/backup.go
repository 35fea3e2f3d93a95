package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// BackupMode specifies how backups are stored.
type BackupMode string

const (
	// BackupModeSidecar stores backups next to the original with BackupSuffix.
	BackupModeSidecar BackupMode = "sidecar"

	// BackupModeNone disables backups.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is the suffix used for sidecar backup files.
const BackupSuffix = ".cshtmlfmt.bak"

// BackupPolicy controls backups taken before a file is rewritten.
type BackupPolicy struct {
	Enabled bool
	Mode    BackupMode
}

// Active reports whether the policy writes backups at all.
func (p BackupPolicy) Active() bool {
	return p.Enabled && p.Mode != BackupModeNone
}

// BackupPath returns the backup location for path, or "" when mode stores none.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	return path + BackupSuffix
}

// Backup saves the snapshot's content, which is the pre-format text, next to
// the file. An existing backup is kept so repeated runs never lose the
// oldest original. It returns the backup path when one was written.
func Backup(ctx context.Context, snap *Snapshot, policy BackupPolicy) (string, error) {
	if snap == nil {
		return "", ErrNilSnapshot
	}
	if !policy.Active() {
		return "", nil
	}

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("create backup: %w", ctx.Err())
	default:
	}

	backupPath := BackupPath(snap.Path, policy.Mode)

	_, err := os.Stat(backupPath)
	switch {
	case err == nil:
		return "", nil
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("stat backup path: %w", err)
	}

	if err := WriteAtomic(ctx, backupPath, snap.Content, snap.Mode); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	return backupPath, nil
}

// Restore copies a sidecar backup back over path and removes the backup.
// It returns false when there is no backup.
func Restore(ctx context.Context, path string) (bool, error) {
	backupPath := BackupPath(path, BackupModeSidecar)

	snap, err := Read(ctx, backupPath)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read backup: %w", err)
	}

	if err := WriteAtomic(ctx, path, snap.Content, snap.Mode); err != nil {
		return false, fmt.Errorf("restore from backup: %w", err)
	}
	if err := os.Remove(backupPath); err != nil {
		return true, fmt.Errorf("remove backup: %w", err)
	}

	return true, nil
}
