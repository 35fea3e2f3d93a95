// Package fsutil holds the file safety primitives used when rewriting
// templates in place: snapshots for detecting concurrent edits, atomic
// writes and sidecar backups.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"time"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNilSnapshot is returned when a nil Snapshot is passed.
	ErrNilSnapshot = errors.New("nil snapshot")

	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrModified indicates the file changed on disk after it was read.
	ErrModified = errors.New("file modified since it was read")
)

// Snapshot is a file's content and metadata at the moment it was read.
type Snapshot struct {
	Path    string
	Content []byte
	Mode    os.FileMode
	ModTime time.Time
	Size    int64
	Hash    [sha256.Size]byte
}

// Read loads path and records a snapshot of it.
func Read(ctx context.Context, path string) (*Snapshot, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("read file: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, classify(path, err)
	}

	return &Snapshot{
		Path:    path,
		Content: content,
		Mode:    stat.Mode().Perm(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}, nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}

// Changed reports whether the file differs from the snapshot. Modification
// time and size are compared first; equal metadata falls back to hashing the
// current content. A deleted file counts as changed.
func Changed(ctx context.Context, snap *Snapshot) (bool, error) {
	if snap == nil {
		return false, ErrNilSnapshot
	}

	select {
	case <-ctx.Done():
		return false, fmt.Errorf("check modified: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(snap.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", snap.Path, err)
	}

	if !stat.ModTime().Equal(snap.ModTime) || stat.Size() != snap.Size {
		return true, nil
	}

	content, err := os.ReadFile(snap.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", snap.Path, err)
	}

	return sha256.Sum256(content) != snap.Hash, nil
}

// Replace writes content over the snapshotted file, keeping its mode. It
// fails with ErrModified when the file changed after the snapshot was taken.
func Replace(ctx context.Context, snap *Snapshot, content []byte) error {
	changed, err := Changed(ctx, snap)
	if err != nil {
		return err
	}
	if changed {
		return fmt.Errorf("%w: %s", ErrModified, snap.Path)
	}

	return WriteAtomic(ctx, snap.Path, content, snap.Mode)
}
