package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yaklabco/cshtmlfmt/pkg/langdetect"
)

// Discover returns the sorted, de-duplicated absolute paths of the templates
// named by opts. Files given explicitly are always included unless ignored;
// directories are walked for files with a template extension.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		absPath := inputPath
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(workDir, absPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if !ignored(opts.Ignore, relativeTo(workDir, absPath), false) {
				add(absPath)
			}
			continue
		}

		walked, err := walk(ctx, absPath, workDir, opts)
		if err != nil {
			return nil, err
		}
		for _, path := range walked {
			add(path)
		}
	}

	sort.Strings(files)
	return files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}

	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

func relativeTo(workDir, path string) string {
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	return rel
}

// walk collects templates under root.
func walk(ctx context.Context, root, workDir string, opts Options) ([]string, error) {
	extensions := opts.effectiveExtensions()
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		rel := relativeTo(workDir, path)
		name := entry.Name()

		if entry.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(name, ".") || ignored(opts.Ignore, rel, true) {
				return filepath.SkipDir
			}
			if !opts.IncludeVendored && langdetect.IsVendored(filepath.ToSlash(rel)+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(path)
			if statErr != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			if info.IsDir() {
				if !opts.FollowSymlinks {
					return nil
				}
				target, evalErr := filepath.EvalSymlinks(path)
				if evalErr != nil {
					return nil //nolint:nilerr // Unresolvable symlinks are skipped.
				}
				sub, err := walk(ctx, target, workDir, opts)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if langdetect.IsTemplate(path, extensions) && !ignored(opts.Ignore, rel, false) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

// Accepts reports whether a directory walk under opts would pick up path.
// It applies the same hidden, ignore, vendored and extension rules as
// Discover, so change events can be filtered without walking again.
func Accepts(opts Options, path string) bool {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return false
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	rel := filepath.ToSlash(relativeTo(workDir, filepath.Clean(path)))
	if strings.HasPrefix(rel, "../") || filepath.IsAbs(rel) {
		rel = filepath.Base(path)
	}

	segments := strings.Split(rel, "/")
	for i, segment := range segments {
		if strings.HasPrefix(segment, ".") {
			return false
		}
		if i < len(segments)-1 {
			dir := strings.Join(segments[:i+1], "/")
			if ignored(opts.Ignore, dir, true) {
				return false
			}
			if !opts.IncludeVendored && langdetect.IsVendored(dir+"/") {
				return false
			}
		}
	}

	return langdetect.IsTemplate(path, opts.effectiveExtensions()) && !ignored(opts.Ignore, rel, false)
}

// Directories returns the sorted directories a walk of opts.Paths visits.
// Explicit file arguments contribute their parent directory.
func Directories(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	seen := make(map[string]struct{})
	var dirs []string
	add := func(dir string) {
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		absPath := inputPath
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(workDir, absPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}
		if !info.IsDir() {
			add(filepath.Dir(absPath))
			continue
		}

		err = filepath.WalkDir(absPath, func(path string, entry fs.DirEntry, walkErr error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if walkErr != nil {
				if errors.Is(walkErr, fs.ErrPermission) {
					return nil
				}
				return walkErr
			}
			if !entry.IsDir() {
				return nil
			}

			if path != absPath {
				rel := relativeTo(workDir, path)
				if strings.HasPrefix(entry.Name(), ".") || ignored(opts.Ignore, rel, true) {
					return filepath.SkipDir
				}
				if !opts.IncludeVendored && langdetect.IsVendored(filepath.ToSlash(rel)+"/") {
					return filepath.SkipDir
				}
			}

			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk directory %s: %w", absPath, err)
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}
