package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// appName names the per-user and system configuration directories.
const appName = "cshtmlfmt"

// ConfigPaths represents discovered configuration file paths.
type ConfigPaths struct {
	// System is the system-wide config path (e.g., /etc/cshtmlfmt/config.yaml).
	System string

	// User is the user-level config path (e.g., ~/.config/cshtmlfmt/config.yaml).
	User string

	// Project is the project-level config path (e.g., ./.cshtmlfmt.yml).
	Project string

	// Explicit is a config path provided via --config flag.
	Explicit string
}

// ProjectConfigFiles are the project config file names, in order of preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var ProjectConfigFiles = []string{
	".cshtmlfmt.yml",
	".cshtmlfmt.yaml",
	".cshtmlfmt.toml",
}

//nolint:gochecknoglobals // Read-only lookup table.
var dirConfigFiles = []string{"config.yaml", "config.yml", "config.toml"}

// vcsRootMarkers are directories that indicate a VCS root.
//
//nolint:gochecknoglobals // Read-only lookup table.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// DiscoverPaths finds configuration files in standard locations.
// Missing files are represented as empty strings (not errors).
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	paths := &ConfigPaths{
		System: findSystemConfig(),
		User:   findUserConfig(),
	}

	projectConfig, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	paths.Project = projectConfig

	return paths, nil
}

func findSystemConfig() string {
	if runtime.GOOS == "windows" {
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		return findConfigInDir(filepath.Join(programData, appName))
	}

	return findConfigInDir(filepath.Join("/etc", appName))
}

func findUserConfig() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}

	return findConfigInDir(filepath.Join(configHome, appName))
}

// findConfigInDir returns the first config file found in dir, or "".
func findConfigInDir(dir string) string {
	for _, name := range dirConfigFiles {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// FindProjectConfig searches upward from startDir for a project config file.
// The search stops at a VCS root, the home directory or the filesystem root.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		var err error
		startDir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
	}

	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		homeDir = ""
	}

	currentDir := absDir
	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		for _, name := range ProjectConfigFiles {
			path := filepath.Join(currentDir, name)
			if fileExists(path) {
				return path, nil
			}
		}

		if isVCSRoot(currentDir) {
			return "", nil
		}
		if homeDir != "" && currentDir == homeDir {
			return "", nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", nil
		}
		currentDir = parentDir
	}
}

func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		info, err := os.Stat(filepath.Join(dir, marker))
		if err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
