// Package runner discovers templates and formats them concurrently.
package runner

import (
	"github.com/yaklabco/cshtmlfmt/pkg/config"
	"github.com/yaklabco/cshtmlfmt/pkg/pipeline"
)

// Options controls a multi-file run.
type Options struct {
	// Paths are the user-specified files or directories. Empty means ".".
	Paths []string

	// WorkingDir resolves relative Paths and anchors ignore patterns.
	// Defaults to the process working directory.
	WorkingDir string

	// Extensions picks files inside directories. Defaults to
	// config.DefaultExtensions.
	Extensions []string

	// Ignore holds glob patterns, relative to WorkingDir, for files and
	// directories to skip. "**" matches any number of path segments.
	Ignore []string

	// IncludeVendored descends into vendored directories.
	IncludeVendored bool

	// FollowSymlinks descends into symlinked directories.
	FollowSymlinks bool

	// Jobs is the number of concurrent workers. 0 or negative means
	// runtime.NumCPU().
	Jobs int

	// Pipeline is passed to every file.
	Pipeline pipeline.Options
}

// OptionsFromConfig builds run options for paths from the resolved config.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	return Options{
		Paths:           paths,
		Extensions:      cfg.Extensions,
		Ignore:          cfg.Ignore,
		IncludeVendored: cfg.VendoredIncluded(),
		Jobs:            cfg.Jobs,
		Pipeline:        pipeline.OptionsFromConfig(cfg),
	}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return config.DefaultExtensions
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
