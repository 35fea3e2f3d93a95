package runner

import (
	"path"
	"path/filepath"
	"strings"
)

// matchGlob matches a slash-separated relative path against pattern. Each
// pattern segment is a path.Match pattern, and a "**" segment matches zero
// or more whole segments. A pattern without a slash matches the base name
// at any depth, so "*.g.cshtml" works like "**/*.g.cshtml".
func matchGlob(pattern, rel string) bool {
	pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
	rel = filepath.ToSlash(rel)

	if !strings.Contains(pattern, "/") {
		pattern = "**/" + pattern
	}

	return matchSegments(strings.Split(pattern, "/"), strings.Split(rel, "/"))
}

func matchSegments(pattern, parts []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(parts); i++ {
				if matchSegments(rest, parts[i:]) {
					return true
				}
			}
			return false
		}

		if len(parts) == 0 {
			return false
		}
		if ok, err := path.Match(pattern[0], parts[0]); err != nil || !ok {
			return false
		}
		pattern, parts = pattern[1:], parts[1:]
	}

	return len(parts) == 0
}

// ignored reports whether rel matches any pattern. Directory patterns such
// as "bin/**" also match the directory "bin" itself.
func ignored(patterns []string, rel string, isDir bool) bool {
	for _, pattern := range patterns {
		if matchGlob(pattern, rel) {
			return true
		}
		if isDir && strings.HasSuffix(pattern, "/**") && matchGlob(strings.TrimSuffix(pattern, "/**"), rel) {
			return true
		}
	}
	return false
}
