// Package langdetect classifies input files and raw blocks using go-enry.
package langdetect

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// razorLanguage is the linguist name for Razor templates.
const razorLanguage = "HTML+Razor"

// SkipReason explains why a file is not formatted.
type SkipReason string

const (
	SkipBinary    SkipReason = "binary"
	SkipVendored  SkipReason = "vendored"
	SkipGenerated SkipReason = "generated"
)

// IsTemplate reports whether path names a template. A path matches when its
// extension is listed in extensions (case-insensitive) or when linguist
// classifies the extension as HTML+Razor.
func IsTemplate(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}

	for _, candidate := range extensions {
		if strings.EqualFold(candidate, ext) {
			return true
		}
	}

	return slices.Contains(enry.GetLanguagesByExtension(path, nil, nil), razorLanguage)
}

// ShouldSkip reports whether a file must be left alone. Vendored paths are
// only skipped when includeVendored is false.
func ShouldSkip(path string, content []byte, includeVendored bool) (SkipReason, bool) {
	switch {
	case enry.IsBinary(content) && !hasUTF16BOM(content):
		return SkipBinary, true
	case !includeVendored && enry.IsVendor(filepath.ToSlash(path)):
		return SkipVendored, true
	case enry.IsGenerated(path, content):
		return SkipGenerated, true
	default:
		return "", false
	}
}

// IsVendored reports whether path lies in a vendored directory.
func IsVendored(path string) bool {
	return enry.IsVendor(filepath.ToSlash(path))
}

// BlockLanguage names the language inside a raw block: markup for <text>,
// and the most likely script or style language for the others.
func BlockLanguage(tag string, content []byte) string {
	var (
		fallback   string
		candidates []string
	)

	switch strings.ToLower(tag) {
	case "script":
		fallback = "javascript"
		candidates = []string{"JavaScript", "TypeScript", "JSON"}
	case "style":
		fallback = "css"
		candidates = []string{"CSS", "SCSS", "Less"}
	default:
		return "html"
	}

	if len(strings.TrimSpace(string(content))) == 0 {
		return fallback
	}

	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return strings.ToLower(lang)
	}
	return fallback
}

// hasUTF16BOM reports whether content starts with a UTF-16 byte order mark.
// Such text is full of NUL bytes and would otherwise look binary.
func hasUTF16BOM(content []byte) bool {
	return bytes.HasPrefix(content, []byte{0xFF, 0xFE}) || bytes.HasPrefix(content, []byte{0xFE, 0xFF})
}
