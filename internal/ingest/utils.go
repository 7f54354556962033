package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/health-summary/constants"
)

// matchesExt reports whether path's extension is in exts, ignoring case and
// the leading dot.
func matchesExt(path string, exts map[string]struct{}) bool {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if ext == "" {
		return false
	}
	_, ok := exts[ext]
	return ok
}

// IsHidden reports dot-files and dot-directories. Office lock files (~$name)
// count as hidden too.
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$")
}
