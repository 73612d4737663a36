package diagfmt

import (
	"path/filepath"
	"strings"
)

// autoPathLimit is the length above which PathModeAuto falls back to the
// basename of an absolute path.
const autoPathLimit = 40

func formatPath(path string, mode PathMode, base string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
		return path
	case PathModeRelative:
		if base == "" {
			return path
		}
		rel, err := filepath.Rel(base, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return path
		}
		return filepath.ToSlash(rel)
	case PathModeBasename:
		return filepath.Base(path)
	default:
		if base != "" {
			if rel := formatPath(path, PathModeRelative, base); rel != path {
				return rel
			}
		}
		if filepath.IsAbs(path) && len(path) > autoPathLimit {
			return filepath.Base(path)
		}
		return path
	}
}
