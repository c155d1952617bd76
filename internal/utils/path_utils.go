package utils

import (
	"path/filepath"
	"strings"

	"github.com/funvibe/tycore/internal/config"
)

// NormalizePath makes a module path comparison-stable: absolute and
// cleaned. Sentinel paths such as <builtins> are returned as is.
func NormalizePath(path string) string {
	if IsSentinelPath(path) {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// IsSentinelPath reports reserved, non-filesystem paths like <builtins>.
func IsSentinelPath(path string) bool {
	return strings.HasPrefix(path, "<") && strings.HasSuffix(path, ">")
}

// ResolveImportPath resolves an import path relative to a base directory if it starts with a dot.
// Otherwise returns the import path as is.
func ResolveImportPath(baseDir, importPath string) string {
	if len(importPath) > 0 && importPath[0] == '.' {
		if baseDir != "." && baseDir != "" {
			return filepath.Join(baseDir, importPath)
		}
	}
	return importPath
}

// ExtractModuleName derives a module name from a file path.
// It takes the base filename and removes the source extension.
func ExtractModuleName(path string) string {
	if IsSentinelPath(path) {
		return path
	}
	return strings.TrimSuffix(filepath.Base(path), config.SourceFileExt)
}
