// Package collect reads a repository's indexable files into memory, applying
// extension allow-lists and directory ignore-lists.
package collect

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Walker traverses directories respecting include/exclude patterns.
type Walker struct {
	includes []string
	excludes []string
}

// NewWalker creates a new file walker with the given include and exclude
// patterns. If no includes are specified, defaults to common code and config
// file extensions.
func NewWalker(includes, excludes []string) *Walker {
	if len(includes) == 0 {
		includes = []string{
			"**/*.py",
			"**/*.js",
			"**/*.jsx",
			"**/*.ts",
			"**/*.tsx",
			"**/*.go",
			"**/*.java",
			"**/*.rs",
			"**/*.rb",
			"**/*.php",
			"**/*.c",
			"**/*.h",
			"**/*.cpp",
			"**/*.cs",
			"**/*.sql",
			"**/*.sh",
			"**/*.md",
			"**/*.yaml",
			"**/*.yml",
			"**/*.toml",
			"**/*.json",
		}
	}

	// Default excludes for common non-source directories
	defaultExcludes := []string{
		"**/.git/**",
		"**/.github/**",
		"**/__pycache__/**",
		"**/*.pyc",
		"**/node_modules/**",
		"**/venv/**",
		"**/.venv/**",
		"**/dist/**",
		"**/build/**",
		"**/vendor/**",
		"**/.idea/**",
		"**/.vscode/**",
		"**/*.min.js",
		"**/*.bundle.js",
	}
	excludes = append(defaultExcludes, excludes...)

	return &Walker{
		includes: includes,
		excludes: excludes,
	}
}

// Walk traverses the directory tree rooted at root, calling fn for each file
// that matches the include patterns and does not match the exclude patterns.
func (w *Walker) Walk(root string, fn func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		// Normalize to forward slashes for pattern matching
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if w.shouldExcludeDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if w.isExcluded(relPath) {
			return nil
		}

		if w.isIncluded(relPath) {
			return fn(path)
		}

		return nil
	})
}

func (w *Walker) shouldExcludeDir(relPath string) bool {
	// Check directory exclusion patterns (with trailing slash)
	dirPath := relPath + "/"
	for _, pattern := range w.excludes {
		matched, _ := doublestar.Match(pattern, dirPath)
		if matched {
			return true
		}
		// Also check if the dir itself matches (e.g., "**/.git/**" should match ".git")
		matched, _ = doublestar.Match(pattern, relPath)
		if matched {
			return true
		}
	}
	return false
}

func (w *Walker) isExcluded(relPath string) bool {
	for _, pattern := range w.excludes {
		matched, _ := doublestar.Match(pattern, relPath)
		if matched {
			return true
		}
	}
	return false
}

func (w *Walker) isIncluded(relPath string) bool {
	for _, pattern := range w.includes {
		matched, _ := doublestar.Match(pattern, relPath)
		if matched {
			return true
		}
	}
	return false
}
