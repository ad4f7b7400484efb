// Package source gathers the reviewable code context from a directory tree.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// ErrNoFiles indicates that no reviewable files matched under the target.
var ErrNoFiles = errors.New("no reviewable files found")

// DefaultExtensions are the file extensions gathered when none are configured.
var DefaultExtensions = []string{".js", ".ts", ".jsx", ".tsx"}

// DefaultMaxDepth bounds how deep the walk descends below the target.
const DefaultMaxDepth = 3

// skipDirs are directory names never descended into.
var skipDirs = []string{".git", "node_modules", "vendor"}

// Options configures context gathering.
type Options struct {
	// Extensions is the file extension allow-list (with leading dot).
	// Empty means DefaultExtensions.
	Extensions []string
	// MaxDepth bounds the walk depth relative to the target directory.
	// Zero means DefaultMaxDepth.
	MaxDepth int
	// ExcludePatterns are regexes matched against slash-separated relative
	// paths; matching files are skipped.
	ExcludePatterns []string
}

// Gather walks the target directory and concatenates every matching file
// into a single context blob. Each file is preceded by a marker line naming
// its relative path so reviewers can attribute findings.
// Returns ErrNoFiles when nothing matches.
func Gather(target string, opts Options) (string, error) {
	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	excludes := make([]*regexp.Regexp, 0, len(opts.ExcludePatterns))
	for _, pattern := range opts.ExcludePatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return "", fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		excludes = append(excludes, re)
	}

	root := filepath.Clean(target)
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("cannot read target %q: %w", target, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("target %q is not a directory", target)
	}

	var blob strings.Builder
	matched := 0

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if slices.Contains(skipDirs, d.Name()) {
				return fs.SkipDir
			}
			if depth(rel) >= maxDepth {
				return fs.SkipDir
			}
			return nil
		}

		if depth(rel) > maxDepth {
			return nil
		}
		if !slices.Contains(extensions, filepath.Ext(d.Name())) {
			return nil
		}
		for _, re := range excludes {
			if re.MatchString(rel) {
				return nil
			}
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("failed to read %s: %w", rel, readErr)
		}

		fmt.Fprintf(&blob, "--- %s ---\n", rel)
		blob.Write(content)
		if len(content) > 0 && content[len(content)-1] != '\n' {
			blob.WriteByte('\n')
		}
		matched++
		return nil
	})
	if walkErr != nil {
		return "", walkErr
	}

	if matched == 0 {
		return "", fmt.Errorf("%w under %s (extensions: %s)",
			ErrNoFiles, target, strings.Join(extensions, ", "))
	}

	return blob.String(), nil
}

// depth counts path segments of a slash-separated relative path.
// "a.js" has depth 1, "a/b.js" has depth 2.
func depth(rel string) int {
	return strings.Count(rel, "/") + 1
}
