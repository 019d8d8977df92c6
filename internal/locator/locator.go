// Package locator discovers Subversion working-copy roots under a directory
// tree without descending into generated or dependency subtrees.
package locator

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// defaultIgnoreNames are directory names pruned during traversal. They are
// either VCS metadata or directories that tend to be enormous and never hold
// nested checkouts (build output, caches, dependencies). Pruning is purely a
// performance measure: a directory that is itself a working-copy root is
// always kept.
var defaultIgnoreNames = []string{
	".git",
	".svn",
	".hg",
	".vs",
	".idea",
	"node_modules",
	"build",
	"Build",
	"Builds",
	"dist",
	"obj",
	"Obj",
	"Library",
	"Temp",
	"Logs",
	"UserSettings",
	"__pycache__",
}

// IsWorkingCopyRoot reports whether dir is the top of a Subversion working
// copy. Beyond the presence of a .svn directory it requires one of the
// client's internal artifacts (wc.db for modern clients, entries for 1.6-era
// ones) so that same-named foreign directories are rejected.
func IsWorkingCopyRoot(dir string) bool {
	meta := filepath.Join(dir, ".svn")
	info, err := os.Stat(meta)
	if err != nil || !info.IsDir() {
		return false
	}
	for _, artifact := range []string{"wc.db", "entries"} {
		if _, err := os.Stat(filepath.Join(meta, artifact)); err == nil {
			return true
		}
	}
	return false
}

// FindWorkingCopies walks base depth-first and returns every working-copy
// root found, sorted case-insensitively. After a root is recorded its
// subtree is skipped, except when the root is base itself: the scan origin
// still descends so nested, independently checked-out copies (externals) are
// found. extraIgnores adds caller-supplied directory names to the prune set.
func FindWorkingCopies(base string, extraIgnores []string) ([]string, error) {
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, err
	}

	ignore := make(map[string]bool, len(defaultIgnoreNames)+len(extraIgnores))
	for _, name := range defaultIgnoreNames {
		ignore[name] = true
	}
	for _, name := range extraIgnores {
		ignore[name] = true
	}

	var roots []string
	seen := make(map[string]bool)

	walkErr := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directories are skipped, not fatal.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		isRoot := IsWorkingCopyRoot(path)

		if path != base && ignore[d.Name()] && !isRoot {
			return filepath.SkipDir
		}

		if isRoot {
			if !seen[path] {
				seen[path] = true
				roots = append(roots, path)
			}
			if path != base {
				return filepath.SkipDir
			}
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(roots, func(i, j int) bool {
		return strings.ToLower(roots[i]) < strings.ToLower(roots[j])
	})
	return roots, nil
}

// NearestRoot walks from start upward and returns the closest enclosing
// working-copy root. The second return is false when neither start nor any
// ancestor is a working copy, a condition distinct from a clean scan.
func NearestRoot(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		if IsWorkingCopyRoot(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
