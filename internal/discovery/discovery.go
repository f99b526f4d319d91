// SPDX-License-Identifier: MIT

// Package discovery walks a root directory to find git working trees.
package discovery

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"

	"github.com/skaphos/repofleet/internal/gitx"
)

// Unlimited disables the depth cutoff.
const Unlimited = -1

// Options configures the discovery scan.
type Options struct {
	// Root is the directory to start from. Relative roots resolve against cwd.
	Root string
	// MaxDepth bounds how deep below Root the walk descends. Negative values
	// mean unlimited.
	MaxDepth int
	// Exclude holds doublestar glob patterns of directories to skip.
	Exclude []string
	// SkipSymlinks stops the walk at symlinked directories. By default they
	// are followed and each real directory is visited once.
	SkipSymlinks bool
	Logger       logrus.FieldLogger
}

// Find walks opts.Root depth-first and returns the working-tree roots it
// finds, in directory order. A working tree is a leaf: nothing beneath it
// is reported. Unreadable directories are treated as empty.
func Find(ctx context.Context, opts Options) ([]string, error) {
	root := opts.Root
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	w := newWalker(opts)
	w.markVisited(absRoot)
	if err := w.walk(ctx, filepath.Clean(absRoot), 0); err != nil {
		return nil, err
	}
	return w.results, nil
}

type walker struct {
	opts    Options
	visited map[string]struct{}
	results []string
	log     logrus.FieldLogger
}

func newWalker(opts Options) *walker {
	w := &walker{
		opts:    opts,
		visited: map[string]struct{}{},
		log:     opts.Logger,
	}
	if w.log == nil {
		w.log = gitx.DiscardLogger()
	}
	return w
}

func (w *walker) walk(ctx context.Context, dir string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if IsWorkingTree(dir) {
		w.results = append(w.results, dir)
		return nil
	}
	if w.opts.MaxDepth >= 0 && depth > w.opts.MaxDepth {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.log.WithError(err).WithField("dir", dir).Debug("skipping unreadable directory")
		return nil
	}
	for _, entry := range entries {
		child := filepath.Join(dir, entry.Name())
		if !w.descendable(entry, child) {
			continue
		}
		if MatchesExclude(child, w.opts.Exclude) {
			continue
		}
		if !w.opts.SkipSymlinks && !w.markVisited(child) {
			continue
		}
		if err := w.walk(ctx, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) descendable(entry os.DirEntry, path string) bool {
	if entry.Type()&os.ModeSymlink != 0 {
		if w.opts.SkipSymlinks {
			return false
		}
		info, err := os.Stat(path)
		return err == nil && info.IsDir()
	}
	return entry.IsDir()
}

// markVisited records the real path of dir and reports whether it was new.
func (w *walker) markVisited(dir string) bool {
	real := dir
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		real = resolved
	}
	if _, ok := w.visited[real]; ok {
		return false
	}
	w.visited[real] = struct{}{}
	return true
}

// IsWorkingTree reports whether dir holds a .git directory, or a .git file
// pointing at one (linked worktrees and submodules).
func IsWorkingTree(dir string) bool {
	gitPath := filepath.Join(dir, ".git")
	info, err := os.Stat(gitPath)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return true
	}
	if info.Mode().IsRegular() {
		_, ok := gitdirFromFile(gitPath)
		return ok
	}
	return false
}

// MatchesExclude checks whether a path matches any of the given exclude
// glob patterns.
func MatchesExclude(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	slashPath := filepath.ToSlash(path)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		match, err := doublestar.Match(pattern, slashPath)
		if err != nil {
			continue
		}
		if match {
			return true
		}
	}
	return false
}

func gitdirFromFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	content := strings.TrimSpace(string(data))
	if !strings.HasPrefix(content, "gitdir:") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(content, "gitdir:"))
	if raw == "" {
		return "", false
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw), true
	}
	return filepath.Clean(filepath.Join(filepath.Dir(path), raw)), true
}
