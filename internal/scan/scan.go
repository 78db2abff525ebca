// Package scan finds and reads analyzable source files in a project.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/typeorg/internal/config"
	"github.com/phobologic/typeorg/internal/model"
)

// Directories that never contain project source, regardless of globs.
var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".hg":          {},
	".svn":         {},
	"dist":         {},
	"build":        {},
	"coverage":     {},
}

type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Scanner enumerates project files matching the configured include/exclude
// globs and extension allowlist. A Scanner is good for one run; a fresh scan
// is required per run.
type Scanner struct {
	cfg     *config.Config
	root    string
	include []compiledPattern
	exclude []compiledPattern
	gi      *ignore.GitIgnore
}

// New compiles the configuration into a Scanner. Pattern errors surface here
// rather than mid-walk.
func New(cfg *config.Config) (*Scanner, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	s := &Scanner{cfg: cfg, root: root}
	for _, p := range cfg.Include {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("include pattern %q: %w", p, err)
		}
		s.include = append(s.include, compiledPattern{pattern: p, glob: g})
	}
	for _, p := range cfg.Exclude {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		s.exclude = append(s.exclude, compiledPattern{pattern: p, glob: g})
	}

	if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		s.gi = gi
	}
	return s, nil
}

// Scan walks the project root and returns every candidate file, sorted by
// relative path. Unreadable files come back with Failed status so the run
// can continue; only an unwalkable root is fatal.
func (s *Scanner) Scan(ctx context.Context) ([]model.SourceFile, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", s.root)
	}

	var files []model.SourceFile

	err = filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			return nil // skip unreadable entries
		}

		name := d.Name()
		if d.IsDir() {
			if path == s.root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			rel, rerr := filepath.Rel(s.root, path)
			if rerr == nil && s.excluded(filepath.ToSlash(rel)+"/**") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		rel, rerr := filepath.Rel(s.root, path)
		if rerr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if !s.cfg.HasExtension(rel) {
			return nil
		}
		if s.excluded(rel) {
			return nil
		}
		if s.gi != nil && s.gi.MatchesPath(rel) {
			return nil
		}
		if len(s.include) > 0 && !matchesAny(rel, s.include) {
			return nil
		}

		sf := model.SourceFile{Path: path, RelPath: rel, Status: model.Parsed}
		text, rerr := os.ReadFile(path)
		if rerr != nil {
			sf.Status = model.Failed
			sf.FailReason = rerr.Error()
		} else {
			sf.Text = text
		}
		files = append(files, sf)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelPath < files[j].RelPath
	})
	return files, nil
}

// Root returns the absolute project root the scanner resolved.
func (s *Scanner) Root() string {
	return s.root
}

func (s *Scanner) excluded(rel string) bool {
	return matchesAny(rel, s.exclude)
}

func matchesAny(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}
	// Patterns written as "**/*.ts" should also match root-level files.
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				if g, err := glob.Compile(strings.TrimPrefix(cp.pattern, "**/"), '/'); err == nil && g.Match(path) {
					return true
				}
			}
		}
	}
	return false
}
