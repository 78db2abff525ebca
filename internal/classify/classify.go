// Package classify assigns declarations a semantic category from naming and
// path heuristics. Classification is a pure function of (name, path,
// configured rules): repeated runs over unchanged source classify
// identically regardless of traversal order.
package classify

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/phobologic/typeorg/internal/config"
	"github.com/phobologic/typeorg/internal/model"
)

type suffixMatcher struct {
	pattern  string
	glob     glob.Glob
	category model.Category
}

type pathMatcher struct {
	prefix   string
	category model.Category
}

// Classifier evaluates the configured rule table. First match wins:
// name-suffix rules in order, then path-prefix rules in order, then
// Uncategorized.
type Classifier struct {
	suffixes []suffixMatcher
	paths    []pathMatcher
	dirs     map[model.Category]string
}

// New compiles the rule table. Pattern errors are fatal config errors.
func New(cfg *config.Config) (*Classifier, error) {
	c := &Classifier{dirs: cfg.CategoryDirs}
	for _, r := range cfg.SuffixRules {
		g, err := glob.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("suffix pattern %q: %w", r.Pattern, err)
		}
		c.suffixes = append(c.suffixes, suffixMatcher{pattern: r.Pattern, glob: g, category: r.Category})
	}
	for _, r := range cfg.PathRules {
		c.paths = append(c.paths, pathMatcher{prefix: strings.Trim(r.Prefix, "/"), category: r.Category})
	}
	return c, nil
}

// Classify returns exactly one category for a declaration.
func (c *Classifier) Classify(d *model.TypeDeclaration) model.Category {
	for _, m := range c.suffixes {
		if m.glob.Match(d.Name) {
			return m.category
		}
	}
	for _, m := range c.paths {
		if underDir(d.File, m.prefix) {
			return m.category
		}
	}
	return model.Uncategorized
}

// ExpectedDir returns the directory declarations of a category belong in,
// or "" when the category has no configured home (including Uncategorized).
func (c *Classifier) ExpectedDir(cat model.Category) string {
	return c.dirs[cat]
}

// InExpectedDir reports whether the declaration's file lies under its
// category's configured directory.
func (c *Classifier) InExpectedDir(d *model.TypeDeclaration, cat model.Category) bool {
	dir := c.ExpectedDir(cat)
	if dir == "" {
		return true
	}
	return underDir(d.File, strings.Trim(dir, "/"))
}

func underDir(relPath, dir string) bool {
	return relPath == dir || strings.HasPrefix(relPath, dir+"/")
}
