// Package resolve maps import specifiers to project files.
package resolve

import (
	"path"
	"sort"
	"strings"

	"github.com/phobologic/typeorg/internal/config"
	"github.com/phobologic/typeorg/internal/model"
)

// Resolver resolves import specifiers against the set of scanned files. It
// never touches the filesystem: the scan already enumerated every candidate,
// so resolution is a pure lookup.
type Resolver struct {
	cfg      *config.Config
	files    map[string]struct{}
	aliases  []string // alias prefixes, longest first
	aliasDir map[string]string
}

// New builds a Resolver over the scanned file set.
func New(cfg *config.Config, files []model.SourceFile) *Resolver {
	r := &Resolver{
		cfg:      cfg,
		files:    make(map[string]struct{}, len(files)),
		aliasDir: make(map[string]string, len(cfg.Aliases)),
	}
	for _, f := range files {
		r.files[f.RelPath] = struct{}{}
	}
	for prefix, dir := range cfg.Aliases {
		r.aliases = append(r.aliases, prefix)
		r.aliasDir[prefix] = dir
	}
	// Longest prefix first so "@app/" wins over "@/".
	sort.Slice(r.aliases, func(i, j int) bool {
		if len(r.aliases[i]) != len(r.aliases[j]) {
			return len(r.aliases[i]) > len(r.aliases[j])
		}
		return r.aliases[i] < r.aliases[j]
	})
	return r
}

// Resolve maps a specifier appearing in fromFile to a project-relative path.
// Bare package specifiers return ("", false, nil): external, not an error.
// A relative or aliased specifier that matches no project file returns a
// resolution error; the edge is retained by the caller with Resolved empty.
func (r *Resolver) Resolve(fromFile, specifier string) (resolved string, external bool, rerr *model.RecoveredError) {
	var base string
	switch {
	case strings.HasPrefix(specifier, "./"), strings.HasPrefix(specifier, "../"):
		base = path.Join(path.Dir(fromFile), specifier)
	default:
		alias := r.matchAlias(specifier)
		if alias == "" {
			return "", true, nil
		}
		rest := strings.TrimPrefix(specifier, alias)
		base = path.Join(r.aliasDir[alias], rest)
	}

	base = path.Clean(base)
	if base == ".." || strings.HasPrefix(base, "../") {
		return "", false, &model.RecoveredError{
			Kind: model.ResolutionError, File: fromFile,
			Message: "import " + specifier + ": escapes project root",
		}
	}

	if target := r.probe(base); target != "" {
		return target, false, nil
	}
	return "", false, &model.RecoveredError{
		Kind: model.ResolutionError, File: fromFile,
		Message: "import " + specifier + ": no matching project file",
	}
}

func (r *Resolver) matchAlias(specifier string) string {
	for _, prefix := range r.aliases {
		if strings.HasPrefix(specifier, prefix) {
			return prefix
		}
	}
	return ""
}

// probe tries the specifier as-is, then with each allowlisted extension, then
// as a directory with an index file.
func (r *Resolver) probe(base string) string {
	if r.cfg.HasExtension(base) {
		if _, ok := r.files[base]; ok {
			return base
		}
	}
	for _, ext := range r.cfg.Extensions {
		if _, ok := r.files[base+ext]; ok {
			return base + ext
		}
	}
	for _, stem := range r.cfg.BarrelNames {
		for _, ext := range r.cfg.Extensions {
			candidate := base + "/" + stem + ext
			if _, ok := r.files[candidate]; ok {
				return candidate
			}
		}
	}
	return ""
}
