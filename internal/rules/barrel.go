package rules

import (
	"fmt"
	"path"
	"sort"

	"github.com/phobologic/typeorg/internal/classify"
	"github.com/phobologic/typeorg/internal/config"
	"github.com/phobologic/typeorg/internal/graph"
	"github.com/phobologic/typeorg/internal/model"
)

// barrelRule verifies aggregator (index) files re-export every exported
// declaration of their direct sibling files. Subdirectories are their own
// aggregator's concern and never contribute to the parent's expected set.
type barrelRule struct{}

func (barrelRule) Name() string { return "barrel" }

func (barrelRule) Run(g *graph.SymbolGraph, _ *classify.Classifier, cfg *config.Config) []model.Diagnostic {
	byDir := make(map[string][]string)
	for _, file := range g.FileList {
		byDir[path.Dir(file)] = append(byDir[path.Dir(file)], file)
	}

	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var diags []model.Diagnostic
	for _, dir := range dirs {
		var barrel string
		for _, file := range byDir[dir] {
			if cfg.IsBarrel(file) {
				barrel = file
				break
			}
		}
		if barrel == "" {
			continue
		}

		actual := actualExports(g, barrel)
		for _, sibling := range byDir[dir] {
			if sibling == barrel || cfg.IsBarrel(sibling) {
				continue
			}
			for _, key := range g.Order {
				if key.File != sibling {
					continue
				}
				d := g.Decls[key]
				if !d.Exported {
					continue
				}
				if _, ok := actual[d.Name]; ok {
					continue
				}
				diags = append(diags, model.Diagnostic{
					Kind:     model.MissingBarrelExport,
					Severity: model.SeverityWarning,
					File:     d.File,
					Line:     d.Line,
					Name:     d.Name,
					Related:  []model.Location{{File: barrel, Line: 1}},
					Message: fmt.Sprintf("%s %q is exported by %s but not re-exported from %s",
						d.Kind, d.Name, d.File, barrel),
					Suggestion: fmt.Sprintf("add %q to the exports of %s", d.Name, barrel),
				})
			}
		}
	}
	return diags
}

// actualExports collects every name the aggregator provides: its own
// exported declarations, named re-exports, and star re-exports expanded one
// level deep.
func actualExports(g *graph.SymbolGraph, barrel string) map[string]struct{} {
	actual := make(map[string]struct{})
	for _, key := range g.Order {
		if key.File == barrel && g.Decls[key].Exported {
			actual[key.Name] = struct{}{}
		}
	}
	for _, re := range g.ReExports[barrel] {
		for _, name := range re.Names {
			actual[name] = struct{}{}
		}
		if re.Star && re.Resolved != "" {
			for _, key := range g.Order {
				if key.File == re.Resolved && g.Decls[key].Exported {
					actual[key.Name] = struct{}{}
				}
			}
		}
	}
	return actual
}
