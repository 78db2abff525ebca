package rules

import (
	"fmt"
	"sort"

	"github.com/phobologic/typeorg/internal/classify"
	"github.com/phobologic/typeorg/internal/config"
	"github.com/phobologic/typeorg/internal/graph"
	"github.com/phobologic/typeorg/internal/model"
)

// duplicateRule groups exported declarations by structural signature.
// Same shape + same name in different files is a high-confidence duplicate;
// same shape under different names is only a candidate, never auto-merged.
// Declarations living in barrel files are excluded so a declaration is not
// flagged against its own re-export.
type duplicateRule struct{}

func (duplicateRule) Name() string { return "duplicate" }

func (duplicateRule) Run(g *graph.SymbolGraph, _ *classify.Classifier, cfg *config.Config) []model.Diagnostic {
	groups := make(map[string][]graph.DeclKey)
	for _, key := range g.Order {
		d := g.Decls[key]
		if !d.Exported || cfg.IsBarrel(d.File) {
			continue
		}
		groups[d.Signature] = append(groups[d.Signature], key)
	}

	sigs := make([]string, 0, len(groups))
	for sig := range groups {
		if len(groups[sig]) >= 2 {
			sigs = append(sigs, sig)
		}
	}
	sort.Strings(sigs)

	var diags []model.Diagnostic
	for _, sig := range sigs {
		keys := groups[sig]

		byName := make(map[string][]graph.DeclKey)
		var names []string
		for _, key := range keys {
			if len(byName[key.Name]) == 0 {
				names = append(names, key.Name)
			}
			byName[key.Name] = append(byName[key.Name], key)
		}
		sort.Strings(names)

		for _, name := range names {
			same := byName[name]
			if len(same) < 2 {
				continue
			}
			primary := g.Decls[same[0]]
			var related []model.Location
			var others []string
			for _, key := range same[1:] {
				d := g.Decls[key]
				related = append(related, model.Location{File: d.File, Line: d.Line})
				others = append(others, d.File)
			}
			diags = append(diags, model.Diagnostic{
				Kind:     model.Duplicate,
				Severity: model.SeverityError,
				File:     primary.File,
				Line:     primary.Line,
				Name:     name,
				Related:  related,
				Message: fmt.Sprintf("%s %q is declared with an identical shape in %s",
					primary.Kind, name, joinFiles(others)),
				Suggestion: fmt.Sprintf("keep a single declaration of %q and import it everywhere else", name),
			})
		}

		if len(names) >= 2 {
			primary := g.Decls[byName[names[0]][0]]
			var related []model.Location
			var others []string
			for _, name := range names[1:] {
				d := g.Decls[byName[name][0]]
				related = append(related, model.Location{File: d.File, Line: d.Line})
				others = append(others, fmt.Sprintf("%s (%s)", name, d.File))
			}
			diags = append(diags, model.Diagnostic{
				Kind:     model.CandidateDuplicate,
				Severity: model.SeverityInfo,
				File:     primary.File,
				Line:     primary.Line,
				Name:     primary.Name,
				Related:  related,
				Message: fmt.Sprintf("%q has the same shape as %s",
					primary.Name, joinFiles(others)),
				Suggestion: "review whether these types describe the same concept and should be unified",
			})
		}
	}
	return diags
}

func joinFiles(files []string) string {
	switch len(files) {
	case 0:
		return ""
	case 1:
		return files[0]
	}
	s := files[0]
	for _, f := range files[1 : len(files)-1] {
		s += ", " + f
	}
	return s + " and " + files[len(files)-1]
}
