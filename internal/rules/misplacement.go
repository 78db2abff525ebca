package rules

import (
	"fmt"

	"github.com/phobologic/typeorg/internal/classify"
	"github.com/phobologic/typeorg/internal/config"
	"github.com/phobologic/typeorg/internal/graph"
	"github.com/phobologic/typeorg/internal/model"
)

// misplacementRule compares each categorized declaration's directory against
// the category's expected directory. Misplacement is about convention, not
// reuse: a declaration used by zero or one files is still eligible, and the
// reusability rule may fire on the same declaration independently.
type misplacementRule struct{}

func (misplacementRule) Name() string { return "misplacement" }

func (misplacementRule) Run(g *graph.SymbolGraph, cls *classify.Classifier, cfg *config.Config) []model.Diagnostic {
	var diags []model.Diagnostic
	for _, key := range g.Order {
		d := g.Decls[key]
		if !d.Exported || cfg.IsBarrel(d.File) {
			continue
		}
		cat := cls.Classify(d)
		if cat == model.Uncategorized {
			continue
		}
		expected := cls.ExpectedDir(cat)
		if expected == "" || cls.InExpectedDir(d, cat) {
			continue
		}
		diags = append(diags, model.Diagnostic{
			Kind:     model.Misplaced,
			Severity: model.SeverityWarning,
			File:     d.File,
			Line:     d.Line,
			Name:     d.Name,
			Message: fmt.Sprintf("%s %q is categorized as %s but is declared outside %s",
				d.Kind, d.Name, cat, expected),
			Suggestion: fmt.Sprintf("declare %q under %s", d.Name, expected),
		})
	}
	return diags
}
