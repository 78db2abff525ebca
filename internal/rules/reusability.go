package rules

import (
	"fmt"

	"github.com/phobologic/typeorg/internal/classify"
	"github.com/phobologic/typeorg/internal/config"
	"github.com/phobologic/typeorg/internal/graph"
	"github.com/phobologic/typeorg/internal/model"
)

// reusabilityThreshold is the minimum number of distinct importing files
// before a declaration is considered shared enough to centralize.
const reusabilityThreshold = 2

// reusabilityRule flags declarations imported by two or more distinct files
// that still live outside their category's expected directory.
type reusabilityRule struct{}

func (reusabilityRule) Name() string { return "reusability" }

func (reusabilityRule) Run(g *graph.SymbolGraph, cls *classify.Classifier, _ *config.Config) []model.Diagnostic {
	var diags []model.Diagnostic
	for _, key := range g.Order {
		d := g.Decls[key]
		importers := g.Importers(key)
		if len(importers) < reusabilityThreshold {
			continue
		}
		cat := cls.Classify(d)
		expected := cls.ExpectedDir(cat)
		if expected == "" || cls.InExpectedDir(d, cat) {
			continue
		}
		diags = append(diags, model.Diagnostic{
			Kind:     model.ShouldCentralize,
			Severity: model.SeverityWarning,
			File:     d.File,
			Line:     d.Line,
			Name:     d.Name,
			Message: fmt.Sprintf("%s %q is imported by %d files but lives outside %s",
				d.Kind, d.Name, len(importers), expected),
			Suggestion: fmt.Sprintf("move %q to %s and re-export it from the barrel", d.Name, expected),
		})
	}
	return diags
}
