package rules

import (
	"fmt"
	"sort"

	dgraph "github.com/dominikbraun/graph"

	"github.com/phobologic/typeorg/internal/classify"
	"github.com/phobologic/typeorg/internal/config"
	"github.com/phobologic/typeorg/internal/graph"
	"github.com/phobologic/typeorg/internal/model"
)

// cycleRule flags groups of files that import each other. Cycles are where
// inline type declarations tend to accumulate, since moving the shared types
// out is exactly what breaks the cycle.
type cycleRule struct{}

func (cycleRule) Name() string { return "cycle" }

func (cycleRule) Run(g *graph.SymbolGraph, _ *classify.Classifier, _ *config.Config) []model.Diagnostic {
	components, err := dgraph.StronglyConnectedComponents(g.Files)
	if err != nil {
		return nil
	}

	var diags []model.Diagnostic
	for _, component := range components {
		if len(component) < 2 {
			continue
		}
		sort.Strings(component)
		var related []model.Location
		for _, file := range component[1:] {
			related = append(related, model.Location{File: file, Line: 1})
		}
		diags = append(diags, model.Diagnostic{
			Kind:     model.ImportCycle,
			Severity: model.SeverityInfo,
			File:     component[0],
			Line:     1,
			Related:  related,
			Message: fmt.Sprintf("%d files import each other: %s",
				len(component), joinFiles(component)),
			Suggestion: "move the types shared across the cycle into their own module",
		})
	}

	// Component discovery order depends on graph internals.
	sort.Slice(diags, func(i, j int) bool {
		return diags[i].File < diags[j].File
	})
	return diags
}
