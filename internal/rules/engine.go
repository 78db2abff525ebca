// Package rules runs the independent analysis rules against the symbol
// graph. Every rule is a read-only consumer of one immutable snapshot, so
// rules run concurrently without locking.
package rules

import (
	"sync"

	"github.com/phobologic/typeorg/internal/classify"
	"github.com/phobologic/typeorg/internal/config"
	"github.com/phobologic/typeorg/internal/graph"
	"github.com/phobologic/typeorg/internal/model"
)

// Rule is one analysis pass. Run must not mutate the graph.
type Rule interface {
	Name() string
	Run(g *graph.SymbolGraph, cls *classify.Classifier, cfg *config.Config) []model.Diagnostic
}

// All returns the built-in rule set.
func All() []Rule {
	return []Rule{
		duplicateRule{},
		reusabilityRule{},
		misplacementRule{},
		barrelRule{},
		cycleRule{},
	}
}

// RunAll fans the rules out over the graph and concatenates their output in
// fixed rule order. Final ordering is the orchestrator's job.
func RunAll(g *graph.SymbolGraph, cls *classify.Classifier, cfg *config.Config) []model.Diagnostic {
	ruleSet := All()
	out := make([][]model.Diagnostic, len(ruleSet))

	var wg sync.WaitGroup
	for i, r := range ruleSet {
		i, r := i, r
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i] = r.Run(g, cls, cfg)
		}()
	}
	wg.Wait()

	var diags []model.Diagnostic
	for _, d := range out {
		diags = append(diags, d...)
	}
	return diags
}
