// Package analysis orchestrates one whole-project run: scan, parallel
// per-file parsing, the graph fan-in, and the rule passes. This is the
// engine's single entry point; it emits no text, only data.
package analysis

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/phobologic/typeorg/internal/classify"
	"github.com/phobologic/typeorg/internal/config"
	"github.com/phobologic/typeorg/internal/graph"
	"github.com/phobologic/typeorg/internal/model"
	"github.com/phobologic/typeorg/internal/parse"
	"github.com/phobologic/typeorg/internal/resolve"
	"github.com/phobologic/typeorg/internal/rules"
	"github.com/phobologic/typeorg/internal/scan"
)

// Run executes one batch analysis. Only configuration problems and an
// unreadable project root are fatal; every per-file failure degrades to a
// RecoveredError in the result. A cancelled context returns ctx.Err() with
// no partial diagnostics, since the cross-file rules are only meaningful
// over the complete graph.
func Run(ctx context.Context, cfg *config.Config) (*model.AnalysisResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cls, err := classify.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	scanner, err := scan.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	files, err := scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}

	results, recovered, err := parseAll(ctx, files)
	if err != nil {
		return nil, err
	}

	resolver := resolve.New(cfg, files)
	g := graph.Build(results, resolver)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	diags := rules.RunAll(g, cls, cfg)
	model.SortDiagnostics(diags)

	recovered = append(recovered, g.Errors...)
	model.SortRecovered(recovered)

	return &model.AnalysisResult{
		Diagnostics: diags,
		Errors:      recovered,
		FileCount:   len(files),
		DeclCount:   len(g.Order),
	}, nil
}

// parseAll fans the files out over a bounded worker pool. Each worker owns
// its file's text and output, so no locking is needed; cancellation is
// checked before each file.
func parseAll(ctx context.Context, files []model.SourceFile) ([]model.FileResult, []model.RecoveredError, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	type slot struct {
		res  model.FileResult
		rerr *model.RecoveredError
	}

	work := make(chan int, len(files))
	slots := make([]slot, len(files))

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				if ctx.Err() != nil {
					return
				}
				res, rerr := parse.File(ctx, files[idx])
				slots[idx] = slot{res: res, rerr: rerr}
			}
		}()
	}

	for i := range files {
		work <- i
	}
	close(work)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// Collect in scan order so downstream phases see a deterministic
	// sequence regardless of worker scheduling.
	var results []model.FileResult
	var recovered []model.RecoveredError
	for i := range files {
		s := &slots[i]
		if s.rerr != nil {
			recovered = append(recovered, *s.rerr)
			continue // failed files are excluded from further phases
		}
		results = append(results, s.res)
	}
	return results, recovered, nil
}
