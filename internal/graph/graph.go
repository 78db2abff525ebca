// Package graph merges per-file parse results into one whole-project symbol
// model. Build is the single synchronization point in the pipeline: all prior
// work is parallelizable per file, and everything downstream reads the
// resulting SymbolGraph without mutating it.
package graph

import (
	"fmt"
	"sort"

	dgraph "github.com/dominikbraun/graph"

	"github.com/phobologic/typeorg/internal/model"
	"github.com/phobologic/typeorg/internal/parse"
	"github.com/phobologic/typeorg/internal/resolve"
)

// DeclKey identifies a declaration by owning file and name.
type DeclKey struct {
	File string
	Name string
}

func (k DeclKey) String() string {
	return k.File + "#" + k.Name
}

// SymbolGraph is the aggregate whole-project model. Built once per run,
// read-only for every downstream phase.
type SymbolGraph struct {
	// Decls maps (file, name) to the declaration. Order lists the same keys
	// sorted by file then name for deterministic iteration.
	Decls map[DeclKey]*model.TypeDeclaration
	Order []DeclKey

	// Usage maps a declaration to the set of distinct files importing it,
	// with imports through barrels attributed to the real declaration.
	// External-package importers never appear here.
	Usage map[DeclKey]map[string]struct{}

	// ReExports groups re-export statements by declaring file.
	ReExports map[string][]model.ReExport

	// Edges holds every import edge, resolved where possible. External edges
	// are retained for completeness/debugging.
	Edges []model.ImportEdge

	// Files is the file-level import graph (importing file -> imported file).
	Files dgraph.Graph[string, string]

	// FileList is every successfully parsed file, sorted by relative path.
	FileList []string

	// Errors are recovered resolution/matching failures encountered during
	// the build. Non-fatal by definition.
	Errors []model.RecoveredError
}

// maxReExportHops bounds barrel chasing so cyclic re-exports terminate.
const maxReExportHops = 16

// Build reduces the per-file results into one SymbolGraph.
func Build(results []model.FileResult, resolver *resolve.Resolver) *SymbolGraph {
	g := &SymbolGraph{
		Decls:     make(map[DeclKey]*model.TypeDeclaration),
		Usage:     make(map[DeclKey]map[string]struct{}),
		ReExports: make(map[string][]model.ReExport),
		Files:     dgraph.New(dgraph.StringHash, dgraph.Directed()),
	}

	// Declaration table first: edge matching needs the complete table.
	byName := make(map[string][]DeclKey)
	for i := range results {
		fr := &results[i]
		_ = g.Files.AddVertex(fr.File)
		g.FileList = append(g.FileList, fr.File)
		for j := range fr.Decls {
			d := &fr.Decls[j]
			key := DeclKey{File: d.File, Name: d.Name}
			if _, dup := g.Decls[key]; dup {
				continue // same name declared twice in one file; first wins
			}
			g.Decls[key] = d
			g.Order = append(g.Order, key)
			byName[d.Name] = append(byName[d.Name], key)
		}
	}
	sort.Strings(g.FileList)
	sort.Slice(g.Order, func(i, j int) bool {
		if g.Order[i].File != g.Order[j].File {
			return g.Order[i].File < g.Order[j].File
		}
		return g.Order[i].Name < g.Order[j].Name
	})

	// A specifier that fails to resolve is reported once per importing file,
	// not once per symbol named on it.
	failedSpec := make(map[string]struct{})
	recordFailure := func(file, specifier string, rerr *model.RecoveredError) {
		k := file + "\x00" + specifier
		if _, seen := failedSpec[k]; seen {
			return
		}
		failedSpec[k] = struct{}{}
		g.Errors = append(g.Errors, *rerr)
	}

	// Resolve re-exports before edges: edge matching chases them.
	for i := range results {
		fr := &results[i]
		for _, re := range fr.ReExports {
			resolved, external, rerr := resolver.Resolve(re.File, re.Specifier)
			if rerr != nil {
				recordFailure(re.File, re.Specifier, rerr)
			}
			if !external {
				re.Resolved = resolved
			}
			if re.Resolved != "" {
				_ = g.Files.AddEdge(re.File, re.Resolved)
			}
			g.ReExports[re.File] = append(g.ReExports[re.File], re)
		}
	}

	// Resolve and match import edges.
	for i := range results {
		fr := &results[i]
		for _, edge := range fr.Imports {
			resolved, external, rerr := resolver.Resolve(edge.File, edge.Specifier)
			if rerr != nil {
				recordFailure(edge.File, edge.Specifier, rerr)
			}
			if !external {
				edge.Resolved = resolved
			}
			g.Edges = append(g.Edges, edge)

			if edge.Resolved == "" {
				continue
			}
			_ = g.Files.AddEdge(edge.File, edge.Resolved)

			if edge.Kind != model.NamedImport && edge.Kind != model.TypeOnlyImport {
				continue
			}
			key, ok := g.chase(edge.Resolved, edge.Symbol)
			if !ok {
				g.Errors = append(g.Errors, model.RecoveredError{
					Kind: model.ResolutionError, File: edge.File,
					Message: fmt.Sprintf("import of unknown symbol %s from %s", edge.Symbol, edge.Resolved),
				})
				continue
			}
			if key.File == edge.File {
				continue // a file importing its own declaration via a barrel
			}
			if g.Usage[key] == nil {
				g.Usage[key] = make(map[string]struct{})
			}
			g.Usage[key][edge.File] = struct{}{}
		}
	}

	g.finalizeSignatures(byName)
	model.SortRecovered(g.Errors)
	return g
}

// chase follows re-exports from file until it finds the declaration actually
// providing symbol. Bounded and cycle-safe.
func (g *SymbolGraph) chase(file, symbol string) (DeclKey, bool) {
	visited := make(map[string]struct{})
	current := file
	for hop := 0; hop < maxReExportHops; hop++ {
		if _, seen := visited[current]; seen {
			return DeclKey{}, false
		}
		visited[current] = struct{}{}

		key := DeclKey{File: current, Name: symbol}
		if d, ok := g.Decls[key]; ok && d.Exported {
			return key, true
		}

		next := ""
		for _, re := range g.ReExports[current] {
			if re.Resolved == "" {
				continue
			}
			if re.Star {
				// A star re-export provides the symbol only if the target
				// (transitively) does; recurse with the shared visited set.
				if k, ok := g.chaseFrom(re.Resolved, symbol, visited, hop+1); ok {
					return k, true
				}
				continue
			}
			for _, name := range re.Names {
				if name == symbol {
					next = re.Resolved
					break
				}
			}
			if next != "" {
				break
			}
		}
		if next == "" {
			return DeclKey{}, false
		}
		current = next
	}
	return DeclKey{}, false
}

func (g *SymbolGraph) chaseFrom(file, symbol string, visited map[string]struct{}, hop int) (DeclKey, bool) {
	if hop >= maxReExportHops {
		return DeclKey{}, false
	}
	if _, seen := visited[file]; seen {
		return DeclKey{}, false
	}
	visited[file] = struct{}{}

	key := DeclKey{File: file, Name: symbol}
	if d, ok := g.Decls[key]; ok && d.Exported {
		return key, true
	}
	for _, re := range g.ReExports[file] {
		if re.Resolved == "" {
			continue
		}
		if re.Star {
			if k, ok := g.chaseFrom(re.Resolved, symbol, visited, hop+1); ok {
				return k, true
			}
			continue
		}
		for _, name := range re.Names {
			if name == symbol {
				if k, ok := g.chaseFrom(re.Resolved, symbol, visited, hop+1); ok {
					return k, true
				}
			}
		}
	}
	return DeclKey{}, false
}

// finalizeSignatures computes structural signatures with one-level heritage
// expansion. A parent resolves same-file first, then by unique global name;
// ambiguous names stay unexpanded so the result never depends on map order.
func (g *SymbolGraph) finalizeSignatures(byName map[string][]DeclKey) {
	for _, key := range g.Order {
		d := g.Decls[key]
		d.Signature = parse.Signature(d, func(name string) *model.TypeDeclaration {
			if p, ok := g.Decls[DeclKey{File: d.File, Name: name}]; ok && p != d {
				return p
			}
			if keys := byName[name]; len(keys) == 1 && keys[0] != key {
				return g.Decls[keys[0]]
			}
			return nil
		})
	}
}

// Importers returns the sorted distinct importing files of a declaration.
func (g *SymbolGraph) Importers(key DeclKey) []string {
	set := g.Usage[key]
	if len(set) == 0 {
		return nil
	}
	files := make([]string, 0, len(set))
	for f := range set {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}
