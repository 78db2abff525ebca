package parse

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/typeorg/internal/model"
)

// File parses one source file and extracts its top-level exported type
// declarations, import edges and re-exports. Only top-level declarations are
// extracted: nested/local types cannot be imported and are irrelevant to
// cross-file organization.
//
// A file whose syntax tree contains errors contributes no declarations or
// edges; the returned RecoveredError says why. Import specifiers are left
// unresolved here (see the resolve package).
func File(ctx context.Context, sf model.SourceFile) (model.FileResult, *model.RecoveredError) {
	res := model.FileResult{File: sf.RelPath}

	if sf.Status == model.Failed {
		return res, &model.RecoveredError{Kind: model.IoError, File: sf.RelPath, Message: sf.FailReason}
	}
	if len(sf.Text) == 0 {
		return res, nil
	}

	parser := newParser(sf.RelPath)
	tree, err := parser.ParseCtx(ctx, nil, sf.Text)
	if err != nil {
		return res, &model.RecoveredError{Kind: model.ParseError, File: sf.RelPath, Message: err.Error()}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return res, &model.RecoveredError{Kind: model.ParseError, File: sf.RelPath, Message: "no syntax tree"}
	}
	if root.HasError() {
		return res, &model.RecoveredError{Kind: model.ParseError, File: sf.RelPath, Message: "syntax errors in file"}
	}

	e := extractor{source: sf.Text, file: sf.RelPath, res: &res}
	e.extractTopLevel(root)
	e.applyLocalExports()
	return res, nil
}

type extractor struct {
	source []byte
	file   string
	res    *model.FileResult

	// localExports collects names from bare `export { A, B }` clauses so a
	// declaration exported separately from its definition is still marked.
	localExports []string
}

func (e *extractor) extractTopLevel(root *sitter.Node) {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "import_statement":
			e.processImport(child)
		case "export_statement":
			e.processExport(child)
		case "interface_declaration":
			e.addDecl(e.processInterface(child, false))
		case "type_alias_declaration":
			e.addDecl(e.processTypeAlias(child, false))
		case "enum_declaration":
			e.addDecl(e.processEnum(child, false))
		}
	}
}

func (e *extractor) addDecl(d *model.TypeDeclaration) {
	if d != nil {
		e.res.Decls = append(e.res.Decls, *d)
	}
}

// processExport handles every `export` form: exported declarations,
// re-exports from another module, and bare local export clauses.
func (e *extractor) processExport(node *sitter.Node) {
	var source string
	var names []string
	star := false
	hasClause := false

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "interface_declaration":
			e.addDecl(e.processInterface(child, true))
		case "type_alias_declaration":
			e.addDecl(e.processTypeAlias(child, true))
		case "enum_declaration":
			e.addDecl(e.processEnum(child, true))
		case "export_clause":
			hasClause = true
			names = append(names, e.exportSpecifiers(child)...)
		case "*", "namespace_export":
			star = true
		case "string":
			source = stringContent(child, e.source)
		}
	}

	switch {
	case source != "":
		e.res.ReExports = append(e.res.ReExports, model.ReExport{
			File:      e.file,
			Specifier: source,
			Names:     names,
			Star:      star && len(names) == 0,
			Line:      int(node.StartPoint().Row) + 1,
		})
	case hasClause:
		e.localExports = append(e.localExports, names...)
	}
}

// exportSpecifiers returns the exported names of an export_clause. For
// `export { A as B }` the outward-facing name B is what a barrel provides.
func (e *extractor) exportSpecifiers(clause *sitter.Node) []string {
	var names []string
	for i := 0; i < int(clause.ChildCount()); i++ {
		spec := clause.Child(i)
		if spec.Type() != "export_specifier" {
			continue
		}
		var name, alias string
		for j := 0; j < int(spec.ChildCount()); j++ {
			c := spec.Child(j)
			if c.Type() == "identifier" || c.Type() == "type_identifier" {
				if name == "" {
					name = nodeText(c, e.source)
				} else {
					alias = nodeText(c, e.source)
				}
			}
		}
		if alias != "" {
			name = alias
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (e *extractor) applyLocalExports() {
	if len(e.localExports) == 0 {
		return
	}
	exported := make(map[string]struct{}, len(e.localExports))
	for _, n := range e.localExports {
		exported[n] = struct{}{}
	}
	for i := range e.res.Decls {
		if _, ok := exported[e.res.Decls[i].Name]; ok {
			e.res.Decls[i].Exported = true
		}
	}
}

func (e *extractor) processImport(node *sitter.Node) {
	var specifier string
	var names []string
	kind := model.NamedImport
	var defaultAlias, namespaceAlias string

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "type":
			kind = model.TypeOnlyImport
		case "import_clause":
			e.processImportClause(child, &names, &defaultAlias, &namespaceAlias)
		case "string":
			specifier = stringContent(child, e.source)
		}
	}
	if specifier == "" {
		return
	}

	line := int(node.StartPoint().Row) + 1
	for _, n := range names {
		e.res.Imports = append(e.res.Imports, model.ImportEdge{
			File: e.file, Symbol: n, Specifier: specifier, Kind: kind, Line: line,
		})
	}
	if defaultAlias != "" {
		e.res.Imports = append(e.res.Imports, model.ImportEdge{
			File: e.file, Symbol: "default", Specifier: specifier, Kind: model.DefaultImport, Line: line,
		})
	}
	if namespaceAlias != "" {
		e.res.Imports = append(e.res.Imports, model.ImportEdge{
			File: e.file, Symbol: "*", Specifier: specifier, Kind: model.NamespaceImport, Line: line,
		})
	}
}

func (e *extractor) processImportClause(clause *sitter.Node, names *[]string, defaultAlias, namespaceAlias *string) {
	for i := 0; i < int(clause.ChildCount()); i++ {
		child := clause.Child(i)
		switch child.Type() {
		case "identifier":
			*defaultAlias = nodeText(child, e.source)
		case "namespace_import":
			for j := 0; j < int(child.ChildCount()); j++ {
				if gc := child.Child(j); gc.Type() == "identifier" {
					*namespaceAlias = nodeText(gc, e.source)
				}
			}
		case "named_imports":
			for j := 0; j < int(child.ChildCount()); j++ {
				if spec := child.Child(j); spec.Type() == "import_specifier" {
					// The first identifier is the name in the source module;
					// an alias only renames it locally.
					for k := 0; k < int(spec.ChildCount()); k++ {
						c := spec.Child(k)
						if c.Type() == "identifier" || c.Type() == "type_identifier" {
							*names = append(*names, nodeText(c, e.source))
							break
						}
					}
				}
			}
		}
	}
}

func (e *extractor) processInterface(node *sitter.Node, exported bool) *model.TypeDeclaration {
	d := e.newDecl(node, model.Interface, exported)
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "type_identifier":
			d.Name = nodeText(child, e.source)
		case "type_parameters":
			d.TypeParams = e.typeParameters(child)
		case "extends_type_clause":
			d.Heritage = append(d.Heritage, e.heritageNames(child)...)
		case "interface_body", "object_type":
			d.Members = append(d.Members, e.objectMembers(child)...)
		}
	}
	if d.Name == "" {
		return nil
	}
	return d
}

func (e *extractor) processTypeAlias(node *sitter.Node, exported bool) *model.TypeDeclaration {
	d := e.newDecl(node, model.TypeAlias, exported)
	var value *sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "type_identifier":
			if d.Name == "" {
				d.Name = nodeText(child, e.source)
			} else if value == nil {
				value = child
			}
		case "type_parameters":
			d.TypeParams = e.typeParameters(child)
		case "type", "=", ";", "comment":
			// keyword and punctuation
		default:
			if d.Name != "" && value == nil {
				value = child
			}
		}
	}
	if d.Name == "" {
		return nil
	}
	e.aliasValue(d, value)
	return d
}

// aliasValue flattens a type alias body into members. Object literals get
// real members; intersections contribute their object members plus named
// operands as heritage; anything else becomes a single "=" pseudo-member so
// shape comparison still works.
func (e *extractor) aliasValue(d *model.TypeDeclaration, value *sitter.Node) {
	if value == nil {
		return
	}
	switch value.Type() {
	case "object_type":
		d.Members = append(d.Members, e.objectMembers(value)...)
	case "intersection_type":
		for i := 0; i < int(value.ChildCount()); i++ {
			child := value.Child(i)
			switch child.Type() {
			case "object_type":
				d.Members = append(d.Members, e.objectMembers(child)...)
			case "type_identifier":
				d.Heritage = append(d.Heritage, nodeText(child, e.source))
			case "generic_type":
				if base := genericBaseName(child, e.source); base != "" {
					d.Heritage = append(d.Heritage, base)
				}
			case "intersection_type":
				// Deeper chains stay unexpanded: the whole operand
				// participates as raw text.
				d.Members = append(d.Members, model.Member{Name: "=", Type: collapseWhitespace(nodeText(child, e.source))})
			}
		}
	default:
		d.Members = append(d.Members, model.Member{Name: "=", Type: collapseWhitespace(nodeText(value, e.source))})
	}
}

func (e *extractor) processEnum(node *sitter.Node, exported bool) *model.TypeDeclaration {
	d := e.newDecl(node, model.Enum, exported)
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier":
			d.Name = nodeText(child, e.source)
		case "enum_body":
			d.Members = append(d.Members, e.enumMembers(child)...)
		}
	}
	if d.Name == "" {
		return nil
	}
	return d
}

func (e *extractor) enumMembers(body *sitter.Node) []model.Member {
	var members []model.Member
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "property_identifier":
			members = append(members, model.Member{Name: nodeText(child, e.source)})
		case "enum_assignment":
			var name, value string
			for j := 0; j < int(child.ChildCount()); j++ {
				c := child.Child(j)
				switch c.Type() {
				case "property_identifier":
					name = nodeText(c, e.source)
				case "string", "number", "unary_expression":
					value = nodeText(c, e.source)
				}
			}
			if name != "" {
				members = append(members, model.Member{Name: name, Type: value})
			}
		}
	}
	return members
}

// objectMembers extracts (name, type-text) pairs from an interface body or
// object type literal. Optional members keep their "?" as part of the name so
// optionality stays part of the shape.
func (e *extractor) objectMembers(body *sitter.Node) []model.Member {
	var members []model.Member
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "property_signature":
			if m, ok := e.propertyMember(child); ok {
				members = append(members, m)
			}
		case "method_signature":
			if m, ok := e.methodMember(child); ok {
				members = append(members, m)
			}
		case "index_signature":
			members = append(members, model.Member{
				Name: "[index]",
				Type: collapseWhitespace(nodeText(child, e.source)),
			})
		}
	}
	return members
}

func (e *extractor) propertyMember(node *sitter.Node) (model.Member, bool) {
	var name, typeText string
	optional := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "property_identifier", "string", "number":
			name = nodeText(child, e.source)
		case "?":
			optional = true
		case "type_annotation":
			typeText = annotationText(child, e.source)
		}
	}
	if name == "" {
		return model.Member{}, false
	}
	if optional {
		name += "?"
	}
	return model.Member{Name: name, Type: typeText}, true
}

func (e *extractor) methodMember(node *sitter.Node) (model.Member, bool) {
	var name, params, ret string
	optional := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "property_identifier":
			name = nodeText(child, e.source)
		case "?":
			optional = true
		case "formal_parameters":
			params = collapseWhitespace(nodeText(child, e.source))
		case "type_annotation":
			ret = annotationText(child, e.source)
		}
	}
	if name == "" {
		return model.Member{}, false
	}
	if optional {
		name += "?"
	}
	return model.Member{Name: name, Type: params + "=>" + ret}, true
}

func (e *extractor) typeParameters(node *sitter.Node) []string {
	var params []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "type_parameter" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			if c := child.Child(j); c.Type() == "type_identifier" {
				params = append(params, nodeText(c, e.source))
				break
			}
		}
	}
	return params
}

// heritageNames pulls parent type names from an extends clause, dropping
// generic arguments: `extends Base<T>` contributes "Base".
func (e *extractor) heritageNames(clause *sitter.Node) []string {
	var parents []string
	for i := 0; i < int(clause.ChildCount()); i++ {
		child := clause.Child(i)
		switch child.Type() {
		case "type_identifier", "identifier":
			parents = append(parents, nodeText(child, e.source))
		case "generic_type":
			if base := genericBaseName(child, e.source); base != "" {
				parents = append(parents, base)
			}
		}
	}
	return parents
}

func genericBaseName(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c.Type() == "type_identifier" {
			return nodeText(c, source)
		}
	}
	return ""
}

func (e *extractor) newDecl(node *sitter.Node, kind model.DeclKind, exported bool) *model.TypeDeclaration {
	return &model.TypeDeclaration{
		File:     e.file,
		Kind:     kind,
		Exported: exported,
		Line:     int(node.StartPoint().Row) + 1,
		Col:      int(node.StartPoint().Column),
		EndLine:  int(node.EndPoint().Row) + 1,
	}
}

// annotationText strips the leading ":" from a type_annotation node.
func annotationText(node *sitter.Node, source []byte) string {
	text := nodeText(node, source)
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), ":"))
}

// stringContent returns a string literal's content without quotes.
func stringContent(node *sitter.Node, source []byte) string {
	text := nodeText(node, source)
	return strings.Trim(text, "\"'`")
}
