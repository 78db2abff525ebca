// Package parse extracts type declarations and import edges from
// TypeScript-family source files using tree-sitter.
package parse

import (
	"path"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// languageFor picks the grammar for a file. TSX needs its own grammar; plain
// TypeScript covers .ts, .mts and .cts.
func languageFor(relPath string) *sitter.Language {
	if path.Ext(relPath) == ".tsx" {
		return tsx.GetLanguage()
	}
	return typescript.GetLanguage()
}

// newParser creates a fresh parser for a file. Each goroutine must use its
// own parser (not thread-safe).
func newParser(relPath string) *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(languageFor(relPath))
	return p
}

// nodeText returns the source text of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// collapseWhitespace replaces runs of whitespace with a single space and trims.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
