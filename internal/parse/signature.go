package parse

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/phobologic/typeorg/internal/model"
)

// Signature computes the structural signature of a declaration. Two
// declarations are structurally equal iff their signatures match, independent
// of name, file or member order in source.
//
// resolve looks a heritage name up in the whole-project declaration table;
// parents found there are expanded one level (child members win on name
// collision). Unresolved parents stay in the signature by name, so deeper or
// external chains are never silently mis-signed. Passing a nil resolve skips
// expansion entirely.
func Signature(d *model.TypeDeclaration, resolve func(name string) *model.TypeDeclaration) string {
	members := normalizedMembers(d)
	var unresolved []string

	for _, parent := range d.Heritage {
		var p *model.TypeDeclaration
		if resolve != nil {
			p = resolve(parent)
		}
		if p == nil || len(p.Members) == 0 {
			unresolved = append(unresolved, parent)
			continue
		}
		for name, typ := range normalizedMembers(p) {
			if _, taken := members[name]; !taken {
				members[name] = typ
			}
		}
	}

	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)
	sort.Strings(unresolved)

	var b strings.Builder
	fmt.Fprintf(&b, "kind:%s|arity:%d", d.Kind, len(d.TypeParams))
	for _, name := range names {
		fmt.Fprintf(&b, "|m:%s=%s", name, members[name])
	}
	for _, parent := range unresolved {
		fmt.Fprintf(&b, "|x:%s", parent)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func normalizedMembers(d *model.TypeDeclaration) map[string]string {
	members := make(map[string]string, len(d.Members))
	for _, m := range d.Members {
		if _, taken := members[m.Name]; taken {
			continue
		}
		members[m.Name] = NormalizeType(m.Type, d.TypeParams)
	}
	return members
}

// NormalizeType canonicalizes a member type text: whitespace is stripped,
// generic parameter names become positional placeholders (%1, %2, ...) so
// Box<T> and Box<U> compare equal, and top-level union alternatives are
// sorted alphabetically.
func NormalizeType(typeText string, typeParams []string) string {
	t := whitespaceRe.ReplaceAllString(typeText, "")
	for i, param := range typeParams {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(param) + `\b`)
		if err != nil {
			continue
		}
		t = re.ReplaceAllString(t, fmt.Sprintf("%%%d", i+1))
	}
	alts := splitTopLevel(t, '|')
	if len(alts) > 1 {
		sort.Strings(alts)
		t = strings.Join(alts, "|")
	}
	return t
}

// splitTopLevel splits s on sep, ignoring separators nested inside <>, (),
// [] or {} pairs.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '[', '{':
			depth++
		case '>', ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
