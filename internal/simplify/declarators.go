package simplify

import (
	"github.com/funvibe/cppgo/internal/token"
	"github.com/funvibe/cppgo/internal/tokenlist"
)

// splitDeclarators implements §4.3 rule 5: `T* a, b;` becomes `T* a; T b;`
// — each declarator keeps only the pointer/reference markers it wrote for
// itself, matching C's per-declarator pointer grammar. Only a bare
// fundamental-type or elaborated-type (`struct`/`class`/`union` Name)
// type-spec at statement start is recognized; a type named only by a
// plain identifier is left alone here; it was already expanded by
// expandTypedefs if it came from a typedef, and an undeclared class name
// isn't resolvable without C5, which simplify deliberately runs before.
func splitDeclarators(ctx *Context) bool {
	list := ctx.List
	changed := false
	for id := list.First(); id != token.None; {
		if !isStatementStart(list, id) {
			id = list.Next(id)
			continue
		}
		typeEnd := scanBareTypeSpec(list, id)
		if typeEnd == token.None {
			id = list.Next(id)
			continue
		}
		after := list.Next(typeEnd)
		if after == token.None || !looksLikeDeclaratorStart(list, after) {
			id = list.Next(id)
			continue
		}
		terminator, commas := findDeclStatementEnd(list, after)
		if terminator == token.None || len(commas) == 0 {
			id = list.Next(typeEnd)
			continue
		}
		typeTexts := collectTokenCopies(list, id, typeEnd)
		for _, comma := range commas {
			ct := list.At(comma)
			ct.Text = ";"
			ct.Kind = token.Punctuator
			at := comma
			for _, tc := range typeTexts {
				at = list.InsertAfter(at, tc.Text, tc.Kind)
				list.SetFlag(at, token.FlagInserted)
			}
		}
		changed = true
		id = list.Next(typeEnd)
	}
	return changed
}

// isStatementStart reports whether id sits where a new statement or
// declaration could begin: the very first token, or immediately after
// `;`, `{`, `}`, or a label's `:`.
func isStatementStart(list *tokenlist.List, id token.ID) bool {
	prev := list.Prev(id)
	if prev == token.None {
		return true
	}
	switch list.At(prev).Text {
	case ";", "{", "}", ":":
		return true
	}
	return false
}

// scanBareTypeSpec recognizes a contiguous fundamental-type keyword run
// (e.g. "unsigned long long") or an elaborated-type keyword plus its name
// (e.g. "struct Foo"), returning the last token of the type-spec, or
// token.None if id does not begin one.
func scanBareTypeSpec(list *tokenlist.List, id token.ID) token.ID {
	t := list.At(id)
	switch t.Text {
	case "struct", "class", "union", "enum":
		next := list.Next(id)
		if next != token.None && list.At(next).Kind == token.Identifier {
			return next
		}
		return token.None
	}
	if !tokenlist.FundamentalTypes[t.Text] {
		return token.None
	}
	end := id
	for {
		next := list.Next(end)
		if next == token.None || !tokenlist.FundamentalTypes[list.At(next).Text] {
			return end
		}
		end = next
	}
}

func looksLikeDeclaratorStart(list *tokenlist.List, id token.ID) bool {
	t := list.At(id)
	switch t.Text {
	case "*", "&", "const":
		return true
	}
	return t.Kind == token.Identifier
}

// findDeclStatementEnd scans forward from start for the terminating ';',
// tracking bracket nesting via Link so commas inside `(...)`/`[...]`/
// `{...}` (call arguments, array dims, brace-init) are not mistaken for
// declarator separators. Returns the terminator and every depth-0 comma
// found before it.
func findDeclStatementEnd(list *tokenlist.List, start token.ID) (token.ID, []token.ID) {
	var commas []token.ID
	depth := 0
	for id := start; id != token.None; id = list.Next(id) {
		t := list.At(id)
		if depth == 0 && t.Text == ";" {
			return id, commas
		}
		if depth == 0 && t.Text == "," {
			commas = append(commas, id)
			continue
		}
		if token.IsOpenBracket(t.Text) {
			depth++
		} else if isCloseBracket(t.Text) {
			if depth > 0 {
				depth--
			}
		}
	}
	return token.None, nil
}

func isCloseBracket(text string) bool {
	switch text {
	case ")", "]", "}", ">":
		return true
	}
	return false
}

func collectTokenCopies(list *tokenlist.List, start, end token.ID) []tokenText {
	var out []tokenText
	for id := start; ; id = list.Next(id) {
		t := list.At(id)
		out = append(out, tokenText{Text: t.Text, Kind: t.Kind})
		if id == end {
			break
		}
	}
	return out
}
