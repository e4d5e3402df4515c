package simplify

import (
	"github.com/funvibe/cppgo/internal/token"
)

// foldQualifiedNames implements §4.3 rule 2: `a::b::c` becomes a single
// token with text "a::b::c" for lookup purposes, while the constituent
// tokens are erased (their text survives only in the folded token; nothing
// preserves the originals separately since qualified names never carry
// diagnostic-visible rewrites the way typedefs do).
func foldQualifiedNames(ctx *Context) bool {
	list := ctx.List
	changed := false
	id := list.First()
	for id != token.None {
		t := list.At(id)
		if t.Kind != token.Identifier && t.Kind != token.Keyword {
			id = list.Next(id)
			continue
		}
		next := list.Next(id)
		if next == token.None || list.At(next).Text != "::" {
			id = list.Next(id)
			continue
		}
		// Walk the whole a::b::c chain.
		folded := t.Text
		last := id
		cursor := next
		for cursor != token.None && list.At(cursor).Text == "::" {
			nameTok := list.Next(cursor)
			if nameTok == token.None || (list.At(nameTok).Kind != token.Identifier && list.At(nameTok).Kind != token.Keyword) {
				break
			}
			folded += "::" + list.At(nameTok).Text
			last = nameTok
			cursor = list.Next(nameTok)
		}
		if last == id {
			id = list.Next(id)
			continue
		}
		list.At(id).Text = folded
		after := list.Next(last)
		erase := list.Next(id)
		for erase != after {
			toErase := erase
			erase = list.Next(erase)
			list.Erase(toErase)
		}
		changed = true
		id = list.Next(id)
	}
	return changed
}
