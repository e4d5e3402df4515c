package simplify

import (
	"github.com/funvibe/cppgo/internal/token"
)

// expandTypedefs implements §4.3 rule 3. A `typedef <type-spec> <name> ;`
// statement registers name's replacement sequence and is then removed from
// the list entirely (typedef declarations carry no information later
// phases need once every use site has been rewritten). Every subsequent
// occurrence of name is replaced by a copy of the type-spec tokens,
// tagged with OriginalTypedef for diagnostics.
func expandTypedefs(ctx *Context) bool {
	list := ctx.List
	changed := false

	for id := list.First(); id != token.None; {
		t := list.At(id)
		if t.Text != "typedef" {
			id = list.Next(id)
			continue
		}
		start := list.Next(id)
		end, name := scanTypedefDecl(list, start)
		if end == token.None || name == "" {
			id = list.Next(id)
			continue
		}
		var seq []tokenText
		for cur := start; cur != end; cur = list.Next(cur) {
			ct := list.At(cur)
			seq = append(seq, tokenText{Text: ct.Text, Kind: ct.Kind})
		}
		ctx.Typedefs[name] = seq

		// Erase the whole statement, "typedef" through the terminating ';'.
		stop := list.Next(end)
		if stop != token.None {
			stop = list.Next(stop)
		}
		erase := id
		for erase != stop && erase != token.None {
			toErase := erase
			erase = list.Next(erase)
			list.Erase(toErase)
		}
		changed = true
		id = stop
	}

	if len(ctx.Typedefs) == 0 {
		return changed
	}

	for id := list.First(); id != token.None; id = list.Next(id) {
		t := list.At(id)
		if t.Kind != token.Identifier || t.Flags.Has(token.FlagInserted) {
			continue
		}
		seq, ok := ctx.Typedefs[t.Text]
		if !ok || len(seq) == 0 {
			continue
		}
		if ctx.expansions[t.Text] >= ctx.Config.TypedefRecursionCap {
			continue
		}
		ctx.expansions[t.Text]++

		name := t.Text
		originalID := id
		at := originalID
		for _, repl := range seq {
			at = list.InsertAfter(at, repl.Text, repl.Kind)
			list.SetOriginalTypedef(at, name)
		}
		id = at
		list.Erase(originalID)
		changed = true
	}
	return changed
}

// scanTypedefDecl scans a type-spec followed by a single declarator name
// and ';', returning the declarator's token id as end (exclusive upper
// bound of the type-spec copy) and the declarator's text.
func scanTypedefDecl(list listLike, start token.ID) (end token.ID, name string) {
	cursor := start
	for cursor != token.None {
		t := list.At(cursor)
		if t.Text == ";" {
			return token.None, ""
		}
		nxt := list.Next(cursor)
		if nxt == token.None || list.At(nxt).Text == ";" {
			if t.Kind == token.Identifier {
				return cursor, t.Text
			}
			return token.None, ""
		}
		cursor = nxt
	}
	return token.None, ""
}

// listLike is the narrow read surface scanTypedefDecl needs.
type listLike interface {
	At(token.ID) *token.Token
	Next(token.ID) token.ID
}
