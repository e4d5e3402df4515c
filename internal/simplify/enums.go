package simplify

import "github.com/funvibe/cppgo/internal/token"

// resolveEnumMembers implements §4.3 rule 9: within each `enum { A, B = 5,
// C };` (or `enum Name { ... };`), every occurrence of a member name in
// the list, the declaration site included, is replaced by its resolved
// integer value, following C's
// "previous value + 1, or the explicit initializer" rule. Only literal
// initializers are resolved; an initializer that is itself an unresolved
// expression leaves the whole enum's subsequent members unresolved from
// that point on (matching C's own sequential dependency).
func resolveEnumMembers(ctx *Context) bool {
	list := ctx.List
	changed := false
	values := make(map[string]int)

	for id := list.First(); id != token.None; id = list.Next(id) {
		if list.At(id).Text != "enum" {
			continue
		}
		open := findEnumBraceOpen(list, id)
		if open == token.None {
			continue
		}
		close := list.Link(open)
		if close == token.None {
			continue
		}
		next := 0
		resolved := true
		cursor := list.Next(open)
		for cursor != close && cursor != token.None {
			t := list.At(cursor)
			if t.Kind != token.Identifier {
				cursor = list.Next(cursor)
				continue
			}
			name := t.Text
			after := list.Next(cursor)
			val := next
			ok := true
			if after != close && list.At(after).Text == "=" {
				litTok := list.Next(after)
				n, lok := parseDecimal(list.At(litTok).Text)
				if lok {
					val = n
				} else {
					ok = false
				}
				cursor = list.Next(litTok)
			} else {
				cursor = after
			}
			if !ok {
				resolved = false // unresolved chain breaks sequential inference
			}
			if resolved {
				values[name] = val
				next = val + 1
			}
			if cursor != close && list.At(cursor).Text == "," {
				cursor = list.Next(cursor)
			}
		}
	}

	if len(values) == 0 {
		return changed
	}
	for id := list.First(); id != token.None; id = list.Next(id) {
		t := list.At(id)
		if t.Kind != token.Identifier || t.Flags.Has(token.FlagInserted) {
			continue
		}
		if v, ok := values[t.Text]; ok {
			lit := list.InsertAfter(id, itoa(v), token.Number)
			list.SetOriginalTypedef(lit, t.Text)
			list.SetFlag(lit, token.FlagInserted)
			list.Erase(id)
			id = lit
			changed = true
		}
	}
	return changed
}

// findEnumBraceOpen finds the '{' belonging to an `enum [class] [Name] {`
// header starting at the `enum` keyword.
func findEnumBraceOpen(list listLike, enumTok token.ID) token.ID {
	for id := list.Next(enumTok); id != token.None; id = list.Next(id) {
		t := list.At(id)
		if t.Text == "{" {
			return id
		}
		if t.Text == ";" {
			return token.None
		}
	}
	return token.None
}
