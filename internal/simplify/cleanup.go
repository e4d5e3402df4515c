package simplify

import "github.com/funvibe/cppgo/internal/token"

// removeDeadTokens implements §4.3 rule 11: drop `register`, remove empty
// statements (`;` immediately after another `;`, `{`, or a label), and
// drop unreachable code that follows a block-terminating `return`/`break`/
// `continue`/`throw` up to the enclosing `}` (or up to the next case,
// default or goto label). No diagnostic is emitted for the dropped code,
// here or by any check in internal/rules. `register` is never given a
// Variable slot by C5, and `auto` keeps its modern C++11 type-deduction
// meaning rather than being treated as the (obsolete) storage-class
// keyword rule 11 names, since stripping it would turn every
// `auto x = ...;` into a bare, undeclared assignment.
func removeDeadTokens(ctx *Context) bool {
	list := ctx.List
	changed := false

	for id := list.First(); id != token.None; {
		t := list.At(id)
		if t.Text == "register" {
			next := list.Next(id)
			list.Erase(id)
			changed = true
			id = next
			continue
		}
		id = list.Next(id)
	}

	for id := list.First(); id != token.None; {
		if list.At(id).Text != ";" {
			id = list.Next(id)
			continue
		}
		prev := list.Prev(id)
		if prev == token.None {
			next := list.Next(id)
			list.Erase(id)
			changed = true
			id = next
			continue
		}
		switch list.At(prev).Text {
		case ";", "{", ":":
			next := list.Next(id)
			list.Erase(id)
			changed = true
			id = next
			continue
		}
		id = list.Next(id)
	}

	for id := list.First(); id != token.None; id = list.Next(id) {
		t := list.At(id)
		if t.Text != "return" && t.Text != "break" && t.Text != "continue" && t.Text != "throw" {
			continue
		}
		// A terminator that is the whole body of a braceless if/else/loop
		// does not end the enclosing block.
		if p := list.Prev(id); p != token.None && (list.At(p).Text == ")" || list.At(p).Text == "else") {
			continue
		}
		// Find this statement's terminating ';'.
		semi := id
		for semi != token.None && list.At(semi).Text != ";" {
			semi = list.Next(semi)
		}
		if semi == token.None {
			continue
		}
		// Find the enclosing block's closing '}' by scanning forward,
		// tracking nested brace depth; anything between semi and the
		// first depth-0 '}' (not itself entering a nested block) is
		// unreachable.
		cur := list.Next(semi)
		for cur != token.None {
			t2 := list.At(cur)
			if t2.Text == "}" {
				break
			}
			// A case, default or goto label makes what follows reachable.
			if t2.Text == "case" || t2.Text == "default" {
				break
			}
			if nt := list.At(list.Next(cur)); t2.Kind == token.Identifier && nt != nil && nt.Text == ":" {
				break
			}
			if t2.Text == "{" {
				// A nested block right after a terminator is still dead
				// code as a whole, but distinguishing "is this block
				// reachable via a label/case" is beyond this pass; leave
				// nested blocks alone and stop trimming here.
				break
			}
			next := list.Next(cur)
			list.Erase(cur)
			changed = true
			cur = next
		}
	}
	return changed
}
