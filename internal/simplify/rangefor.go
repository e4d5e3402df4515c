package simplify

import (
	"github.com/funvibe/cppgo/internal/token"
	"github.com/funvibe/cppgo/internal/tokenlist"
)

// rewriteRangeFor implements §4.3 rule 7: a range-based `for (decl : expr)
// body` becomes an explicit iterator loop, synthetic tokens flagged
// FlagInserted with the `for`'s own line number, so downstream control-flow
// analysis (C6 loop-bound reasoning) never needs special-case range-for
// handling. The rewritten form re-evaluates expr once per loop via a
// hoisted iterator rather than re-running the original range expression at
// every step; unlike a real compiler it does not hoist expr into its own
// hidden temporary first, so an expr with observable side effects would be
// evaluated twice at the boundaries (begin()/end() call sites) under this
// synthetic form — acceptable since the synthetic form exists only for
// control-flow shape, and diagnostics always resolve back to original
// tokens via FlagOriginalSyntax.
func rewriteRangeFor(ctx *Context) bool {
	list := ctx.List
	changed := false
	for id := list.First(); id != token.None; id = list.Next(id) {
		if list.At(id).Text != "for" {
			continue
		}
		open := list.Next(id)
		if open == token.None || list.At(open).Text != "(" {
			continue
		}
		close := list.Link(open)
		if close == token.None {
			continue
		}
		colon := findRangeColon(list, open, close)
		if colon == token.None {
			continue
		}
		declName := token.None
		for c := list.Prev(colon); c != open && c != token.None; c = list.Prev(c) {
			if list.At(c).Kind == token.Identifier {
				declName = c
				break
			}
		}
		if declName == token.None {
			continue
		}

		rangeEnd := list.Prev(close)
		rangeTokens := collectTokenCopies(list, list.Next(colon), rangeEnd)
		declTokens := collectTokenCopies(list, list.Next(open), list.Prev(colon))

		markRangeOriginal(list, open, close)

		// Build "auto __it = <range>.begin() ; __it != <range>.end() ; ++__it"
		at := open
		at = insertCopy(list, at, "auto", token.Keyword)
		at = insertCopy(list, at, "__it", token.Identifier)
		at = insertCopy(list, at, "=", token.Operator)
		at = insertSeq(list, at, rangeTokens)
		at = insertCopy(list, at, ".", token.Punctuator)
		at = insertCopy(list, at, "begin", token.Identifier)
		at = insertCopy(list, at, "(", token.Punctuator)
		openBeginParen := at
		at = insertCopy(list, at, ")", token.Punctuator)
		list.At(at).Link, list.At(openBeginParen).Link = openBeginParen, at
		at = insertCopy(list, at, ";", token.Punctuator)

		at = insertCopy(list, at, "__it", token.Identifier)
		at = insertCopy(list, at, "!=", token.Operator)
		at = insertSeq(list, at, rangeTokens)
		at = insertCopy(list, at, ".", token.Punctuator)
		at = insertCopy(list, at, "end", token.Identifier)
		at = insertCopy(list, at, "(", token.Punctuator)
		openEndParen := at
		at = insertCopy(list, at, ")", token.Punctuator)
		list.At(at).Link, list.At(openEndParen).Link = openEndParen, at
		at = insertCopy(list, at, ";", token.Punctuator)

		at = insertCopy(list, at, "++", token.Operator)
		at = insertCopy(list, at, "__it", token.Identifier)

		// Remove the original "decl : range" span between open and close.
		for cur := list.Next(at); cur != close; {
			next := list.Next(cur)
			list.Erase(cur)
			cur = next
		}

		// Insert "decl = *__it ;" as the first statement of the loop body.
		bodyOpen := list.Next(close)
		if bodyOpen != token.None && list.At(bodyOpen).Text == "{" {
			binit := bodyOpen
			binit = insertSeq(list, binit, declTokens)
			binit = insertCopy(list, binit, "=", token.Operator)
			binit = insertCopy(list, binit, "*", token.Operator)
			binit = insertCopy(list, binit, "__it", token.Identifier)
			insertCopy(list, binit, ";", token.Punctuator)
		}

		changed = true
	}
	return changed
}

func insertCopy(list *tokenlist.List, at token.ID, text string, kind token.Kind) token.ID {
	id := list.InsertAfter(at, text, kind)
	list.SetFlag(id, token.FlagInserted)
	return id
}

func insertSeq(list *tokenlist.List, at token.ID, seq []tokenText) token.ID {
	for _, tk := range seq {
		at = insertCopy(list, at, tk.Text, tk.Kind)
	}
	return at
}

func markRangeOriginal(list *tokenlist.List, open, close token.ID) {
	for id := list.Next(open); id != close; id = list.Next(id) {
		list.SetFlag(id, token.FlagOriginalSyntax)
	}
}

// findRangeColon finds a top-level ':' between open and close that isn't
// part of a ternary or scope-resolution, by requiring no depth-0 ';' to
// precede it (classic for always has at least one ';' before any ':'
// that could appear in, say, a nested ternary).
func findRangeColon(list *tokenlist.List, open, close token.ID) token.ID {
	depth := 0
	for id := list.Next(open); id != close; id = list.Next(id) {
		t := list.At(id)
		if t.Text == ";" && depth == 0 {
			return token.None
		}
		if t.Text == ":" && depth == 0 {
			return id
		}
		if token.IsOpenBracket(t.Text) {
			depth++
		} else if isCloseBracket(t.Text) {
			if depth > 0 {
				depth--
			}
		}
	}
	return token.None
}
