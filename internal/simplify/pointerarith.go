package simplify

import (
	"github.com/funvibe/cppgo/internal/token"
	"github.com/funvibe/cppgo/internal/tokenlist"
)

// canonicalizePointerArithmetic implements §4.3 rule 10: `*(p + i)`
// rewrites to `p[i]`, so that C5's expression builder produces the same
// AST shape C7 checks expect for both forms of pointer indexing. Only the
// single-top-level-'+' shape is recognized; anything more exotic
// (`*(p + i + j)`, `*(f(p) + i)` with its own internal '+') is left alone
// rather than guessed at.
func canonicalizePointerArithmetic(ctx *Context) bool {
	list := ctx.List
	changed := false
	for id := list.First(); id != token.None; id = list.Next(id) {
		if list.At(id).Text != "*" || !isUnaryPosition(list, id) {
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
		plus := findSingleTopLevelPlus(list, open, close)
		if plus == token.None {
			continue
		}
		lhs := collectTokenCopies(list, list.Next(open), list.Prev(plus))
		rhs := collectTokenCopies(list, list.Next(plus), list.Prev(close))
		if len(lhs) == 0 || len(rhs) == 0 {
			continue
		}
		anchor := list.Prev(id)
		stop := list.Next(close)
		for cur := id; cur != stop; {
			next := list.Next(cur)
			list.Erase(cur)
			cur = next
		}
		at := insertSeq(list, anchor, lhs)
		bracketOpen := insertCopy(list, at, "[", token.Punctuator)
		at = insertSeq(list, bracketOpen, rhs)
		bracketClose := insertCopy(list, at, "]", token.Punctuator)
		list.At(bracketOpen).Link, list.At(bracketClose).Link = bracketClose, bracketOpen
		changed = true
		id = bracketClose
	}
	return changed
}

// findSingleTopLevelPlus returns the lone depth-0 '+' strictly between
// open and close, or token.None if there isn't exactly one.
func findSingleTopLevelPlus(list *tokenlist.List, open, close token.ID) token.ID {
	depth := 0
	found := token.None
	for id := list.Next(open); id != close; id = list.Next(id) {
		t := list.At(id)
		if depth == 0 && t.Text == "+" {
			if found != token.None {
				return token.None
			}
			found = id
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
	return found
}
