package simplify

import (
	"github.com/funvibe/cppgo/internal/token"
	"github.com/funvibe/cppgo/internal/tokenlist"
)

// rewriteLoops implements §4.3 rule 8: `while(c) body` becomes
// `for(;c;) body`, and `do body while(c);` becomes
// `for(;;){ body ; if(!c) break ; }`. Both rewrites are purely structural
// (control-flow shape for C6), so the original `while`/`do` tokens are
// left in place and flagged FlagOriginalSyntax rather than erased — a
// diagnostic naming "while loop" still finds its anchor token.
func rewriteLoops(ctx *Context) bool {
	list := ctx.List
	changed := false
	for id := list.First(); id != token.None; id = list.Next(id) {
		t := list.At(id)
		switch t.Text {
		case "while":
			if rewriteWhile(list, id) {
				changed = true
			}
		case "do":
			if rewriteDoWhile(list, id) {
				changed = true
			}
		}
	}
	return changed
}

func rewriteWhile(list *tokenlist.List, whileTok token.ID) bool {
	open := list.Next(whileTok)
	if open == token.None || list.At(open).Text != "(" {
		return false
	}
	close := list.Link(open)
	if close == token.None {
		return false
	}
	after := list.Next(close)
	if after != token.None && list.At(after).Text == ";" {
		// `while(cond);` immediately followed by ';' with no body at all
		// reaching here means it is the tail half of a do-while, already
		// consumed by rewriteDoWhile when it processed the matching `do`.
		return false
	}
	list.SetFlag(whileTok, token.FlagOriginalSyntax)
	list.At(whileTok).Text = "for"
	// "(" cond ")" -> "(" ";" cond ";" ")"
	semi1 := list.InsertAfter(open, ";", token.Punctuator)
	list.SetFlag(semi1, token.FlagInserted)
	semi2 := list.InsertAfter(list.Prev(close), ";", token.Punctuator)
	list.SetFlag(semi2, token.FlagInserted)
	return true
}

func rewriteDoWhile(list *tokenlist.List, doTok token.ID) bool {
	open := list.Next(doTok)
	if open == token.None || list.At(open).Text != "{" {
		return false
	}
	closeBrace := list.Link(open)
	if closeBrace == token.None {
		return false
	}
	whileTok := list.Next(closeBrace)
	if whileTok == token.None || list.At(whileTok).Text != "while" {
		return false
	}
	condOpen := list.Next(whileTok)
	if condOpen == token.None || list.At(condOpen).Text != "(" {
		return false
	}
	condClose := list.Link(condOpen)
	if condClose == token.None {
		return false
	}
	semiAfter := list.Next(condClose)
	if semiAfter == token.None || list.At(semiAfter).Text != ";" {
		return false
	}

	condTokens := collectTokenCopies(list, list.Next(condOpen), list.Prev(condClose))

	list.SetFlag(doTok, token.FlagOriginalSyntax)
	list.At(doTok).Text = "for"
	openParen := list.InsertAfter(doTok, "(", token.Punctuator)
	list.SetFlag(openParen, token.FlagInserted)
	s1 := list.InsertAfter(openParen, ";", token.Punctuator)
	list.SetFlag(s1, token.FlagInserted)
	s2 := list.InsertAfter(s1, ";", token.Punctuator)
	list.SetFlag(s2, token.FlagInserted)
	closeParen := list.InsertAfter(s2, ")", token.Punctuator)
	list.SetFlag(closeParen, token.FlagInserted)
	list.At(openParen).Link, list.At(closeParen).Link = closeParen, openParen

	// Build "if ( ! ( cond ) ) break ;" as the body's last statement,
	// inserted just before the body's closing '}'.
	at := list.Prev(closeBrace)
	at = insertCopy(list, at, ";", token.Punctuator)
	at = insertCopy(list, at, "if", token.Keyword)
	at = insertCopy(list, at, "(", token.Punctuator)
	ifOpen := at
	at = insertCopy(list, at, "!", token.Operator)
	at = insertCopy(list, at, "(", token.Punctuator)
	innerOpen := at
	at = insertSeq(list, at, condTokens)
	at = insertCopy(list, at, ")", token.Punctuator)
	list.At(at).Link, list.At(innerOpen).Link = innerOpen, at
	at = insertCopy(list, at, ")", token.Punctuator)
	list.At(at).Link, list.At(ifOpen).Link = ifOpen, at
	at = insertCopy(list, at, "break", token.Keyword)
	insertCopy(list, at, ";", token.Punctuator)

	// Remove the original "while ( cond ) ;" tail.
	for cur := whileTok; cur != token.None; {
		next := list.Next(cur)
		wasSemi := cur == semiAfter
		list.Erase(cur)
		if wasSemi {
			break
		}
		cur = next
	}
	return true
}
