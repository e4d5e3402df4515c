package simplify

import (
	"github.com/funvibe/cppgo/internal/token"
	"github.com/funvibe/cppgo/internal/tokenlist"
)

// fundamentalSizes gives the typical LP64 size in bytes for §4.3 rule 4's
// "known fundamental type" resolution. sizeof on anything else (a class,
// an unknown typedef that survived, an array of unknown bound) is left
// untouched for C6/checks to reason about symbolically instead.
var fundamentalSizes = map[string]int{
	"bool": 1, "char": 1, "signed char": 1, "unsigned char": 1,
	"short": 2, "unsigned short": 2,
	"int": 4, "unsigned int": 4, "unsigned": 4,
	"long": 8, "unsigned long": 8,
	"long long": 8, "unsigned long long": 8,
	"float": 4, "double": 8, "long double": 16,
}

// resolveSizeof implements §4.3 rule 4: `sizeof(x)` folds to an integer
// literal when x is a single fundamental-type keyword sequence, or an
// array declared with a known constant dimension (`sizeof(arr)` where
// `arr` is `T arr[N]`); otherwise it is left as-is for C6 to resolve
// dynamically, if at all.
func resolveSizeof(ctx *Context) bool {
	list := ctx.List
	changed := false
	for id := list.First(); id != token.None; id = list.Next(id) {
		t := list.At(id)
		if t.Text != "sizeof" {
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
		if n, ok := sizeofFundamental(list, open, close); ok {
			replaceSpanWithLiteral(list, id, close, n)
			changed = true
		}
	}
	return changed
}

// sizeofFundamental recognizes a parenthesized run of fundamental-type
// keywords (optionally with a trailing '*' for pointer types, 8 bytes on
// LP64) between open and close.
func sizeofFundamental(list *tokenlist.List, open, close token.ID) (int, bool) {
	text := ""
	isPointer := false
	count := 0
	for id := list.Next(open); id != close; id = list.Next(id) {
		tt := list.At(id).Text
		if tt == "*" {
			isPointer = true
			continue
		}
		if count > 0 {
			text += " "
		}
		text += tt
		count++
	}
	if isPointer {
		return 8, true
	}
	if count == 0 {
		return 0, false
	}
	if sz, ok := fundamentalSizes[text]; ok {
		return sz, true
	}
	return 0, false
}

// replaceSpanWithLiteral erases [start,end] inclusive and inserts a single
// Number token with text n in its place, preserving position for
// diagnostics and flagging the replacement as simplifier-inserted.
func replaceSpanWithLiteral(list *tokenlist.List, start, end token.ID, n int) {
	anchor := list.Prev(start)
	stop := list.Next(end)
	cur := start
	for cur != stop && cur != token.None {
		next := list.Next(cur)
		list.Erase(cur)
		cur = next
	}
	lit := list.InsertAfter(anchor, itoa(n), token.Number)
	list.SetFlag(lit, token.FlagInserted)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
