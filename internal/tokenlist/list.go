// Package tokenlist implements C2: an arena-backed, doubly linked token
// sequence for one translation unit, with O(1) navigation and O(1) bracket
// matching (§4.1, §9 "Token graph cycles").
package tokenlist

import (
	"github.com/funvibe/cppgo/internal/diag"
	"github.com/funvibe/cppgo/internal/ppinput"
	"github.com/funvibe/cppgo/internal/token"
)

// List is the arena owning every Token of one translation unit. Cross
// references (Prev/Next/Link/AST edges) are token.ID indices into arena,
// never pointers, so the whole structure drops as a unit when the TU
// completes (§9).
type List struct {
	arena []token.Token // arena[0] is an unused sentinel; real tokens start at index 1
	files []string
	head  token.ID
	tail  token.ID
}

// New builds an empty list over the given file list (index 0 primary TU).
func New(files []string) *List {
	return &List{arena: make([]token.Token, 1, 64), files: files}
}

// FromPreprocessed lexes a preprocessor record stream into a fresh List,
// classifying each record's Kind (§6 "Preprocessor input (consumed)").
// Bracket linking is performed by LinkBrackets, run separately so that the
// simplifier can re-run it after mutating the list.
func FromPreprocessed(tu *ppinput.TranslationUnit) *List {
	l := New(tu.Files)
	var prev token.ID
	for _, rec := range tu.Tokens {
		id := l.append(rec.Text, Classify(rec.Text), rec.FileIndex, rec.Line, rec.Column)
		if prev != token.None {
			l.arena[prev].Next = id
			l.arena[id].Prev = prev
		} else {
			l.head = id
		}
		prev = id
	}
	l.tail = prev
	return l
}

func (l *List) append(text string, kind token.Kind, file, line, col int) token.ID {
	id := token.ID(len(l.arena))
	l.arena = append(l.arena, token.Token{
		Text: text, Kind: kind, File: file, Line: line, Column: col,
		// ScopeRef/VariableRef default to "unset" (-1), not Go's zero value
		// of 0: scope/variable index 0 is a real entry (the global scope,
		// the first declared variable), so leaving these at 0 would
		// silently misattribute a never-annotated token to them.
		ScopeRef:    -1,
		VariableRef: -1,
	})
	return id
}

// Files returns the TU's file list (index 0 primary).
func (l *List) Files() []string { return l.files }

// First returns the first token's ID, or token.None if the list is empty
// (the "Empty TU" boundary case of §8).
func (l *List) First() token.ID { return l.head }

// Last returns the last token's ID, or token.None if empty.
func (l *List) Last() token.ID { return l.tail }

// Len returns the number of live tokens.
func (l *List) Len() int { return len(l.arena) - 1 }

// At returns a pointer into the arena for id. Callers must not retain it
// across mutations (InsertAfter/Erase may reallocate the backing array).
func (l *List) At(id token.ID) *token.Token {
	if id == token.None {
		return nil
	}
	return &l.arena[id]
}

// Next and Prev are convenience wrappers satisfying invariant 1
// (t.next.prev == t for every non-terminal t).
func (l *List) Next(id token.ID) token.ID {
	if id == token.None {
		return token.None
	}
	return l.arena[id].Next
}

func (l *List) Prev(id token.ID) token.ID {
	if id == token.None {
		return token.None
	}
	return l.arena[id].Prev
}

// Link returns the matching bracket for id, or token.None if unlinked
// (invariant 2: t.link.link == t whenever both are set).
func (l *List) Link(id token.ID) token.ID {
	if id == token.None {
		return token.None
	}
	return l.arena[id].Link
}

func (l *List) FileOf(id token.ID) string {
	if id == token.None {
		return ""
	}
	fi := l.arena[id].File
	if fi < 0 || fi >= len(l.files) {
		return ""
	}
	return l.files[fi]
}

func (l *List) LineOf(id token.ID) int {
	if id == token.None {
		return 0
	}
	return l.arena[id].Line
}

func (l *List) ColumnOf(id token.ID) int {
	if id == token.None {
		return 0
	}
	return l.arena[id].Column
}

// Location builds a diag.Location for id, suitable for attaching to a
// Diagnostic's call stack.
func (l *List) Location(id token.ID) diag.Location {
	return diag.Location{File: l.FileOf(id), Line: l.LineOf(id), Column: l.ColumnOf(id)}
}

// InsertAfter splices a newly created token after at, preserving invariant
// 1. Returns the new token's ID.
func (l *List) InsertAfter(at token.ID, text string, kind token.Kind) token.ID {
	var file, line, col int
	if at != token.None {
		file, line, col = l.arena[at].File, l.arena[at].Line, l.arena[at].Column
	}
	id := l.append(text, kind, file, line, col)
	l.arena[id].Flags |= token.FlagInserted

	if at == token.None {
		// insert at head
		next := l.head
		l.arena[id].Next = next
		if next != token.None {
			l.arena[next].Prev = id
		} else {
			l.tail = id
		}
		l.head = id
		return id
	}

	next := l.arena[at].Next
	l.arena[at].Next = id
	l.arena[id].Prev = at
	l.arena[id].Next = next
	if next != token.None {
		l.arena[next].Prev = id
	} else {
		l.tail = id
	}
	return id
}

// Erase removes id from the list. Its bracket partner, if any, loses its
// link (per the Erase contract in §4.1).
func (l *List) Erase(id token.ID) {
	t := &l.arena[id]
	prev, next, link := t.Prev, t.Next, t.Link
	if prev != token.None {
		l.arena[prev].Next = next
	} else {
		l.head = next
	}
	if next != token.None {
		l.arena[next].Prev = prev
	} else {
		l.tail = prev
	}
	if link != token.None {
		l.arena[link].Link = token.None
	}
	// Reset the freed slot to its just-allocated shape: -1, not 0, is the
	// unset sentinel for ScopeRef/VariableRef elsewhere in the arena (see
	// token.Token's field comments), so an erased slot must carry the same
	// sentinel rather than 0, which would alias scope/variable index 0.
	// The slot itself is unreachable once unlinked, so this is cosmetic,
	// but it keeps the invariant uniform for anyone inspecting the arena
	// directly (tests, debuggers) instead of walking Next/Prev.
	*t = token.Token{ScopeRef: -1, VariableRef: -1}
}

// Slice returns the (inclusive) sequence of token IDs from start to end, a
// read-only view: no ownership transfer, callers must not mutate through
// it.
func (l *List) Slice(start, end token.ID) []token.ID {
	var ids []token.ID
	for id := start; id != token.None; id = l.arena[id].Next {
		ids = append(ids, id)
		if id == end {
			break
		}
	}
	return ids
}

// SetASTParent records id's parent in the expression tree built by
// internal/symbols (§3 ast-parent).
func (l *List) SetASTParent(id, parent token.ID) { l.arena[id].ASTParent = parent }

// SetASTOperands records id's operand edges in the expression tree.
func (l *List) SetASTOperands(id, op1, op2 token.ID) {
	l.arena[id].ASTOperand1 = op1
	l.arena[id].ASTOperand2 = op2
}

// SetScopeRef records id's narrowest enclosing scope (§3 invariant 3),
// where scopeIdx indexes into a symbols.SymbolTable's Scopes slice.
func (l *List) SetScopeRef(id token.ID, scopeIdx int32) { l.arena[id].ScopeRef = scopeIdx }

// SetVariableRef records id's resolved variable, where varIdx indexes into
// a symbols.SymbolTable's Variables slice, or -1 if unresolved.
func (l *List) SetVariableRef(id token.ID, varIdx int32) { l.arena[id].VariableRef = varIdx }

// SetFlag ORs bit into id's flag set.
func (l *List) SetFlag(id token.ID, bit token.Flag) { l.arena[id].Flags |= bit }

// SetOriginalTypedef records the typedef alias id's text was expanded
// from (§4.3 rule 3), for diagnostic messages only.
func (l *List) SetOriginalTypedef(id token.ID, name string) { l.arena[id].OriginalTypedef = name }

// Tokens returns every live token ID in list order. Intended for tests and
// small TUs; hot paths should walk via Next instead.
func (l *List) Tokens() []token.ID {
	var ids []token.ID
	for id := l.head; id != token.None; id = l.arena[id].Next {
		ids = append(ids, id)
	}
	return ids
}
