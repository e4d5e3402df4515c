package pattern

import (
	"github.com/funvibe/cppgo/internal/token"
	"github.com/funvibe/cppgo/internal/tokenlist"
)

// TypeOracle answers whether a name is a known type, backing %type% (a
// known type name from the symbol database, or a fundamental type
// keyword). Implemented by internal/symbols; kept as a narrow interface
// here to avoid an import cycle.
type TypeOracle interface {
	IsType(name string) bool
}

// Matcher runs compiled Patterns against a tokenlist.List.
type Matcher struct {
	List  *tokenlist.List
	Types TypeOracle
}

// NewMatcher constructs a Matcher over list, consulting types for %type%.
// types may be nil, in which case %type% falls back to fundamental-type
// keywords only.
func NewMatcher(list *tokenlist.List, types TypeOracle) *Matcher {
	return &Matcher{List: list, Types: types}
}

// Match attempts to match pat starting at start, greedily and
// left-to-right with no backtracking beyond per-atom alternation (§4.2).
// Returns whether it matched and the last token consumed (token.None if
// the pattern matched zero tokens, which cannot happen for a nonempty
// pattern but is returned consistently for optional-only patterns that
// match nothing).
func (m *Matcher) Match(start token.ID, pat *Pattern) (bool, token.ID) {
	cur := start
	var last token.ID = token.None
	for _, atom := range pat.Atoms {
		if atom.Optional {
			// "Present" variant first.
			if cur != token.None && m.atomMatches(cur, atom) {
				last = cur
				cur = m.List.Next(cur)
				continue
			}
			continue // absent variant: atom consumes nothing
		}
		if cur == token.None || !m.atomMatches(cur, atom) {
			return false, token.None
		}
		last = cur
		cur = m.List.Next(cur)
	}
	return true, last
}

func (m *Matcher) atomMatches(id token.ID, atom Atom) bool {
	t := m.List.At(id)
	if t == nil {
		return false
	}
	switch atom.Kind {
	case AtomLiteral:
		for _, txt := range atom.Texts {
			if t.Text == txt {
				return true
			}
		}
		return false
	case AtomNegated:
		return t.Text != atom.Texts[0]
	case AtomVar:
		return t.Kind == token.Identifier && !tokenlist.IsKeyword(t.Text) && !m.isTypeName(t.Text)
	case AtomType:
		return m.isTypeName(t.Text)
	case AtomNum:
		return t.Kind == token.Number
	case AtomStr:
		return t.Kind == token.StringLiteral
	case AtomChar:
		return t.Kind == token.CharLiteral
	case AtomBool:
		return t.Text == "true" || t.Text == "false"
	case AtomAny:
		return true
	case AtomOp:
		return t.Kind == token.Operator
	case AtomName:
		return t.Kind == token.Identifier
	case AtomComp:
		return t.Kind == token.Operator && compOps[t.Text]
	case AtomAssign:
		return t.Kind == token.Operator && assignOps[t.Text]
	default:
		return false
	}
}

func (m *Matcher) isTypeName(text string) bool {
	if tokenlist.FundamentalTypes[text] {
		return true
	}
	if m.Types != nil {
		return m.Types.IsType(text)
	}
	return false
}
