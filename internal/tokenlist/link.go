package tokenlist

import (
	"github.com/funvibe/cppgo/internal/diag"
	"github.com/funvibe/cppgo/internal/token"
)

// templateIntroducers are tokens that may precede a `<` opening a template
// argument list, per §4.1's disambiguation rule.
var templateIntroducers = map[string]bool{
	"template": true, "typename": true, "class": true, "struct": true,
}

// LinkBrackets scans the list once with a stack per bracket class and
// fills in every matching (,),[,],{,} pair, plus template <,> pairs that
// pass the §4.1 heuristic. Returns one diag.SyntaxError per unmatched
// opener found; the opener is left unlinked and the scan continues past
// it, per §4.1 "Failure".
func (l *List) LinkBrackets() []error {
	var parenStack, bracketStack, braceStack []token.ID
	var angleCandidates []token.ID // '<' tokens that might open a template
	var errs []error

	push := func(stack *[]token.ID, id token.ID) { *stack = append(*stack, id) }
	pop := func(stack *[]token.ID) (token.ID, bool) {
		n := len(*stack)
		if n == 0 {
			return token.None, false
		}
		id := (*stack)[n-1]
		*stack = (*stack)[:n-1]
		return id, true
	}

	link := func(open, close token.ID) {
		l.arena[open].Link = close
		l.arena[close].Link = open
	}

	for id := l.head; id != token.None; id = l.arena[id].Next {
		t := &l.arena[id]
		switch t.Text {
		case "(":
			push(&parenStack, id)
		case ")":
			if open, ok := pop(&parenStack); ok {
				link(open, id)
			} else {
				errs = append(errs, diag.NewSyntaxError(l.FileOf(id), l.LineOf(id), l.ColumnOf(id), "unmatched ')'"))
			}
		case "[":
			push(&bracketStack, id)
		case "]":
			if open, ok := pop(&bracketStack); ok {
				link(open, id)
			} else {
				errs = append(errs, diag.NewSyntaxError(l.FileOf(id), l.LineOf(id), l.ColumnOf(id), "unmatched ']'"))
			}
		case "{":
			push(&braceStack, id)
		case "}":
			if open, ok := pop(&braceStack); ok {
				link(open, id)
			} else {
				errs = append(errs, diag.NewSyntaxError(l.FileOf(id), l.LineOf(id), l.ColumnOf(id), "unmatched '}'"))
			}
		case "<":
			if l.canIntroduceTemplate(id) {
				angleCandidates = append(angleCandidates, id)
			}
		case ">":
			if len(angleCandidates) == 0 {
				continue
			}
			// Prefer the shortest well-formed span, per §4.1's tie-break:
			// try the most recently opened candidate first.
			for i := len(angleCandidates) - 1; i >= 0; i-- {
				open := angleCandidates[i]
				if l.isWellFormedArgList(open, id) {
					link(open, id)
					angleCandidates = angleCandidates[:i]
					break
				}
			}
		}
	}

	for _, id := range parenStack {
		errs = append(errs, diag.NewSyntaxError(l.FileOf(id), l.LineOf(id), l.ColumnOf(id), "unmatched '('"))
	}
	for _, id := range bracketStack {
		errs = append(errs, diag.NewSyntaxError(l.FileOf(id), l.LineOf(id), l.ColumnOf(id), "unmatched '['"))
	}
	for _, id := range braceStack {
		errs = append(errs, diag.NewSyntaxError(l.FileOf(id), l.LineOf(id), l.ColumnOf(id), "unmatched '{'"))
	}
	return errs
}

// canIntroduceTemplate reports whether the token preceding '<' at id is a
// declaration keyword or looks like a known template name (an identifier),
// the first half of §4.1's heuristic.
func (l *List) canIntroduceTemplate(lt token.ID) bool {
	prev := l.arena[lt].Prev
	if prev == token.None {
		return false
	}
	pt := &l.arena[prev]
	if pt.Kind == token.Identifier {
		return true
	}
	return templateIntroducers[pt.Text]
}

// isWellFormedArgList reports whether the token range strictly between
// open and close tokenizes as a well-formed template argument list: a
// nonempty, comma-separated sequence of type-like atoms (identifiers,
// fundamental-type keywords, nested <...> or (...), qualifiers, '*', '&',
// or numeric literals for non-type template parameters), with every
// nested bracket balanced. This is deliberately permissive — it exists
// only to keep obviously-not-a-template `a < b` from being linked, not to
// fully validate C++ template syntax.
func (l *List) isWellFormedArgList(open, close token.ID) bool {
	if l.arena[open].Next == close {
		return false // `<>` is not a valid argument list
	}
	depthParen, depthBracket, depthAngle := 0, 0, 0
	count := 0
	for id := l.arena[open].Next; id != close; id = l.arena[id].Next {
		if id == token.None {
			return false // ran off the end without finding close
		}
		t := &l.arena[id]
		count++
		switch t.Text {
		case "(":
			depthParen++
		case ")":
			depthParen--
		case "[":
			depthBracket++
		case "]":
			depthBracket--
		case "<":
			depthAngle++
		case ">":
			depthAngle--
		case "{", "}", ";":
			return false // statement-only punctuation can't appear in a template arg list
		}
		if depthParen < 0 || depthBracket < 0 || depthAngle < 0 {
			return false
		}
	}
	return depthParen == 0 && depthBracket == 0 && depthAngle == 0 && count > 0
}
