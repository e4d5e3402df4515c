// Package suppress implements C9: inline comment suppressions, global
// (id, file?, line?) suppressions, exit-code-only suppressions, and the
// unmatched-inline-suppression meta-diagnostic (§4.8).
package suppress

import (
	"fmt"

	"github.com/funvibe/cppgo/internal/diag"
	"github.com/funvibe/cppgo/internal/tokenlist"
)

// InlineComment is one `cppcheck-suppress <id> [symbolName=x|id=x]`
// annotation. The lexer never emits comment tokens (§4.1 rule 1 is a
// no-op for exactly this reason), so these are extracted by an upstream
// collaborator scanning raw source text, the same "pre-parsed
// representation" contract §6 uses for the library config — this package
// only ever sees the already-parsed id/symbolName/location triple.
type InlineComment struct {
	File       string
	Line       int // the source line the comment itself sits on
	RuleID     string
	SymbolName string // "" if the annotation carries no symbolName=/id=

	matched bool
}

// GlobalRule is §4.8 rule 2/3's `(id, file?, line?)` triple; an empty
// RuleID/File or a zero Line means that field matches anything.
type GlobalRule struct {
	RuleID string
	File   string
	Line   int
}

func (r GlobalRule) matches(d diag.Diagnostic) bool {
	loc := d.PrimaryLocation()
	if r.RuleID != "" && r.RuleID != d.ID {
		return false
	}
	if r.File != "" && r.File != loc.File {
		return false
	}
	if r.Line != 0 && r.Line != loc.Line {
		return false
	}
	return true
}

// Decision is the outcome of evaluating one diagnostic against the
// engine's suppression rules.
type Decision struct {
	// Suppressed means the diagnostic is not delivered at all.
	Suppressed bool
	// ExitExempt means the diagnostic (suppressed or not) must not count
	// toward the nonzero-exit decision (§4.10).
	ExitExempt bool
}

// Engine evaluates §4.8's three suppression rules, in order, against
// each diagnostic. Evaluation is a pure membership test over each rule
// list, so the result never depends on the order rules were registered
// in (§4.8 "Order independence").
type Engine struct {
	inline        []*InlineComment
	global        []GlobalRule
	exitOnly      []GlobalRule
	linesWithCode map[string]map[int]bool
}

// NewEngine builds an Engine. linesWithCode maps file -> set of lines that
// carry at least one token, the proxy this implementation uses for
// "non-blank line" (see LinesWithCode).
func NewEngine(inline []InlineComment, global, exitOnly []GlobalRule, linesWithCode map[string]map[int]bool) *Engine {
	e := &Engine{global: global, exitOnly: exitOnly, linesWithCode: linesWithCode}
	e.inline = make([]*InlineComment, len(inline))
	for i := range inline {
		c := inline[i]
		e.inline[i] = &c
	}
	return e
}

// LinesWithCode scans list and returns, per file, the set of lines that
// carry at least one token — the non-blank-line proxy inline-suppression
// target resolution needs (§4.8, Open Question Decision #3).
func LinesWithCode(list *tokenlist.List) map[string]map[int]bool {
	out := make(map[string]map[int]bool)
	for _, id := range list.Tokens() {
		file := list.FileOf(id)
		line := list.LineOf(id)
		m, ok := out[file]
		if !ok {
			m = make(map[int]bool)
			out[file] = m
		}
		m[line] = true
	}
	return out
}

// resolveTargetLine implements §4.8 rule 1 plus Open Question Decision #3:
// a comment on a line that itself carries code suppresses diagnostics on
// that same line; otherwise it suppresses diagnostics on the next
// non-blank line, and never further than that even if intervening blank
// lines separate them.
func (e *Engine) resolveTargetLine(file string, commentLine int) int {
	lines := e.linesWithCode[file]
	if lines[commentLine] {
		return commentLine
	}
	best := -1
	for ln := range lines {
		if ln > commentLine && (best == -1 || ln < best) {
			best = ln
		}
	}
	return best
}

// Decide evaluates d against every suppression rule and returns the
// combined Decision.
func (e *Engine) Decide(d diag.Diagnostic) Decision {
	loc := d.PrimaryLocation()

	for _, ic := range e.inline {
		if ic.RuleID != d.ID {
			continue
		}
		if ic.File != "" && ic.File != loc.File {
			continue
		}
		if ic.SymbolName != "" && !containsSymbol(d.SymbolNames, ic.SymbolName) {
			continue
		}
		if e.resolveTargetLine(ic.File, ic.Line) != loc.Line {
			continue
		}
		ic.matched = true
		return Decision{Suppressed: true, ExitExempt: true}
	}

	for _, g := range e.global {
		if g.matches(d) {
			return Decision{Suppressed: true, ExitExempt: true}
		}
	}

	for _, g := range e.exitOnly {
		if g.matches(d) {
			return Decision{ExitExempt: true}
		}
	}

	return Decision{}
}

func containsSymbol(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

// UnmatchedSuppressions returns the §4.8 rule 4 meta-diagnostic for every
// inline suppression that never matched a delivered diagnostic. Call
// after every diagnostic has been run through Decide.
func (e *Engine) UnmatchedSuppressions() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, ic := range e.inline {
		if ic.matched {
			continue
		}
		out = append(out, diag.Diagnostic{
			ID:           "unmatchedSuppression",
			Severity:     diag.Information,
			Certainty:    diag.Definite,
			ShortMessage: fmt.Sprintf("Suppress Id not found: %s", ic.RuleID),
			CallStack:    []diag.Location{{File: ic.File, Line: ic.Line}},
		})
	}
	return out
}
