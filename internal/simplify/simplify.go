// Package simplify implements C4: the fixed-point rewriting of a token list
// into a canonical reduced dialect, so that C5 onward target a smaller
// surface (§4.3). Each transformation family gets its own file, mirroring
// the teacher's one-concern-per-file split.
package simplify

import (
	"github.com/funvibe/cppgo/internal/diag"
	"github.com/funvibe/cppgo/internal/token"
	"github.com/funvibe/cppgo/internal/tokenlist"
)

// Config holds the simplifier's tunable caps (§4.3 "Termination").
type Config struct {
	TypedefRecursionCap int
	IterationCap        int
}

// DefaultConfig matches §4.3's stated defaults.
func DefaultConfig() Config {
	return Config{TypedefRecursionCap: 100, IterationCap: 1000}
}

// Pass is one ordered transformation (§4.3's eleven rules). Run reports
// whether it changed the list; the driver relinks brackets and reruns the
// full ordered sequence until a round makes no change.
type Pass struct {
	Name string
	Run  func(ctx *Context) bool
}

// Context threads the list, config, and a running typedef table through
// every pass of one round.
type Context struct {
	List     *tokenlist.List
	Config   Config
	Typedefs map[string][]tokenText // name -> replacement token (text,kind) sequence

	// expansions counts how many sites a given typedef name has already
	// been expanded at, standing in for a per-chain recursion depth: once
	// a name hits the cap, further occurrences are left as-is rather than
	// expanded (§4.3 rule 3 "recursion depth cap").
	expansions map[string]int
}

type tokenText struct {
	Text string
	Kind token.Kind
}

// orderedPasses returns the eleven rules in §4.3's required order. Rule 1
// (comment/whitespace removal) is a no-op here: the lexer that built the
// token list already never emits comment or pure-whitespace tokens.
func orderedPasses() []Pass {
	return []Pass{
		{Name: "qualified-names", Run: foldQualifiedNames},
		{Name: "typedefs", Run: expandTypedefs},
		{Name: "sizeof", Run: resolveSizeof},
		{Name: "split-declarators", Run: splitDeclarators},
		{Name: "unary-and-constant-fold", Run: normalizeAndFoldConstants},
		{Name: "range-for", Run: rewriteRangeFor},
		{Name: "while-dowhile", Run: rewriteLoops},
		{Name: "enum-values", Run: resolveEnumMembers},
		{Name: "pointer-arithmetic", Run: canonicalizePointerArithmetic},
		{Name: "cleanup", Run: removeDeadTokens},
	}
}

// Simplify runs every pass to a combined fixed point (§4.3 "Termination"),
// relinking brackets after each round since passes insert and erase
// tokens. Returns diagnostics accumulated along the way (syntaxError for
// unrewritable regions, internalError if the iteration cap is exceeded).
func Simplify(list *tokenlist.List, cfg Config) []diag.Diagnostic {
	ctx := &Context{List: list, Config: cfg, Typedefs: make(map[string][]tokenText), expansions: make(map[string]int)}
	passes := orderedPasses()
	var diagnostics []diag.Diagnostic

	for _, err := range list.LinkBrackets() {
		if se, ok := err.(*diag.SyntaxError); ok {
			diagnostics = append(diagnostics, diag.Diagnostic{
				ID: "syntaxError", Severity: diag.Error, Certainty: diag.Definite,
				ShortMessage:   se.Message,
				VerboseMessage: se.Error(),
				CallStack:      []diag.Location{{File: se.File, Line: se.Line, Column: se.Column}},
			})
		}
	}

	iter := 0
	for {
		iter++
		if iter > cfg.IterationCap {
			ie := diag.NewInternalError("simplify", "", 0, "simplifier iteration cap exceeded")
			diagnostics = append(diagnostics, ie.ToDiagnostic())
			break
		}
		changed := false
		for _, p := range passes {
			if p.Run(ctx) {
				changed = true
			}
		}
		if changed {
			list.LinkBrackets()
		}
		if !changed {
			break
		}
	}
	return diagnostics
}
