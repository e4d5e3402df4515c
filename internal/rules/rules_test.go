package rules

import (
	"testing"

	"github.com/funvibe/cppgo/internal/checks"
	"github.com/funvibe/cppgo/internal/diag"
	"github.com/funvibe/cppgo/internal/symbols"
	"github.com/funvibe/cppgo/internal/token"
	"github.com/funvibe/cppgo/internal/tokenlist"
	"github.com/funvibe/cppgo/internal/valueflow"
)

// buildView tokenizes texts into a single-file TU, links brackets, builds
// symbols, runs value-flow with the default config, and wraps the result
// in a checks.View — the same pipeline internal/driver runs per TU, minus
// the simplifier (tests hand-write already-simplified token sequences).
func buildView(t *testing.T, texts ...string) (checks.View, *tokenlist.List) {
	t.Helper()
	list := tokenlist.New([]string{"test.cpp"})
	var prev token.ID = token.None
	for _, txt := range texts {
		prev = list.InsertAfter(prev, txt, tokenlist.Classify(txt))
	}
	if errs := list.LinkBrackets(); len(errs) != 0 {
		t.Fatalf("unexpected link errors: %v", errs)
	}
	st := symbols.Build(list)
	facts := valueflow.Run(list, st, valueflow.DefaultConfig())
	fileIdx := map[string]int{"test.cpp": 0}
	return checks.NewView(list, st, facts, fileIdx, nil), list
}

// nthOccurrence returns the id of the n-th (1-based) token whose text
// equals text.
func nthOccurrence(list *tokenlist.List, text string, n int) token.ID {
	count := 0
	for _, id := range list.Tokens() {
		if list.At(id).Text == text {
			count++
			if count == n {
				return id
			}
		}
	}
	return token.None
}

// containsID reports whether any diagnostic in ds has the given id.
func containsID(ds []diag.Diagnostic, id string) bool {
	for _, d := range ds {
		if d.ID == id {
			return true
		}
	}
	return false
}
