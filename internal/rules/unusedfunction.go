package rules

import (
	"fmt"
	"sync"

	"github.com/funvibe/cppgo/internal/checks"
	"github.com/funvibe/cppgo/internal/diag"
	"github.com/funvibe/cppgo/internal/symbols"
	"github.com/funvibe/cppgo/internal/token"
)

// UnusedFunction is the SUPPLEMENTED FEATURES cross-translation-unit
// check exercising the checks.CrossTUReporter path rather than C8's
// ctu.Merger: a function defined (with a body) in one TU and never
// called by name from any TU. Unlike NullPointer's Summarizer half, this
// question ("was X ever called, anywhere in the program") does not fit
// ctu.Merger.Ingest's two hardcoded entry shapes, so this check
// accumulates its own cross-TU state directly (guarded by a mutex, since
// the driver's worker pool runs Run for multiple TUs concurrently) and
// reports once, from Report, after every TU has been analyzed.
type UnusedFunction struct {
	mu       sync.Mutex
	defined  map[string]diag.Location
	declOnly map[string]bool
	called   map[string]bool
}

// NewUnusedFunction builds an UnusedFunction check with its accumulator
// maps ready; the zero value would otherwise nil-panic on first use.
func NewUnusedFunction() *UnusedFunction {
	return &UnusedFunction{
		defined:  make(map[string]diag.Location),
		declOnly: make(map[string]bool),
		called:   make(map[string]bool),
	}
}

func (*UnusedFunction) ID() string                    { return "unusedfunction" }
func (*UnusedFunction) RuleIDs() []string              { return []string{"unusedFunction"} }
func (*UnusedFunction) Severity() diag.Severity        { return diag.Style }
func (*UnusedFunction) Granularity() checks.Granularity { return checks.PerCTU }
func (*UnusedFunction) RequiresInconclusive() bool      { return false }

// Run never itself returns a diagnostic: whether a function is unused
// cannot be known until every TU has contributed its own calls, so this
// only accumulates state; Report does the actual reporting.
func (u *UnusedFunction) Run(view checks.View) []diag.Diagnostic {
	list := view.List()
	st := view.Symbols()

	u.mu.Lock()
	defer u.mu.Unlock()

	for _, fn := range st.Functions {
		name := funcNameByToken(list, fn.NameToken)
		if name == "" {
			continue
		}
		if fn.BodyScope == symbols.NoIndex {
			if _, ok := u.defined[name]; !ok {
				u.declOnly[name] = true
			}
			continue
		}
		u.defined[name] = list.Location(fn.NameToken)
		delete(u.declOnly, name)
	}

	for _, id := range list.Tokens() {
		t := list.At(id)
		if t.Text != "(" || !isCallNode(list, id) {
			continue
		}
		callee := list.At(t.ASTOperand1)
		if callee.Kind == token.Identifier {
			u.called[callee.Text] = true
		}
	}
	return nil
}

// Report implements checks.CrossTUReporter. "main" is never reported: a
// program's entry point is called by the runtime, not by any token this
// core ever sees.
func (u *UnusedFunction) Report() []diag.Diagnostic {
	u.mu.Lock()
	defer u.mu.Unlock()

	var out []diag.Diagnostic
	for name, loc := range u.defined {
		if name == "main" || u.called[name] {
			continue
		}
		out = append(out, diag.Diagnostic{
			ID:             "unusedFunction",
			Severity:       diag.Style,
			Certainty:      diag.Definite,
			ShortMessage:   fmt.Sprintf("'%s' is never called", name),
			VerboseMessage: fmt.Sprintf("'%s' is defined but no translation unit this run analyzed calls it by name", name),
			CallStack:      []diag.Location{loc},
			SymbolNames:    []string{name},
		})
	}
	return out
}
