// Package ctu implements C8: the cross-translation-unit merger. Per-TU
// checks that implement checks.Summarizer write function summaries and
// call-site facts into a Merger; once every TU has been analyzed, Merge
// joins them by symbol and reports violations whose evidence spans more
// than one translation unit (§4.7).
package ctu

import (
	"fmt"

	"github.com/funvibe/cppgo/internal/diag"
	"github.com/funvibe/cppgo/internal/valueflow"
)

// ConditionKind is one of the per-parameter conditions a function summary
// can record (§4.7 "the conditions under which each parameter is
// dereferenced, freed, or assumed non-null").
type ConditionKind int

const (
	Dereferenced ConditionKind = iota
	Freed
	AssumedNonNull
)

// ruleID reports the diagnostic id a violated condition surfaces as. A
// null-pointer condition merges into the same "nullPointer" id the
// single-TU NullPointer check (internal/rules/nullpointer.go) already uses
// (§8 scenario 6 expects the CTU-merged finding to read as an ordinary
// nullPointer, not a separate CTU-prefixed rule); a use-after-free
// condition has no single-TU counterpart, so it keeps its own id.
func (k ConditionKind) ruleID() string {
	switch k {
	case Dereferenced, AssumedNonNull:
		return "nullPointer"
	case Freed:
		return "ctuUseAfterFree"
	default:
		return "ctuUnknown"
	}
}

// severity reports the diagnostic severity a violated condition carries.
// It mirrors ruleID's merge: a nullPointer-shaped condition takes on the
// same diag.Error severity NullPointer.Severity() reports, since it is
// the identical rule observed across a call boundary rather than a
// distinct, lower-confidence CTU rule.
func (k ConditionKind) severity() diag.Severity {
	switch k {
	case Dereferenced, AssumedNonNull:
		return diag.Error
	default:
		return diag.Warning
	}
}

// ParamCondition records one condition a function's body imposes on one
// of its own parameters, at the token location that imposes it.
type ParamCondition struct {
	ParamIndex int
	Kind       ConditionKind
	Loc        diag.Location
}

// FunctionSummary is §4.7's per-function summary: keyed by mangled/linker
// symbol, it lists every condition the function's body places on its
// parameters.
type FunctionSummary struct {
	Symbol     string
	File       string
	Conditions []ParamCondition
}

// CallSite is §4.7's call-point facts: for one call expression, the
// caller's own symbol, the callee it targets, and the value-flow fact
// reaching each argument at the call.
type CallSite struct {
	CallerSymbol string
	Callee       string
	ArgFacts     []valueflow.Fact
	Loc          diag.Location
}

// Merger accumulates FunctionSummary/CallSite entries written by checks
// across every TU (§4.7 step 1) and joins them on demand (step 2/3).
type Merger struct {
	functions map[string]FunctionSummary
	calls     []CallSite
	maxDepth  int
}

// DefaultMaxDepth is §4.7's "Recursion bound" default.
const DefaultMaxDepth = 2

// MaxDepthCap is §4.7's hard ceiling on the configurable recursion bound.
const MaxDepthCap = 10

// NewMerger builds a Merger with maxDepth clamped to [1, MaxDepthCap]; 0
// selects DefaultMaxDepth.
func NewMerger(maxDepth int) *Merger {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if maxDepth > MaxDepthCap {
		maxDepth = MaxDepthCap
	}
	return &Merger{functions: make(map[string]FunctionSummary), maxDepth: maxDepth}
}

// Ingest adds one TU's check-produced summary entries. Entries arrive as
// interface{} (per checks.Summarizer's signature, which keeps
// internal/checks free of an internal/ctu import) and are type-asserted
// back to FunctionSummary/CallSite here; anything else is silently
// dropped, since a check that isn't CTU-aware has nothing to contribute.
func (m *Merger) Ingest(entries []interface{}) {
	for _, e := range entries {
		switch v := e.(type) {
		case FunctionSummary:
			// A function defined in more than one TU (e.g. a header-inline
			// definition included by several TUs) keeps its first summary;
			// they describe the same body, so a later one adds nothing.
			if _, exists := m.functions[v.Symbol]; !exists {
				m.functions[v.Symbol] = v
			}
		case CallSite:
			m.calls = append(m.calls, v)
		}
	}
}

// Merge implements §4.7 steps 2-3: for every direct call site, evaluate
// the callee's effective parameter conditions (including ones inherited
// transitively through the callee's own calls, bounded by maxDepth)
// against the caller's argument facts, and emit a diagnostic for each
// violation with a call stack ordered caller-to-callee.
func (m *Merger) Merge() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, call := range m.calls {
		conds := m.effectiveConditions(call.Callee, 0, make(map[string]bool))
		for _, cond := range conds {
			if cond.ParamIndex < 0 || cond.ParamIndex >= len(call.ArgFacts) {
				continue
			}
			fact := call.ArgFacts[cond.ParamIndex]
			if !violates(cond.Kind, fact) {
				continue
			}
			out = append(out, diag.Diagnostic{
				ID:           cond.Kind.ruleID(),
				Severity:     cond.Kind.severity(),
				Certainty:    certaintyOf(fact),
				ShortMessage: message(cond.Kind, call.Callee, cond.ParamIndex),
				CallStack:    []diag.Location{call.Loc, cond.Loc},
				SymbolNames:  []string{call.CallerSymbol, call.Callee},
			})
		}
	}
	return out
}

// effectiveConditions returns every condition that applies to symbol's own
// parameters: the ones its summary declares directly, plus any condition
// a function symbol itself calls imposes on a parameter that turns out to
// be symbol's own parameter value passed straight through — composed
// recursively up to maxDepth hops (§4.7 "Recursion bound"). visited guards
// against call-graph cycles (mutual recursion) independent of the depth
// cap.
func (m *Merger) effectiveConditions(symbol string, depth int, visited map[string]bool) []ParamCondition {
	if depth > m.maxDepth || visited[symbol] {
		return nil
	}
	visited[symbol] = true

	var out []ParamCondition
	if fn, ok := m.functions[symbol]; ok {
		out = append(out, fn.Conditions...)
	}
	for _, call := range m.calls {
		if call.CallerSymbol != symbol {
			continue
		}
		for _, cc := range m.effectiveConditions(call.Callee, depth+1, visited) {
			if cc.ParamIndex < 0 || cc.ParamIndex >= len(call.ArgFacts) {
				continue
			}
			fact := call.ArgFacts[cc.ParamIndex]
			if fact.Kind != valueflow.KindSymbolic || fact.SymbolicOf < 0 {
				continue
			}
			out = append(out, ParamCondition{
				ParamIndex: int(fact.SymbolicOf),
				Kind:       cc.Kind,
				Loc:        cc.Loc,
			})
		}
	}
	return out
}

// violates reports whether fact is incompatible with cond: a dereference
// or free condition is violated by any fact whose integer interval can be
// zero, or that is still uninitialized (never proven non-null).
func violates(kind ConditionKind, fact valueflow.Fact) bool {
	switch kind {
	case Dereferenced, Freed, AssumedNonNull:
		if fact.Kind == valueflow.KindUninitialized {
			return true
		}
		return fact.Kind == valueflow.KindInteger && fact.IntervalContains(0)
	default:
		return false
	}
}

func certaintyOf(fact valueflow.Fact) diag.Certainty {
	if fact.Certainty == valueflow.Inconclusive {
		return diag.Inconclusive
	}
	return diag.Definite
}

func message(kind ConditionKind, callee string, paramIndex int) string {
	switch kind {
	case Dereferenced:
		return fmt.Sprintf("possible null pointer passed as argument %d to %s, which dereferences it", paramIndex+1, callee)
	case Freed:
		return fmt.Sprintf("possible null pointer passed as argument %d to %s, which frees it", paramIndex+1, callee)
	case AssumedNonNull:
		return fmt.Sprintf("possible null pointer passed as argument %d to %s, which assumes it is non-null", paramIndex+1, callee)
	default:
		return fmt.Sprintf("argument %d to %s violates an inferred condition", paramIndex+1, callee)
	}
}
