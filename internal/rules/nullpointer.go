package rules

import (
	"fmt"

	"github.com/funvibe/cppgo/internal/checks"
	"github.com/funvibe/cppgo/internal/ctu"
	"github.com/funvibe/cppgo/internal/diag"
	"github.com/funvibe/cppgo/internal/symbols"
	"github.com/funvibe/cppgo/internal/token"
	"github.com/funvibe/cppgo/internal/valueflow"
)

// NullPointer is §8 scenario 5/6's check: a within-TU pass that flags a
// dereference of a pointer already proven (or, for an unresolved symbol,
// merely unprovable) to be null, plus a PerCTU Summarizer half that
// records each dereferenced parameter as a FunctionSummary condition and
// each call's argument facts as a CallSite, letting internal/ctu catch the
// cross-TU case scenario 6 describes.
type NullPointer struct{}

func (NullPointer) ID() string                    { return "nullpointer" }
func (NullPointer) RuleIDs() []string              { return []string{"nullPointer"} }
func (NullPointer) Severity() diag.Severity        { return diag.Error }
func (NullPointer) Granularity() checks.Granularity { return checks.PerCTU }
func (NullPointer) RequiresInconclusive() bool      { return false }

// derefSite is one unary-`*` or `->` dereference found while walking the
// TU, shared between Run (which turns the suspect ones into diagnostics)
// and Summarize (which turns the ones inside a function body into
// per-parameter conditions).
type derefSite struct {
	opTok    token.ID // the '*' or '->' token itself, for the diagnostic location
	operand  token.ID // the pointer expression being dereferenced
	varRef   int32    // operand's resolved variable, or symbols.NoIndex
	scopeRef int32    // operand's enclosing scope, for functionOf
}

func (NullPointer) Run(view checks.View) []diag.Diagnostic {
	list := view.List()
	facts := view.Facts()

	var out []diag.Diagnostic
	for _, d := range findDerefs(view) {
		ot := list.At(d.operand)

		switch {
		case d.varRef == symbols.NoIndex:
			out = append(out, diag.Diagnostic{
				ID:             "nullPointer",
				Severity:       diag.Error,
				Certainty:      diag.Inconclusive,
				ShortMessage:   fmt.Sprintf("possible null pointer dereference of unresolved symbol '%s'", ot.Text),
				VerboseMessage: fmt.Sprintf("'%s' could not be resolved to a known variable; its value is not provably non-null", ot.Text),
				CallStack:      []diag.Location{list.Location(d.opTok)},
				SymbolNames:    []string{ot.Text},
			})
		default:
			if fact, ok := facts.Merged(d.operand); ok && isDefiniteNull(fact) {
				out = append(out, diag.Diagnostic{
					ID:             "nullPointer",
					Severity:       diag.Error,
					Certainty:      diag.Definite,
					ShortMessage:   fmt.Sprintf("null pointer dereference of '%s'", ot.Text),
					VerboseMessage: fmt.Sprintf("'%s' is null at this point and is dereferenced here", ot.Text),
					CallStack:      []diag.Location{list.Location(d.opTok)},
					SymbolNames:    []string{ot.Text},
				})
			}
		}
	}
	return out
}

// Summarize implements checks.Summarizer: every dereference inside a
// function body becomes a ParamCondition on the dereferenced parameter,
// and every call to a function defined in this TU becomes a CallSite
// carrying the caller's own fact for its (sole-modelled) argument.
func (NullPointer) Summarize(view checks.View) []interface{} {
	list := view.List()
	st := view.Symbols()
	facts := view.Facts()

	var out []interface{}

	byFunc := make(map[int32][]ctu.ParamCondition)
	for _, d := range findDerefs(view) {
		if d.varRef == symbols.NoIndex {
			continue
		}
		v := st.Variables[d.varRef]
		if !v.IsArgument {
			continue
		}
		fi := functionOf(st, d.scopeRef)
		if fi == symbols.NoIndex {
			continue
		}
		pi := paramIndexOf(st.Functions[fi], d.varRef)
		if pi < 0 {
			continue
		}
		byFunc[fi] = append(byFunc[fi], ctu.ParamCondition{
			ParamIndex: pi,
			Kind:       ctu.Dereferenced,
			Loc:        list.Location(d.opTok),
		})
	}
	for fi, conds := range byFunc {
		fn := st.Functions[fi]
		name := funcNameByToken(list, fn.NameToken)
		if name == "" {
			continue
		}
		out = append(out, ctu.FunctionSummary{
			Symbol:     name,
			File:       list.FileOf(fn.NameToken),
			Conditions: conds,
		})
	}

	for _, id := range list.Tokens() {
		t := list.At(id)
		if t.Text != "(" || !isCallNode(list, id) {
			continue
		}
		callee := list.At(t.ASTOperand1)
		if callee.Kind != token.Identifier {
			continue
		}
		if _, ok := lookupFunctionByName(st, list, callee.Text); !ok {
			continue
		}
		var argFacts []valueflow.Fact
		if t.ASTOperand2 != token.None {
			if f, ok := facts.Merged(t.ASTOperand2); ok {
				argFacts = append(argFacts, f)
			} else {
				argFacts = append(argFacts, valueflow.Unknown())
			}
		}
		callerFn := functionOf(st, t.ScopeRef)
		callerSymbol := ""
		if callerFn != symbols.NoIndex {
			callerSymbol = funcNameByToken(list, st.Functions[callerFn].NameToken)
		}
		out = append(out, ctu.CallSite{
			CallerSymbol: callerSymbol,
			Callee:       callee.Text,
			ArgFacts:     argFacts,
			Loc:          list.Location(id),
		})
	}
	return out
}

// findDerefs scans the whole TU once for unary-`*` and `->` dereference
// sites, shared by Run and Summarize so the two agree on what counts as a
// dereference.
func findDerefs(view checks.View) []derefSite {
	list := view.List()
	var out []derefSite
	for _, id := range list.Tokens() {
		t := list.At(id)
		isDeref := (t.Text == "*" && t.ASTOperand2 == token.None && t.ASTOperand1 != token.None) ||
			(t.Text == "->" && t.ASTOperand1 != token.None)
		if !isDeref {
			continue
		}
		operand := t.ASTOperand1
		ot := list.At(operand)
		varRef := symbols.NoIndex
		if ot.Kind == token.Identifier {
			varRef = ot.VariableRef
		}
		out = append(out, derefSite{opTok: id, operand: operand, varRef: varRef, scopeRef: t.ScopeRef})
	}
	return out
}

func isDefiniteNull(f valueflow.Fact) bool {
	return f.Kind == valueflow.KindInteger && f.Certainty == valueflow.Definite && f.Lo == 0 && f.Hi == 0
}
