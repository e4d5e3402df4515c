// Package rules is the illustrative catalogue of concrete checks (§8,
// SPEC_FULL.md's SUPPLEMENTED FEATURES) built against the C7 Check
// interface: nullpointer, arrayindex, zerodiv, danglinglifetime,
// bufferoverrun, and the cross-translation-unit unusedfunction check.
// Each is deliberately narrow — a real catalogue has hundreds of these —
// but every one is wired end to end through C2/C5/C6/C7/C8 exactly as a
// production rule would be.
package rules

import (
	"github.com/funvibe/cppgo/internal/symbols"
	"github.com/funvibe/cppgo/internal/token"
)

// functionOf walks scopeIdx outward to the nearest enclosing ScopeFunction
// and returns the Function it belongs to, or symbols.NoIndex if scopeIdx
// is not nested in one (e.g. a global-scope statement).
func functionOf(st *symbols.SymbolTable, scopeIdx int32) int32 {
	for s := scopeIdx; s != symbols.NoIndex; s = st.Scopes[s].Parent {
		if st.Scopes[s].Kind == symbols.ScopeFunction {
			return st.Scopes[s].Function
		}
	}
	return symbols.NoIndex
}

// paramIndexOf returns varIdx's position among fn's own Arguments, or -1.
func paramIndexOf(fn symbols.Function, varIdx int32) int {
	for i, a := range fn.Arguments {
		if a == varIdx {
			return i
		}
	}
	return -1
}

// funcNameByToken returns the text of a function's own name token, the
// symbol the CTU merger keys summaries by (§4.7: "mangled function name,
// or linker-visible symbol equivalent" — this core models neither
// mangling nor overload resolution, so a plain name is the whole of it).
func funcNameByToken(list interface {
	At(token.ID) *token.Token
}, nameTok token.ID) string {
	if nameTok == token.None {
		return ""
	}
	return list.At(nameTok).Text
}

// lookupFunctionByName returns the first Function in st whose own name
// token's text equals name, or (symbols.Function{}, false). First-match is
// a deliberate simplification: this core has no overload resolution, so a
// second function of the same name (an overload) is simply never the
// match a call site resolves to.
func lookupFunctionByName(st *symbols.SymbolTable, list interface {
	At(token.ID) *token.Token
}, name string) (symbols.Function, bool) {
	for _, fn := range st.Functions {
		if funcNameByToken(list, fn.NameToken) == name {
			return fn, true
		}
	}
	return symbols.Function{}, false
}

// isCallNode reports whether the '(' token id is a call expression (operand1
// is the callee, immediately preceding id) rather than a grouping
// parenthesis, matching the same test internal/valueflow/expr.go uses to
// tell the two apart.
func isCallNode(list interface {
	At(token.ID) *token.Token
	Prev(token.ID) token.ID
}, id token.ID) bool {
	t := list.At(id)
	return t.ASTOperand1 != token.None && list.Prev(id) == t.ASTOperand1
}
