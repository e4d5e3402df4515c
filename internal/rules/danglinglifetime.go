package rules

import (
	"fmt"

	"github.com/funvibe/cppgo/internal/checks"
	"github.com/funvibe/cppgo/internal/diag"
	"github.com/funvibe/cppgo/internal/pattern"
	"github.com/funvibe/cppgo/internal/symbols"
	"github.com/funvibe/cppgo/internal/token"
)

// danglingLifetimePattern is the C3 mini-language shape this check looks
// for: "return & %var% ;" (§4.2). mustCompile panics on a malformed pattern,
// which would be a programming error caught at package init, not a
// runtime condition.
var danglingLifetimePattern = mustCompile("return & %var% ;")

func mustCompile(raw string) *pattern.Pattern {
	p, err := pattern.Compile(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// DanglingLifetime is §8 scenario 3's check: `return &local;` where local
// is an automatic-storage variable of the enclosing function. The current
// value-flow engine never seeds a KindLifetime fact (unary `&` falls to
// expr.go's default case, and no caller populates LifetimeOf/LifetimeScope
// anywhere), so rather than bolt that lattice member onto the engine for a
// single illustrative rule, this check does its own direct AST walk over
// `return` statements, using C3's pattern matcher (internal/pattern) to
// recognize the shape instead of hand-comparing each token in turn.
type DanglingLifetime struct{}

func (DanglingLifetime) ID() string                    { return "danglinglifetime" }
func (DanglingLifetime) RuleIDs() []string              { return []string{"returnDanglingLifetime"} }
func (DanglingLifetime) Severity() diag.Severity        { return diag.Error }
func (DanglingLifetime) Granularity() checks.Granularity { return checks.PerToken }
func (DanglingLifetime) RequiresInconclusive() bool      { return false }

func (DanglingLifetime) Run(view checks.View) []diag.Diagnostic {
	list := view.List()
	st := view.Symbols()
	matcher := pattern.NewMatcher(list, st)

	var out []diag.Diagnostic
	for _, id := range list.Tokens() {
		t := list.At(id)
		if t.Kind != token.Keyword || t.Text != "return" {
			continue
		}
		if ok, _ := matcher.Match(id, danglingLifetimePattern); !ok {
			// Something other than a bare `&name;` follows (a member
			// access, an array index, ...); not the shape this check models.
			continue
		}
		amp := list.Next(id)
		nameTok := list.Next(amp)
		nt := list.At(nameTok)
		if nt.VariableRef == symbols.NoIndex {
			continue
		}

		v := st.Variables[nt.VariableRef]
		if !v.IsLocal || v.IsArgument || isDeclaredStatic(list, v.TypeStart) {
			continue
		}
		fi := functionOf(st, t.ScopeRef)
		if fi == symbols.NoIndex {
			continue
		}
		fn := st.Functions[fi]
		if !withinScope(st, v.DeclaringScope, fn.BodyScope) {
			continue
		}

		out = append(out, diag.Diagnostic{
			ID:             "returnDanglingLifetime",
			Severity:       diag.Error,
			Certainty:      diag.Definite,
			ShortMessage:   fmt.Sprintf("returning address of local variable '%s'", nt.Text),
			VerboseMessage: fmt.Sprintf("'%s' is automatic storage owned by this function; its address no longer refers to valid storage once the function returns", nt.Text),
			CallStack:      []diag.Location{list.Location(amp)},
			SymbolNames:    []string{nt.Text},
		})
	}
	return out
}

// withinScope reports whether scope is root or nested inside root via the
// Parent chain.
func withinScope(st *symbols.SymbolTable, scope, root int32) bool {
	for s := scope; s != symbols.NoIndex; s = st.Scopes[s].Parent {
		if s == root {
			return true
		}
	}
	return false
}

// isDeclaredStatic looks one token back from a variable's own type-spec
// start for a "static" storage-class specifier. internal/symbols does not
// record storage-class specifiers on Variable (its declaration scan only
// recognizes a type-spec, never a preceding "static"/"extern"), so this
// check reads the token stream directly rather than a field that is never
// populated.
func isDeclaredStatic(list interface {
	At(token.ID) *token.Token
	Prev(token.ID) token.ID
}, typeStart token.ID) bool {
	prev := list.Prev(typeStart)
	return prev != token.None && list.At(prev).Text == "static"
}
