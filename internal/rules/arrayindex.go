package rules

import (
	"fmt"

	"github.com/funvibe/cppgo/internal/checks"
	"github.com/funvibe/cppgo/internal/diag"
	"github.com/funvibe/cppgo/internal/symbols"
	"github.com/funvibe/cppgo/internal/token"
	"github.com/funvibe/cppgo/internal/valueflow"
)

// ArrayIndex is §8 scenario 1's check: a subscript `a[i]` on a
// fixed-size-array variable whose value-flow fact for the index proves (or
// cannot rule out) a value outside `[0, dim)`.
type ArrayIndex struct{}

func (ArrayIndex) ID() string                    { return "arrayindex" }
func (ArrayIndex) RuleIDs() []string              { return []string{"arrayIndexOutOfBounds"} }
func (ArrayIndex) Severity() diag.Severity        { return diag.Error }
func (ArrayIndex) Granularity() checks.Granularity { return checks.PerToken }
func (ArrayIndex) RequiresInconclusive() bool      { return false }

func (ArrayIndex) Run(view checks.View) []diag.Diagnostic {
	list := view.List()
	st := view.Symbols()
	facts := view.Facts()

	var out []diag.Diagnostic
	for _, id := range list.Tokens() {
		t := list.At(id)
		if t.Text != "[" || t.ASTOperand1 == token.None || t.ASTOperand2 == token.None {
			continue
		}
		arr := list.At(t.ASTOperand1)
		if arr.Kind != token.Identifier || arr.VariableRef == symbols.NoIndex {
			continue
		}
		v := st.Variables[arr.VariableRef]
		if !v.IsArray || len(v.ArrayDimensions) == 0 || v.ArrayDimensions[0] < 0 {
			continue
		}
		dim := int64(v.ArrayDimensions[0])

		idxFact, ok := facts.Merged(t.ASTOperand2)
		if !ok || idxFact.Kind != valueflow.KindInteger {
			continue
		}
		if idxFact.Lo >= 0 && idxFact.Hi < dim {
			continue
		}

		certainty := diag.Inconclusive
		if idxFact.Certainty == valueflow.Definite && (idxFact.Lo >= dim || idxFact.Hi < 0) {
			certainty = diag.Definite
		}
		out = append(out, diag.Diagnostic{
			ID:             "arrayIndexOutOfBounds",
			Severity:       diag.Error,
			Certainty:      certainty,
			ShortMessage:   fmt.Sprintf("array index out of bounds for '%s'", arr.Text),
			VerboseMessage: fmt.Sprintf("'%s' has %d elements; an index fact of [%d,%d] can reach outside that range", arr.Text, dim, idxFact.Lo, idxFact.Hi),
			CallStack:      []diag.Location{list.Location(id)},
			SymbolNames:    []string{arr.Text},
		})
	}
	return out
}
