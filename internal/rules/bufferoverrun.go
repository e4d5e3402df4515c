package rules

import (
	"fmt"

	"github.com/funvibe/cppgo/internal/checks"
	"github.com/funvibe/cppgo/internal/diag"
	"github.com/funvibe/cppgo/internal/symbols"
	"github.com/funvibe/cppgo/internal/token"
)

// BufferOverrun is §8 scenario 2's check: a call to a known
// "dangerous function" (original_source/checkbufferoverrun.h's own
// `dangerousFunctions` pass, which flags strcpy/strcat/sprintf/gets by
// name rather than tracking string lengths) whose destination argument is
// a fixed-size local array, since none of those functions bound how much
// they write. This core does not track string/buffer lengths (that is
// §4.5's ContainerSize fact, which this check does not consume — it
// flags the call shape itself, the same coarse, name-based heuristic the
// original dangerousFunctions pass uses), so every match is inconclusive.
type BufferOverrun struct{}

func (BufferOverrun) ID() string                    { return "bufferoverrun" }
func (BufferOverrun) RuleIDs() []string              { return []string{"bufferAccessOutOfBounds"} }
func (BufferOverrun) Severity() diag.Severity        { return diag.Warning }
func (BufferOverrun) Granularity() checks.Granularity { return checks.PerToken }
func (BufferOverrun) RequiresInconclusive() bool      { return true }

// dangerousFunctions are library calls that write an unbounded amount of
// data through their first argument, per original_source/
// checkbufferoverrun.h's dangerousFunctions pass.
var dangerousFunctions = map[string]bool{
	"strcpy": true, "strcat": true, "sprintf": true, "gets": true, "vsprintf": true,
}

func (BufferOverrun) Run(view checks.View) []diag.Diagnostic {
	list := view.List()
	st := view.Symbols()

	var out []diag.Diagnostic
	for _, id := range list.Tokens() {
		t := list.At(id)
		if t.Text != "(" || !isCallNode(list, id) {
			continue
		}
		callee := list.At(t.ASTOperand1)
		if callee.Kind != token.Identifier || !dangerousFunctions[callee.Text] {
			continue
		}
		if t.ASTOperand2 == token.None {
			continue
		}
		dest := list.At(t.ASTOperand2)
		if dest.Kind != token.Identifier || dest.VariableRef == symbols.NoIndex {
			continue
		}
		v := st.Variables[dest.VariableRef]
		if !v.IsArray || len(v.ArrayDimensions) == 0 || v.ArrayDimensions[0] < 0 {
			continue
		}
		out = append(out, diag.Diagnostic{
			ID:             "bufferAccessOutOfBounds",
			Severity:       diag.Warning,
			Certainty:      diag.Inconclusive,
			ShortMessage:   fmt.Sprintf("'%s' may write past the end of '%s'", callee.Text, dest.Text),
			VerboseMessage: fmt.Sprintf("'%s' does not bound how much it writes; '%s' is a fixed-size buffer of %d elements", callee.Text, dest.Text, v.ArrayDimensions[0]),
			CallStack:      []diag.Location{list.Location(id)},
			SymbolNames:    []string{callee.Text, dest.Text},
		})
	}
	return out
}
