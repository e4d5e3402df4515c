package rules

import (
	"fmt"
	"strings"

	"github.com/funvibe/cppgo/internal/checks"
	"github.com/funvibe/cppgo/internal/diag"
	"github.com/funvibe/cppgo/internal/token"
	"github.com/funvibe/cppgo/internal/valueflow"
)

// ZeroDiv is §8 scenario 4's check: a binary `/` or `%` whose divisor's
// merged value-flow fact cannot rule out zero. It deliberately does not
// reconstruct the guarding `if (b == 0) {}` itself — by the time the
// division is reached, refineCondition's if-then join (engine.go's
// ScopeIf case) has already folded the checked-but-unhandled branch back
// into an env where b's interval still straddles zero, so the division's
// own divisor fact is all this needs to read.
//
// It also catches the supplemented case original_source/ adds beyond
// spec.md: a float divisor literal of exactly 0.0, reported at the lower
// style severity since IEEE float division by zero produces Inf/NaN
// rather than undefined behaviour (§3's severity taxonomy already reserves
// style for "legal but suspect").
type ZeroDiv struct{}

func (ZeroDiv) ID() string                    { return "zerodiv" }
func (ZeroDiv) RuleIDs() []string              { return []string{"zerodiv", "zerodivFloat"} }
func (ZeroDiv) Severity() diag.Severity        { return diag.Error }
func (ZeroDiv) Granularity() checks.Granularity { return checks.PerToken }
func (ZeroDiv) RequiresInconclusive() bool      { return false }

func (ZeroDiv) Run(view checks.View) []diag.Diagnostic {
	list := view.List()
	facts := view.Facts()

	var out []diag.Diagnostic
	for _, id := range list.Tokens() {
		t := list.At(id)
		if (t.Text != "/" && t.Text != "%") || t.ASTOperand1 == token.None || t.ASTOperand2 == token.None {
			continue
		}
		divisor := t.ASTOperand2

		if dt := list.At(divisor); dt.Kind == token.Number && isFloatZeroLiteral(dt.Text) {
			out = append(out, diag.Diagnostic{
				ID:             "zerodivFloat",
				Severity:       diag.Style,
				Certainty:      diag.Definite,
				ShortMessage:   "floating-point division by zero",
				VerboseMessage: "the divisor is the literal 0.0; IEEE arithmetic yields Inf or NaN rather than a trap, but this is almost never intended",
				CallStack:      []diag.Location{list.Location(id)},
			})
			continue
		}

		fact, ok := facts.Merged(divisor)
		if !ok || fact.Kind != valueflow.KindInteger {
			continue
		}
		if fact.Lo > 0 || fact.Hi < 0 {
			continue
		}
		certainty := diag.Inconclusive
		if fact.Certainty == valueflow.Definite && fact.Lo == 0 && fact.Hi == 0 {
			certainty = diag.Definite
		}
		out = append(out, diag.Diagnostic{
			ID:             "zerodiv",
			Severity:       diag.Error,
			Certainty:      certainty,
			ShortMessage:   fmt.Sprintf("division by a value that may be zero: '%s'", list.At(divisor).Text),
			VerboseMessage: fmt.Sprintf("the divisor's known range is [%d,%d], which includes zero", fact.Lo, fact.Hi),
			CallStack:      []diag.Location{list.Location(id)},
		})
	}
	return out
}

// isFloatZeroLiteral reports whether text is a floating-point literal
// whose value is exactly zero ("0.0", "0.", ".0", "0f", "0.0F", ...); a
// bare "0" is an integer literal and is left to the interval-fact path
// above, which already covers it via fact.Lo==0 && fact.Hi==0.
func isFloatZeroLiteral(text string) bool {
	s := strings.TrimSuffix(strings.TrimSuffix(text, "f"), "F")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "l"), "L")
	if !strings.ContainsAny(text, ".fFlL") {
		return false
	}
	for _, c := range s {
		if c != '0' && c != '.' {
			return false
		}
	}
	return strings.ContainsAny(s, "0.")
}
