package valueflow

import (
	"testing"

	"github.com/funvibe/cppgo/internal/symbols"
	"github.com/funvibe/cppgo/internal/token"
	"github.com/funvibe/cppgo/internal/tokenlist"
)

func build(t *testing.T, texts ...string) *tokenlist.List {
	t.Helper()
	list := tokenlist.New([]string{"test.cpp"})
	var prev token.ID = token.None
	for _, txt := range texts {
		prev = list.InsertAfter(prev, txt, tokenlist.Classify(txt))
	}
	if errs := list.LinkBrackets(); len(errs) != 0 {
		t.Fatalf("unexpected link errors: %v", errs)
	}
	return list
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

func TestDeclarationInitializerSeedsLiteral(t *testing.T) {
	list := build(t, "int", "x", "=", "5", ";")
	st := symbols.Build(list)
	res := Run(list, st, DefaultConfig())

	xDecl := nthOccurrence(list, "x", 1)
	f, ok := res.Merged(xDecl)
	if !ok {
		t.Fatalf("expected a fact attached to x's declaration")
	}
	if f.Kind != KindInteger || f.Lo != 5 || f.Hi != 5 {
		t.Fatalf("expected x seeded to Single(5), got %+v", f)
	}
}

func TestUninitializedVariableSeedsUninitializedKind(t *testing.T) {
	list := build(t, "int", "x", ";", "y", "=", "x", ";")
	st := symbols.Build(list)
	res := Run(list, st, DefaultConfig())

	xDecl := nthOccurrence(list, "x", 1)
	f, ok := res.Merged(xDecl)
	if !ok {
		t.Fatalf("expected a fact attached to x's declaration")
	}
	if f.Kind != KindUninitialized {
		t.Fatalf("expected x to be seeded Uninitialized, got %+v", f)
	}

	xRead := nthOccurrence(list, "x", 2)
	rf, ok := res.Merged(xRead)
	if !ok {
		t.Fatalf("expected a fact attached to the read of x")
	}
	if rf.Kind != KindUninitialized {
		t.Fatalf("expected the read of x to carry the same Uninitialized fact, got %+v", rf)
	}
}

func TestAssignmentPropagatesAcrossVariables(t *testing.T) {
	list := build(t, "int", "x", "=", "5", ";", "int", "y", "=", "x", ";")
	st := symbols.Build(list)
	res := Run(list, st, DefaultConfig())

	yDecl := nthOccurrence(list, "y", 1)
	f, ok := res.Merged(yDecl)
	if !ok {
		t.Fatalf("expected a fact attached to y's declaration")
	}
	if f.Kind != KindInteger || f.Lo != 5 || f.Hi != 5 {
		t.Fatalf("expected y seeded to Single(5) by copying x, got %+v", f)
	}
}

func TestArithmeticFoldsInterval(t *testing.T) {
	list := build(t, "x", "=", "2", "+", "3", ";")
	st := symbols.Build(list)
	res := Run(list, st, DefaultConfig())

	plus := nthOccurrence(list, "+", 1)
	f, ok := res.Merged(plus)
	if !ok {
		t.Fatalf("expected a fact attached to the '+' node")
	}
	if f.Kind != KindInteger || f.Lo != 5 || f.Hi != 5 {
		t.Fatalf("expected 2+3 to fold to Single(5), got %+v", f)
	}
}

func TestIfConditionNarrowsVariableInterval(t *testing.T) {
	list := build(t, "int", "i", ";", "if", "(", "i", "<", "10", ")", "{", "x", "=", "i", ";", "}")
	st := symbols.Build(list)
	res := Run(list, st, DefaultConfig())

	// the 2nd occurrence of "i" is the one inside the if's condition; the
	// 3rd is the read of i inside the if-body.
	bodyRead := nthOccurrence(list, "i", 3)
	f, ok := res.Merged(bodyRead)
	if !ok {
		t.Fatalf("expected a fact attached to the body's read of i")
	}
	if f.Kind != KindInteger || f.Hi > 9 {
		t.Fatalf("expected i narrowed to <= 9 inside the guarded block, got %+v", f)
	}
}

func TestCallResultIsConservativeUnknown(t *testing.T) {
	list := build(t, "x", "=", "f", "(", ")", ";")
	st := symbols.Build(list)
	res := Run(list, st, DefaultConfig())

	assign := nthOccurrence(list, "=", 1)
	f, ok := res.Merged(assign)
	if !ok {
		t.Fatalf("expected a fact attached to the assignment")
	}
	if f.Certainty != Inconclusive {
		t.Fatalf("expected a no-body call's result to be inconclusive, got %+v", f)
	}
}

func TestLoopUnderLowIterationCapKeepsIntegerIncrementFact(t *testing.T) {
	list := build(t, "for", "(", "int", "i", "=", "0", ";", "i", "<", "10", ";", "i", "++", ")",
		"{", "x", "=", "i", ";", "}")
	st := symbols.Build(list)
	res := Run(list, st, Config{IterationCap: 2})

	incr := nthOccurrence(list, "++", 1)
	f, ok := res.Merged(incr)
	if !ok {
		t.Fatalf("expected a fact attached to the increment")
	}
	if f.Kind != KindInteger {
		t.Fatalf("expected an integer fact for i++, got %+v", f)
	}
}

func TestForConditionWidensIndexTowardStatedBound(t *testing.T) {
	list := build(t,
		"int", "a", "[", "5", "]", ";",
		"for", "(", "int", "i", "=", "0", ";", "i", "<=", "5", ";", "i", "++", ")",
		"{", "a", "[", "i", "]", "=", "0", ";", "}")
	st := symbols.Build(list)
	res := Run(list, st, DefaultConfig())

	idx := nthOccurrence(list, "i", 4) // the read inside "a[i]"
	f, ok := res.Merged(idx)
	if !ok {
		t.Fatalf("expected a fact attached to the body's read of i")
	}
	if f.Kind != KindInteger || f.Hi < 5 {
		t.Fatalf("expected i widened to reach the condition's stated bound of 5, got %+v", f)
	}
}

func TestDivisionByZeroIntervalIsInconclusive(t *testing.T) {
	list := build(t, "x", "=", "1", "/", "0", ";")
	st := symbols.Build(list)
	res := Run(list, st, DefaultConfig())

	div := nthOccurrence(list, "/", 1)
	f, ok := res.Merged(div)
	if !ok {
		t.Fatalf("expected a fact attached to the division")
	}
	if f.Certainty != Inconclusive {
		t.Fatalf("expected division by a zero-valued divisor to yield an inconclusive result, got %+v", f)
	}
}
