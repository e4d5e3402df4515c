package simplify

import (
	"testing"

	"github.com/funvibe/cppgo/internal/ppinput"
	"github.com/funvibe/cppgo/internal/tokenlist"
)

// build lexes texts the way the driver does (FromPreprocessed), so the
// tokens carry no FlagInserted: they stand for original source, which the
// typedef and enum passes rewrite.
func build(t *testing.T, texts ...string) *tokenlist.List {
	t.Helper()
	tu := &ppinput.TranslationUnit{Files: []string{"test.cpp"}}
	for i, txt := range texts {
		tu.Tokens = append(tu.Tokens, ppinput.Record{Text: txt, Line: 1, Column: i + 1})
	}
	list := tokenlist.FromPreprocessed(tu)
	list.LinkBrackets()
	return list
}

func joinText(list *tokenlist.List) []string {
	var out []string
	for _, id := range list.Tokens() {
		out = append(out, list.At(id).Text)
	}
	return out
}

func equalTexts(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFoldQualifiedNames(t *testing.T) {
	list := build(t, "std", "::", "vector", "::", "iterator", "x", ";")
	Simplify(list, DefaultConfig())
	got := joinText(list)
	want := []string{"std::vector::iterator", "x", ";"}
	if !equalTexts(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExpandTypedefs(t *testing.T) {
	list := build(t, "typedef", "int", "myint", ";", "myint", "x", ";")
	Simplify(list, DefaultConfig())
	got := joinText(list)
	want := []string{"int", "x", ";"}
	if !equalTexts(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveSizeofFundamental(t *testing.T) {
	list := build(t, "x", "=", "sizeof", "(", "int", ")", ";")
	Simplify(list, DefaultConfig())
	got := joinText(list)
	want := []string{"x", "=", "4", ";"}
	if !equalTexts(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitDeclarators(t *testing.T) {
	list := build(t, "int", "*", "a", ",", "b", ";")
	Simplify(list, DefaultConfig())
	got := joinText(list)
	want := []string{"int", "*", "a", ";", "int", "b", ";"}
	if !equalTexts(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizeUnaryPlus(t *testing.T) {
	list := build(t, "x", "=", "+", "y", ";")
	Simplify(list, DefaultConfig())
	got := joinText(list)
	want := []string{"x", "=", "y", ";"}
	if !equalTexts(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestConstantFold(t *testing.T) {
	list := build(t, "x", "=", "2", "+", "3", ";")
	Simplify(list, DefaultConfig())
	got := joinText(list)
	want := []string{"x", "=", "5", ";"}
	if !equalTexts(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRewriteWhileToFor(t *testing.T) {
	list := build(t, "while", "(", "c", ")", "{", "f", "(", ")", ";", "}")
	Simplify(list, DefaultConfig())
	got := joinText(list)
	want := []string{"for", "(", ";", "c", ";", ")", "{", "f", "(", ")", ";", "}"}
	if !equalTexts(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveEnumMembers(t *testing.T) {
	list := build(t, "enum", "{", "A", ",", "B", "=", "5", ",", "C", "}", ";", "x", "=", "C", ";")
	Simplify(list, DefaultConfig())
	got := joinText(list)
	// A=0, B=5, C=6; every occurrence (including the declaration site) is
	// replaced with its resolved value, per §4.3 rule 9.
	want := []string{"enum", "{", "0", ",", "5", "=", "5", ",", "6", "}", ";", "x", "=", "6", ";"}
	if !equalTexts(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCanonicalizePointerArithmetic(t *testing.T) {
	list := build(t, "x", "=", "*", "(", "p", "+", "i", ")", ";")
	Simplify(list, DefaultConfig())
	got := joinText(list)
	want := []string{"x", "=", "p", "[", "i", "]", ";"}
	if !equalTexts(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRemoveRegisterAndEmptyStatements(t *testing.T) {
	list := build(t, "register", "int", "x", ";", ";", "y", "=", "1", ";")
	Simplify(list, DefaultConfig())
	got := joinText(list)
	want := []string{"int", "x", ";", "y", "=", "1", ";"}
	if !equalTexts(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRemoveDeadCodeAfterReturn(t *testing.T) {
	list := build(t, "void", "f", "(", ")", "{", "return", ";", "x", "=", "1", ";", "}")
	Simplify(list, DefaultConfig())
	got := joinText(list)
	want := []string{"void", "f", "(", ")", "{", "return", ";", "}"}
	if !equalTexts(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestIterationCapProducesInternalError(t *testing.T) {
	list := build(t, "x", "=", "1", ";")
	cfg := Config{TypedefRecursionCap: 1, IterationCap: 0}
	diags := Simplify(list, cfg)
	if len(diags) == 0 {
		t.Fatalf("expected an internalError diagnostic when the iteration cap is exceeded")
	}
	if diags[0].ID != "internalError" {
		t.Fatalf("expected internalError diagnostic, got %s", diags[0].ID)
	}
}
