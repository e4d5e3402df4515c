package pattern

import (
	"testing"

	"github.com/funvibe/cppgo/internal/ppinput"
	"github.com/funvibe/cppgo/internal/tokenlist"
)

func build(t *testing.T, texts ...string) *tokenlist.List {
	t.Helper()
	tu := &ppinput.TranslationUnit{Files: []string{"a.c"}}
	for i, txt := range texts {
		tu.Tokens = append(tu.Tokens, ppinput.Record{Text: txt, FileIndex: 0, Line: 1, Column: i + 1})
	}
	return tokenlist.FromPreprocessed(tu)
}

func TestCompileRejectsMalformed(t *testing.T) {
	if _, err := Compile(""); err == nil {
		t.Fatalf("expected error for empty pattern")
	}
	if _, err := Compile("%bogus%"); err == nil {
		t.Fatalf("expected error for unknown placeholder")
	}
	if _, err := Compile("[ab"); err == nil {
		t.Fatalf("expected error for malformed character class")
	}
}

func TestMatchLiteralSequence(t *testing.T) {
	list := build(t, "if", "(", "x", ")")
	pat, err := Compile("if (")
	if err != nil {
		t.Fatal(err)
	}
	m := NewMatcher(list, nil)
	ok, _ := m.Match(list.First(), pat)
	if !ok {
		t.Fatalf("expected match")
	}
}

func TestMatchVarAndAssign(t *testing.T) {
	list := build(t, "x", "=", "5", ";")
	pat, err := Compile("%var% %assign% %num%")
	if err != nil {
		t.Fatal(err)
	}
	m := NewMatcher(list, nil)
	ok, end := m.Match(list.First(), pat)
	if !ok {
		t.Fatalf("expected match")
	}
	if list.At(end).Text != "5" {
		t.Fatalf("expected match to end at the literal 5")
	}
}

func TestMatchOptionalAtom(t *testing.T) {
	list := build(t, "int", "x", ";")
	pat, err := Compile("int const? %var%")
	if err != nil {
		t.Fatal(err)
	}
	m := NewMatcher(list, nil)
	ok, _ := m.Match(list.First(), pat)
	if !ok {
		t.Fatalf("expected optional atom to allow absent form")
	}
}

func TestMatchAlternationAndCharClass(t *testing.T) {
	list := build(t, "+")
	pat, err := Compile("[+-]")
	if err != nil {
		t.Fatal(err)
	}
	m := NewMatcher(list, nil)
	if ok, _ := m.Match(list.First(), pat); !ok {
		t.Fatalf("expected char class to match +")
	}

	list2 := build(t, "while")
	pat2, err := Compile("if|while|for")
	if err != nil {
		t.Fatal(err)
	}
	m2 := NewMatcher(list2, nil)
	if ok, _ := m2.Match(list2.First(), pat2); !ok {
		t.Fatalf("expected alternation to match while")
	}
}

func TestMatchNegation(t *testing.T) {
	list := build(t, "foo")
	pat, err := Compile("!!bar")
	if err != nil {
		t.Fatal(err)
	}
	m := NewMatcher(list, nil)
	if ok, _ := m.Match(list.First(), pat); !ok {
		t.Fatalf("expected !!bar to match any token whose text isn't bar")
	}
}

type stubTypes map[string]bool

func (s stubTypes) IsType(name string) bool { return s[name] }

func TestMatchTypeOracle(t *testing.T) {
	list := build(t, "MyType", "x")
	pat, err := Compile("%type% %var%")
	if err != nil {
		t.Fatal(err)
	}
	m := NewMatcher(list, stubTypes{"MyType": true})
	if ok, _ := m.Match(list.First(), pat); !ok {
		t.Fatalf("expected %%type%% to recognize MyType via the oracle")
	}
}
