package rules

import (
	"testing"
)

func TestUnusedFunctionFlagsNeverCalledDefinition(t *testing.T) {
	view, _ := buildView(t,
		"void", "helper", "(", ")", "{", "return", ";", "}",
		"int", "main", "(", ")", "{", "return", "0", ";", "}")
	u := NewUnusedFunction()
	u.Run(view)
	ds := u.Report()
	if !containsID(ds, "unusedFunction") {
		t.Fatalf("expected unusedFunction for helper, got %+v", ds)
	}
	for _, d := range ds {
		if d.ID == "unusedFunction" && d.SymbolNames[0] == "main" {
			t.Fatalf("expected main to never be reported as unused, got %+v", d)
		}
	}
}

func TestUnusedFunctionSkipsFunctionCalledInAnotherTU(t *testing.T) {
	defTU, _ := buildView(t,
		"void", "helper", "(", ")", "{", "return", ";", "}")
	callTU, _ := buildView(t,
		"int", "main", "(", ")", "{", "helper", "(", ")", ";", "return", "0", ";", "}")

	u := NewUnusedFunction()
	u.Run(defTU)
	u.Run(callTU)
	ds := u.Report()
	if containsID(ds, "unusedFunction") {
		t.Fatalf("expected no diagnostic once another TU calls helper, got %+v", ds)
	}
}

func TestUnusedFunctionSkipsDeclarationOnly(t *testing.T) {
	view, _ := buildView(t,
		"void", "helper", "(", ")", ";",
		"int", "main", "(", ")", "{", "return", "0", ";", "}")
	u := NewUnusedFunction()
	u.Run(view)
	ds := u.Report()
	if containsID(ds, "unusedFunction") {
		t.Fatalf("expected no diagnostic for a declaration with no body, got %+v", ds)
	}
}
