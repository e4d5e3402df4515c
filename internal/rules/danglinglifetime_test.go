package rules

import (
	"testing"
)

func TestDanglingLifetimeFlagsReturnOfLocalAddress(t *testing.T) {
	// §8 scenario 3's shape: int* h() { int x = 3; return &x; }
	view, _ := buildView(t,
		"int", "*", "h", "(", ")", "{",
		"int", "x", "=", "3", ";",
		"return", "&", "x", ";",
		"}")
	ds := DanglingLifetime{}.Run(view)
	if !containsID(ds, "returnDanglingLifetime") {
		t.Fatalf("expected returnDanglingLifetime for &x, got %+v", ds)
	}
}

func TestDanglingLifetimeSkipsReturnOfParameterAddress(t *testing.T) {
	view, _ := buildView(t,
		"int", "*", "h", "(", "int", "x", ")", "{",
		"return", "&", "x", ";",
		"}")
	ds := DanglingLifetime{}.Run(view)
	if containsID(ds, "returnDanglingLifetime") {
		t.Fatalf("expected no diagnostic for returning the address of a parameter, got %+v", ds)
	}
}

func TestDanglingLifetimeSkipsReturnOfStaticAddress(t *testing.T) {
	view, _ := buildView(t,
		"int", "*", "h", "(", ")", "{",
		"static", "int", "x", "=", "3", ";",
		"return", "&", "x", ";",
		"}")
	ds := DanglingLifetime{}.Run(view)
	if containsID(ds, "returnDanglingLifetime") {
		t.Fatalf("expected no diagnostic for returning the address of a static variable, got %+v", ds)
	}
}

func TestDanglingLifetimeSkipsPlainValueReturn(t *testing.T) {
	view, _ := buildView(t,
		"int", "h", "(", ")", "{",
		"int", "x", "=", "3", ";",
		"return", "x", ";",
		"}")
	ds := DanglingLifetime{}.Run(view)
	if containsID(ds, "returnDanglingLifetime") {
		t.Fatalf("expected no diagnostic for a plain value return, got %+v", ds)
	}
}
