package checks

import (
	"testing"

	"github.com/funvibe/cppgo/internal/diag"
)

type fakeCheck struct {
	id           string
	severity     diag.Severity
	ruleIDs      []string
	inconclusive bool
	run          func(View) []diag.Diagnostic
}

func (f *fakeCheck) ID() string                   { return f.id }
func (f *fakeCheck) RuleIDs() []string            { return f.ruleIDs }
func (f *fakeCheck) Severity() diag.Severity      { return f.severity }
func (f *fakeCheck) Granularity() Granularity     { return PerTU }
func (f *fakeCheck) RequiresInconclusive() bool   { return f.inconclusive }
func (f *fakeCheck) Run(v View) []diag.Diagnostic { return f.run(v) }

func TestRegisterDuplicateIDPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic on duplicate id registration")
		}
	}()
	reg := NewRegistry()
	reg.Register(&fakeCheck{id: "zerodiv"})
	reg.Register(&fakeCheck{id: "zerodiv"})
}

func TestResolveFiltersBySeverity(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&fakeCheck{id: "nullpointer", severity: diag.Error})
	reg.Register(&fakeCheck{id: "stylecheck", severity: diag.Style})

	es := EnabledSet{Severities: map[string]bool{"error": true}}
	resolved := reg.Resolve(es)
	if len(resolved) != 1 || resolved[0].ID() != "nullpointer" {
		t.Fatalf("expected only the error-severity check enabled, got %v", idsOf(resolved))
	}
}

func TestResolveEnableAllExcludesDebugAndInternal(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&fakeCheck{id: "a", severity: diag.Warning})
	reg.Register(&fakeCheck{id: "b", severity: diag.Debug})
	reg.Register(&fakeCheck{id: "c", severity: diag.Internal})

	es := EnabledSet{Severities: map[string]bool{"all": true}}
	resolved := reg.Resolve(es)
	if len(resolved) != 1 || resolved[0].ID() != "a" {
		t.Fatalf("expected --enable=all to exclude debug/internal, got %v", idsOf(resolved))
	}
}

func TestResolveRequiresInconclusiveGated(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&fakeCheck{id: "maybe", severity: diag.Warning, inconclusive: true})

	off := reg.Resolve(EnabledSet{Severities: map[string]bool{"warning": true}})
	if len(off) != 0 {
		t.Fatalf("expected inconclusive-only check to be disabled without inconclusive mode")
	}
	on := reg.Resolve(EnabledSet{Severities: map[string]bool{"warning": true}, Inconclusive: true})
	if len(on) != 1 {
		t.Fatalf("expected inconclusive-only check to be enabled with inconclusive mode")
	}
}

func TestResolveSkipsFullySuppressedRuleIDs(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&fakeCheck{id: "arrayindex", severity: diag.Warning, ruleIDs: []string{"arrayIndexOutOfBounds"}})

	es := EnabledSet{
		Severities:     map[string]bool{"warning": true},
		SuppressedRule: func(id string) bool { return id == "arrayIndexOutOfBounds" },
	}
	if resolved := reg.Resolve(es); len(resolved) != 0 {
		t.Fatalf("expected a check whose only rule-id is globally suppressed to be skipped")
	}
}

func TestResolveSortsByID(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&fakeCheck{id: "zerodiv", severity: diag.Warning})
	reg.Register(&fakeCheck{id: "arrayindex", severity: diag.Warning})
	reg.Register(&fakeCheck{id: "nullpointer", severity: diag.Warning})

	resolved := reg.Resolve(EnabledSet{Severities: map[string]bool{"warning": true}})
	want := []string{"arrayindex", "nullpointer", "zerodiv"}
	if got := idsOf(resolved); !equalStrings(got, want) {
		t.Fatalf("expected sorted order %v, got %v", want, got)
	}
}

func idsOf(cs []Check) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID()
	}
	return out
}

func equalStrings(a, b []string) bool {
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
