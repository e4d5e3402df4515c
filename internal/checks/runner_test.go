package checks

import (
	"testing"
	"time"

	"github.com/funvibe/cppgo/internal/diag"
	"github.com/funvibe/cppgo/internal/libconfig"
	"github.com/funvibe/cppgo/internal/symbols"
	"github.com/funvibe/cppgo/internal/tokenlist"
	"github.com/funvibe/cppgo/internal/valueflow"
)

// minimalView is a View whose List/Symbols/Facts accessors are never
// called by the checks under test here; they only exercise FileIndex,
// used by the runner's own sort.
type minimalView struct{}

func (minimalView) List() *tokenlist.List            { return nil }
func (minimalView) Symbols() *symbols.SymbolTable    { return nil }
func (minimalView) Facts() *valueflow.Result         { return nil }
func (minimalView) FileIndex(file string) int        { return 0 }
func (minimalView) LibConfig() *libconfig.Config     { return nil }

func TestRunnerCatchesPanicAsInternalError(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&fakeCheck{
		id:       "nullpointer",
		severity: diag.Error,
		run: func(View) []diag.Diagnostic {
			panic("simulated check failure")
		},
	})
	reg.Register(&fakeCheck{
		id:       "zerodiv",
		severity: diag.Error,
		run: func(View) []diag.Diagnostic {
			return []diag.Diagnostic{{ID: "zerodiv", Severity: diag.Error}}
		},
	})

	resolved := reg.Resolve(EnabledSet{Severities: map[string]bool{"error": true}})
	runner := NewRunner(resolved)
	ds := runner.Run(minimalView{})

	var sawInternal, sawZerodiv bool
	for _, d := range ds {
		if d.ID == "internalError" {
			sawInternal = true
		}
		if d.ID == "zerodiv" {
			sawZerodiv = true
		}
	}
	if !sawInternal {
		t.Fatalf("expected a panicking check to surface as an internalError diagnostic")
	}
	if !sawZerodiv {
		t.Fatalf("expected the non-panicking check's diagnostics to still come through")
	}
}

func TestRunWithDeadlineStopsStartingFurtherChecksOncePassed(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&fakeCheck{
		id:       "first",
		severity: diag.Error,
		run: func(View) []diag.Diagnostic {
			t.Fatalf("expected no check to start once the deadline had already passed before the run began")
			return nil
		},
	})

	resolved := reg.Resolve(EnabledSet{Severities: map[string]bool{"error": true}})
	runner := NewRunner(resolved)
	// A deadline already in the past: no check is ever started, but the
	// run still reports an internalError rather than silently returning
	// nothing.
	ds := runner.RunWithDeadline(minimalView{}, time.Now().Add(-time.Hour))

	var sawInternal bool
	for _, d := range ds {
		if d.ID == "internalError" {
			sawInternal = true
		}
	}
	if !sawInternal {
		t.Fatalf("expected a timed-out run to surface an internalError diagnostic")
	}
}

func TestRunWithDeadlineZeroDisablesTimeout(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&fakeCheck{
		id:       "only",
		severity: diag.Error,
		run: func(View) []diag.Diagnostic {
			return []diag.Diagnostic{{ID: "only", Severity: diag.Error}}
		},
	})
	resolved := reg.Resolve(EnabledSet{Severities: map[string]bool{"error": true}})
	runner := NewRunner(resolved)
	ds := runner.RunWithDeadline(minimalView{}, time.Time{})
	if len(ds) != 1 || ds[0].ID != "only" {
		t.Fatalf("expected a zero deadline to behave exactly like Run, got %+v", ds)
	}
}
