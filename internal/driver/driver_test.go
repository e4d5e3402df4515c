package driver

import (
	"context"
	"testing"

	"github.com/funvibe/cppgo/internal/checks"
	"github.com/funvibe/cppgo/internal/diag"
	"github.com/funvibe/cppgo/internal/ppinput"
)

// fakeCheck is a minimal checks.Check used to exercise the driver without
// depending on any concrete rule package (internal/rules is built
// separately and would otherwise make this a circular/integration test).
type fakeCheck struct {
	id  string
	run func(checks.View) []diag.Diagnostic
}

func (c *fakeCheck) ID() string                       { return c.id }
func (c *fakeCheck) RuleIDs() []string                { return []string{c.id} }
func (c *fakeCheck) Severity() diag.Severity          { return diag.Error }
func (c *fakeCheck) Granularity() checks.Granularity  { return checks.PerTU }
func (c *fakeCheck) RequiresInconclusive() bool       { return false }
func (c *fakeCheck) Run(v checks.View) []diag.Diagnostic { return c.run(v) }

func tokens(texts ...string) []ppinput.Record {
	recs := make([]ppinput.Record, len(texts))
	for i, txt := range texts {
		recs[i] = ppinput.Record{Text: txt, FileIndex: 0, Line: i + 1, Column: 1}
	}
	return recs
}

func TestRunProducesSortedDeduplicatedDiagnostics(t *testing.T) {
	reg := checks.NewRegistry()
	reg.Register(&fakeCheck{
		id: "always",
		run: func(v checks.View) []diag.Diagnostic {
			return []diag.Diagnostic{
				{ID: "always", Severity: diag.Error, ShortMessage: "boom", CallStack: []diag.Location{{File: "a.c", Line: 1, Column: 1}}},
				{ID: "always", Severity: diag.Error, ShortMessage: "boom", CallStack: []diag.Location{{File: "a.c", Line: 1, Column: 1}}},
			}
		},
	})

	cfg := DefaultConfig()
	d, err := New(reg, nil, cfg)
	if err != nil {
		t.Fatalf("unexpected error constructing driver: %v", err)
	}
	defer d.Close()

	tu := &ppinput.TranslationUnit{
		Files:  []string{"a.c"},
		Tokens: tokens("int", "x", "=", "5", ";"),
	}

	var delivered []diag.Diagnostic
	sink := diag.SinkFunc(func(ds []diag.Diagnostic) error {
		delivered = ds
		return nil
	})

	code, err := d.Run(context.Background(), []*ppinput.TranslationUnit{tu}, sink)
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if code != 1 {
		t.Fatalf("expected a non-suppressed error diagnostic to force exit code 1, got %d", code)
	}
	if len(delivered) != 1 {
		t.Fatalf("expected the two identical diagnostics to be deduplicated to 1, got %d", len(delivered))
	}
}

func TestRunWithNoErrorsExitsZero(t *testing.T) {
	reg := checks.NewRegistry()
	reg.Register(&fakeCheck{
		id:  "styleOnly",
		run: func(v checks.View) []diag.Diagnostic { return nil },
	})

	cfg := DefaultConfig()
	d, err := New(reg, nil, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer d.Close()

	tu := &ppinput.TranslationUnit{Files: []string{"empty.c"}}
	var delivered []diag.Diagnostic
	sink := diag.SinkFunc(func(ds []diag.Diagnostic) error {
		delivered = ds
		return nil
	})

	code, err := d.Run(context.Background(), []*ppinput.TranslationUnit{tu}, sink)
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit code 0 for an empty TU, got %d", code)
	}
	if len(delivered) != 0 {
		t.Fatalf("expected no diagnostics for an empty TU, got %+v", delivered)
	}
}

func TestRunParallelJobsDeduplicatesIdenticalDiagnostics(t *testing.T) {
	reg := checks.NewRegistry()
	reg.Register(&fakeCheck{
		id: "perTU",
		run: func(v checks.View) []diag.Diagnostic {
			return []diag.Diagnostic{{ID: "perTU", Severity: diag.Error, ShortMessage: "x"}}
		},
	})

	cfg := DefaultConfig()
	cfg.Jobs = 4
	d, err := New(reg, nil, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer d.Close()

	var units []*ppinput.TranslationUnit
	for i := 0; i < 8; i++ {
		units = append(units, &ppinput.TranslationUnit{Files: []string{"f.c"}, Tokens: tokens("int", "x", ";")})
	}

	var delivered []diag.Diagnostic
	sink := diag.SinkFunc(func(ds []diag.Diagnostic) error {
		delivered = ds
		return nil
	})

	code, err := d.Run(context.Background(), units, sink)
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if code != 1 {
		t.Fatalf("expected exit code 1")
	}
	// Every unit produces an identical diagnostic (same id, empty call
	// stack), so after dedup exactly one survives regardless of how many
	// workers raced to produce it.
	if len(delivered) != 1 {
		t.Fatalf("expected exactly 1 deduplicated diagnostic across 8 TUs, got %d", len(delivered))
	}
}

func TestFingerprintIsStableForIdenticalTU(t *testing.T) {
	reg := checks.NewRegistry()
	cfg := DefaultConfig()
	cfg.CacheDir = t.TempDir() + "/cache.db"
	d, err := New(reg, nil, cfg)
	if err != nil {
		t.Fatalf("unexpected error opening driver with cache: %v", err)
	}
	defer d.Close()

	tu := &ppinput.TranslationUnit{Files: []string{"a.c"}, Defines: []string{"FOO"}}
	a := d.fingerprint(tu)
	b := d.fingerprint(tu)
	if a == "" || a != b {
		t.Fatalf("expected a stable, non-empty fingerprint for the same TU, got %q and %q", a, b)
	}

	tu2 := &ppinput.TranslationUnit{Files: []string{"a.c"}, Defines: []string{"BAR"}}
	if d.fingerprint(tu2) == a {
		t.Fatalf("expected a different define set to change the fingerprint")
	}
}

func TestRunUsesCacheOnSecondInvocation(t *testing.T) {
	reg := checks.NewRegistry()
	calls := 0
	reg.Register(&fakeCheck{
		id: "counted",
		run: func(v checks.View) []diag.Diagnostic {
			calls++
			return []diag.Diagnostic{{ID: "counted", Severity: diag.Error, ShortMessage: "x"}}
		},
	})

	cfg := DefaultConfig()
	cfg.CacheDir = t.TempDir() + "/cache.db"
	d, err := New(reg, nil, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer d.Close()

	tu := &ppinput.TranslationUnit{Files: []string{"a.c"}, Tokens: tokens("int", "x", ";")}
	noop := diag.SinkFunc(func([]diag.Diagnostic) error { return nil })

	if _, err := d.Run(context.Background(), []*ppinput.TranslationUnit{tu}, noop); err != nil {
		t.Fatalf("unexpected error on first run: %v", err)
	}
	if _, err := d.Run(context.Background(), []*ppinput.TranslationUnit{tu}, noop); err != nil {
		t.Fatalf("unexpected error on second run: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected the check to run exactly once, with the second invocation served from cache, got %d calls", calls)
	}
}
