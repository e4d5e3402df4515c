package checks

import (
	"fmt"
	"sort"
	"time"

	"github.com/funvibe/cppgo/internal/diag"
)

// Runner invokes a resolved set of checks over one TU's View (§4.6
// "invoke each check over each translation unit").
type Runner struct {
	checks []Check
}

// NewRunner builds a Runner over an already-resolved (enabled, sorted)
// check list; callers typically pass the result of Registry.Resolve.
func NewRunner(checks []Check) *Runner { return &Runner{checks: checks} }

// Run executes every check against view and returns the combined
// diagnostics. §4.6 "Execution order" allows parallelism across checks
// within a TU provided the final order is deterministic; this
// implementation runs checks sequentially (in the caller-supplied,
// ID-sorted order) and still sorts the combined result, so the output is
// identical to a parallel implementation's — the sequential form is
// simply the simplest one that satisfies the contract without needing a
// worker pool at this granularity (the driver's own TU-level pool, C11,
// is where concurrency actually pays off).
//
// A check that panics or whose Run otherwise cannot be trusted is caught
// and reported as an internalError diagnostic (§4.6 "Failure") rather
// than aborting the remaining checks.
func (run *Runner) Run(view View) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, c := range run.checks {
		out = append(out, run.runOne(c, view)...)
	}
	sortDiagnostics(out, view)
	return out
}

// RunWithDeadline behaves like Run, except it checks deadline before
// invoking each remaining check (§5 "Per-stage deadlines are cooperative:
// each iterative algorithm... checks a deadline at well-defined points").
// A check's own Run is always let to finish once started — cancellation
// here is non-preemptive at the check granularity, matching §5's "A
// cancelled stage must leave data structures in a self-consistent state:
// typically by refusing to commit the partial results of the current
// pass while keeping all earlier committed results": once the deadline
// has passed, no further check is started, but every diagnostic already
// produced by an earlier check stays in the returned slice. A zero
// deadline disables the check entirely, equivalent to Run.
func (run *Runner) RunWithDeadline(view View, deadline time.Time) []diag.Diagnostic {
	if deadline.IsZero() {
		return run.Run(view)
	}
	var out []diag.Diagnostic
	for i, c := range run.checks {
		if time.Now().After(deadline) {
			out = append(out, (&diag.InternalError{
				Stage:   "checks",
				Message: fmt.Sprintf("timed out before running %d of %d remaining checks", len(run.checks)-i, len(run.checks)),
			}).ToDiagnostic())
			break
		}
		out = append(out, run.runOne(c, view)...)
	}
	sortDiagnostics(out, view)
	return out
}

func sortDiagnostics(out []diag.Diagnostic, view View) {
	sort.SliceStable(out, func(i, j int) bool {
		li, lj := out[i].PrimaryLocation(), out[j].PrimaryLocation()
		fi, fj := view.FileIndex(li.File), view.FileIndex(lj.File)
		if fi != fj {
			return fi < fj
		}
		if li.Line != lj.Line {
			return li.Line < lj.Line
		}
		if li.Column != lj.Column {
			return li.Column < lj.Column
		}
		return out[i].ID < out[j].ID
	})
}

func (run *Runner) runOne(c Check, view View) (ds []diag.Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			ds = []diag.Diagnostic{(&diag.InternalError{
				Stage:   c.ID(),
				Message: fmt.Sprintf("check panicked: %v", r),
			}).ToDiagnostic()}
		}
	}()
	return c.Run(view)
}
