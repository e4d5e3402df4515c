// Package driver implements C11: end-to-end orchestration of C1-C10 for
// one invocation (§4.10). It schedules a worker pool across translation
// units (§5 "parallel workers across translation units; within a TU,
// analysis is single-threaded"), enforces per-TU/per-check/per-valueflow
// timeouts cooperatively, merges results through the diagnostic bus and
// CTU merger, consults the build-dir cache, and derives the process exit
// code from the final diagnostic stream.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/funvibe/cppgo/internal/cache"
	"github.com/funvibe/cppgo/internal/checks"
	"github.com/funvibe/cppgo/internal/ctu"
	"github.com/funvibe/cppgo/internal/diag"
	"github.com/funvibe/cppgo/internal/libconfig"
	"github.com/funvibe/cppgo/internal/ppinput"
	"github.com/funvibe/cppgo/internal/simplify"
	"github.com/funvibe/cppgo/internal/suppress"
	"github.com/funvibe/cppgo/internal/symbols"
	"github.com/funvibe/cppgo/internal/tokenlist"
	"github.com/funvibe/cppgo/internal/valueflow"
)

// Driver runs one end-to-end analysis invocation.
type Driver struct {
	cfg      Config
	registry *checks.Registry
	libcfg   *libconfig.Config
	cacheSt  *cache.Store

	// Suppress is consulted once per TU, after the merge, to resolve
	// both the delivered stream and the exit-code-exempt set (§4.8).
	Suppress *suppress.Engine

	lastRunID string
}

// LastRunID returns the uuid stamped on the most recent Run call, for a
// caller (cli, report front-end) to log alongside the exit code — useful
// for correlating one invocation's diagnostics with its cache writes
// after the fact.
func (d *Driver) LastRunID() string { return d.lastRunID }

// New builds a Driver over reg (the check catalogue), an optional library
// config (nil permitted), and cfg. If cfg.CacheDir is non-empty the
// build-dir cache is opened eagerly; a failure to open it degrades to
// running without a cache rather than aborting the invocation (§7
// "Resource... degrade gracefully").
func New(reg *checks.Registry, libcfg *libconfig.Config, cfg Config) (*Driver, error) {
	d := &Driver{cfg: cfg, registry: reg, libcfg: libcfg}
	if cfg.CacheDir != "" {
		if st, err := cache.Open(cfg.CacheDir); err == nil {
			d.cacheSt = st
		}
	}
	return d, nil
}

// Close releases the driver's cache handle, if any.
func (d *Driver) Close() error {
	if d.cacheSt != nil {
		return d.cacheSt.Close()
	}
	return nil
}

// tuResult is one TU's analysis outcome, produced by a worker and merged
// by Run.
type tuResult struct {
	tu          *ppinput.TranslationUnit
	diagnostics []diag.Diagnostic
	ctuEntries  []interface{}
}

// Run analyzes every tu in units, merges CTU summaries (§5 "waiting for
// CTU summaries to be complete before running C8" is the third
// suspension point), delivers the final diagnostic stream to sink, and
// returns the process exit code (§4.10 "nonzero iff any non-suppressed
// error-severity diagnostic was emitted").
func (d *Driver) Run(ctx context.Context, units []*ppinput.TranslationUnit, sink diag.Sink) (int, error) {
	d.lastRunID = uuid.NewString()

	fileOrder := make(map[string]int)
	for _, tu := range units {
		for i, f := range tu.Files {
			if _, ok := fileOrder[f]; !ok {
				fileOrder[f] = i + len(fileOrder)
			}
		}
	}

	bufSize := d.cfg.DiagnosticBufferSize
	bus := diag.NewBus(bufSize, fileOrder)

	results := d.analyzeAll(ctx, units)

	merger := ctu.NewMerger(d.cfg.CTUMaxDepth)
	var tuDiagnostics []diag.Diagnostic
	for _, r := range results {
		tuDiagnostics = append(tuDiagnostics, r.diagnostics...)
		merger.Ingest(r.ctuEntries)
	}
	ctuDiagnostics := merger.Merge()

	var crossTUDiagnostics []diag.Diagnostic
	for _, c := range d.registry.Resolve(d.cfg.Enabled) {
		if r, ok := c.(checks.CrossTUReporter); ok {
			crossTUDiagnostics = append(crossTUDiagnostics, r.Report()...)
		}
	}

	bus.Publish(tuDiagnostics...)
	bus.Publish(ctuDiagnostics...)
	bus.Publish(crossTUDiagnostics...)

	var exitOffenders bool
	err := bus.Flush(diag.SinkFunc(func(all []diag.Diagnostic) error {
		var delivered []diag.Diagnostic
		exitOffenders, delivered = d.applySuppression(all)
		return sink.Deliver(delivered)
	}))
	if err != nil {
		return 1, err
	}

	if exitOffenders {
		return 1, nil
	}
	return 0, nil
}

// applySuppression resolves every diagnostic against d.Suppress (a nil
// Suppress lets everything through unsuppressed) and returns both the
// stream to deliver and whether any undelivered-but-exit-relevant
// offender remains (§4.8's distinction between a diagnostic's visibility
// and its exit-code weight).
func (d *Driver) applySuppression(all []diag.Diagnostic) (exitOffenders bool, delivered []diag.Diagnostic) {
	for _, dg := range all {
		dec := suppress.Decision{}
		if d.Suppress != nil {
			dec = d.Suppress.Decide(dg)
		}
		if !dec.Suppressed {
			delivered = append(delivered, dg)
		}
		if dg.Severity == diag.Error && !dec.ExitExempt {
			exitOffenders = true
		}
	}
	if d.Suppress != nil {
		delivered = append(delivered, d.Suppress.UnmatchedSuppressions()...)
	}
	return exitOffenders, delivered
}

// analyzeAll runs analyzeTU for every unit across cfg.Jobs workers
// (§5 "parallel workers across translation units"), preserving the input
// order in the returned slice regardless of completion order so that
// downstream processing (CTU ingestion, fileOrder) stays deterministic.
func (d *Driver) analyzeAll(ctx context.Context, units []*ppinput.TranslationUnit) []tuResult {
	out := make([]tuResult, len(units))
	jobs := d.cfg.jobs()
	if jobs > len(units) {
		jobs = len(units)
	}
	if jobs <= 1 || len(units) <= 1 {
		for i, tu := range units {
			out[i] = d.analyzeTU(ctx, tu)
		}
		return out
	}

	type indexed struct {
		i  int
		tu *ppinput.TranslationUnit
	}
	taskCh := make(chan indexed, len(units))
	for i, tu := range units {
		taskCh <- indexed{i, tu}
	}
	close(taskCh)

	done := make(chan struct{})
	for w := 0; w < jobs; w++ {
		go func() {
			for task := range taskCh {
				out[task.i] = d.analyzeTU(ctx, task.tu)
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < jobs; w++ {
		<-done
	}
	return out
}

// analyzeTU runs C1-C7 over one translation unit: build the token list,
// simplify, build symbols, run value-flow, then run checks. Each stage's
// own diagnostics (simplifier, checks) are collected; a per-TU deadline
// is checked between stages (§5 "well-defined points... after each full
// pass"), yielding the partial diagnostics collected so far plus an
// internal timeout diagnostic if exceeded. A cache hit short-circuits
// every stage below the fingerprint lookup.
func (d *Driver) analyzeTU(ctx context.Context, tu *ppinput.TranslationUnit) tuResult {
	res := tuResult{tu: tu}

	var deadline time.Time
	if d.cfg.TUTimeout > 0 {
		deadline = time.Now().Add(d.cfg.TUTimeout)
	}

	fp := d.fingerprint(tu)
	if d.cacheSt != nil && fp != "" {
		if rec, ok, err := d.cacheSt.Get(ctx, fp); err == nil && ok {
			res.diagnostics = rec.Diagnostics
			res.ctuEntries = decodeSummaryBlob(rec.SummaryBlob)
			return res
		}
	}

	list := tokenlist.FromPreprocessed(tu)

	simplifyDiags := simplify.Simplify(list, simplify.DefaultConfig())
	res.diagnostics = append(res.diagnostics, simplifyDiags...)
	if pastDeadline(deadline) {
		res.diagnostics = append(res.diagnostics, timeoutDiagnostic("simplify", tu.Primary()))
		return res
	}

	st := symbols.Build(list)
	if pastDeadline(deadline) {
		res.diagnostics = append(res.diagnostics, timeoutDiagnostic("symbols", tu.Primary()))
		return res
	}

	vfCfg := valueflow.DefaultConfig()
	vfDeadline := deadline
	if d.cfg.ValueflowTimeout > 0 {
		vfCfg.Deadline = time.Now().Add(d.cfg.ValueflowTimeout)
		if !vfDeadline.IsZero() && vfCfg.Deadline.After(vfDeadline) {
			vfCfg.Deadline = vfDeadline
		}
	} else {
		vfCfg.Deadline = vfDeadline
	}
	facts := valueflow.Run(list, st, vfCfg)
	if pastDeadline(deadline) {
		res.diagnostics = append(res.diagnostics, timeoutDiagnostic("valueflow", tu.Primary()))
		return res
	}

	fileIdx := make(map[string]int, len(tu.Files))
	for i, f := range tu.Files {
		fileIdx[f] = i
	}
	view := checks.NewView(list, st, facts, fileIdx, d.libcfg)

	resolved := d.registry.Resolve(d.cfg.Enabled)
	runner := checks.NewRunner(resolved)
	checkDeadline := deadline
	if d.cfg.CheckTimeout > 0 {
		cd := time.Now().Add(d.cfg.CheckTimeout)
		if checkDeadline.IsZero() || cd.Before(checkDeadline) {
			checkDeadline = cd
		}
	}
	checkDiags := runner.RunWithDeadline(view, checkDeadline)
	res.diagnostics = append(res.diagnostics, checkDiags...)

	for _, c := range resolved {
		if sm, ok := c.(checks.Summarizer); ok {
			res.ctuEntries = append(res.ctuEntries, sm.Summarize(view)...)
		}
	}

	if d.cacheSt != nil && fp != "" {
		rec := cache.Record{
			Fingerprint: fp,
			Diagnostics: res.diagnostics,
			SummaryBlob: encodeSummaryBlob(res.ctuEntries),
		}
		_ = d.cacheSt.Put(ctx, rec)
	}
	return res
}

// fingerprint derives the cache key for tu (§6). A real caller typically
// supplies a content-hash-or-mtime string alongside the TU; since
// ppinput.TranslationUnit carries neither, this folds the primary file
// path and its defines/undefines together as the "content" component —
// good enough to invalidate on an include-set or macro change, though a
// richer content hash is the driver caller's to plug in once the
// preprocessor front-end supplies one.
func (d *Driver) fingerprint(tu *ppinput.TranslationUnit) string {
	primary := tu.Primary()
	if primary == "" {
		return ""
	}
	content := fmt.Sprintf("%v|%v|%d", tu.Defines, tu.Undefines, len(tu.Tokens))
	// A deterministic summary of the enablement config, not a pointer
	// address: two processes run with the same severities/inconclusive
	// settings must land on the same fingerprint, or every restart would
	// cold-miss the cache for no reason (fmt sorts map keys for %v, so
	// this is stable across runs given the same Severities map).
	configDigest := fmt.Sprintf("%v|%v", d.cfg.Enabled.Severities, d.cfg.Enabled.Inconclusive)
	return cache.Fingerprint(primary, content, configDigest, d.cfg.ToolVersion)
}

func pastDeadline(deadline time.Time) bool {
	return !deadline.IsZero() && time.Now().After(deadline)
}

func timeoutDiagnostic(stage, file string) diag.Diagnostic {
	return (&diag.InternalError{
		Stage:   stage,
		File:    file,
		Message: fmt.Sprintf("%s stage exceeded its deadline; yielding partial results", stage),
	}).ToDiagnostic()
}
