// Package checks implements C7: the check interface, registry, enablement
// resolution, and the deterministic-order runner that drives every
// registered check over a translation unit's read-only view.
package checks

import (
	"github.com/funvibe/cppgo/internal/diag"
	"github.com/funvibe/cppgo/internal/libconfig"
	"github.com/funvibe/cppgo/internal/symbols"
	"github.com/funvibe/cppgo/internal/tokenlist"
	"github.com/funvibe/cppgo/internal/valueflow"
)

// Granularity is one of §4.6's five check shapes. The runner does not
// currently dispatch differently per granularity (every check still sees
// the whole TU's View and walks whatever subset it wants), but a check
// declares its own granularity so the enablement/ordering layer and a
// future scheduler can reason about it without re-deriving it from the
// check's body.
type Granularity int

const (
	PerToken Granularity = iota
	PerScope
	PerFunction
	PerTU
	PerCTU
)

// View exposes the read-only C2 (tokens)/C5 (symbols)/C6 (value-flow)
// state a check is allowed to read (§4.6 "a pure function run(view)").
// Checks never mutate the list, symbol table, or value-flow result; the
// interface only exposes accessor methods, not the underlying structs'
// mutating ones, so that invariant is enforced at the type level rather
// than by convention.
type View interface {
	List() *tokenlist.List
	Symbols() *symbols.SymbolTable
	Facts() *valueflow.Result
	// FileIndex maps a file path to its preprocessor file-index, for
	// diagnostics that need one (the bus's ordering key).
	FileIndex(file string) int
	// LibConfig is the external API description consulted for calls
	// without a visible body (§4.5 rule 5/6). Nil if none was loaded;
	// (*libconfig.Config)(nil) already answers every lookup as "unknown".
	LibConfig() *libconfig.Config
}

// view is the concrete View built by the driver for one TU.
type view struct {
	list    *tokenlist.List
	st      *symbols.SymbolTable
	facts   *valueflow.Result
	fileIdx map[string]int
	libcfg  *libconfig.Config
}

// NewView builds a View over one TU's already-built state. libcfg may be
// nil.
func NewView(list *tokenlist.List, st *symbols.SymbolTable, facts *valueflow.Result, fileIdx map[string]int, libcfg *libconfig.Config) View {
	return &view{list: list, st: st, facts: facts, fileIdx: fileIdx, libcfg: libcfg}
}

func (v *view) List() *tokenlist.List             { return v.list }
func (v *view) Symbols() *symbols.SymbolTable     { return v.st }
func (v *view) Facts() *valueflow.Result          { return v.facts }
func (v *view) FileIndex(file string) int         { return v.fileIdx[file] }
func (v *view) LibConfig() *libconfig.Config       { return v.libcfg }

// Check is §4.6's check interface.
type Check interface {
	// ID names the check for enablement/logging; RuleIDs are the specific
	// diagnostic ids it can emit (for enablement/suppression resolution —
	// a check may be broader than any single rule-id it produces).
	ID() string
	RuleIDs() []string
	Severity() diag.Severity
	Granularity() Granularity
	// RequiresInconclusive reports whether this check only makes sense
	// when inconclusive mode is on (§4.6 "inconclusive mode matches the
	// check's requirement"); most checks return false.
	RequiresInconclusive() bool
	// Run analyzes view and returns every diagnostic it finds. Run must
	// not retain view or any value reachable through it past return.
	Run(view View) []diag.Diagnostic
}

// Summarizer is the optional CTU half of a check (§4.7 step 1): a
// PerCTU-granularity check that also produces per-function summary
// entries for the cross-TU merger implements this in addition to Check.
// The entry types (FunctionSummary, CallSite) are declared in package
// ctu; Check stays free of an internal/ctu import by accepting entries as
// opaque interface{} values, which the driver collects and ctu.Merger
// type-asserts back to those types.
type Summarizer interface {
	Summarize(view View) []interface{}
}

// CrossTUReporter is a second, simpler cross-translation-unit path
// alongside Summarizer/ctu.Merger: a PerCTU check whose own Run already
// accumulates whatever per-TU state it needs (concurrency-safely, since
// the driver's worker pool may call Run for different TUs at once), and
// whose Report — called exactly once, after every TU has been analyzed —
// returns the diagnostics that depend on having seen the whole program.
// This exists because ctu.Merger.Ingest only recognizes its own two
// summary-entry shapes (ctu.FunctionSummary, ctu.CallSite); a check whose
// cross-TU question doesn't fit that shape (e.g. "was this function
// called from any TU at all") owns its aggregation directly instead of
// routing it through a merger that would silently drop it.
type CrossTUReporter interface {
	Report() []diag.Diagnostic
}
