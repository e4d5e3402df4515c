// Package diag implements the diagnostic bus (C10): the Diagnostic record
// shape, de-duplication, deterministic ordering, and the typed error
// taxonomy of §7.
package diag

import (
	"fmt"
	"hash/fnv"
	"sort"
)

// Severity is one of the eight severities of §3.
type Severity int

const (
	Error Severity = iota
	Warning
	Style
	Performance
	Portability
	Information
	Debug
	Internal
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Style:
		return "style"
	case Performance:
		return "performance"
	case Portability:
		return "portability"
	case Information:
		return "information"
	case Debug:
		return "debug"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Certainty distinguishes definite findings from inconclusive ones (§3).
type Certainty int

const (
	Definite Certainty = iota
	Inconclusive
)

// Location is one entry of a Diagnostic's call stack.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Diagnostic is the record emitted by checks and merged/ordered/delivered by
// the bus (§3 Diagnostic).
type Diagnostic struct {
	ID             string
	Severity       Severity
	Certainty      Certainty
	CWE            int // 0 means absent
	ShortMessage   string
	VerboseMessage string
	// CallStack is ordered outermost-first; the innermost (reporting) frame
	// is last.
	CallStack   []Location
	SymbolNames []string

	// Hash is the de-duplication fingerprint; computed lazily by Fingerprint
	// if zero.
	Hash uint64
}

// PrimaryLocation returns the innermost (last) call-stack frame, the one
// diagnostics are ordered and filtered by, or the zero Location if the
// diagnostic carries no location at all.
func (d Diagnostic) PrimaryLocation() Location {
	if len(d.CallStack) == 0 {
		return Location{}
	}
	return d.CallStack[len(d.CallStack)-1]
}

// Fingerprint computes the de-duplication hash over (id, call-stack
// locations, short-message), per §4.9.
func (d Diagnostic) Fingerprint() uint64 {
	h := fnv.New64a()
	fmt.Fprint(h, d.ID, "\x00")
	for _, loc := range d.CallStack {
		fmt.Fprint(h, loc.File, "\x00", loc.Line, "\x00", loc.Column, "\x00")
	}
	fmt.Fprint(h, d.ShortMessage)
	return h.Sum64()
}

// WithFingerprint returns d with Hash populated, computing it if necessary.
func (d Diagnostic) WithFingerprint() Diagnostic {
	if d.Hash == 0 {
		d.Hash = d.Fingerprint()
	}
	return d
}

// Less implements the ordering of §4.9: file-index ascending (by primary
// location's file path, since file-index is a driver-local detail not
// carried on Location), then line, then column, then id.
//
// fileOrder maps a file path to its preprocessor file-index so that
// ordering matches §4.9 exactly even though Location stores a path rather
// than a numeric index.
func Less(a, b Diagnostic, fileOrder map[string]int) bool {
	la, lb := a.PrimaryLocation(), b.PrimaryLocation()
	fa, fb := fileOrder[la.File], fileOrder[lb.File]
	if fa != fb {
		return fa < fb
	}
	if la.Line != lb.Line {
		return la.Line < lb.Line
	}
	if la.Column != lb.Column {
		return la.Column < lb.Column
	}
	return a.ID < b.ID
}

// SortDiagnostics orders a slice in place per §4.9.
func SortDiagnostics(ds []Diagnostic, fileOrder map[string]int) {
	sort.SliceStable(ds, func(i, j int) bool { return Less(ds[i], ds[j], fileOrder) })
}

// Dedup removes duplicate diagnostics (equal Fingerprint), keeping the
// first occurrence, per §4.9. The input order is otherwise preserved.
func Dedup(ds []Diagnostic) []Diagnostic {
	seen := make(map[uint64]struct{}, len(ds))
	out := make([]Diagnostic, 0, len(ds))
	for _, d := range ds {
		d = d.WithFingerprint()
		if _, ok := seen[d.Hash]; ok {
			continue
		}
		seen[d.Hash] = struct{}{}
		out = append(out, d)
	}
	return out
}
