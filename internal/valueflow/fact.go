// Package valueflow implements C6: the per-token value-fact lattice and the
// iterative forward propagation pass over a simplified, symbol-resolved
// token list (§4.5). Facts are attached to tokens and never mutated once
// attached, matching the "append-only annotation" lifecycle of §3.
package valueflow

import "math"

// Kind discriminates the ValueFact union (§4.5 "Lattice").
type Kind int

// This omits §3's tok-reference and impossible kinds. No check in
// internal/rules reads a reference-aliasing fact or an explicitly
// unreachable-branch marker, and nothing in the engine seeds one; adding
// either here without a producer and a consumer would be a dead lattice
// member. If a future check needs reference-alias tracking or
// dead-branch marking, add the kind alongside the rule that consumes it.
const (
	KindInteger Kind = iota
	KindFloat
	KindSymbolic
	KindContainerSize
	KindIterator
	KindLifetime
	KindStringLiteral
	KindUninitialized
)

// IteratorState is one member of the iterator discriminated union.
type IteratorState int

const (
	IterUnknown IteratorState = iota
	IterBegin
	IterEnd
	IterBeginPlusK
	IterEndMinusK
)

// Certainty mirrors diag.Certainty but is kept local so valueflow has no
// import-time dependency on the diagnostic package; checks translate a
// Fact's certainty into diag.Certainty when they emit.
type Certainty int

const (
	Definite Certainty = iota
	Inconclusive
)

const (
	// MinInt/MaxInt bound an interval's open ends (§4.5 "closed intervals
	// over the widest integer type"); using int64's own extremes keeps
	// interval arithmetic in native machine words.
	MinInt = math.MinInt64
	MaxInt = math.MaxInt64
)

// Fact is one ValueFact attached to a token (§4.5).
type Fact struct {
	Kind      Kind
	Certainty Certainty
	PathID    int

	// Integer interval, valid when Kind == KindInteger.
	Lo, Hi int64

	// Float: literal value if Known, else unknown (§4.5 "single literal or
	// unknown; no interval arithmetic").
	FloatVal   float64
	FloatKnown bool

	// Symbolic: the token this one's value equals (a variable index from
	// symbols.SymbolTable.Variables, or -1 if the referent is an
	// expression rather than a named variable).
	SymbolicOf int32

	// ContainerSize shares Lo/Hi with KindInteger's interval, always >= 0.

	Iterator IteratorState
	IterBase int32 // the container variable this iterator ranges over, or -1

	// Lifetime: the variable/storage a pointer addresses (-1 if unknown)
	// and the scope index in which that storage is valid.
	LifetimeOf   int32
	LifetimeScope int32

	// StringLiteral: the token holding the literal text.
	LiteralTok int32
}

// Join computes the lattice join (union) of two facts of the same Kind,
// per §4.5: intervals join by hull; anything else that disagrees
// collapses to inconclusive-unknown.
func Join(a, b Fact) Fact {
	if a.Kind != b.Kind {
		return Fact{Kind: a.Kind, Certainty: Inconclusive, Lo: MinInt, Hi: MaxInt}
	}
	switch a.Kind {
	case KindInteger, KindContainerSize:
		lo, hi := a.Lo, a.Hi
		if b.Lo < lo {
			lo = b.Lo
		}
		if b.Hi > hi {
			hi = b.Hi
		}
		cert := Definite
		if a.Certainty == Inconclusive || b.Certainty == Inconclusive {
			cert = Inconclusive
		}
		return Fact{Kind: a.Kind, Certainty: cert, Lo: lo, Hi: hi}
	case KindFloat:
		if a.FloatKnown && b.FloatKnown && a.FloatVal == b.FloatVal {
			return Fact{Kind: KindFloat, Certainty: a.Certainty, FloatVal: a.FloatVal, FloatKnown: true}
		}
		return Fact{Kind: KindFloat, Certainty: Inconclusive}
	case KindSymbolic:
		if a.SymbolicOf == b.SymbolicOf {
			return a
		}
		return Fact{Kind: KindSymbolic, Certainty: Inconclusive, SymbolicOf: -1}
	case KindIterator:
		if a.Iterator == b.Iterator && a.IterBase == b.IterBase {
			return a
		}
		return Fact{Kind: KindIterator, Certainty: Inconclusive, Iterator: IterUnknown, IterBase: -1}
	case KindLifetime:
		if a.LifetimeOf == b.LifetimeOf && a.LifetimeScope == b.LifetimeScope {
			return a
		}
		return Fact{Kind: KindLifetime, Certainty: Inconclusive, LifetimeOf: -1, LifetimeScope: -1}
	default:
		return Fact{Kind: a.Kind, Certainty: Inconclusive}
	}
}

// IntervalContains reports whether n falls in a's [Lo,Hi] integer
// interval; only meaningful when a.Kind is KindInteger or
// KindContainerSize.
func (a Fact) IntervalContains(n int64) bool { return n >= a.Lo && n <= a.Hi }

// Single builds a single-point integer interval fact, definite.
func Single(n int64) Fact { return Fact{Kind: KindInteger, Certainty: Definite, Lo: n, Hi: n} }

// Range builds a [lo,hi] integer interval fact, definite.
func Range(lo, hi int64) Fact { return Fact{Kind: KindInteger, Certainty: Definite, Lo: lo, Hi: hi} }

// Unknown builds the maximally conservative integer fact.
func Unknown() Fact { return Fact{Kind: KindInteger, Certainty: Inconclusive, Lo: MinInt, Hi: MaxInt} }
