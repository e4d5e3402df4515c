package valueflow

import (
	"time"

	"github.com/funvibe/cppgo/internal/symbols"
	"github.com/funvibe/cppgo/internal/token"
	"github.com/funvibe/cppgo/internal/tokenlist"
)

// Config bounds the propagation pass (§4.5 "Iteration cap").
type Config struct {
	// IterationCap bounds how many times a loop body is re-walked while
	// its variables' facts are still changing before they are marked
	// Inconclusive and widening stops.
	IterationCap int

	// Deadline, if non-zero, is checked between tokens during walk and
	// between loop-widening iterations (§5 "checks a deadline at
	// well-defined points... between statements, between tokens"). Once
	// passed, the walk stops advancing and returns whatever facts were
	// already committed; it never unwinds a partially-applied env.
	Deadline time.Time
}

// DefaultConfig matches §4.5's stated default.
func DefaultConfig() Config { return Config{IterationCap: 4} }

// Result holds every Fact Run attached to a token, across however many
// distinct paths reached it (the environment-join design used here means
// most tokens carry exactly one).
type Result struct {
	facts map[token.ID][]Fact
}

func newResult() *Result { return &Result{facts: make(map[token.ID][]Fact)} }

func (r *Result) attach(id token.ID, f Fact) { r.facts[id] = append(r.facts[id], f) }

// At returns every fact attached to id, in attachment order.
func (r *Result) At(id token.ID) []Fact { return r.facts[id] }

// Merged joins every fact attached to id into one conservative fact (§4.5
// "Merge"). ok is false if id was never visited.
func (r *Result) Merged(id token.ID) (Fact, bool) {
	fs := r.facts[id]
	if len(fs) == 0 {
		return Fact{}, false
	}
	out := fs[0]
	for _, f := range fs[1:] {
		out = Join(out, f)
	}
	return out, true
}

// env is the engine's single abstract environment: one Fact per tracked
// variable, representing "the value this variable has at the current
// program point, on some path that reaches it". Branch/loop scopes save,
// narrow, and rejoin it rather than enumerating concrete execution paths.
type env map[int32]Fact

func cloneEnv(e env) env {
	out := make(env, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

func joinEnv(a, b env) env {
	out := make(env, len(a)+len(b))
	for k, v := range a {
		if w, ok := b[k]; ok {
			out[k] = Join(v, w)
		} else {
			out[k] = v
		}
	}
	for k, v := range b {
		if _, ok := a[k]; !ok {
			out[k] = v
		}
	}
	return out
}

func envEqual(a, b env) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}

// engine drives one forward pass over a simplified, symbol-resolved token
// list, implementing §4.5's six propagation steps with an environment-join
// model rather than an explicit path enumeration: the same Fact.PathID
// value (0) is carried on every attached fact in this implementation, since
// there is exactly one current environment per program point rather than
// one per concrete path. The field exists in the data model for a future,
// more path-sensitive pass; this one is a deliberately bounded, sound
// approximation of it.
type engine struct {
	list   *tokenlist.List
	st     *symbols.SymbolTable
	cfg    Config
	result *Result
	env    env
	openOf map[token.ID]int32 // scope.Open token -> scope index
}

// Run performs the propagation pass over list using st (already built by
// symbols.Build over the same, already-simplified list) and returns every
// attached Fact.
func Run(list *tokenlist.List, st *symbols.SymbolTable, cfg Config) *Result {
	e := &engine{list: list, st: st, cfg: cfg, result: newResult(), env: make(env), openOf: make(map[token.ID]int32)}
	for i, s := range st.Scopes {
		if s.Open != token.None {
			e.openOf[s.Open] = int32(i)
		}
	}
	e.seedDeclarations()
	e.walk(list.First(), token.None)
	return e.result
}

// seedDeclarations implements §4.5 step 1/2 for declaration sites: a
// variable with a single-literal initializer starts life holding that
// literal's fact; one with a single-identifier initializer copies whatever
// fact that identifier currently carries in the seeding pass's own
// declaration-order scan (good enough for the common `T b = a;` shape); a
// multi-token initializer expression is seeded as Unknown here. The symbol
// builder also builds an `=` AST root over every declarator with an `=`
// initializer (tryDeclaration registers the symbol without skipping its
// tokens), so the general expr walk, which runs next, evaluates that
// assignment and writes the initializer's evaluated fact into env.
// A variable with no initializer at all seeds KindUninitialized, matching
// §3's "no initializer: tracked as Kind Uninitialized" contract.
func (e *engine) seedDeclarations() {
	for vi := range e.st.Variables {
		v := &e.st.Variables[vi]
		if v.IsArgument {
			e.env[int32(vi)] = Unknown()
			continue
		}
		if v.DefaultValueStart == token.None {
			if v.NameToken != token.None {
				f := Fact{Kind: KindUninitialized, Certainty: Definite}
				e.env[int32(vi)] = f
				e.result.attach(v.NameToken, f)
			}
			continue
		}
		var f Fact
		if v.DefaultValueStart == v.DefaultValueEnd {
			f = e.literalFact(v.DefaultValueStart)
		} else {
			f = Unknown()
		}
		e.env[int32(vi)] = f
		if v.NameToken != token.None {
			e.result.attach(v.NameToken, f)
		}
	}
}

func (e *engine) literalFact(id token.ID) Fact {
	t := e.list.At(id)
	switch t.Kind {
	case token.Number:
		if n, ok := parseInt(t.Text); ok {
			return Single(n)
		}
		return Unknown()
	case token.CharLiteral:
		if n, ok := charCode(t.Text); ok {
			return Single(n)
		}
		return Unknown()
	case token.StringLiteral:
		return Fact{Kind: KindStringLiteral, Certainty: Definite, LiteralTok: int32(id)}
	case token.Identifier:
		if t.VariableRef != symbols.NoIndex {
			if f, ok := e.env[t.VariableRef]; ok {
				return f
			}
		}
	}
	return Unknown()
}

// walk processes tokens in [from, stop) at the current nesting level,
// recursing into nested scopes via enterScope and evaluating each
// statement/expression's AST root once reached in source order.
func (e *engine) walk(from, stop token.ID) {
	for id := from; id != token.None && id != stop; {
		if e.deadlineExceeded() {
			return
		}
		if idx, ok := e.openOf[id]; ok {
			id = e.enterScope(idx, id)
			continue
		}
		t := e.list.At(id)
		if t.ASTParent == token.None && (t.ASTOperand1 != token.None || t.ASTOperand2 != token.None || isLiteralKind(t.Kind)) {
			e.evalExpr(id)
		}
		id = e.list.Next(id)
	}
}

func (e *engine) deadlineExceeded() bool {
	return !e.cfg.Deadline.IsZero() && time.Now().After(e.cfg.Deadline)
}

func isLiteralKind(k token.Kind) bool {
	return k == token.Number || k == token.CharLiteral || k == token.StringLiteral
}

// enterScope handles one nested scope reached during walk, returning the
// token to resume the outer walk from.
func (e *engine) enterScope(idx int32, openTok token.ID) token.ID {
	scope := e.st.Scopes[idx]
	closeTok := e.list.Link(openTok)
	if closeTok == token.None {
		// Unterminated scope (a syntax error already reported by C2); stop
		// descending, there is nothing well-formed left to walk.
		return token.None
	}

	switch scope.Kind {
	case symbols.ScopeIf, symbols.ScopeWhile:
		saved := cloneEnv(e.env)
		e.refineCondition(openTok, false)
		e.walk(e.list.Next(openTok), closeTok)
		if scope.Kind == symbols.ScopeWhile {
			e.widenLoop(e.list.Next(openTok), closeTok, saved)
		}
		e.env = joinEnv(saved, e.env)
	case symbols.ScopeForInit:
		saved := cloneEnv(e.env)
		e.walk(e.list.Next(openTok), closeTok)
		e.widenLoop(e.list.Next(openTok), closeTok, saved)
		e.refineForCondition(openTok, closeTok)
		e.env = joinEnv(saved, e.env)
	case symbols.ScopeBlock:
		saved := cloneEnv(e.env)
		loopBody := e.st.Scopes[scope.Parent].Kind == symbols.ScopeForInit
		e.walk(e.list.Next(openTok), closeTok)
		if loopBody {
			e.widenLoop(e.list.Next(openTok), closeTok, saved)
			e.env = joinEnv(saved, e.env)
		}
		// A plain compound statement's own facts simply continue forward
		// (its variables, scoped by index, never collide with the outer
		// scope's); no join needed.
	case symbols.ScopeElse:
		// The negated if-condition is not reconstructed in this
		// implementation (that needs locating the paired ScopeIf, which
		// costs a second lookup this pass doesn't do); the else branch
		// walks from the unrefined, already if-joined environment and
		// rejoins after, which stays sound (never reports a tighter
		// interval than reality) at the cost of precision for variables
		// the else branch itself narrows.
		saved := cloneEnv(e.env)
		e.walk(e.list.Next(openTok), closeTok)
		e.env = joinEnv(saved, e.env)
	default:
		// Namespace/class/struct/union/enum/function/switch/try/catch
		// bodies: walk through for their statements' own facts, no
		// branch-style save/refine/join semantics apply.
		e.walk(e.list.Next(openTok), closeTok)
	}
	return e.list.Next(closeTok)
}

// widenLoop re-walks [from,to) against the env left by the first pass, up
// to cfg.IterationCap times, until the environment stops changing. If it
// is still changing when the cap is reached, every variable that differs
// from its pre-loop (saved) value is marked Inconclusive rather than kept
// at whatever interval the last iteration happened to produce (§4.5
// "iteration cap exceeded ... facts are marked inconclusive").
func (e *engine) widenLoop(from, to token.ID, saved env) {
	iterCap := e.cfg.IterationCap
	if iterCap < 1 {
		iterCap = 1
	}
	prev := cloneEnv(e.env)
	for iter := 1; iter < iterCap; iter++ {
		if e.deadlineExceeded() {
			break
		}
		e.env = cloneEnv(prev)
		e.walk(from, to)
		next := cloneEnv(e.env)
		if envEqual(prev, next) {
			e.env = next
			return
		}
		prev = next
	}
	for k, f := range prev {
		if s, ok := saved[k]; !ok || s != f {
			f.Certainty = Inconclusive
			prev[k] = f
		}
	}
	e.env = prev
}

// parseComparison recognizes a simple `ident OP literal` (or `literal OP
// ident`) comparison spanning first/mid/last and returns the variable's
// token, the operator read left-to-right as "ident OP literal" (flipped
// from the source order and/or negated as needed), and the literal value.
// ok is false for anything more complex (&&, ||, calls, two variables),
// which both refineCondition and refineForCondition leave unrefined.
func (e *engine) parseComparison(first, mid, last token.ID, negate bool) (varID token.ID, op string, n int64, ok bool) {
	ft, mt, lt := e.list.At(first), e.list.At(mid), e.list.At(last)
	op = mt.Text
	switch op {
	case "<", "<=", ">", ">=", "==":
	default:
		return token.None, "", 0, false
	}
	if negate {
		op = negateComparison(op)
		if op == "" {
			return token.None, "", 0, false
		}
	}

	var litTok *token.Token
	flipped := false
	switch {
	case ft.Kind == token.Identifier && ft.VariableRef != symbols.NoIndex && lt.Kind == token.Number:
		varID, litTok = first, lt
	case lt.Kind == token.Identifier && lt.VariableRef != symbols.NoIndex && ft.Kind == token.Number:
		varID, litTok, flipped = last, ft, true
	default:
		return token.None, "", 0, false
	}
	val, okNum := parseInt(litTok.Text)
	if !okNum {
		return token.None, "", 0, false
	}
	if flipped {
		op = flipComparison(op)
	}
	return varID, op, val, true
}

// refineCondition narrows the env for a simple comparison guarding
// scopeOpen, found by walking back from scopeOpen's preceding ')' to its
// matching '('. More complex conditions are left unrefined — a safe,
// documented simplification, not an unsound one: leaving the fact as-is
// never claims a narrower range than reality allows. negate reverses the
// comparison direction (used for an else branch's implied condition; not
// currently invoked with true, kept for that future extension).
func (e *engine) refineCondition(scopeOpen token.ID, negate bool) {
	closeParen := e.list.Prev(scopeOpen)
	if closeParen == token.None || e.list.At(closeParen).Text != ")" {
		return
	}
	openParen := e.list.Link(closeParen)
	if openParen == token.None {
		return
	}
	first := e.list.Next(openParen)
	if first == token.None || first == closeParen {
		return
	}
	mid := e.list.Next(first)
	if mid == token.None || mid == closeParen {
		return
	}
	last := e.list.Next(mid)
	if e.list.Next(last) != closeParen {
		return // more than a single `a OP b` comparison; skip
	}

	varID, op, n, ok := e.parseComparison(first, mid, last, negate)
	if !ok {
		return
	}
	varTok := e.list.At(varID)
	cur, ok := e.env[varTok.VariableRef]
	if !ok || cur.Kind != KindInteger {
		cur = Unknown()
	}
	lo, hi := cur.Lo, cur.Hi
	switch op {
	case "<":
		if n-1 < hi {
			hi = n - 1
		}
	case "<=":
		if n < hi {
			hi = n
		}
	case ">":
		if n+1 > lo {
			lo = n + 1
		}
	case ">=":
		if n > lo {
			lo = n
		}
	case "==":
		lo, hi = n, n
	}
	if lo > hi {
		return // contradiction with the existing fact; leave unrefined
	}
	refined := Fact{Kind: KindInteger, Certainty: cur.Certainty, Lo: lo, Hi: hi}
	e.env[varTok.VariableRef] = refined
	e.result.attach(varID, refined)
}

// topLevelSemicolons returns every ';' token between open and close that
// sits at paren/bracket depth 0 relative to open, the split points between
// a for-header's init/condition/increment clauses.
func (e *engine) topLevelSemicolons(open, close token.ID) []token.ID {
	var semis []token.ID
	depth := 0
	for id := e.list.Next(open); id != token.None && id != close; id = e.list.Next(id) {
		switch e.list.At(id).Text {
		case "(", "[":
			depth++
		case ")", "]":
			depth--
		case ";":
			if depth == 0 {
				semis = append(semis, id)
			}
		}
	}
	return semis
}

// refineForCondition widens the loop variable's env fact toward the bound
// stated by a for-loop's own condition clause (the middle of its three
// init/cond/incr clauses), when that clause is a simple `ident OP literal`
// comparison (§8 scenario 1's `i <= 5` over `for (int i = 0; i <= 5; ++i)`).
// Unlike refineCondition's narrowing (used for if/while, where the
// condition is the ONLY source of truth at that program point),
// widenLoop's own increment-counting fixed point can under-count how far
// the index actually reaches once it hits cfg.IterationCap, so this widens
// toward the condition's bound rather than only narrowing to it: the
// explicit `i <= 5` is authoritative about the index's true reachable
// range, and a cap-truncated widen must not be allowed to hide that.
func (e *engine) refineForCondition(openParen, closeParen token.ID) {
	semis := e.topLevelSemicolons(openParen, closeParen)
	if len(semis) < 2 {
		return
	}
	first := e.list.Next(semis[0])
	if first == token.None || first == semis[1] {
		return
	}
	mid := e.list.Next(first)
	if mid == token.None || mid == semis[1] {
		return
	}
	last := e.list.Next(mid)
	if e.list.Next(last) != semis[1] {
		return // more than a single `a OP b` comparison; skip
	}

	varID, op, n, ok := e.parseComparison(first, mid, last, false)
	if !ok {
		return
	}
	varTok := e.list.At(varID)
	cur, ok := e.env[varTok.VariableRef]
	if !ok || cur.Kind != KindInteger {
		return // nothing concrete to widen toward
	}
	lo, hi := cur.Lo, cur.Hi
	switch op {
	case "<":
		if n-1 > hi {
			hi = n - 1
		}
	case "<=":
		if n > hi {
			hi = n
		}
	case ">":
		if n+1 < lo {
			lo = n + 1
		}
	case ">=":
		if n < lo {
			lo = n
		}
	}
	if lo > hi {
		return
	}
	refined := Fact{Kind: KindInteger, Certainty: Inconclusive, Lo: lo, Hi: hi}
	e.env[varTok.VariableRef] = refined
	e.result.attach(varID, refined)
}

func negateComparison(op string) string {
	switch op {
	case "<":
		return ">="
	case "<=":
		return ">"
	case ">":
		return "<="
	case ">=":
		return "<"
	case "==":
		return "!="
	}
	return ""
}

func flipComparison(op string) string {
	switch op {
	case "<":
		return ">"
	case "<=":
		return ">="
	case ">":
		return "<"
	case ">=":
		return "<="
	}
	return op
}
