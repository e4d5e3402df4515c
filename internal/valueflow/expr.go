package valueflow

import (
	"github.com/funvibe/cppgo/internal/symbols"
	"github.com/funvibe/cppgo/internal/token"
)

// evalExpr evaluates the AST rooted at id (built by symbols.BuildExpression
// over tokens' ASTOperand1/ASTOperand2 links), attaches the resulting Fact
// to id, updates env on assignment/increment, and returns the Fact. Every
// operand visited along the way is attached too, so a later check can read
// the fact off any subexpression's own token, not just statement roots.
func (e *engine) evalExpr(id token.ID) Fact {
	if id == token.None {
		return Unknown()
	}
	t := e.list.At(id)

	switch t.Kind {
	case token.Number, token.CharLiteral, token.StringLiteral:
		f := e.literalFact(id)
		e.result.attach(id, f)
		return f
	case token.Identifier:
		if t.Text == "true" || t.Text == "false" {
			f := Single(boolValue(t.Text))
			e.result.attach(id, f)
			return f
		}
		if t.Text == "nullptr" {
			f := Single(0)
			e.result.attach(id, f)
			return f
		}
		if t.VariableRef != symbols.NoIndex {
			f, ok := e.env[t.VariableRef]
			if !ok {
				f = Unknown()
			}
			e.result.attach(id, f)
			return f
		}
		f := Unknown()
		e.result.attach(id, f)
		return f
	}

	switch t.Text {
	case "=":
		rhs := e.evalExpr(t.ASTOperand2)
		e.assign(t.ASTOperand1, rhs)
		e.result.attach(id, rhs)
		return rhs
	case "+=", "-=", "*=", "/=":
		cur := e.evalExpr(t.ASTOperand1)
		rhs := e.evalExpr(t.ASTOperand2)
		f := arith(t.Text[:1], cur, rhs)
		e.assign(t.ASTOperand1, f)
		e.result.attach(id, f)
		return f
	case "+", "-":
		if t.ASTOperand2 == token.None {
			// Unary +/-: a no-op / sign flip on the single operand.
			a := e.evalExpr(t.ASTOperand1)
			f := a
			if t.Text == "-" && a.Kind == KindInteger {
				f = Fact{Kind: KindInteger, Certainty: a.Certainty, Lo: -a.Hi, Hi: -a.Lo}
			}
			e.result.attach(id, f)
			return f
		}
		a := e.evalExpr(t.ASTOperand1)
		b := e.evalExpr(t.ASTOperand2)
		f := arith(t.Text, a, b)
		e.result.attach(id, f)
		return f
	case "/", "%":
		a := e.evalExpr(t.ASTOperand1)
		b := e.evalExpr(t.ASTOperand2)
		f := arith(t.Text, a, b)
		e.result.attach(id, f)
		return f
	case "*":
		if t.ASTOperand2 == token.None {
			// Unary dereference: this engine does not model heap/pointee
			// contents, so *p is conservatively unknown rather than
			// aliased to p's own (pointer-valued) fact.
			e.evalExpr(t.ASTOperand1)
			f := Unknown()
			e.result.attach(id, f)
			return f
		}
		a := e.evalExpr(t.ASTOperand1)
		b := e.evalExpr(t.ASTOperand2)
		f := arith(t.Text, a, b)
		e.result.attach(id, f)
		return f
	case "++", "--":
		operand := t.ASTOperand1
		cur := e.evalExpr(operand)
		delta := int64(1)
		if t.Text == "--" {
			delta = -1
		}
		f := shiftInterval(cur, delta)
		e.assign(operand, f)
		e.result.attach(id, f)
		return f
	case "(":
		if op1 := t.ASTOperand1; op1 != token.None && e.list.Prev(id) == op1 {
			// Call node: operand1 is the callee, operand2 is (at most) the
			// first argument — §4.5 step 5, a call whose body this core
			// never sees yields a conservative unknown result. Arguments
			// still get walked so their own facts are recorded.
			e.evalExpr(op1)
			if op2 := t.ASTOperand2; op2 != token.None {
				e.evalExpr(op2)
			}
			f := Unknown()
			e.result.attach(id, f)
			return f
		}
		// Grouping parenthesis: pass the inner value through.
		f := e.evalExpr(t.ASTOperand1)
		e.result.attach(id, f)
		return f
	case "[":
		e.evalExpr(t.ASTOperand1)
		e.evalExpr(t.ASTOperand2)
		f := Unknown()
		e.result.attach(id, f)
		return f
	case ".", "->":
		e.evalExpr(t.ASTOperand1)
		// The field name (operand2) is intentionally not resolved to a
		// scope variable (see symbols.resolveReads); evaluating it here
		// would just attach Unknown, so skip it.
		f := Unknown()
		e.result.attach(id, f)
		return f
	case "<", "<=", ">", ">=", "==", "!=", "&&", "||", "!", "&", "|", "^", "~", "<<", ">>":
		if t.ASTOperand1 != token.None {
			e.evalExpr(t.ASTOperand1)
		}
		if t.ASTOperand2 != token.None {
			e.evalExpr(t.ASTOperand2)
		}
		f := Unknown()
		e.result.attach(id, f)
		return f
	case "sizeof":
		f := Unknown()
		e.result.attach(id, f)
		return f
	default:
		if t.ASTOperand1 != token.None {
			e.evalExpr(t.ASTOperand1)
		}
		if t.ASTOperand2 != token.None {
			e.evalExpr(t.ASTOperand2)
		}
		f := Unknown()
		e.result.attach(id, f)
		return f
	}
}

// assign writes f into env for lhs's resolved variable, if any, and
// attaches f to the lhs token itself (so a check reading the assignment
// target's own token sees its new value, not its pre-assignment one). When
// lhs is itself a compound expression (`*p`, `a[i]`, `p->x`), its own
// operand subexpressions are still walked via evalExpr so their facts get
// attached too — evalExpr's own doc comment promises "every operand
// visited along the way is attached", which would otherwise not hold for
// an assignment target (the one AST shape assign, not evalExpr, resolves).
func (e *engine) assign(lhs token.ID, f Fact) {
	if lhs == token.None {
		return
	}
	lt := e.list.At(lhs)
	switch {
	case lt.Kind == token.Identifier && lt.VariableRef != symbols.NoIndex:
		e.env[lt.VariableRef] = f
	case lt.ASTOperand1 != token.None:
		e.evalExpr(lt.ASTOperand1)
		if lt.ASTOperand2 != token.None {
			e.evalExpr(lt.ASTOperand2)
		}
	}
	e.result.attach(lhs, f)
}

// arith implements §4.5's integer interval arithmetic for the four basic
// operators: the result interval is the hull of every combination of the
// operands' endpoints, which is exact for monotonic operators like +/- and
// a safe over-approximation for */ when either interval spans zero.
func arith(op string, a, b Fact) Fact {
	if a.Kind != KindInteger || b.Kind != KindInteger {
		return Unknown()
	}
	cert := Definite
	if a.Certainty == Inconclusive || b.Certainty == Inconclusive {
		cert = Inconclusive
	}
	if op == "/" && b.Lo <= 0 && b.Hi >= 0 {
		// Divisor interval straddles zero: the result could be anything;
		// the zerodiv check itself is what flags this shape, not here.
		return Fact{Kind: KindInteger, Certainty: Inconclusive, Lo: MinInt, Hi: MaxInt}
	}
	candidates := [4]int64{}
	switch op {
	case "+":
		candidates = [4]int64{a.Lo + b.Lo, a.Lo + b.Hi, a.Hi + b.Lo, a.Hi + b.Hi}
	case "-":
		candidates = [4]int64{a.Lo - b.Lo, a.Lo - b.Hi, a.Hi - b.Lo, a.Hi - b.Hi}
	case "*":
		candidates = [4]int64{a.Lo * b.Lo, a.Lo * b.Hi, a.Hi * b.Lo, a.Hi * b.Hi}
	case "/":
		candidates = [4]int64{a.Lo / b.Lo, a.Lo / b.Hi, a.Hi / b.Lo, a.Hi / b.Hi}
	case "%":
		if b.Lo == 0 && b.Hi == 0 {
			return Fact{Kind: KindInteger, Certainty: Inconclusive, Lo: MinInt, Hi: MaxInt}
		}
		// Modulo's range is bounded by the divisor's magnitude, not by the
		// dividend/divisor endpoint products; approximate conservatively.
		bound := abs64(b.Lo)
		if abs64(b.Hi) > bound {
			bound = abs64(b.Hi)
		}
		return Fact{Kind: KindInteger, Certainty: cert, Lo: -bound + 1, Hi: bound - 1}
	default:
		return Unknown()
	}
	lo, hi := candidates[0], candidates[0]
	for _, c := range candidates[1:] {
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	return Fact{Kind: KindInteger, Certainty: cert, Lo: lo, Hi: hi}
}

func shiftInterval(f Fact, delta int64) Fact {
	if f.Kind != KindInteger {
		return Unknown()
	}
	return Fact{Kind: KindInteger, Certainty: f.Certainty, Lo: f.Lo + delta, Hi: f.Hi + delta}
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func boolValue(text string) int64 {
	if text == "true" {
		return 1
	}
	return 0
}

// parseInt parses a plain decimal integer literal (the simplifier has
// already folded hex/octal/binary literals it recognizes; anything left
// unparseable here is a literal shape this core doesn't model, e.g. a
// suffix the classifier kept attached) and returns ok=false for it.
func parseInt(text string) (int64, bool) {
	if text == "" {
		return 0, false
	}
	neg := false
	i := 0
	if text[0] == '-' {
		neg = true
		i++
	}
	if i >= len(text) {
		return 0, false
	}
	var n int64
	for ; i < len(text); i++ {
		c := text[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// charCode resolves a char-literal token's text (including its quotes, as
// the lexer preserves them) to its numeric value for simple, unescaped
// single-character literals; escape sequences are left unresolved (Unknown)
// rather than guessing.
func charCode(text string) (int64, bool) {
	if len(text) == 3 && text[0] == '\'' && text[2] == '\'' {
		return int64(text[1]), true
	}
	return 0, false
}
