package symbols

import "github.com/funvibe/cppgo/internal/token"

// binaryPrec gives each binary/assignment operator's precedence (higher
// binds tighter) following the C++ standard's operator precedence table
// (§4.4 "AST construction"). Operators not listed are not binary infix
// operators in this reduced grammar.
var binaryPrec = map[string]int{
	"=": 2, "+=": 2, "-=": 2, "*=": 2, "/=": 2, "%=": 2, "&=": 2, "|=": 2,
	"^=": 2, "<<=": 2, ">>=": 2,
	"||": 4,
	"&&": 5,
	"|":  6,
	"^":  7,
	"&":  8,
	"==": 9, "!=": 9,
	"<": 10, ">": 10, "<=": 10, ">=": 10,
	"<<": 11, ">>": 11,
	"+": 12, "-": 12,
	"*": 13, "/": 13, "%": 13,
}

var rightAssoc = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

var unaryPrefix = map[string]bool{
	"!": true, "~": true, "-": true, "+": true, "*": true, "&": true,
	"++": true, "--": true,
}

// exprBuilder builds an expression AST over [start,end) by precedence
// climbing, setting each token's AST links directly (§3: the AST lives on
// the tokens themselves — no separate node type is needed).
type exprBuilder struct {
	list symbolList
	end  token.ID // exclusive upper bound; token.None means "to EOF"
}

// symbolList is the narrow slice of tokenlist.List's API the expression
// builder needs; kept as its own type alias only to avoid a long import
// alias at every call site.
type symbolList = listAccessor

// listAccessor matches tokenlist.List's read/write surface used here.
type listAccessor interface {
	At(token.ID) *token.Token
	Next(token.ID) token.ID
	Link(token.ID) token.ID
	SetASTParent(id, parent token.ID)
	SetASTOperands(id, op1, op2 token.ID)
}

// BuildExpression parses one expression starting at start, stopping
// before end (or at a statement terminator/closing bracket if end is
// token.None), and returns the root token of the resulting AST plus the
// first unconsumed token.
func BuildExpression(list listAccessor, start, end token.ID) (root, next token.ID) {
	eb := &exprBuilder{list: list, end: end}
	root, next = eb.parseExpr(start, 1)
	return root, next
}

func (eb *exprBuilder) atEnd(id token.ID) bool {
	if id == token.None {
		return true
	}
	if id == eb.end {
		return true
	}
	t := eb.list.At(id)
	switch t.Text {
	case ";", ",", ")", "]", "}", ":":
		return true
	}
	return false
}

func (eb *exprBuilder) parseExpr(cursor token.ID, minPrec int) (token.ID, token.ID) {
	left, cursor := eb.parseUnary(cursor)
	if left == token.None {
		return token.None, cursor
	}
	for !eb.atEnd(cursor) {
		t := eb.list.At(cursor)
		prec, isBinary := binaryPrec[t.Text]
		if !isBinary || prec < minPrec {
			break
		}
		opTok := cursor
		nextMin := prec + 1
		if rightAssoc[t.Text] {
			nextMin = prec
		}
		rhsStart := eb.list.Next(cursor)
		var right token.ID
		right, cursor = eb.parseExpr(rhsStart, nextMin)
		if right == token.None {
			break
		}
		eb.list.SetASTOperands(opTok, left, right)
		eb.list.SetASTParent(left, opTok)
		eb.list.SetASTParent(right, opTok)
		left = opTok
	}
	return left, cursor
}

func (eb *exprBuilder) parseUnary(cursor token.ID) (token.ID, token.ID) {
	if eb.atEnd(cursor) {
		return token.None, cursor
	}
	t := eb.list.At(cursor)
	if t.Text == "sizeof" {
		nxt := eb.list.Next(cursor)
		if nxt != token.None && eb.list.At(nxt).Text == "(" {
			close := eb.list.Link(nxt)
			if close != token.None {
				eb.list.SetASTOperands(cursor, nxt, token.None)
				eb.list.SetASTParent(nxt, cursor)
				return cursor, eb.list.Next(close)
			}
		}
		operand, next := eb.parseUnary(nxt)
		eb.list.SetASTOperands(cursor, operand, token.None)
		if operand != token.None {
			eb.list.SetASTParent(operand, cursor)
		}
		return cursor, next
	}
	if unaryPrefix[t.Text] {
		opTok := cursor
		operand, next := eb.parseUnary(eb.list.Next(cursor))
		if operand == token.None {
			return token.None, next
		}
		eb.list.SetASTOperands(opTok, operand, token.None)
		eb.list.SetASTParent(operand, opTok)
		return eb.parsePostfix(opTok, next)
	}
	return eb.parsePrimary(cursor)
}

func (eb *exprBuilder) parsePrimary(cursor token.ID) (token.ID, token.ID) {
	if eb.atEnd(cursor) {
		return token.None, cursor
	}
	t := eb.list.At(cursor)
	if t.Text == "(" {
		close := eb.list.Link(cursor)
		if close == token.None {
			return token.None, cursor
		}
		inner, _ := eb.parseExpr(eb.list.Next(cursor), 1)
		if inner != token.None {
			eb.list.SetASTParent(inner, cursor)
			eb.list.SetASTOperands(cursor, inner, token.None)
		}
		return eb.parsePostfix(cursor, eb.list.Next(close))
	}
	switch t.Kind {
	case token.Identifier, token.Number, token.StringLiteral, token.CharLiteral:
		return eb.parsePostfix(cursor, eb.list.Next(cursor))
	}
	if t.Text == "true" || t.Text == "false" || t.Text == "nullptr" || t.Text == "this" {
		return eb.parsePostfix(cursor, eb.list.Next(cursor))
	}
	return token.None, cursor
}

// parsePostfix handles `a[i]`, `a(args)`, `a.b`, `a->b`, and postfix
// ++/--, left-associating onto root.
func (eb *exprBuilder) parsePostfix(root, cursor token.ID) (token.ID, token.ID) {
	for !eb.atEnd(cursor) {
		t := eb.list.At(cursor)
		switch t.Text {
		case "[":
			close := eb.list.Link(cursor)
			if close == token.None {
				return root, cursor
			}
			index, _ := eb.parseExpr(eb.list.Next(cursor), 1)
			eb.list.SetASTOperands(cursor, root, index)
			eb.list.SetASTParent(root, cursor)
			if index != token.None {
				eb.list.SetASTParent(index, cursor)
			}
			root = cursor
			cursor = eb.list.Next(close)
			continue
		case "(":
			close := eb.list.Link(cursor)
			if close == token.None {
				return root, cursor
			}
			// Call arguments: parsed for their own AST but not chained as
			// binary operands of the call node beyond the first, since a
			// call's arity isn't fixed at 2; each argument gets its own
			// subtree, and the call node records only the callee + first
			// argument as operand1/operand2 (§3's fixed two-operand AST
			// shape is a simplification checks must account for when
			// arity > 1 matters).
			argCursor := eb.list.Next(cursor)
			var firstArg token.ID
			for argCursor != close && argCursor != token.None {
				arg, next := eb.parseExpr(argCursor, 1)
				if firstArg == token.None {
					firstArg = arg
				}
				if arg != token.None {
					eb.list.SetASTParent(arg, cursor)
				}
				if next != token.None && eb.list.At(next).Text == "," {
					argCursor = eb.list.Next(next)
					continue
				}
				argCursor = next
				break
			}
			eb.list.SetASTOperands(cursor, root, firstArg)
			eb.list.SetASTParent(root, cursor)
			root = cursor
			cursor = eb.list.Next(close)
			continue
		case ".", "->":
			opTok := cursor
			member := eb.list.Next(cursor)
			if member == token.None {
				return root, cursor
			}
			eb.list.SetASTOperands(opTok, root, member)
			eb.list.SetASTParent(root, opTok)
			eb.list.SetASTParent(member, opTok)
			root = opTok
			cursor = eb.list.Next(member)
			continue
		case "++", "--":
			opTok := cursor
			eb.list.SetASTOperands(opTok, root, token.None)
			eb.list.SetASTParent(root, opTok)
			root = opTok
			cursor = eb.list.Next(cursor)
			continue
		}
		break
	}
	return root, cursor
}
