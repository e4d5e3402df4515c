package simplify

import (
	"github.com/funvibe/cppgo/internal/token"
)

// normalizeAndFoldConstants implements §4.3 rule 6: drop a unary `+` in
// front of an operand (`+x` becomes `x`), and fold a binary `+`, `-`, `*`,
// or `/` whose both sides are plain decimal integer literals into a
// single literal token. Division by zero is left unfolded — that is a
// check's job (zerodiv), not the simplifier's.
func normalizeAndFoldConstants(ctx *Context) bool {
	list := ctx.List
	changed := false
	for id := list.First(); id != token.None; {
		t := list.At(id)
		if t.Text == "+" && isUnaryPosition(list, id) {
			operand := list.Next(id)
			if operand != token.None {
				list.Erase(id)
				changed = true
				id = operand
				continue
			}
		}
		id = list.Next(id)
	}

	for id := list.First(); id != token.None; id = list.Next(id) {
		t := list.At(id)
		op, isArith := t.Text, false
		switch op {
		case "+", "-", "*", "/":
			isArith = true
		}
		if !isArith {
			continue
		}
		left := list.Prev(id)
		right := list.Next(id)
		if left == token.None || right == token.None {
			continue
		}
		if list.At(left).Kind != token.Number || list.At(right).Kind != token.Number {
			continue
		}
		lv, lok := parseDecimal(list.At(left).Text)
		rv, rok := parseDecimal(list.At(right).Text)
		if !lok || !rok {
			continue
		}
		if op == "/" && rv == 0 {
			continue
		}
		var result int
		switch op {
		case "+":
			result = lv + rv
		case "-":
			result = lv - rv
		case "*":
			result = lv * rv
		case "/":
			result = lv / rv
		}
		folded := list.InsertAfter(right, itoa(result), token.Number)
		list.SetFlag(folded, token.FlagInserted)
		list.Erase(left)
		list.Erase(id)
		list.Erase(right)
		changed = true
		id = folded
	}
	return changed
}

// isUnaryPosition reports whether id sits where a unary operator would
// (statement/expression start, or immediately after another operator or
// an open bracket/comma), i.e. there is no value-producing token to its
// left.
func isUnaryPosition(list listLike2, id token.ID) bool {
	prev := list.Prev(id)
	if prev == token.None {
		return true
	}
	pt := list.At(prev)
	if pt.Kind == token.Identifier || pt.Kind == token.Number ||
		pt.Kind == token.StringLiteral || pt.Kind == token.CharLiteral {
		return false
	}
	switch pt.Text {
	case ")", "]":
		return false
	}
	return true
}

type listLike2 interface {
	At(token.ID) *token.Token
	Prev(token.ID) token.ID
}

func parseDecimal(text string) (int, bool) {
	if text == "" {
		return 0, false
	}
	neg := false
	i := 0
	if text[0] == '-' {
		neg = true
		i = 1
	}
	if i >= len(text) {
		return 0, false
	}
	n := 0
	for ; i < len(text); i++ {
		c := text[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}
