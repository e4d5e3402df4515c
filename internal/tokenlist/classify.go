package tokenlist

import (
	"strings"

	"github.com/funvibe/cppgo/internal/token"
)

// keywords is the recognized C/C++ keyword set. Not exhaustive of every
// standard revision; sufficient for the simplifier and symbol builder to
// tell a type-introducing or control-flow keyword from an ordinary
// identifier.
var keywords = map[string]bool{
	"auto": true, "break": true, "case": true, "catch": true, "char": true,
	"class": true, "const": true, "continue": true, "default": true,
	"delete": true, "do": true, "double": true, "else": true, "enum": true,
	"explicit": true, "extern": true, "float": true, "for": true,
	"friend": true, "goto": true, "if": true, "inline": true, "int": true,
	"long": true, "mutable": true, "namespace": true, "new": true,
	"noexcept": true, "operator": true, "private": true, "protected": true,
	"public": true, "register": true, "return": true, "short": true,
	"signed": true, "sizeof": true, "static": true, "struct": true,
	"switch": true, "template": true, "this": true, "throw": true,
	"try": true, "typedef": true, "typename": true, "union": true,
	"unsigned": true, "using": true, "virtual": true, "void": true,
	"volatile": true, "while": true, "bool": true, "true": true,
	"false": true, "nullptr": true, "constexpr": true, "override": true,
	"final": true, "decltype": true, "static_assert": true,
}

// FundamentalTypes names the built-in type keywords the simplifier and
// symbol table treat as a type-spec without needing a declaration (§4.4).
var FundamentalTypes = map[string]bool{
	"void": true, "bool": true, "char": true, "short": true, "int": true,
	"long": true, "float": true, "double": true, "signed": true,
	"unsigned": true,
}

func isIdentStart(r byte) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r byte) bool { return r >= '0' && r <= '9' }

// Classify assigns a token.Kind to raw preprocessor text.
func Classify(text string) token.Kind {
	if text == "" {
		return token.Punctuator
	}
	switch text[0] {
	case '"':
		return token.StringLiteral
	case '\'':
		return token.CharLiteral
	}
	if isDigit(text[0]) || (text[0] == '.' && len(text) > 1 && isDigit(text[1])) {
		return token.Number
	}
	if isIdentStart(text[0]) {
		for i := 1; i < len(text); i++ {
			c := text[i]
			if !isIdentStart(c) && !isDigit(c) {
				// qualified names like std::vector fold into one token (§4.3 rule 2)
				if strings.Contains(text, "::") {
					return token.Identifier
				}
				return token.Identifier
			}
		}
		if keywords[text] {
			return token.Keyword
		}
		return token.Identifier
	}
	if isOperatorText(text) {
		return token.Operator
	}
	return token.Punctuator
}

var operatorTexts = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "=": true,
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
	"&&": true, "||": true, "!": true, "&": true, "|": true, "^": true,
	"~": true, "<<": true, ">>": true, "+=": true, "-=": true, "*=": true,
	"/=": true, "%=": true, "&=": true, "|=": true, "^=": true, "<<=": true,
	">>=": true, "++": true, "--": true, "->": true, ".": true, "?": true,
	":": true, "::": true, "...": true,
}

func isOperatorText(text string) bool { return operatorTexts[text] }

// IsKeyword reports whether text is a recognized keyword.
func IsKeyword(text string) bool { return keywords[text] }
