// Package token defines the lexical unit the rest of the analysis pipeline
// operates on: a single token of a preprocessed C or C++ translation unit.
package token

// Kind classifies a token's lexical category.
type Kind int

const (
	Identifier Kind = iota
	Keyword
	Number
	CharLiteral
	StringLiteral
	Operator
	Punctuator
	// Placeholder is only ever produced inside a pattern (see internal/pattern),
	// never inside a real token list.
	Placeholder
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "identifier"
	case Keyword:
		return "keyword"
	case Number:
		return "number"
	case CharLiteral:
		return "char-literal"
	case StringLiteral:
		return "string-literal"
	case Operator:
		return "operator"
	case Punctuator:
		return "punctuator"
	case Placeholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Flag is a bit in a token's small flag set (§3).
type Flag uint32

const (
	FlagInserted         Flag = 1 << iota // inserted by the simplifier, not present in the original source
	FlagUnsignedLiteral                   // numeric literal with an unsigned suffix
	FlagCastType                          // part of a cast's type-id, e.g. the `int` in `(int)x`
	FlagScopeOpener                       // a `{` that opens a symbols.Scope
	FlagControlFlowTarget                 // a token that is the target of a jump (loop top, case label, ...)
	FlagOriginalSyntax                    // preserved original form of a rewrite, kept for diagnostics only
)

func (f Flag) Has(bit Flag) bool { return f&bit != 0 }

// ID is the arena index of a Token within one TU's Arena. Index 0 is never a
// valid token (it is reserved as the "absent" sentinel), matching the
// convention used throughout the core for "no token"/"no link".
type ID uint32

// None is the sentinel ID meaning "absent" (no prev/next/link/etc).
const None ID = 0

// Token is one lexical unit. Identity (Text/Kind/FileIndex/Line/Column) is
// frozen once simplification completes (§3 Lifecycle); links and annotation
// fields (ScopeRef, AST links, VariableRef, Values) are populated by later
// phases.
type Token struct {
	Text   string
	Kind   Kind
	Flags  Flag
	File   int // file-index; 0 is the primary TU, nonzero an included header
	Line   int
	Column int

	Prev ID
	Next ID
	Link ID // matching bracket, or None

	ScopeRef    int32 // index into symbols.Scope table, or -1 if unset
	ASTParent   ID
	ASTOperand1 ID
	ASTOperand2 ID
	VariableRef int32 // index into symbols.Variable table, or -1 if unset

	// OriginalTypedef, when nonzero, names the typedef alias this token's
	// text was expanded from by the simplifier (§4.3 rule 3), kept purely
	// for diagnostic messages.
	OriginalTypedef string
}

// IsBracket reports whether text is one of the six bracket characters that
// the token list links in matching pairs.
func IsBracket(text string) bool {
	switch text {
	case "(", ")", "[", "]", "{", "}", "<", ">":
		return true
	default:
		return false
	}
}

// IsOpenBracket reports whether text opens a bracket pair.
func IsOpenBracket(text string) bool {
	switch text {
	case "(", "[", "{", "<":
		return true
	default:
		return false
	}
}

// MatchingClose returns the closing character for an opening bracket, or ""
// if open is not a recognized opener.
func MatchingClose(open string) string {
	switch open {
	case "(":
		return ")"
	case "[":
		return "]"
	case "{":
		return "}"
	case "<":
		return ">"
	default:
		return ""
	}
}
