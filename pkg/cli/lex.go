package cli

import (
	"strings"

	"github.com/funvibe/cppgo/internal/ppinput"
	"github.com/funvibe/cppgo/internal/suppress"
)

// lexFile splits raw C/C++ source text into the flat lexical-token
// stream ppinput.Record expects (§1/§6: the real preprocessor is an
// external collaborator, out of scope for the core). This is a bare
// lexer, not a preprocessor: it strips comments and splits punctuation
// greedily against the longest operator this module recognizes, but it
// never expands a macro, follows an #include, or evaluates a
// conditional — a file with unresolved directives simply has its `#...`
// lines tokenized as ordinary punctuator/identifier runs, the same way
// a quick syntax-only tool would treat them.
//
// Because the lexer is the only stage that ever sees raw comment text
// (the token stream itself carries none, §4.1 rule 1), it also doubles
// as the "upstream collaborator" internal/suppress expects to hand it
// already-parsed `cppcheck-suppress` annotations (§4.8 rule 1, §6
// "Suppression syntax: Inline"): every `//` comment is checked against
// that form and, if it matches, turned into a suppress.InlineComment.
func lexFile(fileIndex int, file, src string) ([]ppinput.Record, []suppress.InlineComment) {
	var recs []ppinput.Record
	var inline []suppress.InlineComment
	line, col := 1, 1
	i := 0
	n := len(src)

	advance := func(c byte) {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	for i < n {
		c := src[i]

		switch {
		case c == '\n' || c == ' ' || c == '\t' || c == '\r':
			advance(c)
			i++

		case c == '/' && i+1 < n && src[i+1] == '/':
			commentLine := line
			start := i + 2
			for i < n && src[i] != '\n' {
				advance(src[i])
				i++
			}
			if ic, ok := parseSuppressComment(file, commentLine, src[start:i]); ok {
				inline = append(inline, ic)
			}

		case c == '/' && i+1 < n && src[i+1] == '*':
			advance(src[i])
			advance(src[i+1])
			i += 2
			for i < n && !(src[i] == '*' && i+1 < n && src[i+1] == '/') {
				advance(src[i])
				i++
			}
			if i < n {
				advance(src[i])
				advance(src[i+1])
				i += 2
			}

		case c == '"':
			startLine, startCol := line, col
			j := i + 1
			for j < n && src[j] != '"' {
				if src[j] == '\\' && j+1 < n {
					j++
				}
				j++
			}
			if j < n {
				j++
			}
			recs = append(recs, ppinput.Record{Text: src[i:j], FileIndex: fileIndex, Line: startLine, Column: startCol})
			for ; i < j; i++ {
				advance(src[i])
			}

		case c == '\'':
			startLine, startCol := line, col
			j := i + 1
			for j < n && src[j] != '\'' {
				if src[j] == '\\' && j+1 < n {
					j++
				}
				j++
			}
			if j < n {
				j++
			}
			recs = append(recs, ppinput.Record{Text: src[i:j], FileIndex: fileIndex, Line: startLine, Column: startCol})
			for ; i < j; i++ {
				advance(src[i])
			}

		case isDigit(c):
			startLine, startCol := line, col
			j := i
			for j < n && (isIdentByte(src[j]) || src[j] == '.') {
				j++
			}
			recs = append(recs, ppinput.Record{Text: src[i:j], FileIndex: fileIndex, Line: startLine, Column: startCol})
			for ; i < j; i++ {
				advance(src[i])
			}

		case isIdentStartByte(c):
			startLine, startCol := line, col
			j := i
			for j < n && isIdentByte(src[j]) {
				j++
			}
			// Fold a qualified name's "::" runs into one token (§4.3 rule 2).
			for j+1 < n && src[j] == ':' && src[j+1] == ':' {
				j += 2
				for j < n && isIdentByte(src[j]) {
					j++
				}
			}
			recs = append(recs, ppinput.Record{Text: src[i:j], FileIndex: fileIndex, Line: startLine, Column: startCol})
			for ; i < j; i++ {
				advance(src[i])
			}

		default:
			startLine, startCol := line, col
			width := longestPunctMatch(src[i:])
			recs = append(recs, ppinput.Record{Text: src[i : i+width], FileIndex: fileIndex, Line: startLine, Column: startCol})
			for k := 0; k < width; k++ {
				advance(src[i+k])
			}
			i += width
		}
	}
	return recs, inline
}

// parseSuppressComment recognizes §6's inline suppression form: comment
// content beginning with "cppcheck-suppress", followed by one rule id and
// optional "symbolName=<name>"/"id=<sub-id>" tokens. line is the source
// line the comment itself sits on; resolveTargetLine (internal/suppress)
// is what later maps that to the line it actually suppresses.
func parseSuppressComment(file string, line int, text string) (suppress.InlineComment, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || fields[0] != "cppcheck-suppress" {
		return suppress.InlineComment{}, false
	}
	if len(fields) < 2 {
		return suppress.InlineComment{}, false
	}
	ic := suppress.InlineComment{File: file, Line: line, RuleID: fields[1]}
	for _, f := range fields[2:] {
		if v, ok := strings.CutPrefix(f, "symbolName="); ok {
			ic.SymbolName = v
		} else if v, ok := strings.CutPrefix(f, "id="); ok {
			ic.SymbolName = v
		}
	}
	return ic, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStartByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentByte(c byte) bool { return isIdentStartByte(c) || isDigit(c) }

// multiCharPuncts is checked longest-first so "<<=" isn't split into
// "<<" + "=", mirroring internal/tokenlist's own operatorTexts set.
var multiCharPuncts = []string{
	"<<=", ">>=", "...",
	"==", "!=", "<=", ">=", "&&", "||", "<<", ">>", "+=", "-=", "*=", "/=",
	"%=", "&=", "|=", "^=", "++", "--", "->", "::",
}

func longestPunctMatch(s string) int {
	for _, p := range multiCharPuncts {
		if len(s) >= len(p) && s[:len(p)] == p {
			return len(p)
		}
	}
	return 1
}
