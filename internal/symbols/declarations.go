package symbols

import (
	"github.com/funvibe/cppgo/internal/token"
	"github.com/funvibe/cppgo/internal/tokenlist"
)

// tryDeclaration attempts to recognize a declaration starting at id,
// per §4.4: "type-spec declarator (,declarator)* ;" for variables, or
// "type-spec name ( params ) cv-qualifiers? ; | { ... }" for functions.
// Returns true and advances nothing itself (run's main loop continues
// token by token); declaration recognition only registers symbols, it
// does not skip tokens, so AST construction and scope tracking over the
// declarator's own tokens still happens normally.
func (b *builder) tryDeclaration(id token.ID) bool {
	if !b.isTypeSpecStart(id) {
		return false
	}
	typeStart := id
	typeEnd, typeName := b.scanTypeSpec(id)
	if typeEnd == token.None {
		return false
	}

	// Walk past pointer/reference qualifiers attached to the type, up to
	// the declarator name.
	cursor := b.list.Next(typeEnd)
	ptr, ref, rvalueRef := false, false, false
	for cursor != token.None {
		t := b.list.At(cursor)
		switch t.Text {
		case "*":
			ptr = true
		case "&":
			if ref {
				rvalueRef, ref = true, false
			} else {
				ref = true
			}
		case "const", "volatile":
			// CV-qualifier between type and declarator; stays attached to
			// the type for diagnostic purposes.
		default:
			goto foundName
		}
		cursor = b.list.Next(cursor)
	}
foundName:
	if cursor == token.None || b.list.At(cursor).Kind != token.Identifier {
		return false
	}
	nameTok := cursor
	afterName := b.list.Next(nameTok)

	if afterName != token.None && b.list.At(afterName).Text == "(" && !b.looksLikeCallNotDecl(afterName) {
		return b.registerFunction(typeStart, typeEnd, nameTok, afterName, ptr)
	}

	// Otherwise this is a variable declaration; the simplifier has already
	// split multi-declarator statements with pointers (§4.3 rule 5), but a
	// plain `int a, b;` may still have more than one declarator here.
	declCursor := nameTok
	scope := b.curScope()
	for {
		v := Variable{
			NameToken:      declCursor,
			DeclaringScope: scope,
			TypeStart:      typeStart,
			TypeEnd:        typeEnd,
			IsPointer:      ptr,
			IsReference:    ref,
			IsRvalueRef:    rvalueRef,
			TypeName:       typeName,
		}
		b.classifyStorage(&v, scope)
		next := b.list.Next(declCursor)
		next = b.scanArrayDims(&v, next)
		next = b.scanInitializer(&v, next)
		vi := b.st.addVariable(v)
		b.list.SetVariableRef(declCursor, vi)

		if next == token.None {
			break
		}
		if b.list.At(next).Text == "," {
			declCursor = b.list.Next(next)
			if declCursor == token.None || b.list.At(declCursor).Kind != token.Identifier {
				break
			}
			continue
		}
		break
	}
	return true
}

// looksLikeCallNotDecl decides whether a `type-spec name (` sequence is a
// call/use (`foo(x)` where foo is already a known variable, e.g. a
// functor) rather than a function declaration. A precise answer needs
// overload-aware name lookup this core does not perform (§4.4 "Overload
// resolution is not performed"). This implementation does no lookup at
// all and always returns false, so every such sequence is read as a
// function header.
func (b *builder) looksLikeCallNotDecl(openParen token.ID) bool {
	return false
}

func (b *builder) classifyStorage(v *Variable, scope int32) {
	switch b.st.Scopes[scope].Kind {
	case ScopeGlobal, ScopeNamespace:
		v.IsGlobal = true
	case ScopeClass, ScopeStruct, ScopeUnion:
		v.IsClassMember = true
	default:
		v.IsLocal = true
	}
}

// scanArrayDims consumes zero or more `[ num? ]` suffixes starting at
// cursor, recording §3's ArrayDimensions (Option<integer> per rank, -1
// meaning unknown).
func (b *builder) scanArrayDims(v *Variable, cursor token.ID) token.ID {
	for cursor != token.None && b.list.At(cursor).Text == "[" {
		close := b.list.Link(cursor)
		dim := -1
		if inner := b.list.Next(cursor); inner != token.None && inner != close && b.list.At(inner).Kind == token.Number {
			dim = parseIntLiteral(b.list.At(inner).Text)
		}
		v.ArrayDimensions = append(v.ArrayDimensions, dim)
		v.IsArray = true
		if close == token.None {
			return token.None
		}
		cursor = b.list.Next(close)
	}
	return cursor
}

// scanInitializer consumes an optional `= expr` or `{ expr }` initializer
// up to the next top-level ',' or ';', recording its token range.
func (b *builder) scanInitializer(v *Variable, cursor token.ID) token.ID {
	if cursor == token.None {
		return cursor
	}
	t := b.list.At(cursor)
	if t.Text != "=" && t.Text != "{" && t.Text != "(" {
		return cursor
	}
	start := b.list.Next(cursor)
	if t.Text != "=" {
		start = cursor // brace/paren init: the initializer range includes the brackets
	}
	v.DefaultValueStart = start
	end := cursor
	for id := cursor; id != token.None; id = b.list.Next(id) {
		tok := b.list.At(id)
		if token.IsBracket(tok.Text) && token.IsOpenBracket(tok.Text) {
			close := b.list.Link(id)
			if close != token.None {
				end = close
				id = close
				continue
			}
		}
		if tok.Text == "," || tok.Text == ";" {
			v.DefaultValueEnd = end
			return id
		}
		end = id
	}
	v.DefaultValueEnd = end
	return token.None
}

func parseIntLiteral(text string) int {
	n := 0
	for _, c := range text {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// isTypeSpecStart reports whether id begins a type-spec: a fundamental
// type keyword, CV-qualifier, elaborated type keyword, or a name already
// known to the table as a type (§4.4).
func (b *builder) isTypeSpecStart(id token.ID) bool {
	t := b.list.At(id)
	if t.Kind != token.Identifier && t.Kind != token.Keyword {
		return false
	}
	if tokenlist.FundamentalTypes[t.Text] {
		return true
	}
	switch t.Text {
	case "const", "volatile", "struct", "class", "enum", "union", "typename", "auto":
		return true
	}
	if t.Kind == token.Identifier && b.st.IsType(t.Text) {
		return true
	}
	return false
}

// scanTypeSpec consumes the full type-spec run starting at id (qualifiers,
// elaborated-type keyword + name, or a bare known type name, plus any
// template argument list), returning its last token and the resolved type
// name used for %type%/member lookups.
func (b *builder) scanTypeSpec(id token.ID) (token.ID, string) {
	cursor := id
	name := ""
	for cursor != token.None {
		t := b.list.At(cursor)
		switch {
		case t.Text == "const" || t.Text == "volatile" || t.Text == "typename":
			cursor = b.list.Next(cursor)
			continue
		case t.Text == "auto":
			// C++11 type deduction: the concrete type isn't known without
			// running a deducer over the initializer, which C5 does not do
			// (§4.4 doesn't specify deduction); record the type name as
			// "auto" and let checks that need a concrete type treat it as
			// opaque, same as any other unresolved type.
			name = "auto"
			return cursor, name
		case t.Text == "struct" || t.Text == "class" || t.Text == "enum" || t.Text == "union":
			next := b.list.Next(cursor)
			if next != token.None && b.list.At(next).Kind == token.Identifier {
				name = b.list.At(next).Text
				cursor = next
			}
		case tokenlist.FundamentalTypes[t.Text]:
			name += t.Text
			// fundamental types may repeat ("unsigned long long"); keep
			// consuming while still fundamental-type keywords.
			next := b.list.Next(cursor)
			for next != token.None && tokenlist.FundamentalTypes[b.list.At(next).Text] {
				cursor = next
				next = b.list.Next(cursor)
			}
		default:
			name = t.Text
		}
		// Optional template argument list, e.g. vector<int>.
		if nxt := b.list.Next(cursor); nxt != token.None && b.list.At(nxt).Text == "<" {
			if close := b.list.Link(nxt); close != token.None {
				cursor = close
			}
		}
		return cursor, name
	}
	return token.None, ""
}
