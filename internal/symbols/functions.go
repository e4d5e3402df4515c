package symbols

import "github.com/funvibe/cppgo/internal/token"

// registerFunction builds a Function from a recognized
// "type-spec name ( params )" header, registers its parameters as
// Variables (in a new ScopeFunction if a body follows), and records
// constructor/destructor/operator classification (§4.4, §3 Function).
func (b *builder) registerFunction(typeStart, typeEnd, nameTok, openParen token.ID, returnsPointer bool) bool {
	closeParen := b.list.Link(openParen)
	if closeParen == token.None {
		return false
	}

	fn := Function{
		NameToken:       nameTok,
		OwningScope:     b.curScope(),
		ReturnTypeStart: typeStart,
		ReturnTypeEnd:   typeEnd,
		BodyScope:       NoIndex,
	}

	name := b.list.At(nameTok).Text
	if b.enclosingTypeName() == name {
		fn.IsConstructor = true
	}
	if prev := b.list.Prev(nameTok); prev != token.None && b.list.At(prev).Text == "~" {
		fn.IsDestructor = true
	}
	if name == "operator" {
		fn.IsOperator = true
	}

	// cv-qualifiers, noexcept, override/final, `= 0` / `= delete` /
	// `= default`, all between ')' and the terminator ('{' or ';').
	cursor := b.list.Next(closeParen)
	for cursor != token.None {
		t := b.list.At(cursor)
		switch t.Text {
		case "const":
			fn.IsConstMember = true
		case "noexcept":
			fn.IsNoexcept = true
		case "override", "final":
			// no dedicated flag; acknowledged but not tracked individually
		case "virtual":
			fn.IsVirtual = true
		case "=":
			nxt := b.list.Next(cursor)
			if nxt != token.None {
				switch b.list.At(nxt).Text {
				case "0":
					fn.IsPureVirtual = true
				case "delete":
					fn.IsDeleted = true
				case "default":
					fn.IsDefaulted = true
				}
				cursor = nxt
			}
		case "{":
			goto haveBody
		case ";":
			goto declOnly
		}
		cursor = b.list.Next(cursor)
	}
haveBody:
	// Don't push the body scope here: `cursor` (the '{') hasn't been
	// reached by run's own cursor yet (tryDeclaration only recognized the
	// header; run still has to walk the parameter list token by token).
	// Pushing now would leave a second, redundant scope pushed when run
	// later reaches this same '{' through openBrace, and since a single
	// '}' only pops one scope, the first (this one) would never close.
	// Instead defer to the same pending/openBrace mechanism every other
	// scope-introducing header uses (§4.4): openBrace does the one push,
	// using the finishing data recorded here.
	b.pending = &pendingHeader{
		kind:       ScopeFunction,
		fn:         fn,
		paramOpen:  openParen,
		paramClose: closeParen,
	}
	return true
declOnly:
	fn.Arguments = b.registerParameters(openParen, closeParen, NoIndex)
	b.st.addFunction(fn)
	return true
}

// enclosingTypeName returns the name of the innermost class/struct scope,
// or "" if not nested in one (used for constructor detection).
func (b *builder) enclosingTypeName() string {
	for s := b.curScope(); s != NoIndex; s = b.st.Scopes[s].Parent {
		scope := b.st.Scopes[s]
		if scope.Kind == ScopeClass || scope.Kind == ScopeStruct {
			if scope.Type != NoIndex && b.st.Types[scope.Type].NameToken != token.None {
				return b.list.At(b.st.Types[scope.Type].NameToken).Text
			}
		}
	}
	return ""
}

// registerParameters parses the comma-separated parameter list between
// openParen and closeParen into Variables marked IsArgument. If
// declaringScope is NoIndex (a declaration with no body), the parameters
// are still parsed for arity/type information but are not attached to any
// scope's Variables list, since the declaration introduces no block.
func (b *builder) registerParameters(openParen, closeParen token.ID, declaringScope int32) []int32 {
	var args []int32
	cursor := b.list.Next(openParen)
	for cursor != token.None && cursor != closeParen {
		if !b.isTypeSpecStart(cursor) {
			// `(void)` or an unparseable parameter; skip to next comma.
			cursor = b.skipToCommaOrClose(cursor, closeParen)
			continue
		}
		typeStart := cursor
		typeEnd, typeName := b.scanTypeSpec(cursor)
		if typeEnd == token.None {
			cursor = b.skipToCommaOrClose(cursor, closeParen)
			continue
		}
		walk := b.list.Next(typeEnd)
		ptr, ref := false, false
		for walk != token.None && walk != closeParen {
			switch b.list.At(walk).Text {
			case "*":
				ptr = true
			case "&":
				ref = true
			case "const":
			default:
				goto haveDeclarator
			}
			walk = b.list.Next(walk)
		}
	haveDeclarator:
		v := Variable{
			TypeStart: typeStart, TypeEnd: typeEnd, TypeName: typeName,
			IsPointer: ptr, IsReference: ref, IsArgument: true, IsLocal: true,
		}
		if walk != closeParen && walk != token.None && b.list.At(walk).Kind == token.Identifier {
			v.NameToken = walk
			walk = b.list.Next(walk)
		}
		if declaringScope != NoIndex {
			v.DeclaringScope = declaringScope
			vi := b.st.addVariable(v)
			if v.NameToken != token.None {
				b.list.SetVariableRef(v.NameToken, vi)
			}
			args = append(args, vi)
		} else {
			vi := int32(len(b.st.Variables))
			b.st.Variables = append(b.st.Variables, v)
			args = append(args, vi)
		}
		cursor = b.skipToCommaOrClose(walk, closeParen)
	}
	return args
}

func (b *builder) skipToCommaOrClose(from, closeParen token.ID) token.ID {
	for id := from; id != token.None; id = b.list.Next(id) {
		if id == closeParen {
			return closeParen
		}
		t := b.list.At(id)
		if t.Text == "," {
			return b.list.Next(id)
		}
		if token.IsOpenBracket(t.Text) {
			if close := b.list.Link(id); close != token.None {
				id = close
				continue
			}
		}
	}
	return closeParen
}
