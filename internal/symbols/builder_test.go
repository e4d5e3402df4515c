package symbols

import (
	"testing"

	"github.com/funvibe/cppgo/internal/token"
	"github.com/funvibe/cppgo/internal/tokenlist"
)

func build(t *testing.T, texts ...string) *tokenlist.List {
	t.Helper()
	list := tokenlist.New([]string{"test.cpp"})
	var prev token.ID = token.None
	for _, txt := range texts {
		prev = list.InsertAfter(prev, txt, tokenlist.Classify(txt))
	}
	if errs := list.LinkBrackets(); len(errs) != 0 {
		t.Fatalf("unexpected link errors: %v", errs)
	}
	return list
}

func nameOf(list *tokenlist.List, id token.ID) string {
	if id == token.None {
		return "<none>"
	}
	return list.At(id).Text
}

func TestBuildEmptyTU(t *testing.T) {
	list := tokenlist.New([]string{"empty.cpp"})
	st := Build(list)
	if len(st.Scopes) != 1 {
		t.Fatalf("expected exactly the global scope, got %d scopes", len(st.Scopes))
	}
	if st.Scopes[0].Kind != ScopeGlobal {
		t.Fatalf("expected global scope kind, got %v", st.Scopes[0].Kind)
	}
}

func TestBuildSimpleVariableDeclaration(t *testing.T) {
	list := build(t, "int", "x", "=", "5", ";")
	st := Build(list)
	if len(st.Variables) != 1 {
		t.Fatalf("expected 1 variable, got %d", len(st.Variables))
	}
	v := st.Variables[0]
	if !v.IsGlobal {
		t.Fatalf("expected global variable")
	}
	if nameOf(list, v.NameToken) != "x" {
		t.Fatalf("expected name x, got %s", nameOf(list, v.NameToken))
	}
	if v.DefaultValueStart == token.None {
		t.Fatalf("expected initializer recorded")
	}
}

func TestBuildMultiDeclarator(t *testing.T) {
	list := build(t, "int", "a", ",", "b", ";")
	st := Build(list)
	if len(st.Variables) != 2 {
		t.Fatalf("expected 2 variables, got %d", len(st.Variables))
	}
	if nameOf(list, st.Variables[0].NameToken) != "a" || nameOf(list, st.Variables[1].NameToken) != "b" {
		t.Fatalf("unexpected declarator names")
	}
}

func TestBuildPointerVariable(t *testing.T) {
	list := build(t, "int", "*", "p", ";")
	st := Build(list)
	if len(st.Variables) != 1 {
		t.Fatalf("expected 1 variable, got %d", len(st.Variables))
	}
	if !st.Variables[0].IsPointer {
		t.Fatalf("expected pointer variable")
	}
}

func TestBuildArrayDimensions(t *testing.T) {
	list := build(t, "int", "arr", "[", "10", "]", ";")
	st := Build(list)
	if len(st.Variables) != 1 {
		t.Fatalf("expected 1 variable, got %d", len(st.Variables))
	}
	v := st.Variables[0]
	if !v.IsArray || len(v.ArrayDimensions) != 1 || v.ArrayDimensions[0] != 10 {
		t.Fatalf("unexpected array dims: %+v", v)
	}
}

func TestBuildFunctionWithBody(t *testing.T) {
	list := build(t, "int", "add", "(", "int", "a", ",", "int", "b", ")", "{", "return", "a", "+", "b", ";", "}")
	st := Build(list)
	if len(st.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(st.Functions))
	}
	fn := st.Functions[0]
	if nameOf(list, fn.NameToken) != "add" {
		t.Fatalf("expected function name add, got %s", nameOf(list, fn.NameToken))
	}
	if len(fn.Arguments) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(fn.Arguments))
	}
	if fn.BodyScope == NoIndex {
		t.Fatalf("expected body scope to be set")
	}
	if st.Scopes[fn.BodyScope].Kind != ScopeFunction {
		t.Fatalf("expected ScopeFunction, got %v", st.Scopes[fn.BodyScope].Kind)
	}
}

func TestBuildFunctionDeclarationOnly(t *testing.T) {
	list := build(t, "void", "foo", "(", ")", ";")
	st := Build(list)
	if len(st.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(st.Functions))
	}
	if st.Functions[0].BodyScope != NoIndex {
		t.Fatalf("expected no body scope for declaration-only function")
	}
}

func TestBuildClassScopeAndType(t *testing.T) {
	list := build(t, "class", "Foo", "{", "int", "x", ";", "}", ";")
	st := Build(list)
	if len(st.Types) != 1 {
		t.Fatalf("expected 1 type, got %d", len(st.Types))
	}
	if st.Types[0].Kind != KindClass {
		t.Fatalf("expected class kind, got %v", st.Types[0].Kind)
	}
	if st.Types[0].Name != "Foo" {
		t.Fatalf("expected type name Foo, got %s", st.Types[0].Name)
	}
	// the class body should have produced one member variable
	found := false
	for _, v := range st.Variables {
		if nameOf(list, v.NameToken) == "x" && v.IsClassMember {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected member variable x")
	}
}

func TestBuildNestedBlockScopes(t *testing.T) {
	list := build(t, "void", "f", "(", ")", "{", "if", "(", "1", ")", "{", "int", "y", ";", "}", "}")
	st := Build(list)
	// The if's own braces are the if scope's range; no separate block scope
	// is opened inside it.
	var ifScope *Scope
	var fnScope int32 = NoIndex
	for i := range st.Scopes {
		switch st.Scopes[i].Kind {
		case ScopeIf:
			ifScope = &st.Scopes[i]
		case ScopeFunction:
			fnScope = int32(i)
		}
	}
	if ifScope == nil {
		t.Fatalf("expected an if scope")
	}
	if fnScope == NoIndex || ifScope.Parent != fnScope {
		t.Fatalf("expected the if scope nested in the function scope, got parent %d want %d", ifScope.Parent, fnScope)
	}
}

func TestBuildForLoopScope(t *testing.T) {
	list := build(t, "for", "(", "int", "i", "=", "0", ";", "i", "<", "10", ";", "i", "++", ")", "{", "}")
	st := Build(list)
	var forInit int32 = NoIndex
	var body int32 = NoIndex
	for i, s := range st.Scopes {
		switch s.Kind {
		case ScopeForInit:
			forInit = int32(i)
		case ScopeBlock:
			body = int32(i)
		}
	}
	if forInit == NoIndex {
		t.Fatalf("expected a for-init scope")
	}
	if body == NoIndex {
		t.Fatalf("expected the loop body's block scope")
	}
	if st.Scopes[body].Parent != forInit {
		t.Fatalf("loop body scope must be a child of the for-init scope so it can resolve the index variable, got parent %d want %d", st.Scopes[body].Parent, forInit)
	}
	if vi := st.ResolveVariable(body, "i"); vi == NoIndex {
		t.Fatalf("expected the loop body to resolve the for-init declarator 'i'")
	}
}

func TestBuildFunctionBodyPushesSingleScope(t *testing.T) {
	list := build(t, "void", "f", "(", ")", "{", "int", "x", ";", "}",
		"void", "g", "(", ")", "{", "int", "y", ";", "}")
	st := Build(list)
	var fnScopes []int32
	for i, s := range st.Scopes {
		if s.Kind == ScopeFunction {
			fnScopes = append(fnScopes, int32(i))
		}
	}
	if len(fnScopes) != 2 {
		t.Fatalf("expected 2 function scopes, got %d", len(fnScopes))
	}
	for _, idx := range fnScopes {
		if st.Scopes[idx].Parent != 0 {
			t.Fatalf("expected function scope %d to be a direct child of global (0), got parent %d; a leaked outer scope from the first function would nest the second function under it", idx, st.Scopes[idx].Parent)
		}
	}
	if len(st.Functions) != 2 {
		t.Fatalf("expected 2 registered functions, got %d", len(st.Functions))
	}
}

func TestResolveVariableInnermostOut(t *testing.T) {
	list := build(t, "int", "x", ";", "void", "f", "(", ")", "{", "int", "x", ";", "}")
	st := Build(list)
	// find the inner block scope (the function body)
	var fnScope int32 = NoIndex
	for i, s := range st.Scopes {
		if s.Kind == ScopeFunction {
			fnScope = int32(i)
		}
	}
	if fnScope == NoIndex {
		t.Fatalf("expected a function scope")
	}
	vi := st.ResolveVariable(fnScope, "x")
	if vi == NoIndex {
		t.Fatalf("expected to resolve x")
	}
	if !st.Variables[vi].IsLocal {
		t.Fatalf("expected innermost (local) x to win, got global=%v local=%v", st.Variables[vi].IsGlobal, st.Variables[vi].IsLocal)
	}
}

func TestResolveReadsLinksVariableRef(t *testing.T) {
	list := build(t, "int", "x", ";", "x", "=", "5", ";")
	Build(list)
	var declID, readID token.ID
	seen := 0
	for _, id := range list.Tokens() {
		if list.At(id).Text == "x" {
			seen++
			if seen == 1 {
				declID = id
			} else {
				readID = id
			}
		}
	}
	declVar := list.At(declID).VariableRef
	readVar := list.At(readID).VariableRef
	if declVar == NoIndex {
		t.Fatalf("expected the declaration site to have a VariableRef")
	}
	if readVar != declVar {
		t.Fatalf("expected the read of x to resolve to the same variable as its declaration, got decl=%d read=%d", declVar, readVar)
	}
}

func TestResolveReadsSkipsMemberFieldNames(t *testing.T) {
	list := build(t, "int", "y", ";", "x", ".", "y", ";")
	st := Build(list)
	var field token.ID
	seen := 0
	for _, id := range list.Tokens() {
		if list.At(id).Text == "y" {
			seen++
			if seen == 2 {
				field = id
			}
		}
	}
	if got := list.At(field).VariableRef; got != NoIndex {
		t.Fatalf("expected a field name after '.' to stay unresolved, got VariableRef=%d", got)
	}
	_ = st
}

func TestBuildExpressionAssignsASTLinks(t *testing.T) {
	list := build(t, "a", "=", "b", "+", "c", ";")
	root, next := BuildExpression(list, list.First(), token.None)
	if root == token.None {
		t.Fatalf("expected a root token")
	}
	if nameOf(list, root) != "=" {
		t.Fatalf("expected root to be the assignment, got %s", nameOf(list, root))
	}
	if list.At(next).Text != ";" {
		t.Fatalf("expected next to stop at ';', got %s", nameOf(list, next))
	}
	plus := list.At(root).ASTOperand2
	if nameOf(list, plus) != "+" {
		t.Fatalf("expected rhs to be '+', got %s", nameOf(list, plus))
	}
}

func TestBuildExpressionPrecedence(t *testing.T) {
	list := build(t, "a", "+", "b", "*", "c", ";")
	root, _ := BuildExpression(list, list.First(), token.None)
	if nameOf(list, root) != "+" {
		t.Fatalf("expected '+' at root (lower precedence binds last), got %s", nameOf(list, root))
	}
	rhs := list.At(root).ASTOperand2
	if nameOf(list, rhs) != "*" {
		t.Fatalf("expected '*' as rhs of '+', got %s", nameOf(list, rhs))
	}
}

func TestBuildStatementsProduceExpressionAST(t *testing.T) {
	list := build(t, "void", "f", "(", ")", "{", "x", "=", "1", ";", "y", "=", "2", ";", "}")
	Build(list)
	var assigns int
	for _, id := range list.Tokens() {
		if list.At(id).Text == "=" && list.At(id).ASTOperand1 != token.None {
			assigns++
		}
	}
	if assigns != 2 {
		t.Fatalf("expected 2 assignment AST roots, got %d", assigns)
	}
}
