// Package symbols implements C5: scopes, variables, functions, and types
// derived from a simplified token list, plus the precedence-climbing
// expression-tree builder that populates each token's AST links (§4.4).
package symbols

import "github.com/funvibe/cppgo/internal/token"

// ScopeKind is one of the scope kinds of §3.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeNamespace
	ScopeClass
	ScopeStruct
	ScopeUnion
	ScopeFunction
	ScopeBlock
	ScopeForInit
	ScopeIf
	ScopeElse
	ScopeWhile
	ScopeDo
	ScopeSwitch
	ScopeTry
	ScopeCatch
	ScopeLambda
	ScopeEnum
)

func (k ScopeKind) String() string {
	names := [...]string{
		"global", "namespace", "class", "struct", "union", "function",
		"block", "for-init", "if", "else", "while", "do", "switch", "try",
		"catch", "lambda", "enum",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// NoIndex is the sentinel for "no scope/variable/function/type", matching
// the absent-value convention of token.None.
const NoIndex = int32(-1)

// Scope is §3's Scope: an owning token range, a parent/children tree, and
// the variables declared directly within it.
type Scope struct {
	Kind ScopeKind

	Parent   int32
	Children []int32

	Open, Close token.ID // owning token range [open, close]

	Variables []int32 // indices into SymbolTable.Variables, declaration order

	Function int32 // index into Functions if Kind == ScopeFunction, else NoIndex
	Type     int32 // index into Types if Kind is Class/Struct/Union/Enum, else NoIndex
}

// Variable is §3's Variable.
type Variable struct {
	NameToken      token.ID
	DeclaringScope int32

	TypeStart, TypeEnd token.ID

	IsPointer     bool
	IsArray       bool
	IsReference   bool
	IsRvalueRef   bool
	IsConst       bool
	IsStatic      bool
	IsExtern      bool
	IsArgument    bool
	IsClassMember bool
	IsLocal       bool
	IsGlobal      bool

	// ArrayDimensions holds one entry per array rank; -1 means the
	// dimension is unknown (Option<integer>::None), matching `int a[]`.
	ArrayDimensions []int

	// DefaultValueStart/End is the [start,end] token range of an
	// initializer or default argument, or token.None/token.None if absent.
	DefaultValueStart, DefaultValueEnd token.ID

	// TypeName is the resolved textual name of the declarator's type-spec,
	// used for %type% lookups and simple type-based member resolution.
	TypeName string
}

// Function is §3's Function.
type Function struct {
	NameToken   token.ID
	OwningScope int32

	Arguments []int32 // indices into SymbolTable.Variables, declaration order

	ReturnTypeStart, ReturnTypeEnd token.ID

	IsConstructor bool
	IsDestructor  bool
	IsOperator    bool
	IsVirtual     bool
	IsPureVirtual bool
	IsStatic      bool
	IsConstMember bool
	IsNoexcept    bool
	IsDeleted     bool
	IsDefaulted   bool
	IsLambda      bool

	// BodyScope indexes the function's ScopeFunction body scope, or
	// NoIndex for a declaration with no body.
	BodyScope int32
}

// TypeKind is one of the type kinds of §3.
type TypeKind int

const (
	KindClass TypeKind = iota
	KindStruct
	KindUnion
	KindEnum
	KindTypedefAlias
	KindFundamental
)

// Type is §3's Type.
type Type struct {
	NameToken     token.ID // token.None if anonymous
	DefiningScope int32
	BaseTypes     []int32
	Kind          TypeKind

	// Sizeof and Alignment are -1 when unknown (Option<integer>::None).
	Sizeof    int
	Alignment int

	// Opaque marks a type the symbol builder could not resolve a
	// definition for (§4.4 "Failure"): checks requiring concrete size or
	// layout must skip it rather than guess.
	Opaque bool

	Name string
}
