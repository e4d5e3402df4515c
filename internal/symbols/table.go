package symbols

import (
	"github.com/funvibe/cppgo/internal/token"
	"github.com/funvibe/cppgo/internal/tokenlist"
)

// SymbolTable holds every scope/variable/function/type derived from one
// translation unit's simplified token list (§4.4).
type SymbolTable struct {
	List *tokenlist.List

	Scopes    []Scope
	Variables []Variable
	Functions []Function
	Types     []Type

	// byName indexes Types by name for IsType/LookupType. Multiple entries
	// of the same name are not expected within one TU's flat namespace
	// model but the last registration wins, matching a single-pass build
	// that never needs to undo a registration.
	byName map[string]int32
}

// New creates an empty table anchored to list, pre-seeded with the single
// global scope every TU has even when empty (§8 "Empty TU").
func New(list *tokenlist.List) *SymbolTable {
	st := &SymbolTable{List: list, byName: make(map[string]int32)}
	st.Scopes = append(st.Scopes, Scope{Kind: ScopeGlobal, Parent: NoIndex, Function: NoIndex, Type: NoIndex})
	return st
}

// IsType implements pattern.TypeOracle.
func (st *SymbolTable) IsType(name string) bool {
	_, ok := st.byName[name]
	return ok
}

// LookupType returns the index of the type named name, or NoIndex.
func (st *SymbolTable) LookupType(name string) int32 {
	if idx, ok := st.byName[name]; ok {
		return idx
	}
	return NoIndex
}

func (st *SymbolTable) addType(t Type) int32 {
	idx := int32(len(st.Types))
	st.Types = append(st.Types, t)
	if t.Name != "" {
		st.byName[t.Name] = idx
	}
	return idx
}

func (st *SymbolTable) addVariable(v Variable) int32 {
	idx := int32(len(st.Variables))
	st.Variables = append(st.Variables, v)
	st.Scopes[v.DeclaringScope].Variables = append(st.Scopes[v.DeclaringScope].Variables, idx)
	return idx
}

func (st *SymbolTable) addFunction(f Function) int32 {
	idx := int32(len(st.Functions))
	st.Functions = append(st.Functions, f)
	return idx
}

// pushScope opens a new scope of kind kind, child of parent, and returns
// its index. open is the token that opens it (invariant 4 anchors the
// scope's owning range here).
func (st *SymbolTable) pushScope(kind ScopeKind, parent int32, open token.ID) int32 {
	idx := int32(len(st.Scopes))
	st.Scopes = append(st.Scopes, Scope{Kind: kind, Parent: parent, Open: open, Function: NoIndex, Type: NoIndex})
	if parent != NoIndex {
		st.Scopes[parent].Children = append(st.Scopes[parent].Children, idx)
	}
	return idx
}

func (st *SymbolTable) closeScope(idx int32, close token.ID) {
	st.Scopes[idx].Close = close
}

// ResolveVariable resolves name starting in scope fromScope, innermost-out
// (§4.4 "Variables inside a scope ... name resolution is innermost-out,
// then enclosing namespaces, then global"). Returns NoIndex if unresolved.
func (st *SymbolTable) ResolveVariable(fromScope int32, name string) int32 {
	for s := fromScope; s != NoIndex; s = st.Scopes[s].Parent {
		for _, vi := range st.Scopes[s].Variables {
			v := &st.Variables[vi]
			if st.tokenText(v.NameToken) == name {
				return vi
			}
		}
	}
	return NoIndex
}

// ResolveMember resolves a member access field on the value held by
// ownerVar, by looking up field among the defining scope's variables of
// ownerVar's type (§4.4: "Member access x.y ... resolves y in the type of
// x (if known); unresolved accesses leave variable-ref absent — not a
// fatal condition").
func (st *SymbolTable) ResolveMember(ownerVar int32, field string) int32 {
	if ownerVar == NoIndex {
		return NoIndex
	}
	typeIdx := st.LookupType(st.Variables[ownerVar].TypeName)
	if typeIdx == NoIndex {
		return NoIndex
	}
	definingScope := st.Types[typeIdx].DefiningScope
	if definingScope == NoIndex {
		return NoIndex
	}
	for _, vi := range st.Scopes[definingScope].Variables {
		if st.tokenText(st.Variables[vi].NameToken) == field {
			return vi
		}
	}
	return NoIndex
}

func (st *SymbolTable) tokenText(id token.ID) string {
	t := st.List.At(id)
	if t == nil {
		return ""
	}
	return t.Text
}

// ScopeKindOf returns the kind of scope idx, treating NoIndex as the
// global scope.
func (st *SymbolTable) ScopeKindOf(idx int32) ScopeKind {
	if idx == NoIndex {
		return ScopeGlobal
	}
	return st.Scopes[idx].Kind
}
