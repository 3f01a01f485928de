// Package schema implements the amino schema language: tokenizing and
// parsing schema text into an AST (ast.go), validating that AST for
// self-consistency (validator.go), and indexing a validated AST for fast
// field lookup and re-export (registry.go).
package schema

import "strings"

// Kind identifies the shape of a resolved type reference.
type Kind string

const (
	KindInt   Kind = "Int"
	KindFloat Kind = "Float"
	KindStr   Kind = "Str"
	KindBool  Kind = "Bool"
	KindList  Kind = "List"
	// KindRef is an identifier in type position: a struct name or a
	// registered custom type name. Which one it resolves to is decided
	// by the validator/registry, not the parser.
	KindRef Kind = "Ref"
	// KindAny is used for function calls whose callee is unknown to the
	// schema (polymorphic wildcard downstream) and is never produced by
	// the schema parser itself.
	KindAny Kind = "Any"
)

// IsPrimitive reports whether k is one of the four schema primitives.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindInt, KindFloat, KindStr, KindBool:
		return true
	default:
		return false
	}
}

// Type is a resolved or to-be-resolved type reference: a primitive, a
// struct/custom-type reference (by name), or a List of a union of element
// types.
type Type struct {
	Kind    Kind
	RefName string // set when Kind == KindRef
	Elems   []Type // set when Kind == KindList; union of element types
}

// Primitive type constructors, used throughout the parser and compiler.
func Int() Type   { return Type{Kind: KindInt} }
func Float() Type { return Type{Kind: KindFloat} }
func Str() Type   { return Type{Kind: KindStr} }
func Bool() Type  { return Type{Kind: KindBool} }
func Any() Type   { return Type{Kind: KindAny} }

// Ref constructs a pending reference to a struct or custom type name.
func Ref(name string) Type { return Type{Kind: KindRef, RefName: name} }

// List constructs a list type over a (possibly single-element) union of
// element types.
func List(elems ...Type) Type { return Type{Kind: KindList, Elems: elems} }

// Name returns the canonical name of a resolved type, as it would appear
// in schema text.
func (t Type) Name() string {
	switch t.Kind {
	case KindList:
		names := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			names[i] = e.Name()
		}
		return "List[" + strings.Join(names, "|") + "]"
	case KindRef:
		return t.RefName
	default:
		return string(t.Kind)
	}
}

func (t Type) String() string { return t.Name() }

// Equal reports whether two types denote the same schema type.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindRef:
		return t.RefName == o.RefName
	case KindList:
		if len(t.Elems) != len(o.Elems) {
			return false
		}
		for i := range t.Elems {
			if !t.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
