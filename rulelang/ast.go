// Package rulelang implements the rule expression language: a
// tokenizer and Pratt parser driven by a dynamic operator table, turning
// rule text into a typed Node tree with every node's type resolved by
// the end of parsing.
package rulelang

import "github.com/ezachrisen/amino/operators"

// Node is one node of a parsed rule expression. Every concrete
// implementation carries its own resolved type name, available without a
// second pass.
type Node interface {
	TypeName() string
}

// Literal is a constant value parsed directly from rule text: a number,
// string, or boolean.
type Literal struct {
	Value any
	Type  string
}

func (l *Literal) TypeName() string { return l.Type }

// Variable is a (possibly dotted) reference into the decision map,
// resolved against the schema at parse time.
type Variable struct {
	DottedName string
	Type       string
}

func (v *Variable) TypeName() string { return v.Type }

// UnaryOp is a prefix operator applied to one operand.
type UnaryOp struct {
	Token   string
	Operand Node
	Type    string
	Fn      operators.Fn
}

func (u *UnaryOp) TypeName() string { return u.Type }

// BinaryOp is an infix operator applied to two operands. Fn is nil for
// "and"/"or", which the compiler implements with explicit short-circuit
// closures rather than an operator function.
type BinaryOp struct {
	Token string
	Left  Node
	Right Node
	Type  string
	Fn    operators.Fn
}

func (b *BinaryOp) TypeName() string { return b.Type }

// FunctionCall invokes a caller-supplied function by name. Type is the
// schema-declared return type of a known function, or "Any" for an
// unknown callee (treated as a polymorphic wildcard downstream).
type FunctionCall struct {
	Name string
	Args []Node
	Type string
}

func (f *FunctionCall) TypeName() string { return f.Type }

// ListLiteral is a bracketed list of expressions. Type is always "List".
type ListLiteral struct {
	Items []Node
	Type  string
}

func (l *ListLiteral) TypeName() string { return l.Type }

// AST is a fully parsed and type-resolved rule expression.
type AST struct {
	Root       Node
	ReturnType string
}
