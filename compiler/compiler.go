// Package compiler turns a type-resolved rule AST (rulelang.AST) into a
// closure-tree evaluator: one recursive walk emits, for every node, a
// function of the decision map and the caller-supplied function map that
// produces that node's value.
package compiler

import (
	"github.com/ezachrisen/amino/errs"
	"github.com/ezachrisen/amino/rulelang"
)

// Fn is a caller-supplied function invocable from rule text via a
// FunctionCall node.
type Fn func(args ...any) (any, error)

// Eval is the closure shape every compiled node reduces to.
type Eval func(decision map[string]any, functions map[string]Fn) (any, error)

// CompiledRule is one compiled rule: its external id, resolved return
// type, and evaluator closure.
type CompiledRule struct {
	ID         string
	ReturnType string
	Eval       Eval
}

// Compile walks ast and produces a CompiledRule bound to id.
func Compile(id string, ast *rulelang.AST) (*CompiledRule, error) {
	eval, err := compileNode(ast.Root)
	if err != nil {
		return nil, err
	}
	return &CompiledRule{ID: id, ReturnType: ast.ReturnType, Eval: eval}, nil
}

func compileNode(node rulelang.Node) (Eval, error) {
	switch n := node.(type) {
	case *rulelang.Literal:
		return compileLiteral(n), nil
	case *rulelang.ListLiteral:
		return compileListLiteral(n)
	case *rulelang.Variable:
		return compileVariable(n), nil
	case *rulelang.UnaryOp:
		return compileUnary(n)
	case *rulelang.BinaryOp:
		return compileBinary(n)
	case *rulelang.FunctionCall:
		return compileFunctionCall(n)
	default:
		return nil, errs.RuleEvaluationError("unknown rule node type")
	}
}

func compileLiteral(n *rulelang.Literal) Eval {
	value := n.Value
	return func(map[string]any, map[string]Fn) (any, error) { return value, nil }
}

func compileListLiteral(n *rulelang.ListLiteral) (Eval, error) {
	itemEvals := make([]Eval, len(n.Items))
	for i, item := range n.Items {
		e, err := compileNode(item)
		if err != nil {
			return nil, err
		}
		itemEvals[i] = e
	}
	return func(decision map[string]any, functions map[string]Fn) (any, error) {
		values := make([]any, len(itemEvals))
		for i, e := range itemEvals {
			v, err := e(decision, functions)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return values, nil
	}, nil
}

// compileVariable emits a closure that walks a dotted path through the
// decision map. A missing intermediate key raises RuleEvaluationError,
// which the evaluator shell catches and demotes to false.
func compileVariable(n *rulelang.Variable) Eval {
	parts := splitDotted(n.DottedName)
	return func(decision map[string]any, functions map[string]Fn) (any, error) {
		var cur any = decision
		for _, part := range parts {
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, errs.RuleEvaluationError("variable not found", errs.WithField(n.DottedName))
			}
			v, ok := m[part]
			if !ok {
				return nil, errs.RuleEvaluationError("variable not found", errs.WithField(n.DottedName))
			}
			cur = v
		}
		return cur, nil
	}
}

func splitDotted(name string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			parts = append(parts, name[start:i])
			start = i + 1
		}
	}
	parts = append(parts, name[start:])
	return parts
}

func compileUnary(n *rulelang.UnaryOp) (Eval, error) {
	operandEval, err := compileNode(n.Operand)
	if err != nil {
		return nil, err
	}
	if n.Token == "not" {
		return func(decision map[string]any, functions map[string]Fn) (any, error) {
			v, err := operandEval(decision, functions)
			if err != nil {
				return nil, err
			}
			return !truthy(v), nil
		}, nil
	}
	fn := n.Fn
	if fn == nil {
		return nil, errs.RuleEvaluationError("unary operator has no implementation", errs.WithField(n.Token))
	}
	return func(decision map[string]any, functions map[string]Fn) (any, error) {
		v, err := operandEval(decision, functions)
		if err != nil {
			return nil, err
		}
		return fn(v)
	}, nil
}

func compileBinary(n *rulelang.BinaryOp) (Eval, error) {
	leftEval, err := compileNode(n.Left)
	if err != nil {
		return nil, err
	}
	rightEval, err := compileNode(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Token {
	case "and":
		return func(decision map[string]any, functions map[string]Fn) (any, error) {
			l, err := leftEval(decision, functions)
			if err != nil {
				return nil, err
			}
			if !truthy(l) {
				return false, nil
			}
			r, err := rightEval(decision, functions)
			if err != nil {
				return nil, err
			}
			return truthy(r), nil
		}, nil
	case "or":
		return func(decision map[string]any, functions map[string]Fn) (any, error) {
			l, err := leftEval(decision, functions)
			if err != nil {
				return nil, err
			}
			if truthy(l) {
				return true, nil
			}
			r, err := rightEval(decision, functions)
			if err != nil {
				return nil, err
			}
			return truthy(r), nil
		}, nil
	}

	fn := n.Fn
	if fn == nil {
		return nil, errs.RuleEvaluationError("binary operator has no implementation", errs.WithField(n.Token))
	}
	return func(decision map[string]any, functions map[string]Fn) (any, error) {
		l, err := leftEval(decision, functions)
		if err != nil {
			return nil, err
		}
		r, err := rightEval(decision, functions)
		if err != nil {
			return nil, err
		}
		return fn(l, r)
	}, nil
}

func compileFunctionCall(n *rulelang.FunctionCall) (Eval, error) {
	argEvals := make([]Eval, len(n.Args))
	for i, arg := range n.Args {
		e, err := compileNode(arg)
		if err != nil {
			return nil, err
		}
		argEvals[i] = e
	}
	name := n.Name
	return func(decision map[string]any, functions map[string]Fn) (any, error) {
		fn, ok := functions[name]
		if !ok {
			return nil, errs.RuleEvaluationError("function not found", errs.WithField(name))
		}
		args := make([]any, len(argEvals))
		for i, e := range argEvals {
			v, err := e(decision, functions)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return fn(args...)
	}, nil
}

// truthy mirrors the language's notion of a truthy raw evaluator result:
// non-zero numbers, non-empty strings and lists, and true.
func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	case int64:
		return val != 0
	case int:
		return val != 0
	case float64:
		return val != 0
	case []any:
		return len(val) > 0
	case nil:
		return false
	default:
		return true
	}
}
