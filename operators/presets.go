package operators

import (
	"strings"

	"github.com/ezachrisen/amino/errs"
)

// always names the irreducible minimum present in every preset: and, or,
// not are the keyword operators; parentheses, identifiers, literals, and
// function-call syntax are parser-level constructs with no operator
// registration of their own.
var always = map[string]bool{"or": true, "and": true, "not": true}

func binaryFn(f func(l, r any) bool) Fn {
	return func(args ...any) (any, error) {
		return f(args[0], args[1]), nil
	}
}

func allDefs() []Def {
	return []Def{
		{Token: "or", BindingPower: 10, Fixity: Infix, Associativity: Left,
			InputTypes: []string{"Bool", "Bool"}, ReturnType: "Bool"},
		{Token: "and", BindingPower: 20, Fixity: Infix, Associativity: Left,
			InputTypes: []string{"Bool", "Bool"}, ReturnType: "Bool"},
		{Token: "not", BindingPower: 30, Fixity: Prefix, Associativity: Left,
			InputTypes: []string{"Bool"}, ReturnType: "Bool"},
		{Token: "in", BindingPower: 40, Fixity: Infix, Associativity: Left,
			InputTypes: []string{Wildcard, "List"}, ReturnType: "Bool",
			Fn: func(args ...any) (any, error) { return elementOf(args[0], args[1]), nil }},
		{Token: "not in", BindingPower: 40, Fixity: Infix, Associativity: Left,
			InputTypes: []string{Wildcard, "List"}, ReturnType: "Bool",
			Fn: func(args ...any) (any, error) { return !elementOf(args[0], args[1]), nil }},
		{Token: "=", BindingPower: 40, Fixity: Infix, Associativity: Left,
			InputTypes: []string{Wildcard, Wildcard}, ReturnType: "Bool", Fn: binaryFn(equalValues)},
		{Token: "!=", BindingPower: 40, Fixity: Infix, Associativity: Left,
			InputTypes: []string{Wildcard, Wildcard}, ReturnType: "Bool",
			Fn: binaryFn(func(l, r any) bool { return !equalValues(l, r) })},
		{Token: ">", BindingPower: 40, Fixity: Infix, Associativity: Left,
			InputTypes: []string{Wildcard, Wildcard}, ReturnType: "Bool",
			Fn: numericCompare(func(a, b float64) bool { return a > b })},
		{Token: "<", BindingPower: 40, Fixity: Infix, Associativity: Left,
			InputTypes: []string{Wildcard, Wildcard}, ReturnType: "Bool",
			Fn: numericCompare(func(a, b float64) bool { return a < b })},
		{Token: ">=", BindingPower: 40, Fixity: Infix, Associativity: Left,
			InputTypes: []string{Wildcard, Wildcard}, ReturnType: "Bool",
			Fn: numericCompare(func(a, b float64) bool { return a >= b })},
		{Token: "<=", BindingPower: 40, Fixity: Infix, Associativity: Left,
			InputTypes: []string{Wildcard, Wildcard}, ReturnType: "Bool",
			Fn: numericCompare(func(a, b float64) bool { return a <= b })},
		// contains ships in the standard preset only: original_source's
		// standard.py registers it alongside the comparison operators with
		// no separate opt-in, and nothing about string containment makes
		// it essential to a minimal rule language.
		{Token: "contains", BindingPower: 40, Fixity: Infix, Associativity: Left,
			InputTypes: []string{"Str", "Str"}, ReturnType: "Bool",
			Fn: binaryFn(func(l, r any) bool {
				ls, lok := l.(string)
				rs, rok := r.(string)
				return lok && rok && strings.Contains(ls, rs)
			})},
	}
}

// BuildRegistry constructs an operator registry from a preset name
// ("standard", "minimal") or an explicit list of token names (always
// unioned with the irreducible minimum).
func BuildRegistry(preset any) (*Registry, error) {
	defs := allDefs()
	var enabled []Def

	switch p := preset.(type) {
	case string:
		switch p {
		case "standard":
			enabled = defs
		case "minimal":
			for _, d := range defs {
				if always[d.Token] {
					enabled = append(enabled, d)
				}
			}
		default:
			return nil, errs.SchemaValidationError("unknown operator preset", errs.WithGot(p))
		}
	case []string:
		want := map[string]bool{}
		for _, t := range p {
			want[t] = true
		}
		for _, d := range defs {
			if always[d.Token] || want[d.Token] {
				enabled = append(enabled, d)
			}
		}
	default:
		return nil, errs.SchemaValidationError("unknown operator preset type")
	}

	reg := NewRegistry()
	for _, d := range enabled {
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func elementOf(needle, haystack any) bool {
	list, ok := haystack.([]any)
	if !ok {
		return false
	}
	for _, item := range list {
		if equalValues(needle, item) {
			return true
		}
	}
	return false
}

func equalValues(a, b any) bool {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

func numericCompare(cmp func(a, b float64) bool) Fn {
	return func(args ...any) (any, error) {
		af, aok := asFloat(args[0])
		bf, bok := asFloat(args[1])
		if !aok || !bok {
			return false, nil
		}
		return cmp(af, bf), nil
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
