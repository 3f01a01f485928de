// Package operators implements the operator registry: token plus
// operand-type-tuple dispatch, shared binding power and fixity per
// token, and the standard/minimal/explicit-list presets the engine
// builds from.
package operators

import (
	"strings"

	"github.com/ezachrisen/amino/errs"
)

// Fixity is where an operator's token appears relative to its operands.
type Fixity string

const (
	Infix   Fixity = "infix"
	Prefix  Fixity = "prefix"
	Postfix Fixity = "postfix"
)

// Associativity controls how the Pratt parser re-invokes itself for the
// right operand of a binary operator.
type Associativity string

const (
	Left  Associativity = "left"
	Right Associativity = "right"
)

// Wildcard matches any single operand type in an InputTypes tuple.
const Wildcard = "*"

// Fn is an operator's implementing function, called with resolved operand
// values. Binary operators receive two values; prefix operators receive
// one in the first slot. and/or are never dispatched through Fn — the
// compiler short-circuits them directly.
type Fn func(args ...any) (any, error)

// Def is a single registered operator, keyed by (Token, InputTypes).
type Def struct {
	Token         string
	Fn            Fn
	BindingPower  int
	Fixity        Fixity
	Associativity Associativity
	InputTypes    []string
	ReturnType    string
}

// Registry holds every operator definition for one engine, indexed by
// token for Pratt-parser binding-power lookup and by (token, operand
// types) for dispatch.
type Registry struct {
	byToken  map[string][]Def
	symbols  map[string]bool
	keywords map[string]bool
}

// NewRegistry returns an empty operator registry.
func NewRegistry() *Registry {
	return &Registry{
		byToken:  map[string][]Def{},
		symbols:  map[string]bool{},
		keywords: map[string]bool{},
	}
}

// isSymbolToken reports whether token is made up entirely of symbol
// characters (as opposed to a bare keyword like "and" or "not in").
func isSymbolToken(token string) bool {
	for _, r := range token {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == ' ' {
			return false
		}
	}
	return true
}

// Register adds op to the registry. It fails with OperatorConflictError
// if an operator with the same Token and exact InputTypes tuple is
// already registered, or if op's BindingPower/Fixity disagrees with an
// existing definition for the same token (every definition sharing a
// token must share binding power and fixity).
func (r *Registry) Register(op Def) error {
	for _, existing := range r.byToken[op.Token] {
		if sameTypes(existing.InputTypes, op.InputTypes) {
			return errs.OperatorConflictError(
				"operator already registered for these input types",
				errs.WithField(op.Token), errs.WithGot(strings.Join(op.InputTypes, ",")),
			)
		}
		if existing.BindingPower != op.BindingPower || existing.Fixity != op.Fixity {
			return errs.OperatorConflictError(
				"operator binding power or fixity disagrees with existing registration",
				errs.WithField(op.Token),
			)
		}
	}
	r.byToken[op.Token] = append(r.byToken[op.Token], op)
	if isSymbolToken(op.Token) {
		r.symbols[op.Token] = true
	} else {
		r.keywords[op.Token] = true
	}
	return nil
}

func sameTypes(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// LookupByTypes returns the best-matching definition for token given the
// resolved operand types: an exact match first, then a wildcard match of
// matching arity, falling back to the sole definition for the token if
// there is exactly one and neither matched.
func (r *Registry) LookupByTypes(token string, inputTypes []string) (Def, bool) {
	candidates := r.byToken[token]
	for _, op := range candidates {
		if sameTypes(op.InputTypes, inputTypes) {
			return op, true
		}
	}
	for _, op := range candidates {
		if len(op.InputTypes) != len(inputTypes) {
			continue
		}
		match := true
		for i, e := range op.InputTypes {
			if e != Wildcard && e != inputTypes[i] {
				match = false
				break
			}
		}
		if match {
			return op, true
		}
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}
	return Def{}, false
}

// GetBindingPower returns the left binding power shared by every
// definition registered under token.
func (r *Registry) GetBindingPower(token string) (int, bool) {
	c := r.byToken[token]
	if len(c) == 0 {
		return 0, false
	}
	return c[0].BindingPower, true
}

// GetAssociativity returns the associativity shared by every definition
// registered under token.
func (r *Registry) GetAssociativity(token string) (Associativity, bool) {
	c := r.byToken[token]
	if len(c) == 0 {
		return "", false
	}
	return c[0].Associativity, true
}

// GetFixity returns the fixity shared by every definition registered
// under token.
func (r *Registry) GetFixity(token string) (Fixity, bool) {
	c := r.byToken[token]
	if len(c) == 0 {
		return "", false
	}
	return c[0].Fixity, true
}

// IsSymbol reports whether token was registered via a symbol (as opposed
// to a keyword).
func (r *Registry) IsSymbol(token string) bool { return r.symbols[token] }

// IsKeyword reports whether token was registered via a keyword.
func (r *Registry) IsKeyword(token string) bool { return r.keywords[token] }

// AllSymbols returns every registered symbol token, for the rule
// tokenizer's longest-match scan.
func (r *Registry) AllSymbols() []string {
	out := make([]string, 0, len(r.symbols))
	for s := range r.symbols {
		out = append(out, s)
	}
	return out
}

// AllKeywords returns every registered keyword token.
func (r *Registry) AllKeywords() []string {
	out := make([]string, 0, len(r.keywords))
	for k := range r.keywords {
		out = append(out, k)
	}
	return out
}
