// Package types implements the custom scalar type registry: named types
// layered over the four schema primitives, each with a deterministic,
// side-effect-free validator.
package types

import (
	"github.com/ezachrisen/amino/errs"
	"github.com/ezachrisen/amino/schema"
)

// Validator reports whether value satisfies a custom type. A validator
// that panics is treated as a validation failure, not a propagated error.
type Validator func(value any) bool

// Definition is a single registered custom type.
type Definition struct {
	Name      string
	Base      schema.Kind
	Validator Validator
}

var primitiveNames = map[schema.Kind]bool{
	schema.KindInt:   true,
	schema.KindFloat: true,
	schema.KindStr:   true,
	schema.KindBool:  true,
}

// Registry holds every custom type registered on an engine, plus the
// built-in set (ipv4, ipv6, cidr, email, uuid), all layered over Str.
type Registry struct {
	defs        map[string]Definition
	structNames map[string]bool
}

// NewRegistry returns a registry pre-loaded with the built-in type set.
// structNames, supplied by the caller once the schema is known, guards
// against a custom type name colliding with a declared struct.
func NewRegistry(structNames map[string]bool) *Registry {
	r := &Registry{
		defs:        map[string]Definition{},
		structNames: structNames,
	}
	registerBuiltins(r)
	return r
}

// RegisterType adds a custom type named name, layered over base, with the
// given validator. base must be one of the four schema primitives; name
// must not collide with a primitive, an already-registered custom type,
// or a struct name known to the registry.
func (r *Registry) RegisterType(name string, base schema.Kind, validator Validator) error {
	if !primitiveNames[base] {
		return errs.SchemaValidationError(
			"custom type base must be a primitive",
			errs.WithField(name), errs.WithExpected("Int, Float, Str, or Bool"), errs.WithGot(string(base)),
		)
	}
	if primitiveNames[schema.Kind(name)] {
		return errs.SchemaValidationError("custom type name collides with a primitive", errs.WithField(name))
	}
	if _, exists := r.defs[name]; exists {
		return errs.SchemaValidationError("custom type already registered", errs.WithField(name))
	}
	if r.structNames[name] {
		return errs.SchemaValidationError("custom type name collides with a declared struct", errs.WithField(name))
	}
	r.defs[name] = Definition{Name: name, Base: base, Validator: validator}
	return nil
}

// HasType reports whether name is a registered custom type. It satisfies
// schema.KnownTypeNamer.
func (r *Registry) HasType(name string) bool {
	_, ok := r.defs[name]
	return ok
}

// GetBase returns the primitive base of a custom type.
func (r *Registry) GetBase(name string) (schema.Kind, bool) {
	d, ok := r.defs[name]
	if !ok {
		return "", false
	}
	return d.Base, true
}

// Validate runs the named custom type's validator against value,
// recovering a validator panic as a validation failure. It reports false
// for an unknown type name.
func (r *Registry) Validate(name string, value any) bool {
	d, ok := r.defs[name]
	if !ok {
		return false
	}
	return safeCall(d.Validator, value)
}

func safeCall(v Validator, value any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return v(value)
}

// Names returns every registered custom type name.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	return names
}
