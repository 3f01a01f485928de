package amino

import (
	"fmt"
	"regexp"

	"github.com/pkg/errors"

	"github.com/ezachrisen/amino/errs"
	"github.com/ezachrisen/amino/schema"
	"github.com/ezachrisen/amino/types"
)

// DecisionMode governs how the decision validator reacts to a schema
// violation: Strict raises on the first violation, Loose collects every
// violation as a warning and drops the offending field from the cleaned
// map.
type DecisionMode string

const (
	DecisionStrict DecisionMode = "strict"
	DecisionLoose  DecisionMode = "loose"
)

// decisionValidator checks an incoming record against a schema registry,
// field by field, applying base-type checks, custom-type validators, and
// the constraint table from the schema language.
type decisionValidator struct {
	schema *schema.Registry
	types  *types.Registry
	mode   DecisionMode
}

func newDecisionValidator(reg *schema.Registry, typeReg *types.Registry, mode DecisionMode) *decisionValidator {
	return &decisionValidator{schema: reg, types: typeReg, mode: mode}
}

// validate checks decision against every top-level schema field
// (recursing into struct-typed fields), returning a cleaned copy with
// invalid fields removed (loose mode) and a list of warnings. In strict
// mode it returns on the first violation as a DecisionValidationError.
func (v *decisionValidator) validate(decision map[string]any) (map[string]any, []string, error) {
	cleaned := map[string]any{}
	var warnings []string

	for _, f := range v.schema.AST().Fields {
		value, present := decision[f.Name]
		ok, msg, err := v.validateField(f, value, present)
		if err != nil {
			return nil, nil, err
		}
		if msg != "" {
			warnings = append(warnings, msg)
			continue
		}
		if ok {
			cleaned[f.Name] = value
		}
	}

	schemaFields := map[string]bool{}
	for _, f := range v.schema.AST().Fields {
		schemaFields[f.Name] = true
	}
	for k, val := range decision {
		if _, already := cleaned[k]; already {
			continue
		}
		if !schemaFields[k] {
			cleaned[k] = val
		}
	}

	return cleaned, warnings, nil
}

// validateField checks one field's value. It returns (true, "", nil) if
// the field belongs in the cleaned map, (false, warning, nil) if it was
// dropped in loose mode, or a non-nil error in strict mode.
func (v *decisionValidator) validateField(f schema.FieldDefinition, value any, present bool) (bool, string, error) {
	if !present || value == nil {
		if f.Optional {
			return false, "", nil
		}
		msg := fmt.Sprintf("required field %q is missing", f.Name)
		if present {
			msg = fmt.Sprintf("field %q expected %s, got null", f.Name, f.Type.Name())
		}
		if v.mode == DecisionStrict {
			return false, "", errs.DecisionValidationError(msg, errs.WithField(f.Name))
		}
		return false, msg, nil
	}

	if err := v.checkType(f, value); err != "" {
		msg := fmt.Sprintf("field %q %s", f.Name, err)
		if v.mode == DecisionStrict {
			return false, "", errs.DecisionValidationError(msg, errs.WithField(f.Name), errs.WithExpected(f.Type.Name()))
		}
		return false, msg, nil
	}

	if len(f.Constraints) > 0 {
		if violation, cause := checkConstraints(f.Constraints, value, v.types); violation != "" {
			msg := fmt.Sprintf("field %q constraint violation: %s", f.Name, violation)
			if v.mode == DecisionStrict {
				opts := []errs.Option{errs.WithField(f.Name)}
				if cause != nil {
					opts = append(opts, errs.WithCause(cause))
				}
				return false, "", errs.DecisionValidationError(msg, opts...)
			}
			return false, msg, nil
		}
	}

	return true, "", nil
}

// checkType returns "" if value satisfies f's declared type, otherwise a
// human-readable mismatch description.
func (v *decisionValidator) checkType(f schema.FieldDefinition, value any) string {
	switch f.Type.Kind {
	case schema.KindInt:
		if _, ok := value.(int64); !ok {
			if _, isInt := value.(int); !isInt {
				return fmt.Sprintf("expected Int, got %T", value)
			}
		}
		return ""
	case schema.KindFloat:
		switch value.(type) {
		case float64, int64, int:
			return ""
		default:
			return fmt.Sprintf("expected Float, got %T", value)
		}
	case schema.KindStr:
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("expected Str, got %T", value)
		}
		return ""
	case schema.KindBool:
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("expected Bool, got %T", value)
		}
		return ""
	case schema.KindList:
		list, ok := value.([]any)
		if !ok {
			return fmt.Sprintf("expected List, got %T", value)
		}
		for i, elem := range list {
			if !elementSatisfiesUnion(f.Type.Elems, elem, v) {
				return fmt.Sprintf("element %d does not satisfy declared element type", i)
			}
		}
		return ""
	case schema.KindRef:
		if s, ok := v.schema.StructDefinition(f.Type.RefName); ok {
			nested, ok := value.(map[string]any)
			if !ok {
				return fmt.Sprintf("expected struct %s, got %T", f.Type.RefName, value)
			}
			for _, nf := range s.Fields {
				nval, present := nested[nf.Name]
				ok, msg, err := v.validateField(nf, nval, present)
				if err != nil {
					if e, isErr := err.(*errs.Error); isErr {
						return e.Message
					}
					return err.Error()
				}
				if !ok && msg != "" {
					return msg
				}
			}
			return ""
		}
		if v.types != nil && v.types.HasType(f.Type.RefName) {
			if !v.types.Validate(f.Type.RefName, value) {
				return fmt.Sprintf("value does not satisfy custom type %s", f.Type.RefName)
			}
			return ""
		}
		return fmt.Sprintf("unresolved type %s", f.Type.RefName)
	default:
		return ""
	}
}

// elementSatisfiesUnion reports whether elem matches any type in a
// List[T|U] union.
func elementSatisfiesUnion(union []schema.Type, elem any, v *decisionValidator) bool {
	for _, t := range union {
		f := schema.FieldDefinition{Name: "<element>", Type: t}
		if v.checkType(f, elem) == "" {
			return true
		}
	}
	return len(union) == 0
}

// checkConstraints applies the schema-language constraint table. typeReg
// resolves the "format" constraint: its value names a registered type
// (built-in or caller-registered), validated through the same
// types.Registry.Validate path used for custom-typed fields, rather than a
// separate hard-coded table of format names.
//
// The returned cause is non-nil only for the "pattern" constraint, where a
// malformed regular expression is a configuration error in the schema
// itself rather than an ordinary value mismatch; it is wrapped with
// github.com/pkg/errors so the underlying regexp.Compile failure survives
// as the violation's cause chain instead of being discarded.
func checkConstraints(constraints map[string]any, value any, typeReg *types.Registry) (string, error) {
	for key, cv := range constraints {
		switch key {
		case "format":
			if name, ok := cv.(string); ok {
				if typeReg == nil || !typeReg.HasType(name) {
					return fmt.Sprintf("unknown format %q", name), nil
				}
				if !typeReg.Validate(name, value) {
					return fmt.Sprintf("value does not satisfy format %q", name), nil
				}
			}
		case "min":
			if n, ok := asFloat(value); ok {
				if bound, ok := asFloat(cv); ok && n < bound {
					return fmt.Sprintf("value %v below min %v", value, cv), nil
				}
			}
		case "max":
			if n, ok := asFloat(value); ok {
				if bound, ok := asFloat(cv); ok && n > bound {
					return fmt.Sprintf("value %v above max %v", value, cv), nil
				}
			}
		case "exclusiveMin":
			if n, ok := asFloat(value); ok {
				if bound, ok := asFloat(cv); ok && n <= bound {
					return fmt.Sprintf("value %v not above exclusiveMin %v", value, cv), nil
				}
			}
		case "exclusiveMax":
			if n, ok := asFloat(value); ok {
				if bound, ok := asFloat(cv); ok && n >= bound {
					return fmt.Sprintf("value %v not below exclusiveMax %v", value, cv), nil
				}
			}
		case "minLength":
			if s, ok := value.(string); ok {
				if bound, ok := asFloat(cv); ok && float64(len([]rune(s))) < bound {
					return fmt.Sprintf("length %d below minLength %v", len([]rune(s)), cv), nil
				}
			}
		case "maxLength":
			if s, ok := value.(string); ok {
				if bound, ok := asFloat(cv); ok && float64(len([]rune(s))) > bound {
					return fmt.Sprintf("length %d above maxLength %v", len([]rune(s)), cv), nil
				}
			}
		case "exactLength":
			if s, ok := value.(string); ok {
				if bound, ok := asFloat(cv); ok && float64(len([]rune(s))) != bound {
					return fmt.Sprintf("length must be %v", cv), nil
				}
			}
		case "pattern":
			if s, ok := value.(string); ok {
				if pat, ok := cv.(string); ok {
					re, err := regexp.Compile(pat)
					if err != nil {
						cause := errors.Wrapf(err, "pattern constraint %q", pat)
						return fmt.Sprintf("invalid pattern %q: %v", pat, err), cause
					}
					if !re.MatchString(s) {
						return fmt.Sprintf("value does not match pattern %q", pat), nil
					}
				}
			}
		case "oneOf":
			if list, ok := cv.([]any); ok && !elementOf(value, list) {
				return fmt.Sprintf("value %v not in %v", value, cv), nil
			}
		case "const":
			if !valuesEqual(value, cv) {
				return fmt.Sprintf("value must equal %v", cv), nil
			}
		case "minItems":
			if list, ok := value.([]any); ok {
				if bound, ok := asFloat(cv); ok && float64(len(list)) < bound {
					return fmt.Sprintf("list length %d below minItems %v", len(list), cv), nil
				}
			}
		case "maxItems":
			if list, ok := value.([]any); ok {
				if bound, ok := asFloat(cv); ok && float64(len(list)) > bound {
					return fmt.Sprintf("list length %d above maxItems %v", len(list), cv), nil
				}
			}
		case "exactItems":
			if list, ok := value.([]any); ok {
				if bound, ok := asFloat(cv); ok && float64(len(list)) != bound {
					return fmt.Sprintf("list length must be %v", cv), nil
				}
			}
		case "unique":
			want, _ := cv.(bool)
			if want {
				if list, ok := value.([]any); ok && !allUnique(list) {
					return "list elements must be unique", nil
				}
			}
		}
	}
	return "", nil
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

func elementOf(v any, list []any) bool {
	for _, item := range list {
		if valuesEqual(v, item) {
			return true
		}
	}
	return false
}

func valuesEqual(a, b any) bool {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
	}
	return a == b
}

func allUnique(list []any) bool {
	for i := range list {
		for j := i + 1; j < len(list); j++ {
			if valuesEqual(list[i], list[j]) {
				return false
			}
		}
	}
	return true
}
