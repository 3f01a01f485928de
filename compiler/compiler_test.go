package compiler_test

import (
	"testing"

	"github.com/matryer/is"

	"github.com/ezachrisen/amino/compiler"
	"github.com/ezachrisen/amino/operators"
	"github.com/ezachrisen/amino/rulelang"
	"github.com/ezachrisen/amino/schema"
)

func compileRule(t *testing.T, schemaText, rule string) *compiler.CompiledRule {
	t.Helper()
	ast, err := schema.Parse(schemaText)
	if err != nil {
		t.Fatalf("schema.Parse() error = %v", err)
	}
	sreg, err := schema.NewRegistry(ast, nil)
	if err != nil {
		t.Fatalf("schema.NewRegistry() error = %v", err)
	}
	ops, err := operators.BuildRegistry("standard")
	if err != nil {
		t.Fatalf("BuildRegistry() error = %v", err)
	}
	ruleAST, _, err := rulelang.Parse(rule, sreg, ops, rulelang.Strict)
	if err != nil {
		t.Fatalf("rulelang.Parse() error = %v", err)
	}
	cr, err := compiler.Compile("r", ruleAST)
	if err != nil {
		t.Fatalf("compiler.Compile() error = %v", err)
	}
	return cr
}

func TestCompileSimpleComparison(t *testing.T) {
	is := is.New(t)
	cr := compileRule(t, "credit_score: Int\n", "credit_score < 600")
	v, err := cr.Eval(map[string]any{"credit_score": int64(580)}, nil)
	is.NoErr(err)
	is.Equal(v, true)

	v, err = cr.Eval(map[string]any{"credit_score": int64(700)}, nil)
	is.NoErr(err)
	is.Equal(v, false)
}

func TestCompileAndShortCircuits(t *testing.T) {
	is := is.New(t)
	cr := compileRule(t, "a: Bool\nb: Bool\n", "a and b")
	v, err := cr.Eval(map[string]any{"a": false}, nil)
	is.NoErr(err)
	is.Equal(v, false)
}

func TestCompileOrShortCircuits(t *testing.T) {
	is := is.New(t)
	cr := compileRule(t, "a: Bool\nb: Bool\n", "a or b")
	v, err := cr.Eval(map[string]any{"a": true}, nil)
	is.NoErr(err)
	is.Equal(v, true)
}

func TestCompileNot(t *testing.T) {
	is := is.New(t)
	cr := compileRule(t, "a: Bool\n", "not a")
	v, err := cr.Eval(map[string]any{"a": false}, nil)
	is.NoErr(err)
	is.Equal(v, true)
}

func TestCompileMissingFieldIsRuleEvaluationError(t *testing.T) {
	is := is.New(t)
	cr := compileRule(t, "a: Bool\n", "a")
	_, err := cr.Eval(map[string]any{}, nil)
	is.True(err != nil)
}

func TestCompileDottedVariable(t *testing.T) {
	is := is.New(t)
	cr := compileRule(t, "struct Addr { city: Str }\naddr: Addr\n", "addr.city = 'SF'")
	v, err := cr.Eval(map[string]any{"addr": map[string]any{"city": "SF"}}, nil)
	is.NoErr(err)
	is.Equal(v, true)
}

func TestCompileFunctionCall(t *testing.T) {
	is := is.New(t)
	cr := compileRule(t, "day: Str\nis_weekend: (d: Str) -> Bool\n", "is_weekend(day)")
	fns := map[string]compiler.Fn{
		"is_weekend": func(args ...any) (any, error) {
			return args[0].(string) == "Saturday" || args[0].(string) == "Sunday", nil
		},
	}
	v, err := cr.Eval(map[string]any{"day": "Saturday"}, fns)
	is.NoErr(err)
	is.Equal(v, true)
}

func TestCompileFunctionCallMissingIsError(t *testing.T) {
	is := is.New(t)
	cr := compileRule(t, "day: Str\nis_weekend: (d: Str) -> Bool\n", "is_weekend(day)")
	_, err := cr.Eval(map[string]any{"day": "Monday"}, nil)
	is.True(err != nil)
}

func TestRepeatedEvalSameDecisionIsStable(t *testing.T) {
	is := is.New(t)
	cr := compileRule(t, "score: Int\n", "score > 10")
	decision := map[string]any{"score": int64(20)}
	v1, err := cr.Eval(decision, nil)
	is.NoErr(err)
	v2, err := cr.Eval(decision, nil)
	is.NoErr(err)
	is.Equal(v1, v2)
}
