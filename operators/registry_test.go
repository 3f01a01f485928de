package operators_test

import (
	"testing"

	"github.com/matryer/is"

	"github.com/ezachrisen/amino/operators"
)

func TestRegisterAndLookupExactMatch(t *testing.T) {
	is := is.New(t)
	reg := operators.NewRegistry()
	is.NoErr(reg.Register(operators.Def{
		Token: "+", BindingPower: 40, Fixity: operators.Infix, Associativity: operators.Left,
		InputTypes: []string{"Int", "Int"}, ReturnType: "Int",
	}))
	def, ok := reg.LookupByTypes("+", []string{"Int", "Int"})
	is.True(ok)
	is.Equal(def.ReturnType, "Int")
}

func TestLookupFallsBackToWildcard(t *testing.T) {
	is := is.New(t)
	reg := operators.NewRegistry()
	is.NoErr(reg.Register(operators.Def{
		Token: "=", BindingPower: 40, Fixity: operators.Infix, Associativity: operators.Left,
		InputTypes: []string{operators.Wildcard, operators.Wildcard}, ReturnType: "Bool",
	}))
	def, ok := reg.LookupByTypes("=", []string{"Str", "Int"})
	is.True(ok)
	is.Equal(def.ReturnType, "Bool")
}

func TestExactMatchTakesPrecedenceOverWildcard(t *testing.T) {
	is := is.New(t)
	reg := operators.NewRegistry()
	is.NoErr(reg.Register(operators.Def{
		Token: "=", BindingPower: 40, Fixity: operators.Infix, Associativity: operators.Left,
		InputTypes: []string{operators.Wildcard, operators.Wildcard}, ReturnType: "Bool",
	}))
	is.NoErr(reg.Register(operators.Def{
		Token: "=", BindingPower: 40, Fixity: operators.Infix, Associativity: operators.Left,
		InputTypes: []string{"Int", "Int"}, ReturnType: "Bool",
		Fn: func(args ...any) (any, error) { return true, nil },
	}))
	def, ok := reg.LookupByTypes("=", []string{"Int", "Int"})
	is.True(ok)
	is.True(def.Fn != nil)
}

func TestRegisterRejectsDuplicateExactTuple(t *testing.T) {
	is := is.New(t)
	reg := operators.NewRegistry()
	def := operators.Def{
		Token: "=", BindingPower: 40, Fixity: operators.Infix, Associativity: operators.Left,
		InputTypes: []string{"Int", "Int"}, ReturnType: "Bool",
	}
	is.NoErr(reg.Register(def))
	err := reg.Register(def)
	is.True(err != nil)
}

func TestRegisterRejectsBindingPowerDisagreement(t *testing.T) {
	is := is.New(t)
	reg := operators.NewRegistry()
	is.NoErr(reg.Register(operators.Def{
		Token: "=", BindingPower: 40, Fixity: operators.Infix, Associativity: operators.Left,
		InputTypes: []string{"Int", "Int"}, ReturnType: "Bool",
	}))
	err := reg.Register(operators.Def{
		Token: "=", BindingPower: 50, Fixity: operators.Infix, Associativity: operators.Left,
		InputTypes: []string{"Str", "Str"}, ReturnType: "Bool",
	})
	is.True(err != nil)
}

func TestGetBindingPowerSharedAcrossTuples(t *testing.T) {
	is := is.New(t)
	reg := operators.NewRegistry()
	is.NoErr(reg.Register(operators.Def{
		Token: "=", BindingPower: 40, Fixity: operators.Infix, Associativity: operators.Left,
		InputTypes: []string{"Int", "Int"}, ReturnType: "Bool",
	}))
	is.NoErr(reg.Register(operators.Def{
		Token: "=", BindingPower: 40, Fixity: operators.Infix, Associativity: operators.Left,
		InputTypes: []string{"Str", "Str"}, ReturnType: "Bool",
	}))
	bp, ok := reg.GetBindingPower("=")
	is.True(ok)
	is.Equal(bp, 40)
}

func TestSymbolsAndKeywordsClassified(t *testing.T) {
	is := is.New(t)
	reg, err := operators.BuildRegistry("standard")
	is.NoErr(err)
	is.True(reg.IsKeyword("and"))
	is.True(reg.IsKeyword("or"))
	is.True(reg.IsKeyword("not"))
	is.True(reg.IsSymbol("="))
	is.True(reg.IsSymbol(">="))
}

func TestBuildRegistryMinimalHasIrreducibleMinimum(t *testing.T) {
	is := is.New(t)
	reg, err := operators.BuildRegistry("minimal")
	is.NoErr(err)
	_, ok := reg.GetBindingPower("and")
	is.True(ok)
	_, ok = reg.GetBindingPower("or")
	is.True(ok)
	_, ok = reg.GetBindingPower("not")
	is.True(ok)
	_, ok = reg.GetBindingPower("contains")
	is.True(!ok)
}

func TestBuildRegistryStandardIncludesContains(t *testing.T) {
	is := is.New(t)
	reg, err := operators.BuildRegistry("standard")
	is.NoErr(err)
	_, ok := reg.GetBindingPower("contains")
	is.True(ok)
}

func TestBuildRegistryExplicitListUnionsMinimum(t *testing.T) {
	is := is.New(t)
	reg, err := operators.BuildRegistry([]string{"contains"})
	is.NoErr(err)
	_, ok := reg.GetBindingPower("contains")
	is.True(ok)
	_, ok = reg.GetBindingPower("and")
	is.True(ok)
	_, ok = reg.GetBindingPower(">=")
	is.True(!ok)
}

func TestBuildRegistryUnknownPresetErrors(t *testing.T) {
	is := is.New(t)
	_, err := operators.BuildRegistry("bogus")
	is.True(err != nil)
}

func TestBindingPowerOrdering(t *testing.T) {
	is := is.New(t)
	reg, err := operators.BuildRegistry("standard")
	is.NoErr(err)
	orBP, _ := reg.GetBindingPower("or")
	andBP, _ := reg.GetBindingPower("and")
	notBP, _ := reg.GetBindingPower("not")
	eqBP, _ := reg.GetBindingPower("=")
	is.True(orBP < andBP)
	is.True(andBP < notBP)
	is.True(notBP < eqBP)
}
