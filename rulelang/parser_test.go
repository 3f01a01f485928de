package rulelang_test

import (
	"testing"

	"github.com/matryer/is"

	"github.com/ezachrisen/amino/operators"
	"github.com/ezachrisen/amino/rulelang"
	"github.com/ezachrisen/amino/schema"
)

func newSchemaRegistry(t *testing.T, text string) *schema.Registry {
	t.Helper()
	ast, err := schema.Parse(text)
	if err != nil {
		t.Fatalf("schema.Parse() error = %v", err)
	}
	reg, err := schema.NewRegistry(ast, nil)
	if err != nil {
		t.Fatalf("schema.NewRegistry() error = %v", err)
	}
	return reg
}

func standardOps(t *testing.T) *operators.Registry {
	t.Helper()
	reg, err := operators.BuildRegistry("standard")
	if err != nil {
		t.Fatalf("BuildRegistry() error = %v", err)
	}
	return reg
}

func TestParseSimpleComparison(t *testing.T) {
	is := is.New(t)
	sreg := newSchemaRegistry(t, "credit_score: Int\n")
	ast, _, err := rulelang.Parse("credit_score < 600", sreg, standardOps(t), rulelang.Strict)
	is.NoErr(err)
	is.Equal(ast.ReturnType, "Bool")
	bin, ok := ast.Root.(*rulelang.BinaryOp)
	is.True(ok)
	is.Equal(bin.Token, "<")
}

func TestFloatBeforeInteger(t *testing.T) {
	is := is.New(t)
	sreg := newSchemaRegistry(t, "x: Float\n")
	ast, _, err := rulelang.Parse("x = 600.0", sreg, standardOps(t), rulelang.Strict)
	is.NoErr(err)
	bin := ast.Root.(*rulelang.BinaryOp)
	lit := bin.Right.(*rulelang.Literal)
	is.Equal(lit.Type, "Float")

	ast2, _, err := rulelang.Parse("x = 600", sreg, standardOps(t), rulelang.Strict)
	is.NoErr(err)
	bin2 := ast2.Root.(*rulelang.BinaryOp)
	lit2 := bin2.Right.(*rulelang.Literal)
	is.Equal(lit2.Type, "Int")
}

func TestPrecedenceOrAndComparison(t *testing.T) {
	is := is.New(t)
	sreg := newSchemaRegistry(t, "a: Bool\nb: Bool\nc: Int\nd: Int\n")
	ast, _, err := rulelang.Parse("a or b and c = d", sreg, standardOps(t), rulelang.Strict)
	is.NoErr(err)

	// Expect: a or (b and (c = d))
	root := ast.Root.(*rulelang.BinaryOp)
	is.Equal(root.Token, "or")
	_, leftIsVar := root.Left.(*rulelang.Variable)
	is.True(leftIsVar)

	rightAnd := root.Right.(*rulelang.BinaryOp)
	is.Equal(rightAnd.Token, "and")
	_, midIsVar := rightAnd.Left.(*rulelang.Variable)
	is.True(midIsVar)

	innerEq := rightAnd.Right.(*rulelang.BinaryOp)
	is.Equal(innerEq.Token, "=")
}

func TestDottedVariableResolvesTerminalType(t *testing.T) {
	is := is.New(t)
	sreg := newSchemaRegistry(t, "struct Addr { city: Str }\naddr: Addr\n")
	ast, _, err := rulelang.Parse("addr.city = 'SF'", sreg, standardOps(t), rulelang.Strict)
	is.NoErr(err)
	bin := ast.Root.(*rulelang.BinaryOp)
	v := bin.Left.(*rulelang.Variable)
	is.Equal(v.DottedName, "addr.city")
	is.Equal(v.Type, "Str")
}

func TestUnknownFieldIsRuleParseError(t *testing.T) {
	is := is.New(t)
	sreg := newSchemaRegistry(t, "score: Int\n")
	_, _, err := rulelang.Parse("nonexistent > 1", sreg, standardOps(t), rulelang.Strict)
	is.True(err != nil)
}

func TestNotInOperator(t *testing.T) {
	is := is.New(t)
	sreg := newSchemaRegistry(t, "state_code: Str\n")
	ast, _, err := rulelang.Parse("state_code not in ['CA', 'NY']", sreg, standardOps(t), rulelang.Strict)
	is.NoErr(err)
	bin := ast.Root.(*rulelang.BinaryOp)
	is.Equal(bin.Token, "not in")
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	is := is.New(t)
	sreg := newSchemaRegistry(t, "a: Bool\nb: Bool\nc: Bool\n")
	ast, _, err := rulelang.Parse("(a or b) and c", sreg, standardOps(t), rulelang.Strict)
	is.NoErr(err)
	root := ast.Root.(*rulelang.BinaryOp)
	is.Equal(root.Token, "and")
	_, leftIsOr := root.Left.(*rulelang.BinaryOp)
	is.True(leftIsOr)
}

func TestFunctionCallUnknownCalleeIsAny(t *testing.T) {
	is := is.New(t)
	sreg := newSchemaRegistry(t, "score: Int\n")
	ast, _, err := rulelang.Parse("mystery(score)", sreg, standardOps(t), rulelang.Strict)
	is.NoErr(err)
	is.Equal(ast.ReturnType, "Any")
}

func TestFunctionCallDeclaredReturnType(t *testing.T) {
	is := is.New(t)
	sreg := newSchemaRegistry(t, "day: Str\nis_weekend: (d: Str) -> Bool\n")
	ast, _, err := rulelang.Parse("is_weekend(day)", sreg, standardOps(t), rulelang.Strict)
	is.NoErr(err)
	is.Equal(ast.ReturnType, "Bool")
}

func TestStrictModeRaisesOnTypeMismatch(t *testing.T) {
	is := is.New(t)
	sreg := newSchemaRegistry(t, "a: Bool\nb: Int\n")
	_, _, err := rulelang.Parse("a and b", sreg, standardOps(t), rulelang.Strict)
	is.True(err != nil)
}

func TestLooseModeWarnsInsteadOfRaising(t *testing.T) {
	is := is.New(t)
	sreg := newSchemaRegistry(t, "a: Bool\nb: Int\n")
	ast, warnings, err := rulelang.Parse("a and b", sreg, standardOps(t), rulelang.Loose)
	is.NoErr(err)
	is.Equal(ast.ReturnType, "Any")
	is.True(len(warnings) > 0)
}

func TestWhitespaceInvariantTokenization(t *testing.T) {
	is := is.New(t)
	sreg := newSchemaRegistry(t, "score: Int\n")
	ops := standardOps(t)
	a, _, err := rulelang.Parse("score<600", sreg, ops, rulelang.Strict)
	is.NoErr(err)
	b, _, err := rulelang.Parse("  score   <   600  ", sreg, ops, rulelang.Strict)
	is.NoErr(err)
	is.Equal(a.ReturnType, b.ReturnType)

	binA := a.Root.(*rulelang.BinaryOp)
	binB := b.Root.(*rulelang.BinaryOp)
	is.Equal(binA.Token, binB.Token)
}

func TestListLiteral(t *testing.T) {
	is := is.New(t)
	sreg := newSchemaRegistry(t, "state_code: Str\n")
	ast, _, err := rulelang.Parse("state_code in ['CA', 'NY', 'TX']", sreg, standardOps(t), rulelang.Strict)
	is.NoErr(err)
	bin := ast.Root.(*rulelang.BinaryOp)
	list := bin.Right.(*rulelang.ListLiteral)
	is.Equal(len(list.Items), 3)
}
