package amino_test

import (
	"testing"

	"github.com/matryer/is"

	"github.com/ezachrisen/amino"
)

func TestEvalSimpleDecline(t *testing.T) {
	is := is.New(t)
	e, err := amino.NewEngine("credit_score: Int\n")
	is.NoErr(err)
	result, err := e.Eval(
		[]amino.RuleDefinition{{ID: "r", Rule: "credit_score < 600"}},
		map[string]any{"credit_score": int64(580)},
		amino.MatchConfig{},
	)
	is.NoErr(err)
	is.Equal(result.Matched, []string{"r"})
}

func TestEvalFirstMatchByOrdering(t *testing.T) {
	is := is.New(t)
	e, err := amino.NewEngine("score: Int\n")
	is.NoErr(err)
	rules := []amino.RuleDefinition{
		{ID: "a", Rule: "score > 0", Metadata: map[string]any{"ordering": int64(3)}},
		{ID: "b", Rule: "score > 0", Metadata: map[string]any{"ordering": int64(1)}},
		{ID: "c", Rule: "score > 0", Metadata: map[string]any{"ordering": int64(2)}},
	}
	result, err := e.Eval(rules, map[string]any{"score": int64(10)},
		amino.MatchConfig{Mode: amino.MatchFirst, Key: "ordering", Order: amino.Ascending})
	is.NoErr(err)
	is.Equal(result.Matched, []string{"b"})
}

func TestEvalScoreAggregation(t *testing.T) {
	is := is.New(t)
	e, err := amino.NewEngine("signal_a: Bool\nsignal_b: Bool\nsignal_c: Int\n")
	is.NoErr(err)
	rules := []amino.RuleDefinition{
		{ID: "s1", Rule: "signal_a = true"},
		{ID: "s2", Rule: "signal_b = true"},
		{ID: "s3", Rule: "signal_c > 50"},
	}
	result, err := e.Eval(rules, map[string]any{
		"signal_a": true, "signal_b": false, "signal_c": int64(100),
	}, amino.MatchConfig{Mode: amino.MatchScore})
	is.NoErr(err)
	is.True(result.Score != nil)
	is.Equal(*result.Score, 2.0)
}

func TestEvalInverseEligibility(t *testing.T) {
	is := is.New(t)
	e, err := amino.NewEngine("state_code: Str\ncredit_score: Int\n")
	is.NoErr(err)
	rules := []amino.RuleDefinition{
		{ID: "eligible_state", Rule: "state_code not in ['CA', 'NY']"},
		{ID: "eligible_credit", Rule: "credit_score >= 600"},
	}
	result, err := e.Eval(rules, map[string]any{
		"state_code": "TX", "credit_score": int64(500),
	}, amino.MatchConfig{Mode: amino.MatchInverse})
	is.NoErr(err)
	is.Equal(result.Excluded, []string{"eligible_credit"})
}

func TestEvalStructDotNotation(t *testing.T) {
	is := is.New(t)
	e, err := amino.NewEngine("struct Addr { city: Str }\naddr: Addr\n")
	is.NoErr(err)
	result, err := e.Eval(
		[]amino.RuleDefinition{{ID: "r", Rule: "addr.city = 'SF'"}},
		map[string]any{"addr": map[string]any{"city": "SF"}},
		amino.MatchConfig{},
	)
	is.NoErr(err)
	is.Equal(len(result.Matched), 1)
}

func TestEvalLooseDecisionsModeWarnsNeverRaises(t *testing.T) {
	is := is.New(t)
	e, err := amino.NewEngine("score: Int\n", amino.WithDecisionsMode(amino.DecisionLoose))
	is.NoErr(err)
	result, err := e.Eval(
		[]amino.RuleDefinition{{ID: "r", Rule: "score > 0"}},
		map[string]any{"score": "bad"},
		amino.MatchConfig{},
	)
	is.NoErr(err)
	is.Equal(result.Matched, []string(nil))
	is.True(len(result.Warnings) > 0)
	found := false
	for _, w := range result.Warnings {
		if containsSubstring(w, "score") {
			found = true
		}
	}
	is.True(found)
}

func TestEvalStrictDecisionsModeRaises(t *testing.T) {
	is := is.New(t)
	e, err := amino.NewEngine("score: Int\n", amino.WithDecisionsMode(amino.DecisionStrict))
	is.NoErr(err)
	_, err = e.Eval(
		[]amino.RuleDefinition{{ID: "r", Rule: "score > 0"}},
		map[string]any{"score": "bad"},
		amino.MatchConfig{},
	)
	is.True(err != nil)
}

func TestDecisionRequiredFieldMissingStrictRaises(t *testing.T) {
	is := is.New(t)
	e, err := amino.NewEngine("score: Int\n", amino.WithDecisionsMode(amino.DecisionStrict))
	is.NoErr(err)
	_, err = e.Eval(
		[]amino.RuleDefinition{{ID: "r", Rule: "score > 0"}},
		map[string]any{},
		amino.MatchConfig{},
	)
	is.True(err != nil)
}

func TestDecisionRequiredFieldMissingLooseWarns(t *testing.T) {
	is := is.New(t)
	e, err := amino.NewEngine("score: Int\n", amino.WithDecisionsMode(amino.DecisionLoose))
	is.NoErr(err)
	result, err := e.Eval(
		[]amino.RuleDefinition{{ID: "r", Rule: "score > 0"}},
		map[string]any{},
		amino.MatchConfig{},
	)
	is.NoErr(err)
	is.True(len(result.Warnings) > 0)
}

func TestDecisionOptionalFieldMissingIsSilent(t *testing.T) {
	is := is.New(t)
	e, err := amino.NewEngine("nickname: Str?\nscore: Int\n")
	is.NoErr(err)
	result, err := e.Eval(
		[]amino.RuleDefinition{{ID: "r", Rule: "score > 0"}},
		map[string]any{"score": int64(5)},
		amino.MatchConfig{},
	)
	is.NoErr(err)
	is.Equal(len(result.Warnings), 0)
}

func TestDecisionExtraFieldsPassThrough(t *testing.T) {
	is := is.New(t)
	e, err := amino.NewEngine("score: Int\n")
	is.NoErr(err)
	set, err := e.Compile([]amino.RuleDefinition{{ID: "r", Rule: "score > 0"}}, amino.MatchConfig{})
	is.NoErr(err)
	result, err := set.EvalSingle(map[string]any{"score": int64(5), "extra": "kept"})
	is.NoErr(err)
	is.Equal(result.Matched, []string{"r"})
}

func TestDecisionConstraintMinMax(t *testing.T) {
	is := is.New(t)
	e, err := amino.NewEngine("score: Int {min: 0, max: 100}\n", amino.WithDecisionsMode(amino.DecisionStrict))
	is.NoErr(err)
	_, err = e.Eval(
		[]amino.RuleDefinition{{ID: "r", Rule: "score > 0"}},
		map[string]any{"score": int64(150)},
		amino.MatchConfig{},
	)
	is.True(err != nil)
}

func TestDecisionConstraintFormat(t *testing.T) {
	is := is.New(t)
	e, err := amino.NewEngine("email: Str {format: 'email'}\n", amino.WithDecisionsMode(amino.DecisionStrict))
	is.NoErr(err)
	_, err = e.Eval(
		[]amino.RuleDefinition{{ID: "r", Rule: "email != ''"}},
		map[string]any{"email": "not-an-email"},
		amino.MatchConfig{},
	)
	is.True(err != nil)

	result, err := e.Eval(
		[]amino.RuleDefinition{{ID: "r", Rule: "email != ''"}},
		map[string]any{"email": "a@b.com"},
		amino.MatchConfig{},
	)
	is.NoErr(err)
	is.Equal(result.Matched, []string{"r"})
}

func TestDecisionConstraintOneOf(t *testing.T) {
	is := is.New(t)
	e, err := amino.NewEngine("state_code: Str {oneOf: ['CA', 'NY', 'TX']}\n", amino.WithDecisionsMode(amino.DecisionStrict))
	is.NoErr(err)
	_, err = e.Eval(
		[]amino.RuleDefinition{{ID: "r", Rule: "state_code != ''"}},
		map[string]any{"state_code": "WA"},
		amino.MatchConfig{},
	)
	is.True(err != nil)
}

func TestDecisionConstraintInvalidPatternRaisesRatherThanPassing(t *testing.T) {
	is := is.New(t)
	e, err := amino.NewEngine("code: Str {pattern: '('}\n", amino.WithDecisionsMode(amino.DecisionStrict))
	is.NoErr(err)
	_, err = e.Eval(
		[]amino.RuleDefinition{{ID: "r", Rule: "code != ''"}},
		map[string]any{"code": "anything"},
		amino.MatchConfig{},
	)
	is.True(err != nil)
}

func TestDecisionConstraintInvalidPatternWarnsInLooseMode(t *testing.T) {
	is := is.New(t)
	e, err := amino.NewEngine("code: Str {pattern: '('}\n", amino.WithDecisionsMode(amino.DecisionLoose))
	is.NoErr(err)
	result, err := e.Eval(
		[]amino.RuleDefinition{{ID: "r", Rule: "code != ''"}},
		map[string]any{"code": "anything"},
		amino.MatchConfig{},
	)
	is.NoErr(err)
	is.Equal(len(result.Matched), 0)
	is.True(len(result.Warnings) > 0)
}

func containsSubstring(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
