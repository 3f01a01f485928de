package amino

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ezachrisen/amino/compiler"
)

// RuleDefinition is a single rule as supplied to Engine.Compile: its
// external id, its rule-language source text, and any caller-supplied
// metadata (consulted by MatchFirst's ordering key).
type RuleDefinition struct {
	ID       string
	Rule     string
	Metadata map[string]any
}

// CompiledRule pairs a compiled evaluator with the metadata supplied
// alongside its source rule.
type CompiledRule struct {
	ID         string
	ReturnType string
	Metadata   map[string]any
	eval       compiler.Eval
}

// String renders a compiled rule as a single-row table, in the style
// used throughout this package for human-inspectable summaries.
func (r *CompiledRule) String() string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Rule", "Return Type", "Metadata"})
	tw.AppendRow(table.Row{r.ID, r.ReturnType, fmt.Sprintf("%v", r.Metadata)})
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}

// CompiledRuleSet is an ordered collection of compiled rules sharing one
// match configuration, function map, and decision validator. It is
// produced by Engine.Compile and is read-only once built.
type CompiledRuleSet struct {
	rules     []*CompiledRule
	match     MatchConfig
	functions map[string]compiler.Fn
	validator *decisionValidator

	// Warnings collects any loose-mode rule-compilation warnings
	// accumulated while building this set, independent of the
	// per-decision warnings returned in a MatchResult.
	Warnings []string
}

// String renders every rule in the set as rows of one table, mirroring
// the summary tables used elsewhere in this package.
func (s *CompiledRuleSet) String() string {
	tw := table.NewWriter()
	tw.SetTitle("\nCOMPILED RULE SET\n")
	tw.AppendHeader(table.Row{"Rule", "Return Type", "Metadata"})
	for _, r := range s.rules {
		tw.AppendRow(table.Row{r.ID, r.ReturnType, fmt.Sprintf("%v", r.Metadata)})
	}
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}

// EvalSingle validates decision against the schema, runs every compiled
// rule in declared order, and aggregates the raw results per the set's
// match configuration.
func (s *CompiledRuleSet) EvalSingle(decision map[string]any) (MatchResult, error) {
	cleaned, warnings, err := s.validator.validate(decision)
	if err != nil {
		return MatchResult{}, err
	}

	outcomes := make([]ruleOutcome, 0, len(s.rules))
	for _, r := range s.rules {
		v, err := r.eval(cleaned, s.functions)
		if err != nil {
			// Any error escaping a rule's evaluator is demoted to false;
			// it never aborts evaluation of the remaining rules.
			v = false
		}
		outcomes = append(outcomes, ruleOutcome{id: r.ID, value: v, metadata: r.Metadata})
	}

	result, err := aggregate(s.match, outcomes)
	if err != nil {
		return MatchResult{}, err
	}
	result.Warnings = warnings
	if id, ok := decision["id"]; ok {
		result.DecisionID = id
	}
	return result, nil
}

// EvalBatch evaluates decisions independently, in order.
func (s *CompiledRuleSet) EvalBatch(decisions []map[string]any) ([]MatchResult, error) {
	results := make([]MatchResult, len(decisions))
	for i, d := range decisions {
		r, err := s.EvalSingle(d)
		if err != nil {
			return nil, err
		}
		results[i] = r
	}
	return results, nil
}
