package amino

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// MatchMode selects how a compiled rule set's per-rule results are
// aggregated into a MatchResult.
type MatchMode string

const (
	// MatchAll returns every rule id whose value was truthy.
	MatchAll MatchMode = "all"
	// MatchFirst returns the single truthy rule id that sorts first by
	// MatchConfig.Key (default "ordering").
	MatchFirst MatchMode = "first"
	// MatchInverse returns every rule id whose value was falsy.
	MatchInverse MatchMode = "inverse"
	// MatchScore sums numeric (and boolean, as 1/0) rule values and
	// optionally gates a match list behind MatchConfig.Threshold.
	MatchScore MatchMode = "score"
)

// SortOrder controls MatchFirst's tie-break direction.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// MatchConfig configures aggregation. The zero value is MatchAll.
type MatchConfig struct {
	Mode      MatchMode
	Key       string // ordering key for MatchFirst; default "ordering"
	Order     SortOrder
	Threshold *float64 // MatchScore gate; nil disables gating

	// Aggregate names the MatchScore accumulation function. "" and "sum"
	// both mean the default (and only implemented) behavior: booleans
	// contribute 1/0, numbers pass through, everything else contributes
	// 0. Any other value is reserved for future aggregates and is a
	// configuration error.
	Aggregate string
}

// ruleOutcome is one rule's raw evaluation result plus its caller-
// supplied metadata, ready for aggregation.
type ruleOutcome struct {
	id       string
	value    any
	metadata map[string]any
}

// aggregate applies cfg to outcomes, in the order the rules were
// declared, producing a MatchResult (without its DecisionID or Warnings,
// which the caller fills in).
func aggregate(cfg MatchConfig, outcomes []ruleOutcome) (MatchResult, error) {
	switch cfg.Mode {
	case MatchFirst:
		return aggregateFirst(cfg, outcomes), nil
	case MatchInverse:
		return aggregateInverse(outcomes), nil
	case MatchScore:
		return aggregateScore(cfg, outcomes)
	default:
		return aggregateAll(outcomes), nil
	}
}

func aggregateAll(outcomes []ruleOutcome) MatchResult {
	var matched []string
	for _, o := range outcomes {
		if truthy(o.value) {
			matched = append(matched, o.id)
		}
	}
	return MatchResult{Matched: matched}
}

func aggregateFirst(cfg MatchConfig, outcomes []ruleOutcome) MatchResult {
	var truthful []ruleOutcome
	for _, o := range outcomes {
		if truthy(o.value) {
			truthful = append(truthful, o)
		}
	}
	if len(truthful) == 0 {
		return MatchResult{Matched: []string{}}
	}
	key := cfg.Key
	if key == "" {
		key = "ordering"
	}
	sort.SliceStable(truthful, func(i, j int) bool {
		vi, oki := orderingValue(truthful[i].metadata, key)
		vj, okj := orderingValue(truthful[j].metadata, key)
		if !oki {
			vi = math.Inf(1)
		}
		if !okj {
			vj = math.Inf(1)
		}
		if cfg.Order == Descending {
			return vi > vj
		}
		return vi < vj
	})
	return MatchResult{Matched: []string{truthful[0].id}}
}

func aggregateInverse(outcomes []ruleOutcome) MatchResult {
	var excluded []string
	for _, o := range outcomes {
		if !truthy(o.value) {
			excluded = append(excluded, o.id)
		}
	}
	return MatchResult{Excluded: excluded}
}

func aggregateScore(cfg MatchConfig, outcomes []ruleOutcome) (MatchResult, error) {
	if cfg.Aggregate != "" && cfg.Aggregate != "sum" {
		return MatchResult{}, errors.Errorf(
			"match config: unsupported score aggregate %q, only \"sum\" is implemented, other values are reserved", cfg.Aggregate,
		)
	}

	var total float64
	for _, o := range outcomes {
		switch v := o.value.(type) {
		case bool:
			if v {
				total++
			}
		case int64:
			total += float64(v)
		case int:
			total += float64(v)
		case float64:
			total += v
		}
	}
	result := MatchResult{Score: &total}
	if cfg.Threshold != nil && total >= *cfg.Threshold {
		var matched []string
		for _, o := range outcomes {
			if truthy(o.value) {
				matched = append(matched, o.id)
			}
		}
		result.Matched = matched
	}
	return result, nil
}

func orderingValue(metadata map[string]any, key string) (float64, bool) {
	if metadata == nil {
		return 0, false
	}
	v, ok := metadata[key]
	if !ok {
		return 0, false
	}
	return asFloat(v)
}

// truthy mirrors the compiler's notion of a truthy raw evaluator result.
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
