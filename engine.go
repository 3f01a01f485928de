package amino

import (
	"sync"

	"github.com/ezachrisen/amino/compiler"
	"github.com/ezachrisen/amino/errs"
	"github.com/ezachrisen/amino/operators"
	"github.com/ezachrisen/amino/rulelang"
	"github.com/ezachrisen/amino/schema"
	"github.com/ezachrisen/amino/types"
)

// Engine owns one schema, type registry, operator registry, and function
// map. It is mutable only until the first Compile or Eval call, at which
// point it freezes: every registration method afterward fails with an
// EngineAlreadyFrozenError.
type Engine struct {
	mu sync.RWMutex

	schemaRegistry *schema.Registry
	typeRegistry   *types.Registry
	opRegistry     *operators.Registry
	functions      map[string]compiler.Fn

	rulesMode     rulelang.Mode
	decisionsMode DecisionMode

	frozen bool
}

// EngineOptions collects the settings applied by EngineOption functions.
// See the functional definitions below for their meaning.
type EngineOptions struct {
	Functions     map[string]compiler.Fn
	RulesMode     rulelang.Mode
	DecisionsMode DecisionMode
	Operators     any // "standard", "minimal", or []string
}

type EngineOption func(*EngineOptions)

func applyEngineOptions(o *EngineOptions, opts ...EngineOption) {
	for _, opt := range opts {
		opt(o)
	}
}

// WithFunctions seeds the engine's function map, callable from rule text
// via function-call syntax.
func WithFunctions(fns map[string]compiler.Fn) EngineOption {
	return func(o *EngineOptions) { o.Functions = fns }
}

// WithRulesMode sets strict or loose handling of type mismatches
// detected while parsing rule text. Default: strict.
func WithRulesMode(mode rulelang.Mode) EngineOption {
	return func(o *EngineOptions) { o.RulesMode = mode }
}

// WithDecisionsMode sets strict or loose handling of schema violations
// detected while validating a decision. Default: loose.
func WithDecisionsMode(mode DecisionMode) EngineOption {
	return func(o *EngineOptions) { o.DecisionsMode = mode }
}

// WithOperators selects the operator preset: "standard", "minimal", or
// an explicit []string of token names (always unioned with and/or/not).
// Default: "standard".
func WithOperators(preset any) EngineOption {
	return func(o *EngineOptions) { o.Operators = preset }
}

// NewEngine parses schemaText and constructs an Engine ready for
// registration and, ultimately, compilation.
func NewEngine(schemaText string, opts ...EngineOption) (*Engine, error) {
	o := EngineOptions{
		RulesMode:     rulelang.Strict,
		DecisionsMode: DecisionLoose,
		Operators:     "standard",
	}
	applyEngineOptions(&o, opts...)

	ast, err := schema.Parse(schemaText)
	if err != nil {
		return nil, err
	}

	structNames := map[string]bool{}
	for _, s := range ast.Structs {
		structNames[s.Name] = true
	}
	typeRegistry := types.NewRegistry(structNames)

	opRegistry, err := operators.BuildRegistry(o.Operators)
	if err != nil {
		return nil, err
	}

	schemaRegistry, err := schema.NewRegistry(ast, typeRegistry)
	if err != nil {
		return nil, err
	}

	functions := map[string]compiler.Fn{}
	for k, v := range o.Functions {
		functions[k] = v
	}

	return &Engine{
		schemaRegistry: schemaRegistry,
		typeRegistry:   typeRegistry,
		opRegistry:     opRegistry,
		functions:      functions,
		rulesMode:      o.RulesMode,
		decisionsMode:  o.DecisionsMode,
	}, nil
}

func (e *Engine) checkFrozen() error {
	if e.frozen {
		return errs.EngineFrozenError("cannot register after first Compile or Eval")
	}
	return nil
}

// AddFunction registers a caller-supplied function, callable from rule
// text under name.
func (e *Engine) AddFunction(name string, fn compiler.Fn) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkFrozen(); err != nil {
		return err
	}
	e.functions[name] = fn
	return nil
}

// RegisterType registers a custom scalar type layered over one of the
// four schema primitives.
func (e *Engine) RegisterType(name string, base schema.Kind, validator types.Validator) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkFrozen(); err != nil {
		return err
	}
	return e.typeRegistry.RegisterType(name, base, validator)
}

// RegisterOperator adds a custom operator definition to the engine's
// operator table.
func (e *Engine) RegisterOperator(def operators.Def) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkFrozen(); err != nil {
		return err
	}
	return e.opRegistry.Register(def)
}

func (e *Engine) freeze() {
	e.mu.Lock()
	e.frozen = true
	e.mu.Unlock()
}

// Compile parses and type-checks every rule in rules against the
// engine's schema and operator registries, freezing the engine, and
// returns a CompiledRuleSet ready for evaluation under match.
func (e *Engine) Compile(rules []RuleDefinition, match MatchConfig) (*CompiledRuleSet, error) {
	e.freeze()

	e.mu.RLock()
	defer e.mu.RUnlock()

	var compiledRules []*CompiledRule
	var allWarnings []string
	seen := map[string]bool{}

	for _, rd := range rules {
		if seen[rd.ID] {
			return nil, errs.RuleParseError("duplicate rule id", errs.WithField(rd.ID))
		}
		seen[rd.ID] = true

		ruleAST, warnings, err := rulelang.Parse(rd.Rule, e.schemaRegistry, e.opRegistry, e.rulesMode)
		if err != nil {
			return nil, err
		}
		allWarnings = append(allWarnings, warnings...)

		compiled, err := compiler.Compile(rd.ID, ruleAST)
		if err != nil {
			return nil, err
		}

		compiledRules = append(compiledRules, &CompiledRule{
			ID:         rd.ID,
			ReturnType: compiled.ReturnType,
			Metadata:   rd.Metadata,
			eval:       compiled.Eval,
		})
	}

	functions := make(map[string]compiler.Fn, len(e.functions))
	for k, v := range e.functions {
		functions[k] = v
	}

	return &CompiledRuleSet{
		rules:     compiledRules,
		match:     match,
		functions: functions,
		validator: newDecisionValidator(e.schemaRegistry, e.typeRegistry, e.decisionsMode),
		Warnings:  allWarnings,
	}, nil
}

// Eval is equivalent to Compile(rules, match).EvalSingle(decision).
func (e *Engine) Eval(rules []RuleDefinition, decision map[string]any, match MatchConfig) (MatchResult, error) {
	set, err := e.Compile(rules, match)
	if err != nil {
		return MatchResult{}, err
	}
	return set.EvalSingle(decision)
}

// UpdateRules compiles a new CompiledRuleSet from rules against this
// engine's existing, unmodified registries. The caller is responsible
// for atomically swapping its reference to the returned set; concurrent
// holders of a previous set continue to see a consistent snapshot.
func (e *Engine) UpdateRules(rules []RuleDefinition, match MatchConfig) (*CompiledRuleSet, error) {
	return e.Compile(rules, match)
}

// ExportSchema delegates to the schema registry.
func (e *Engine) ExportSchema() string {
	return e.schemaRegistry.ExportSchema()
}
