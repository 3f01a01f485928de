package cmd

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ezachrisen/amino"
)

// RuleSetConfig is the on-disk shape of a --config file: a schema
// source, the rules to compile against it, and the match configuration
// to aggregate their results under.
type RuleSetConfig struct {
	Schema string      `yaml:"schema"`
	Rules  []RuleEntry `yaml:"rules"`
	Match  MatchEntry  `yaml:"match"`
}

// RuleEntry is one rule as written in a config file.
type RuleEntry struct {
	ID       string         `yaml:"id"`
	Rule     string         `yaml:"rule"`
	Metadata map[string]any `yaml:"metadata"`
}

// MatchEntry is the match configuration as written in a config file.
type MatchEntry struct {
	Mode      string   `yaml:"mode"`
	Key       string   `yaml:"key"`
	Order     string   `yaml:"order"`
	Threshold *float64 `yaml:"threshold"`
	Aggregate string   `yaml:"aggregate"`
}

// LoadRuleSetConfig reads and parses a RuleSetConfig from path.
func LoadRuleSetConfig(path string) (RuleSetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSetConfig{}, err
	}
	var cfg RuleSetConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RuleSetConfig{}, err
	}
	return cfg, nil
}

// LoadDecision reads and parses a decision map from path.
func LoadDecision(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var decision map[string]any
	if err := yaml.Unmarshal(data, &decision); err != nil {
		return nil, err
	}
	return decision, nil
}

func (c RuleSetConfig) ruleDefinitions() []amino.RuleDefinition {
	defs := make([]amino.RuleDefinition, len(c.Rules))
	for i, r := range c.Rules {
		defs[i] = amino.RuleDefinition{ID: r.ID, Rule: r.Rule, Metadata: r.Metadata}
	}
	return defs
}

func (m MatchEntry) matchConfig() amino.MatchConfig {
	cfg := amino.MatchConfig{
		Mode:      amino.MatchMode(m.Mode),
		Key:       m.Key,
		Order:     amino.SortOrder(m.Order),
		Threshold: m.Threshold,
		Aggregate: m.Aggregate,
	}
	if cfg.Mode == "" {
		cfg.Mode = amino.MatchAll
	}
	return cfg
}
