package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ezachrisen/amino"
)

var decisionFile string

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Compile a rule set and evaluate it against a decision",
	RunE:  runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVar(&decisionFile, "decision", "", "decision file (YAML)")
}

func runEval(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		return fmt.Errorf("--config required")
	}
	if decisionFile == "" {
		return fmt.Errorf("--decision required")
	}

	cfg, err := LoadRuleSetConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	decision, err := LoadDecision(decisionFile)
	if err != nil {
		return fmt.Errorf("failed to load decision: %w", err)
	}

	engine, err := amino.NewEngineFromSource(cfg.Schema)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	result, err := engine.Eval(cfg.ruleDefinitions(), decision, cfg.Match.matchConfig())
	if err != nil {
		return fmt.Errorf("failed to evaluate: %w", err)
	}

	fmt.Printf("Evaluated %s rules against one decision.\n\n", humanize.Comma(int64(len(cfg.Rules))))
	fmt.Println(result.String())
	if len(result.Warnings) > 0 {
		fmt.Println(result.Report())
	}
	return nil
}
