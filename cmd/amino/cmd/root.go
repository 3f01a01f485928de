// Package cmd implements the amino command-line tool: a thin cobra
// wrapper that loads a rule-set-plus-match-config file and a decision
// file from disk and drives the core engine.
package cmd

import (
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "amino",
	Short: "Schema-first classification rules engine",
	Long:  `amino compiles a schema and a set of rules, then evaluates them against a decision.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "rule set config file (YAML)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
