package amino

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// MatchResult is the outcome of evaluating a compiled rule set against
// one decision.
type MatchResult struct {
	// DecisionID is the input decision's "id" field, if it had one.
	DecisionID any
	Matched    []string
	Excluded   []string
	Score      *float64
	Warnings   []string
}

// String renders a match result as a summary table, in the style used
// throughout this package for human-inspectable output.
func (m MatchResult) String() string {
	tw := table.NewWriter()
	tw.SetTitle("\nMATCH RESULT SUMMARY\n")
	tw.AppendHeader(table.Row{"Decision ID", "Matched", "Excluded", "Score", "Warnings"})

	score := "—"
	if m.Score != nil {
		score = fmt.Sprintf("%.4g", *m.Score)
	}
	tw.AppendRow(table.Row{
		fmt.Sprintf("%v", m.DecisionID),
		strings.Join(m.Matched, ", "),
		strings.Join(m.Excluded, ", "),
		score,
		fmt.Sprintf("%d", len(m.Warnings)),
	})
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}
