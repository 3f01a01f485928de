package amino

import (
	"fmt"
	"strconv"
	"strings"

	box "github.com/Delta456/box-cli-maker/v2"
	"github.com/alexeyco/simpletable"
)

// Report renders a MatchResult's warnings as a boxed diagnostic report,
// for command-line and log output where a bare struct dump is too
// noisy to be useful.
func (m MatchResult) Report() string {
	const title = "AMINO MATCH REPORT"
	b := box.New(box.Config{Px: 2, Py: 1, Type: "Double", Color: "Cyan", TitlePos: "Top", ContentAlign: "Left"})

	// The box needs at least one content line as wide as its title.
	underline := strings.Repeat("-", len(title)) + "\n"

	s := strings.Builder{}
	s.WriteString("Decision:\n")
	s.WriteString(underline)
	s.WriteString(strings.TrimSpace(strAny(m.DecisionID)))
	s.WriteString("\n\n")

	s.WriteString("Matched:   " + strings.Join(m.Matched, ", ") + "\n")
	s.WriteString("Excluded:  " + strings.Join(m.Excluded, ", ") + "\n")
	if m.Score != nil {
		s.WriteString("Score:     " + strconv.FormatFloat(*m.Score, 'g', -1, 64) + "\n")
	}
	s.WriteString("\n")

	s.WriteString("Warnings:\n")
	s.WriteString(underline)
	s.WriteString(warningsTable(m.Warnings).String())

	return b.String(title, s.String())
}

func warningsTable(warnings []string) *simpletable.Table {
	t := simpletable.New()
	t.Header = &simpletable.Header{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignCenter, Text: "#"},
			{Align: simpletable.AlignCenter, Text: "Warning"},
		},
	}
	for i, w := range warnings {
		t.Body.Cells = append(t.Body.Cells, []*simpletable.Cell{
			{Align: simpletable.AlignRight, Text: strconv.Itoa(i + 1)},
			{Text: w},
		})
	}
	t.SetStyle(simpletable.StyleUnicode)
	return t
}

func strAny(v any) string {
	if v == nil {
		return "(none)"
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
