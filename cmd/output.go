package cmd

import (
	"fmt"
	"io"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

var (
	tableHeader = lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Padding(0, 1)
	tableCell   = lipgloss.NewStyle().Padding(0, 1)
)

// printTable writes a bordered table to w, downsampling colors to what w
// supports.
func printTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeader
			}
			return tableCell
		}).
		Headers(headers...).
		Rows(rows...)
	_, _ = lipgloss.Fprintln(w, t.String())
}

// parseTriple reads "<a> <op> <b>" from three arguments.
func parseTriple(args []string) (problemgen.Triple, error) {
	if len(args) != 3 {
		return problemgen.Triple{}, fmt.Errorf("expected <a> <op> <b>, got %d arguments", len(args))
	}
	a, err := strconv.Atoi(args[0])
	if err != nil {
		return problemgen.Triple{}, fmt.Errorf("operand %q is not a whole number", args[0])
	}
	op, err := problemgen.ParseOperation(args[1])
	if err != nil {
		return problemgen.Triple{}, err
	}
	b, err := strconv.Atoi(args[2])
	if err != nil {
		return problemgen.Triple{}, fmt.Errorf("operand %q is not a whole number", args[2])
	}
	t := problemgen.Triple{A: a, B: b, Operation: op}
	if _, ok := op.Apply(a, b); !ok {
		return problemgen.Triple{}, fmt.Errorf("%s has no whole-number answer", t)
	}
	return t, nil
}

func answerText(p *int) string {
	if p == nil {
		return "—"
	}
	return strconv.Itoa(*p)
}
