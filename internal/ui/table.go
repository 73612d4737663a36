package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"ember/internal/layout"
	"ember/internal/observ"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == 0 {
				return headerStyle
			}
			return cellStyle
		})
}

// TimingTable renders the phases of a report with a closing total row.
func TimingTable(title string, r observ.Report) string {
	t := newTable("phase", "ms", "note")
	for _, p := range r.Phases {
		t.Row(p.Name, fmt.Sprintf("%.2f", p.DurationMS), p.Note)
	}
	t.Row("total", fmt.Sprintf("%.2f", r.TotalMS), "")
	if title == "" {
		return t.Render()
	}
	return lipgloss.JoinVertical(lipgloss.Left, headerStyle.Render(title), t.Render())
}

// TargetTable lists target presets with their main layout parameters.
func TargetTable(targets []layout.Target) string {
	t := newTable("preset", "triple", "ptr", "i64 align", "f64 align", "exit bits", "entry")
	for _, tgt := range targets {
		t.Row(
			tgt.Name,
			tgt.Triple,
			strconv.Itoa(tgt.PtrSize),
			strconv.Itoa(tgt.IntAlign[3]),
			strconv.Itoa(tgt.Float64Align),
			strconv.Itoa(tgt.ExitCodeBits),
			tgt.EntrySymbol,
		)
	}
	return t.Render()
}
