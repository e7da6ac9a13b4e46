package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kolkov/callprof/prof"
)

// TableOptions controls WriteTable.
type TableOptions struct {
	// Limit caps the number of rows; 0 prints every statistic.
	Limit int
}

var columns = []string{"NAME", "CALLS", "TOTAL", "SELF", "MIN", "MAX", "AVG"}

// WriteTable writes the ranked statistics of res as an aligned table
// followed by a summary line. Styling follows the capabilities of w.
func WriteTable(w io.Writer, res prof.Result, opts TableOptions) error {
	r := lipgloss.NewRenderer(w)

	var (
		headerStyle = r.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
		nameStyle   = r.NewStyle()
		numStyle    = r.NewStyle().Align(lipgloss.Right)
		hintStyle   = r.NewStyle().Foreground(lipgloss.Color("8"))
		warnStyle   = r.NewStyle().Foreground(lipgloss.Color("3"))
	)

	stats := res.Stats
	if opts.Limit > 0 && len(stats) > opts.Limit {
		stats = stats[:opts.Limit]
	}

	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.Name,
			strconv.FormatInt(s.Calls, 10),
			s.Total.String(),
			s.Self.String(),
			s.Min.String(),
			s.Max.String(),
			s.Mean().String(),
		})
	}

	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = lipgloss.Width(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder

	cells := make([]string, len(columns))
	for i, c := range columns {
		st := headerStyle.Width(widths[i])
		if i > 0 {
			st = st.Align(lipgloss.Right)
		}
		cells[i] = st.Render(c)
	}
	b.WriteString(strings.Join(cells, "  "))
	b.WriteByte('\n')

	for _, row := range rows {
		for i, cell := range row {
			if i == 0 {
				cells[i] = nameStyle.Width(widths[i]).Render(cell)
			} else {
				cells[i] = numStyle.Width(widths[i]).Render(cell)
			}
		}
		b.WriteString(strings.Join(cells, "  "))
		b.WriteByte('\n')
	}

	summary := fmt.Sprintf("%d functions, %d spans on %d goroutines, extent %v",
		len(res.Stats), res.SpanCount(), len(res.Threads), res.Extent.Round(time.Microsecond))
	if len(stats) < len(res.Stats) {
		summary += fmt.Sprintf(" (showing top %d)", len(stats))
	}
	b.WriteString(hintStyle.Render(summary))
	b.WriteByte('\n')

	if d := res.Diagnostics; !d.Clean() {
		b.WriteString(warnStyle.Render(fmt.Sprintf(
			"ignored %d unmatched exits and %d unclosed enters", d.DroppedExits, d.UnclosedEnters)))
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}
