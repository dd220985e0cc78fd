// Package report renders run results for the terminal: a summary panel, a
// table of occupancy counts per scale, and ASCII charts of the trajectory.
package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/boxdim/internal/analysis"
	"github.com/san-kum/boxdim/internal/boxcount"
	"github.com/san-kum/boxdim/internal/dynamo"
)

// Summary describes one run independently of where it came from.
type Summary struct {
	ID         string
	System     string
	ParamNames [3]string
	Params     dynamo.Params
	InitState  dynamo.State
	Steps      int
	StepSize   float64
	Region     boxcount.Region
	Lyapunov   *float64
	Elapsed    time.Duration
}

func (s Summary) Render() string {
	var rows [][2]string
	if s.ID != "" {
		rows = append(rows, [2]string{"run", s.ID})
	}
	rows = append(rows,
		[2]string{"system", s.System},
		[2]string{"params", formatParams(s.ParamNames, s.Params)},
		[2]string{"x0", s.InitState.String()},
		[2]string{"steps", fmt.Sprintf("%d  (h = %g)", s.Steps, s.StepSize)},
		[2]string{"region", fmt.Sprintf("%v .. %v", s.Region.Lo, s.Region.Hi)},
	)
	if s.Lyapunov != nil {
		rows = append(rows, [2]string{"lyapunov", fmt.Sprintf("%.4f", *s.Lyapunov)})
	}
	if s.Elapsed > 0 {
		rows = append(rows, [2]string{"elapsed", s.Elapsed.Round(time.Millisecond).String()})
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, Title.Render(strings.ToUpper(s.System)))
	for _, r := range rows {
		lines = append(lines, Label.Render(fmt.Sprintf("%-9s", r[0]))+" "+Value.Render(r[1]))
	}
	return Panel.Render(strings.Join(lines, "\n"))
}

func formatParams(names [3]string, p dynamo.Params) string {
	parts := make([]string, 3)
	for i := range p {
		name := names[i]
		if name == "" {
			name = fmt.Sprintf("p%d", i)
		}
		parts[i] = fmt.Sprintf("%s=%g", name, p[i])
	}
	return strings.Join(parts, " ")
}

// ScaleTable renders N(s) for every scale, followed by the fitted dimension
// when est is non-nil.
func ScaleTable(points []analysis.ScalePoint, est *analysis.DimensionEstimate) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(Subtle).
		Headers("side", "N(s)", "cubes", "fill", "log 1/s", "log N").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	for _, pt := range points {
		logN := "-"
		if pt.Count > 0 {
			logN = fmt.Sprintf("%.4f", pt.LogCount)
		}
		fill := 0.0
		if pt.Total > 0 {
			fill = float64(pt.Count) / float64(pt.Total)
		}
		t.Row(
			fmt.Sprintf("%g", pt.Side),
			fmt.Sprintf("%d", pt.Count),
			fmt.Sprintf("%d", pt.Total),
			fmt.Sprintf("%.2f%%", 100*fill),
			fmt.Sprintf("%.4f", pt.LogInvSide),
			logN,
		)
	}

	out := t.String()
	switch {
	case est != nil:
		out += "\n" + Label.Render("box-counting dimension ") +
			Value.Render(fmt.Sprintf("%.4f", est.Dimension)) +
			Subtle.Render(fmt.Sprintf("  (R² = %.4f over %d scales)", est.RSquared, len(est.Points)))
	case len(points) > 1:
		out += "\n" + Warn.Render("not enough occupied scales for a dimension fit")
	}
	return out
}

// Chart plots values as an ASCII line chart no wider than width columns.
// Non-finite samples are dropped. It returns "" when fewer than two samples
// remain.
func Chart(values []float64, caption string, width, height int) string {
	data := downsample(finite(values), width)
	if len(data) < 2 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// LogLogChart plots log N(s) against increasing log(1/s).
func LogLogChart(points []analysis.ScalePoint, width, height int) string {
	ys := make([]float64, 0, len(points))
	for _, pt := range points {
		if pt.Count > 0 {
			ys = append(ys, pt.LogCount)
		}
	}
	return Chart(ys, "log N(s) vs log 1/s", width, height)
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	stride := float64(len(values)) / float64(width)
	for i := range out {
		out[i] = values[int(float64(i)*stride)]
	}
	return out
}
