// Package viz renders recorded and live runs in the terminal.
package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/neurodyn/internal/monitor"
)

const (
	plotWidth  = 80
	plotHeight = 10
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	graphStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	rasterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	captionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// TracePlot renders one neuron's recorded trace as an ASCII chart.
func TracePlot(samples []monitor.Sample, index int, caption string) string {
	data := monitor.Trace(samples, index)
	if len(data) < 2 {
		return captionStyle.Render("(not enough samples to plot)")
	}
	chart := asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
	return graphStyle.Render(chart)
}

// SeriesPlot renders a single pre-extracted series, for data loaded back
// from a run directory.
func SeriesPlot(data []float64, caption string) string {
	if len(data) < 2 {
		return captionStyle.Render("(not enough samples to plot)")
	}
	chart := asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
	return graphStyle.Render(chart)
}

// Raster renders a spike raster: one row per neuron, one column per
// sample, a mark wherever the spike field was set. Long histories are
// downsampled to the plot width; large groups are truncated.
func Raster(samples []monitor.Sample, maxNeurons int) string {
	if len(samples) == 0 {
		return captionStyle.Render("(no spike data)")
	}

	n := len(samples[0].Values)
	if maxNeurons > 0 && n > maxNeurons {
		n = maxNeurons
	}

	cols := len(samples)
	stride := 1
	if cols > plotWidth {
		stride = (cols + plotWidth - 1) / plotWidth
		cols = (cols + stride - 1) / stride
	}

	var b strings.Builder
	for i := 0; i < n; i++ {
		row := make([]rune, cols)
		for c := range row {
			row[c] = '.'
		}
		for s := 0; s < len(samples); s++ {
			if i < len(samples[s].Values) && samples[s].Values[i] > 0 {
				row[s/stride] = '|'
			}
		}
		b.WriteString(fmt.Sprintf("%3d ", i))
		b.WriteString(rasterStyle.Render(string(row)))
		b.WriteByte('\n')
	}
	b.WriteString(captionStyle.Render(fmt.Sprintf("    t=%.1f .. %.1f",
		samples[0].Time, samples[len(samples)-1].Time)))
	return b.String()
}
