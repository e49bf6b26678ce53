package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/neurodyn/internal/component"
	"github.com/san-kum/neurodyn/internal/network"
)

const (
	liveHistory   = 400
	liveWidth     = 60
	liveHeight    = 8
	rasterColumns = 60
	rasterRows    = 20
)

var (
	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

type TickMsg time.Time

// Model steps a network under a bubbletea event loop and draws the first
// neuron's membrane trace next to a rolling spike raster.
type Model struct {
	runner        *network.Runner
	group         *component.NeuronGroup
	title         string
	stepsPerFrame int

	trace  []float64
	raster [][]bool
	spikes int

	running bool
	err     error
}

func NewModel(runner *network.Runner, group *component.NeuronGroup, title string, stepsPerFrame int) Model {
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}
	return Model{
		runner:        runner,
		group:         group,
		title:         title,
		stepsPerFrame: stepsPerFrame,
		trace:         make([]float64, 0, liveHistory),
		running:       true,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.runner.Close()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}
	case TickMsg:
		if m.running && m.err == nil {
			for i := 0; i < m.stepsPerFrame; i++ {
				if err := m.runner.Step(); err != nil {
					m.err = err
					break
				}
				m.record()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) record() {
	if v, err := m.group.ST().Get("V"); err == nil && len(v) > 0 {
		m.trace = append(m.trace, v[0])
		if len(m.trace) > liveHistory {
			m.trace = m.trace[1:]
		}
	}

	if sp, err := m.group.ST().Get("sp"); err == nil {
		n := len(sp)
		if n > rasterRows {
			n = rasterRows
		}
		col := make([]bool, n)
		for i := 0; i < n; i++ {
			if sp[i] > 0 {
				col[i] = true
				m.spikes++
			}
		}
		m.raster = append(m.raster, col)
		if len(m.raster) > rasterColumns {
			m.raster = m.raster[1:]
		}
	}
}

func (m Model) View() string {
	var left strings.Builder
	left.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")

	if len(m.trace) > 1 {
		chart := asciigraph.Plot(m.trace,
			asciigraph.Height(liveHeight),
			asciigraph.Width(liveWidth),
			asciigraph.Caption("V[0]"),
		)
		left.WriteString(graphStyle.Render(chart) + "\n")
	}

	if len(m.raster) > 0 {
		rows := len(m.raster[0])
		for i := 0; i < rows; i++ {
			line := make([]rune, len(m.raster))
			for c, col := range m.raster {
				if i < len(col) && col[i] {
					line[c] = '|'
				} else {
					line[c] = '.'
				}
			}
			left.WriteString(rasterStyle.Render(string(line)) + "\n")
		}
	}

	var stats strings.Builder
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	stats.WriteString(status + "\n\n")
	stats.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2f", m.runner.Time())) + "\n")
	stats.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", m.runner.StepCount())) + "\n")
	stats.WriteString(labelStyle.Render("Dt") + valueStyle.Render(fmt.Sprintf("%.4f", m.runner.Dt())) + "\n")
	stats.WriteString(labelStyle.Render("Neurons") + valueStyle.Render(fmt.Sprintf("%d", m.group.N())) + "\n")
	stats.WriteString(labelStyle.Render("Spikes") + valueStyle.Render(fmt.Sprintf("%d", m.spikes)) + "\n")
	if m.err != nil {
		stats.WriteString("\n" + errStyle.Render(m.err.Error()) + "\n")
	}
	stats.WriteString(helpStyle.Render("\nSP:Pause  Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		left.String(),
		statsStyle.Render(stats.String()),
	)
}
