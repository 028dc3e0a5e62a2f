// Package viz renders a relaxation run live in the terminal: the center
// density profile, the chemical-potential history and a stats panel.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/Scheiermann/supersolids-notes/internal/engine"
)

const (
	graphWidth      = 60
	graphHeight     = 8
	historyCapacity = 600
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(34)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps an engine between frames and draws its diagnostics. The
// stepping cadence (stepsPerFrame) and the drawing cadence (30 fps tick)
// stay independent.
type Model struct {
	eng           *engine.Engine
	initial       engine.Snapshot
	title         string
	running       bool
	diverged      bool
	stepsPerFrame int
	stats         engine.Stats
	muHistory     []float64
	density       []float64
}

func NewModel(eng *engine.Engine, title string) Model {
	return Model{
		eng:           eng,
		initial:       eng.Snapshot(),
		title:         title,
		running:       true,
		stepsPerFrame: 4,
		muHistory:     make([]float64, 0, historyCapacity),
		density:       make([]float64, eng.Grid().Size()),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "up", "k":
			if m.stepsPerFrame < 64 {
				m.stepsPerFrame *= 2
			}
		case "down", "j":
			if m.stepsPerFrame > 1 {
				m.stepsPerFrame /= 2
			}
		}
	case TickMsg:
		if m.running && !m.diverged && !m.eng.Exhausted() {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.stepsPerFrame && !m.eng.Exhausted(); i++ {
		m.eng.Step()
	}
	m.stats = m.eng.Stats()
	if !m.stats.IsFinite() {
		m.diverged = true
		m.running = false
		return
	}

	m.muHistory = append(m.muHistory, m.stats.Mu)
	if len(m.muHistory) > historyCapacity {
		m.muHistory = m.muHistory[1:]
	}
	m.eng.Density(m.density)
}

func (m *Model) reset() {
	eng, err := engine.Restore(m.initial)
	if err != nil {
		return
	}
	m.eng = eng
	m.diverged = false
	m.running = true
	m.stats = engine.Stats{}
	m.muHistory = m.muHistory[:0]
	m.eng.Density(m.density)
}

func (m Model) View() string {
	var left strings.Builder
	left.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")

	profile := CenterProfile(m.eng.Grid(), m.density)
	if hasSignal(profile) {
		chart := asciigraph.Plot(profile,
			asciigraph.Height(graphHeight), asciigraph.Width(graphWidth),
			asciigraph.Caption("density, center cut"))
		left.WriteString(graphStyle.Render(chart) + "\n")
	}
	if len(m.muHistory) > 1 {
		chart := asciigraph.Plot(m.muHistory,
			asciigraph.Height(graphHeight/2), asciigraph.Width(graphWidth),
			asciigraph.Caption("chemical potential"))
		left.WriteString(graphStyle.Render(chart) + "\n")
	}

	var s strings.Builder
	status := "RUNNING"
	if m.diverged {
		status = alertStyle.Render("DIVERGED")
	} else if m.eng.Exhausted() {
		status = "DONE"
	} else if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")
	s.WriteString(labelStyle.Render("Mode") + valueStyle.Render(m.eng.Params().Mode.String()) + "\n")
	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", m.eng.StepCount())) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.4f", m.eng.Time())) + "\n")
	s.WriteString(labelStyle.Render("Mu") + valueStyle.Render(fmt.Sprintf("%.6f", m.stats.Mu)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.6f", m.stats.Energy)) + "\n")
	s.WriteString(labelStyle.Render("Norm") + valueStyle.Render(fmt.Sprintf("%.6f", m.stats.Norm)) + "\n")
	s.WriteString(labelStyle.Render("Steps/frm") + valueStyle.Render(fmt.Sprintf("%d", m.stepsPerFrame)) + "\n")
	s.WriteString(helpStyle.Render("\nSP:Pause R:Reset Q:Quit\n↑↓:Steps per frame"))

	return lipgloss.JoinHorizontal(lipgloss.Top, left.String(), statsStyle.Render(s.String()))
}

func hasSignal(vals []float64) bool {
	for _, v := range vals {
		if v != 0 {
			return true
		}
	}
	return false
}
