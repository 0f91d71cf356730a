// Package tui is the live terminal view: the simulation advances a slice
// of steps per frame and each species' recent concentration history is
// drawn as a small chart.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/elowan/kinetix/internal/odes"
)

const historyLen = 160

type tickMsg time.Time

type model struct {
	system  string
	species []string
	sys     odes.System
	integ   odes.Integrator
	cfg     odes.Config

	x       odes.State
	t       float64
	history [][]float64

	fps           int
	stepsPerFrame int
	paused        bool
	done          bool
}

func newModel(system string, species []string, sys odes.System, integ odes.Integrator, x0 odes.State, cfg odes.Config, fps int) model {
	history := make([][]float64, len(species))
	for i := range history {
		history[i] = []float64{x0[i]}
	}
	frames := cfg.Duration / cfg.Dt / float64(fps) / 5.0
	steps := int(frames)
	if steps < 1 {
		steps = 1
	}
	return model{
		system:        system,
		species:       species,
		sys:           sys,
		integ:         integ,
		cfg:           cfg,
		x:             x0.Clone(),
		history:       history,
		fps:           fps,
		stepsPerFrame: steps,
	}
}

// Run blocks until the user quits or the simulation finishes and the user
// quits.
func Run(system string, species []string, sys odes.System, integ odes.Integrator, x0 odes.State, cfg odes.Config, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	_, err := tea.NewProgram(newModel(system, species, sys, integ, x0, cfg, fps)).Run()
	return err
}

func (m model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd { return m.tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		}
		return m, nil

	case tickMsg:
		if !m.paused && !m.done {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *model) advance() {
	for i := 0; i < m.stepsPerFrame && m.t < m.cfg.Duration; i++ {
		m.x = m.integ.Step(m.sys, m.x, m.t, m.cfg.Dt)
		m.t += m.cfg.Dt
		if !m.x.IsValid() {
			m.done = true
			return
		}
	}
	for si := range m.species {
		m.history[si] = append(m.history[si], m.x[si])
		if len(m.history[si]) > historyLen {
			m.history[si] = m.history[si][1:]
		}
	}
	if m.t >= m.cfg.Duration {
		m.done = true
	}
}

func (m model) View() string {
	var sb strings.Builder

	status := StatusRunning.Render("running")
	if m.paused {
		status = StatusPaused.Render("paused")
	}
	if m.done {
		status = StatusDone.Render("done")
	}
	sb.WriteString(Title.Render("kinetix live: "+m.system) + "  " + status + "\n")
	sb.WriteString(MetricLabel.Render("t = ") + MetricValue.Render(fmt.Sprintf("%.4f", m.t)) +
		MetricLabel.Render(" / ") + MetricValue.Render(fmt.Sprintf("%.1f", m.cfg.Duration)) + "\n")
	sb.WriteString(ProgressBar(m.t/m.cfg.Duration, 60) + "\n\n")

	for si, name := range m.species {
		label := SeriesStyle(si).Render(fmt.Sprintf("[%s] = %.6g", name, m.x[si]))
		graph := asciigraph.Plot(m.history[si],
			asciigraph.Height(5),
			asciigraph.Width(60),
		)
		sb.WriteString(Panel.Render(label+"\n"+graph) + "\n")
	}

	sb.WriteString(KeyHint.Render("space pause · q quit") + "\n")
	return sb.String()
}
