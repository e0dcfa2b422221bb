package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/lewisjared/two-layer-model/internal/model"
)

const (
	graphHeight = 10
	graphWidth  = 60
)

var (
	graphStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("49")).
			Padding(1, 0)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)
)

type TickMsg time.Time

// LiveModel is the bubbletea model for an interactively stepped run.
type LiveModel struct {
	model    *model.Model
	names    []string
	selected int
	history  []float64
	running  bool
	err      error
}

// NewLiveModel builds the live view, plotting variable first if the
// collection holds it.
func NewLiveModel(m *model.Model, variable string) LiveModel {
	names := m.Collection().Names()
	selected := 0
	for i, name := range names {
		if name == variable {
			selected = i
			break
		}
	}
	lm := LiveModel{
		model:    m,
		names:    names,
		selected: selected,
		running:  true,
	}
	lm.rebuildHistory()
	return lm
}

func (m LiveModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/20, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			m.advance()
		case "tab", "right", "l":
			m.selected = (m.selected + 1) % len(m.names)
			m.rebuildHistory()
		case "left", "h":
			m.selected = (m.selected + len(m.names) - 1) % len(m.names)
			m.rebuildHistory()
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *LiveModel) advance() {
	if m.model.Finished() || m.err != nil {
		m.running = false
		return
	}
	if err := m.model.Step(); err != nil {
		if !errors.Is(err, model.ErrRunComplete) {
			m.err = err
		}
		m.running = false
		return
	}
	m.rebuildHistory()
}

// rebuildHistory gathers the defined prefix of the selected variable.
func (m *LiveModel) rebuildHistory() {
	series, ok := m.model.Collection().GetTimeseries(m.names[m.selected])
	if !ok {
		m.history = nil
		return
	}
	m.history = m.history[:0]
	for i := 0; i <= m.model.TimeIndex(); i++ {
		v, defined, err := series.ValueAt(i)
		if err != nil || !defined {
			break
		}
		m.history = append(m.history, v)
	}
}

func (m LiveModel) View() string {
	var b strings.Builder

	name := m.names[m.selected]
	status := "RUNNING"
	if m.model.Finished() {
		status = "COMPLETE"
	} else if !m.running {
		status = "PAUSED"
	}

	b.WriteString(HeaderStyle.Render("model run") + "\n")
	b.WriteString(fmt.Sprintf("%s  %s\n",
		LabelStyle.Render(status),
		SubtleStyle.Render(fmt.Sprintf("t=%.1f  step %d/%d",
			m.model.CurrentTime(), m.model.TimeIndex(), m.model.TimeAxis().Len()-1))))
	b.WriteString(ProgressBar(float64(m.model.TimeIndex())/float64(m.model.TimeAxis().Len()-1), graphWidth) + "\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption(name),
		)
		b.WriteString(graphStyle.Render(chart) + "\n")
	} else {
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("\n%s: waiting for values\n", name)))
	}

	b.WriteString("\n" + Summary(m.model))

	if m.err != nil {
		b.WriteString("\n" + errStyle.Render(fmt.Sprintf("error: %v", m.err)) + "\n")
	}

	b.WriteString(helpStyle.Render("space: pause/resume  s: single step  tab/←/→: variable  q: quit"))
	return PanelStyle.Render(b.String())
}

// RunLive steps the model inside a terminal UI until it finishes or the
// user quits.
func RunLive(m *model.Model, variable string) error {
	p := tea.NewProgram(NewLiveModel(m, variable))
	_, err := p.Run()
	return err
}
