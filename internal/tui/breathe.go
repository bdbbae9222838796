// Package tui renders a guided breathing session in the terminal.
package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"calmd/internal/engagement"
	"calmd/internal/models"
)

const maxBarWidth = 60

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#95A5A6"))
	doneStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2ECC71"))
)

// IsTTY returns true if stdout is connected to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// tickMsg carries the generation of the tick chain that produced it, so a
// pause followed by a quick resume never leaves two chains running.
type tickMsg struct {
	generation int
}

type BreatheModel struct {
	session    *engagement.GuidedSession
	title      string
	interval   time.Duration
	bar        progress.Model
	generation int
	quitting   bool
}

func NewBreatheModel(pattern models.BreathingPattern, interval time.Duration) (*BreatheModel, error) {
	session, err := engagement.NewGuidedSession(pattern)
	if err != nil {
		return nil, err
	}
	return &BreatheModel{
		session:  session,
		title:    pattern.Title,
		interval: interval,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}, nil
}

func (m *BreatheModel) Session() *engagement.GuidedSession {
	return m.session
}

func (m *BreatheModel) tick() tea.Cmd {
	gen := m.generation
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{generation: gen}
	})
}

func (m *BreatheModel) Init() tea.Cmd {
	m.session.Start()
	return m.tick()
}

func (m *BreatheModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case " ", "p":
			m.generation++
			if m.session.Pause() {
				return m, nil
			}
			if m.session.Start() {
				return m, m.tick()
			}
		case "r":
			m.generation++
			m.session.Reset()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-4, 10), maxBarWidth)
		return m, nil

	case tickMsg:
		if msg.generation != m.generation || !m.session.Tick() {
			return m, nil
		}
		if m.session.Status() == models.SessionCompleted {
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *BreatheModel) View() string {
	state := m.session.Snapshot()
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	if state.Completed() {
		b.WriteString(doneStyle.Render("Well done. Session complete."))
		b.WriteString("\n")
		return b.String()
	}

	phaseStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(state.PhaseColor))
	b.WriteString(phaseStyle.Render(fmt.Sprintf("%s  %ds", state.Phase.Kind.Verb(), state.RemainingSeconds)))
	b.WriteString("\n")
	if state.Phase.Instruction != "" {
		b.WriteString(state.Phase.Instruction)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(state.ProgressPercent / 100))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("cycle %d/%d  %s", state.CycleIndex+1, state.TotalCycles, state.Status)))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("space pause/resume  r reset  q quit"))
	b.WriteString("\n")
	return b.String()
}

// RunPlain drives the session without a terminal UI, printing one line per
// phase. It returns when the session completes or stop is closed.
func RunPlain(w io.Writer, pattern models.BreathingPattern, interval time.Duration, stop <-chan struct{}) error {
	session, err := engagement.NewGuidedSession(pattern)
	if err != nil {
		return err
	}
	printPhase := func(ph models.Phase, cycle int) {
		fmt.Fprintf(w, "[%d/%d] %s for %ds\n", cycle+1, pattern.TotalCycles, ph.Kind.Verb(), ph.DurationSeconds)
	}
	session.OnPhaseChange(func(c engagement.PhaseChange) {
		printPhase(c.Current, c.CycleIndex)
	})
	session.OnCompleted(func(models.SessionState) {
		fmt.Fprintln(w, "Session complete.")
	})

	fmt.Fprintf(w, "%s: %d cycles, %ds\n", pattern.Title, pattern.TotalCycles, pattern.TotalDuration())
	printPhase(pattern.Phases[0], 0)
	session.Start()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for session.Status() == models.SessionRunning {
		select {
		case <-stop:
			fmt.Fprintln(w, "Stopped.")
			return nil
		case <-ticker.C:
			session.Tick()
		}
	}
	return nil
}

// Run shows the interactive runner on a terminal and falls back to plain
// output otherwise.
func Run(pattern models.BreathingPattern, interval time.Duration, stop <-chan struct{}) error {
	if !IsTTY() {
		return RunPlain(os.Stdout, pattern, interval, stop)
	}
	m, err := NewBreatheModel(pattern, interval)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m).Run()
	return err
}
