// Package tui renders a breathing session in the terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stillpoint/breathbox/internal/breath"
	"github.com/stillpoint/breathbox/internal/tui/style"
	"github.com/stillpoint/breathbox/pkg/uictl"
)

// Controls groups the toggles and readouts the session view operates on.
// Knobs write through to persisted preferences, so toggling mute here takes
// effect on the very next cue.
type Controls struct {
	Mute             uictl.Knob
	Guided           uictl.Knob
	LifetimeSessions uictl.Dial[int]
}

// Stopper stops the running session, typically the engine itself.
type Stopper interface {
	Stop()
}

// sessionEndedMsg signals that the engine's event channel was closed.
type sessionEndedMsg struct{}

// Model is the bubbletea model for a running session.
type Model struct {
	stopper      Stopper
	events       <-chan breath.Event
	controls     Controls
	lang         string
	phaseSeconds int

	bar      progress.Model
	snapshot breath.Snapshot
	quitting bool
}

// New creates a session view reading events from the engine's subscription
// channel.
func New(stopper Stopper, events <-chan breath.Event, controls Controls, lang string, phaseSeconds int) Model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.ShowPercentage = false

	return Model{
		stopper:      stopper,
		events:       events,
		controls:     controls,
		lang:         lang,
		phaseSeconds: phaseSeconds,
		bar:          bar,
		snapshot:     breath.Snapshot{Phase: breath.PhaseIdle, PhaseCountdown: phaseSeconds},
	}
}

// Init starts listening for engine events.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Update handles engine events and key presses.
func (m Model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case breath.Event:
		m.snapshot = breath.Snapshot{
			Running:          msg.Type != breath.EventSessionStopped,
			Phase:            msg.Phase,
			ElapsedSeconds:   msg.ElapsedSeconds,
			RemainingSeconds: msg.RemainingSeconds,
			PhaseCountdown:   msg.PhaseCountdown,
			CycleCount:       msg.CycleCount,
		}
		if msg.Type == breath.EventSessionStopped {
			m.quitting = true
			return m, tea.Quit
		}
		return m, waitForEvent(m.events)

	case sessionEndedMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.stopper.Stop()
			m.quitting = true
			return m, tea.Quit
		case "m":
			m.controls.Mute.Toggle()
			return m, nil
		case "g":
			m.controls.Guided.Toggle()
			return m, nil
		}
	}

	return m, nil
}

// View renders the session.
func (m Model) View() string {
	if m.quitting {
		return fmt.Sprintf("Session complete: %d cycles in %s.\n",
			m.snapshot.CycleCount, formatClock(m.snapshot.ElapsedSeconds))
	}

	var sb strings.Builder

	sb.WriteString(style.Title.Render(phaseTitle(m.snapshot.Phase, m.lang)))
	sb.WriteString("  ")
	sb.WriteString(style.Counter.Render(fmt.Sprintf("%d", m.snapshot.PhaseCountdown)))
	sb.WriteString("\n\n")

	sb.WriteString(m.bar.ViewAs(m.phaseProgress()))
	sb.WriteString("\n\n")

	sb.WriteString(style.Subtitle.Render(fmt.Sprintf("%s elapsed · %s left · %d cycles",
		formatClock(m.snapshot.ElapsedSeconds),
		formatClock(m.snapshot.RemainingSeconds),
		m.snapshot.CycleCount)))
	sb.WriteString("\n\n")

	sb.WriteString(m.footer())

	return sb.String()
}

func (m Model) footer() string {
	var flags []string
	if m.controls.Mute.Read() {
		flags = append(flags, "muted")
	}
	if m.controls.Guided.Read() {
		flags = append(flags, "guided")
	}

	var sb strings.Builder
	if len(flags) > 0 {
		sb.WriteString(style.Muted.Render("[" + strings.Join(flags, " · ") + "]"))
		sb.WriteString("  ")
	}

	sb.WriteString(style.Muted.Render(
		fmt.Sprintf("%d sessions all time", m.controls.LifetimeSessions.Read())))
	sb.WriteString("\n")
	sb.WriteString(style.Help.Render(
		style.Key.Render("m") + " mute · " +
			style.Key.Render("g") + " guided · " +
			style.Key.Render("q") + " quit"))

	return sb.String()
}

// phaseProgress reports how far through the current phase the countdown is.
func (m Model) phaseProgress() float64 {
	if m.phaseSeconds <= 0 {
		return 0
	}
	progressed := float64(m.phaseSeconds-m.snapshot.PhaseCountdown) / float64(m.phaseSeconds)
	if progressed < 0 {
		return 0
	}
	if progressed > 1 {
		return 1
	}
	return progressed
}

// phaseTitle is the on-screen name for a phase. Spoken labels double as
// display names; Idle shows a settling-in prompt.
func phaseTitle(p breath.Phase, lang string) string {
	if p == breath.PhaseIdle {
		return "Get ready"
	}
	return p.Label(lang)
}

// formatClock renders seconds as mm:ss.
func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// waitForEvent delivers the next engine event as a bubbletea message.
func waitForEvent(events <-chan breath.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return sessionEndedMsg{}
		}
		return event
	}
}
