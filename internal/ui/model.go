// ABOUTME: Bubbletea model for the game TUI
// ABOUTME: Holds the latest frame and renders the playfield with a status header
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Lines reserved around the playfield
const (
	headerLines = 2
	footerLines = 1
	debugLines  = 1
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	gameOverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().Faint(true)
)

// FrameMsg carries a new frame into the model
type FrameMsg Frame

// Model represents the TUI state
type Model struct {
	frame    Frame
	hasFrame bool

	showDebug bool
	quitting  bool
	control   *Control

	// Dimensions
	width  int
	height int
}

// NewModel creates a new TUI model. control may be nil.
func NewModel(control *Control) Model {
	return Model{control: control}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case FrameMsg:
		m.frame = Frame(msg)
		m.hasFrame = true
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Bye.\n"
	}
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())

	rows := m.height - headerLines - footerLines
	if m.showDebug {
		rows -= debugLines
	}
	if m.hasFrame && rows > 0 {
		b.WriteString(Draw(m.frame, m.width, rows))
		b.WriteString("\n")
	}

	if m.showDebug {
		b.WriteString(m.renderDebug())
	}
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title and the pitch/score status line
func (m Model) renderHeader() string {
	snap := m.frame.Snapshot
	return fmt.Sprintf("%s\n%s %s  %s %s  %s %s  %s %s\n",
		titleStyle.Render("VoiceFlap"),
		labelStyle.Render("Score:"), valueStyle.Render(fmt.Sprintf("%d", snap.Score)),
		labelStyle.Render("Pitch:"), valueStyle.Render(m.frame.Pitch.String()),
		labelStyle.Render("Note:"), valueStyle.Render(m.frame.Note()),
		labelStyle.Render("State:"), valueStyle.Render(snap.Phase.String()),
	)
}

// renderDebug renders frame timing and the session id
func (m Model) renderDebug() string {
	snap := m.frame.Snapshot
	return fmt.Sprintf("frames %d  t %.0f  y %.1f  session %s\n",
		snap.Frames, snap.Time, snap.Character.Y, truncate(m.frame.SessionID, 36))
}

// renderFooter renders the game over banner or keyboard shortcuts
func (m Model) renderFooter() string {
	if m.hasFrame && m.frame.GameOver() {
		return gameOverStyle.Render(fmt.Sprintf("GAME OVER! Score: %d", m.frame.Snapshot.Score)) +
			helpStyle.Render("  q:Quit")
	}
	return helpStyle.Render("Sing to fly  d:Debug  q:Quit")
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.control.RequestQuit()
		return m, tea.Quit
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
