package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/parley"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	UserMsg     lipgloss.Style
	BotMsg      lipgloss.Style
	Strong      lipgloss.Style
	Emphasis    lipgloss.Style
	Code        lipgloss.Style
	Gutter      lipgloss.Style
	Muted       lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Spinner     lipgloss.Style
	Error       lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t parley.Theme) Styles {
	return Styles{
		UserMsg:     lipgloss.NewStyle().Foreground(ansiColor(t.UserMsg)).Bold(true),
		BotMsg:      lipgloss.NewStyle().Foreground(ansiColor(t.BotMsg)).Bold(true),
		Strong:      lipgloss.NewStyle().Bold(true),
		Emphasis:    lipgloss.NewStyle().Italic(true),
		Code:        lipgloss.NewStyle(),
		Gutter:      lipgloss.NewStyle().Foreground(ansiColor(t.Code)),
		Muted:       lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		TabActive:   lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true).Underline(true),
		TabInactive: lipgloss.NewStyle().Foreground(ansiColor(t.Muted)),
		Spinner:     lipgloss.NewStyle().Foreground(ansiColor(t.Spinner)),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
