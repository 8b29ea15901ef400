// Package bubbletea provides a Bubble Tea TUI for threaded chat.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/parley"
)

// Engine is the conversation engine driven by the TUI.
type Engine interface {
	Submit(ctx context.Context, userText string)
	StartNewThread() parley.Thread
	SetActiveThread(threadID string) error
	Snapshot() parley.Session
}

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. When ctx is cancelled, the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// SubmitDoneMsg signals that a submitted message has been answered.
type SubmitDoneMsg struct{}
