package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/parley"
	bt "github.com/fwojciec/parley/bubbletea"
	"github.com/fwojciec/parley/chat"
	"github.com/fwojciec/parley/mock"
	"github.com/fwojciec/parley/session"
	"github.com/stretchr/testify/require"
)

// newEngine creates an engine over an in-memory store that answers with
// complete.
func newEngine(t *testing.T, complete func(ctx context.Context, history []parley.Message, userText string) (string, error)) *chat.Engine {
	t.Helper()
	store := session.Open(mock.NewMemoryStore())
	return chat.New(store, &mock.Completer{CompleteFn: complete})
}

// reply answers every submission with text.
func reply(text string) func(context.Context, []parley.Message, string) (string, error) {
	return func(context.Context, []parley.Message, string) (string, error) {
		return text, nil
	}
}

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, engine bt.Engine) bt.Model {
	t.Helper()
	m := bt.New(engine, parley.DefaultTheme())
	return updateModel(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// runUntilDone executes cmd, descending into batches, and returns the
// first SubmitDoneMsg it produces.
func runUntilDone(t *testing.T, cmd tea.Cmd) (bt.SubmitDoneMsg, bool) {
	t.Helper()
	if cmd == nil {
		return bt.SubmitDoneMsg{}, false
	}
	switch msg := cmd().(type) {
	case bt.SubmitDoneMsg:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if done, ok := runUntilDone(t, c); ok {
				return done, true
			}
		}
	}
	return bt.SubmitDoneMsg{}, false
}
