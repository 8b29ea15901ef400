package bubbletea_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/fwojciec/parley"
	bt "github.com/fwojciec/parley/bubbletea"
	"github.com/fwojciec/parley/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	m := bt.New(newEngine(t, reply("ok")), parley.DefaultTheme())

	assert.False(t, m.Pending())
	assert.NoError(t, m.Err())
	assert.Len(t, m.Session().Threads, 1)
	assert.Equal(t, "Initializing...", m.View())
}

func TestModel_Update(t *testing.T) {
	t.Parallel()

	t.Run("window size initializes viewport", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newEngine(t, reply("ok")))

		assert.Equal(t, 80, m.Viewport.Width)
		assert.Equal(t, 18, m.Viewport.Height) // 24 - tabs - status - input - 3 separators
		view := m.View()
		assert.Contains(t, view, session.Greeting)
		assert.Contains(t, view, session.DefaultTitle)
		assert.Contains(t, view, "Enter to send")
	})

	t.Run("resize updates viewport dimensions", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newEngine(t, reply("ok")))
		m = updateModel(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

		assert.Equal(t, 120, m.Viewport.Width)
		assert.Equal(t, 34, m.Viewport.Height)
	})

	t.Run("enter with blank input does nothing", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newEngine(t, reply("ok")))
		m.Input.SetValue("   ")
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		model, ok := updated.(bt.Model)
		require.True(t, ok)

		assert.Nil(t, cmd)
		assert.False(t, model.Pending())
	})

	t.Run("enter submits and reply is shown when done", func(t *testing.T) {
		t.Parallel()

		engine := newEngine(t, reply("Hi **there**"))
		m := initModel(t, engine)
		m.Input.SetValue("hello")

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		model, ok := updated.(bt.Model)
		require.True(t, ok)
		assert.True(t, model.Pending())
		assert.Empty(t, model.Input.Value())

		done, ok := runUntilDone(t, cmd)
		require.True(t, ok)
		model = updateModel(t, model, done)

		assert.False(t, model.Pending())
		thread, ok := model.Session().ActiveThread()
		require.True(t, ok)
		require.Len(t, thread.Messages, 3)
		assert.Equal(t, "hello", thread.Messages[1].Text)
		assert.Equal(t, "Hi **there**", thread.Messages[2].Text)
		assert.Equal(t, "hello", thread.Title)
		assert.Contains(t, model.View(), "Hi there")
	})

	t.Run("enter while pending is ignored", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newEngine(t, reply("ok")))
		m.Input.SetValue("first")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		require.True(t, m.Pending())

		m.Input.SetValue("second")
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		model, ok := updated.(bt.Model)
		require.True(t, ok)

		assert.Nil(t, cmd)
		assert.Equal(t, "second", model.Input.Value())
	})

	t.Run("ctrl+n starts and activates a thread", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newEngine(t, reply("ok")))
		first := m.Session().ActiveThreadID
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})

		s := m.Session()
		require.Len(t, s.Threads, 2)
		assert.NotEqual(t, first, s.ActiveThreadID)
		assert.Equal(t, s.Threads[1].ID, s.ActiveThreadID)
	})

	t.Run("ctrl+left and ctrl+right cycle threads", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newEngine(t, reply("ok")))
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
		ids := []string{m.Session().Threads[0].ID, m.Session().Threads[1].ID, m.Session().Threads[2].ID}
		require.Equal(t, ids[2], m.Session().ActiveThreadID)

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlRight})
		assert.Equal(t, ids[0], m.Session().ActiveThreadID)

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlLeft})
		assert.Equal(t, ids[2], m.Session().ActiveThreadID)

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlLeft})
		assert.Equal(t, ids[1], m.Session().ActiveThreadID)
	})

	t.Run("cycling a single thread is a no-op", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newEngine(t, reply("ok")))
		id := m.Session().ActiveThreadID
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlRight})
		assert.Equal(t, id, m.Session().ActiveThreadID)
	})

	t.Run("ctrl+c quits", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, newEngine(t, reply("ok")))
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	})
}

func TestModel_Teatest(t *testing.T) {
	t.Parallel()

	t.Run("submit round trip", func(t *testing.T) {
		t.Parallel()

		engine := newEngine(t, func(_ context.Context, history []parley.Message, userText string) (string, error) {
			return "Echo: " + userText, nil
		})
		tm := teatest.NewTestModel(t, bt.New(engine, parley.DefaultTheme()),
			teatest.WithInitialTermSize(80, 24),
		)

		tm.Type("ping")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("Echo: ping")) &&
				bytes.Contains(out, []byte("Enter to send"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
		final, ok := fm.(bt.Model)
		require.True(t, ok)
		assert.False(t, final.Pending())
		thread, ok := engine.Snapshot().ActiveThread()
		require.True(t, ok)
		assert.Len(t, thread.Messages, 3)
	})

	t.Run("failed completion shows apology", func(t *testing.T) {
		t.Parallel()

		engine := newEngine(t, func(context.Context, []parley.Message, string) (string, error) {
			return "", &parley.CompletionError{Kind: parley.ErrTransport, Message: "connection refused"}
		})
		tm := teatest.NewTestModel(t, bt.New(engine, parley.DefaultTheme()),
			teatest.WithInitialTermSize(100, 24),
		)

		tm.Type("hello")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("Sorry, I encountered an error."))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
		tm.WaitFinished(t, teatest.WithFinalTimeout(5*time.Second))
	})
}
