// Package chat coordinates the session store and a completer for each user
// submission.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/parley"
	"github.com/fwojciec/parley/format"
	"github.com/fwojciec/parley/session"
	"github.com/rs/zerolog"
)

// Apology is the reply recorded when a completion fails.
const Apology = "Sorry, I encountered an error. Please try again."

// Engine is the Session Engine. At most one completion is outstanding per
// Engine; submissions made while one is pending are dropped.
type Engine struct {
	store     *session.Store
	completer parley.Completer
	log       zerolog.Logger
	now       func() time.Time

	mu      sync.Mutex
	pending bool
}

// Option configures an [Engine].
type Option func(*Engine)

// WithLogger sets the logger. Default discards all output.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock sets the time source for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine over store and completer.
func New(store *session.Store, completer parley.Completer, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		completer: completer,
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Submit sends userText to the active thread and records the reply. Blank
// text, or a call made while another submission is pending, is a no-op.
//
// Submit blocks until the reply (or the apology, on failure) is appended.
// Cancelling ctx does not abort the completion; the reply is still
// recorded. The pending flag is cleared before Submit returns.
func (e *Engine) Submit(ctx context.Context, userText string) {
	if strings.TrimSpace(userText) == "" {
		return
	}
	if !e.begin() {
		e.log.Debug().Msg("submission dropped: completion pending")
		return
	}
	defer e.end()

	thread := e.store.ActiveThread()
	history := thread.Messages
	log := e.log.With().Str("thread_id", thread.ID).Int("history", len(history)).Logger()

	if err := e.store.AppendMessage(thread.ID, parley.NewUserMessage(userText, e.now())); err != nil {
		log.Error().Err(err).Msg("append user message")
		return
	}

	start := e.now()
	reply, err := e.completer.Complete(context.WithoutCancel(ctx), history, userText)
	var msg parley.Message
	if err != nil {
		ev := log.Error().Err(err).Dur("elapsed", e.now().Sub(start))
		var ce *parley.CompletionError
		if errors.As(err, &ce) {
			ev = ev.Str("kind", ce.Kind.Error()).Str("detail", ce.Message)
		}
		ev.Msg("completion failed")
		msg = parley.NewBotMessage(Apology, format.Format(Apology), e.now())
	} else {
		log.Info().Dur("elapsed", e.now().Sub(start)).Int("reply_len", len(reply)).Msg("completion received")
		msg = parley.NewBotMessage(reply, format.Format(reply), e.now())
	}

	if err := e.store.AppendMessage(thread.ID, msg); err != nil {
		log.Error().Err(err).Msg("append bot message")
	}
}

// StartNewThread creates a thread and makes it active. It does not affect a
// pending submission, whose reply still lands in its own thread.
func (e *Engine) StartNewThread() parley.Thread {
	return e.store.CreateThread()
}

// SetActiveThread switches the active thread.
func (e *Engine) SetActiveThread(threadID string) error {
	return e.store.SetActiveThread(threadID)
}

// Pending reports whether a submission is outstanding.
func (e *Engine) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// Snapshot returns the current session, including the pending flag.
func (e *Engine) Snapshot() parley.Session {
	s := e.store.Snapshot()
	s.Pending = e.Pending()
	return s
}

func (e *Engine) begin() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending {
		return false
	}
	e.pending = true
	return true
}

func (e *Engine) end() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = false
}
