// Package session owns the chat threads of one client installation.
//
// A [Store] holds the thread set, the active thread, and each thread's
// message log. Every mutation writes the full snapshot through to a
// [parley.Store] before it returns; write failures are logged and the
// in-memory state carries on.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/parley"
	"github.com/fwojciec/parley/format"
	parleyjson "github.com/fwojciec/parley/json"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"
)

const (
	// SnapshotKey is the key the session snapshot is stored under.
	SnapshotKey = "session"

	// Greeting seeds every new thread.
	Greeting = "Hello! How can I help you today?"

	// DefaultTitle is the title of a thread with no user messages yet.
	DefaultTitle = "New chat"

	titleWidth = 40
)

// Store is the Session Store. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	session parley.Session

	kv    parley.Store
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

// Option configures a [Store].
type Option func(*Store)

// WithLogger sets the logger. Default discards all output.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock sets the time source used for thread and greeting timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the thread id source. Default is uuid.NewString.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// Open restores the session saved in kv. Absent, unreadable, or malformed
// state is replaced by a fresh session with a single greeting thread, so
// Open never fails.
func Open(kv parley.Store, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		log:   zerolog.Nop(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}

	restored, err := s.restore()
	if err != nil {
		if errors.Is(err, parley.ErrNotFound) {
			s.log.Debug().Msg("no saved session, starting fresh")
		} else {
			s.log.Warn().Err(err).Msg("discarding saved session")
		}
		s.createThread()
		return s
	}
	s.session = restored
	s.log.Debug().Int("threads", len(restored.Threads)).Str("active", restored.ActiveThreadID).Msg("session restored")
	return s
}

// Restore decodes a persisted snapshot and checks the session invariants.
func Restore(data []byte) (parley.Session, error) {
	sess, err := parleyjson.UnmarshalSession(data)
	if err != nil {
		return parley.Session{}, err
	}
	if err := sess.Validate(); err != nil {
		return parley.Session{}, fmt.Errorf("restore: %w", err)
	}
	return sess, nil
}

func (s *Store) restore() (parley.Session, error) {
	data, err := s.kv.Get(SnapshotKey)
	if err != nil {
		return parley.Session{}, err
	}
	return Restore(data)
}

// CreateThread adds a thread seeded with the greeting and makes it active.
func (s *Store) CreateThread() parley.Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createThread()
}

func (s *Store) createThread() parley.Thread {
	id := s.newID()
	for {
		if _, exists := s.session.Thread(id); !exists {
			break
		}
		id = s.newID()
	}
	now := s.now()
	t := parley.Thread{
		ID:        id,
		Title:     DefaultTitle,
		CreatedAt: now,
		Messages: []parley.Message{
			parley.NewBotMessage(Greeting, format.Format(Greeting), now),
		},
	}
	s.session.Threads = append(s.session.Threads, t)
	s.session.ActiveThreadID = id
	s.persist()
	return t.Clone()
}

// AppendMessage appends msg to the named thread. The first user message of
// a thread still carrying DefaultTitle becomes its title.
func (s *Store) AppendMessage(threadID string, msg parley.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(threadID)
	if i < 0 {
		return fmt.Errorf("append to %q: %w", threadID, parley.ErrUnknownThread)
	}
	t := &s.session.Threads[i]
	if msg.Sender == parley.SenderUser && t.Title == DefaultTitle && !hasUserMessage(t.Messages) {
		if title := Title(msg.Text); title != "" {
			t.Title = title
		}
	}
	t.Messages = append(t.Messages, msg)
	s.persist()
	return nil
}

// SetActiveThread makes the named thread active.
func (s *Store) SetActiveThread(threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index(threadID) < 0 {
		return fmt.Errorf("activate %q: %w", threadID, parley.ErrUnknownThread)
	}
	s.session.ActiveThreadID = threadID
	s.persist()
	return nil
}

// Thread returns a copy of the named thread.
func (s *Store) Thread(threadID string) (parley.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.session.Thread(threadID)
	if !ok {
		return parley.Thread{}, fmt.Errorf("thread %q: %w", threadID, parley.ErrUnknownThread)
	}
	return t.Clone(), nil
}

// ActiveThread returns a copy of the active thread.
func (s *Store) ActiveThread() parley.Thread {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, _ := s.session.ActiveThread()
	return t.Clone()
}

// Snapshot returns a deep copy of the session.
func (s *Store) Snapshot() parley.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Clone()
}

// Persist writes the current snapshot to the backing store.
func (s *Store) Persist() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist()
}

// persist must be called with mu held.
func (s *Store) persist() {
	data, err := parleyjson.MarshalSession(s.session)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal session")
		return
	}
	if err := s.kv.Put(SnapshotKey, data); err != nil {
		s.log.Error().Err(err).Str("key", SnapshotKey).Msg("persist session")
	}
}

func (s *Store) index(threadID string) int {
	for i, t := range s.session.Threads {
		if t.ID == threadID {
			return i
		}
	}
	return -1
}

func hasUserMessage(msgs []parley.Message) bool {
	for _, m := range msgs {
		if m.Sender == parley.SenderUser {
			return true
		}
	}
	return false
}

// Title derives a thread title from text: its first non-blank line,
// truncated to fit the title width.
func Title(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return runewidth.Truncate(line, titleWidth, "…")
		}
	}
	return ""
}
