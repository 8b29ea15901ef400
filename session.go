package parley

import "time"

// Thread is one independent conversation with its own ordered message log.
type Thread struct {
	ID        string
	Title     string
	CreatedAt time.Time
	Messages  []Message
}

// Clone returns a copy of t that shares no message slice with it.
func (t Thread) Clone() Thread {
	t.Messages = append([]Message(nil), t.Messages...)
	return t
}

// Session is the full client-side chat state.
type Session struct {
	// Threads are kept in creation order. IDs are unique.
	Threads        []Thread
	ActiveThreadID string
	// Pending reports an outstanding completion. It is never persisted.
	Pending bool
}

// Thread returns the thread with the given id.
func (s Session) Thread(id string) (Thread, bool) {
	for _, t := range s.Threads {
		if t.ID == id {
			return t, true
		}
	}
	return Thread{}, false
}

// ActiveThread returns the thread named by ActiveThreadID.
func (s Session) ActiveThread() (Thread, bool) {
	return s.Thread(s.ActiveThreadID)
}

// Validate reports whether s satisfies the session invariants: at least one
// thread, unique non-empty ids, no empty thread, and an active id that
// names an existing thread.
func (s Session) Validate() error {
	if len(s.Threads) == 0 {
		return ErrEmptySession
	}
	seen := make(map[string]bool, len(s.Threads))
	for _, t := range s.Threads {
		if t.ID == "" || seen[t.ID] {
			return ErrInvalidSession
		}
		if len(t.Messages) == 0 {
			return ErrInvalidSession
		}
		seen[t.ID] = true
	}
	if !seen[s.ActiveThreadID] {
		return ErrUnknownThread
	}
	return nil
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	threads := make([]Thread, len(s.Threads))
	for i, t := range s.Threads {
		threads[i] = t.Clone()
	}
	s.Threads = threads
	return s
}
