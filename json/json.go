// Package json persists [parley.Session] snapshots as versioned JSON and
// provides a file-backed [parley.Store].
package json

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/parley"
)

// envelope is the v1 wire format for a persisted session.
type envelope struct {
	Version        int         `json:"version"`
	ActiveThreadID string      `json:"active_thread_id"`
	Threads        []threadDTO `json:"threads"`
}

type threadDTO struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	CreatedAt time.Time    `json:"created_at"`
	Messages  []messageDTO `json:"messages"`
}

// MarshalSession serializes a Session to JSON in v1 envelope format.
// Pending is not persisted.
func MarshalSession(s parley.Session) ([]byte, error) {
	env := envelope{
		Version:        1,
		ActiveThreadID: s.ActiveThreadID,
		Threads:        make([]threadDTO, len(s.Threads)),
	}
	for i, t := range s.Threads {
		dto := threadDTO{
			ID:        t.ID,
			Title:     t.Title,
			CreatedAt: t.CreatedAt,
			Messages:  make([]messageDTO, len(t.Messages)),
		}
		for j, m := range t.Messages {
			md, err := marshalMessage(m)
			if err != nil {
				return nil, fmt.Errorf("thread %d: message %d: %w", i, j, err)
			}
			dto.Messages[j] = md
		}
		env.Threads[i] = dto
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalSession deserializes a Session from JSON in v1 envelope format.
// It does not check session invariants; see [parley.Session.Validate].
func UnmarshalSession(data []byte) (parley.Session, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return parley.Session{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return parley.Session{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	threads := make([]parley.Thread, len(env.Threads))
	for i, dto := range env.Threads {
		msgs := make([]parley.Message, len(dto.Messages))
		for j, md := range dto.Messages {
			m, err := unmarshalMessage(md)
			if err != nil {
				return parley.Session{}, fmt.Errorf("thread %d: message %d: %w", i, j, err)
			}
			msgs[j] = m
		}
		threads[i] = parley.Thread{
			ID:        dto.ID,
			Title:     dto.Title,
			CreatedAt: dto.CreatedAt,
			Messages:  msgs,
		}
	}
	return parley.Session{
		Threads:        threads,
		ActiveThreadID: env.ActiveThreadID,
	}, nil
}
