// Package mock provides test doubles for parley interfaces using function fields.
package mock

import (
	"context"
	"sync"

	"github.com/fwojciec/parley"
)

// Interface compliance checks.
var (
	_ parley.Completer = (*Completer)(nil)
	_ parley.Store     = (*Store)(nil)
	_ parley.Store     = (*MemoryStore)(nil)
)

// Completer is a test double for parley.Completer.
// Set CompleteFn before calling Complete.
type Completer struct {
	CompleteFn func(ctx context.Context, history []parley.Message, userText string) (string, error)
}

// Complete delegates to CompleteFn.
func (c *Completer) Complete(ctx context.Context, history []parley.Message, userText string) (string, error) {
	return c.CompleteFn(ctx, history, userText)
}

// Store is a test double for parley.Store.
// Set the function fields for the methods you need.
type Store struct {
	GetFn func(key string) ([]byte, error)
	PutFn func(key string, value []byte) error
}

// Get delegates to GetFn.
func (s *Store) Get(key string) ([]byte, error) {
	return s.GetFn(key)
}

// Put delegates to PutFn.
func (s *Store) Put(key string, value []byte) error {
	return s.PutFn(key, value)
}

// MemoryStore is an in-memory parley.Store that records every Put. The
// zero value is ready to use.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
	puts int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get returns a copy of the value under key.
func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, parley.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put stores a copy of value under key.
func (s *MemoryStore) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = make(map[string][]byte)
	}
	s.data[key] = append([]byte(nil), value...)
	s.puts++
	return nil
}

// Puts returns how many times Put was called.
func (s *MemoryStore) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}
