package parley

import "context"

// Completer produces one model reply. history is the thread as it stood
// before userText. Implementations make exactly one attempt and return a
// *CompletionError on failure.
type Completer interface {
	Complete(ctx context.Context, history []Message, userText string) (string, error)
}

// Store is a key-value byte store scoped to the client installation.
// Get returns ErrNotFound for a missing key.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}
