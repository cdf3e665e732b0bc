// Package storage provides the persistent key-value slots the storefront
// client keeps between runs: session credentials and cart contents.
//
// The adapter is deliberately dumb: string in, string out, no serialization.
// Callers own their slot encodings. Every implementation must be safe to use
// in a headless or sandboxed context where persistence is unavailable; Noop
// exists precisely for that case.
package storage

import "sync"

// Slot keys. These names are a compatibility surface shared with other
// storefront clients; changing them orphans previously persisted state.
const (
	KeyAccessToken  = "velora_access_token"
	KeyRefreshToken = "velora_refresh_token"
	KeyUser         = "velora_user"
	KeyCart         = "velora_cart"
)

// Storage is the persistent slot adapter.
type Storage interface {
	// Get returns the slot value and whether the slot is present.
	Get(key string) (string, bool)
	// Set writes the slot value, replacing any previous one.
	Set(key, value string) error
	// Remove deletes the slot. Removing an absent slot is not an error.
	Remove(key string) error
}

// Memory is a map-backed Storage. It is the fallback when no durable backend
// is available and the standard double in tests.
type Memory struct {
	mu    sync.Mutex
	slots map[string]string
}

// NewMemory creates an empty in-memory Storage.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.slots[key]
	return v, ok
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = value
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

// Noop is a Storage that persists nothing: every Get misses and writes
// succeed silently. It keeps the rest of the client functional when
// persistence is unavailable.
type Noop struct{}

func (Noop) Get(string) (string, bool) { return "", false }
func (Noop) Set(string, string) error  { return nil }
func (Noop) Remove(string) error       { return nil }
