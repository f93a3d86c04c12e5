package store

import (
	"context"
	"errors"
	"sync"
)

// ErrUnavailable is returned by Memory when a failure is being simulated.
var ErrUnavailable = errors.New("storage unavailable")

// Memory is an in-process key-value store. It stands in for the SQLite store
// when the database cannot be opened, so preferences last for the process only.
type Memory struct {
	mu   sync.Mutex
	data map[string]string

	// FailGets and FailSets make every read or write return ErrUnavailable.
	FailGets bool
	FailSets bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGets {
		return "", false, ErrUnavailable
	}
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSets {
		return ErrUnavailable
	}
	m.data[key] = value
	return nil
}

// Delete removes key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
