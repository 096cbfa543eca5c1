// Package storage holds the single-slot persistence port used by the report
// store and its adapters.
//
// A slot stores one opaque blob under one key. Load returns (nil, nil) when
// nothing has been written yet.
package storage

import (
	"context"
	"sync"
)

// DefaultKey is the slot key used when none is configured.
const DefaultKey = "relatorio-mei-data"

// Slot reads and writes one blob.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// MemorySlot keeps the blob in process memory. Used by tests and by the
// memory backend.
type MemorySlot struct {
	mu   sync.RWMutex
	data []byte
	// SaveErr, when set, is returned by every Save. Tests use it to simulate
	// an unavailable slot.
	SaveErr error
	saves   int
}

// NewMemorySlot returns a slot preloaded with data (may be nil).
func NewMemorySlot(data []byte) *MemorySlot {
	return &MemorySlot{data: clone(data)}
}

func (m *MemorySlot) Load(ctx context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(m.data), nil
}

func (m *MemorySlot) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = clone(data)
	m.saves++
	return nil
}

// Saves returns how many successful writes happened.
func (m *MemorySlot) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
