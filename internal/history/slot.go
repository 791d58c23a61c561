package history

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrSlotNotFound is returned by Slot.Read when nothing is stored.
var ErrSlotNotFound = errors.New("history slot not found")

// Slot is a single named key-value entry in durable storage.
type Slot interface {
	// Read returns the stored payload or ErrSlotNotFound.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored payload.
	Write(ctx context.Context, payload []byte) error

	// Remove deletes the entry. Removing a missing entry is not an error.
	Remove(ctx context.Context) error
}

// MemorySlot is a Slot kept in process memory.
type MemorySlot struct {
	mu      sync.Mutex
	payload []byte
	present bool
}

// NewMemorySlot returns an empty MemorySlot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

// Read implements Slot.
func (m *MemorySlot) Read(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.present {
		return nil, ErrSlotNotFound
	}
	return slices.Clone(m.payload), nil
}

// Write implements Slot.
func (m *MemorySlot) Write(_ context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = slices.Clone(payload)
	m.present = true
	return nil
}

// Remove implements Slot.
func (m *MemorySlot) Remove(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = nil
	m.present = false
	return nil
}

// Exists reports whether a payload is stored.
func (m *MemorySlot) Exists() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.present
}
