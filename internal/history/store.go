package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/djimit/PhishLens/internal/model"
)

// ErrItemNotFound is returned when a history lookup has no match.
var ErrItemNotFound = errors.New("history item not found")

// Store is the bounded scan history.
type Store struct {
	mu     sync.Mutex
	items  []model.HistoryItem
	slot   Slot
	limit  int
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report corrupt data and write failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates an empty Store backed by slot. Call Load to read the
// persisted history.
func NewStore(slot Slot, opts ...Option) *Store {
	s := &Store{
		slot:  slot,
		limit: model.HistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Load replaces the in-memory history with the persisted one.
// Missing or corrupt data yields an empty history; the problem is logged,
// never returned.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil

	data, err := s.slot.Read(ctx)
	if errors.Is(err, ErrSlotNotFound) {
		s.logger.Debug("no persisted history")
		return
	}
	if err != nil {
		s.logger.Warn("cannot read history, starting empty", "error", err)
		return
	}

	items, err := model.UnmarshalHistory(data)
	if err != nil {
		s.logger.Warn("corrupt history, starting empty", "error", err)
		return
	}

	if len(items) > s.limit {
		items = items[:s.limit]
	}
	s.items = items
	s.logger.Debug("history loaded", "items", len(items))
}

// Record prepends item, drops the oldest entries beyond the limit and
// writes the new list through to the slot. On a write error the in-memory
// history still contains the item.
func (s *Store) Record(ctx context.Context, item model.HistoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.HistoryItem, 0, min(len(s.items)+1, s.limit))
	items = append(items, item.Clone())
	for _, it := range s.items {
		if len(items) == s.limit {
			break
		}
		items = append(items, it)
	}
	s.items = items

	return s.persist(ctx)
}

// Clear empties the history and removes the persisted slot entirely.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if err := s.slot.Remove(ctx); err != nil {
		return fmt.Errorf("remove history: %w", err)
	}
	return nil
}

// List returns a copy of the history, newest first.
func (s *Store) List() []model.HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.HistoryItem, len(s.items))
	for i, it := range s.items {
		out[i] = it.Clone()
	}
	return out
}

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Get returns a copy of the item with the given id.
func (s *Store) Get(id string) (model.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.items {
		if it.ID == id {
			return it.Clone(), nil
		}
	}
	return model.HistoryItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

// At returns a copy of the item at index i (0 is the newest).
func (s *Store) At(i int) (model.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.items) {
		return model.HistoryItem{}, fmt.Errorf("%w: index %d", ErrItemNotFound, i)
	}
	return s.items[i].Clone(), nil
}

// persist writes the current list. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) error {
	data, err := model.MarshalHistory(s.items)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.slot.Write(ctx, data); err != nil {
		s.logger.Error("failed to persist history", "error", err)
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
