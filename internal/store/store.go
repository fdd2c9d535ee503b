// Package store persists the application's records. All three collections
// live in one serialized aggregate (model.AppData) kept by a Backend, and
// every mutation is a whole-aggregate read-modify-write.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dukerupert/chorecal/internal/model"
)

// Namespace is the key the aggregate is stored under.
const Namespace = "chore-manager-data"

// Backend reads and writes the serialized aggregate. Load returns nil data
// and a nil error when nothing has been stored yet.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}

// ErrUnreadable is returned by mutations when the stored aggregate cannot be
// loaded; writing would otherwise replace it with an empty dataset.
var ErrUnreadable = errors.New("stored data is unreadable")

type Store struct {
	mu      sync.Mutex
	backend Backend
	logger  *slog.Logger
}

func New(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger}
}

func emptyData() model.AppData {
	var d model.AppData
	d.Normalize()
	return d
}

func (s *Store) load(ctx context.Context) (model.AppData, error) {
	raw, err := s.backend.Load(ctx)
	if err != nil {
		return emptyData(), fmt.Errorf("load app data: %w", err)
	}
	if len(raw) == 0 {
		return emptyData(), nil
	}

	var d model.AppData
	if err := json.Unmarshal(raw, &d); err != nil {
		return emptyData(), fmt.Errorf("decode app data: %w", err)
	}
	d.Normalize()
	return d, nil
}

// Data returns a snapshot of the aggregate. Storage failures are logged and
// yield an empty dataset.
func (s *Store) Data(ctx context.Context) model.AppData {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load(ctx)
	if err != nil {
		s.logger.Error("falling back to empty dataset", "error", err)
	}
	return d
}

// Load returns the aggregate or, when it cannot be read, an error wrapping
// ErrUnreadable. Callers that copy data elsewhere use it instead of Data so
// a failed read is never mistaken for an empty dataset.
func (s *Store) Load(ctx context.Context) (model.AppData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load(ctx)
	if err != nil {
		return model.AppData{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return d, nil
}

// Update runs fn against the current aggregate and saves the result. If fn
// returns an error nothing is written. Updates are serialized, so fn sees a
// snapshot no other mutation can change underneath it.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load(ctx)
	if err != nil {
		s.logger.Error("refusing to overwrite unreadable data", "error", err)
		return fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	tx := &Tx{data: &d}
	if err := fn(tx); err != nil {
		return err
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode app data: %w", err)
	}
	if err := s.backend.Save(ctx, raw); err != nil {
		return fmt.Errorf("save app data: %w", err)
	}
	return nil
}

// Restore overwrites the stored aggregate with d without reading the current
// contents, so it also recovers a store whose data is unreadable.
func (s *Store) Restore(ctx context.Context, d model.AppData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.Normalize()
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode app data: %w", err)
	}
	if err := s.backend.Save(ctx, raw); err != nil {
		return fmt.Errorf("save app data: %w", err)
	}
	return nil
}

// Clear removes everything stored under the namespace.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Clear(ctx); err != nil {
		return fmt.Errorf("clear app data: %w", err)
	}
	return nil
}

// Tx is the mutable view of the aggregate handed to Update callbacks.
type Tx struct {
	data *model.AppData
}

type record interface {
	RecordID() string
}

// upsert replaces the record with a matching id, or appends it.
func upsert[T record](items []T, item T) []T {
	for i := range items {
		if items[i].RecordID() == item.RecordID() {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func remove[T record](items []T, keep func(T) bool) []T {
	out := items[:0]
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func find[T record](items []T, id string) (T, bool) {
	for _, item := range items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
