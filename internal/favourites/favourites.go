// Package favourites keeps the user's favourited catalog items and writes
// the whole set back to the key-value store after every change.
package favourites

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/joestump/animeshelf/internal/catalog"
	"github.com/joestump/animeshelf/internal/kv"
	"github.com/joestump/animeshelf/internal/metrics"
)

// Enqueuer schedules a background write. *kv.Writer satisfies it.
type Enqueuer interface {
	Enqueue(key, value string)
}

// Store owns the favourite set. The in-memory set is authoritative; the
// persisted copy may lag behind it.
type Store struct {
	kv     kv.Store
	writer Enqueuer
	log    *logrus.Logger

	mu    sync.RWMutex
	items []catalog.Item
	index map[int]int // id -> position in items
}

func NewStore(store kv.Store, writer Enqueuer, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.New()
	}
	return &Store{
		kv:     store,
		writer: writer,
		log:    log,
		index:  make(map[int]int),
	}
}

// Load replaces the in-memory set with the persisted one. A missing,
// unreadable or undecodable value yields an empty set; Load never fails.
func (s *Store) Load(ctx context.Context) []catalog.Item {
	loaded := s.read(ctx)

	s.mu.Lock()
	s.items = nil
	s.index = make(map[int]int, len(loaded))
	for _, it := range loaded {
		// Older data may hold the same id twice; keep the first.
		if _, dup := s.index[it.ID]; dup {
			continue
		}
		s.index[it.ID] = len(s.items)
		s.items = append(s.items, it)
	}
	out := append([]catalog.Item(nil), s.items...)
	s.mu.Unlock()

	return out
}

func (s *Store) read(ctx context.Context) []catalog.Item {
	raw, err := s.kv.Get(ctx, kv.KeyFavourites)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.log.WithError(err).Warn("favourites: read failed, starting empty")
		return nil
	}

	var items []catalog.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.WithError(err).Warn("favourites: stored value undecodable, starting empty")
		return nil
	}
	return items
}

// Toggle removes item if its id is present and appends it otherwise. The
// resulting set is returned immediately and written in the background.
func (s *Store) Toggle(item catalog.Item) []catalog.Item {
	s.mu.Lock()
	direction := "added"
	if pos, ok := s.index[item.ID]; ok {
		direction = "removed"
		s.items = append(s.items[:pos:pos], s.items[pos+1:]...)
		s.reindex()
	} else {
		s.index[item.ID] = len(s.items)
		s.items = append(s.items, item)
	}
	out := append([]catalog.Item(nil), s.items...)
	s.mu.Unlock()

	metrics.FavouriteTogglesTotal.WithLabelValues(direction).Inc()
	s.log.WithFields(logrus.Fields{"id": item.ID, "direction": direction}).Debug("favourite toggled")
	s.persist(out)
	return out
}

// reindex rebuilds the id index. Caller holds s.mu.
func (s *Store) reindex() {
	s.index = make(map[int]int, len(s.items))
	for i, it := range s.items {
		s.index[it.ID] = i
	}
}

func (s *Store) persist(items []catalog.Item) {
	if items == nil {
		items = []catalog.Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		s.log.WithError(err).Error("favourites: encode failed, not persisted")
		return
	}
	s.writer.Enqueue(kv.KeyFavourites, string(b))
}

// IsFavourite reports membership without any I/O.
func (s *Store) IsFavourite(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// List returns the favourites in the order they were added.
func (s *Store) List() []catalog.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]catalog.Item(nil), s.items...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
