package store

import (
	"context"
	"sync"

	"github.com/discovernortheast/internal/content"
)

// MemoryStore keeps collections in process memory. Documents are cloned on
// the way in and out so callers never share maps with the store.
type MemoryStore struct {
	locks collectionLocks

	mu   sync.RWMutex
	data map[string][]content.Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]content.Document)}
}

// Seed replaces a collection wholesale. Intended for tests and fixtures.
func (s *MemoryStore) Seed(collection string, docs []content.Document) {
	s.mu.Lock()
	s.data[collection] = cloneDocs(docs)
	s.mu.Unlock()
}

func (s *MemoryStore) Init(_ context.Context, collections ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, collection := range collections {
		if err := checkCollection(collection); err != nil {
			return err
		}
		if _, ok := s.data[collection]; !ok {
			s.data[collection] = []content.Document{}
		}
	}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, collection string) ([]content.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDocs(s.data[collection]), nil
}

func (s *MemoryStore) Update(ctx context.Context, collection string, fn UpdateFunc) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	unlock := s.locks.lock(collection)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	docs := cloneDocs(s.data[collection])
	s.mu.RUnlock()

	next, err := fn(docs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data[collection] = cloneDocs(next)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func cloneDocs(docs []content.Document) []content.Document {
	out := make([]content.Document, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Clone())
	}
	return out
}
