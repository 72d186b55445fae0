// Package store persists whole collections of content documents.
//
// Every collection is read and written as a unit. Writers go through
// Update, which serialises read-modify-write cycles per collection so two
// concurrent edits of the same collection cannot silently overwrite each
// other.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/discovernortheast/internal/content"
)

// ErrStorage marks failures of the backing medium (I/O, codec, database).
var ErrStorage = errors.New("storage failure")

// UpdateFunc receives the current collection and returns its replacement.
// Returning an error aborts the update without writing anything.
type UpdateFunc func(docs []content.Document) ([]content.Document, error)

// Store is implemented by every backend.
type Store interface {
	// Init makes sure the named collections exist, creating empty ones.
	Init(ctx context.Context, collections ...string) error

	// Load returns the full collection. A collection that was never
	// written is empty, not an error.
	Load(ctx context.Context, collection string) ([]content.Document, error)

	// Update performs a serialised read-modify-write of one collection.
	Update(ctx context.Context, collection string, fn UpdateFunc) error

	Close() error
}

var collectionName = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

func checkCollection(collection string) error {
	if !collectionName.MatchString(collection) {
		return fmt.Errorf("%w: invalid collection name %q", ErrStorage, collection)
	}
	return nil
}

func storageErr(op, collection string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrStorage, op, collection, err)
}

// collectionLocks hands out one mutex per collection.
type collectionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *collectionLocks) lock(collection string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[collection]
	if !ok {
		m = &sync.Mutex{}
		l.locks[collection] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
