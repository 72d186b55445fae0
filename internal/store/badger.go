package store

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"

	"github.com/discovernortheast/internal/content"
)

const badgerKeyPrefix = "collection/"

// BadgerStore keeps each collection as one JSON value under
// "collection/<name>".
type BadgerStore struct {
	locks collectionLocks
	db    *badger.DB
}

// NewBadgerStore opens a badger database in dir. An empty dir runs badger
// fully in memory.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, storageErr("open", dir, err)
	}
	return &BadgerStore{db: bdb}, nil
}

func badgerKey(collection string) []byte {
	return []byte(badgerKeyPrefix + collection)
}

func (s *BadgerStore) Init(_ context.Context, collections ...string) error {
	for _, collection := range collections {
		if err := checkCollection(collection); err != nil {
			return err
		}
		unlock := s.locks.lock(collection)
		err := s.db.Update(func(txn *badger.Txn) error {
			_, err := txn.Get(badgerKey(collection))
			if err == nil {
				return nil
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return storageErr("get", collection, err)
			}
			return txn.Set(badgerKey(collection), []byte("[]"))
		})
		unlock()
		if err != nil {
			return wrapBadger("init", collection, err)
		}
	}
	return nil
}

func (s *BadgerStore) Load(_ context.Context, collection string) ([]content.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	var docs []content.Document
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		docs, err = readBadger(txn, collection)
		return err
	})
	if err != nil {
		return nil, wrapBadger("load", collection, err)
	}
	return docs, nil
}

func (s *BadgerStore) Update(ctx context.Context, collection string, fn UpdateFunc) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	unlock := s.locks.lock(collection)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	var fnErr error
	err := s.db.Update(func(txn *badger.Txn) error {
		docs, err := readBadger(txn, collection)
		if err != nil {
			return err
		}
		next, err := fn(docs)
		if err != nil {
			fnErr = err
			return err
		}
		if next == nil {
			next = []content.Document{}
		}
		data, err := json.Marshal(next)
		if err != nil {
			return storageErr("encode", collection, err)
		}
		return txn.Set(badgerKey(collection), data)
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return wrapBadger("update", collection, err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func readBadger(txn *badger.Txn, collection string) ([]content.Document, error) {
	item, err := txn.Get(badgerKey(collection))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return []content.Document{}, nil
	}
	if err != nil {
		return nil, storageErr("get", collection, err)
	}
	data, err := item.ValueCopy(nil)
	if err != nil {
		return nil, storageErr("read", collection, err)
	}
	docs := []content.Document{}
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, storageErr("decode", collection, err)
	}
	return docs, nil
}

func wrapBadger(op, collection string, err error) error {
	if errors.Is(err, ErrStorage) {
		return err
	}
	return storageErr(op, collection, err)
}
