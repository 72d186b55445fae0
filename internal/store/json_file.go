package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/discovernortheast/internal/content"
)

// JSONFileStore keeps each collection as a pretty-printed JSON array in
// dir/<collection>.json, replaced atomically on every write.
//
// Layout:
//
//	dir/
//	  states.json
//	  cities.json
//	  feedback.json
type JSONFileStore struct {
	locks collectionLocks
	dir   string
}

func NewJSONFileStore(dir string) (*JSONFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storageErr("mkdir", dir, err)
	}
	return &JSONFileStore{dir: dir}, nil
}

func (s *JSONFileStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func (s *JSONFileStore) Init(_ context.Context, collections ...string) error {
	for _, collection := range collections {
		if err := checkCollection(collection); err != nil {
			return err
		}
		unlock := s.locks.lock(collection)
		_, err := os.Stat(s.path(collection))
		if errors.Is(err, os.ErrNotExist) {
			err = s.write(collection, []content.Document{})
		} else if err != nil {
			err = storageErr("stat", collection, err)
		}
		unlock()
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *JSONFileStore) Load(_ context.Context, collection string) ([]content.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	return s.read(collection)
}

func (s *JSONFileStore) Update(ctx context.Context, collection string, fn UpdateFunc) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	unlock := s.locks.lock(collection)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	docs, err := s.read(collection)
	if err != nil {
		return err
	}
	next, err := fn(docs)
	if err != nil {
		return err
	}
	return s.write(collection, next)
}

func (s *JSONFileStore) Close() error { return nil }

func (s *JSONFileStore) read(collection string) ([]content.Document, error) {
	data, err := os.ReadFile(s.path(collection))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []content.Document{}, nil
		}
		return nil, storageErr("read", collection, err)
	}
	docs := []content.Document{}
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, storageErr("decode", collection, err)
	}
	return docs, nil
}

// write replaces the collection file via a temp file in the same
// directory, so readers never observe a half-written array.
func (s *JSONFileStore) write(collection string, docs []content.Document) error {
	if docs == nil {
		docs = []content.Document{}
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return storageErr("encode", collection, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+collection+"-*.json")
	if err != nil {
		return storageErr("write", collection, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return storageErr("write", collection, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return storageErr("sync", collection, err)
	}
	if err := tmp.Close(); err != nil {
		return storageErr("close", collection, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return storageErr("chmod", collection, err)
	}
	if err := os.Rename(tmpName, s.path(collection)); err != nil {
		return storageErr("rename", collection, err)
	}
	return nil
}
