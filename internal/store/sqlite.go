package store

import (
	"context"
	"errors"

	json "github.com/goccy/go-json"
	"gorm.io/gorm"

	"github.com/discovernortheast/internal/content"
	"github.com/discovernortheast/internal/db"
)

// SQLiteStore keeps one row per document in the content_records table.
// Update rewrites a collection inside a single transaction.
type SQLiteStore struct {
	locks collectionLocks
	db    *gorm.DB
}

// NewSQLiteStore opens (and migrates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	gdb, err := db.Open(path)
	if err != nil {
		return nil, storageErr("open", path, err)
	}
	return &SQLiteStore{db: gdb}, nil
}

// NewSQLiteStoreFromDB wraps an already migrated connection.
func NewSQLiteStoreFromDB(gdb *gorm.DB) *SQLiteStore {
	return &SQLiteStore{db: gdb}
}

// Init is a no-op beyond validation; an empty collection has no rows.
func (s *SQLiteStore) Init(_ context.Context, collections ...string) error {
	for _, collection := range collections {
		if err := checkCollection(collection); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, collection string) ([]content.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	return loadRecords(s.db.WithContext(ctx), collection)
}

func (s *SQLiteStore) Update(ctx context.Context, collection string, fn UpdateFunc) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	unlock := s.locks.lock(collection)
	defer unlock()

	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		docs, err := loadRecords(tx, collection)
		if err != nil {
			return err
		}
		next, err := fn(docs)
		if err != nil {
			fnErr = err
			return err
		}

		if err := tx.Where("collection = ?", collection).Delete(&db.ContentRecord{}).Error; err != nil {
			return storageErr("delete", collection, err)
		}
		if len(next) == 0 {
			return nil
		}

		records := make([]db.ContentRecord, 0, len(next))
		for i, doc := range next {
			body, err := json.Marshal(doc)
			if err != nil {
				return storageErr("encode", collection, err)
			}
			records = append(records, db.ContentRecord{
				Collection: collection,
				Position:   i,
				Slug:       doc.Slug(),
				Body:       string(body),
			})
		}
		if err := tx.CreateInBatches(&records, 100).Error; err != nil {
			return storageErr("insert", collection, err)
		}
		return nil
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil && !errors.Is(err, ErrStorage) {
		return storageErr("commit", collection, err)
	}
	return err
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func loadRecords(tx *gorm.DB, collection string) ([]content.Document, error) {
	var records []db.ContentRecord
	if err := tx.Where("collection = ?", collection).Order("position asc").Find(&records).Error; err != nil {
		return nil, storageErr("query", collection, err)
	}
	docs := make([]content.Document, 0, len(records))
	for _, rec := range records {
		var doc content.Document
		if err := json.Unmarshal([]byte(rec.Body), &doc); err != nil {
			return nil, storageErr("decode", collection, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
