package service

import (
	"context"
	"errors"
	"time"

	"github.com/discovernortheast/internal/content"
	"github.com/discovernortheast/internal/metrics"
	"github.com/discovernortheast/internal/store"
)

func loadCollection(ctx context.Context, st store.Store, collection string) ([]content.Document, error) {
	start := time.Now()
	docs, err := st.Load(ctx, collection)
	metrics.RecordStoreOperation("load", collection, time.Since(start), err)
	return docs, err
}

func updateCollection(ctx context.Context, st store.Store, collection string, fn store.UpdateFunc) error {
	start := time.Now()
	err := st.Update(ctx, collection, fn)
	var storeErr error
	if errors.Is(err, store.ErrStorage) {
		storeErr = err
	}
	metrics.RecordStoreOperation("update", collection, time.Since(start), storeErr)
	return err
}

func notFoundFor(collection string) error {
	switch collection {
	case content.CollectionStates:
		return ErrStateNotFound
	case content.CollectionCities:
		return ErrCityNotFound
	default:
		return ErrNotFound
	}
}
