package service

import (
	"context"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/discovernortheast/internal/content"
	"github.com/discovernortheast/internal/store"
)

const testStates = `[
	{"slug":"meghalaya","name":"Meghalaya","tagline":"Abode of Clouds","description":"Living **root** bridges","heroImage":"/assets/meghalaya.jpg","coords":{"lat":25.5,"lng":91.3},"cities":["shillong"]},
	{"slug":"assam","name":"Assam","description":"Tea gardens","coords":{"lat":26.2,"lng":92.9},"cities":["guwahati"]}
]`

const testCities = `[
	{"slug":"shillong","stateSlug":"meghalaya","name":"Shillong","summary":"Scotland of the East","rating":4.5,"gallery":[
		{"id":"seed-1","url":"/assets/ward-lake.jpg","caption":"Ward's Lake"},
		{"id":"up-1","url":"/uploads/pending.jpg","caption":"Police Bazaar","moderated":false,"uploadedAt":"2024-05-01T10:00:00Z"}
	]},
	{"slug":"guwahati","stateSlug":"assam","name":"Guwahati","summary":"Gateway to the Northeast"}
]`

func decodeFixture(t *testing.T, raw string) []content.Document {
	t.Helper()
	var docs []content.Document
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return docs
}

func newTestStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	if err := st.Init(context.Background(), content.CollectionStates, content.CollectionCities, content.CollectionFeedback); err != nil {
		t.Fatalf("init store: %v", err)
	}
	st.Seed(content.CollectionStates, decodeFixture(t, testStates))
	st.Seed(content.CollectionCities, decodeFixture(t, testCities))
	return st
}

func loadCity(t *testing.T, st store.Store, slug string) content.Document {
	t.Helper()
	cities, err := st.Load(context.Background(), content.CollectionCities)
	if err != nil {
		t.Fatalf("load cities: %v", err)
	}
	idx := content.Find(cities, slug)
	if idx < 0 {
		t.Fatalf("city %s missing", slug)
	}
	return cities[idx]
}
