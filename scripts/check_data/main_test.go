package main

import (
	"context"
	"strings"
	"testing"

	"github.com/discovernortheast/internal/content"
	"github.com/discovernortheast/internal/store"
)

func seededStore(t *testing.T, states, cities []content.Document) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	if err := st.Init(context.Background(), content.CollectionStates, content.CollectionCities); err != nil {
		t.Fatalf("init: %v", err)
	}
	st.Seed(content.CollectionStates, states)
	st.Seed(content.CollectionCities, cities)
	return st
}

func TestCheckConsistentData(t *testing.T) {
	st := seededStore(t,
		[]content.Document{{"slug": "sikkim", "name": "Sikkim", "coords": map[string]any{"lat": 27.5, "lng": 88.5}, "cities": []any{"gangtok", "pelling"}}},
		[]content.Document{
			{"slug": "gangtok", "stateSlug": "sikkim", "coords": map[string]any{"lat": 27.33, "lng": 88.61}},
			{"slug": "pelling", "stateSlug": "sikkim", "coords": map[string]any{"lat": 27.3, "lng": 88.23}},
		},
	)

	problems, err := check(context.Background(), st, 1, 2)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(problems) != 0 {
		t.Fatalf("expected no problems, got %v", problems)
	}
}

func TestCheckReportsProblems(t *testing.T) {
	st := seededStore(t,
		[]content.Document{{"slug": "sikkim", "coords": map[string]any{"lat": 27.5, "lng": 88.5}, "cities": []any{"gangtok"}}},
		[]content.Document{{"slug": "gangtok", "stateSlug": "bhutan", "coords": map[string]any{"lat": 27.33, "lng": 88.61}}},
	)

	problems, err := check(context.Background(), st, 8, 2)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	joined := strings.Join(problems, "\n")
	for _, want := range []string{"expected 8 states", "missing name", "lists 1 cities", `unknown stateSlug "bhutan"`} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in problems:\n%s", want, joined)
		}
	}
}
