package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/discovernortheast/internal/content"
)

func TestGetStateEmbedsCities(t *testing.T) {
	svc := NewContentService(newTestStore(t))

	state, err := svc.GetState(context.Background(), "meghalaya")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	cities, ok := state["citiesData"].([]content.Document)
	if !ok {
		t.Fatalf("expected citiesData, got %T", state["citiesData"])
	}
	if len(cities) != 1 || cities[0].Slug() != "shillong" {
		t.Fatalf("unexpected cities %v", cities)
	}

	if _, err := svc.GetState(context.Background(), "goa"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("expected ErrStateNotFound, got %v", err)
	}
	if _, err := svc.GetCity(context.Background(), "goa"); !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("expected ErrCityNotFound, got %v", err)
	}
}

func TestUpdateStateOnlyTouchesAllowedFields(t *testing.T) {
	st := newTestStore(t)
	svc := NewContentService(st)

	_, err := svc.UpdateState(context.Background(), map[string]any{
		"slug":        "meghalaya",
		"name":        "Meghalaya (updated)",
		"festivals":   nil,
		"heroImage":   "/evil.jpg",
		"coords":      map[string]any{"lat": 0.0, "lng": 0.0},
		"unknownKey":  "x",
		"description": "New description",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	states, err := st.Load(context.Background(), content.CollectionStates)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	state := states[content.Find(states, "meghalaya")]

	if state.String("name") != "Meghalaya (updated)" || state.String("description") != "New description" {
		t.Fatalf("allowed fields not written: %v", state)
	}
	if v, ok := state["festivals"]; !ok || v != nil {
		t.Fatalf("null patch value should be written, got %v (present=%v)", v, ok)
	}
	if state.String("heroImage") != "/assets/meghalaya.jpg" {
		t.Fatalf("unlisted field changed: %v", state["heroImage"])
	}
	if _, ok := state["unknownKey"]; ok {
		t.Fatalf("unknown key must not be added")
	}
	if coords, _ := state.Coords(); coords.Lat != 25.5 {
		t.Fatalf("coords changed: %v", coords)
	}
}

func TestUpdateStateErrors(t *testing.T) {
	svc := NewContentService(newTestStore(t))

	_, err := svc.UpdateState(context.Background(), map[string]any{"name": "No slug"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Message != MsgInvalidStateData {
		t.Fatalf("expected invalid state data, got %v", err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("validation error should match ErrValidation")
	}

	if _, err := svc.UpdateState(context.Background(), map[string]any{"slug": "goa"}); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("expected ErrStateNotFound, got %v", err)
	}
	if _, err := svc.UpdateCity(context.Background(), map[string]any{"slug": "goa"}); !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("expected ErrCityNotFound, got %v", err)
	}
}

func TestConcurrentCityUpdatesBothSurvive(t *testing.T) {
	st := newTestStore(t)
	svc := NewContentService(st)

	var wg sync.WaitGroup
	patches := []map[string]any{
		{"slug": "shillong", "summary": "Pine-clad hills"},
		{"slug": "shillong", "history": "Capital of Assam until 1972"},
	}
	for _, patch := range patches {
		wg.Add(1)
		go func(patch map[string]any) {
			defer wg.Done()
			if _, err := svc.UpdateCity(context.Background(), patch); err != nil {
				t.Errorf("update: %v", err)
			}
		}(patch)
	}
	wg.Wait()

	city := loadCity(t, st, "shillong")
	if city.String("summary") != "Pine-clad hills" || city.String("history") != "Capital of Assam until 1972" {
		t.Fatalf("an update was lost: %v", city)
	}
	if city["rating"] != 4.5 {
		t.Fatalf("untouched field lost: %v", city["rating"])
	}
}

func TestHeroSlides(t *testing.T) {
	svc := NewContentService(newTestStore(t))

	slides, err := svc.HeroSlides(context.Background())
	if err != nil {
		t.Fatalf("hero slides: %v", err)
	}
	if len(slides) != 2 {
		t.Fatalf("expected 2 slides, got %d", len(slides))
	}
	first := slides[0]
	if first.Image != "/assets/meghalaya.jpg" || first.CTA == nil || first.CTA.Link != "state.html?slug=meghalaya" {
		t.Fatalf("unexpected slide %+v", first)
	}
	if !strings.Contains(first.DescriptionHTML, "<strong>root</strong>") {
		t.Fatalf("expected rendered markdown, got %q", first.DescriptionHTML)
	}
	if slides[1].Image != content.PlaceholderHero {
		t.Fatalf("expected placeholder hero image, got %q", slides[1].Image)
	}
}

func TestCitySlidesFallbacks(t *testing.T) {
	st := newTestStore(t)
	svc := NewContentService(st)

	slides, err := svc.CitySlides(context.Background(), "shillong")
	if err != nil {
		t.Fatalf("city slides: %v", err)
	}
	if len(slides) != 1 || slides[0].Image != "/assets/ward-lake.jpg" {
		t.Fatalf("expected only the moderated gallery image, got %+v", slides)
	}

	slides, err = svc.CitySlides(context.Background(), "guwahati")
	if err != nil {
		t.Fatalf("city slides: %v", err)
	}
	if len(slides) != 1 || slides[0].Image != content.PlaceholderGallery || slides[0].Alt != "Guwahati - Image 1" {
		t.Fatalf("expected placeholder slide, got %+v", slides)
	}

	st.Seed(content.CollectionCities, []content.Document{{
		"slug": "guwahati", "name": "Guwahati", "featuredImages": []any{"/a.jpg", "/b.jpg"},
	}})
	slides, err = svc.CitySlides(context.Background(), "guwahati")
	if err != nil {
		t.Fatalf("city slides: %v", err)
	}
	if len(slides) != 2 || slides[1].Alt != "Guwahati - Image 2" {
		t.Fatalf("expected featured image slides, got %+v", slides)
	}
}
