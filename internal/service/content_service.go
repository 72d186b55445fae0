package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/discovernortheast/internal/content"
	"github.com/discovernortheast/internal/store"
)

// Fields an admin may overwrite on each collection.
var (
	StateFields = []string{"name", "description", "history", "highlights", "festivals"}
	CityFields  = []string{"name", "summary", "history", "localSpecialties", "explore"}
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	slideSanitizer = bluemonday.UGCPolicy()
)

// ContentService reads states and cities and applies admin field edits.
type ContentService struct {
	store store.Store
}

// NewContentService creates a ContentService instance.
func NewContentService(st store.Store) *ContentService {
	return &ContentService{store: st}
}

// ListStates returns every state in stored order.
func (s *ContentService) ListStates(ctx context.Context) ([]content.Document, error) {
	return loadCollection(ctx, s.store, content.CollectionStates)
}

// GetState returns the state with its cities embedded under citiesData.
func (s *ContentService) GetState(ctx context.Context, slug string) (content.Document, error) {
	states, err := loadCollection(ctx, s.store, content.CollectionStates)
	if err != nil {
		return nil, err
	}
	idx := content.Find(states, slug)
	if idx < 0 {
		return nil, ErrStateNotFound
	}

	cities, err := loadCollection(ctx, s.store, content.CollectionCities)
	if err != nil {
		return nil, err
	}

	state := states[idx]
	state["citiesData"] = content.CitiesOf(cities, slug)
	return state, nil
}

// ListCities returns every city in stored order.
func (s *ContentService) ListCities(ctx context.Context) ([]content.Document, error) {
	return loadCollection(ctx, s.store, content.CollectionCities)
}

// GetCity returns a single city.
func (s *ContentService) GetCity(ctx context.Context, slug string) (content.Document, error) {
	cities, err := loadCollection(ctx, s.store, content.CollectionCities)
	if err != nil {
		return nil, err
	}
	idx := content.Find(cities, slug)
	if idx < 0 {
		return nil, ErrCityNotFound
	}
	return cities[idx], nil
}

// UpdateState applies an admin patch to the state named by patch["slug"].
func (s *ContentService) UpdateState(ctx context.Context, patch map[string]any) (content.Document, error) {
	slug, _ := patch["slug"].(string)
	if strings.TrimSpace(slug) == "" {
		return nil, invalid(MsgInvalidStateData)
	}
	return s.ReplaceFields(ctx, content.CollectionStates, slug, patch, StateFields)
}

// UpdateCity applies an admin patch to the city named by patch["slug"].
func (s *ContentService) UpdateCity(ctx context.Context, patch map[string]any) (content.Document, error) {
	slug, _ := patch["slug"].(string)
	if strings.TrimSpace(slug) == "" {
		return nil, invalid(MsgInvalidCityData)
	}
	return s.ReplaceFields(ctx, content.CollectionCities, slug, patch, CityFields)
}

// ReplaceFields overwrites the allowed keys present in patch on the record
// with slug and persists the whole collection. A key whose value is null
// is still present and is written. Keys outside allowed are ignored.
func (s *ContentService) ReplaceFields(ctx context.Context, collection, slug string, patch map[string]any, allowed []string) (content.Document, error) {
	var updated content.Document
	err := updateCollection(ctx, s.store, collection, func(docs []content.Document) ([]content.Document, error) {
		idx := content.Find(docs, slug)
		if idx < 0 {
			return nil, notFoundFor(collection)
		}
		for _, field := range allowed {
			if value, ok := patch[field]; ok {
				docs[idx][field] = value
			}
		}
		updated = docs[idx]
		return docs, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// HeroSlides builds one hero slide per state for the home page.
func (s *ContentService) HeroSlides(ctx context.Context) ([]content.CarouselSlide, error) {
	states, err := loadCollection(ctx, s.store, content.CollectionStates)
	if err != nil {
		return nil, err
	}
	slides := make([]content.CarouselSlide, 0, len(states))
	for _, state := range states {
		slide := content.StateSlide(state)
		slide.DescriptionHTML = renderMarkdown(slide.Description)
		slides = append(slides, slide)
	}
	return slides, nil
}

// CitySlides builds the slides of a city page: featured images first, then
// the visible gallery, then a single placeholder.
func (s *ContentService) CitySlides(ctx context.Context, slug string) ([]content.CarouselSlide, error) {
	city, err := s.GetCity(ctx, slug)
	if err != nil {
		return nil, err
	}
	name := city.String("name")

	if featured := city.Strings("featuredImages"); len(featured) > 0 {
		slides := make([]content.CarouselSlide, 0, len(featured))
		for i, image := range featured {
			slides = append(slides, content.CarouselSlide{
				Image: image,
				Alt:   fmt.Sprintf("%s - Image %d", name, i+1),
			})
		}
		return slides, nil
	}

	visible := content.VisibleGallery(content.Gallery(city))
	if len(visible) == 0 {
		return []content.CarouselSlide{{
			Image: content.PlaceholderGallery,
			Alt:   fmt.Sprintf("%s - Image 1", name),
		}}, nil
	}

	slides := make([]content.CarouselSlide, 0, len(visible))
	for _, img := range visible {
		slide := content.GallerySlide(img, name)
		slide.DescriptionHTML = renderMarkdown(slide.Description)
		slides = append(slides, slide)
	}
	return slides, nil
}

func renderMarkdown(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(text), &buf); err != nil {
		return slideSanitizer.Sanitize(text)
	}
	return string(slideSanitizer.SanitizeBytes(buf.Bytes()))
}
